package dacodec

import (
	"crypto/sha256"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto/kzg4844"
)

const (
	fieldElementsPerBlob = 4096
	bytesPerFieldElement = 32
	// the leading byte of every field element stays zero to remain below the BLS modulus
	usableBytesPerFieldElement = bytesPerFieldElement - 1

	// MaxBlobPayloadSize is the number of payload bytes a blob can carry
	MaxBlobPayloadSize = fieldElementsPerBlob * usableBytesPerFieldElement
)

// payloadToBlob packs a payload into the field elements of a blob
func payloadToBlob(payload []byte) (*kzg4844.Blob, error) {
	if len(payload) > MaxBlobPayloadSize {
		return nil, &OversizedBatchPayloadError{Size: len(payload)}
	}
	blob := &kzg4844.Blob{}
	for i := 0; i*usableBytesPerFieldElement < len(payload); i++ {
		from := i * usableBytesPerFieldElement
		to := from + usableBytesPerFieldElement
		if to > len(payload) {
			to = len(payload)
		}
		copy(blob[i*bytesPerFieldElement+1:], payload[from:to])
	}
	return blob, nil
}

// commitPayload returns the versioned hash of the blob holding the payload
func commitPayload(payload []byte) (common.Hash, error) {
	blob, err := payloadToBlob(payload)
	if err != nil {
		return common.Hash{}, err
	}
	commitment, err := kzg4844.BlobToCommitment(blob)
	if err != nil {
		return common.Hash{}, &KzgError{Msg: err.Error()}
	}
	return common.Hash(kzg4844.CalcBlobHashV1(sha256.New(), &commitment)), nil
}
