package common

import (
	"encoding/binary"
	"math/big"

	"github.com/0xPolygon/cdk-verifier/log"
	"github.com/ethereum/go-ethereum/common"
	"github.com/iden3/go-iden3-crypto/keccak256"
)

// Uint64ToBytes converts a uint64 to a byte slice
func Uint64ToBytes(num uint64) []byte {
	const uint64ByteSize = 8

	bytes := make([]byte, uint64ByteSize)
	binary.BigEndian.PutUint64(bytes, num)

	return bytes
}

// BytesToUint64 converts a byte slice to a uint64
func BytesToUint64(bytes []byte) uint64 {
	return binary.BigEndian.Uint64(bytes)
}

// Uint32ToBytes converts a uint32 to a byte slice in big-endian order
func Uint32ToBytes(num uint32) []byte {
	const uint32ByteSize = 4

	key := make([]byte, uint32ByteSize)
	binary.BigEndian.PutUint32(key, num)

	return key
}

// BytesToUint32 converts a byte slice to a uint32
func BytesToUint32(bytes []byte) uint32 {
	return binary.BigEndian.Uint32(bytes)
}

// Uint16ToBytes converts a uint16 to a byte slice in big-endian order
func Uint16ToBytes(num uint16) []byte {
	const uint16ByteSize = 2

	key := make([]byte, uint16ByteSize)
	binary.BigEndian.PutUint16(key, num)

	return key
}

// BytesToUint16 converts a byte slice to a uint16
func BytesToUint16(bytes []byte) uint16 {
	return binary.BigEndian.Uint16(bytes)
}

// BigToBytes32 left pads the absolute value of v to 32 bytes. Nil is zero.
func BigToBytes32(v *big.Int) []byte {
	out := make([]byte, common.HashLength)
	if v == nil {
		return out
	}
	return v.FillBytes(out)
}

// BatchHeader holds the fields committed by a batch hash
type BatchHeader struct {
	Version              uint8
	BatchIndex           uint64
	L1MessagePopped      uint64
	TotalL1MessagePopped uint64
	DataHash             common.Hash
	ParentBatchHash      common.Hash
	BlobVersionedHash    *common.Hash
}

// Bytes returns the canonical encoding of the header
func (h BatchHeader) Bytes() []byte {
	out := make([]byte, 0, 1+3*8+3*common.HashLength) //nolint:mnd
	out = append(out, h.Version)
	out = append(out, Uint64ToBytes(h.BatchIndex)...)
	out = append(out, Uint64ToBytes(h.L1MessagePopped)...)
	out = append(out, Uint64ToBytes(h.TotalL1MessagePopped)...)
	out = append(out, h.DataHash.Bytes()...)
	out = append(out, h.ParentBatchHash.Bytes()...)
	if h.BlobVersionedHash != nil {
		out = append(out, h.BlobVersionedHash.Bytes()...)
	}
	return out
}

// CalculateBatchHash computes the hash binding a batch header.
func CalculateBatchHash(logger *log.Logger, header BatchHeader) common.Hash {
	logger.Debugf("Version: %d", header.Version)
	logger.Debugf("BatchIndex: %d", header.BatchIndex)
	logger.Debugf("L1MessagePopped: %d", header.L1MessagePopped)
	logger.Debugf("TotalL1MessagePopped: %d", header.TotalL1MessagePopped)
	logger.Debugf("DataHash: %v", header.DataHash)
	logger.Debugf("ParentBatchHash: %v", header.ParentBatchHash)
	if header.BlobVersionedHash != nil {
		logger.Debugf("BlobVersionedHash: %v", *header.BlobVersionedHash)
	}

	return common.BytesToHash(keccak256.Hash(header.Bytes()))
}
