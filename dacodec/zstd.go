package dacodec

import (
	"errors"
	"fmt"

	"github.com/klauspost/compress/zstd"
)

const (
	// envelope flag heading the payload of compressed versions
	envelopeRaw        = 0x00
	envelopeCompressed = 0x01

	minCompressedLen = 16
	blockHeaderLen   = 3
	blockTypeCompr   = 2

	// fhdExpected: single segment, no checksum, no dictionary id
	fhdExpected = 0x20
	fhdMask     = 0x3f

	maxDecompressedLen = 64 << 20
)

var zstdMagic = []byte{0x28, 0xb5, 0x2f, 0xfd}

var (
	zstdEncoder *zstd.Encoder
	zstdDecoder *zstd.Decoder
)

func init() {
	var err error
	zstdEncoder, err = zstd.NewWriter(nil,
		zstd.WithEncoderConcurrency(1),
		zstd.WithEncoderCRC(false),
		zstd.WithSingleSegment(true),
		zstd.WithEncoderLevel(zstd.SpeedBetterCompression),
	)
	if err != nil {
		panic(fmt.Sprintf("dacodec: zstd encoder: %v", err))
	}
	zstdDecoder, err = zstd.NewReader(nil,
		zstd.WithDecoderConcurrency(0),
		zstd.WithDecoderMaxMemory(maxDecompressedLen),
	)
	if err != nil {
		panic(fmt.Sprintf("dacodec: zstd decoder: %v", err))
	}
}

// compressPayload compresses the payload into a zstd frame without magic number
func compressPayload(payload []byte) ([]byte, error) {
	if len(payload) == 0 {
		return nil, errors.New("empty payload")
	}
	frame := zstdEncoder.EncodeAll(payload, nil)
	if len(frame) < len(zstdMagic) {
		return nil, fmt.Errorf("short zstd frame: %d bytes", len(frame))
	}
	return frame[len(zstdMagic):], nil
}

func decompressPayload(frame []byte) ([]byte, error) {
	data := make([]byte, 0, len(zstdMagic)+len(frame))
	data = append(data, zstdMagic...)
	data = append(data, frame...)
	return zstdDecoder.DecodeAll(data, nil)
}

// encodeEnvelope compresses the payload when the compressed stream is usable
// by the commitment scheme and it is shorter, otherwise it keeps it raw.
func encodeEnvelope(payload []byte) ([]byte, error) {
	if len(payload) > 0 {
		frame, err := compressPayload(payload)
		if err != nil {
			return nil, &ZstdEncodeError{Msg: err.Error()}
		}
		if CheckCompressedDataCompatibility(frame) == nil && len(frame) < len(payload) {
			return append([]byte{envelopeCompressed}, frame...), nil
		}
	}
	return append([]byte{envelopeRaw}, payload...), nil
}

// decodeEnvelope returns the raw payload of a committed envelope
func decodeEnvelope(envelope []byte) ([]byte, error) {
	if len(envelope) == 0 {
		return nil, &InvalidBlockBytesError{Reason: "empty blob envelope"}
	}
	switch envelope[0] {
	case envelopeRaw:
		return envelope[1:], nil
	case envelopeCompressed:
		frame := envelope[1:]
		if err := CheckCompressedDataCompatibility(frame); err != nil {
			return nil, &ZstdDataCompatibilityError{Err: err}
		}
		payload, err := decompressPayload(frame)
		if err != nil {
			return nil, &InvalidBlockBytesError{Data: frame, Reason: fmt.Sprintf("zstd decode: %v", err)}
		}
		return payload, nil
	default:
		return nil, &InvalidBlockBytesError{Data: envelope[:1], Reason: "unknown blob envelope flag"}
	}
}

// CheckCompressedDataCompatibility checks that a zstd frame (without magic
// number) only uses the features the blob decoder supports: a single segment
// frame with content size and no checksum, made of compressed blocks.
func CheckCompressedDataCompatibility(data []byte) error {
	if len(data) < minCompressedLen {
		return &SizeTooSmallError{Data: data}
	}
	fheader := data[0]
	if fheader&fhdMask != fhdExpected {
		return &UnexpectedHeaderTypeError{Header: fheader}
	}
	// skip the descriptor and the frame content size
	switch fheader >> 6 { //nolint:mnd
	case 0:
		data = data[2:]
	case 1:
		data = data[3:]
	case 2: //nolint:mnd
		data = data[5:]
	case 3: //nolint:mnd
		data = data[9:]
	}

	isLast := false
	for len(data) > blockHeaderLen && !isLast {
		isLast = data[0]&1 == 1
		blkType := (data[0] >> 1) & 3                                       //nolint:mnd
		blkSize := (int(data[2])<<16 | int(data[1])<<8 | int(data[0])) >> 3 //nolint:mnd
		if blkType != blockTypeCompr {
			return &UnexpectedBlkTypeError{BlkType: blkType, BlkSize: blkSize, IsLast: isLast}
		}
		if len(data) < blockHeaderLen+blkSize {
			return &WrongDataLenError{Len: len(data), Min: blockHeaderLen + blkSize}
		}
		data = data[blockHeaderLen+blkSize:]
	}
	if !isLast {
		return ErrUnexpectedEndBeforeLastBlock
	}
	return nil
}
