package dacodec

import (
	"errors"
	"fmt"

	"github.com/0xPolygon/cdk-verifier/stackerr"
	"github.com/ethereum/go-ethereum/common"
)

// Context frames attached by the codec.
const (
	FrameParseBatchTaskFromCalldata = "ParseBatchTaskFromCalldata"
	FrameEncodeBatchChunk           = "EncodeBatchChunk"
	FrameBuildChunkHash             = "BuildChunkHash"
)

// maxErrDataLen bounds the bytes printed by errors that carry raw data.
const maxErrDataLen = 64

// BatchError is implemented by every leaf and wrapped error of the codec.
type BatchError interface {
	error
	batchError()
}

// IsBatchError reports whether err (or any error it wraps) comes from the codec.
func IsBatchError(err error) bool {
	var batchErr BatchError
	return errors.As(err, &batchErr)
}

var (
	// ErrMissingChunks is returned for a batch without chunks
	ErrMissingChunks = &sentinelError{"MissingChunks"}
	// ErrTooFewBlocksInLastChunk is returned when the last chunk is below the minimum block count
	ErrTooFewBlocksInLastChunk = &sentinelError{"TooFewBlocksInLastChunk"}
	// ErrNumL1TxTooLarge is returned when the batch carries too many L1 messages
	ErrNumL1TxTooLarge = &sentinelError{"NumL1TxTooLarge"}
	// ErrNumTxTooLarge is returned when the batch carries too many transactions
	ErrNumTxTooLarge = &sentinelError{"NumTxTooLarge"}
	// ErrUnknownBlock is returned when a context refers to a block the batch does not contain
	ErrUnknownBlock = &sentinelError{"UnknownBlock"}
)

type sentinelError struct {
	name string
}

func (e *sentinelError) Error() string { return e.name }
func (e *sentinelError) batchError()   {}

// UnknownBatchVersionError is returned when no codec is registered for a version
type UnknownBatchVersionError struct {
	Version uint8
}

func (e *UnknownBatchVersionError) Error() string {
	return fmt.Sprintf("UnknownBatchVersion(%d)", e.Version)
}
func (e *UnknownBatchVersionError) batchError() {}

// InvalidDABatchDataError is returned when the calldata is shorter than its version requires
type InvalidDABatchDataError struct {
	Version     uint8
	WantAtLeast int
	Got         int
}

func (e *InvalidDABatchDataError) Error() string {
	return fmt.Sprintf("InvalidDABatchData{version: %d, want_at_least: %d, got: %d}",
		e.Version, e.WantAtLeast, e.Got)
}
func (e *InvalidDABatchDataError) batchError() {}

// InvalidBlockNumbersError is returned for a malformed block number region
type InvalidBlockNumbersError struct {
	Data   []byte
	Reason string
}

func (e *InvalidBlockNumbersError) Error() string {
	return fmt.Sprintf("InvalidBlockNumbers(%s): %s", shortHex(e.Data), e.Reason)
}
func (e *InvalidBlockNumbersError) batchError() {}

// InvalidBlockBytesError is returned for a malformed block body region
type InvalidBlockBytesError struct {
	Data   []byte
	Reason string
}

func (e *InvalidBlockBytesError) Error() string {
	return fmt.Sprintf("InvalidBlockBytes(%s): %s", shortHex(e.Data), e.Reason)
}
func (e *InvalidBlockBytesError) batchError() {}

// InvalidNumBlockError is returned when a block count does not fit the data around it
type InvalidNumBlockError struct {
	NumBlocks int
}

func (e *InvalidNumBlockError) Error() string {
	return fmt.Sprintf("InvalidNumBlock(%d)", e.NumBlocks)
}
func (e *InvalidNumBlockError) batchError() {}

// InvalidL1NonceError is returned when an L1 message does not carry the next queue index
type InvalidL1NonceError struct {
	Expect  uint64
	Current uint64
	BatchID uint64
	ChunkID int
	BlockID int
	TxHash  common.Hash
}

func (e *InvalidL1NonceError) Error() string {
	return fmt.Sprintf("InvalidL1Nonce{expect: %d, current: %d, batch_id: %d, chunk_id: %d, block_id: %d, tx_hash: %s}",
		e.Expect, e.Current, e.BatchID, e.ChunkID, e.BlockID, e.TxHash.Hex())
}
func (e *InvalidL1NonceError) batchError() {}

// MismatchBatchVersionAndBlockError is returned when a block belongs to another batch version
type MismatchBatchVersionAndBlockError struct {
	BlockBatchVersion  uint8
	ParentBatchVersion uint8
}

func (e *MismatchBatchVersionAndBlockError) Error() string {
	return fmt.Sprintf("MismatchBatchVersionAndBlock{block_batch_version: %d, parent_batch_version: %d}",
		e.BlockBatchVersion, e.ParentBatchVersion)
}
func (e *MismatchBatchVersionAndBlockError) batchError() {}

// TooManyChunksError is returned when a batch has more chunks than its version allows
type TooManyChunksError struct {
	Max int
}

func (e *TooManyChunksError) Error() string {
	return fmt.Sprintf("TooManyChunks{max: %d}", e.Max)
}
func (e *TooManyChunksError) batchError() {}

// OversizedBatchPayloadError is returned when the blob payload exceeds the blob capacity
type OversizedBatchPayloadError struct {
	Size int
}

func (e *OversizedBatchPayloadError) Error() string {
	return fmt.Sprintf("OversizedBatchPayload{size: %d}", e.Size)
}
func (e *OversizedBatchPayloadError) batchError() {}

// ZstdEncodeError is returned when the compressor fails
type ZstdEncodeError struct {
	Msg string
}

func (e *ZstdEncodeError) Error() string { return "ZstdEncode(" + e.Msg + ")" }
func (e *ZstdEncodeError) batchError()   {}

// KzgError is returned when the blob commitment cannot be computed
type KzgError struct {
	Msg string
}

func (e *KzgError) Error() string { return "KzgError(" + e.Msg + ")" }
func (e *KzgError) batchError()   {}

// Position locates a block inside a batch
type Position struct {
	Chunk int
	Block int
}

func (p Position) String() string {
	return fmt.Sprintf("(%d, %d)", p.Chunk, p.Block)
}

// UnexpectedBlockError is returned when a context is not at the position the batch expects
type UnexpectedBlockError struct {
	Want Position
	Got  Position
}

func (e *UnexpectedBlockError) Error() string {
	return fmt.Sprintf("UnexpectedBlock{want: %s, got: %s}", e.Want, e.Got)
}
func (e *UnexpectedBlockError) batchError() {}

// ZstdDataCompatibilityError wraps a DataCompatibilityError found in a committed blob
type ZstdDataCompatibilityError struct {
	Err error
}

func (e *ZstdDataCompatibilityError) Error() string {
	return "ZstdDataCompatibility: " + e.Err.Error()
}
func (e *ZstdDataCompatibilityError) Unwrap() error { return e.Err }
func (e *ZstdDataCompatibilityError) batchError()   {}

// DataCompatibilityError is implemented by the errors of CheckCompressedDataCompatibility
type DataCompatibilityError interface {
	error
	dataCompatibilityError()
}

// ErrUnexpectedEndBeforeLastBlock is returned when the stream ends without a last block
var ErrUnexpectedEndBeforeLastBlock = &compatSentinelError{"UnexpectedEndBeforeLastBlock"}

type compatSentinelError struct {
	name string
}

func (e *compatSentinelError) Error() string           { return e.name }
func (e *compatSentinelError) dataCompatibilityError() {}

// SizeTooSmallError is returned for a stream too short to hold a frame
type SizeTooSmallError struct {
	Data []byte
}

func (e *SizeTooSmallError) Error() string {
	return fmt.Sprintf("SizeTooSmall(%s)", shortHex(e.Data))
}
func (e *SizeTooSmallError) dataCompatibilityError() {}

// UnexpectedHeaderTypeError is returned when the frame header descriptor is not the expected one
type UnexpectedHeaderTypeError struct {
	Header uint8
}

func (e *UnexpectedHeaderTypeError) Error() string {
	return fmt.Sprintf("UnexpectedHeaderType(%#x)", e.Header)
}
func (e *UnexpectedHeaderTypeError) dataCompatibilityError() {}

// UnexpectedBlkTypeError is returned for a block that is not a compressed block
type UnexpectedBlkTypeError struct {
	BlkType uint8
	BlkSize int
	IsLast  bool
}

func (e *UnexpectedBlkTypeError) Error() string {
	return fmt.Sprintf("UnexpectedBlkType{blk_ty: %d, blk_size: %d, is_last: %t}", e.BlkType, e.BlkSize, e.IsLast)
}
func (e *UnexpectedBlkTypeError) dataCompatibilityError() {}

// WrongDataLenError is returned when a block declares more bytes than remain
type WrongDataLenError struct {
	Len int
	Min int
}

func (e *WrongDataLenError) Error() string {
	return fmt.Sprintf("WrongDataLen{len: %d, min: %d}", e.Len, e.Min)
}
func (e *WrongDataLenError) dataCompatibilityError() {}

func shortHex(data []byte) string {
	if len(data) > maxErrDataLen {
		return fmt.Sprintf("%x...(%d bytes)", data[:maxErrDataLen], len(data))
	}
	return fmt.Sprintf("%x", data)
}

func parseFrame(err error) error {
	return stackerr.Wrap(err, FrameParseBatchTaskFromCalldata)
}
