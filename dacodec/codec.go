// Package dacodec decodes committed batch calldata into batch tasks, builds
// batch tasks from executed blocks and computes the batch hash both ways.
package dacodec

import (
	"math"
	"sort"

	"github.com/0xPolygon/cdk-verifier/log"
)

// Batch versions known by the default codec.
const (
	// BatchV0 carries the transactions inside the chunks
	BatchV0 uint8 = 0
	// BatchV1 carries the transactions in an uncompressed blob
	BatchV1 uint8 = 1
	// BatchV2 carries the transactions in a zstd compressed blob
	BatchV2 uint8 = 2
)

const (
	// calldata header: version | batch index | L1 messages popped before | parent hash | num chunks
	calldataHeaderLen = 1 + 8 + 8 + 32 + 1
	chunkLenPrefix    = 4
	blobLenPrefix     = 4
	txLenPrefix       = 4

	// block context: number | timestamp | base fee | gas limit | num txs | num L1 msgs
	blockContextLen = 8 + 8 + 32 + 8 + 2 + 2
	// bytes of a block context covered by the chunk hash (num L1 msgs excluded)
	blockContextHashedLen = blockContextLen - 2

	defaultMaxNumTx   = math.MaxUint16
	defaultMaxNumL1Tx = math.MaxUint16
)

// MaxBlocksPerChunk is the largest block count a chunk can declare
const MaxBlocksPerChunk = math.MaxUint8

// VersionSpec holds the encoding rules and limits of one batch version
type VersionSpec struct {
	Version uint8
	// MaxChunks is the maximum number of chunks in a batch
	MaxChunks int
	// MinBlocksInLastChunk is the minimum number of blocks of the last chunk
	MinBlocksInLastChunk int
	// MaxNumTx is the maximum number of transactions in a batch
	MaxNumTx int
	// MaxNumL1Tx is the maximum number of L1 messages in a batch
	MaxNumL1Tx int
	// Blob is set when the transactions travel in a committed data blob
	Blob bool
	// Compressed is set when the blob payload is zstd compressed
	Compressed bool
}

// MinCalldataLen returns the smallest calldata a batch of this version can have
func (s VersionSpec) MinCalldataLen() int {
	if s.Blob {
		return calldataHeaderLen + blobLenPrefix
	}
	return calldataHeaderLen
}

// DefaultVersionSpecs returns the rules of every version known by the default codec
func DefaultVersionSpecs() []VersionSpec {
	return []VersionSpec{
		{
			Version:              BatchV0,
			MaxChunks:            15, //nolint:mnd
			MinBlocksInLastChunk: 1,
			MaxNumTx:             defaultMaxNumTx,
			MaxNumL1Tx:           defaultMaxNumL1Tx,
		},
		{
			Version:              BatchV1,
			MaxChunks:            15, //nolint:mnd
			MinBlocksInLastChunk: 1,
			MaxNumTx:             defaultMaxNumTx,
			MaxNumL1Tx:           defaultMaxNumL1Tx,
			Blob:                 true,
		},
		{
			Version:              BatchV2,
			MaxChunks:            45, //nolint:mnd
			MinBlocksInLastChunk: 1,
			MaxNumTx:             defaultMaxNumTx,
			MaxNumL1Tx:           defaultMaxNumL1Tx,
			Blob:                 true,
			Compressed:           true,
		},
	}
}

// Codec decodes and builds batches for a set of versions
type Codec struct {
	specs  map[uint8]VersionSpec
	logger *log.Logger
}

// NewCodec returns a codec knowing the given versions
func NewCodec(specs ...VersionSpec) *Codec {
	c := &Codec{specs: make(map[uint8]VersionSpec, len(specs))}
	for _, s := range specs {
		c.specs[s.Version] = s
	}
	return c
}

var defaultCodec = NewCodec(DefaultVersionSpecs()...)

// WithLogger returns a copy of the codec logging through logger
func (c *Codec) WithLogger(logger *log.Logger) *Codec {
	return &Codec{specs: c.specs, logger: logger}
}

// DefaultCodec returns the codec of the known batch versions
func DefaultCodec() *Codec {
	return defaultCodec
}

// Spec returns the rules of a version
func (c *Codec) Spec(version uint8) (VersionSpec, error) {
	s, ok := c.specs[version]
	if !ok {
		return VersionSpec{}, &UnknownBatchVersionError{Version: version}
	}
	return s, nil
}

// Versions returns the registered versions in ascending order
func (c *Codec) Versions() []uint8 {
	versions := make([]uint8, 0, len(c.specs))
	for v := range c.specs {
		versions = append(versions, v)
	}
	sort.Slice(versions, func(i, j int) bool { return versions[i] < versions[j] })
	return versions
}

// MaxBatchBlocks returns the largest number of blocks a batch of any
// registered version can hold.
func (c *Codec) MaxBatchBlocks() uint64 {
	var maxChunks int
	for _, s := range c.specs {
		if s.MaxChunks > maxChunks {
			maxChunks = s.MaxChunks
		}
	}
	return uint64(maxChunks) * MaxBlocksPerChunk
}

// FromCalldata decodes calldata with the default codec
func FromCalldata(calldata []byte) (*BatchTask, error) {
	return defaultCodec.Decode(calldata)
}
