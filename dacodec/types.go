package dacodec

import (
	"math/big"

	"github.com/0xPolygon/cdk-verifier/common"
	ethcommon "github.com/ethereum/go-ethereum/common"
)

// BlockContext is what the builder needs to know about an executed block
type BlockContext interface {
	Number() uint64
	Timestamp() uint64
	BaseFee() *big.Int
	GasLimit() uint64
	// Transactions returns the raw transactions of the block, L1 messages first
	Transactions() [][]byte
	// BatchVersion returns the batch version the block belongs to
	BatchVersion() uint8
}

// Block is a block as committed in a batch
type Block struct {
	Number    uint64
	Timestamp uint64
	BaseFee   *big.Int
	GasLimit  uint64
	// L1MsgNonce is the queue index expected for the first L1 message of the block
	L1MsgNonce uint64
	// NumL1Msgs is the number of L1 messages heading Txs
	NumL1Msgs int
	Txs       [][]byte
}

func (b *Block) encodeContext() []byte {
	out := make([]byte, 0, blockContextLen)
	out = append(out, common.Uint64ToBytes(b.Number)...)
	out = append(out, common.Uint64ToBytes(b.Timestamp)...)
	out = append(out, common.BigToBytes32(b.BaseFee)...)
	out = append(out, common.Uint64ToBytes(b.GasLimit)...)
	out = append(out, common.Uint16ToBytes(uint16(len(b.Txs)))...)
	out = append(out, common.Uint16ToBytes(uint16(b.NumL1Msgs))...)
	return out
}

// Chunk is an ordered run of blocks of a batch
type Chunk struct {
	Blocks []*Block
	hash   ethcommon.Hash
}

// Hash returns the chunk hash
func (c *Chunk) Hash() ethcommon.Hash {
	return c.hash
}

// BatchMeta are the batch fields that do not come from the blocks
type BatchMeta struct {
	// BatchID is the index of the batch
	BatchID uint64
	// ParentBatchHash is the hash of the previous batch
	ParentBatchHash ethcommon.Hash
	// TotalL1MessagePoppedBefore is the queue index of the first L1 message of the batch
	TotalL1MessagePoppedBefore uint64
}

// ChunkPolicy decides how Build groups blocks into chunks
type ChunkPolicy struct {
	// MaxBlocksPerChunk splits a new chunk every MaxBlocksPerChunk blocks. 0 means one chunk.
	MaxBlocksPerChunk int
}

func (p ChunkPolicy) group(n int) []int {
	if n == 0 {
		return nil
	}
	if p.MaxBlocksPerChunk <= 0 || p.MaxBlocksPerChunk >= n {
		return []int{n}
	}
	sizes := make([]int, 0, (n+p.MaxBlocksPerChunk-1)/p.MaxBlocksPerChunk)
	for n > 0 {
		size := p.MaxBlocksPerChunk
		if n < size {
			size = n
		}
		sizes = append(sizes, size)
		n -= size
	}
	return sizes
}

// BatchTask is a versioned batch, either decoded from calldata or built from
// blocks. It is immutable.
type BatchTask struct {
	codec   *Codec
	version uint8
	meta    BatchMeta
	chunks  []*Chunk

	// blobPayload is the blob payload as committed, nil for versions without blob
	blobPayload       []byte
	blobVersionedHash *ethcommon.Hash

	l1MessagePopped uint64
	numTxs          int
	dataHash        ethcommon.Hash
	hash            ethcommon.Hash
}

// ID returns the batch index
func (b *BatchTask) ID() uint64 {
	return b.meta.BatchID
}

// Version returns the batch version
func (b *BatchTask) Version() uint8 {
	return b.version
}

// Meta returns the fields of the batch that do not come from its blocks
func (b *BatchTask) Meta() BatchMeta {
	return b.meta
}

// ParentBatchHash returns the hash of the previous batch
func (b *BatchTask) ParentBatchHash() ethcommon.Hash {
	return b.meta.ParentBatchHash
}

// Chunks returns the chunks of the batch
func (b *BatchTask) Chunks() []*Chunk {
	return b.chunks
}

// Blocks returns every block of the batch in order
func (b *BatchTask) Blocks() []*Block {
	blocks := make([]*Block, 0, b.NumBlocks())
	for _, c := range b.chunks {
		blocks = append(blocks, c.Blocks...)
	}
	return blocks
}

// NumBlocks returns the number of blocks of the batch
func (b *BatchTask) NumBlocks() int {
	n := 0
	for _, c := range b.chunks {
		n += len(c.Blocks)
	}
	return n
}

// NumTxs returns the number of transactions of the batch, L1 messages included
func (b *BatchTask) NumTxs() int {
	return b.numTxs
}

// Start returns the first block number of the batch
func (b *BatchTask) Start() uint64 {
	return b.chunks[0].Blocks[0].Number
}

// End returns the last block number of the batch
func (b *BatchTask) End() uint64 {
	last := b.chunks[len(b.chunks)-1]
	return last.Blocks[len(last.Blocks)-1].Number
}

// L1MessagePopped returns the number of L1 messages included by the batch
func (b *BatchTask) L1MessagePopped() uint64 {
	return b.l1MessagePopped
}

// TotalL1MessagePopped returns the number of L1 messages included up to this batch
func (b *BatchTask) TotalL1MessagePopped() uint64 {
	return b.meta.TotalL1MessagePoppedBefore + b.l1MessagePopped
}

// DataHash returns the hash over the chunk hashes
func (b *BatchTask) DataHash() ethcommon.Hash {
	return b.dataHash
}

// BlobVersionedHash returns the versioned hash of the blob commitment, if the version has a blob
func (b *BatchTask) BlobVersionedHash() (ethcommon.Hash, bool) {
	if b.blobVersionedHash == nil {
		return ethcommon.Hash{}, false
	}
	return *b.blobVersionedHash, true
}

// Hash returns the batch hash
func (b *BatchTask) Hash() ethcommon.Hash {
	return b.hash
}

// position returns where the block with the given number is in the batch
func (b *BatchTask) position(number uint64) (Position, bool) {
	start := b.Start()
	if number < start || number > b.End() {
		return Position{}, false
	}
	offset := int(number - start)
	for ci, c := range b.chunks {
		if offset < len(c.Blocks) {
			return Position{Chunk: ci, Block: offset}, true
		}
		offset -= len(c.Blocks)
	}
	return Position{}, false
}
