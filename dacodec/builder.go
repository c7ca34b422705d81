package dacodec

import (
	"math/big"
)

// Build builds a batch from executed blocks at the given version, grouping
// them into chunks with policy. Every block must belong to version.
func (c *Codec) Build(version uint8, meta BatchMeta, ctxs []BlockContext, policy ChunkPolicy) (*BatchTask, error) {
	spec, err := c.Spec(version)
	if err != nil {
		return nil, err
	}
	if len(ctxs) == 0 {
		return nil, ErrMissingChunks
	}
	blocks, err := blocksFromContexts(version, ctxs)
	if err != nil {
		return nil, err
	}
	return c.newBatchTask(spec, meta, splitChunks(blocks, policy.group(len(blocks))), nil)
}

// Rebuild builds a batch from the executed contexts of the blocks of a decoded
// batch. The metadata and the chunk layout are taken from the decoded batch,
// everything else comes from the contexts, so the result only hashes like the
// decoded batch when the contexts match what was committed. Contexts must be
// given in block order.
func (c *Codec) Rebuild(batch *BatchTask, version uint8, ctxs []BlockContext) (*BatchTask, error) {
	spec, err := c.Spec(version)
	if err != nil {
		return nil, err
	}
	if version != batch.version {
		return nil, &MismatchBatchVersionAndBlockError{BlockBatchVersion: version, ParentBatchVersion: batch.version}
	}

	want := Position{}
	for _, ctx := range ctxs {
		got, ok := batch.position(ctx.Number())
		if !ok {
			return nil, ErrUnknownBlock
		}
		if got != want {
			return nil, &UnexpectedBlockError{Want: want, Got: got}
		}
		want.Block++
		if want.Block == len(batch.chunks[want.Chunk].Blocks) {
			want = Position{Chunk: want.Chunk + 1}
		}
	}
	if len(ctxs) != batch.NumBlocks() {
		return nil, &InvalidNumBlockError{NumBlocks: len(ctxs)}
	}

	blocks, err := blocksFromContexts(version, ctxs)
	if err != nil {
		return nil, err
	}
	sizes := make([]int, len(batch.chunks))
	for i, chunk := range batch.chunks {
		sizes[i] = len(chunk.Blocks)
	}
	return c.newBatchTask(spec, batch.meta, splitChunks(blocks, sizes), nil)
}

func blocksFromContexts(version uint8, ctxs []BlockContext) ([]*Block, error) {
	blocks := make([]*Block, 0, len(ctxs))
	for _, ctx := range ctxs {
		if ctx.BatchVersion() != version {
			return nil, &MismatchBatchVersionAndBlockError{
				BlockBatchVersion:  ctx.BatchVersion(),
				ParentBatchVersion: version,
			}
		}
		baseFee := new(big.Int)
		if ctx.BaseFee() != nil {
			baseFee.Set(ctx.BaseFee())
		}
		txs := make([][]byte, len(ctx.Transactions()))
		copy(txs, ctx.Transactions())
		blocks = append(blocks, &Block{
			Number:    ctx.Number(),
			Timestamp: ctx.Timestamp(),
			BaseFee:   baseFee,
			GasLimit:  ctx.GasLimit(),
			Txs:       txs,
		})
	}
	return blocks, nil
}

func splitChunks(blocks []*Block, sizes []int) []*Chunk {
	chunks := make([]*Chunk, 0, len(sizes))
	for _, size := range sizes {
		chunks = append(chunks, &Chunk{Blocks: blocks[:size:size]})
		blocks = blocks[size:]
	}
	return chunks
}

// Build builds a batch with the default codec
func Build(version uint8, meta BatchMeta, ctxs []BlockContext, policy ChunkPolicy) (*BatchTask, error) {
	return defaultCodec.Build(version, meta, ctxs, policy)
}
