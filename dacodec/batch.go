package dacodec

import (
	"fmt"
	"math"

	"github.com/0xPolygon/cdk-verifier/common"
	"github.com/0xPolygon/cdk-verifier/log"
	"github.com/0xPolygon/cdk-verifier/stackerr"
	ethcommon "github.com/ethereum/go-ethereum/common"
	"golang.org/x/crypto/sha3"
)

// newBatchTask checks the invariants of a batch and computes its hashes.
// envelope is the committed blob payload of blob versions; a nil envelope is
// built from the transactions of the blocks.
func (c *Codec) newBatchTask(spec VersionSpec, meta BatchMeta, chunks []*Chunk, envelope []byte) (*BatchTask, error) {
	if len(chunks) == 0 {
		return nil, ErrMissingChunks
	}
	if len(chunks) > spec.MaxChunks {
		return nil, &TooManyChunksError{Max: spec.MaxChunks}
	}
	for _, chunk := range chunks[:len(chunks)-1] {
		if len(chunk.Blocks) == 0 {
			return nil, &InvalidNumBlockError{NumBlocks: 0}
		}
	}
	if len(chunks[len(chunks)-1].Blocks) < spec.MinBlocksInLastChunk {
		return nil, ErrTooFewBlocksInLastChunk
	}
	if err := checkBlockNumbers(chunks); err != nil {
		return nil, err
	}

	numTxs, numL1Txs := 0, 0
	for _, chunk := range chunks {
		for _, block := range chunk.Blocks {
			if len(block.Txs) > math.MaxUint16 {
				return nil, ErrNumTxTooLarge
			}
			numTxs += len(block.Txs)
			for _, tx := range block.Txs {
				if IsL1MessageTx(tx) {
					numL1Txs++
				}
			}
		}
	}
	if numTxs > spec.MaxNumTx {
		return nil, ErrNumTxTooLarge
	}
	if numL1Txs > spec.MaxNumL1Tx {
		return nil, ErrNumL1TxTooLarge
	}

	task := &BatchTask{
		codec:   c,
		version: spec.Version,
		meta:    meta,
		chunks:  chunks,
		numTxs:  numTxs,
	}

	nonce := meta.TotalL1MessagePoppedBefore
	dataHasher := sha3.NewLegacyKeccak256()
	for ci, chunk := range chunks {
		var err error
		nonce, err = task.hashChunk(ci, nonce)
		if err != nil {
			return nil, stackerr.Wrap(err, FrameBuildChunkHash, "chunk", ci)
		}
		dataHasher.Write(chunk.hash.Bytes())
	}
	task.l1MessagePopped = nonce - meta.TotalL1MessagePoppedBefore
	task.dataHash = ethcommon.BytesToHash(dataHasher.Sum(nil))

	if spec.Blob {
		if envelope == nil {
			var err error
			envelope, err = buildEnvelope(spec, chunks)
			if err != nil {
				return nil, stackerr.Wrap(err, FrameEncodeBatchChunk)
			}
		}
		versionedHash, err := commitPayload(envelope)
		if err != nil {
			return nil, stackerr.Wrap(err, FrameEncodeBatchChunk)
		}
		task.blobPayload = envelope
		task.blobVersionedHash = &versionedHash
	}

	task.hash = common.CalculateBatchHash(c.log(), common.BatchHeader{
		Version:              task.version,
		BatchIndex:           meta.BatchID,
		L1MessagePopped:      task.l1MessagePopped,
		TotalL1MessagePopped: task.TotalL1MessagePopped(),
		DataHash:             task.dataHash,
		ParentBatchHash:      meta.ParentBatchHash,
		BlobVersionedHash:    task.blobVersionedHash,
	})
	return task, nil
}

func (c *Codec) log() *log.Logger {
	if c.logger != nil {
		return c.logger
	}
	return log.GetDefaultLogger()
}

// checkBlockNumbers checks that block numbers are contiguous across the whole batch
func checkBlockNumbers(chunks []*Chunk) error {
	var prev *Block
	for _, chunk := range chunks {
		for _, block := range chunk.Blocks {
			if prev != nil && block.Number != prev.Number+1 {
				return &InvalidBlockNumbersError{
					Data:   append(prev.encodeContext(), block.encodeContext()...),
					Reason: fmt.Sprintf("block %d follows block %d", block.Number, prev.Number),
				}
			}
			prev = block
		}
	}
	return nil
}

// hashChunk validates the transactions of chunk ci, assigns the L1 message
// nonces of its blocks and computes its hash. It returns the running L1
// message nonce after the chunk.
func (b *BatchTask) hashChunk(ci int, nonce uint64) (uint64, error) {
	chunk := b.chunks[ci]
	hasher := sha3.NewLegacyKeccak256()
	for _, block := range chunk.Blocks {
		hasher.Write(block.encodeContext()[:blockContextHashedLen])
	}
	for bi, block := range chunk.Blocks {
		block.L1MsgNonce = nonce
		numL1Msgs := 0
		for ti, raw := range block.Txs {
			txHash := TxHash(raw)
			if IsL1MessageTx(raw) {
				if ti != numL1Msgs {
					return 0, &InvalidBlockBytesError{Data: raw, Reason: fmt.Sprintf(
						"L1 message %s after L2 transactions in block %d", txHash.Hex(), block.Number)}
				}
				msg, err := DecodeL1MessageTx(raw)
				if err != nil {
					return 0, &InvalidBlockBytesError{Data: raw, Reason: fmt.Sprintf("L1 message: %v", err)}
				}
				if msg.QueueIndex != nonce {
					return 0, &InvalidL1NonceError{
						Expect:  nonce,
						Current: msg.QueueIndex,
						BatchID: b.meta.BatchID,
						ChunkID: ci,
						BlockID: bi,
						TxHash:  txHash,
					}
				}
				nonce++
				numL1Msgs++
			} else if _, err := DecodeL2Tx(raw); err != nil {
				return 0, &InvalidBlockBytesError{Data: raw, Reason: fmt.Sprintf("transaction: %v", err)}
			}
			hasher.Write(txHash.Bytes())
		}
		block.NumL1Msgs = numL1Msgs
	}
	chunk.hash = ethcommon.BytesToHash(hasher.Sum(nil))
	return nonce, nil
}

// encodeTxPayload concatenates the length prefixed transactions of every block
func encodeTxPayload(blocks []*Block) []byte {
	size := 0
	for _, block := range blocks {
		for _, tx := range block.Txs {
			size += txLenPrefix + len(tx)
		}
	}
	payload := make([]byte, 0, size)
	for _, block := range blocks {
		for _, tx := range block.Txs {
			payload = append(payload, common.Uint32ToBytes(uint32(len(tx)))...)
			payload = append(payload, tx...)
		}
	}
	return payload
}

func buildEnvelope(spec VersionSpec, chunks []*Chunk) ([]byte, error) {
	var blocks []*Block
	for _, chunk := range chunks {
		blocks = append(blocks, chunk.Blocks...)
	}
	payload := encodeTxPayload(blocks)
	if !spec.Compressed {
		return payload, nil
	}
	return encodeEnvelope(payload)
}

// Calldata returns the canonical calldata committing the batch
func (b *BatchTask) Calldata() []byte {
	out := make([]byte, 0, calldataHeaderLen)
	out = append(out, b.version)
	out = append(out, common.Uint64ToBytes(b.meta.BatchID)...)
	out = append(out, common.Uint64ToBytes(b.meta.TotalL1MessagePoppedBefore)...)
	out = append(out, b.meta.ParentBatchHash.Bytes()...)
	out = append(out, uint8(len(b.chunks)))
	for _, chunk := range b.chunks {
		encoded := b.encodeChunk(chunk)
		out = append(out, common.Uint32ToBytes(uint32(len(encoded)))...)
		out = append(out, encoded...)
	}
	if b.blobVersionedHash != nil {
		out = append(out, common.Uint32ToBytes(uint32(len(b.blobPayload)))...)
		out = append(out, b.blobPayload...)
	}
	return out
}

func (b *BatchTask) encodeChunk(chunk *Chunk) []byte {
	out := make([]byte, 0, 1+len(chunk.Blocks)*blockContextLen)
	out = append(out, uint8(len(chunk.Blocks)))
	for _, block := range chunk.Blocks {
		out = append(out, block.encodeContext()...)
	}
	if b.blobVersionedHash == nil {
		out = append(out, encodeTxPayload(chunk.Blocks)...)
	}
	return out
}

// BuildBatch rebuilds the batch from the executed contexts of its blocks, see Codec.Rebuild
func (b *BatchTask) BuildBatch(version uint8, ctxs []BlockContext) (*BatchTask, error) {
	return b.codec.Rebuild(b, version, ctxs)
}
