package dacodec

import (
	"fmt"
	"math/big"

	"github.com/0xPolygon/cdk-verifier/common"
	ethcommon "github.com/ethereum/go-ethereum/common"
)

// declared counts of a block context, checked once transactions are known
type blockDecl struct {
	numTxs    int
	numL1Msgs int
}

// Decode decodes the calldata of a committed batch. Any violation fails the
// whole decode; errors are wrapped in a ParseBatchTaskFromCalldata frame.
func (c *Codec) Decode(calldata []byte) (*BatchTask, error) {
	task, err := c.decode(calldata)
	if err != nil {
		return nil, parseFrame(err)
	}
	return task, nil
}

func (c *Codec) decode(data []byte) (*BatchTask, error) {
	if len(data) == 0 {
		return nil, &InvalidDABatchDataError{WantAtLeast: 1, Got: 0}
	}
	version := data[0]
	spec, err := c.Spec(version)
	if err != nil {
		return nil, err
	}
	if len(data) < spec.MinCalldataLen() {
		return nil, &InvalidDABatchDataError{Version: version, WantAtLeast: spec.MinCalldataLen(), Got: len(data)}
	}
	meta := BatchMeta{
		BatchID:                    common.BytesToUint64(data[1:9]),
		TotalL1MessagePoppedBefore: common.BytesToUint64(data[9:17]),
		ParentBatchHash:            ethcommon.BytesToHash(data[17:49]),
	}
	numChunks := int(data[49])
	if numChunks == 0 {
		return nil, ErrMissingChunks
	}
	if numChunks > spec.MaxChunks {
		return nil, &TooManyChunksError{Max: spec.MaxChunks}
	}

	offset := calldataHeaderLen
	chunks := make([]*Chunk, 0, numChunks)
	decls := make([][]blockDecl, 0, numChunks)
	for i := 0; i < numChunks; i++ {
		var raw []byte
		raw, offset, err = readSized(spec, data, offset, chunkLenPrefix)
		if err != nil {
			return nil, err
		}
		chunk, chunkDecls, err := parseChunk(spec, raw)
		if err != nil {
			return nil, err
		}
		chunks = append(chunks, chunk)
		decls = append(decls, chunkDecls)
	}

	var envelope []byte
	if spec.Blob {
		envelope, offset, err = readSized(spec, data, offset, blobLenPrefix)
		if err != nil {
			return nil, err
		}
		payload := envelope
		if spec.Compressed {
			payload, err = decodeEnvelope(envelope)
			if err != nil {
				return nil, err
			}
		}
		if err := assignTxs(chunks, decls, payload); err != nil {
			return nil, err
		}
	}
	if offset != len(data) {
		return nil, &InvalidBlockBytesError{Data: data[offset:], Reason: "trailing bytes after batch"}
	}

	task, err := c.newBatchTask(spec, meta, chunks, envelope)
	if err != nil {
		return nil, err
	}
	for ci, chunk := range chunks {
		for bi, block := range chunk.Blocks {
			if block.NumL1Msgs != decls[ci][bi].numL1Msgs {
				return nil, &InvalidBlockBytesError{
					Data: block.encodeContext(),
					Reason: fmt.Sprintf("block %d declares %d L1 messages, carries %d",
						block.Number, decls[ci][bi].numL1Msgs, block.NumL1Msgs),
				}
			}
		}
	}
	return task, nil
}

// readSized reads a length prefixed field at offset
func readSized(spec VersionSpec, data []byte, offset, prefixLen int) ([]byte, int, error) {
	if len(data) < offset+prefixLen {
		return nil, 0, &InvalidDABatchDataError{Version: spec.Version, WantAtLeast: offset + prefixLen, Got: len(data)}
	}
	size := int(common.BytesToUint32(data[offset : offset+prefixLen]))
	offset += prefixLen
	if len(data)-offset < size {
		return nil, 0, &InvalidDABatchDataError{Version: spec.Version, WantAtLeast: offset + size, Got: len(data)}
	}
	return data[offset : offset+size], offset + size, nil
}

func parseChunk(spec VersionSpec, raw []byte) (*Chunk, []blockDecl, error) {
	if len(raw) == 0 {
		return nil, nil, &InvalidBlockNumbersError{Reason: "empty chunk"}
	}
	numBlocks := int(raw[0])
	contextsEnd := 1 + numBlocks*blockContextLen
	if len(raw) < contextsEnd || (spec.Blob && len(raw) != contextsEnd) {
		return nil, nil, &InvalidNumBlockError{NumBlocks: numBlocks}
	}

	chunk := &Chunk{Blocks: make([]*Block, 0, numBlocks)}
	decls := make([]blockDecl, 0, numBlocks)
	for i := 0; i < numBlocks; i++ {
		ctx := raw[1+i*blockContextLen : 1+(i+1)*blockContextLen]
		block, decl := parseBlockContext(ctx)
		chunk.Blocks = append(chunk.Blocks, block)
		decls = append(decls, decl)
	}
	if spec.Blob {
		return chunk, decls, nil
	}

	txs, rest, err := readTxs(raw[contextsEnd:], decls)
	if err != nil {
		return nil, nil, err
	}
	if len(rest) != 0 {
		return nil, nil, &InvalidBlockBytesError{Data: rest, Reason: "trailing bytes after chunk transactions"}
	}
	for i, block := range chunk.Blocks {
		block.Txs = txs[i]
	}
	return chunk, decls, nil
}

func parseBlockContext(ctx []byte) (*Block, blockDecl) {
	block := &Block{
		Number:    common.BytesToUint64(ctx[0:8]),
		Timestamp: common.BytesToUint64(ctx[8:16]),
		BaseFee:   new(big.Int).SetBytes(ctx[16:48]),
		GasLimit:  common.BytesToUint64(ctx[48:56]),
	}
	decl := blockDecl{
		numTxs:    int(common.BytesToUint16(ctx[56:58])),
		numL1Msgs: int(common.BytesToUint16(ctx[58:60])),
	}
	return block, decl
}

// readTxs reads the length prefixed transactions of the declared blocks
func readTxs(data []byte, decls []blockDecl) ([][][]byte, []byte, error) {
	txs := make([][][]byte, len(decls))
	for i, decl := range decls {
		if decl.numL1Msgs > decl.numTxs {
			return nil, nil, &InvalidBlockBytesError{Reason: fmt.Sprintf(
				"%d L1 messages in a block of %d transactions", decl.numL1Msgs, decl.numTxs)}
		}
		txs[i] = make([][]byte, 0, decl.numTxs)
		for j := 0; j < decl.numTxs; j++ {
			if len(data) < txLenPrefix {
				return nil, nil, &InvalidBlockBytesError{Data: data, Reason: "truncated transaction length"}
			}
			size := int(common.BytesToUint32(data[:txLenPrefix]))
			data = data[txLenPrefix:]
			if size == 0 || len(data) < size {
				return nil, nil, &InvalidBlockBytesError{
					Data: data, Reason: fmt.Sprintf("transaction of %d bytes, %d left", size, len(data))}
			}
			txs[i] = append(txs[i], data[:size:size])
			data = data[size:]
		}
	}
	return txs, data, nil
}

// assignTxs distributes the transactions of a blob payload to the blocks
func assignTxs(chunks []*Chunk, decls [][]blockDecl, payload []byte) error {
	for ci, chunk := range chunks {
		txs, rest, err := readTxs(payload, decls[ci])
		if err != nil {
			return err
		}
		for bi, block := range chunk.Blocks {
			block.Txs = txs[bi]
		}
		payload = rest
	}
	if len(payload) != 0 {
		return &InvalidBlockBytesError{Data: payload, Reason: "trailing bytes after blob transactions"}
	}
	return nil
}
