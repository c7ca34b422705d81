package dacodec

import (
	"testing"

	"github.com/0xPolygon/cdk-verifier/common"
	"github.com/0xPolygon/cdk-verifier/stackerr"
	"github.com/stretchr/testify/require"
)

func intPtr(v int) *int { return &v }

func TestDecodeNonContiguousBlocks(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		chunks []rawChunk
	}{
		{
			name:   "gap inside a chunk",
			chunks: []rawChunk{{blocks: []*Block{rawBlock(10, 0), rawBlock(12, 0)}}},
		},
		{
			name:   "repeated block inside a chunk",
			chunks: []rawChunk{{blocks: []*Block{rawBlock(10, 0), rawBlock(10, 0)}}},
		},
		{
			name: "gap between chunks",
			chunks: []rawChunk{
				{blocks: []*Block{rawBlock(10, 0), rawBlock(11, 0)}},
				{blocks: []*Block{rawBlock(13, 0)}},
			},
		},
		{
			name:   "descending blocks",
			chunks: []rawChunk{{blocks: []*Block{rawBlock(11, 0), rawBlock(10, 0)}}},
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			task, err := FromCalldata(encodeV0Calldata(testMeta, tt.chunks))
			require.Nil(t, task)
			var target *InvalidBlockNumbersError
			require.ErrorAs(t, err, &target)
			frame, ok := stackerr.Find(err, FrameParseBatchTaskFromCalldata)
			require.True(t, ok)
			require.NotNil(t, frame)
		})
	}
}

func TestDecodeInvalidL1Nonce(t *testing.T) {
	t.Parallel()

	meta := BatchMeta{BatchID: 9, TotalL1MessagePoppedBefore: 3}
	badMsg := l1Msg(t, 7)
	calldata := encodeV0Calldata(meta, []rawChunk{
		{blocks: []*Block{rawBlock(20, 2, l1Msg(t, 3), l1Msg(t, 4), l2Tx(t, 0, nil))}},
		{blocks: []*Block{rawBlock(21, 0, l2Tx(t, 1, nil)), rawBlock(22, 1, badMsg)}},
	})

	task, err := FromCalldata(calldata)
	require.Nil(t, task)
	var target *InvalidL1NonceError
	require.ErrorAs(t, err, &target)
	require.Equal(t, InvalidL1NonceError{
		Expect:  5,
		Current: 7,
		BatchID: 9,
		ChunkID: 1,
		BlockID: 1,
		TxHash:  TxHash(badMsg),
	}, *target)
	require.Equal(t, []string{
		FrameParseBatchTaskFromCalldata,
		"BuildChunkHash(chunk=1)",
		target.Error(),
	}, stackerr.Stack(err))
}

func TestDecodeValidL1Nonces(t *testing.T) {
	t.Parallel()

	meta := BatchMeta{BatchID: 9, TotalL1MessagePoppedBefore: 3}
	task, err := FromCalldata(encodeV0Calldata(meta, []rawChunk{
		{blocks: []*Block{rawBlock(20, 2, l1Msg(t, 3), l1Msg(t, 4), l2Tx(t, 0, nil))}},
		{blocks: []*Block{rawBlock(21, 0, l2Tx(t, 1, nil)), rawBlock(22, 1, l1Msg(t, 5))}},
	}))
	require.NoError(t, err)
	require.Equal(t, uint64(3), task.L1MessagePopped())
	require.Equal(t, uint64(6), task.TotalL1MessagePopped())
	blocks := task.Blocks()
	require.Equal(t, uint64(3), blocks[0].L1MsgNonce)
	require.Equal(t, uint64(5), blocks[1].L1MsgNonce)
	require.Equal(t, uint64(5), blocks[2].L1MsgNonce)
}

func TestDecodeChunkLimits(t *testing.T) {
	t.Parallel()

	tooMany := make([]rawChunk, 16)
	for i := range tooMany {
		tooMany[i] = rawChunk{blocks: []*Block{rawBlock(uint64(i+1), 0)}}
	}
	maxChunks := tooMany[:15]

	task, err := FromCalldata(encodeV0Calldata(testMeta, maxChunks))
	require.NoError(t, err)
	require.Len(t, task.Chunks(), 15)

	_, err = FromCalldata(encodeV0Calldata(testMeta, tooMany))
	var tooManyErr *TooManyChunksError
	require.ErrorAs(t, err, &tooManyErr)
	require.Equal(t, 15, tooManyErr.Max)

	_, err = FromCalldata(encodeV0Calldata(testMeta, nil))
	require.ErrorIs(t, err, ErrMissingChunks)

	_, err = FromCalldata(encodeV0Calldata(testMeta, []rawChunk{
		{blocks: []*Block{rawBlock(1, 0)}},
		{},
	}))
	require.ErrorIs(t, err, ErrTooFewBlocksInLastChunk)

	_, err = FromCalldata(encodeV0Calldata(testMeta, []rawChunk{
		{},
		{blocks: []*Block{rawBlock(1, 0)}},
	}))
	var numBlockErr *InvalidNumBlockError
	require.ErrorAs(t, err, &numBlockErr)
	require.Equal(t, 0, numBlockErr.NumBlocks)
}

func TestDecodeCeilings(t *testing.T) {
	t.Parallel()

	codec := NewCodec(VersionSpec{
		Version:              BatchV0,
		MaxChunks:            2,
		MinBlocksInLastChunk: 2,
		MaxNumTx:             3,
		MaxNumL1Tx:           1,
	})

	_, err := codec.Decode(encodeV0Calldata(testMeta, []rawChunk{
		{blocks: []*Block{rawBlock(1, 0, l2Tx(t, 0, nil), l2Tx(t, 1, nil)), rawBlock(2, 0, l2Tx(t, 2, nil), l2Tx(t, 3, nil))}},
	}))
	require.ErrorIs(t, err, ErrNumTxTooLarge)

	_, err = codec.Decode(encodeV0Calldata(testMeta, []rawChunk{
		{blocks: []*Block{rawBlock(1, 2, l1Msg(t, 10), l1Msg(t, 11)), rawBlock(2, 0)}},
	}))
	require.ErrorIs(t, err, ErrNumL1TxTooLarge)

	_, err = codec.Decode(encodeV0Calldata(testMeta, []rawChunk{
		{blocks: []*Block{rawBlock(1, 0), rawBlock(2, 0)}},
		{blocks: []*Block{rawBlock(3, 0)}},
	}))
	require.ErrorIs(t, err, ErrTooFewBlocksInLastChunk)

	task, err := codec.Decode(encodeV0Calldata(testMeta, []rawChunk{
		{blocks: []*Block{rawBlock(1, 1, l1Msg(t, 10), l2Tx(t, 0, nil)), rawBlock(2, 0, l2Tx(t, 1, nil))}},
	}))
	require.NoError(t, err)
	require.Equal(t, 3, task.NumTxs())
}

func TestMaxBatchBlocks(t *testing.T) {
	t.Parallel()

	require.Equal(t, uint64(45*255), DefaultCodec().MaxBatchBlocks())
	require.Equal(t, uint64(2*MaxBlocksPerChunk), NewCodec(VersionSpec{Version: BatchV0, MaxChunks: 2}).MaxBatchBlocks())
	require.Zero(t, NewCodec().MaxBatchBlocks())
}

func TestDecodeMalformed(t *testing.T) {
	t.Parallel()

	valid := encodeV0Calldata(testMeta, []rawChunk{{blocks: []*Block{rawBlock(1, 0, l2Tx(t, 0, nil))}}})
	validV1, err := Build(BatchV1, testMeta, newTestBlocks(t, BatchV1, 1, 1, testMeta.TotalL1MessagePoppedBefore), ChunkPolicy{})
	require.NoError(t, err)
	// offset of the first chunk and of its block region
	chunkStart := calldataHeaderLen + chunkLenPrefix

	withChunk := func(chunk []byte) []byte {
		out := append([]byte{}, valid[:calldataHeaderLen]...)
		out = append(out, common.Uint32ToBytes(uint32(len(chunk)))...)
		return append(out, chunk...)
	}

	tests := []struct {
		name  string
		data  []byte
		check func(t *testing.T, err error)
	}{
		{
			name: "empty",
			data: nil,
			check: func(t *testing.T, err error) {
				var target *InvalidDABatchDataError
				require.ErrorAs(t, err, &target)
				require.Equal(t, 1, target.WantAtLeast)
			},
		},
		{
			name: "unknown version",
			data: append([]byte{9}, valid[1:]...),
			check: func(t *testing.T, err error) {
				var target *UnknownBatchVersionError
				require.ErrorAs(t, err, &target)
				require.Equal(t, uint8(9), target.Version)
			},
		},
		{
			name: "short header",
			data: valid[:30],
			check: func(t *testing.T, err error) {
				var target *InvalidDABatchDataError
				require.ErrorAs(t, err, &target)
				require.Equal(t, InvalidDABatchDataError{Version: 0, WantAtLeast: calldataHeaderLen, Got: 30}, *target)
			},
		},
		{
			name: "short blob version",
			data: validV1.Calldata()[:calldataHeaderLen],
			check: func(t *testing.T, err error) {
				var target *InvalidDABatchDataError
				require.ErrorAs(t, err, &target)
				require.Equal(t, InvalidDABatchDataError{Version: 1, WantAtLeast: calldataHeaderLen + blobLenPrefix,
					Got: calldataHeaderLen}, *target)
			},
		},
		{
			name: "truncated chunk",
			data: valid[:len(valid)-3],
			check: func(t *testing.T, err error) {
				var target *InvalidDABatchDataError
				require.ErrorAs(t, err, &target)
				require.Equal(t, len(valid), target.WantAtLeast)
			},
		},
		{
			name: "block count beyond the chunk",
			data: withChunk(append([]byte{3}, valid[chunkStart+1:chunkStart+1+blockContextLen]...)),
			check: func(t *testing.T, err error) {
				var target *InvalidNumBlockError
				require.ErrorAs(t, err, &target)
				require.Equal(t, 3, target.NumBlocks)
			},
		},
		{
			name: "truncated transaction",
			data: withChunk(valid[chunkStart : len(valid)-1]),
			check: func(t *testing.T, err error) {
				var target *InvalidBlockBytesError
				require.ErrorAs(t, err, &target)
			},
		},
		{
			name: "trailing chunk bytes",
			data: withChunk(append(append([]byte{}, valid[chunkStart:]...), 0xff)),
			check: func(t *testing.T, err error) {
				var target *InvalidBlockBytesError
				require.ErrorAs(t, err, &target)
			},
		},
		{
			name: "trailing calldata bytes",
			data: append(append([]byte{}, valid...), 0x00),
			check: func(t *testing.T, err error) {
				var target *InvalidBlockBytesError
				require.ErrorAs(t, err, &target)
			},
		},
		{
			name: "undecodable transaction",
			data: encodeV0Calldata(testMeta, []rawChunk{{blocks: []*Block{rawBlock(1, 0, []byte{0x02, 0xff})}}}),
			check: func(t *testing.T, err error) {
				var target *InvalidBlockBytesError
				require.ErrorAs(t, err, &target)
			},
		},
		{
			name: "L1 message after L2 transaction",
			data: encodeV0Calldata(testMeta, []rawChunk{{blocks: []*Block{rawBlock(1, 1, l2Tx(t, 0, nil), l1Msg(t, 10))}}}),
			check: func(t *testing.T, err error) {
				var target *InvalidBlockBytesError
				require.ErrorAs(t, err, &target)
			},
		},
		{
			name: "declared L1 messages do not match",
			data: encodeV0Calldata(testMeta, []rawChunk{{
				blocks:    []*Block{rawBlock(1, 0, l1Msg(t, 10), l2Tx(t, 0, nil))},
				numL1Msgs: intPtr(0),
			}}),
			check: func(t *testing.T, err error) {
				var target *InvalidBlockBytesError
				require.ErrorAs(t, err, &target)
				require.Contains(t, target.Reason, "declares 0 L1 messages")
			},
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			task, err := FromCalldata(tt.data)
			require.Error(t, err)
			require.Nil(t, task)
			require.True(t, IsBatchError(err))
			_, ok := stackerr.Find(err, FrameParseBatchTaskFromCalldata)
			require.True(t, ok)
			tt.check(t, err)
		})
	}
}
