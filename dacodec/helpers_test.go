package dacodec

import (
	"crypto/ecdsa"
	"math/big"
	"testing"

	"github.com/0xPolygon/cdk-verifier/common"
	ethcommon "github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/stretchr/testify/require"
)

var (
	testChainID = big.NewInt(534352)
	testKey     = mustKey("b71c71a67e1177ad4e901695e1b4b9ee17ae16c6668d313eac2f96dbcda3f291")
	testAddr    = ethcommon.HexToAddress("0x5300000000000000000000000000000000000000")
)

func mustKey(hexKey string) *ecdsa.PrivateKey {
	key, err := crypto.HexToECDSA(hexKey)
	if err != nil {
		panic(err)
	}
	return key
}

type testBlock struct {
	number    uint64
	timestamp uint64
	baseFee   *big.Int
	gasLimit  uint64
	txs       [][]byte
	version   uint8
}

func (b *testBlock) Number() uint64         { return b.number }
func (b *testBlock) Timestamp() uint64      { return b.timestamp }
func (b *testBlock) BaseFee() *big.Int      { return b.baseFee }
func (b *testBlock) GasLimit() uint64       { return b.gasLimit }
func (b *testBlock) Transactions() [][]byte { return b.txs }
func (b *testBlock) BatchVersion() uint8    { return b.version }

func l2Tx(t *testing.T, nonce uint64, data []byte) []byte {
	t.Helper()
	tx := types.NewTransaction(nonce, testAddr, big.NewInt(1), 100000, big.NewInt(1000000000), data)
	signed, err := types.SignTx(tx, types.LatestSignerForChainID(testChainID), testKey)
	require.NoError(t, err)
	raw, err := signed.MarshalBinary()
	require.NoError(t, err)
	return raw
}

func l1Msg(t *testing.T, queueIndex uint64) []byte {
	t.Helper()
	raw, err := (&L1MessageTx{
		QueueIndex: queueIndex,
		Gas:        50000,
		To:         &testAddr,
		Value:      big.NewInt(0),
		Data:       []byte{0x01, 0x02},
		Sender:     ethcommon.HexToAddress("0x1000000000000000000000000000000000000001"),
	}).MarshalBinary()
	require.NoError(t, err)
	return raw
}

// newTestBlocks returns n blocks starting at start. Every block carries one L1
// message (queue indexes from firstQueueIndex) and two L2 transactions.
func newTestBlocks(t *testing.T, version uint8, start uint64, n int, firstQueueIndex uint64) []BlockContext {
	t.Helper()
	ctxs := make([]BlockContext, 0, n)
	for i := 0; i < n; i++ {
		ctxs = append(ctxs, &testBlock{
			number:    start + uint64(i),
			timestamp: 1700000000 + uint64(i)*3,
			baseFee:   big.NewInt(int64(1000 + i)),
			gasLimit:  10000000,
			txs: [][]byte{
				l1Msg(t, firstQueueIndex+uint64(i)),
				l2Tx(t, uint64(2*i), []byte("transfer")),
				l2Tx(t, uint64(2*i+1), nil),
			},
			version: version,
		})
	}
	return ctxs
}

// rawChunk is a chunk to be encoded as is, valid or not
type rawChunk struct {
	blocks []*Block
	// numL1Msgs overrides the declared L1 messages of every block when set
	numL1Msgs *int
}

// encodeV0Calldata encodes version 0 calldata without any check, so that
// tests can produce invalid batches.
func encodeV0Calldata(meta BatchMeta, chunks []rawChunk) []byte {
	out := []byte{BatchV0}
	out = append(out, common.Uint64ToBytes(meta.BatchID)...)
	out = append(out, common.Uint64ToBytes(meta.TotalL1MessagePoppedBefore)...)
	out = append(out, meta.ParentBatchHash.Bytes()...)
	out = append(out, uint8(len(chunks)))
	for _, chunk := range chunks {
		encoded := []byte{uint8(len(chunk.blocks))}
		for _, block := range chunk.blocks {
			if chunk.numL1Msgs != nil {
				block.NumL1Msgs = *chunk.numL1Msgs
			}
			encoded = append(encoded, block.encodeContext()...)
		}
		encoded = append(encoded, encodeTxPayload(chunk.blocks)...)
		out = append(out, common.Uint32ToBytes(uint32(len(encoded)))...)
		out = append(out, encoded...)
	}
	return out
}

func rawBlock(number uint64, numL1Msgs int, txs ...[]byte) *Block {
	return &Block{
		Number:    number,
		Timestamp: 1700000000 + number,
		BaseFee:   big.NewInt(1),
		GasLimit:  10000000,
		NumL1Msgs: numL1Msgs,
		Txs:       txs,
	}
}
