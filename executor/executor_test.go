package executor

import (
	"crypto/ecdsa"
	"math/big"
	"testing"

	"github.com/0xPolygon/cdk-verifier/dacodec"
	"github.com/0xPolygon/cdk-verifier/hardfork"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core"
	"github.com/ethereum/go-ethereum/core/rawdb"
	"github.com/ethereum/go-ethereum/core/state"
	"github.com/ethereum/go-ethereum/core/tracing"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/holiman/uint256"
	"github.com/stretchr/testify/require"
)

var (
	senderKey, _   = crypto.HexToECDSA("b71c71a67e1177ad4e901695e1b4b9ee17ae16c6668d313eac2f96dbcda3f291")
	senderAddr     = crypto.PubkeyToAddress(senderKey.PublicKey)
	recipient      = common.HexToAddress("0x00000000000000000000000000000000000000aa")
	l1Sender       = common.HexToAddress("0x1000000000000000000000000000000000000001")
	withdrawalRoot = common.HexToHash("0x1234")
)

type testContext struct {
	number    uint64
	prevRoot  common.Hash
	txs       [][]byte
	gasLimit  uint64
	stateRoot common.Hash
}

func (c *testContext) ChainID() uint64             { return hardfork.MainnetChainID }
func (c *testContext) Number() uint64              { return c.number }
func (c *testContext) Timestamp() uint64           { return 1720000000 + c.number }
func (c *testContext) Coinbase() common.Address    { return common.HexToAddress("0xc0ffee") }
func (c *testContext) GasLimit() uint64            { return c.gasLimit }
func (c *testContext) BaseFee() *big.Int           { return big.NewInt(1000) }
func (c *testContext) Transactions() [][]byte      { return c.txs }
func (c *testContext) PrevStateRoot() common.Hash  { return c.prevRoot }
func (c *testContext) StateRoot() common.Hash      { return c.stateRoot }
func (c *testContext) WithdrawalRoot() common.Hash { return withdrawalRoot }

func newPrestate(t *testing.T) (state.Database, common.Hash) {
	t.Helper()
	db := state.NewDatabase(rawdb.NewMemoryDatabase())
	statedb, err := state.New(types.EmptyRootHash, db, nil)
	require.NoError(t, err)
	statedb.SetBalance(senderAddr, uint256.NewInt(1e18), tracing.BalanceChangeUnspecified)
	statedb.SetNonce(DefaultMessageQueue, 1)
	statedb.SetState(DefaultMessageQueue, common.Hash{}, withdrawalRoot)
	root, err := statedb.Commit(0, true)
	require.NoError(t, err)
	require.NoError(t, db.TrieDB().Commit(root, false))
	return db, root
}

func signedTransfer(t *testing.T, key *ecdsa.PrivateKey, nonce uint64) []byte {
	t.Helper()
	tx := types.NewTransaction(nonce, recipient, big.NewInt(1), 21000, big.NewInt(1000000000), nil)
	signed, err := types.SignTx(tx, types.LatestSignerForChainID(new(big.Int).SetUint64(hardfork.MainnetChainID)), key)
	require.NoError(t, err)
	raw, err := signed.MarshalBinary()
	require.NoError(t, err)
	return raw
}

func l1Message(t *testing.T, queueIndex uint64) []byte {
	t.Helper()
	raw, err := (&dacodec.L1MessageTx{
		QueueIndex: queueIndex,
		Gas:        100000,
		To:         &recipient,
		Value:      big.NewInt(0),
		Sender:     l1Sender,
	}).MarshalBinary()
	require.NoError(t, err)
	return raw
}

func newExecutor(db state.Database) *EVMExecutor {
	return NewEVMExecutor(db, hardfork.DefaultFromChainID(hardfork.MainnetChainID).ChainConfig(), DefaultMessageQueue)
}

func TestHandleBlock(t *testing.T) {
	t.Parallel()

	db, root := newPrestate(t)
	ctx := &testContext{
		number:   7096900,
		prevRoot: root,
		gasLimit: 10000000,
		txs:      [][]byte{l1Message(t, 0), signedTransfer(t, senderKey, 0), signedTransfer(t, senderKey, 1)},
	}

	result, err := newExecutor(db).HandleBlock(ctx)
	require.NoError(t, err)
	require.NotEqual(t, root, result.NewStateRoot)
	require.Equal(t, withdrawalRoot, result.NewWithdrawalRoot)
	require.Equal(t, uint64(3*21000), result.GasUsed)

	again, err := newExecutor(db).HandleBlock(ctx)
	require.NoError(t, err)
	require.Equal(t, result, again)
}

func TestHandleEmptyBlock(t *testing.T) {
	t.Parallel()

	db, root := newPrestate(t)
	result, err := newExecutor(db).HandleBlock(&testContext{number: 1, prevRoot: root, gasLimit: 10000000})
	require.NoError(t, err)
	require.Equal(t, root, result.NewStateRoot)
	require.Equal(t, withdrawalRoot, result.NewWithdrawalRoot)
}

func TestHandleBlockErrors(t *testing.T) {
	t.Parallel()

	db, root := newPrestate(t)
	poorKey, err := crypto.GenerateKey()
	require.NoError(t, err)

	tests := []struct {
		name  string
		ctx   *testContext
		check func(t *testing.T, err error)
	}{
		{
			name: "unknown state root",
			ctx:  &testContext{number: 1, prevRoot: common.HexToHash("0xdead"), gasLimit: 10000000},
			check: func(t *testing.T, err error) {
				var target *StateError
				require.ErrorAs(t, err, &target)
				require.Equal(t, common.HexToHash("0xdead"), target.Root)
			},
		},
		{
			name: "undecodable transaction",
			ctx:  &testContext{number: 1, prevRoot: root, gasLimit: 10000000, txs: [][]byte{{0x02, 0xff}}},
			check: func(t *testing.T, err error) {
				var target *TxError
				require.ErrorAs(t, err, &target)
				require.Equal(t, 0, target.Index)
			},
		},
		{
			name: "nonce too high",
			ctx: &testContext{number: 1, prevRoot: root, gasLimit: 10000000,
				txs: [][]byte{l1Message(t, 0), signedTransfer(t, senderKey, 5)}},
			check: func(t *testing.T, err error) {
				var target *TxError
				require.ErrorAs(t, err, &target)
				require.Equal(t, 1, target.Index)
				require.ErrorIs(t, err, core.ErrNonceTooHigh)
			},
		},
		{
			name: "insufficient funds",
			ctx: &testContext{number: 1, prevRoot: root, gasLimit: 10000000,
				txs: [][]byte{signedTransfer(t, poorKey, 0)}},
			check: func(t *testing.T, err error) {
				require.ErrorIs(t, err, core.ErrInsufficientFunds)
			},
		},
		{
			name: "block gas limit",
			ctx: &testContext{number: 1, prevRoot: root, gasLimit: 30000,
				txs: [][]byte{signedTransfer(t, senderKey, 0), signedTransfer(t, senderKey, 1)}},
			check: func(t *testing.T, err error) {
				require.ErrorIs(t, err, core.ErrGasLimitReached)
			},
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			result, err := newExecutor(db).HandleBlock(tt.ctx)
			require.Nil(t, result)
			require.True(t, IsExecutionError(err))
			tt.check(t, err)
		})
	}
}
