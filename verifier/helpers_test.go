package verifier

import (
	"context"
	"fmt"
	"math/big"
	"sync"
	"testing"

	"github.com/0xPolygon/cdk-verifier/dacodec"
	"github.com/0xPolygon/cdk-verifier/executor"
	"github.com/0xPolygon/cdk-verifier/prover"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/stretchr/testify/require"
)

// devChainID runs every fork from genesis, so every block is in a version 2 batch
const devChainID = 1337

var (
	testKey, _ = crypto.HexToECDSA("b71c71a67e1177ad4e901695e1b4b9ee17ae16c6668d313eac2f96dbcda3f291")
	testAddr   = crypto.PubkeyToAddress(testKey.PublicKey)
	recipient  = common.HexToAddress("0x00000000000000000000000000000000000000aa")
	testMeta   = dacodec.BatchMeta{BatchID: 77, ParentBatchHash: common.HexToHash("0x77"), TotalL1MessagePoppedBefore: 0}
)

func transfer(t *testing.T, nonce uint64) hexutil.Bytes {
	t.Helper()
	tx := types.NewTransaction(nonce, recipient, big.NewInt(1), 21000, big.NewInt(1000000000), nil)
	signed, err := types.SignTx(tx, types.LatestSignerForChainID(big.NewInt(devChainID)), testKey)
	require.NoError(t, err)
	raw, err := signed.MarshalBinary()
	require.NoError(t, err)
	return raw
}

func stateRoot(number uint64) common.Hash {
	return crypto.Keccak256Hash([]byte(fmt.Sprintf("state-%d", number)))
}

func withdrawalRoot(number uint64) common.Hash {
	return crypto.Keccak256Hash([]byte(fmt.Sprintf("withdrawal-%d", number)))
}

// newChainedPobs returns n pobs of consecutive blocks from start whose roots
// chain: every block starts from the state root claimed by its parent.
func newChainedPobs(t *testing.T, start uint64, n int) []*prover.Pob {
	t.Helper()
	pobs := make([]*prover.Pob, 0, n)
	for i := 0; i < n; i++ {
		number := start + uint64(i)
		pobs = append(pobs, &prover.Pob{
			Block: prover.Block{
				Number:       hexutil.Uint64(number),
				Timestamp:    hexutil.Uint64(1700000000 + 3*number),
				BaseFee:      (*hexutil.Big)(big.NewInt(1000)),
				GasLimit:     10000000,
				StateRoot:    stateRoot(number),
				Transactions: []hexutil.Bytes{transfer(t, uint64(i))},
			},
			Data: prover.PobData{
				ChainID:        devChainID,
				PrevStateRoot:  stateRoot(number - 1),
				WithdrawalRoot: withdrawalRoot(number),
			},
		})
	}
	return pobs
}

func contextsOf(pobs []*prover.Pob) []*PobContext {
	ctxs := make([]*PobContext, len(pobs))
	for i, pob := range pobs {
		ctxs[i] = NewPobContext(*pob)
	}
	return ctxs
}

// commitBatch builds the committed batch of the pobs at version 2
func commitBatch(t *testing.T, pobs []*prover.Pob) *dacodec.BatchTask {
	t.Helper()
	ctxs := contextsOf(pobs)
	blocks := make([]dacodec.BlockContext, len(ctxs))
	for i, c := range ctxs {
		blocks[i] = c
	}
	batch, err := dacodec.Build(dacodec.BatchV2, testMeta, blocks, dacodec.ChunkPolicy{MaxBlocksPerChunk: 2})
	require.NoError(t, err)
	return batch
}

// fakeExecutor returns the roots of stateRoot and withdrawalRoot, or the
// overrides set for a block number.
type fakeExecutor struct {
	mu          sync.Mutex
	stateRoots  map[uint64]common.Hash
	withdrawals map[uint64]common.Hash
	errs        map[uint64]error
	handled     []uint64
}

func newFakeExecutor() *fakeExecutor {
	return &fakeExecutor{
		stateRoots:  map[uint64]common.Hash{},
		withdrawals: map[uint64]common.Hash{},
		errs:        map[uint64]error{},
	}
}

func (f *fakeExecutor) HandleBlock(ctx executor.Context) (*executor.ExecutionResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	number := ctx.Number()
	f.handled = append(f.handled, number)
	if err, ok := f.errs[number]; ok {
		return nil, err
	}
	result := &executor.ExecutionResult{
		NewStateRoot:      stateRoot(number),
		NewWithdrawalRoot: withdrawalRoot(number),
	}
	if root, ok := f.stateRoots[number]; ok {
		result.NewStateRoot = root
	}
	if root, ok := f.withdrawals[number]; ok {
		result.NewWithdrawalRoot = root
	}
	return result, nil
}

func newTestVerifier(node TraceClient, exec *fakeExecutor) *BatchVerifier {
	v := NewWithClient(Config{}, node)
	if exec != nil {
		v.newExecutor = func(*PobContext) BlockExecutor { return exec }
	}
	return v
}

// fakeTraceClient serves the traces of a set of pobs
type fakeTraceClient struct {
	traces map[uint64]*BlockTrace
	errs   map[uint64]error
}

func (f *fakeTraceClient) TraceBlock(ctx context.Context, number uint64) (*BlockTrace, error) {
	if err, ok := f.errs[number]; ok {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	trace, ok := f.traces[number]
	if !ok {
		return nil, ErrTraceNotFound
	}
	return trace, nil
}

func traceOf(pob *prover.Pob, nodes ...hexutil.Bytes) *BlockTrace {
	return &BlockTrace{
		ChainID: pob.Data.ChainID,
		Header: &types.Header{
			Number:     new(big.Int).SetUint64(uint64(pob.Block.Number)),
			Time:       uint64(pob.Block.Timestamp),
			GasLimit:   uint64(pob.Block.GasLimit),
			BaseFee:    pob.BaseFeeInt(),
			Coinbase:   pob.Block.Coinbase,
			Root:       pob.Block.StateRoot,
			Difficulty: new(big.Int),
		},
		Transactions: pob.Block.Transactions,
		StorageTrace: &StorageTrace{
			RootBefore: pob.Data.PrevStateRoot,
			RootAfter:  pob.Block.StateRoot,
			Proofs:     map[string][]hexutil.Bytes{"0x01": nodes},
		},
		WithdrawTrieRoot: pob.Data.WithdrawalRoot,
	}
}
