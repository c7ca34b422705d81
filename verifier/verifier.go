// Package verifier replays the blocks of a committed batch and binds the
// resulting state transition to the hash of the batch.
package verifier

import (
	"context"
	"time"

	"github.com/0xPolygon/cdk-verifier/dacodec"
	"github.com/0xPolygon/cdk-verifier/executor"
	"github.com/0xPolygon/cdk-verifier/hardfork"
	"github.com/0xPolygon/cdk-verifier/log"
	"github.com/0xPolygon/cdk-verifier/parallel"
	"github.com/0xPolygon/cdk-verifier/prover"
	"github.com/0xPolygon/cdk-verifier/stackerr"
	"github.com/ethereum/go-ethereum/common"
)

// TraceClient fetches block traces from an execution endpoint
type TraceClient interface {
	TraceBlock(ctx context.Context, number uint64) (*BlockTrace, error)
}

// BlockExecutor replays one block
type BlockExecutor interface {
	HandleBlock(ctx executor.Context) (*executor.ExecutionResult, error)
}

// ExecutorFactory returns the executor replaying the block of a context
type ExecutorFactory func(pctx *PobContext) BlockExecutor

// CacheKey identifies a verification request: the same committed batch
// proven from the same pobs yields the same Poe.
type CacheKey struct {
	BatchID    uint64      `json:"batchId"`
	StartBlock uint64      `json:"startBlock"`
	EndBlock   uint64      `json:"endBlock"`
	PobHash    common.Hash `json:"pobHash"`
}

// BatchVerifier verifies committed batches
type BatchVerifier struct {
	cfg         Config
	alive       *parallel.Alive
	node        TraceClient
	codec       *dacodec.Codec
	newExecutor ExecutorFactory
	logger      *log.Logger
}

// New returns a verifier. When cfg.ExecutionURL is set the endpoint is
// dialed and the verifier can generate the pobs itself.
func New(ctx context.Context, cfg Config) (*BatchVerifier, error) {
	var node TraceClient
	if cfg.ExecutionURL != "" {
		el, err := DialExecutionNode(ctx, cfg.ExecutionURL, cfg.CallTimeout.Duration, cfg.TraceMethod)
		if err != nil {
			return nil, &EthError{Err: err}
		}
		node = el
	}
	return NewWithClient(cfg, node), nil
}

// NewWithClient returns a verifier fetching the traces from node, which may be nil
func NewWithClient(cfg Config, node TraceClient) *BatchVerifier {
	if cfg.Workers <= 0 {
		cfg.Workers = parallel.DefaultWorkers
	}
	if cfg.MessageQueueAddress == (common.Address{}) {
		cfg.MessageQueueAddress = executor.DefaultMessageQueue
	}
	codec := dacodec.DefaultCodec()
	if cfg.MaxBlockRange == 0 {
		cfg.MaxBlockRange = codec.MaxBatchBlocks()
	}
	v := &BatchVerifier{
		cfg:    cfg,
		alive:  parallel.NewAlive(),
		node:   node,
		codec:  codec,
		logger: log.WithFields("module", "verifier"),
	}
	v.newExecutor = v.evmExecutor
	return v
}

func (v *BatchVerifier) evmExecutor(pctx *PobContext) BlockExecutor {
	memdb := pctx.Memdb()
	return executor.NewEVMExecutor(pctx.DB(memdb), pctx.ChainConfig(), v.cfg.MessageQueueAddress)
}

// WithContext reports whether the pobs must be supplied by the caller
func (v *BatchVerifier) WithContext() bool {
	return v.node == nil
}

// Close interrupts the runs in progress and closes the execution endpoint
func (v *BatchVerifier) Close() {
	v.alive.Shutdown()
	if el, ok := v.node.(*ExecutionNode); ok {
		el.Close()
	}
}

// GenerateContext fetches the traces of the blocks start..end (inclusive)
// and returns their pobs in block order.
func (v *BatchVerifier) GenerateContext(ctx context.Context, start, end uint64) ([]*prover.Pob, error) {
	if v.node == nil {
		return nil, ErrRequireExecutionEndpoint
	}
	// end-start+1 overflows for 0..MaxUint64, compare the distance instead
	if end < start || end-start >= v.cfg.MaxBlockRange {
		return nil, &BlockRangeError{Start: start, End: end, Max: v.cfg.MaxBlockRange}
	}
	count := end - start + 1
	numbers := make([]uint64, count)
	for i := range numbers {
		numbers[i] = start + uint64(i)
	}
	return parallel.Map(ctx, v.alive, numbers, v.cfg.Workers, func(ctx context.Context, number uint64) (*prover.Pob, error) {
		now := time.Now()
		trace, err := v.node.TraceBlock(ctx, number)
		if err != nil {
			return nil, stackerr.Wrap(&EthError{Err: err}, FrameFailGenBlockTrace, "number", number)
		}
		pob, err := BlockTraceToPob(trace)
		if err != nil {
			return nil, stackerr.Wrap(err, FrameBlock, "number", number)
		}
		v.logger.Infof("generate pob: %d -> %s", number, time.Since(now))
		return pob, nil
	})
}

// CacheKey decodes the batch and returns the key of its verification with the given pobs
func (v *BatchVerifier) CacheKey(batchData []byte, pobHash common.Hash) (CacheKey, error) {
	batch, err := v.codec.Decode(batchData)
	if err != nil {
		return CacheKey{}, err
	}
	return CacheKey{
		BatchID:    batch.ID(),
		StartBlock: batch.Start(),
		EndBlock:   batch.End(),
		PobHash:    pobHash,
	}, nil
}

// Prove decodes the committed batch and verifies it against the pobs of its blocks, in block order
func (v *BatchVerifier) Prove(ctx context.Context, pobs []*prover.Pob, batchData []byte) (*prover.Poe, error) {
	batch, err := v.codec.Decode(batchData)
	if err != nil {
		return nil, err
	}
	ctxs := make([]*PobContext, len(pobs))
	for i, pob := range pobs {
		if pob == nil {
			return nil, stackerr.Wrap(&FailGenPobError{Reason: "nil pob"}, FramePob, "index", i)
		}
		ctxs[i] = NewPobContext(*pob)
	}
	return v.Verify(ctx, batch, ctxs)
}

// Verify rebuilds the batch from the contexts, replays every block and
// merges the results into the Poe of the batch. The batch version is the one
// active at the last context.
func (v *BatchVerifier) Verify(ctx context.Context, batch *dacodec.BatchTask, ctxs []*PobContext) (*prover.Poe, error) {
	if len(ctxs) == 0 {
		return nil, ErrMissingBatch
	}
	last := ctxs[len(ctxs)-1]
	fork := hardfork.DefaultFromChainID(ctxs[0].ChainID())
	version := fork.BatchVersion(last.Number(), last.Timestamp())

	blocks := make([]dacodec.BlockContext, len(ctxs))
	for i, c := range ctxs {
		blocks[i] = c
	}
	newBatch, err := batch.BuildBatch(version, blocks)
	if err != nil {
		return nil, err
	}
	v.logger.Debugf("batch %d rebuilt at version %d: blocks %d..%d", newBatch.ID(), version,
		newBatch.Start(), newBatch.End())

	poes, err := parallel.Map(ctx, v.alive, ctxs, v.cfg.Workers, func(_ context.Context, pctx *PobContext) (*prover.Poe, error) {
		now := time.Now()
		result, err := v.newExecutor(pctx).HandleBlock(pctx)
		v.logger.Infof("generate poe: %d -> %s", pctx.Number(), time.Since(now))
		if err != nil {
			return nil, stackerr.Wrap(err, FrameBlock, "number", pctx.Number())
		}
		if err := verifyResult(result, pctx); err != nil {
			return nil, stackerr.Wrap(err, FrameBlock, "number", pctx.Number())
		}
		return &prover.Poe{
			PrevStateRoot:  pctx.PrevStateRoot(),
			NewStateRoot:   result.NewStateRoot,
			WithdrawalRoot: result.NewWithdrawalRoot,
		}, nil
	})
	if err != nil {
		return nil, err
	}

	poe, err := prover.Merge(newBatch.Hash(), poes)
	if err != nil {
		return nil, ErrMissingBatch
	}
	return poe, nil
}

func verifyResult(result *executor.ExecutionResult, ctx executor.Context) error {
	if result.NewStateRoot != ctx.StateRoot() {
		return &StateRootMismatchError{Local: result.NewStateRoot, Remote: ctx.StateRoot()}
	}
	if result.NewWithdrawalRoot != ctx.WithdrawalRoot() {
		return &WithdrawalRootMismatchError{Local: result.NewWithdrawalRoot, Remote: ctx.WithdrawalRoot()}
	}
	return nil
}
