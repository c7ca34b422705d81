package rpc

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/0xPolygon/cdk-rpc/rpc"
	"github.com/0xPolygon/cdk-verifier/db"
	"github.com/0xPolygon/cdk-verifier/log"
	"github.com/0xPolygon/cdk-verifier/prover"
	"github.com/0xPolygon/cdk-verifier/rpc/types"
	"github.com/0xPolygon/cdk-verifier/verifier"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
)

const (
	// VERIFIER is the namespace of the verifier service
	VERIFIER  = "verifier"
	meterName = "github.com/0xPolygon/cdk-verifier/rpc"
)

// Verifier proves committed batches
type Verifier interface {
	Prove(ctx context.Context, pobs []*prover.Pob, batchData []byte) (*prover.Poe, error)
	GenerateContext(ctx context.Context, start, end uint64) ([]*prover.Pob, error)
	CacheKey(batchData []byte, pobHash common.Hash) (verifier.CacheKey, error)
	WithContext() bool
}

// PoeCacher stores the Poe of the batches already proven
type PoeCacher interface {
	Get(key verifier.CacheKey) (*prover.Poe, error)
	Put(ctx context.Context, key verifier.CacheKey, poe *prover.Poe) error
}

// VerifierEndpoints contains implementations for the "verifier" RPC endpoints
type VerifierEndpoints struct {
	logger       *log.Logger
	meter        metric.Meter
	readTimeout  time.Duration
	writeTimeout time.Duration
	version      string
	verifier     Verifier
	cache        PoeCacher

	proved    atomic.Uint64
	cacheHits atomic.Uint64
	failed    atomic.Uint64
}

// NewVerifierEndpoints returns VerifierEndpoints. cache may be nil.
func NewVerifierEndpoints(
	logger *log.Logger,
	writeTimeout time.Duration,
	readTimeout time.Duration,
	version string,
	v Verifier,
	cache PoeCacher,
) *VerifierEndpoints {
	return &VerifierEndpoints{
		logger:       logger,
		meter:        otel.Meter(meterName),
		readTimeout:  readTimeout,
		writeTimeout: writeTimeout,
		version:      version,
		verifier:     v,
		cache:        cache,
	}
}

func (b *VerifierEndpoints) count(ctx context.Context, name string) {
	c, merr := b.meter.Int64Counter(name)
	if merr != nil {
		b.logger.Warnf("failed to create %s counter: %s", name, merr)
		return
	}
	c.Add(ctx, 1)
}

func withTimeout(timeout time.Duration) (context.Context, context.CancelFunc) {
	if timeout <= 0 {
		return context.WithCancel(context.Background())
	}
	return context.WithTimeout(context.Background(), timeout)
}

// Prove verifies the committed batch against the pobs of its blocks and returns its Poe.
// When pobs is empty they are generated from the execution endpoint.
//
// curl -X POST http://localhost:5576/ -H "Content-Type: application/json" \
// -d '{"method":"verifier_prove", "params":["0x00...", [...]], "id":1}'
func (b *VerifierEndpoints) Prove(batchData hexutil.Bytes, pobs []*prover.Pob) (interface{}, rpc.Error) {
	ctx, cancel := withTimeout(b.writeTimeout)
	defer cancel()
	b.count(ctx, "prove")

	if len(pobs) == 0 {
		if b.verifier.WithContext() {
			return nil, rpc.NewRPCError(rpc.DefaultErrorCode, "the pobs of the batch are required")
		}
		var err error
		if pobs, err = b.generateBatchContext(ctx, batchData); err != nil {
			b.failed.Add(1)
			return nil, rpc.NewRPCError(rpc.DefaultErrorCode, fmt.Sprintf("failed to generate the pobs, error: %s", err))
		}
	}

	key, err := b.verifier.CacheKey(batchData, prover.HashList(pobs))
	if err != nil {
		b.failed.Add(1)
		return nil, rpc.NewRPCError(rpc.DefaultErrorCode, fmt.Sprintf("invalid batch, error: %s", err))
	}
	if poe := b.cached(key); poe != nil {
		b.cacheHits.Add(1)
		b.count(ctx, "prove_cache_hit")
		return poe, nil
	}

	poe, err := b.verifier.Prove(ctx, pobs, batchData)
	if err != nil {
		b.failed.Add(1)
		b.logger.Warnf("batch %d (blocks %d..%d) failed: %s", key.BatchID, key.StartBlock, key.EndBlock, err)
		return nil, rpc.NewRPCError(rpc.DefaultErrorCode, fmt.Sprintf("failed to prove batch %d, error: %s", key.BatchID, err))
	}
	b.proved.Add(1)
	if b.cache != nil {
		if err := b.cache.Put(ctx, key, poe); err != nil {
			b.logger.Errorf("failed to cache the poe of batch %d: %s", key.BatchID, err)
		}
	}
	return poe, nil
}

func (b *VerifierEndpoints) generateBatchContext(ctx context.Context, batchData []byte) ([]*prover.Pob, error) {
	key, err := b.verifier.CacheKey(batchData, common.Hash{})
	if err != nil {
		return nil, err
	}
	return b.verifier.GenerateContext(ctx, key.StartBlock, key.EndBlock)
}

func (b *VerifierEndpoints) cached(key verifier.CacheKey) *prover.Poe {
	if b.cache == nil {
		return nil
	}
	poe, err := b.cache.Get(key)
	if err != nil {
		if !errors.Is(err, db.ErrNotFound) {
			b.logger.Warnf("failed to read the poe cache: %s", err)
		}
		return nil
	}
	return poe
}

// GenerateContext returns the pobs of the blocks start..end, inclusive
func (b *VerifierEndpoints) GenerateContext(start, end hexutil.Uint64) (interface{}, rpc.Error) {
	ctx, cancel := withTimeout(b.readTimeout)
	defer cancel()
	b.count(ctx, "generate_context")

	pobs, err := b.verifier.GenerateContext(ctx, uint64(start), uint64(end))
	if errors.Is(err, verifier.ErrRequireExecutionEndpoint) {
		return nil, rpc.NewRPCError(rpc.NotFoundErrorCode, err.Error())
	}
	if err != nil {
		return nil, rpc.NewRPCError(rpc.DefaultErrorCode,
			fmt.Sprintf("failed to generate the pobs of blocks %d..%d, error: %s", start, end, err))
	}
	return pobs, nil
}

// CacheKey returns the key identifying the verification of the batch with the pobs hashing to pobHash
func (b *VerifierEndpoints) CacheKey(batchData hexutil.Bytes, pobHash common.Hash) (interface{}, rpc.Error) {
	ctx, cancel := withTimeout(b.readTimeout)
	defer cancel()
	b.count(ctx, "cache_key")

	key, err := b.verifier.CacheKey(batchData, pobHash)
	if err != nil {
		return nil, rpc.NewRPCError(rpc.DefaultErrorCode, fmt.Sprintf("invalid batch, error: %s", err))
	}
	return key, nil
}

// Status returns the counters of the verifier
func (b *VerifierEndpoints) Status() (interface{}, rpc.Error) {
	return types.Status{
		Version:     b.version,
		WithContext: b.verifier.WithContext(),
		Proved:      b.proved.Load(),
		CacheHits:   b.cacheHits.Load(),
		Failed:      b.failed.Load(),
	}, nil
}
