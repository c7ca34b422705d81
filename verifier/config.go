package verifier

import (
	"github.com/0xPolygon/cdk-verifier/config/types"
	"github.com/ethereum/go-ethereum/common"
)

// Config is the configuration of the batch verifier
type Config struct {
	// ExecutionURL is the endpoint the block traces are fetched from. Empty
	// means the pobs must be supplied by the caller.
	ExecutionURL string `mapstructure:"ExecutionURL"`
	// CallTimeout bounds every call to the execution endpoint, 0 disables it
	CallTimeout types.Duration `mapstructure:"CallTimeout"`
	// TraceMethod is the JSON-RPC method returning the trace of a block by number
	TraceMethod string `mapstructure:"TraceMethod"`
	// Workers is the number of blocks fetched or replayed concurrently
	Workers int `mapstructure:"Workers"`
	// MaxBlockRange is the largest number of blocks GenerateContext serves in
	// one call. 0 means the largest batch the codec accepts.
	MaxBlockRange uint64 `mapstructure:"MaxBlockRange"`
	// MessageQueueAddress is the contract holding the withdrawal root in its first slot
	MessageQueueAddress common.Address `mapstructure:"MessageQueueAddress"`
}
