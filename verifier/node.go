package verifier

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/rpc"
)

// DefaultTraceMethod returns the trace of a block by number
const DefaultTraceMethod = "scroll_getBlockTraceByNumberOrHash"

// ErrTraceNotFound is returned when the endpoint has no trace for the block
var ErrTraceNotFound = errors.New("block trace not found")

// ExecutionNode is a client of the execution endpoint. It is safe for
// concurrent use: every caller shares the same connection.
type ExecutionNode struct {
	client  *rpc.Client
	timeout time.Duration
	method  string
}

// DialExecutionNode connects to the endpoint at url. A zero timeout leaves
// the calls bounded by their context only.
func DialExecutionNode(ctx context.Context, url string, timeout time.Duration, method string) (*ExecutionNode, error) {
	client, err := rpc.DialContext(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("dial execution endpoint %s: %w", url, err)
	}
	if method == "" {
		method = DefaultTraceMethod
	}
	return &ExecutionNode{client: client, timeout: timeout, method: method}, nil
}

// TraceBlock returns the trace of the block number
func (n *ExecutionNode) TraceBlock(ctx context.Context, number uint64) (*BlockTrace, error) {
	if n.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, n.timeout)
		defer cancel()
	}
	var trace *BlockTrace
	if err := n.client.CallContext(ctx, &trace, n.method, hexutil.EncodeUint64(number)); err != nil {
		return nil, err
	}
	if trace == nil {
		return nil, ErrTraceNotFound
	}
	return trace, nil
}

// Close closes the connection to the endpoint
func (n *ExecutionNode) Close() {
	n.client.Close()
}
