package verifier

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/0xPolygon/cdk-verifier/config/types"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/stretchr/testify/require"
)

type jsonRPCRequest struct {
	ID     json.RawMessage `json:"id"`
	Method string          `json:"method"`
	Params []string        `json:"params"`
}

func newTraceServer(t *testing.T, delay time.Duration, traces map[string]*BlockTrace) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req jsonRPCRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		time.Sleep(delay)
		var result *BlockTrace
		if req.Method == DefaultTraceMethod && len(req.Params) == 1 {
			result = traces[req.Params[0]]
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"jsonrpc": "2.0",
			"id":      req.ID,
			"result":  result,
		})
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestExecutionNodeTraceBlock(t *testing.T) {
	t.Parallel()

	pob := newChainedPobs(t, 12, 1)[0]
	pob.Data.MPTNodes = []hexutil.Bytes{}
	pob.Data.Codes = []hexutil.Bytes{}
	srv := newTraceServer(t, 0, map[string]*BlockTrace{"0xc": traceOf(pob)})

	node, err := DialExecutionNode(context.Background(), srv.URL, time.Second, "")
	require.NoError(t, err)
	defer node.Close()

	trace, err := node.TraceBlock(context.Background(), 12)
	require.NoError(t, err)
	got, err := BlockTraceToPob(trace)
	require.NoError(t, err)
	require.Equal(t, pob.Hash(), got.Hash())

	_, err = node.TraceBlock(context.Background(), 13)
	require.ErrorIs(t, err, ErrTraceNotFound)
}

func TestExecutionNodeTimeout(t *testing.T) {
	t.Parallel()

	srv := newTraceServer(t, 200*time.Millisecond, nil)
	node, err := DialExecutionNode(context.Background(), srv.URL, 10*time.Millisecond, DefaultTraceMethod)
	require.NoError(t, err)
	defer node.Close()

	_, err = node.TraceBlock(context.Background(), 1)
	require.Error(t, err)
}

func TestNewVerifier(t *testing.T) {
	t.Parallel()

	v, err := New(context.Background(), Config{})
	require.NoError(t, err)
	require.True(t, v.WithContext())
	v.Close()

	srv := newTraceServer(t, 0, nil)
	v, err = New(context.Background(), Config{ExecutionURL: srv.URL, CallTimeout: types.NewDuration(time.Second)})
	require.NoError(t, err)
	require.False(t, v.WithContext())
	v.Close()

	_, err = New(context.Background(), Config{ExecutionURL: "unknown://endpoint"})
	var ethErr *EthError
	require.ErrorAs(t, err, &ethErr)
}
