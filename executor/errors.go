package executor

import (
	"errors"
	"fmt"

	"github.com/ethereum/go-ethereum/common"
)

// ExecutionError is implemented by every error returned by HandleBlock
type ExecutionError interface {
	error
	executionError()
}

// IsExecutionError reports whether err comes from the execution of a block
func IsExecutionError(err error) bool {
	var execErr ExecutionError
	return errors.As(err, &execErr)
}

// StateError wraps a failure of the state database
type StateError struct {
	Root common.Hash
	Err  error
}

func (e *StateError) Error() string {
	return fmt.Sprintf("State(root=%s): %v", e.Root.Hex(), e.Err)
}
func (e *StateError) Unwrap() error   { return e.Err }
func (e *StateError) executionError() {}

// TxError wraps a transaction that cannot be decoded or applied to the state
type TxError struct {
	Index int
	Hash  common.Hash
	Err   error
}

func (e *TxError) Error() string {
	return fmt.Sprintf("Tx(index=%d, hash=%s): %v", e.Index, e.Hash.Hex(), e.Err)
}
func (e *TxError) Unwrap() error   { return e.Err }
func (e *TxError) executionError() {}
