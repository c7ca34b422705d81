package verifier

import (
	"errors"
	"fmt"

	"github.com/ethereum/go-ethereum/common"
)

// Context frames of the errors returned by the verifier
const (
	FrameBlock             = "Block"
	FrameFailGenBlockTrace = "FailGenBlockTrace"
	FramePob               = "Pob"
)

// ValidateError is implemented by the leaf errors of the verifier. Errors of
// the batch codec and of the executor are returned unchanged and match
// dacodec.BatchError and executor.ExecutionError.
type ValidateError interface {
	error
	validateError()
}

// IsValidateError reports whether err carries a ValidateError
func IsValidateError(err error) bool {
	var validateErr ValidateError
	return errors.As(err, &validateErr)
}

type sentinelError struct {
	name string
}

func (e *sentinelError) Error() string  { return e.name }
func (e *sentinelError) validateError() {}

var (
	// ErrRequireExecutionEndpoint is returned when contexts are requested from a verifier without endpoint
	ErrRequireExecutionEndpoint = &sentinelError{"RequireExecutionEndpoint"}
	// ErrMissingBatch is returned when verifying a batch without contexts
	ErrMissingBatch = &sentinelError{"MissingBatch"}
)

// StateRootMismatchError is returned when the replayed state root differs from the claimed one
type StateRootMismatchError struct {
	Local  common.Hash
	Remote common.Hash
}

func (e *StateRootMismatchError) Error() string {
	return fmt.Sprintf("StateRootMismatch{local: %s, remote: %s}", e.Local.Hex(), e.Remote.Hex())
}
func (e *StateRootMismatchError) validateError() {}

// WithdrawalRootMismatchError is returned when the replayed withdrawal root differs from the claimed one
type WithdrawalRootMismatchError struct {
	Local  common.Hash
	Remote common.Hash
}

func (e *WithdrawalRootMismatchError) Error() string {
	return fmt.Sprintf("WithdrawalRootMismatch{local: %s, remote: %s}", e.Local.Hex(), e.Remote.Hex())
}
func (e *WithdrawalRootMismatchError) validateError() {}

// FailGenPobError is returned when a block trace cannot be turned into a pob
type FailGenPobError struct {
	Reason string
}

func (e *FailGenPobError) Error() string {
	return "FailGenPob: " + e.Reason
}
func (e *FailGenPobError) validateError() {}

// BlockRangeError is returned when the pobs of an empty or oversized block range are requested
type BlockRangeError struct {
	Start uint64
	End   uint64
	Max   uint64
}

func (e *BlockRangeError) Error() string {
	return fmt.Sprintf("InvalidBlockRange{start: %d, end: %d, max: %d}", e.Start, e.End, e.Max)
}
func (e *BlockRangeError) validateError() {}

// EthError wraps a failure of the execution endpoint
type EthError struct {
	Err error
}

func (e *EthError) Error() string {
	return "Eth: " + e.Err.Error()
}
func (e *EthError) Unwrap() error  { return e.Err }
func (e *EthError) validateError() {}
