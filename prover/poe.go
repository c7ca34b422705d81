package prover

import (
	"errors"

	"github.com/ethereum/go-ethereum/common"
)

// ErrNoPoe is returned when merging an empty list of per block results
var ErrNoPoe = errors.New("no proof of execution to merge")

// Poe (proof of execution) binds the hash of a batch to the state transition
// obtained by replaying its blocks.
type Poe struct {
	BatchHash      common.Hash `json:"batchHash"`
	PrevStateRoot  common.Hash `json:"prevStateRoot"`
	NewStateRoot   common.Hash `json:"newStateRoot"`
	WithdrawalRoot common.Hash `json:"withdrawalRoot"`
}

// Merge folds the per block results of a batch, in block order, into the
// proof of the batch: the previous state root comes from the first block,
// the new state and withdrawal roots from the last one.
func Merge(batchHash common.Hash, poes []*Poe) (*Poe, error) {
	if len(poes) == 0 {
		return nil, ErrNoPoe
	}
	first, last := poes[0], poes[len(poes)-1]
	return &Poe{
		BatchHash:      batchHash,
		PrevStateRoot:  first.PrevStateRoot,
		NewStateRoot:   last.NewStateRoot,
		WithdrawalRoot: last.WithdrawalRoot,
	}, nil
}
