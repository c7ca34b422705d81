package verifier

import (
	"math/big"

	"github.com/0xPolygon/cdk-verifier/hardfork"
	"github.com/0xPolygon/cdk-verifier/prover"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/rawdb"
	"github.com/ethereum/go-ethereum/core/state"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/ethdb"
	"github.com/ethereum/go-ethereum/params"
)

// PobContext exposes a pob as the input of the batch codec and of the
// executor. It holds its own copy of the pob.
type PobContext struct {
	pob      prover.Pob
	hardfork *hardfork.Config
}

// NewPobContext wraps a copy of pob
func NewPobContext(pob prover.Pob) *PobContext {
	return &PobContext{
		pob:      pob,
		hardfork: hardfork.DefaultFromChainID(uint64(pob.Data.ChainID)),
	}
}

// Pob returns the wrapped pob
func (c *PobContext) Pob() prover.Pob { return c.pob }

// ChainID is the chain the block belongs to
func (c *PobContext) ChainID() uint64 { return uint64(c.pob.Data.ChainID) }

// Number is the block number
func (c *PobContext) Number() uint64 { return uint64(c.pob.Block.Number) }

// Timestamp is the block timestamp
func (c *PobContext) Timestamp() uint64 { return uint64(c.pob.Block.Timestamp) }

// GasLimit is the gas limit of the block
func (c *PobContext) GasLimit() uint64 { return uint64(c.pob.Block.GasLimit) }

// Coinbase receives the fees of the block
func (c *PobContext) Coinbase() common.Address { return c.pob.Block.Coinbase }

// BaseFee is the base fee of the block, zero when absent
func (c *PobContext) BaseFee() *big.Int { return c.pob.BaseFeeInt() }

// PrevStateRoot is the state root the block is executed on
func (c *PobContext) PrevStateRoot() common.Hash { return c.pob.Data.PrevStateRoot }

// StateRoot is the claimed state root after the block
func (c *PobContext) StateRoot() common.Hash { return c.pob.Block.StateRoot }

// WithdrawalRoot is the claimed withdrawal root after the block
func (c *PobContext) WithdrawalRoot() common.Hash { return c.pob.Data.WithdrawalRoot }

// Transactions returns the raw transactions of the block
func (c *PobContext) Transactions() [][]byte {
	txs := make([][]byte, len(c.pob.Block.Transactions))
	for i, tx := range c.pob.Block.Transactions {
		txs[i] = tx
	}
	return txs
}

// Spec returns the rule set active at the block
func (c *PobContext) Spec() hardfork.SpecID {
	return c.hardfork.SpecID(c.Number(), c.Timestamp())
}

// BatchVersion returns the version of the batch the block belongs to
func (c *PobContext) BatchVersion() uint8 {
	return c.hardfork.BatchVersion(c.Number(), c.Timestamp())
}

// ChainConfig returns the execution rules of the chain of the block
func (c *PobContext) ChainConfig() *params.ChainConfig {
	return c.hardfork.ChainConfig()
}

// Memdb returns a new in-memory database holding the trie nodes and the codes of the pob
func (c *PobContext) Memdb() ethdb.Database {
	memdb := rawdb.NewMemoryDatabase()
	for _, node := range c.pob.Data.MPTNodes {
		rawdb.WriteLegacyTrieNode(memdb, crypto.Keccak256Hash(node), node)
	}
	for _, code := range c.pob.Data.Codes {
		rawdb.WriteCode(memdb, crypto.Keccak256Hash(code), code)
	}
	return memdb
}

// DB returns the state database reading from memdb
func (c *PobContext) DB(memdb ethdb.Database) state.Database {
	return state.NewDatabase(memdb)
}
