// Package executor replays one block on top of a witness backed state.
package executor

import (
	"encoding/binary"
	"math/big"

	"github.com/0xPolygon/cdk-verifier/dacodec"
	"github.com/0xPolygon/cdk-verifier/log"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core"
	"github.com/ethereum/go-ethereum/core/state"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/core/vm"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/params"
)

// DefaultMessageQueue is the predeployed contract holding the withdrawal trie root in slot 0
var DefaultMessageQueue = common.HexToAddress("0x5300000000000000000000000000000000000000")

// Context is the input of the replay of one block
type Context interface {
	ChainID() uint64
	Number() uint64
	Timestamp() uint64
	Coinbase() common.Address
	GasLimit() uint64
	BaseFee() *big.Int
	Transactions() [][]byte
	PrevStateRoot() common.Hash
	StateRoot() common.Hash
	WithdrawalRoot() common.Hash
}

// ExecutionResult holds the roots obtained by replaying a block
type ExecutionResult struct {
	NewStateRoot      common.Hash
	NewWithdrawalRoot common.Hash
	GasUsed           uint64
}

// EVMExecutor applies the transactions of a block with the go-ethereum state transition
type EVMExecutor struct {
	db           state.Database
	chainConfig  *params.ChainConfig
	messageQueue common.Address
	logger       *log.Logger
}

// NewEVMExecutor returns an executor reading the state from db
func NewEVMExecutor(db state.Database, chainConfig *params.ChainConfig, messageQueue common.Address) *EVMExecutor {
	return &EVMExecutor{
		db:           db,
		chainConfig:  chainConfig,
		messageQueue: messageQueue,
		logger:       log.WithFields("module", "executor"),
	}
}

// HandleBlock replays the block on top of its previous state root. L1
// messages are applied as fee-less messages sent by their L1 sender.
func (e *EVMExecutor) HandleBlock(ctx Context) (*ExecutionResult, error) {
	statedb, err := state.New(ctx.PrevStateRoot(), e.db, nil)
	if err != nil {
		return nil, &StateError{Root: ctx.PrevStateRoot(), Err: err}
	}

	number := new(big.Int).SetUint64(ctx.Number())
	blockCtx := vm.BlockContext{
		CanTransfer: core.CanTransfer,
		Transfer:    core.Transfer,
		GetHash:     blockHashFn(ctx.ChainID()),
		Coinbase:    ctx.Coinbase(),
		GasLimit:    ctx.GasLimit(),
		BlockNumber: number,
		Time:        ctx.Timestamp(),
		Difficulty:  new(big.Int),
		BaseFee:     ctx.BaseFee(),
		Random:      &common.Hash{},
	}
	signer := types.MakeSigner(e.chainConfig, number, ctx.Timestamp())
	gp := new(core.GasPool).AddGas(ctx.GasLimit())

	var gasUsed uint64
	for i, raw := range ctx.Transactions() {
		txHash := dacodec.TxHash(raw)
		msg, isL1, err := toMessage(raw, signer, blockCtx.BaseFee)
		if err != nil {
			return nil, &TxError{Index: i, Hash: txHash, Err: err}
		}
		statedb.SetTxContext(txHash, i)
		evm := vm.NewEVM(blockCtx, core.NewEVMTxContext(msg), statedb, e.chainConfig, vm.Config{NoBaseFee: isL1})
		result, err := core.ApplyMessage(evm, msg, gp)
		if err != nil {
			return nil, &TxError{Index: i, Hash: txHash, Err: err}
		}
		if result.Failed() {
			e.logger.Debugf("block %d tx %d (%s) reverted: %v", ctx.Number(), i, txHash.Hex(), result.Err)
		}
		gasUsed += result.UsedGas
		statedb.Finalise(true)
	}

	withdrawalRoot := statedb.GetState(e.messageQueue, common.Hash{})
	root := statedb.IntermediateRoot(true)
	if err := statedb.Error(); err != nil {
		return nil, &StateError{Root: ctx.PrevStateRoot(), Err: err}
	}
	return &ExecutionResult{
		NewStateRoot:      root,
		NewWithdrawalRoot: withdrawalRoot,
		GasUsed:           gasUsed,
	}, nil
}

func toMessage(raw []byte, signer types.Signer, baseFee *big.Int) (*core.Message, bool, error) {
	if dacodec.IsL1MessageTx(raw) {
		l1, err := dacodec.DecodeL1MessageTx(raw)
		if err != nil {
			return nil, true, err
		}
		value := l1.Value
		if value == nil {
			value = new(big.Int)
		}
		return &core.Message{
			From:              l1.Sender,
			To:                l1.To,
			Nonce:             l1.QueueIndex,
			Value:             value,
			GasLimit:          l1.Gas,
			GasPrice:          new(big.Int),
			GasFeeCap:         new(big.Int),
			GasTipCap:         new(big.Int),
			Data:              l1.Data,
			SkipAccountChecks: true,
		}, true, nil
	}
	tx, err := dacodec.DecodeL2Tx(raw)
	if err != nil {
		return nil, false, err
	}
	msg, err := core.TransactionToMessage(tx, signer, baseFee)
	return msg, false, err
}

// blockHashFn returns the BLOCKHASH of the rollup: keccak256(chainID || number)
func blockHashFn(chainID uint64) vm.GetHashFunc {
	return func(number uint64) common.Hash {
		var buf [16]byte
		binary.BigEndian.PutUint64(buf[:8], chainID)
		binary.BigEndian.PutUint64(buf[8:], number)
		return crypto.Keccak256Hash(buf[:])
	}
}
