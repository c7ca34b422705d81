package dacodec

import (
	"errors"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/rlp"
)

// L1MessageTxType is the typed transaction envelope of messages relayed from L1
const L1MessageTxType = 0x7e

var errNotL1Message = errors.New("not an L1 message transaction")

// L1MessageTx is a message enqueued on L1 and included by the sequencer
type L1MessageTx struct {
	QueueIndex uint64
	Gas        uint64
	To         *common.Address `rlp:"nil"`
	Value      *big.Int
	Data       []byte
	Sender     common.Address
}

// MarshalBinary returns the typed envelope of the message
func (tx *L1MessageTx) MarshalBinary() ([]byte, error) {
	payload, err := rlp.EncodeToBytes(tx)
	if err != nil {
		return nil, err
	}
	return append([]byte{L1MessageTxType}, payload...), nil
}

// Hash returns the transaction hash of the message
func (tx *L1MessageTx) Hash() (common.Hash, error) {
	raw, err := tx.MarshalBinary()
	if err != nil {
		return common.Hash{}, err
	}
	return TxHash(raw), nil
}

// IsL1MessageTx reports whether raw is an L1 message envelope
func IsL1MessageTx(raw []byte) bool {
	return len(raw) > 0 && raw[0] == L1MessageTxType
}

// DecodeL1MessageTx decodes an L1 message envelope
func DecodeL1MessageTx(raw []byte) (*L1MessageTx, error) {
	if !IsL1MessageTx(raw) {
		return nil, errNotL1Message
	}
	tx := &L1MessageTx{}
	if err := rlp.DecodeBytes(raw[1:], tx); err != nil {
		return nil, err
	}
	return tx, nil
}

// DecodeL2Tx decodes a regular (non L1 message) transaction
func DecodeL2Tx(raw []byte) (*types.Transaction, error) {
	tx := &types.Transaction{}
	if err := tx.UnmarshalBinary(raw); err != nil {
		return nil, err
	}
	return tx, nil
}

// TxHash returns the hash of a raw transaction. For typed and legacy
// transactions it matches types.Transaction.Hash.
func TxHash(raw []byte) common.Hash {
	return crypto.Keccak256Hash(raw)
}
