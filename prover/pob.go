package prover

import (
	"encoding/json"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/crypto"
)

// Block is the body of a proven block together with its claimed state root
type Block struct {
	Number       hexutil.Uint64  `json:"number"`
	Timestamp    hexutil.Uint64  `json:"timestamp"`
	BaseFee      *hexutil.Big    `json:"baseFeePerGas"`
	GasLimit     hexutil.Uint64  `json:"gasLimit"`
	Coinbase     common.Address  `json:"miner"`
	StateRoot    common.Hash     `json:"stateRoot"`
	Transactions []hexutil.Bytes `json:"transactions"`
}

// PobData is the execution input of a block: the state it starts from, the
// witnesses needed to rebuild that state and the claimed withdrawal root.
type PobData struct {
	ChainID        hexutil.Uint64  `json:"chainId"`
	PrevStateRoot  common.Hash     `json:"prevStateRoot"`
	WithdrawalRoot common.Hash     `json:"withdrawalRoot"`
	MPTNodes       []hexutil.Bytes `json:"mptNodes"`
	Codes          []hexutil.Bytes `json:"codes"`
}

// Pob (proof of block) is everything needed to replay one block without
// access to a node.
type Pob struct {
	Block Block   `json:"block"`
	Data  PobData `json:"data"`
}

// Hash returns the keccak256 of the JSON encoding of the pob
func (p *Pob) Hash() common.Hash {
	encoded, err := json.Marshal(p)
	if err != nil {
		// every field has a deterministic JSON encoding
		panic(err)
	}
	return crypto.Keccak256Hash(encoded)
}

// BaseFeeInt returns the base fee of the block, zero when absent
func (p *Pob) BaseFeeInt() *big.Int {
	if p.Block.BaseFee == nil {
		return new(big.Int)
	}
	return new(big.Int).Set(p.Block.BaseFee.ToInt())
}

// HashList returns the hash identifying an ordered list of pobs
func HashList(pobs []*Pob) common.Hash {
	hashes := make([][]byte, 0, len(pobs))
	for _, pob := range pobs {
		if pob == nil {
			hashes = append(hashes, common.Hash{}.Bytes())
			continue
		}
		hash := pob.Hash()
		hashes = append(hashes, hash.Bytes())
	}
	return crypto.Keccak256Hash(hashes...)
}
