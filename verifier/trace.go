package verifier

import (
	"bytes"
	"sort"

	"github.com/0xPolygon/cdk-verifier/prover"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
)

// BlockTrace is the trace of a block returned by the execution endpoint
type BlockTrace struct {
	ChainID          hexutil.Uint64  `json:"chainID"`
	Header           *types.Header   `json:"header"`
	Transactions     []hexutil.Bytes `json:"transactions"`
	StorageTrace     *StorageTrace   `json:"storageTrace"`
	Codes            []hexutil.Bytes `json:"codes"`
	WithdrawTrieRoot common.Hash     `json:"withdraw_trie_root"`
}

// StorageTrace holds the state witnesses of a block trace: the proofs of
// every account and storage slot touched by the block.
type StorageTrace struct {
	RootBefore     common.Hash                           `json:"rootBefore"`
	RootAfter      common.Hash                           `json:"rootAfter"`
	Proofs         map[string][]hexutil.Bytes            `json:"proofs"`
	StorageProofs  map[string]map[string][]hexutil.Bytes `json:"storageProofs"`
	DeletionProofs []hexutil.Bytes                       `json:"deletionProofs"`
}

// BlockTraceToPob converts a block trace into the pob of the block
func BlockTraceToPob(trace *BlockTrace) (*prover.Pob, error) {
	switch {
	case trace == nil:
		return nil, &FailGenPobError{Reason: "empty trace"}
	case trace.Header == nil:
		return nil, &FailGenPobError{Reason: "trace without header"}
	case trace.StorageTrace == nil:
		return nil, &FailGenPobError{Reason: "trace without storage trace"}
	case trace.StorageTrace.RootAfter != trace.Header.Root:
		return nil, &FailGenPobError{Reason: "storage trace does not end at the header state root"}
	}

	header := trace.Header
	pob := &prover.Pob{
		Block: prover.Block{
			Number:       hexutil.Uint64(header.Number.Uint64()),
			Timestamp:    hexutil.Uint64(header.Time),
			GasLimit:     hexutil.Uint64(header.GasLimit),
			Coinbase:     header.Coinbase,
			StateRoot:    header.Root,
			Transactions: trace.Transactions,
		},
		Data: prover.PobData{
			ChainID:        trace.ChainID,
			PrevStateRoot:  trace.StorageTrace.RootBefore,
			WithdrawalRoot: trace.WithdrawTrieRoot,
			MPTNodes:       witnessNodes(trace.StorageTrace),
			Codes:          dedup(trace.Codes),
		},
	}
	if header.BaseFee != nil {
		pob.Block.BaseFee = (*hexutil.Big)(header.BaseFee)
	}
	return pob, nil
}

func witnessNodes(st *StorageTrace) []hexutil.Bytes {
	var nodes []hexutil.Bytes
	for _, proof := range st.Proofs {
		nodes = append(nodes, proof...)
	}
	for _, slots := range st.StorageProofs {
		for _, proof := range slots {
			nodes = append(nodes, proof...)
		}
	}
	nodes = append(nodes, st.DeletionProofs...)
	return dedup(nodes)
}

// dedup returns the distinct non empty blobs sorted by hash
func dedup(blobs []hexutil.Bytes) []hexutil.Bytes {
	type entry struct {
		hash common.Hash
		blob hexutil.Bytes
	}
	seen := make(map[common.Hash]struct{}, len(blobs))
	entries := make([]entry, 0, len(blobs))
	for _, blob := range blobs {
		if len(blob) == 0 {
			continue
		}
		hash := crypto.Keccak256Hash(blob)
		if _, ok := seen[hash]; ok {
			continue
		}
		seen[hash] = struct{}{}
		entries = append(entries, entry{hash: hash, blob: blob})
	}
	sort.Slice(entries, func(i, j int) bool {
		return bytes.Compare(entries[i].hash[:], entries[j].hash[:]) < 0
	})
	out := make([]hexutil.Bytes, len(entries))
	for i, e := range entries {
		out[i] = e.blob
	}
	return out
}
