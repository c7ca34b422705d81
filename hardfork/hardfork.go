// Package hardfork maps block numbers and timestamps to the rules of the
// rollup chain: the active spec and the batch encoding version.
package hardfork

import (
	"fmt"
	"math/big"

	"github.com/0xPolygon/cdk-verifier/dacodec"
	"github.com/ethereum/go-ethereum/params"
)

const (
	MainnetChainID uint64 = 534352
	SepoliaChainID uint64 = 534351
)

// SpecID identifies the rule set active at a block
type SpecID uint8

const (
	PreBernoulli SpecID = iota
	Bernoulli
	Curie
	Darwin
)

func (s SpecID) String() string {
	switch s {
	case PreBernoulli:
		return "pre-bernoulli"
	case Bernoulli:
		return "bernoulli"
	case Curie:
		return "curie"
	case Darwin:
		return "darwin"
	default:
		return fmt.Sprintf("SpecID(%d)", uint8(s))
	}
}

// Config is the fork table of one chain. Bernoulli and Curie activate by
// block number, Darwin by timestamp. A nil activation never happens.
type Config struct {
	ChainID        uint64  `mapstructure:"ChainID"`
	BernoulliBlock *uint64 `mapstructure:"BernoulliBlock"`
	CurieBlock     *uint64 `mapstructure:"CurieBlock"`
	DarwinTime     *uint64 `mapstructure:"DarwinTime"`
}

func u64(v uint64) *uint64 { return &v }

// DefaultFromChainID returns the fork table of a known chain. Unknown chains
// run every fork from genesis.
func DefaultFromChainID(chainID uint64) *Config {
	switch chainID {
	case MainnetChainID:
		return &Config{
			ChainID:        chainID,
			BernoulliBlock: u64(5220340),
			CurieBlock:     u64(7096836),
			DarwinTime:     u64(1724227200),
		}
	case SepoliaChainID:
		return &Config{
			ChainID:        chainID,
			BernoulliBlock: u64(3747132),
			CurieBlock:     u64(4740239),
			DarwinTime:     u64(1723622400),
		}
	default:
		return &Config{
			ChainID:        chainID,
			BernoulliBlock: u64(0),
			CurieBlock:     u64(0),
			DarwinTime:     u64(0),
		}
	}
}

func activeAt(fork *uint64, v uint64) bool {
	return fork != nil && *fork <= v
}

// SpecID returns the rule set active at the block
func (c *Config) SpecID(number, time uint64) SpecID {
	switch {
	case activeAt(c.CurieBlock, number) && activeAt(c.DarwinTime, time):
		return Darwin
	case activeAt(c.CurieBlock, number):
		return Curie
	case activeAt(c.BernoulliBlock, number):
		return Bernoulli
	default:
		return PreBernoulli
	}
}

// BatchVersion returns the encoding version of a batch whose last block has
// the given number and timestamp.
func (c *Config) BatchVersion(number, time uint64) uint8 {
	return c.SpecID(number, time).BatchVersion()
}

// BatchVersion returns the batch encoding version introduced by the spec
func (s SpecID) BatchVersion() uint8 {
	switch s {
	case PreBernoulli:
		return dacodec.BatchV0
	case Bernoulli:
		return dacodec.BatchV1
	default:
		return dacodec.BatchV2
	}
}

// ChainConfig returns the execution rules of the chain. The rollup runs every
// Ethereum fork up to Shanghai from genesis.
func (c *Config) ChainConfig() *params.ChainConfig {
	zero := big.NewInt(0)
	shanghai := uint64(0)
	return &params.ChainConfig{
		ChainID:                       new(big.Int).SetUint64(c.ChainID),
		HomesteadBlock:                zero,
		EIP150Block:                   zero,
		EIP155Block:                   zero,
		EIP158Block:                   zero,
		ByzantiumBlock:                zero,
		ConstantinopleBlock:           zero,
		PetersburgBlock:               zero,
		IstanbulBlock:                 zero,
		MuirGlacierBlock:              zero,
		BerlinBlock:                   zero,
		LondonBlock:                   zero,
		ArrowGlacierBlock:             zero,
		GrayGlacierBlock:              zero,
		MergeNetsplitBlock:            zero,
		ShanghaiTime:                  &shanghai,
		TerminalTotalDifficulty:       zero,
		TerminalTotalDifficultyPassed: true,
	}
}

// Rules returns the execution rules active at the block
func (c *Config) Rules(number, time uint64) params.Rules {
	return c.ChainConfig().Rules(new(big.Int).SetUint64(number), true, time)
}
