// Package cache keeps the Poe of the batches already verified, in memory and
// optionally in a sqlite file.
package cache

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/0xPolygon/cdk-verifier/cache/migrations"
	"github.com/0xPolygon/cdk-verifier/db"
	"github.com/0xPolygon/cdk-verifier/log"
	"github.com/0xPolygon/cdk-verifier/prover"
	"github.com/0xPolygon/cdk-verifier/verifier"
	"github.com/ethereum/go-ethereum/common"
	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/russross/meddler"
)

const (
	// DefaultSize is the number of Poe kept in memory when Config.Size is not set
	DefaultSize = 1024

	errWhileRollbackFormat = "error while rolling back tx: %w"
)

// Config is the configuration of the Poe cache
type Config struct {
	// DBPath is the sqlite file persisting the Poe. Empty keeps them in memory only.
	DBPath string `mapstructure:"DBPath"`
	// Size is the number of Poe kept in memory
	Size int `mapstructure:"Size"`
}

type poeRow struct {
	BatchID        uint64      `meddler:"batch_id"`
	StartBlock     uint64      `meddler:"start_block"`
	EndBlock       uint64      `meddler:"end_block"`
	PobHash        common.Hash `meddler:"pob_hash,hash"`
	BatchHash      common.Hash `meddler:"batch_hash,hash"`
	PrevStateRoot  common.Hash `meddler:"prev_state_root,hash"`
	NewStateRoot   common.Hash `meddler:"new_state_root,hash"`
	WithdrawalRoot common.Hash `meddler:"withdrawal_root,hash"`
	CreatedAt      int64       `meddler:"created_at"`
}

func (r *poeRow) poe() *prover.Poe {
	return &prover.Poe{
		BatchHash:      r.BatchHash,
		PrevStateRoot:  r.PrevStateRoot,
		NewStateRoot:   r.NewStateRoot,
		WithdrawalRoot: r.WithdrawalRoot,
	}
}

// PoeCache maps a verification request to its Poe
type PoeCache struct {
	db     *sql.DB
	lru    *lru.Cache[verifier.CacheKey, prover.Poe]
	logger *log.Logger
}

// NewPoeCache returns a cache backed by the sqlite file of cfg, if any
func NewPoeCache(cfg Config) (*PoeCache, error) {
	size := cfg.Size
	if size <= 0 {
		size = DefaultSize
	}
	mem, err := lru.New[verifier.CacheKey, prover.Poe](size)
	if err != nil {
		return nil, err
	}
	c := &PoeCache{
		lru:    mem,
		logger: log.WithFields("module", "cache"),
	}
	if cfg.DBPath == "" {
		return c, nil
	}
	if err := migrations.RunMigrations(cfg.DBPath); err != nil {
		return nil, err
	}
	if c.db, err = db.NewSQLiteDB(cfg.DBPath); err != nil {
		return nil, err
	}
	return c, nil
}

// Get returns the Poe stored for key, or db.ErrNotFound
func (c *PoeCache) Get(key verifier.CacheKey) (*prover.Poe, error) {
	if poe, ok := c.lru.Get(key); ok {
		return &poe, nil
	}
	if c.db == nil {
		return nil, db.ErrNotFound
	}
	row := &poeRow{}
	err := meddler.QueryRow(c.db, row, `
		SELECT * FROM poe
		WHERE batch_id = $1 AND start_block = $2 AND end_block = $3 AND pob_hash = $4;`,
		key.BatchID, key.StartBlock, key.EndBlock, key.PobHash.Hex())
	if err != nil {
		return nil, db.ReturnErrNotFound(err)
	}
	poe := row.poe()
	c.lru.Add(key, *poe)
	return poe, nil
}

// Put stores the Poe of key, replacing any previous one
func (c *PoeCache) Put(ctx context.Context, key verifier.CacheKey, poe *prover.Poe) error {
	if poe == nil {
		return errors.New("nil poe")
	}
	if c.db == nil {
		c.lru.Add(key, *poe)
		return nil
	}

	tx, err := db.NewTx(ctx, c.db)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			if errRllbck := tx.Rollback(); errRllbck != nil {
				c.logger.Errorf(errWhileRollbackFormat, errRllbck)
			}
		}
	}()

	if _, err = tx.Exec(`
		DELETE FROM poe
		WHERE batch_id = $1 AND start_block = $2 AND end_block = $3 AND pob_hash = $4;`,
		key.BatchID, key.StartBlock, key.EndBlock, key.PobHash.Hex()); err != nil {
		return fmt.Errorf("error deleting poe: %w", err)
	}
	row := &poeRow{
		BatchID:        key.BatchID,
		StartBlock:     key.StartBlock,
		EndBlock:       key.EndBlock,
		PobHash:        key.PobHash,
		BatchHash:      poe.BatchHash,
		PrevStateRoot:  poe.PrevStateRoot,
		NewStateRoot:   poe.NewStateRoot,
		WithdrawalRoot: poe.WithdrawalRoot,
		CreatedAt:      time.Now().Unix(),
	}
	if err = meddler.Insert(tx, "poe", row); err != nil {
		return fmt.Errorf("error inserting poe: %w", err)
	}
	stored := *poe
	tx.AddCommitCallback(func() { c.lru.Add(key, stored) })
	if err = tx.Commit(); err != nil {
		return err
	}

	c.logger.Debugf("stored poe of batch %d (blocks %d..%d)", key.BatchID, key.StartBlock, key.EndBlock)
	return nil
}

// Len returns the number of Poe held in memory
func (c *PoeCache) Len() int {
	return c.lru.Len()
}

// Close closes the sqlite file
func (c *PoeCache) Close() error {
	if c.db == nil {
		return nil
	}
	return c.db.Close()
}
