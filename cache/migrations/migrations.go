package migrations

import (
	_ "embed"

	"github.com/0xPolygon/cdk-verifier/db"
)

//go:embed cache0001.sql
var mig001 string

// RunMigrations creates the poe table in the sqlite file at dbPath
func RunMigrations(dbPath string) error {
	return db.RunMigrations(dbPath, []db.Migration{
		{ID: "cache0001", SQL: mig001},
	})
}
