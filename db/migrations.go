package db

import (
	"fmt"
	"strings"

	"github.com/0xPolygon/cdk-verifier/log"
	migrate "github.com/rubenv/sql-migrate"
)

const upDownSeparator = "-- +migrate Up"

// Migration is one embedded sql file: the statements above the
// "-- +migrate Up" marker undo the ones below it.
type Migration struct {
	ID  string
	SQL string
}

// MigrationSource returns the sql-migrate source of the migrations
func MigrationSource(migrations []Migration) (*migrate.MemoryMigrationSource, error) {
	source := &migrate.MemoryMigrationSource{}
	for _, m := range migrations {
		splitted := strings.Split(m.SQL, upDownSeparator)
		if len(splitted) != 2 { //nolint:mnd
			return nil, fmt.Errorf("migration %s: expected one %q marker", m.ID, upDownSeparator)
		}
		source.Migrations = append(source.Migrations, &migrate.Migration{
			Id:   m.ID,
			Up:   []string{splitted[1]},
			Down: []string{splitted[0]},
		})
	}
	return source, nil
}

// RunMigrations applies the pending migrations to the sqlite file at dbPath
func RunMigrations(dbPath string, migrations []Migration) error {
	source, err := MigrationSource(migrations)
	if err != nil {
		return err
	}
	db, err := NewSQLiteDB(dbPath)
	if err != nil {
		return fmt.Errorf("error creating DB %w", err)
	}
	defer db.Close()

	nMigrations, err := migrate.Exec(db, "sqlite3", source, migrate.Up)
	if err != nil {
		return fmt.Errorf("error executing migration %w", err)
	}

	log.Infof("successfully ran %d migrations", nMigrations)
	return nil
}
