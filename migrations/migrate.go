// Package migrations embeds the goose schema migrations of both roles:
// client/ holds the SQLite durable queue schema, server/ the PostgreSQL
// receipts schema.
package migrations

import (
	"database/sql"
	"embed"
	"errors"
	"fmt"

	"github.com/pressly/goose/v3"
)

//go:embed client/*.sql server/*.sql
var embedMigrations embed.FS

const (
	dialectSQLite   = "sqlite3"
	dialectPostgres = "pgx"
)

var errNilDB = errors.New("db is nil")

// MigrateClient applies the client queue migrations to a SQLite database.
func MigrateClient(db *sql.DB) error {
	return migrate(db, dialectSQLite, "client")
}

// MigrateServer applies the receipts migrations to a PostgreSQL database
// opened with the pgx stdlib driver.
func MigrateServer(db *sql.DB) error {
	return migrate(db, dialectPostgres, "server")
}

func migrate(db *sql.DB, dialect, dir string) error {
	if db == nil {
		return fmt.Errorf("migration error: %w", errNilDB)
	}

	goose.SetBaseFS(embedMigrations)

	if err := goose.SetDialect(dialect); err != nil {
		return fmt.Errorf("migration error setting dialect for db: %w", err)
	}

	if err := goose.Up(db, dir); err != nil {
		return fmt.Errorf("migration error: %w", err)
	}

	return nil
}
