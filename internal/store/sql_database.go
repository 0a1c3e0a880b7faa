package store

import (
	"database/sql"

	"github.com/MKhiriev/go-field-sync/internal/logger"
	"github.com/MKhiriev/go-field-sync/migrations"
)

// DB is a *sql.DB with the error classifier and logger of its backend.
type DB struct {
	*sql.DB
	errorClassificator ErrorClassificator
	logger             *logger.Logger
}

// MigrateClient applies the SQLite queue schema.
func (db *DB) MigrateClient() error {
	return migrations.MigrateClient(db.DB)
}

// MigrateServer applies the PostgreSQL receipts schema.
func (db *DB) MigrateServer() error {
	return migrations.MigrateServer(db.DB)
}
