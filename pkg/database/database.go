package database

import (
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/attendance-tracker/pkg/config"
)

// Open connects to the configured store and makes sure the schema exists.
func Open(cfg config.DatabaseConfig) (*sqlx.DB, error) {
	var (
		db  *sqlx.DB
		err error
	)
	switch cfg.Driver {
	case config.DriverPostgres:
		db, err = NewPostgres(cfg)
	default:
		db, err = NewSQLite(cfg)
	}
	if err != nil {
		return nil, err
	}

	if err := Migrate(db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return db, nil
}
