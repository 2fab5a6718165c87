package postgres

import (
	_ "embed"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
)

//go:embed schema.sql
var schema string

// RunMigrations creates the tables if they do not exist yet
func RunMigrations(db *sqlx.DB) error {
	if _, err := db.Exec(schema); err != nil {
		return errors.Wrap(err, "failed to execute schema.sql")
	}
	return nil
}
