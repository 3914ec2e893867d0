package queue

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
)

//go:embed schema.sql
var schemaSQL string

// schemaVersion is stored in PRAGMA user_version. Bump it when schema.sql changes.
const schemaVersion = 1

// ErrSchemaMismatch indicates the database was written by a different schema version.
var ErrSchemaMismatch = errors.New("schema version mismatch")

// initSchema creates the tables in an empty database and refuses databases
// stamped with another version.
func (s *Store) initSchema(ctx context.Context) error {
	var version int
	if err := s.db.QueryRowContext(ctx, "PRAGMA user_version").Scan(&version); err != nil {
		return fmt.Errorf("read schema version: %w", err)
	}

	switch {
	case version == schemaVersion:
		return nil
	case version == 0:
		return s.createSchema(ctx)
	case version > schemaVersion:
		return fmt.Errorf("%w: %s was written by a newer fadebatch (version %d, this build understands %d)",
			ErrSchemaMismatch, s.path, version, schemaVersion)
	default:
		return fmt.Errorf("%w: %s has version %d, expected %d (delete it to start fresh)",
			ErrSchemaMismatch, s.path, version, schemaVersion)
	}
}

func (s *Store) createSchema(ctx context.Context) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin schema tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, schemaSQL); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}
	// PRAGMA does not accept bound parameters.
	if _, err := tx.ExecContext(ctx, fmt.Sprintf("PRAGMA user_version = %d", schemaVersion)); err != nil {
		return fmt.Errorf("stamp schema version: %w", err)
	}
	return tx.Commit()
}
