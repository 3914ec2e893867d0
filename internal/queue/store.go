package queue

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"fadebatch/internal/config"
)

// Store manages queue persistence backed by SQLite.
type Store struct {
	db   *sql.DB
	path string
}

// Open initializes or connects to the queue database and creates the schema.
func Open(cfg *config.Config) (*Store, error) {
	if err := cfg.EnsureDirectories(); err != nil {
		return nil, fmt.Errorf("ensure directories: %w", err)
	}

	dbPath := cfg.QueueDatabasePath()
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	// One connection keeps the per-connection pragmas below in force.
	db.SetMaxOpenConns(1)

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA foreign_keys = ON",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	store := &Store{db: db, path: dbPath}
	if err := store.initSchema(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}

	return store, nil
}

// Path returns the database file location.
func (s *Store) Path() string {
	return s.path
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

const itemColumns = "id, file_name, directory, outcome_kind, outcome_code, last_error, created_at"

// Load reads the persisted queue in order. Items are restored even when the
// current allow-list would reject them; the driver reports those at run time.
func (s *Store) Load(ctx context.Context, allow AllowList) (*Queue, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+itemColumns+` FROM queue_items ORDER BY position, id`)
	if err != nil {
		return nil, fmt.Errorf("load queue: %w", err)
	}
	defer rows.Close()

	var items []Item
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, fmt.Errorf("scan queue item: %w", err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("load queue: %w", err)
	}

	q := New(allow)
	q.restore(items)
	return q, nil
}

// Save replaces the persisted queue with the contents of q.
func (s *Store) Save(ctx context.Context, q *Queue) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin save tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `DELETE FROM queue_items`); err != nil {
		return fmt.Errorf("clear queue rows: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `INSERT INTO queue_items (
            id, position, full_path, file_name, directory,
            outcome_kind, outcome_code, last_error, created_at, updated_at
        ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	now := time.Now().UTC()
	for position, item := range q.Active() {
		created := item.CreatedAt
		if created.IsZero() {
			created = now
		}
		if _, err := stmt.ExecContext(ctx,
			nullableInt64(item.ID),
			position,
			item.Path(),
			item.FileName,
			item.Directory,
			nullableString(string(item.Outcome.Kind)),
			nullableString(item.Outcome.Code),
			nullableString(item.LastError),
			created.Format(timestampLayout),
			now.Format(timestampLayout),
		); err != nil {
			return fmt.Errorf("insert %s: %w", item.Path(), err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit queue: %w", err)
	}
	return nil
}

// Clear removes every queued item. Run history and the edit journal are kept.
func (s *Store) Clear(ctx context.Context) (int64, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM queue_items`)
	if err != nil {
		return 0, fmt.Errorf("clear queue: %w", err)
	}
	return res.RowsAffected()
}

func scanItem(scanner interface{ Scan(dest ...any) error }) (Item, error) {
	var (
		id          int64
		fileName    string
		directory   string
		outcomeKind sql.NullString
		outcomeCode sql.NullString
		lastError   sql.NullString
		createdRaw  sql.NullString
	)
	if err := scanner.Scan(&id, &fileName, &directory, &outcomeKind, &outcomeCode, &lastError, &createdRaw); err != nil {
		return Item{}, err
	}
	item := Item{
		ID:        id,
		FileName:  fileName,
		Directory: directory,
		LastError: lastError.String,
		Outcome: Outcome{
			Kind:    OutcomeKind(outcomeKind.String),
			Code:    outcomeCode.String,
			Message: lastError.String,
		},
	}
	if created, err := parseTimeString(createdRaw.String); err == nil {
		item.CreatedAt = created
	}
	return item, nil
}
