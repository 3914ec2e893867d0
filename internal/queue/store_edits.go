package queue

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// AppendEdit journals an effect application as pending.
func (s *Store) AppendEdit(ctx context.Context, edit Edit) (int64, error) {
	created := edit.CreatedAt
	if created.IsZero() {
		created = time.Now().UTC()
	}
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO edits (
            full_path, transaction_id, label, effect, preset,
            range_start, range_length, state, created_at
        ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		edit.Path,
		edit.TransactionID,
		nullableString(edit.Label),
		nullableString(edit.Effect),
		nullableString(edit.Preset),
		edit.Start,
		edit.Length,
		EditPending,
		created.UTC().Format(timestampLayout),
	)
	if err != nil {
		return 0, fmt.Errorf("append edit: %w", err)
	}
	return res.LastInsertId()
}

// ResolveEdits marks every pending edit of a transaction committed or
// discarded and returns how many rows changed.
func (s *Store) ResolveEdits(ctx context.Context, transactionID string, committed bool) (int64, error) {
	state := EditDiscarded
	if committed {
		state = EditCommitted
	}
	res, err := s.db.ExecContext(ctx,
		`UPDATE edits SET state = ?, resolved_at = ?
         WHERE transaction_id = ? AND state = ?`,
		state,
		time.Now().UTC().Format(timestampLayout),
		transactionID,
		EditPending,
	)
	if err != nil {
		return 0, fmt.Errorf("resolve edits: %w", err)
	}
	return res.RowsAffected()
}

// Edits returns the journal for a file, oldest first.
func (s *Store) Edits(ctx context.Context, path string) ([]Edit, error) {
	full, ok := identity(path)
	if !ok {
		return nil, nil
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, full_path, transaction_id, label, effect, preset,
                range_start, range_length, state, created_at, resolved_at
         FROM edits WHERE full_path = ? ORDER BY id`,
		full,
	)
	if err != nil {
		return nil, fmt.Errorf("query edits: %w", err)
	}
	defer rows.Close()

	var edits []Edit
	for rows.Next() {
		var (
			edit        Edit
			label       sql.NullString
			effect      sql.NullString
			preset      sql.NullString
			state       string
			createdRaw  string
			resolvedRaw sql.NullString
		)
		if err := rows.Scan(
			&edit.ID, &edit.Path, &edit.TransactionID, &label, &effect, &preset,
			&edit.Start, &edit.Length, &state, &createdRaw, &resolvedRaw,
		); err != nil {
			return nil, fmt.Errorf("scan edit: %w", err)
		}
		edit.Label = label.String
		edit.Effect = effect.String
		edit.Preset = preset.String
		edit.State = EditState(state)
		if created, err := parseTimeString(createdRaw); err == nil {
			edit.CreatedAt = created
		}
		if resolved, err := parseTimeString(resolvedRaw.String); err == nil {
			edit.ResolvedAt = resolved
		}
		edits = append(edits, edit)
	}
	return edits, rows.Err()
}
