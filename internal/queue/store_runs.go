package queue

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
)

// ErrRunNotFound is returned when no run matches an identifier.
var ErrRunNotFound = errors.New("run not found")

// ErrAmbiguousRun is returned when a run ID prefix matches several runs.
var ErrAmbiguousRun = errors.New("ambiguous run id")

const runColumns = "id, started_at, finished_at, cancelled, total, processed, fade_in_preset, fade_out_preset, fade_in_seconds, fade_out_seconds"

// RecordRun stores a run summary and its per-item results atomically.
func (s *Store) RecordRun(ctx context.Context, run Run, results []RunResult) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin run tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO runs (`+runColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		run.ID,
		run.StartedAt.UTC().Format(timestampLayout),
		nullableTime(run.FinishedAt),
		boolToInt(run.Cancelled),
		run.Total,
		run.Processed,
		nullableString(run.FadeInPreset),
		nullableString(run.FadeOutPreset),
		run.FadeInSeconds,
		run.FadeOutSeconds,
	); err != nil {
		return fmt.Errorf("insert run: %w", err)
	}

	for _, result := range results {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO run_results (run_id, position, full_path, outcome_kind, outcome_code, message)
             VALUES (?, ?, ?, ?, ?, ?)`,
			run.ID,
			result.Position,
			result.Path,
			nullableString(string(result.Outcome.Kind)),
			nullableString(result.Outcome.Code),
			nullableString(result.Outcome.Message),
		); err != nil {
			return fmt.Errorf("insert run result %d: %w", result.Position, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit run: %w", err)
	}
	return nil
}

// Runs returns the most recent runs, newest first. A non-positive limit
// returns every run.
func (s *Store) Runs(ctx context.Context, limit int) ([]Run, error) {
	query := `SELECT ` + runColumns + ` FROM runs ORDER BY started_at DESC`
	args := []any{}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

// FindRun resolves a full run ID or a unique prefix of one.
func (s *Store) FindRun(ctx context.Context, idOrPrefix string) (Run, error) {
	idOrPrefix = strings.TrimSpace(idOrPrefix)
	if idOrPrefix == "" {
		return Run{}, ErrRunNotFound
	}
	escaped := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(idOrPrefix)
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+runColumns+` FROM runs WHERE id LIKE ? ESCAPE '\' ORDER BY started_at DESC LIMIT 2`,
		escaped+"%",
	)
	if err != nil {
		return Run{}, fmt.Errorf("find run: %w", err)
	}
	defer rows.Close()

	var matches []Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return Run{}, fmt.Errorf("scan run: %w", err)
		}
		matches = append(matches, run)
	}
	if err := rows.Err(); err != nil {
		return Run{}, fmt.Errorf("find run: %w", err)
	}
	switch len(matches) {
	case 0:
		return Run{}, fmt.Errorf("%w: %s", ErrRunNotFound, idOrPrefix)
	case 1:
		return matches[0], nil
	default:
		return Run{}, fmt.Errorf("%w: %s", ErrAmbiguousRun, idOrPrefix)
	}
}

// RunResults returns the per-item results of a run in queue order.
func (s *Store) RunResults(ctx context.Context, runID string) ([]RunResult, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT position, full_path, outcome_kind, outcome_code, message
         FROM run_results WHERE run_id = ? ORDER BY position`,
		runID,
	)
	if err != nil {
		return nil, fmt.Errorf("query run results: %w", err)
	}
	defer rows.Close()

	var results []RunResult
	for rows.Next() {
		var (
			result  RunResult
			kind    sql.NullString
			code    sql.NullString
			message sql.NullString
		)
		if err := rows.Scan(&result.Position, &result.Path, &kind, &code, &message); err != nil {
			return nil, fmt.Errorf("scan run result: %w", err)
		}
		result.Outcome = Outcome{Kind: OutcomeKind(kind.String), Code: code.String, Message: message.String}
		results = append(results, result)
	}
	return results, rows.Err()
}

func scanRun(scanner interface{ Scan(dest ...any) error }) (Run, error) {
	var (
		run         Run
		startedRaw  string
		finishedRaw sql.NullString
		cancelled   int
		fadeIn      sql.NullString
		fadeOut     sql.NullString
	)
	if err := scanner.Scan(
		&run.ID,
		&startedRaw,
		&finishedRaw,
		&cancelled,
		&run.Total,
		&run.Processed,
		&fadeIn,
		&fadeOut,
		&run.FadeInSeconds,
		&run.FadeOutSeconds,
	); err != nil {
		return Run{}, err
	}
	run.Cancelled = cancelled != 0
	run.FadeInPreset = fadeIn.String
	run.FadeOutPreset = fadeOut.String
	if started, err := parseTimeString(startedRaw); err == nil {
		run.StartedAt = started
	}
	if finished, err := parseTimeString(finishedRaw.String); err == nil {
		run.FinishedAt = finished
	}
	return run, nil
}
