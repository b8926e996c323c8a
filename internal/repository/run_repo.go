package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"coffee_sync/internal/models"

	"github.com/google/uuid"
)

// RunSQLite is the sqlite-backed sync journal.
type RunSQLite struct {
	db *sql.DB
}

func NewRunSQLite(db *sql.DB) *RunSQLite { return &RunSQLite{db: db} }

const (
	insertRunSQL = `
		INSERT INTO sync_runs (id, started_at, finished_at, status_code, message, shot_ids, dry_run)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`
	selectRecentRunsSQL = `
		SELECT id, started_at, finished_at, status_code, message, shot_ids, dry_run
		FROM sync_runs ORDER BY started_at DESC LIMIT ?
	`
)

// Append inserts a run. If RunID or the timestamps are empty, they're set.
func (r *RunSQLite) Append(ctx context.Context, run models.SyncRun) error {
	if run.RunID == "" {
		run.RunID = uuid.NewString()
	}
	now := time.Now().UTC()
	if run.StartedAt.IsZero() {
		run.StartedAt = now
	}
	if run.FinishedAt.IsZero() {
		run.FinishedAt = now
	}

	var idsPtr *string
	if len(run.ShotIDs) > 0 {
		b, err := json.Marshal(run.ShotIDs)
		if err != nil {
			return fmt.Errorf("marshal shot ids: %w", err)
		}
		s := string(b)
		idsPtr = &s
	}

	_, err := r.db.ExecContext(ctx, insertRunSQL,
		run.RunID,
		run.StartedAt.UTC(),
		run.FinishedAt.UTC(),
		run.StatusCode,
		run.Message,
		idsPtr,
		run.DryRun,
	)
	if err != nil {
		return fmt.Errorf("insert sync run %s: %w", run.RunID, err)
	}
	return nil
}

// Recent returns up to limit runs, newest first.
func (r *RunSQLite) Recent(ctx context.Context, limit int) ([]models.SyncRun, error) {
	rows, err := r.db.QueryContext(ctx, selectRecentRunsSQL, limit)
	if err != nil {
		return nil, fmt.Errorf("select sync runs: %w", err)
	}
	defer rows.Close()

	out := make([]models.SyncRun, 0, limit)
	for rows.Next() {
		var (
			run    models.SyncRun
			idsStr sql.NullString
		)
		if err := rows.Scan(&run.RunID, &run.StartedAt, &run.FinishedAt, &run.StatusCode, &run.Message, &idsStr, &run.DryRun); err != nil {
			return nil, err
		}
		run.StartedAt = run.StartedAt.UTC()
		run.FinishedAt = run.FinishedAt.UTC()

		if idsStr.Valid && idsStr.String != "" {
			// a malformed column leaves ShotIDs empty rather than failing the listing
			_ = json.Unmarshal([]byte(idsStr.String), &run.ShotIDs)
		}
		out = append(out, run)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
