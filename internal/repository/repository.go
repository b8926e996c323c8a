package repository

import (
	"context"
	"database/sql"

	"coffee_sync/internal/models"
)

// ShotStore is the destination table the shots are synced into.
type ShotStore interface {
	RecentShotIDs(ctx context.Context, limit int) ([]string, error)
	CreateRecords(ctx context.Context, records []models.ShotRecord) ([]models.CreatedRecord, error)
}

// RunRepo is the append-only journal of sync runs.
type RunRepo interface {
	Append(ctx context.Context, run models.SyncRun) error
	Recent(ctx context.Context, limit int) ([]models.SyncRun, error)
}

type Repository struct {
	Shots ShotStore
	Runs  RunRepo // nil when the journal is disabled
}

// NewRepository wires the destination store and, when db is non-nil, the sqlite journal.
func NewRepository(shots ShotStore, db *sql.DB) *Repository {
	repos := &Repository{Shots: shots}
	if db != nil {
		repos.Runs = NewRunSQLite(db)
	}
	return repos
}
