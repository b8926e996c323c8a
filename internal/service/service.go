package service

import (
	"context"

	"coffee_sync/internal/config"
	"coffee_sync/internal/logger"
	"coffee_sync/internal/models"
	"coffee_sync/internal/observability"
	"coffee_sync/internal/repository"
)

// ShotSource is where shots come from (the Visualizer API).
type ShotSource interface {
	ListShots(ctx context.Context, limit int) ([]models.ShotID, error)
	FetchShot(ctx context.Context, id string) (models.Shot, error)
	FetchPreviewImage(ctx context.Context, id string) (*string, error)
}

// Reconciler finds source shots that are not yet in the destination table.
type Reconciler interface {
	FindMissingShots(ctx context.Context) ([]string, error)
}

// Uploader fetches, maps and writes the given shots.
type Uploader interface {
	UploadShots(ctx context.Context, ids []string) ([]models.CreatedRecord, error)
}

// Syncer runs one full invocation and never fails; failures become a 500 outcome.
type Syncer interface {
	Run(ctx context.Context) Outcome
}

// Authenticator gates HTTP-triggered invocations.
type Authenticator interface {
	Verify(ev models.HTTPEvent) bool
}

// RunLog exposes the journal of past runs.
type RunLog interface {
	Recent(ctx context.Context, limit int) ([]models.SyncRun, error)
}

type Service struct {
	Reconciler
	Uploader
	Syncer
	Authenticator
	RunLog
}

// NewService wires the source, repositories and config into concrete services.
func NewService(cfg *config.Config, source ShotSource, repos *repository.Repository, log *logger.Logger, metrics *observability.Metrics) *Service {
	reconciler := NewReconcileService(source, repos.Shots, cfg.Sync.ShotsPerBatch, log)
	uploader := NewUploadService(source, repos.Shots, RecordTags{
		BaseURL: cfg.Visualizer.BaseURL,
		Machine: cfg.Fields.CoffeeMachine,
		Grinder: cfg.Fields.Grinder,
	}, cfg.Sync.Debug, log)

	return &Service{
		Reconciler:    reconciler,
		Uploader:      uploader,
		Syncer:        NewSyncService(reconciler, uploader, repos.Runs, cfg.Sync, log, metrics),
		Authenticator: NewHMACAuth(cfg.HMACSecret, log, metrics),
		RunLog:        NewRunLogService(repos.Runs),
	}
}
