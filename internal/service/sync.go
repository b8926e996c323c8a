package service

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"coffee_sync/internal/config"
	"coffee_sync/internal/logger"
	"coffee_sync/internal/models"
	"coffee_sync/internal/observability"
	"coffee_sync/internal/repository"

	"github.com/google/uuid"
)

const (
	msgSynchronized = "Shots are synchronized."
	msgTestShotOK   = "ok"
	msgUnknownError = "An unknown error occurred."
)

// Outcome is the status and message of one sync invocation.
type Outcome struct {
	StatusCode int
	Message    string
	ShotIDs    []string // uploaded (or staged) shot ids
}

type SyncService struct {
	reconciler Reconciler
	uploader   Uploader
	runs       repository.RunRepo
	cfg        config.Sync
	log        *logger.Logger
	metrics    *observability.Metrics
}

func NewSyncService(reconciler Reconciler, uploader Uploader, runs repository.RunRepo, cfg config.Sync, log *logger.Logger, metrics *observability.Metrics) *SyncService {
	return &SyncService{
		reconciler: reconciler,
		uploader:   uploader,
		runs:       runs,
		cfg:        cfg,
		log:        log,
		metrics:    metrics,
	}
}

// Run performs one invocation. Every error (and panic) below this point is
// turned into a 500 outcome carrying the error message.
func (s *SyncService) Run(ctx context.Context) (out Outcome) {
	started := time.Now().UTC()
	defer func() {
		if r := recover(); r != nil {
			out = s.failure(fmt.Errorf("panic: %v", r))
		}
		s.finish(ctx, started, out)
	}()

	var err error
	if s.cfg.TestShot != "" {
		out, err = s.runTestShot(ctx)
	} else {
		out, err = s.runSync(ctx)
	}
	if err != nil {
		return s.failure(err)
	}
	return out
}

func (s *SyncService) runSync(ctx context.Context) (Outcome, error) {
	missing, err := s.reconciler.FindMissingShots(ctx)
	if err != nil {
		return Outcome{}, err
	}
	if len(missing) == 0 {
		if s.log != nil {
			s.log.Infow("sync_no_missing_shots")
		}
		return Outcome{StatusCode: http.StatusOK, Message: msgSynchronized}, nil
	}

	created, err := s.uploader.UploadShots(ctx, missing)
	if err != nil {
		return Outcome{}, err
	}

	lines := make([]string, len(created))
	ids := make([]string, len(created))
	for i, rec := range created {
		ids[i] = rec.ShotID()
		lines[i] = fmt.Sprintf("%s (%s)", ids[i], rec.ID)
	}
	msg := fmt.Sprintf("Uploaded %d shots:\n%s", len(created), strings.Join(lines, "\n"))
	if s.log != nil {
		s.log.Infow("sync_uploaded", "count", len(created), "shots", lines, "dry_run", s.cfg.Debug)
	}
	return Outcome{StatusCode: http.StatusOK, Message: msg, ShotIDs: ids}, nil
}

// runTestShot uploads the configured shot without reconciliation and logs the
// resulting record.
func (s *SyncService) runTestShot(ctx context.Context) (Outcome, error) {
	created, err := s.uploader.UploadShots(ctx, []string{s.cfg.TestShot})
	if err != nil {
		return Outcome{}, err
	}
	if len(created) == 0 {
		return Outcome{}, fmt.Errorf("test shot %q: no record created", s.cfg.TestShot)
	}
	rec, err := json.MarshalIndent(created[0], "", "  ")
	if err != nil {
		return Outcome{}, fmt.Errorf("encode test record: %w", err)
	}
	if s.log != nil {
		s.log.Infow("test_shot_uploaded", "record", string(rec))
	}
	return Outcome{StatusCode: http.StatusOK, Message: msgTestShotOK, ShotIDs: []string{created[0].ShotID()}}, nil
}

func (s *SyncService) failure(err error) Outcome {
	if s.log != nil {
		s.log.Errorw("sync_failed", "err", err)
	}
	return Outcome{StatusCode: http.StatusInternalServerError, Message: errorMessage(err)}
}

// finish records metrics and appends the journal entry. Journal failures are
// logged only; they never change the outcome.
func (s *SyncService) finish(ctx context.Context, started time.Time, out Outcome) {
	finished := time.Now().UTC()
	s.metrics.RecordRun(out.StatusCode, finished.Sub(started))
	s.metrics.AddUploaded(len(out.ShotIDs))

	if s.runs == nil {
		return
	}
	err := s.runs.Append(ctx, models.SyncRun{
		RunID:      uuid.NewString(),
		StartedAt:  started,
		FinishedAt: finished,
		StatusCode: out.StatusCode,
		Message:    out.Message,
		ShotIDs:    out.ShotIDs,
		DryRun:     s.cfg.Debug,
	})
	if err != nil && s.log != nil {
		s.log.Errorw("sync_journal_append_failed", "err", err)
	}
}

func errorMessage(err error) string {
	if err == nil || strings.TrimSpace(err.Error()) == "" {
		return msgUnknownError
	}
	return err.Error()
}
