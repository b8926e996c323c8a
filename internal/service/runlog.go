package service

import (
	"context"
	"errors"

	"coffee_sync/internal/models"
	"coffee_sync/internal/repository"
)

const (
	defaultRunLimit = 20
	maxRunLimit     = 200
)

// ErrJournalDisabled is returned by the run log when no journal is configured.
var ErrJournalDisabled = errors.New("sync journal is disabled")

type RunLogService struct {
	runs repository.RunRepo
}

func NewRunLogService(runs repository.RunRepo) *RunLogService {
	return &RunLogService{runs: runs}
}

// Recent lists the newest runs; limit is clamped to [1, 200] with 20 as default.
func (s *RunLogService) Recent(ctx context.Context, limit int) ([]models.SyncRun, error) {
	if s.runs == nil {
		return nil, ErrJournalDisabled
	}
	return s.runs.Recent(ctx, clampLimit(limit))
}

func clampLimit(limit int) int {
	switch {
	case limit <= 0:
		return defaultRunLimit
	case limit > maxRunLimit:
		return maxRunLimit
	default:
		return limit
	}
}
