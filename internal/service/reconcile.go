package service

import (
	"context"
	"fmt"

	"coffee_sync/internal/logger"
	"coffee_sync/internal/repository"
)

// destinationWindowFactor sizes the destination lookback relative to the
// source batch, so a new shot that is not the very latest row in Airtable
// (clock skew, out-of-order arrival) is still recognized.
const destinationWindowFactor = 2

type ReconcileService struct {
	source ShotSource
	store  repository.ShotStore
	batch  int
	log    *logger.Logger
}

func NewReconcileService(source ShotSource, store repository.ShotStore, batch int, log *logger.Logger) *ReconcileService {
	return &ReconcileService{source: source, store: store, batch: batch, log: log}
}

// FindMissingShots returns the newest source shot ids that are absent from the
// most recent destination rows, in source order.
func (s *ReconcileService) FindMissingShots(ctx context.Context) ([]string, error) {
	shots, err := s.source.ListShots(ctx, s.batch)
	if err != nil {
		return nil, err
	}
	sourceIDs := make([]string, 0, len(shots))
	for _, sh := range shots {
		sourceIDs = append(sourceIDs, sh.ID)
	}
	if s.log != nil {
		s.log.Debugw("visualizer_shots_found", "ids", sourceIDs)
	}

	storedIDs, err := s.store.RecentShotIDs(ctx, s.batch*destinationWindowFactor)
	if err != nil {
		return nil, fmt.Errorf("load stored shot ids: %w", err)
	}
	if s.log != nil {
		s.log.Debugw("airtable_latest_shots", "ids", storedIDs)
	}

	return missingIDs(sourceIDs, storedIDs), nil
}

// missingIDs is the order-preserving difference source \ stored.
func missingIDs(source, stored []string) []string {
	found := make(map[string]struct{}, len(stored))
	for _, id := range stored {
		if id != "" {
			found[id] = struct{}{}
		}
	}
	out := make([]string, 0, len(source))
	for _, id := range source {
		if _, ok := found[id]; !ok {
			out = append(out, id)
		}
	}
	return out
}
