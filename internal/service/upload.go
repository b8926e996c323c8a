package service

import (
	"context"

	"coffee_sync/internal/logger"
	"coffee_sync/internal/models"
	"coffee_sync/internal/repository"

	"golang.org/x/sync/errgroup"
)

// DryRunRecordID is the id given to records that were mapped but not written.
const DryRunRecordID = "fake_id"

type UploadService struct {
	source ShotSource
	store  repository.ShotStore
	tags   RecordTags
	dryRun bool
	log    *logger.Logger
}

func NewUploadService(source ShotSource, store repository.ShotStore, tags RecordTags, dryRun bool, log *logger.Logger) *UploadService {
	return &UploadService{source: source, store: store, tags: tags, dryRun: dryRun, log: log}
}

// UploadShots fetches every shot and its preview concurrently, maps them and
// creates all records in one batch. In dry-run mode the batch is only logged.
func (s *UploadService) UploadShots(ctx context.Context, ids []string) ([]models.CreatedRecord, error) {
	records, err := s.mapShots(ctx, ids)
	if err != nil {
		return nil, err
	}

	if s.dryRun {
		created := make([]models.CreatedRecord, len(records))
		fields := make([]map[string]any, len(records))
		for i, r := range records {
			fields[i] = r.Fields()
			created[i] = models.CreatedRecord{ID: DryRunRecordID, Fields: fields[i]}
		}
		if s.log != nil {
			s.log.Infow("would_create_records", "count", len(records), "records", fields)
		}
		return created, nil
	}

	return s.store.CreateRecords(ctx, records)
}

// mapShots gathers details and previews by index, so records[i] always
// belongs to ids[i] regardless of completion order.
func (s *UploadService) mapShots(ctx context.Context, ids []string) ([]models.ShotRecord, error) {
	shots := make([]models.Shot, len(ids))
	previews := make([]*string, len(ids))

	g, gctx := errgroup.WithContext(ctx)
	for i, id := range ids {
		i, id := i, id
		g.Go(func() error {
			shot, err := s.source.FetchShot(gctx, id)
			if err != nil {
				return err
			}
			shots[i] = shot
			return nil
		})
		g.Go(func() error {
			preview, err := s.source.FetchPreviewImage(gctx, id)
			if err != nil {
				return err
			}
			previews[i] = preview
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	records := make([]models.ShotRecord, len(ids))
	for i := range ids {
		records[i] = MapShotToRecord(shots[i], previews[i], s.tags)
	}
	return records, nil
}
