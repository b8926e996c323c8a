package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"coffee_sync/internal/models"
)

// ---- Source / store mocks ----

type fakeSource struct {
	mu sync.Mutex

	list     []models.ShotID
	listErr  error
	shots    map[string]models.Shot
	previews map[string]string
	shotErr  map[string]error
	delay    map[string]time.Duration // per-id detail latency

	lastLimit    int
	fetchedShots []string
}

func (f *fakeSource) ListShots(ctx context.Context, limit int) ([]models.ShotID, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lastLimit = limit
	if f.listErr != nil {
		return nil, f.listErr
	}
	if len(f.list) > limit {
		return f.list[:limit], nil
	}
	return f.list, nil
}

func (f *fakeSource) FetchShot(ctx context.Context, id string) (models.Shot, error) {
	if d := f.delay[id]; d > 0 {
		time.Sleep(d)
	}
	f.mu.Lock()
	f.fetchedShots = append(f.fetchedShots, id)
	f.mu.Unlock()
	if err := f.shotErr[id]; err != nil {
		return models.Shot{}, err
	}
	if sh, ok := f.shots[id]; ok {
		sh.ID = id
		return sh, nil
	}
	return models.Shot{ID: id, StartTime: "2024-01-01T00:00:00Z", Timeframe: []float64{0, 25}}, nil
}

func (f *fakeSource) FetchPreviewImage(ctx context.Context, id string) (*string, error) {
	if p, ok := f.previews[id]; ok {
		return &p, nil
	}
	return nil, nil
}

type fakeStore struct {
	mu sync.Mutex

	recent    []string
	recentErr error
	createErr error

	lastLimit   int
	createCalls int
	created     []models.ShotRecord
}

func (f *fakeStore) RecentShotIDs(ctx context.Context, limit int) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lastLimit = limit
	return f.recent, f.recentErr
}

func (f *fakeStore) CreateRecords(ctx context.Context, records []models.ShotRecord) ([]models.CreatedRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.createCalls++
	f.created = append(f.created, records...)
	if f.createErr != nil {
		return nil, f.createErr
	}
	out := make([]models.CreatedRecord, len(records))
	for i, r := range records {
		out[i] = models.CreatedRecord{ID: "rec_" + r.ShotID, Fields: r.Fields()}
	}
	return out, nil
}

type fakeRuns struct {
	appended  []models.SyncRun
	appendErr error
	recent    []models.SyncRun
	lastLimit int
}

func (f *fakeRuns) Append(ctx context.Context, run models.SyncRun) error {
	f.appended = append(f.appended, run)
	return f.appendErr
}

func (f *fakeRuns) Recent(ctx context.Context, limit int) ([]models.SyncRun, error) {
	f.lastLimit = limit
	return f.recent, nil
}

// ---- Service-level mocks ----

type mockReconciler struct {
	missing []string
	err     error
	calls   int
}

func (m *mockReconciler) FindMissingShots(ctx context.Context) ([]string, error) {
	m.calls++
	return m.missing, m.err
}

type mockUploader struct {
	created []models.CreatedRecord
	err     error
	panicV  any
	calls   int
	lastIDs []string
}

func (m *mockUploader) UploadShots(ctx context.Context, ids []string) ([]models.CreatedRecord, error) {
	m.calls++
	m.lastIDs = ids
	if m.panicV != nil {
		panic(m.panicV)
	}
	return m.created, m.err
}

// emptyError has no message, to exercise the fallback text.
type emptyError struct{}

func (emptyError) Error() string { return "" }

var errBoom = errors.New("boom")
