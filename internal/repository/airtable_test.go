package repository

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"coffee_sync/internal/config"
	"coffee_sync/internal/models"

	"github.com/mehanizm/airtable"
)

type fakeTable struct {
	got   *airtable.Records
	err   error
	calls int
}

func (f *fakeTable) GetRecordsWithParamsContext(ctx context.Context, params url.Values) (*airtable.Records, error) {
	return nil, errors.New("not used")
}

func (f *fakeTable) AddRecordsContext(ctx context.Context, records *airtable.Records) (*airtable.Records, error) {
	f.calls++
	f.got = records
	if f.err != nil {
		return nil, f.err
	}
	out := &airtable.Records{}
	for i, r := range records.Records {
		out.Records = append(out.Records, &airtable.Record{ID: "rec" + string(rune('A'+i)), Fields: r.Fields})
	}
	return out, nil
}

func TestShotIDsOf_MissingFieldYieldsEmpty(t *testing.T) {
	records := &airtable.Records{Records: []*airtable.Record{
		{ID: "rec1", Fields: map[string]any{models.FieldID: "a"}},
		{ID: "rec2", Fields: map[string]any{}},
		{ID: "rec3", Fields: map[string]any{models.FieldID: 42}},
		nil,
		{ID: "rec5", Fields: map[string]any{models.FieldID: "b"}},
	}}
	got := shotIDsOf(records)
	want := []string{"a", "", "", "", "b"}
	if strings.Join(got, ",") != strings.Join(want, ",") {
		t.Fatalf("got %q, want %q", got, want)
	}
	if got := shotIDsOf(nil); got == nil || len(got) != 0 {
		t.Fatalf("nil records should give an empty slice, got %#v", got)
	}
}

func TestCreateRecords_SingleBatch(t *testing.T) {
	adder := &fakeTable{}
	store := newAirtableShots(adder, nil)

	created, err := store.CreateRecords(context.Background(), []models.ShotRecord{
		{ShotID: "a", Machine: []string{"m"}, Grinder: []string{"g"}},
		{ShotID: "b", Machine: []string{"m"}, Grinder: []string{"g"}},
	})
	if err != nil {
		t.Fatalf("CreateRecords: %v", err)
	}
	if adder.calls != 1 || len(adder.got.Records) != 2 {
		t.Fatalf("want one call with 2 records, got calls=%d", adder.calls)
	}
	if len(created) != 2 || created[0].ID != "recA" || created[1].ShotID() != "b" {
		t.Fatalf("unexpected created records: %+v", created)
	}
}

func TestCreateRecords_EmptyIsNoop(t *testing.T) {
	adder := &fakeTable{}
	store := newAirtableShots(adder, nil)
	if got, err := store.CreateRecords(context.Background(), nil); err != nil || got != nil || adder.calls != 0 {
		t.Fatalf("got %v, %v, calls=%d", got, err, adder.calls)
	}
}

func TestCreateRecords_Error(t *testing.T) {
	store := newAirtableShots(&fakeTable{err: errors.New("INVALID_PERMISSIONS")}, nil)
	_, err := store.CreateRecords(context.Background(), []models.ShotRecord{{ShotID: "a"}})
	if err == nil || !strings.Contains(err.Error(), "INVALID_PERMISSIONS") {
		t.Fatalf("expected wrapped error, got %v", err)
	}
}

func TestCreateRecords_CanceledContext(t *testing.T) {
	adder := &fakeTable{}
	store := newAirtableShots(adder, nil)
	c, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := store.CreateRecords(c, []models.ShotRecord{{ShotID: "a"}}); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if adder.calls != 0 {
		t.Fatal("no write expected after cancel")
	}
}

// newServedTable points a real airtable client at srv.
func newServedTable(t *testing.T, srv *httptest.Server) *airtable.Table {
	t.Helper()
	client := airtable.NewClient("key")
	if err := client.SetBaseURL(srv.URL); err != nil {
		t.Fatalf("SetBaseURL: %v", err)
	}
	return client.GetTable("appXYZ", "Log")
}

func TestRecentShotIDs_QueryAndDecode(t *testing.T) {
	var gotQuery url.Values
	var gotPath, gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath, gotQuery, gotAuth = r.URL.Path, r.URL.Query(), r.Header.Get("Authorization")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"records":[
			{"id":"rec1","fields":{"Shot Id":"a"}},
			{"id":"rec2","fields":{}},
			{"id":"rec3","fields":{"Shot Id":"b"}}
		]}`))
	}))
	defer srv.Close()

	store := newAirtableShots(newServedTable(t, srv), nil)
	ids, err := store.RecentShotIDs(context.Background(), 10)
	if err != nil {
		t.Fatalf("RecentShotIDs: %v", err)
	}
	if strings.Join(ids, ",") != "a,,b" {
		t.Fatalf("ids = %q", ids)
	}
	if gotPath != "/appXYZ/Log" || gotAuth != "Bearer key" {
		t.Fatalf("path=%q auth=%q", gotPath, gotAuth)
	}
	checks := map[string]string{
		"sort[0][field]":     "Date/Time",
		"sort[0][direction]": "desc",
		"maxRecords":         "10",
	}
	for k, want := range checks {
		if got := gotQuery.Get(k); got != want {
			t.Errorf("%s = %q, want %q", k, got, want)
		}
	}
	if f := gotQuery["fields[]"]; len(f) != 1 || f[0] != "Shot Id" {
		t.Errorf("fields[] = %q, want only Shot Id", f)
	}
}

func TestRecentShotIDs_HTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"error":{"type":"AUTHENTICATION_REQUIRED"}}`))
	}))
	defer srv.Close()

	store := newAirtableShots(newServedTable(t, srv), nil)
	if _, err := store.RecentShotIDs(context.Background(), 10); err == nil {
		t.Fatal("expected error on 401")
	}
}

func TestRecentShotIDs_CancelsInFlightRequest(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-release:
		}
	}))
	defer srv.Close()
	defer close(release)

	store := newAirtableShots(newServedTable(t, srv), nil)
	c, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	start := time.Now()
	_, err := store.RecentShotIDs(c, 10)
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected deadline exceeded, got %v", err)
	}
	if time.Since(start) > 5*time.Second {
		t.Fatal("request was not cancelled")
	}
}

func TestCreateRecords_SinglePOST(t *testing.T) {
	var posts int
	var sent airtable.Records
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("method = %s", r.Method)
		}
		posts++
		if err := json.NewDecoder(r.Body).Decode(&sent); err != nil {
			t.Errorf("decode body: %v", err)
		}
		out := airtable.Records{}
		for i, rec := range sent.Records {
			out.Records = append(out.Records, &airtable.Record{ID: "rec" + string(rune('A'+i)), Fields: rec.Fields})
		}
		_ = json.NewEncoder(w).Encode(out)
	}))
	defer srv.Close()

	store := newAirtableShots(newServedTable(t, srv), nil)
	created, err := store.CreateRecords(context.Background(), []models.ShotRecord{
		{ShotID: "a", Machine: []string{"m"}, Grinder: []string{"g"}},
		{ShotID: "b", Machine: []string{"m"}, Grinder: []string{"g"}},
		{ShotID: "c", Machine: []string{"m"}, Grinder: []string{"g"}},
	})
	if err != nil {
		t.Fatalf("CreateRecords: %v", err)
	}
	if posts != 1 || len(sent.Records) != 3 {
		t.Fatalf("posts=%d records=%d, want one POST with 3 records", posts, len(sent.Records))
	}
	if len(created) != 3 || created[2].ID != "recC" || created[2].ShotID() != "c" {
		t.Fatalf("unexpected created records: %+v", created)
	}
}

func TestNewAirtableShots_UsesRealTable(t *testing.T) {
	store := NewAirtableShots(config.Airtable{Base: "appXYZ", Table: "Log", APIKey: "k", Timeout: time.Second}, nil)
	if _, ok := store.table.(*airtable.Table); !ok {
		t.Fatalf("table = %T, want *airtable.Table", store.table)
	}
}
