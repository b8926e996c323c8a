package repository

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"coffee_sync/internal/config"
	"coffee_sync/internal/logger"
	"coffee_sync/internal/models"

	"github.com/mehanizm/airtable"
)

const sortDescending = "desc"

// recordTable is the part of *airtable.Table the store uses. Only the
// context-aware calls are listed so every request can be cancelled.
type recordTable interface {
	GetRecordsWithParamsContext(ctx context.Context, params url.Values) (*airtable.Records, error)
	AddRecordsContext(ctx context.Context, records *airtable.Records) (*airtable.Records, error)
}

// AirtableShots is the shot log table in Airtable.
type AirtableShots struct {
	table recordTable
	log   *logger.Logger
}

// Ensure implementation of ShotStore interface at compile time.
var _ ShotStore = (*AirtableShots)(nil)

// NewAirtableShots opens the configured base/table with the configured API
// key. Requests are bounded by cfg.Timeout as well as the caller's context.
func NewAirtableShots(cfg config.Airtable, log *logger.Logger) *AirtableShots {
	client := airtable.NewClient(cfg.APIKey)
	client.SetCustomClient(&http.Client{Timeout: cfg.Timeout})
	return newAirtableShots(client.GetTable(cfg.Base, cfg.Table), log)
}

func newAirtableShots(table recordTable, log *logger.Logger) *AirtableShots {
	return &AirtableShots{table: table, log: log}
}

// RecentShotIDs returns the Shot Id of the newest limit rows by Date/Time.
// Rows without a Shot Id yield "" and never match a real id.
func (a *AirtableShots) RecentShotIDs(ctx context.Context, limit int) ([]string, error) {
	records, err := a.table.GetRecordsWithParamsContext(ctx, recentShotsQuery(limit))
	if err != nil {
		return nil, fmt.Errorf("query recent airtable shots: %w", err)
	}
	return shotIDsOf(records), nil
}

// recentShotsQuery asks for the Shot Id column only, newest Date/Time first.
func recentShotsQuery(limit int) url.Values {
	q := url.Values{}
	q.Add("fields[]", models.FieldID)
	q.Set("sort[0][field]", models.FieldDateTime)
	q.Set("sort[0][direction]", sortDescending)
	q.Set("maxRecords", strconv.Itoa(limit))
	return q
}

// CreateRecords writes all records in a single request; Airtable either
// creates all of them or none.
func (a *AirtableShots) CreateRecords(ctx context.Context, records []models.ShotRecord) ([]models.CreatedRecord, error) {
	if len(records) == 0 {
		return nil, nil
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	created, err := a.table.AddRecordsContext(ctx, toAirtableRecords(records))
	if err != nil {
		return nil, fmt.Errorf("create %d airtable records: %w", len(records), err)
	}
	out := fromAirtableRecords(created)
	if a.log != nil {
		a.log.Debugw("airtable_records_created", "count", len(out))
	}
	return out, nil
}

func shotIDsOf(records *airtable.Records) []string {
	if records == nil {
		return []string{}
	}
	ids := make([]string, 0, len(records.Records))
	for _, r := range records.Records {
		if r == nil {
			ids = append(ids, "")
			continue
		}
		id, _ := r.Fields[models.FieldID].(string)
		ids = append(ids, id)
	}
	return ids
}

func toAirtableRecords(records []models.ShotRecord) *airtable.Records {
	out := &airtable.Records{Records: make([]*airtable.Record, 0, len(records))}
	for _, r := range records {
		out.Records = append(out.Records, &airtable.Record{Fields: r.Fields()})
	}
	return out
}

func fromAirtableRecords(records *airtable.Records) []models.CreatedRecord {
	if records == nil {
		return nil
	}
	out := make([]models.CreatedRecord, 0, len(records.Records))
	for _, r := range records.Records {
		if r == nil {
			continue
		}
		out = append(out, models.CreatedRecord{ID: r.ID, Fields: r.Fields})
	}
	return out
}
