package models

import "math"

// Destination column names in the Airtable log table.
const (
	FieldID             = "Shot Id"
	FieldDateTime       = "Date/Time"
	FieldURL            = "Visualizer URL"
	FieldProfile        = "Decent Espresso Profile"
	FieldYield          = "Yield (g)"
	FieldExtractionTime = "Total Extraction Time"
	FieldMachine        = "Coffee Machine"
	FieldGrinder        = "Grinder"
	FieldAttachments    = "Attachments"
)

// Attachment is an Airtable attachment cell entry.
type Attachment struct {
	Filename string `json:"filename"`
	URL      string `json:"url"`
}

// ShotRecord is one row of the log table before it is sent to Airtable.
type ShotRecord struct {
	ShotID         string
	DateTime       string
	URL            string
	Profile        string
	Yield          float64
	ExtractionTime float64
	Machine        []string // link field, always one element
	Grinder        []string // link field, always one element
	Attachments    []Attachment
}

// Fields serializes the record into Airtable's generic field map.
// Attachments are omitted when there are none. A NaN or infinite yield or
// extraction time is left out rather than sent as an unencodable number.
func (r ShotRecord) Fields() map[string]any {
	fields := map[string]any{
		FieldID:       r.ShotID,
		FieldURL:      r.URL,
		FieldProfile:  r.Profile,
		FieldDateTime: r.DateTime,
		FieldMachine:  r.Machine,
		FieldGrinder:  r.Grinder,
	}
	if finite(r.Yield) {
		fields[FieldYield] = r.Yield
	}
	if finite(r.ExtractionTime) {
		fields[FieldExtractionTime] = r.ExtractionTime
	}
	if len(r.Attachments) > 0 {
		fields[FieldAttachments] = r.Attachments
	}
	return fields
}

// CreatedRecord is the handle of a row written to (or, in dry-run, destined for) Airtable.
type CreatedRecord struct {
	ID     string         `json:"id"`
	Fields map[string]any `json:"fields"`
}

// ShotID returns the Shot Id cell, or "" when absent.
func (c CreatedRecord) ShotID() string {
	s, _ := c.Fields[FieldID].(string)
	return s
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
