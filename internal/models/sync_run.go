package models

import "time"

// SyncRun is one journal entry describing a finished sync invocation.
type SyncRun struct {
	RunID      string    `json:"run_id"`
	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at"`
	StatusCode int       `json:"status_code"`
	Message    string    `json:"message"`
	ShotIDs    []string  `json:"shot_ids,omitempty"`
	DryRun     bool      `json:"dry_run"`
}

// HTTPEvent is the part of an authenticated HTTP trigger needed to verify its signature.
type HTTPEvent struct {
	Headers      map[string]string
	Body         string
	ResourcePath string // declared route, e.g. "/sync", not the literal request path
}
