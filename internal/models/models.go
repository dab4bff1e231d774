// package models defines the data model for the import dashboard
package models

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// ImportLogEntry describes the outcome of one import run.
type ImportLogEntry struct {
	ID            string    `json:"_id"`
	FileName      string    `json:"fileName"`
	TotalImported int       `json:"totalImported"`
	NewJobs       int       `json:"newJobs"`
	UpdatedJobs   int       `json:"updatedJobs"`
	FailedJobs    int       `json:"failedJobs"`
	Timestamp     time.Time `json:"timestamp"`
}

// Consistent reports whether TotalImported equals the sum of new, updated and failed jobs.
//
// The backend is expected to keep these in step but nothing enforces it.
func (e ImportLogEntry) Consistent() bool {
	return e.TotalImported == e.NewJobs+e.UpdatedJobs+e.FailedJobs
}

// timestampLayouts are tried in order when decoding a log entry timestamp.
var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.000-0700",
	"2006-01-02T15:04:05Z0700",
	"2006-01-02 15:04:05Z07:00",
	"2006-01-02 15:04:05",
}

// UnmarshalJSON decodes an entry, accepting the timestamp as an RFC 3339 string (with or without a
// colon in the offset) or as epoch milliseconds. An unrecognized timestamp leaves the zero time.
func (e *ImportLogEntry) UnmarshalJSON(data []byte) error {
	type entry ImportLogEntry
	aux := struct {
		*entry
		Timestamp json.RawMessage `json:"timestamp"`
	}{entry: (*entry)(e)}

	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	e.Timestamp = ParseTimestamp(aux.Timestamp)
	return nil
}

// ParseTimestamp converts a raw JSON timestamp value to a UTC instant, or the zero time when it can't.
func ParseTimestamp(raw json.RawMessage) time.Time {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return time.Time{}
	}

	if raw[0] != '"' {
		return parseEpochMillis(string(raw))
	}

	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return time.Time{}
	}
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}
	}

	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC()
		}
	}
	return parseEpochMillis(s)
}

func parseEpochMillis(s string) time.Time {
	if ms, err := strconv.ParseInt(s, 10, 64); err == nil {
		return time.UnixMilli(ms).UTC()
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return time.UnixMilli(int64(f)).UTC()
	}
	return time.Time{}
}

// QueueStats is a snapshot of the background job queue. The zero value means "nothing fetched yet".
type QueueStats struct {
	Waiting   int `json:"waiting"`
	Active    int `json:"active"`
	Completed int `json:"completed"`
	Failed    int `json:"failed"`
}

// Total returns the number of jobs across all states.
func (s QueueStats) Total() int {
	return s.Waiting + s.Active + s.Completed + s.Failed
}

// LogsResponse is the body of GET /api/import-logs.
type LogsResponse struct {
	Data []ImportLogEntry `json:"data"`
}

// Entries returns the log entries, never nil.
func (r LogsResponse) Entries() []ImportLogEntry {
	if r.Data == nil {
		return []ImportLogEntry{}
	}
	return r.Data
}

// StatsResponse is the body of GET /api/queue-stats. Stats is only meaningful when Success is set.
type StatsResponse struct {
	Success bool       `json:"success"`
	Stats   QueueStats `json:"stats"`
}

// TriggerResponse is the (optional) body of POST /api/trigger-import.
type TriggerResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
}

// Record is implemented by locally persisted audit entities.
type Record interface {
	RecordID() string // RecordID returns the unique identifier for this record
	Validate() error  // Validate checks if the record's data is valid and returns an error if not
}

// Repository defines append-only data access for audit records.
type Repository[T Record] interface {
	Create(ctx context.Context, record T) error       // Create inserts a new record, assigning its ID and sequence
	List(ctx context.Context, limit int) ([]T, error) // List returns the newest records first
}

// StatsSample is a queue stats snapshot captured at a point in time.
type StatsSample struct {
	ID        string
	Sequence  int
	Stats     QueueStats
	SampledAt time.Time
}

var (
	_ Record = (*StatsSample)(nil)
	_ Record = (*TriggerRecord)(nil)
)

// NewStatsSample creates an unsaved sample.
func NewStatsSample(stats QueueStats, at time.Time) *StatsSample {
	return &StatsSample{Stats: stats, SampledAt: at}
}

func (s *StatsSample) RecordID() string { return s.ID }

func (s *StatsSample) Validate() error {
	if s.SampledAt.IsZero() {
		return fmt.Errorf("sampled_at is required")
	}
	if s.Stats.Waiting < 0 || s.Stats.Active < 0 || s.Stats.Completed < 0 || s.Stats.Failed < 0 {
		return fmt.Errorf("queue counters cannot be negative")
	}
	return nil
}

// TriggerRecord captures the outcome of one manual import trigger.
type TriggerRecord struct {
	ID          string
	Sequence    int
	APIURL      string
	Succeeded   bool
	Message     string
	TriggeredAt time.Time
}

// NewTriggerRecord creates an unsaved record. A nil err marks the trigger as successful.
func NewTriggerRecord(apiURL string, err error, message string, at time.Time) *TriggerRecord {
	rec := &TriggerRecord{APIURL: apiURL, Succeeded: err == nil, Message: message, TriggeredAt: at}
	if err != nil {
		rec.Message = err.Error()
	}
	return rec
}

func (r *TriggerRecord) RecordID() string { return r.ID }

func (r *TriggerRecord) Validate() error {
	if strings.TrimSpace(r.APIURL) == "" {
		return fmt.Errorf("api_url is required")
	}
	if r.TriggeredAt.IsZero() {
		return fmt.Errorf("triggered_at is required")
	}
	return nil
}
