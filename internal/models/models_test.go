package models

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"
)

func TestImportLogEntry(t *testing.T) {
	t.Run("decodes backend payload", func(t *testing.T) {
		body := `{"data":[{"_id":"1","fileName":"jobs.csv","totalImported":10,"newJobs":7,"updatedJobs":2,"failedJobs":1,"timestamp":"2024-01-01T00:00:00Z"}]}`

		var resp LogsResponse
		if err := json.Unmarshal([]byte(body), &resp); err != nil {
			t.Fatalf("failed to decode: %v", err)
		}

		entries := resp.Entries()
		if len(entries) != 1 {
			t.Fatalf("expected 1 entry, got %d", len(entries))
		}

		e := entries[0]
		if e.ID != "1" || e.FileName != "jobs.csv" || e.TotalImported != 10 || e.NewJobs != 7 || e.UpdatedJobs != 2 || e.FailedJobs != 1 {
			t.Errorf("unexpected entry %+v", e)
		}
		if !e.Timestamp.Equal(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)) {
			t.Errorf("unexpected timestamp %v", e.Timestamp)
		}
		if !e.Consistent() {
			t.Error("expected 7+2+1 to be consistent with 10")
		}
	})

	t.Run("missing data yields empty slice", func(t *testing.T) {
		var resp LogsResponse
		if err := json.Unmarshal([]byte(`{}`), &resp); err != nil {
			t.Fatalf("failed to decode: %v", err)
		}

		entries := resp.Entries()
		if entries == nil || len(entries) != 0 {
			t.Errorf("expected empty non-nil slice, got %#v", entries)
		}
	})

	t.Run("inconsistent totals", func(t *testing.T) {
		e := ImportLogEntry{TotalImported: 5, NewJobs: 1}
		if e.Consistent() {
			t.Error("expected inconsistent entry")
		}
	})
}

func TestParseTimestamp(t *testing.T) {
	want := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	tt := []struct {
		name string
		raw  string
		want time.Time
	}{
		{name: "RFC3339", raw: `"2024-01-01T00:00:00Z"`, want: want},
		{name: "RFC3339 with millis and offset", raw: `"2024-01-01T02:00:00.000+02:00"`, want: want},
		{name: "offset without colon", raw: `"2024-01-01T00:00:00.000+0000"`, want: want},
		{name: "epoch millis", raw: `1704067200000`, want: want},
		{name: "epoch millis as string", raw: `"1704067200000"`, want: want},
		{name: "empty string", raw: `""`},
		{name: "null", raw: `null`},
		{name: "garbage", raw: `"last tuesday"`},
		{name: "boolean", raw: `true`},
		{name: "missing", raw: ``},
	}

	for _, tc := range tt {
		t.Run(tc.name, func(t *testing.T) {
			got := ParseTimestamp(json.RawMessage(tc.raw))
			if !got.Equal(tc.want) {
				t.Errorf("ParseTimestamp(%s) = %v, want %v", tc.raw, got, tc.want)
			}
		})
	}

	t.Run("bad timestamp keeps the rest of the entry", func(t *testing.T) {
		var e ImportLogEntry
		body := `{"_id":"9","fileName":"feed.xml","totalImported":4,"newJobs":4,"timestamp":"soon"}`
		if err := json.Unmarshal([]byte(body), &e); err != nil {
			t.Fatalf("failed to decode: %v", err)
		}
		if e.ID != "9" || e.FileName != "feed.xml" || e.TotalImported != 4 || e.NewJobs != 4 {
			t.Errorf("unexpected entry %+v", e)
		}
		if !e.Timestamp.IsZero() {
			t.Errorf("expected zero timestamp, got %v", e.Timestamp)
		}
	})

	t.Run("encodes as RFC3339", func(t *testing.T) {
		out, err := json.Marshal(ImportLogEntry{ID: "1", Timestamp: want})
		if err != nil {
			t.Fatalf("failed to encode: %v", err)
		}
		if !strings.Contains(string(out), `"timestamp":"2024-01-01T00:00:00Z"`) {
			t.Errorf("unexpected encoding %s", out)
		}
	})
}

func TestStatsResponse(t *testing.T) {
	var resp StatsResponse
	if err := json.Unmarshal([]byte(`{"stats":{"waiting":3,"active":1,"completed":20,"failed":0}}`), &resp); err != nil {
		t.Fatalf("failed to decode: %v", err)
	}

	if resp.Success {
		t.Error("missing success flag should decode as false")
	}
	if resp.Stats != (QueueStats{Waiting: 3, Active: 1, Completed: 20}) {
		t.Errorf("unexpected stats %+v", resp.Stats)
	}
	if resp.Stats.Total() != 24 {
		t.Errorf("expected total 24, got %d", resp.Stats.Total())
	}
}

func TestRecords(t *testing.T) {
	now := time.Now()

	t.Run("StatsSample", func(t *testing.T) {
		if err := NewStatsSample(QueueStats{Waiting: 1}, now).Validate(); err != nil {
			t.Errorf("expected valid sample, got %v", err)
		}
		if err := NewStatsSample(QueueStats{}, time.Time{}).Validate(); err == nil {
			t.Error("expected error for zero time")
		}
		if err := NewStatsSample(QueueStats{Failed: -1}, now).Validate(); err == nil {
			t.Error("expected error for negative counter")
		}
	})

	t.Run("TriggerRecord", func(t *testing.T) {
		ok := NewTriggerRecord("http://localhost:5000", nil, "queued", now)
		if !ok.Succeeded || ok.Message != "queued" {
			t.Errorf("unexpected record %+v", ok)
		}

		failed := NewTriggerRecord("http://localhost:5000", errors.New("boom"), "ignored", now)
		if failed.Succeeded || failed.Message != "boom" {
			t.Errorf("unexpected record %+v", failed)
		}

		if err := NewTriggerRecord("", nil, "", now).Validate(); err == nil {
			t.Error("expected error for missing api url")
		}
	})
}
