package tasks

import (
	"fmt"

	"github.com/desertthunder/importdash/internal/models"
)

// ProgressUpdate represents a progress event during a polling cycle or trigger.
//
// Used to send real-time updates to the CLI or UI layer for display.
type ProgressUpdate struct {
	Phase   Phase  // Operation phase
	Step    int    // Poll cycle (or 1 for one-shot operations)
	Message string // Human-readable message for display
	Err     error  // Set when the phase failed
	Data    any    // Optional phase-specific data ([]models.ImportLogEntry, models.QueueStats, *models.TriggerRecord)
}

// Operation phase enumeration
type Phase int

const (
	FetchLogs Phase = iota
	FetchStats
	TriggerImport
	RecordSample
)

func (p Phase) String() string {
	switch p {
	case FetchLogs:
		return "fetch_logs"
	case FetchStats:
		return "fetch_stats"
	case TriggerImport:
		return "trigger_import"
	case RecordSample:
		return "record_sample"
	default:
		return ""
	}
}

func logsFetchedUpdate(step int, entries []models.ImportLogEntry) ProgressUpdate {
	return ProgressUpdate{
		Phase:   FetchLogs,
		Step:    step,
		Message: fmt.Sprintf("Fetched %d import log entries", len(entries)),
		Data:    entries,
	}
}

func logsFailedUpdate(step int, err error) ProgressUpdate {
	return ProgressUpdate{
		Phase:   FetchLogs,
		Step:    step,
		Message: fmt.Sprintf("Failed to fetch import logs: %v", err),
		Err:     err,
	}
}

func statsFetchedUpdate(step int, stats models.QueueStats) ProgressUpdate {
	return ProgressUpdate{
		Phase: FetchStats,
		Step:  step,
		Message: fmt.Sprintf("Queue: %d waiting, %d active, %d completed, %d failed",
			stats.Waiting, stats.Active, stats.Completed, stats.Failed),
		Data: stats,
	}
}

func statsUnavailableUpdate(step int, err error) ProgressUpdate {
	msg := "Queue stats unavailable"
	if err != nil {
		msg = fmt.Sprintf("%s: %v", msg, err)
	}
	return ProgressUpdate{
		Phase:   FetchStats,
		Step:    step,
		Message: msg,
		Err:     err,
	}
}

func sampleFailedUpdate(step int, err error) ProgressUpdate {
	return ProgressUpdate{
		Phase:   RecordSample,
		Step:    step,
		Message: fmt.Sprintf("Failed to record stats sample: %v", err),
		Err:     err,
	}
}

func triggerUpdate(rec *models.TriggerRecord, err error) ProgressUpdate {
	if err != nil {
		return ProgressUpdate{
			Phase:   TriggerImport,
			Step:    1,
			Message: fmt.Sprintf("✗ Import trigger failed: %v", err),
			Err:     err,
			Data:    rec,
		}
	}
	return ProgressUpdate{
		Phase:   TriggerImport,
		Step:    1,
		Message: "✓ Import triggered successfully",
		Data:    rec,
	}
}
