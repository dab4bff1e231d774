package tasks

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/desertthunder/importdash/internal/models"
	"github.com/desertthunder/importdash/internal/shared"
	tu "github.com/desertthunder/importdash/internal/testing"
)

type mockRecorder struct {
	mu        sync.Mutex
	samples   []*models.StatsSample
	triggers  []*models.TriggerRecord
	sampleErr error
}

func (r *mockRecorder) RecordSample(ctx context.Context, sample *models.StatsSample) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.sampleErr != nil {
		return r.sampleErr
	}
	r.samples = append(r.samples, sample)
	return nil
}

func (r *mockRecorder) RecordTrigger(ctx context.Context, record *models.TriggerRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.triggers = append(r.triggers, record)
	return nil
}

func (r *mockRecorder) sampleCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.samples)
}

func successfulStats(stats models.QueueStats) func(context.Context) (*models.StatsResponse, error) {
	return func(context.Context) (*models.StatsResponse, error) {
		return &models.StatsResponse{Success: true, Stats: stats}, nil
	}
}

func drain(progress chan ProgressUpdate) []ProgressUpdate {
	var updates []ProgressUpdate
	for {
		select {
		case u := <-progress:
			updates = append(updates, u)
		default:
			return updates
		}
	}
}

func TestPoller(t *testing.T) {
	fixed := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

	t.Run("PollOnce", func(t *testing.T) {
		t.Run("Success Records Sample", func(t *testing.T) {
			client := &tu.MockImportClient{
				LogsFn: func(context.Context) ([]models.ImportLogEntry, error) {
					return []models.ImportLogEntry{{ID: "1", FileName: "jobs.csv"}}, nil
				},
				StatsFn: successfulStats(models.QueueStats{Waiting: 3, Active: 1, Completed: 20}),
			}
			recorder := &mockRecorder{}
			poller := NewPoller(client, recorder, nil, time.Second)
			poller.now = func() time.Time { return fixed }

			progress := make(chan ProgressUpdate, 10)
			result := poller.PollOnce(context.Background(), progress)

			if result.LogsErr != nil || result.StatsErr != nil {
				t.Fatalf("unexpected errors: %v / %v", result.LogsErr, result.StatsErr)
			}
			if len(result.Logs) != 1 {
				t.Errorf("expected 1 log entry, got %d", len(result.Logs))
			}
			if result.Stats == nil || result.Stats.Completed != 20 {
				t.Errorf("expected stats snapshot, got %+v", result.Stats)
			}
			if len(recorder.samples) != 1 || !recorder.samples[0].SampledAt.Equal(fixed) {
				t.Errorf("expected one sample at %v, got %+v", fixed, recorder.samples)
			}

			updates := drain(progress)
			if len(updates) != 2 || updates[0].Phase != FetchLogs || updates[1].Phase != FetchStats {
				t.Errorf("expected logs then stats updates, got %+v", updates)
			}
		})

		t.Run("Log Failure Is Reported", func(t *testing.T) {
			client := &tu.MockImportClient{
				LogsFn: func(context.Context) ([]models.ImportLogEntry, error) {
					return nil, shared.ErrTimeout
				},
				StatsFn: successfulStats(models.QueueStats{}),
			}
			poller := NewPoller(client, nil, nil, time.Second)

			progress := make(chan ProgressUpdate, 10)
			result := poller.PollOnce(context.Background(), progress)

			if !errors.Is(result.LogsErr, shared.ErrTimeout) {
				t.Errorf("expected ErrTimeout, got %v", result.LogsErr)
			}
			if result.Logs != nil {
				t.Error("expected no logs on failure")
			}

			updates := drain(progress)
			if len(updates) == 0 || updates[0].Err == nil {
				t.Errorf("expected failing logs update, got %+v", updates)
			}
		})

		t.Run("Unsuccessful Stats Are Not Recorded", func(t *testing.T) {
			client := &tu.MockImportClient{
				StatsFn: func(context.Context) (*models.StatsResponse, error) {
					return &models.StatsResponse{Success: false}, nil
				},
			}
			recorder := &mockRecorder{}
			poller := NewPoller(client, recorder, nil, time.Second)

			result := poller.PollOnce(context.Background(), nil)

			if result.Stats != nil || result.StatsErr != nil {
				t.Errorf("expected unavailable stats without error, got %+v", result)
			}
			if len(recorder.samples) != 0 {
				t.Errorf("expected no samples, got %d", len(recorder.samples))
			}
		})

		t.Run("Recorder Failure Does Not Fail Poll", func(t *testing.T) {
			client := &tu.MockImportClient{StatsFn: successfulStats(models.QueueStats{Waiting: 1})}
			recorder := &mockRecorder{sampleErr: errors.New("disk full")}
			poller := NewPoller(client, recorder, nil, time.Second)

			progress := make(chan ProgressUpdate, 10)
			result := poller.PollOnce(context.Background(), progress)

			if result.Stats == nil {
				t.Fatal("expected stats despite recorder failure")
			}

			var sawRecordFailure bool
			for _, u := range drain(progress) {
				if u.Phase == RecordSample && u.Err != nil {
					sawRecordFailure = true
				}
			}
			if !sawRecordFailure {
				t.Error("expected a record_sample failure update")
			}
		})

		t.Run("Full Channel Does Not Block", func(t *testing.T) {
			poller := NewPoller(&tu.MockImportClient{}, nil, nil, time.Second)
			progress := make(chan ProgressUpdate)

			done := make(chan struct{})
			go func() {
				poller.PollOnce(context.Background(), progress)
				close(done)
			}()

			select {
			case <-done:
			case <-time.After(time.Second):
				t.Fatal("PollOnce blocked on an unread progress channel")
			}
		})
	})

	t.Run("Run", func(t *testing.T) {
		t.Run("Polls Until Cancelled", func(t *testing.T) {
			client := &tu.MockImportClient{StatsFn: successfulStats(models.QueueStats{Active: 2})}
			recorder := &mockRecorder{}
			poller := NewPoller(client, recorder, nil, 10*time.Millisecond)

			ctx, cancel := context.WithCancel(context.Background())
			errCh := make(chan error, 1)
			go func() { errCh <- poller.Run(ctx, nil) }()

			deadline := time.After(2 * time.Second)
			for recorder.sampleCount() < 3 {
				select {
				case <-deadline:
					t.Fatalf("expected at least 3 samples, got %d", recorder.sampleCount())
				case <-time.After(5 * time.Millisecond):
				}
			}
			cancel()

			select {
			case err := <-errCh:
				if err != nil {
					t.Errorf("expected nil error on cancellation, got %v", err)
				}
			case <-time.After(time.Second):
				t.Fatal("Run did not return after cancellation")
			}
		})

		t.Run("Nil Client", func(t *testing.T) {
			poller := NewPoller(nil, nil, nil, time.Second)
			if err := poller.Run(context.Background(), nil); !errors.Is(err, shared.ErrServiceUnavailable) {
				t.Errorf("expected ErrServiceUnavailable, got %v", err)
			}
		})

		t.Run("Default Interval", func(t *testing.T) {
			poller := NewPoller(&tu.MockImportClient{}, nil, nil, 0)
			if poller.interval != DefaultInterval {
				t.Errorf("expected %v, got %v", DefaultInterval, poller.interval)
			}
		})
	})

	t.Run("Trigger", func(t *testing.T) {
		t.Run("Success", func(t *testing.T) {
			client := &tu.MockImportClient{
				URL: "http://api.test",
				TriggerFn: func(context.Context) (*models.TriggerResponse, error) {
					return &models.TriggerResponse{Success: true, Message: "Import queued"}, nil
				},
			}
			recorder := &mockRecorder{}
			poller := NewPoller(client, recorder, nil, time.Second)
			poller.now = func() time.Time { return fixed }

			progress := make(chan ProgressUpdate, 1)
			rec, err := poller.Trigger(context.Background(), progress)

			if err != nil {
				t.Fatalf("Trigger() error = %v", err)
			}
			if !rec.Succeeded || rec.Message != "Import queued" || rec.APIURL != "http://api.test" {
				t.Errorf("unexpected record %+v", rec)
			}
			if len(recorder.triggers) != 1 {
				t.Errorf("expected recorded trigger, got %d", len(recorder.triggers))
			}

			update := <-progress
			if update.Phase != TriggerImport || update.Err != nil {
				t.Errorf("unexpected update %+v", update)
			}
		})

		t.Run("Failure Is Recorded", func(t *testing.T) {
			client := &tu.MockImportClient{
				TriggerFn: func(context.Context) (*models.TriggerResponse, error) {
					return nil, shared.ErrRateLimited
				},
			}
			recorder := &mockRecorder{}
			poller := NewPoller(client, recorder, nil, time.Second)

			rec, err := poller.Trigger(context.Background(), nil)

			if !errors.Is(err, shared.ErrRateLimited) {
				t.Errorf("expected ErrRateLimited, got %v", err)
			}
			if rec == nil || rec.Succeeded || rec.Message != shared.ErrRateLimited.Error() {
				t.Errorf("expected failed record, got %+v", rec)
			}
			if len(recorder.triggers) != 1 {
				t.Errorf("expected failure to be recorded, got %d", len(recorder.triggers))
			}
		})
	})
}

func TestPhaseString(t *testing.T) {
	tests := []struct {
		phase Phase
		want  string
	}{
		{FetchLogs, "fetch_logs"},
		{FetchStats, "fetch_stats"},
		{TriggerImport, "trigger_import"},
		{RecordSample, "record_sample"},
		{Phase(99), ""},
	}

	for _, tt := range tests {
		if got := tt.phase.String(); got != tt.want {
			t.Errorf("Phase(%d).String() = %q, want %q", tt.phase, got, tt.want)
		}
	}
}
