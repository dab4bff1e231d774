package server

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/importdash/internal/models"
	"github.com/desertthunder/importdash/internal/services"
	"github.com/desertthunder/importdash/internal/shared"
)

// DefaultFeeds are the file names the mock importer cycles through.
var DefaultFeeds = []string{
	"https://jobicy.com/?feed=job_feed",
	"https://jobicy.com/?feed=job_feed&job_categories=data-science",
	"https://www.higheredjobs.com/rss/articleFeed.cfm",
}

// MockAPI serves the three import endpoints from in-memory state.
//
// POST /api/trigger-import queues one job per feed; [MockAPI.Process] turns queued jobs
// into import log entries. Counts are derived from a run counter so output is reproducible.
type MockAPI struct {
	mu      sync.Mutex
	logger  *log.Logger
	feeds   []string
	logs    []models.ImportLogEntry
	queued  []string
	stats   models.QueueStats
	runs    int
	offline bool
	now     func() time.Time
}

var _ Handler = (*MockAPI)(nil)

// NewMockAPI creates a mock backend importing from feeds (or [DefaultFeeds] when none are given).
func NewMockAPI(logger *log.Logger, feeds ...string) *MockAPI {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	if len(feeds) == 0 {
		feeds = DefaultFeeds
	}
	return &MockAPI{
		logger: logger,
		feeds:  feeds,
		logs:   []models.ImportLogEntry{},
		now:    time.Now,
	}
}

// Routes returns the HTTP routes this handler serves.
func (m *MockAPI) Routes() []string {
	return []string{services.LogsPath, services.StatsPath, services.TriggerPath}
}

// ServeHTTP dispatches on path and method.
func (m *MockAPI) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	switch r.URL.Path {
	case services.LogsPath:
		if !allow(w, r, http.MethodGet) {
			return
		}
		m.mu.Lock()
		body := models.LogsResponse{Data: append([]models.ImportLogEntry{}, m.logs...)}
		m.mu.Unlock()
		writeJSON(w, http.StatusOK, body)

	case services.StatsPath:
		if !allow(w, r, http.MethodGet) {
			return
		}
		m.mu.Lock()
		body := models.StatsResponse{Success: !m.offline, Stats: m.snapshot()}
		m.mu.Unlock()
		writeJSON(w, http.StatusOK, body)

	case services.TriggerPath:
		if !allow(w, r, http.MethodPost) {
			return
		}
		queued := m.Enqueue()
		writeJSON(w, http.StatusOK, models.TriggerResponse{
			Success: true,
			Message: fmt.Sprintf("Import queued for %d feeds", queued),
		})

	default:
		writeJSON(w, http.StatusNotFound, map[string]any{"success": false, "message": "not found"})
	}
}

// Enqueue queues one job per feed and returns how many were added.
func (m *MockAPI) Enqueue() int {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.queued = append(m.queued, m.feeds...)
	m.logger.Info("import queued", "feeds", len(m.feeds), "waiting", len(m.queued))
	return len(m.feeds)
}

// Process drains the queue, recording one import log entry per job. Entries are kept newest first.
func (m *MockAPI) Process() []models.ImportLogEntry {
	m.mu.Lock()
	defer m.mu.Unlock()

	if len(m.queued) == 0 {
		return nil
	}

	jobs := m.queued
	m.queued = nil
	m.stats.Active = len(jobs)

	processed := make([]models.ImportLogEntry, 0, len(jobs))
	for _, feed := range jobs {
		m.runs++
		entry := m.importRun(feed)
		processed = append(processed, entry)

		m.stats.Active--
		if entry.FailedJobs > 0 && entry.NewJobs+entry.UpdatedJobs == 0 {
			m.stats.Failed++
		} else {
			m.stats.Completed++
		}
	}

	newest := make([]models.ImportLogEntry, 0, len(processed)+len(m.logs))
	for i := len(processed) - 1; i >= 0; i-- {
		newest = append(newest, processed[i])
	}
	m.logs = append(newest, m.logs...)

	m.logger.Info("processed import jobs", "jobs", len(processed), "history", len(m.logs))
	return processed
}

// importRun fabricates the counts for the n-th run.
func (m *MockAPI) importRun(feed string) models.ImportLogEntry {
	n := m.runs
	total := 10 + (n*7)%25
	failed := n % 3
	updated := (total - failed) / 4
	created := total - failed - updated

	return models.ImportLogEntry{
		ID:            shared.GenerateID(),
		FileName:      feed,
		TotalImported: total,
		NewJobs:       created,
		UpdatedJobs:   updated,
		FailedJobs:    failed,
		Timestamp:     m.now().UTC(),
	}
}

// Seed prepends entries to the history as if they had just been imported.
func (m *MockAPI) Seed(entries ...models.ImportLogEntry) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.logs = append(append([]models.ImportLogEntry{}, entries...), m.logs...)
}

// SetOffline makes the stats endpoint report success=false.
func (m *MockAPI) SetOffline(offline bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.offline = offline
}

// Stats returns the current queue counters.
func (m *MockAPI) Stats() models.QueueStats {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.snapshot()
}

func (m *MockAPI) snapshot() models.QueueStats {
	stats := m.stats
	stats.Waiting = len(m.queued)
	return stats
}

func allow(w http.ResponseWriter, r *http.Request, method string) bool {
	if r.Method == method {
		return true
	}
	w.Header().Set("Allow", method)
	writeJSON(w, http.StatusMethodNotAllowed, map[string]any{"success": false, "message": "method not allowed"})
	return false
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
