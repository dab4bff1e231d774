// package testing contains shared testing utilities
package testing

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/desertthunder/importdash/internal/models"
)

// MockImportClient is a test double for the dashboard's import client.
//
// Nil function fields return zero values; every call is counted.
type MockImportClient struct {
	URL       string
	LogsFn    func(ctx context.Context) ([]models.ImportLogEntry, error)
	StatsFn   func(ctx context.Context) (*models.StatsResponse, error)
	TriggerFn func(ctx context.Context) (*models.TriggerResponse, error)

	mu       sync.Mutex
	logs     int
	stats    int
	triggers int
}

func (m *MockImportClient) BaseURL() string {
	if m.URL == "" {
		return "http://localhost:5000"
	}
	return m.URL
}

func (m *MockImportClient) FetchLogs(ctx context.Context) ([]models.ImportLogEntry, error) {
	m.mu.Lock()
	m.logs++
	m.mu.Unlock()
	if m.LogsFn == nil {
		return []models.ImportLogEntry{}, nil
	}
	return m.LogsFn(ctx)
}

func (m *MockImportClient) FetchQueueStats(ctx context.Context) (*models.StatsResponse, error) {
	m.mu.Lock()
	m.stats++
	m.mu.Unlock()
	if m.StatsFn == nil {
		return &models.StatsResponse{}, nil
	}
	return m.StatsFn(ctx)
}

func (m *MockImportClient) TriggerImport(ctx context.Context) (*models.TriggerResponse, error) {
	m.mu.Lock()
	m.triggers++
	m.mu.Unlock()
	if m.TriggerFn == nil {
		return &models.TriggerResponse{Success: true}, nil
	}
	return m.TriggerFn(ctx)
}

// Calls returns how many times each endpoint was hit: logs, stats, trigger.
func (m *MockImportClient) Calls() (logs, stats, triggers int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.logs, m.stats, m.triggers
}

// FakeAPI is an httptest server answering the three import endpoints with canned bodies.
type FakeAPI struct {
	Server *httptest.Server

	mu            sync.Mutex
	logsBody      string
	logsStatus    int
	statsBody     string
	triggerStatus int
	triggerBody   string
	delay         time.Duration
	hits          map[string]int
}

// NewFakeAPI starts a FakeAPI that is closed when the test ends.
func NewFakeAPI(t *testing.T) *FakeAPI {
	t.Helper()

	f := &FakeAPI{
		logsBody:      `{"data":[]}`,
		logsStatus:    http.StatusOK,
		statsBody:     `{"success":true,"stats":{"waiting":0,"active":0,"completed":0,"failed":0}}`,
		triggerStatus: http.StatusOK,
		triggerBody:   `{"success":true,"message":"Import queued"}`,
		hits:          map[string]int{},
	}
	f.Server = httptest.NewServer(http.HandlerFunc(f.serve))
	t.Cleanup(f.Server.Close)
	return f
}

func (f *FakeAPI) URL() string { return f.Server.URL }

// SetLogs sets the status and body for GET /api/import-logs.
func (f *FakeAPI) SetLogs(status int, body string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.logsStatus, f.logsBody = status, body
}

// SetStats sets the body for GET /api/queue-stats.
func (f *FakeAPI) SetStats(body string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.statsBody = body
}

// SetTriggerStatus sets the status for POST /api/trigger-import.
func (f *FakeAPI) SetTriggerStatus(status int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.triggerStatus = status
}

// SetTriggerBody sets the body for POST /api/trigger-import.
func (f *FakeAPI) SetTriggerBody(body string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.triggerBody = body
}

// SetDelay makes every response wait d (or until the client gives up).
func (f *FakeAPI) SetDelay(d time.Duration) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.delay = d
}

// Hits returns how many requests reached path.
func (f *FakeAPI) Hits(path string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.hits[path]
}

func (f *FakeAPI) serve(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	f.hits[r.URL.Path]++
	delay := f.delay
	logsStatus, logsBody := f.logsStatus, f.logsBody
	statsBody, triggerStatus, triggerBody := f.statsBody, f.triggerStatus, f.triggerBody
	f.mu.Unlock()

	if delay > 0 {
		select {
		case <-time.After(delay):
		case <-r.Context().Done():
			return
		}
	}

	w.Header().Set("Content-Type", "application/json")
	switch {
	case r.Method == http.MethodGet && r.URL.Path == "/api/import-logs":
		w.WriteHeader(logsStatus)
		w.Write([]byte(logsBody))
	case r.Method == http.MethodGet && r.URL.Path == "/api/queue-stats":
		w.Write([]byte(statsBody))
	case r.Method == http.MethodPost && r.URL.Path == "/api/trigger-import":
		w.WriteHeader(triggerStatus)
		w.Write([]byte(triggerBody))
	default:
		http.NotFound(w, r)
	}
}

// FWriter always returns an error on Write
type FWriter struct{}

func (f *FWriter) Write(p []byte) (n int, err error) {
	return 0, errors.New("write failed")
}

// MockRoundTripper allows custom HTTP responses for testing
type MockRoundTripper struct {
	response *http.Response
	err      error
}

func NewMockRoundTripper(r *http.Response, e error) *MockRoundTripper {
	return &MockRoundTripper{response: r, err: e}
}

func (m *MockRoundTripper) RoundTrip(*http.Request) (*http.Response, error) {
	return m.response, m.err
}

// FCloser simulates a failure when reading response body
type FCloser struct{}

func (f *FCloser) Read(p []byte) (n int, err error) {
	return 0, errors.New("read failed")
}

func (f *FCloser) Close() error {
	return nil
}

func AssertFileExists(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Errorf("File does not exist: %s", path)
	}
}

func MustReadFile(t *testing.T, path string) string {
	t.Helper()
	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read file %s: %v", path, err)
	}
	return string(content)
}
