// API service for making raw HTTP requests to the import backend
package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/desertthunder/importdash/internal/shared"
)

const (
	defaultBaseURL = "http://localhost:5000"
	// DefaultTimeout bounds every request, including reading the body.
	DefaultTimeout = 5 * time.Second
)

// APIService provides methods for making raw HTTP requests to the import backend.
//
// The base URL may be swapped at runtime (config reload), so it is guarded by a mutex.
type APIService struct {
	mu         sync.RWMutex
	baseURL    string
	timeout    time.Duration
	httpClient *http.Client
}

// NewAPIService creates a new API service instance for the import backend.
func NewAPIService(baseURL string, client *http.Client) *APIService {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	if client == nil {
		client = http.DefaultClient
	}

	return &APIService{
		baseURL:    strings.TrimRight(baseURL, "/"),
		timeout:    DefaultTimeout,
		httpClient: client,
	}
}

// APIResponse represents a raw API response with status and body.
type APIResponse struct {
	StatusCode int
	Headers    http.Header
	Body       []byte
	IsJSON     bool
	JSONData   any
}

// OK reports whether the status code is 2xx.
func (r *APIResponse) OK() bool {
	return r.StatusCode >= 200 && r.StatusCode < 300
}

// BaseURL returns the current base URL.
func (a *APIService) BaseURL() string {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.baseURL
}

// SetBaseURL points subsequent requests at a new backend.
func (a *APIService) SetBaseURL(baseURL string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.baseURL = strings.TrimRight(baseURL, "/")
}

// Timeout returns the per-request timeout.
func (a *APIService) Timeout() time.Duration {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.timeout
}

// SetTimeout changes the per-request timeout. Non-positive values restore [DefaultTimeout].
func (a *APIService) SetTimeout(d time.Duration) {
	if d <= 0 {
		d = DefaultTimeout
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	a.timeout = d
}

// Get performs a GET request to the specified path and returns the raw response.
func (a *APIService) Get(ctx context.Context, path string) (*APIResponse, error) {
	return a.do(ctx, http.MethodGet, path, nil)
}

// Post performs a POST request with the given JSON data and returns the raw response.
//
// An empty data slice sends an empty body without a Content-Type.
func (a *APIService) Post(ctx context.Context, path string, data []byte) (*APIResponse, error) {
	return a.do(ctx, http.MethodPost, path, data)
}

func (a *APIService) do(ctx context.Context, method, path string, data []byte) (*APIResponse, error) {
	timeout := a.Timeout()
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	var body io.Reader
	if len(data) > 0 {
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, a.BaseURL()+path, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Accept", "application/json")
	if len(data) > 0 {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := a.httpClient.Do(req)
	if err != nil {
		return nil, transportError("request failed", err, timeout)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, transportError("failed to read response", err, timeout)
	}

	apiResp := &APIResponse{
		StatusCode: resp.StatusCode,
		Headers:    resp.Header,
		Body:       raw,
	}

	var jsonData any
	if err := json.Unmarshal(raw, &jsonData); err == nil {
		apiResp.IsJSON = true
		apiResp.JSONData = jsonData
	}

	return apiResp, nil
}

// transportError folds deadline expiry into [shared.ErrTimeout]; everything else keeps its cause.
func transportError(prefix string, err error, timeout time.Duration) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w after %s", shared.ErrTimeout, timeout)
	}
	return fmt.Errorf("%s: %w", prefix, err)
}
