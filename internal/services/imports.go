package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/desertthunder/importdash/internal/models"
	"github.com/desertthunder/importdash/internal/shared"
	"golang.org/x/time/rate"
)

// Import backend endpoints.
const (
	LogsPath    = "/api/import-logs"
	StatsPath   = "/api/queue-stats"
	TriggerPath = "/api/trigger-import"
)

// ImportService is the typed client for the import backend used by the dashboard and the CLI.
type ImportService struct {
	api     *APIService
	limiter *rate.Limiter
}

// NewImportService wraps api. Manual triggers closer together than minTriggerInterval are rejected;
// a non-positive interval disables the limit.
func NewImportService(api *APIService, minTriggerInterval time.Duration) *ImportService {
	limit := rate.Inf
	if minTriggerInterval > 0 {
		limit = rate.Every(minTriggerInterval)
	}

	return &ImportService{
		api:     api,
		limiter: rate.NewLimiter(limit, 1),
	}
}

// BaseURL returns the backend URL requests are sent to.
func (s *ImportService) BaseURL() string {
	return s.api.BaseURL()
}

// SetBaseURL points subsequent requests at a new backend.
func (s *ImportService) SetBaseURL(baseURL string) {
	s.api.SetBaseURL(baseURL)
}

// FetchLogs returns the import history in server order. A response without "data" yields an empty slice.
func (s *ImportService) FetchLogs(ctx context.Context) ([]models.ImportLogEntry, error) {
	var body models.LogsResponse
	if err := s.getJSON(ctx, LogsPath, &body); err != nil {
		return nil, err
	}
	return body.Entries(), nil
}

// FetchQueueStats returns the queue snapshot envelope. Callers must check Success before using Stats.
func (s *ImportService) FetchQueueStats(ctx context.Context) (*models.StatsResponse, error) {
	var body models.StatsResponse
	if err := s.getJSON(ctx, StatsPath, &body); err != nil {
		return nil, err
	}
	return &body, nil
}

// TriggerImport asks the backend to enqueue an import run. Any 2xx status counts as success.
func (s *ImportService) TriggerImport(ctx context.Context) (*models.TriggerResponse, error) {
	if !s.limiter.Allow() {
		return nil, shared.ErrRateLimited
	}

	resp, err := s.api.Post(ctx, TriggerPath, nil)
	if err != nil {
		return nil, err
	}
	if !resp.OK() {
		return nil, statusError(TriggerPath, resp)
	}

	result := &models.TriggerResponse{}
	if !resp.IsJSON || json.Unmarshal(resp.Body, result) != nil {
		result.Message = bodyMessage(resp)
	}
	result.Success = true

	return result, nil
}

func (s *ImportService) getJSON(ctx context.Context, path string, target any) error {
	resp, err := s.api.Get(ctx, path)
	if err != nil {
		return err
	}
	if !resp.OK() {
		return statusError(path, resp)
	}

	if err := json.Unmarshal(resp.Body, target); err != nil {
		return fmt.Errorf("%w: %s: %v", shared.ErrInvalidResponse, path, err)
	}
	return nil
}

// bodyMessage renders a body that isn't a trigger envelope: a bare JSON string is unquoted,
// anything else is shown as sent.
func bodyMessage(resp *APIResponse) string {
	if msg, ok := resp.JSONData.(string); ok {
		return strings.TrimSpace(msg)
	}
	return shared.Truncate(string(resp.Body), 200)
}

// statusError describes a non-2xx response, preferring the backend's own "message" or "error" field.
func statusError(path string, resp *APIResponse) error {
	if body, ok := resp.JSONData.(map[string]any); ok {
		for _, key := range []string{"message", "error"} {
			if msg, ok := body[key].(string); ok && msg != "" {
				return fmt.Errorf("%w: %s returned status %d: %s", shared.ErrAPIRequest, path, resp.StatusCode, msg)
			}
		}
	}
	return fmt.Errorf("%w: %s returned status %d", shared.ErrAPIRequest, path, resp.StatusCode)
}
