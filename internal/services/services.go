package services

import (
	"context"

	"github.com/desertthunder/importdash/internal/models"
)

// ImportClient is the set of backend operations the dashboard, the poller and the CLI depend on.
type ImportClient interface {
	// BaseURL returns the backend the client currently talks to.
	BaseURL() string

	// FetchLogs retrieves the import history, newest-first as the server orders it.
	FetchLogs(ctx context.Context) ([]models.ImportLogEntry, error)

	// FetchQueueStats retrieves the current queue counters.
	FetchQueueStats(ctx context.Context) (*models.StatsResponse, error)

	// TriggerImport asks the backend to start an import run.
	TriggerImport(ctx context.Context) (*models.TriggerResponse, error)
}

var _ ImportClient = (*ImportService)(nil)
