package tasks

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/importdash/internal/models"
	"github.com/desertthunder/importdash/internal/services"
	"github.com/desertthunder/importdash/internal/shared"
)

// DefaultInterval matches the dashboard refresh period.
const DefaultInterval = 10 * time.Second

// Recorder persists poll samples and trigger outcomes.
type Recorder interface {
	RecordSample(ctx context.Context, sample *models.StatsSample) error
	RecordTrigger(ctx context.Context, record *models.TriggerRecord) error
}

// PollResult is the outcome of one polling cycle.
type PollResult struct {
	Cycle    int
	Logs     []models.ImportLogEntry // nil when the log fetch failed
	Stats    *models.QueueStats      // nil when stats were unavailable
	LogsErr  error
	StatsErr error
}

// Poller fetches logs and queue stats on a fixed interval without a terminal UI.
type Poller struct {
	client   services.ImportClient
	recorder Recorder
	logger   *log.Logger
	interval time.Duration
	now      func() time.Time
	cycle    int
}

// NewPoller creates a poller. recorder and logger may be nil.
func NewPoller(client services.ImportClient, recorder Recorder, logger *log.Logger, interval time.Duration) *Poller {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	if interval <= 0 {
		interval = DefaultInterval
	}
	return &Poller{
		client:   client,
		recorder: recorder,
		logger:   logger,
		interval: interval,
		now:      time.Now,
	}
}

// sendProgress sends a progress update through the channel without blocking.
func (p *Poller) sendProgress(progress chan<- ProgressUpdate, update ProgressUpdate) {
	if progress == nil {
		return
	}
	select {
	case progress <- update:
	default:
	}
}

// Run polls immediately and then every interval until ctx is cancelled.
//
// Failures never stop the loop; the next tick simply tries again.
func (p *Poller) Run(ctx context.Context, progress chan<- ProgressUpdate) error {
	if p.client == nil {
		return fmt.Errorf("%w: import client not initialized", shared.ErrServiceUnavailable)
	}

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	p.PollOnce(ctx, progress)
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			p.PollOnce(ctx, progress)
		}
	}
}

// PollOnce runs a single fetch cycle. A log failure is reported as an error; a stats failure is only logged.
func (p *Poller) PollOnce(ctx context.Context, progress chan<- ProgressUpdate) *PollResult {
	p.cycle++
	result := &PollResult{Cycle: p.cycle}

	entries, err := p.client.FetchLogs(ctx)
	if err != nil {
		result.LogsErr = err
		p.logger.Error("failed to fetch import logs", "cycle", p.cycle, "error", err)
		p.sendProgress(progress, logsFailedUpdate(p.cycle, err))
	} else {
		result.Logs = entries
		p.logger.Debug("fetched import logs", "cycle", p.cycle, "count", len(entries))
		p.sendProgress(progress, logsFetchedUpdate(p.cycle, entries))
	}

	resp, err := p.client.FetchQueueStats(ctx)
	switch {
	case err != nil:
		result.StatsErr = err
		p.logger.Error("failed to fetch queue stats", "cycle", p.cycle, "error", err)
		p.sendProgress(progress, statsUnavailableUpdate(p.cycle, err))
	case resp == nil || !resp.Success:
		p.logger.Warn("queue stats unavailable, keeping previous snapshot", "cycle", p.cycle)
		p.sendProgress(progress, statsUnavailableUpdate(p.cycle, nil))
	default:
		stats := resp.Stats
		result.Stats = &stats
		p.sendProgress(progress, statsFetchedUpdate(p.cycle, stats))
		p.recordSample(ctx, progress, stats)
	}

	return result
}

func (p *Poller) recordSample(ctx context.Context, progress chan<- ProgressUpdate, stats models.QueueStats) {
	if p.recorder == nil {
		return
	}
	if err := p.recorder.RecordSample(ctx, models.NewStatsSample(stats, p.now())); err != nil {
		if errors.Is(err, context.Canceled) {
			return
		}
		p.logger.Warn("failed to record stats sample", "cycle", p.cycle, "error", err)
		p.sendProgress(progress, sampleFailedUpdate(p.cycle, err))
	}
}

// Trigger requests a manual import and records the outcome when a recorder is configured.
//
// The returned record is never nil; err is the trigger failure, if any.
func (p *Poller) Trigger(ctx context.Context, progress chan<- ProgressUpdate) (*models.TriggerRecord, error) {
	if p.client == nil {
		return nil, fmt.Errorf("%w: import client not initialized", shared.ErrServiceUnavailable)
	}

	resp, err := p.client.TriggerImport(ctx)

	var message string
	if resp != nil {
		message = resp.Message
	}
	rec := models.NewTriggerRecord(p.client.BaseURL(), err, message, p.now())

	if err != nil {
		p.logger.Error("failed to trigger import", "api", rec.APIURL, "error", err)
	} else {
		p.logger.Info("import triggered", "api", rec.APIURL)
	}

	if p.recorder != nil {
		if recErr := p.recorder.RecordTrigger(ctx, rec); recErr != nil {
			p.logger.Warn("failed to record trigger", "error", recErr)
		}
	}

	p.sendProgress(progress, triggerUpdate(rec, err))
	return rec, err
}
