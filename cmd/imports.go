package main

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/desertthunder/importdash/internal/tasks"
	"github.com/desertthunder/importdash/internal/ui"
	"github.com/urfave/cli/v3"
)

// Stats prints the queue counters.
func (r *Runner) Stats(ctx context.Context, cmd *cli.Command) error {
	resp, err := r.imports.FetchQueueStats(ctx)
	if err != nil {
		return fmt.Errorf("failed to fetch queue stats from %s: %w", r.imports.BaseURL(), err)
	}

	if cmd.Bool("json") {
		return r.writeJSON(resp, true)
	}

	if !resp.Success {
		r.logger.Warn("queue stats unavailable", "api", r.imports.BaseURL())
		return r.writePlain("Queue stats unavailable\n")
	}

	return r.writePlain("%s\n", ui.RenderCounters(resp.Stats))
}

// Trigger queues a manual import and records the outcome in the audit database.
func (r *Runner) Trigger(ctx context.Context, cmd *cli.Command) error {
	recorder, closeDB, err := r.recorder(!cmd.Bool("no-record"))
	if err != nil {
		r.logger.Warn("trigger will not be recorded", "error", err)
	}
	defer closeDB()

	rec, err := r.poller(recorder, 0).Trigger(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to trigger import: %w", err)
	}

	if rec.Message != "" {
		return r.writePlain("✓ Import triggered successfully: %s\n", rec.Message)
	}
	return r.writePlain("✓ Import triggered successfully\n")
}

// Watch polls logs and stats until interrupted, printing one line per update.
func (r *Runner) Watch(ctx context.Context, cmd *cli.Command) error {
	interval := cmd.Duration("interval")
	if interval <= 0 {
		interval = r.config.Dashboard.RefreshInterval
	}

	recorder, closeDB, err := r.recorder(!cmd.Bool("no-record"))
	if err != nil {
		r.logger.Warn("stats samples will not be recorded", "error", err)
	}
	defer closeDB()

	poller := r.poller(recorder, interval)

	progress := make(chan tasks.ProgressUpdate, 16)
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for update := range progress {
			r.writePlain("%s [%d] %s\n", time.Now().In(r.loc).Format(time.TimeOnly), update.Step, update.Message)
		}
	}()

	var runErr error
	if cmd.Bool("once") {
		r.logger.Debug("polling once", "api", r.imports.BaseURL())
		poller.PollOnce(ctx, progress)
	} else {
		r.logger.Info("watching import API", "api", r.imports.BaseURL(), "interval", interval)
		runErr = poller.Run(ctx, progress)
	}

	close(progress)
	wg.Wait()
	return runErr
}
