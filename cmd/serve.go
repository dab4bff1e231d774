package main

import (
	"context"
	"fmt"
	"net"
	"strconv"
	"time"

	"github.com/desertthunder/importdash/internal/server"
	"github.com/desertthunder/importdash/internal/shared"
	"github.com/urfave/cli/v3"
)

// Serve runs the mock import API until interrupted.
//
// Queued imports are processed every --process-every so the dashboard sees
// the queue drain and new history rows appear.
func (r *Runner) Serve(ctx context.Context, cmd *cli.Command) error {
	cfg := r.config.Server

	host := cfg.Host
	if cmd.IsSet("host") {
		host = cmd.String("host")
	}
	port := cfg.Port
	if cmd.IsSet("port") {
		port = int(cmd.Int("port"))
	}
	every := cfg.ProcessEvery
	if cmd.IsSet("process-every") {
		every = cmd.Duration("process-every")
	}
	if every <= 0 {
		return fmt.Errorf("process interval must be positive, got %v", every)
	}

	logger := shared.WithLogger(r.logger, "component", "mock-api")
	api := server.NewMockAPI(logger)
	if cmd.Bool("seed") {
		api.Enqueue()
		entries := api.Process()
		logger.Info("seeded import history", "entries", len(entries))
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	go func() {
		ticker := time.NewTicker(every)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if processed := api.Process(); len(processed) > 0 {
					logger.Info("processed queued imports", "count", len(processed))
				}
			}
		}
	}()

	addr := net.JoinHostPort(host, strconv.Itoa(port))
	return server.ListenAndServe(ctx, addr, server.NewMockRouter(api, logger), logger, nil)
}
