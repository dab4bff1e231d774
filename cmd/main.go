package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/desertthunder/importdash/internal/shared"
)

func main() {
	logger := shared.NewLogger(nil)
	runner := NewRunner(RunnerOpts{Logger: logger})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := runner.App().Run(ctx, os.Args); err != nil {
		logger.Fatalf("application error: %v", err)
	}
}
