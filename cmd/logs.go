package main

import (
	"context"
	"fmt"

	"github.com/desertthunder/importdash/internal/formatter"
	"github.com/desertthunder/importdash/internal/ui"
	"github.com/urfave/cli/v3"
)

// LogsList fetches the import history once and prints it as a table.
func (r *Runner) LogsList(ctx context.Context, cmd *cli.Command) error {
	entries, err := r.imports.FetchLogs(ctx)
	if err != nil {
		return fmt.Errorf("failed to fetch import logs from %s: %w", r.imports.BaseURL(), err)
	}

	r.logger.Debug("fetched import logs", "count", len(entries))

	if cmd.Bool("json") {
		return r.writeJSON(entries, true)
	}

	if len(entries) == 0 {
		return r.writePlain("No imports yet. Run 'importdash trigger' to start one.\n")
	}

	return r.writePlain("%s\n", ui.RenderLogTable(entries, r.loc))
}

// LogsExport writes the import history to a file.
func (r *Runner) LogsExport(ctx context.Context, cmd *cli.Command) error {
	format, err := formatter.ParseFormat(cmd.String("format"))
	if err != nil {
		return err
	}

	entries, err := r.imports.FetchLogs(ctx)
	if err != nil {
		return fmt.Errorf("failed to fetch import logs from %s: %w", r.imports.BaseURL(), err)
	}

	path, err := formatter.WriteExport(entries, format, cmd.String("output"), r.loc)
	if err != nil {
		return err
	}

	r.logger.Info("import logs exported", "format", format, "path", path, "entries", len(entries))
	return r.writePlain("✓ Exported %d entries to %s\n", len(entries), path)
}
