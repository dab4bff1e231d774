package main

import (
	"context"
	"fmt"
	"strconv"

	"github.com/desertthunder/importdash/internal/repositories"
	"github.com/desertthunder/importdash/internal/shared"
	"github.com/desertthunder/importdash/internal/ui"
	"github.com/urfave/cli/v3"
)

// HistorySamples prints queue stats samples recorded by watch.
func (r *Runner) HistorySamples(ctx context.Context, cmd *cli.Command) error {
	db, err := r.openDatabase()
	if err != nil {
		return err
	}
	defer db.Close()

	samples, err := repositories.NewStatsSampleRepository(db).List(ctx, int(cmd.Int("limit")))
	if err != nil {
		return fmt.Errorf("failed to list stats samples: %w", err)
	}

	if cmd.Bool("json") {
		return r.writeJSON(samples, true)
	}

	if len(samples) == 0 {
		return r.writePlain("No stats samples recorded. Run 'importdash watch' to collect some.\n")
	}

	rows := make([][]string, 0, len(samples))
	for _, s := range samples {
		rows = append(rows, []string{
			strconv.Itoa(s.Sequence),
			shared.FormatTimestamp(s.SampledAt, r.loc),
			strconv.Itoa(s.Stats.Waiting),
			strconv.Itoa(s.Stats.Active),
			strconv.Itoa(s.Stats.Completed),
			strconv.Itoa(s.Stats.Failed),
		})
	}

	r.writePlainHeader(fmt.Sprintf("Stats samples (%d)", len(samples)))
	return r.writePlain("%s\n", ui.RenderTable([]string{"#", "Sampled At", "Waiting", "Active", "Completed", "Failed"}, rows))
}

// HistoryTriggers prints recorded manual triggers.
func (r *Runner) HistoryTriggers(ctx context.Context, cmd *cli.Command) error {
	db, err := r.openDatabase()
	if err != nil {
		return err
	}
	defer db.Close()

	records, err := repositories.NewTriggerRepository(db).List(ctx, int(cmd.Int("limit")))
	if err != nil {
		return fmt.Errorf("failed to list trigger records: %w", err)
	}

	if cmd.Bool("json") {
		return r.writeJSON(records, true)
	}

	if len(records) == 0 {
		return r.writePlain("No triggers recorded.\n")
	}

	rows := make([][]string, 0, len(records))
	for _, rec := range records {
		status := "ok"
		if !rec.Succeeded {
			status = "failed"
		}
		rows = append(rows, []string{
			strconv.Itoa(rec.Sequence),
			shared.FormatTimestamp(rec.TriggeredAt, r.loc),
			status,
			rec.APIURL,
			shared.Truncate(rec.Message, 60),
		})
	}

	r.writePlainHeader(fmt.Sprintf("Triggers (%d)", len(records)))
	return r.writePlain("%s\n", ui.RenderTable([]string{"#", "Triggered At", "Status", "API", "Message"}, rows))
}
