package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/importdash/internal/shared"
	"github.com/desertthunder/importdash/internal/ui"
	"github.com/urfave/cli/v3"
)

// Dashboard launches the interactive import dashboard.
func (r *Runner) Dashboard(ctx context.Context, cmd *cli.Command) error {
	// Redirect logs to file to avoid interfering with TUI rendering
	fileLogger, err := shared.NewFileLogger(r.config.Log.File)
	if err != nil {
		return fmt.Errorf("failed to create file logger: %w", err)
	}
	if level, err := shared.ParseLogLevel(r.config.Log.Level); err == nil {
		shared.SetLogLevel(fileLogger, level)
	}
	r.SetLogger(fileLogger)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	model := ui.NewModel(ctx, r.imports, ui.Options{
		Logger:              shared.WithLogger(fileLogger, "component", "dashboard"),
		RefreshInterval:     r.config.Dashboard.RefreshInterval,
		TriggerRefreshDelay: r.config.Dashboard.TriggerRefreshDelay,
		Location:            r.loc,
	})
	defer model.Close()

	p := tea.NewProgram(model, tea.WithContext(ctx), tea.WithAltScreen())

	if _, err := os.Stat(r.configPath); err == nil {
		watcher, err := shared.NewConfigWatcher(r.configPath, fileLogger)
		if err != nil {
			fileLogger.Warn("config hot reload disabled", "error", err)
		} else {
			go watcher.Run(ctx, func(cfg *shared.Config) {
				if r.apiURL != "" {
					cfg.API.BaseURL = r.apiURL
				}
				r.api.SetTimeout(cfg.API.Timeout)
				p.Send(ui.ConfigReloaded(cfg))
			})
		}
	}

	fileLogger.Info("dashboard started", "api", r.imports.BaseURL(), "refresh", r.config.Dashboard.RefreshInterval)

	if _, err := p.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return fmt.Errorf("error running dashboard: %w", err)
	}

	return nil
}
