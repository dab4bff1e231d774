// submodule cmd contains command definitions
package main

import (
	"github.com/desertthunder/importdash/internal/shared"
	"github.com/urfave/cli/v3"
)

const version = "0.1.0"

// App builds the root command with global flags and all subcommands.
func (r *Runner) App() *cli.Command {
	return &cli.Command{
		Name:    "importdash",
		Usage:   "Monitor job imports and the import queue",
		Version: version,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to configuration file (TOML or YAML)",
				Value:   "config.toml",
			},
			&cli.StringFlag{
				Name:  "api-url",
				Usage: "Import API base URL (overrides config and " + shared.EnvAPIURL + ")",
			},
			&cli.StringFlag{
				Name:  "log-level",
				Usage: "Log level: debug, info, warn, error",
			},
		},
		Before:   r.Before,
		Writer:   r.output,
		Commands: r.register(),
	}
}

func (r *Runner) register() []*cli.Command {
	commands := []*cli.Command{}
	for _, fn := range [](func(*Runner) *cli.Command){
		dashboardCommand, logsCommand, statsCommand, triggerCommand, watchCommand,
		historyCommand, apiCommand, serveCommand, setupCommand,
	} {
		commands = append(commands, fn(r))
	}

	return commands
}

// dashboardCommand runs the interactive dashboard
func dashboardCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "dashboard",
		Aliases: []string{"tui", "ui"},
		Usage:   "Interactive import dashboard (logs to the configured log file)",
		Action:  r.Dashboard,
	}
}

// logsCommand handles import history output
func logsCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "logs",
		Usage: "Import history",
		Commands: []*cli.Command{
			{
				Name:  "list",
				Usage: "Fetch and print the import history",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
					},
				},
				Action: r.LogsList,
			},
			{
				Name:  "export",
				Usage: "Export the import history to a file",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "format",
						Aliases: []string{"f"},
						Usage:   "Export format: csv, markdown, txt, json",
						Value:   "csv",
					},
					&cli.StringFlag{
						Name:    "output",
						Aliases: []string{"o"},
						Usage:   "Output file path (default: import-logs.<ext>)",
					},
				},
				Action: r.LogsExport,
			},
		},
	}
}

// statsCommand prints queue counters
func statsCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "stats",
		Usage: "Print queue counters",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "json",
				Usage: "Output raw JSON",
			},
		},
		Action: r.Stats,
	}
}

// triggerCommand queues a manual import
func triggerCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "trigger",
		Usage: "Trigger a manual import",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "no-record",
				Usage: "Don't record the trigger in the audit database",
			},
		},
		Action: r.Trigger,
	}
}

// watchCommand runs the headless poller
func watchCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "watch",
		Usage: "Poll logs and stats without the dashboard, recording stats samples",
		Flags: []cli.Flag{
			&cli.DurationFlag{
				Name:    "interval",
				Aliases: []string{"i"},
				Usage:   "Polling interval (default: dashboard.refresh_interval)",
			},
			&cli.BoolFlag{
				Name:  "once",
				Usage: "Poll a single time and exit",
			},
			&cli.BoolFlag{
				Name:  "no-record",
				Usage: "Don't record stats samples",
			},
		},
		Action: r.Watch,
	}
}

// historyCommand prints recorded audit records
func historyCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "history",
		Usage: "Recorded stats samples and triggers",
		Commands: []*cli.Command{
			{
				Name:   "samples",
				Usage:  "Queue stats samples recorded by watch",
				Flags:  historyFlags(),
				Action: r.HistorySamples,
			},
			{
				Name:   "triggers",
				Usage:  "Manual import triggers",
				Flags:  historyFlags(),
				Action: r.HistoryTriggers,
			},
		},
	}
}

func historyFlags() []cli.Flag {
	return []cli.Flag{
		&cli.IntFlag{
			Name:    "limit",
			Aliases: []string{"n"},
			Usage:   "Maximum number of records (0 for all)",
			Value:   20,
		},
		&cli.BoolFlag{
			Name:  "json",
			Usage: "Output raw JSON",
		},
	}
}

// apiCommand handles direct API calls
func apiCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "api",
		Usage: "Direct API calls for debugging",
		Commands: []*cli.Command{
			{
				Name:  "get",
				Usage: "Direct GET, prints the response body",
				Arguments: []cli.Argument{
					&cli.StringArg{
						Name: "path",
					},
				},
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "pretty",
						Usage: "Pretty-print JSON output",
						Value: true,
					},
				},
				Action: r.APIGet,
			},
			{
				Name:  "post",
				Usage: "Direct POST with an optional JSON body",
				Arguments: []cli.Argument{
					&cli.StringArg{
						Name: "path",
					},
				},
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "data",
						Aliases: []string{"d"},
						Usage:   "JSON body to send",
					},
				},
				Action: r.APIPost,
			},
		},
	}
}

// serveCommand runs the mock development API
func serveCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Run a mock import API for local development",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "host",
				Usage: "Listen host (default: server.host)",
			},
			&cli.IntFlag{
				Name:    "port",
				Aliases: []string{"p"},
				Usage:   "Listen port (default: server.port)",
			},
			&cli.DurationFlag{
				Name:  "process-every",
				Usage: "How often queued imports are processed (default: server.process_every)",
			},
			&cli.BoolFlag{
				Name:  "seed",
				Usage: "Run one import at startup so the history isn't empty",
			},
		},
		Action: r.Serve,
	}
}

// setupCommand handles setup operations for config and database.
func setupCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "setup",
		Usage: "Setup and configuration commands",
		Commands: []*cli.Command{
			{
				Name:   "config",
				Usage:  "Write a config file from the built-in template",
				Action: r.SetupConfig,
			},
			{
				Name:   "database",
				Usage:  "Initialize the audit database and run migrations",
				Action: r.SetupDatabase,
			},
		},
	}
}
