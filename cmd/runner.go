package main

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/importdash/internal/repositories"
	"github.com/desertthunder/importdash/internal/services"
	"github.com/desertthunder/importdash/internal/shared"
	"github.com/desertthunder/importdash/internal/tasks"
	"github.com/urfave/cli/v3"
)

// Runner holds all dependencies for CLI commands and provides methods for each command action.
type Runner struct {
	config     *shared.Config
	configPath string
	apiURL     string // --api-url override, re-applied on config reload
	api        *services.APIService
	imports    *services.ImportService
	httpClient *http.Client
	logger     *log.Logger
	output     io.Writer
	loc        *time.Location
}

// RunnerOpts contains configuration options for creating a Runner.
type RunnerOpts struct {
	Config     *shared.Config
	ConfigPath string
	HTTPClient *http.Client
	Logger     *log.Logger
	Output     io.Writer
}

// NewRunner creates a new Runner with the provided configuration
func NewRunner(opts RunnerOpts) *Runner {
	if opts.Config == nil {
		opts.Config = shared.DefaultConfig()
	}
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}
	if opts.Output == nil {
		opts.Output = os.Stdout
	}
	if opts.HTTPClient == nil {
		opts.HTTPClient = http.DefaultClient
	}

	r := &Runner{
		configPath: opts.ConfigPath,
		httpClient: opts.HTTPClient,
		logger:     opts.Logger,
		output:     opts.Output,
	}
	r.configure(opts.Config)
	return r
}

// configure (re)builds the API clients from cfg.
func (r *Runner) configure(cfg *shared.Config) {
	r.config = cfg

	r.api = services.NewAPIService(cfg.API.BaseURL, r.httpClient)
	r.api.SetTimeout(cfg.API.Timeout)
	r.imports = services.NewImportService(r.api, cfg.Trigger.MinInterval)

	loc, err := cfg.Location()
	if err != nil {
		r.logger.Warn("invalid timezone, using local time", "timezone", cfg.Dashboard.Timezone, "error", err)
		loc = time.Local
	}
	r.loc = loc

	if level, err := shared.ParseLogLevel(cfg.Log.Level); err == nil {
		shared.SetLogLevel(r.logger, level)
	}
}

// Before resolves configuration from the config file, the environment and global flags.
func (r *Runner) Before(ctx context.Context, cmd *cli.Command) (context.Context, error) {
	r.configPath = cmd.String("config")

	cfg, err := shared.ResolveConfig(r.configPath)
	if err != nil {
		return ctx, err
	}

	if err := r.applyFlags(cmd, cfg); err != nil {
		return ctx, err
	}

	r.configure(cfg)
	r.logger.Debug("configuration resolved", "config", r.configPath, "api", cfg.API.BaseURL)
	return ctx, nil
}

func (r *Runner) applyFlags(cmd *cli.Command, cfg *shared.Config) error {
	if cmd.IsSet("api-url") {
		r.apiURL = cmd.String("api-url")
	}
	if r.apiURL != "" {
		cfg.API.BaseURL = r.apiURL
	}
	if cmd.IsSet("log-level") {
		cfg.Log.Level = cmd.String("log-level")
	}
	return cfg.Validate()
}

// SetLogger swaps the logger, e.g. to a file while the dashboard owns the terminal.
func (r *Runner) SetLogger(logger *log.Logger) {
	r.logger = logger
}

// openDatabase opens the audit database described by the config, running pending migrations.
func (r *Runner) openDatabase() (*sql.DB, error) {
	db, err := shared.OpenDatabase(r.config.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to open database %s: %w", r.config.Database.Path, err)
	}
	return db, nil
}

// recorder opens the audit database unless recording is disabled. The returned close func is never nil.
func (r *Runner) recorder(enabled bool) (*repositories.Recorder, func(), error) {
	if !enabled || r.config.Database.Path == "" {
		return nil, func() {}, nil
	}

	db, err := r.openDatabase()
	if err != nil {
		return nil, func() {}, err
	}
	return repositories.NewRecorder(db), func() { db.Close() }, nil
}

// poller builds a poller against the import API. A nil rec disables recording.
func (r *Runner) poller(rec *repositories.Recorder, interval time.Duration) *tasks.Poller {
	if rec == nil {
		return tasks.NewPoller(r.imports, nil, r.logger, interval)
	}
	return tasks.NewPoller(r.imports, rec, r.logger, interval)
}

func (r *Runner) writeJSON(data any, pretty bool) error {
	var output []byte
	var err error

	if pretty {
		output, err = json.MarshalIndent(data, "", "  ")
	} else {
		output, err = json.Marshal(data)
	}

	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}

	if _, err := r.output.Write(output); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}

	if _, err := r.output.Write([]byte("\n")); err != nil {
		return fmt.Errorf("failed to write newline: %w", err)
	}

	return nil
}

func (r *Runner) writePlain(format string, args ...any) error {
	text := fmt.Sprintf(format, args...)
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func (r *Runner) writePlainHeader(title string) {
	r.writePlain("═══════════════════════════════════════\n")
	r.writePlain("%v\n", title)
	r.writePlain("═══════════════════════════════════════\n")
}
