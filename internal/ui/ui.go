package ui

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/desertthunder/importdash/internal/models"
	"github.com/desertthunder/importdash/internal/services"
	"github.com/desertthunder/importdash/internal/shared"
)

const (
	DefaultRefreshInterval     = 10 * time.Second
	DefaultTriggerRefreshDelay = time.Second
)

// Options configures a dashboard [Model]. Zero values fall back to defaults: a discarding logger,
// [DefaultRefreshInterval], [DefaultTriggerRefreshDelay] and the local zone.
type Options struct {
	Logger              *log.Logger
	RefreshInterval     time.Duration
	TriggerRefreshDelay time.Duration
	Location            *time.Location
}

// notice is a blocking message shown after a manual trigger settles.
type notice struct {
	message string
	failed  bool
}

// Model represents the dashboard state.
//
// All fields are owned by the bubbletea event loop; commands only read the
// client and context, and report back through messages.
type Model struct {
	ctx    context.Context
	cancel context.CancelFunc
	client services.ImportClient
	logger *log.Logger

	refreshInterval time.Duration
	refreshDelay    time.Duration
	loc             *time.Location

	logs       []models.ImportLogEntry
	stats      models.QueueStats
	loading    bool
	err        string
	triggering bool
	notice     *notice

	logsIssued   uint64
	logsApplied  uint64
	statsIssued  uint64
	statsApplied uint64

	width   int
	spinner spinner.Model
	help    help.Model
	keys    keyMap
}

// NewModel creates a dashboard bound to ctx. Cancelling ctx or calling [Model.Close] stops polling.
func NewModel(ctx context.Context, client services.ImportClient, opts Options) *Model {
	ctx, cancel := context.WithCancel(ctx)

	if opts.Logger == nil {
		opts.Logger = log.New(io.Discard)
	}
	if opts.RefreshInterval <= 0 {
		opts.RefreshInterval = DefaultRefreshInterval
	}
	if opts.TriggerRefreshDelay <= 0 {
		opts.TriggerRefreshDelay = DefaultTriggerRefreshDelay
	}
	if opts.Location == nil {
		opts.Location = time.Local
	}

	return &Model{
		ctx:             ctx,
		cancel:          cancel,
		client:          client,
		logger:          opts.Logger,
		refreshInterval: opts.RefreshInterval,
		refreshDelay:    opts.TriggerRefreshDelay,
		loc:             opts.Location,
		logs:            []models.ImportLogEntry{},
		loading:         true,
		spinner:         spinner.New(spinner.WithSpinner(spinner.Dot), spinner.WithStyle(styles.info)),
		help:            help.New(),
		keys:            newKeyMap(),
	}
}

// Init fetches logs and stats, starts the spinner and arms the refresh timer.
func (m *Model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.fetchAll(), m.scheduleTick())
}

// Close tears down the view. Pending timers stop re-arming and in-flight requests are abandoned.
func (m *Model) Close() {
	m.cancel()
}

// Closed reports whether the view has been torn down.
func (m *Model) Closed() bool {
	return m.ctx.Err() != nil
}

// Update handles incoming messages and updates the model state.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.help.Width = msg.Width
		return m, nil

	case tea.KeyMsg:
		return m.handleKeys(msg)

	case spinner.TickMsg:
		if !m.loading {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case Msg:
		return m.handleMsg(msg)
	}

	return m, nil
}

func (m *Model) handleMsg(msg Msg) (tea.Model, tea.Cmd) {
	switch msg.kind {
	case MsgLogsFetched:
		m.applyLogs(msg.data.(logsResult))
		return m, nil

	case MsgStatsFetched:
		m.applyStats(msg.data.(statsResult))
		return m, nil

	case MsgTriggerDone:
		return m, m.settleTrigger(msg.data.(triggerResult))

	case MsgTick:
		if m.Closed() {
			return m, nil
		}
		return m, tea.Batch(m.fetchAll(), m.scheduleTick())

	case MsgRefresh:
		if m.Closed() {
			return m, nil
		}
		return m, m.fetchAll()

	case MsgConfigReloaded:
		cfg, ok := msg.data.(*shared.Config)
		if !ok || cfg == nil || m.Closed() {
			return m, nil
		}
		m.SetConfig(cfg)
		return m, m.fetchAll()
	}

	return m, nil
}

func (m *Model) handleKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.quit) {
		m.Close()
		return m, tea.Quit
	}

	if m.notice != nil {
		if key.Matches(msg, m.keys.dismiss) {
			m.notice = nil
		}
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.trigger):
		return m, m.startTrigger()
	case key.Matches(msg, m.keys.refresh):
		return m, m.fetchAll()
	}
	return m, nil
}

// SetConfig applies reloaded settings. The base URL is forwarded to clients that can change it.
func (m *Model) SetConfig(cfg *shared.Config) {
	if setter, ok := m.client.(interface{ SetBaseURL(string) }); ok && cfg.API.BaseURL != "" {
		setter.SetBaseURL(cfg.API.BaseURL)
	}
	if cfg.Dashboard.RefreshInterval > 0 {
		m.refreshInterval = cfg.Dashboard.RefreshInterval
	}
	if cfg.Dashboard.TriggerRefreshDelay > 0 {
		m.refreshDelay = cfg.Dashboard.TriggerRefreshDelay
	}
	if loc, err := cfg.Location(); err == nil {
		m.loc = loc
	} else {
		m.logger.Warn("ignoring invalid timezone", "timezone", cfg.Dashboard.Timezone, "error", err)
	}
	m.logger.Info("configuration applied", "api", m.client.BaseURL(), "refresh", m.refreshInterval)
}

func (m *Model) applyLogs(r logsResult) {
	if r.seq <= m.logsApplied {
		m.logger.Debug("discarding stale logs response", "seq", r.seq, "applied", m.logsApplied)
		return
	}
	m.logsApplied = r.seq
	m.loading = false

	if r.err != nil {
		m.err = r.err.Error()
		m.logger.Error("failed to fetch import logs", "error", r.err)
		return
	}

	if r.entries == nil {
		r.entries = []models.ImportLogEntry{}
	}
	m.logs = r.entries
	m.err = ""
}

func (m *Model) applyStats(r statsResult) {
	if r.seq <= m.statsApplied {
		m.logger.Debug("discarding stale stats response", "seq", r.seq, "applied", m.statsApplied)
		return
	}
	m.statsApplied = r.seq

	switch {
	case r.err != nil:
		m.logger.Error("failed to fetch queue stats", "error", r.err)
	case r.resp == nil || !r.resp.Success:
		m.logger.Warn("queue stats unavailable, keeping previous snapshot")
	default:
		m.stats = r.resp.Stats
	}
}

func (m *Model) startTrigger() tea.Cmd {
	if m.triggering {
		return nil
	}
	m.triggering = true
	m.err = ""

	return func() tea.Msg {
		resp, err := m.client.TriggerImport(m.ctx)
		if m.ctx.Err() != nil {
			return nil
		}
		return triggerDoneMsg(resp, err)
	}
}

func (m *Model) settleTrigger(r triggerResult) tea.Cmd {
	if !m.triggering {
		return nil
	}
	m.triggering = false

	if r.err != nil {
		m.err = r.err.Error()
		m.notice = &notice{message: "Error triggering import: " + r.err.Error(), failed: true}
		if errors.Is(r.err, shared.ErrRateLimited) {
			m.logger.Warn("manual trigger rejected", "error", r.err)
		} else {
			m.logger.Error("failed to trigger import", "error", r.err)
		}
		return nil
	}

	message := "Import triggered successfully!"
	if r.resp != nil && r.resp.Message != "" {
		message += " " + r.resp.Message
	}
	m.notice = &notice{message: message}
	m.logger.Info("import triggered", "api", m.client.BaseURL())

	return tea.Tick(m.refreshDelay, func(time.Time) tea.Msg { return refreshMsg() })
}

func (m *Model) fetchAll() tea.Cmd {
	return tea.Batch(m.fetchLogs(), m.fetchStats())
}

func (m *Model) fetchLogs() tea.Cmd {
	m.logsIssued++
	seq := m.logsIssued
	m.err = ""

	return func() tea.Msg {
		entries, err := m.client.FetchLogs(m.ctx)
		if m.ctx.Err() != nil {
			return nil
		}
		return logsFetchedMsg(seq, entries, err)
	}
}

func (m *Model) fetchStats() tea.Cmd {
	m.statsIssued++
	seq := m.statsIssued

	return func() tea.Msg {
		resp, err := m.client.FetchQueueStats(m.ctx)
		if m.ctx.Err() != nil {
			return nil
		}
		return statsFetchedMsg(seq, resp, err)
	}
}

func (m *Model) scheduleTick() tea.Cmd {
	return tea.Tick(m.refreshInterval, func(time.Time) tea.Msg { return tickMsg() })
}

// View renders the dashboard.
func (m *Model) View() string {
	var b strings.Builder

	b.WriteString(styles.title.Render("Job Import History"))
	b.WriteString("\n")
	b.WriteString(RenderCounters(m.stats))
	b.WriteString("\n\n")

	if m.err != "" {
		b.WriteString(styles.banner.Render(fmt.Sprintf("Error: %s\nAPI: %s", m.err, m.client.BaseURL())))
		b.WriteString("\n\n")
	}

	switch {
	case m.loading:
		b.WriteString(m.spinner.View() + " Loading import logs...")
	case len(m.logs) == 0:
		b.WriteString(styles.help.Render("No imports yet. Press t to trigger an import."))
	default:
		b.WriteString(RenderLogTable(m.logs, m.loc))
	}
	b.WriteString("\n\n")

	if m.triggering {
		b.WriteString(styles.warn.Render("Triggering import..."))
		b.WriteString("\n\n")
	}

	if m.notice != nil {
		style := styles.notice
		if m.notice.failed {
			style = style.BorderForeground(styles.err.GetForeground())
		}
		b.WriteString(style.Render(m.notice.message + "\n\n" + styles.help.Render("enter/esc to dismiss")))
		b.WriteString("\n\n")
		b.WriteString(m.help.ShortHelpView([]key.Binding{m.keys.dismiss, m.keys.quit}))
		return b.String()
	}

	b.WriteString(m.help.ShortHelpView(m.keys.ShortHelp()))
	return b.String()
}

// Loading reports whether the first log fetch is still pending.
func (m *Model) Loading() bool { return m.loading }

// Err returns the banner message, empty when there is none.
func (m *Model) Err() string { return m.err }

// Triggering reports whether a manual trigger is in flight.
func (m *Model) Triggering() bool { return m.triggering }

// Logs returns the entries currently displayed.
func (m *Model) Logs() []models.ImportLogEntry { return m.logs }

// Stats returns the displayed queue snapshot.
func (m *Model) Stats() models.QueueStats { return m.stats }

// Notice returns the blocking notice text, empty when none is shown.
func (m *Model) Notice() string {
	if m.notice == nil {
		return ""
	}
	return m.notice.message
}
