// Package app wires the session controller, persistence, and the screen
// sequence into the root Bubble Tea program.
package app

import (
	"context"
	"fmt"
	"os"
	"strconv"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	"go.uber.org/zap"

	"bloomlab/internal/catalog"
	"bloomlab/internal/config"
	"bloomlab/internal/eventlog"
	"bloomlab/internal/feedback"
	"bloomlab/internal/llm"
	"bloomlab/internal/marker"
	"bloomlab/internal/router"
	"bloomlab/internal/screen"
	"bloomlab/internal/screens/baseline"
	"bloomlab/internal/screens/briefing"
	"bloomlab/internal/screens/done"
	"bloomlab/internal/screens/pretest"
	"bloomlab/internal/screens/summary"
	"bloomlab/internal/screens/trialrun"
	"bloomlab/internal/screens/welcome"
	"bloomlab/internal/session"
	"bloomlab/internal/store"
	"bloomlab/internal/trial"
	"bloomlab/internal/ui/layout"
)

// AppModel is the root Bubble Tea model.
type AppModel struct {
	cfg     config.Config
	log     *zap.Logger
	catalog *catalog.Catalog

	router *router.Router
	width  int
	height int

	// Built when the participant id is entered.
	store    *store.Store
	runID    string
	markers  *marker.Client
	ctrl     *session.Controller
	exporter *Exporter

	exports []string
	fatal   error
}

func newAppModel(cfg config.Config, log *zap.Logger, cat *catalog.Catalog) AppModel {
	return AppModel{
		cfg:      cfg,
		log:      log,
		catalog:  cat,
		router:   router.New(welcome.New()),
		exporter: NewExporter(cfg.ExportDir, log),
	}
}

func (m AppModel) Init() tea.Cmd {
	return m.router.Active().Init()
}

func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyPressMsg:
		if msg.String() == "ctrl+c" {
			return m.shutdown(nil)
		}

	case welcome.StartMsg:
		return m.startRun(msg.ParticipantID)

	case pretest.DoneMsg:
		if path := m.exporter.Pretest(m.ctrl.ParticipantID(), m.ctrl.Pretest()); path != "" {
			m.exports = append(m.exports, path)
		}
		return m, m.router.Replace(baseline.New(m.ctrl))

	case baseline.DoneMsg:
		return m, m.router.Replace(briefing.New())

	case briefing.DoneMsg:
		if err := m.ctrl.StartPractice(); err != nil {
			return m.shutdown(err)
		}
		return m, m.router.Replace(trialrun.New(m.ctrl))

	case trialrun.PracticeDoneMsg:
		path := m.exporter.Trials("practice_results", m.ctrl.ParticipantID(), m.ctrl.PracticeRecords())
		if path != "" {
			m.exports = append(m.exports, path)
		}
		mainTrials := len(m.catalog.PassagesFor(catalog.PoolMain))
		return m, m.router.Replace(summary.New(mainTrials, path))

	case summary.StartMainMsg:
		if err := m.ctrl.StartMain(); err != nil {
			return m.shutdown(err)
		}
		return m, m.router.Replace(trialrun.New(m.ctrl))

	case trialrun.ExportPartialMsg:
		if path := m.exporter.Trials("partial_results", m.ctrl.ParticipantID(), m.ctrl.MainRecords()); path != "" {
			m.exports = append(m.exports, path)
			m.log.Info("partial results exported", zap.String("path", path))
		}
		return m, nil

	case trialrun.MainDoneMsg:
		return m.finishRun()
	}

	cmd := m.router.Update(msg)
	return m, cmd
}

// startRun builds the per-run dependency chain: store, event log, marker
// channel, feedback generator, and the session controller.
func (m AppModel) startRun(participantID string) (tea.Model, tea.Cmd) {
	st, err := store.Open(m.cfg.DBPath)
	if err != nil {
		return m.shutdown(fmt.Errorf("open store: %w", err))
	}
	m.store = st

	runID, err := st.CreateRun(participantID)
	if err != nil {
		return m.shutdown(fmt.Errorf("create run: %w", err))
	}
	m.runID = runID

	events := eventlog.NewLogger(store.NewEventSink(st, runID), m.log)

	if m.cfg.MarkerAddr != "" {
		markers, err := marker.Dial(m.cfg.MarkerAddr, m.log)
		if err != nil {
			// The session is more valuable than its markers.
			m.log.Warn("marker channel unavailable", zap.String("addr", m.cfg.MarkerAddr), zap.Error(err))
		} else {
			m.markers = markers
		}
	}

	provider, err := llm.NewProviderFromEnv(context.Background(), &eventRecorder{events: events})
	if err != nil {
		return m.shutdown(fmt.Errorf("configure provider: %w", err))
	}
	gen := feedback.NewService(provider, feedback.DefaultConfig(), m.log)

	ctrl := session.NewController(session.Config{
		ParticipantID: participantID,
		BaselineDwell: m.cfg.BaselineDwell,
	}, m.catalog, gen, events, m.markers, m.log)
	ctrl.TrialSink = func(r trial.Record) error {
		return st.AppendTrial(runID, r)
	}
	m.ctrl = ctrl

	m.log.Info("run started",
		zap.String("run_id", runID),
		zap.String("participant_id", participantID))

	return m, m.router.Replace(pretest.New(ctrl))
}

// finishRun exports the final artifacts and shows the completion screen.
func (m AppModel) finishRun() (tea.Model, tea.Cmd) {
	pid := m.ctrl.ParticipantID()
	if path := m.exporter.Trials("final_results", pid, m.ctrl.MainRecords()); path != "" {
		m.exports = append(m.exports, path)
	}
	m.ctrl.Flush()
	if path := m.exporter.Events(pid, m.ctrl.Events()); path != "" {
		m.exports = append(m.exports, path)
	}
	if err := m.store.CompleteRun(m.runID); err != nil {
		m.log.Error("run completion stamp failed", zap.Error(err))
	}

	// The run is over; release its resources before the farewell screen.
	m.markers.Close()
	m.markers = nil
	if err := m.store.Close(); err != nil {
		m.log.Error("store close failed", zap.Error(err))
	}
	m.store = nil

	m.log.Info("run completed", zap.String("run_id", m.runID))
	return m, m.router.Replace(done.New(m.exports))
}

// shutdown flushes and closes everything, then quits. A non-nil err is
// surfaced after the program exits.
func (m AppModel) shutdown(err error) (tea.Model, tea.Cmd) {
	if err != nil {
		m.fatal = err
		m.log.Error("session aborted", zap.Error(err))
	}
	if m.ctrl != nil {
		m.ctrl.Flush()
	}
	m.markers.Close()
	if m.store != nil {
		if cerr := m.store.Close(); cerr != nil {
			m.log.Error("store close failed", zap.Error(cerr))
		}
	}
	return m, tea.Quit
}

func (m AppModel) View() tea.View {
	v := tea.NewView("")
	v.AltScreen = true

	if m.width == 0 || m.height == 0 {
		return v
	}
	if layout.IsTooSmall(m.width, m.height) {
		v.SetContent(layout.RenderMinSizeMessage(m.width, m.height))
		return v
	}

	active := m.router.Active()
	title := ""
	if active != nil {
		title = active.Title()
	}

	participant := ""
	progress := ""
	if m.ctrl != nil {
		participant = m.ctrl.ParticipantID()
		switch m.ctrl.Phase() {
		case session.PhasePractice, session.PhaseMain:
			progress = strconv.Itoa(m.ctrl.Ordinal()+1) + "/" + strconv.Itoa(m.ctrl.TrialCount())
		}
	}
	header := layout.RenderHeader(title, participant, progress, m.width)

	hints := []layout.KeyHint{{Key: "Ctrl+C", Description: "Quit"}}
	if provider, ok := active.(screen.KeyHintProvider); ok {
		hints = provider.KeyHints()
	}
	footer := layout.RenderFooter(hints, m.width)

	headerHeight := lipgloss.Height(header)
	footerHeight := lipgloss.Height(footer)
	contentHeight := m.height - headerHeight - footerHeight
	if contentHeight < 0 {
		contentHeight = 0
	}

	content := m.router.View(m.width, contentHeight)
	v.SetContent(layout.RenderFrame(header, content, footer, m.width, m.height))
	return v
}

// eventRecorder funnels provider call records into the run's event stream.
type eventRecorder struct {
	events *eventlog.Logger
}

func (r *eventRecorder) RecordLLMRequest(rec llm.RequestRecord) {
	r.events.Log(eventlog.Entry{
		Label: "llm_request",
		Payload: map[string]string{
			"model":      rec.Model,
			"purpose":    rec.Purpose,
			"latency_ms": strconv.FormatInt(rec.LatencyMs, 10),
			"success":    strconv.FormatBool(rec.Success),
			"tokens_in":  strconv.Itoa(rec.InputTokens),
			"tokens_out": strconv.Itoa(rec.OutputTokens),
		},
	})
}

// Run loads the passage catalog and starts the Bubble Tea program.
func Run(cfg config.Config, log *zap.Logger) error {
	cat, err := catalog.Load()
	if err != nil {
		return fmt.Errorf("load passage catalog: %w", err)
	}

	model := newAppModel(cfg, log, cat)
	p := tea.NewProgram(model)
	final, err := p.Run()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error running program:", err)
		return err
	}
	if m, ok := final.(AppModel); ok && m.fatal != nil {
		return m.fatal
	}
	return nil
}
