package tui

import (
	"log/slog"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/f3rmion/textlens/internal/analysis"
	"github.com/f3rmion/textlens/internal/config"
	"github.com/f3rmion/textlens/internal/series"
	"github.com/f3rmion/textlens/internal/tui/views"
)

// Service is the analysis backend the TUI talks to.
type Service interface {
	views.Analyzer
	views.HistoryFetcher
}

// Pane identifies which view has keyboard focus.
type Pane int

const (
	PaneInput Pane = iota
	PaneResults
)

// AppModel is the root TUI model. It owns the analysis history and hands
// it to the results view; the input view only asks for entries to be added.
type AppModel struct {
	history analysis.History
	logger  *slog.Logger
	service string

	// Layout state
	width  int
	height int
	ready  bool

	focus    Pane
	showHelp bool

	// File picker replaces the input box while open
	picking bool
	pickDir string
	picker  views.FilePickerModel

	// Sub-models (views)
	input   views.InputModel
	results views.ResultsModel
}

// NewApp creates the TUI application.
func NewApp(svc Service, cfg *config.Config, logger *slog.Logger) AppModel {
	if cfg == nil {
		cfg = config.Default()
	}
	if logger == nil {
		logger = slog.Default()
	}

	mode, err := series.ParseLineMode(cfg.UI.EmotionLines)
	if err != nil {
		logger.Warn("falling back to first-record emotion lines", "error", err)
		mode = series.LinesFirst
	}

	return AppModel{
		logger:  logger,
		service: cfg.API.URL,
		focus:   PaneInput,
		input:   views.NewInputModel(svc),
		results: views.NewResultsModel(svc, mode, cfg.UI.ChartHeight),
	}
}

// History returns the current history, newest first.
func (m AppModel) History() analysis.History {
	return m.history
}

// ReplaceHistory swaps in a freshly fetched history.
func (m *AppModel) ReplaceHistory(entries []analysis.AnalysisResult) {
	m.history.Replace(entries)
	m.results.SetHistory(m.history.Entries())
	m.logger.Debug("history replaced", "entries", m.history.Len())
}

// PrependEntry adds a new analysis at the top of the history.
func (m *AppModel) PrependEntry(entry analysis.AnalysisResult) {
	m.history.Prepend(entry)
	m.results.SetHistory(m.history.Entries())
	m.logger.Debug("history prepended", "id", entry.ID, "entries", m.history.Len())
}

// Init starts the cursor and the first history fetch.
func (m AppModel) Init() tea.Cmd {
	return tea.Batch(m.input.Init(), m.results.Init())
}

// Update handles messages
func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		// Help overlay - any key closes it
		if m.showHelp {
			m.showHelp = false
			return m, nil
		}

		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}

		if m.picking {
			var cmd tea.Cmd
			m.picker, cmd = m.picker.Update(msg)
			return m, cmd
		}

		if k := msg.String(); k == "tab" || k == "shift+tab" {
			return m, m.toggleFocus()
		}

		if m.focus == PaneResults {
			switch msg.String() {
			case "q", "esc":
				return m, tea.Quit
			case "?":
				m.showHelp = true
				return m, nil
			}
			var cmd tea.Cmd
			m.results, cmd = m.results.Update(msg)
			return m, cmd
		}

		switch msg.String() {
		case "esc":
			return m, m.toggleFocus()
		case "ctrl+o":
			if !m.input.Busy() {
				m.openPicker()
			}
			return m, nil
		}
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true

		contentWidth := m.width - 2
		// title, input box and footer
		inputHeight := 9
		m.input.SetSize(contentWidth, inputHeight)
		m.results.SetSize(contentWidth, m.height-inputHeight-3)
		m.picker.SetSize(contentWidth, m.height/2)
		return m, nil

	case views.FileSelectedMsg:
		m.picking = false
		m.pickDir = m.picker.Dir()
		return m, views.LoadTextFile(msg.Path)

	case views.FilePickerCancelledMsg:
		m.picking = false
		m.pickDir = m.picker.Dir()
		return m, nil

	case views.TextFileLoadedMsg:
		if msg.Err != nil {
			m.logger.Info("opening text file failed", "path", msg.Path, "error", msg.Err)
			m.input.SetErr("Could not open file: " + msg.Err.Error())
			return m, nil
		}
		m.logger.Debug("text file loaded", "path", msg.Path, "bytes", len(msg.Text))
		m.input.LoadText(msg.Text)
		return m, nil

	case views.PrependEntryMsg:
		m.PrependEntry(msg.Entry)
		return m, nil

	case views.ReplaceHistoryMsg:
		m.ReplaceHistory(msg.Entries)
		return m, nil

	case views.AnalyzeDoneMsg:
		if msg.Err != nil {
			m.logger.Info("analysis failed", "error", msg.Err)
		}

	case views.HistoryFetchedMsg:
		if msg.Err != nil {
			m.logger.Info("history fetch failed", "error", msg.Err)
		}
	}

	// Everything else goes to both views; each ignores what isn't its own
	var cmds []tea.Cmd
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	cmds = append(cmds, cmd)
	m.results, cmd = m.results.Update(msg)
	cmds = append(cmds, cmd)

	return m, tea.Batch(cmds...)
}

func (m *AppModel) openPicker() {
	m.picker = views.NewFilePickerModel(m.pickDir, views.TextExtensions)
	m.picker.SetSize(m.width-2, m.height/2)
	m.picking = true
}

func (m *AppModel) toggleFocus() tea.Cmd {
	if m.focus == PaneInput {
		m.focus = PaneResults
		m.input.Blur()
		m.results.Focus()
		return nil
	}
	m.focus = PaneInput
	m.results.Blur()
	return m.input.Focus()
}

// View renders the UI
func (m AppModel) View() string {
	if !m.ready {
		return "Loading..."
	}

	if m.showHelp {
		return m.renderHelp()
	}

	header := lipgloss.JoinHorizontal(lipgloss.Center,
		TitleStyle.Render("textlens"),
		StatusStyle.Render("service: "+m.service),
	)

	top := m.input.View()
	if m.picking {
		top = m.picker.View()
	}

	content := lipgloss.JoinVertical(lipgloss.Left,
		header,
		top,
		m.results.View(),
		m.renderFooter(),
	)

	return ContentStyle.Width(m.width).Render(content)
}

func (m AppModel) renderFooter() string {
	type binding struct{ key, desc string }

	var keys []binding
	switch {
	case m.picking:
		keys = []binding{{"↑/↓", "select"}, {"enter", "open"}, {"esc", "cancel"}}
	case m.focus == PaneInput:
		keys = []binding{{"ctrl+s", "analyze"}, {"ctrl+o", "open file"}, {"tab", "history"}, {"ctrl+c", "quit"}}
	default:
		keys = []binding{{"↑/↓", "select"}, {"r", "reload"}}
		if m.results.CanCopy() {
			keys = append(keys, binding{"y", "copy text"})
		}
		keys = append(keys, binding{"tab", "input"}, binding{"?", "help"}, binding{"q", "quit"})
	}

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, HelpKeyStyle.Render(k.key)+" "+HelpDescStyle.Render(k.desc))
	}
	return strings.Join(parts, HelpSepStyle.Render(" • "))
}

// renderHelp renders the help overlay with the metric explanations
func (m AppModel) renderHelp() string {
	var b strings.Builder

	b.WriteString(OverlayTitleStyle.Render("textlens - Text Analysis"))
	b.WriteString("\n\n")

	b.WriteString(OverlaySectionStyle.Render("Hallucination Detection"))
	b.WriteString("\n")
	b.WriteString(OverlayDescStyle.Render("How well the text is grounded and supported by evidence,"))
	b.WriteString("\n")
	b.WriteString(OverlayDescStyle.Render("from 0 (completely unsupported) to 1 (fully supported)."))
	b.WriteString("\n")
	b.WriteString(BandHighStyle.Render("  0.8 - 1.0") + OverlayDescStyle.Render("  high reliability, well supported by context"))
	b.WriteString("\n")
	b.WriteString(BandModerateStyle.Render("  0.5 - 0.7") + OverlayDescStyle.Render("  moderate, partial support or embellishment"))
	b.WriteString("\n")
	b.WriteString(BandLowStyle.Render("  0.0 - 0.5") + OverlayDescStyle.Render("  low, potential hallucinations"))
	b.WriteString("\n")

	b.WriteString(OverlaySectionStyle.Render("Emotion Analysis"))
	b.WriteString("\n")
	b.WriteString(OverlayDescStyle.Render("The top emotions detected in the text, as percentages."))
	b.WriteString("\n")
	b.WriteString(OverlayDescStyle.Render("Higher means a stronger signal; several may be present."))
	b.WriteString("\n")

	b.WriteString(OverlaySectionStyle.Render("Keys"))
	b.WriteString("\n")
	rows := [][2]string{
		{"ctrl+s", "Analyze the text in the input box"},
		{"ctrl+o", "Load a text file into the input box"},
		{"tab / esc", "Switch between input and history"},
		{"↑/↓", "Select a history row"},
		{"r", "Reload history"},
		{"y", "Copy the selected row's text"},
		{"q", "Quit (history focused)"},
	}
	for _, r := range rows {
		b.WriteString(OverlayKeyStyle.Render(r[0]) + OverlayDescStyle.Render(r[1]))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(HelpDescStyle.Italic(true).Render("Press any key to close"))

	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, OverlayBoxStyle.Render(b.String()))
}
