// Package views provides the individual views for the textlens TUI.
package views

import (
	"context"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/f3rmion/textlens/internal/analysis"
	"github.com/f3rmion/textlens/internal/api"
)

// Styles shared by the views
var (
	subtitleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#4ecdc4")).
			Bold(true)

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#ff6b6b")).
			Bold(true)

	loadingStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#ffe66d")).
			Bold(true).
			Italic(true)

	copiedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#a8e6cf")).
			Bold(true)

	boxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#3d5a80")).
			Padding(0, 1)

	focusedBoxStyle = boxStyle.
			BorderForeground(lipgloss.Color("#ffe66d"))
)

// Analyzer submits text for analysis.
type Analyzer interface {
	Analyze(ctx context.Context, text string) (*analysis.AnalysisResult, error)
}

// AnalyzeDoneMsg carries the outcome of a submission.
type AnalyzeDoneMsg struct {
	Result *analysis.AnalysisResult
	Err    error
}

// PrependEntryMsg asks the owner of the history to put Entry first.
type PrependEntryMsg struct {
	Entry analysis.AnalysisResult
}

// InputModel is the text submission view model.
type InputModel struct {
	textarea textarea.Model
	spinner  spinner.Model
	analyzer Analyzer

	busy    bool
	err     string
	focused bool

	width int
}

// NewInputModel creates a new input view model.
func NewInputModel(analyzer Analyzer) InputModel {
	ta := textarea.New()
	ta.Placeholder = "Enter text to analyze..."
	ta.ShowLineNumbers = false
	ta.CharLimit = 0
	ta.MaxHeight = 0
	ta.SetHeight(3)
	ta.SetWidth(60)
	ta.Focus()

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("#ffe66d"))

	return InputModel{
		textarea: ta,
		spinner:  sp,
		analyzer: analyzer,
		focused:  true,
	}
}

// Init starts the cursor blinking.
func (m InputModel) Init() tea.Cmd {
	return textarea.Blink
}

// SetSize updates the view dimensions.
func (m *InputModel) SetSize(width, height int) {
	m.width = width
	w := width - 4
	if w < 20 {
		w = 20
	}
	m.textarea.SetWidth(w)
}

// Focus gives the view keyboard focus.
func (m *InputModel) Focus() tea.Cmd {
	m.focused = true
	if m.busy {
		return nil
	}
	return m.textarea.Focus()
}

// Blur removes keyboard focus.
func (m *InputModel) Blur() {
	m.focused = false
	m.textarea.Blur()
}

// Value returns the pending text.
func (m InputModel) Value() string {
	return m.textarea.Value()
}

// SetValue replaces the pending text.
func (m *InputModel) SetValue(s string) {
	m.textarea.SetValue(s)
}

// LoadText replaces the pending text, e.g. with a file's contents. It is
// ignored while a submission is in flight.
func (m *InputModel) LoadText(text string) {
	if m.busy {
		return
	}
	m.textarea.SetValue(text)
	m.err = ""
}

// SetErr shows msg under the input.
func (m *InputModel) SetErr(msg string) {
	m.err = msg
}

// Busy reports whether a submission is in flight.
func (m InputModel) Busy() bool {
	return m.busy
}

// Err returns the inline error message, if any.
func (m InputModel) Err() string {
	return m.err
}

// Update handles messages.
func (m InputModel) Update(msg tea.Msg) (InputModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		// The control is disabled while a submission is in flight
		if m.busy {
			return m, nil
		}
		if msg.String() == "ctrl+s" {
			return m.submit()
		}

	case AnalyzeDoneMsg:
		return m.finish(msg)

	case spinner.TickMsg:
		if !m.busy {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	if m.busy {
		return m, nil
	}

	var cmd tea.Cmd
	m.textarea, cmd = m.textarea.Update(msg)
	return m, cmd
}

func (m InputModel) submit() (InputModel, tea.Cmd) {
	text := m.textarea.Value()
	if strings.TrimSpace(text) == "" {
		return m, nil
	}

	m.busy = true
	m.err = ""
	m.textarea.Blur()

	analyzer := m.analyzer
	analyze := func() tea.Msg {
		result, err := analyzer.Analyze(context.Background(), text)
		return AnalyzeDoneMsg{Result: result, Err: err}
	}

	return m, tea.Batch(m.spinner.Tick, analyze)
}

func (m InputModel) finish(msg AnalyzeDoneMsg) (InputModel, tea.Cmd) {
	m.busy = false

	var cmds []tea.Cmd
	if m.focused {
		cmds = append(cmds, m.textarea.Focus())
	}

	if msg.Err != nil || msg.Result == nil {
		// Keep the text so the user can retry
		m.err = api.Message(msg.Err, api.MsgAnalyzeFailed)
		return m, tea.Batch(cmds...)
	}

	m.textarea.Reset()
	entry := *msg.Result
	cmds = append(cmds, func() tea.Msg {
		return PrependEntryMsg{Entry: entry}
	})
	return m, tea.Batch(cmds...)
}

// View renders the input view.
func (m InputModel) View() string {
	var b strings.Builder

	b.WriteString(subtitleStyle.Render("Text Analysis"))
	b.WriteString("\n")
	b.WriteString(m.textarea.View())
	b.WriteString("\n")

	switch {
	case m.busy:
		b.WriteString(m.spinner.View())
		b.WriteString(" ")
		b.WriteString(loadingStyle.Render("Analyzing... processing analysis"))
	case m.err != "":
		b.WriteString(errorStyle.Render(m.err))
	case strings.TrimSpace(m.textarea.Value()) == "":
		b.WriteString(helpStyle.Render("Type some text, then ctrl+s to analyze (ctrl+o: open a file)"))
	default:
		b.WriteString(helpStyle.Render("ctrl+s: analyze"))
	}

	style := boxStyle
	if m.focused {
		style = focusedBoxStyle
	}
	if m.width > 0 {
		style = style.Width(m.width - 2)
	}
	return style.Render(b.String())
}
