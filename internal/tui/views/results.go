package views

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/f3rmion/textlens/internal/analysis"
	"github.com/f3rmion/textlens/internal/api"
	"github.com/f3rmion/textlens/internal/clipboard"
	"github.com/f3rmion/textlens/internal/series"
)

// Results view styles
var (
	chartBoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#3d5a80")).
			Padding(0, 1)

	placeholderStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#666666")).
				Italic(true).
				Align(lipgloss.Center)
)

// HistoryFetcher loads the full analysis history.
type HistoryFetcher interface {
	FetchHistory(ctx context.Context) ([]analysis.AnalysisResult, error)
}

// HistoryFetchedMsg carries the outcome of a history fetch.
type HistoryFetchedMsg struct {
	Results []analysis.AnalysisResult
	Err     error
}

// ReplaceHistoryMsg asks the owner of the history to replace it.
type ReplaceHistoryMsg struct {
	Entries []analysis.AnalysisResult
}

type clearCopiedMsg struct{}

func clearCopiedAfter(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(time.Time) tea.Msg {
		return clearCopiedMsg{}
	})
}

// ResultsModel renders the history as charts and a table. It does not own
// the history; the parent passes it in with SetHistory.
type ResultsModel struct {
	fetcher HistoryFetcher
	history []analysis.AnalysisResult

	// Fetch lifecycle, independent of the history itself
	loading bool
	err     string

	table       table.Model
	lineMode    series.LineMode
	chartHeight int
	focused     bool

	copyText func(string) error
	copied   bool

	width  int
	height int
}

// NewResultsModel creates a results view. It starts in the loading state;
// Init issues the first fetch.
func NewResultsModel(fetcher HistoryFetcher, mode series.LineMode, chartHeight int) ResultsModel {
	if chartHeight <= 0 {
		chartHeight = 10
	}

	t := table.New(
		table.WithColumns(historyColumns(80)),
		table.WithHeight(6),
	)
	styles := table.DefaultStyles()
	styles.Header = styles.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("#3d5a80")).
		BorderBottom(true).
		Foreground(lipgloss.Color("#a8dadc")).
		Bold(true)
	styles.Selected = styles.Selected.
		Foreground(lipgloss.Color("#ffe66d")).
		Background(lipgloss.Color("#2d3436")).
		Bold(false)
	t.SetStyles(styles)

	return ResultsModel{
		fetcher:     fetcher,
		loading:     true,
		table:       t,
		lineMode:    mode,
		chartHeight: chartHeight,
		copyText:    clipboardWriter(),
	}
}

// clipboardWriter returns nil when the system has no clipboard command, which
// hides the copy key.
func clipboardWriter() func(string) error {
	if !clipboard.Available() {
		return nil
	}
	return clipboard.Write
}

// historyColumns sizes the table columns for the given width. Text gets
// whatever the fixed columns leave.
func historyColumns(width int) []table.Column {
	const (
		idxW   = 4
		timeW  = 19
		scoreW = 13
		emoW   = 36
	)
	textW := width - idxW - timeW - scoreW - emoW - 10
	if textW < 12 {
		textW = 12
	}
	return []table.Column{
		{Title: series.ShortHeaders[0], Width: idxW},
		{Title: series.ShortHeaders[1], Width: timeW},
		{Title: series.ShortHeaders[2], Width: textW},
		{Title: series.ShortHeaders[3], Width: scoreW},
		{Title: series.ShortHeaders[4], Width: emoW},
	}
}

// Init fetches the history once.
func (m ResultsModel) Init() tea.Cmd {
	return m.fetch()
}

func (m ResultsModel) fetch() tea.Cmd {
	fetcher := m.fetcher
	return func() tea.Msg {
		results, err := fetcher.FetchHistory(context.Background())
		return HistoryFetchedMsg{Results: results, Err: err}
	}
}

// SetHistory sets the records to display.
func (m *ResultsModel) SetHistory(history []analysis.AnalysisResult) {
	m.history = history

	rows := make([]table.Row, 0, len(history))
	for _, r := range series.Rows(history) {
		rows = append(rows, table.Row(r.Cells(", ")))
	}
	m.table.SetRows(rows)
	if m.table.Cursor() >= len(rows) {
		m.table.SetCursor(0)
	}
}

// SetClipboard replaces the function used to copy text. nil disables copying.
func (m *ResultsModel) SetClipboard(fn func(string) error) {
	m.copyText = fn
}

// CanCopy reports whether the copy key does anything.
func (m ResultsModel) CanCopy() bool {
	return m.copyText != nil
}

// SetSize updates the view dimensions.
func (m *ResultsModel) SetSize(width, height int) {
	m.width = width
	m.height = height

	m.table.SetColumns(historyColumns(width))
	m.table.SetWidth(width - 2)

	// charts, their borders and captions, plus table borders and header
	tableHeight := height - m.chartHeight - 10
	if tableHeight < 3 {
		tableHeight = 3
	}
	m.table.SetHeight(tableHeight)
}

// Focus gives the table keyboard focus.
func (m *ResultsModel) Focus() {
	m.focused = true
	m.table.Focus()
}

// Blur removes keyboard focus.
func (m *ResultsModel) Blur() {
	m.focused = false
	m.table.Blur()
}

// Loading reports whether a fetch is in flight.
func (m ResultsModel) Loading() bool {
	return m.loading
}

// Err returns the history load error, if any.
func (m ResultsModel) Err() string {
	return m.err
}

// Update handles messages.
func (m ResultsModel) Update(msg tea.Msg) (ResultsModel, tea.Cmd) {
	switch msg := msg.(type) {
	case HistoryFetchedMsg:
		m.loading = false
		if msg.Err != nil {
			// Whatever history is already shown stays
			m.err = api.MsgHistoryFailed
			return m, nil
		}
		m.err = ""
		entries := msg.Results
		return m, func() tea.Msg {
			return ReplaceHistoryMsg{Entries: entries}
		}

	case clearCopiedMsg:
		m.copied = false
		return m, nil

	case tea.KeyMsg:
		if !m.focused {
			return m, nil
		}
		switch msg.String() {
		case "r":
			if m.loading {
				return m, nil
			}
			m.loading = true
			return m, m.fetch()
		case "y":
			row := m.table.SelectedRow()
			if row == nil || m.copyText == nil {
				return m, nil
			}
			idx := m.table.Cursor()
			if idx < 0 || idx >= len(m.history) {
				return m, nil
			}
			if err := m.copyText(m.history[idx].Text); err == nil {
				m.copied = true
				return m, clearCopiedAfter(2 * time.Second)
			}
			return m, nil
		}

		var cmd tea.Cmd
		m.table, cmd = m.table.Update(msg)
		return m, cmd
	}

	return m, nil
}

// View renders the results view.
func (m ResultsModel) View() string {
	if m.loading && len(m.history) == 0 {
		card := chartBoxStyle.Render(placeholderStyle.Render("Loading results..."))
		if m.width > 0 {
			return lipgloss.PlaceHorizontal(m.width, lipgloss.Center, card)
		}
		return card
	}

	var b strings.Builder
	b.WriteString(m.renderCharts())
	b.WriteString("\n")
	b.WriteString(m.renderTable())
	return b.String()
}

func (m ResultsModel) renderCharts() string {
	width := m.width
	if width <= 0 {
		width = 80
	}
	half := width/2 - 2
	opts := series.PlotOptions{
		// leave room for the y axis labels and box padding
		Width:  half - 12,
		Height: m.chartHeight,
	}

	halluc := subtitleStyle.Render("Hallucination Scores") + "\n" +
		series.PlotHallucination(m.history, opts)
	emotions := subtitleStyle.Render("Emotion Scores (%)") + "\n" +
		series.PlotEmotions(m.history, m.lineMode, opts)

	left := chartBoxStyle.Width(half).Render(halluc)
	right := chartBoxStyle.Width(half).Render(emotions)
	return lipgloss.JoinHorizontal(lipgloss.Top, left, right)
}

func (m ResultsModel) renderTable() string {
	var b strings.Builder

	header := subtitleStyle.Render("Analysis History")
	if m.loading {
		header += "  " + loadingStyle.Render("refreshing...")
	}
	if m.copied {
		header += "  " + copiedStyle.Render("Copied!")
	}
	b.WriteString(header)
	b.WriteString("\n")

	switch {
	case m.err != "":
		b.WriteString(errorStyle.Render(m.err))
		b.WriteString("\n")
		b.WriteString(helpStyle.Render("tab then r: retry"))
	case len(m.history) == 0:
		b.WriteString(placeholderStyle.Render("No analyses yet"))
	default:
		b.WriteString(m.table.View())
		b.WriteString("\n")
		b.WriteString(helpStyle.Render(fmt.Sprintf("%d analyses", len(m.history))))
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
