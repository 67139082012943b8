package output

import (
	"io"
	"strings"

	"github.com/f3rmion/textlens/internal/analysis"
	"github.com/f3rmion/textlens/internal/series"
	"github.com/mattn/go-runewidth"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
)

// Table provides table rendering utilities
type Table struct {
	table  *tablewriter.Table
	header []string
	rows   [][]string
	quiet  bool
}

// NewTable creates a new table writing to w
func NewTable(w io.Writer, headers []string) *Table {
	table := tablewriter.NewTable(w,
		tablewriter.WithConfig(tablewriter.Config{
			Row: tw.CellConfig{
				Formatting: tw.CellFormatting{
					AutoWrap: tw.WrapNone,
				},
				Alignment: tw.CellAlignment{
					Global: tw.AlignLeft,
				},
			},
			Header: tw.CellConfig{
				Formatting: tw.CellFormatting{
					AutoFormat: tw.Off,
				},
				Alignment: tw.CellAlignment{
					Global: tw.AlignLeft,
				},
			},
		}),
		tablewriter.WithRendition(tw.Rendition{
			Borders: tw.BorderNone,
			Settings: tw.Settings{
				Separators: tw.Separators{
					ShowHeader: tw.Off,
				},
			},
		}),
	)

	return &Table{table: table, header: headers}
}

// NewQuietTable creates a table that suppresses output when quiet is true
func NewQuietTable(w io.Writer, headers []string, quiet bool) *Table {
	t := NewTable(w, headers)
	t.quiet = quiet
	return t
}

// AddRow adds a row to the table
func (t *Table) AddRow(row []string) {
	t.rows = append(t.rows, row)
}

// AddRows adds multiple rows to the table
func (t *Table) AddRows(rows [][]string) {
	t.rows = append(t.rows, rows...)
}

// Render outputs the table
func (t *Table) Render() error {
	if t.quiet {
		return nil
	}
	t.table.Header(t.header)
	if err := t.table.Bulk(t.rows); err != nil {
		return err
	}
	return t.table.Render()
}

// TruncateText flattens s to one line and cuts it to width terminal cells.
// Wide characters count as two cells.
func TruncateText(s string, width int) string {
	s = strings.Join(strings.Fields(s), " ")
	if width <= 0 {
		return s
	}
	return runewidth.Truncate(s, width, "…")
}

// HistoryRows formats history as table rows, newest first, with the text
// column cut to textWidth cells.
func HistoryRows(history []analysis.AnalysisResult, textWidth int) [][]string {
	rows := series.Rows(history)
	out := make([][]string, len(rows))
	for i, r := range rows {
		r.Text = TruncateText(r.Text, textWidth)
		out[i] = r.Cells(", ")
	}
	return out
}
