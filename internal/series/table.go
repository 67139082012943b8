package series

import (
	"strconv"
	"strings"

	"github.com/f3rmion/textlens/internal/analysis"
)

// Row is one formatted line of the history table.
type Row struct {
	Index         int
	Time          string
	Text          string
	Hallucination string   // e.g. "0.42"
	Emotions      []string // e.g. ["joy: 70.0%", "anger: 10.0%"], highest first
}

// FormatScore formats a hallucination score with 2 decimals, rounded the
// same way as the chart series.
func FormatScore(score float64) string {
	return strconv.FormatFloat(Round(score, 2), 'f', 2, 64)
}

// FormatPercent formats a 0..1 score as a percentage with 1 decimal.
func FormatPercent(score float64) string {
	return strconv.FormatFloat(Round(score*100, 1), 'f', 1, 64) + "%"
}

// FormatEmotions lists emotions by descending score.
func FormatEmotions(e analysis.Emotions) []string {
	sorted := e.SortedByScore()
	out := make([]string, len(sorted))
	for i, s := range sorted {
		out[i] = s.Label + ": " + FormatPercent(s.Score)
	}
	return out
}

// Rows builds the history table in history order.
func Rows(history []analysis.AnalysisResult) []Row {
	rows := make([]Row, len(history))
	for i, r := range history {
		rows[i] = Row{
			Index:         i + 1,
			Time:          r.LocalTime(),
			Text:          r.Text,
			Hallucination: FormatScore(r.HallucinationScore),
			Emotions:      FormatEmotions(r.EmotionScores),
		}
	}
	return rows
}

// Cells returns the row as table cells, emotions joined by sep.
func (r Row) Cells(sep string) []string {
	return []string{
		strconv.Itoa(r.Index),
		r.Time,
		r.Text,
		r.Hallucination,
		strings.Join(r.Emotions, sep),
	}
}

// Headers are the history table column titles.
var Headers = []string{"#", "Time", "Text", "Hallucination Score", "Top Emotions"}

// ShortHeaders are Headers for narrow layouts such as the TUI table.
var ShortHeaders = []string{"#", "Time", "Text", "Hallucination", "Top Emotions"}

// ReliabilityBand names the reliability band a hallucination score falls in.
func ReliabilityBand(score float64) string {
	switch {
	case score >= 0.8:
		return "high"
	case score >= 0.5:
		return "moderate"
	default:
		return "low"
	}
}
