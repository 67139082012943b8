// Package series derives chart and table data from analysis history.
//
// Everything here is a pure function of the history slice. Views call these
// on every render instead of caching the results.
package series

import (
	"fmt"
	"math"

	"github.com/f3rmion/textlens/internal/analysis"
)

// LineMode selects which emotion labels get a chart line.
type LineMode string

const (
	LinesUnion LineMode = "union" // Every label seen anywhere in history
	LinesFirst LineMode = "first" // Only the labels of the newest record
)

// ParseLineMode validates a configured line mode.
func ParseLineMode(s string) (LineMode, error) {
	switch LineMode(s) {
	case LinesUnion, LinesFirst:
		return LineMode(s), nil
	case "":
		return LinesFirst, nil
	default:
		return "", fmt.Errorf("unknown emotion line mode %q (want %q or %q)", s, LinesUnion, LinesFirst)
	}
}

// HallucinationPoint is one point of the hallucination chart.
type HallucinationPoint struct {
	Index int     // 1-based position in history
	Value float64 // Score rounded to 2 decimals
}

// EmotionPoint is one point of the emotion chart. Values only holds the
// labels present in that record; absent labels are gaps.
type EmotionPoint struct {
	Index  int
	Values map[string]float64 // Label → percentage rounded to 1 decimal
}

// Round rounds v to the given number of decimals.
func Round(v float64, decimals int) float64 {
	p := math.Pow(10, float64(decimals))
	return math.Round(v*p) / p
}

// Hallucination builds the hallucination series, one point per record.
func Hallucination(history []analysis.AnalysisResult) []HallucinationPoint {
	points := make([]HallucinationPoint, len(history))
	for i, r := range history {
		points[i] = HallucinationPoint{
			Index: i + 1,
			Value: Round(r.HallucinationScore, 2),
		}
	}
	return points
}

// Emotion builds the emotion series, one point per record.
func Emotion(history []analysis.AnalysisResult) []EmotionPoint {
	points := make([]EmotionPoint, len(history))
	for i, r := range history {
		values := make(map[string]float64, len(r.EmotionScores))
		for _, s := range r.EmotionScores {
			values[s.Label] = Round(s.Score*100, 1)
		}
		points[i] = EmotionPoint{Index: i + 1, Values: values}
	}
	return points
}

// EmotionLines returns the labels that get a chart line.
//
// In union mode labels are collected across all records in first-appearance
// order, so the newest record's labels come first. In first mode only the
// newest record's labels are drawn and labels introduced later get no line.
func EmotionLines(history []analysis.AnalysisResult, mode LineMode) []string {
	if len(history) == 0 {
		return nil
	}
	if mode == LinesFirst {
		return history[0].EmotionScores.Labels()
	}

	seen := make(map[string]bool)
	var labels []string
	for _, r := range history {
		for _, s := range r.EmotionScores {
			if !seen[s.Label] {
				seen[s.Label] = true
				labels = append(labels, s.Label)
			}
		}
	}
	return labels
}

// EmotionLine extracts one label's values across points. Records without
// the label yield NaN so plotting leaves a gap.
func EmotionLine(points []EmotionPoint, label string) []float64 {
	line := make([]float64, len(points))
	for i, p := range points {
		if v, ok := p.Values[label]; ok {
			line[i] = v
		} else {
			line[i] = math.NaN()
		}
	}
	return line
}

// HallucinationValues flattens the series for plotting.
func HallucinationValues(points []HallucinationPoint) []float64 {
	values := make([]float64, len(points))
	for i, p := range points {
		values[i] = p.Value
	}
	return values
}
