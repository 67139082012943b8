package series

import (
	"fmt"

	"github.com/f3rmion/textlens/internal/analysis"
	"github.com/guptarohit/asciigraph"
)

// lineColors cycles through six hues, one per emotion line.
var lineColors = []asciigraph.AnsiColor{
	asciigraph.Red,
	asciigraph.Yellow,
	asciigraph.Green,
	asciigraph.Cyan,
	asciigraph.Blue,
	asciigraph.Magenta,
}

// PlotOptions controls chart size in terminal cells.
type PlotOptions struct {
	Width  int // Plot area width; points are stretched to fill it
	Height int
}

func (o PlotOptions) height() int {
	if o.Height < 3 {
		return 3
	}
	return o.Height
}

// stretch repeats each value so n points span roughly width columns.
// Repeating keeps NaN gaps intact where interpolation would not.
func stretch(values []float64, width int) []float64 {
	if len(values) == 0 || width <= len(values) {
		return values
	}
	factor := width / len(values)
	out := make([]float64, 0, len(values)*factor)
	for _, v := range values {
		for i := 0; i < factor; i++ {
			out = append(out, v)
		}
	}
	return out
}

// PlotHallucination renders the hallucination series as a line chart.
func PlotHallucination(history []analysis.AnalysisResult, opts PlotOptions) string {
	points := Hallucination(history)
	if len(points) == 0 {
		return "No analyses yet"
	}

	return asciigraph.Plot(
		stretch(HallucinationValues(points), opts.Width),
		asciigraph.Height(opts.height()),
		asciigraph.LowerBound(0),
		asciigraph.UpperBound(1),
		asciigraph.Precision(2),
		asciigraph.SeriesColors(asciigraph.Blue),
		asciigraph.Caption(axisCaption(len(points))),
	)
}

// PlotEmotions renders one line per emotion label, in percent.
func PlotEmotions(history []analysis.AnalysisResult, mode LineMode, opts PlotOptions) string {
	points := Emotion(history)
	labels := EmotionLines(history, mode)
	if len(points) == 0 || len(labels) == 0 {
		return "No emotion scores yet"
	}

	data := make([][]float64, 0, len(labels))
	colors := make([]asciigraph.AnsiColor, 0, len(labels))
	for i, label := range labels {
		data = append(data, stretch(EmotionLine(points, label), opts.Width))
		colors = append(colors, lineColors[i%len(lineColors)])
	}

	return asciigraph.PlotMany(
		data,
		asciigraph.Height(opts.height()),
		asciigraph.LowerBound(0),
		asciigraph.UpperBound(100),
		asciigraph.Precision(0),
		asciigraph.SeriesColors(colors...),
		asciigraph.SeriesLegends(labels...),
		asciigraph.Caption(axisCaption(len(points))),
	)
}

func axisCaption(n int) string {
	if n == 1 {
		return "analysis #1"
	}
	return fmt.Sprintf("analyses #1 (newest) → #%d", n)
}
