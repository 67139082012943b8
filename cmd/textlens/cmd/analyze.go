package cmd

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/f3rmion/textlens/internal/analysis"
	"github.com/f3rmion/textlens/internal/api"
	"github.com/f3rmion/textlens/internal/output"
	"github.com/f3rmion/textlens/internal/series"
	"github.com/spf13/cobra"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze [text...]",
	Short: "Analyze a piece of text once",
	Long: `Submit text to the analysis service and print the result.

The arguments are joined with spaces. With no arguments the text is read
from stdin. With --quiet only the hallucination score is printed.

Example:
  textlens analyze "The Eiffel Tower is in Berlin."
  cat essay.txt | textlens analyze
  textlens analyze -q "hello"
  textlens analyze --json "hello"`,
	RunE: runAnalyze,
}

func init() {
	rootCmd.AddCommand(analyzeCmd)

	analyzeCmd.Flags().Bool("json", false, "output as JSON")
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	jsonOutput, _ := cmd.Flags().GetBool("json")

	text := strings.Join(args, " ")
	if len(args) == 0 {
		in, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return fmt.Errorf("reading stdin: %w", err)
		}
		text = string(in)
	}
	if strings.TrimSpace(text) == "" {
		return errors.New("nothing to analyze: text is empty")
	}

	result, err := newClient(logger).Analyze(cmd.Context(), text)
	if err != nil {
		logger.Debug("analyze failed", "error", err)
		return errors.New(api.Message(err, api.MsgAnalyzeFailed))
	}

	if jsonOutput {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(result)
	}

	printer, err := newPrinter(cmd)
	if err != nil {
		return err
	}
	return printResult(printer, result)
}

// emotionHeaders are the column titles of the emotion table.
var emotionHeaders = []string{"Emotion", "Score"}

// printResult prints one analysis. In quiet mode only the hallucination
// score is printed.
func printResult(p *output.Printer, r *analysis.AnalysisResult) error {
	if p.IsQuiet() {
		fmt.Fprintln(p.Out(), series.FormatScore(r.HallucinationScore))
	}

	p.Header("Analysis")
	p.Print("%s %s", p.Bold("Text:"), output.TruncateText(r.Text, 72))
	p.Print("%s %s", p.Bold("Time:"), r.LocalTime())
	p.Print("%s %s %s", p.Bold("Hallucination score:"), p.Score(r.HallucinationScore),
		p.Dim("("+bandDescription(r.HallucinationScore)+")"))

	p.Header("Emotions")
	if len(r.EmotionScores) == 0 {
		p.Print("%s", p.Dim("none detected"))
		return nil
	}
	table := output.NewQuietTable(p.Out(), emotionHeaders, p.IsQuiet())
	for _, e := range r.EmotionScores.SortedByScore() {
		table.AddRow([]string{e.Label, series.FormatPercent(e.Score)})
	}
	return table.Render()
}
