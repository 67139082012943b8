package cmd

import (
	"encoding/json"
	"errors"
	"strconv"

	"github.com/f3rmion/textlens/internal/api"
	"github.com/f3rmion/textlens/internal/output"
	"github.com/f3rmion/textlens/internal/series"
	"github.com/spf13/cobra"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Print past analyses",
	Long: `Fetch the analysis history and print it newest first, with charts of
the hallucination and emotion scores. With --quiet only the table is
printed.

Example:
  textlens history
  textlens history --no-charts
  textlens history --quiet
  textlens history --json`,
	Args: cobra.NoArgs,
	RunE: runHistory,
}

func init() {
	rootCmd.AddCommand(historyCmd)

	historyCmd.Flags().Bool("json", false, "output as JSON")
	historyCmd.Flags().Bool("no-charts", false, "print the table only")
	historyCmd.Flags().Int("width", 60, "chart width in columns")
	historyCmd.Flags().Int("text-width", 40, "maximum width of the text column")
}

func runHistory(cmd *cobra.Command, args []string) error {
	jsonOutput, _ := cmd.Flags().GetBool("json")
	noCharts, _ := cmd.Flags().GetBool("no-charts")
	width, _ := cmd.Flags().GetInt("width")
	textWidth, _ := cmd.Flags().GetInt("text-width")

	history, err := newClient(logger).FetchHistory(cmd.Context())
	if err != nil {
		logger.Debug("history fetch failed", "error", err)
		return errors.New(api.MsgHistoryFailed)
	}

	if jsonOutput {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(history)
	}

	printer, err := newPrinter(cmd)
	if err != nil {
		return err
	}

	if len(history) == 0 {
		printer.Info("No analyses yet")
		return nil
	}

	if !noCharts {
		mode, err := series.ParseLineMode(cfg.UI.EmotionLines)
		if err != nil {
			return err
		}
		opts := series.PlotOptions{Width: width, Height: cfg.UI.ChartHeight}

		printer.Header("Hallucination Scores")
		printer.Print("%s", series.PlotHallucination(history, opts))
		printer.Header("Emotion Scores (%)")
		printer.Print("%s", series.PlotEmotions(history, mode, opts))
	}

	printer.Header("Analysis History")
	table := output.NewTable(printer.Out(), series.Headers)
	table.AddRows(output.HistoryRows(history, textWidth))
	if err := table.Render(); err != nil {
		return err
	}
	printer.Print("%s", printer.Dim(pluralize(len(history), "analysis", "analyses")))
	return nil
}

// bandDescription explains a hallucination score in words.
func bandDescription(score float64) string {
	switch series.ReliabilityBand(score) {
	case "high":
		return "high reliability, well supported"
	case "moderate":
		return "moderate reliability, partially supported"
	default:
		return "low reliability, potential hallucination"
	}
}

func pluralize(n int, one, many string) string {
	if n == 1 {
		return "1 " + one
	}
	return strconv.Itoa(n) + " " + many
}
