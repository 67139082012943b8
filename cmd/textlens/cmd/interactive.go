package cmd

import (
	"github.com/spf13/cobra"
)

var interactiveCmd = &cobra.Command{
	Use:     "interactive",
	Aliases: []string{"i", "ui"},
	Short:   "Launch interactive TUI",
	Long: `Launch the interactive terminal UI.

The top pane takes text to analyze. The bottom pane charts the
hallucination and emotion scores of every past analysis and lists them
newest first.

Controls:
  ctrl+s  Analyze the text
  tab     Switch between input and history
  r       Reload history (history pane)
  y       Copy the selected text (history pane)
  ?       Help (history pane)
  ctrl+c  Quit`,
	Args: cobra.NoArgs,
	RunE: runTUI,
}

func init() {
	rootCmd.AddCommand(interactiveCmd)
}
