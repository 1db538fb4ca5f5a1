package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/pdiddy/idea-engine/internal/report"
	"github.com/pdiddy/idea-engine/internal/session"
)

var stateCmd = &cobra.Command{
	Use:   "state",
	Short: "Inspect the session state document",
}

var stateSummaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Print an overview of the session",
	RunE: func(cmd *cobra.Command, args []string) error {
		state, err := session.Load(statePath(cmd))
		if err != nil {
			return err
		}
		report.Summary(os.Stdout, state)
		return nil
	},
}

var stateShowCmd = &cobra.Command{
	Use:   "show <combination-id>",
	Short: "Print one combination's prompt, response, and scores",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		state, err := session.Load(statePath(cmd))
		if err != nil {
			return err
		}
		return report.ShowResult(os.Stdout, state, args[0])
	},
}

var stateTopCmd = &cobra.Command{
	Use:   "top",
	Short: "List the top-scoring results by a criterion",
	RunE:  runStateTop,
}

func init() {
	stateTopCmd.Flags().String("criterion", "aggregate", "criterion to rank by")
	stateTopCmd.Flags().Int("n", 10, "number of results to list")

	stateCmd.AddCommand(stateSummaryCmd)
	stateCmd.AddCommand(stateShowCmd)
	stateCmd.AddCommand(stateTopCmd)
	rootCmd.AddCommand(stateCmd)
}

func runStateTop(cmd *cobra.Command, args []string) error {
	state, err := session.Load(statePath(cmd))
	if err != nil {
		return err
	}

	criterion, _ := cmd.Flags().GetString("criterion")
	n, _ := cmd.Flags().GetInt("n")

	top := report.TopResults(state, criterion, n)
	if len(top) == 0 {
		cmd.Printf("No scored results for criterion %q\n", criterion)
		return nil
	}
	for i, r := range top {
		cmd.Printf("%d. %s (%.4f)\n", i+1, r.CombinationID, r.Value)
	}
	return nil
}
