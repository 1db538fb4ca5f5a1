package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/pdiddy/idea-engine/internal/score"
	"github.com/pdiddy/idea-engine/internal/session"
)

var scoreCmd = &cobra.Command{
	Use:   "score",
	Short: "Score executed results against the configured criteria",
	Long: `Score evaluates every executed result with the configured criteria
(novelty, feasibility, specificity, comprehensiveness, clarity by
default) and writes per-criterion and aggregate scores back into the
session state. Scoring is deterministic: the same results always
produce the same scores. Failed results score zero. A session carrying
feedback-adjusted criteria from a previous synthesis uses those instead
of the configuration file.`,
	RunE: runScore,
}

func init() {
	rootCmd.AddCommand(scoreCmd)
}

func runScore(cmd *cobra.Command, args []string) error {
	cfg, err := engineConfig()
	if err != nil {
		return err
	}

	path := statePath(cmd)
	state, err := session.Load(path)
	if err != nil {
		return err
	}

	if err := score.All(state, score.Effective(state, cfg.Scoring), os.Stdout); err != nil {
		return err
	}
	return session.Save(path, state)
}
