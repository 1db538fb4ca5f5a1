package main

import (
	"fmt"
	"os"
	"sort"

	"github.com/spf13/cobra"

	"github.com/pdiddy/idea-engine/internal/report"
	"github.com/pdiddy/idea-engine/internal/score"
	"github.com/pdiddy/idea-engine/internal/session"
	"github.com/pdiddy/idea-engine/internal/synthesize"
	"github.com/pdiddy/idea-engine/pkg/types"
)

var synthesizeCmd = &cobra.Command{
	Use:   "synthesize",
	Short: "Synthesize ideas from clustered results",
	Long: `Synthesize derives ideas from the clustered, scored results using the
configured methods (cluster_based, cross_pollination, refinement). Each
idea records which source models contributed and their normalized
shares. Ideas append to the session state and render to stdout or a
file.`,
	RunE: runSynthesize,
}

func init() {
	synthesizeCmd.Flags().StringSlice("method", nil, "synthesis methods to run (default from config, else cluster_based)")
	synthesizeCmd.Flags().String("output-format", "", "idea output format: markdown or json")
	synthesizeCmd.Flags().String("output-file", "", "write the rendered ideas to this file instead of stdout")

	rootCmd.AddCommand(synthesizeCmd)
}

func runSynthesize(cmd *cobra.Command, args []string) error {
	cfg, err := engineConfig()
	if err != nil {
		return err
	}

	extraction := cfg.Extraction
	if v, _ := cmd.Flags().GetStringSlice("method"); len(v) > 0 {
		extraction.Methods = v
	}
	if len(extraction.Methods) == 0 {
		extraction.Methods = []string{synthesize.MethodClusterBased}
	}
	if v, _ := cmd.Flags().GetString("output-format"); v != "" {
		extraction.OutputFormat = v
	}

	path := statePath(cmd)
	state, err := session.Load(path)
	if err != nil {
		return err
	}

	produced, err := synthesizeInto(state, cfg.Scoring, extraction)
	if err != nil {
		return err
	}
	if err := session.Save(path, state); err != nil {
		return err
	}

	out := os.Stdout
	if file, _ := cmd.Flags().GetString("output-file"); file != "" {
		f, err := os.Create(file)
		if err != nil {
			return fmt.Errorf("creating output file: %w", err)
		}
		defer f.Close()
		out = f
	}
	return report.RenderIdeas(out, produced, extraction.OutputFormat)
}

// synthesizeInto runs the configured methods against the state and
// applies the scoring feedback loop when enabled. Adjusted or evolved
// criteria are stored on the state so the next scoring pass against the
// same session picks them up.
func synthesizeInto(state *types.SessionState, scoring types.ScoringConfig, extraction types.ExtractionConfig) ([]types.SynthesizedIdea, error) {
	var methods []synthesize.Method
	for _, name := range extraction.Methods {
		m, err := synthesize.ForName(name)
		if err != nil {
			return nil, err
		}
		methods = append(methods, m)
	}

	produced, err := synthesize.Apply(state, methods, extraction, os.Stderr)
	if err != nil {
		return nil, err
	}
	session.Touch(state)

	scoring = score.Effective(state, scoring)
	if extraction.WeightsAdjustment && len(produced) > 0 {
		adjusted := score.AdjustWeights(scoring, state, extraction.FeedbackRate)
		state.Scoring = &adjusted
		scoring = adjusted
		names := make([]string, 0, len(adjusted.Criteria))
		for name := range adjusted.Criteria {
			names = append(names, name)
		}
		sort.Strings(names)
		fmt.Fprintln(os.Stderr, "Adjusted criterion weights for the next scoring pass:")
		for _, name := range names {
			fmt.Fprintf(os.Stderr, "- %s: %.4f\n", name, adjusted.Criteria[name].Weight)
		}
	}
	if extraction.CriteriaEvolution {
		evolved := score.EvolveCriteria(scoring)
		if len(evolved.Criteria) > len(scoring.Criteria) {
			state.Scoring = &evolved
			fmt.Fprintln(os.Stderr, "Criteria evolution added new criteria for subsequent scoring passes")
		}
	}
	return produced, nil
}
