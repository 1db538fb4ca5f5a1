package main

import (
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/pdiddy/idea-engine/internal/catalog"
	"github.com/pdiddy/idea-engine/internal/report"
	"github.com/pdiddy/idea-engine/internal/score"
	"github.com/pdiddy/idea-engine/internal/session"
	"github.com/pdiddy/idea-engine/internal/synthesize"
	"github.com/pdiddy/idea-engine/pkg/types"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the complete pipeline for one query",
	Long: `Run chains the whole pipeline in one invocation: generate combinations
for the given query, execute them, score and cluster the results, and
synthesize ideas. The session state is saved after every stage, so an
interrupted run resumes from where it stopped.`,
	RunE: runPipeline,
}

func init() {
	runCmd.Flags().String("query", "", "input query text (required)")
	runCmd.Flags().String("domain", "", "focus on domains matching this term (default all)")
	runCmd.Flags().Int("models", 2, "number of models to use")
	runCmd.Flags().Int("instructions", 3, "number of instruction templates to use")
	runCmd.Flags().Int("variations", 2, "query variations to generate")
	runCmd.Flags().Int("max-combinations", 10, "combination budget")
	runCmd.Flags().Bool("balanced", false, "divide the budget into near-equal per-model quotas")
	runCmd.Flags().Bool("simulate", false, "use deterministic simulated responses")
	runCmd.Flags().Bool("dry-run", false, "list what would execute without running anything")
	runCmd.Flags().StringSlice("method", []string{synthesize.MethodClusterBased}, "synthesis methods to run")
	runCmd.Flags().String("output-format", report.FormatMarkdown, "idea output format: markdown or json")
	runCmd.Flags().String("output-file", "", "write the rendered ideas to this file instead of stdout")

	rootCmd.AddCommand(runCmd)
}

func runPipeline(cmd *cobra.Command, args []string) error {
	queryText, _ := cmd.Flags().GetString("query")
	if queryText == "" {
		return types.Configf("run requires --query")
	}

	cfg, err := engineConfig()
	if err != nil {
		return err
	}

	path := statePath(cmd)
	state, err := loadOrNewState(path)
	if err != nil {
		return err
	}

	// Narrow the domain catalog when a focus term is given.
	if term, _ := cmd.Flags().GetString("domain"); term != "" {
		if matches := catalog.SearchDomains(cfg.Domains, term); len(matches) > 0 {
			fmt.Printf("Found %d matching domains for %q\n", len(matches), term)
			cfg.Domains = matches
		} else {
			fmt.Printf("No domains found matching %q, using all domains\n", term)
		}
	}

	query := types.QueryVariant{
		ID:     "query_" + uuid.NewString()[:8],
		Text:   queryText,
		Origin: types.OriginUser,
	}
	cfg.Queries = []types.QueryVariant{query}

	modelCount, _ := cmd.Flags().GetInt("models")
	instructionCount, _ := cmd.Flags().GetInt("instructions")
	variations, _ := cmd.Flags().GetInt("variations")
	maxCombinations, _ := cmd.Flags().GetInt("max-combinations")
	balanced, _ := cmd.Flags().GetBool("balanced")

	gen := types.GenerationConfig{
		MaxCombinations:  maxCombinations,
		Balanced:         balanced,
		ModelCount:       modelCount,
		InstructionCount: instructionCount,
		QueryVariations:  variations,
	}

	added, err := generateInto(state, cfg, gen)
	if err != nil {
		return err
	}
	fmt.Printf("Generated %d combinations (%d pending)\n", added, len(state.Pending()))
	if err := session.Save(path, state); err != nil {
		return err
	}

	exec := cfg.Execution
	exec.Simulate, _ = cmd.Flags().GetBool("simulate")
	exec.DryRun, _ = cmd.Flags().GetBool("dry-run")
	if exec.Timeout == 0 {
		exec.Timeout = 120 * time.Second
	}
	if exec.UserAgent == "" {
		exec.UserAgent = defaultUserAgent
	}

	reg := buildRegistry(exec)
	if len(reg) == 0 && !exec.Simulate && !exec.DryRun {
		fmt.Fprintln(os.Stderr, "No API keys available. Forcing simulation mode.")
		exec.Simulate = true
	}

	if _, err := executeAndSave(cmd.Context(), path, state, reg, exec, os.Stdout); err != nil {
		return err
	}
	if exec.DryRun {
		return nil
	}

	if err := score.All(state, score.Effective(state, cfg.Scoring), os.Stdout); err != nil {
		return err
	}
	if err := session.Save(path, state); err != nil {
		return err
	}

	if err := analyzeInto(cmd, state, cfg.Evaluation); err != nil {
		return err
	}
	if err := session.Save(path, state); err != nil {
		return err
	}

	extraction := cfg.Extraction
	extraction.Methods, _ = cmd.Flags().GetStringSlice("method")
	if v, _ := cmd.Flags().GetString("output-format"); v != "" {
		extraction.OutputFormat = v
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
