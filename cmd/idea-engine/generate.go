package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pdiddy/idea-engine/internal/catalog"
	"github.com/pdiddy/idea-engine/internal/combine"
	"github.com/pdiddy/idea-engine/internal/session"
	"github.com/pdiddy/idea-engine/pkg/types"
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate pending (model, instruction, query, domain) combinations",
	Long: `Generate enumerates unique combinations from the configured catalogs
under the combination budget and merges them into the session state.
Re-running against the same state only adds missing tuples; identical
tuples are never duplicated.`,
	RunE: runGenerate,
}

func init() {
	generateCmd.Flags().Int("models", 0, "number of catalog models to use (0 = all)")
	generateCmd.Flags().Int("instructions", 0, "number of instruction templates to use (0 = all)")
	generateCmd.Flags().Int("variations", 0, "generated query variations per base query")
	generateCmd.Flags().Int("max-combinations", 10, "combination budget")
	generateCmd.Flags().Bool("balanced", false, "divide the budget into near-equal per-model quotas")

	rootCmd.AddCommand(generateCmd)
}

func runGenerate(cmd *cobra.Command, args []string) error {
	cfg, err := engineConfig()
	if err != nil {
		return err
	}

	gen := cfg.Generation
	if v, _ := cmd.Flags().GetInt("models"); v > 0 {
		gen.ModelCount = v
	}
	if v, _ := cmd.Flags().GetInt("instructions"); v > 0 {
		gen.InstructionCount = v
	}
	if v, _ := cmd.Flags().GetInt("variations"); v > 0 {
		gen.QueryVariations = v
	}
	if cmd.Flags().Changed("max-combinations") || gen.MaxCombinations == 0 {
		gen.MaxCombinations, _ = cmd.Flags().GetInt("max-combinations")
	}
	if cmd.Flags().Changed("balanced") {
		gen.Balanced, _ = cmd.Flags().GetBool("balanced")
	}

	path := statePath(cmd)
	state, err := loadOrNewState(path)
	if err != nil {
		return err
	}

	added, err := generateInto(state, cfg, gen)
	if err != nil {
		return err
	}

	if err := session.Save(path, state); err != nil {
		return err
	}
	fmt.Printf("Added %d combinations (%d total, %d pending)\n",
		added, len(state.Combinations), len(state.Pending()))
	return nil
}

// generateInto expands query variations, merges the participating
// catalogs into the state, and adds the missing combinations. It
// returns how many combinations were new.
func generateInto(state *types.SessionState, cfg *types.EngineConfig, gen types.GenerationConfig) (int, error) {
	queries := cfg.Queries
	if gen.QueryVariations > 0 {
		for _, q := range cfg.Queries {
			if q.Origin == types.OriginGenerated {
				continue
			}
			queries = append(queries, catalog.Variations(q, gen.QueryVariations)...)
		}
	}

	in := combine.Inputs{
		Models:       catalog.Limit(cfg.Models, gen.ModelCount),
		Instructions: catalog.Limit(cfg.Instructions, gen.InstructionCount),
		Queries:      queries,
		Domains:      cfg.Domains,
	}

	used := *cfg
	used.Models = in.Models
	used.Instructions = in.Instructions
	used.Queries = in.Queries
	session.MergeCatalogs(state, &used)

	existing := make(map[string]bool, len(state.Combinations))
	for _, c := range state.Combinations {
		existing[c.ID] = true
	}

	combos, err := combine.Generate(in, gen, existing)
	if err != nil {
		return 0, err
	}
	return session.MergeCombinations(state, combos), nil
}
