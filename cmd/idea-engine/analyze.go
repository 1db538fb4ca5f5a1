package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pdiddy/idea-engine/internal/analyze"
	"github.com/pdiddy/idea-engine/internal/session"
	"github.com/pdiddy/idea-engine/pkg/types"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Cluster the top results and detect recurring patterns",
	Long: `Analyze selects the top-scoring results, embeds them, and groups them
into clusters labeled by their recurring phrases. When no embedding
backend is available (or it fails), analysis degrades to keyword-overlap
grouping rather than failing the pipeline.`,
	RunE: runAnalyze,
}

func init() {
	analyzeCmd.Flags().Int("top", 0, "number of top-scoring results to analyze (default 10)")
	analyzeCmd.Flags().Int("clusters", 0, "target cluster count (default 3)")
	analyzeCmd.Flags().String("embedding-model", "", "embedding model (empty = keyword fallback)")

	rootCmd.AddCommand(analyzeCmd)
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	cfg, err := engineConfig()
	if err != nil {
		return err
	}

	eval := cfg.Evaluation
	if v, _ := cmd.Flags().GetInt("top"); v > 0 {
		eval.TopN = v
	}
	if v, _ := cmd.Flags().GetInt("clusters"); v > 0 {
		eval.NClusters = v
	}
	if v, _ := cmd.Flags().GetString("embedding-model"); v != "" {
		eval.EmbeddingModel = v
	}

	path := statePath(cmd)
	state, err := session.Load(path)
	if err != nil {
		return err
	}

	if err := analyzeInto(cmd, state, eval); err != nil {
		return err
	}
	return session.Save(path, state)
}

// analyzeInto clusters the state's top results and records the cluster
// assignments on both the state and its member combinations.
func analyzeInto(cmd *cobra.Command, state *types.SessionState, eval types.EvaluationConfig) error {
	items := analyzableResults(state)
	if len(items) == 0 {
		fmt.Println("No scored results to analyze")
		return nil
	}

	analyze.SortByScore(state, items)
	topN := eval.TopN
	if topN <= 0 {
		topN = 10
	}
	if len(items) > topN {
		items = items[:topN]
	}

	var embedder analyze.Embedder
	if eval.EmbeddingModel != "" {
		if key := secretDefault("openai-api-key", "OPENAI_API_KEY"); key != "" {
			embedder = analyze.NewOpenAIEmbedder(key, eval.EmbeddingModel)
		} else {
			fmt.Fprintln(os.Stderr, "No OpenAI key for embeddings, using keyword fallback")
		}
	}

	clusters, err := analyze.Clusters(cmd.Context(), embedder, items, eval, os.Stdout)
	if err != nil {
		return err
	}

	// Clusters replace wholesale on every pass; ideas synthesized earlier
	// keep their old cluster IDs as historical provenance.
	state.Clusters = clusters
	for i := range state.Combinations {
		state.Combinations[i].ClusterID = ""
	}
	for _, cluster := range clusters {
		for _, id := range cluster.Members {
			if c := state.Combination(id); c != nil {
				c.ClusterID = cluster.ID
			}
		}
	}
	session.Touch(state)

	fmt.Printf("Built %d clusters from %d results\n", len(clusters), len(items))
	return nil
}

// analyzableResults collects executed, scored, non-failed results as
// analyzer inputs.
func analyzableResults(state *types.SessionState) []analyze.TextRef {
	var items []analyze.TextRef
	for _, c := range state.Executed() {
		if c.Score == nil || c.Result.Status == types.ResultFailed || c.Result.Text == "" {
			continue
		}
		items = append(items, analyze.TextRef{ID: c.ID, Text: c.Result.Text})
	}
	return items
}
