// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package report renders synthesized ideas and session summaries for
// human and machine consumption.
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/pdiddy/idea-engine/pkg/types"
)

const (
	FormatMarkdown = "markdown"
	FormatJSON     = "json"
)

// RenderIdeas writes the ideas in the requested format. Unknown formats
// are a configuration error.
func RenderIdeas(w io.Writer, ideas []types.SynthesizedIdea, format string) error {
	switch format {
	case FormatMarkdown, "":
		return renderMarkdown(w, ideas)
	case FormatJSON:
		return renderJSON(w, ideas)
	default:
		return types.Configf("unknown output format %q (want %s or %s)", format, FormatMarkdown, FormatJSON)
	}
}

func renderMarkdown(w io.Writer, ideas []types.SynthesizedIdea) error {
	if len(ideas) == 0 {
		_, err := fmt.Fprintln(w, "No synthesized ideas to format")
		return err
	}

	var b strings.Builder
	b.WriteString("# Synthesized Ideas\n\n")
	for _, idea := range ideas {
		fmt.Fprintf(&b, "## %s\n\n", idea.Title)
		fmt.Fprintf(&b, "%s\n\n", idea.Description)
		b.WriteString("### Key Points\n\n")
		fmt.Fprintf(&b, "%s\n\n", idea.Text)

		b.WriteString("### Provenance\n\n")
		fmt.Fprintf(&b, "- **method**: %s\n", idea.Method)
		fmt.Fprintf(&b, "- **average score**: %.4f\n", idea.AverageScore)
		for _, model := range sortedKeys(idea.Contributions) {
			fmt.Fprintf(&b, "- **%s**: %.1f%%\n", model, idea.Contributions[model]*100)
		}
		for _, src := range idea.Sources {
			fmt.Fprintf(&b, "- source: %s\n", src)
		}
		b.WriteString("\n---\n\n")
	}
	_, err := io.WriteString(w, b.String())
	return err
}

func renderJSON(w io.Writer, ideas []types.SynthesizedIdea) error {
	data, err := json.MarshalIndent(ideas, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding ideas: %w", err)
	}
	_, err = fmt.Fprintf(w, "%s\n", data)
	return err
}

// Ranked is one entry of a top-N listing.
type Ranked struct {
	CombinationID string
	Value         float64
}

// TopResults lists the n best-scoring executed combinations by the
// given criterion. The empty criterion (or "aggregate") ranks by the
// aggregate score.
func TopResults(state *types.SessionState, criterion string, n int) []Ranked {
	var ranked []Ranked
	for _, c := range state.Executed() {
		if c.Score == nil {
			continue
		}
		value := c.Score.Aggregate
		if criterion != "" && criterion != "aggregate" {
			v, ok := c.Score.Criteria[criterion]
			if !ok {
				continue
			}
			value = v
		}
		ranked = append(ranked, Ranked{CombinationID: c.ID, Value: value})
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].Value != ranked[j].Value {
			return ranked[i].Value > ranked[j].Value
		}
		return ranked[i].CombinationID < ranked[j].CombinationID
	})
	if n > 0 && len(ranked) > n {
		ranked = ranked[:n]
	}
	return ranked
}

// Summary writes an overview of the session: entity counts, the top
// results by aggregate score, and the synthesized idea titles.
func Summary(w io.Writer, state *types.SessionState) {
	executed := len(state.Executed())
	scored := 0
	for _, c := range state.Executed() {
		if c.Score != nil {
			scored++
		}
	}

	fmt.Fprintf(w, "=== Session Summary ===\n\n")
	fmt.Fprintf(w, "Models: %d, Instructions: %d, Queries: %d, Domains: %d\n",
		len(state.Models), len(state.Instructions), len(state.Queries), len(state.Domains))
	fmt.Fprintf(w, "Combinations: %d (%d executed, %d pending)\n",
		len(state.Combinations), executed, len(state.Combinations)-executed)
	fmt.Fprintf(w, "Scored: %d\n", scored)
	fmt.Fprintf(w, "Clusters: %d\n", len(state.Clusters))
	fmt.Fprintf(w, "Synthesized Ideas: %d\n", len(state.Ideas))

	if top := TopResults(state, "", 5); len(top) > 0 {
		fmt.Fprintf(w, "\nTop %d Results by Aggregate Score:\n", len(top))
		for i, r := range top {
			fmt.Fprintf(w, "%d. %s (%.4f)\n", i+1, r.CombinationID, r.Value)
		}
	}

	if len(state.Ideas) > 0 {
		fmt.Fprintf(w, "\nSynthesized Ideas:\n")
		for i, idea := range state.Ideas {
			fmt.Fprintf(w, "%d. %s [%s]\n", i+1, idea.Title, idea.Method)
		}
	}

	if len(state.Clusters) > 0 {
		fmt.Fprintf(w, "\nClusters:\n")
		for _, cluster := range state.Clusters {
			fmt.Fprintf(w, "- %s: %q (%d members)\n", cluster.ID, cluster.Label, len(cluster.Members))
		}
	}
}

// ShowResult writes one combination's prompt, response, and scores.
func ShowResult(w io.Writer, state *types.SessionState, id string) error {
	c := state.Combination(id)
	if c == nil {
		return &types.StateIntegrityError{ID: id, Reason: "combination not found in session"}
	}

	fmt.Fprintf(w, "ID: %s\n", c.ID)
	fmt.Fprintf(w, "Model: %s\nInstruction: %s\nQuery: %s\nDomain: %s\n",
		c.ModelID, c.InstructionID, c.QueryID, c.DomainID)
	fmt.Fprintf(w, "Status: %s\n", c.Status)

	if c.Result == nil {
		return nil
	}
	divider := strings.Repeat("-", 80)
	fmt.Fprintf(w, "\nPrompt:\n%s\n%s\n%s\n", divider, c.Result.Prompt, divider)
	if c.Result.Status == types.ResultFailed {
		fmt.Fprintf(w, "\nError: %s\n", c.Result.Error)
	} else {
		fmt.Fprintf(w, "\nResponse (%s):\n%s\n%s\n%s\n", c.Result.Status, divider, c.Result.Text, divider)
	}

	if c.Score != nil {
		fmt.Fprintf(w, "\nScores:\n")
		for _, name := range sortedKeys(c.Score.Criteria) {
			fmt.Fprintf(w, "- %s: %.4f\n", name, c.Score.Criteria[name])
		}
		fmt.Fprintf(w, "\nAggregate: %.4f\n", c.Score.Aggregate)
	}
	return nil
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
