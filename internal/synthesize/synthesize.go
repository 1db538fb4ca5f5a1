// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package synthesize derives a small set of ideas from clustered,
// scored results, recording which source models contributed and by how
// much. Contribution shares for an idea always sum to 1 across exactly
// the models whose results were inputs.
package synthesize

import (
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/pdiddy/idea-engine/pkg/types"
)

const (
	MethodClusterBased     = "cluster_based"
	MethodCrossPollination = "cross_pollination"
	MethodRefinement       = "refinement"
)

// Method is one synthesis strategy. Implementations may produce zero
// ideas (e.g. when their preconditions are not met) without error;
// skips are reported on w.
type Method interface {
	Name() string
	Synthesize(state *types.SessionState, cfg types.ExtractionConfig, w io.Writer) ([]types.SynthesizedIdea, error)
}

// ForName resolves a method selector to its variant. Unknown names are
// a configuration error.
func ForName(name string) (Method, error) {
	switch name {
	case MethodClusterBased:
		return ClusterBased{}, nil
	case MethodCrossPollination:
		return CrossPollination{}, nil
	case MethodRefinement:
		return Refinement{}, nil
	default:
		return nil, types.Configf("unknown synthesis method %q (want %s, %s, or %s)",
			name, MethodClusterBased, MethodCrossPollination, MethodRefinement)
	}
}

// Apply runs each method in order and appends the resulting ideas to
// the state. It returns the ideas produced by this call.
func Apply(state *types.SessionState, methods []Method, cfg types.ExtractionConfig, w io.Writer) ([]types.SynthesizedIdea, error) {
	var produced []types.SynthesizedIdea
	for _, m := range methods {
		ideas, err := m.Synthesize(state, cfg, w)
		if err != nil {
			return produced, fmt.Errorf("synthesis method %s: %w", m.Name(), err)
		}
		fmt.Fprintf(w, "%s: synthesized %d ideas\n", m.Name(), len(ideas))
		produced = append(produced, ideas...)
	}
	state.Ideas = append(state.Ideas, produced...)
	return produced, nil
}

// ClusterBased merges the top-scoring members of each cluster into one
// idea per cluster. Contribution shares are proportional to each source
// model's aggregate-score share within the cluster.
type ClusterBased struct{}

func (ClusterBased) Name() string { return MethodClusterBased }

func (ClusterBased) Synthesize(state *types.SessionState, _ types.ExtractionConfig, w io.Writer) ([]types.SynthesizedIdea, error) {
	if len(state.Clusters) == 0 {
		fmt.Fprintf(w, "%s: no clusters in state, run analysis first\n", MethodClusterBased)
		return nil, nil
	}

	var ideas []types.SynthesizedIdea
	for i, cluster := range state.Clusters {
		members := scoredMembers(state, cluster.Members)
		if len(members) == 0 {
			continue
		}

		best := members[0]
		fallback := fmt.Sprintf("Synthesized Idea %d", i+1)
		idea := types.SynthesizedIdea{
			ID:    newIdeaID(),
			Title: extractTitle(best.Result.Text, fallback),
			Description: fmt.Sprintf("This idea represents a synthesis of %d top-ranked responses from the %s cluster.",
				len(members), cluster.Label),
			Text:          best.Result.Text,
			Method:        MethodClusterBased,
			Sources:       combinationIDs(members),
			ClusterIDs:    []string{cluster.ID},
			Contributions: scoreShareContributions(members),
			AverageScore:  meanAggregate(members),
			CreatedAt:     time.Now().UTC(),
		}
		ideas = append(ideas, idea)
	}
	return ideas, nil
}

// CrossPollination combines one representative result from each cluster
// into a single idea spanning at least two distinct models.
type CrossPollination struct{}

func (CrossPollination) Name() string { return MethodCrossPollination }

func (CrossPollination) Synthesize(state *types.SessionState, cfg types.ExtractionConfig, w io.Writer) ([]types.SynthesizedIdea, error) {
	if len(state.Clusters) < 2 {
		fmt.Fprintf(w, "%s: skipped, needs at least 2 clusters (have %d)\n", MethodCrossPollination, len(state.Clusters))
		return nil, nil
	}

	var reps []*types.Combination
	var clusterIDs []string
	for _, cluster := range state.Clusters {
		members := scoredMembers(state, cluster.Members)
		if len(members) == 0 {
			continue
		}
		reps = append(reps, members[0])
		clusterIDs = append(clusterIDs, cluster.ID)
	}

	if countModels(reps) < 2 {
		fmt.Fprintf(w, "%s: skipped, representatives span fewer than 2 distinct models\n", MethodCrossPollination)
		return nil, nil
	}

	var contributions map[string]float64
	if cfg.ScoreWeightedBlending {
		contributions = scoreShareContributions(reps)
	} else {
		contributions = evenContributions(reps)
	}

	var body strings.Builder
	fmt.Fprintf(&body, "Combined elements from %d clusters:\n", len(reps))
	for i, rep := range reps {
		fmt.Fprintf(&body, "\nFrom %s (%s):\n%s\n", clusterIDs[i], rep.ModelID, firstParagraph(rep.Result.Text))
	}

	idea := types.SynthesizedIdea{
		ID:    newIdeaID(),
		Title: "Cross-Pollinated Innovation",
		Description: fmt.Sprintf("This idea combines elements from %d diverse top-ranked responses.",
			len(reps)),
		Text:          body.String(),
		Method:        MethodCrossPollination,
		Sources:       combinationIDs(reps),
		ClusterIDs:    clusterIDs,
		Contributions: contributions,
		AverageScore:  meanAggregate(reps),
		CreatedAt:     time.Now().UTC(),
	}
	return []types.SynthesizedIdea{idea}, nil
}

// Refinement improves the single highest-scoring result using the
// next-highest result as critique input. Both input models appear in
// the contribution record.
type Refinement struct{}

func (Refinement) Name() string { return MethodRefinement }

func (Refinement) Synthesize(state *types.SessionState, _ types.ExtractionConfig, w io.Writer) ([]types.SynthesizedIdea, error) {
	ranked := scoredMembers(state, allExecutedIDs(state))
	if len(ranked) < 2 {
		fmt.Fprintf(w, "%s: skipped, needs at least 2 scored results (have %d)\n", MethodRefinement, len(ranked))
		return nil, nil
	}

	base, critique := ranked[0], ranked[1]
	inputs := []*types.Combination{base, critique}

	var body strings.Builder
	body.WriteString(base.Result.Text)
	fmt.Fprintf(&body, "\n\nRefined against a contrasting response from %s:\n%s\n",
		critique.ModelID, firstParagraph(critique.Result.Text))

	idea := types.SynthesizedIdea{
		ID:            newIdeaID(),
		Title:         extractTitle(base.Result.Text, "Refined Idea"),
		Description:   "The highest-ranked response, refined using the next-ranked response as critique.",
		Text:          body.String(),
		Method:        MethodRefinement,
		Sources:       combinationIDs(inputs),
		Contributions: scoreShareContributions(inputs),
		AverageScore:  meanAggregate(inputs),
		CreatedAt:     time.Now().UTC(),
	}
	return []types.SynthesizedIdea{idea}, nil
}

func newIdeaID() string {
	return "idea_" + uuid.NewString()[:8]
}

// scoredMembers resolves combination IDs to scored, successful results
// and orders them by aggregate score descending (ID ascending on ties).
func scoredMembers(state *types.SessionState, ids []string) []*types.Combination {
	var members []*types.Combination
	for _, id := range ids {
		c := state.Combination(id)
		if c == nil || c.Result == nil || c.Result.Status == types.ResultFailed || c.Score == nil {
			continue
		}
		members = append(members, c)
	}
	sort.SliceStable(members, func(i, j int) bool {
		if members[i].Score.Aggregate != members[j].Score.Aggregate {
			return members[i].Score.Aggregate > members[j].Score.Aggregate
		}
		return members[i].ID < members[j].ID
	})
	return members
}

func allExecutedIDs(state *types.SessionState) []string {
	var ids []string
	for _, c := range state.Executed() {
		ids = append(ids, c.ID)
	}
	return ids
}

func combinationIDs(members []*types.Combination) []string {
	ids := make([]string, len(members))
	for i, m := range members {
		ids[i] = m.ID
	}
	return ids
}

func countModels(members []*types.Combination) int {
	seen := make(map[string]bool)
	for _, m := range members {
		seen[m.ModelID] = true
	}
	return len(seen)
}

func meanAggregate(members []*types.Combination) float64 {
	if len(members) == 0 {
		return 0
	}
	var total float64
	for _, m := range members {
		total += m.Score.Aggregate
	}
	return total / float64(len(members))
}

// scoreShareContributions assigns each model a share proportional to
// the sum of its members' aggregate scores. When every score is zero it
// falls back to an even split so the shares still sum to 1.
func scoreShareContributions(members []*types.Combination) map[string]float64 {
	perModel := make(map[string]float64)
	var total float64
	for _, m := range members {
		perModel[m.ModelID] += m.Score.Aggregate
		total += m.Score.Aggregate
	}
	if total <= 0 {
		return evenContributions(members)
	}
	for id := range perModel {
		perModel[id] /= total
	}
	return perModel
}

// evenContributions splits shares evenly per source, merged by model,
// so a model appearing twice among the sources earns a double share.
func evenContributions(members []*types.Combination) map[string]float64 {
	shares := make(map[string]float64)
	per := 1.0 / float64(len(members))
	for _, m := range members {
		shares[m.ModelID] += per
	}
	return shares
}

// extractTitle picks the first line between 6 and 79 characters, the
// way a heading usually leads a generated response.
func extractTitle(text, fallback string) string {
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(strings.TrimLeft(line, "# "))
		if len(line) > 5 && len(line) < 80 {
			return line
		}
	}
	return fallback
}

func firstParagraph(text string) string {
	parts := strings.SplitN(strings.TrimSpace(text), "\n\n", 2)
	return parts[0]
}
