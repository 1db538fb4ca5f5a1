// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package score

import (
	"sort"

	"github.com/pdiddy/idea-engine/pkg/types"
)

// evolvableCriteria are candidates appended by criteria evolution, in
// the order they unlock. Only criteria absent from the configuration
// are added.
var evolvableCriteria = []struct {
	name string
	cfg  types.CriterionConfig
}{
	{"specificity", types.CriterionConfig{
		Description: "Concrete detail density",
		Weight:      0.1,
		Function:    "specificity",
	}},
	{"clarity", types.CriterionConfig{
		Description: "Readable sentence construction",
		Weight:      0.1,
		Function:    "clarity",
	}},
	{"comprehensiveness", types.CriterionConfig{
		Description: "Coverage and structural development",
		Weight:      0.1,
		Function:    "comprehensiveness",
	}},
}

// Effective returns the criteria configuration a scoring pass should
// use: the session's feedback-adjusted criteria when present, otherwise
// the given configuration.
func Effective(state *types.SessionState, cfg types.ScoringConfig) types.ScoringConfig {
	if state.Scoring != nil && len(state.Scoring.Criteria) > 0 {
		return *state.Scoring
	}
	return cfg
}

// AdjustWeights returns a new criteria configuration nudged toward the
// criteria on which synthesized-idea sources outperform the overall
// result population. The input configuration is never modified;
// historical scores are untouched. rate scales the nudge (0.1 when
// non-positive); resulting weights are renormalized to sum to 1.
func AdjustWeights(cfg types.ScoringConfig, state *types.SessionState, rate float64) types.ScoringConfig {
	if rate <= 0 {
		rate = 0.1
	}

	sourceIDs := make(map[string]bool)
	for _, idea := range state.Ideas {
		for _, src := range idea.Sources {
			sourceIDs[src] = true
		}
	}

	globalMean := criterionMeans(state, nil)
	sourceMean := criterionMeans(state, sourceIDs)

	adjusted := types.ScoringConfig{
		Criteria: make(map[string]types.CriterionConfig, len(cfg.Criteria)),
	}

	var total float64
	names := sortedNames(cfg)
	for _, name := range names {
		crit := cfg.Criteria[name]
		weight := crit.Weight
		if len(sourceIDs) > 0 {
			weight *= 1 + rate*(sourceMean[name]-globalMean[name])
			if weight < 0.01 {
				weight = 0.01
			}
		}
		crit.Weight = weight
		adjusted.Criteria[name] = crit
		total += weight
	}

	// Renormalize so downstream configs stay comparable run to run.
	if total > 0 {
		for _, name := range names {
			crit := adjusted.Criteria[name]
			crit.Weight /= total
			adjusted.Criteria[name] = crit
		}
	}
	return adjusted
}

// EvolveCriteria returns a new configuration with the first evolvable
// criterion not yet present appended at a small weight. It applies only
// to subsequent scoring passes; existing scores keep their original
// criteria set.
func EvolveCriteria(cfg types.ScoringConfig) types.ScoringConfig {
	evolved := types.ScoringConfig{
		Criteria: make(map[string]types.CriterionConfig, len(cfg.Criteria)+1),
	}
	for name, crit := range cfg.Criteria {
		evolved.Criteria[name] = crit
	}

	for _, cand := range evolvableCriteria {
		if _, exists := evolved.Criteria[cand.name]; !exists {
			evolved.Criteria[cand.name] = cand.cfg
			break
		}
	}
	return evolved
}

// criterionMeans averages per-criterion values over the scored
// combinations, restricted to the given ID set when non-nil.
func criterionMeans(state *types.SessionState, only map[string]bool) map[string]float64 {
	sums := make(map[string]float64)
	counts := make(map[string]int)

	for i := range state.Combinations {
		c := &state.Combinations[i]
		if c.Score == nil {
			continue
		}
		if only != nil && !only[c.ID] {
			continue
		}
		for name, v := range c.Score.Criteria {
			sums[name] += v
			counts[name]++
		}
	}

	means := make(map[string]float64, len(sums))
	for name, sum := range sums {
		means[name] = sum / float64(counts[name])
	}
	return means
}

func sortedNames(cfg types.ScoringConfig) []string {
	names := make([]string, 0, len(cfg.Criteria))
	for name := range cfg.Criteria {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
