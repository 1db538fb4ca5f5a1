// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package score computes weighted multi-criterion scores for generated
// results. Every criterion is a deterministic text heuristic, so scoring
// the same result set under the same configuration always produces
// identical scores.
package score

import (
	"fmt"
	"io"
	"sort"
	"strings"
	"unicode"

	"github.com/pdiddy/idea-engine/pkg/types"
)

// Context carries what a criterion function may consult besides the text
// itself: the sibling result texts (for relative measures) and the
// domain keywords of the combination being scored.
type Context struct {
	// Siblings holds the other executed results' texts, in state order.
	Siblings []string

	// Keywords are the combination's domain keywords, lowercased.
	Keywords []string
}

// Func is one scoring heuristic. Implementations return a value in [0,1]
// and must be deterministic in (text, cx).
type Func func(text string, cx Context) float64

// registry maps configuration function references to heuristics.
var registry = map[string]Func{
	"novelty":           Novelty,
	"feasibility":       Feasibility,
	"specificity":       Specificity,
	"comprehensiveness": Comprehensiveness,
	"clarity":           Clarity,
}

// Resolve validates a criteria configuration: every function reference
// must exist and the weight total must be positive. It returns the
// criterion names in sorted order for stable iteration.
func Resolve(cfg types.ScoringConfig) ([]string, error) {
	if len(cfg.Criteria) == 0 {
		return nil, types.Configf("no scoring criteria configured")
	}

	var total float64
	names := make([]string, 0, len(cfg.Criteria))
	for name, crit := range cfg.Criteria {
		if _, ok := registry[crit.Function]; !ok {
			return nil, types.Configf("criterion %q references unknown function %q", name, crit.Function)
		}
		if crit.Weight < 0 {
			return nil, types.Configf("criterion %q has negative weight %g", name, crit.Weight)
		}
		total += crit.Weight
		names = append(names, name)
	}
	if total <= 0 {
		return nil, types.Configf("criterion weights sum to %g, need a positive total", total)
	}

	sort.Strings(names)
	return names, nil
}

// All scores every executed combination in the state and writes the
// scores back onto the combinations. Failed or empty results score zero
// on every criterion rather than erroring. Already-present scores are
// recomputed; scoring is idempotent.
func All(state *types.SessionState, cfg types.ScoringConfig, w io.Writer) error {
	names, err := Resolve(cfg)
	if err != nil {
		return err
	}

	executed := state.Executed()
	siblings := make(map[string][]string, len(executed))
	for _, c := range executed {
		var others []string
		for _, o := range executed {
			if o.ID != c.ID && o.Result.Text != "" {
				others = append(others, o.Result.Text)
			}
		}
		siblings[c.ID] = others
	}

	scored := 0
	for _, c := range executed {
		cx := Context{Siblings: siblings[c.ID]}
		if d := state.Domain(c.DomainID); d != nil {
			cx.Keywords = lowerAll(d.Keywords)
		}
		s := Text(c.Result, cfg, names, cx)
		c.Score = &s
		scored++
	}

	fmt.Fprintf(w, "scored %d result(s) across %d criteria\n", scored, len(names))
	return nil
}

// Text scores a single result. names must come from Resolve so the
// criteria iterate in a fixed order.
func Text(result *types.Result, cfg types.ScoringConfig, names []string, cx Context) types.Score {
	criteria := make(map[string]float64, len(names))

	// A failed or empty result is not an error; it just scores zero.
	if result == nil || result.Status == types.ResultFailed || strings.TrimSpace(result.Text) == "" {
		for _, name := range names {
			criteria[name] = 0
		}
		return types.Score{Criteria: criteria, Aggregate: 0}
	}

	var weighted, totalWeight float64
	for _, name := range names {
		crit := cfg.Criteria[name]
		value := clamp01(registry[crit.Function](result.Text, cx))
		criteria[name] = value
		weighted += crit.Weight * value
		totalWeight += crit.Weight
	}

	return types.Score{
		Criteria:  criteria,
		Aggregate: weighted / totalWeight,
	}
}

// Novelty measures lexical distance from sibling results: one minus the
// highest Jaccard similarity between this text's word set and any
// sibling's. With no siblings the result is trivially novel.
func Novelty(text string, cx Context) float64 {
	if len(cx.Siblings) == 0 {
		return 1
	}

	words := wordSet(text)
	maxSim := 0.0
	for _, sib := range cx.Siblings {
		if sim := jaccard(words, wordSet(sib)); sim > maxSim {
			maxSim = sim
		}
	}
	return 1 - maxSim
}

// Feasibility measures grounding in the domain vocabulary: the fraction
// of domain keywords the text mentions. Without keywords it reports a
// neutral 0.5.
func Feasibility(text string, cx Context) float64 {
	if len(cx.Keywords) == 0 {
		return 0.5
	}
	lower := strings.ToLower(text)
	hits := 0
	for _, kw := range cx.Keywords {
		if strings.Contains(lower, kw) {
			hits++
		}
	}
	return float64(hits) / float64(len(cx.Keywords))
}

// Specificity measures concrete detail density: numbers and domain
// keyword occurrences per hundred words, capped at 1.
func Specificity(text string, cx Context) float64 {
	words := tokenize(text)
	if len(words) == 0 {
		return 0
	}

	details := 0
	for _, w := range words {
		if strings.IndexFunc(w, unicode.IsDigit) >= 0 {
			details++
		}
	}
	lower := strings.ToLower(text)
	for _, kw := range cx.Keywords {
		details += strings.Count(lower, kw)
	}

	return clamp01(float64(details) * 100 / float64(len(words)) / 10)
}

// Comprehensiveness rewards development: sentence count toward a target
// of twelve, with a bonus for multi-paragraph structure.
func Comprehensiveness(text string, _ Context) float64 {
	sentences := countSentences(text)
	if sentences == 0 {
		return 0
	}

	value := float64(sentences) / 12
	if strings.Contains(text, "\n\n") {
		value += 0.1
	}
	return clamp01(value)
}

// Clarity rewards sentences in a readable length band: full marks for a
// mean of 8-24 words per sentence, linearly decaying outside it.
func Clarity(text string, _ Context) float64 {
	sentences := countSentences(text)
	words := len(tokenize(text))
	if sentences == 0 || words == 0 {
		return 0
	}

	mean := float64(words) / float64(sentences)
	switch {
	case mean >= 8 && mean <= 24:
		return 1
	case mean < 8:
		return clamp01(mean / 8)
	default:
		return clamp01(1 - (mean-24)/24)
	}
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// tokenize splits text into lowercase words, stripping punctuation.
func tokenize(text string) []string {
	return strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}

func wordSet(text string) map[string]bool {
	set := make(map[string]bool)
	for _, w := range tokenize(text) {
		set[w] = true
	}
	return set
}

func jaccard(a, b map[string]bool) float64 {
	if len(a) == 0 && len(b) == 0 {
		return 1
	}
	inter := 0
	for w := range a {
		if b[w] {
			inter++
		}
	}
	union := len(a) + len(b) - inter
	if union == 0 {
		return 0
	}
	return float64(inter) / float64(union)
}

func countSentences(text string) int {
	count := 0
	for _, r := range text {
		if r == '.' || r == '!' || r == '?' {
			count++
		}
	}
	if count == 0 && strings.TrimSpace(text) != "" {
		count = 1
	}
	return count
}

func lowerAll(in []string) []string {
	out := make([]string, len(in))
	for i, s := range in {
		out[i] = strings.ToLower(s)
	}
	return out
}
