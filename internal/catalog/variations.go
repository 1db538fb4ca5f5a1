// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package catalog

import (
	"fmt"
	"strings"

	"github.com/pdiddy/idea-engine/pkg/types"
)

// Variation strategies rewrite a base query into a related question.
// Strategies are applied in a fixed cycle and the rewrite phrase is
// chosen by position, so the same base query and count always produce
// the same variants. Variant IDs derive from the base ID and strategy,
// which keeps combination tuples stable across incremental runs.

var constraintPhrases = []string{
	"with limited resources",
	"within a tight budget",
	"in a short timeframe",
	"with minimal technological infrastructure",
	"without requiring specialized expertise",
	"while ensuring accessibility for all users",
	"while minimizing environmental impact",
	"while adhering to strict regulatory requirements",
	"in a way that can be incrementally implemented",
	"without disrupting existing systems",
}

var perspectivePhrases = []string{
	"from the perspective of end users",
	"from a sustainability standpoint",
	"from a business efficiency perspective",
	"for developing countries",
	"for rural communities",
	"for elderly populations",
	"for people with disabilities",
	"for young professionals",
}

var contextPhrases = []string{
	"in the context of rapid urbanization",
	"given the rise of remote work",
	"in the era of climate change",
	"with increasing automation",
	"in light of changing demographics",
	"amidst economic uncertainty",
	"in response to public health challenges",
	"with the rise of data-driven decision making",
}

var aspectPhrases = []string{
	"the technological aspects of",
	"the social implications of",
	"the economic viability of",
	"the implementation challenges in",
	"the user adoption factors for",
	"the long-term sustainability of",
	"the scalability considerations for",
	"the ethical dimensions of",
}

var approachPhrases = []string{
	"Instead of conventional solutions, how might we",
	"What if we considered a bottom-up approach to",
	"How could emerging technologies enable us to",
	"What would a nature-inspired solution look like for",
	"How might we leverage collective intelligence to",
	"What cross-industry insights could be applied to",
	"How could behavioral science principles help us",
	"What would a minimalist approach look like for",
}

// strategy rewrites a base query. pick selects among a strategy's
// phrases by position.
type strategy struct {
	name    string
	rewrite func(base types.QueryVariant, pick int) string
}

var strategies = []strategy{
	{"constraints", func(base types.QueryVariant, pick int) string {
		phrase := constraintPhrases[pick%len(constraintPhrases)]
		return appendClause(base.Text, phrase)
	}},
	{"perspective", func(base types.QueryVariant, pick int) string {
		phrase := perspectivePhrases[pick%len(perspectivePhrases)]
		return appendClause(base.Text, phrase)
	}},
	{"context", func(base types.QueryVariant, pick int) string {
		phrase := contextPhrases[pick%len(contextPhrases)]
		return appendClause(base.Text, phrase)
	}},
	{"rephrase", func(base types.QueryVariant, _ int) string {
		return rephrase(base.Text)
	}},
	{"aspect", func(base types.QueryVariant, pick int) string {
		phrase := aspectPhrases[pick%len(aspectPhrases)]
		return focusOnAspect(base.Text, phrase)
	}},
	{"approach", func(base types.QueryVariant, pick int) string {
		phrase := approachPhrases[pick%len(approachPhrases)]
		return alternativeApproach(base.Text, phrase)
	}},
}

// Variations generates count deterministic variants of a base query,
// cycling the strategies in fixed order and skipping rewrites that
// duplicate an earlier text.
func Variations(base types.QueryVariant, count int) []types.QueryVariant {
	if count <= 0 {
		return nil
	}

	var variants []types.QueryVariant
	seen := map[string]bool{base.Text: true}

	// Each strategy gets up to three passes before giving up; rephrase
	// in particular produces a single text per base query.
	for k := 0; len(variants) < count && k < count*3; k++ {
		st := strategies[k%len(strategies)]
		text := st.rewrite(base, k/len(strategies))
		if seen[text] {
			continue
		}
		seen[text] = true

		variants = append(variants, types.QueryVariant{
			ID:       fmt.Sprintf("%s_%s_%d", base.ID, st.name, len(variants)+1),
			Text:     text,
			Origin:   types.OriginGenerated,
			ParentID: base.ID,
			Strategy: st.name,
		})
	}
	return variants
}

// appendClause inserts a qualifying clause before the trailing question
// mark, or appends it when there is none.
func appendClause(text, clause string) string {
	if strings.HasSuffix(text, "?") {
		return strings.TrimSuffix(text, "?") + " " + clause + "?"
	}
	return text + " " + clause
}

// rephrase swaps common question openers for equivalents.
func rephrase(text string) string {
	lower := strings.ToLower(text)

	var out string
	switch {
	case strings.HasPrefix(lower, "how might we"):
		out = "what are effective ways to" + lower[len("how might we"):]
	case strings.HasPrefix(lower, "what are"):
		out = "how might we identify" + lower[len("what are"):]
	case strings.HasPrefix(lower, "how can"):
		out = "what strategies would allow us to" + lower[len("how can"):]
	case strings.HasPrefix(lower, "what strategies"):
		out = "how might we develop approaches to" + lower[len("what strategies"):]
	default:
		out = "what innovative approaches could address the challenge of " + strings.TrimSuffix(lower, "?")
	}

	if !strings.HasSuffix(out, "?") {
		out += "?"
	}
	return strings.ToUpper(out[:1]) + out[1:]
}

// focusOnAspect narrows the question to one aspect of its subject.
func focusOnAspect(text, aspect string) string {
	subject := extractSubject(text)
	return fmt.Sprintf("Considering %s %s, how might we address this challenge?", aspect, subject)
}

// alternativeApproach reframes the question through a different opener.
func alternativeApproach(text, opener string) string {
	subject := extractSubject(text)
	out := fmt.Sprintf("%s %s", opener, subject)
	if !strings.HasSuffix(out, "?") {
		out += "?"
	}
	return out
}

// extractSubject strips the question opener and punctuation, leaving the
// core topic.
func extractSubject(text string) string {
	lower := strings.ToLower(strings.TrimSuffix(strings.TrimSpace(text), "?"))
	for _, opener := range []string{
		"how might we ",
		"how can we ",
		"how could we ",
		"what are ",
		"what strategies ",
	} {
		if strings.HasPrefix(lower, opener) {
			return strings.TrimPrefix(lower, opener)
		}
	}
	return lower
}
