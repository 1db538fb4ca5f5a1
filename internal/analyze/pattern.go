// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package analyze finds structure in generated results: recurring
// phrases across the result set, and semantic clusters over the
// top-scoring results.
package analyze

import (
	"sort"
	"strings"
	"unicode"

	"github.com/pdiddy/idea-engine/pkg/types"
)

// TextRef pairs a combination ID with its result text.
type TextRef struct {
	ID   string
	Text string
}

// Phrase is one recurring n-gram with its total occurrence count and the
// IDs of the results it appears in.
type Phrase struct {
	Text      string   `json:"text" yaml:"text"`
	Frequency int      `json:"frequency" yaml:"frequency"`
	ResultIDs []string `json:"result_ids" yaml:"result_ids"`
}

// DetectPatterns extracts contiguous word n-grams for each length in
// [cfg.MinPhraseLength, cfg.MaxPhraseLength], case-normalized with
// punctuation stripped, and keeps those occurring at least
// cfg.MinFrequency times across all texts. Frequency counts occurrences,
// not supporting documents. Ranking is frequency descending, then phrase
// length descending, then lexicographic, so output order is stable.
func DetectPatterns(texts []TextRef, cfg types.EvaluationConfig) []Phrase {
	minLen := cfg.MinPhraseLength
	if minLen <= 0 {
		minLen = 2
	}
	maxLen := cfg.MaxPhraseLength
	if maxLen < minLen {
		maxLen = minLen
	}
	minFreq := cfg.MinFrequency
	if minFreq <= 0 {
		minFreq = 2
	}

	counts := make(map[string]int)
	supporters := make(map[string][]string)
	supporterSeen := make(map[string]map[string]bool)

	for _, ref := range texts {
		words := splitWords(ref.Text)
		for n := minLen; n <= maxLen; n++ {
			for i := 0; i+n <= len(words); i++ {
				phrase := strings.Join(words[i:i+n], " ")
				counts[phrase]++
				if supporterSeen[phrase] == nil {
					supporterSeen[phrase] = make(map[string]bool)
				}
				if !supporterSeen[phrase][ref.ID] {
					supporterSeen[phrase][ref.ID] = true
					supporters[phrase] = append(supporters[phrase], ref.ID)
				}
			}
		}
	}

	var phrases []Phrase
	for text, freq := range counts {
		if freq >= minFreq {
			phrases = append(phrases, Phrase{
				Text:      text,
				Frequency: freq,
				ResultIDs: supporters[text],
			})
		}
	}

	sort.Slice(phrases, func(i, j int) bool {
		if phrases[i].Frequency != phrases[j].Frequency {
			return phrases[i].Frequency > phrases[j].Frequency
		}
		li, lj := phraseLen(phrases[i].Text), phraseLen(phrases[j].Text)
		if li != lj {
			return li > lj
		}
		return phrases[i].Text < phrases[j].Text
	})

	return phrases
}

// splitWords lowercases and splits on anything that is not a letter or
// digit, so punctuation never leaks into phrases.
func splitWords(text string) []string {
	return strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}

func phraseLen(phrase string) int {
	return strings.Count(phrase, " ") + 1
}
