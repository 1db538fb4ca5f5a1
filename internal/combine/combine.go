// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package combine enumerates (model, instruction, query, domain) tuples
// under a combination budget, with optional balanced per-model sampling.
package combine

import (
	"github.com/pdiddy/idea-engine/pkg/types"
)

// Inputs holds the catalogs the generator draws from.
type Inputs struct {
	Models       []types.ModelDescriptor
	Instructions []types.InstructionTemplate
	Queries      []types.QueryVariant
	Domains      []types.Domain
}

// Generate produces up to cfg.MaxCombinations unique pending
// combinations not already present in existing (a set of tuple keys).
// Enumeration order is deterministic: models outer, then instructions,
// queries, domains. When the full product exceeds the budget, unbalanced
// mode truncates that enumeration; balanced mode divides the budget into
// per-model quotas (remainder to the first models) and walks each
// model's instruction×query×domain product with the instruction index
// advancing fastest, so small quotas still span instruction styles.
//
// Re-invoking against a state that already holds some tuples only yields
// the missing ones; generation is idempotent.
func Generate(in Inputs, cfg types.GenerationConfig, existing map[string]bool) ([]types.Combination, error) {
	if len(in.Models) == 0 {
		return nil, types.Configf("no models to combine")
	}
	if len(in.Instructions) == 0 {
		return nil, types.Configf("no instruction templates to combine")
	}
	if len(in.Queries) == 0 {
		return nil, types.Configf("no query variants to combine")
	}
	if len(in.Domains) == 0 {
		return nil, types.Configf("no domains to combine")
	}
	if cfg.MaxCombinations < 1 {
		return nil, types.Configf("max_combinations must be at least 1, got %d", cfg.MaxCombinations)
	}

	product := len(in.Models) * len(in.Instructions) * len(in.Queries) * len(in.Domains)

	var combos []types.Combination
	if product <= cfg.MaxCombinations || !cfg.Balanced {
		combos = enumerate(in, cfg.MaxCombinations)
	} else {
		combos = enumerateBalanced(in, cfg.MaxCombinations)
	}

	if existing == nil {
		return combos, nil
	}

	fresh := combos[:0]
	for _, c := range combos {
		if !existing[c.ID] {
			fresh = append(fresh, c)
		}
	}
	return fresh, nil
}

// enumerate walks the full cartesian product in canonical order,
// stopping at the budget.
func enumerate(in Inputs, budget int) []types.Combination {
	var combos []types.Combination
	for _, m := range in.Models {
		for _, t := range in.Instructions {
			for _, q := range in.Queries {
				for _, d := range in.Domains {
					if len(combos) >= budget {
						return combos
					}
					combos = append(combos, newCombination(m.ID, t.ID, q.ID, d.ID))
				}
			}
		}
	}
	return combos
}

// enumerateBalanced gives each model a near-equal share of the budget.
// Quotas differ by at most one; the remainder goes to the first models
// in enumeration order. Within a model the tuple at position k uses
// instruction k mod nI, query (k / nI) mod nQ, domain (k / nI / nQ) mod nD.
func enumerateBalanced(in Inputs, budget int) []types.Combination {
	nI, nQ, nD := len(in.Instructions), len(in.Queries), len(in.Domains)
	perModel := nI * nQ * nD

	quota := budget / len(in.Models)
	remainder := budget % len(in.Models)

	var combos []types.Combination
	for mi, m := range in.Models {
		n := quota
		if mi < remainder {
			n++
		}
		if n > perModel {
			n = perModel
		}
		for k := 0; k < n; k++ {
			t := in.Instructions[k%nI]
			q := in.Queries[(k/nI)%nQ]
			d := in.Domains[(k/(nI*nQ))%nD]
			combos = append(combos, newCombination(m.ID, t.ID, q.ID, d.ID))
		}
	}
	return combos
}

func newCombination(modelID, instructionID, queryID, domainID string) types.Combination {
	return types.Combination{
		ID:            types.CombinationKey(modelID, instructionID, queryID, domainID),
		ModelID:       modelID,
		InstructionID: instructionID,
		QueryID:       queryID,
		DomainID:      domainID,
		Status:        types.StatusPending,
	}
}
