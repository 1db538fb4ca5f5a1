// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package catalog loads and validates the input catalogs: models,
// instruction templates, query variants, and domains. It supplies
// built-in defaults so the engine runs without a configuration file,
// generates query variations, and supports keyword search over domains.
package catalog

import (
	"fmt"
	"os"
	"strings"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/idea-engine/pkg/types"
)

// Load reads an EngineConfig document from a YAML file. Catalog sections
// absent from the file are filled with the built-in defaults. Models
// without an explicit provider get one inferred from the model name, a
// convenience for configurations that predate the provider field.
func Load(path string) (*types.EngineConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config %s: %w", path, err)
	}

	var cfg types.EngineConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}

	ApplyDefaults(&cfg)

	if err := Validate(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// ApplyDefaults fills empty catalog sections with the built-in defaults
// and resolves missing provider tags.
func ApplyDefaults(cfg *types.EngineConfig) {
	if len(cfg.Models) == 0 {
		cfg.Models = DefaultModels()
	}
	if len(cfg.Instructions) == 0 {
		cfg.Instructions = DefaultInstructions()
	}
	if len(cfg.Queries) == 0 {
		cfg.Queries = DefaultQueries()
	}
	if len(cfg.Domains) == 0 {
		cfg.Domains = DefaultDomains()
	}
	if len(cfg.Scoring.Criteria) == 0 {
		cfg.Scoring = DefaultScoring()
	}

	for i := range cfg.Models {
		if cfg.Models[i].Provider == "" {
			if p := types.InferProvider(cfg.Models[i].Name); p != "" {
				cfg.Models[i].Provider = p
			} else {
				cfg.Models[i].Provider = types.ProviderSimulated
			}
		}
	}
}

// Validate checks catalog integrity: non-empty sections, unique IDs, and
// resolvable parent links on generated query variants.
func Validate(cfg *types.EngineConfig) error {
	if len(cfg.Models) == 0 {
		return types.Configf("models catalog is empty")
	}
	if len(cfg.Instructions) == 0 {
		return types.Configf("instructions catalog is empty")
	}
	if len(cfg.Queries) == 0 {
		return types.Configf("queries catalog is empty")
	}
	if len(cfg.Domains) == 0 {
		return types.Configf("domains catalog is empty")
	}

	seen := make(map[string]string)
	check := func(kind, id string) error {
		if id == "" {
			return types.Configf("%s with empty id", kind)
		}
		key := kind + ":" + id
		if _, dup := seen[key]; dup {
			return types.Configf("duplicate %s id %q", kind, id)
		}
		seen[key] = kind
		return nil
	}

	for _, m := range cfg.Models {
		if err := check("model", m.ID); err != nil {
			return err
		}
	}
	for _, t := range cfg.Instructions {
		if err := check("instruction", t.ID); err != nil {
			return err
		}
	}
	queryIDs := make(map[string]bool)
	for _, q := range cfg.Queries {
		if err := check("query", q.ID); err != nil {
			return err
		}
		queryIDs[q.ID] = true
	}
	for _, q := range cfg.Queries {
		if q.Origin == types.OriginGenerated && q.ParentID != "" && !queryIDs[q.ParentID] {
			return types.Configf("query %q references unknown parent %q", q.ID, q.ParentID)
		}
	}
	for _, d := range cfg.Domains {
		if err := check("domain", d.ID); err != nil {
			return err
		}
	}
	return nil
}

// SearchDomains returns the domains whose name, description, or keywords
// contain the term, case-insensitively. An empty term matches nothing.
func SearchDomains(domains []types.Domain, term string) []types.Domain {
	term = strings.ToLower(strings.TrimSpace(term))
	if term == "" {
		return nil
	}

	var matches []types.Domain
	for _, d := range domains {
		if strings.Contains(strings.ToLower(d.Name), term) ||
			strings.Contains(strings.ToLower(d.Description), term) {
			matches = append(matches, d)
			continue
		}
		for _, kw := range d.Keywords {
			if strings.Contains(strings.ToLower(kw), term) {
				matches = append(matches, d)
				break
			}
		}
	}
	return matches
}

// RelatedDomains returns domains sharing at least minMatches keywords
// with the given domain, preserving catalog order.
func RelatedDomains(domains []types.Domain, domainID string, minMatches int) []types.Domain {
	if minMatches <= 0 {
		minMatches = 2
	}

	var base *types.Domain
	for i := range domains {
		if domains[i].ID == domainID {
			base = &domains[i]
			break
		}
	}
	if base == nil {
		return nil
	}

	baseKeywords := make(map[string]bool, len(base.Keywords))
	for _, kw := range base.Keywords {
		baseKeywords[strings.ToLower(kw)] = true
	}

	var related []types.Domain
	for _, d := range domains {
		if d.ID == domainID {
			continue
		}
		matches := 0
		for _, kw := range d.Keywords {
			if baseKeywords[strings.ToLower(kw)] {
				matches++
			}
		}
		if matches >= minMatches {
			related = append(related, d)
		}
	}
	return related
}

// Limit returns the first n elements of a catalog slice, or the whole
// slice when n is zero or exceeds its length. Selection is positional so
// repeated runs pick the same subset.
func Limit[T any](items []T, n int) []T {
	if n <= 0 || n >= len(items) {
		return items
	}
	return items[:n]
}
