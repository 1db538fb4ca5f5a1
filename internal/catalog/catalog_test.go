// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package catalog

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/pdiddy/idea-engine/pkg/types"
)

func TestLoad_FillsDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "idea-engine.yaml")
	doc := `
models:
  - id: m_custom
    name: claude-3-opus-20240229
generation:
  max_combinations: 20
`
	if err := os.WriteFile(path, []byte(doc), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if len(cfg.Models) != 1 || cfg.Models[0].ID != "m_custom" {
		t.Errorf("models = %+v, want the configured model only", cfg.Models)
	}
	if cfg.Models[0].Provider != "anthropic" {
		t.Errorf("provider = %q, want inferred anthropic", cfg.Models[0].Provider)
	}
	if len(cfg.Instructions) == 0 {
		t.Error("instructions should fall back to defaults")
	}
	if len(cfg.Domains) == 0 {
		t.Error("domains should fall back to defaults")
	}
	if len(cfg.Scoring.Criteria) == 0 {
		t.Error("scoring criteria should fall back to defaults")
	}
	if cfg.Generation.MaxCombinations != 20 {
		t.Errorf("max_combinations = %d, want 20", cfg.Generation.MaxCombinations)
	}
}

func TestLoad_MissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Fatal("expected error for missing config file")
	}
}

func TestApplyDefaults_ProviderInference(t *testing.T) {
	tests := []struct {
		name     string
		model    string
		provider string
		want     string
	}{
		{name: "claude name", model: "claude-3-sonnet-20240229", want: "anthropic"},
		{name: "gpt name", model: "gpt-4o-mini", want: "openai"},
		{name: "unknown name", model: "local-llama", want: "simulated"},
		{name: "explicit provider wins", model: "claude-3-haiku", provider: "openai", want: "openai"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &types.EngineConfig{
				Models: []types.ModelDescriptor{{ID: "m", Name: tt.model, Provider: tt.provider}},
			}
			ApplyDefaults(cfg)
			if got := cfg.Models[0].Provider; got != tt.want {
				t.Errorf("provider = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestValidate(t *testing.T) {
	valid := func() *types.EngineConfig {
		cfg := &types.EngineConfig{}
		ApplyDefaults(cfg)
		return cfg
	}

	tests := []struct {
		name   string
		mutate func(cfg *types.EngineConfig)
	}{
		{"empty models", func(cfg *types.EngineConfig) { cfg.Models = nil }},
		{"duplicate model id", func(cfg *types.EngineConfig) {
			cfg.Models = append(cfg.Models, cfg.Models[0])
		}},
		{"duplicate query id", func(cfg *types.EngineConfig) {
			cfg.Queries = append(cfg.Queries, cfg.Queries[0])
		}},
		{"dangling variant parent", func(cfg *types.EngineConfig) {
			cfg.Queries = append(cfg.Queries, types.QueryVariant{
				ID: "q_bad", Text: "t", Origin: types.OriginGenerated, ParentID: "missing",
			})
		}},
		{"empty instruction id", func(cfg *types.EngineConfig) {
			cfg.Instructions[0].ID = ""
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)
			err := Validate(cfg)
			var cfgErr *types.ConfigError
			if !errors.As(err, &cfgErr) {
				t.Errorf("Validate = %v, want ConfigError", err)
			}
		})
	}

	if err := Validate(valid()); err != nil {
		t.Errorf("default catalogs should validate: %v", err)
	}
}

func TestSearchDomains(t *testing.T) {
	domains := DefaultDomains()

	tests := []struct {
		term string
		want int
	}{
		{"urban", 1},
		{"HEALTH", 1},
		{"", 0},
		{"zzzz", 0},
	}
	for _, tt := range tests {
		got := SearchDomains(domains, tt.term)
		if len(got) != tt.want {
			t.Errorf("SearchDomains(%q) found %d domains, want %d", tt.term, len(got), tt.want)
		}
	}
}

func TestRelatedDomains(t *testing.T) {
	domains := []types.Domain{
		{ID: "a", Keywords: []string{"water", "energy", "transport"}},
		{ID: "b", Keywords: []string{"water", "energy", "housing"}},
		{ID: "c", Keywords: []string{"water", "finance"}},
		{ID: "d", Keywords: []string{"finance"}},
	}

	related := RelatedDomains(domains, "a", 2)
	if len(related) != 1 || related[0].ID != "b" {
		t.Errorf("related = %+v, want just b (shares water+energy)", related)
	}

	oneMatch := RelatedDomains(domains, "a", 1)
	if len(oneMatch) != 2 {
		t.Errorf("minMatches=1 found %d, want 2", len(oneMatch))
	}

	if got := RelatedDomains(domains, "missing", 1); got != nil {
		t.Errorf("unknown base domain returned %+v", got)
	}
}

func TestLimit(t *testing.T) {
	items := []int{1, 2, 3}

	if got := Limit(items, 2); len(got) != 2 || got[0] != 1 {
		t.Errorf("Limit(3 items, 2) = %v", got)
	}
	if got := Limit(items, 0); len(got) != 3 {
		t.Errorf("Limit(3 items, 0) = %v, want all", got)
	}
	if got := Limit(items, 10); len(got) != 3 {
		t.Errorf("Limit(3 items, 10) = %v, want all", got)
	}
}

func TestDefaults_Validate(t *testing.T) {
	cfg := &types.EngineConfig{}
	ApplyDefaults(cfg)

	if len(cfg.Instructions) != 10 {
		t.Errorf("default instructions = %d, want 10", len(cfg.Instructions))
	}
	if len(cfg.Queries) != 5 {
		t.Errorf("default queries = %d, want 5", len(cfg.Queries))
	}
	if len(cfg.Domains) != 5 {
		t.Errorf("default domains = %d, want 5", len(cfg.Domains))
	}

	var total float64
	for _, c := range cfg.Scoring.Criteria {
		total += c.Weight
	}
	if total < 0.999 || total > 1.001 {
		t.Errorf("default criterion weights sum to %v, want 1", total)
	}
}
