// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package session

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"
	"time"

	"github.com/pdiddy/idea-engine/pkg/types"
)

func populatedState() *types.SessionState {
	state := New()
	state.Models = []types.ModelDescriptor{{ID: "m1", Name: "test", Provider: "simulated"}}
	state.Instructions = []types.InstructionTemplate{{ID: "i1", Template: "Think about {domain}."}}
	state.Queries = []types.QueryVariant{{ID: "q1", Text: "How?", Origin: types.OriginBase}}
	state.Domains = []types.Domain{{ID: "d1", Name: "Testing"}}
	state.Combinations = []types.Combination{
		{
			ID: "m1_i1_q1_d1", ModelID: "m1", InstructionID: "i1", QueryID: "q1", DomainID: "d1",
			Status: types.StatusExecuted,
			Result: &types.Result{
				Prompt: "p", Text: "response", Status: types.ResultOK,
				Timestamp: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
				Duration:  2 * time.Second,
			},
			Score: &types.Score{Criteria: map[string]float64{"novelty": 0.5}, Aggregate: 0.5},
		},
	}
	state.Ideas = []types.SynthesizedIdea{
		{
			ID: "idea_1", Title: "T", Text: "body", Method: "refinement",
			Sources:       []string{"m1_i1_q1_d1"},
			Contributions: map[string]float64{"m1": 1},
		},
	}
	state.Scoring = &types.ScoringConfig{
		Criteria: map[string]types.CriterionConfig{
			"novelty": {Description: "d", Weight: 1, Function: "novelty"},
		},
	}
	return state
}

func TestSaveLoad_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.json")
	state := populatedState()

	if err := Save(path, state); err != nil {
		t.Fatalf("Save: %v", err)
	}
	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !reflect.DeepEqual(state, loaded) {
		t.Errorf("round trip changed state:\nsaved:  %+v\nloaded: %+v", state, loaded)
	}
}

func TestSaveLoad_ByteStable(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.json")
	state := populatedState()

	if err := Save(path, state); err != nil {
		t.Fatalf("Save: %v", err)
	}
	first, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if err := Save(path, loaded); err != nil {
		t.Fatalf("re-Save: %v", err)
	}
	second, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}

	if !bytes.Equal(first, second) {
		t.Error("unmodified load-save cycle changed the document bytes")
	}
	if len(first) == 0 || first[len(first)-1] != '\n' {
		t.Error("document should end with a newline")
	}
}

func TestLoad_MigratesVersionZero(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.json")
	// A pre-versioning document: no schema_version, no status fields.
	doc := `{
  "models": [{"id": "m1", "name": "test"}],
  "combinations": [
    {"model_id": "m1", "instruction_id": "i1", "query_id": "q1", "domain_id": "d1",
     "result": {"prompt": "p", "text": "r", "status": "ok", "timestamp": "2026-01-01T00:00:00Z", "duration": 0}},
    {"model_id": "m1", "instruction_id": "i2", "query_id": "q1", "domain_id": "d1"}
  ]
}`
	if err := os.WriteFile(path, []byte(doc), 0o644); err != nil {
		t.Fatal(err)
	}

	state, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if state.Version != types.SchemaVersion {
		t.Errorf("version = %d, want %d", state.Version, types.SchemaVersion)
	}
	if state.CreatedAt.IsZero() || state.UpdatedAt.IsZero() {
		t.Error("migration should fill timestamps")
	}

	first := state.Combinations[0]
	if first.ID != "m1_i1_q1_d1" {
		t.Errorf("derived id = %q", first.ID)
	}
	if first.Status != types.StatusExecuted {
		t.Errorf("combination with result migrated to %q, want executed", first.Status)
	}
	if state.Combinations[1].Status != types.StatusPending {
		t.Errorf("combination without result migrated to %q, want pending", state.Combinations[1].Status)
	}
}

func TestLoad_RejectsNewerSchema(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.json")
	doc := `{"schema_version": 99}`
	if err := os.WriteFile(path, []byte(doc), 0o644); err != nil {
		t.Fatal(err)
	}

	_, err := Load(path)
	var integrity *types.StateIntegrityError
	if !errors.As(err, &integrity) {
		t.Fatalf("err = %v, want StateIntegrityError", err)
	}
}

func TestValidate_Integrity(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(state *types.SessionState)
	}{
		{"id mismatch", func(s *types.SessionState) {
			s.Combinations[0].ID = "wrong"
		}},
		{"duplicate tuple", func(s *types.SessionState) {
			s.Combinations = append(s.Combinations, s.Combinations[0])
		}},
		{"executed without result", func(s *types.SessionState) {
			s.Combinations[0].Result = nil
		}},
		{"cluster member unknown", func(s *types.SessionState) {
			s.Clusters = []types.Cluster{{ID: "cluster_1", Members: []string{"ghost"}}}
		}},
		{"idea source unknown", func(s *types.SessionState) {
			s.Ideas[0].Sources = []string{"ghost"}
		}},
		{"contribution outside sources", func(s *types.SessionState) {
			s.Ideas[0].Contributions = map[string]float64{"m1": 0.5, "intruder": 0.5}
		}},
		{"shares do not sum to one", func(s *types.SessionState) {
			s.Ideas[0].Contributions = map[string]float64{"m1": 0.7}
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			state := populatedState()
			tt.mutate(state)
			err := Validate(state)
			var integrity *types.StateIntegrityError
			if !errors.As(err, &integrity) {
				t.Errorf("Validate = %v, want StateIntegrityError", err)
			}
		})
	}

	if err := Validate(populatedState()); err != nil {
		t.Errorf("valid state rejected: %v", err)
	}
}

func TestValidate_IdeaClusterRefsAreGenerationScoped(t *testing.T) {
	// Re-running analysis replaces the session's clusters, so an idea may
	// reference clusters that no longer exist. That is provenance, not
	// corruption.
	state := populatedState()
	state.Ideas[0].ClusterIDs = []string{"cluster_gone"}
	state.Clusters = nil

	if err := Validate(state); err != nil {
		t.Errorf("stale idea cluster reference rejected: %v", err)
	}
}

func TestMergeCombinations_Idempotent(t *testing.T) {
	state := New()
	batch := []types.Combination{
		{ID: "m1_i1_q1_d1", ModelID: "m1", InstructionID: "i1", QueryID: "q1", DomainID: "d1", Status: types.StatusPending},
		{ID: "m1_i2_q1_d1", ModelID: "m1", InstructionID: "i2", QueryID: "q1", DomainID: "d1", Status: types.StatusPending},
	}

	if added := MergeCombinations(state, batch); added != 2 {
		t.Errorf("first merge added %d, want 2", added)
	}
	if added := MergeCombinations(state, batch); added != 0 {
		t.Errorf("second merge added %d, want 0", added)
	}
	if len(state.Combinations) != 2 {
		t.Errorf("state holds %d combinations, want 2", len(state.Combinations))
	}
}

func TestMergeCombinations_KeepsExistingResults(t *testing.T) {
	state := New()
	executed := types.Combination{
		ID: "m1_i1_q1_d1", ModelID: "m1", InstructionID: "i1", QueryID: "q1", DomainID: "d1",
		Status: types.StatusExecuted,
		Result: &types.Result{Text: "kept", Status: types.ResultOK},
	}
	state.Combinations = []types.Combination{executed}

	fresh := executed
	fresh.Status = types.StatusPending
	fresh.Result = nil
	MergeCombinations(state, []types.Combination{fresh})

	if state.Combinations[0].Result == nil || state.Combinations[0].Result.Text != "kept" {
		t.Error("merge overwrote an existing result")
	}
}

func TestMergeCatalogs_AppendOnly(t *testing.T) {
	state := New()
	cfg := &types.EngineConfig{
		Models:  []types.ModelDescriptor{{ID: "m1", Name: "original"}},
		Domains: []types.Domain{{ID: "d1"}},
	}
	MergeCatalogs(state, cfg)

	changed := &types.EngineConfig{
		Models:  []types.ModelDescriptor{{ID: "m1", Name: "renamed"}, {ID: "m2", Name: "new"}},
		Domains: []types.Domain{{ID: "d1"}},
	}
	MergeCatalogs(state, changed)

	if len(state.Models) != 2 {
		t.Fatalf("models = %d, want 2", len(state.Models))
	}
	if state.Models[0].Name != "original" {
		t.Errorf("existing descriptor mutated to %q", state.Models[0].Name)
	}
	if len(state.Domains) != 1 {
		t.Errorf("domains = %d, want 1", len(state.Domains))
	}
}
