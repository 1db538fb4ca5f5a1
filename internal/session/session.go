// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package session persists the exploration session state as a single
// versioned JSON document. Load migrates older schemas forward and
// validates referential integrity; Save writes a canonical encoding so
// an unmodified load-save cycle is byte-identical.
package session

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/pdiddy/idea-engine/pkg/types"
)

// New returns an empty session state at the current schema version.
func New() *types.SessionState {
	now := time.Now().UTC()
	return &types.SessionState{
		Version:   types.SchemaVersion,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Load reads and validates a session document. A missing file is an
// error; callers that treat absence as "fresh session" check first.
func Load(path string) (*types.SessionState, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading session %s: %w", path, err)
	}

	var state types.SessionState
	if err := json.Unmarshal(data, &state); err != nil {
		return nil, fmt.Errorf("parsing session %s: %w", path, err)
	}

	migrate(&state)

	if err := Validate(&state); err != nil {
		return nil, fmt.Errorf("loading session %s: %w", path, err)
	}
	return &state, nil
}

// Save writes the session document atomically: a temp file in the target
// directory followed by a rename.
func Save(path string, state *types.SessionState) error {
	data, err := Encode(state)
	if err != nil {
		return err
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating session directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".session-*.json")
	if err != nil {
		return fmt.Errorf("creating temp session file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("writing session: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("closing session file: %w", err)
	}

	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("replacing session %s: %w", path, err)
	}
	return nil
}

// Encode marshals the state in its canonical form: two-space indented
// JSON with a trailing newline. Map keys are sorted by the encoder, so
// the same state always encodes to the same bytes.
func Encode(state *types.SessionState) ([]byte, error) {
	data, err := json.MarshalIndent(state, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshaling session: %w", err)
	}
	return append(data, '\n'), nil
}

// migrate fills fields absent from documents written by older schema
// versions. Version 0 documents predate the schema_version field itself.
func migrate(state *types.SessionState) {
	if state.Version == 0 {
		state.Version = types.SchemaVersion
	}
	if state.CreatedAt.IsZero() {
		state.CreatedAt = time.Now().UTC()
	}
	if state.UpdatedAt.IsZero() {
		state.UpdatedAt = state.CreatedAt
	}
	for i := range state.Combinations {
		c := &state.Combinations[i]
		if c.ID == "" {
			c.ID = c.Key()
		}
		if c.Status == "" {
			if c.Result != nil {
				c.Status = types.StatusExecuted
			} else {
				c.Status = types.StatusPending
			}
		}
	}
}

// Validate checks the state invariants: tuple uniqueness, executed
// combinations carrying results, and idea sources resolving to existing
// combinations whose models appear in the contribution record. Idea
// ClusterIDs are historical provenance from the analysis pass that
// produced them and are deliberately not checked, since re-clustering
// replaces the session's clusters.
func Validate(state *types.SessionState) error {
	if state.Version > types.SchemaVersion {
		return &types.StateIntegrityError{
			ID:     fmt.Sprintf("schema_version %d", state.Version),
			Reason: fmt.Sprintf("newer than supported version %d", types.SchemaVersion),
		}
	}

	seen := make(map[string]bool, len(state.Combinations))
	for i := range state.Combinations {
		c := &state.Combinations[i]
		key := c.Key()
		if c.ID != key {
			return &types.StateIntegrityError{ID: c.ID, Reason: fmt.Sprintf("id does not match tuple key %s", key)}
		}
		if seen[key] {
			return &types.StateIntegrityError{ID: key, Reason: "duplicate combination tuple"}
		}
		seen[key] = true

		if c.Status == types.StatusExecuted && c.Result == nil {
			return &types.StateIntegrityError{ID: key, Reason: "executed combination has no result"}
		}
	}

	for _, cluster := range state.Clusters {
		for _, member := range cluster.Members {
			if !seen[member] {
				return &types.StateIntegrityError{ID: cluster.ID, Reason: fmt.Sprintf("cluster references unknown combination %s", member)}
			}
		}
	}

	for _, idea := range state.Ideas {
		sourceModels := make(map[string]bool)
		for _, src := range idea.Sources {
			if !seen[src] {
				return &types.StateIntegrityError{ID: idea.ID, Reason: fmt.Sprintf("idea references unknown combination %s", src)}
			}
			if c := state.Combination(src); c != nil {
				sourceModels[c.ModelID] = true
			}
		}

		var total float64
		for modelID, share := range idea.Contributions {
			if !sourceModels[modelID] {
				return &types.StateIntegrityError{ID: idea.ID, Reason: fmt.Sprintf("contribution from model %s outside idea sources", modelID)}
			}
			total += share
		}
		if total < 1-1e-6 || total > 1+1e-6 {
			return &types.StateIntegrityError{ID: idea.ID, Reason: fmt.Sprintf("contribution shares sum to %g, want 1", total)}
		}
	}

	return nil
}

// MergeCombinations appends combinations whose tuples are not already
// present and returns how many were added. Existing combinations keep
// their results; merging the same batch twice is a no-op.
func MergeCombinations(state *types.SessionState, combos []types.Combination) int {
	existing := make(map[string]bool, len(state.Combinations))
	for _, c := range state.Combinations {
		existing[c.ID] = true
	}

	added := 0
	for _, c := range combos {
		if c.ID == "" {
			c.ID = c.Key()
		}
		if existing[c.ID] {
			continue
		}
		existing[c.ID] = true
		state.Combinations = append(state.Combinations, c)
		added++
	}
	if added > 0 {
		Touch(state)
	}
	return added
}

// MergeCatalogs records any catalog entries the state has not seen yet.
// Entries already present are left untouched so descriptors stay
// immutable once referenced.
func MergeCatalogs(state *types.SessionState, cfg *types.EngineConfig) {
	for _, m := range cfg.Models {
		if state.Model(m.ID) == nil {
			state.Models = append(state.Models, m)
		}
	}
	for _, t := range cfg.Instructions {
		if state.Instruction(t.ID) == nil {
			state.Instructions = append(state.Instructions, t)
		}
	}
	for _, q := range cfg.Queries {
		if state.Query(q.ID) == nil {
			state.Queries = append(state.Queries, q)
		}
	}
	for _, d := range cfg.Domains {
		if state.Domain(d.ID) == nil {
			state.Domains = append(state.Domains, d)
		}
	}
}

// Touch bumps the modification timestamp.
func Touch(state *types.SessionState) {
	state.UpdatedAt = time.Now().UTC()
}
