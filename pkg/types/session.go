// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import (
	"fmt"
	"time"
)

// SchemaVersion is the current session document schema version. Load
// migrates older documents forward before validation.
const SchemaVersion = 1

// CombinationStatus tracks a combination through its lifecycle.
type CombinationStatus string

const (
	StatusPending  CombinationStatus = "pending"
	StatusExecuted CombinationStatus = "executed"
)

// ResultStatus records how a result was produced.
type ResultStatus string

const (
	ResultOK        ResultStatus = "ok"
	ResultFailed    ResultStatus = "failed"
	ResultSimulated ResultStatus = "simulated"
)

// CombinationKey builds the canonical tuple identifier.
func CombinationKey(modelID, instructionID, queryID, domainID string) string {
	return fmt.Sprintf("%s_%s_%s_%s", modelID, instructionID, queryID, domainID)
}

// Combination is one (model, instruction, query, domain) tuple to execute.
// Tuples are unique within a session; re-adding an identical tuple is a no-op.
type Combination struct {
	// ID is the canonical tuple key from CombinationKey.
	ID string `json:"id" yaml:"id"`

	ModelID       string `json:"model_id" yaml:"model_id"`
	InstructionID string `json:"instruction_id" yaml:"instruction_id"`
	QueryID       string `json:"query_id" yaml:"query_id"`
	DomainID      string `json:"domain_id" yaml:"domain_id"`

	// Status is pending until the scheduler records a Result.
	Status CombinationStatus `json:"status" yaml:"status"`

	// Result is set exactly once by the scheduler. Clearing it returns
	// the combination to pending.
	Result *Result `json:"result,omitempty" yaml:"result,omitempty"`

	// Score is set by the scoring engine after execution.
	Score *Score `json:"score,omitempty" yaml:"score,omitempty"`

	// ClusterID is the cluster this combination's result was assigned to.
	ClusterID string `json:"cluster_id,omitempty" yaml:"cluster_id,omitempty"`
}

// Key returns the canonical tuple key for this combination's fields.
func (c Combination) Key() string {
	return CombinationKey(c.ModelID, c.InstructionID, c.QueryID, c.DomainID)
}

// Result holds the generated text and execution status for one combination.
type Result struct {
	// Prompt is the fully resolved prompt sent to the model.
	Prompt string `json:"prompt" yaml:"prompt"`

	// Text is the raw generated response. Empty on failure.
	Text string `json:"text" yaml:"text"`

	// Status is ok, failed, or simulated.
	Status ResultStatus `json:"status" yaml:"status"`

	// Error holds the failure detail when Status is failed.
	Error string `json:"error,omitempty" yaml:"error,omitempty"`

	// Timestamp is the execution time in UTC.
	Timestamp time.Time `json:"timestamp" yaml:"timestamp"`

	// Duration is the wall-clock time of the invocation.
	Duration time.Duration `json:"duration" yaml:"duration"`
}

// Score is the per-criterion and aggregate quality measure of a result.
type Score struct {
	// Criteria maps criterion name to a value in [0,1].
	Criteria map[string]float64 `json:"criteria" yaml:"criteria"`

	// Aggregate is the weight-normalized combination of the criteria.
	Aggregate float64 `json:"aggregate" yaml:"aggregate"`
}

// Cluster groups combination results deemed semantically similar.
type Cluster struct {
	// ID is unique within the session (e.g. "cluster_1").
	ID string `json:"id" yaml:"id"`

	// Label is a representative phrase from the pattern detector.
	Label string `json:"label" yaml:"label"`

	// Members lists the combination IDs whose results belong here.
	Members []string `json:"members" yaml:"members"`

	// Centroid is the cluster center in embedding space. Empty when the
	// cluster came from the keyword fallback path.
	Centroid []float32 `json:"centroid,omitempty" yaml:"centroid,omitempty"`
}

// SynthesizedIdea is a derived output combining multiple results with
// model-contribution provenance.
type SynthesizedIdea struct {
	ID          string `json:"id" yaml:"id"`
	Title       string `json:"title" yaml:"title"`
	Description string `json:"description" yaml:"description"`

	// Text is the synthesized idea body.
	Text string `json:"text" yaml:"text"`

	// Method is the synthesis method that produced this idea:
	// cluster_based, cross_pollination, or refinement.
	Method string `json:"method" yaml:"method"`

	// Sources lists the combination IDs used as inputs.
	Sources []string `json:"sources" yaml:"sources"`

	// ClusterIDs lists the clusters the sources were drawn from, if any.
	// Cluster IDs are scoped to the analysis pass that produced them;
	// re-running analysis replaces the session's clusters, so these may
	// no longer resolve and are kept as historical provenance only.
	ClusterIDs []string `json:"cluster_ids,omitempty" yaml:"cluster_ids,omitempty"`

	// Contributions maps model ID to its normalized share of influence.
	// Shares sum to 1 across exactly the models whose results were inputs.
	Contributions map[string]float64 `json:"contributions" yaml:"contributions"`

	// AverageScore is the mean aggregate score of the source results.
	AverageScore float64 `json:"average_score" yaml:"average_score"`

	// CreatedAt is the synthesis time in UTC.
	CreatedAt time.Time `json:"created_at" yaml:"created_at"`
}

// SessionState is the durable aggregate for one exploration session: the
// catalogs actually used, every combination with its embedded result and
// score, the clusters, and the synthesized ideas. It is the sole unit of
// persistence.
type SessionState struct {
	// Version is the document schema version.
	Version int `json:"schema_version" yaml:"schema_version"`

	CreatedAt time.Time `json:"created_at" yaml:"created_at"`
	UpdatedAt time.Time `json:"updated_at" yaml:"updated_at"`

	Models       []ModelDescriptor     `json:"models" yaml:"models"`
	Instructions []InstructionTemplate `json:"instructions" yaml:"instructions"`
	Queries      []QueryVariant        `json:"queries" yaml:"queries"`
	Domains      []Domain              `json:"domains" yaml:"domains"`

	// Combinations is ordered by generation sequence.
	Combinations []Combination `json:"combinations" yaml:"combinations"`

	Clusters []Cluster         `json:"clusters,omitempty" yaml:"clusters,omitempty"`
	Ideas    []SynthesizedIdea `json:"ideas,omitempty" yaml:"ideas,omitempty"`

	// Scoring, when set, carries criteria adjusted by the synthesis
	// feedback loop. Subsequent scoring passes prefer it over the
	// configuration file.
	Scoring *ScoringConfig `json:"scoring,omitempty" yaml:"scoring,omitempty"`
}

// Pending returns the combinations that have no result yet, in order.
func (s *SessionState) Pending() []*Combination {
	var pending []*Combination
	for i := range s.Combinations {
		if s.Combinations[i].Status != StatusExecuted {
			pending = append(pending, &s.Combinations[i])
		}
	}
	return pending
}

// Executed returns the combinations that carry a result, in order.
func (s *SessionState) Executed() []*Combination {
	var done []*Combination
	for i := range s.Combinations {
		if s.Combinations[i].Status == StatusExecuted && s.Combinations[i].Result != nil {
			done = append(done, &s.Combinations[i])
		}
	}
	return done
}

// Combination returns the combination with the given tuple key, or nil.
func (s *SessionState) Combination(id string) *Combination {
	for i := range s.Combinations {
		if s.Combinations[i].ID == id {
			return &s.Combinations[i]
		}
	}
	return nil
}

// Model returns the model descriptor with the given ID, or nil.
func (s *SessionState) Model(id string) *ModelDescriptor {
	for i := range s.Models {
		if s.Models[i].ID == id {
			return &s.Models[i]
		}
	}
	return nil
}

// Instruction returns the instruction template with the given ID, or nil.
func (s *SessionState) Instruction(id string) *InstructionTemplate {
	for i := range s.Instructions {
		if s.Instructions[i].ID == id {
			return &s.Instructions[i]
		}
	}
	return nil
}

// Query returns the query variant with the given ID, or nil.
func (s *SessionState) Query(id string) *QueryVariant {
	for i := range s.Queries {
		if s.Queries[i].ID == id {
			return &s.Queries[i]
		}
	}
	return nil
}

// Domain returns the domain with the given ID, or nil.
func (s *SessionState) Domain(id string) *Domain {
	for i := range s.Domains {
		if s.Domains[i].ID == id {
			return &s.Domains[i]
		}
	}
	return nil
}
