package types

import "time"

// HTTPConfig holds shared HTTP settings used by invoker backends.
type HTTPConfig struct {
	// Timeout is the HTTP request timeout.
	Timeout time.Duration `json:"timeout" yaml:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests
	// (e.g. "idea-engine/0.1").
	UserAgent string `json:"user_agent" yaml:"user_agent"`
}

// GenerationConfig holds settings for the combination generator.
type GenerationConfig struct {
	// MaxCombinations is the combination budget. Must be at least 1.
	MaxCombinations int `json:"max_combinations" yaml:"max_combinations"`

	// Balanced partitions the budget into near-equal per-model quotas
	// instead of truncating the plain enumeration.
	Balanced bool `json:"balanced" yaml:"balanced"`

	// ModelCount limits how many catalog models participate. Zero means all.
	ModelCount int `json:"model_count,omitempty" yaml:"model_count,omitempty"`

	// InstructionCount limits how many templates participate. Zero means all.
	InstructionCount int `json:"instruction_count,omitempty" yaml:"instruction_count,omitempty"`

	// QueryVariations is the number of generated variants per base query.
	QueryVariations int `json:"query_variations,omitempty" yaml:"query_variations,omitempty"`
}

// ExecutionConfig holds settings for the execution scheduler.
type ExecutionConfig struct {
	HTTPConfig `yaml:",inline"`

	// MaxRetries is the number of retry attempts for failed model calls
	// (default 3).
	MaxRetries int `json:"max_retries" yaml:"max_retries"`

	// RequestsPerSecond paces dispatches to respect provider rate limits
	// (default 2).
	RequestsPerSecond float64 `json:"requests_per_second" yaml:"requests_per_second"`

	// Simulate replaces every model call with a deterministic placeholder.
	Simulate bool `json:"simulate" yaml:"simulate"`

	// DryRun lists would-run combinations without executing anything.
	DryRun bool `json:"dry_run" yaml:"dry_run"`
}

// CriterionConfig describes one scoring criterion.
type CriterionConfig struct {
	// Description explains what the criterion measures.
	Description string `json:"description" yaml:"description"`

	// Weight is the criterion's relative importance. Weights are
	// normalized by their sum, so they need not pre-sum to 1.
	Weight float64 `json:"weight" yaml:"weight"`

	// Function names the scoring heuristic: novelty, feasibility,
	// specificity, comprehensiveness, or clarity.
	Function string `json:"function" yaml:"function"`
}

// ScoringConfig holds the criteria configuration for the scoring engine.
// A config value is an immutable snapshot: feedback adjustment produces a
// new value rather than mutating one in place.
type ScoringConfig struct {
	Criteria map[string]CriterionConfig `json:"criteria" yaml:"criteria"`
}

// EvaluationConfig holds settings for pattern detection and clustering.
type EvaluationConfig struct {
	// TopN is how many top-scoring results feed the cluster analyzer
	// (default 10).
	TopN int `json:"top_n" yaml:"top_n"`

	// NClusters is the target cluster count (default 3). Clamped to the
	// input size.
	NClusters int `json:"n_clusters" yaml:"n_clusters"`

	// EmbeddingModel selects the embedding backend model
	// (e.g. "text-embedding-3-small"). Empty disables embeddings and
	// forces the keyword fallback.
	EmbeddingModel string `json:"embedding_model,omitempty" yaml:"embedding_model,omitempty"`

	// MinPhraseLength is the shortest n-gram considered (default 2).
	MinPhraseLength int `json:"min_phrase_length" yaml:"min_phrase_length"`

	// MaxPhraseLength is the longest n-gram considered (default 4).
	MaxPhraseLength int `json:"max_phrase_length" yaml:"max_phrase_length"`

	// MinFrequency is the occurrence threshold for a phrase (default 2).
	MinFrequency int `json:"min_frequency" yaml:"min_frequency"`
}

// ExtractionConfig holds settings for the synthesis stage and the
// feedback loop.
type ExtractionConfig struct {
	// Methods lists the enabled synthesis methods: cluster_based,
	// cross_pollination, refinement.
	Methods []string `json:"methods" yaml:"methods"`

	// OutputFormat selects idea rendering: markdown or json.
	OutputFormat string `json:"output_format" yaml:"output_format"`

	// ScoreWeightedBlending makes cross-pollination split contribution
	// shares by score instead of evenly.
	ScoreWeightedBlending bool `json:"score_weighted_blending" yaml:"score_weighted_blending"`

	// WeightsAdjustment enables nudging criterion weights toward the
	// criteria that correlate with synthesized ideas.
	WeightsAdjustment bool `json:"weights_adjustment" yaml:"weights_adjustment"`

	// CriteriaEvolution enables appending new criteria for subsequent
	// scoring passes. Historical scores are never rewritten.
	CriteriaEvolution bool `json:"criteria_evolution" yaml:"criteria_evolution"`

	// FeedbackRate scales weight adjustments (default 0.1).
	FeedbackRate float64 `json:"feedback_rate" yaml:"feedback_rate"`
}

// EngineConfig is the full configuration document: the input catalogs
// plus per-stage settings.
type EngineConfig struct {
	Models       []ModelDescriptor     `json:"models" yaml:"models"`
	Instructions []InstructionTemplate `json:"instructions" yaml:"instructions"`
	Queries      []QueryVariant        `json:"queries" yaml:"queries"`
	Domains      []Domain              `json:"domains" yaml:"domains"`

	Generation GenerationConfig `json:"generation" yaml:"generation"`
	Execution  ExecutionConfig  `json:"execution" yaml:"execution"`
	Scoring    ScoringConfig    `json:"scoring" yaml:"scoring"`
	Evaluation EvaluationConfig `json:"evaluation" yaml:"evaluation"`
	Extraction ExtractionConfig `json:"extraction" yaml:"extraction"`
}
