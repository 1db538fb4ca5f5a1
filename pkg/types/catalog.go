// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "strings"

// ModelParameters holds invocation parameters passed to a model backend.
type ModelParameters struct {
	// Temperature controls sampling randomness. Zero means backend default.
	Temperature float32 `json:"temperature,omitempty" yaml:"temperature,omitempty"`

	// MaxTokens caps the response length. Zero means backend default.
	MaxTokens int `json:"max_tokens,omitempty" yaml:"max_tokens,omitempty"`

	// TopP is the nucleus sampling parameter. Zero means backend default.
	TopP float32 `json:"top_p,omitempty" yaml:"top_p,omitempty"`
}

// ModelDescriptor identifies one generative model and how to call it.
// Descriptors are immutable once referenced by a Combination.
type ModelDescriptor struct {
	// ID is the unique identifier used in combination tuples.
	ID string `json:"id" yaml:"id"`

	// Name is the provider-side model name (e.g. "gpt-4o-mini").
	Name string `json:"name" yaml:"name"`

	// Provider selects the invoker backend: "anthropic", "openai", or
	// ProviderSimulated. Required at configuration time.
	Provider string `json:"provider" yaml:"provider"`

	// Parameters are the invocation parameters for this model.
	Parameters ModelParameters `json:"parameters,omitempty" yaml:"parameters,omitempty"`
}

// ProviderSimulated marks a model that is never called over the network;
// the scheduler fabricates its responses instead.
const ProviderSimulated = "simulated"

// InferProvider guesses a provider tag from a model name. This exists only
// as a convenience when importing legacy configurations that predate the
// required provider field; loaders call it once and persist the resolved tag.
func InferProvider(name string) string {
	lower := strings.ToLower(name)
	switch {
	case strings.Contains(lower, "claude"):
		return "anthropic"
	case strings.Contains(lower, "gpt"):
		return "openai"
	default:
		return ""
	}
}

// InstructionTemplate is a parametrized system-prompt framework.
// Templates are immutable; the {domain} placeholder is resolved at
// execution time with the domain description.
type InstructionTemplate struct {
	// ID is the unique identifier used in combination tuples.
	ID string `json:"id" yaml:"id"`

	// Name is a human-readable label (e.g. "Analytical Framework").
	Name string `json:"name" yaml:"name"`

	// Template is the instruction text with {domain} placeholders.
	Template string `json:"template" yaml:"template"`

	// CognitiveStyle tags the thinking mode the template elicits
	// (e.g. "analytical", "divergent", "contrarian").
	CognitiveStyle string `json:"cognitive_style,omitempty" yaml:"cognitive_style,omitempty"`

	// Strength is a short note on what the style is good at.
	Strength string `json:"strength,omitempty" yaml:"strength,omitempty"`
}

// Format resolves the {domain} placeholder with the given text.
func (t InstructionTemplate) Format(domain string) string {
	return strings.ReplaceAll(t.Template, "{domain}", domain)
}

// QueryOrigin records where a query variant came from.
type QueryOrigin string

const (
	OriginBase      QueryOrigin = "base"
	OriginGenerated QueryOrigin = "generated"
	OriginUser      QueryOrigin = "user"
)

// QueryVariant is one resolved question text. Generated variants carry
// the parent query ID and the strategy that produced them.
type QueryVariant struct {
	// ID is the unique identifier used in combination tuples.
	ID string `json:"id" yaml:"id"`

	// Text is the resolved question.
	Text string `json:"text" yaml:"text"`

	// Origin is base, generated, or user.
	Origin QueryOrigin `json:"origin" yaml:"origin"`

	// ParentID links a generated variant to its base query.
	ParentID string `json:"parent_id,omitempty" yaml:"parent_id,omitempty"`

	// Strategy names the variation strategy for generated variants
	// (e.g. "constraints", "perspective").
	Strategy string `json:"strategy,omitempty" yaml:"strategy,omitempty"`
}

// Domain is an application area used to ground prompts.
type Domain struct {
	// ID is the unique identifier used in combination tuples.
	ID string `json:"id" yaml:"id"`

	// Name is a human-readable label (e.g. "Urban Planning").
	Name string `json:"name" yaml:"name"`

	// Description is the text substituted into instruction templates.
	Description string `json:"description" yaml:"description"`

	// Keywords ground scoring heuristics and simulated responses.
	Keywords []string `json:"keywords,omitempty" yaml:"keywords,omitempty"`
}
