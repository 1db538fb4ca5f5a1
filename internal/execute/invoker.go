// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package execute drives pending combinations through a model invoker,
// with retry, pacing, simulation fallback, and incremental merging of
// results into the session state.
package execute

import (
	"context"

	"github.com/pdiddy/idea-engine/pkg/types"
)

// Invoker sends a resolved prompt to one generative model and returns
// the response text. Implementations must be safe to call again after a
// failure; the scheduler retries on error.
type Invoker interface {
	Invoke(ctx context.Context, model types.ModelDescriptor, prompt string) (string, error)
}

// Registry maps provider tags to invoker backends. A provider with no
// entry falls back to simulation rather than failing the run.
type Registry map[string]Invoker

// NewRegistry builds the invoker registry from whatever API keys are
// available. Providers without credentials are simply absent.
func NewRegistry(anthropicKey, openaiKey string, cfg types.ExecutionConfig) Registry {
	reg := make(Registry)
	if anthropicKey != "" {
		reg["anthropic"] = NewAnthropicInvoker(anthropicKey, cfg)
	}
	if openaiKey != "" {
		reg["openai"] = NewOpenAIInvoker(openaiKey)
	}
	return reg
}
