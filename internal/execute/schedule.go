// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package execute

import (
	"context"
	"fmt"
	"io"
	"math"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/pdiddy/idea-engine/internal/session"
	"github.com/pdiddy/idea-engine/pkg/types"
)

// backoffBase controls the base duration for exponential backoff between
// invocation attempts. Tests override this to avoid real sleeps.
var backoffBase = time.Second

const (
	defaultMaxRetries        = 3
	defaultRequestsPerSecond = 2.0
)

// Summary counts what the scheduler did with the pending combinations.
type Summary struct {
	Planned   int
	Executed  int
	Simulated int
	Failed    int
	Skipped   int
}

// Run drives every pending combination in the state through an invoker
// and merges results back immediately, so an interrupted run loses at
// most the in-flight combination. Already-executed combinations are
// never re-run. Progress is written to w.
func Run(ctx context.Context, state *types.SessionState, reg Registry, cfg types.ExecutionConfig, w io.Writer) (Summary, error) {
	var sum Summary

	maxRetries := cfg.MaxRetries
	if maxRetries <= 0 {
		maxRetries = defaultMaxRetries
	}
	rps := cfg.RequestsPerSecond
	if rps <= 0 {
		rps = defaultRequestsPerSecond
	}
	limiter := rate.NewLimiter(rate.Limit(rps), 1)

	for i := range state.Combinations {
		comb := &state.Combinations[i]
		if comb.Status == types.StatusExecuted {
			sum.Skipped++
			continue
		}

		select {
		case <-ctx.Done():
			return sum, ctx.Err()
		default:
		}

		model := state.Model(comb.ModelID)
		instruction := state.Instruction(comb.InstructionID)
		query := state.Query(comb.QueryID)
		domain := state.Domain(comb.DomainID)
		if model == nil || instruction == nil || query == nil || domain == nil {
			return sum, &types.StateIntegrityError{
				ID:     comb.ID,
				Reason: "combination references a catalog entry that is not in the session",
			}
		}

		prompt := instruction.Format(domain.Description) + "\n\n" + query.Text

		if cfg.DryRun {
			fmt.Fprintf(w, "would execute: %s (%s via %s)\n", comb.ID, model.Name, model.Provider)
			sum.Planned++
			continue
		}

		invoker, ok := reg[model.Provider]
		if cfg.Simulate || !ok {
			if !cfg.Simulate && model.Provider != types.ProviderSimulated {
				fmt.Fprintf(w, "  warning: no %s credentials, simulating %s\n", model.Provider, comb.ID)
			}
			start := time.Now()
			text := simulateResponse(*model, *instruction, *query, *domain)
			comb.Result = &types.Result{
				Prompt:    prompt,
				Text:      text,
				Status:    types.ResultSimulated,
				Timestamp: start.UTC(),
				Duration:  time.Since(start),
			}
			comb.Status = types.StatusExecuted
			session.Touch(state)
			sum.Simulated++
			fmt.Fprintf(w, "simulated: %s\n", comb.ID)
			continue
		}

		if err := limiter.Wait(ctx); err != nil {
			return sum, err
		}

		fmt.Fprintf(w, "executing: %s (%s)\n", comb.ID, model.Name)
		start := time.Now()
		text, err := invokeWithRetry(ctx, invoker, *model, prompt, maxRetries)
		elapsed := time.Since(start)

		result := types.Result{
			Prompt:    prompt,
			Timestamp: start.UTC(),
			Duration:  elapsed,
		}
		if err != nil {
			if ctx.Err() != nil {
				return sum, ctx.Err()
			}
			result.Status = types.ResultFailed
			result.Error = err.Error()
			sum.Failed++
			fmt.Fprintf(w, "failed:  %s (%v)\n", comb.ID, err)
		} else {
			result.Status = types.ResultOK
			result.Text = text
			sum.Executed++
			fmt.Fprintf(w, "done:    %s (%d chars in %s)\n", comb.ID, len(text), elapsed.Round(time.Millisecond))
		}

		comb.Result = &result
		comb.Status = types.StatusExecuted
		session.Touch(state)
	}

	if cfg.DryRun {
		fmt.Fprintf(w, "\nDry run: %d combinations would execute, %d already executed\n", sum.Planned, sum.Skipped)
	} else {
		fmt.Fprintf(w, "\nExecution summary: %d executed, %d simulated, %d failed, %d skipped\n",
			sum.Executed, sum.Simulated, sum.Failed, sum.Skipped)
	}
	return sum, nil
}

// invokeWithRetry calls the invoker with exponential backoff. The wrapped
// InvocationError carries the attempt count for the failure record.
func invokeWithRetry(ctx context.Context, invoker Invoker, model types.ModelDescriptor, prompt string, maxRetries int) (string, error) {
	var lastErr error
	for attempt := 0; attempt <= maxRetries; attempt++ {
		if attempt > 0 {
			backoff := time.Duration(math.Pow(2, float64(attempt-1))) * backoffBase
			select {
			case <-ctx.Done():
				return "", ctx.Err()
			case <-time.After(backoff):
			}
		}

		text, err := invoker.Invoke(ctx, model, prompt)
		if err == nil {
			return text, nil
		}
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
		lastErr = err
	}
	return "", &types.InvocationError{ModelID: model.ID, Attempts: maxRetries + 1, Err: lastErr}
}

// simulateResponse builds a deterministic placeholder so repeated
// simulated runs produce identical session documents.
func simulateResponse(model types.ModelDescriptor, instruction types.InstructionTemplate, query types.QueryVariant, domain types.Domain) string {
	style := instruction.CognitiveStyle
	if style == "" {
		style = "default"
	}

	parts := []string{
		fmt.Sprintf("This is a simulated response from %s using the %s approach.", model.Name, style),
		fmt.Sprintf("Domain: %s", domain.Name),
		fmt.Sprintf("The query was: %s", query.Text),
		"Here are some ideas that address this challenge:",
	}

	for i := 0; i < 3; i++ {
		if len(domain.Keywords) > 0 {
			keyword := domain.Keywords[i%len(domain.Keywords)]
			parts = append(parts, fmt.Sprintf("Idea %d: A solution involving %s that addresses the core challenge.", i+1, keyword))
		} else {
			parts = append(parts, fmt.Sprintf("Idea %d: A novel approach to solving this problem.", i+1))
		}
	}

	parts = append(parts, fmt.Sprintf("These ideas represent a %s approach to the problem within the %s domain.", style, domain.Name))
	return strings.Join(parts, "\n\n")
}
