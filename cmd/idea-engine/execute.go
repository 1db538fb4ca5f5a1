package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/pdiddy/idea-engine/internal/execute"
	"github.com/pdiddy/idea-engine/internal/session"
	"github.com/pdiddy/idea-engine/pkg/types"
)

const defaultUserAgent = "idea-engine/0.1"

var executeCmd = &cobra.Command{
	Use:   "execute",
	Short: "Execute pending combinations against the model backends",
	Long: `Execute runs every pending combination through its model's provider,
pacing requests and retrying transient failures. Results merge into the
session state immediately, so an interrupted run can resume without
repeating work. Providers without credentials fall back to simulation.`,
	RunE: runExecute,
}

func init() {
	executeCmd.Flags().Bool("simulate", false, "use deterministic simulated responses instead of real APIs")
	executeCmd.Flags().Bool("dry-run", false, "list what would execute without running anything")
	executeCmd.Flags().Int("max-retries", 0, "retry attempts per model call (default 3)")
	executeCmd.Flags().Float64("rps", 0, "request pacing in requests per second (default 2)")
	executeCmd.Flags().Duration("timeout", 0, "HTTP request timeout (default 120s)")

	rootCmd.AddCommand(executeCmd)
}

func runExecute(cmd *cobra.Command, args []string) error {
	cfg, err := engineConfig()
	if err != nil {
		return err
	}

	exec := cfg.Execution
	if v, _ := cmd.Flags().GetBool("simulate"); v {
		exec.Simulate = true
	}
	if v, _ := cmd.Flags().GetBool("dry-run"); v {
		exec.DryRun = true
	}
	if v, _ := cmd.Flags().GetInt("max-retries"); v > 0 {
		exec.MaxRetries = v
	}
	if v, _ := cmd.Flags().GetFloat64("rps"); v > 0 {
		exec.RequestsPerSecond = v
	}
	if v, _ := cmd.Flags().GetDuration("timeout"); v > 0 {
		exec.Timeout = v
	}
	if exec.Timeout == 0 {
		exec.Timeout = 120 * time.Second
	}
	if exec.UserAgent == "" {
		exec.UserAgent = defaultUserAgent
	}

	path := statePath(cmd)
	state, err := session.Load(path)
	if err != nil {
		return err
	}

	reg := buildRegistry(exec)
	if len(reg) == 0 && !exec.Simulate && !exec.DryRun {
		fmt.Fprintln(os.Stderr, "No API keys available. Forcing simulation mode.")
		exec.Simulate = true
	}

	sum, err := executeAndSave(cmd.Context(), path, state, reg, exec, os.Stdout)
	if err != nil {
		return err
	}
	if exec.DryRun {
		return nil
	}
	if sum.Failed > 0 {
		fmt.Fprintf(os.Stderr, "%d combination(s) failed execution\n", sum.Failed)
	}
	return nil
}

// executeAndSave runs the scheduler and persists the session state even
// when the run stops early, so results merged before a cancellation or
// integrity error survive. Dry runs never save.
func executeAndSave(ctx context.Context, path string, state *types.SessionState, reg execute.Registry, exec types.ExecutionConfig, w io.Writer) (execute.Summary, error) {
	sum, runErr := execute.Run(ctx, state, reg, exec, w)
	if exec.DryRun {
		return sum, runErr
	}
	if err := session.Save(path, state); err != nil {
		if runErr != nil {
			fmt.Fprintf(os.Stderr, "warning: saving state after interrupted run: %v\n", err)
			return sum, runErr
		}
		return sum, err
	}
	return sum, runErr
}

// buildRegistry wires invoker backends from whatever credentials are
// present in .secrets/ or the environment.
func buildRegistry(exec types.ExecutionConfig) execute.Registry {
	anthropicKey := secretDefault("anthropic-api-key", "ANTHROPIC_API_KEY")
	openaiKey := secretDefault("openai-api-key", "OPENAI_API_KEY")
	return execute.NewRegistry(anthropicKey, openaiKey, exec)
}
