// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the idea-engine CLI.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/idea-engine/internal/catalog"
	"github.com/pdiddy/idea-engine/internal/secrets"
	"github.com/pdiddy/idea-engine/internal/session"
	"github.com/pdiddy/idea-engine/pkg/types"
)

// version is set at build time via ldflags.
var version = "dev"

// loadedSecrets holds API keys loaded from .secrets/ at startup.
var loadedSecrets map[string]string

// secretDefault returns the secret value for key, falling back to the
// environment variable env when the key file is absent.
func secretDefault(key, env string) string {
	if v, ok := loadedSecrets[key]; ok {
		return v
	}
	return os.Getenv(env)
}

// rootCmd is the base command for the idea-engine CLI.
var rootCmd = &cobra.Command{
	Use:   "idea-engine",
	Short: "Systematic idea exploration across models, instructions, and domains",
	Long: `idea-engine explores the combinatorial space of (model, instruction,
query, domain) prompts against generative text services, scores and
clusters the results, and synthesizes a small set of ideas with full
model-contribution provenance.

Each pipeline stage is a subcommand: generate, execute, score, analyze,
and synthesize. The run subcommand chains the whole pipeline. All stages
read and write a single session state document.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		s, err := secrets.Load(".secrets/")
		if err != nil {
			return err
		}
		loadedSecrets = s
		if len(s) > 0 {
			keys := make([]string, 0, len(s))
			for k := range s {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			fmt.Fprintf(os.Stderr, "Loaded secrets: %v\n", keys)
		}
		return nil
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./idea-engine.yaml or ~/.config/idea-engine/config.yaml)")
	rootCmd.PersistentFlags().String("state", "idea-engine-state.json", "session state document path")
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("idea-engine")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "idea-engine"))
		}
	}

	viper.SetEnvPrefix("IDEA_ENGINE")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// engineConfig loads the configuration document, or a pure-defaults
// configuration when no config file was found.
func engineConfig() (*types.EngineConfig, error) {
	if path := viper.ConfigFileUsed(); path != "" {
		return catalog.Load(path)
	}
	cfg := &types.EngineConfig{}
	catalog.ApplyDefaults(cfg)
	return cfg, nil
}

// statePath resolves the session state document path from the
// persistent flag.
func statePath(cmd *cobra.Command) string {
	path, _ := cmd.Flags().GetString("state")
	return path
}

// loadOrNewState loads the session state document, or starts a fresh
// session when the file does not exist yet.
func loadOrNewState(path string) (*types.SessionState, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return session.New(), nil
	}
	return session.Load(path)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
