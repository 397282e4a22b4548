// Package main provides the CLI entry point for the RLM engine.
//
// Per spec.md's Non-goals, the CLI itself is not a specified component; it
// is the thin wiring a real repo would ship, built the way the teacher
// builds its command tree (one cobra.Command per verb, flags bound via
// Flags()).
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/sagerlm/rlm-engine/internal/config"
	"github.com/sagerlm/rlm-engine/internal/observability"
	"github.com/sagerlm/rlm-engine/pkg/rlm"
)

func main() {
	rootCmd := buildRootCmd()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func buildRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:          "rlm",
		Short:        "Recursive Language Model engine",
		Long:         "rlm drives a long-lived per-agent REPL, recursively delegating subproblems to spawned child agents.",
		SilenceUsage: true,
	}
	rootCmd.AddCommand(buildRunCmd())
	return rootCmd
}

func buildRunCmd() *cobra.Command {
	var configPath string
	var logDir string
	var prefix string
	var verbose bool
	var jsonOut bool

	cmd := &cobra.Command{
		Use:   "run <query>",
		Short: "Run a query through the RLM engine",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := observability.NewLogger(observability.LogConfig{
				Level:  verboseLevel(verbose),
				Format: "text",
			})
			slog.SetDefault(logger)

			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}

			result, err := rlm.Run(context.Background(), args[0], cfg, rlm.Options{
				Prefix:  prefix,
				LogDir:  logDir,
				Verbose: verbose,
			})
			if err != nil {
				if result.LogFile != "" {
					fmt.Fprintf(os.Stderr, "log: %s\n", result.LogFile)
				}
				return err
			}

			if jsonOut {
				enc := json.NewEncoder(os.Stdout)
				enc.SetIndent("", "  ")
				return enc.Encode(map[string]any{
					"result":   result.Results,
					"log_file": result.LogFile,
					"usage":    result.Usage,
				})
			}

			fmt.Printf("%v\n", result.Results)
			fmt.Fprintf(os.Stderr, "log: %s\n", result.LogFile)
			fmt.Fprintf(os.Stderr, "usage: prompt=%d completion=%d cost=%.4f\n",
				result.Usage.PromptTokens, result.Usage.CompletionTokens, result.Usage.Cost)
			return nil
		},
	}

	cmd.Flags().StringVar(&configPath, "config", "", "Path to a YAML/JSON5 config file (defaults merge over built-in defaults)")
	cmd.Flags().StringVar(&logDir, "log-dir", "", "Directory to write the JSONL event log under")
	cmd.Flags().StringVar(&prefix, "prefix", "", "Log file name prefix")
	cmd.Flags().BoolVar(&verbose, "verbose", false, "Mirror engine-internal diagnostics at debug level")
	cmd.Flags().BoolVar(&jsonOut, "json", false, "Emit the result as JSON")

	return cmd
}

func verboseLevel(verbose bool) string {
	if verbose {
		return "debug"
	}
	return "info"
}
