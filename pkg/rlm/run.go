// Package rlm is the embedding entry point for the RLM engine (§6 of the
// core spec). Callers that want to run a query without going through the
// CLI depend only on this package.
package rlm

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/sagerlm/rlm-engine/internal/config"
	"github.com/sagerlm/rlm-engine/internal/engine"
	"github.com/sagerlm/rlm-engine/internal/eventlog"
	"github.com/sagerlm/rlm-engine/internal/llmclient"
	"github.com/sagerlm/rlm-engine/internal/usage"
)

// Result is what Run returns: the root agent's terminal value, the absolute
// path of the JSONL log for this invocation, and the cumulative usage
// across the whole run tree.
type Result struct {
	Results any
	LogFile string
	Usage   usage.Record
}

// Options bundles Run's optional parameters beyond query and config.
type Options struct {
	// Prefix names the log file (defaults to "rlm-run" when empty); the
	// actual filename is "<prefix>-<UTC timestamp>-<run_id>.jsonl" under
	// LogDir, with the timestamp formatted as 20060102T150405Z.
	Prefix string
	// LogDir is the directory log files are written under (defaults to
	// the OS temp dir's "rlm-logs" subdirectory when empty).
	LogDir string
	// Verbose is carried for the caller's use. Run does not read it and
	// writes no diagnostics of its own; it does not configure the global
	// slog logger either (the CLI sets its diagnostic level from its own
	// --verbose flag).
	Verbose bool
	// Client overrides the LLM transport; defaults to an OpenAIClient
	// built from environment credentials and cfg.APIBase. Tests inject a
	// mock here.
	Client llmclient.Client
}

// Run is the embedding entry point described in §6: it starts a root
// AgentLoop for query, drives it to completion, and returns its terminal
// value together with the log file path and cumulative usage.
//
// On an abortive terminal state at the root, Run returns a *RunError whose
// Cause is the terminal error (its type identifies the kind); the log file is
// still flushed and its path is carried in the RunError and in the returned
// Result. The error does not include the last captured output; that output
// is only in the log file's execution_result events.
func Run(ctx context.Context, query string, cfg config.Config, opts Options) (Result, error) {
	if err := cfg.Validate(); err != nil {
		return Result{}, fmt.Errorf("rlm: invalid config: %w", err)
	}

	client := opts.Client
	if client == nil {
		apiKey, err := config.APIKey()
		if err != nil {
			return Result{}, fmt.Errorf("rlm: %w", err)
		}
		client = llmclient.NewOpenAIClient(apiKey, cfg.APIBase)
	}

	runID := uuid.NewString()
	logPath, err := resolveLogPath(opts, runID)
	if err != nil {
		return Result{}, err
	}

	logger, err := eventlog.NewLogger(logPath)
	if err != nil {
		return Result{}, fmt.Errorf("rlm: %w", err)
	}
	defer logger.Close()

	tracker := usage.NewTracker()
	deps := engine.Deps{
		Client:  client,
		Tracker: tracker,
		Logger:  logger,
		Config:  cfg,
	}

	root := engine.NewAgentLoop(runID, "", 0, query, deps)
	value, runErr := root.Run(ctx)

	result := Result{
		Results: value,
		LogFile: logPath,
		Usage:   tracker.Total(),
	}
	if runErr != nil {
		return result, &RunError{LogFile: logPath, Cause: runErr}
	}
	return result, nil
}

// RunError wraps an abortive root-level terminal state with the log file
// path so callers can inspect the full trace (§7).
type RunError struct {
	LogFile string
	Cause   error
}

func (e *RunError) Error() string {
	return fmt.Sprintf("rlm: run aborted (see %s): %v", e.LogFile, e.Cause)
}

func (e *RunError) Unwrap() error {
	return e.Cause
}

func resolveLogPath(opts Options, runID string) (string, error) {
	dir := opts.LogDir
	if dir == "" {
		dir = filepath.Join(os.TempDir(), "rlm-logs")
	}
	prefix := opts.Prefix
	if prefix == "" {
		prefix = "rlm-run"
	}
	abs, err := filepath.Abs(filepath.Join(dir, fmt.Sprintf("%s-%s-%s.jsonl", prefix, time.Now().UTC().Format("20060102T150405Z"), runID)))
	if err != nil {
		return "", fmt.Errorf("rlm: resolving log path: %w", err)
	}
	return abs, nil
}
