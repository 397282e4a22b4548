// Package config provides the static, passive configuration record consumed
// by the RLM engine, plus layered loading from file and environment.
package config

import "fmt"

// Config is a passive record: model IDs, recursion/budget caps, and the
// transcript truncation length. It carries no behavior beyond field access,
// Validate and ModelFor.
type Config struct {
	// PrimaryAgent is the model ID used by the root agent.
	PrimaryAgent string `yaml:"primary_agent" json:"primary_agent"`

	// SubAgent is the model ID used by every descendant agent.
	SubAgent string `yaml:"sub_agent" json:"sub_agent"`

	// MaxDepth bounds the recursion tree; the root is depth 0.
	MaxDepth int `yaml:"max_depth" json:"max_depth"`

	// MaxCallsPerSubagent bounds the number of steps any single agent may take.
	MaxCallsPerSubagent int `yaml:"max_calls_per_subagent" json:"max_calls_per_subagent"`

	// TruncateLen bounds the number of characters of captured output that
	// are re-inserted into the transcript (the log keeps the full output).
	TruncateLen int `yaml:"truncate_len" json:"truncate_len"`

	// MaxMoneySpent is the process-wide monetary budget ceiling. Advisory
	// when providers never populate cost (see UsageTracker).
	MaxMoneySpent float64 `yaml:"max_money_spent" json:"max_money_spent"`

	// MaxCompletionTokens is the process-wide completion-token ceiling.
	MaxCompletionTokens int64 `yaml:"max_completion_tokens" json:"max_completion_tokens"`

	// MaxPromptTokens is the process-wide prompt-token ceiling.
	MaxPromptTokens int64 `yaml:"max_prompt_tokens" json:"max_prompt_tokens"`

	// APIBase is the OpenAI-compatible base URL for the LLM transport.
	APIBase string `yaml:"api_base" json:"api_base"`
}

// Default returns the built-in defaults; loaders merge a user file and
// environment variables on top of this.
func Default() Config {
	return Config{
		PrimaryAgent:        "gpt-4o",
		SubAgent:            "gpt-4o-mini",
		MaxDepth:            3,
		MaxCallsPerSubagent: 20,
		TruncateLen:         4000,
		MaxMoneySpent:       5.0,
		MaxCompletionTokens: 200_000,
		MaxPromptTokens:     2_000_000,
		APIBase:             "https://api.openai.com/v1",
	}
}

// Validate enforces the spec's minimal validation contract: non-negative
// numeric bounds and non-empty model IDs. No other validation is performed —
// Config is otherwise a passive record.
func (c Config) Validate() error {
	if c.PrimaryAgent == "" {
		return fmt.Errorf("config: primary_agent must not be empty")
	}
	if c.SubAgent == "" {
		return fmt.Errorf("config: sub_agent must not be empty")
	}
	if c.MaxDepth < 0 {
		return fmt.Errorf("config: max_depth must be non-negative")
	}
	if c.MaxCallsPerSubagent < 0 {
		return fmt.Errorf("config: max_calls_per_subagent must be non-negative")
	}
	if c.TruncateLen < 0 {
		return fmt.Errorf("config: truncate_len must be non-negative")
	}
	if c.MaxMoneySpent < 0 {
		return fmt.Errorf("config: max_money_spent must be non-negative")
	}
	if c.MaxCompletionTokens < 0 {
		return fmt.Errorf("config: max_completion_tokens must be non-negative")
	}
	if c.MaxPromptTokens < 0 {
		return fmt.Errorf("config: max_prompt_tokens must be non-negative")
	}
	return nil
}

// ModelFor returns the model ID an agent at the given depth should use: the
// root (depth 0) uses PrimaryAgent, all descendants use SubAgent.
func (c Config) ModelFor(depth int) string {
	if depth == 0 {
		return c.PrimaryAgent
	}
	return c.SubAgent
}
