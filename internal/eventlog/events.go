// Package eventlog defines the structured, append-only event stream described
// in §4.2 of the core spec: one JSON record per line, keyed by run_id, used
// both for post-hoc inspection and to reconstruct parent/child topology.
//
// Grounded on the teacher's pkg/models.AgentEvent (a single discriminated
// event envelope with per-kind optional payloads) and its EventSink
// interface (internal/agent/event_sink.go), generalized to the five event
// kinds this spec names instead of nexus's richer turn/tool taxonomy.
package eventlog

import "time"

// EventType discriminates the five event kinds §4.2 names.
type EventType string

const (
	EventAgentStart     EventType = "agent_start"
	EventCodeGenerated  EventType = "code_generated"
	EventExecutionResult EventType = "execution_result"
	EventFinalResult    EventType = "final_result"
	EventAgentEnd       EventType = "agent_end"
)

// Timestamps records the four per-step phase boundaries §3 requires.
type Timestamps struct {
	LLMCallStart   time.Time `json:"llm_call_start,omitempty"`
	LLMCallEnd     time.Time `json:"llm_call_end,omitempty"`
	ExecutionStart time.Time `json:"execution_start,omitempty"`
	ExecutionEnd   time.Time `json:"execution_end,omitempty"`
}

// UsageJSON mirrors usage.Record's shape so eventlog has no dependency on
// the usage package (leaf packages stay dependency-free per SPEC_FULL.md's
// module map); engine converts at the boundary.
type UsageJSON struct {
	PromptTokens     int64   `json:"prompt_tokens"`
	CompletionTokens int64   `json:"completion_tokens"`
	TotalTokens      int64   `json:"total_tokens"`
	CachedTokens     int64   `json:"cached_tokens"`
	ReasoningTokens  int64   `json:"reasoning_tokens"`
	Cost             float64 `json:"cost"`
}

// Event is the single record type written to the JSONL stream. Each event
// carries exactly one EventType; the fields that do not apply to it are left
// zero, and the scalar, string, pointer and `any` ones are omitted by
// `omitempty` on the JSON side. Timestamps is a struct and is always written
// (with zero times where no step timing applies), and Step is omitted when it
// is 0 and reads back as 0.
type Event struct {
	Level        string     `json:"level"`
	Time         time.Time  `json:"time"`
	RunID        string     `json:"run_id"`
	ParentRunID  string     `json:"parent_run_id,omitempty"`
	Depth        int        `json:"depth"`
	EventType    EventType  `json:"event_type"`

	// code_generated / execution_result
	Step       int        `json:"step,omitempty"`
	Code       string     `json:"code,omitempty"`
	Reasoning  string     `json:"reasoning,omitempty"`
	Usage      *UsageJSON `json:"usage,omitempty"`
	Timestamps Timestamps `json:"timestamps,omitempty"`
	Output     string     `json:"output,omitempty"`
	HasError   bool       `json:"has_error,omitempty"`

	// final_result
	Result any `json:"result,omitempty"`
}
