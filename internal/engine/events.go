package engine

import (
	"time"

	"github.com/sagerlm/rlm-engine/internal/eventlog"
	"github.com/sagerlm/rlm-engine/internal/usage"
)

// The five emit* helpers translate this run's state into eventlog.Event
// records and hand them to the shared Logger (§4.2). They are the only
// place engine depends on eventlog's concrete Event shape; Deps.Logger may
// be nil in tests that don't care about the JSONL side-channel.

func (a *AgentLoop) emit(e eventlog.Event) {
	if a.deps.Logger == nil {
		return
	}
	e.RunID = a.runID
	e.ParentRunID = a.parentRunID
	e.Depth = a.depth
	if e.Time.IsZero() {
		e.Time = time.Now().UTC()
	}
	a.deps.Logger.Emit(e)
}

func (a *AgentLoop) emitAgentStart() {
	a.emit(eventlog.Event{EventType: eventlog.EventAgentStart})
}

func (a *AgentLoop) emitAgentEnd() {
	a.emit(eventlog.Event{EventType: eventlog.EventAgentEnd})
}

func (a *AgentLoop) emitCodeGenerated(s Step) {
	a.emit(eventlog.Event{
		EventType:  eventlog.EventCodeGenerated,
		Step:       s.Index,
		Code:       s.Code,
		Reasoning:  s.Reasoning,
		Usage:      usageJSON(s.Usage),
		Timestamps: s.Timestamps,
	})
}

func (a *AgentLoop) emitExecutionResult(s Step) {
	a.emit(eventlog.Event{
		EventType:  eventlog.EventExecutionResult,
		Step:       s.Index,
		Output:     s.Output,
		HasError:   s.HasError,
		Timestamps: s.Timestamps,
	})
}

func (a *AgentLoop) emitFinalResult(value any) {
	a.emit(eventlog.Event{EventType: eventlog.EventFinalResult, Result: value})
}

func usageJSON(u usage.Record) *eventlog.UsageJSON {
	return &eventlog.UsageJSON{
		PromptTokens:     u.PromptTokens,
		CompletionTokens: u.CompletionTokens,
		TotalTokens:      u.TotalTokens,
		CachedTokens:     u.CachedTokens,
		ReasoningTokens:  u.ReasoningTokens,
		Cost:             u.Cost,
	}
}
