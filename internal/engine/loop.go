// Package engine implements the AgentLoop and recursion bridge: the
// step-by-step LLM-call / code-execution / feedback cycle of §4.5, and the
// llm_query bridge of §4.4/§4.5 that spawns child agents synchronously.
//
// Grounded on the teacher's internal/agent/loop.go (AgenticLoop state
// machine shape: config sanitization, a step/iteration counter, terminal
// states) generalized to this spec's REPL-centric step cycle instead of
// nexus's tool-call cycle, and on internal/tools/subagent/spawn.go for the
// parent/child run bookkeeping pattern (runtime + IDs, no back-reference
// from child to parent beyond an explicit parent ID).
package engine

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/sagerlm/rlm-engine/internal/config"
	"github.com/sagerlm/rlm-engine/internal/eventlog"
	"github.com/sagerlm/rlm-engine/internal/llmclient"
	"github.com/sagerlm/rlm-engine/internal/replsession"
	"github.com/sagerlm/rlm-engine/internal/usage"
)

// Step is one LLM-call + one code-execution pair (§3). Steps within a run
// are totally ordered by Index and recorded only for iterations that
// produced an executable code block — a no-code-block iteration (§4.5 step
// 4) still counts against the call limit but never becomes a Step.
type Step struct {
	Index      int
	Code       string
	Output     string
	HasError   bool
	Reasoning  string
	Usage      usage.Record
	Timestamps eventlog.Timestamps
}

// Deps bundles the shared, process-wide collaborators every AgentLoop in
// the tree uses: one Tracker and one Logger per top-level invocation (§4.1,
// §4.2), one Client, and the static Config (§4.6).
type Deps struct {
	Client  llmclient.Client
	Tracker *usage.Tracker
	Logger  *eventlog.Logger
	Config  config.Config
}

// AgentLoop is one agent's lifetime: a run bound to one REPLSession and one
// model ID (Glossary). It is created at agent start, mutated only by its
// own Run call, and destroyed when Run returns (§3 Lifecycle).
type AgentLoop struct {
	runID       string
	parentRunID string
	depth       int
	deps        Deps
	transcript  []llmclient.Message
	steps       []Step
	repl        *replsession.Session
	callCount   int
	stepIndex   int
}

// NewAgentLoop constructs an AgentLoop for one run. userQuery seeds the
// initial transcript (system prompt, then the user query, per §4.5's
// "Initial state").
func NewAgentLoop(runID, parentRunID string, depth int, userQuery string, deps Deps) *AgentLoop {
	return &AgentLoop{
		runID:       runID,
		parentRunID: parentRunID,
		depth:       depth,
		deps:        deps,
		repl:        replsession.New(),
		transcript: []llmclient.Message{
			{Role: llmclient.RoleSystem, Content: buildSystemPrompt(depth, deps.Config.MaxDepth)},
			{Role: llmclient.RoleUser, Content: userQuery},
		},
	}
}

// Steps returns the recorded steps of this run, in order.
func (a *AgentLoop) Steps() []Step {
	return a.steps
}

// Run executes the step cycle to completion: it calls the LLM, extracts a
// code block, executes it in the REPL, and repeats until FINAL is called or
// a terminal error condition is reached (§4.5). It always emits agent_start
// before any step event and agent_end after everything else for this run
// (§5 ordering guarantees), even on an abortive terminal state (§4.5
// "Terminal states"). A loop whose depth already exceeds cfg.MaxDepth
// returns a *MaxDepthExceededError before emitting anything, so no such run
// appears in the log.
func (a *AgentLoop) Run(ctx context.Context) (any, error) {
	if a.depth > a.deps.Config.MaxDepth {
		return nil, &MaxDepthExceededError{Depth: a.depth, MaxDepth: a.deps.Config.MaxDepth}
	}
	a.emitAgentStart()

	model := a.deps.Config.ModelFor(a.depth)
	if err := a.repl.InstallBuiltins(nil); err != nil {
		a.emitAgentEnd()
		return nil, fmt.Errorf("engine: installing REPL builtins: %w", err)
	}
	if err := a.repl.InstallLLMQuery(a.llmQuery(ctx)); err != nil {
		a.emitAgentEnd()
		return nil, fmt.Errorf("engine: installing llm_query: %w", err)
	}

	for {
		value, done, err := a.step(ctx, model)
		if err != nil {
			a.emitAgentEnd()
			return nil, err
		}
		if done {
			a.emitFinalResult(value)
			a.emitAgentEnd()
			return value, nil
		}
	}
}

// step runs exactly one §4.5 iteration. It returns (value, true, nil) when
// FINAL was called this iteration, (nil, false, nil) to continue looping,
// or (nil, false, err) on a terminal error.
func (a *AgentLoop) step(ctx context.Context, model string) (any, bool, error) {
	llmCallStart := time.Now().UTC()
	resp, err := a.deps.Client.Generate(ctx, a.transcript, model)
	llmCallEnd := time.Now().UTC()
	if err != nil {
		// TransportError / EmptyResponse: aborts the issuing agent (§7).
		return nil, false, err
	}

	a.deps.Tracker.Add(resp.Usage)
	if budgetErr := a.deps.Tracker.CheckBudgets(usage.Caps{
		MaxMoneySpent:       a.deps.Config.MaxMoneySpent,
		MaxCompletionTokens: a.deps.Config.MaxCompletionTokens,
		MaxPromptTokens:     a.deps.Config.MaxPromptTokens,
	}); budgetErr != nil {
		return nil, false, budgetErr
	}

	a.transcript = append(a.transcript, llmclient.Message{Role: llmclient.RoleAssistant, Content: resp.Content})
	a.callCount++

	code, ok := ExtractLastCodeBlock(resp.Content)
	if !ok {
		a.transcript = append(a.transcript, noCodeBlockReminder())
		if a.callCount >= a.deps.Config.MaxCallsPerSubagent {
			return nil, false, &CallLimitExceededError{RunID: a.runID, Steps: a.callCount}
		}
		return nil, false, nil
	}

	executionStart := time.Now().UTC()
	execResult := a.repl.Execute(code)
	executionEnd := time.Now().UTC()

	idx := a.stepIndex
	a.stepIndex++

	step := Step{
		Index:      idx,
		Code:       code,
		Output:     execResult.Output,
		HasError:   execResult.HasError,
		Reasoning:  resp.Reasoning,
		Usage:      resp.Usage,
		Timestamps: eventlog.Timestamps{LLMCallStart: llmCallStart, LLMCallEnd: llmCallEnd, ExecutionStart: executionStart, ExecutionEnd: executionEnd},
	}
	a.steps = append(a.steps, step)
	a.emitCodeGenerated(step)
	a.emitExecutionResult(step)

	if execResult.Terminal.Set {
		return execResult.Terminal.Value, true, nil
	}

	a.transcript = append(a.transcript, llmclient.Message{
		Role:    llmclient.RoleUser,
		Content: truncate(execResult.Output, a.deps.Config.TruncateLen),
	})

	if a.callCount >= a.deps.Config.MaxCallsPerSubagent {
		return nil, false, &CallLimitExceededError{RunID: a.runID, Steps: a.callCount}
	}
	return nil, false, nil
}

// llmQuery returns the closure installed as the REPL's llm_query builtin
// (§4.4). It performs the depth gate of §4.5 ("before exposing llm_query ...
// compare the child-to-be's depth") at call time rather than at install
// time, so the error surfaces at the offending call site rather than making
// llm_query unavailable altogether.
func (a *AgentLoop) llmQuery(ctx context.Context) func(string) (any, error) {
	return func(childContext string) (any, error) {
		childDepth := a.depth + 1
		if childDepth > a.deps.Config.MaxDepth {
			return nil, &MaxDepthExceededError{Depth: childDepth, MaxDepth: a.deps.Config.MaxDepth}
		}

		child := NewAgentLoop(uuid.NewString(), a.runID, childDepth, childContext, a.deps)
		value, err := child.Run(ctx)
		if err != nil {
			// §7: the child's terminal error is re-raised at the parent's
			// llm_query call site and thereafter behaves as a normal
			// exception in the parent; it does NOT itself terminate the
			// parent loop (except via the shared UsageTracker hitting the
			// budget on the parent's own next call, which happens
			// naturally because the tracker is process-wide).
			return nil, err
		}
		return value, nil
	}
}
