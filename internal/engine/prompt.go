package engine

import (
	"fmt"

	"github.com/sagerlm/rlm-engine/internal/llmclient"
)

const reminderMessage = "No code block detected; please produce one fenced code block."

// noCodeBlockReminder is the standardized NoCodeBlock feedback (§4.5 step 4,
// §7). It is informational, not fatal: the loop appends it and continues.
func noCodeBlockReminder() llmclient.Message {
	return llmclient.Message{Role: llmclient.RoleUser, Content: reminderMessage}
}

// buildSystemPrompt constructs the opaque system prompt for an agent at the
// given depth. §1 explicitly places prompt text content out of scope ("loaded
// from external resources"); this is the minimal, functioning text the
// engine needs to actually drive the REPL contract described in §6 — it
// documents llm_query/FINAL and the depth envelope the model is
// operating under, the way goralph's BuildSystemPrompt (other_examples)
// documents its own REPL contract to the model.
func buildSystemPrompt(depth, maxDepth int) string {
	return fmt.Sprintf(`You are a Recursive Language Model agent operating a persistent JavaScript REPL at depth %d (max depth %d).

Explore the user's query programmatically. Write exactly one fenced code block per turn; if you write more than one, only the last is executed.

Builtins available in the REPL:
  llm_query(context) -> value   Spawn a child agent on a subproblem; blocks until it returns a value. Raises if depth would exceed the maximum.
  FINAL(value)                  Signal that value is your final answer. Execution continues to the end of the current block after calling FINAL; the run then terminates with that value.
  print(...) / println(...)     Write to the captured output you will see in the next turn.

Variables you declare persist across turns within this run. Output you print is truncated when shown back to you, but the full output is always recorded.`, depth, maxDepth)
}

// truncate implements §4.5 step 8's policy: retain a head/tail with an
// elision marker when the captured output exceeds cfg.TruncateLen
// characters. The full output is always kept in the event log (§9:
// "Truncation policy: output is truncated only when appended to the
// transcript; the log retains the full output").
func truncate(output string, limit int) string {
	runes := []rune(output)
	if limit <= 0 || len(runes) <= limit {
		return output
	}
	if limit < 20 {
		// Degenerate tiny limit: just hard-cut, no room for a marker.
		return string(runes[:limit])
	}
	half := (limit - len([]rune(elisionMarker))) / 2
	return string(runes[:half]) + elisionMarker + string(runes[len(runes)-half:])
}

const elisionMarker = "\n...[truncated]...\n"
