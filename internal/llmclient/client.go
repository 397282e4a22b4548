// Package llmclient is the thin adapter over an OpenAI-compatible chat
// completions endpoint described in §4.3 of the core spec. Grounded on the
// teacher's internal/agent/providers/openai.go shape (client wrapper,
// Complete-style call), trimmed to the synchronous, non-streaming,
// non-retrying contract §4.3 specifies: "The client does not retry; retries
// are a policy decision left to callers."
package llmclient

import (
	"context"
	"errors"

	"github.com/sagerlm/rlm-engine/internal/usage"
)

// Role values accepted in a Message.
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Message is one ordered entry in the transcript sent to the LLM.
type Message struct {
	Role    string
	Content string
}

// Response is what the LLM transport returns for one call: content,
// an optional reasoning trace, and a usage breakdown.
type Response struct {
	Content   string
	Reasoning string
	Usage     usage.Record
}

// ErrTransport wraps network/HTTP failures from the transport.
var ErrTransport = errors.New("llmclient: transport error")

// ErrEmptyResponse is returned when the provider supplies no content. Per
// Open Question (c) in §9, a response carrying only a reasoning trace with
// empty content is also treated as EmptyResponse.
var ErrEmptyResponse = errors.New("llmclient: empty response")

// Client is the interface the engine depends on. Implementations must not
// retry internally (§4.3): a transport failure is returned immediately.
type Client interface {
	Generate(ctx context.Context, messages []Message, model string) (Response, error)
}
