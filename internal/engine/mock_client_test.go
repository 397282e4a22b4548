package engine

import (
	"context"
	"sync/atomic"

	"github.com/sagerlm/rlm-engine/internal/llmclient"
	"github.com/sagerlm/rlm-engine/internal/usage"
)

// scriptedResponse is one canned reply a mockClient hands back for a given
// call index.
type scriptedResponse struct {
	content string
	usage   usage.Record
	err     error
}

// mockClient is a llmclient.Client that replays a fixed script of responses,
// one per call, in order. It never inspects the transcript it is given —
// tests assert on transcript shape separately where that matters.
type mockClient struct {
	script []scriptedResponse
	calls  int32
}

func (m *mockClient) Generate(ctx context.Context, messages []llmclient.Message, model string) (llmclient.Response, error) {
	idx := int(atomic.AddInt32(&m.calls, 1)) - 1
	if idx >= len(m.script) {
		// Script exhausted: keep emitting FINAL("done") so a loop under test
		// can't hang forever if it has a bug past the scripted steps.
		return llmclient.Response{Content: "```js\nFINAL(\"done\")\n```"}, nil
	}
	r := m.script[idx]
	if r.err != nil {
		return llmclient.Response{}, r.err
	}
	return llmclient.Response{Content: r.content, Usage: r.usage}, nil
}

func (m *mockClient) callCount() int {
	return int(atomic.LoadInt32(&m.calls))
}
