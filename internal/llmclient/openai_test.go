package llmclient

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T, handler http.HandlerFunc) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return srv
}

func TestOpenAIClient_GenerateReturnsContentAndUsage(t *testing.T) {
	srv := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		var req map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		require.Equal(t, "gpt-4o", req["model"])

		fmt.Fprint(w, `{
			"id": "cmpl-1", "object": "chat.completion", "created": 1,
			"model": "gpt-4o",
			"choices": [{"index": 0, "message": {"role": "assistant", "content": "FINAL(1)"}, "finish_reason": "stop"}],
			"usage": {"prompt_tokens": 10, "completion_tokens": 5, "total_tokens": 15}
		}`)
	})

	client := NewOpenAIClient("test-key", srv.URL)
	resp, err := client.Generate(context.Background(), []Message{
		{Role: RoleSystem, Content: "you are an agent"},
		{Role: RoleUser, Content: "hello"},
	}, "gpt-4o")

	require.NoError(t, err)
	require.Equal(t, "FINAL(1)", resp.Content)
	require.Equal(t, int64(10), resp.Usage.PromptTokens)
	require.Equal(t, int64(5), resp.Usage.CompletionTokens)
	require.Equal(t, int64(15), resp.Usage.TotalTokens)
}

func TestOpenAIClient_EmptyChoicesIsEmptyResponse(t *testing.T) {
	srv := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"id": "cmpl-1", "object": "chat.completion", "created": 1, "model": "gpt-4o", "choices": []}`)
	})

	client := NewOpenAIClient("test-key", srv.URL)
	_, err := client.Generate(context.Background(), []Message{{Role: RoleUser, Content: "hi"}}, "gpt-4o")
	require.ErrorIs(t, err, ErrEmptyResponse)
}

func TestOpenAIClient_EmptyContentIsEmptyResponse(t *testing.T) {
	srv := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{
			"id": "cmpl-1", "object": "chat.completion", "created": 1, "model": "gpt-4o",
			"choices": [{"index": 0, "message": {"role": "assistant", "content": ""}, "finish_reason": "stop"}]
		}`)
	})

	client := NewOpenAIClient("test-key", srv.URL)
	_, err := client.Generate(context.Background(), []Message{{Role: RoleUser, Content: "hi"}}, "gpt-4o")
	require.ErrorIs(t, err, ErrEmptyResponse)
}

func TestOpenAIClient_TransportErrorOnUnreachableServer(t *testing.T) {
	client := NewOpenAIClient("test-key", "http://127.0.0.1:1")
	_, err := client.Generate(context.Background(), []Message{{Role: RoleUser, Content: "hi"}}, "gpt-4o")
	require.ErrorIs(t, err, ErrTransport)
}
