package llmclient

import (
	"context"
	"fmt"

	openai "github.com/sashabaranov/go-openai"

	"github.com/sagerlm/rlm-engine/internal/usage"
)

// OpenAIClient implements Client against any OpenAI-compatible chat
// completions endpoint (the base URL is configurable so self-hosted and
// third-party compatible servers work unchanged).
type OpenAIClient struct {
	client *openai.Client
}

// NewOpenAIClient builds a client for the given API key and base URL. An
// empty baseURL uses the library's default (api.openai.com).
func NewOpenAIClient(apiKey, baseURL string) *OpenAIClient {
	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}
	return &OpenAIClient{client: openai.NewClientWithConfig(cfg)}
}

// Generate issues one non-streaming chat completion request and returns its
// content, reasoning (when the provider supplies one), and usage. It never
// retries; a transport failure propagates as ErrTransport immediately.
func (c *OpenAIClient) Generate(ctx context.Context, messages []Message, model string) (Response, error) {
	req := openai.ChatCompletionRequest{
		Model:    model,
		Messages: make([]openai.ChatCompletionMessage, 0, len(messages)),
	}
	for _, m := range messages {
		req.Messages = append(req.Messages, openai.ChatCompletionMessage{
			Role:    m.Role,
			Content: m.Content,
		})
	}

	resp, err := c.client.CreateChatCompletion(ctx, req)
	if err != nil {
		return Response{}, fmt.Errorf("%w: %v", ErrTransport, err)
	}

	if len(resp.Choices) == 0 {
		return Response{}, ErrEmptyResponse
	}

	content := resp.Choices[0].Message.Content
	reasoning := resp.Choices[0].Message.ReasoningContent
	if content == "" && reasoning == "" {
		return Response{}, ErrEmptyResponse
	}
	if content == "" {
		// Open Question (c): reasoning-only responses are EmptyResponse.
		return Response{}, ErrEmptyResponse
	}

	u := usage.Record{
		PromptTokens:     int64(resp.Usage.PromptTokens),
		CompletionTokens: int64(resp.Usage.CompletionTokens),
		TotalTokens:      int64(resp.Usage.TotalTokens),
	}
	if resp.Usage.PromptTokensDetails != nil {
		u.CachedTokens = int64(resp.Usage.PromptTokensDetails.CachedTokens)
	}
	if resp.Usage.CompletionTokensDetails != nil {
		u.ReasoningTokens = int64(resp.Usage.CompletionTokensDetails.ReasoningTokens)
	}
	// Cost is provider-specific and not part of the standard OpenAI
	// response; §4.1 treats an absent cost as 0 (advisory cost cap).

	return Response{Content: content, Reasoning: reasoning, Usage: u}, nil
}
