package llm

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"

	"github.com/sashabaranov/go-openai"
)

// OpenAIBackend talks to any OpenAI-compatible chat completions endpoint.
type OpenAIBackend struct {
	apiBase    string
	httpClient HTTPDoer
}

// NewOpenAIBackend returns a backend for apiBase; empty uses the public OpenAI API.
func NewOpenAIBackend(apiBase string, httpClient HTTPDoer) *OpenAIBackend {
	return &OpenAIBackend{
		apiBase:    strings.TrimRight(strings.TrimSpace(apiBase), "/"),
		httpClient: httpClient,
	}
}

// Chat sends a single, non-streaming chat completion request.
func (b *OpenAIBackend) Chat(ctx context.Context, model, apiKey string, messages []ChatMessage) (string, error) {
	clientConfig := openai.DefaultConfig(apiKey)
	if b.apiBase != "" {
		clientConfig.BaseURL = b.apiBase
	}
	if b.httpClient != nil {
		clientConfig.HTTPClient = b.httpClient
	}
	client := openai.NewClientWithConfig(clientConfig)

	request := openai.ChatCompletionRequest{
		Model:    model,
		Messages: toOpenAIMessages(messages),
		Stream:   false,
	}

	slog.Debug("sending chat request", "platform", PlatformOpenAI, "endpoint", clientConfig.BaseURL,
		"model", model, "messages", len(messages))

	resp, err := client.CreateChatCompletion(ctx, request)
	if err != nil {
		return "", b.wrapError(clientConfig.BaseURL, err)
	}

	if len(resp.Choices) == 0 {
		return "", &ParseError{Platform: PlatformOpenAI, Message: "response has no choices"}
	}

	slog.Debug("received chat reply", "platform", PlatformOpenAI, "model", resp.Model,
		"prompt_tokens", resp.Usage.PromptTokens, "completion_tokens", resp.Usage.CompletionTokens)

	return resp.Choices[0].Message.Content, nil
}

func (b *OpenAIBackend) wrapError(endpoint string, err error) error {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) && apiErr.HTTPStatusCode != 0 {
		return &HTTPStatusError{
			Platform:   PlatformOpenAI,
			StatusCode: apiErr.HTTPStatusCode,
			Endpoint:   endpoint,
			Body:       truncateBody(apiErr.Message),
		}
	}

	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) && reqErr.HTTPStatusCode != 0 {
		return &HTTPStatusError{
			Platform:   PlatformOpenAI,
			StatusCode: reqErr.HTTPStatusCode,
			Endpoint:   endpoint,
			Body:       truncateBody(reqErr.Error()),
		}
	}

	var syntaxErr *json.SyntaxError
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &syntaxErr) || errors.As(err, &typeErr) {
		return &ParseError{Platform: PlatformOpenAI, Message: "malformed response body", Err: err}
	}

	return &TransportError{Platform: PlatformOpenAI, Endpoint: endpoint, Err: err}
}

func toOpenAIMessages(messages []ChatMessage) []openai.ChatCompletionMessage {
	out := make([]openai.ChatCompletionMessage, 0, len(messages))
	for _, m := range messages {
		out = append(out, openai.ChatCompletionMessage{Role: string(m.Role), Content: m.Content})
	}
	return out
}
