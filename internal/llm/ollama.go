package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/tidwall/gjson"
)

// Ollama server defaults.
const (
	DefaultOllamaBaseURL = "http://localhost"
	DefaultOllamaPort    = "11434"
)

const ollamaChatPath = "/api/chat"

// OllamaBackend talks to the native ollama chat API.
type OllamaBackend struct {
	baseURL    string
	port       string
	httpClient HTTPDoer
}

// OllamaOption customizes an OllamaBackend.
type OllamaOption func(*OllamaBackend)

// WithHTTPDoer replaces the HTTP client used for requests.
func WithHTTPDoer(doer HTTPDoer) OllamaOption {
	return func(b *OllamaBackend) {
		if doer != nil {
			b.httpClient = doer
		}
	}
}

// NewOllamaBackend returns a backend posting to "{baseURL}:{port}/api/chat".
func NewOllamaBackend(baseURL, port string, opts ...OllamaOption) *OllamaBackend {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		baseURL = DefaultOllamaBaseURL
	}
	b := &OllamaBackend{
		baseURL:    baseURL,
		port:       strings.TrimSpace(port),
		httpClient: &http.Client{Timeout: DefaultTimeout},
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Endpoint returns the chat URL.
func (b *OllamaBackend) Endpoint() string {
	if b.port == "" {
		return b.baseURL + ollamaChatPath
	}
	return b.baseURL + ":" + b.port + ollamaChatPath
}

// Chat posts a non-streaming chat request and returns message.content.
func (b *OllamaBackend) Chat(ctx context.Context, model, apiKey string, messages []ChatMessage) (string, error) {
	endpoint := b.Endpoint()
	payload, err := json.Marshal(NewChatRequest(model, messages))
	if err != nil {
		return "", fmt.Errorf("ollama: failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return "", &TransportError{Platform: PlatformOllama, Endpoint: endpoint, Err: err}
	}
	req.Header.Set("Content-Type", "application/json")
	if apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+apiKey)
	}

	slog.Debug("sending chat request", "platform", PlatformOllama, "endpoint", endpoint, "model", model,
		"messages", len(messages))

	resp, err := b.httpClient.Do(req)
	if err != nil {
		return "", &TransportError{Platform: PlatformOllama, Endpoint: endpoint, Err: err}
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", &TransportError{Platform: PlatformOllama, Endpoint: endpoint, Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", &HTTPStatusError{
			Platform:   PlatformOllama,
			StatusCode: resp.StatusCode,
			Endpoint:   endpoint,
			Body:       truncateBody(strings.TrimSpace(string(body))),
		}
	}

	return parseOllamaResponse(body)
}

// parseOllamaResponse extracts message.content. The bookkeeping fields are
// only logged.
func parseOllamaResponse(body []byte) (string, error) {
	if !gjson.ValidBytes(body) {
		return "", &ParseError{Platform: PlatformOllama, Message: "response is not valid JSON"}
	}

	content := gjson.GetBytes(body, "message.content")
	if !content.Exists() {
		if apiErr := gjson.GetBytes(body, "error"); apiErr.Exists() {
			return "", &ParseError{Platform: PlatformOllama, Message: "server error: " + apiErr.String()}
		}
		return "", &ParseError{Platform: PlatformOllama, Message: "response has no message.content"}
	}
	if content.Type != gjson.String {
		return "", &ParseError{Platform: PlatformOllama, Message: "message.content is not a string"}
	}

	stats := gjson.GetManyBytes(body, "model", "eval_count", "prompt_eval_count", "total_duration")
	slog.Debug("received chat reply", "platform", PlatformOllama,
		"model", stats[0].String(),
		"eval_count", stats[1].Int(),
		"prompt_eval_count", stats[2].Int(),
		"total_duration", time.Duration(stats[3].Int()))

	return content.String(), nil
}
