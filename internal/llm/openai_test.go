package llm

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenAIChat(t *testing.T) {
	var gotPath, gotAuth string
	var gotBody map[string]any

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAuth = r.Header.Get("Authorization")
		body, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(body, &gotBody)

		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{
			"id": "chatcmpl-1",
			"object": "chat.completion",
			"model": "gpt-4o-mini",
			"choices": [{"index": 0, "message": {"role": "assistant", "content": "fix: handle nil"}, "finish_reason": "stop"}],
			"usage": {"prompt_tokens": 10, "completion_tokens": 4, "total_tokens": 14}
		}`)
	}))
	defer server.Close()

	backend := NewOpenAIBackend(server.URL+"/v1/", server.Client())
	reply, err := backend.Chat(context.Background(), "gpt-4o-mini", "sk-test",
		[]ChatMessage{System("rules"), User("diff")})
	require.NoError(t, err)

	assert.Equal(t, "fix: handle nil", reply)
	assert.Equal(t, "/v1/chat/completions", gotPath)
	assert.Equal(t, "Bearer sk-test", gotAuth)
	assert.Equal(t, "gpt-4o-mini", gotBody["model"])

	messages, ok := gotBody["messages"].([]any)
	require.True(t, ok)
	require.Len(t, messages, 2)
	assert.Equal(t, "system", messages[0].(map[string]any)["role"])
	assert.Equal(t, "diff", messages[1].(map[string]any)["content"])
}

func TestOpenAIChatErrors(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		check  func(t *testing.T, err error)
	}{
		{
			name:   "api error",
			status: http.StatusUnauthorized,
			body:   `{"error":{"message":"Incorrect API key provided","type":"invalid_request_error"}}`,
			check: func(t *testing.T, err error) {
				var target *HTTPStatusError
				require.ErrorAs(t, err, &target)
				assert.Equal(t, http.StatusUnauthorized, target.StatusCode)
				assert.Contains(t, target.Body, "Incorrect API key")
			},
		},
		{
			name:   "unstructured error body",
			status: http.StatusBadGateway,
			body:   `upstream unavailable`,
			check: func(t *testing.T, err error) {
				var target *HTTPStatusError
				require.ErrorAs(t, err, &target)
				assert.Equal(t, http.StatusBadGateway, target.StatusCode)
			},
		},
		{
			name:   "no choices",
			status: http.StatusOK,
			body:   `{"id":"x","choices":[]}`,
			check: func(t *testing.T, err error) {
				var target *ParseError
				require.ErrorAs(t, err, &target)
				assert.Contains(t, target.Message, "no choices")
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(tt.status)
				_, _ = io.WriteString(w, tt.body)
			}))
			defer server.Close()

			backend := NewOpenAIBackend(server.URL, server.Client())
			_, err := backend.Chat(context.Background(), "m", "k", []ChatMessage{User("x")})
			require.Error(t, err)
			tt.check(t, err)
		})
	}
}

func TestOpenAIChatTransportError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	url := server.URL
	server.Close()

	backend := NewOpenAIBackend(url, &http.Client{})
	_, err := backend.Chat(context.Background(), "m", "k", []ChatMessage{User("x")})

	var target *TransportError
	require.ErrorAs(t, err, &target)
	assert.Equal(t, PlatformOpenAI, target.Platform)
	assert.True(t, strings.HasPrefix(target.Endpoint, "http://"))
}
