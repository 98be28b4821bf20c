package llm

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockDoer struct {
	requests []*http.Request
	bodies   []string
	response *http.Response
	err      error
}

func (m *mockDoer) Do(req *http.Request) (*http.Response, error) {
	m.requests = append(m.requests, req)
	if req.Body != nil {
		body, _ := io.ReadAll(req.Body)
		m.bodies = append(m.bodies, string(body))
	}
	if m.err != nil {
		return nil, m.err
	}
	return m.response, nil
}

func jsonResponse(status int, body string) *http.Response {
	return &http.Response{
		StatusCode: status,
		Body:       io.NopCloser(strings.NewReader(body)),
		Header:     http.Header{"Content-Type": []string{"application/json"}},
	}
}

func TestOllamaEndpoint(t *testing.T) {
	tests := []struct {
		name    string
		baseURL string
		port    string
		want    string
	}{
		{name: "defaults", baseURL: "", port: DefaultOllamaPort, want: "http://localhost:11434/api/chat"},
		{name: "custom host", baseURL: "http://gpu-box", port: "8080", want: "http://gpu-box:8080/api/chat"},
		{name: "trailing slash", baseURL: "http://gpu-box/", port: "8080", want: "http://gpu-box:8080/api/chat"},
		{name: "no port", baseURL: "https://ollama.example.com", port: "", want: "https://ollama.example.com/api/chat"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NewOllamaBackend(tt.baseURL, tt.port).Endpoint())
		})
	}
}

func TestOllamaChatRequestShape(t *testing.T) {
	doer := &mockDoer{response: jsonResponse(http.StatusOK,
		`{"model":"llama3","message":{"role":"assistant","content":"hello"},"done":true,"eval_count":3}`)}
	backend := NewOllamaBackend("http://localhost", "11434", WithHTTPDoer(doer))

	reply, err := backend.Chat(context.Background(), "llama3", "secret",
		[]ChatMessage{System("be brief"), User("hi")})
	require.NoError(t, err)
	assert.Equal(t, "hello", reply)

	require.Len(t, doer.requests, 1)
	req := doer.requests[0]
	assert.Equal(t, http.MethodPost, req.Method)
	assert.Equal(t, "http://localhost:11434/api/chat", req.URL.String())
	assert.Equal(t, "application/json", req.Header.Get("Content-Type"))
	assert.Equal(t, "Bearer secret", req.Header.Get("Authorization"))

	var sent map[string]any
	require.NoError(t, json.Unmarshal([]byte(doer.bodies[0]), &sent))
	assert.Equal(t, "llama3", sent["model"])
	assert.Equal(t, false, sent["stream"])
	assert.Equal(t, []any{
		map[string]any{"role": "system", "content": "be brief"},
		map[string]any{"role": "user", "content": "hi"},
	}, sent["messages"])
}

func TestOllamaChatOmitsAuthorizationWithoutKey(t *testing.T) {
	doer := &mockDoer{response: jsonResponse(http.StatusOK, `{"message":{"content":"ok"}}`)}
	backend := NewOllamaBackend("", DefaultOllamaPort, WithHTTPDoer(doer))

	_, err := backend.Chat(context.Background(), "m", "", nil)
	require.NoError(t, err)
	assert.Empty(t, doer.requests[0].Header.Get("Authorization"))
}

func TestOllamaChatKeepsReasoningMarkers(t *testing.T) {
	doer := &mockDoer{response: jsonResponse(http.StatusOK,
		`{"message":{"role":"assistant","content":"<think>analyzing</think>feat: add parser"}}`)}
	backend := NewOllamaBackend("", DefaultOllamaPort, WithHTTPDoer(doer))

	reply, err := backend.Chat(context.Background(), "m", "k", []ChatMessage{User("x")})
	require.NoError(t, err)
	assert.Equal(t, "<think>analyzing</think>feat: add parser", reply)
}

func TestOllamaChatErrors(t *testing.T) {
	tests := []struct {
		name  string
		doer  *mockDoer
		check func(t *testing.T, err error)
	}{
		{
			name: "transport failure",
			doer: &mockDoer{err: errors.New("dial tcp: connection refused")},
			check: func(t *testing.T, err error) {
				var target *TransportError
				require.ErrorAs(t, err, &target)
				assert.Equal(t, PlatformOllama, target.Platform)
				assert.Contains(t, err.Error(), "connection refused")
			},
		},
		{
			name: "non-2xx status",
			doer: &mockDoer{response: jsonResponse(http.StatusInternalServerError, `{"error":"model not found"}`)},
			check: func(t *testing.T, err error) {
				var target *HTTPStatusError
				require.ErrorAs(t, err, &target)
				assert.Equal(t, http.StatusInternalServerError, target.StatusCode)
				assert.Contains(t, target.Body, "model not found")
			},
		},
		{
			name: "invalid json",
			doer: &mockDoer{response: jsonResponse(http.StatusOK, `not json`)},
			check: func(t *testing.T, err error) {
				var target *ParseError
				require.ErrorAs(t, err, &target)
				assert.Contains(t, target.Message, "not valid JSON")
			},
		},
		{
			name: "missing content",
			doer: &mockDoer{response: jsonResponse(http.StatusOK, `{"message":{"role":"assistant"}}`)},
			check: func(t *testing.T, err error) {
				var target *ParseError
				require.ErrorAs(t, err, &target)
				assert.Contains(t, target.Message, "message.content")
			},
		},
		{
			name: "error field on success status",
			doer: &mockDoer{response: jsonResponse(http.StatusOK, `{"error":"out of memory"}`)},
			check: func(t *testing.T, err error) {
				var target *ParseError
				require.ErrorAs(t, err, &target)
				assert.Contains(t, target.Message, "out of memory")
			},
		},
		{
			name: "content not a string",
			doer: &mockDoer{response: jsonResponse(http.StatusOK, `{"message":{"content":42}}`)},
			check: func(t *testing.T, err error) {
				var target *ParseError
				require.ErrorAs(t, err, &target)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			backend := NewOllamaBackend("", DefaultOllamaPort, WithHTTPDoer(tt.doer))
			_, err := backend.Chat(context.Background(), "m", "", []ChatMessage{User("x")})
			require.Error(t, err)
			tt.check(t, err)
		})
	}
}

func TestOllamaStatusBodyIsTruncated(t *testing.T) {
	doer := &mockDoer{response: jsonResponse(http.StatusBadGateway, strings.Repeat("x", 2000))}
	backend := NewOllamaBackend("", DefaultOllamaPort, WithHTTPDoer(doer))

	_, err := backend.Chat(context.Background(), "m", "", nil)
	var target *HTTPStatusError
	require.ErrorAs(t, err, &target)
	assert.Len(t, target.Body, maxErrorBody)
}

func TestOllamaStatusBodyTruncatesOnRuneBoundary(t *testing.T) {
	body := "x" + strings.Repeat("é", 600)
	doer := &mockDoer{response: jsonResponse(http.StatusBadGateway, body)}
	backend := NewOllamaBackend("", DefaultOllamaPort, WithHTTPDoer(doer))

	_, err := backend.Chat(context.Background(), "m", "", nil)
	var target *HTTPStatusError
	require.ErrorAs(t, err, &target)
	assert.True(t, utf8.ValidString(target.Body))
	assert.True(t, utf8.ValidString(err.Error()))
	assert.Len(t, target.Body, maxErrorBody-1)
	assert.True(t, strings.HasPrefix(body, target.Body))
}

func TestTruncateBody(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want int
	}{
		{name: "short", in: "bad gateway", want: len("bad gateway")},
		{name: "ascii", in: strings.Repeat("a", 600), want: maxErrorBody},
		{name: "two byte runes", in: "x" + strings.Repeat("é", 600), want: maxErrorBody - 1},
		{name: "four byte runes", in: strings.Repeat("😀", 200), want: maxErrorBody},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := truncateBody(tt.in)
			assert.Len(t, got, tt.want)
			assert.True(t, utf8.ValidString(got))
		})
	}
}
