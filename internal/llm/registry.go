package llm

import (
	"context"
	"io"
	"net/http"
	"os"
	"time"
)

// DefaultTimeout bounds a single backend round trip.
const DefaultTimeout = 300 * time.Second

// Platform names registered by DefaultRegistry.
const (
	PlatformOllama = "ollama"
	PlatformOpenAI = "openai"
)

// Backend sends a conversation to a chat service and returns the raw reply text.
type Backend interface {
	Chat(ctx context.Context, model, apiKey string, messages []ChatMessage) (string, error)
}

// HTTPDoer defines the HTTP operations required by the HTTP backends.
// This allows injection of test doubles for testing.
type HTTPDoer interface {
	Do(*http.Request) (*http.Response, error)
}

// Entry binds a platform name to a backend.
type Entry struct {
	Platform string
	Backend  Backend
}

// Registry is an ordered, read-only list of backends.
// Platform names are not required to be unique; the first match wins.
type Registry struct {
	entries []Entry
	notice  io.Writer
}

// NewRegistry returns a registry holding entries in the given order.
// Notices from the fallback backend are written to notice (stderr when nil).
func NewRegistry(notice io.Writer, entries ...Entry) *Registry {
	if notice == nil {
		notice = os.Stderr
	}
	return &Registry{
		entries: append([]Entry(nil), entries...),
		notice:  notice,
	}
}

// Settings carries the connection parameters for the built-in backends.
type Settings struct {
	// BaseURL and Port locate the ollama server, joined as "{BaseURL}:{Port}".
	BaseURL string
	Port    string
	// APIBase overrides the OpenAI-compatible endpoint; empty uses the public API.
	APIBase string
	Timeout time.Duration
}

// DefaultRegistry registers the built-in backends: ollama, then openai.
func DefaultRegistry(settings Settings, notice io.Writer) *Registry {
	timeout := settings.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	httpClient := &http.Client{Timeout: timeout}

	return NewRegistry(notice,
		Entry{
			Platform: PlatformOllama,
			Backend:  NewOllamaBackend(settings.BaseURL, settings.Port, WithHTTPDoer(httpClient)),
		},
		Entry{
			Platform: PlatformOpenAI,
			Backend:  NewOpenAIBackend(settings.APIBase, httpClient),
		},
	)
}

// Resolve returns the backend registered for platform. Unknown platforms get
// a DummyBackend so that a misconfigured platform degrades instead of aborting.
func (r *Registry) Resolve(platform string) Backend {
	for _, entry := range r.entries {
		if entry.Platform == platform {
			return entry.Backend
		}
	}
	return &DummyBackend{Platform: platform, Known: r.Platforms(), Notice: r.notice}
}

// Lookup returns the backend registered for platform and whether one exists.
func (r *Registry) Lookup(platform string) (Backend, bool) {
	for _, entry := range r.entries {
		if entry.Platform == platform {
			return entry.Backend, true
		}
	}
	return nil, false
}

// Platforms lists the registered platform names in registration order.
func (r *Registry) Platforms() []string {
	names := make([]string, 0, len(r.entries))
	for _, entry := range r.entries {
		names = append(names, entry.Platform)
	}
	return names
}
