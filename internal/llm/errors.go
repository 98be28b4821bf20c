package llm

import (
	"fmt"
	"unicode/utf8"
)

// maxErrorBody bounds how much of an upstream error body is kept.
const maxErrorBody = 500

// TransportError reports a request that never produced an HTTP response:
// connection failures, DNS errors and timeouts.
type TransportError struct {
	Platform string
	Endpoint string
	Err      error
}

func (e *TransportError) Error() string {
	if e.Endpoint == "" {
		return fmt.Sprintf("%s: request failed: %v", e.Platform, e.Err)
	}
	return fmt.Sprintf("%s: request to %s failed: %v", e.Platform, e.Endpoint, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// HTTPStatusError captures a non-2xx response from a backend.
type HTTPStatusError struct {
	Platform   string
	StatusCode int
	Endpoint   string
	Body       string
}

func (e *HTTPStatusError) Error() string {
	msg := fmt.Sprintf("%s: unexpected status %d", e.Platform, e.StatusCode)
	if e.Endpoint != "" {
		msg += " from " + e.Endpoint
	}
	if e.Body != "" {
		msg += ": " + e.Body
	}
	return msg
}

// ParseError reports a reply body that could not be interpreted.
type ParseError struct {
	Platform string
	Message  string
	Err      error
}

func (e *ParseError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: parse error: %s: %v", e.Platform, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: parse error: %s", e.Platform, e.Message)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// truncateBody cuts body to at most maxErrorBody bytes on a rune boundary.
func truncateBody(body string) string {
	if len(body) <= maxErrorBody {
		return body
	}
	cut := maxErrorBody
	for cut > 0 && !utf8.RuneStart(body[cut]) {
		cut--
	}
	return body[:cut]
}
