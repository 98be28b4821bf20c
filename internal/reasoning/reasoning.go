// Package reasoning separates a model's thinking trace from its final answer.
package reasoning

import (
	"errors"
	"strings"
)

// Markers delimiting the reasoning segment of a reply.
const (
	OpenMarker  = "<think>"
	CloseMarker = "</think>"
)

// ErrMarkerMismatch is returned when a reply opens a reasoning segment and never closes it.
var ErrMarkerMismatch = errors.New("reasoning marker opened but never closed; reply has no usable answer")

// Split returns the reasoning and the answer of raw.
//
// Without an open marker the whole trimmed text is the answer. With an open
// marker, the first close marker after it ends the reasoning and everything
// after that close marker is the answer. ok is false when the open marker has
// no close marker after it; callers must not fall back to raw in that case.
func Split(raw string) (reasoning, answer string, ok bool) {
	open := strings.Index(raw, OpenMarker)
	if open < 0 {
		return "", strings.TrimSpace(raw), true
	}

	start := open + len(OpenMarker)
	closeAt := strings.Index(raw[start:], CloseMarker)
	if closeAt < 0 {
		return "", "", false
	}

	reasoning = strings.TrimSpace(raw[start : start+closeAt])
	answer = strings.TrimSpace(raw[start+closeAt+len(CloseMarker):])
	return reasoning, answer, true
}

// Answer returns the visible answer of raw or ErrMarkerMismatch.
func Answer(raw string) (string, error) {
	_, answer, ok := Split(raw)
	if !ok {
		return "", ErrMarkerMismatch
	}
	return answer, nil
}
