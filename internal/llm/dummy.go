package llm

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
)

// DummyAnswer is the placeholder reply returned for unknown platforms.
const DummyAnswer = "No chat backend is available for the configured platform; nothing was generated."

// DummyBackend stands in for a platform nobody registered. It never fails and
// never touches the network.
type DummyBackend struct {
	Platform string
	Known    []string
	Notice   io.Writer
}

// Chat prints a notice and returns DummyAnswer.
func (d *DummyBackend) Chat(_ context.Context, _, _ string, _ []ChatMessage) (string, error) {
	w := d.Notice
	if w == nil {
		w = os.Stderr
	}
	known := "none"
	if len(d.Known) > 0 {
		known = strings.Join(d.Known, ", ")
	}
	fmt.Fprintf(w, "Warning: no chat backend registered for platform %q (available: %s)\n", d.Platform, known)
	return DummyAnswer, nil
}
