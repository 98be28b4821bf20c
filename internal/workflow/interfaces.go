// Package workflow sequences git, the prompt builder and the chat backend
// into the diff, show and commit pipelines.
package workflow

import (
	"context"

	"github.com/samzong/aigit/internal/ui"
)

// GitClient abstracts git operations for testability.
type GitClient interface {
	Diff(ctx context.Context, index string, staged bool) (string, error)
	Show(ctx context.Context, hash string) (string, error)
	StagedDiff(ctx context.Context) (string, error)
	Commit(ctx context.Context, message string, signoff, edit bool) error
}

// IndicatorFactory creates the progress indicator shown during a backend call.
type IndicatorFactory func(message string) ui.Indicator

// ClipboardWriter copies text to the system clipboard.
type ClipboardWriter func(text string) error
