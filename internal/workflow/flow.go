package workflow

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/atotto/clipboard"

	"github.com/samzong/aigit/internal/config"
	"github.com/samzong/aigit/internal/formatter"
	"github.com/samzong/aigit/internal/llm"
	"github.com/samzong/aigit/internal/reasoning"
	"github.com/samzong/aigit/internal/render"
	"github.com/samzong/aigit/internal/ui"
)

// ErrNoChanges is returned by Commit when nothing is staged.
var ErrNoChanges = errors.New("no changes detected in the staging area")

// ErrEmptyMessage is returned when the backend produced an empty commit message.
var ErrEmptyMessage = errors.New("generated commit message is empty")

// PlaceholderMessage is committed when no message is generated. The editor
// opened by git lets the user replace it.
const PlaceholderMessage = "chore: update (edit this placeholder message before committing)"

// Options configures a Flow.
type Options struct {
	OutWriter io.Writer
	ErrWriter io.Writer

	// Color enables markdown rendering and diff coloring on OutWriter.
	Color bool
	// HeaderColor enables styled section headers on ErrWriter.
	HeaderColor bool
	Render      render.Options

	NewIndicator IndicatorFactory
	Clipboard    ClipboardWriter
}

// DiffOptions drives Flow.Diff.
type DiffOptions struct {
	Index   string
	Staged  bool
	Explain bool
}

// ShowOptions drives Flow.Show.
type ShowOptions struct {
	Hash    string
	Explain bool
}

// CommitOptions drives Flow.Commit.
type CommitOptions struct {
	Explain bool
	Signoff bool
	// Direct commits without opening the editor.
	Direct bool
	DryRun bool
	Copy   bool
}

// ListOptions drives Flow.List.
type ListOptions struct {
	Number  int
	Explain bool
}

// Flow runs one command pipeline. backend may be nil when no step needs it.
type Flow struct {
	git     GitClient
	backend llm.Backend
	cfg     *config.Config
	opts    Options
}

// NewFlow returns a Flow with defaults filled in for unset options.
func NewFlow(git GitClient, backend llm.Backend, cfg *config.Config, opts Options) *Flow {
	if opts.OutWriter == nil {
		opts.OutWriter = os.Stdout
	}
	if opts.ErrWriter == nil {
		opts.ErrWriter = os.Stderr
	}
	if opts.NewIndicator == nil {
		errWriter := opts.ErrWriter
		opts.NewIndicator = func(message string) ui.Indicator {
			return ui.NewSpinnerOn(errWriter, message)
		}
	}
	if opts.Clipboard == nil {
		opts.Clipboard = clipboard.WriteAll
	}
	if cfg == nil {
		cfg = &config.Config{}
	}
	return &Flow{git: git, backend: backend, cfg: cfg, opts: opts}
}

// Diff prints the working tree (or staged) diff and optionally explains it.
func (f *Flow) Diff(ctx context.Context, opts DiffOptions) error {
	diff, err := f.git.Diff(ctx, opts.Index, opts.Staged)
	if err != nil {
		return fmt.Errorf("failed to get git diff: %w", err)
	}
	return f.present(ctx, diff, opts.Explain)
}

// Show prints a commit and optionally explains it.
func (f *Flow) Show(ctx context.Context, opts ShowOptions) error {
	out, err := f.git.Show(ctx, opts.Hash)
	if err != nil {
		return fmt.Errorf("failed to show commit: %w", err)
	}
	return f.present(ctx, out, opts.Explain)
}

func (f *Flow) present(ctx context.Context, text string, explain bool) error {
	if err := f.printDiff(text); err != nil {
		return err
	}
	if !explain {
		return nil
	}
	if strings.TrimSpace(text) == "" {
		fmt.Fprintln(f.opts.ErrWriter, "No changes to explain.")
		return nil
	}

	explanation, err := f.Explain(ctx, text)
	if err != nil {
		return err
	}
	return f.printExplanation(explanation)
}

// Commit commits the staged changes with a generated or placeholder message.
func (f *Flow) Commit(ctx context.Context, opts CommitOptions) error {
	diff, err := f.git.StagedDiff(ctx)
	if err != nil {
		return fmt.Errorf("failed to get staged diff: %w", err)
	}
	if strings.TrimSpace(diff) == "" {
		return ErrNoChanges
	}

	f.header("Staged changes")
	if err := f.printDiff(diff); err != nil {
		return err
	}

	message := PlaceholderMessage
	if opts.Explain {
		explanation, err := f.Explain(ctx, diff)
		if err != nil {
			return err
		}
		if err := f.printExplanation(explanation); err != nil {
			return err
		}

		message, err = f.CommitMessage(ctx, explanation)
		if err != nil {
			return err
		}
	}

	f.header("Commit message")
	fmt.Fprintln(f.opts.OutWriter, message)

	if opts.Copy {
		if err := f.opts.Clipboard(message); err != nil {
			slog.Warn("failed to copy commit message to clipboard", "error", err)
		} else {
			fmt.Fprintln(f.opts.ErrWriter, "Commit message copied to clipboard.")
		}
	}

	if opts.DryRun {
		fmt.Fprintln(f.opts.ErrWriter, "Dry run mode, no actual commit")
		return nil
	}

	if err := f.git.Commit(ctx, message, opts.Signoff, !opts.Direct); err != nil {
		return fmt.Errorf("failed to commit changes: %w", err)
	}
	fmt.Fprintln(f.opts.ErrWriter, "Successfully committed changes!")
	return nil
}

// List is a placeholder command; it does nothing.
func (f *Flow) List(_ context.Context, opts ListOptions) error {
	slog.Debug("list is not implemented", "number", opts.Number, "explain", opts.Explain)
	return nil
}

// Explain asks the backend for a Markdown explanation of diff and returns the
// visible answer.
func (f *Flow) Explain(ctx context.Context, diff string) (string, error) {
	answer, err := f.ask(ctx, "Explaining changes...", formatter.BuildExplainPrompt(diff))
	if err != nil {
		return "", fmt.Errorf("failed to explain changes: %w", err)
	}
	return answer, nil
}

// CommitMessage asks the backend for a commit message derived from explanation.
func (f *Flow) CommitMessage(ctx context.Context, explanation string) (string, error) {
	answer, err := f.ask(ctx, "Generating commit message...", formatter.BuildCommitMessagePrompt(explanation))
	if err != nil {
		return "", fmt.Errorf("failed to generate commit message: %w", err)
	}
	message := formatter.CleanCommitMessage(answer)
	if message == "" {
		return "", ErrEmptyMessage
	}
	return message, nil
}

func (f *Flow) ask(ctx context.Context, status string, messages []llm.ChatMessage) (string, error) {
	if f.backend == nil {
		return "", errors.New("no chat backend configured")
	}

	sp := f.opts.NewIndicator(status)
	sp.Start()
	raw, err := f.backend.Chat(ctx, f.cfg.Model, f.cfg.APIKey, messages)
	sp.Stop()
	if err != nil {
		return "", err
	}

	thinking, answer, ok := reasoning.Split(raw)
	if !ok {
		return "", reasoning.ErrMarkerMismatch
	}
	if thinking != "" {
		slog.Debug("stripped reasoning from reply", "reasoning_bytes", len(thinking))
	}
	return answer, nil
}

func (f *Flow) header(title string) {
	fmt.Fprintln(f.opts.ErrWriter, render.Header(f.opts.ErrWriter, title, f.opts.HeaderColor))
}

func (f *Flow) printDiff(diff string) error {
	if err := render.Diff(f.opts.OutWriter, diff, f.opts.Color); err != nil {
		return fmt.Errorf("failed to print diff: %w", err)
	}
	return nil
}

func (f *Flow) printExplanation(explanation string) error {
	f.header("Explanation")
	if f.opts.Color {
		rendered, err := render.Markdown(explanation, f.opts.Render)
		if err == nil {
			_, err = io.WriteString(f.opts.OutWriter, rendered)
			return err
		}
		slog.Warn("failed to render markdown, printing plain text", "error", err)
	}
	_, err := fmt.Fprintln(f.opts.OutWriter, explanation)
	return err
}
