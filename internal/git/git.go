package git

import (
	"context"
	"io"
	"strings"

	"github.com/samzong/aigit/internal/gitcmd"
)

// Diff formatting flags shared by every diff-producing subcommand.
var diffFormatArgs = []string{"--no-color", "-U3"}

// Options configures a Client.
type Options struct {
	Binary  string
	Dir     string
	Verbose bool
	// Logger receives verbose "Running: git ..." lines; stderr when nil.
	Logger io.Writer
	Runner *gitcmd.Runner
}

// Client is the gateway to the git executable.
type Client struct {
	runner gitcmd.Runner
}

// NewClient returns a Client backed by a gitcmd.Runner.
func NewClient(opts Options) *Client {
	if opts.Runner != nil {
		return &Client{runner: *opts.Runner}
	}
	return &Client{runner: gitcmd.Runner{
		Binary:  opts.Binary,
		Dir:     opts.Dir,
		Verbose: opts.Verbose,
		Logger:  opts.Logger,
	}}
}

// Run executes `git <subcommand> <args...>` and returns its stdout.
// Invalid UTF-8 in the output is replaced, never rejected.
func (c *Client) Run(ctx context.Context, subcommand string, args ...string) (string, error) {
	result, err := c.runner.Run(ctx, append([]string{subcommand}, args...)...)
	if err != nil {
		return "", &CommandError{Subcommand: subcommand, ExitCode: result.ExitCode, Err: err}
	}
	if err := classify(subcommand, result.ExitCode, result.StderrString(true)); err != nil {
		return "", err
	}
	return toText(result.Stdout), nil
}

// RunInteractive executes `git <subcommand> <args...>` with the terminal
// attached. Success is decided by the exit status alone.
func (c *Client) RunInteractive(ctx context.Context, subcommand string, args ...string) error {
	code, err := c.runner.RunInteractive(ctx, append([]string{subcommand}, args...)...)
	if err != nil {
		return &CommandError{Subcommand: subcommand, ExitCode: code, Err: err}
	}
	return classify(subcommand, code, "")
}

// Diff returns `git diff --no-color -U3 [--staged] [index]`.
func (c *Client) Diff(ctx context.Context, index string, staged bool) (string, error) {
	return c.Run(ctx, "diff", DiffArgs(index, staged)...)
}

// Show returns `git show --no-color -U3 [hash]`.
func (c *Client) Show(ctx context.Context, hash string) (string, error) {
	return c.Run(ctx, "show", ShowArgs(hash)...)
}

// StagedDiff returns the staged changes relative to HEAD.
func (c *Client) StagedDiff(ctx context.Context) (string, error) {
	return c.Run(ctx, "diff", StagedDiffArgs()...)
}

// Commit runs `git commit` in the foreground so an editor may attach.
func (c *Client) Commit(ctx context.Context, message string, signoff, edit bool) error {
	return c.RunInteractive(ctx, "commit", CommitArgs(message, signoff, edit)...)
}

// IsRepository reports whether the working directory is inside a repository.
func (c *Client) IsRepository(ctx context.Context) bool {
	_, err := c.Run(ctx, "rev-parse", "--git-dir")
	return err == nil
}

// DiffArgs builds the arguments for the diff subcommand.
func DiffArgs(index string, staged bool) []string {
	args := append([]string{}, diffFormatArgs...)
	if staged {
		args = append(args, "--staged")
	}
	if index != "" {
		args = append(args, index)
	}
	return args
}

// ShowArgs builds the arguments for the show subcommand.
func ShowArgs(hash string) []string {
	args := append([]string{}, diffFormatArgs...)
	if hash != "" {
		args = append(args, hash)
	}
	return args
}

// StagedDiffArgs builds the arguments used to capture the staged diff for a commit.
func StagedDiffArgs() []string {
	return append([]string{"HEAD", "--staged"}, diffFormatArgs...)
}

// CommitArgs builds the arguments for the commit subcommand.
func CommitArgs(message string, signoff, edit bool) []string {
	var args []string
	if signoff {
		args = append(args, "--signoff")
	}
	if edit {
		args = append(args, "--edit")
	}
	return append(args, "-m", message)
}

func toText(b []byte) string {
	return strings.ToValidUTF8(string(b), "\uFFFD")
}
