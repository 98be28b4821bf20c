package gitcmd

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"
)

// DefaultBinary is the executable looked up on PATH when Runner.Binary is empty.
const DefaultBinary = "git"

// Runner executes git commands with shared logging and output handling.
type Runner struct {
	Binary  string
	Verbose bool
	Dir     string
	Env     []string
	Logger  io.Writer
}

// Result contains the exit status and captured stdout/stderr for a git command.
type Result struct {
	ExitCode int
	Stdout   []byte
	Stderr   []byte
}

func (r Result) StdoutString(trim bool) string {
	output := string(r.Stdout)
	if trim {
		return strings.TrimSpace(output)
	}
	return output
}

func (r Result) StderrString(trim bool) string {
	output := string(r.Stderr)
	if trim {
		return strings.TrimSpace(output)
	}
	return output
}

func (r Runner) withDefaults() Runner {
	if r.Logger == nil {
		r.Logger = os.Stderr
	}
	if r.Binary == "" {
		r.Binary = DefaultBinary
	}
	return r
}

func (r Runner) command(ctx context.Context, args ...string) *exec.Cmd {
	cmd := exec.CommandContext(ctx, r.Binary, args...)
	if r.Dir != "" {
		cmd.Dir = r.Dir
	}
	if len(r.Env) > 0 {
		cmd.Env = append(os.Environ(), r.Env...)
	}
	return cmd
}

func (r Runner) log(args []string) {
	if !r.Verbose {
		return
	}
	fmt.Fprintf(r.Logger, "Running: git %s\n", strings.Join(args, " "))
}

func (r Runner) prepare(ctx context.Context, args []string) *exec.Cmd {
	r = r.withDefaults()
	r.log(args)
	return r.command(ctx, args...)
}

// Run executes a git command and captures stdout/stderr.
//
// A non-zero exit is reported through Result.ExitCode with a nil error; the
// returned error is reserved for failures to start or wait on the process.
func (r Runner) Run(ctx context.Context, args ...string) (Result, error) {
	cmd := r.prepare(ctx, args)
	var outBuf bytes.Buffer
	var errBuf bytes.Buffer
	cmd.Stdout = &outBuf
	cmd.Stderr = &errBuf

	code, err := exitStatus(cmd.Run())
	return Result{ExitCode: code, Stdout: outBuf.Bytes(), Stderr: errBuf.Bytes()}, err
}

// RunInteractive executes a git command attached to the terminal so that git
// can spawn an editor. Only the exit status is reported.
func (r Runner) RunInteractive(ctx context.Context, args ...string) (int, error) {
	return r.RunWithStreams(ctx, os.Stdin, os.Stdout, os.Stderr, args...)
}

// RunWithStreams executes a git command with the provided standard streams.
func (r Runner) RunWithStreams(
	ctx context.Context, stdin io.Reader, stdout io.Writer, stderr io.Writer, args ...string,
) (int, error) {
	cmd := r.prepare(ctx, args)
	cmd.Stdin = stdin
	cmd.Stdout = stdout
	cmd.Stderr = stderr

	return exitStatus(cmd.Run())
}

func exitStatus(err error) (int, error) {
	if err == nil {
		return 0, nil
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) && exitErr.ExitCode() >= 0 {
		return exitErr.ExitCode(), nil
	}
	return -1, err
}
