package git

import (
	"errors"
	"fmt"
	"strings"
)

// ExitNotARepository is the status git uses for fatal errors such as running
// outside of a work tree.
const ExitNotARepository = 128

// ErrNotARepository is returned whenever git exits with status 128.
var ErrNotARepository = errors.New("not a git repository (or git reported a fatal error)")

// CommandError reports a git invocation that exited with a non-zero status
// other than 128, or that could not be started at all (ExitCode -1).
type CommandError struct {
	Subcommand string
	ExitCode   int
	Stderr     string
	Err        error
}

func (e *CommandError) Error() string {
	msg := strings.TrimSpace(e.Stderr)
	switch {
	case msg != "":
		return fmt.Sprintf("git %s failed (exit %d): %s", e.Subcommand, e.ExitCode, msg)
	case e.Err != nil:
		return fmt.Sprintf("git %s failed: %v", e.Subcommand, e.Err)
	default:
		return fmt.Sprintf("git %s failed (exit %d)", e.Subcommand, e.ExitCode)
	}
}

func (e *CommandError) Unwrap() error {
	return e.Err
}

// classify maps a git exit status to the gateway's error contract.
func classify(subcommand string, exitCode int, stderr string) error {
	switch exitCode {
	case 0:
		return nil
	case ExitNotARepository:
		return ErrNotARepository
	default:
		return &CommandError{Subcommand: subcommand, ExitCode: exitCode, Stderr: stderr}
	}
}
