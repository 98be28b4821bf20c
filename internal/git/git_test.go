package git

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeGit writes an executable that records its arguments to argsFile and
// then runs body.
func fakeGit(t *testing.T, body string) (bin string, argsFile string) {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("shell scripts are not executable on Windows")
	}
	dir := t.TempDir()
	argsFile = filepath.Join(dir, "args")
	bin = filepath.Join(dir, "git")
	script := "#!/bin/sh\nprintf '%s\\n' \"$@\" > '" + argsFile + "'\n" + body
	require.NoError(t, os.WriteFile(bin, []byte(script), 0o755))
	return bin, argsFile
}

func recordedArgs(t *testing.T, argsFile string) []string {
	t.Helper()
	data, err := os.ReadFile(argsFile)
	require.NoError(t, err)
	return strings.Split(strings.TrimRight(string(data), "\n"), "\n")
}

func TestRun_Success(t *testing.T) {
	bin, argsFile := fakeGit(t, "printf 'diff --git a/x b/x\\n'\n")
	client := NewClient(Options{Binary: bin})

	out, err := client.Run(context.Background(), "diff", "--no-color")
	require.NoError(t, err)
	assert.Equal(t, "diff --git a/x b/x\n", out)
	assert.Equal(t, []string{"diff", "--no-color"}, recordedArgs(t, argsFile))
}

func TestRun_InvalidUTF8IsReplaced(t *testing.T) {
	bin, _ := fakeGit(t, "printf 'ok \\377 done'\n")
	client := NewClient(Options{Binary: bin})

	out, err := client.Run(context.Background(), "show")
	require.NoError(t, err)
	assert.Equal(t, "ok � done", out)
}

func TestRun_ExitCodeMapping(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		wantNotRep bool
		wantCode   int
		wantStderr string
	}{
		{
			name:       "128 with repository message",
			body:       "echo 'fatal: not a git repository' >&2\nexit 128\n",
			wantNotRep: true,
		},
		{
			name:       "128 regardless of stderr",
			body:       "echo 'fatal: bad revision HEAD' >&2\nexit 128\n",
			wantNotRep: true,
		},
		{
			name:       "128 with empty stderr",
			body:       "exit 128\n",
			wantNotRep: true,
		},
		{
			name:       "generic failure carries stderr",
			body:       "echo 'error: pathspec did not match' >&2\nexit 1\n",
			wantCode:   1,
			wantStderr: "error: pathspec did not match",
		},
		{
			name:     "other status",
			body:     "exit 129\n",
			wantCode: 129,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bin, _ := fakeGit(t, tt.body)
			client := NewClient(Options{Binary: bin})

			out, err := client.Run(context.Background(), "diff")
			require.Error(t, err)
			assert.Empty(t, out)

			if tt.wantNotRep {
				assert.ErrorIs(t, err, ErrNotARepository)
				return
			}

			assert.False(t, errors.Is(err, ErrNotARepository))
			var cmdErr *CommandError
			require.ErrorAs(t, err, &cmdErr)
			assert.Equal(t, "diff", cmdErr.Subcommand)
			assert.Equal(t, tt.wantCode, cmdErr.ExitCode)
			assert.Equal(t, tt.wantStderr, cmdErr.Stderr)
		})
	}
}

func TestRun_MissingExecutable(t *testing.T) {
	client := NewClient(Options{Binary: filepath.Join(t.TempDir(), "no-git-here")})

	_, err := client.Run(context.Background(), "status")
	var cmdErr *CommandError
	require.ErrorAs(t, err, &cmdErr)
	assert.Equal(t, -1, cmdErr.ExitCode)
	assert.NotNil(t, cmdErr.Unwrap())
}

func TestDiff_Arguments(t *testing.T) {
	tests := []struct {
		name   string
		index  string
		staged bool
		want   []string
	}{
		{name: "working tree", want: []string{"diff", "--no-color", "-U3"}},
		{name: "staged", staged: true, want: []string{"diff", "--no-color", "-U3", "--staged"}},
		{name: "with index", index: "HEAD~1", want: []string{"diff", "--no-color", "-U3", "HEAD~1"}},
		{
			name:   "staged with index",
			index:  "main",
			staged: true,
			want:   []string{"diff", "--no-color", "-U3", "--staged", "main"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bin, argsFile := fakeGit(t, "exit 0\n")
			client := NewClient(Options{Binary: bin})

			_, err := client.Diff(context.Background(), tt.index, tt.staged)
			require.NoError(t, err)
			assert.Equal(t, tt.want, recordedArgs(t, argsFile))
		})
	}
}

func TestShowAndStagedDiff_Arguments(t *testing.T) {
	bin, argsFile := fakeGit(t, "exit 0\n")
	client := NewClient(Options{Binary: bin})

	_, err := client.Show(context.Background(), "abc123")
	require.NoError(t, err)
	assert.Equal(t, []string{"show", "--no-color", "-U3", "abc123"}, recordedArgs(t, argsFile))

	_, err = client.Show(context.Background(), "")
	require.NoError(t, err)
	assert.Equal(t, []string{"show", "--no-color", "-U3"}, recordedArgs(t, argsFile))

	_, err = client.StagedDiff(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"diff", "HEAD", "--staged", "--no-color", "-U3"}, recordedArgs(t, argsFile))
}

func TestCommitArgs(t *testing.T) {
	tests := []struct {
		name    string
		signoff bool
		edit    bool
		want    []string
	}{
		{name: "plain", want: []string{"-m", "feat: x"}},
		{name: "signoff", signoff: true, want: []string{"--signoff", "-m", "feat: x"}},
		{name: "edit", edit: true, want: []string{"--edit", "-m", "feat: x"}},
		{name: "both", signoff: true, edit: true, want: []string{"--signoff", "--edit", "-m", "feat: x"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CommitArgs("feat: x", tt.signoff, tt.edit))
		})
	}
}

func TestCommit_ExitStatusOnly(t *testing.T) {
	bin, argsFile := fakeGit(t, "exit 0\n")
	client := NewClient(Options{Binary: bin})

	require.NoError(t, client.Commit(context.Background(), "fix: thing", true, false))
	assert.Equal(t, []string{"commit", "--signoff", "-m", "fix: thing"}, recordedArgs(t, argsFile))

	failing, _ := fakeGit(t, "exit 1\n")
	err := NewClient(Options{Binary: failing}).Commit(context.Background(), "fix: thing", false, true)
	var cmdErr *CommandError
	require.ErrorAs(t, err, &cmdErr)
	assert.Equal(t, 1, cmdErr.ExitCode)
	assert.Empty(t, cmdErr.Stderr)

	notRepo, _ := fakeGit(t, "exit 128\n")
	err = NewClient(Options{Binary: notRepo}).Commit(context.Background(), "fix: thing", false, false)
	assert.ErrorIs(t, err, ErrNotARepository)
}

func TestIsRepository(t *testing.T) {
	ok, _ := fakeGit(t, "echo .git\n")
	assert.True(t, NewClient(Options{Binary: ok}).IsRepository(context.Background()))

	notRepo, _ := fakeGit(t, "exit 128\n")
	assert.False(t, NewClient(Options{Binary: notRepo}).IsRepository(context.Background()))
}

func TestCommandError_Message(t *testing.T) {
	withStderr := &CommandError{Subcommand: "show", ExitCode: 1, Stderr: "  bad object  \n"}
	assert.Equal(t, "git show failed (exit 1): bad object", withStderr.Error())

	withoutStderr := &CommandError{Subcommand: "commit", ExitCode: 1}
	assert.Equal(t, "git commit failed (exit 1)", withoutStderr.Error())

	startFailure := &CommandError{Subcommand: "diff", ExitCode: -1, Err: errors.New("exec: not found")}
	assert.Equal(t, "git diff failed: exec: not found", startFailure.Error())
}
