// Package git is the gateway between aigit and the git executable.
//
// Every operation shells out to git and treats its output as opaque text.
// Exit statuses are translated into a small error contract:
//
//   - 0 is success and stdout is returned (invalid UTF-8 is replaced)
//   - 128 is ErrNotARepository, whatever git printed on stderr
//   - anything else is a *CommandError carrying git's stderr
//
// Nothing is retried. Commit runs attached to the terminal so git can open
// the user's editor; its outcome is the exit status only.
//
// Example:
//
//	client := git.NewClient(git.Options{Verbose: true})
//	diff, err := client.Diff(ctx, "", true)
//	if errors.Is(err, git.ErrNotARepository) {
//	    return err
//	}
package git
