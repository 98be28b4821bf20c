package cmd

import (
	"github.com/spf13/cobra"

	"github.com/samzong/aigit/internal/workflow"
)

var (
	commitOpts workflow.CommitOptions

	commitCmd = &cobra.Command{
		Use:   "commit",
		Short: "Commit staged changes with a generated message",
		Long: `Commit the staged changes. With --explain the staged diff is explained ` +
			`and the explanation is turned into a conventional commit message. ` +
			`Without it a placeholder message is used. git opens your editor so the ` +
			`message can be reviewed, unless --direct is given.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			flow, err := newFlow(commitOpts.Explain)
			if err != nil {
				return err
			}
			return handleErrors(cmd.Context(), flow.Commit(cmd.Context(), commitOpts))
		},
	}
)

func init() {
	commitCmd.Flags().BoolVarP(&commitOpts.Explain, "explain", "e", false,
		"Explain the staged changes and generate the commit message")
	commitCmd.Flags().BoolVarP(&commitOpts.Signoff, "signoff", "s", false, "Add a Signed-off-by trailer")
	commitCmd.Flags().BoolVarP(&commitOpts.Direct, "direct", "d", false, "Commit without opening the editor")
	commitCmd.Flags().BoolVar(&commitOpts.DryRun, "dry-run", false, "Generate message only, do not commit")
	commitCmd.Flags().BoolVar(&commitOpts.Copy, "copy", false, "Copy the commit message to the clipboard")
}
