package cmd

import (
	"github.com/spf13/cobra"

	"github.com/samzong/aigit/internal/workflow"
)

var (
	diffOpts workflow.DiffOptions

	diffCmd = &cobra.Command{
		Use:   "diff [index]",
		Short: "Show changes, optionally explained by the model",
		Long: `Show the working tree changes like git diff. With --explain the diff is ` +
			`sent to the configured chat model and its explanation is printed after it.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := diffOpts
			if len(args) > 0 {
				opts.Index = args[0]
			}
			flow, err := newFlow(opts.Explain)
			if err != nil {
				return err
			}
			return handleErrors(cmd.Context(), flow.Diff(cmd.Context(), opts))
		},
	}
)

func init() {
	diffCmd.Flags().BoolVarP(&diffOpts.Explain, "explain", "e", false, "Explain the changes with the chat model")
	diffCmd.Flags().BoolVar(&diffOpts.Staged, "staged", false, "Show staged changes instead of the working tree")
}
