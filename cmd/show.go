package cmd

import (
	"github.com/spf13/cobra"

	"github.com/samzong/aigit/internal/workflow"
)

var (
	showOpts workflow.ShowOptions

	showCmd = &cobra.Command{
		Use:   "show [hash]",
		Short: "Show a commit, optionally explained by the model",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := showOpts
			if len(args) > 0 {
				opts.Hash = args[0]
			}
			flow, err := newFlow(opts.Explain)
			if err != nil {
				return err
			}
			return handleErrors(cmd.Context(), flow.Show(cmd.Context(), opts))
		},
	}
)

func init() {
	showCmd.Flags().BoolVarP(&showOpts.Explain, "explain", "e", false, "Explain the commit with the chat model")
}
