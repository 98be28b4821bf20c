package cmd

import (
	"github.com/spf13/cobra"

	"github.com/samzong/aigit/internal/workflow"
)

var (
	listOpts workflow.ListOptions

	listCmd = &cobra.Command{
		Use:   "list",
		Short: "List recent commits (not implemented)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			flow, err := newFlow(false)
			if err != nil {
				return err
			}
			return flow.List(cmd.Context(), listOpts)
		},
	}
)

func init() {
	listCmd.Flags().IntVarP(&listOpts.Number, "number", "n", 10, "Number of commits")
	listCmd.Flags().BoolVarP(&listOpts.Explain, "explain", "e", false, "Explain each commit")
}
