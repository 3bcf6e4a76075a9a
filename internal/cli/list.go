package cli

import (
	"github.com/spf13/cobra"
)

// NewListCommand lists every record in the canonical set, most recent first.
func NewListCommand(opts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List journal records",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, cleanup, err := openSession(cmd.Context(), opts)
			if err != nil {
				return err
			}
			defer cleanup()

			return printRecords(cmd.OutOrStdout(), opts.Format, sess.Records())
		},
	}
	return cmd
}
