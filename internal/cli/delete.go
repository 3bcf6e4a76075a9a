package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// NewDeleteCommand removes a record from the session and the remote store.
func NewDeleteCommand(opts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "delete <identity>",
		Short: "Delete a journal record",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, cleanup, err := openSession(cmd.Context(), opts)
			if err != nil {
				return err
			}
			defer cleanup()

			if err := sess.Delete(cmd.Context(), args[0]); err != nil {
				return WrapExitError(ExitFailure, "delete record", err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "deleted %s\n", args[0])
			return nil
		},
	}
	return cmd
}
