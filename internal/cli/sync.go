package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// NewSyncCommand reconciles the local cache against the remote store and
// pushes the merged set.
func NewSyncCommand(opts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sync",
		Short: "Reconcile with the remote store now",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, cleanup, err := openSession(cmd.Context(), opts)
			if err != nil {
				return err
			}
			defer cleanup()

			// Startup already reconciled and notified the scheduler; force
			// the pending upsert through instead of waiting out the window.
			if err := sess.Flush(cmd.Context()); err != nil {
				return WrapExitError(ExitFailure, "sync", err)
			}
			if err := sess.LastError(); err != nil {
				return WrapExitError(ExitFailure, "sync", err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "synced %d records\n", len(sess.Records()))
			return nil
		},
	}
	return cmd
}
