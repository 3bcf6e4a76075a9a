package cli

import (
	"github.com/dalkommatt/ai-writer/internal/journal"
	"github.com/spf13/cobra"
)

// NewShowCommand prints one record by identity.
func NewShowCommand(opts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show <identity>",
		Short: "Show a journal record",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, cleanup, err := openSession(cmd.Context(), opts)
			if err != nil {
				return err
			}
			defer cleanup()

			records := sess.Records()
			i := journal.Find(records, args[0])
			if i < 0 {
				return WrapExitError(ExitFailure, "no such record: "+args[0], nil)
			}
			return printRecord(cmd.OutOrStdout(), opts.Format, records[i])
		},
	}
	return cmd
}
