package cli

import (
	"github.com/dalkommatt/ai-writer/internal/journal"
	"github.com/spf13/cobra"
)

// NewEditCommand updates the content of an existing record.
func NewEditCommand(opts *RootOptions) *cobra.Command {
	var title, body string

	cmd := &cobra.Command{
		Use:   "edit <identity>",
		Short: "Edit a journal record",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("title") && !cmd.Flags().Changed("body") {
				return WrapExitError(ExitCommandError, "nothing to edit: pass --title and/or --body", nil)
			}

			sess, cleanup, err := openSession(cmd.Context(), opts)
			if err != nil {
				return err
			}
			defer cleanup()

			identity := args[0]
			if cmd.Flags().Changed("title") {
				if err := sess.SetTitle(identity, title); err != nil {
					return WrapExitError(ExitFailure, "set title", err)
				}
			}
			if cmd.Flags().Changed("body") {
				if err := sess.SetBody(identity, body); err != nil {
					return WrapExitError(ExitFailure, "set body", err)
				}
			}

			records := sess.Records()
			i := journal.Find(records, identity)
			return printRecord(cmd.OutOrStdout(), opts.Format, records[i])
		},
	}

	cmd.Flags().StringVar(&title, "title", "", "new title")
	cmd.Flags().StringVar(&body, "body", "", "new body")

	return cmd
}
