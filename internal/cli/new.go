package cli

import (
	"github.com/spf13/cobra"
)

// NewNewCommand creates a fresh record, optionally setting its content.
func NewNewCommand(opts *RootOptions) *cobra.Command {
	var title, body string

	cmd := &cobra.Command{
		Use:   "new",
		Short: "Create a new journal record",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, cleanup, err := openSession(cmd.Context(), opts)
			if err != nil {
				return err
			}
			defer cleanup()

			record, _, err := sess.Create()
			if err != nil {
				return WrapExitError(ExitFailure, "create record", err)
			}
			if title != "" {
				if err := sess.SetTitle(record.Identity, title); err != nil {
					return WrapExitError(ExitFailure, "set title", err)
				}
			}
			if body != "" {
				if err := sess.SetBody(record.Identity, body); err != nil {
					return WrapExitError(ExitFailure, "set body", err)
				}
			}

			current, _ := sess.Current()
			return printRecord(cmd.OutOrStdout(), opts.Format, current)
		},
	}

	cmd.Flags().StringVar(&title, "title", "", "record title")
	cmd.Flags().StringVar(&body, "body", "", "record body")

	return cmd
}
