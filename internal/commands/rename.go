package commands

import (
	"github.com/spf13/cobra"

	"gl-setup/internal/app"
	"gl-setup/models"
)

func newRenameCommand(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "rename OLD NEW",
		Short: "Rename an account or cost centre code everywhere it is referenced",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd.Context(), opts, func(a *app.App, kind models.NodeKind) error {
				res, err := a.Renamer.RenameCode(cmd.Context(), opts.ledger, kind, args[0], args[1])
				if err != nil {
					return err
				}
				if err := printJSON(cmd.OutOrStdout(), res); err != nil {
					return err
				}
				if !res.Renamed {
					return rejected("rename", res.Verification)
				}
				notify(cmd.Context(), a, opts.ledger, res.Invalidated)
				return nil
			})
		},
	}
}
