package commands

import (
	"io"
	"os"

	"github.com/spf13/cobra"

	"gl-setup/internal/app"
	"gl-setup/internal/treedoc"
	"gl-setup/models"
)

func newExportCommand(opts *options) *cobra.Command {
	var output string
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the hierarchy as a YAML tree document",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(cmd.Context(), opts, func(a *app.App, kind models.NodeKind) error {
				root, err := a.Hierarchy.Export(cmd.Context(), opts.ledger, kind, a.Config.Hierarchy)
				if err != nil {
					return err
				}
				if output == "" || output == "-" {
					return treedoc.Write(cmd.OutOrStdout(), root)
				}
				doc, err := treedoc.Marshal(root)
				if err != nil {
					return err
				}
				return os.WriteFile(output, doc, 0o644)
			})
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default stdout)")
	return cmd
}

func newImportCommand(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "import [file]",
		Short: "Replace the hierarchy with a YAML tree document",
		Long:  "Replace the hierarchy with a YAML tree document read from file, or stdin when no file is given. Nothing is written unless the whole document is valid.",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var in io.Reader = cmd.InOrStdin()
			if len(args) == 1 && args[0] != "-" {
				f, err := os.Open(args[0])
				if err != nil {
					return err
				}
				defer f.Close()
				in = f
			}
			return run(cmd.Context(), opts, func(a *app.App, kind models.NodeKind) error {
				res, err := a.Hierarchy.Import(cmd.Context(), opts.ledger, kind, a.Config.Hierarchy, in)
				if err != nil {
					return err
				}
				if err := printJSON(cmd.OutOrStdout(), res); err != nil {
					return err
				}
				if !res.Committed {
					return rejected("import", res.Verification)
				}
				notify(cmd.Context(), a, opts.ledger, res.Invalidated)
				return nil
			})
		},
	}
}

func newCheckDeleteCommand(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "check-delete CODE",
		Short: "Report whether a node could be deleted",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd.Context(), opts, func(a *app.App, kind models.NodeKind) error {
				vr, err := a.Hierarchy.CheckDeletable(cmd.Context(), opts.ledger, kind, args[0])
				if err != nil {
					return err
				}
				if err := printJSON(cmd.OutOrStdout(), vr); err != nil {
					return err
				}
				if vr.HasCriticalErrors() {
					return rejected("deletion of "+args[0], vr)
				}
				return nil
			})
		},
	}
}
