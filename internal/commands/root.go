package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"gl-setup/internal/app"
	"gl-setup/internal/cache"
	"gl-setup/internal/config"
	"gl-setup/internal/logging"
	"gl-setup/internal/verification"
	"gl-setup/models"
)

type options struct {
	ledger    int
	kind      string
	hierarchy string
}

// NewRootCommand creates the glctl command with all subcommands registered.
func NewRootCommand() *cobra.Command {
	opts := &options{}
	rootCmd := &cobra.Command{
		Use:   "glctl",
		Short: "Maintain the account and cost centre hierarchies of a ledger",
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		SilenceUsage: true,
	}
	rootCmd.PersistentFlags().IntVarP(&opts.ledger, "ledger", "l", 0, "ledger number (required)")
	rootCmd.PersistentFlags().StringVarP(&opts.kind, "kind", "k", string(models.KindAccount), "hierarchy kind: account or costcentre")
	rootCmd.PersistentFlags().StringVar(&opts.hierarchy, "hierarchy", "", "account hierarchy name (default DEFAULT_HIERARCHY)")
	_ = rootCmd.MarkPersistentFlagRequired("ledger")

	rootCmd.AddCommand(
		newExportCommand(opts),
		newImportCommand(opts),
		newRenameCommand(opts),
		newCheckDeleteCommand(opts),
	)
	return rootCmd
}

// run opens the application for the duration of fn.
func run(ctx context.Context, opts *options, fn func(a *app.App, kind models.NodeKind) error) (err error) {
	kind, err := models.ParseNodeKind(opts.kind)
	if err != nil {
		return err
	}
	cfg := config.New()
	if opts.hierarchy != "" {
		cfg.Hierarchy = opts.hierarchy
	}
	log, err := logging.New(cfg)
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	a, err := app.New(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := a.Close(); err == nil {
			err = cerr
		}
	}()
	return fn(a, kind)
}

func notify(ctx context.Context, a *app.App, ledger int, names []string) {
	cache.Notify(ctx, a.Caches.Invalidator, a.Log, ledger, names)
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// rejected turns the critical results of a refused change into the command's
// error.
func rejected(what string, vr verification.Results) error {
	if vr.Retryable() {
		return fmt.Errorf("%s hit a concurrent change, try again: %w", what, vr.Err())
	}
	return fmt.Errorf("%s rejected: %w", what, vr.Err())
}
