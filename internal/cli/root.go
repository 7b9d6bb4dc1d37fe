// Package cli implements contactctl, the operator command line for the
// contact message store.
package cli

import (
	"context"
	"fmt"
	"slices"

	"github.com/spf13/cobra"

	"github.com/NdeyeSokhna722/loumshoes/internal/service"
)

// OpenFunc opens the configured store and returns a service over it plus a
// function releasing the store.
type OpenFunc func(ctx context.Context) (service.ContactService, func() error, error)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	Format string // "text" | "json" | "yaml"
	open   OpenFunc
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json", "yaml"}

// NewRootCommand creates the root command for contactctl.
func NewRootCommand(open OpenFunc) *cobra.Command {
	opts := &RootOptions{open: open}

	cmd := &cobra.Command{
		Use:   "contactctl",
		Short: "Inspect and manage contact form messages",
		Long: `contactctl reads the message store configured through the environment
(STORE_DRIVER, MESSAGES_DIR, DATABASE_URL, SQLITE_PATH) and lists,
aggregates, marks read or deletes contact messages.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !slices.Contains(ValidFormats, opts.Format) {
				return NewExitError(ExitCommandError, fmt.Sprintf("invalid format %q: must be one of %v", opts.Format, ValidFormats))
			}
			return nil
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (text|json|yaml)")

	cmd.AddCommand(NewListCommand(opts))
	cmd.AddCommand(NewStatsCommand(opts))
	cmd.AddCommand(NewReadCommand(opts))
	cmd.AddCommand(NewDeleteCommand(opts))

	return cmd
}

// withService opens the store for the duration of fn.
func (o *RootOptions) withService(ctx context.Context, fn func(service.ContactService) error) error {
	svc, closeFn, err := o.open(ctx)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to open message store", err)
	}
	defer closeFn()
	return fn(svc)
}
