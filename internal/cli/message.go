package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/NdeyeSokhna722/loumshoes/internal/repository"
	"github.com/NdeyeSokhna722/loumshoes/internal/service"
)

type actionResult struct {
	ID     int64  `json:"id" yaml:"id"`
	Action string `json:"action" yaml:"action"`
}

// NewReadCommand creates the read command.
func NewReadCommand(rootOpts *RootOptions) *cobra.Command {
	return newMessageCommand(rootOpts, "read <id>", "Mark a message as read", "marked read",
		func(ctx context.Context, svc service.ContactService, id int64) error {
			return svc.MarkRead(ctx, id)
		})
}

// NewDeleteCommand creates the delete command.
func NewDeleteCommand(rootOpts *RootOptions) *cobra.Command {
	return newMessageCommand(rootOpts, "delete <id>", "Delete a message", "deleted",
		func(ctx context.Context, svc service.ContactService, id int64) error {
			return svc.Delete(ctx, id)
		})
}

func newMessageCommand(
	rootOpts *RootOptions,
	use, short, done string,
	action func(ctx context.Context, svc service.ContactService, id int64) error,
) *cobra.Command {
	return &cobra.Command{
		Use:           use,
		Short:         short,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil || id <= 0 {
				return NewExitError(ExitCommandError, fmt.Sprintf("invalid message id %q", args[0]))
			}
			return rootOpts.withService(cmd.Context(), func(svc service.ContactService) error {
				if err := action(cmd.Context(), svc, id); err != nil {
					if errors.Is(err, repository.ErrNotFound) {
						return NewExitError(ExitFailure, fmt.Sprintf("message %d not found", id))
					}
					return WrapExitError(ExitCommandError, fmt.Sprintf("message %d", id), err)
				}
				out := &OutputFormatter{Format: rootOpts.Format, Writer: cmd.OutOrStdout()}
				return out.Write(actionResult{ID: id, Action: done}, func(w io.Writer) error {
					_, err := fmt.Fprintf(w, "Message %d %s.\n", id, done)
					return err
				})
			})
		},
	}
}
