package cli

import (
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/NdeyeSokhna722/loumshoes/internal/model"
	"github.com/NdeyeSokhna722/loumshoes/internal/service"
)

// ListOptions holds flags for the list command.
type ListOptions struct {
	*RootOptions
	Unread bool
	Limit  int
}

// NewListCommand creates the list command.
func NewListCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ListOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List messages, newest first",
		Example: `  contactctl list
  contactctl list --unread --limit 20
  contactctl list --format json`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runList(opts, cmd)
		},
	}

	cmd.Flags().BoolVar(&opts.Unread, "unread", false, "only show unread messages")
	cmd.Flags().IntVarP(&opts.Limit, "limit", "n", 0, "show at most n messages (0 = all)")

	return cmd
}

func runList(opts *ListOptions, cmd *cobra.Command) error {
	return opts.withService(cmd.Context(), func(svc service.ContactService) error {
		messages, err := svc.List(cmd.Context())
		if err != nil {
			return WrapExitError(ExitCommandError, "failed to list messages", err)
		}
		messages = filterMessages(messages, opts.Unread, opts.Limit)

		out := &OutputFormatter{Format: opts.Format, Writer: cmd.OutOrStdout()}
		return out.Write(messages, func(w io.Writer) error {
			return writeMessageTable(w, messages)
		})
	})
}

func filterMessages(messages []*model.ContactMessage, unreadOnly bool, limit int) []*model.ContactMessage {
	out := make([]*model.ContactMessage, 0, len(messages))
	for _, m := range messages {
		if unreadOnly && m.Read {
			continue
		}
		out = append(out, m)
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out
}

func writeMessageTable(w io.Writer, messages []*model.ContactMessage) error {
	if len(messages) == 0 {
		_, err := fmt.Fprintln(w, "No messages.")
		return err
	}
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tDATE\tNAME\tEMAIL\tSUBJECT\tREAD")
	for _, m := range messages {
		read := "no"
		if m.Read {
			read = "yes"
		}
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\t%s\n",
			m.ID,
			m.Timestamp.Local().Format(time.DateTime),
			m.FullName(),
			m.Email,
			m.Subject,
			read,
		)
	}
	return tw.Flush()
}
