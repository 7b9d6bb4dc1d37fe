package cli

import (
	"fmt"
	"io"
	"sort"

	"github.com/spf13/cobra"

	"github.com/NdeyeSokhna722/loumshoes/internal/model"
	"github.com/NdeyeSokhna722/loumshoes/internal/service"
)

// NewStatsCommand creates the stats command.
func NewStatsCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "stats",
		Short:         "Show message counts by read state, subject and month",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return rootOpts.withService(cmd.Context(), func(svc service.ContactService) error {
				stats, err := svc.Stats(cmd.Context())
				if err != nil {
					return WrapExitError(ExitCommandError, "failed to compute stats", err)
				}
				out := &OutputFormatter{Format: rootOpts.Format, Writer: cmd.OutOrStdout()}
				return out.Write(stats, func(w io.Writer) error {
					return writeStats(w, stats)
				})
			})
		},
	}
}

func writeStats(w io.Writer, s *model.Stats) error {
	fmt.Fprintf(w, "Total:       %d\n", s.Total)
	fmt.Fprintf(w, "Read:        %d\n", s.Read)
	fmt.Fprintf(w, "Unread:      %d\n", s.Unread)
	fmt.Fprintf(w, "Newsletter:  %d\n", s.NewsletterSubscribers)
	writeCounts(w, "By subject:", s.BySubject)
	writeCounts(w, "By month:", s.ByMonth)
	return nil
}

func writeCounts(w io.Writer, title string, counts map[string]int) {
	if len(counts) == 0 {
		return
	}
	keys := make([]string, 0, len(counts))
	for k := range counts {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	fmt.Fprintln(w, title)
	for _, k := range keys {
		fmt.Fprintf(w, "  %-20s %d\n", k, counts[k])
	}
}
