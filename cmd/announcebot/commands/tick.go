package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"announcebot/internal/services"
)

func newTickCmd(a *app) *cobra.Command {
	var now string
	cmd := &cobra.Command{
		Use:   "tick",
		Short: "Run one dispatch tick now",
		Long: `Send every notice due today (UTC+9) through the configured notifier, then
prune pending events whose day has passed.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			at, err := parseNow(now)
			if err != nil {
				return err
			}
			notifier, err := a.notifier()
			if err != nil {
				return err
			}
			store, err := a.openStore(cmd.Context())
			if err != nil {
				return err
			}
			defer store.Close()

			dispatch := services.NewDispatchService(store.Pending, store.Recurring, notifier, a.logger)
			report, err := dispatch.RunTick(cmd.Context(), at)
			fmt.Fprintf(cmd.OutOrStdout(), "today=%d pending=%d recurring=%d sent=%d failed=%d pruned=%d\n",
				report.Today, report.Pending, report.Recurring, report.Sent, report.Failed, report.Pruned)
			return err
		},
	}
	cmd.Flags().StringVar(&now, "now", "", "Run as of this RFC 3339 time (default: now)")
	return cmd
}
