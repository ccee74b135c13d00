package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newInitDBCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "init-db",
		Short: "Migrate the schema and reseed the recurring dates",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			store, err := a.openStore(cmd.Context())
			if err != nil {
				return err
			}
			defer store.Close()

			dates, err := store.Recurring.List(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "store ready (%s), %d recurring dates\n", store.Dialect, len(dates))
			return nil
		},
	}
}
