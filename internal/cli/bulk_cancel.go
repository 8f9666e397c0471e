package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"electorate/pkg/requestcontext"
)

// NewBulkCancelCommand creates the bulk-cancel command: cancel an election
// group and everything beneath it in one transaction.
func NewBulkCancelCommand() *cobra.Command {
	var reason string

	cmd := &cobra.Command{
		Use:   "bulk-cancel <election-id>",
		Short: "Cancel an election and all its descendants",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			a, err := newApp(ctx)
			if err != nil {
				return err
			}
			defer a.close()

			ctx = requestcontext.WithActor(ctx, "cli")
			ctx = requestcontext.WithTime(ctx, time.Now().UTC())

			cancelled, err := a.elections.BulkCancel(ctx, args[0], reason)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "cancelled %d election(s) under %s\n", cancelled, args[0])
			return nil
		},
	}

	cmd.Flags().StringVar(&reason, "reason", "", "cancellation reason recorded on every row")
	return cmd
}
