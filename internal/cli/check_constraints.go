package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// NewCheckConstraintsCommand creates the check-constraints command: the
// periodic sweep that validates moderation hierarchy rules and reports
// violations without fixing anything.
func NewCheckConstraintsCommand() *cobra.Command {
	var all bool

	cmd := &cobra.Command{
		Use:   "check-constraints [election-id]",
		Short: "Validate moderation hierarchy constraints",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if all == (len(args) == 1) {
				return fmt.Errorf("pass exactly one of --all or an election id")
			}

			ctx := cmd.Context()
			a, err := newApp(ctx)
			if err != nil {
				return err
			}
			defer a.close()

			ids := args
			if all {
				ids, err = a.elections.ListIDs(ctx)
				if err != nil {
					return err
				}
			}

			violations := 0
			for _, id := range ids {
				if err := ctx.Err(); err != nil {
					return err
				}
				if err := a.moderation.CheckConstraints(ctx, id); err != nil {
					violations++
					fmt.Fprintln(cmd.OutOrStdout(), err.Error())
				}
			}
			if violations > 0 {
				return fmt.Errorf("%d constraint violation(s) in %d election(s)", violations, len(ids))
			}
			fmt.Fprintf(cmd.OutOrStdout(), "checked %d election(s), no violations\n", len(ids))
			return nil
		},
	}

	cmd.Flags().BoolVar(&all, "all", false, "check every election")
	return cmd
}
