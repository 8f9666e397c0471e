package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"electorate/internal/moderation/models"
)

// NewListElectionsCommand creates the list-elections command: print every
// election whose current moderation status matches the given one.
func NewListElectionsCommand() *cobra.Command {
	var status string

	cmd := &cobra.Command{
		Use:   "list-elections --status <status>",
		Short: "List elections by current moderation status",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			want := models.Status(status)
			if !want.Valid() {
				return fmt.Errorf("unknown status %q", status)
			}

			ctx := cmd.Context()
			a, err := newApp(ctx)
			if err != nil {
				return err
			}
			defer a.close()

			rows, err := a.elections.ListByStatus(ctx, want)
			if err != nil {
				return err
			}
			for _, row := range rows {
				fmt.Fprintln(cmd.OutOrStdout(), row.ElectionID)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%d election(s) with status %s\n", len(rows), want)
			return nil
		},
	}

	cmd.Flags().StringVar(&status, "status", string(models.StatusApproved), "moderation status to filter on")
	return cmd
}
