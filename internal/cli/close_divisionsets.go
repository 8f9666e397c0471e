package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"electorate/internal/identifiers"
	"electorate/internal/organisations/models"
	"electorate/pkg/requestcontext"
)

// NewCloseDivisionSetsCommand creates the close-divisionsets command: the
// maintenance operation run after a boundary review lands, closing the
// organisation's open division set at the day before the new set starts.
func NewCloseDivisionSetsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "close-divisionsets <organisation-type> <official-identifier> <new-start>",
		Short: "Close the open division set before a new one starts",
		Long: `Close the open division set before a new one starts.

new-start is the first valid date of the succeeding division set
(YYYY-MM-DD); the open set's end date becomes the day before it.`,
		Args: cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			newStart, err := time.Parse(identifiers.DateLayout, args[2])
			if err != nil {
				return fmt.Errorf("invalid new-start %q: expected YYYY-MM-DD", args[2])
			}

			ctx := cmd.Context()
			a, err := newApp(ctx)
			if err != nil {
				return err
			}
			defer a.close()

			ctx = requestcontext.WithActor(ctx, "cli")
			ctx = requestcontext.WithTime(ctx, time.Now().UTC())

			key := models.OrgKey{OrganisationType: args[0], OfficialIdentifier: args[1]}
			org, err := a.organisations.OrganisationByDate(ctx, key, newStart)
			if err != nil {
				return err
			}
			closed, err := a.organisations.CloseCurrentDivisionSet(ctx, org.ID, newStart)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "closed division set %s at %s\n",
				closed.ID, closed.Validity.End.Format(identifiers.DateLayout))
			return nil
		},
	}
	return cmd
}
