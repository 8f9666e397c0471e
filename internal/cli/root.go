// Package cli implements the operator commands: the batch operations that
// production runs against the canonical database.
package cli

import (
	"github.com/spf13/cobra"
)

// NewRootCommand creates the root command for the electorate CLI.
func NewRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "electorate",
		Short:         "Operator commands for the elections canonical database",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.AddCommand(NewBulkCancelCommand())
	cmd.AddCommand(NewCheckConstraintsCommand())
	cmd.AddCommand(NewCloseDivisionSetsCommand())
	cmd.AddCommand(NewListElectionsCommand())
	cmd.AddCommand(NewSeedTypesCommand())

	return cmd
}
