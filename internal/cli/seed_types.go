package cli

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"electorate/internal/identifiers"
)

// NewSeedTypesCommand creates the seed-types command: print the compiled-in
// election type reference table. The table is the source of truth for what
// identifiers can be built; refreshing it is a code change.
func NewSeedTypesCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "seed-types",
		Short: "Print the election type reference table",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "CODE\tNAME\tVOTING SYSTEM\tSUBTYPES\tORGS\tDIVS")
			for _, code := range identifiers.Types() {
				spec, err := identifiers.TypeByCode(code)
				if err != nil {
					return err
				}
				subtypes := make([]string, len(spec.Subtypes))
				for i, sub := range spec.Subtypes {
					subtypes[i] = sub.Code
				}
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%t\t%t\n",
					spec.Code, spec.Name, spec.DefaultVotingSystem,
					strings.Join(subtypes, ","), spec.CanHaveOrgs, spec.CanHaveDivs)
			}
			return w.Flush()
		},
	}
	return cmd
}
