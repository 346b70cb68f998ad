package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/imyousuf/graphselect/internal/compare"
	"github.com/imyousuf/graphselect/internal/selection"
)

func newTypesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "types",
		Short: "List the selection types",
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			for _, t := range selection.Types() {
				name := t.String()
				if t.UsesN() {
					name += " (n)"
				}
				fmt.Fprintf(out, "%-32s %s\n", name, t.Description())
			}
			fmt.Fprintln(out)
			fmt.Fprint(out, "Comparators:")
			for _, c := range compare.All {
				fmt.Fprintf(out, " %s (%s)", c, c.Symbol())
			}
			fmt.Fprintln(out)
			return nil
		},
	}
}
