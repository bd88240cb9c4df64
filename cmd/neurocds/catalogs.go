package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/liamcoop/neurocds/catalog"
)

func newCatalogsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "catalogs",
		Short: "List the built-in catalogs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "NAME\tDIAGNOSES\tTESTS\tGUARDS\tDESCRIPTION")
			for _, name := range catalog.Names() {
				c, err := catalog.Builtin(name)
				if err != nil {
					return err
				}
				fmt.Fprintf(w, "%s\t%d\t%d\t%d\t%s\n",
					c.Name, len(c.Diagnoses), len(c.Tests), len(c.Guards), c.Description)
			}
			return w.Flush()
		},
	}
}
