package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/liamcoop/neurocds/decision"
	"github.com/liamcoop/neurocds/multicatalog"
	"github.com/liamcoop/neurocds/rules"
)

func newValidateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate <catalog.yaml|catalog.json>",
		Short: "Check a catalog definition without loading it anywhere",
		Long:  "Parses the file, applies the same structural limits the server applies, and compiles every expression.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := rules.LoadCatalogFile(args[0])
			if err != nil {
				return err
			}
			if err := multicatalog.ValidateCatalog(c); err != nil {
				return fmt.Errorf("%s: %w", args[0], err)
			}
			if _, err := decision.New(c); err != nil {
				return fmt.Errorf("%s: %w", args[0], err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "%s: catalog %q is valid (%d diagnoses, %d tests, %d guards)\n",
				args[0], c.Name, len(c.Diagnoses), len(c.Tests), len(c.Guards))
			return nil
		},
	}
}
