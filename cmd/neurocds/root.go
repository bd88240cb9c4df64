package main

import (
	"github.com/spf13/cobra"

	"github.com/liamcoop/neurocds/internal/config"
)

func newRootCmd() *cobra.Command {
	cfg := config.Load()

	root := &cobra.Command{
		Use:          "neurocds",
		Short:        "Neuro-ophthalmic decision support",
		Long:         "neurocds scores a differential, recommends tests and assigns an urgency level for a neuro-ophthalmic examination snapshot.",
		SilenceUsage: true,
	}

	root.AddCommand(newEvaluateCmd(cfg))
	root.AddCommand(newCatalogsCmd())
	root.AddCommand(newValidateCmd())
	return root
}
