package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/liamcoop/neurocds/catalog"
	"github.com/liamcoop/neurocds/decision"
	"github.com/liamcoop/neurocds/exam"
	"github.com/liamcoop/neurocds/internal/config"
	"github.com/liamcoop/neurocds/internal/logger"
	"github.com/liamcoop/neurocds/multicatalog"
	"github.com/liamcoop/neurocds/rules"
)

func newEvaluateCmd(cfg *config.Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "evaluate <snapshot.json|->",
		Short: "Run one examination snapshot through a catalog",
		Long:  "Reads an examination snapshot from a file, or from stdin when the argument is '-', and prints the decision result as JSON.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name, _ := cmd.Flags().GetString("catalog")
			file, _ := cmd.Flags().GetString("catalog-file")
			threshold, _ := cmd.Flags().GetFloat64("threshold")
			compact, _ := cmd.Flags().GetBool("compact")

			c, err := selectCatalog(name, file)
			if err != nil {
				return err
			}

			fc := cfg.FeatureConfig()
			if threshold > 0 {
				fc.AnisocoriaThreshold = threshold
			}

			engine, err := decision.New(c, decision.WithFeatureConfig(fc))
			if err != nil {
				return err
			}

			snapshot, err := readSnapshot(cmd.InOrStdin(), args[0])
			if err != nil {
				return err
			}

			result := engine.Compute(snapshot)
			logger.Debug("snapshot evaluated",
				"catalog", c.Name,
				"candidates", len(result.Differential),
				"urgency", result.Urgency.Level,
			)

			enc := json.NewEncoder(cmd.OutOrStdout())
			if !compact {
				enc.SetIndent("", "  ")
			}
			return enc.Encode(result)
		},
	}

	cmd.Flags().String("catalog", cfg.DefaultCatalog, "Built-in catalog to evaluate against")
	cmd.Flags().String("catalog-file", "", "Catalog definition file (YAML or JSON); overrides --catalog")
	cmd.Flags().Float64("threshold", 0, "Anisocoria threshold in mm (defaults to ANISOCORIA_THRESHOLD_MM)")
	cmd.Flags().Bool("compact", false, "Print the result on a single line")

	return cmd
}

// selectCatalog loads the catalog file when given, holding it to the same
// rules as catalogs created through the API, else the named built-in.
func selectCatalog(name, file string) (*rules.Catalog, error) {
	if file == "" {
		return catalog.Builtin(name)
	}

	c, err := rules.LoadCatalogFile(file)
	if err != nil {
		return nil, err
	}
	if err := multicatalog.ValidateCatalog(c); err != nil {
		return nil, fmt.Errorf("%s: %w", file, err)
	}
	return c, nil
}

// readSnapshot decodes a snapshot from path, or from stdin for "-". Values
// of the wrong type are read as missing, as the HTTP API does.
func readSnapshot(stdin io.Reader, path string) (exam.Snapshot, error) {
	var r io.Reader = stdin
	if path != "-" {
		f, err := os.Open(path)
		if err != nil {
			return exam.Snapshot{}, fmt.Errorf("failed to open snapshot: %w", err)
		}
		defer f.Close()
		r = f
	}

	var s exam.Snapshot
	var typeErr *json.UnmarshalTypeError
	err := json.NewDecoder(r).Decode(&s)
	if err != nil && !errors.Is(err, io.EOF) && !errors.As(err, &typeErr) {
		return exam.Snapshot{}, fmt.Errorf("invalid snapshot JSON: %w", err)
	}
	return s, nil
}
