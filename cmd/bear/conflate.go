package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/owp-spatial/bear/internal/bear"
	"github.com/owp-spatial/bear/internal/conflate"
	"github.com/owp-spatial/bear/internal/parquetio"
)

func newConflateCmd() *cobra.Command {
	var (
		outputDirectory string
		inputDirectory  string
	)

	cmd := &cobra.Command{
		Use:   "conflate <fips> [fips...]",
		Short: "Merge every conformed provider into the final entity registry",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, code := range args {
				if err := runConflate(cmd.Context(), code, outputDirectory, inputDirectory); err != nil {
					return fmt.Errorf("conflate %s: %w", code, err)
				}
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&outputDirectory, "output-directory", ".bear", "root directory for conflated output")
	cmd.Flags().StringVar(&inputDirectory, "input-directory", ".bear", "root directory holding conformed input")

	return cmd
}

func runConflate(_ context.Context, fipsCode, outputDirectory, inputDirectory string) error {
	info, err := os.Stat(inputDirectory)
	if err != nil {
		return fmt.Errorf("input directory %s: %w", inputDirectory, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("%s: %w", inputDirectory, bear.ErrNotADirectory)
	}

	byProvider, err := parquetio.ReadAllConform(inputDirectory, fipsCode)
	if err != nil {
		return err
	}

	footprints, err := conflate.Footprints(byProvider)
	if err != nil {
		return fmt.Errorf("footprint conflation: %w", err)
	}

	addresses, err := conflate.Addresses(byProvider)
	if err != nil {
		return fmt.Errorf("address conflation: %w", err)
	}

	entities, err := conflate.MergeFootprintsAndAddresses(footprints, addresses)
	if err != nil {
		return fmt.Errorf("footprint-address merge: %w", err)
	}

	entityRows, crossref, footprintRows := conflate.Project(entities, footprints)

	if err := os.MkdirAll(outputDirectory, 0o755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}
	if err := parquetio.WriteEntities(parquetio.EntitiesPath(outputDirectory, fipsCode), entityRows); err != nil {
		return err
	}
	if err := parquetio.WriteCrossref(parquetio.CrossrefPath(outputDirectory, fipsCode), crossref); err != nil {
		return err
	}
	if err := parquetio.WriteFootprints(parquetio.FootprintsPath(outputDirectory, fipsCode), footprintRows); err != nil {
		return err
	}

	slog.Info("conflated", "fips", fipsCode,
		"entities", len(entityRows), "crossref", len(crossref), "footprints", len(footprintRows))
	return nil
}
