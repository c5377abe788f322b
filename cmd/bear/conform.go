package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/owp-spatial/bear/internal/bear"
	"github.com/owp-spatial/bear/internal/conform"
	"github.com/owp-spatial/bear/internal/fips"
	"github.com/owp-spatial/bear/internal/parquetio"
	"github.com/owp-spatial/bear/internal/provider"
)

func newConformCmd() *cobra.Command {
	var (
		providers       []string
		outputDirectory string
		inputDirectory  string
		fipsDataPath    string
		workers         int
	)

	cmd := &cobra.Command{
		Use:   "conform <fips> [fips...]",
		Short: "Normalize one or more providers' raw records for the given counties",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConform(cmd.Context(), conformOptions{
				fipsCodes:       args,
				providers:       providers,
				outputDirectory: outputDirectory,
				inputDirectory:  inputDirectory,
				fipsDataPath:    fipsDataPath,
				workers:         workers,
			})
		},
	}

	allProviders := make([]string, 0, len(bear.AllProviders()))
	for _, p := range bear.AllProviders() {
		allProviders = append(allProviders, string(p))
	}

	cmd.Flags().StringSliceVar(&providers, "providers", allProviders, "provider tags to conform")
	cmd.Flags().StringVar(&outputDirectory, "output-directory", ".bear", "root directory for conformed output")
	cmd.Flags().StringVar(&inputDirectory, "input-directory", ".bear/raw", "root directory holding raw provider-native input")
	cmd.Flags().StringVar(&fipsDataPath, "fips-data", ".bear/fips.geojson.gz", "gzip-compressed county boundary GeoJSON")
	cmd.Flags().IntVar(&workers, "workers", 8, "conform worker pool size")

	return cmd
}

type conformOptions struct {
	fipsCodes       []string
	providers       []string
	outputDirectory string
	inputDirectory  string
	fipsDataPath    string
	workers         int
}

func runConform(ctx context.Context, opts conformOptions) error {
	info, err := os.Stat(opts.inputDirectory)
	if errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("path %s does not exist: %w", opts.inputDirectory, err)
	}
	if err != nil {
		return err
	}
	if !info.IsDir() {
		return fmt.Errorf("%s: %w", opts.inputDirectory, bear.ErrNotADirectory)
	}
	if err := os.MkdirAll(opts.outputDirectory, 0o755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}

	registry, err := fips.Load(opts.fipsDataPath)
	if err != nil {
		return err
	}

	providers, err := parseProviders(opts.providers)
	if err != nil {
		return err
	}

	var tasks []conform.Task
	for _, code := range opts.fipsCodes {
		county, ok := registry.Lookup(code)
		if !ok {
			return fmt.Errorf("unknown FIPS code %q", code)
		}
		for _, p := range providers {
			tasks = append(tasks, conform.Task{County: county, Provider: p})
		}
	}

	read := func(_ context.Context, t conform.Task) ([]provider.RawRecord, error) {
		return parquetio.ReadRaw(parquetio.RawConformPath(opts.inputDirectory, t.Provider))
	}

	results, errs := conform.Run(ctx, tasks, read, conform.Options{
		Workers:    opts.workers,
		SkipErrors: true,
		ErrorLog:   os.Stderr,
		Progress: func(done, total int) {
			slog.Info("conform progress", "done", done, "total", total)
		},
	})

	for _, r := range results {
		path := parquetio.ConformPath(opts.outputDirectory, r.Task.County.FIPS, r.Task.Provider)
		if err := parquetio.WriteConform(path, r.Features); err != nil {
			return err
		}
		slog.Info("conformed", "fips", r.Task.County.FIPS, "provider", r.Task.Provider, "features", len(r.Features))
	}

	if len(errs) > 0 {
		return fmt.Errorf("conform completed with %d error(s), first: %w", len(errs), errs[0])
	}
	return nil
}

func parseProviders(tags []string) ([]bear.Provider, error) {
	out := make([]bear.Provider, 0, len(tags))
	for _, raw := range tags {
		p := bear.Provider(strings.TrimSpace(raw))
		if !p.Valid() {
			return nil, &bear.ProviderError{Tag: raw}
		}
		out = append(out, p)
	}
	return out, nil
}
