// Command bear runs the BEAR building/address conflation pipeline:
// conform normalizes the selected providers' raw records for the given
// counties, conflate merges every conformed provider into the final entity
// registry.
//
// Mirrors the Python original's cli/entrypoint.py typer app, one cobra
// subcommand per flow.
package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		slog.Warn("shutting down", "signal", sig.String())
		cancel()
	}()

	root := newRootCmd()
	if err := root.ExecuteContext(ctx); err != nil {
		slog.Error("bear failed", "err", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "bear",
		Short:         "Conflate building footprints and addresses into a unified registry",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(newConformCmd())
	root.AddCommand(newConflateCmd())
	return root
}
