package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"modsource/internal/engine"
	"modsource/internal/logging"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the registry host",
	Long: `Serve hosts the transform registry for out-of-process loaders. Module
requests are read from stdin one per line; a line containing only "---"
finishes the current compilation. Pending steps are written to stdout.`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().Bool("watch", false, "reload the rules file when it changes")
}

func runServe(cmd *cobra.Command, _ []string) error {
	watch, err := cmd.Flags().GetBool("watch")
	if err != nil {
		return fmt.Errorf("failed to get watch flag: %w", err)
	}
	rt, err := runtimeConfig(cmd)
	if err != nil {
		return err
	}
	path, err := rulesPath(cmd)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	e, err := engine.Bootstrap(ctx, engine.Config{
		RulesPath: path,
		Runtime:   rt,
		Watch:     watch,
		Stdout:    os.Stderr,
	})
	if err != nil {
		return fmt.Errorf("bootstrap: %w", err)
	}
	logging.L().Info("registry host listening", "grpc_port", rt.GRPCPort, "metrics_port", rt.MetricsPort)

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error { return e.Run(ctx) })
	g.Go(func() error {
		// stdin closing does not stop the host; loaders may still call in.
		if err := e.Feed(ctx, cmd.InOrStdin(), cmd.OutOrStdout()); err != nil && ctx.Err() == nil {
			return err
		}
		return nil
	})
	if err := g.Wait(); err != nil && err != context.Canceled {
		return err
	}
	return nil
}
