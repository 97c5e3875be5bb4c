package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/wwcxin/cyberbot-new/internal/config"
	"github.com/wwcxin/cyberbot-new/internal/container"
	"github.com/wwcxin/cyberbot-new/internal/logging"
	"github.com/wwcxin/cyberbot-new/internal/shared/cmdutils"
)

var runVerbose bool

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Connect to the gateway and run plugins",
	RunE:  runBot,
}

func init() {
	runCmd.Flags().BoolVarP(&runVerbose, "verbose", "v", false, "Debug logging")
}

func runBot(_ *cobra.Command, _ []string) error {
	path := configPath()
	cfg, err := config.Load(path)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if runVerbose {
		cfg.Logging.Level = "debug"
	}
	logging.Setup(cfg.Logging, os.Stderr)

	c, err := container.New(cfg, path)
	if err != nil {
		return fmt.Errorf("build runtime: %w", err)
	}

	fmt.Printf("%s Starting cyberbot, gateway %s\n", cmdutils.Logo, cfg.Gateway.URL)
	if n := c.Registry().Len(); n > 0 {
		fmt.Printf("✓ Plugins loaded: %d\n", n)
	} else {
		fmt.Println("Warning: no plugins enabled")
	}

	// Graceful shutdown context.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return c.Gateway().Start(gctx) })
	g.Go(func() error { return c.Dispatcher().Run(gctx) })
	g.Go(func() error { return c.Scheduler().Start(gctx) })

	fmt.Printf("%s Bot running. Press Ctrl+C to stop.\n", cmdutils.Logo)

	err = g.Wait()
	c.Dispatcher().Wait()
	if err != nil && !errors.Is(err, context.Canceled) {
		fmt.Fprintf(os.Stderr, "cyberbot error: %v\n", err)
		return err
	}
	fmt.Println("\nShutdown complete.")
	return nil
}
