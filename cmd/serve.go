package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/decaylee13/Anatomy-View/internal/config"
	"github.com/decaylee13/Anatomy-View/internal/container"
)

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the Anatomy-View API server",
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().IntVarP(&servePort, "port", "p", 0, "Listen port (overrides config and PORT)")
}

func runServe(_ *cobra.Command, _ []string) error {
	// A missing .env is the normal case outside local development.
	_ = godotenv.Load()

	cfg, err := config.Load(config.ConfigPath())
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	cfg.ApplyEnv()
	if servePort > 0 {
		cfg.Port = servePort
	}

	c, err := container.New(cfg)
	if err != nil {
		return fmt.Errorf("wire services: %w", err)
	}

	if !c.Primary().Configured() {
		fmt.Println("Warning: GEMINI_API_KEY is not set; chat requests will return a fallback reply")
	}

	fmt.Printf("Starting Anatomy-View on port %d (model %s)...\n", cfg.Port, cfg.Gemini.Model)

	// Graceful shutdown context.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return c.Server().Run(gctx, cfg.Port) })

	if err := g.Wait(); err != nil && err != context.Canceled {
		fmt.Fprintf(os.Stderr, "server error: %v\n", err)
		return err
	}
	fmt.Println("\nShutdown complete.")
	return nil
}
