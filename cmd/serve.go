package cmd

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/dhabedank/burnlog/internal/core"
	"github.com/dhabedank/burnlog/internal/gateway"
	"github.com/dhabedank/burnlog/internal/llm"
)

var (
	listenAddr string
	llmModel   string
	maxTokens  int
)

// ServeCmd runs the calorie-estimation gateway.
var ServeCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the calorie-estimation gateway",
	Long: `Run the HTTP gateway that turns workout descriptions into calorie estimates.

Endpoints:
  POST /api/calculate-calories   estimate one workout
  GET  /api/health               liveness check

The Anthropic API key is read from ANTHROPIC_API_KEY. The gateway starts
without one and answers estimation requests with a configuration error
until it is set.`,
	RunE: runServe,
}

func init() {
	addConfigFlag(ServeCmd)
	ServeCmd.Flags().StringVar(&listenAddr, "listen", "", "Listen address (default :3000, or :$PORT)")
	ServeCmd.Flags().StringVarP(&llmModel, "model", "m", "", "Model to use")
	ServeCmd.Flags().IntVar(&maxTokens, "max-tokens", 0, "Maximum reply tokens")
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("listen") {
		cfg.Listen = listenAddr
	}
	if cmd.Flags().Changed("model") {
		cfg.Model = llmModel
	}
	if cmd.Flags().Changed("max-tokens") {
		cfg.MaxTokens = maxTokens
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	adapter, err := llm.NewAdapter("anthropic", cfg.LLM())
	if err != nil {
		return fmt.Errorf("failed to create LLM adapter: %w", err)
	}
	if err := adapter.Check(); err != nil {
		log.Printf("Warning: %v", err)
	}
	if _, known := llm.LookupModel(cfg.Model); !known {
		log.Printf("Warning: model %q is not in the catalog, pricing will be estimated", cfg.Model)
	}
	log.Printf("Using model %s via %s", cfg.Model, adapter.Name())

	estimator := core.NewEstimator(adapter, llm.DescribeCost, log.Default())
	srv := gateway.New(cfg.Listen, estimator)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	select {
	case <-sigCh:
		log.Println("Received shutdown signal")
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	}

	log.Println("Shutting down...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Stop(ctx); err != nil {
		return fmt.Errorf("shutdown failed: %w", err)
	}
	return nil
}
