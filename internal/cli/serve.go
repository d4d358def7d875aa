package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/ppiankov/veritas/internal/httpapi"
	"github.com/ppiankov/veritas/internal/pipeline"
)

var serveAddr string

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the fact-check pipeline over HTTP",
	Long: `Serve starts an HTTP API in front of the fact-check pipeline:

  GET  /api/v1/health      — service health
  POST /api/v1/fact-check  — {"claim": "..."} → full fact-check result

A claim outside the 10-500 character range is rejected with 400.
Evidence-retrieval unavailability maps to 503; the result body is
otherwise always a complete fact-check, possibly with degraded fields.

Example:
  veritas serve --addr :8000`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringVar(&serveAddr, "addr", ":8000", "listen address")

	serveCmd.Flags().StringVar(&userAgent, "ua", "Veritas/0.1 (+https://github.com/ppiankov/veritas)", "HTTP User-Agent")
	serveCmd.Flags().IntVar(&paperLimit, "limit", 5, "maximum papers to retrieve per claim")
	serveCmd.Flags().BoolVar(&noEnrich, "no-enrich", false, "disable abstract enrichment for short snippets")

	serveCmd.Flags().StringVar(&llmProvider, "llm-provider", "gemini", "LLM provider (gemini, openai, ollama)")
	serveCmd.Flags().StringVar(&llmModel, "llm-model", "gemini-2.0-flash", "LLM model name")
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig()
	if err != nil {
		return err
	}

	p, err := pipeline.NewPipeline(cfg)
	if err != nil {
		return err
	}

	server := &http.Server{
		Addr:              serveAddr,
		Handler:           httpapi.NewServer(p),
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		fmt.Fprintf(os.Stderr, "Listening on %s\n", serveAddr)
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	fmt.Fprintf(os.Stderr, "Shutting down...\n")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}
