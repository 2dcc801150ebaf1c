// Command gfm-backend is the chat gateway: it validates chat requests, adds
// the GFM system prompt and forwards them to the configured model provider.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"golang.org/x/sync/errgroup"

	"github.com/billie-coop/genomechat/internal/config"
	"github.com/billie-coop/genomechat/internal/llm"
	"github.com/billie-coop/genomechat/internal/logger"
	"github.com/billie-coop/genomechat/internal/prompts"
	"github.com/billie-coop/genomechat/internal/server"
)

const shutdownTimeout = 10 * time.Second

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	project := flag.String("dir", ".", "project directory holding .gfm/")
	flag.Parse()

	cfgManager := config.NewManager(*project)
	if err := cfgManager.Load(); err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	cfg := cfgManager.Get()

	log, err := logger.New(cfg.LogMode)
	if err != nil {
		return fmt.Errorf("create logger: %w", err)
	}
	defer log.Sync()

	if cfg.LogMode == "prod" {
		gin.SetMode(gin.ReleaseMode)
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	srv := server.New(newCompleter(cfg, log), server.Options{
		AllowedOrigins: cfg.AllowedOrigins,
		SystemPrompt:   prompts.SystemPrompt(),
		Registry:       reg,
		Logger:         log,
	})

	httpServer := &http.Server{
		Addr:              cfg.ListenAddr,
		Handler:           srv.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("gateway listening", "addr", cfg.ListenAddr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("listen: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info("shutting down gateway")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return httpServer.Shutdown(shutdownCtx)
	})

	return g.Wait()
}

func newCompleter(cfg *config.Config, log *logger.Logger) llm.Completer {
	if cfg.LLMBaseURL == "" && cfg.LLMAPIKey == "" {
		log.Warn("no model provider configured, answering with placeholder replies")
		return llm.PlaceholderClient{}
	}
	log.Info("using OpenAI-compatible provider", "base_url", cfg.LLMBaseURL, "model", cfg.LLMModel, "api_key", cfg.LLMAPIKey)
	return llm.NewOpenAIClient(cfg.LLMAPIKey, cfg.LLMBaseURL, llm.CompleteOptions{
		Model:       cfg.LLMModel,
		Temperature: cfg.Temperature,
		MaxTokens:   cfg.MaxTokens,
	})
}
