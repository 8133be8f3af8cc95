package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/materialqc/specsheet/internal/common"
	"github.com/materialqc/specsheet/internal/llm"
	"github.com/materialqc/specsheet/internal/pdfconv"
	"github.com/materialqc/specsheet/internal/pipeline"
	"github.com/materialqc/specsheet/internal/server"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	cfg := common.LoadConfig()
	if err := cfg.Validate(); err != nil {
		logger.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	client := llm.NewClient(llm.Config{
		URL:      cfg.LLM.URL,
		Token:    cfg.LLM.Token,
		UserCode: cfg.LLM.UserCode,
		Model:    cfg.LLM.Model,
		Timeout:  cfg.LLM.Timeout,
	}, logger)
	converter := pdfconv.NewConverter(logger)
	proc := pipeline.NewProcessor(logger, converter, client)

	srv := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           server.NewServer(logger, proc).Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("specd.listening", "addr", cfg.Server.Addr, "model", cfg.LLM.Model)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("specd.serve_failed", "error", err)
			os.Exit(1)
		}
	}()

	<-ctx.Done()
	logger.Info("specd.shutting_down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("specd.shutdown_failed", "error", err)
	}
}
