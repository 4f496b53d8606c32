package main

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"rx-scanner/api/internal/config"
	"rx-scanner/api/internal/handle"
	"rx-scanner/api/internal/httpserver"
	"rx-scanner/api/internal/ratelimit"
	"rx-scanner/api/internal/vision/gemini"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, nil)))

	cfg, err := config.Load()
	if err != nil {
		slog.Error("configuration failed", "error", err)
		os.Exit(1)
	}
	if cfg.GeminiAPIKey == "" {
		slog.Warn("GEMINI_API_KEY is not set; /process_image will fail until it is")
	}

	engine := gemini.New(cfg.GeminiAPIKey, cfg.GeminiModel)
	h := handle.New(engine, cfg.MaxUploadBytes)

	// 2 tokens/s, burst 1000; a scan costs 100.
	limiter := ratelimit.New(2, 1000)

	router := httpserver.NewRouter(httpserver.Options{
		Handle:  h,
		Limiter: limiter,
	})

	addr := net.JoinHostPort(cfg.Address, cfg.Port)
	srv := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		slog.Info("rx-scanner api listening", "addr", addr, "model", engine.GetModel())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server failed", "error", err)
			os.Exit(1)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	// In-flight model calls can be slow; give them a generous drain window.
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		slog.Error("shutdown failed", "error", err)
	}
	slog.Info("server stopped")
}
