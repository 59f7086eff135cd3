package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"

	"debate-scoring-service/internal/auth"
	"debate-scoring-service/internal/config"
	"debate-scoring-service/internal/gateway"
	"debate-scoring-service/internal/jobclient"
	"debate-scoring-service/internal/observability"
	"debate-scoring-service/internal/observability/logging"
	"debate-scoring-service/internal/storage"
)

func main() {
	_ = godotenv.Load()

	cfg := config.Load()
	logging.Init("debate-gateway", cfg.Observability.LogLevel, cfg.Service.Env)

	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("Invalid configuration")
	}

	ctx := context.Background()
	store, err := storage.NewGCS(ctx, cfg.Storage.UploadBucket)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create storage client")
	}
	defer store.Close()

	processor := jobclient.New(cfg.Worker.URL, auth.NewMetadataProvider(), cfg.Pipeline.InvokeTimeout)
	handler := gateway.NewHandler(store, processor)

	obs := observability.NewServer(cfg.Observability.MetricsAddr)
	obs.Start()

	server := &http.Server{
		Addr:              ":" + cfg.Service.Port,
		Handler:           gateway.NewRouter(handler),
		ReadHeaderTimeout: 10 * time.Second,
		// The synchronous processing call can legitimately hold a request
		// for the full invoke timeout.
		WriteTimeout: cfg.Pipeline.InvokeTimeout + 30*time.Second,
	}

	go func() {
		log.Info().Str("port", cfg.Service.Port).Msg("Upload gateway started")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("HTTP server failed")
		}
	}()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig

	log.Info().Msg("Shutting down upload gateway")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	_ = obs.Shutdown(shutdownCtx)
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("HTTP server shutdown error")
	}
}
