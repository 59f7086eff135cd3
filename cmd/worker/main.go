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

	"debate-scoring-service/internal/config"
	"debate-scoring-service/internal/events"
	"debate-scoring-service/internal/observability"
	"debate-scoring-service/internal/observability/logging"
	"debate-scoring-service/internal/service/stt"
	sttgoogle "debate-scoring-service/internal/service/stt/google"
	sttmock "debate-scoring-service/internal/service/stt/mock"
	"debate-scoring-service/internal/worker"
)

func main() {
	_ = godotenv.Load()

	cfg := config.Load()
	logging.Init("debate-worker", cfg.Observability.LogLevel, cfg.Service.Env)

	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("Invalid configuration")
	}

	ctx := context.Background()
	transcriber, cleanup, err := newTranscriber(ctx, cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create STT adapter")
	}
	defer cleanup()

	publisher := events.New(&events.Config{
		Enabled: cfg.Kafka.Enabled,
		Brokers: cfg.Kafka.Brokers,
		Topic:   cfg.Kafka.Topic,
	})
	defer publisher.Close()

	handler := worker.NewHandler(transcriber, publisher)

	obs := observability.NewServer(cfg.Observability.MetricsAddr)
	obs.Start()

	server := &http.Server{
		Addr:              ":" + cfg.Service.Port,
		Handler:           worker.NewRouter(handler),
		ReadHeaderTimeout: 10 * time.Second,
		// A job request blocks for up to the recognition operation timeout.
		WriteTimeout: cfg.STT.OperationTimeout + 30*time.Second,
	}

	go func() {
		log.Info().
			Str("port", cfg.Service.Port).
			Str("sttProvider", cfg.STT.Provider).
			Msg("Processing endpoint started")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("HTTP server failed")
		}
	}()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig

	log.Info().Msg("Shutting down processing endpoint")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	_ = obs.Shutdown(shutdownCtx)
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("HTTP server shutdown error")
	}
}

// newTranscriber selects the STT provider. The mock provider keeps local
// runs free of cloud credentials.
func newTranscriber(ctx context.Context, cfg *config.Config) (stt.Transcriber, func(), error) {
	switch cfg.STT.Provider {
	case "google":
		a, err := sttgoogle.New(ctx, sttgoogle.Config{
			LanguageCode:        cfg.STT.LanguageCode,
			AudioEncoding:       cfg.STT.AudioEncoding,
			SampleRateHz:        cfg.STT.SampleRateHz,
			DiarizationSpeakers: cfg.STT.DiarizationSpeakers,
			OperationTimeout:    cfg.STT.OperationTimeout,
		})
		if err != nil {
			return nil, nil, err
		}
		return a, func() { _ = a.Close() }, nil
	default:
		log.Warn().Str("provider", cfg.STT.Provider).Msg("Using mock STT provider")
		return sttmock.New(), func() {}, nil
	}
}
