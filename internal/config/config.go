// Package config loads service configuration from the environment.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all configuration for both binaries. Each binary reads only
// the sections it needs.
type Config struct {
	Service       ServiceConfig
	Storage       StorageConfig
	Worker        WorkerConfig
	STT           STTConfig
	Pipeline      PipelineConfig
	Kafka         KafkaConfig
	Observability ObservabilityConfig
}

// ServiceConfig holds process identity and listen settings.
type ServiceConfig struct {
	Principal string
	Env       string
	Port      string
}

// StorageConfig holds the upload buffer settings.
type StorageConfig struct {
	UploadBucket string
}

// WorkerConfig points the gateway at the processing endpoint.
// An empty URL is a deployment error surfaced per request, not at startup,
// so the gateway can still serve health checks.
type WorkerConfig struct {
	URL string
}

// STTConfig describes the fixed recognition profile for a deployment.
type STTConfig struct {
	Provider            string
	LanguageCode        string
	AudioEncoding       string
	SampleRateHz        int
	DiarizationSpeakers int
	OperationTimeout    time.Duration
}

// PipelineConfig bounds the gateway's synchronous call into the worker.
type PipelineConfig struct {
	InvokeTimeout time.Duration
}

// KafkaConfig configures scored-event publishing. Disabled by default.
type KafkaConfig struct {
	Enabled bool
	Brokers []string
	Topic   string
}

// ObservabilityConfig holds logging and metrics settings.
type ObservabilityConfig struct {
	LogLevel    string
	MetricsAddr string
}

// Load reads configuration from the environment, applying defaults suited
// to local testing.
func Load() *Config {
	return &Config{
		Service: ServiceConfig{
			Principal: envOrDefault("SERVICE_PRINCIPAL", "svc-debate-scoring"),
			Env:       envOrDefault("ENV", ""),
			Port:      envOrDefault("PORT", "8080"),
		},
		Storage: StorageConfig{
			UploadBucket: envOrDefault("UPLOAD_BUCKET_NAME", "debate-upload-bucket"),
		},
		Worker: WorkerConfig{
			URL: envOrDefault("PROCESSING_ENDPOINT_URL", ""),
		},
		STT: STTConfig{
			Provider:            envOrDefault("STT_PROVIDER", "mock"),
			LanguageCode:        envOrDefault("STT_LANGUAGE_CODE", "vi-VN"),
			AudioEncoding:       envOrDefault("STT_AUDIO_ENCODING", "MP3"),
			SampleRateHz:        envOrDefaultInt("STT_SAMPLE_RATE_HZ", 44100),
			DiarizationSpeakers: envOrDefaultInt("STT_DIARIZATION_SPEAKERS", 6),
			OperationTimeout:    envOrDefaultDuration("STT_OPERATION_TIMEOUT", 120*time.Second),
		},
		Pipeline: PipelineConfig{
			InvokeTimeout: envOrDefaultDuration("PIPELINE_INVOKE_TIMEOUT", 300*time.Second),
		},
		Kafka: KafkaConfig{
			Enabled: envOrDefaultBool("KAFKA_ENABLED", false),
			Brokers: envList("KAFKA_BROKERS"),
			Topic:   envOrDefault("KAFKA_TOPIC_SCORED", "debate.scored"),
		},
		Observability: ObservabilityConfig{
			LogLevel:    envOrDefault("LOG_LEVEL", "info"),
			MetricsAddr: envOrDefault("METRICS_ADDR", ":9090"),
		},
	}
}

// Validate rejects configurations that would let the inner speech-operation
// timeout silently disagree with the outer invoke timeout. The inner bound
// must be strictly below the outer one.
func (c *Config) Validate() error {
	if c.STT.OperationTimeout <= 0 {
		return fmt.Errorf("config: STT operation timeout must be positive, got %v", c.STT.OperationTimeout)
	}
	if c.Pipeline.InvokeTimeout <= 0 {
		return fmt.Errorf("config: pipeline invoke timeout must be positive, got %v", c.Pipeline.InvokeTimeout)
	}
	if c.STT.OperationTimeout >= c.Pipeline.InvokeTimeout {
		return fmt.Errorf("config: STT operation timeout (%v) must be below the pipeline invoke timeout (%v)",
			c.STT.OperationTimeout, c.Pipeline.InvokeTimeout)
	}
	return nil
}

func envOrDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envOrDefaultInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

func envOrDefaultBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return def
}

func envOrDefaultDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}

func envList(key string) []string {
	v := os.Getenv(key)
	if v == "" {
		return nil
	}
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
