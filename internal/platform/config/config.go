// Package config builds the process configuration from environment
// variables so main stays lean. Every knob has a development default.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	pstrings "railhub/pkg/platform/strings"
)

// Server captures HTTP server level configuration.
type Server struct {
	Addr          string
	JWTSigningKey string
	JWTIssuer     string
	JWTAudience   string
}

// Redis configures the optional challenge store backend. An empty URL keeps
// challenges in memory.
type Redis struct {
	URL          string
	PoolSize     int
	MinIdleConns int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// Kafka configures the optional operation event stream. No brokers means
// events are dropped.
type Kafka struct {
	Brokers []string
	Topic   string
}

// SCA tunes the challenge gate.
type SCA struct {
	ChallengeTTL     time.Duration
	SendTimeout      time.Duration
	DefaultThreshold int64
}

// Dispatch bounds provider calls.
type Dispatch struct {
	OperationTimeout time.Duration
}

// Health bounds the per-provider probe.
type Health struct {
	ProbeTimeout time.Duration
}

// Gateway declares one remote rail service and the category it serves.
// Parsed from RAILHUB_GATEWAYS, e.g. "SEPA=http://sepa-rail:8081,SWIFT=http://swift-bridge:8082".
type Gateway struct {
	Category string
	BaseURL  string
}

// Config is the full process configuration.
type Config struct {
	Server   Server
	Redis    Redis
	Kafka    Kafka
	SCA      SCA
	Dispatch Dispatch
	Health   Health
	Gateways []Gateway
}

// FromEnv builds the configuration from RAILHUB_* environment variables.
func FromEnv() (Config, error) {
	cfg := Config{
		Server: Server{
			Addr:          envOr("RAILHUB_ADDR", ":8080"),
			JWTSigningKey: envOr("RAILHUB_JWT_SIGNING_KEY", "dev-secret-key-change-in-production"),
			JWTIssuer:     envOr("RAILHUB_JWT_ISSUER", "railhub"),
			JWTAudience:   envOr("RAILHUB_JWT_AUDIENCE", "railhub-api"),
		},
		Redis: Redis{
			URL:          os.Getenv("RAILHUB_REDIS_URL"),
			PoolSize:     10,
			MinIdleConns: 2,
			DialTimeout:  5 * time.Second,
			ReadTimeout:  3 * time.Second,
			WriteTimeout: 3 * time.Second,
		},
		Kafka: Kafka{
			Topic: envOr("RAILHUB_KAFKA_TOPIC", "railhub.operations"),
		},
		SCA: SCA{
			ChallengeTTL:     5 * time.Minute,
			SendTimeout:      10 * time.Second,
			DefaultThreshold: 50000,
		},
		Dispatch: Dispatch{OperationTimeout: 30 * time.Second},
		Health:   Health{ProbeTimeout: 5 * time.Second},
	}

	if brokers := os.Getenv("RAILHUB_KAFKA_BROKERS"); brokers != "" {
		cfg.Kafka.Brokers = splitTrim(brokers)
	}

	var err error
	if cfg.SCA.ChallengeTTL, err = envDuration("RAILHUB_SCA_CHALLENGE_TTL", cfg.SCA.ChallengeTTL); err != nil {
		return Config{}, err
	}
	if cfg.SCA.SendTimeout, err = envDuration("RAILHUB_SCA_SEND_TIMEOUT", cfg.SCA.SendTimeout); err != nil {
		return Config{}, err
	}
	if cfg.Dispatch.OperationTimeout, err = envDuration("RAILHUB_OPERATION_TIMEOUT", cfg.Dispatch.OperationTimeout); err != nil {
		return Config{}, err
	}
	if cfg.Health.ProbeTimeout, err = envDuration("RAILHUB_HEALTH_PROBE_TIMEOUT", cfg.Health.ProbeTimeout); err != nil {
		return Config{}, err
	}
	if raw := os.Getenv("RAILHUB_SCA_THRESHOLD"); raw != "" {
		threshold, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return Config{}, fmt.Errorf("RAILHUB_SCA_THRESHOLD: %w", err)
		}
		cfg.SCA.DefaultThreshold = threshold
	}

	if cfg.Gateways, err = parseGateways(os.Getenv("RAILHUB_GATEWAYS")); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func parseGateways(raw string) ([]Gateway, error) {
	if raw == "" {
		return nil, nil
	}
	var out []Gateway
	for _, entry := range splitTrim(raw) {
		category, baseURL, ok := strings.Cut(entry, "=")
		if !ok || category == "" || baseURL == "" {
			return nil, fmt.Errorf("RAILHUB_GATEWAYS: malformed entry %q, want CATEGORY=URL", entry)
		}
		out = append(out, Gateway{
			Category: strings.ToUpper(strings.TrimSpace(category)),
			BaseURL:  strings.TrimSpace(baseURL),
		})
	}
	return out, nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envDuration(key string, fallback time.Duration) (time.Duration, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return d, nil
}

func splitTrim(raw string) []string {
	return pstrings.DedupeAndTrim(strings.Split(raw, ","))
}
