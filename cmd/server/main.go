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

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"railhub/internal/jwt_token"
	"railhub/internal/payments/dispatcher"
	"railhub/internal/payments/handler"
	"railhub/internal/payments/health"
	paymetrics "railhub/internal/payments/metrics"
	"railhub/internal/payments/models"
	"railhub/internal/payments/ports"
	"railhub/internal/payments/registry"
	"railhub/internal/payments/sca"
	"railhub/internal/payments/store/challenge"
	"railhub/internal/platform/config"
	"railhub/internal/platform/httpserver"
	"railhub/internal/platform/logger"
	"railhub/internal/platform/middleware"
	platformredis "railhub/internal/platform/redis"
	"railhub/internal/providers/gateway"
	"railhub/internal/providers/ledger"
	"railhub/pkg/platform/events"
)

// main wires the hub: config, observability, challenge store, gate,
// providers, registry, dispatcher, and the HTTP surface. Business logic
// lives in the internal packages.
func main() {
	if err := run(); err != nil {
		slog.Error("railhub failed", "error", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.FromEnv()
	if err != nil {
		return err
	}
	log := logger.New()
	metrics := paymetrics.New()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Challenge store: Redis when configured, in-memory otherwise.
	var store ports.ChallengeStore = challenge.NewInMemoryStore()
	redisClient, err := platformredis.New(ctx, cfg.Redis)
	if err != nil {
		return err
	}
	if redisClient != nil {
		defer redisClient.Close()
		store = challenge.NewRedisStore(redisClient.Client)
		log.Info("challenge store backed by redis")
	}

	// Operation events: Kafka when configured, dropped otherwise.
	var publisher events.Publisher = events.NopPublisher{}
	if len(cfg.Kafka.Brokers) > 0 {
		kafkaPublisher, err := events.NewKafkaPublisher(ctx, cfg.Kafka.Brokers, cfg.Kafka.Topic, log)
		if err != nil {
			return err
		}
		defer kafkaPublisher.Close()
		publisher = kafkaPublisher
		log.Info("operation events published to kafka", "topic", cfg.Kafka.Topic)
	}

	gate, err := sca.New(store, sca.NewLogSender(log),
		sca.WithLogger(log),
		sca.WithMetrics(metrics),
		sca.WithPolicy(sca.Policy{DefaultThreshold: cfg.SCA.DefaultThreshold}),
		sca.WithChallengeTTL(cfg.SCA.ChallengeTTL),
		sca.WithSendTimeout(cfg.SCA.SendTimeout),
		sca.WithPublisher(publisher),
	)
	if err != nil {
		return err
	}

	reg, err := buildRegistry(cfg, gate, log)
	if err != nil {
		return err
	}

	svc, err := dispatcher.New(reg, gate,
		dispatcher.WithLogger(log),
		dispatcher.WithMetrics(metrics),
		dispatcher.WithPublisher(publisher),
		dispatcher.WithOperationTimeout(cfg.Dispatch.OperationTimeout),
	)
	if err != nil {
		return err
	}

	checker, err := health.New(reg, gate,
		health.WithLogger(log),
		health.WithMetrics(metrics),
		health.WithProbeTimeout(cfg.Health.ProbeTimeout),
	)
	if err != nil {
		return err
	}

	tokens := jwttoken.NewService(cfg.Server.JWTSigningKey, cfg.Server.JWTIssuer, cfg.Server.JWTAudience)

	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(chimiddleware.Recoverer)
	router.Handle("/metrics", promhttp.Handler())
	router.Group(func(r chi.Router) {
		r.Use(middleware.RequireAuth(jwttoken.NewMiddlewareAdapter(tokens), log))
		handler.New(svc, gate, checker, log).Register(r)
	})

	srv := httpserver.New(cfg.Server.Addr, router)

	errCh := make(chan error, 1)
	go func() {
		log.Info("railhub listening", "addr", cfg.Server.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

// buildRegistry registers the in-process ledger plus one gateway per
// configured remote rail, then seals the registry. Resolution before the
// seal is a programming error, so this runs to completion before serving.
func buildRegistry(cfg config.Config, gate ports.ScaGate, log *slog.Logger) (*registry.Registry, error) {
	reg := registry.New(log)

	books, err := ledger.New(gate, ledger.WithLogger(log))
	if err != nil {
		return nil, err
	}
	reg.Register(models.CategoryInternal, books)

	for _, gwCfg := range cfg.Gateways {
		gw, err := gateway.New(gatewayName(gwCfg.Category), gwCfg.BaseURL, gateway.WithLogger(log))
		if err != nil {
			return nil, err
		}
		reg.Register(models.ProviderCategory(gwCfg.Category), gw)
	}

	reg.Complete()
	return reg, nil
}

func gatewayName(category string) string {
	return "gateway-" + category
}
