// Package health probes every provider slot plus the SCA gate and folds the
// outcomes into a single report. Probes run in parallel with a bounded
// per-probe timeout; a probe that hangs is abandoned and reported as ERROR.
package health

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"railhub/internal/payments/metrics"
	"railhub/internal/payments/models"
	"railhub/internal/payments/ports"
)

const defaultProbeTimeout = 5 * time.Second

// CategoryResolver exposes the registry's per-category lookup. Satisfied by
// *registry.Registry.
type CategoryResolver interface {
	ResolveByCategory(category models.ProviderCategory) (ports.Provider, bool)
}

// Aggregator runs the fan-out health check.
type Aggregator struct {
	resolver     CategoryResolver
	gate         ports.ScaGate
	logger       *slog.Logger
	metrics      *metrics.Metrics
	probeTimeout time.Duration
	now          func() time.Time
}

// Option configures an Aggregator.
type Option func(*Aggregator)

func WithLogger(logger *slog.Logger) Option {
	return func(a *Aggregator) { a.logger = logger }
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(a *Aggregator) { a.metrics = m }
}

func WithProbeTimeout(d time.Duration) Option {
	return func(a *Aggregator) { a.probeTimeout = d }
}

func WithClock(now func() time.Time) Option {
	return func(a *Aggregator) { a.now = now }
}

// New builds an Aggregator. Resolver and gate are required.
func New(resolver CategoryResolver, gate ports.ScaGate, opts ...Option) (*Aggregator, error) {
	if resolver == nil {
		return nil, fmt.Errorf("category resolver is required")
	}
	if gate == nil {
		return nil, fmt.Errorf("sca gate is required")
	}

	a := &Aggregator{
		resolver:     resolver,
		gate:         gate,
		probeTimeout: defaultProbeTimeout,
		now:          time.Now,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a, nil
}

// Check probes all categories and the SCA gate concurrently and returns the
// folded report. It never returns an error: probe failures are data in the
// per-slot statuses.
func (a *Aggregator) Check(ctx context.Context) *models.HealthReport {
	report := &models.HealthReport{
		CheckedAt: a.now().UTC(),
		Providers: make(map[models.ProviderCategory]models.ProviderHealth),
	}

	categories := models.AllCategories()
	results := make([]models.ProviderHealth, len(categories))

	g, gctx := errgroup.WithContext(ctx)
	for i, category := range categories {
		g.Go(func() error {
			results[i] = a.probeCategory(gctx, category)
			return nil
		})
	}

	var gateHealth models.ProviderHealth
	g.Go(func() error {
		gateHealth = a.probeGate(gctx)
		return nil
	})

	// Probe goroutines never return errors; Wait is only the join point.
	_ = g.Wait()

	healthy := gateHealth.Status == models.StatusUp
	for _, r := range results {
		report.Providers[r.Category] = r
		if r.Status != models.StatusUp && r.Status != models.StatusNotAvailable {
			healthy = false
		}
		if a.metrics != nil {
			a.metrics.SetHealthStatus(r.Category.String(), r.Status == models.StatusUp)
		}
	}
	report.SCAGate = gateHealth
	report.Healthy = healthy

	if a.logger != nil && !healthy {
		a.logger.WarnContext(ctx, "health check found degraded providers",
			"sca_gate", gateHealth.Status)
	}
	return report
}

// probeCategory asks the bound provider whether it is healthy. Unbound
// categories are NOT_AVAILABLE, a neutral status.
func (a *Aggregator) probeCategory(ctx context.Context, category models.ProviderCategory) models.ProviderHealth {
	provider, ok := a.resolver.ResolveByCategory(category)
	if !ok {
		return models.ProviderHealth{
			Category: category,
			Status:   models.StatusNotAvailable,
		}
	}

	health := models.ProviderHealth{
		Category:     category,
		ProviderName: provider.Name(),
	}
	health.Status, health.ResponseTime, health.Detail = a.probe(ctx, func(probeCtx context.Context) (bool, error) {
		return provider.Healthy(probeCtx)
	})
	return health
}

// probeGate exercises the gate's policy path without side effects.
func (a *Aggregator) probeGate(ctx context.Context) models.ProviderHealth {
	health := models.ProviderHealth{
		Category:     "SCA_GATE",
		ProviderName: "sca-gate",
	}
	health.Status, health.ResponseTime, health.Detail = a.probe(ctx, func(probeCtx context.Context) (bool, error) {
		_, err := a.gate.IsRequired(probeCtx, models.OperationExecute, "1.00", "EUR", "health-probe")
		return err == nil, err
	})
	return health
}

type probeOutcome struct {
	up  bool
	err error
}

// probe runs fn under the probe timeout. A hung probe is abandoned: the
// goroutine keeps running but the slot is reported as ERROR with a timeout
// detail. Panics inside fn are contained and reported as ERROR.
func (a *Aggregator) probe(ctx context.Context, fn func(ctx context.Context) (bool, error)) (models.ProbeStatus, time.Duration, string) {
	probeCtx, cancel := context.WithTimeout(ctx, a.probeTimeout)
	defer cancel()

	start := a.now()
	done := make(chan probeOutcome, 1)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				done <- probeOutcome{err: fmt.Errorf("probe panic: %v", r)}
			}
		}()
		up, err := fn(probeCtx)
		done <- probeOutcome{up: up, err: err}
	}()

	select {
	case out := <-done:
		elapsed := a.now().Sub(start)
		switch {
		case out.err != nil:
			return models.StatusError, elapsed, out.err.Error()
		case out.up:
			return models.StatusUp, elapsed, ""
		default:
			return models.StatusDown, elapsed, ""
		}
	case <-probeCtx.Done():
		elapsed := a.now().Sub(start)
		if a.logger != nil {
			a.logger.WarnContext(ctx, "health probe abandoned", "elapsed", elapsed)
		}
		return models.StatusError, elapsed, "probe timed out"
	}
}
