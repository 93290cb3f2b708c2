// Package gateway adapts a remote rail service speaking the hub's JSON
// contract into a ports.Provider. One gateway instance fronts one service;
// the registry decides which categories it serves.
package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"railhub/internal/payments/models"
	"railhub/internal/payments/ports"
	"railhub/pkg/platform/circuit"
)

const (
	defaultRequestTimeout = 15 * time.Second
	maxResponseBytes      = 1 << 20
)

var _ ports.Provider = (*Gateway)(nil)

// Gateway forwards operations to a remote rail service over HTTP. A circuit
// breaker sheds calls to a rail that keeps failing; while open, operations
// fail fast with a transport error the dispatcher turns into a fault result.
type Gateway struct {
	name    string
	baseURL string
	client  *http.Client
	breaker *circuit.Breaker
	logger  *slog.Logger
}

// Option configures a Gateway.
type Option func(*Gateway)

func WithLogger(logger *slog.Logger) Option {
	return func(g *Gateway) { g.logger = logger }
}

func WithHTTPClient(client *http.Client) Option {
	return func(g *Gateway) { g.client = client }
}

func WithRequestTimeout(d time.Duration) Option {
	return func(g *Gateway) { g.client.Timeout = d }
}

// WithBreaker overrides the default circuit breaker.
func WithBreaker(b *circuit.Breaker) Option {
	return func(g *Gateway) { g.breaker = b }
}

// New builds a Gateway for the rail service at baseURL.
func New(name, baseURL string, opts ...Option) (*Gateway, error) {
	if name == "" {
		return nil, fmt.Errorf("gateway name is required")
	}
	if baseURL == "" {
		return nil, fmt.Errorf("gateway base URL is required")
	}

	g := &Gateway{
		name:    name,
		baseURL: baseURL,
		client:  &http.Client{Timeout: defaultRequestTimeout},
		breaker: circuit.New(name),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g, nil
}

func (g *Gateway) Name() string { return g.name }

func (g *Gateway) Simulate(ctx context.Context, req models.PaymentRequest) (*models.SimulationResult, error) {
	res := &models.SimulationResult{PaymentID: req.PaymentID}
	if err := g.post(ctx, "/payments/simulate", req, res); err != nil {
		return nil, err
	}
	return res, nil
}

func (g *Gateway) Execute(ctx context.Context, req models.PaymentRequest) (*models.ExecutionResult, error) {
	res := &models.ExecutionResult{PaymentID: req.PaymentID}
	if err := g.post(ctx, "/payments/execute", req, res); err != nil {
		return nil, err
	}
	return res, nil
}

func (g *Gateway) Cancel(ctx context.Context, req models.CancellationRequest) (*models.CancellationResult, error) {
	res := &models.CancellationResult{PaymentID: req.PaymentID}
	if err := g.post(ctx, "/payments/cancel", req, res); err != nil {
		return nil, err
	}
	return res, nil
}

func (g *Gateway) SimulateCancellation(ctx context.Context, req models.CancellationRequest) (*models.CancellationResult, error) {
	res := &models.CancellationResult{PaymentID: req.PaymentID}
	if err := g.post(ctx, "/payments/cancel/simulate", req, res); err != nil {
		return nil, err
	}
	return res, nil
}

func (g *Gateway) Schedule(ctx context.Context, req models.ScheduleRequest) (*models.ScheduleResult, error) {
	res := &models.ScheduleResult{PaymentID: req.Payment.PaymentID}
	if err := g.post(ctx, "/payments/schedule", req, res); err != nil {
		return nil, err
	}
	return res, nil
}

// Healthy probes the remote service. Any 2xx counts as up; other statuses
// are down without being an error. The probe bypasses the breaker and feeds
// it, so a recovered rail closes the circuit again.
func (g *Gateway) Healthy(ctx context.Context) (bool, error) {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, g.baseURL+"/health", nil)
	if err != nil {
		return false, err
	}
	resp, err := g.client.Do(httpReq)
	if err != nil {
		g.recordFailure(ctx)
		return false, fmt.Errorf("health probe: %w", err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxResponseBytes))

	up := resp.StatusCode >= 200 && resp.StatusCode < 300
	if up {
		g.recordSuccess(ctx)
	} else {
		g.recordFailure(ctx)
	}
	return up, nil
}

// post sends the payload and decodes the remote result into out. A 4xx or
// 5xx response with a decodable result body is still a result: expected
// failures travel as data end to end. Undecodable responses are errors.
func (g *Gateway) post(ctx context.Context, path string, payload, out any) error {
	if g.breaker.IsOpen() {
		return fmt.Errorf("gateway %s: circuit open", g.name)
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("encode request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, g.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return err
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := g.client.Do(httpReq)
	if err != nil {
		g.recordFailure(ctx)
		return fmt.Errorf("call %s: %w", path, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		g.recordFailure(ctx)
		return fmt.Errorf("read response from %s: %w", path, err)
	}

	if err := json.Unmarshal(raw, out); err != nil {
		g.recordFailure(ctx)
		if g.logger != nil {
			g.logger.WarnContext(ctx, "gateway returned undecodable body",
				"gateway", g.name, "path", path, "status", resp.StatusCode)
		}
		return fmt.Errorf("decode response from %s (status %d): %w", path, resp.StatusCode, err)
	}

	g.recordSuccess(ctx)
	return nil
}

func (g *Gateway) recordFailure(ctx context.Context) {
	if _, change := g.breaker.RecordFailure(); change.Opened && g.logger != nil {
		g.logger.WarnContext(ctx, "gateway circuit opened", "gateway", g.name)
	}
}

func (g *Gateway) recordSuccess(ctx context.Context) {
	if _, change := g.breaker.RecordSuccess(); change.Closed && g.logger != nil {
		g.logger.InfoContext(ctx, "gateway circuit closed", "gateway", g.name)
	}
}
