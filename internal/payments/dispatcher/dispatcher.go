// Package dispatcher orchestrates the four operation families against
// whichever provider the registry resolves. Expected failures are data
// inside results; the dispatcher converts provider errors and panics into
// failed results so no single call can crash the hub.
package dispatcher

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"railhub/internal/payments/metrics"
	"railhub/internal/payments/models"
	"railhub/internal/payments/ports"
	id "railhub/pkg/domain"
	"railhub/pkg/platform/events"
)

const defaultOperationTimeout = 30 * time.Second

// Resolver maps a payment type to its provider. Satisfied by
// *registry.Registry.
type Resolver interface {
	Resolve(t models.PaymentType) (ports.Provider, bool)
}

// Service is the payment dispatcher.
type Service struct {
	resolver  Resolver
	gate      ports.ScaGate
	logger    *slog.Logger
	metrics   *metrics.Metrics
	publisher events.Publisher
	tracer    trace.Tracer
	opTimeout time.Duration
	now       func() time.Time
}

// Option configures a Service.
type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) { s.logger = logger }
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) { s.metrics = m }
}

func WithPublisher(p events.Publisher) Option {
	return func(s *Service) { s.publisher = p }
}

func WithOperationTimeout(d time.Duration) Option {
	return func(s *Service) { s.opTimeout = d }
}

// WithClock overrides the time source for schedule validation.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// New builds a dispatcher. Resolver and gate are required.
func New(resolver Resolver, gate ports.ScaGate, opts ...Option) (*Service, error) {
	if resolver == nil {
		return nil, fmt.Errorf("provider resolver is required")
	}
	if gate == nil {
		return nil, fmt.Errorf("sca gate is required")
	}

	s := &Service{
		resolver:  resolver,
		gate:      gate,
		tracer:    otel.Tracer("railhub/payments/dispatcher"),
		opTimeout: defaultOperationTimeout,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Simulate resolves the provider and delegates, annotating the result with
// the SCA requirement. Always side-effect free; never enforces the gate.
func (s *Service) Simulate(ctx context.Context, req models.PaymentRequest) *models.SimulationResult {
	category := models.CategoryFor(req.Type)
	ctx, span, start := s.startOp(ctx, "payments.simulate", category)
	defer span.End()

	provider, ok := s.resolver.Resolve(req.Type)
	if !ok {
		res := &models.SimulationResult{
			PaymentID:    req.PaymentID,
			ErrorCode:    models.ErrCodeProviderUnavailable,
			ErrorMessage: fmt.Sprintf("no provider bound for %s", category),
		}
		s.finishOp(ctx, span, category, models.OperationSimulate, req.PaymentID.String(), start, false)
		return res
	}

	var res *models.SimulationResult
	err := s.safely(ctx, func(opCtx context.Context) error {
		var provErr error
		res, provErr = provider.Simulate(opCtx, req)
		return provErr
	})
	if err != nil || res == nil {
		res = &models.SimulationResult{
			PaymentID:    req.PaymentID,
			ErrorCode:    models.ErrCodeProviderFault,
			ErrorMessage: faultMessage(err),
		}
		s.finishOp(ctx, span, category, models.OperationSimulate, req.PaymentID.String(), start, false)
		return res
	}

	// Annotation only: simulation reports what execution would require.
	required, completed, gateErr := s.gate.Authorize(ctx, models.OperationExecute, req.Amount, req.Currency, req.DebtorAccount, req.SCA)
	if gateErr == nil {
		res.SCARequired = required
		res.SCACompleted = completed
	} else if s.logger != nil {
		s.logger.WarnContext(ctx, "sca annotation failed during simulate",
			"payment_id", req.PaymentID, "error", gateErr)
	}

	s.finishOp(ctx, span, category, models.OperationSimulate, req.PaymentID.String(), start, res.Success)
	return res
}

// Execute performs the payment through the resolved provider. The provider
// enforces the SCA gating rule; the dispatcher additionally refuses to pass
// through any result that violates the success invariant.
func (s *Service) Execute(ctx context.Context, req models.PaymentRequest) *models.ExecutionResult {
	category := models.CategoryFor(req.Type)
	ctx, span, start := s.startOp(ctx, "payments.execute", category)
	defer span.End()

	provider, ok := s.resolver.Resolve(req.Type)
	if !ok {
		res := unavailableExecution(req.PaymentID, category)
		s.finishOp(ctx, span, category, models.OperationExecute, req.PaymentID.String(), start, false)
		return res
	}

	var res *models.ExecutionResult
	err := s.safely(ctx, func(opCtx context.Context) error {
		var provErr error
		res, provErr = provider.Execute(opCtx, req)
		return provErr
	})
	if err != nil || res == nil {
		res = &models.ExecutionResult{
			PaymentID:    req.PaymentID,
			ErrorCode:    models.ErrCodeProviderFault,
			ErrorMessage: faultMessage(err),
		}
	}

	if res.Success && res.SCARequired && !res.SCACompleted {
		// A provider declaring success without a satisfied gate is a bug
		// on its side; never let the violating result through.
		if s.logger != nil {
			s.logger.ErrorContext(ctx, "provider violated sca invariant, downgrading result",
				"provider", provider.Name(), "payment_id", req.PaymentID)
		}
		res.Success = false
		res.ErrorCode = models.ErrCodeSCARequired
		res.ErrorMessage = "strong customer authentication not satisfied"
	}

	s.finishOp(ctx, span, category, models.OperationExecute, req.PaymentID.String(), start, res.Success)
	return res
}

// Cancel unwinds an executed payment. A partial cancellation only counts as
// success when the caller opted in via AcceptPartial.
func (s *Service) Cancel(ctx context.Context, req models.CancellationRequest) *models.CancellationResult {
	return s.cancel(ctx, req, false)
}

// SimulateCancellation reports what Cancel would do, without side effects.
func (s *Service) SimulateCancellation(ctx context.Context, req models.CancellationRequest) *models.CancellationResult {
	return s.cancel(ctx, req, true)
}

func (s *Service) cancel(ctx context.Context, req models.CancellationRequest, simulate bool) *models.CancellationResult {
	category := models.CategoryFor(req.Type)
	opName := "payments.cancel"
	if simulate {
		opName = "payments.cancel.simulate"
	}
	ctx, span, start := s.startOp(ctx, opName, category)
	defer span.End()

	provider, ok := s.resolver.Resolve(req.Type)
	if !ok {
		res := &models.CancellationResult{
			PaymentID:    req.PaymentID,
			ErrorCode:    models.ErrCodeProviderUnavailable,
			ErrorMessage: fmt.Sprintf("no provider bound for %s", category),
		}
		s.finishOp(ctx, span, category, models.OperationCancel, req.PaymentID.String(), start, false)
		return res
	}

	var res *models.CancellationResult
	err := s.safely(ctx, func(opCtx context.Context) error {
		var provErr error
		if simulate {
			res, provErr = provider.SimulateCancellation(opCtx, req)
		} else {
			res, provErr = provider.Cancel(opCtx, req)
		}
		return provErr
	})
	if err != nil || res == nil {
		res = &models.CancellationResult{
			PaymentID:    req.PaymentID,
			ErrorCode:    models.ErrCodeProviderFault,
			ErrorMessage: faultMessage(err),
		}
	}

	if res.Success && res.Partial && !req.AcceptPartial {
		res.Success = false
		res.ErrorCode = models.ErrCodePartialRejected
		res.ErrorMessage = "cancellation would be partial and the request did not accept partial cancellation"
	}

	if !simulate && res.Success && res.SCARequired && !res.SCACompleted {
		if s.logger != nil {
			s.logger.ErrorContext(ctx, "provider violated sca invariant, downgrading result",
				"provider", provider.Name(), "payment_id", req.PaymentID)
		}
		res.Success = false
		res.ErrorCode = models.ErrCodeSCARequired
		res.ErrorMessage = "strong customer authentication not satisfied"
	}

	s.finishOp(ctx, span, category, models.OperationCancel, req.PaymentID.String(), start, res.Success)
	return res
}

// Schedule validates the execution date, then delegates. A date strictly
// before now is rejected before any provider is involved; exactly now is
// accepted. The recurrence pattern is opaque to the hub.
func (s *Service) Schedule(ctx context.Context, req models.ScheduleRequest) *models.ScheduleResult {
	category := models.CategoryFor(req.Payment.Type)
	ctx, span, start := s.startOp(ctx, "payments.schedule", category)
	defer span.End()

	if req.ExecutionDate.Before(s.now()) {
		res := &models.ScheduleResult{
			PaymentID:    req.Payment.PaymentID,
			ErrorCode:    models.ErrCodeValidation,
			ErrorMessage: "execution date must not be in the past",
		}
		s.finishOp(ctx, span, category, models.OperationSchedule, req.Payment.PaymentID.String(), start, false)
		return res
	}

	provider, ok := s.resolver.Resolve(req.Payment.Type)
	if !ok {
		res := &models.ScheduleResult{
			PaymentID:    req.Payment.PaymentID,
			ErrorCode:    models.ErrCodeProviderUnavailable,
			ErrorMessage: fmt.Sprintf("no provider bound for %s", category),
		}
		s.finishOp(ctx, span, category, models.OperationSchedule, req.Payment.PaymentID.String(), start, false)
		return res
	}

	var res *models.ScheduleResult
	err := s.safely(ctx, func(opCtx context.Context) error {
		var provErr error
		res, provErr = provider.Schedule(opCtx, req)
		return provErr
	})
	if err != nil || res == nil {
		res = &models.ScheduleResult{
			PaymentID:    req.Payment.PaymentID,
			ErrorCode:    models.ErrCodeProviderFault,
			ErrorMessage: faultMessage(err),
		}
	}

	if res.Success && res.SCARequired && !res.SCACompleted {
		if s.logger != nil {
			s.logger.ErrorContext(ctx, "provider violated sca invariant, downgrading result",
				"provider", provider.Name(), "payment_id", req.Payment.PaymentID)
		}
		res.Success = false
		res.ErrorCode = models.ErrCodeSCARequired
		res.ErrorMessage = "strong customer authentication not satisfied"
	}

	s.finishOp(ctx, span, category, models.OperationSchedule, req.Payment.PaymentID.String(), start, res.Success)
	return res
}

// safely runs a provider call under the operation timeout and converts
// panics into errors so a misbehaving provider cannot take the hub down.
func (s *Service) safely(ctx context.Context, fn func(ctx context.Context) error) (err error) {
	opCtx, cancel := context.WithTimeout(ctx, s.opTimeout)
	defer cancel()

	defer func() {
		if r := recover(); r != nil {
			if s.logger != nil {
				s.logger.ErrorContext(ctx, "provider panicked during dispatch", "panic", r)
			}
			err = fmt.Errorf("provider panic: %v", r)
		}
	}()
	return fn(opCtx)
}

func (s *Service) startOp(ctx context.Context, name string, category models.ProviderCategory) (context.Context, trace.Span, time.Time) {
	ctx, span := s.tracer.Start(ctx, name, trace.WithAttributes(
		attribute.String("payment.category", category.String()),
	))
	return ctx, span, s.now()
}

func (s *Service) finishOp(ctx context.Context, span trace.Span, category models.ProviderCategory, op models.OperationType, paymentID string, start time.Time, success bool) {
	duration := s.now().Sub(start)
	span.SetAttributes(attribute.Bool("payment.success", success))
	if s.metrics != nil {
		s.metrics.ObserveOperation(category.String(), op.String(), duration, success)
	}
	events.Emit(ctx, s.logger, s.publisher,
		events.NewOperationEvent(category.String(), op.String(), paymentID, duration, success))
}

func unavailableExecution(paymentID id.PaymentID, category models.ProviderCategory) *models.ExecutionResult {
	return &models.ExecutionResult{
		PaymentID:    paymentID,
		ErrorCode:    models.ErrCodeProviderUnavailable,
		ErrorMessage: fmt.Sprintf("no provider bound for %s", category),
	}
}

func faultMessage(err error) string {
	if err == nil {
		return "provider returned no result"
	}
	return err.Error()
}
