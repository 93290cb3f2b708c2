// Package handler wires the payment and SCA endpoints to the dispatcher and
// gate. Operation results go out with HTTP 200 whether or not the operation
// succeeded; only transport-level problems map to error statuses.
package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"railhub/internal/payments/models"
	"railhub/internal/payments/ports"
	dErrors "railhub/pkg/domain-errors"
	"railhub/pkg/platform/httputil"
)

// Dispatcher is what the handler needs from the payment dispatcher.
type Dispatcher interface {
	Simulate(ctx context.Context, req models.PaymentRequest) *models.SimulationResult
	Execute(ctx context.Context, req models.PaymentRequest) *models.ExecutionResult
	Cancel(ctx context.Context, req models.CancellationRequest) *models.CancellationResult
	SimulateCancellation(ctx context.Context, req models.CancellationRequest) *models.CancellationResult
	Schedule(ctx context.Context, req models.ScheduleRequest) *models.ScheduleResult
}

// HealthChecker runs the provider fleet probe.
type HealthChecker interface {
	Check(ctx context.Context) *models.HealthReport
}

// Handler exposes the hub's HTTP surface.
type Handler struct {
	dispatcher Dispatcher
	gate       ports.ScaGate
	health     HealthChecker
	logger     *slog.Logger
}

// New constructs the handler with its dependencies.
func New(dispatcher Dispatcher, gate ports.ScaGate, health HealthChecker, logger *slog.Logger) *Handler {
	return &Handler{
		dispatcher: dispatcher,
		gate:       gate,
		health:     health,
		logger:     logger,
	}
}

// Register mounts all endpoints on the router.
func (h *Handler) Register(r chi.Router) {
	r.Post("/payments/simulate", h.HandleSimulate)
	r.Post("/payments/execute", h.HandleExecute)
	r.Post("/payments/cancel", h.HandleCancel)
	r.Post("/payments/cancel/simulate", h.HandleSimulateCancellation)
	r.Post("/payments/schedule", h.HandleSchedule)
	r.Post("/sca/challenges", h.HandleTriggerChallenge)
	r.Post("/sca/challenges/validate", h.HandleValidateChallenge)
	r.Get("/health/providers", h.HandleProviderHealth)
}

func (h *Handler) HandleSimulate(w http.ResponseWriter, r *http.Request) {
	req, ok := h.decodePayment(w, r)
	if !ok {
		return
	}
	res := h.dispatcher.Simulate(r.Context(), req)
	h.logOutcome(r.Context(), "payment simulated", req.PaymentID.String(), res.Success, res.ErrorCode)
	httputil.WriteJSON(w, http.StatusOK, res)
}

func (h *Handler) HandleExecute(w http.ResponseWriter, r *http.Request) {
	req, ok := h.decodePayment(w, r)
	if !ok {
		return
	}
	res := h.dispatcher.Execute(r.Context(), req)
	h.logOutcome(r.Context(), "payment executed", req.PaymentID.String(), res.Success, res.ErrorCode)
	httputil.WriteJSON(w, http.StatusOK, res)
}

func (h *Handler) HandleCancel(w http.ResponseWriter, r *http.Request) {
	req, ok := h.decodeCancellation(w, r)
	if !ok {
		return
	}
	res := h.dispatcher.Cancel(r.Context(), req)
	h.logOutcome(r.Context(), "payment cancelled", req.PaymentID.String(), res.Success, res.ErrorCode)
	httputil.WriteJSON(w, http.StatusOK, res)
}

func (h *Handler) HandleSimulateCancellation(w http.ResponseWriter, r *http.Request) {
	req, ok := h.decodeCancellation(w, r)
	if !ok {
		return
	}
	res := h.dispatcher.SimulateCancellation(r.Context(), req)
	httputil.WriteJSON(w, http.StatusOK, res)
}

func (h *Handler) HandleSchedule(w http.ResponseWriter, r *http.Request) {
	req, err := httputil.Decode[scheduleRequest](r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	domainReq, err := req.toDomain()
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	res := h.dispatcher.Schedule(r.Context(), domainReq)
	h.logOutcome(r.Context(), "payment scheduled", domainReq.Payment.PaymentID.String(), res.Success, res.ErrorCode)
	httputil.WriteJSON(w, http.StatusOK, res)
}

func (h *Handler) HandleTriggerChallenge(w http.ResponseWriter, r *http.Request) {
	req, err := httputil.Decode[triggerChallengeRequest](r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	ch, err := h.gate.Trigger(r.Context(), req.Recipient, models.ChallengeMethod(req.Method), req.ReferenceID)
	if err != nil {
		h.logger.ErrorContext(r.Context(), "challenge trigger failed",
			"method", req.Method, "error", err)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, challengeFromModel(ch))
}

func (h *Handler) HandleValidateChallenge(w http.ResponseWriter, r *http.Request) {
	req, err := httputil.Decode[models.ChallengeResponse](r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	ch, err := h.gate.Validate(r.Context(), req)
	if err != nil {
		h.logger.ErrorContext(r.Context(), "challenge validation failed",
			"challenge_id", req.ChallengeID, "error", err)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, validationResponse{
		ChallengeID: ch.ID.String(),
		Completed:   ch.Completed,
	})
}

func (h *Handler) HandleProviderHealth(w http.ResponseWriter, r *http.Request) {
	report := h.health.Check(r.Context())
	status := http.StatusOK
	if !report.Healthy {
		status = http.StatusServiceUnavailable
	}
	httputil.WriteJSON(w, status, report)
}

func (h *Handler) decodePayment(w http.ResponseWriter, r *http.Request) (models.PaymentRequest, bool) {
	req, err := httputil.Decode[models.PaymentRequest](r)
	if err != nil {
		httputil.WriteError(w, err)
		return models.PaymentRequest{}, false
	}
	if err := vetPayment(req); err != nil {
		httputil.WriteError(w, err)
		return models.PaymentRequest{}, false
	}
	return req, true
}

func (h *Handler) decodeCancellation(w http.ResponseWriter, r *http.Request) (models.CancellationRequest, bool) {
	req, err := httputil.Decode[models.CancellationRequest](r)
	if err != nil {
		httputil.WriteError(w, err)
		return models.CancellationRequest{}, false
	}
	if req.PaymentID.IsNil() {
		httputil.WriteError(w, dErrors.New(dErrors.CodeValidation, "payment_id is required"))
		return models.CancellationRequest{}, false
	}
	if !models.Known(req.Type) {
		httputil.WriteError(w, dErrors.Newf(dErrors.CodeValidation, "unknown payment type %q", req.Type))
		return models.CancellationRequest{}, false
	}
	return req, true
}

func vetPayment(req models.PaymentRequest) error {
	if req.PaymentID.IsNil() {
		return dErrors.New(dErrors.CodeValidation, "payment_id is required")
	}
	if !models.Known(req.Type) {
		return dErrors.Newf(dErrors.CodeValidation, "unknown payment type %q", req.Type)
	}
	if req.Amount == "" || req.Currency == "" {
		return dErrors.New(dErrors.CodeValidation, "amount and currency are required")
	}
	return nil
}

func (h *Handler) logOutcome(ctx context.Context, msg, paymentID string, success bool, errorCode string) {
	if h.logger == nil {
		return
	}
	h.logger.InfoContext(ctx, msg,
		"payment_id", paymentID,
		"success", success,
		"error_code", errorCode,
	)
}

// scheduleRequest is the wire shape for schedule calls.
type scheduleRequest struct {
	Payment           models.PaymentRequest `json:"payment"`
	ExecutionDate     string                `json:"execution_date"`
	RecurrencePattern string                `json:"recurrence_pattern,omitempty"`
}

func (r scheduleRequest) toDomain() (models.ScheduleRequest, error) {
	if err := vetPayment(r.Payment); err != nil {
		return models.ScheduleRequest{}, err
	}
	executionDate, err := time.Parse(time.RFC3339, r.ExecutionDate)
	if err != nil {
		return models.ScheduleRequest{}, dErrors.Wrap(err, dErrors.CodeValidation, "execution_date must be RFC 3339")
	}
	return models.ScheduleRequest{
		Payment:           r.Payment,
		ExecutionDate:     executionDate,
		RecurrencePattern: r.RecurrencePattern,
	}, nil
}

type triggerChallengeRequest struct {
	Recipient   string `json:"recipient"`
	Method      string `json:"method"`
	ReferenceID string `json:"reference_id,omitempty"`
}

// challengeResponse is the wire shape for a triggered challenge. The code
// hash never leaves the process.
type challengeResponse struct {
	ChallengeID string    `json:"challenge_id"`
	Method      string    `json:"method"`
	Recipient   string    `json:"recipient"`
	ReferenceID string    `json:"reference_id,omitempty"`
	ExpiresAt   time.Time `json:"expires_at"`
}

func challengeFromModel(ch *models.Challenge) challengeResponse {
	return challengeResponse{
		ChallengeID: ch.ID.String(),
		Method:      ch.Method.String(),
		Recipient:   ch.Recipient,
		ReferenceID: ch.ReferenceID,
		ExpiresAt:   ch.ExpiresAt,
	}
}

type validationResponse struct {
	ChallengeID string `json:"challenge_id"`
	Completed   bool   `json:"completed"`
}
