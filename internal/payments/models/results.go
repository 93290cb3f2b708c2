package models

import (
	"time"

	id "railhub/pkg/domain"
)

// Error codes carried inside operation results. Expected failures are data,
// not raised errors; callers branch on these codes only.
const (
	ErrCodeProviderUnavailable = "PROVIDER_UNAVAILABLE"
	ErrCodeProviderFault       = "PROVIDER_FAULT"
	ErrCodeSCARequired         = "SCA_REQUIRED"
	ErrCodeValidation          = "VALIDATION_ERROR"
	ErrCodePartialRejected     = "PARTIAL_CANCELLATION_REJECTED"
	ErrCodePaymentNotFound     = "PAYMENT_NOT_FOUND"
	ErrCodeInsufficientFunds   = "INSUFFICIENT_FUNDS"
	ErrCodeUnsupportedType     = "UNSUPPORTED_PAYMENT_TYPE"
)

// SimulationResult reports feasibility without side effects. SCA flags are
// informational here; simulation never enforces the gate.
type SimulationResult struct {
	Success            bool         `json:"success"`
	PaymentID          id.PaymentID `json:"payment_id"`
	SCARequired        bool         `json:"sca_required"`
	SCACompleted       bool         `json:"sca_completed"`
	EstimatedFee       string       `json:"estimated_fee,omitempty"`
	ExpectedSettlement *time.Time   `json:"expected_settlement,omitempty"`
	ErrorCode          string       `json:"error_code,omitempty"`
	ErrorMessage       string       `json:"error_message,omitempty"`
}

// ExecutionResult reports the outcome of a state-changing execution.
// Invariant: Success implies !SCARequired || SCACompleted.
type ExecutionResult struct {
	Success       bool         `json:"success"`
	PaymentID     id.PaymentID `json:"payment_id"`
	SCARequired   bool         `json:"sca_required"`
	SCACompleted  bool         `json:"sca_completed"`
	RailReference string       `json:"rail_reference,omitempty"`
	ErrorCode     string       `json:"error_code,omitempty"`
	ErrorMessage  string       `json:"error_message,omitempty"`
}

// CancellationResult reports a cancellation attempt. Partial is true when
// the rail could only unwind part of the payment.
type CancellationResult struct {
	Success        bool         `json:"success"`
	PaymentID      id.PaymentID `json:"payment_id"`
	Partial        bool         `json:"partial"`
	RefundedAmount string       `json:"refunded_amount,omitempty"`
	SCARequired    bool         `json:"sca_required"`
	SCACompleted   bool         `json:"sca_completed"`
	ErrorCode      string       `json:"error_code,omitempty"`
	ErrorMessage   string       `json:"error_message,omitempty"`
}

// ScheduleResult reports acceptance of a future-dated payment and echoes the
// provider-reported capability flags.
type ScheduleResult struct {
	Success      bool          `json:"success"`
	PaymentID    id.PaymentID  `json:"payment_id"`
	ScheduleID   id.ScheduleID `json:"schedule_id,omitempty"`
	Modifiable   bool          `json:"modifiable"`
	Cancellable  bool          `json:"cancellable"`
	SCARequired  bool          `json:"sca_required"`
	SCACompleted bool          `json:"sca_completed"`
	ErrorCode    string        `json:"error_code,omitempty"`
	ErrorMessage string        `json:"error_message,omitempty"`
}
