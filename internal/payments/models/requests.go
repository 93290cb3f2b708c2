package models

import (
	"time"

	id "railhub/pkg/domain"
)

// OperationType names the four operation families the dispatcher exposes.
type OperationType string

const (
	OperationSimulate OperationType = "SIMULATE"
	OperationExecute  OperationType = "EXECUTE"
	OperationCancel   OperationType = "CANCEL"
	OperationSchedule OperationType = "SCHEDULE"
)

func (o OperationType) String() string { return string(o) }

// StateChanging reports whether the operation mutates payment state and is
// therefore subject to SCA gating. Schedule is execute-equivalent at
// acceptance time.
func (o OperationType) StateChanging() bool {
	return o == OperationExecute || o == OperationCancel || o == OperationSchedule
}

// SCAInfo points at the challenge a caller validated before a state-changing
// operation. Absent when the caller has not been through a challenge.
type SCAInfo struct {
	ChallengeID id.ChallengeID `json:"challenge_id"`
}

// PaymentRequest is the rail-agnostic payment instruction routed by the hub.
// Amounts travel as decimal strings; rails disagree on minor units so the
// hub never does float arithmetic on them.
type PaymentRequest struct {
	PaymentID       id.PaymentID `json:"payment_id"`
	Type            PaymentType  `json:"type"`
	DebtorAccount   id.AccountID `json:"debtor_account"`
	CreditorAccount id.AccountID `json:"creditor_account"`
	CreditorName    string       `json:"creditor_name,omitempty"`
	Amount          string       `json:"amount"`
	Currency        string       `json:"currency"`
	Reference       string       `json:"reference,omitempty"`
	SCA             *SCAInfo     `json:"sca,omitempty"`
}

// CancellationRequest targets an already-executed payment.
type CancellationRequest struct {
	PaymentID id.PaymentID `json:"payment_id"`
	Type      PaymentType  `json:"type"`
	Reason    string       `json:"reason,omitempty"`
	// AcceptPartial opts in to a partial cancellation counting as success.
	// Without it, any non-full cancellation is reported as failure.
	AcceptPartial bool     `json:"accept_partial"`
	SCA           *SCAInfo `json:"sca,omitempty"`
}

// ScheduleRequest asks for a future-dated, optionally recurring payment.
// RecurrencePattern is opaque to the hub; an external scheduler interprets it.
type ScheduleRequest struct {
	Payment           PaymentRequest `json:"payment"`
	ExecutionDate     time.Time      `json:"execution_date"`
	RecurrencePattern string         `json:"recurrence_pattern,omitempty"`
}
