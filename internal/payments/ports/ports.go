// Package ports defines shared interfaces for the payments module.
// Interfaces live here when consumed by multiple services to avoid
// duplication; single-consumer interfaces stay with their consumer.
package ports

import (
	"context"
	"time"

	"railhub/internal/payments/models"
	id "railhub/pkg/domain"
)

//go:generate mockgen -source=ports.go -destination=mocks/mocks.go -package=mocks ChallengeSender,ChallengeStore

// Provider is one rail-specific implementation bound to a registry category.
// Providers enforce the SCA gating rule themselves (via a composed ScaGate)
// before declaring any state-changing operation successful.
type Provider interface {
	// Name identifies the provider in health reports and logs.
	Name() string

	// Simulate reports feasibility without side effects.
	Simulate(ctx context.Context, req models.PaymentRequest) (*models.SimulationResult, error)

	// Execute performs the payment. Success implies the SCA gate was
	// satisfied when it was required.
	Execute(ctx context.Context, req models.PaymentRequest) (*models.ExecutionResult, error)

	// Cancel unwinds an executed payment, possibly partially.
	Cancel(ctx context.Context, req models.CancellationRequest) (*models.CancellationResult, error)

	// SimulateCancellation reports what Cancel would do without doing it.
	SimulateCancellation(ctx context.Context, req models.CancellationRequest) (*models.CancellationResult, error)

	// Schedule accepts a future-dated payment. Execution-date validation
	// happens upstream in the dispatcher.
	Schedule(ctx context.Context, req models.ScheduleRequest) (*models.ScheduleResult, error)

	// Healthy probes the provider: (false, nil) means reachable but
	// degraded, a non-nil error means the probe itself faulted.
	Healthy(ctx context.Context) (bool, error)
}

// ScaGate is the authentication-gating contract every provider consults
// before completing a state-changing operation.
type ScaGate interface {
	// IsRequired is a pure policy query, safely repeatable.
	IsRequired(ctx context.Context, op models.OperationType, amount, currency string, account id.AccountID) (bool, error)

	// Trigger creates and dispatches a fresh challenge. Never idempotent.
	Trigger(ctx context.Context, recipient string, method models.ChallengeMethod, referenceID string) (*models.Challenge, error)

	// Validate checks a challenge response. Expired, already completed,
	// unknown, or mismatched responses yield Completed=false, not an error.
	Validate(ctx context.Context, resp models.ChallengeResponse) (*models.Challenge, error)

	// Authorize applies the gating rule for a state-changing operation:
	// it reports whether SCA is required and whether the supplied SCA info
	// references a completed, unexpired challenge.
	Authorize(ctx context.Context, op models.OperationType, amount, currency string, account id.AccountID, sca *models.SCAInfo) (required, completed bool, err error)
}

// ChallengeStore persists in-flight SCA challenges. Implementations must
// support concurrent create/lookup, and CompleteIfPending must be atomic per
// challenge: concurrent calls can never both win.
type ChallengeStore interface {
	// Create persists a new challenge.
	Create(ctx context.Context, ch *models.Challenge) error

	// Get returns the challenge or (nil, nil) when absent.
	Get(ctx context.Context, challengeID id.ChallengeID) (*models.Challenge, error)

	// CompleteIfPending atomically transitions the challenge to completed
	// when it exists, is not completed, and is not expired at now. The
	// boolean reports whether this call won the transition.
	CompleteIfPending(ctx context.Context, challengeID id.ChallengeID, now time.Time) (*models.Challenge, bool, error)
}

// ChallengeSender delivers a challenge code over an opaque channel
// (SMS, email, push). Delivery semantics are out of the hub's scope.
type ChallengeSender interface {
	Send(ctx context.Context, ch *models.Challenge, code string) error
}
