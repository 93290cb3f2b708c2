// Package domain holds shared domain primitives: typed identifiers used
// across the payment hub so IDs of different kinds cannot be mixed up at
// compile time. UUID-backed IDs are parsed at trust boundaries.
package domain

import (
	"github.com/google/uuid"

	dErrors "railhub/pkg/domain-errors"
)

// PaymentID identifies a single payment across all rails.
type PaymentID uuid.UUID

// NewPaymentID generates a fresh payment identifier.
func NewPaymentID() PaymentID { return PaymentID(uuid.New()) }

// ParsePaymentID validates and returns a PaymentID.
func ParsePaymentID(s string) (PaymentID, error) {
	u, err := parseUUID(s, "payment id")
	return PaymentID(u), err
}

func (id PaymentID) String() string { return uuid.UUID(id).String() }
func (id PaymentID) IsNil() bool    { return uuid.UUID(id) == uuid.Nil }

// MarshalText renders the ID as its canonical UUID string in JSON and text.
func (id PaymentID) MarshalText() ([]byte, error) { return []byte(id.String()), nil }

// UnmarshalText parses the ID, enforcing the non-nil UUID invariant.
func (id *PaymentID) UnmarshalText(b []byte) error {
	parsed, err := ParsePaymentID(string(b))
	if err != nil {
		return err
	}
	*id = parsed
	return nil
}

// ChallengeID identifies one SCA challenge attempt.
type ChallengeID uuid.UUID

// NewChallengeID generates a fresh challenge identifier.
func NewChallengeID() ChallengeID { return ChallengeID(uuid.New()) }

// ParseChallengeID validates and returns a ChallengeID.
func ParseChallengeID(s string) (ChallengeID, error) {
	u, err := parseUUID(s, "challenge id")
	return ChallengeID(u), err
}

func (id ChallengeID) String() string { return uuid.UUID(id).String() }
func (id ChallengeID) IsNil() bool    { return uuid.UUID(id) == uuid.Nil }

// MarshalText renders the ID as its canonical UUID string in JSON and text.
func (id ChallengeID) MarshalText() ([]byte, error) { return []byte(id.String()), nil }

// UnmarshalText parses the ID, enforcing the non-nil UUID invariant.
func (id *ChallengeID) UnmarshalText(b []byte) error {
	parsed, err := ParseChallengeID(string(b))
	if err != nil {
		return err
	}
	*id = parsed
	return nil
}

// ScheduleID identifies an accepted future-dated or recurring payment.
type ScheduleID uuid.UUID

// NewScheduleID generates a fresh schedule identifier.
func NewScheduleID() ScheduleID { return ScheduleID(uuid.New()) }

func (id ScheduleID) String() string { return uuid.UUID(id).String() }
func (id ScheduleID) IsNil() bool    { return uuid.UUID(id) == uuid.Nil }

// MarshalText renders the ID as its canonical UUID string in JSON and text.
func (id ScheduleID) MarshalText() ([]byte, error) { return []byte(id.String()), nil }

// UnmarshalText parses the ID.
func (id *ScheduleID) UnmarshalText(b []byte) error {
	u, err := parseUUID(string(b), "schedule id")
	if err != nil {
		return err
	}
	*id = ScheduleID(u)
	return nil
}

// AccountID identifies an account held at the hub or a downstream rail.
// Account numbers follow rail-specific formats, so this stays a string.
type AccountID string

func (id AccountID) String() string { return string(id) }
func (id AccountID) IsNil() bool    { return id == "" }

// parseUUID enforces the shared invariant: IDs must be valid, non-empty,
// non-nil UUIDs.
func parseUUID(s, kind string) (uuid.UUID, error) {
	if s == "" {
		return uuid.Nil, dErrors.Newf(dErrors.CodeInvalidInput, "%s is required", kind)
	}
	u, err := uuid.Parse(s)
	if err != nil {
		return uuid.Nil, dErrors.Newf(dErrors.CodeInvalidInput, "invalid %s", kind)
	}
	if u == uuid.Nil {
		return uuid.Nil, dErrors.Newf(dErrors.CodeInvalidInput, "%s must not be the nil UUID", kind)
	}
	return u, nil
}
