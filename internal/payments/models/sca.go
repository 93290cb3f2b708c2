package models

import (
	"time"

	id "railhub/pkg/domain"
)

// ChallengeMethod tags the delivery channel for an SCA challenge.
type ChallengeMethod string

const (
	MethodSMS   ChallengeMethod = "SMS"
	MethodEmail ChallengeMethod = "EMAIL"
	MethodPush  ChallengeMethod = "PUSH"
)

func (m ChallengeMethod) String() string { return string(m) }

// Valid reports whether m is a known delivery method.
func (m ChallengeMethod) Valid() bool {
	switch m {
	case MethodSMS, MethodEmail, MethodPush:
		return true
	}
	return false
}

// Challenge is one in-flight SCA attempt. The code itself is never stored;
// CodeHash holds its bcrypt hash. A challenge is single-use: once Completed
// or past ExpiresAt it can never validate again. Transport layers must not
// expose CodeHash; the JSON tag exists for the challenge stores.
type Challenge struct {
	ID          id.ChallengeID  `json:"id"`
	Method      ChallengeMethod `json:"method"`
	Recipient   string          `json:"recipient"`
	ReferenceID string          `json:"reference_id"`
	CodeHash    string          `json:"code_hash,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
	ExpiresAt   time.Time       `json:"expires_at"`
	Completed   bool            `json:"completed"`
}

// Expired reports whether the challenge is past its expiry at the given time.
func (c *Challenge) Expired(now time.Time) bool {
	return !now.Before(c.ExpiresAt)
}

// ChallengeResponse is the caller's answer to a triggered challenge.
type ChallengeResponse struct {
	ChallengeID id.ChallengeID `json:"challenge_id"`
	Code        string         `json:"code"`
}
