package models

import "time"

// ProbeStatus is the per-target outcome of a health probe.
type ProbeStatus string

const (
	StatusUp           ProbeStatus = "UP"
	StatusDown         ProbeStatus = "DOWN"
	StatusError        ProbeStatus = "ERROR"
	StatusNotAvailable ProbeStatus = "NOT_AVAILABLE"
)

// ProviderHealth is the probe result for one category slot.
type ProviderHealth struct {
	Category     ProviderCategory `json:"category"`
	ProviderName string           `json:"provider_name,omitempty"`
	Status       ProbeStatus      `json:"status"`
	ResponseTime time.Duration    `json:"response_time_ns"`
	Detail       string           `json:"detail,omitempty"`
}

// HealthReport folds every probe into one verdict. Healthy is true iff every
// bound provider and the SCA gate probe reported UP; unbound categories are
// NOT_AVAILABLE and never flip the verdict.
type HealthReport struct {
	Healthy   bool                                `json:"healthy"`
	CheckedAt time.Time                           `json:"checked_at"`
	Providers map[ProviderCategory]ProviderHealth `json:"providers"`
	SCAGate   ProviderHealth                      `json:"sca_gate"`
}
