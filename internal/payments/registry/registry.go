// Package registry binds provider implementations to payment categories.
// It is populated once at bootstrap and sealed before serving lookups; the
// seal is the startup-ordering barrier, so the read path takes no lock.
package registry

import (
	"log/slog"
	"sync"
	"sync/atomic"

	"railhub/internal/payments/models"
	"railhub/internal/payments/ports"
)

// Conflict records a registration that lost the first-wins race for a
// category. Conflicts are policy, not errors: they are kept for inspection
// and logged at registration time.
type Conflict struct {
	Category models.ProviderCategory
	Kept     string
	Rejected string
}

// Registry maps provider categories to at most one provider each.
type Registry struct {
	mu        sync.Mutex
	sealed    atomic.Bool
	bindings  map[models.ProviderCategory]ports.Provider
	conflicts []Conflict
	logger    *slog.Logger
}

// New creates an empty registry. Callers register providers at bootstrap and
// must call Complete before any resolution happens.
func New(logger *slog.Logger) *Registry {
	return &Registry{
		bindings: make(map[models.ProviderCategory]ports.Provider),
		logger:   logger,
	}
}

// Register binds a provider to a category. First registration wins; later
// registrations for the same category are recorded as conflicts and ignored.
// Registering after Complete is a programming error.
func (r *Registry) Register(category models.ProviderCategory, provider ports.Provider) {
	if r.sealed.Load() {
		panic("registry: register after discovery completed")
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	if existing, ok := r.bindings[category]; ok {
		conflict := Conflict{
			Category: category,
			Kept:     existing.Name(),
			Rejected: provider.Name(),
		}
		r.conflicts = append(r.conflicts, conflict)
		if r.logger != nil {
			r.logger.Warn("provider registration conflict, keeping first",
				"category", category,
				"kept", conflict.Kept,
				"rejected", conflict.Rejected,
			)
		}
		return
	}

	r.bindings[category] = provider
	if r.logger != nil {
		r.logger.Info("provider registered",
			"category", category,
			"provider", provider.Name(),
		)
	}
}

// Complete seals the registry. Must happen-before any Resolve call; this is
// the discovery barrier from the bootstrap sequence.
func (r *Registry) Complete() {
	r.sealed.Store(true)
}

// Resolve returns the provider for a payment type, falling back to the
// DEFAULT binding when the type's category has none. The boolean is false
// when neither binding exists.
func (r *Registry) Resolve(t models.PaymentType) (ports.Provider, bool) {
	r.mustBeSealed()
	if p, ok := r.bindings[models.CategoryFor(t)]; ok {
		return p, true
	}
	p, ok := r.bindings[models.CategoryDefault]
	return p, ok
}

// ResolveByCategory returns the provider bound to a category, without the
// DEFAULT fallback.
func (r *Registry) ResolveByCategory(category models.ProviderCategory) (ports.Provider, bool) {
	r.mustBeSealed()
	p, ok := r.bindings[category]
	return p, ok
}

// Default returns the DEFAULT fallback binding, if any.
func (r *Registry) Default() (ports.Provider, bool) {
	return r.ResolveByCategory(models.CategoryDefault)
}

// Conflicts returns the registrations rejected by the first-wins policy.
func (r *Registry) Conflicts() []Conflict {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Conflict, len(r.conflicts))
	copy(out, r.conflicts)
	return out
}

// BoundCategories lists the categories that currently have a provider.
func (r *Registry) BoundCategories() []models.ProviderCategory {
	r.mustBeSealed()
	out := make([]models.ProviderCategory, 0, len(r.bindings))
	for _, c := range models.AllCategories() {
		if _, ok := r.bindings[c]; ok {
			out = append(out, c)
		}
	}
	return out
}

// mustBeSealed guards reads against use before the discovery barrier.
// Resolving before Complete is a programming error, not a runtime condition.
func (r *Registry) mustBeSealed() {
	if !r.sealed.Load() {
		panic("registry: resolve before discovery completed")
	}
}
