// Package sca implements the Strong Customer Authentication gate shared by
// every provider. Providers hold the gate by composition; the gating rule
// lives here once instead of in each rail implementation.
package sca

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"log/slog"
	"math/big"
	"time"

	"golang.org/x/crypto/bcrypt"

	"railhub/internal/payments/metrics"
	"railhub/internal/payments/models"
	"railhub/internal/payments/ports"
	id "railhub/pkg/domain"
	dErrors "railhub/pkg/domain-errors"
	"railhub/pkg/platform/events"
)

const (
	defaultChallengeTTL = 5 * time.Minute
	defaultSendTimeout  = 10 * time.Second
	codeLength          = 6
)

// Policy decides when an operation needs a completed challenge. Thresholds
// are in minor units per currency; amounts at or above the threshold require
// SCA for state-changing operations.
type Policy struct {
	// Thresholds maps currency codes to minor-unit thresholds.
	Thresholds map[string]int64
	// DefaultThreshold applies to currencies absent from Thresholds.
	DefaultThreshold int64
}

// DefaultPolicy requires SCA for state-changing operations of 500.00 units
// or more in any currency.
func DefaultPolicy() Policy {
	return Policy{DefaultThreshold: 50000}
}

func (p Policy) thresholdFor(currency string) int64 {
	if t, ok := p.Thresholds[currency]; ok {
		return t
	}
	return p.DefaultThreshold
}

var _ ports.ScaGate = (*Gate)(nil)

// Gate implements ports.ScaGate on top of a challenge store and an opaque
// delivery channel.
type Gate struct {
	store        ports.ChallengeStore
	sender       ports.ChallengeSender
	policy       Policy
	logger       *slog.Logger
	metrics      *metrics.Metrics
	publisher    events.Publisher
	challengeTTL time.Duration
	sendTimeout  time.Duration
	now          func() time.Time
}

// Option configures a Gate.
type Option func(*Gate)

func WithLogger(logger *slog.Logger) Option {
	return func(g *Gate) { g.logger = logger }
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(g *Gate) { g.metrics = m }
}

// WithPublisher emits a challenge lifecycle event per trigger and validation.
func WithPublisher(p events.Publisher) Option {
	return func(g *Gate) { g.publisher = p }
}

func WithPolicy(p Policy) Option {
	return func(g *Gate) { g.policy = p }
}

func WithChallengeTTL(ttl time.Duration) Option {
	return func(g *Gate) { g.challengeTTL = ttl }
}

func WithSendTimeout(d time.Duration) Option {
	return func(g *Gate) { g.sendTimeout = d }
}

// WithClock overrides the time source. Tests use this to control expiry.
func WithClock(now func() time.Time) Option {
	return func(g *Gate) { g.now = now }
}

// New builds a Gate. Store and sender are required.
func New(store ports.ChallengeStore, sender ports.ChallengeSender, opts ...Option) (*Gate, error) {
	if store == nil {
		return nil, fmt.Errorf("challenge store is required")
	}
	if sender == nil {
		return nil, fmt.Errorf("challenge sender is required")
	}

	g := &Gate{
		store:        store,
		sender:       sender,
		policy:       DefaultPolicy(),
		challengeTTL: defaultChallengeTTL,
		sendTimeout:  defaultSendTimeout,
		now:          time.Now,
	}
	for _, opt := range opts {
		opt(g)
	}
	if g.challengeTTL <= 0 {
		return nil, fmt.Errorf("challenge TTL must be positive")
	}
	return g, nil
}

// IsRequired is the pure policy query: state-changing operations at or above
// the currency threshold require SCA. Simulation is never gated but callers
// may still ask, so the answer reflects what execution would require.
func (g *Gate) IsRequired(ctx context.Context, op models.OperationType, amount, currency string, account id.AccountID) (bool, error) {
	_ = ctx
	_ = account
	units, err := models.ParseMinorUnits(amount, currency)
	if err != nil {
		return false, err
	}
	return units >= g.policy.thresholdFor(currency), nil
}

// Trigger creates a fresh challenge, stores it, and hands the code to the
// delivery channel under a bounded timeout. Repeated calls always create
// distinct challenges.
func (g *Gate) Trigger(ctx context.Context, recipient string, method models.ChallengeMethod, referenceID string) (ch *models.Challenge, err error) {
	start := g.now()
	defer func() { g.observe(ctx, "trigger", string(method), start, err == nil) }()

	if recipient == "" {
		return nil, dErrors.New(dErrors.CodeValidation, "recipient is required")
	}
	if !method.Valid() {
		return nil, dErrors.Newf(dErrors.CodeValidation, "unknown challenge method %q", method)
	}

	code, err := generateCode()
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to generate challenge code")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(code), bcrypt.DefaultCost)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to hash challenge code")
	}

	now := g.now()
	ch = &models.Challenge{
		ID:          id.NewChallengeID(),
		Method:      method,
		Recipient:   recipient,
		ReferenceID: referenceID,
		CodeHash:    string(hash),
		CreatedAt:   now,
		ExpiresAt:   now.Add(g.challengeTTL),
	}

	if err = g.store.Create(ctx, ch); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to store challenge")
	}

	sendCtx, cancel := context.WithTimeout(ctx, g.sendTimeout)
	defer cancel()
	if err = g.sender.Send(sendCtx, ch, code); err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, dErrors.Wrap(err, dErrors.CodeTimeout, "challenge delivery timed out")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "challenge delivery failed")
	}

	if g.logger != nil {
		g.logger.InfoContext(ctx, "sca challenge triggered",
			"challenge_id", ch.ID,
			"method", method,
			"reference_id", referenceID,
			"expires_at", ch.ExpiresAt,
		)
	}
	return ch, nil
}

// Validate checks a challenge response. It is single-use: the underlying
// store transition is atomic, so concurrent validations of one challenge
// can never both succeed. Expired, completed, unknown, or mismatched
// responses come back with Completed=false and no error; errors are
// reserved for store failures.
func (g *Gate) Validate(ctx context.Context, resp models.ChallengeResponse) (ch *models.Challenge, err error) {
	start := g.now()
	completed := false
	defer func() { g.observe(ctx, "validate", "", start, err == nil && completed) }()

	stored, err := g.store.Get(ctx, resp.ChallengeID)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load challenge")
	}
	if stored == nil {
		return &models.Challenge{ID: resp.ChallengeID}, nil
	}

	now := g.now()
	if stored.Completed || stored.Expired(now) {
		failed := *stored
		failed.Completed = false
		return &failed, nil
	}

	if bcrypt.CompareHashAndPassword([]byte(stored.CodeHash), []byte(resp.Code)) != nil {
		if g.logger != nil {
			g.logger.WarnContext(ctx, "sca challenge code mismatch", "challenge_id", resp.ChallengeID)
		}
		failed := *stored
		failed.Completed = false
		return &failed, nil
	}

	updated, won, err := g.store.CompleteIfPending(ctx, resp.ChallengeID, now)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to complete challenge")
	}
	if !won {
		// Lost the race or expired between read and transition.
		failed := *stored
		failed.Completed = false
		return &failed, nil
	}

	completed = true
	if g.logger != nil {
		g.logger.InfoContext(ctx, "sca challenge completed", "challenge_id", resp.ChallengeID)
	}
	return updated, nil
}

// Authorize applies the gating rule for a state-changing operation. It never
// mutates the challenge; completion must already have happened via Validate.
func (g *Gate) Authorize(ctx context.Context, op models.OperationType, amount, currency string, account id.AccountID, sca *models.SCAInfo) (required, completed bool, err error) {
	if !op.StateChanging() {
		return false, false, nil
	}
	required, err = g.IsRequired(ctx, op, amount, currency, account)
	if err != nil || !required {
		return required, false, err
	}
	if sca == nil || sca.ChallengeID.IsNil() {
		return true, false, nil
	}

	ch, err := g.store.Get(ctx, sca.ChallengeID)
	if err != nil {
		return true, false, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load challenge")
	}
	if ch == nil || !ch.Completed || ch.Expired(g.now()) {
		return true, false, nil
	}
	return true, true, nil
}

func (g *Gate) observe(ctx context.Context, operation, method string, start time.Time, success bool) {
	duration := g.now().Sub(start)
	if g.metrics != nil {
		g.metrics.ObserveSCA(operation, method, duration, success)
	}
	events.Emit(ctx, g.logger, g.publisher, events.NewSCAEvent(operation, method, duration, success))
}

// generateCode produces a uniformly random numeric code with leading zeros
// preserved.
func generateCode() (string, error) {
	max := big.NewInt(1)
	for range codeLength {
		max.Mul(max, big.NewInt(10))
	}
	n, err := rand.Int(rand.Reader, max)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%0*d", codeLength, n), nil
}
