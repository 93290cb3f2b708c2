// Package ledger is the in-process provider for internal book transfers. It
// keeps double-entry balances in memory and enforces the SCA gate before any
// state change. All expected failures travel as error codes inside results.
package ledger

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"railhub/internal/payments/models"
	"railhub/internal/payments/ports"
	id "railhub/pkg/domain"
)

const defaultName = "internal-ledger"

var _ ports.Provider = (*Ledger)(nil)

// payment is an executed transfer kept for cancellation.
type payment struct {
	req        models.PaymentRequest
	units      int64
	refunded   int64
	executedAt time.Time
}

type schedule struct {
	id  id.ScheduleID
	req models.ScheduleRequest
}

// Ledger implements ports.Provider over in-memory accounts. Balances are
// tracked in minor units per account and currency.
type Ledger struct {
	mu        sync.Mutex
	name      string
	gate      ports.ScaGate
	logger    *slog.Logger
	catchAll  bool
	now       func() time.Time
	balances  map[id.AccountID]map[string]int64
	payments  map[id.PaymentID]*payment
	schedules map[id.ScheduleID]*schedule
}

// Option configures a Ledger.
type Option func(*Ledger)

func WithName(name string) Option {
	return func(l *Ledger) { l.name = name }
}

func WithLogger(logger *slog.Logger) Option {
	return func(l *Ledger) { l.logger = logger }
}

// WithCatchAll accepts payment types outside the internal category. Used when
// the ledger is bound as the DEFAULT provider.
func WithCatchAll() Option {
	return func(l *Ledger) { l.catchAll = true }
}

func WithClock(now func() time.Time) Option {
	return func(l *Ledger) { l.now = now }
}

// New builds a Ledger. The gate is required; every state change consults it.
func New(gate ports.ScaGate, opts ...Option) (*Ledger, error) {
	if gate == nil {
		return nil, fmt.Errorf("sca gate is required")
	}

	l := &Ledger{
		name:      defaultName,
		gate:      gate,
		now:       time.Now,
		balances:  make(map[id.AccountID]map[string]int64),
		payments:  make(map[id.PaymentID]*payment),
		schedules: make(map[id.ScheduleID]*schedule),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l, nil
}

func (l *Ledger) Name() string { return l.name }

// Deposit credits an account. Bootstrap and test seeding only.
func (l *Ledger) Deposit(account id.AccountID, amount, currency string) error {
	units, err := models.ParseMinorUnits(amount, currency)
	if err != nil {
		return err
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	l.credit(account, currency, units)
	return nil
}

// Balance reports an account's balance in the given currency as a decimal
// string.
func (l *Ledger) Balance(account id.AccountID, currency string) string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return models.FormatMinorUnits(l.balanceOf(account, currency), currency)
}

// Simulate checks feasibility without moving funds.
func (l *Ledger) Simulate(ctx context.Context, req models.PaymentRequest) (*models.SimulationResult, error) {
	_ = ctx
	res := &models.SimulationResult{PaymentID: req.PaymentID}

	units, errCode, errMsg := l.vet(req)
	if errCode != "" {
		res.ErrorCode = errCode
		res.ErrorMessage = errMsg
		return res, nil
	}

	l.mu.Lock()
	covered := l.balanceOf(req.DebtorAccount, req.Currency) >= units
	l.mu.Unlock()
	if !covered {
		res.ErrorCode = models.ErrCodeInsufficientFunds
		res.ErrorMessage = "debtor balance does not cover the amount"
		return res, nil
	}

	settlement := l.now().UTC()
	res.Success = true
	res.EstimatedFee = models.FormatMinorUnits(0, req.Currency)
	res.ExpectedSettlement = &settlement
	return res, nil
}

// Execute moves funds debtor to creditor. The gate decides whether a
// completed challenge is required first.
func (l *Ledger) Execute(ctx context.Context, req models.PaymentRequest) (*models.ExecutionResult, error) {
	res := &models.ExecutionResult{PaymentID: req.PaymentID}

	units, errCode, errMsg := l.vet(req)
	if errCode != "" {
		res.ErrorCode = errCode
		res.ErrorMessage = errMsg
		return res, nil
	}

	required, completed, err := l.gate.Authorize(ctx, models.OperationExecute, req.Amount, req.Currency, req.DebtorAccount, req.SCA)
	if err != nil {
		return nil, err
	}
	res.SCARequired = required
	res.SCACompleted = completed
	if required && !completed {
		res.ErrorCode = models.ErrCodeSCARequired
		res.ErrorMessage = "a completed challenge is required for this amount"
		return res, nil
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if _, exists := l.payments[req.PaymentID]; exists {
		res.ErrorCode = models.ErrCodeValidation
		res.ErrorMessage = "payment already executed"
		return res, nil
	}
	if l.balanceOf(req.DebtorAccount, req.Currency) < units {
		res.ErrorCode = models.ErrCodeInsufficientFunds
		res.ErrorMessage = "debtor balance does not cover the amount"
		return res, nil
	}

	l.credit(req.DebtorAccount, req.Currency, -units)
	l.credit(req.CreditorAccount, req.Currency, units)
	l.payments[req.PaymentID] = &payment{
		req:        req,
		units:      units,
		executedAt: l.now(),
	}

	res.Success = true
	res.RailReference = fmt.Sprintf("LEDGER-%s", req.PaymentID)
	if l.logger != nil {
		l.logger.InfoContext(ctx, "book transfer executed",
			"payment_id", req.PaymentID, "amount", req.Amount, "currency", req.Currency)
	}
	return res, nil
}

// Cancel refunds an executed payment. When the creditor has already spent
// part of the funds only the remaining balance comes back and the result is
// marked partial.
func (l *Ledger) Cancel(ctx context.Context, req models.CancellationRequest) (*models.CancellationResult, error) {
	return l.cancel(ctx, req, false)
}

// SimulateCancellation reports what Cancel would do without moving funds.
func (l *Ledger) SimulateCancellation(ctx context.Context, req models.CancellationRequest) (*models.CancellationResult, error) {
	return l.cancel(ctx, req, true)
}

func (l *Ledger) cancel(ctx context.Context, req models.CancellationRequest, simulate bool) (*models.CancellationResult, error) {
	res := &models.CancellationResult{PaymentID: req.PaymentID}

	l.mu.Lock()
	p, ok := l.payments[req.PaymentID]
	l.mu.Unlock()
	if !ok {
		res.ErrorCode = models.ErrCodePaymentNotFound
		res.ErrorMessage = "no executed payment with this id"
		return res, nil
	}

	if !simulate {
		required, completed, err := l.gate.Authorize(ctx, models.OperationCancel, p.req.Amount, p.req.Currency, p.req.DebtorAccount, req.SCA)
		if err != nil {
			return nil, err
		}
		res.SCARequired = required
		res.SCACompleted = completed
		if required && !completed {
			res.ErrorCode = models.ErrCodeSCARequired
			res.ErrorMessage = "a completed challenge is required to cancel this payment"
			return res, nil
		}
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	remaining := p.units - p.refunded
	if remaining <= 0 {
		res.ErrorCode = models.ErrCodeValidation
		res.ErrorMessage = "payment already fully cancelled"
		return res, nil
	}

	refund := remaining
	if available := l.balanceOf(p.req.CreditorAccount, p.req.Currency); available < refund {
		refund = available
	}
	if refund <= 0 {
		res.ErrorCode = models.ErrCodeInsufficientFunds
		res.ErrorMessage = "creditor balance cannot cover any refund"
		return res, nil
	}

	res.Success = true
	res.Partial = refund < remaining
	res.RefundedAmount = models.FormatMinorUnits(refund, p.req.Currency)
	if simulate {
		return res, nil
	}

	l.credit(p.req.CreditorAccount, p.req.Currency, -refund)
	l.credit(p.req.DebtorAccount, p.req.Currency, refund)
	p.refunded += refund

	if l.logger != nil {
		l.logger.InfoContext(ctx, "book transfer cancelled",
			"payment_id", req.PaymentID, "refunded", res.RefundedAmount, "partial", res.Partial)
	}
	return res, nil
}

// Schedule accepts a future-dated transfer. The ledger keeps schedules
// modifiable and cancellable; the recurrence pattern is stored opaquely.
func (l *Ledger) Schedule(ctx context.Context, req models.ScheduleRequest) (*models.ScheduleResult, error) {
	res := &models.ScheduleResult{PaymentID: req.Payment.PaymentID}

	if _, errCode, errMsg := l.vet(req.Payment); errCode != "" {
		res.ErrorCode = errCode
		res.ErrorMessage = errMsg
		return res, nil
	}

	required, completed, err := l.gate.Authorize(ctx, models.OperationSchedule, req.Payment.Amount, req.Payment.Currency, req.Payment.DebtorAccount, req.Payment.SCA)
	if err != nil {
		return nil, err
	}
	res.SCARequired = required
	res.SCACompleted = completed
	if required && !completed {
		res.ErrorCode = models.ErrCodeSCARequired
		res.ErrorMessage = "a completed challenge is required for this amount"
		return res, nil
	}

	scheduleID := id.NewScheduleID()
	l.mu.Lock()
	l.schedules[scheduleID] = &schedule{id: scheduleID, req: req}
	l.mu.Unlock()

	res.Success = true
	res.ScheduleID = scheduleID
	res.Modifiable = true
	res.Cancellable = true
	return res, nil
}

// Healthy always succeeds: the ledger lives in process.
func (l *Ledger) Healthy(ctx context.Context) (bool, error) {
	_ = ctx
	return true, nil
}

// vet validates the request shape without touching balances.
func (l *Ledger) vet(req models.PaymentRequest) (int64, string, string) {
	if !l.catchAll && models.CategoryFor(req.Type) != models.CategoryInternal {
		return 0, models.ErrCodeUnsupportedType, fmt.Sprintf("ledger does not handle %s", req.Type)
	}
	if req.DebtorAccount == "" || req.CreditorAccount == "" {
		return 0, models.ErrCodeValidation, "debtor and creditor accounts are required"
	}
	if req.DebtorAccount == req.CreditorAccount {
		return 0, models.ErrCodeValidation, "debtor and creditor must differ"
	}
	units, err := models.ParseMinorUnits(req.Amount, req.Currency)
	if err != nil {
		return 0, models.ErrCodeValidation, err.Error()
	}
	if units <= 0 {
		return 0, models.ErrCodeValidation, "amount must be positive"
	}
	return units, "", ""
}

func (l *Ledger) balanceOf(account id.AccountID, currency string) int64 {
	return l.balances[account][currency]
}

func (l *Ledger) credit(account id.AccountID, currency string, units int64) {
	byCurrency, ok := l.balances[account]
	if !ok {
		byCurrency = make(map[string]int64)
		l.balances[account] = byCurrency
	}
	byCurrency[currency] += units
}
