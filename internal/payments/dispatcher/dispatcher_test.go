package dispatcher_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"railhub/internal/payments/dispatcher"
	"railhub/internal/payments/models"
	"railhub/internal/payments/ports/mocks"
	"railhub/internal/payments/registry"
	"railhub/internal/payments/sca"
	"railhub/internal/payments/store/challenge"
	id "railhub/pkg/domain"
	"railhub/pkg/platform/events"
)

// capturingPublisher records emitted events for assertions.
type capturingPublisher struct {
	mu     sync.Mutex
	events []events.Event
}

func (p *capturingPublisher) Publish(_ context.Context, e events.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, e)
	return nil
}

func (p *capturingPublisher) Close() {}

func (p *capturingPublisher) all() []events.Event {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]events.Event, len(p.events))
	copy(out, p.events)
	return out
}

type DispatcherSuite struct {
	suite.Suite

	ctrl      *gomock.Controller
	instant   *mocks.MockProvider
	swift     *mocks.MockProvider
	gate      *sca.Gate
	sender    *mocks.MockChallengeSender
	lastCode  string
	publisher *capturingPublisher
	now       time.Time
	svc       *dispatcher.Service
}

func TestDispatcherSuite(t *testing.T) {
	suite.Run(t, new(DispatcherSuite))
}

func (s *DispatcherSuite) SetupTest() {
	s.ctrl = gomock.NewController(s.T())
	s.now = time.Date(2025, 6, 12, 9, 30, 0, 0, time.UTC)

	s.instant = mocks.NewMockProvider(s.ctrl)
	s.instant.EXPECT().Name().Return("instant-rail").AnyTimes()
	s.swift = mocks.NewMockProvider(s.ctrl)
	s.swift.EXPECT().Name().Return("swift-bridge").AnyTimes()

	s.sender = mocks.NewMockChallengeSender(s.ctrl)
	s.sender.EXPECT().
		Send(gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, _ *models.Challenge, code string) error {
			s.lastCode = code
			return nil
		}).
		AnyTimes()

	var err error
	s.gate, err = sca.New(challenge.NewInMemoryStore(), s.sender,
		sca.WithClock(func() time.Time { return s.now }),
	)
	s.Require().NoError(err)

	reg := registry.New(nil)
	reg.Register(models.CategorySEPA, s.instant)
	reg.Register(models.CategorySwift, s.swift)
	reg.Complete()

	s.publisher = &capturingPublisher{}
	s.svc, err = dispatcher.New(reg, s.gate,
		dispatcher.WithPublisher(s.publisher),
		dispatcher.WithClock(func() time.Time { return s.now }),
		dispatcher.WithOperationTimeout(time.Second),
	)
	s.Require().NoError(err)
}

func (s *DispatcherSuite) TearDownTest() {
	s.ctrl.Finish()
}

func (s *DispatcherSuite) paymentRequest(t models.PaymentType, amount string) models.PaymentRequest {
	return models.PaymentRequest{
		PaymentID:       id.NewPaymentID(),
		Type:            t,
		DebtorAccount:   id.AccountID("DE89370400440532013000"),
		CreditorAccount: id.AccountID("FR1420041010050500013M02606"),
		Amount:          amount,
		Currency:        "EUR",
	}
}

func (s *DispatcherSuite) TestExecuteRoutesToResolvedProvider() {
	req := s.paymentRequest(models.PaymentTypeSEPAInstant, "120.00")

	s.instant.EXPECT().
		Execute(gomock.Any(), req).
		Return(&models.ExecutionResult{
			Success:       true,
			PaymentID:     req.PaymentID,
			RailReference: "TIPS-0042",
		}, nil)

	res := s.svc.Execute(context.Background(), req)
	s.True(res.Success)
	s.Equal("TIPS-0042", res.RailReference)
	s.Empty(res.ErrorCode)
}

func (s *DispatcherSuite) TestUnboundCategoryFailsUniformlyAcrossOperations() {
	// No ACH provider is registered and there is no DEFAULT binding, so
	// every operation for an ACH type reports the provider as unavailable.
	req := s.paymentRequest(models.PaymentTypeACHCredit, "10.00")
	req.Currency = "USD"

	s.Run("simulate", func() {
		res := s.svc.Simulate(context.Background(), req)
		s.False(res.Success)
		s.Equal(models.ErrCodeProviderUnavailable, res.ErrorCode)
	})

	s.Run("execute", func() {
		res := s.svc.Execute(context.Background(), req)
		s.False(res.Success)
		s.Equal(models.ErrCodeProviderUnavailable, res.ErrorCode)
	})

	s.Run("cancel", func() {
		res := s.svc.Cancel(context.Background(), models.CancellationRequest{
			PaymentID: req.PaymentID,
			Type:      req.Type,
		})
		s.False(res.Success)
		s.Equal(models.ErrCodeProviderUnavailable, res.ErrorCode)
	})

	s.Run("schedule", func() {
		res := s.svc.Schedule(context.Background(), models.ScheduleRequest{
			Payment:       req,
			ExecutionDate: s.now.Add(24 * time.Hour),
		})
		s.False(res.Success)
		s.Equal(models.ErrCodeProviderUnavailable, res.ErrorCode)
	})
}

func (s *DispatcherSuite) TestDefaultBindingCatchesUnboundCategories() {
	fallback := mocks.NewMockProvider(s.ctrl)
	fallback.EXPECT().Name().Return("catch-all").AnyTimes()

	reg := registry.New(nil)
	reg.Register(models.CategoryDefault, fallback)
	reg.Complete()

	svc, err := dispatcher.New(reg, s.gate,
		dispatcher.WithClock(func() time.Time { return s.now }),
	)
	s.Require().NoError(err)

	req := s.paymentRequest(models.PaymentTypeACHCredit, "10.00")
	fallback.EXPECT().
		Execute(gomock.Any(), req).
		Return(&models.ExecutionResult{Success: true, PaymentID: req.PaymentID}, nil)

	res := svc.Execute(context.Background(), req)
	s.True(res.Success)
}

func (s *DispatcherSuite) TestExecuteDowngradesScaViolatingSuccess() {
	// A provider claiming success while the required challenge is not
	// completed must never surface as success.
	req := s.paymentRequest(models.PaymentTypeSEPAInstant, "900.00")

	s.instant.EXPECT().
		Execute(gomock.Any(), req).
		Return(&models.ExecutionResult{
			Success:      true,
			PaymentID:    req.PaymentID,
			SCARequired:  true,
			SCACompleted: false,
		}, nil)

	res := s.svc.Execute(context.Background(), req)
	s.False(res.Success)
	s.Equal(models.ErrCodeSCARequired, res.ErrorCode)
}

func (s *DispatcherSuite) TestExecutePassesThroughScaFailureResult() {
	req := s.paymentRequest(models.PaymentTypeSEPAInstant, "900.00")

	s.instant.EXPECT().
		Execute(gomock.Any(), req).
		Return(&models.ExecutionResult{
			Success:      false,
			PaymentID:    req.PaymentID,
			SCARequired:  true,
			ErrorCode:    models.ErrCodeSCARequired,
			ErrorMessage: "challenge required",
		}, nil)

	res := s.svc.Execute(context.Background(), req)
	s.False(res.Success)
	s.Equal(models.ErrCodeSCARequired, res.ErrorCode)
	s.True(res.SCARequired)
	s.False(res.SCACompleted)
}

func (s *DispatcherSuite) TestExecuteWithCompletedChallengeSucceeds() {
	ctx := context.Background()

	ch, err := s.gate.Trigger(ctx, "+4917012345", models.MethodSMS, "pay-77")
	s.Require().NoError(err)

	validated, err := s.gate.Validate(ctx, models.ChallengeResponse{
		ChallengeID: ch.ID,
		Code:        s.lastCode,
	})
	s.Require().NoError(err)
	s.Require().True(validated.Completed)

	req := s.paymentRequest(models.PaymentTypeSEPAInstant, "900.00")
	req.SCA = &models.SCAInfo{ChallengeID: ch.ID}

	s.instant.EXPECT().
		Execute(gomock.Any(), req).
		Return(&models.ExecutionResult{
			Success:      true,
			PaymentID:    req.PaymentID,
			SCARequired:  true,
			SCACompleted: true,
		}, nil)

	res := s.svc.Execute(ctx, req)
	s.True(res.Success)
	s.True(res.SCACompleted)
}

func (s *DispatcherSuite) TestSimulateAnnotatesScaRequirement() {
	s.Run("above threshold", func() {
		req := s.paymentRequest(models.PaymentTypeSEPAInstant, "750.00")
		s.instant.EXPECT().
			Simulate(gomock.Any(), req).
			Return(&models.SimulationResult{Success: true, PaymentID: req.PaymentID}, nil)

		res := s.svc.Simulate(context.Background(), req)
		s.True(res.Success)
		s.True(res.SCARequired)
		s.False(res.SCACompleted)
	})

	s.Run("below threshold", func() {
		req := s.paymentRequest(models.PaymentTypeSEPAInstant, "12.50")
		s.instant.EXPECT().
			Simulate(gomock.Any(), req).
			Return(&models.SimulationResult{Success: true, PaymentID: req.PaymentID}, nil)

		res := s.svc.Simulate(context.Background(), req)
		s.True(res.Success)
		s.False(res.SCARequired)
	})
}

func (s *DispatcherSuite) TestProviderErrorBecomesFaultResult() {
	req := s.paymentRequest(models.PaymentTypeSwiftMT103, "50.00")

	s.swift.EXPECT().
		Execute(gomock.Any(), req).
		Return(nil, errors.New("connection reset"))

	res := s.svc.Execute(context.Background(), req)
	s.False(res.Success)
	s.Equal(models.ErrCodeProviderFault, res.ErrorCode)
	s.Contains(res.ErrorMessage, "connection reset")
}

func (s *DispatcherSuite) TestProviderPanicBecomesFaultResult() {
	req := s.paymentRequest(models.PaymentTypeSwiftMT103, "50.00")

	s.swift.EXPECT().
		Execute(gomock.Any(), req).
		DoAndReturn(func(context.Context, models.PaymentRequest) (*models.ExecutionResult, error) {
			panic("nil map write")
		})

	s.NotPanics(func() {
		res := s.svc.Execute(context.Background(), req)
		s.False(res.Success)
		s.Equal(models.ErrCodeProviderFault, res.ErrorCode)
	})
}

func (s *DispatcherSuite) TestCancelPartialPolicy() {
	mkReq := func(accept bool) models.CancellationRequest {
		return models.CancellationRequest{
			PaymentID:     id.NewPaymentID(),
			Type:          models.PaymentTypeSEPAInstant,
			AcceptPartial: accept,
		}
	}

	s.Run("partial rejected without opt in", func() {
		req := mkReq(false)
		s.instant.EXPECT().
			Cancel(gomock.Any(), req).
			Return(&models.CancellationResult{
				Success:        true,
				PaymentID:      req.PaymentID,
				Partial:        true,
				RefundedAmount: "40.00",
			}, nil)

		res := s.svc.Cancel(context.Background(), req)
		s.False(res.Success)
		s.Equal(models.ErrCodePartialRejected, res.ErrorCode)
		s.True(res.Partial)
	})

	s.Run("partial accepted with opt in", func() {
		req := mkReq(true)
		s.instant.EXPECT().
			Cancel(gomock.Any(), req).
			Return(&models.CancellationResult{
				Success:        true,
				PaymentID:      req.PaymentID,
				Partial:        true,
				RefundedAmount: "40.00",
			}, nil)

		res := s.svc.Cancel(context.Background(), req)
		s.True(res.Success)
		s.True(res.Partial)
		s.Equal("40.00", res.RefundedAmount)
	})

	s.Run("simulation applies the same policy", func() {
		req := mkReq(false)
		s.instant.EXPECT().
			SimulateCancellation(gomock.Any(), req).
			Return(&models.CancellationResult{
				Success:   true,
				PaymentID: req.PaymentID,
				Partial:   true,
			}, nil)

		res := s.svc.SimulateCancellation(context.Background(), req)
		s.False(res.Success)
		s.Equal(models.ErrCodePartialRejected, res.ErrorCode)
	})
}

func (s *DispatcherSuite) TestSchedulePastDateRejectedBeforeDispatch() {
	req := models.ScheduleRequest{
		Payment:       s.paymentRequest(models.PaymentTypeSEPAInstant, "30.00"),
		ExecutionDate: s.now.Add(-time.Minute),
	}

	// No provider expectation set: dispatch must not happen.
	res := s.svc.Schedule(context.Background(), req)
	s.False(res.Success)
	s.Equal(models.ErrCodeValidation, res.ErrorCode)
}

func (s *DispatcherSuite) TestScheduleExactlyNowIsAccepted() {
	payment := s.paymentRequest(models.PaymentTypeSEPAInstant, "30.00")
	req := models.ScheduleRequest{
		Payment:       payment,
		ExecutionDate: s.now,
	}

	s.instant.EXPECT().
		Schedule(gomock.Any(), req).
		Return(&models.ScheduleResult{
			Success:     true,
			PaymentID:   payment.PaymentID,
			ScheduleID:  id.NewScheduleID(),
			Modifiable:  true,
			Cancellable: true,
		}, nil)

	res := s.svc.Schedule(context.Background(), req)
	s.True(res.Success)
	s.True(res.Modifiable)
	s.True(res.Cancellable)
}

func (s *DispatcherSuite) TestOperationsEmitEvents() {
	req := s.paymentRequest(models.PaymentTypeSEPAInstant, "20.00")
	s.instant.EXPECT().
		Execute(gomock.Any(), req).
		Return(&models.ExecutionResult{Success: true, PaymentID: req.PaymentID}, nil)

	s.svc.Execute(context.Background(), req)

	emitted := s.publisher.all()
	s.Require().Len(emitted, 1)
	s.Equal(events.KindPaymentOperation, emitted[0].Kind)
	s.Equal(models.OperationExecute.String(), emitted[0].Operation)
	s.Equal(req.PaymentID.String(), emitted[0].PaymentID)
	s.True(emitted[0].Success)
}

func (s *DispatcherSuite) TestConstructorValidation() {
	reg := registry.New(nil)
	reg.Complete()

	_, err := dispatcher.New(nil, s.gate)
	s.Error(err)

	_, err = dispatcher.New(reg, nil)
	s.Error(err)
}
