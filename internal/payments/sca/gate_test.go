package sca

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"railhub/internal/payments/models"
	"railhub/internal/payments/ports/mocks"
	"railhub/internal/payments/store/challenge"
	id "railhub/pkg/domain"
	dErrors "railhub/pkg/domain-errors"
	"railhub/pkg/platform/events"
)

type GateSuite struct {
	suite.Suite
	ctrl   *gomock.Controller
	store  *challenge.InMemoryStore
	sender *mocks.MockChallengeSender
	gate   *Gate
	ctx    context.Context

	now time.Time
}

func TestGateSuite(t *testing.T) {
	suite.Run(t, new(GateSuite))
}

func (s *GateSuite) SetupTest() {
	s.ctrl = gomock.NewController(s.T())
	s.store = challenge.NewInMemoryStore()
	s.sender = mocks.NewMockChallengeSender(s.ctrl)
	s.ctx = context.Background()
	s.now = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	var err error
	s.gate, err = New(s.store, s.sender,
		WithChallengeTTL(5*time.Minute),
		WithClock(func() time.Time { return s.now }),
	)
	s.Require().NoError(err)
}

// trigger creates a challenge and captures the delivered code.
func (s *GateSuite) trigger() (*models.Challenge, string) {
	var code string
	s.sender.EXPECT().
		Send(gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, _ *models.Challenge, c string) error {
			code = c
			return nil
		})

	ch, err := s.gate.Trigger(s.ctx, "+34600000000", models.MethodSMS, "REF-1")
	s.Require().NoError(err)
	s.Require().NotEmpty(code)
	return ch, code
}

func (s *GateSuite) TestNew() {
	s.Run("nil store returns error", func() {
		_, err := New(nil, s.sender)
		s.Error(err)
	})

	s.Run("nil sender returns error", func() {
		_, err := New(s.store, nil)
		s.Error(err)
	})

	s.Run("non-positive TTL returns error", func() {
		_, err := New(s.store, s.sender, WithChallengeTTL(0))
		s.Error(err)
	})
}

func (s *GateSuite) TestIsRequired() {
	s.Run("amount at threshold requires sca", func() {
		required, err := s.gate.IsRequired(s.ctx, models.OperationExecute, "500.00", "USD", "ACC-1")
		s.Require().NoError(err)
		s.True(required)
	})

	s.Run("amount under threshold does not", func() {
		required, err := s.gate.IsRequired(s.ctx, models.OperationExecute, "499.99", "USD", "ACC-1")
		s.Require().NoError(err)
		s.False(required)
	})

	s.Run("per-currency threshold overrides default", func() {
		gate, err := New(s.store, s.sender, WithPolicy(Policy{
			Thresholds:       map[string]int64{"GBP": 10000},
			DefaultThreshold: 50000,
		}))
		s.Require().NoError(err)

		required, err := gate.IsRequired(s.ctx, models.OperationExecute, "150.00", "GBP", "ACC-1")
		s.Require().NoError(err)
		s.True(required)

		required, err = gate.IsRequired(s.ctx, models.OperationExecute, "150.00", "USD", "ACC-1")
		s.Require().NoError(err)
		s.False(required)
	})

	s.Run("repeatable", func() {
		for range 3 {
			required, err := s.gate.IsRequired(s.ctx, models.OperationExecute, "2000.00", "USD", "ACC-1")
			s.Require().NoError(err)
			s.True(required)
		}
	})

	s.Run("malformed amount is a validation error", func() {
		_, err := s.gate.IsRequired(s.ctx, models.OperationExecute, "lots", "USD", "ACC-1")
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeValidation))
	})
}

func (s *GateSuite) TestTrigger() {
	s.Run("creates a stored challenge with expiry strictly after creation", func() {
		ch, _ := s.trigger()
		s.False(ch.ID.IsNil())
		s.True(ch.ExpiresAt.After(ch.CreatedAt))
		s.False(ch.Completed)
		s.Equal("REF-1", ch.ReferenceID)

		stored, err := s.store.Get(s.ctx, ch.ID)
		s.Require().NoError(err)
		s.Require().NotNil(stored)
		s.NotEmpty(stored.CodeHash)
	})

	s.Run("repeated triggers create distinct challenges", func() {
		first, _ := s.trigger()
		second, _ := s.trigger()
		s.NotEqual(first.ID, second.ID)
	})

	s.Run("code is never stored in the clear", func() {
		ch, code := s.trigger()
		stored, err := s.store.Get(s.ctx, ch.ID)
		s.Require().NoError(err)
		s.NotEqual(code, stored.CodeHash)
	})

	s.Run("empty recipient rejected", func() {
		_, err := s.gate.Trigger(s.ctx, "", models.MethodSMS, "REF-2")
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeValidation))
	})

	s.Run("unknown method rejected", func() {
		_, err := s.gate.Trigger(s.ctx, "+34600000000", models.ChallengeMethod("FAX"), "REF-3")
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeValidation))
	})

	s.Run("delivery timeout surfaces as timeout error", func() {
		s.sender.EXPECT().
			Send(gomock.Any(), gomock.Any(), gomock.Any()).
			Return(context.DeadlineExceeded)

		_, err := s.gate.Trigger(s.ctx, "+34600000000", models.MethodSMS, "REF-4")
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeTimeout))
	})

	s.Run("delivery failure surfaces as internal error", func() {
		s.sender.EXPECT().
			Send(gomock.Any(), gomock.Any(), gomock.Any()).
			Return(errors.New("sms gateway down"))

		_, err := s.gate.Trigger(s.ctx, "+34600000000", models.MethodSMS, "REF-5")
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeInternal))
	})
}

func (s *GateSuite) TestValidate() {
	s.Run("correct code completes the challenge", func() {
		ch, code := s.trigger()

		got, err := s.gate.Validate(s.ctx, models.ChallengeResponse{ChallengeID: ch.ID, Code: code})
		s.Require().NoError(err)
		s.True(got.Completed)
	})

	s.Run("wrong code yields completed false", func() {
		ch, code := s.trigger()

		wrong := "000000"
		if wrong == code {
			wrong = "000001"
		}
		got, err := s.gate.Validate(s.ctx, models.ChallengeResponse{ChallengeID: ch.ID, Code: wrong})
		s.Require().NoError(err)
		s.False(got.Completed)

		// The challenge survives a failed attempt.
		got, err = s.gate.Validate(s.ctx, models.ChallengeResponse{ChallengeID: ch.ID, Code: code})
		s.Require().NoError(err)
		s.True(got.Completed)
	})

	s.Run("unknown challenge yields completed false", func() {
		got, err := s.gate.Validate(s.ctx, models.ChallengeResponse{ChallengeID: id.NewChallengeID(), Code: "123456"})
		s.Require().NoError(err)
		s.False(got.Completed)
	})

	s.Run("validation after expiry always yields completed false", func() {
		ch, code := s.trigger()

		s.now = ch.ExpiresAt.Add(time.Second)
		got, err := s.gate.Validate(s.ctx, models.ChallengeResponse{ChallengeID: ch.ID, Code: code})
		s.Require().NoError(err)
		s.False(got.Completed)
	})

	s.Run("challenge is single use", func() {
		ch, code := s.trigger()
		resp := models.ChallengeResponse{ChallengeID: ch.ID, Code: code}

		got, err := s.gate.Validate(s.ctx, resp)
		s.Require().NoError(err)
		s.True(got.Completed)

		// A completed challenge reports false on re-validation: the
		// transition already happened and cannot be claimed again.
		got, err = s.gate.Validate(s.ctx, resp)
		s.Require().NoError(err)
		s.False(got.Completed)
	})

	s.Run("concurrent validations cannot both claim the transition", func() {
		ch, code := s.trigger()
		resp := models.ChallengeResponse{ChallengeID: ch.ID, Code: code}

		const attempts = 16
		var wg sync.WaitGroup
		completions := make(chan bool, attempts)
		for range attempts {
			wg.Add(1)
			go func() {
				defer wg.Done()
				got, err := s.gate.Validate(s.ctx, resp)
				s.NoError(err)
				completions <- got.Completed
			}()
		}
		wg.Wait()
		close(completions)

		winners := 0
		for completed := range completions {
			if completed {
				winners++
			}
		}
		s.Equal(1, winners)
	})
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []events.Event
}

func (p *recordingPublisher) Publish(_ context.Context, e events.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, e)
	return nil
}

func (p *recordingPublisher) Close() {}

func (s *GateSuite) TestEvents() {
	pub := &recordingPublisher{}
	gate, err := New(s.store, s.sender,
		WithClock(func() time.Time { return s.now }),
		WithPublisher(pub),
	)
	s.Require().NoError(err)

	s.sender.EXPECT().
		Send(gomock.Any(), gomock.Any(), gomock.Any()).
		Return(nil)

	ch, err := gate.Trigger(s.ctx, "+34600000000", models.MethodSMS, "REF-EV")
	s.Require().NoError(err)

	_, err = gate.Validate(s.ctx, models.ChallengeResponse{ChallengeID: ch.ID, Code: "000000"})
	s.Require().NoError(err)

	s.Require().Len(pub.events, 2)

	trigger := pub.events[0]
	s.Equal(events.KindSCAOperation, trigger.Kind)
	s.Equal("trigger", trigger.Operation)
	s.Equal(string(models.MethodSMS), trigger.Method)
	s.True(trigger.Success)

	validate := pub.events[1]
	s.Equal("validate", validate.Operation)
	s.False(validate.Success)
}

func (s *GateSuite) TestAuthorize() {
	s.Run("not required below threshold", func() {
		required, completed, err := s.gate.Authorize(s.ctx, models.OperationExecute, "10.00", "EUR", "ACC-1", nil)
		s.Require().NoError(err)
		s.False(required)
		s.False(completed)
	})

	s.Run("required without challenge is unsatisfied", func() {
		required, completed, err := s.gate.Authorize(s.ctx, models.OperationExecute, "2000.00", "EUR", "ACC-1", nil)
		s.Require().NoError(err)
		s.True(required)
		s.False(completed)
	})

	s.Run("required with validated challenge is satisfied", func() {
		ch, code := s.trigger()
		_, err := s.gate.Validate(s.ctx, models.ChallengeResponse{ChallengeID: ch.ID, Code: code})
		s.Require().NoError(err)

		required, completed, err := s.gate.Authorize(s.ctx, models.OperationExecute, "2000.00", "EUR", "ACC-1",
			&models.SCAInfo{ChallengeID: ch.ID})
		s.Require().NoError(err)
		s.True(required)
		s.True(completed)
	})

	s.Run("pending challenge does not satisfy the gate", func() {
		ch, _ := s.trigger()

		required, completed, err := s.gate.Authorize(s.ctx, models.OperationExecute, "2000.00", "EUR", "ACC-1",
			&models.SCAInfo{ChallengeID: ch.ID})
		s.Require().NoError(err)
		s.True(required)
		s.False(completed)
	})

	s.Run("expired challenge does not satisfy the gate even when completed", func() {
		ch, code := s.trigger()
		_, err := s.gate.Validate(s.ctx, models.ChallengeResponse{ChallengeID: ch.ID, Code: code})
		s.Require().NoError(err)

		s.now = ch.ExpiresAt.Add(time.Minute)
		required, completed, err := s.gate.Authorize(s.ctx, models.OperationExecute, "2000.00", "EUR", "ACC-1",
			&models.SCAInfo{ChallengeID: ch.ID})
		s.Require().NoError(err)
		s.True(required)
		s.False(completed)
	})

	s.Run("simulate is never gated", func() {
		required, completed, err := s.gate.Authorize(s.ctx, models.OperationSimulate, "2000.00", "EUR", "ACC-1", nil)
		s.Require().NoError(err)
		s.False(required)
		s.False(completed)
	})
}
