package events

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type failingPublisher struct{ calls int }

func (p *failingPublisher) Publish(context.Context, Event) error {
	p.calls++
	return errors.New("broker unavailable")
}

func (p *failingPublisher) Close() {}

func TestNewOperationEvent(t *testing.T) {
	e := NewOperationEvent("SEPA", "EXECUTE", "pay-1", 120*time.Millisecond, true)

	assert.NotEmpty(t, e.ID)
	assert.Equal(t, KindPaymentOperation, e.Kind)
	assert.Equal(t, "SEPA", e.Category)
	assert.Equal(t, "EXECUTE", e.Operation)
	assert.Equal(t, int64(120), e.DurationMS)
	assert.True(t, e.Success)
	assert.False(t, e.Timestamp.IsZero())
}

func TestEmitNeverFailsTheCaller(t *testing.T) {
	t.Run("nil publisher is a no-op", func(t *testing.T) {
		assert.NotPanics(t, func() {
			Emit(context.Background(), nil, nil, Event{})
		})
	})

	t.Run("publisher failure is swallowed", func(t *testing.T) {
		p := &failingPublisher{}
		assert.NotPanics(t, func() {
			Emit(context.Background(), nil, p, Event{Kind: KindPaymentOperation})
		})
		assert.Equal(t, 1, p.calls)
	})

	t.Run("nop publisher accepts everything", func(t *testing.T) {
		assert.NoError(t, NopPublisher{}.Publish(context.Background(), Event{}))
		NopPublisher{}.Close()
	})
}
