package sca

import (
	"context"
	"log/slog"

	"railhub/internal/payments/models"
)

// LogSender is the development delivery channel: it logs that a challenge
// was dispatched without revealing the code. Production deployments plug a
// real SMS/email/push sender into ports.ChallengeSender instead.
type LogSender struct {
	logger *slog.Logger
}

// NewLogSender builds a sender that only logs dispatches.
func NewLogSender(logger *slog.Logger) *LogSender {
	return &LogSender{logger: logger}
}

func (s *LogSender) Send(ctx context.Context, ch *models.Challenge, code string) error {
	_ = code
	if s.logger != nil {
		s.logger.InfoContext(ctx, "sca challenge dispatched",
			"challenge_id", ch.ID,
			"method", ch.Method,
			"recipient", ch.Recipient,
		)
	}
	return nil
}
