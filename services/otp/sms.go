package otp

import (
	"context"

	"go.uber.org/zap"
)

// SMSSender delivers a text message to an E.164 number.
type SMSSender interface {
	Send(ctx context.Context, to, message string) error
}

// LogSender writes outgoing messages to the log instead of a carrier.
// Replace with a carrier integration where SMS delivery is enabled.
type LogSender struct {
	Logger *zap.Logger
}

func (s LogSender) Send(ctx context.Context, to, message string) error {
	logger := s.Logger
	if logger == nil {
		logger = zap.L()
	}
	logger.Info("Sending SMS", zap.String("to", to), zap.Int("length", len(message)))
	logger.Debug("SMS body", zap.String("to", to), zap.String("message", message))
	return nil
}
