// Package notify provides notification sender implementations for the
// reconciler. Actual transport (email/SMS) is owned by an external
// collaborator; LogSender is the default sink when no transport is wired.
package notify

import (
	"context"
	"log/slog"

	"roombook/internal/usecase"
)

type LogSender struct {
	logger *slog.Logger
}

func NewLogSender(logger *slog.Logger) *LogSender {
	return &LogSender{logger: logger}
}

func (s *LogSender) Send(ctx context.Context, recipientAddress, recipientName string, reminder usecase.Reminder) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.logger.Info("booking reminder",
		"recipient", recipientAddress,
		"recipient_name", recipientName,
		"resource", reminder.ResourceName,
		"start", reminder.Start,
		"end", reminder.End,
	)
	return nil
}
