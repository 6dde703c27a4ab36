// Package mail delivers user-facing messages.
package mail

import (
	"context"
	"log/slog"
	"time"

	"hrpm/internal/domain/service"
	"hrpm/internal/util"

	"github.com/pkg/errors"
)

// logMailer writes deliveries to the structured log instead of an SMTP relay.
// The reset link is logged at debug level only.
type logMailer struct {
	logger  *slog.Logger
	baseURL string
	now     func() time.Time
}

// NewLogMailer creates a Mailer that logs each delivery.
func NewLogMailer(logger *slog.Logger) service.Mailer {
	return &logMailer{
		logger:  logger,
		baseURL: "http://localhost:3000/reset-password",
		now:     time.Now,
	}
}

func (m *logMailer) SendPasswordReset(ctx context.Context, event *service.PasswordResetEvent) error {
	if event == nil || event.Email == "" || event.ResetToken == "" {
		return errors.New("password reset event is missing recipient or token")
	}

	validFor := event.ExpiresAt.Sub(m.now())
	if validFor <= 0 {
		m.logger.WarnContext(ctx, "Skipping expired password reset delivery",
			slog.String("event_id", event.EventID),
			slog.String("to", util.MaskEmail(event.Email)),
		)

		return nil
	}

	m.logger.InfoContext(ctx, "Password reset email sent",
		slog.String("event_id", event.EventID),
		slog.String("to", util.MaskEmail(event.Email)),
		slog.String("valid_for", util.FormatDuration(validFor)),
	)
	m.logger.DebugContext(ctx, "Password reset link",
		slog.String("event_id", event.EventID),
		slog.String("link", m.baseURL+"?token="+event.ResetToken),
	)

	return nil
}
