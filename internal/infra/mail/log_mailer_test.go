package mail

import (
	"bytes"
	"context"
	"log/slog"
	"testing"
	"time"

	"hrpm/internal/domain/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestMailer(level slog.Level) (*bytes.Buffer, *logMailer) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: level}))
	m := NewLogMailer(logger).(*logMailer)
	m.now = func() time.Time { return time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC) }

	return &buf, m
}

func resetEvent() *service.PasswordResetEvent {
	return &service.PasswordResetEvent{
		EventID:    "evt-1",
		Email:      "jane@example.com",
		ResetToken: "tok",
		ExpiresAt:  time.Date(2026, 1, 1, 13, 0, 0, 0, time.UTC),
	}
}

func TestLogMailer_SendPasswordReset(t *testing.T) {
	buf, m := newTestMailer(slog.LevelInfo)

	require.NoError(t, m.SendPasswordReset(context.Background(), resetEvent()))

	out := buf.String()
	assert.Contains(t, out, "Password reset email sent")
	assert.Contains(t, out, "j***@example.com")
	assert.Contains(t, out, "valid_for=1h0m")
	assert.NotContains(t, out, "tok")
}

func TestLogMailer_DebugIncludesLink(t *testing.T) {
	buf, m := newTestMailer(slog.LevelDebug)

	require.NoError(t, m.SendPasswordReset(context.Background(), resetEvent()))
	assert.Contains(t, buf.String(), "token=tok")
}

func TestLogMailer_ExpiredIsSkipped(t *testing.T) {
	buf, m := newTestMailer(slog.LevelInfo)
	event := resetEvent()
	event.ExpiresAt = time.Date(2026, 1, 1, 11, 0, 0, 0, time.UTC)

	require.NoError(t, m.SendPasswordReset(context.Background(), event))
	assert.Contains(t, buf.String(), "Skipping expired")
}

func TestLogMailer_RejectsIncompleteEvent(t *testing.T) {
	_, m := newTestMailer(slog.LevelInfo)

	assert.Error(t, m.SendPasswordReset(context.Background(), nil))
	assert.Error(t, m.SendPasswordReset(context.Background(), &service.PasswordResetEvent{Email: "a@example.com"}))
}
