package service

import (
	"context"
	"time"
)

// PasswordResetEvent asks the delivery worker to send a reset token out-of-band.
type PasswordResetEvent struct {
	EventID    string    `json:"event_id"`
	RequestID  string    `json:"request_id,omitempty"` // For distributed tracing
	UserID     string    `json:"user_id"`
	Email      string    `json:"email"`
	Name       string    `json:"name"`
	ResetToken string    `json:"reset_token"`
	ExpiresAt  time.Time `json:"expires_at"`
}

// EventPublisher defines the interface for publishing events to a message queue
type EventPublisher interface {
	// PublishPasswordResetRequested publishes a reset delivery request
	PublishPasswordResetRequested(ctx context.Context, event *PasswordResetEvent) error

	// Close releases any resources held by the publisher
	Close() error
}

// Mailer delivers messages to users.
type Mailer interface {
	SendPasswordReset(ctx context.Context, event *PasswordResetEvent) error
}
