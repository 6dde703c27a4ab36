// Package entity contains the core business objects of the project,
// each representing a unique, identifiable concept within the domain.
package entity

import (
	"time"

	"github.com/google/uuid"
)

// RefreshToken represents a long-lived, single-use session credential.
// It is exchanged once for a new token pair, after which it is marked used.
type RefreshToken struct {
	ID        uuid.UUID // The unique ID for this specific refresh token record.
	UserID    uuid.UUID // Links this session to the User it belongs to.
	TokenHash string    // SHA-256 hash of the opaque token; the plaintext is never stored.
	ExpiresAt time.Time // The exact time when this refresh token expires.
	IsUsed    bool      // Set once the token has been rotated. Never reset.
	IsRevoked bool      // Set on logout or password reset. Never reset.
	CreatedAt time.Time // Timestamp of when this session was created.
}

// IsValid reports whether the token can still be redeemed at now.
func (t *RefreshToken) IsValid(now time.Time) bool {
	return !t.IsUsed && !t.IsRevoked && t.ExpiresAt.After(now)
}

// IsSpent reports whether the token was consumed or explicitly revoked,
// as opposed to having merely expired.
func (t *RefreshToken) IsSpent() bool {
	return t.IsUsed || t.IsRevoked
}

// PasswordResetToken proves ownership of an email address for one password change.
type PasswordResetToken struct {
	ID        uuid.UUID // The unique ID for this reset token record.
	Email     string    // Email address the token was issued for.
	TokenHash string    // SHA-256 hash of the opaque token.
	ExpiresAt time.Time // The exact time when this token expires.
	IsUsed    bool      // Set on redemption or when superseded by a newer token.
	CreatedAt time.Time // Timestamp of when this token was issued.
}

// IsValid reports whether the token can still be redeemed at now.
func (t *PasswordResetToken) IsValid(now time.Time) bool {
	return !t.IsUsed && t.ExpiresAt.After(now)
}

// SessionInfo describes a live session without exposing token material.
type SessionInfo struct {
	ID        uuid.UUID `json:"id"`
	CreatedAt time.Time `json:"createdAt"`
	ExpiresAt time.Time `json:"expiresAt"`
}
