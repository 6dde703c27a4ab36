// Package usecase contains the application-specific business rules.
package usecase

import (
	"context"
	"time"

	"hrpm/internal/domain/entity"
)

// --- DTOs (Data Transfer Objects) for AuthUsecase ---

// LoginInput is the credential pair presented at login.
type LoginInput struct {
	Email    string `json:"email" validate:"required,email,max=100"`
	Password string `json:"password" validate:"required,max=100"`
}

// LoginOutput is a fresh session plus the identity snapshot of the user.
type LoginOutput struct {
	AccessToken  string                 `json:"accessToken"`
	ExpiresAt    time.Time              `json:"expiresAt"`
	RefreshToken string                 `json:"refreshToken"`
	User         entity.IdentitySummary `json:"user"`
}

// RefreshSessionInput carries the refresh token to rotate. AccessToken is the
// caller's current (possibly expired) access token; it is accepted for
// compatibility and not consulted.
type RefreshSessionInput struct {
	RefreshToken string `json:"refreshToken" validate:"required,max=500"`
	AccessToken  string `json:"accessToken" validate:"omitempty,max=1000"`
}

// TokenPairOutput is the rotated session.
type TokenPairOutput struct {
	AccessToken  string    `json:"accessToken"`
	ExpiresAt    time.Time `json:"expiresAt"`
	RefreshToken string    `json:"refreshToken"`
}

// LogoutInput names the session to end.
type LogoutInput struct {
	RefreshToken string `json:"refreshToken" validate:"required,max=500"`
}

// ForgotPasswordInput requests a reset token for an email.
type ForgotPasswordInput struct {
	Email string `json:"email" validate:"required,email,max=100"`
}

// ForgotPasswordOutput has the same shape for known and unknown emails.
// ResetToken is only filled when token exposure is enabled.
type ForgotPasswordOutput struct {
	Success    bool   `json:"success"`
	Message    string `json:"message"`
	ResetToken string `json:"resetToken,omitempty"`
}

// ResetPasswordInput redeems a reset token. ConfirmPassword equality is checked by validation.
type ResetPasswordInput struct {
	Token           string `json:"token" validate:"required,max=500"`
	NewPassword     string `json:"newPassword" validate:"required,min=6,max=100,password"`
	ConfirmPassword string `json:"confirmPassword" validate:"required,eqfield=NewPassword"`
}

// ResetPasswordOutput reports the outcome. An invalid token is Success=false, not an error.
type ResetPasswordOutput struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// AuthUsecase turns credential checks into sessions, rotates and ends them,
// and runs password recovery.
type AuthUsecase interface {
	Login(ctx context.Context, input *LoginInput) (*LoginOutput, error)
	RefreshSession(ctx context.Context, input *RefreshSessionInput) (*TokenPairOutput, error)
	Logout(ctx context.Context, input *LogoutInput) error
	ForgotPassword(ctx context.Context, input *ForgotPasswordInput) (*ForgotPasswordOutput, error)
	ResetPassword(ctx context.Context, input *ResetPasswordInput) (*ResetPasswordOutput, error)
}
