package service

// Outcome labels recorded by AuthMetrics.
const (
	OutcomeSuccess            = "success"
	OutcomeInvalidCredentials = "invalid_credentials"
	OutcomeExpired            = "expired"
	OutcomeRevoked            = "revoked"
	OutcomeInvalidToken       = "invalid_token"
	OutcomeRateLimited        = "rate_limited"
	OutcomeError              = "error"
)

// AuthMetrics records authentication outcomes.
type AuthMetrics interface {
	LoginAttempt(outcome string)
	RefreshAttempt(outcome string)
	Logout()
	PasswordResetRequested()
	PasswordResetCompleted(outcome string)
	RefreshTokenReuse()
}
