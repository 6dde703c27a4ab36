// Package constants holds stable values shared across layers.
package constants

// Auth message catalogue. Boundary layers map error kinds to transport status
// without inspecting these texts.
const (
	InvalidCredentialsMessage    = "Invalid email or password"
	UserNotFoundMessage          = "User not found"
	TokenGenerationFailedMessage = "Failed to generate authentication token"
	InvalidRefreshTokenMessage   = "Invalid or expired refresh token"
	RefreshTokenRevokedMessage   = "Refresh token has been revoked"
	PasswordResetTokenSent       = "Password reset token has been sent to your email"
	InvalidPasswordResetToken    = "Invalid or expired password reset token"
	PasswordResetSuccess         = "Password has been reset successfully"
	LogoutSuccess                = "Logged out successfully"
)

// JWT claim names.
const (
	ClaimSubject = "sub"
	ClaimEmail   = "email"
	ClaimRole    = "role"
)
