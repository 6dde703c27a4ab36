package service

import (
	"time"

	"hrpm/internal/domain/entity"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/pkg/errors"
)

// Claims defines the custom claims carried by access tokens.
type Claims struct {
	Email string `json:"email"`
	Role  string `json:"role"`
	jwt.RegisteredClaims
}

// UserID parses the subject claim.
func (c *Claims) UserID() (uuid.UUID, error) {
	id, err := uuid.Parse(c.Subject)
	if err != nil {
		return uuid.Nil, errors.Wrap(err, "invalid subject claim")
	}

	return id, nil
}

// AccessToken is a signed access token and its expiry.
type AccessToken struct {
	Token     string
	ExpiresAt time.Time
}

// TokenService issues and verifies signed access tokens.
type TokenService interface {
	// GenerateAccessToken signs a token carrying the user's id, email and role.
	GenerateAccessToken(user *entity.User) (*AccessToken, error)

	// ValidateToken verifies signature, expiry, issuer and audience.
	ValidateToken(tokenString string) (*Claims, error)

	// GetAccessTokenDuration returns the configured access token lifetime.
	GetAccessTokenDuration() time.Duration
}

// TokenGenerator creates opaque single-use secrets (refresh and reset tokens)
// and derives the digest under which they are stored.
type TokenGenerator interface {
	Generate() (string, error)
	Hash(token string) string
}
