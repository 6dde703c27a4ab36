// Package auth provides concrete implementations for authentication-related domain services.
package auth

import (
	"time"

	"hrpm/config"
	"hrpm/internal/domain/entity"
	"hrpm/internal/domain/service"

	"github.com/golang-jwt/jwt/v5"
	"github.com/oklog/ulid/v2"
	"github.com/pkg/errors"
)

// JWTOptions is the immutable signing configuration handed to the token service.
type JWTOptions struct {
	Key       string
	Issuer    string
	Audience  string
	AccessTTL time.Duration
}

// JWTOptionsFromConfig extracts signing options from the loaded configuration.
func JWTOptionsFromConfig(cfg *config.Config) JWTOptions {
	return JWTOptions{
		Key:       cfg.JWT.Key,
		Issuer:    cfg.JWT.Issuer,
		Audience:  cfg.JWT.Audience,
		AccessTTL: cfg.JWT.AccessTokenTTL(),
	}
}

// jwtService is a concrete implementation of the TokenService interface using HS256 JWTs.
type jwtService struct {
	key       []byte
	issuer    string
	audience  string
	accessTTL time.Duration
	now       func() time.Time
}

// NewJWTService validates opts and builds the token service. A missing key,
// issuer or audience is a configuration error and aborts startup.
func NewJWTService(opts JWTOptions) (service.TokenService, error) {
	if opts.Key == "" {
		return nil, errors.New("jwt key must be provided")
	}
	if opts.Issuer == "" {
		return nil, errors.New("jwt issuer must be provided")
	}
	if opts.Audience == "" {
		return nil, errors.New("jwt audience must be provided")
	}

	ttl := opts.AccessTTL
	if ttl <= 0 {
		ttl = 60 * time.Minute
	}

	return &jwtService{
		key:       []byte(opts.Key),
		issuer:    opts.Issuer,
		audience:  opts.Audience,
		accessTTL: ttl,
		now:       time.Now,
	}, nil
}

// GenerateAccessToken creates a signed access token for the user.
func (s *jwtService) GenerateAccessToken(user *entity.User) (*service.AccessToken, error) {
	if user == nil {
		return nil, errors.New("user is required")
	}

	now := s.now()
	expiresAt := now.Add(s.accessTTL)

	claims := service.Claims{
		Email: user.Email,
		Role:  user.Role.String(),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID.String(),
			Issuer:    s.issuer,
			Audience:  jwt.ClaimStrings{s.audience},
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			ID:        ulid.Make().String(),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.key)
	if err != nil {
		return nil, errors.Wrap(err, "failed to sign access token")
	}

	return &service.AccessToken{
		Token:     signed,
		ExpiresAt: claims.ExpiresAt.Time,
	}, nil
}

// ValidateToken parses the token and checks signature, expiry, issuer and audience.
func (s *jwtService) ValidateToken(tokenString string) (*service.Claims, error) {
	claims := &service.Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (any, error) {
		// Ensure the signing method is what we expect.
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}

		return s.key, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(s.issuer),
		jwt.WithAudience(s.audience),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		return nil, errors.Wrap(err, "failed to parse token")
	}
	if !token.Valid {
		return nil, errors.New("token is not valid")
	}

	return claims, nil
}

// GetAccessTokenDuration returns the configured duration for access tokens.
func (s *jwtService) GetAccessTokenDuration() time.Duration {
	return s.accessTTL
}
