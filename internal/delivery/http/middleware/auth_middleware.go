package middleware

import (
	"log/slog"
	"strings"

	deliverycontext "hrpm/internal/delivery/context"
	"hrpm/internal/domain/entity"
	domainerrors "hrpm/internal/domain/errors"
	"hrpm/internal/domain/service"
	"hrpm/internal/usecase"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

const bearerPrefix = "Bearer "

// AuthMiddleware provides middleware for JWT authentication and authorization.
type AuthMiddleware struct {
	tokenSvc service.TokenService
	logger   *slog.Logger
}

// NewAuthMiddleware is the constructor for AuthMiddleware.
func NewAuthMiddleware(tokenSvc service.TokenService, logger *slog.Logger) *AuthMiddleware {
	return &AuthMiddleware{tokenSvc: tokenSvc, logger: logger}
}

// Authenticate verifies the bearer access token (signature, expiry, issuer,
// audience) and stores the resulting principal on the context.
func (m *AuthMiddleware) Authenticate(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		authHeader := c.Request().Header.Get(echo.HeaderAuthorization)
		if authHeader == "" {
			return errors.Wrap(domainerrors.ErrUnauthorized, "authorization header is missing")
		}

		if len(authHeader) <= len(bearerPrefix) || !strings.EqualFold(authHeader[:len(bearerPrefix)], bearerPrefix) {
			return errors.Wrap(domainerrors.ErrAccessTokenInvalid, "authorization header is not a bearer token")
		}
		tokenString := strings.TrimSpace(authHeader[len(bearerPrefix):])

		claims, err := m.tokenSvc.ValidateToken(tokenString)
		if err != nil {
			deliverycontext.GetLoggerOrDefault(c.Request().Context(), m.logger).
				Debug("Rejected access token", slog.Any("error", err))

			return errors.Wrap(domainerrors.ErrAccessTokenInvalid, err.Error())
		}

		userID, err := claims.UserID()
		if err != nil {
			return errors.Wrap(domainerrors.ErrAccessTokenInvalid, err.Error())
		}

		role, ok := entity.ParseRole(claims.Role)
		if !ok {
			return errors.Wrapf(domainerrors.ErrAccessTokenInvalid, "unknown role claim %q", claims.Role)
		}

		deliverycontext.SetPrincipal(c, usecase.Principal{
			UserID: userID,
			Email:  claims.Email,
			Role:   role,
		})

		return next(c)
	}
}

// RequireRole allows the request when the principal holds one of roles.
// It must be used AFTER the Authenticate middleware.
func (m *AuthMiddleware) RequireRole(roles ...entity.Role) echo.MiddlewareFunc {
	allowed := entity.Roles(roles)

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			principal, ok := deliverycontext.GetPrincipal(c)
			if !ok {
				return errors.Wrap(domainerrors.ErrUnauthorized, "principal missing")
			}

			if !allowed.Contains(principal.Role) {
				return errors.Wrapf(domainerrors.ErrForbidden, "role %s not in %v", principal.Role, allowed.ToStrings())
			}

			return next(c)
		}
	}
}

// AdminOnly restricts a route to Admin.
func (m *AuthMiddleware) AdminOnly() echo.MiddlewareFunc {
	return m.RequireRole(entity.PolicyAdminOnly...)
}

// ManagerOrAdmin restricts a route to Manager and Admin.
func (m *AuthMiddleware) ManagerOrAdmin() echo.MiddlewareFunc {
	return m.RequireRole(entity.PolicyManagerOrAdmin...)
}
