package handler

import (
	"net/http"

	deliverycontext "hrpm/internal/delivery/context"
	"hrpm/internal/delivery/http/response"
	"hrpm/internal/usecase"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

// SessionHandler exposes session management.
type SessionHandler struct {
	uc usecase.SessionUsecase
}

// NewSessionHandler is the constructor for SessionHandler, injected by Fx.
func NewSessionHandler(uc usecase.SessionUsecase) *SessionHandler {
	return &SessionHandler{uc: uc}
}

type revokeSessionsOutput struct {
	Revoked int64 `json:"revoked"`
}

// ListSessions lists the caller's live sessions.
func (h *SessionHandler) ListSessions(c echo.Context) error {
	principal, ok := deliverycontext.GetPrincipal(c)
	if !ok {
		return response.Unauthorized(c, "UNAUTHORIZED", "Authentication is required")
	}

	sessions, err := h.uc.ListSessions(c.Request().Context(), principal)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, sessions, "Sessions retrieved successfully")
}

// RevokeOwnSessions signs the caller out everywhere.
func (h *SessionHandler) RevokeOwnSessions(c echo.Context) error {
	principal, ok := deliverycontext.GetPrincipal(c)
	if !ok {
		return response.Unauthorized(c, "UNAUTHORIZED", "Authentication is required")
	}

	return h.revoke(c, principal, principal.UserID)
}

// RevokeUserSessions revokes every session of the user in the path.
func (h *SessionHandler) RevokeUserSessions(c echo.Context) error {
	principal, ok := deliverycontext.GetPrincipal(c)
	if !ok {
		return response.Unauthorized(c, "UNAUTHORIZED", "Authentication is required")
	}

	userID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return response.BadRequest(c, "INVALID_INPUT", "Invalid user id")
	}

	return h.revoke(c, principal, userID)
}

func (h *SessionHandler) revoke(c echo.Context, actor usecase.Principal, userID uuid.UUID) error {
	count, err := h.uc.RevokeAllSessions(c.Request().Context(), actor, userID)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, revokeSessionsOutput{Revoked: count}, "Sessions revoked successfully")
}
