// Package handler contains the HTTP handlers for the application.
package handler

import (
	"net/http"

	"hrpm/internal/delivery/http/response"
	"hrpm/internal/domain/constants"
	"hrpm/internal/usecase"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

// AuthHandler exposes the AuthUsecase over HTTP.
type AuthHandler struct {
	uc usecase.AuthUsecase
}

// NewAuthHandler is the constructor for AuthHandler, injected by Fx.
func NewAuthHandler(uc usecase.AuthUsecase) *AuthHandler {
	return &AuthHandler{uc: uc}
}

// bind decodes the JSON body into input and runs validation. A body that cannot be
// decoded is answered directly; validation failures are returned for the error handler.
func bind(c echo.Context, input any, invalidMessage string) (handled bool, err error) {
	if err := c.Bind(input); err != nil {
		return true, response.BindingError(c, "INVALID_INPUT", invalidMessage)
	}
	if err := c.Validate(input); err != nil {
		return true, errors.WithStack(err)
	}

	return false, nil
}

// Login handles the user login request.
func (h *AuthHandler) Login(c echo.Context) error {
	var input usecase.LoginInput
	if handled, err := bind(c, &input, "Invalid login input"); handled {
		return err
	}

	output, err := h.uc.Login(c.Request().Context(), &input)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, output, "Login successful")
}

// RefreshToken rotates the presented refresh token.
func (h *AuthHandler) RefreshToken(c echo.Context) error {
	var input usecase.RefreshSessionInput
	if handled, err := bind(c, &input, "Invalid refresh token input"); handled {
		return err
	}

	output, err := h.uc.RefreshSession(c.Request().Context(), &input)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, output, "Token refreshed successfully")
}

// Logout handles the user logout request.
func (h *AuthHandler) Logout(c echo.Context) error {
	var input usecase.LogoutInput
	if handled, err := bind(c, &input, "Invalid logout input"); handled {
		return err
	}

	if err := h.uc.Logout(c.Request().Context(), &input); err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, nil, constants.LogoutSuccess)
}

// ForgotPassword always answers 200 with the same shape.
func (h *AuthHandler) ForgotPassword(c echo.Context) error {
	var input usecase.ForgotPasswordInput
	if handled, err := bind(c, &input, "Invalid forgot password input"); handled {
		return err
	}

	output, err := h.uc.ForgotPassword(c.Request().Context(), &input)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, output, output.Message)
}

// ResetPassword answers 400 in the same envelope when the token is rejected.
func (h *AuthHandler) ResetPassword(c echo.Context) error {
	var input usecase.ResetPasswordInput
	if handled, err := bind(c, &input, "Invalid reset password input"); handled {
		return err
	}

	output, err := h.uc.ResetPassword(c.Request().Context(), &input)
	if err != nil {
		return errors.WithStack(err)
	}

	if !output.Success {
		return response.Failure(c, http.StatusBadRequest, output, output.Message)
	}

	return response.Success(c, http.StatusOK, output, output.Message)
}
