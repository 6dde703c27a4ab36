package http

import (
	"encoding/json"
	"io"
	"log/slog"
	nethttp "net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"hrpm/config"
	deliverycontext "hrpm/internal/delivery/context"
	httpmiddleware "hrpm/internal/delivery/http/middleware"
	"hrpm/internal/delivery/http/router"
	"hrpm/internal/delivery/http/router/handler"
	deliverymiddleware "hrpm/internal/delivery/middleware"
	"hrpm/internal/domain/constants"
	"hrpm/internal/domain/entity"
	domainerrors "hrpm/internal/domain/errors"
	"hrpm/internal/domain/service"
	"hrpm/internal/infra/auth"
	"hrpm/internal/infra/metrics"
	mockUC "hrpm/internal/mocks/usecase"
	"hrpm/internal/usecase"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type envelope struct {
	Success bool            `json:"success"`
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
	Error   *struct {
		Code    string `json:"code"`
		Details string `json:"details"`
	} `json:"error"`
}

type testServer struct {
	echo     *echo.Echo
	tokens   service.TokenService
	auth     *mockUC.MockAuthUsecase
	users    *mockUC.MockUserUsecase
	sessions *mockUC.MockSessionUsecase
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	cfg := &config.Config{}
	cfg.HTTP.MaxRequestBodySize = "1KB"
	cfg.Metrics.Enabled = true

	tokens, err := auth.NewJWTService(auth.JWTOptions{
		Key:       "test-signing-key-with-enough-entropy-0123456789",
		Issuer:    "hrpm",
		Audience:  "hrpm-test",
		AccessTTL: time.Hour,
	})
	require.NoError(t, err)

	ts := &testServer{
		tokens:   tokens,
		auth:     mockUC.NewMockAuthUsecase(t),
		users:    mockUC.NewMockUserUsecase(t),
		sessions: mockUC.NewMockSessionUsecase(t),
	}

	ts.echo = NewEcho(HTTPParams{
		Config:           cfg,
		Logger:           logger,
		Registry:         metrics.NewRegistry(),
		ErrorMiddleware:  httpmiddleware.NewErrorMiddleware(logger),
		RequestIDHandler: deliverymiddleware.NewRequestIDMiddleware(logger),
		RequestLogger:    deliverymiddleware.NewLoggerMiddleware(logger, cfg),
		RouterParams: router.RouterParams{
			AuthHandler:    handler.NewAuthHandler(ts.auth),
			UserHandler:    handler.NewUserHandler(ts.users),
			SessionHandler: handler.NewSessionHandler(ts.sessions),
			AuthMiddleware: httpmiddleware.NewAuthMiddleware(tokens, logger),
		},
	})

	return ts
}

func (ts *testServer) bearer(t *testing.T, id uuid.UUID, role entity.Role) string {
	t.Helper()

	token, err := ts.tokens.GenerateAccessToken(&entity.User{
		ID:    id,
		Name:  "Jane",
		Email: "jane@example.com",
		Role:  role,
	})
	require.NoError(t, err)

	return "Bearer " + token.Token
}

func (ts *testServer) do(t *testing.T, method, path, body, authorization string) (*httptest.ResponseRecorder, envelope) {
	t.Helper()

	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	if authorization != "" {
		req.Header.Set(echo.HeaderAuthorization, authorization)
	}
	rec := httptest.NewRecorder()

	ts.echo.ServeHTTP(rec, req)

	var env envelope
	if strings.HasPrefix(rec.Header().Get(echo.HeaderContentType), echo.MIMEApplicationJSON) {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	}

	return rec, env
}

func TestServer_HealthCheck(t *testing.T) {
	ts := newTestServer(t)

	rec, env := ts.do(t, nethttp.MethodGet, "/health", "", "")

	assert.Equal(t, nethttp.StatusOK, rec.Code)
	assert.True(t, env.Success)
	assert.Equal(t, "Service is healthy", env.Message)
	assert.NotEmpty(t, rec.Header().Get(deliverycontext.HeaderXRequestID))
}

func TestServer_RequestID(t *testing.T) {
	ts := newTestServer(t)

	req := httptest.NewRequest(nethttp.MethodGet, "/health", nil)
	req.Header.Set(deliverycontext.HeaderXRequestID, "client-supplied-id")
	rec := httptest.NewRecorder()
	ts.echo.ServeHTTP(rec, req)
	assert.Equal(t, "client-supplied-id", rec.Header().Get(deliverycontext.HeaderXRequestID))

	req = httptest.NewRequest(nethttp.MethodGet, "/health", nil)
	req.Header.Set(deliverycontext.HeaderXRequestID, strings.Repeat("x", 200))
	rec = httptest.NewRecorder()
	ts.echo.ServeHTTP(rec, req)
	generated := rec.Header().Get(deliverycontext.HeaderXRequestID)
	_, err := uuid.Parse(generated)
	assert.NoError(t, err)
}

func TestServer_Metrics(t *testing.T) {
	ts := newTestServer(t)

	req := httptest.NewRequest(nethttp.MethodGet, "/metrics", nil)
	rec := httptest.NewRecorder()
	ts.echo.ServeHTTP(rec, req)

	assert.Equal(t, nethttp.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "go_goroutines")
}

func TestServer_Login(t *testing.T) {
	ts := newTestServer(t)
	userID := uuid.New()

	ts.auth.EXPECT().
		Login(mock.Anything, &usecase.LoginInput{Email: "jane@example.com", Password: "Secret1!"}).
		Return(&usecase.LoginOutput{
			AccessToken:  "access",
			RefreshToken: "refresh",
			User:         entity.IdentitySummary{ID: userID, Name: "Jane", Email: "jane@example.com", Role: entity.RoleEmployee},
		}, nil).
		Once()

	rec, env := ts.do(t, nethttp.MethodPost, "/api/auth/login", `{"email":"jane@example.com","password":"Secret1!"}`, "")

	require.Equal(t, nethttp.StatusOK, rec.Code)
	assert.True(t, env.Success)

	var out usecase.LoginOutput
	require.NoError(t, json.Unmarshal(env.Data, &out))
	assert.Equal(t, "access", out.AccessToken)
	assert.Equal(t, "refresh", out.RefreshToken)
	assert.Equal(t, userID, out.User.ID)
}

func TestServer_LoginRejectsInput(t *testing.T) {
	ts := newTestServer(t)

	t.Run("malformed body", func(t *testing.T) {
		rec, env := ts.do(t, nethttp.MethodPost, "/api/auth/login", `{"email":`, "")

		assert.Equal(t, nethttp.StatusBadRequest, rec.Code)
		require.NotNil(t, env.Error)
		assert.Equal(t, "INVALID_INPUT", env.Error.Code)
	})

	t.Run("validation failure", func(t *testing.T) {
		rec, env := ts.do(t, nethttp.MethodPost, "/api/auth/login", `{"email":"not-an-email","password":""}`, "")

		assert.Equal(t, nethttp.StatusBadRequest, rec.Code)
		assert.False(t, env.Success)
		require.NotNil(t, env.Error)
		assert.Equal(t, "VALIDATION_FAILED", env.Error.Code)
		assert.Contains(t, env.Error.Details, "email")
		assert.Contains(t, env.Error.Details, "password")
	})

	t.Run("body too large", func(t *testing.T) {
		body := `{"email":"jane@example.com","password":"` + strings.Repeat("a", 2048) + `"}`
		rec, _ := ts.do(t, nethttp.MethodPost, "/api/auth/login", body, "")

		assert.Equal(t, nethttp.StatusRequestEntityTooLarge, rec.Code)
	})
}

func TestServer_ErrorMapping(t *testing.T) {
	cases := []struct {
		name   string
		err    error
		status int
		code   string
	}{
		{"invalid credentials", domainerrors.ErrInvalidCredentials, nethttp.StatusUnauthorized, "INVALID_CREDENTIALS"},
		{"rate limited", domainerrors.ErrTooManyRequests, nethttp.StatusTooManyRequests, "TOO_MANY_REQUESTS"},
		{"wrapped app error", errors.Wrap(domainerrors.ErrRefreshTokenExpired, "lookup"), nethttp.StatusUnauthorized, "TOKEN_EXPIRED"},
		{"unknown error", errors.New("connection reset by peer"), nethttp.StatusInternalServerError, "INTERNAL_ERROR"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			ts := newTestServer(t)
			ts.auth.EXPECT().Login(mock.Anything, mock.Anything).Return(nil, tc.err).Once()

			rec, env := ts.do(t, nethttp.MethodPost, "/api/auth/login", `{"email":"jane@example.com","password":"Secret1!"}`, "")

			assert.Equal(t, tc.status, rec.Code)
			assert.False(t, env.Success)
			require.NotNil(t, env.Error)
			assert.Equal(t, tc.code, env.Error.Code)
			assert.NotContains(t, rec.Body.String(), "connection reset")
		})
	}
}

func TestServer_ResetPassword(t *testing.T) {
	ts := newTestServer(t)
	body := `{"token":"tok","newPassword":"NewPass1!","confirmPassword":"NewPass1!"}`

	ts.auth.EXPECT().ResetPassword(mock.Anything, mock.Anything).
		Return(&usecase.ResetPasswordOutput{Success: false, Message: constants.InvalidPasswordResetToken}, nil).
		Once()

	rec, env := ts.do(t, nethttp.MethodPost, "/api/auth/reset-password", body, "")

	assert.Equal(t, nethttp.StatusBadRequest, rec.Code)
	assert.False(t, env.Success)
	assert.Equal(t, constants.InvalidPasswordResetToken, env.Message)
	assert.Nil(t, env.Error)

	ts.auth.EXPECT().ResetPassword(mock.Anything, mock.Anything).
		Return(&usecase.ResetPasswordOutput{Success: true, Message: constants.PasswordResetSuccess}, nil).
		Once()

	rec, env = ts.do(t, nethttp.MethodPost, "/api/auth/reset-password", body, "")

	assert.Equal(t, nethttp.StatusOK, rec.Code)
	assert.True(t, env.Success)
}

func TestServer_ResetPasswordMismatch(t *testing.T) {
	ts := newTestServer(t)

	rec, env := ts.do(t, nethttp.MethodPost, "/api/auth/reset-password",
		`{"token":"tok","newPassword":"NewPass1!","confirmPassword":"Other1!x"}`, "")

	assert.Equal(t, nethttp.StatusBadRequest, rec.Code)
	require.NotNil(t, env.Error)
	assert.Equal(t, "VALIDATION_FAILED", env.Error.Code)
	assert.Contains(t, env.Error.Details, "confirmPassword")
}

func TestServer_LogoutAndForgotPassword(t *testing.T) {
	ts := newTestServer(t)

	ts.auth.EXPECT().Logout(mock.Anything, &usecase.LogoutInput{RefreshToken: "refresh"}).Return(nil).Once()
	rec, env := ts.do(t, nethttp.MethodPost, "/api/auth/logout", `{"refreshToken":"refresh"}`, "")
	assert.Equal(t, nethttp.StatusOK, rec.Code)
	assert.Equal(t, constants.LogoutSuccess, env.Message)

	ts.auth.EXPECT().ForgotPassword(mock.Anything, &usecase.ForgotPasswordInput{Email: "ghost@example.com"}).
		Return(&usecase.ForgotPasswordOutput{Success: true, Message: constants.PasswordResetTokenSent}, nil).
		Once()
	rec, env = ts.do(t, nethttp.MethodPost, "/api/auth/forgot-password", `{"email":"ghost@example.com"}`, "")
	assert.Equal(t, nethttp.StatusOK, rec.Code)
	assert.Equal(t, constants.PasswordResetTokenSent, env.Message)
	assert.NotContains(t, string(env.Data), "resetToken")
}

func TestServer_RefreshToken(t *testing.T) {
	ts := newTestServer(t)

	ts.auth.EXPECT().RefreshSession(mock.Anything, &usecase.RefreshSessionInput{RefreshToken: "refresh"}).
		Return(&usecase.TokenPairOutput{AccessToken: "a2", RefreshToken: "r2"}, nil).
		Once()

	rec, env := ts.do(t, nethttp.MethodPost, "/api/auth/refresh-token", `{"refreshToken":"refresh"}`, "")

	require.Equal(t, nethttp.StatusOK, rec.Code)
	var out usecase.TokenPairOutput
	require.NoError(t, json.Unmarshal(env.Data, &out))
	assert.Equal(t, "r2", out.RefreshToken)
}

func TestServer_Authentication(t *testing.T) {
	ts := newTestServer(t)
	userID := uuid.New()

	t.Run("missing header", func(t *testing.T) {
		rec, env := ts.do(t, nethttp.MethodGet, "/api/auth/me", "", "")

		assert.Equal(t, nethttp.StatusUnauthorized, rec.Code)
		require.NotNil(t, env.Error)
		assert.Equal(t, "UNAUTHORIZED", env.Error.Code)
	})

	t.Run("not a bearer token", func(t *testing.T) {
		rec, env := ts.do(t, nethttp.MethodGet, "/api/auth/me", "", "Basic dXNlcjpwYXNz")

		assert.Equal(t, nethttp.StatusUnauthorized, rec.Code)
		require.NotNil(t, env.Error)
		assert.Equal(t, "ACCESS_TOKEN_INVALID", env.Error.Code)
	})

	t.Run("garbage token", func(t *testing.T) {
		rec, env := ts.do(t, nethttp.MethodGet, "/api/auth/me", "", "Bearer not.a.jwt")

		assert.Equal(t, nethttp.StatusUnauthorized, rec.Code)
		require.NotNil(t, env.Error)
		assert.Equal(t, "ACCESS_TOKEN_INVALID", env.Error.Code)
	})

	t.Run("valid token", func(t *testing.T) {
		ts.users.EXPECT().
			GetProfile(mock.Anything, usecase.Principal{UserID: userID, Email: "jane@example.com", Role: entity.RoleEmployee}).
			Return(&entity.IdentitySummary{ID: userID, Name: "Jane", Email: "jane@example.com", Role: entity.RoleEmployee}, nil).
			Once()

		rec, env := ts.do(t, nethttp.MethodGet, "/api/auth/me", "", ts.bearer(t, userID, entity.RoleEmployee))

		require.Equal(t, nethttp.StatusOK, rec.Code)
		var out entity.IdentitySummary
		require.NoError(t, json.Unmarshal(env.Data, &out))
		assert.Equal(t, userID, out.ID)
	})
}

func TestServer_Sessions(t *testing.T) {
	ts := newTestServer(t)
	userID := uuid.New()
	caller := usecase.Principal{UserID: userID, Email: "jane@example.com", Role: entity.RoleEmployee}

	ts.sessions.EXPECT().ListSessions(mock.Anything, caller).
		Return([]*entity.SessionInfo{{ID: uuid.New()}, {ID: uuid.New()}}, nil).
		Once()

	rec, env := ts.do(t, nethttp.MethodGet, "/api/auth/sessions", "", ts.bearer(t, userID, entity.RoleEmployee))
	require.Equal(t, nethttp.StatusOK, rec.Code)
	var sessions []entity.SessionInfo
	require.NoError(t, json.Unmarshal(env.Data, &sessions))
	assert.Len(t, sessions, 2)

	ts.sessions.EXPECT().RevokeAllSessions(mock.Anything, caller, userID).Return(int64(2), nil).Once()

	rec, env = ts.do(t, nethttp.MethodPost, "/api/auth/sessions/revoke", "", ts.bearer(t, userID, entity.RoleEmployee))
	require.Equal(t, nethttp.StatusOK, rec.Code)
	assert.JSONEq(t, `{"revoked":2}`, string(env.Data))
}

func TestServer_RolePolicies(t *testing.T) {
	createBody := `{"name":"Bob","email":"bob@example.com","password":"Secret1!","role":"Manager"}`

	t.Run("employee cannot create users", func(t *testing.T) {
		ts := newTestServer(t)

		rec, env := ts.do(t, nethttp.MethodPost, "/api/users", createBody, ts.bearer(t, uuid.New(), entity.RoleEmployee))

		assert.Equal(t, nethttp.StatusForbidden, rec.Code)
		require.NotNil(t, env.Error)
		assert.Equal(t, "FORBIDDEN", env.Error.Code)
	})

	t.Run("admin creates users", func(t *testing.T) {
		ts := newTestServer(t)
		created := &entity.IdentitySummary{ID: uuid.New(), Name: "Bob", Email: "bob@example.com", Role: entity.RoleManager}
		ts.users.EXPECT().CreateUser(mock.Anything, &usecase.CreateUserInput{
			Name: "Bob", Email: "bob@example.com", Password: "Secret1!", Role: "Manager",
		}).Return(created, nil).Once()

		rec, env := ts.do(t, nethttp.MethodPost, "/api/users", createBody, ts.bearer(t, uuid.New(), entity.RoleAdmin))

		assert.Equal(t, nethttp.StatusCreated, rec.Code)
		assert.True(t, env.Success)
	})

	t.Run("duplicate email", func(t *testing.T) {
		ts := newTestServer(t)
		ts.users.EXPECT().CreateUser(mock.Anything, mock.Anything).
			Return(nil, errors.Wrap(domainerrors.ErrUserAlreadyExists, "create")).
			Once()

		rec, _ := ts.do(t, nethttp.MethodPost, "/api/users", createBody, ts.bearer(t, uuid.New(), entity.RoleAdmin))

		assert.Equal(t, nethttp.StatusConflict, rec.Code)
	})

	t.Run("manager reads users", func(t *testing.T) {
		ts := newTestServer(t)
		target := uuid.New()
		ts.users.EXPECT().GetUser(mock.Anything, target).
			Return(&entity.IdentitySummary{ID: target, Role: entity.RoleEmployee}, nil).
			Once()

		rec, _ := ts.do(t, nethttp.MethodGet, "/api/users/"+target.String(), "", ts.bearer(t, uuid.New(), entity.RoleManager))

		assert.Equal(t, nethttp.StatusOK, rec.Code)
	})

	t.Run("employee cannot read users", func(t *testing.T) {
		ts := newTestServer(t)

		rec, _ := ts.do(t, nethttp.MethodGet, "/api/users/"+uuid.NewString(), "", ts.bearer(t, uuid.New(), entity.RoleEmployee))

		assert.Equal(t, nethttp.StatusForbidden, rec.Code)
	})

	t.Run("malformed user id", func(t *testing.T) {
		ts := newTestServer(t)

		rec, env := ts.do(t, nethttp.MethodGet, "/api/users/not-a-uuid", "", ts.bearer(t, uuid.New(), entity.RoleAdmin))

		assert.Equal(t, nethttp.StatusBadRequest, rec.Code)
		require.NotNil(t, env.Error)
		assert.Equal(t, "INVALID_INPUT", env.Error.Code)
	})

	t.Run("admin revokes a user's sessions", func(t *testing.T) {
		ts := newTestServer(t)
		adminID, target := uuid.New(), uuid.New()
		ts.sessions.EXPECT().
			RevokeAllSessions(mock.Anything, mock.MatchedBy(func(p usecase.Principal) bool { return p.UserID == adminID && p.IsAdmin() }), target).
			Return(int64(3), nil).
			Once()

		rec, env := ts.do(t, nethttp.MethodPost, "/api/users/"+target.String()+"/sessions/revoke", "", ts.bearer(t, adminID, entity.RoleAdmin))

		require.Equal(t, nethttp.StatusOK, rec.Code)
		assert.JSONEq(t, `{"revoked":3}`, string(env.Data))
	})
}
