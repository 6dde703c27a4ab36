package handler

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"hrpm/config"
	deliverycontext "hrpm/internal/delivery/context"
	"hrpm/internal/domain/constants"
	"hrpm/internal/domain/service"
	mockSvc "hrpm/internal/mocks/service"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"google.golang.org/api/idtoken"
)

func newTestHandler(t *testing.T) (*PushHandler, *mockSvc.MockMailer) {
	t.Helper()

	mailer := mockSvc.NewMockMailer(t)
	h := NewPushHandler(PushHandlerParams{
		Config: &config.Config{},
		Logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
		Mailer: mailer,
	})

	return h, mailer
}

func testEvent() *service.PasswordResetEvent {
	return &service.PasswordResetEvent{
		EventID:    "01HZX0000000000000000000AA",
		RequestID:  "req-from-event",
		UserID:     "7b0f2f4e-6a43-4c8e-a1c1-0c3e2f1b9d11",
		Email:      "jane@example.com",
		Name:       "Jane",
		ResetToken: "reset-token",
		ExpiresAt:  time.Now().Add(time.Hour),
	}
}

func pushBody(t *testing.T, data string, attributes map[string]string) string {
	t.Helper()

	var msg PubSubMessage
	msg.Message.Data = data
	msg.Message.Attributes = attributes
	msg.Message.MessageID = "1"
	msg.Subscription = "projects/local/subscriptions/password-reset-sub"

	raw, err := json.Marshal(msg)
	require.NoError(t, err)

	return string(raw)
}

func encodeEvent(t *testing.T, event *service.PasswordResetEvent) string {
	t.Helper()

	raw, err := json.Marshal(event)
	require.NoError(t, err)

	return base64.StdEncoding.EncodeToString(raw)
}

func push(h *PushHandler, body string, header http.Header) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/push", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	for k, v := range header {
		req.Header[k] = v
	}
	rec := httptest.NewRecorder()
	c := echo.New().NewContext(req, rec)

	_ = h.HandlePush(c)

	return rec
}

func TestHandlePush_Delivers(t *testing.T) {
	h, mailer := newTestHandler(t)
	event := testEvent()

	var gotRequestID string
	mailer.EXPECT().
		SendPasswordReset(mock.Anything, mock.MatchedBy(func(e *service.PasswordResetEvent) bool {
			return e.EventID == event.EventID && e.ResetToken == event.ResetToken
		})).
		Run(func(ctx context.Context, _ *service.PasswordResetEvent) {
			gotRequestID = deliverycontext.GetRequestIDFromContext(ctx)
		}).
		Return(nil).
		Once()

	rec := push(h, pushBody(t, encodeEvent(t, event), map[string]string{
		"event_type": constants.EventTypePasswordResetRequested,
		"request_id": "req-from-attributes",
	}), nil)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "req-from-attributes", gotRequestID)
}

func TestHandlePush_RequestIDFallsBackToEvent(t *testing.T) {
	h, mailer := newTestHandler(t)

	var gotRequestID string
	mailer.EXPECT().SendPasswordReset(mock.Anything, mock.Anything).
		Run(func(ctx context.Context, _ *service.PasswordResetEvent) {
			gotRequestID = deliverycontext.GetRequestIDFromContext(ctx)
		}).
		Return(nil).
		Once()

	rec := push(h, pushBody(t, encodeEvent(t, testEvent()), nil), nil)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "req-from-event", gotRequestID)
}

func TestHandlePush_AcknowledgesUndeliverable(t *testing.T) {
	incomplete := testEvent()
	incomplete.ResetToken = ""

	cases := []struct {
		name string
		body func(t *testing.T) string
	}{
		{"malformed envelope", func(*testing.T) string { return `{"message":` }},
		{"invalid base64", func(t *testing.T) string { return pushBody(t, "%%%not-base64", nil) }},
		{"invalid event json", func(t *testing.T) string {
			return pushBody(t, base64.StdEncoding.EncodeToString([]byte("{")), nil)
		}},
		{"missing token", func(t *testing.T) string { return pushBody(t, encodeEvent(t, incomplete), nil) }},
		{"unknown event type", func(t *testing.T) string {
			return pushBody(t, encodeEvent(t, testEvent()), map[string]string{"event_type": "user.deleted"})
		}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			h, _ := newTestHandler(t)

			rec := push(h, tc.body(t), nil)

			assert.Equal(t, http.StatusOK, rec.Code)
		})
	}
}

func TestHandlePush_MailerFailureIsRetried(t *testing.T) {
	h, mailer := newTestHandler(t)
	mailer.EXPECT().SendPasswordReset(mock.Anything, mock.Anything).Return(errors.New("smtp unavailable")).Once()

	rec := push(h, pushBody(t, encodeEvent(t, testEvent()), nil), nil)

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestHandlePush_VerifiesPushToken(t *testing.T) {
	body := func(t *testing.T) string { return pushBody(t, encodeEvent(t, testEvent()), nil) }

	t.Run("enabled only for google outside develop", func(t *testing.T) {
		cfg := &config.Config{PubSub: &config.PubSubConfig{Provider: constants.PubSubProviderGoogle}}
		cfg.Env.Env = constants.EnvProduction
		h := NewPushHandler(PushHandlerParams{Config: cfg, Logger: slog.Default(), Mailer: mockSvc.NewMockMailer(t)})
		assert.True(t, h.verifyPushAuth)

		cfg.Env.Env = constants.EnvDevelop
		h = NewPushHandler(PushHandlerParams{Config: cfg, Logger: slog.Default(), Mailer: mockSvc.NewMockMailer(t)})
		assert.False(t, h.verifyPushAuth)
	})

	t.Run("missing header", func(t *testing.T) {
		h, _ := newTestHandler(t)
		h.verifyPushAuth = true

		rec := push(h, body(t), nil)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("foreign issuer", func(t *testing.T) {
		h, _ := newTestHandler(t)
		h.verifyPushAuth = true
		h.verifyToken = func(context.Context, string, string) (*idtoken.Payload, error) {
			return &idtoken.Payload{Issuer: "https://evil.example.com"}, nil
		}

		rec := push(h, body(t), http.Header{"Authorization": {"Bearer signed"}})

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("valid token", func(t *testing.T) {
		h, mailer := newTestHandler(t)
		h.verifyPushAuth = true

		var gotAudience string
		h.verifyToken = func(_ context.Context, token, audience string) (*idtoken.Payload, error) {
			gotAudience = audience
			if token != "signed" {
				return nil, errors.New("bad token")
			}

			return &idtoken.Payload{Issuer: "https://accounts.google.com", Claims: map[string]any{"email_verified": true}}, nil
		}
		mailer.EXPECT().SendPasswordReset(mock.Anything, mock.Anything).Return(nil).Once()

		rec := push(h, body(t), http.Header{"Authorization": {"Bearer signed"}})

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "http://example.com/push", gotAudience)
	})
}
