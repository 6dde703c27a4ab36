package impl

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"hrpm/config"
	"hrpm/internal/domain/entity"
	"hrpm/internal/domain/repository"
	"hrpm/internal/domain/service"
	"hrpm/internal/infra/auth"
	"hrpm/internal/infra/persistence/memory"
	"hrpm/internal/infra/ratelimit"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func newDiscardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestConfig(exposeToken bool) *config.Config {
	cfg := &config.Config{}
	cfg.JWT.RefreshTokenDays = "7"
	cfg.PasswordReset.TokenExpirationHours = "1"
	cfg.PasswordReset.ExposeToken = exposeToken

	return cfg
}

func newTestTokenService(t *testing.T) service.TokenService {
	t.Helper()

	tokens, err := auth.NewJWTService(auth.JWTOptions{
		Key:       "test-signing-key-with-enough-entropy-0123456789",
		Issuer:    "hrpm",
		Audience:  "hrpm-test",
		AccessTTL: time.Hour,
	})
	require.NoError(t, err)

	return tokens
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []*service.PasswordResetEvent
	err    error
}

func (p *recordingPublisher) PublishPasswordResetRequested(_ context.Context, event *service.PasswordResetEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.events = append(p.events, event)

	return p.err
}

func (p *recordingPublisher) Close() error {
	return nil
}

func (p *recordingPublisher) published() []*service.PasswordResetEvent {
	p.mu.Lock()
	defer p.mu.Unlock()

	return append([]*service.PasswordResetEvent(nil), p.events...)
}

type recordingMetrics struct {
	mu     sync.Mutex
	counts map[string]int
}

func newRecordingMetrics() *recordingMetrics {
	return &recordingMetrics{counts: make(map[string]int)}
}

func (m *recordingMetrics) inc(key string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.counts[key]++
}

func (m *recordingMetrics) count(key string) int {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.counts[key]
}

func (m *recordingMetrics) LoginAttempt(outcome string)           { m.inc("login:" + outcome) }
func (m *recordingMetrics) RefreshAttempt(outcome string)         { m.inc("refresh:" + outcome) }
func (m *recordingMetrics) Logout()                               { m.inc("logout") }
func (m *recordingMetrics) PasswordResetRequested()               { m.inc("reset_requested") }
func (m *recordingMetrics) PasswordResetCompleted(outcome string) { m.inc("reset:" + outcome) }
func (m *recordingMetrics) RefreshTokenReuse()                    { m.inc("reuse") }

// authFixture wires the auth service to the memory driver and the real token adapters.
type authFixture struct {
	store     *memory.Store
	service   *authService
	users     repository.UserRepository
	refreshes repository.RefreshTokenRepository
	resets    repository.PasswordResetRepository
	hasher    service.PasswordHasher
	tokens    service.TokenGenerator
	publisher *recordingPublisher
	metrics   *recordingMetrics
}

func newAuthFixture(t *testing.T, exposeToken bool) *authFixture {
	t.Helper()

	store := memory.NewStore()
	f := &authFixture{
		store:     store,
		users:     memory.NewUserRepository(store),
		refreshes: memory.NewRefreshTokenRepository(store),
		resets:    memory.NewPasswordResetRepository(store),
		hasher:    auth.NewBcryptHasherWithCost(bcrypt.MinCost),
		tokens:    auth.NewOpaqueTokenGenerator(),
		publisher: &recordingPublisher{},
		metrics:   newRecordingMetrics(),
	}

	f.service = NewAuthService(AuthServiceParams{
		TxManager:        memory.NewTransactionManager(store),
		UserRepo:         f.users,
		RefreshTokenRepo: f.refreshes,
		ResetRepo:        f.resets,
		Hasher:           f.hasher,
		TokenService:     newTestTokenService(t),
		TokenGenerator:   f.tokens,
		Publisher:        f.publisher,
		Limiter:          ratelimit.NewNoopLimiter(),
		Metrics:          f.metrics,
		Config:           newTestConfig(exposeToken),
		Logger:           newDiscardLogger(),
	}).(*authService)

	return f
}

func (f *authFixture) seedUser(t *testing.T, name, email, password string, role entity.Role) *entity.User {
	t.Helper()

	hash, err := f.hasher.Hash(password)
	require.NoError(t, err)

	user := &entity.User{Name: name, Email: email, Role: role, PasswordHash: hash}
	require.NoError(t, f.users.Create(context.Background(), user))

	return user
}

func (f *authFixture) refreshValid(t *testing.T, plain string) bool {
	t.Helper()

	valid, err := f.refreshes.IsRefreshTokenValid(context.Background(), f.tokens.Hash(plain))
	require.NoError(t, err)

	return valid
}

func (f *authFixture) resetValid(t *testing.T, plain string) bool {
	t.Helper()

	valid, err := f.resets.IsPasswordResetValid(context.Background(), f.tokens.Hash(plain))
	require.NoError(t, err)

	return valid
}
