// Package impl contains the implementation of the application's business logic.
package impl

import (
	"context"
	"log/slog"
	"time"

	"hrpm/config"
	deliverycontext "hrpm/internal/delivery/context"
	"hrpm/internal/domain/constants"
	"hrpm/internal/domain/entity"
	domainerrors "hrpm/internal/domain/errors"
	"hrpm/internal/domain/repository"
	"hrpm/internal/domain/service"
	"hrpm/internal/usecase"
	"hrpm/internal/util"

	"github.com/oklog/ulid/v2"
	"github.com/pkg/errors"
	"github.com/sethvargo/go-retry"
	"go.uber.org/fx"
)

const (
	txMaxRetries   = 3
	txRetryBackoff = 50 * time.Millisecond
)

// authService implements the AuthUsecase interface.
type authService struct {
	txManager        repository.TransactionManager
	userRepo         repository.UserRepository
	refreshTokenRepo repository.RefreshTokenRepository
	resetRepo        repository.PasswordResetRepository
	hasher           service.PasswordHasher
	tokenService     service.TokenService
	tokenGenerator   service.TokenGenerator
	publisher        service.EventPublisher
	limiter          service.RateLimiter
	metrics          service.AuthMetrics
	refreshTTL       time.Duration
	resetTTL         time.Duration
	exposeResetToken bool
	now              func() time.Time
	logger           *slog.Logger
}

// AuthServiceParams holds dependencies for AuthService, injected by Fx.
type AuthServiceParams struct {
	fx.In

	TxManager        repository.TransactionManager
	UserRepo         repository.UserRepository
	RefreshTokenRepo repository.RefreshTokenRepository
	ResetRepo        repository.PasswordResetRepository
	Hasher           service.PasswordHasher
	TokenService     service.TokenService
	TokenGenerator   service.TokenGenerator
	Publisher        service.EventPublisher
	Limiter          service.RateLimiter
	Metrics          service.AuthMetrics
	Config           *config.Config
	Logger           *slog.Logger
}

// NewAuthService is the constructor for authService.
func NewAuthService(params AuthServiceParams) usecase.AuthUsecase {
	return &authService{
		txManager:        params.TxManager,
		userRepo:         params.UserRepo,
		refreshTokenRepo: params.RefreshTokenRepo,
		resetRepo:        params.ResetRepo,
		hasher:           params.Hasher,
		tokenService:     params.TokenService,
		tokenGenerator:   params.TokenGenerator,
		publisher:        params.Publisher,
		limiter:          params.Limiter,
		metrics:          params.Metrics,
		refreshTTL:       params.Config.JWT.RefreshTokenTTL(),
		resetTTL:         params.Config.PasswordReset.TokenTTL(),
		exposeResetToken: params.Config.PasswordReset.ExposeToken,
		now:              time.Now,
		logger:           params.Logger,
	}
}

// log returns a request-scoped logger if available, otherwise falls back to the service's logger.
func (srv *authService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// allow consults the rate limiter. A limiter outage does not lock users out.
func (srv *authService) allow(ctx context.Context, action service.RateLimitAction, email string) bool {
	allowed, err := srv.limiter.Allow(ctx, action, email)
	if err != nil {
		srv.log(ctx).Warn("Rate limiter unavailable", slog.String("action", string(action)), slog.Any("error", err))

		return true
	}

	return allowed
}

// executeWithRetry runs fn in a transaction and retries the whole transaction
// when the store reports a conflicting concurrent write.
func (srv *authService) executeWithRetry(ctx context.Context, fn func(repository.RepositoryFactory) error) error {
	backoff := retry.WithMaxRetries(txMaxRetries, retry.NewExponential(txRetryBackoff))

	return retry.Do(ctx, backoff, func(ctx context.Context) error {
		err := srv.txManager.Execute(ctx, fn)
		if errors.Is(err, repository.ErrConcurrentUpdate) {
			srv.log(ctx).Debug("Retrying transaction after concurrent update", slog.Any("error", err))

			return retry.RetryableError(err)
		}

		return err
	})
}

// Login verifies the credentials and opens a new session.
func (srv *authService) Login(ctx context.Context, input *usecase.LoginInput) (*usecase.LoginOutput, error) {
	email := util.NormalizeEmail(input.Email)
	srv.log(ctx).Debug("Starting user login", slog.String("email", email))

	if !srv.allow(ctx, service.RateLimitLogin, email) {
		srv.metrics.LoginAttempt(service.OutcomeRateLimited)

		return nil, errors.Wrap(domainerrors.ErrTooManyRequests, "login rate limited")
	}

	user, err := srv.userRepo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			srv.log(ctx).Warn("Login failed", slog.String("email", email), slog.String("reason", "unknown email"))
			srv.metrics.LoginAttempt(service.OutcomeInvalidCredentials)

			return nil, errors.Wrap(domainerrors.ErrInvalidCredentials, "login failed")
		}
		srv.metrics.LoginAttempt(service.OutcomeError)

		return nil, errors.Wrap(err, "failed to find user by email")
	}

	// bcrypt is CPU-bound, keep it outside any transaction.
	if !srv.hasher.Check(input.Password, user.PasswordHash) {
		srv.log(ctx).Warn("Login failed", slog.String("email", email), slog.String("reason", "password mismatch"))
		srv.metrics.LoginAttempt(service.OutcomeInvalidCredentials)

		return nil, errors.Wrap(domainerrors.ErrInvalidCredentials, "login failed")
	}

	accessToken, refreshToken, err := srv.issueSession(ctx, srv.refreshTokenRepo, user)
	if err != nil {
		srv.metrics.LoginAttempt(service.OutcomeError)

		return nil, err
	}

	srv.metrics.LoginAttempt(service.OutcomeSuccess)
	srv.log(ctx).Info("User logged in", slog.Any("user_id", user.ID))

	return &usecase.LoginOutput{
		AccessToken:  accessToken.Token,
		ExpiresAt:    accessToken.ExpiresAt,
		RefreshToken: refreshToken,
		User:         user.Summary(),
	}, nil
}

// issueSession signs an access token and persists a fresh refresh token through repo.
func (srv *authService) issueSession(
	ctx context.Context,
	repo repository.RefreshTokenRepository,
	user *entity.User,
) (*service.AccessToken, string, error) {
	accessToken, err := srv.tokenService.GenerateAccessToken(user)
	if err != nil {
		return nil, "", errors.Wrap(domainerrors.ErrTokenGenerationFailed, err.Error())
	}

	refreshToken, err := srv.newRefreshToken(ctx, repo, user)
	if err != nil {
		return nil, "", err
	}

	return accessToken, refreshToken, nil
}

func (srv *authService) newRefreshToken(ctx context.Context, repo repository.RefreshTokenRepository, user *entity.User) (string, error) {
	plain, err := srv.tokenGenerator.Generate()
	if err != nil {
		return "", errors.Wrap(domainerrors.ErrTokenGenerationFailed, err.Error())
	}

	token := &entity.RefreshToken{
		UserID:    user.ID,
		TokenHash: srv.tokenGenerator.Hash(plain),
		ExpiresAt: srv.now().Add(srv.refreshTTL),
	}
	if err := repo.CreateRefreshToken(ctx, token); err != nil {
		return "", errors.Wrap(err, "failed to persist refresh token")
	}

	return plain, nil
}

// RefreshSession rotates a refresh token: the presented token is consumed and a new pair is issued.
func (srv *authService) RefreshSession(ctx context.Context, input *usecase.RefreshSessionInput) (*usecase.TokenPairOutput, error) {
	srv.log(ctx).Debug("Attempting to refresh session")

	tokenHash := srv.tokenGenerator.Hash(input.RefreshToken)

	current, err := srv.refreshTokenRepo.FindRefreshTokenByHash(ctx, tokenHash)
	if err != nil {
		if errors.Is(err, repository.ErrRefreshTokenNotFound) {
			srv.metrics.RefreshAttempt(service.OutcomeExpired)

			return nil, errors.Wrap(domainerrors.ErrRefreshTokenExpired, "refresh token not found")
		}
		srv.metrics.RefreshAttempt(service.OutcomeError)

		return nil, errors.Wrap(err, "failed to find refresh token")
	}

	if current.IsSpent() {
		srv.log(ctx).Warn("Refresh token reuse detected",
			slog.Any("user_id", current.UserID),
			slog.Any("session_id", current.ID),
			slog.Bool("is_used", current.IsUsed),
			slog.Bool("is_revoked", current.IsRevoked))
		srv.metrics.RefreshTokenReuse()
		srv.metrics.RefreshAttempt(service.OutcomeRevoked)

		return nil, errors.Wrap(domainerrors.ErrRefreshTokenRevoked, "refresh token already used or revoked")
	}

	if !current.IsValid(srv.now()) {
		srv.metrics.RefreshAttempt(service.OutcomeExpired)

		return nil, errors.Wrap(domainerrors.ErrRefreshTokenExpired, "refresh token expired")
	}

	user, err := srv.userRepo.FindByID(ctx, current.UserID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			srv.log(ctx).Error("Refresh token owner missing", slog.Any("user_id", current.UserID))
			srv.metrics.RefreshAttempt(service.OutcomeInvalidCredentials)

			return nil, errors.Wrap(domainerrors.ErrAuthUserNotFound, "refresh token owner not found")
		}
		srv.metrics.RefreshAttempt(service.OutcomeError)

		return nil, errors.Wrap(err, "failed to find user")
	}

	accessToken, err := srv.tokenService.GenerateAccessToken(user)
	if err != nil {
		srv.metrics.RefreshAttempt(service.OutcomeError)

		return nil, errors.Wrap(domainerrors.ErrTokenGenerationFailed, err.Error())
	}

	var newRefreshToken string
	err = srv.executeWithRetry(ctx, func(repoFactory repository.RepositoryFactory) error {
		refreshRepo := repoFactory.RefreshTokenRepo()

		// 1. Consume the presented token first. Only one concurrent caller wins.
		consumed, err := refreshRepo.MarkRefreshTokenUsed(ctx, tokenHash)
		if err != nil {
			return errors.Wrap(err, "failed to mark refresh token used")
		}
		if !consumed {
			return errors.Wrap(domainerrors.ErrRefreshTokenRevoked, "refresh token consumed concurrently")
		}

		// 2. Persist the replacement.
		newRefreshToken, err = srv.newRefreshToken(ctx, refreshRepo, user)

		return err
	})
	if err != nil {
		if errors.Is(err, domainerrors.ErrRefreshTokenRevoked) {
			srv.log(ctx).Warn("Refresh token lost rotation race", slog.Any("user_id", user.ID))
			srv.metrics.RefreshTokenReuse()
			srv.metrics.RefreshAttempt(service.OutcomeRevoked)

			return nil, err
		}
		srv.log(ctx).Error("Failed to rotate refresh token", slog.Any("user_id", user.ID), slog.Any("error", err))
		srv.metrics.RefreshAttempt(service.OutcomeError)

		return nil, errors.Wrap(err, "failed to execute refresh session transaction")
	}

	srv.metrics.RefreshAttempt(service.OutcomeSuccess)
	srv.log(ctx).Debug("Session refreshed", slog.Any("user_id", user.ID))

	return &usecase.TokenPairOutput{
		AccessToken:  accessToken.Token,
		ExpiresAt:    accessToken.ExpiresAt,
		RefreshToken: newRefreshToken,
	}, nil
}

// Logout revokes the presented refresh token. Unknown tokens succeed silently.
func (srv *authService) Logout(ctx context.Context, input *usecase.LogoutInput) error {
	tokenHash := srv.tokenGenerator.Hash(input.RefreshToken)

	if err := srv.refreshTokenRepo.MarkRefreshTokenRevoked(ctx, tokenHash); err != nil {
		if errors.Is(err, repository.ErrRefreshTokenNotFound) {
			srv.log(ctx).Debug("Logout with unknown refresh token")
			srv.metrics.Logout()

			return nil
		}
		srv.log(ctx).Error("Failed to revoke refresh token", slog.Any("error", err))

		return errors.Wrap(err, "failed to revoke refresh token")
	}

	srv.metrics.Logout()
	srv.log(ctx).Info("Successfully logged out")

	return nil
}

// ForgotPassword issues a password reset token. The response never reveals whether the email is registered.
func (srv *authService) ForgotPassword(ctx context.Context, input *usecase.ForgotPasswordInput) (*usecase.ForgotPasswordOutput, error) {
	email := util.NormalizeEmail(input.Email)

	if !srv.allow(ctx, service.RateLimitForgotPassword, email) {
		return nil, errors.Wrap(domainerrors.ErrTooManyRequests, "forgot password rate limited")
	}
	srv.metrics.PasswordResetRequested()

	output := &usecase.ForgotPasswordOutput{
		Success: true,
		Message: constants.PasswordResetTokenSent,
	}

	user, err := srv.userRepo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			srv.log(ctx).Info("Password reset requested for unknown email", slog.String("email", util.MaskEmail(email)))

			return output, nil
		}

		return nil, errors.Wrap(err, "failed to find user by email")
	}

	plain, err := srv.tokenGenerator.Generate()
	if err != nil {
		return nil, errors.Wrap(domainerrors.ErrTokenGenerationFailed, err.Error())
	}

	resetToken := &entity.PasswordResetToken{
		Email:     user.Email,
		TokenHash: srv.tokenGenerator.Hash(plain),
		ExpiresAt: srv.now().Add(srv.resetTTL),
	}

	err = srv.executeWithRetry(ctx, func(repoFactory repository.RepositoryFactory) error {
		resetRepo := repoFactory.PasswordResetRepo()

		// Serialises concurrent requests for the same account.
		if err := repoFactory.UserRepo().LockByID(ctx, user.ID); err != nil {
			return errors.Wrap(err, "failed to lock user")
		}

		invalidated, err := resetRepo.InvalidatePasswordResetsByEmail(ctx, user.Email)
		if err != nil {
			return errors.Wrap(err, "failed to invalidate previous reset tokens")
		}
		if invalidated > 0 {
			srv.log(ctx).Debug("Invalidated previous reset tokens", slog.Int64("count", invalidated))
		}

		return errors.Wrap(resetRepo.CreatePasswordReset(ctx, resetToken), "failed to persist reset token")
	})
	if err != nil {
		srv.log(ctx).Error("Failed to issue password reset token", slog.Any("user_id", user.ID), slog.Any("error", err))

		return nil, errors.Wrap(err, "failed to execute forgot password transaction")
	}

	srv.publishResetRequested(ctx, user, plain, resetToken.ExpiresAt)

	if srv.exposeResetToken {
		output.ResetToken = plain
	}

	return output, nil
}

func (srv *authService) publishResetRequested(ctx context.Context, user *entity.User, plain string, expiresAt time.Time) {
	event := &service.PasswordResetEvent{
		EventID:    ulid.Make().String(),
		RequestID:  deliverycontext.GetRequestIDFromContext(ctx),
		UserID:     user.ID.String(),
		Email:      user.Email,
		Name:       user.Name,
		ResetToken: plain,
		ExpiresAt:  expiresAt,
	}

	if err := srv.publisher.PublishPasswordResetRequested(ctx, event); err != nil {
		srv.log(ctx).Error("Failed to publish password reset event",
			slog.String("event_id", event.EventID),
			slog.Any("user_id", user.ID),
			slog.Any("error", err))

		return
	}

	srv.log(ctx).Info("Password reset event published", slog.String("event_id", event.EventID), slog.Any("user_id", user.ID))
}

// ResetPassword redeems a reset token, replaces the password and revokes every session of the user.
func (srv *authService) ResetPassword(ctx context.Context, input *usecase.ResetPasswordInput) (*usecase.ResetPasswordOutput, error) {
	tokenHash := srv.tokenGenerator.Hash(input.Token)
	invalid := &usecase.ResetPasswordOutput{Success: false, Message: constants.InvalidPasswordResetToken}

	resetToken, err := srv.resetRepo.FindPasswordResetByHash(ctx, tokenHash)
	if err != nil {
		if errors.Is(err, repository.ErrPasswordResetNotFound) {
			srv.metrics.PasswordResetCompleted(service.OutcomeInvalidToken)

			return invalid, nil
		}

		return nil, errors.Wrap(err, "failed to find password reset token")
	}
	if !resetToken.IsValid(srv.now()) {
		srv.metrics.PasswordResetCompleted(service.OutcomeInvalidToken)

		return invalid, nil
	}

	user, err := srv.userRepo.FindByEmail(ctx, resetToken.Email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			srv.metrics.PasswordResetCompleted(service.OutcomeInvalidCredentials)

			return &usecase.ResetPasswordOutput{Success: false, Message: constants.UserNotFoundMessage}, nil
		}

		return nil, errors.Wrap(err, "failed to find user by email")
	}

	passwordHash, err := srv.hasher.Hash(input.NewPassword)
	if err != nil {
		return nil, errors.Wrap(domainerrors.ErrPasswordHashFailed, err.Error())
	}

	var revoked int64
	redeemed := false
	err = srv.executeWithRetry(ctx, func(repoFactory repository.RepositoryFactory) error {
		consumed, err := repoFactory.PasswordResetRepo().MarkPasswordResetUsed(ctx, tokenHash)
		if err != nil {
			return errors.Wrap(err, "failed to mark reset token used")
		}
		redeemed = consumed
		if !consumed {
			return nil
		}

		if err := repoFactory.UserRepo().UpdatePasswordHash(ctx, user.ID, passwordHash); err != nil {
			return errors.Wrap(err, "failed to update password")
		}

		revoked, err = repoFactory.RefreshTokenRepo().RevokeRefreshTokensByUserID(ctx, user.ID)

		return errors.Wrap(err, "failed to revoke sessions")
	})
	if err != nil {
		srv.log(ctx).Error("Failed to reset password", slog.Any("user_id", user.ID), slog.Any("error", err))
		srv.metrics.PasswordResetCompleted(service.OutcomeError)

		return nil, errors.Wrap(err, "failed to execute reset password transaction")
	}
	if !redeemed {
		srv.metrics.PasswordResetCompleted(service.OutcomeInvalidToken)

		return invalid, nil
	}

	srv.metrics.PasswordResetCompleted(service.OutcomeSuccess)
	srv.log(ctx).Info("Password reset", slog.Any("user_id", user.ID), slog.Int64("revoked_sessions", revoked))

	return &usecase.ResetPasswordOutput{Success: true, Message: constants.PasswordResetSuccess}, nil
}
