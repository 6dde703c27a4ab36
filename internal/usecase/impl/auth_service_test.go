package impl

import (
	"context"
	"sync"
	"testing"
	"time"

	"hrpm/internal/domain/constants"
	"hrpm/internal/domain/entity"
	domainerrors "hrpm/internal/domain/errors"
	"hrpm/internal/domain/service"
	"hrpm/internal/usecase"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuthService_Scenario(t *testing.T) {
	f := newAuthFixture(t, true)
	ctx := context.Background()
	u1 := f.seedUser(t, "User One", "u1@x.com", "Secret1!", entity.RoleEmployee)

	// 1. Login with the right password.
	login, err := f.service.Login(ctx, &usecase.LoginInput{Email: "u1@x.com", Password: "Secret1!"})
	require.NoError(t, err)
	assert.NotEmpty(t, login.AccessToken)
	assert.NotEmpty(t, login.RefreshToken)
	assert.WithinDuration(t, time.Now().Add(time.Hour), login.ExpiresAt, 5*time.Second)
	assert.Equal(t, entity.IdentitySummary{ID: u1.ID, Name: "User One", Email: "u1@x.com", Role: entity.RoleEmployee}, login.User)

	// 2. Wrong password.
	_, err = f.service.Login(ctx, &usecase.LoginInput{Email: "u1@x.com", Password: "wrong"})
	assert.ErrorIs(t, err, domainerrors.ErrInvalidCredentials)

	// 3. Rotate.
	pair, err := f.service.RefreshSession(ctx, &usecase.RefreshSessionInput{RefreshToken: login.RefreshToken})
	require.NoError(t, err)
	assert.NotEqual(t, login.RefreshToken, pair.RefreshToken)
	assert.NotEmpty(t, pair.AccessToken)
	assert.False(t, f.refreshValid(t, login.RefreshToken))
	assert.True(t, f.refreshValid(t, pair.RefreshToken))

	// 4. Logout then refresh with the logged out token.
	require.NoError(t, f.service.Logout(ctx, &usecase.LogoutInput{RefreshToken: pair.RefreshToken}))
	_, err = f.service.RefreshSession(ctx, &usecase.RefreshSessionInput{RefreshToken: pair.RefreshToken})
	assert.ErrorIs(t, err, domainerrors.ErrRefreshTokenRevoked)

	assert.Equal(t, 1, f.metrics.count("login:"+service.OutcomeSuccess))
	assert.Equal(t, 1, f.metrics.count("login:"+service.OutcomeInvalidCredentials))
	assert.Equal(t, 1, f.metrics.count("refresh:"+service.OutcomeSuccess))
	assert.Equal(t, 1, f.metrics.count("reuse"))
}

func TestAuthService_Login_EmailIsNormalized(t *testing.T) {
	f := newAuthFixture(t, true)
	f.seedUser(t, "Jane", "jane@example.com", "Secret1!", entity.RoleManager)

	out, err := f.service.Login(context.Background(), &usecase.LoginInput{Email: "  Jane@Example.COM ", Password: "Secret1!"})
	require.NoError(t, err)
	assert.Equal(t, entity.RoleManager, out.User.Role)
}

func TestAuthService_Login_FailuresCreateNoRows(t *testing.T) {
	f := newAuthFixture(t, true)
	ctx := context.Background()
	user := f.seedUser(t, "User One", "u1@x.com", "Secret1!", entity.RoleEmployee)

	var first error
	for i := 0; i < 5; i++ {
		_, err := f.service.Login(ctx, &usecase.LoginInput{Email: "u1@x.com", Password: "wrong"})
		require.Error(t, err)
		if first == nil {
			first = err
		}
		assert.ErrorIs(t, err, domainerrors.ErrInvalidCredentials)
		assert.Equal(t, first.Error(), err.Error())
	}

	_, err := f.service.Login(ctx, &usecase.LoginInput{Email: "nobody@x.com", Password: "Secret1!"})
	assert.ErrorIs(t, err, domainerrors.ErrInvalidCredentials)
	assert.Equal(t, first.Error(), err.Error(), "unknown email and wrong password must be indistinguishable")

	active, err := f.refreshes.FindActiveRefreshTokensByUserID(ctx, user.ID)
	require.NoError(t, err)
	assert.Empty(t, active)
}

func TestAuthService_RefreshSession_SingleUse(t *testing.T) {
	f := newAuthFixture(t, true)
	ctx := context.Background()
	f.seedUser(t, "User One", "u1@x.com", "Secret1!", entity.RoleEmployee)

	login, err := f.service.Login(ctx, &usecase.LoginInput{Email: "u1@x.com", Password: "Secret1!"})
	require.NoError(t, err)

	_, err = f.service.RefreshSession(ctx, &usecase.RefreshSessionInput{RefreshToken: login.RefreshToken})
	require.NoError(t, err)

	_, err = f.service.RefreshSession(ctx, &usecase.RefreshSessionInput{RefreshToken: login.RefreshToken})
	assert.ErrorIs(t, err, domainerrors.ErrRefreshTokenRevoked)
}

func TestAuthService_RefreshSession_ConcurrentRedemption(t *testing.T) {
	f := newAuthFixture(t, true)
	ctx := context.Background()
	f.seedUser(t, "User One", "u1@x.com", "Secret1!", entity.RoleEmployee)

	login, err := f.service.Login(ctx, &usecase.LoginInput{Email: "u1@x.com", Password: "Secret1!"})
	require.NoError(t, err)

	const callers = 8
	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		successes int
		revoked   int
	)
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()

			_, err := f.service.RefreshSession(ctx, &usecase.RefreshSessionInput{RefreshToken: login.RefreshToken})

			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				successes++
			case errors.Is(err, domainerrors.ErrRefreshTokenRevoked):
				revoked++
			default:
				t.Errorf("unexpected error: %v", err)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, successes)
	assert.Equal(t, callers-1, revoked)
}

func TestAuthService_RefreshSession_UnknownAndExpired(t *testing.T) {
	f := newAuthFixture(t, true)
	ctx := context.Background()
	f.seedUser(t, "User One", "u1@x.com", "Secret1!", entity.RoleEmployee)

	_, err := f.service.RefreshSession(ctx, &usecase.RefreshSessionInput{RefreshToken: "never-issued"})
	assert.ErrorIs(t, err, domainerrors.ErrRefreshTokenExpired)

	login, err := f.service.Login(ctx, &usecase.LoginInput{Email: "u1@x.com", Password: "Secret1!"})
	require.NoError(t, err)

	f.service.now = func() time.Time { return time.Now().Add(8 * 24 * time.Hour) }
	_, err = f.service.RefreshSession(ctx, &usecase.RefreshSessionInput{RefreshToken: login.RefreshToken})
	assert.ErrorIs(t, err, domainerrors.ErrRefreshTokenExpired)
	assert.False(t, errors.Is(err, domainerrors.ErrRefreshTokenRevoked))
}

func TestAuthService_Logout_UnknownTokenSucceeds(t *testing.T) {
	f := newAuthFixture(t, true)

	err := f.service.Logout(context.Background(), &usecase.LogoutInput{RefreshToken: "never-issued"})
	assert.NoError(t, err)
}

func TestAuthService_ForgotPassword_AtMostOneLiveToken(t *testing.T) {
	f := newAuthFixture(t, true)
	ctx := context.Background()
	f.seedUser(t, "User One", "u1@x.com", "Secret1!", entity.RoleEmployee)

	var issued []string
	for i := 0; i < 4; i++ {
		out, err := f.service.ForgotPassword(ctx, &usecase.ForgotPasswordInput{Email: "u1@x.com"})
		require.NoError(t, err)
		require.NotEmpty(t, out.ResetToken)
		issued = append(issued, out.ResetToken)

		for j, token := range issued {
			assert.Equal(t, j == len(issued)-1, f.resetValid(t, token), "call %d token %d", i, j)
		}
	}

	latest, err := f.resets.FindValidPasswordResetByEmail(ctx, "u1@x.com")
	require.NoError(t, err)
	assert.Equal(t, f.tokens.Hash(issued[len(issued)-1]), latest.TokenHash)
}

func TestAuthService_ForgotPassword_ConcurrentRequests(t *testing.T) {
	f := newAuthFixture(t, true)
	ctx := context.Background()
	f.seedUser(t, "User One", "u1@x.com", "Secret1!", entity.RoleEmployee)

	const callers = 6
	tokens := make([]string, callers)
	var wg sync.WaitGroup
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()

			out, err := f.service.ForgotPassword(ctx, &usecase.ForgotPasswordInput{Email: "u1@x.com"})
			if assert.NoError(t, err) {
				tokens[i] = out.ResetToken
			}
		}(i)
	}
	wg.Wait()

	live := 0
	for _, token := range tokens {
		if f.resetValid(t, token) {
			live++
		}
	}
	assert.Equal(t, 1, live)
}

func TestAuthService_ForgotPassword_EnumerationResistance(t *testing.T) {
	for _, expose := range []bool{false, true} {
		f := newAuthFixture(t, expose)
		ctx := context.Background()
		f.seedUser(t, "Real", "real@x.com", "Secret1!", entity.RoleEmployee)

		unknown, err := f.service.ForgotPassword(ctx, &usecase.ForgotPasswordInput{Email: "unknown@x.com"})
		require.NoError(t, err)
		known, err := f.service.ForgotPassword(ctx, &usecase.ForgotPasswordInput{Email: "real@x.com"})
		require.NoError(t, err)

		assert.True(t, unknown.Success)
		assert.True(t, known.Success)
		assert.Equal(t, constants.PasswordResetTokenSent, unknown.Message)
		assert.Equal(t, unknown.Message, known.Message)
		assert.Empty(t, unknown.ResetToken)
		assert.Equal(t, expose, known.ResetToken != "", "expose=%v", expose)

		events := f.publisher.published()
		require.Len(t, events, 1, "only the registered email produces an event")
		assert.Equal(t, "real@x.com", events[0].Email)
		assert.NotEmpty(t, events[0].EventID)
		assert.True(t, f.resetValid(t, events[0].ResetToken))
	}
}

func TestAuthService_ForgotPassword_PublishFailureIsNotFatal(t *testing.T) {
	f := newAuthFixture(t, false)
	f.publisher.err = errors.New("broker unavailable")
	f.seedUser(t, "User One", "u1@x.com", "Secret1!", entity.RoleEmployee)

	out, err := f.service.ForgotPassword(context.Background(), &usecase.ForgotPasswordInput{Email: "u1@x.com"})
	require.NoError(t, err)
	assert.True(t, out.Success)
	assert.Empty(t, out.ResetToken)
}

func TestAuthService_ResetPassword_RevokesAllSessions(t *testing.T) {
	f := newAuthFixture(t, true)
	ctx := context.Background()
	f.seedUser(t, "User One", "u1@x.com", "Secret1!", entity.RoleEmployee)

	var sessions []string
	for i := 0; i < 3; i++ {
		login, err := f.service.Login(ctx, &usecase.LoginInput{Email: "u1@x.com", Password: "Secret1!"})
		require.NoError(t, err)
		sessions = append(sessions, login.RefreshToken)
	}

	forgot, err := f.service.ForgotPassword(ctx, &usecase.ForgotPasswordInput{Email: "u1@x.com"})
	require.NoError(t, err)

	out, err := f.service.ResetPassword(ctx, &usecase.ResetPasswordInput{
		Token:           forgot.ResetToken,
		NewPassword:     "Better2@",
		ConfirmPassword: "Better2@",
	})
	require.NoError(t, err)
	assert.Equal(t, &usecase.ResetPasswordOutput{Success: true, Message: constants.PasswordResetSuccess}, out)

	for _, session := range sessions {
		assert.False(t, f.refreshValid(t, session))
	}
	assert.False(t, f.resetValid(t, forgot.ResetToken))

	_, err = f.service.Login(ctx, &usecase.LoginInput{Email: "u1@x.com", Password: "Secret1!"})
	assert.ErrorIs(t, err, domainerrors.ErrInvalidCredentials)
	_, err = f.service.Login(ctx, &usecase.LoginInput{Email: "u1@x.com", Password: "Better2@"})
	assert.NoError(t, err)

	again, err := f.service.ResetPassword(ctx, &usecase.ResetPasswordInput{
		Token:           forgot.ResetToken,
		NewPassword:     "Third3#x",
		ConfirmPassword: "Third3#x",
	})
	require.NoError(t, err)
	assert.False(t, again.Success)
	assert.Equal(t, constants.InvalidPasswordResetToken, again.Message)
}

func TestAuthService_ResetPassword_InvalidTokens(t *testing.T) {
	f := newAuthFixture(t, true)
	ctx := context.Background()
	f.seedUser(t, "User One", "u1@x.com", "Secret1!", entity.RoleEmployee)

	out, err := f.service.ResetPassword(ctx, &usecase.ResetPasswordInput{Token: "bogus", NewPassword: "Better2@", ConfirmPassword: "Better2@"})
	require.NoError(t, err)
	assert.Equal(t, &usecase.ResetPasswordOutput{Success: false, Message: constants.InvalidPasswordResetToken}, out)

	forgot, err := f.service.ForgotPassword(ctx, &usecase.ForgotPasswordInput{Email: "u1@x.com"})
	require.NoError(t, err)

	f.service.now = func() time.Time { return time.Now().Add(2 * time.Hour) }
	out, err = f.service.ResetPassword(ctx, &usecase.ResetPasswordInput{Token: forgot.ResetToken, NewPassword: "Better2@", ConfirmPassword: "Better2@"})
	require.NoError(t, err)
	assert.False(t, out.Success)
	assert.Equal(t, constants.InvalidPasswordResetToken, out.Message)
	assert.Equal(t, 2, f.metrics.count("reset:"+service.OutcomeInvalidToken))
}
