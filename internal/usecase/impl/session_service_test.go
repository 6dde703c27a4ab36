package impl

import (
	"context"
	"testing"

	"hrpm/internal/domain/entity"
	domainerrors "hrpm/internal/domain/errors"
	"hrpm/internal/domain/repository"
	mockRepo "hrpm/internal/mocks/repository"
	"hrpm/internal/usecase"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func principalOf(user *entity.User) usecase.Principal {
	return usecase.Principal{UserID: user.ID, Email: user.Email, Role: user.Role}
}

func TestSessionService_ListSessions(t *testing.T) {
	f := newAuthFixture(t, true)
	ctx := context.Background()
	user := f.seedUser(t, "User One", "u1@x.com", "Secret1!", entity.RoleEmployee)
	other := f.seedUser(t, "User Two", "u2@x.com", "Secret1!", entity.RoleEmployee)
	sessions := NewSessionService(f.users, f.refreshes, newDiscardLogger())

	first, err := f.service.Login(ctx, &usecase.LoginInput{Email: "u1@x.com", Password: "Secret1!"})
	require.NoError(t, err)
	_, err = f.service.Login(ctx, &usecase.LoginInput{Email: "u1@x.com", Password: "Secret1!"})
	require.NoError(t, err)
	_, err = f.service.Login(ctx, &usecase.LoginInput{Email: "u2@x.com", Password: "Secret1!"})
	require.NoError(t, err)
	require.NoError(t, f.service.Logout(ctx, &usecase.LogoutInput{RefreshToken: first.RefreshToken}))

	list, err := sessions.ListSessions(ctx, principalOf(user))
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.False(t, list[0].ExpiresAt.IsZero())

	list, err = sessions.ListSessions(ctx, principalOf(other))
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestSessionService_RevokeAllSessions(t *testing.T) {
	f := newAuthFixture(t, true)
	ctx := context.Background()
	admin := f.seedUser(t, "Admin", "admin@x.com", "Secret1!", entity.RoleAdmin)
	manager := f.seedUser(t, "Manager", "manager@x.com", "Secret1!", entity.RoleManager)
	employee := f.seedUser(t, "Employee", "employee@x.com", "Secret1!", entity.RoleEmployee)
	sessions := NewSessionService(f.users, f.refreshes, newDiscardLogger())

	var tokens []string
	for i := 0; i < 2; i++ {
		out, err := f.service.Login(ctx, &usecase.LoginInput{Email: "employee@x.com", Password: "Secret1!"})
		require.NoError(t, err)
		tokens = append(tokens, out.RefreshToken)
	}

	_, err := sessions.RevokeAllSessions(ctx, principalOf(manager), employee.ID)
	assert.ErrorIs(t, err, domainerrors.ErrForbidden)

	_, err = sessions.RevokeAllSessions(ctx, principalOf(admin), uuid.New())
	assert.ErrorIs(t, err, domainerrors.ErrUserNotFound)

	count, err := sessions.RevokeAllSessions(ctx, principalOf(admin), employee.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)
	for _, token := range tokens {
		assert.False(t, f.refreshValid(t, token))
	}

	count, err = sessions.RevokeAllSessions(ctx, principalOf(employee), employee.ID)
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestSessionService_ListSessions_Error(t *testing.T) {
	refreshes := mockRepo.NewMockRefreshTokenRepository(t)
	sessions := NewSessionService(mockRepo.NewMockUserRepository(t), refreshes, newDiscardLogger())
	ctx := context.Background()
	principal := usecase.Principal{UserID: uuid.New(), Role: entity.RoleEmployee}
	dbError := errors.New("database connection failed")

	refreshes.EXPECT().FindActiveRefreshTokensByUserID(ctx, principal.UserID).Return(nil, dbError)

	list, err := sessions.ListSessions(ctx, principal)
	assert.Nil(t, list)
	assert.ErrorIs(t, err, dbError)
}

func TestSessionService_RevokeAllSessions_Error(t *testing.T) {
	users := mockRepo.NewMockUserRepository(t)
	refreshes := mockRepo.NewMockRefreshTokenRepository(t)
	sessions := NewSessionService(users, refreshes, newDiscardLogger())
	ctx := context.Background()
	principal := usecase.Principal{UserID: uuid.New(), Role: entity.RoleEmployee}

	users.EXPECT().FindByID(ctx, principal.UserID).Return(&entity.User{ID: principal.UserID}, nil)
	refreshes.EXPECT().RevokeRefreshTokensByUserID(ctx, principal.UserID).Return(0, repository.ErrConcurrentUpdate)

	_, err := sessions.RevokeAllSessions(ctx, principal, principal.UserID)
	assert.ErrorIs(t, err, repository.ErrConcurrentUpdate)
}
