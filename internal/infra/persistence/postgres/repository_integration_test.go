//go:build integration

package postgres

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"log/slog"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"hrpm/internal/domain/entity"
	"hrpm/internal/domain/repository"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	gormpostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func setupDB(t *testing.T) *gorm.DB {
	t.Helper()
	ctx := context.Background()

	container, err := tcpostgres.Run(ctx,
		"postgres:16-alpine",
		tcpostgres.WithDatabase("hrpm_test"),
		tcpostgres.WithUsername("hrpm"),
		tcpostgres.WithPassword("hrpm"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second),
		),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = container.Terminate(ctx) })

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	db, err := gorm.Open(gormpostgres.Open(dsn), &gorm.Config{SkipDefaultTransaction: true})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	require.NoError(t, MigrateUp(ctx, sqlDB, slog.Default()))

	statuses, err := MigrationStatuses(ctx, sqlDB)
	require.NoError(t, err)
	for _, st := range statuses {
		assert.True(t, st.Applied, st.Path)
	}

	return db
}

func randomHash() string {
	sum := sha256.Sum256([]byte(uuid.NewString()))

	return hex.EncodeToString(sum[:])
}

func seedUser(t *testing.T, db *gorm.DB, email string) *entity.User {
	t.Helper()

	user := &entity.User{Name: "Test", Email: email, Role: entity.RoleEmployee, PasswordHash: "hash"}
	require.NoError(t, NewUserRepository(db).Create(context.Background(), user))

	return user
}

func TestPostgresRepositories(t *testing.T) {
	db := setupDB(t)
	ctx := context.Background()

	t.Run("user uniqueness and password update", func(t *testing.T) {
		users := NewUserRepository(db)
		user := seedUser(t, db, "dup@example.com")
		assert.NotEqual(t, uuid.Nil, user.ID)

		err := users.Create(ctx, &entity.User{Name: "Other", Email: "dup@example.com", Role: entity.RoleEmployee, PasswordHash: "x"})
		assert.ErrorIs(t, err, repository.ErrUserAlreadyExists)

		require.NoError(t, users.UpdatePasswordHash(ctx, user.ID, "new-hash"))
		got, err := users.FindByEmail(ctx, "dup@example.com")
		require.NoError(t, err)
		assert.Equal(t, "new-hash", got.PasswordHash)

		assert.ErrorIs(t, users.UpdatePasswordHash(ctx, uuid.New(), "x"), repository.ErrUserNotFound)
		assert.ErrorIs(t, users.LockByID(ctx, uuid.New()), repository.ErrUserNotFound)
	})

	t.Run("refresh token compare and set is single winner", func(t *testing.T) {
		user := seedUser(t, db, "cas@example.com")
		tokens := NewRefreshTokenRepository(db)
		token := &entity.RefreshToken{UserID: user.ID, TokenHash: randomHash(), ExpiresAt: time.Now().Add(time.Hour)}
		require.NoError(t, tokens.CreateRefreshToken(ctx, token))

		var winners atomic.Int32
		var wg sync.WaitGroup
		for range 8 {
			wg.Add(1)
			go func() {
				defer wg.Done()
				ok, err := tokens.MarkRefreshTokenUsed(ctx, token.TokenHash)
				assert.NoError(t, err)
				if ok {
					winners.Add(1)
				}
			}()
		}
		wg.Wait()
		assert.Equal(t, int32(1), winners.Load())

		valid, err := tokens.IsRefreshTokenValid(ctx, token.TokenHash)
		require.NoError(t, err)
		assert.False(t, valid)
	})

	t.Run("revoke all tokens of a user", func(t *testing.T) {
		user := seedUser(t, db, "revoke@example.com")
		tokens := NewRefreshTokenRepository(db)
		for range 3 {
			require.NoError(t, tokens.CreateRefreshToken(ctx, &entity.RefreshToken{
				UserID:    user.ID,
				TokenHash: randomHash(),
				ExpiresAt: time.Now().Add(time.Hour),
			}))
		}

		active, err := tokens.FindActiveRefreshTokensByUserID(ctx, user.ID)
		require.NoError(t, err)
		assert.Len(t, active, 3)

		count, err := tokens.RevokeRefreshTokensByUserID(ctx, user.ID)
		require.NoError(t, err)
		assert.Equal(t, int64(3), count)

		active, err = tokens.FindActiveRefreshTokensByUserID(ctx, user.ID)
		require.NoError(t, err)
		assert.Empty(t, active)
	})

	t.Run("password reset invalidation inside a transaction", func(t *testing.T) {
		user := seedUser(t, db, "reset@example.com")
		tm := NewTransactionManager(db)

		for range 3 {
			err := tm.Execute(ctx, func(f repository.RepositoryFactory) error {
				if err := f.UserRepo().LockByID(ctx, user.ID); err != nil {
					return err
				}
				if _, err := f.PasswordResetRepo().InvalidatePasswordResetsByEmail(ctx, user.Email); err != nil {
					return err
				}

				return f.PasswordResetRepo().CreatePasswordReset(ctx, &entity.PasswordResetToken{
					Email:     user.Email,
					TokenHash: randomHash(),
					ExpiresAt: time.Now().Add(time.Hour),
				})
			})
			require.NoError(t, err)
		}

		var live int64
		require.NoError(t, db.Table("password_reset_tokens").
			Where("email = ? AND is_used = ? AND expires_at > ?", user.Email, false, time.Now()).
			Count(&live).Error)
		assert.Equal(t, int64(1), live)

		latest, err := NewPasswordResetRepository(db).FindValidPasswordResetByEmail(ctx, user.Email)
		require.NoError(t, err)

		ok, err := NewPasswordResetRepository(db).MarkPasswordResetUsed(ctx, latest.TokenHash)
		require.NoError(t, err)
		assert.True(t, ok)
		ok, err = NewPasswordResetRepository(db).MarkPasswordResetUsed(ctx, latest.TokenHash)
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("rollback on error", func(t *testing.T) {
		user := seedUser(t, db, "rollback@example.com")
		tm := NewTransactionManager(db)

		err := tm.Execute(ctx, func(f repository.RepositoryFactory) error {
			if err := f.UserRepo().UpdatePasswordHash(ctx, user.ID, "changed"); err != nil {
				return err
			}

			return assert.AnError
		})
		assert.ErrorIs(t, err, assert.AnError)

		got, err := NewUserRepository(db).FindByID(ctx, user.ID)
		require.NoError(t, err)
		assert.Equal(t, "hash", got.PasswordHash)
	})
}
