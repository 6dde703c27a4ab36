package impl

import (
	"context"
	"log/slog"
	"strings"

	deliverycontext "hrpm/internal/delivery/context"
	"hrpm/internal/domain/entity"
	domainerrors "hrpm/internal/domain/errors"
	"hrpm/internal/domain/repository"
	"hrpm/internal/domain/service"
	"hrpm/internal/usecase"
	"hrpm/internal/util"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/fx"
)

// userService implements the UserUsecase interface.
type userService struct {
	userRepo repository.UserRepository
	hasher   service.PasswordHasher
	logger   *slog.Logger
}

// UserServiceParams holds dependencies for UserService, injected by Fx.
type UserServiceParams struct {
	fx.In

	UserRepo repository.UserRepository
	Hasher   service.PasswordHasher
	Logger   *slog.Logger
}

// NewUserService is the constructor for userService.
func NewUserService(params UserServiceParams) usecase.UserUsecase {
	return &userService{
		userRepo: params.UserRepo,
		hasher:   params.Hasher,
		logger:   params.Logger,
	}
}

func (srv *userService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// GetProfile returns the identity summary of the principal.
func (srv *userService) GetProfile(ctx context.Context, principal usecase.Principal) (*entity.IdentitySummary, error) {
	return srv.GetUser(ctx, principal.UserID)
}

// GetUser returns the identity summary of any user.
func (srv *userService) GetUser(ctx context.Context, userID uuid.UUID) (*entity.IdentitySummary, error) {
	user, err := srv.userRepo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, errors.Wrap(domainerrors.ErrUserNotFound, userID.String())
		}

		return nil, errors.Wrap(err, "failed to find user")
	}

	summary := user.Summary()

	return &summary, nil
}

// CreateUser registers a new account with a hashed password.
func (srv *userService) CreateUser(ctx context.Context, input *usecase.CreateUserInput) (*entity.IdentitySummary, error) {
	role := entity.RoleEmployee
	if strings.TrimSpace(input.Role) != "" {
		parsed, ok := entity.ParseRole(input.Role)
		if !ok {
			return nil, errors.Wrap(domainerrors.ErrInvalidRole, input.Role)
		}
		role = parsed
	}

	email := util.NormalizeEmail(input.Email)

	passwordHash, err := srv.hasher.Hash(input.Password)
	if err != nil {
		return nil, errors.Wrap(domainerrors.ErrPasswordHashFailed, err.Error())
	}

	user := &entity.User{
		Name:         strings.TrimSpace(input.Name),
		Email:        email,
		Role:         role,
		PasswordHash: passwordHash,
	}
	if err := srv.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrUserAlreadyExists) {
			return nil, errors.Wrap(domainerrors.ErrUserAlreadyExists, email)
		}
		srv.log(ctx).Error("Failed to create user", slog.String("email", util.MaskEmail(email)), slog.Any("error", err))

		return nil, errors.Wrap(err, "failed to create user")
	}

	srv.log(ctx).Info("User created", slog.Any("user_id", user.ID), slog.String("role", role.String()))
	summary := user.Summary()

	return &summary, nil
}
