package usecase

import (
	"context"

	"hrpm/internal/domain/entity"

	"github.com/google/uuid"
)

// CreateUserInput describes a new account. Role defaults to Employee.
type CreateUserInput struct {
	Name     string `json:"name" validate:"required,max=100"`
	Email    string `json:"email" validate:"required,email,max=100"`
	Password string `json:"password" validate:"required,min=6,max=100,password"`
	Role     string `json:"role" validate:"omitempty,oneof=Admin Manager Employee"`
}

// UserUsecase defines the interface for user account operations.
type UserUsecase interface {
	GetProfile(ctx context.Context, principal Principal) (*entity.IdentitySummary, error)
	GetUser(ctx context.Context, userID uuid.UUID) (*entity.IdentitySummary, error)
	CreateUser(ctx context.Context, input *CreateUserInput) (*entity.IdentitySummary, error)
}
