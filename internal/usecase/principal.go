package usecase

import (
	"hrpm/internal/domain/entity"

	"github.com/google/uuid"
)

// Principal is the authenticated caller, extracted from a verified access token
// by the delivery layer and passed explicitly to usecases.
type Principal struct {
	UserID uuid.UUID
	Email  string
	Role   entity.Role
}

// IsAdmin reports whether the principal holds the Admin role.
func (p Principal) IsAdmin() bool {
	return p.Role == entity.RoleAdmin
}
