// Package entity contains the core business objects of the project,
// each representing a unique, identifiable concept within the domain.
package entity

import (
	"time"

	"github.com/google/uuid"
)

// User is an employee account. It carries the identity and the credential hash
// used for password logins.
type User struct {
	ID           uuid.UUID // The Global Unique Identifier (GUID) for the user.
	Name         string    // Full display name.
	Email        string    // Unique login identifier.
	Role         Role      // Access level used for authorization policies.
	PasswordHash string    // bcrypt hash of the user's password.
	CreatedAt    time.Time // Timestamp of when this user account was created.
	UpdatedAt    time.Time // Timestamp of the last modification to this user's data.
}

// IdentitySummary is the public snapshot of a user returned to clients.
type IdentitySummary struct {
	ID    uuid.UUID `json:"id"`
	Name  string    `json:"name"`
	Email string    `json:"email"`
	Role  Role      `json:"role"`
}

// Summary returns the identity snapshot of the user.
func (u *User) Summary() IdentitySummary {
	return IdentitySummary{
		ID:    u.ID,
		Name:  u.Name,
		Email: u.Email,
		Role:  u.Role,
	}
}
