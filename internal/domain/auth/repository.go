package auth

import (
	"context"

	"docengine/internal/core/id"
)

// UserRepository defines persistence for operator accounts. Accounts are
// global rows, not scoped to an owner.
type UserRepository interface {
	// Create fails with a field error on "email" when the address is taken.
	Create(ctx context.Context, user *User) error
	Update(ctx context.Context, user *User) error
	GetByID(ctx context.Context, userID id.ID) (*User, error)
	// GetByEmail matches the normalized address.
	GetByEmail(ctx context.Context, email string) (*User, error)
}
