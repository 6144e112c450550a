package company

import "context"

// Repository defines persistence for company profiles.
// The owner is always taken from the context.
type Repository interface {
	// GetByOwner returns NotFound when the operator has no profile yet.
	GetByOwner(ctx context.Context) (*Profile, error)

	// Save inserts or updates the operator's profile.
	Save(ctx context.Context, p *Profile) error
}
