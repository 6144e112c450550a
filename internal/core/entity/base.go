package entity

import (
	"context"
	"time"

	"docengine/internal/core/id"
)

// Validatable is implemented by entities that support self-validation.
// Validation checks internal invariants (without database access).
type Validatable interface {
	// Validate checks entity invariants.
	// Returns nil if valid, AppError with details otherwise.
	Validate(ctx context.Context) error
}

// Timestamps are maintained by the service layer, not by triggers.
type Timestamps struct {
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt time.Time `db:"updated_at" json:"updatedAt"`
}

// Touch updates the UpdatedAt timestamp.
func (t *Timestamps) Touch() {
	t.UpdatedAt = time.Now().UTC()
}

// OwnedEntity is the base of every tenant-scoped row.
type OwnedEntity struct {
	// ID is the primary key (UUIDv7)
	ID id.ID `db:"id" json:"id"`

	// OwnerID is the operator the row belongs to. Never taken from client input.
	OwnerID id.ID `db:"owner_id" json:"-"`

	Timestamps
}

// NewOwnedEntity creates a new entity with generated ID and timestamps.
func NewOwnedEntity(owner id.ID) OwnedEntity {
	now := time.Now().UTC()
	return OwnedEntity{
		ID:         id.New(),
		OwnerID:    owner,
		Timestamps: Timestamps{CreatedAt: now, UpdatedAt: now},
	}
}
