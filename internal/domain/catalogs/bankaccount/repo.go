package bankaccount

import (
	"context"

	"docengine/internal/core/id"
)

// Repository defines persistence for bank accounts. Every method is scoped
// to the operator in ctx.
type Repository interface {
	// Create fails with DuplicateAccountNumber on a repeated (company, number).
	Create(ctx context.Context, b *BankAccount) error
	Update(ctx context.Context, b *BankAccount) error
	GetByID(ctx context.Context, accountID id.ID) (*BankAccount, error)
	Delete(ctx context.Context, accountID id.ID) error

	// ListByCompany returns accounts ordered by creation.
	ListByCompany(ctx context.Context, companyID id.ID) ([]*BankAccount, error)

	// ClearDefault unsets is_default on every account of the company except keep.
	ClearDefault(ctx context.Context, companyID, keep id.ID) error
}
