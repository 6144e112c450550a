package catalog_repo

import (
	"context"

	"github.com/Masterminds/squirrel"

	"docengine/internal/core/id"
	"docengine/internal/domain/catalogs/bankaccount"
	"docengine/internal/infrastructure/storage/postgres"
)

// BankAccountRepo implements bankaccount.Repository.
type BankAccountRepo struct {
	*BaseOwnedRepo[*bankaccount.BankAccount]
}

// NewBankAccountRepo creates a new bank account repository.
func NewBankAccountRepo(txm *postgres.TxManager) *BankAccountRepo {
	return &BankAccountRepo{
		BaseOwnedRepo: NewBaseOwnedRepo(txm, "bank_accounts", "bank account",
			func() *bankaccount.BankAccount { return &bankaccount.BankAccount{} }),
	}
}

// Create inserts an account; a repeated number maps to DuplicateAccountNumber.
func (r *BankAccountRepo) Create(ctx context.Context, b *bankaccount.BankAccount) error {
	return r.Insert(ctx, b, b.AccountNumber)
}

// Update saves an account.
func (r *BankAccountRepo) Update(ctx context.Context, b *bankaccount.BankAccount) error {
	return r.UpdateRow(ctx, b, b.ID, b.AccountNumber)
}

// ListByCompany returns the company's accounts in creation order.
func (r *BankAccountRepo) ListByCompany(ctx context.Context, companyID id.ID) ([]*bankaccount.BankAccount, error) {
	return r.SelectAll(ctx, squirrel.Eq{"company_id": companyID}, "created_at", "id")
}

// ClearDefault unsets the company's other default accounts.
func (r *BankAccountRepo) ClearDefault(ctx context.Context, companyID, keep id.ID) error {
	return r.ClearFlag(ctx, "is_default", squirrel.Eq{"company_id": companyID}, keep)
}

var _ bankaccount.Repository = (*BankAccountRepo)(nil)
