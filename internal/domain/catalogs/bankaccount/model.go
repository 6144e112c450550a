// Package bankaccount provides the bank accounts printed on documents.
package bankaccount

import (
	"context"
	"strings"

	"docengine/internal/core/apperror"
	"docengine/internal/core/entity"
	"docengine/internal/core/id"
)

// BankAccount belongs to a company; at most one per company is the default.
type BankAccount struct {
	entity.OwnedEntity

	CompanyID     id.ID  `db:"company_id" json:"companyId"`
	BankName      string `db:"bank_name" json:"bankName"`
	AccountName   string `db:"account_name" json:"accountName"`
	AccountNumber string `db:"account_number" json:"accountNumber"`
	IsDefault     bool   `db:"is_default" json:"isDefault"`
}

// NewBankAccount creates an account for the given company.
func NewBankAccount(owner, companyID id.ID) *BankAccount {
	return &BankAccount{
		OwnedEntity: entity.NewOwnedEntity(owner),
		CompanyID:   companyID,
	}
}

// Validate implements entity.Validatable.
func (b *BankAccount) Validate(_ context.Context) error {
	b.BankName = strings.TrimSpace(b.BankName)
	b.AccountName = strings.TrimSpace(b.AccountName)
	b.AccountNumber = strings.TrimSpace(b.AccountNumber)

	fields := map[string]string{}
	if b.BankName == "" {
		fields["bankName"] = "bank name is required"
	}
	if b.AccountName == "" {
		fields["accountName"] = "account name is required"
	}
	if b.AccountNumber == "" {
		fields["accountNumber"] = "account number is required"
	}
	if len(fields) > 0 {
		return apperror.NewFieldValidation(fields)
	}
	return nil
}

// PickDefault returns the default account, else the first one, else nil.
func PickDefault(accounts []*BankAccount) *BankAccount {
	for _, a := range accounts {
		if a.IsDefault {
			return a
		}
	}
	if len(accounts) > 0 {
		return accounts[0]
	}
	return nil
}
