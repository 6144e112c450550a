package dto

import (
	"docengine/internal/domain/catalogs/bankaccount"
)

// BankAccountRequest creates or edits a bank account.
type BankAccountRequest struct {
	BankName      string `json:"bankName" form:"bankName" validate:"required,max=200"`
	AccountName   string `json:"accountName" form:"accountName" validate:"required,max=200"`
	AccountNumber string `json:"accountNumber" form:"accountNumber" validate:"required,max=50"`
	IsDefault     bool   `json:"isDefault" form:"isDefault"`
}

// ToInput converts to the domain input.
func (r *BankAccountRequest) ToInput() bankaccount.Input {
	return bankaccount.Input{
		BankName:      r.BankName,
		AccountName:   r.AccountName,
		AccountNumber: r.AccountNumber,
		IsDefault:     r.IsDefault,
	}
}
