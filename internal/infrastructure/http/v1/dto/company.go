package dto

import (
	"docengine/internal/domain/catalogs/company"
)

// CompanyRequest upserts the company profile. Money defaults accept
// free-form strings such as "5%" or "₦3k".
type CompanyRequest struct {
	Name               string            `json:"name" form:"name" validate:"required,max=200"`
	Email              string            `json:"email" form:"email" validate:"omitempty,email"`
	Phone              string            `json:"phone" form:"phone" validate:"max=50"`
	Address            string            `json:"address" form:"address"`
	Website            string            `json:"website" form:"website" validate:"omitempty,url"`
	LogoPath           *string           `json:"logoPath" form:"logoPath"`
	SignaturePath      *string           `json:"signaturePath" form:"signaturePath"`
	DefaultTax         string            `json:"defaultTax" form:"defaultTax"`
	DefaultDiscount    string            `json:"defaultDiscount" form:"defaultDiscount"`
	DefaultShippingFee string            `json:"defaultShippingFee" form:"defaultShippingFee"`
	CustomCharges      map[string]string `json:"customCharges" form:"-"`
	CurrencyCode       string            `json:"currencyCode" form:"currencyCode" validate:"omitempty,len=3,alpha"`
	CurrencySymbol     string            `json:"currencySymbol" form:"currencySymbol" validate:"max=5"`
}

// ToInput converts to the domain input.
func (r *CompanyRequest) ToInput() company.Input {
	return company.Input{
		Name:               r.Name,
		Email:              r.Email,
		Phone:              r.Phone,
		Address:            r.Address,
		Website:            r.Website,
		LogoPath:           r.LogoPath,
		SignaturePath:      r.SignaturePath,
		DefaultTax:         r.DefaultTax,
		DefaultDiscount:    r.DefaultDiscount,
		DefaultShippingFee: r.DefaultShippingFee,
		CustomCharges:      r.CustomCharges,
		CurrencyCode:       r.CurrencyCode,
		CurrencySymbol:     r.CurrencySymbol,
	}
}
