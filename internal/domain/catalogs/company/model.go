// Package company provides the per-operator company profile.
// A profile carries business identity, financial defaults and the currency pair.
package company

import (
	"context"
	"regexp"
	"strings"
	"unicode/utf8"

	"docengine/internal/core/apperror"
	"docengine/internal/core/entity"
	"docengine/internal/core/id"
	"docengine/internal/core/types"
)

// Fallback currency used when no profile exists.
const (
	FallbackCurrencySymbol = "$"
	FallbackCurrencyCode   = "USD"
)

var currencyCodeRE = regexp.MustCompile(`^[A-Za-z]{3}$`)

// Profile is the singleton company profile of an operator.
type Profile struct {
	entity.OwnedEntity

	Name    string `db:"name" json:"name"`
	Email   string `db:"email" json:"email"`
	Phone   string `db:"phone" json:"phone"`
	Address string `db:"address" json:"address"`
	Website string `db:"website" json:"website"`

	// Asset paths as stored by the upload service (relative or absolute).
	LogoPath      *string `db:"logo_path" json:"logoPath,omitempty"`
	SignaturePath *string `db:"signature_path" json:"signaturePath,omitempty"`

	DefaultTax         types.Money `db:"default_tax" json:"defaultTax"`
	DefaultDiscount    types.Money `db:"default_discount" json:"defaultDiscount"`
	DefaultShippingFee types.Money `db:"default_shipping_fee" json:"defaultShippingFee"`

	// CustomCharges maps a charge label to its amount.
	CustomCharges entity.Attributes `db:"custom_charges" json:"customCharges"`

	CurrencyCode   string `db:"currency_code" json:"currencyCode"`
	CurrencySymbol string `db:"currency_symbol" json:"currencySymbol"`
}

// NewProfile creates an empty profile for owner with the fallback currency.
func NewProfile(owner id.ID) *Profile {
	return &Profile{
		OwnedEntity:    entity.NewOwnedEntity(owner),
		CurrencyCode:   FallbackCurrencyCode,
		CurrencySymbol: FallbackCurrencySymbol,
		CustomCharges:  entity.Attributes{},
	}
}

// Validate implements entity.Validatable.
func (p *Profile) Validate(_ context.Context) error {
	fields := map[string]string{}
	if strings.TrimSpace(p.Name) == "" {
		fields["name"] = "name is required"
	}
	if !currencyCodeRE.MatchString(p.CurrencyCode) {
		fields["currencyCode"] = "currency code must be 3 letters"
	}
	if p.CurrencySymbol == "" || utf8.RuneCountInString(p.CurrencySymbol) > 5 {
		fields["currencySymbol"] = "currency symbol must be 1 to 5 characters"
	}
	if len(fields) > 0 {
		return apperror.NewFieldValidation(fields)
	}
	p.CurrencyCode = strings.ToUpper(p.CurrencyCode)
	return nil
}

// Currency returns the profile's currency pair, falling back to $/USD for a
// nil profile or blank values.
func (p *Profile) Currency() (symbol, code string) {
	symbol, code = FallbackCurrencySymbol, FallbackCurrencyCode
	if p == nil {
		return symbol, code
	}
	if p.CurrencySymbol != "" {
		symbol = p.CurrencySymbol
	}
	if p.CurrencyCode != "" {
		code = p.CurrencyCode
	}
	return symbol, code
}
