// Package render assembles the read-only context an external engine needs
// to print one document: company identity, bank details, currency, amount
// in words and the bound template.
package render

import (
	"context"
	"time"

	"docengine/internal/domain/catalogs/bankaccount"
	"docengine/internal/domain/catalogs/company"
	"docengine/internal/domain/documents"
	"docengine/internal/domain/templates"
)

// Context is everything a renderer may print for one document.
type Context struct {
	Document *documents.Document `json:"document"`
	Template *templates.Template `json:"template"`

	Company             *company.Profile         `json:"company,omitempty"`
	CompanyLogoURL      string                   `json:"companyLogoUrl,omitempty"`
	CompanySignatureURL string                   `json:"companySignatureUrl,omitempty"`
	DefaultBankAccount  *bankaccount.BankAccount `json:"defaultBankAccount,omitempty"`

	CurrencySymbol string `json:"currencySymbol"`
	CurrencyCode   string `json:"currencyCode"`
	FormattedTotal string `json:"formattedTotal"`
	TotalWords     string `json:"totalWords"`

	// Waybill schema in display order; empty for other types.
	Sections []SectionView     `json:"sections,omitempty"`
	Columns  templates.Columns `json:"columns,omitempty"`

	GeneratedAt time.Time `json:"generatedAt"`
}

// SectionView is one waybill section with its values.
type SectionView struct {
	Key    string      `json:"key"`
	Label  string      `json:"label"`
	Fields []FieldView `json:"fields"`
}

// FieldView is one labelled value.
type FieldView struct {
	Key   string `json:"key"`
	Label string `json:"label"`
	Value string `json:"value"`
}

// Renderer turns a context into output bytes.
type Renderer interface {
	HTML(ctx context.Context, rc *Context) ([]byte, error)
	PDF(ctx context.Context, rc *Context) ([]byte, error)
}
