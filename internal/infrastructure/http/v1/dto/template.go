package dto

import (
	"docengine/internal/domain/templates"
)

// TemplateRequest creates or edits a template. Omitted visibility flags
// keep their current (or built-in) values.
type TemplateRequest struct {
	Name        string `json:"name" validate:"required,max=100"`
	Description string `json:"description"`

	PrimaryColor   string `json:"primaryColor" validate:"omitempty,hexcolor"`
	SecondaryColor string `json:"secondaryColor" validate:"omitempty,hexcolor"`
	TextColor      string `json:"textColor" validate:"omitempty,hexcolor"`
	AccentColor    string `json:"accentColor" validate:"omitempty,hexcolor"`

	ShowLogo           *bool `json:"showLogo"`
	ShowCompanyDetails *bool `json:"showCompanyDetails"`
	ShowBankDetails    *bool `json:"showBankDetails"`
	ShowSignature      *bool `json:"showSignature"`

	DocumentTitle string `json:"documentTitle" validate:"max=100"`
	NumberPrefix  string `json:"numberPrefix" validate:"max=10"`

	DefaultTerms        string `json:"defaultTerms"`
	FooterText          string `json:"footerText"`
	DefaultPaymentTerms string `json:"defaultPaymentTerms"`

	IsDefault bool `json:"isDefault"`

	CustomFields templates.Sections `json:"customFields"`
	TableColumns templates.Columns  `json:"tableColumns"`
}

// ApplyTo copies the request onto t.
func (r *TemplateRequest) ApplyTo(t *templates.Template) {
	t.Name = r.Name
	t.Description = r.Description

	setString(&t.PrimaryColor, r.PrimaryColor)
	setString(&t.SecondaryColor, r.SecondaryColor)
	setString(&t.TextColor, r.TextColor)
	setString(&t.AccentColor, r.AccentColor)

	setBool(&t.ShowLogo, r.ShowLogo)
	setBool(&t.ShowCompanyDetails, r.ShowCompanyDetails)
	setBool(&t.ShowBankDetails, r.ShowBankDetails)
	setBool(&t.ShowSignature, r.ShowSignature)

	setString(&t.DocumentTitle, r.DocumentTitle)
	t.NumberPrefix = r.NumberPrefix

	t.DefaultTerms = r.DefaultTerms
	t.FooterText = r.FooterText
	t.DefaultPaymentTerms = r.DefaultPaymentTerms
	t.IsDefault = r.IsDefault

	t.CustomFields = r.CustomFields
	t.TableColumns = r.TableColumns
}

// ApplyToAllResponse reports how many documents were rebound.
type ApplyToAllResponse struct {
	TemplateID string `json:"templateId"`
	Updated    int64  `json:"updated"`
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

func setBool(dst *bool, v *bool) {
	if v != nil {
		*dst = *v
	}
}
