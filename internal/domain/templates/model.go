// Package templates provides per-operator document templates.
//
// A template carries styling and document settings for one document type.
// Waybill templates additionally hold the dynamic schema (custom sections
// and item-table columns) that waybills are validated against.
package templates

import (
	"context"
	"regexp"
	"strings"
	"unicode/utf8"

	"docengine/internal/core/apperror"
	"docengine/internal/core/entity"
	"docengine/internal/core/id"
	"docengine/internal/domain/doctype"
)

// MaxPrefixLength bounds number_prefix.
const MaxPrefixLength = 10

var hexColorRE = regexp.MustCompile(`^#(?:[0-9a-fA-F]{3}|[0-9a-fA-F]{6})$`)

// Styling holds the colors of a template.
type Styling struct {
	PrimaryColor   string `db:"primary_color" json:"primaryColor"`
	SecondaryColor string `db:"secondary_color" json:"secondaryColor"`
	TextColor      string `db:"text_color" json:"textColor"`
	AccentColor    string `db:"accent_color" json:"accentColor"`
}

// Visibility toggles the optional blocks of the rendered document.
type Visibility struct {
	ShowLogo           bool `db:"show_logo" json:"showLogo"`
	ShowCompanyDetails bool `db:"show_company_details" json:"showCompanyDetails"`
	ShowBankDetails    bool `db:"show_bank_details" json:"showBankDetails"`
	ShowSignature      bool `db:"show_signature" json:"showSignature"`
}

// Template is a styled blueprint for one document type.
type Template struct {
	entity.OwnedEntity

	DocType     doctype.Type `db:"doc_type" json:"docType"`
	Name        string       `db:"name" json:"name"`
	Description string       `db:"description" json:"description"`

	Styling
	Visibility

	DocumentTitle string `db:"document_title" json:"documentTitle"`
	NumberPrefix  string `db:"number_prefix" json:"numberPrefix"`

	DefaultTerms        string `db:"default_terms" json:"defaultTerms"`
	FooterText          string `db:"footer_text" json:"footerText"`
	DefaultPaymentTerms string `db:"default_payment_terms" json:"defaultPaymentTerms"`

	IsDefault bool `db:"is_default" json:"isDefault"`

	// Waybill only. Empty means the built-in schema applies.
	CustomFields Sections `db:"custom_fields" json:"customFields,omitempty"`
	TableColumns Columns  `db:"table_columns" json:"tableColumns,omitempty"`
}

// NewTemplate creates a template for docType with the built-in defaults.
func NewTemplate(owner id.ID, docType doctype.Type) *Template {
	info := doctype.MustLookup(docType)
	return &Template{
		OwnedEntity: entity.NewOwnedEntity(owner),
		DocType:     docType,
		Name:        "Default " + info.Title + " Template",
		Styling: Styling{
			PrimaryColor:   "#2c3e50",
			SecondaryColor: "#34495e",
			TextColor:      "#333333",
			AccentColor:    "#3498db",
		},
		Visibility: Visibility{
			ShowLogo:           true,
			ShowCompanyDetails: true,
			ShowBankDetails:    docType != doctype.Waybill,
			ShowSignature:      true,
		},
		DocumentTitle: strings.ToUpper(info.Title),
		NumberPrefix:  info.DefaultPrefix,
	}
}

// Validate implements entity.Validatable.
func (t *Template) Validate(_ context.Context) error {
	fields := map[string]string{}

	t.Name = strings.TrimSpace(t.Name)
	if t.Name == "" {
		fields["name"] = "name is required"
	} else if utf8.RuneCountInString(t.Name) > 100 {
		fields["name"] = "name must be at most 100 characters"
	}
	if !t.DocType.Valid() {
		fields["docType"] = "unknown document type"
	}

	t.NumberPrefix = strings.TrimSpace(t.NumberPrefix)
	if utf8.RuneCountInString(t.NumberPrefix) > MaxPrefixLength {
		fields["numberPrefix"] = "prefix must be at most 10 characters"
	} else if strings.ContainsAny(t.NumberPrefix, " /") {
		fields["numberPrefix"] = "prefix must not contain spaces or slashes"
	}

	for key, color := range map[string]string{
		"primaryColor":   t.PrimaryColor,
		"secondaryColor": t.SecondaryColor,
		"textColor":      t.TextColor,
		"accentColor":    t.AccentColor,
	} {
		if color != "" && !hexColorRE.MatchString(color) {
			fields[key] = "must be a hex color"
		}
	}

	if t.DocType == doctype.Waybill {
		validateSchema(t.CustomFields, t.TableColumns, fields)
	} else if len(t.CustomFields) > 0 || len(t.TableColumns) > 0 {
		fields["customFields"] = "only waybill templates carry a schema"
	}

	if len(fields) > 0 {
		return apperror.NewFieldValidation(fields)
	}
	return nil
}

func validateSchema(sections Sections, columns Columns, fields map[string]string) {
	for key, section := range sections {
		if key == "" || strings.ContainsAny(key, " []") {
			fields["customFields"] = "invalid section key " + key
			return
		}
		for fieldKey, f := range section.Fields {
			if fieldKey == "" || strings.ContainsAny(fieldKey, " []") {
				fields["customFields"] = "invalid field key " + key + "." + fieldKey
				return
			}
			if !f.Type.Valid() || f.Type == FieldSection {
				fields["customFields"] = "invalid type for " + key + "." + fieldKey
				return
			}
			if f.Type == FieldSelect && len(f.Options) == 0 {
				fields["customFields"] = key + "." + fieldKey + " needs options"
				return
			}
		}
	}

	seen := make(map[string]bool, len(columns))
	for _, c := range columns {
		if c.Name == "" || strings.ContainsAny(c.Name, " []") {
			fields["tableColumns"] = "invalid column name " + c.Name
			return
		}
		if seen[c.Name] {
			fields["tableColumns"] = "duplicate column " + c.Name
			return
		}
		seen[c.Name] = true
		if !c.Type.Valid() || c.Type == FieldSection {
			fields["tableColumns"] = "invalid type for column " + c.Name
			return
		}
	}
}

// EffectiveCustomFields returns the stored sections or the built-in waybill schema.
func (t *Template) EffectiveCustomFields() Sections {
	if len(t.CustomFields) > 0 {
		return t.CustomFields
	}
	return DefaultWaybillSections()
}

// EffectiveTableColumns returns the stored columns or the built-in waybill columns.
func (t *Template) EffectiveTableColumns() Columns {
	if len(t.TableColumns) > 0 {
		return t.TableColumns
	}
	return DefaultWaybillColumns()
}

// Clone returns a deep copy with a new identity and no default flag.
func (t *Template) Clone(name string) *Template {
	c := *t
	c.OwnedEntity = entity.NewOwnedEntity(t.OwnerID)
	c.Name = name
	c.IsDefault = false

	if t.CustomFields != nil {
		c.CustomFields = make(Sections, len(t.CustomFields))
		for k, s := range t.CustomFields {
			fields := make(map[string]Field, len(s.Fields))
			for fk, f := range s.Fields {
				if f.Options != nil {
					opts := make(map[string]string, len(f.Options))
					for ok, ov := range f.Options {
						opts[ok] = ov
					}
					f.Options = opts
				}
				fields[fk] = f
			}
			s.Fields = fields
			c.CustomFields[k] = s
		}
	}
	if t.TableColumns != nil {
		c.TableColumns = append(Columns(nil), t.TableColumns...)
	}
	return &c
}
