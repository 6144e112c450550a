package templates

import (
	"bytes"
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"sort"
)

// FieldType enumerates the input kinds a waybill schema may declare.
type FieldType string

const (
	FieldText     FieldType = "text"
	FieldTextarea FieldType = "textarea"
	FieldNumber   FieldType = "number"
	FieldDate     FieldType = "date"
	FieldEmail    FieldType = "email"
	FieldPhone    FieldType = "phone"
	FieldSelect   FieldType = "select"
	FieldCheckbox FieldType = "checkbox"
	FieldSection  FieldType = "section"
)

// Valid reports whether t is a known field type.
func (t FieldType) Valid() bool {
	switch t {
	case FieldText, FieldTextarea, FieldNumber, FieldDate, FieldEmail,
		FieldPhone, FieldSelect, FieldCheckbox, FieldSection:
		return true
	}
	return false
}

// Field describes one custom header field.
type Field struct {
	Label       string            `json:"label"`
	Type        FieldType         `json:"type"`
	Required    bool              `json:"required,omitempty"`
	Placeholder string            `json:"placeholder,omitempty"`
	HelpText    string            `json:"help_text,omitempty"`
	Options     map[string]string `json:"options,omitempty"`
	Order       int               `json:"order,omitempty"`

	// Rule is an optional CEL expression over `value` that must hold.
	Rule        string `json:"rule,omitempty"`
	RuleMessage string `json:"rule_message,omitempty"`
}

// Section groups fields under a heading.
type Section struct {
	Label  string           `json:"label"`
	Type   FieldType        `json:"type"`
	Order  int              `json:"order,omitempty"`
	Fields map[string]Field `json:"fields"`
}

// FieldKeys returns the field keys ordered by Order, then key.
func (s Section) FieldKeys() []string {
	keys := make([]string, 0, len(s.Fields))
	for k := range s.Fields {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		a, b := s.Fields[keys[i]], s.Fields[keys[j]]
		if a.Order != b.Order {
			return a.Order < b.Order
		}
		return keys[i] < keys[j]
	})
	return keys
}

// Sections is the custom_fields schema: section key -> section.
type Sections map[string]Section

// Keys returns the section keys ordered by Order, then key.
func (s Sections) Keys() []string {
	keys := make([]string, 0, len(s))
	for k := range s {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		a, b := s[keys[i]], s[keys[j]]
		if a.Order != b.Order {
			return a.Order < b.Order
		}
		return keys[i] < keys[j]
	})
	return keys
}

// Scan implements sql.Scanner for JSONB.
func (s *Sections) Scan(src any) error {
	return scanJSON(src, s)
}

// Value implements driver.Valuer for JSONB.
func (s Sections) Value() (driver.Value, error) {
	if s == nil {
		return []byte("{}"), nil
	}
	return json.Marshal(s)
}

// Column describes one waybill item-table column.
type Column struct {
	Name        string    `json:"name"`
	Label       string    `json:"label"`
	Type        FieldType `json:"type"`
	Width       string    `json:"width,omitempty"`
	Placeholder string    `json:"placeholder,omitempty"`
	Rule        string    `json:"rule,omitempty"`
	RuleMessage string    `json:"rule_message,omitempty"`
}

// Columns is the ordered table_columns schema.
type Columns []Column

// Scan implements sql.Scanner for JSONB.
func (c *Columns) Scan(src any) error {
	return scanJSON(src, c)
}

// Value implements driver.Valuer for JSONB.
func (c Columns) Value() (driver.Value, error) {
	if c == nil {
		return []byte("[]"), nil
	}
	return json.Marshal(c)
}

func scanJSON(src any, dest any) error {
	var raw []byte
	switch v := src.(type) {
	case nil:
		return nil
	case []byte:
		raw = v
	case string:
		raw = []byte(v)
	default:
		return fmt.Errorf("unsupported type for schema: %T", src)
	}
	if len(bytes.TrimSpace(raw)) == 0 {
		return nil
	}
	return json.Unmarshal(raw, dest)
}

// DefaultWaybillSections is the schema used while a waybill template has none.
func DefaultWaybillSections() Sections {
	return Sections{
		"sender_info": {
			Label: "Sender Information",
			Type:  FieldSection,
			Order: 1,
			Fields: map[string]Field{
				"sender_name":    {Label: "Sender Name", Type: FieldText, Required: true, Order: 1},
				"sender_address": {Label: "Sender Address", Type: FieldTextarea, Order: 2},
				"sender_phone":   {Label: "Sender Phone", Type: FieldPhone, Order: 3},
			},
		},
		"receiver_info": {
			Label: "Receiver Information",
			Type:  FieldSection,
			Order: 2,
			Fields: map[string]Field{
				"receiver_name":    {Label: "Receiver Name", Type: FieldText, Required: true, Order: 1},
				"receiver_address": {Label: "Receiver Address", Type: FieldTextarea, Order: 2},
				"receiver_phone":   {Label: "Receiver Phone", Type: FieldPhone, Order: 3},
			},
		},
		"shipment_info": {
			Label: "Shipment Details",
			Type:  FieldSection,
			Order: 3,
			Fields: map[string]Field{
				"shipment_date":  {Label: "Shipment Date", Type: FieldDate, Order: 1},
				"vehicle_number": {Label: "Vehicle Number", Type: FieldText, Order: 2},
				"driver_name":    {Label: "Driver Name", Type: FieldText, Order: 3},
				"driver_phone":   {Label: "Driver Phone", Type: FieldPhone, Order: 4},
			},
		},
	}
}

// DefaultWaybillColumns is the item table used while a waybill template has none.
func DefaultWaybillColumns() Columns {
	return Columns{
		{Name: "product_service", Label: "Product/Service", Type: FieldText, Width: "30%"},
		{Name: "description", Label: "Description", Type: FieldText, Width: "30%"},
		{Name: "quantity", Label: "Quantity", Type: FieldNumber, Width: "10%"},
		{Name: "weight", Label: "Weight", Type: FieldText, Width: "15%"},
		{Name: "condition", Label: "Condition", Type: FieldText, Width: "15%"},
	}
}
