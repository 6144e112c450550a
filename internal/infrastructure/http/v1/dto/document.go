package dto

import (
	"bytes"
	"encoding/json"
	"net/url"
	"strings"
	"time"

	"docengine/internal/core/apperror"
	"docengine/internal/core/id"
	"docengine/internal/domain/doctype"
	"docengine/internal/domain/documents"
	domrender "docengine/internal/domain/render"
)

// FlexString accepts a JSON string or number. Money fields go through the
// smart parser, so "5%", "₦3k" and 12.5 are all valid.
type FlexString string

// UnmarshalJSON implements json.Unmarshaler.
func (f *FlexString) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		*f = ""
		return nil
	}
	if b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*f = FlexString(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return err
	}
	*f = FlexString(n.String())
	return nil
}

// DocumentRequest creates or edits a document of any type.
type DocumentRequest struct {
	TemplateID *string `json:"templateId" validate:"omitempty,uuid"`
	Date       *Date   `json:"date"`

	// SecondaryDate may also be sent under its per-type name.
	SecondaryDate *Date `json:"secondaryDate"`
	DueDate       *Date `json:"dueDate"`
	ValidUntil    *Date `json:"validUntil"`
	DeliveryDate  *Date `json:"deliveryDate"`

	ClientID      *string `json:"clientId" validate:"omitempty,uuid"`
	ClientName    string  `json:"clientName" validate:"max=200"`
	ClientEmail   string  `json:"clientEmail" validate:"omitempty,email"`
	ClientPhone   string  `json:"clientPhone" validate:"max=50"`
	ClientAddress string  `json:"clientAddress"`

	TotalTax      FlexString `json:"totalTax"`
	TotalDiscount FlexString `json:"totalDiscount"`
	ShippingFee   FlexString `json:"shippingFee"`
	OtherCharges  FlexString `json:"otherCharges"`
	AmountPaid    FlexString `json:"amountPaid"`

	Status string `json:"status"`
	Notes  string `json:"notes"`
	Terms  string `json:"terms"`

	// Custom holds custom_{section}_{field} and pref_{name} values.
	Custom map[string]string `json:"custom"`

	Items []map[string]any `json:"items"`

	// formItems is set by DocumentRequestFromForm.
	formItems []documents.ItemInput
}

// DocumentRequestFromForm decodes a form post with items[i][field] rows.
func DocumentRequestFromForm(values url.Values, docType doctype.Type) (*DocumentRequest, error) {
	info := doctype.MustLookup(docType)
	fields := map[string]string{}

	date := func(keys ...string) *Date {
		for _, k := range keys {
			v := strings.TrimSpace(values.Get(k))
			if v == "" {
				continue
			}
			t, err := ParseDate(v)
			if err != nil {
				fields[k] = "invalid date"
				return nil
			}
			d := NewDate(t)
			return &d
		}
		return nil
	}
	optional := func(key string) *string {
		v := strings.TrimSpace(values.Get(key))
		if v == "" {
			return nil
		}
		return &v
	}

	r := &DocumentRequest{
		TemplateID:    optional("template_id"),
		Date:          date("date"),
		ClientID:      optional("client_id"),
		ClientName:    values.Get("client_name"),
		ClientEmail:   strings.TrimSpace(values.Get("client_email")),
		ClientPhone:   values.Get("client_phone"),
		ClientAddress: values.Get("client_address"),
		TotalTax:      FlexString(values.Get("total_tax")),
		TotalDiscount: FlexString(values.Get("total_discount")),
		ShippingFee:   FlexString(values.Get("shipping_fee")),
		OtherCharges:  FlexString(values.Get("other_charges")),
		AmountPaid:    FlexString(values.Get("amount_paid")),
		Status:        values.Get("status"),
		Notes:         values.Get("notes"),
		Terms:         values.Get("terms"),
		Custom:        documents.CustomFormValues(values),
		formItems:     documents.ParseIndexedItems(values),
	}
	if info.SecondaryDate != "" {
		r.SecondaryDate = date(info.SecondaryDate, "secondary_date")
	}
	if len(fields) > 0 {
		return nil, apperror.NewFieldValidation(fields)
	}
	return r, nil
}

// ToInput converts to the domain input.
func (r *DocumentRequest) ToInput() (documents.Input, error) {
	fields := map[string]string{}

	templateID, err := OptionalID(r.TemplateID)
	if err != nil {
		fields["templateId"] = "invalid id"
	}
	clientID, err := OptionalID(r.ClientID)
	if err != nil {
		fields["clientId"] = "invalid id"
	}
	if len(fields) > 0 {
		return documents.Input{}, apperror.NewFieldValidation(fields)
	}

	items := r.formItems
	if items == nil {
		items = documents.NormalizeJSONItems(r.Items)
	}

	return documents.Input{
		TemplateID:    templateID,
		Date:          r.Date.TimePtr(),
		SecondaryDate: r.secondary(),
		ClientID:      clientID,
		ClientName:    r.ClientName,
		ClientEmail:   r.ClientEmail,
		ClientPhone:   r.ClientPhone,
		ClientAddress: r.ClientAddress,
		TotalTax:      string(r.TotalTax),
		TotalDiscount: string(r.TotalDiscount),
		ShippingFee:   string(r.ShippingFee),
		OtherCharges:  string(r.OtherCharges),
		AmountPaid:    string(r.AmountPaid),
		Status:        r.Status,
		Notes:         r.Notes,
		Terms:         r.Terms,
		Custom:        r.Custom,
		Items:         items,
	}, nil
}

func (r *DocumentRequest) secondary() *time.Time {
	for _, d := range []*Date{r.SecondaryDate, r.DueDate, r.ValidUntil, r.DeliveryDate} {
		if t := d.TimePtr(); t != nil {
			return t
		}
	}
	return nil
}

// StatusRequest moves a document to another status.
type StatusRequest struct {
	Status string `json:"status" form:"status" validate:"required"`
}

// DocumentListQuery holds the listing query parameters.
type DocumentListQuery struct {
	Search     string `form:"search"`
	Status     string `form:"status"`
	DateFrom   string `form:"date_from"`
	DateTo     string `form:"date_to"`
	ClientID   string `form:"client"`
	TemplateID string `form:"template"`
	Sort       string `form:"sort"`
	Page       int    `form:"page"`
}

// ToFilter converts the query to a listing filter.
func (q *DocumentListQuery) ToFilter() (documents.ListFilter, error) {
	fields := map[string]string{}
	f := documents.ListFilter{
		Search: q.Search,
		Status: q.Status,
		Sort:   q.Sort,
		Page:   q.Page,
	}
	parse := func(key, v string) *time.Time {
		if strings.TrimSpace(v) == "" {
			return nil
		}
		t, err := ParseDate(v)
		if err != nil {
			fields[key] = "invalid date"
			return nil
		}
		return &t
	}
	f.DateFrom = parse("date_from", q.DateFrom)
	f.DateTo = parse("date_to", q.DateTo)

	var err error
	if f.ClientID, err = id.ParseOptional(strings.TrimSpace(q.ClientID)); err != nil {
		fields["client"] = "invalid id"
	}
	if f.TemplateID, err = id.ParseOptional(strings.TrimSpace(q.TemplateID)); err != nil {
		fields["template"] = "invalid id"
	}
	if len(fields) > 0 {
		return f, apperror.NewFieldValidation(fields)
	}
	return f, nil
}

// DocumentDetailResponse is a document with its render context.
type DocumentDetailResponse struct {
	Document *documents.Document `json:"document"`
	Render   *domrender.Context  `json:"render"`
}

// ConversionResponse reports the invoice produced from a quotation.
type ConversionResponse struct {
	InvoiceID     string `json:"invoiceId"`
	InvoiceNumber string `json:"invoiceNumber"`
	Created       bool   `json:"created"`
}
