// Package documents provides the document aggregate shared by invoices,
// quotations, waybills, receipts and job orders.
//
// The five kinds are one shape with a doc_type discriminant. They differ in
// status sets, number prefixes and, for waybills, the template-defined
// schema of custom data and item rows.
package documents

import (
	"context"
	"time"

	"docengine/internal/core/apperror"
	"docengine/internal/core/entity"
	"docengine/internal/core/id"
	"docengine/internal/core/types"
	"docengine/internal/domain/doctype"
)

// Document is the header of a numbered business document.
type Document struct {
	entity.OwnedEntity

	DocType    doctype.Type `db:"doc_type" json:"docType"`
	TemplateID *id.ID       `db:"template_id" json:"templateId,omitempty"`

	// Number is assigned once on create and never changes.
	Number string `db:"number" json:"number"`

	Date time.Time `db:"date" json:"date"`
	// SecondaryDate is due_date, valid_until or delivery_date depending on
	// the type. See doctype.Info.SecondaryDate.
	SecondaryDate *time.Time `db:"secondary_date" json:"secondaryDate,omitempty"`

	ClientID      *id.ID `db:"client_id" json:"clientId,omitempty"`
	ClientName    string `db:"client_name" json:"clientName"`
	ClientEmail   string `db:"client_email" json:"clientEmail"`
	ClientPhone   string `db:"client_phone" json:"clientPhone"`
	ClientAddress string `db:"client_address" json:"clientAddress"`

	Subtotal      types.Money `db:"subtotal" json:"subtotal"`
	TotalTax      types.Money `db:"total_tax" json:"totalTax"`
	TotalDiscount types.Money `db:"total_discount" json:"totalDiscount"`
	ShippingFee   types.Money `db:"shipping_fee" json:"shippingFee"`
	OtherCharges  types.Money `db:"other_charges" json:"otherCharges"`
	GrandTotal    types.Money `db:"grand_total" json:"grandTotal"`
	AmountPaid    types.Money `db:"amount_paid" json:"amountPaid"`

	Status string `db:"status" json:"status"`
	Notes  string `db:"notes" json:"notes"`
	Terms  string `db:"terms" json:"terms"`

	// CustomData holds waybill sections and quotation custom fields.
	CustomData entity.Attributes `db:"custom_data" json:"customData"`

	// Quotation provenance.
	ConvertedInvoiceID *id.ID     `db:"converted_invoice_id" json:"convertedInvoiceId,omitempty"`
	ConversionDate     *time.Time `db:"conversion_date" json:"conversionDate,omitempty"`

	Items []Item `db:"-" json:"items"`
}

// Item is one row of a document. Waybill rows use ItemData; all other
// kinds use the priced fields.
type Item struct {
	ID         id.ID `db:"id" json:"id"`
	DocumentID id.ID `db:"document_id" json:"-"`
	RowOrder   int   `db:"row_order" json:"rowOrder"`

	ProductService string      `db:"product_service" json:"productService"`
	Description    string      `db:"description" json:"description"`
	Quantity       types.Money `db:"quantity" json:"quantity"`
	UnitPrice      types.Money `db:"unit_price" json:"unitPrice"`
	LineTotal      types.Money `db:"line_total" json:"lineTotal"`

	ItemData entity.Attributes `db:"item_data" json:"itemData,omitempty"`
}

// NewDocument creates an empty document of docType dated today.
func NewDocument(owner id.ID, docType doctype.Type, today time.Time) *Document {
	info := doctype.MustLookup(docType)
	return &Document{
		OwnedEntity: entity.NewOwnedEntity(owner),
		DocType:     docType,
		Date:        truncateDay(today),
		Status:      info.DefaultStatus,
		CustomData:  entity.Attributes{},
		Items:       make([]Item, 0),
	}
}

// Info returns the per-type constants.
func (d *Document) Info() doctype.Info {
	return doctype.MustLookup(d.DocType)
}

// Validate implements entity.Validatable.
func (d *Document) Validate(_ context.Context) error {
	fields := map[string]string{}
	info, ok := doctype.Lookup(d.DocType)
	if !ok {
		return apperror.NewFieldError("docType", "unknown document type")
	}
	if !info.HasStatus(d.Status) {
		fields["status"] = "invalid status for " + info.Title
	}
	if d.Date.IsZero() {
		fields["date"] = "date is required"
	}
	if d.SecondaryDate != nil {
		if info.SecondaryDate == "" {
			d.SecondaryDate = nil
		} else if d.SecondaryDate.Before(d.Date) {
			fields[info.SecondaryDate] = "must not be before the document date"
		}
	}
	if len(d.Items) == 0 {
		fields["items"] = "at least one item is required"
	}
	for name, m := range map[string]types.Money{
		"totalTax":      d.TotalTax,
		"totalDiscount": d.TotalDiscount,
		"shippingFee":   d.ShippingFee,
		"otherCharges":  d.OtherCharges,
		"amountPaid":    d.AmountPaid,
	} {
		if m.IsNegative() {
			fields[name] = "must not be negative"
		}
	}
	if len(fields) > 0 {
		return apperror.NewFieldValidation(fields)
	}
	return nil
}

// IsConverted reports whether a quotation already produced an invoice.
func (d *Document) IsConverted() bool {
	return d.ConvertedInvoiceID != nil
}

func truncateDay(t time.Time) time.Time {
	y, m, day := t.Date()
	return time.Date(y, m, day, 0, 0, 0, 0, time.UTC)
}
