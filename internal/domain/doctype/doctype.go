// Package doctype describes the five document kinds handled by the engine.
//
// All kinds share one storage shape and one code path; they differ only in
// the data declared here plus the dynamic schema of waybills.
package doctype

import (
	"slices"

	pkgnum "docengine/pkg/numerator"
)

// Type is the discriminant stored in documents.doc_type and templates.doc_type.
type Type string

const (
	Invoice   Type = "invoice"
	Quotation Type = "quotation"
	Waybill   Type = "waybill"
	Receipt   Type = "receipt"
	JobOrder  Type = "job_order"
)

// Info holds per-type constants.
type Info struct {
	Type          Type
	Slug          string // URL segment
	Title         string // default rendered heading
	DefaultPrefix string
	Statuses      []string
	DefaultStatus string
	// SecondaryDate names the optional second date; empty when the type has none.
	SecondaryDate string
	// Monthly numbering inserts MM after YYYY.
	Monthly bool
}

var registry = map[Type]Info{
	Invoice: {
		Type:          Invoice,
		Slug:          "invoices",
		Title:         "Invoice",
		DefaultPrefix: "INV",
		Statuses:      []string{"unpaid", "partial", "paid", "delivered"},
		DefaultStatus: "unpaid",
		SecondaryDate: "due_date",
		Monthly:       true,
	},
	Quotation: {
		Type:          Quotation,
		Slug:          "quotations",
		Title:         "Quotation",
		DefaultPrefix: "QT",
		Statuses:      []string{"draft", "sent", "accepted", "declined", "expired"},
		DefaultStatus: "draft",
		SecondaryDate: "valid_until",
		Monthly:       true,
	},
	Waybill: {
		Type:          Waybill,
		Slug:          "waybills",
		Title:         "Waybill",
		DefaultPrefix: "WB",
		Statuses: []string{
			"pending", "processing", "dispatched", "delivered", "not_delivered",
			"returned", "cancelled", "on_hold", "awaiting_pickup",
		},
		DefaultStatus: "pending",
		SecondaryDate: "delivery_date",
		Monthly:       false,
	},
	Receipt: {
		Type:          Receipt,
		Slug:          "receipts",
		Title:         "Receipt",
		DefaultPrefix: "REC",
		Statuses:      []string{"draft", "issued", "void"},
		DefaultStatus: "issued",
		Monthly:       true,
	},
	JobOrder: {
		Type:          JobOrder,
		Slug:          "job-orders",
		Title:         "Job Order",
		DefaultPrefix: "JO",
		Statuses:      []string{"pending", "in_progress", "completed", "cancelled", "on_hold"},
		DefaultStatus: "pending",
		SecondaryDate: "due_date",
		Monthly:       true,
	},
}

// All returns every type in a stable order.
func All() []Type {
	return []Type{Invoice, Quotation, Waybill, Receipt, JobOrder}
}

// Lookup returns the info of t.
func Lookup(t Type) (Info, bool) {
	info, ok := registry[t]
	return info, ok
}

// MustLookup returns the info of t, panicking for unknown types.
func MustLookup(t Type) Info {
	info, ok := registry[t]
	if !ok {
		panic("doctype: unknown type " + string(t))
	}
	return info
}

// FromSlug maps a URL segment ("job-orders") to its type.
func FromSlug(slug string) (Type, bool) {
	for _, info := range registry {
		if info.Slug == slug {
			return info.Type, true
		}
	}
	return "", false
}

// Valid reports whether t is a known type.
func (t Type) Valid() bool {
	_, ok := registry[t]
	return ok
}

// HasStatus reports whether status belongs to the type's enumeration.
func (i Info) HasStatus(status string) bool {
	return slices.Contains(i.Statuses, status)
}

// NumberConfig returns the numbering layout for prefix (the type default when empty).
func (i Info) NumberConfig(prefix string) pkgnum.Config {
	if prefix == "" {
		prefix = i.DefaultPrefix
	}
	return pkgnum.Config{
		Prefix:   prefix,
		Monthly:  i.Monthly,
		PadWidth: pkgnum.DefaultPadWidth,
	}
}
