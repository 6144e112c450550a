package documents

import (
	"strings"
	"time"

	"docengine/internal/core/apperror"
	"docengine/internal/core/id"
	"docengine/internal/core/types"
	"docengine/internal/domain/doctype"
)

// PageSize is the fixed listing page size.
const PageSize = 25

// DefaultSort orders newest documents first.
const DefaultSort = "-created_at"

var sortKeys = map[string]bool{
	"created_at":  true,
	"date":        true,
	"number":      true,
	"grand_total": true,
	"status":      true,
	"client_name": true,
}

// ListFilter holds the listing options. ClientID applies to quotations and
// TemplateID to waybills; both are ignored for other types.
type ListFilter struct {
	Search     string
	Status     string
	DateFrom   *time.Time
	DateTo     *time.Time
	ClientID   *id.ID
	TemplateID *id.ID

	// Sort is a column name, "-" prefixed for descending order.
	Sort string

	// Page is 1-based.
	Page int
}

// Normalize validates f for docType and fills defaults.
func (f ListFilter) Normalize(docType doctype.Type) (ListFilter, error) {
	info := doctype.MustLookup(docType)

	f.Search = strings.TrimSpace(f.Search)
	if f.Status != "" && !info.HasStatus(f.Status) {
		return f, apperror.NewFieldError("status", "invalid status for "+info.Title)
	}
	if f.DateFrom != nil && f.DateTo != nil && f.DateTo.Before(*f.DateFrom) {
		return f, apperror.NewFieldError("date_to", "must not be before date_from")
	}
	if docType != doctype.Quotation {
		f.ClientID = nil
	}
	if docType != doctype.Waybill {
		f.TemplateID = nil
	}
	if f.Sort == "" || !sortKeys[strings.TrimPrefix(f.Sort, "-")] {
		f.Sort = DefaultSort
	}
	if f.Page < 1 {
		f.Page = 1
	}
	return f, nil
}

// Offset returns the row offset of the page.
func (f ListFilter) Offset() int {
	return (f.Page - 1) * PageSize
}

// SortColumn returns the column and direction of Sort.
func (f ListFilter) SortColumn() (column string, desc bool) {
	if strings.HasPrefix(f.Sort, "-") {
		return f.Sort[1:], true
	}
	return f.Sort, false
}

// Aggregates are computed over the whole filtered set, not one page.
type Aggregates struct {
	Count      int64       `json:"count"`
	GrandTotal types.Money `json:"grandTotal"`
	// AmountPaid is reported for invoices only.
	AmountPaid *types.Money `json:"amountPaid,omitempty"`
	// StatusCounts is reported for quotations and waybills only.
	StatusCounts map[string]int64 `json:"statusCounts,omitempty"`
}

// Page is one page of a listing.
type Page struct {
	Items      []*Document `json:"items"`
	Page       int         `json:"page"`
	PageSize   int         `json:"pageSize"`
	TotalPages int         `json:"totalPages"`
	Aggregates Aggregates  `json:"aggregates"`
}

// finish trims type-specific aggregates and fills paging fields.
func (p *Page) finish(docType doctype.Type, f ListFilter) {
	p.Page = f.Page
	p.PageSize = PageSize
	p.TotalPages = int((p.Aggregates.Count + PageSize - 1) / PageSize)
	if p.Items == nil {
		p.Items = []*Document{}
	}
	if docType != doctype.Invoice {
		p.Aggregates.AmountPaid = nil
	}
	if docType != doctype.Quotation && docType != doctype.Waybill {
		p.Aggregates.StatusCounts = nil
	}
}
