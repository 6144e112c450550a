package documents

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"docengine/internal/core/apperror"
	"docengine/internal/core/id"
	"docengine/internal/core/types"
	"docengine/internal/domain/doctype"
)

func sentQuotation(t *testing.T, f *fixture) *Document {
	t.Helper()
	q, err := f.svc.Create(f.ctx, doctype.Quotation, Input{
		Status:      "sent",
		ClientName:  "Globex",
		TotalTax:    "34.56",
		ShippingFee: "0",
		Terms:       "50% upfront",
		Items: itemRows([]map[string]string{
			{"product_service": "Design", "quantity": "1", "unit_price": "1000"},
			{"product_service": "Hosting", "quantity": "2", "unit_price": "100"},
		}),
	})
	require.NoError(t, err)
	require.True(t, q.GrandTotal.Equal(types.MustMoney("1234.56")), q.GrandTotal.String())
	return q
}

func TestConvertQuotation(t *testing.T) {
	f := newFixture(t)
	q := sentQuotation(t, f)

	inv, created, err := f.svc.ConvertQuotation(f.ctx, q.ID)
	require.NoError(t, err)
	assert.True(t, created)

	assert.Equal(t, doctype.Invoice, inv.DocType)
	assert.Equal(t, "INV-2024-03-0001", inv.Number)
	assert.Equal(t, "unpaid", inv.Status)
	assert.True(t, inv.GrandTotal.Equal(types.MustMoney("1234.56")))
	assert.True(t, inv.Subtotal.Equal(q.Subtotal))
	assert.Equal(t, "Globex", inv.ClientName)
	assert.Equal(t, "Converted from quotation "+q.Number, inv.Notes)
	require.NotNil(t, inv.SecondaryDate)
	assert.Equal(t, q.Date.AddDate(0, 0, 30), *inv.SecondaryDate)

	items, err := f.repo.GetItems(f.ctx, inv.ID)
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "Design", items[0].ProductService)
	assert.True(t, items[1].LineTotal.Equal(types.MustMoney("200")))

	stored, err := f.svc.Get(f.ctx, doctype.Quotation, q.ID)
	require.NoError(t, err)
	assert.Equal(t, "accepted", stored.Status)
	require.NotNil(t, stored.ConvertedInvoiceID)
	assert.Equal(t, inv.ID, *stored.ConvertedInvoiceID)
	assert.NotNil(t, stored.ConversionDate)
}

func TestConvertQuotation_Idempotent(t *testing.T) {
	f := newFixture(t)
	q := sentQuotation(t, f)

	first, _, err := f.svc.ConvertQuotation(f.ctx, q.ID)
	require.NoError(t, err)

	second, created, err := f.svc.ConvertQuotation(f.ctx, q.ID)
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, first.Number, second.Number)

	page, err := f.svc.List(f.ctx, doctype.Invoice, ListFilter{})
	require.NoError(t, err)
	assert.Equal(t, int64(1), page.Aggregates.Count)
}

func TestConvertQuotation_DeletedInvoiceIsConflict(t *testing.T) {
	f := newFixture(t)
	q := sentQuotation(t, f)

	inv, _, err := f.svc.ConvertQuotation(f.ctx, q.ID)
	require.NoError(t, err)
	require.NoError(t, f.svc.Delete(f.ctx, doctype.Invoice, inv.ID))

	stored, err := f.svc.Get(f.ctx, doctype.Quotation, q.ID)
	require.NoError(t, err)
	require.Nil(t, stored.ConvertedInvoiceID)
	require.NotNil(t, stored.ConversionDate)

	before := f.repo.count()
	_, created, err := f.svc.ConvertQuotation(f.ctx, q.ID)
	assert.True(t, apperror.Is(err, apperror.CodeConflict))
	assert.False(t, created)
	assert.Equal(t, before, f.repo.count(), "no second invoice is created")
}

func TestConvertQuotation_NotFound(t *testing.T) {
	f := newFixture(t)

	_, _, err := f.svc.ConvertQuotation(f.ctx, id.New())
	assert.True(t, apperror.IsNotFound(err))

	// Another tenant's quotation is invisible.
	q := sentQuotation(t, f)
	_, _, err = f.svc.ConvertQuotation(f.tenant(), q.ID)
	assert.True(t, apperror.IsNotFound(err))

	// Invoices cannot be converted.
	inv, err := f.svc.Create(f.ctx, doctype.Invoice, Input{Items: oneItem()})
	require.NoError(t, err)
	_, _, err = f.svc.ConvertQuotation(f.ctx, inv.ID)
	assert.True(t, apperror.IsNotFound(err))
}
