package documents

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"docengine/internal/core/id"
	"docengine/internal/core/types"
)

func TestParseIndexedItems(t *testing.T) {
	existing := id.New()
	form := map[string][]string{
		"items[3][product_service]": {"Late row"},
		"items[3][id]":              {" " + existing.String() + " "},
		"items[0][product_service]": {"Widget"},
		"items[0][quantity]":        {"2"},
		"items[0][unit_price]":      {"₦3k"},
		"items[x][quantity]":        {"ignored"},
		"client_name":               {"ACME"},
	}

	rows := ParseIndexedItems(form)

	require.Len(t, rows, 2)
	assert.Equal(t, ItemInput{
		Index:  0,
		Values: map[string]string{"product_service": "Widget", "quantity": "2", "unit_price": "₦3k"},
	}, rows[0])
	assert.Equal(t, ItemInput{
		Index:  3,
		ID:     existing.String(),
		Values: map[string]string{"product_service": "Late row"},
	}, rows[1])
}

func TestNormalizeJSONItems(t *testing.T) {
	rows := NormalizeJSONItems([]map[string]any{
		{"productService": "Widget", "quantity": 2.0, "unitPrice": "10"},
		{"id": "0190b0c4-0000-7000-8000-000000000001", "description": "Kept"},
	})

	require.Len(t, rows, 2)
	assert.Equal(t, 0, rows[0].Index)
	assert.Equal(t, "Widget", rows[0].Values["product_service"])
	assert.Equal(t, "2", rows[0].Values["quantity"])
	assert.Equal(t, "10", rows[0].Values["unit_price"])

	assert.Equal(t, 1, rows[1].Index)
	assert.Equal(t, "0190b0c4-0000-7000-8000-000000000001", rows[1].ID)
	assert.NotContains(t, rows[1].Values, "id")
}

func TestBuildItems_KeepRules(t *testing.T) {
	docID := id.New()
	items := BuildItems(docID, itemRows([]map[string]string{
		{"product_service": "Widget", "quantity": "2", "unit_price": "$1,200.50"},
		{"product_service": " ", "description": "", "quantity": "", "unit_price": ""},
		{"unit_price": "50"},
		{"quantity": "3"},
		{"notes": "not an item field"},
	}), nil)

	require.Len(t, items, 3)

	assert.Equal(t, 0, items[0].RowOrder)
	assert.True(t, items[0].UnitPrice.Equal(types.MustMoney("1200.50")))
	assert.Equal(t, docID, items[0].DocumentID)

	assert.Equal(t, 2, items[1].RowOrder)
	assert.True(t, items[1].Quantity.Equal(types.MustMoney("1")), "blank quantity counts as one")
	assert.Equal(t, "", items[1].Description)

	assert.Equal(t, 3, items[2].RowOrder)
	assert.True(t, items[2].UnitPrice.IsZero())
}

func TestBuildItems_RowOrderIsSubmittedIndex(t *testing.T) {
	rows := ParseIndexedItems(map[string][]string{
		"items[0][product_service]": {"First"},
		"items[3][product_service]": {"Fourth"},
	})

	items := BuildItems(id.New(), rows, nil)

	require.Len(t, items, 2)
	assert.Equal(t, 0, items[0].RowOrder)
	assert.Equal(t, 3, items[1].RowOrder)
}

func TestBuildItems_StoredPrecision(t *testing.T) {
	tests := []struct {
		name      string
		qty       string
		price     string
		wantQty   string
		wantPrice string
		wantTotal string
	}{
		{name: "fractional quantity", qty: "0.125", price: "10", wantQty: "0.13", wantPrice: "10.00", wantTotal: "1.30"},
		{name: "fractional price", qty: "3", price: "0.335", wantQty: "3.00", wantPrice: "0.34", wantTotal: "1.02"},
		{name: "percent suffix", qty: "2", price: "7.5%", wantQty: "2.00", wantPrice: "0.08", wantTotal: "0.16"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := &Document{Items: BuildItems(id.New(), itemRows([]map[string]string{
				{"product_service": "Widget", "quantity": tt.qty, "unit_price": tt.price},
			}), nil)}
			Recompute(d)

			item := d.Items[0]
			assert.Equal(t, tt.wantQty, item.Quantity.StringFixed(2))
			assert.Equal(t, tt.wantPrice, item.UnitPrice.StringFixed(2))
			assert.Equal(t, tt.wantTotal, item.LineTotal.StringFixed(2))
			assert.True(t, item.LineTotal.Equal(types.RoundMoney(item.Quantity.Mul(item.UnitPrice))))
		})
	}
}

func TestBuildItems_KeepsOwnedIDs(t *testing.T) {
	docID := id.New()
	existing := BuildItems(docID, itemRows([]map[string]string{
		{"product_service": "A"},
		{"product_service": "B"},
	}), nil)
	foreign := id.New()

	items := BuildItems(docID, []ItemInput{
		{Index: 0, ID: existing[1].ID.String(), Values: map[string]string{"product_service": "B edited"}},
		{Index: 1, ID: existing[1].ID.String(), Values: map[string]string{"product_service": "B copy"}},
		{Index: 2, ID: foreign.String(), Values: map[string]string{"product_service": "Foreign"}},
		{Index: 3, ID: "not-a-uuid", Values: map[string]string{"product_service": "Garbage"}},
		{Index: 4, Values: map[string]string{"product_service": "New"}},
	}, existing)

	require.Len(t, items, 5)
	assert.Equal(t, existing[1].ID, items[0].ID)

	seen := map[id.ID]bool{existing[0].ID: true, existing[1].ID: true, foreign: true}
	for _, it := range items[1:] {
		assert.False(t, seen[it.ID], "row %d must get a fresh id", it.RowOrder)
		seen[it.ID] = true
	}
}

func TestCustomFormValues(t *testing.T) {
	got := CustomFormValues(map[string][]string{
		"custom_sender_info_sender_name": {"Alice"},
		"pref_show_weight":               {"true"},
		"notes":                          {"x"},
	})
	assert.Equal(t, map[string]string{
		"custom_sender_info_sender_name": "Alice",
		"pref_show_weight":               "true",
	}, got)
}
