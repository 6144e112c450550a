package documents

import (
	"docengine/internal/core/types"
	"docengine/internal/domain/doctype"
)

// Recompute derives line totals, subtotal and grand total from the items
// and header charges. It is pure with respect to everything but d and
// yields the same result when applied twice or to reordered items.
//
//	line_total  = round(quantity * unit_price, 2)
//	subtotal    = sum(line_total)
//	grand_total = round(subtotal + tax + shipping + other - discount, 2)
func Recompute(d *Document) {
	d.TotalTax = types.RoundMoney(d.TotalTax)
	d.TotalDiscount = types.RoundMoney(d.TotalDiscount)
	d.ShippingFee = types.RoundMoney(d.ShippingFee)
	d.OtherCharges = types.RoundMoney(d.OtherCharges)
	d.AmountPaid = types.RoundMoney(d.AmountPaid)

	subtotal := types.Zero()
	for i := range d.Items {
		item := &d.Items[i]
		if d.DocType == doctype.Waybill {
			item.LineTotal = types.Zero()
			continue
		}
		item.LineTotal = types.RoundMoney(item.Quantity.Mul(item.UnitPrice))
		subtotal = subtotal.Add(item.LineTotal)
	}

	d.Subtotal = subtotal
	d.GrandTotal = types.RoundMoney(
		types.SumMoney(subtotal, d.TotalTax, d.ShippingFee, d.OtherCharges).Sub(d.TotalDiscount),
	)
}
