package documents

import (
	"context"
	"fmt"

	"docengine/internal/core/apperror"
	"docengine/internal/core/id"
	"docengine/internal/core/numerator"
	"docengine/internal/domain/doctype"
	"docengine/pkg/logger"
)

// InvoiceTermDays is the gap between a converted invoice's date and due date.
const InvoiceTermDays = 30

// ConvertQuotation copies a quotation into a new unpaid invoice and marks
// the quotation accepted. Calling it again returns the invoice created the
// first time; created reports whether a new invoice was made.
//
// A quotation whose invoice was deleted after conversion is a Conflict.
func (s *Service) ConvertQuotation(ctx context.Context, quotationID id.ID) (inv *Document, created bool, err error) {
	profile, err := s.identity.RequireCompany(ctx)
	if err != nil {
		return nil, false, err
	}

	err = s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		q, err := s.repo.GetForUpdate(ctx, doctype.Quotation, quotationID)
		if err != nil {
			return err
		}

		// Deleting the invoice clears the link but keeps the conversion date.
		if q.ConversionDate != nil || q.IsConverted() {
			if !q.IsConverted() {
				return errInvoiceGone(q)
			}
			inv, err = s.Get(ctx, doctype.Invoice, *q.ConvertedInvoiceID)
			if apperror.IsNotFound(err) {
				return errInvoiceGone(q)
			}
			return err
		}

		items, err := s.repo.GetItems(ctx, q.ID)
		if err != nil {
			return fmt.Errorf("get quotation items: %w", err)
		}

		tpl, err := s.templates.Resolve(ctx, doctype.Invoice, nil)
		if err != nil {
			return fmt.Errorf("resolve invoice template: %w", err)
		}

		now := s.now()
		inv = NewDocument(profile.OwnerID, doctype.Invoice, now)
		due := inv.Date.AddDate(0, 0, InvoiceTermDays)
		inv.SecondaryDate = &due
		inv.TemplateID = &tpl.ID
		inv.ClientID = q.ClientID
		inv.ClientName = q.ClientName
		inv.ClientEmail = q.ClientEmail
		inv.ClientPhone = q.ClientPhone
		inv.ClientAddress = q.ClientAddress
		inv.Subtotal = q.Subtotal
		inv.TotalTax = q.TotalTax
		inv.TotalDiscount = q.TotalDiscount
		inv.ShippingFee = q.ShippingFee
		inv.OtherCharges = q.OtherCharges
		inv.GrandTotal = q.GrandTotal
		inv.Notes = "Converted from quotation " + q.Number
		inv.Terms = q.Terms
		inv.Status = "unpaid"
		inv.Items = copyItems(inv.ID, items)

		req := numerator.Request{
			OwnerID: inv.OwnerID,
			DocType: string(doctype.Invoice),
			Config:  inv.Info().NumberConfig(tpl.NumberPrefix),
			Period:  now,
		}
		if _, err := s.allocator.Allocate(ctx, req, func(ctx context.Context, number string) error {
			inv.Number = number
			return s.repo.Create(ctx, inv)
		}); err != nil {
			return err
		}
		if err := s.repo.ReplaceItems(ctx, inv.ID, inv.Items); err != nil {
			return err
		}

		stamped := now.UTC()
		q.ConvertedInvoiceID = &inv.ID
		q.ConversionDate = &stamped
		q.Status = "accepted"
		q.Touch()
		created = true
		return s.repo.Update(ctx, q)
	})
	if err != nil {
		return nil, false, err
	}

	if created {
		logger.Info(ctx, "quotation converted",
			"quotation_id", quotationID,
			"invoice_id", inv.ID,
			"invoice_number", inv.Number)
	}
	return inv, created, nil
}

func copyItems(docID id.ID, src []Item) []Item {
	out := make([]Item, 0, len(src))
	for _, it := range src {
		out = append(out, Item{
			ID:             id.New(),
			DocumentID:     docID,
			RowOrder:       it.RowOrder,
			ProductService: it.ProductService,
			Description:    it.Description,
			Quantity:       it.Quantity,
			UnitPrice:      it.UnitPrice,
			LineTotal:      it.LineTotal,
			ItemData:       it.ItemData.Clone(),
		})
	}
	return out
}

func errInvoiceGone(q *Document) error {
	return apperror.NewConflict("quotation was converted but its invoice no longer exists").
		WithDetail("quotation", q.Number)
}
