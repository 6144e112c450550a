package documents

import (
	"context"
	"fmt"
	"strings"
	"time"

	"docengine/internal/core/apperror"
	"docengine/internal/core/id"
	"docengine/internal/core/numerator"
	"docengine/internal/core/tx"
	"docengine/internal/core/types"
	"docengine/internal/domain/catalogs/client"
	"docengine/internal/domain/catalogs/company"
	"docengine/internal/domain/doctype"
	"docengine/internal/domain/documents/waybill"
	"docengine/internal/domain/identity"
	"docengine/internal/domain/templates"
	"docengine/pkg/logger"
	"docengine/pkg/smartnum"
)

// TemplateResolver picks the template a document is bound to.
type TemplateResolver interface {
	Resolve(ctx context.Context, docType doctype.Type, templateID *id.ID) (*templates.Template, error)
}

// ClientLookup finds one of the operator's clients.
type ClientLookup interface {
	GetByID(ctx context.Context, clientID id.ID) (*client.Client, error)
}

// Input is the submitted form of a document. Money fields are free-form
// strings normalized by smartnum; blank means "not given".
type Input struct {
	TemplateID    *id.ID
	Date          *time.Time
	SecondaryDate *time.Time

	ClientID      *id.ID
	ClientName    string
	ClientEmail   string
	ClientPhone   string
	ClientAddress string

	TotalTax      string
	TotalDiscount string
	ShippingFee   string
	OtherCharges  string
	AmountPaid    string

	Status string
	Notes  string
	Terms  string

	// Custom holds flat custom_{section}_{field} and pref_{name} values.
	Custom map[string]string

	// Items are the submitted rows in client order.
	Items []ItemInput
}

// ServiceConfig configures the document service.
type ServiceConfig struct {
	Repo      Repository
	Identity  *identity.Facade
	Templates TemplateResolver
	Clients   ClientLookup
	Allocator *numerator.Allocator
	Validator *waybill.Validator
	TxManager tx.Manager
}

// Service implements the document aggregate.
type Service struct {
	repo      Repository
	identity  *identity.Facade
	templates TemplateResolver
	clients   ClientLookup
	allocator *numerator.Allocator
	validator *waybill.Validator
	txManager tx.Manager
	now       func() time.Time
}

// NewService creates a new document service.
func NewService(cfg ServiceConfig) *Service {
	v := cfg.Validator
	if v == nil {
		v = waybill.NewValidator(nil)
	}
	return &Service{
		repo:      cfg.Repo,
		identity:  cfg.Identity,
		templates: cfg.Templates,
		clients:   cfg.Clients,
		allocator: cfg.Allocator,
		validator: v,
		txManager: cfg.TxManager,
		now:       time.Now,
	}
}

// WithClock overrides the clock used for dates and number periods.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// Create validates in, allocates a number and stores the document with its
// items in one transaction.
func (s *Service) Create(ctx context.Context, docType doctype.Type, in Input) (*Document, error) {
	if !docType.Valid() {
		return nil, apperror.NewValidation("unknown document type")
	}
	profile, err := s.identity.RequireCompany(ctx)
	if err != nil {
		return nil, err
	}

	var doc *Document
	err = s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		tpl, err := s.templates.Resolve(ctx, docType, in.TemplateID)
		if err != nil {
			return fmt.Errorf("resolve template: %w", err)
		}

		doc = NewDocument(profile.OwnerID, docType, s.now())
		doc.TemplateID = &tpl.ID
		if err := s.applyHeader(ctx, doc, in, profile, tpl); err != nil {
			return err
		}
		if err := s.applyItems(doc, tpl, in, nil); err != nil {
			return err
		}
		Recompute(doc)
		if err := doc.Validate(ctx); err != nil {
			return err
		}

		req := numerator.Request{
			OwnerID: doc.OwnerID,
			DocType: string(docType),
			Config:  doc.Info().NumberConfig(tpl.NumberPrefix),
			Period:  s.now(),
		}
		if _, err := s.allocator.Allocate(ctx, req, func(ctx context.Context, number string) error {
			doc.Number = number
			return s.repo.Create(ctx, doc)
		}); err != nil {
			return err
		}

		return s.repo.ReplaceItems(ctx, doc.ID, doc.Items)
	})
	if err != nil {
		return nil, err
	}

	logger.Info(ctx, "document created",
		"doc_type", docType,
		"document_id", doc.ID,
		"number", doc.Number,
		"items", len(doc.Items))
	return doc, nil
}

// Update replaces header fields and the item collection. The number is
// never reassigned.
func (s *Service) Update(ctx context.Context, docType doctype.Type, docID id.ID, in Input) (*Document, error) {
	var doc *Document
	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		var err error
		doc, err = s.repo.GetForUpdate(ctx, docType, docID)
		if err != nil {
			return err
		}

		templateID := in.TemplateID
		if templateID == nil {
			templateID = doc.TemplateID
		}
		tpl, err := s.templates.Resolve(ctx, docType, templateID)
		if err != nil {
			return fmt.Errorf("resolve template: %w", err)
		}
		doc.TemplateID = &tpl.ID

		if err := s.applyHeader(ctx, doc, in, nil, tpl); err != nil {
			return err
		}
		existing, err := s.repo.GetItems(ctx, doc.ID)
		if err != nil {
			return err
		}
		if err := s.applyItems(doc, tpl, in, existing); err != nil {
			return err
		}
		Recompute(doc)
		if err := doc.Validate(ctx); err != nil {
			return err
		}
		doc.Touch()

		if err := s.repo.Update(ctx, doc); err != nil {
			return err
		}
		return s.repo.ReplaceItems(ctx, doc.ID, doc.Items)
	})
	if err != nil {
		return nil, err
	}
	return doc, nil
}

// UpdateStatus moves a document to any status of its type.
func (s *Service) UpdateStatus(ctx context.Context, docType doctype.Type, docID id.ID, status string) (*Document, error) {
	info := doctype.MustLookup(docType)
	if !info.HasStatus(status) {
		return nil, apperror.NewFieldError("status", "invalid status for "+info.Title)
	}

	var doc *Document
	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		var err error
		doc, err = s.repo.GetForUpdate(ctx, docType, docID)
		if err != nil {
			return err
		}
		doc.Status = status
		doc.Touch()
		return s.repo.Update(ctx, doc)
	})
	if err != nil {
		return nil, err
	}

	logger.Info(ctx, "document status changed",
		"doc_type", docType,
		"document_id", docID,
		"status", status)
	return doc, nil
}

// Get returns a document with its items.
func (s *Service) Get(ctx context.Context, docType doctype.Type, docID id.ID) (*Document, error) {
	doc, err := s.repo.GetByID(ctx, docType, docID)
	if err != nil {
		return nil, err
	}
	items, err := s.repo.GetItems(ctx, doc.ID)
	if err != nil {
		return nil, fmt.Errorf("get items: %w", err)
	}
	doc.Items = items
	return doc, nil
}

// Delete removes a document and its items.
func (s *Service) Delete(ctx context.Context, docType doctype.Type, docID id.ID) error {
	if err := s.repo.Delete(ctx, docType, docID); err != nil {
		return err
	}
	logger.Info(ctx, "document deleted", "doc_type", docType, "document_id", docID)
	return nil
}

// List returns one page of the operator's documents of docType.
func (s *Service) List(ctx context.Context, docType doctype.Type, filter ListFilter) (Page, error) {
	f, err := filter.Normalize(docType)
	if err != nil {
		return Page{}, err
	}
	page, err := s.repo.List(ctx, docType, f)
	if err != nil {
		return Page{}, err
	}
	page.finish(docType, f)
	return page, nil
}

// applyHeader copies header input onto doc. profile is non-nil on create
// only; it pre-fills blank tax, discount and shipping.
func (s *Service) applyHeader(ctx context.Context, doc *Document, in Input, profile *company.Profile, tpl *templates.Template) error {
	if in.Date != nil {
		doc.Date = truncateDay(*in.Date)
	}
	if doc.Info().SecondaryDate != "" {
		doc.SecondaryDate = nil
		if in.SecondaryDate != nil {
			d := truncateDay(*in.SecondaryDate)
			doc.SecondaryDate = &d
		}
	}

	if err := s.applyClient(ctx, doc, in); err != nil {
		return err
	}

	creating := profile != nil
	doc.TotalTax = money(in.TotalTax, creating, func() types.Money { return profile.DefaultTax })
	doc.TotalDiscount = money(in.TotalDiscount, creating, func() types.Money { return profile.DefaultDiscount })
	doc.ShippingFee = money(in.ShippingFee, creating, func() types.Money { return profile.DefaultShippingFee })
	doc.OtherCharges = smartnum.Parse(in.OtherCharges)
	doc.AmountPaid = smartnum.Parse(in.AmountPaid)

	if in.Status != "" {
		doc.Status = in.Status
	}
	doc.Notes = strings.TrimSpace(in.Notes)
	doc.Terms = strings.TrimSpace(in.Terms)
	if doc.Terms == "" && creating {
		doc.Terms = tpl.DefaultTerms
	}
	return nil
}

func money(raw string, prefill bool, fallback func() types.Money) types.Money {
	if smartnum.IsBlank(raw) && prefill {
		return fallback()
	}
	return smartnum.Parse(raw)
}

func (s *Service) applyClient(ctx context.Context, doc *Document, in Input) error {
	doc.ClientID = nil
	doc.ClientName = strings.TrimSpace(in.ClientName)
	doc.ClientEmail = strings.TrimSpace(in.ClientEmail)
	doc.ClientPhone = strings.TrimSpace(in.ClientPhone)
	doc.ClientAddress = strings.TrimSpace(in.ClientAddress)

	if in.ClientID == nil {
		return nil
	}
	c, err := s.clients.GetByID(ctx, *in.ClientID)
	if apperror.IsNotFound(err) {
		return apperror.NewFieldError("client", "unknown client")
	}
	if err != nil {
		return err
	}

	doc.ClientID = &c.ID
	if doc.ClientName == "" {
		doc.ClientName = c.Name
	}
	if doc.ClientEmail == "" {
		doc.ClientEmail = c.Email
	}
	if doc.ClientPhone == "" {
		doc.ClientPhone = c.Phone
	}
	if doc.ClientAddress == "" {
		doc.ClientAddress = c.Address
	}
	return nil
}

// applyItems replaces doc.Items with the submitted rows. Rows carrying the
// id of one of existing keep it.
func (s *Service) applyItems(doc *Document, tpl *templates.Template, in Input, existing []Item) error {
	switch doc.DocType {
	case doctype.Waybill:
		sections := tpl.EffectiveCustomFields()
		columns := tpl.EffectiveTableColumns()
		doc.CustomData = waybill.GroupCustomFields(sections, in.Custom, doc.CustomData)
		rows := waybill.BuildRows(in.Items)
		if err := s.validator.Validate(sections, columns, doc.CustomData, rows); err != nil {
			return err
		}
		doc.Items = WaybillItems(doc.ID, rows, existing)
	case doctype.Quotation:
		doc.CustomData = waybill.GroupCustomFields(nil, in.Custom, doc.CustomData)
		doc.Items = BuildItems(doc.ID, in.Items, existing)
	default:
		doc.Items = BuildItems(doc.ID, in.Items, existing)
	}
	return nil
}
