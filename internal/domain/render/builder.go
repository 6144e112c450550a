package render

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"golang.org/x/sync/singleflight"

	"docengine/internal/core/id"
	"docengine/internal/core/tenant"
	"docengine/internal/domain/catalogs/bankaccount"
	"docengine/internal/domain/catalogs/company"
	"docengine/internal/domain/doctype"
	"docengine/internal/domain/documents"
	"docengine/internal/domain/documents/waybill"
	"docengine/internal/domain/templates"
	"docengine/pkg/logger"
)

// DefaultCacheTTL bounds how stale a cached company or template list may be.
const DefaultCacheTTL = 30 * time.Minute

// DocumentReader loads one document with its items.
type DocumentReader interface {
	Get(ctx context.Context, docType doctype.Type, docID id.ID) (*documents.Document, error)
}

// CompanySource returns the operator's profile or nil.
type CompanySource interface {
	Company(ctx context.Context) (*company.Profile, error)
}

// BankAccountSource lists the operator's bank accounts.
type BankAccountSource interface {
	List(ctx context.Context) ([]*bankaccount.BankAccount, error)
}

// TemplateSource lists and resolves templates.
type TemplateSource interface {
	List(ctx context.Context, docType doctype.Type) ([]*templates.Template, error)
	Resolve(ctx context.Context, docType doctype.Type, templateID *id.ID) (*templates.Template, error)
}

// Cache stores per-owner lookups for a short time. Reads may be stale;
// nothing depends on coherence with writes.
type Cache interface {
	// Get decodes the value under key into dest and reports whether it was found.
	Get(ctx context.Context, key string, dest any) (bool, error)
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
}

// BuilderConfig configures a Builder.
type BuilderConfig struct {
	Documents    DocumentReader
	Companies    CompanySource
	BankAccounts BankAccountSource
	Templates    TemplateSource

	// Cache is optional.
	Cache    Cache
	CacheTTL time.Duration

	// MediaBaseURL turns stored asset paths into absolute URLs.
	MediaBaseURL string
}

// Builder assembles render contexts.
type Builder struct {
	cfg   BuilderConfig
	group singleflight.Group
	now   func() time.Time
}

// NewBuilder creates a new render context builder.
func NewBuilder(cfg BuilderConfig) *Builder {
	if cfg.CacheTTL <= 0 {
		cfg.CacheTTL = DefaultCacheTTL
	}
	return &Builder{cfg: cfg, now: time.Now}
}

type companyBundle struct {
	Profile  *company.Profile           `json:"profile"`
	Accounts []*bankaccount.BankAccount `json:"accounts"`
}

// Build assembles the context of one of the operator's documents.
func (b *Builder) Build(ctx context.Context, docType doctype.Type, docID id.ID) (*Context, error) {
	ctx, span := otel.Tracer("render").Start(ctx, "render.Build")
	defer span.End()
	span.SetAttributes(attribute.String("doc_type", string(docType)))

	owner, err := tenant.RequireOwner(ctx)
	if err != nil {
		return nil, err
	}

	doc, err := b.cfg.Documents.Get(ctx, docType, docID)
	if err != nil {
		return nil, err
	}

	bundle, err := b.company(ctx, owner)
	if err != nil {
		return nil, fmt.Errorf("load company: %w", err)
	}

	tpl, err := b.template(ctx, owner, doc)
	if err != nil {
		return nil, fmt.Errorf("load template: %w", err)
	}

	symbol, code := bundle.Profile.Currency()
	rc := &Context{
		Document:           doc,
		Template:           tpl,
		Company:            bundle.Profile,
		DefaultBankAccount: bankaccount.PickDefault(bundle.Accounts),
		CurrencySymbol:     symbol,
		CurrencyCode:       code,
		FormattedTotal:     FormatMoney(symbol, doc.GrandTotal),
		TotalWords:         TotalWords(doc.GrandTotal, code),
		GeneratedAt:        b.now().UTC(),
	}
	if p := bundle.Profile; p != nil {
		rc.CompanyLogoURL = absoluteURL(b.cfg.MediaBaseURL, p.LogoPath)
		rc.CompanySignatureURL = absoluteURL(b.cfg.MediaBaseURL, p.SignaturePath)
	}
	if doc.DocType == doctype.Waybill {
		rc.Sections = sectionViews(tpl.EffectiveCustomFields(), doc)
		rc.Columns = tpl.EffectiveTableColumns()
	}
	return rc, nil
}

func (b *Builder) company(ctx context.Context, owner id.ID) (*companyBundle, error) {
	key := "render:company:" + owner.String()

	v, err, _ := b.group.Do(key, func() (any, error) {
		var bundle companyBundle
		if b.cacheGet(ctx, key, &bundle) {
			return &bundle, nil
		}

		profile, err := b.cfg.Companies.Company(ctx)
		if err != nil {
			return nil, err
		}
		bundle.Profile = profile
		if profile != nil {
			if bundle.Accounts, err = b.cfg.BankAccounts.List(ctx); err != nil {
				return nil, err
			}
		}
		b.cacheSet(ctx, key, &bundle)
		return &bundle, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*companyBundle), nil
}

func (b *Builder) template(ctx context.Context, owner id.ID, doc *documents.Document) (*templates.Template, error) {
	key := fmt.Sprintf("render:templates:%s:%s", owner, doc.DocType)

	v, err, _ := b.group.Do(key, func() (any, error) {
		var list []*templates.Template
		if b.cacheGet(ctx, key, &list) {
			return list, nil
		}
		list, err := b.cfg.Templates.List(ctx, doc.DocType)
		if err != nil {
			return nil, err
		}
		if len(list) > 0 {
			b.cacheSet(ctx, key, list)
		}
		return list, nil
	})
	if err != nil {
		return nil, err
	}

	list := v.([]*templates.Template)
	if doc.TemplateID != nil {
		for _, t := range list {
			if t.ID == *doc.TemplateID {
				return t, nil
			}
		}
	}
	for _, t := range list {
		if t.IsDefault {
			return t, nil
		}
	}
	if len(list) > 0 {
		return list[0], nil
	}
	return b.cfg.Templates.Resolve(ctx, doc.DocType, nil)
}

func (b *Builder) cacheGet(ctx context.Context, key string, dest any) bool {
	if b.cfg.Cache == nil {
		return false
	}
	found, err := b.cfg.Cache.Get(ctx, key, dest)
	if err != nil {
		logger.Warn(ctx, "render cache read failed", "key", key, "error", err)
		return false
	}
	return found
}

func (b *Builder) cacheSet(ctx context.Context, key string, value any) {
	if b.cfg.Cache == nil {
		return
	}
	if err := b.cfg.Cache.Set(ctx, key, value, b.cfg.CacheTTL); err != nil {
		logger.Warn(ctx, "render cache write failed", "key", key, "error", err)
	}
}

func sectionViews(sections templates.Sections, doc *documents.Document) []SectionView {
	views := make([]SectionView, 0, len(sections))
	for _, key := range sections.Keys() {
		s := sections[key]
		view := SectionView{Key: key, Label: s.Label}
		for _, fk := range s.FieldKeys() {
			view.Fields = append(view.Fields, FieldView{
				Key:   fk,
				Label: s.Fields[fk].Label,
				Value: waybill.GetCustomFieldValue(doc.CustomData, key, fk),
			})
		}
		views = append(views, view)
	}
	return views
}

// absoluteURL joins a stored asset path onto base unless it is already absolute.
func absoluteURL(base string, path *string) string {
	if path == nil || strings.TrimSpace(*path) == "" {
		return ""
	}
	p := strings.TrimSpace(*path)
	if u, err := url.Parse(p); err == nil && u.IsAbs() {
		return p
	}
	if base == "" {
		return "/" + strings.TrimLeft(p, "/")
	}
	return strings.TrimRight(base, "/") + "/" + strings.TrimLeft(p, "/")
}
