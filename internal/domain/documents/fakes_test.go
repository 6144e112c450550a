package documents

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"docengine/internal/core/apperror"
	"docengine/internal/core/id"
	"docengine/internal/core/numerator"
	"docengine/internal/core/tenant"
	"docengine/internal/domain/catalogs/client"
	"docengine/internal/domain/catalogs/company"
	"docengine/internal/domain/doctype"
	"docengine/internal/domain/templates"
	pkgnum "docengine/pkg/numerator"
)

func ownerOf(ctx context.Context) id.ID {
	o, _ := tenant.OwnerFrom(ctx)
	return o
}

// memRepo is an owner-filtering in-memory Repository and SequenceSource.
type memRepo struct {
	mu    sync.Mutex
	docs  map[id.ID]*Document
	items map[id.ID][]Item

	// beforeInsert runs once inside the next Create, as a concurrent writer would.
	beforeInsert func(m *memRepo)
}

func newMemRepo() *memRepo {
	return &memRepo{docs: map[id.ID]*Document{}, items: map[id.ID][]Item{}}
}

func (m *memRepo) MaxSequence(_ context.Context, req numerator.Request) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var best int64
	for _, d := range m.docs {
		if d.OwnerID != req.OwnerID || string(d.DocType) != req.DocType {
			continue
		}
		if seq, ok := pkgnum.ParseSequence(req.Config, req.Period.Year(), d.Number); ok && seq > best {
			best = seq
		}
	}
	return best, nil
}

func (m *memRepo) Create(ctx context.Context, d *Document) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if hook := m.beforeInsert; hook != nil {
		m.beforeInsert = nil
		hook(m)
	}
	for _, existing := range m.docs {
		if existing.OwnerID == d.OwnerID && existing.DocType == d.DocType && existing.Number == d.Number {
			return fmt.Errorf("insert: %w", numerator.ErrCollision)
		}
	}
	cp := *d
	cp.Items = nil
	m.docs[d.ID] = &cp
	return nil
}

func (m *memRepo) Update(ctx context.Context, d *Document) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	existing, ok := m.docs[d.ID]
	if !ok || existing.OwnerID != ownerOf(ctx) {
		return apperror.NewNotFound("document", d.ID)
	}
	cp := *d
	cp.Number = existing.Number
	cp.Items = nil
	m.docs[d.ID] = &cp
	return nil
}

func (m *memRepo) GetByID(ctx context.Context, docType doctype.Type, docID id.ID) (*Document, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	d, ok := m.docs[docID]
	if !ok || d.OwnerID != ownerOf(ctx) || d.DocType != docType {
		return nil, apperror.NewNotFound(string(docType), docID)
	}
	cp := *d
	cp.CustomData = d.CustomData.Clone()
	return &cp, nil
}

func (m *memRepo) GetForUpdate(ctx context.Context, docType doctype.Type, docID id.ID) (*Document, error) {
	return m.GetByID(ctx, docType, docID)
}

func (m *memRepo) Delete(ctx context.Context, docType doctype.Type, docID id.ID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	d, ok := m.docs[docID]
	if !ok || d.OwnerID != ownerOf(ctx) || d.DocType != docType {
		return apperror.NewNotFound(string(docType), docID)
	}
	delete(m.docs, docID)
	delete(m.items, docID)
	// converted_invoice_id references documents ON DELETE SET NULL.
	for _, other := range m.docs {
		if other.ConvertedInvoiceID != nil && *other.ConvertedInvoiceID == docID {
			other.ConvertedInvoiceID = nil
		}
	}
	return nil
}

func (m *memRepo) ReplaceItems(_ context.Context, docID id.ID, items []Item) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.items[docID] = append([]Item(nil), items...)
	return nil
}

func (m *memRepo) GetItems(_ context.Context, docID id.ID) ([]Item, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	items := append([]Item(nil), m.items[docID]...)
	sort.SliceStable(items, func(i, j int) bool { return items[i].RowOrder < items[j].RowOrder })
	return items, nil
}

func (m *memRepo) List(ctx context.Context, docType doctype.Type, f ListFilter) (Page, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var page Page
	page.Aggregates.StatusCounts = map[string]int64{}
	paid := page.Aggregates.GrandTotal
	for _, d := range m.docs {
		if d.OwnerID != ownerOf(ctx) || d.DocType != docType {
			continue
		}
		if f.Status != "" && d.Status != f.Status {
			continue
		}
		if f.Search != "" && !strings.Contains(strings.ToLower(d.Number+" "+d.ClientName), strings.ToLower(f.Search)) {
			continue
		}
		cp := *d
		page.Items = append(page.Items, &cp)
		page.Aggregates.Count++
		page.Aggregates.GrandTotal = page.Aggregates.GrandTotal.Add(d.GrandTotal)
		paid = paid.Add(d.AmountPaid)
		page.Aggregates.StatusCounts[d.Status]++
	}
	page.Aggregates.AmountPaid = &paid
	return page, nil
}

func (m *memRepo) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.docs)
}

type profileStore struct {
	profiles map[id.ID]*company.Profile
}

func (p *profileStore) GetByOwner(ctx context.Context) (*company.Profile, error) {
	if prof, ok := p.profiles[ownerOf(ctx)]; ok {
		return prof, nil
	}
	return nil, apperror.NewNotFound("company profile", ownerOf(ctx))
}

// fixedTemplates resolves one lazily created template per owner and type.
type fixedTemplates struct {
	mu    sync.Mutex
	byKey map[string]*templates.Template
}

func (f *fixedTemplates) Resolve(ctx context.Context, docType doctype.Type, _ *id.ID) (*templates.Template, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	key := ownerOf(ctx).String() + "|" + string(docType)
	if t, ok := f.byKey[key]; ok {
		return t, nil
	}
	t := templates.NewTemplate(ownerOf(ctx), docType)
	t.IsDefault = true
	t.DefaultTerms = "Net 30"
	f.byKey[key] = t
	return t, nil
}

type clientStore struct {
	clients map[id.ID]*client.Client
}

func (c *clientStore) GetByID(ctx context.Context, clientID id.ID) (*client.Client, error) {
	cl, ok := c.clients[clientID]
	if !ok || cl.OwnerID != ownerOf(ctx) {
		return nil, apperror.NewNotFound("client", clientID)
	}
	return cl, nil
}
