package render

import (
	"context"
	"encoding/json"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"docengine/internal/core/apperror"
	"docengine/internal/core/id"
	"docengine/internal/core/tenant"
	"docengine/internal/core/types"
	"docengine/internal/domain/catalogs/bankaccount"
	"docengine/internal/domain/catalogs/company"
	"docengine/internal/domain/doctype"
	"docengine/internal/domain/documents"
	"docengine/internal/domain/templates"
	"docengine/pkg/numwords"
)

type fakeDocs struct{ docs map[id.ID]*documents.Document }

func (f *fakeDocs) Get(_ context.Context, docType doctype.Type, docID id.ID) (*documents.Document, error) {
	d, ok := f.docs[docID]
	if !ok || d.DocType != docType {
		return nil, apperror.NewNotFound(string(docType), docID)
	}
	return d, nil
}

type fakeCompany struct {
	mu      sync.Mutex
	profile *company.Profile
	calls   int
}

func (f *fakeCompany) Company(context.Context) (*company.Profile, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	return f.profile, nil
}

type fakeBanks struct{ accounts []*bankaccount.BankAccount }

func (f *fakeBanks) List(context.Context) ([]*bankaccount.BankAccount, error) {
	return f.accounts, nil
}

type fakeTemplates struct {
	list     []*templates.Template
	resolved *templates.Template
}

func (f *fakeTemplates) List(context.Context, doctype.Type) ([]*templates.Template, error) {
	return f.list, nil
}

func (f *fakeTemplates) Resolve(_ context.Context, docType doctype.Type, _ *id.ID) (*templates.Template, error) {
	if f.resolved == nil {
		f.resolved = templates.NewTemplate(id.New(), docType)
	}
	return f.resolved, nil
}

// mapCache round-trips values through JSON like the Redis cache does.
type mapCache struct {
	mu   sync.Mutex
	data map[string][]byte
}

func (c *mapCache) Get(_ context.Context, key string, dest any) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	raw, ok := c.data[key]
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(raw, dest)
}

func (c *mapCache) Set(_ context.Context, key string, value any, _ time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	c.data[key] = raw
	return nil
}

func strPtr(s string) *string { return &s }

func TestBuild(t *testing.T) {
	owner := id.New()
	ctx := tenant.WithOwner(context.Background(), owner)

	profile := company.NewProfile(owner)
	profile.Name = "ACME"
	profile.CurrencyCode = "NGN"
	profile.CurrencySymbol = "₦"
	profile.LogoPath = strPtr("logos/acme.png")
	profile.SignaturePath = strPtr("https://cdn.example.com/sig.png")

	first := bankaccount.NewBankAccount(owner, profile.ID)
	first.BankName = "First"
	second := bankaccount.NewBankAccount(owner, profile.ID)
	second.BankName = "Second"
	second.IsDefault = true

	chosen := templates.NewTemplate(owner, doctype.Invoice)
	chosen.Name = "Chosen"
	def := templates.NewTemplate(owner, doctype.Invoice)
	def.IsDefault = true

	doc := documents.NewDocument(owner, doctype.Invoice, time.Now())
	doc.TemplateID = &chosen.ID
	doc.GrandTotal = types.MustMoney("1234.56")

	b := NewBuilder(BuilderConfig{
		Documents:    &fakeDocs{docs: map[id.ID]*documents.Document{doc.ID: doc}},
		Companies:    &fakeCompany{profile: profile},
		BankAccounts: &fakeBanks{accounts: []*bankaccount.BankAccount{first, second}},
		Templates:    &fakeTemplates{list: []*templates.Template{def, chosen}},
		MediaBaseURL: "https://app.example.com/media/",
	})

	rc, err := b.Build(ctx, doctype.Invoice, doc.ID)
	require.NoError(t, err)

	assert.Equal(t, "₦", rc.CurrencySymbol)
	assert.Equal(t, "NGN", rc.CurrencyCode)
	assert.Equal(t, "₦1,234.56", rc.FormattedTotal)
	assert.Equal(t, numwords.Amount(types.MustMoney("1234.56"), "NGN"), rc.TotalWords)
	assert.True(t, strings.HasSuffix(rc.TotalWords, " point five six ngn only"), rc.TotalWords)
	assert.Equal(t, "https://app.example.com/media/logos/acme.png", rc.CompanyLogoURL)
	assert.Equal(t, "https://cdn.example.com/sig.png", rc.CompanySignatureURL)
	require.NotNil(t, rc.DefaultBankAccount)
	assert.Equal(t, "Second", rc.DefaultBankAccount.BankName)
	assert.Equal(t, "Chosen", rc.Template.Name)
	assert.Empty(t, rc.Sections)
}

func TestBuild_WithoutProfile(t *testing.T) {
	owner := id.New()
	ctx := tenant.WithOwner(context.Background(), owner)

	doc := documents.NewDocument(owner, doctype.Waybill, time.Now())
	doc.GrandTotal = types.MustMoney("260")
	doc.CustomData = map[string]any{
		"sender_info": map[string]any{"sender_name": "Alice"},
	}

	tpls := &fakeTemplates{}
	b := NewBuilder(BuilderConfig{
		Documents:    &fakeDocs{docs: map[id.ID]*documents.Document{doc.ID: doc}},
		Companies:    &fakeCompany{},
		BankAccounts: &fakeBanks{},
		Templates:    tpls,
	})

	rc, err := b.Build(ctx, doctype.Waybill, doc.ID)
	require.NoError(t, err)

	assert.Nil(t, rc.Company)
	assert.Nil(t, rc.DefaultBankAccount)
	assert.Empty(t, rc.CompanyLogoURL)
	assert.Equal(t, "$", rc.CurrencySymbol)
	assert.Equal(t, "USD", rc.CurrencyCode)
	assert.Equal(t, "$260.00", rc.FormattedTotal)
	assert.Equal(t, "two hundred sixty usd only", rc.TotalWords)
	assert.Equal(t, tpls.resolved, rc.Template)

	require.Len(t, rc.Sections, 3)
	assert.Equal(t, "sender_info", rc.Sections[0].Key)
	assert.Equal(t, FieldView{Key: "sender_name", Label: "Sender Name", Value: "Alice"}, rc.Sections[0].Fields[0])
	assert.Len(t, rc.Columns, 5)
}

func TestBuild_UsesCache(t *testing.T) {
	owner := id.New()
	ctx := tenant.WithOwner(context.Background(), owner)

	profile := company.NewProfile(owner)
	profile.Name = "ACME"
	companies := &fakeCompany{profile: profile}

	doc := documents.NewDocument(owner, doctype.Receipt, time.Now())
	b := NewBuilder(BuilderConfig{
		Documents:    &fakeDocs{docs: map[id.ID]*documents.Document{doc.ID: doc}},
		Companies:    companies,
		BankAccounts: &fakeBanks{},
		Templates:    &fakeTemplates{list: []*templates.Template{templates.NewTemplate(owner, doctype.Receipt)}},
		Cache:        &mapCache{data: map[string][]byte{}},
	})

	for range 3 {
		rc, err := b.Build(ctx, doctype.Receipt, doc.ID)
		require.NoError(t, err)
		assert.Equal(t, "ACME", rc.Company.Name)
	}
	assert.Equal(t, 1, companies.calls)
}

func TestBuild_RequiresOwner(t *testing.T) {
	b := NewBuilder(BuilderConfig{})
	_, err := b.Build(context.Background(), doctype.Invoice, id.New())
	assert.True(t, apperror.Is(err, apperror.CodeAuthRequired))
}

func TestFormatMoney(t *testing.T) {
	tests := []struct {
		symbol, amount, want string
	}{
		{"$", "0", "$0.00"},
		{"$", "1234567.891", "$1,234,567.89"},
		{"€", "-50", "-€50.00"},
		{"₦", "3000", "₦3,000.00"},
	}
	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatMoney(tt.symbol, types.MustMoney(tt.amount)))
		})
	}
}

func TestAbsoluteURL(t *testing.T) {
	assert.Equal(t, "", absoluteURL("https://x", nil))
	assert.Equal(t, "/logos/a.png", absoluteURL("", strPtr("logos/a.png")))
	assert.Equal(t, "https://x/logos/a.png", absoluteURL("https://x/", strPtr("/logos/a.png")))
	assert.Equal(t, "http://cdn/a.png", absoluteURL("https://x", strPtr("http://cdn/a.png")))
}
