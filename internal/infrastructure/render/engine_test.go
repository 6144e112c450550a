package render

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"docengine/internal/core/apperror"
	"docengine/internal/core/entity"
	"docengine/internal/core/id"
	"docengine/internal/core/types"
	"docengine/internal/domain/catalogs/bankaccount"
	"docengine/internal/domain/catalogs/company"
	"docengine/internal/domain/doctype"
	"docengine/internal/domain/documents"
	domrender "docengine/internal/domain/render"
	"docengine/internal/domain/templates"
)

func invoiceContext(t *testing.T) *domrender.Context {
	t.Helper()
	owner := id.New()
	doc := documents.NewDocument(owner, doctype.Invoice, time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC))
	doc.Number = "INV-2024-03-0001"
	due := doc.Date.AddDate(0, 0, 30)
	doc.SecondaryDate = &due
	doc.ClientName = "Globex <Ltd>"
	doc.Items = []documents.Item{{
		ProductService: "Consulting",
		Quantity:       types.MustMoney("2"),
		UnitPrice:      types.MustMoney("100"),
		LineTotal:      types.MustMoney("200"),
	}}
	doc.Subtotal = types.MustMoney("200")
	doc.GrandTotal = types.MustMoney("200")

	profile := company.NewProfile(owner)
	profile.Name = "Acme"

	return &domrender.Context{
		Document:       doc,
		Template:       templates.NewTemplate(owner, doctype.Invoice),
		Company:        profile,
		CurrencySymbol: "$",
		CurrencyCode:   "USD",
		FormattedTotal: "$200.00",
		TotalWords:     "two hundred usd only",
		DefaultBankAccount: &bankaccount.BankAccount{
			BankName:      "First Bank",
			AccountNumber: "0001112223",
		},
	}
}

func TestHTMLRenderer_Invoice(t *testing.T) {
	r, err := NewHTMLRenderer()
	require.NoError(t, err)

	out, err := r.Render(context.Background(), invoiceContext(t))
	require.NoError(t, err)

	page := string(out)
	assert.Contains(t, page, "INV-2024-03-0001")
	assert.Contains(t, page, "INVOICE")
	assert.Contains(t, page, "$200.00")
	assert.Contains(t, page, "two hundred usd only")
	assert.Contains(t, page, "First Bank")
	assert.Contains(t, page, "Due Date")
	assert.Contains(t, page, "Globex &lt;Ltd&gt;")
	assert.NotContains(t, page, "Globex <Ltd>")
}

func TestHTMLRenderer_WaybillColumns(t *testing.T) {
	r, err := NewHTMLRenderer()
	require.NoError(t, err)

	rc := invoiceContext(t)
	rc.Document.DocType = doctype.Waybill
	rc.Document.Status = "pending"
	rc.Document.SecondaryDate = nil
	rc.Document.Items = []documents.Item{{ItemData: entity.Attributes{"description": "Pallet", "quantity": "4"}}}
	rc.Template = templates.NewTemplate(rc.Document.OwnerID, doctype.Waybill)
	rc.Columns = templates.Columns{
		{Name: "description", Label: "Goods"},
		{Name: "quantity", Label: "Qty"},
	}
	rc.Sections = []domrender.SectionView{{
		Key:    "shipper",
		Label:  "Shipper",
		Fields: []domrender.FieldView{{Key: "name", Label: "Name", Value: "Acme Haulage"}},
	}}

	out, err := r.Render(context.Background(), rc)
	require.NoError(t, err)

	page := string(out)
	assert.Contains(t, page, "<th>Goods</th>")
	assert.Contains(t, page, "<td>Pallet</td>")
	assert.Contains(t, page, "Acme Haulage")
	assert.NotContains(t, page, "First Bank")
}

func TestHTMLRenderer_IncompleteContext(t *testing.T) {
	r, err := NewHTMLRenderer()
	require.NoError(t, err)

	_, err = r.Render(context.Background(), &domrender.Context{})
	assert.Error(t, err)
}

func TestCSSColor(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"#abc", "#abc"},
		{"#A1B2C3", "#A1B2C3"},
		{"red;}</style>", "#333333"},
		{"", "#333333"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, string(cssColor(tt.in)), tt.in)
	}
}

func TestEngine_PDF(t *testing.T) {
	var received string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/forms/chromium/convert/html", r.URL.Path)
		file, _, err := r.FormFile("files")
		if assert.NoError(t, err) {
			body, _ := io.ReadAll(file)
			received = string(body)
		}
		_, _ = w.Write([]byte("%PDF-1.7"))
	}))
	defer srv.Close()

	html, err := NewHTMLRenderer()
	require.NoError(t, err)
	engine := NewEngine(html, NewGotenbergClient(srv.URL, time.Second))

	out, err := engine.PDF(context.Background(), invoiceContext(t))
	require.NoError(t, err)
	assert.Equal(t, "%PDF-1.7", string(out))
	assert.True(t, strings.Contains(received, "INV-2024-03-0001"))
}

func TestEngine_PDFFailuresAreRenderErrors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "chromium crashed", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	html, err := NewHTMLRenderer()
	require.NoError(t, err)

	tests := []struct {
		name   string
		engine *Engine
	}{
		{"engine error", NewEngine(html, NewGotenbergClient(srv.URL, time.Second))},
		{"no converter", NewEngine(html, nil)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.engine.PDF(context.Background(), invoiceContext(t))
			require.Error(t, err)
			assert.True(t, apperror.Is(err, apperror.CodeRender))
		})
	}
}
