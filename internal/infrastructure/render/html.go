// Package render turns render contexts into HTML and PDF bytes.
package render

import (
	"bytes"
	"context"
	"embed"
	"fmt"
	"html/template"
	"regexp"
	"strings"
	"time"

	"go.opentelemetry.io/otel"

	"docengine/internal/domain/documents"
	domrender "docengine/internal/domain/render"
)

//go:embed templates/*.html.tmpl
var templateFS embed.FS

const documentTemplate = "document.html.tmpl"

var hexColorRE = regexp.MustCompile(`^#(?:[0-9a-fA-F]{3}|[0-9a-fA-F]{6})$`)

// HTMLRenderer renders the built-in document layout.
type HTMLRenderer struct {
	tmpl *template.Template
}

// NewHTMLRenderer parses the embedded layout.
func NewHTMLRenderer() (*HTMLRenderer, error) {
	tmpl, err := template.New(documentTemplate).Funcs(funcMap()).ParseFS(templateFS, "templates/*.html.tmpl")
	if err != nil {
		return nil, fmt.Errorf("parse document template: %w", err)
	}
	return &HTMLRenderer{tmpl: tmpl}, nil
}

// Render executes the layout for rc.
func (r *HTMLRenderer) Render(ctx context.Context, rc *domrender.Context) ([]byte, error) {
	_, span := otel.Tracer("render").Start(ctx, "render.HTML")
	defer span.End()

	if rc == nil || rc.Document == nil || rc.Template == nil {
		return nil, fmt.Errorf("render context is incomplete")
	}
	var buf bytes.Buffer
	if err := r.tmpl.ExecuteTemplate(&buf, documentTemplate, rc); err != nil {
		return nil, fmt.Errorf("execute document template: %w", err)
	}
	return buf.Bytes(), nil
}

func funcMap() template.FuncMap {
	return template.FuncMap{
		"money":          domrender.FormatMoney,
		"date":           formatDate,
		"inc":            func(i int) int { return i + 1 },
		"itemValue":      itemValue,
		"cssColor":       cssColor,
		"secondaryLabel": secondaryLabel,
	}
}

func formatDate(v any) string {
	switch t := v.(type) {
	case time.Time:
		return t.Format("02 Jan 2006")
	case *time.Time:
		if t == nil {
			return ""
		}
		return t.Format("02 Jan 2006")
	}
	return ""
}

func itemValue(item documents.Item, column string) string {
	if item.ItemData == nil {
		return ""
	}
	v, ok := item.ItemData[column]
	if !ok || v == nil {
		return ""
	}
	return fmt.Sprint(v)
}

// cssColor passes through hex colors only.
func cssColor(s string) template.CSS {
	if hexColorRE.MatchString(s) {
		return template.CSS(s)
	}
	return template.CSS("#333333")
}

func secondaryLabel(doc *documents.Document) string {
	name := doc.Info().SecondaryDate
	if name == "" {
		return ""
	}
	words := strings.Split(name, "_")
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}
