package render

import (
	"context"
	"errors"

	"docengine/internal/core/apperror"
	domrender "docengine/internal/domain/render"
)

// PDFConverter turns HTML into PDF.
type PDFConverter interface {
	ConvertHTML(ctx context.Context, html []byte) ([]byte, error)
}

// Engine implements domrender.Renderer on top of the HTML layout and a PDF converter.
type Engine struct {
	html *HTMLRenderer
	pdf  PDFConverter
}

var _ domrender.Renderer = (*Engine)(nil)

var errPDFDisabled = errors.New("pdf rendering is not configured")

// NewEngine creates an engine. pdf may be nil when no converter is configured.
func NewEngine(html *HTMLRenderer, pdf PDFConverter) *Engine {
	return &Engine{html: html, pdf: pdf}
}

// HTML renders rc as a standalone HTML page.
func (e *Engine) HTML(ctx context.Context, rc *domrender.Context) ([]byte, error) {
	out, err := e.html.Render(ctx, rc)
	if err != nil {
		return nil, apperror.NewRender(err)
	}
	return out, nil
}

// PDF renders rc to HTML and converts it.
func (e *Engine) PDF(ctx context.Context, rc *domrender.Context) ([]byte, error) {
	if e.pdf == nil {
		return nil, apperror.NewRender(errPDFDisabled)
	}
	page, err := e.html.Render(ctx, rc)
	if err != nil {
		return nil, apperror.NewRender(err)
	}
	out, err := e.pdf.ConvertHTML(ctx, page)
	if err != nil {
		return nil, apperror.NewRender(err)
	}
	return out, nil
}
