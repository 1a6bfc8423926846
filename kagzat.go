// Package kagzat re-exports the pieces most callers need: the form editor,
// the HTML preview and the OpenAPI export/import. The subpackages under pkg/
// hold the full APIs.
package kagzat

import (
	"context"
	"io/fs"

	"github.com/Kagzat/kagzat-india-sub000/pkg/builder"
	"github.com/Kagzat/kagzat-india-sub000/pkg/export"
	"github.com/Kagzat/kagzat-india-sub000/pkg/library"
	"github.com/Kagzat/kagzat-india-sub000/pkg/render"
	"github.com/Kagzat/kagzat-india-sub000/pkg/renderers/html"
)

// Document is the form being designed.
type Document = builder.Document

// Element is a single entry on the canvas.
type Element = builder.Element

// RenderOptions carries prefill values, server-side errors and theme
// selection for a render.
type RenderOptions = render.RenderOptions

// NewEditor returns a form editor backed by the bundled field library.
func NewEditor(options ...builder.Option) (*builder.Editor, error) {
	return builder.NewEditor(append([]builder.Option{builder.WithLibrary(library.Default())}, options...)...)
}

// PreviewHTML renders doc with the built-in HTML renderer and themes.
func PreviewHTML(ctx context.Context, doc Document, opts RenderOptions) ([]byte, error) {
	r, err := html.New(html.WithThemeSelector(render.DefaultThemes()))
	if err != nil {
		return nil, err
	}
	return r.Render(ctx, doc, opts)
}

// EmbeddedTemplates exposes the HTML renderer templates so callers can
// extend them.
func EmbeddedTemplates() fs.FS {
	return html.TemplatesFS()
}

// ExportOpenAPI describes the submission collected by doc as YAML.
func ExportOpenAPI(ctx context.Context, doc Document) ([]byte, error) {
	return export.OpenAPIYAML(ctx, doc, export.Options{})
}

// ImportOpenAPI builds a document from the first operation with a request
// body in data.
func ImportOpenAPI(ctx context.Context, data []byte) (Document, error) {
	return export.FromOpenAPI(ctx, data, export.ImportOptions{})
}
