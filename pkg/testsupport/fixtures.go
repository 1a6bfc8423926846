// Package testsupport holds fixtures shared by renderer tests.
package testsupport

import (
	"bytes"
	"context"
	"io"
	"testing"

	"github.com/Kagzat/kagzat-india-sub000/pkg/builder"
	"github.com/Kagzat/kagzat-india-sub000/pkg/library"
)

// SampleDocument is the canonical form used across renderer tests: one
// element of every palette kind followed by a predefined field and a
// document upload.
func SampleDocument(t *testing.T) builder.Document {
	t.Helper()

	ed, err := builder.NewEditor(builder.WithTitle("KYC Form"))
	if err != nil {
		t.Fatalf("new editor: %v", err)
	}
	sources := make([]builder.Source, 0, len(builder.Palette())+2)
	for _, entry := range builder.Palette() {
		sources = append(sources, builder.PaletteSource{Kind: entry.Kind})
	}
	sources = append(sources,
		builder.FieldSource{Category: library.CategoryIdentity, FieldName: "full_name"},
		builder.DocumentSource{Category: library.CategoryEducation},
	)
	for _, src := range sources {
		if _, ok := ed.Insert(src, builder.End); !ok {
			t.Fatalf("insert %#v failed", src)
		}
	}
	return ed.Document()
}

func Context() context.Context {
	return context.Background()
}

// CaptureTemplateOutput runs render against a buffer and returns both its
// result and what it wrote.
func CaptureTemplateOutput(t *testing.T, render func(io.Writer) (string, error)) (string, string) {
	t.Helper()

	var buf bytes.Buffer
	out, err := render(&buf)
	if err != nil {
		t.Fatalf("render template: %v", err)
	}
	return out, buf.String()
}
