package builder

import "github.com/Kagzat/kagzat-india-sub000/pkg/library"

// Source identifies where a dragged item came from. It is a closed set:
// PaletteSource, FieldSource and DocumentSource.
type Source interface {
	sourceType() string
}

// PaletteSource drags a generic component of the given kind.
type PaletteSource struct {
	Kind Kind `json:"kind"`
}

// FieldSource drags a predefined field from the field library.
type FieldSource struct {
	Category  library.Category `json:"category"`
	FieldName string           `json:"fieldName"`
}

// DocumentSource drags the document-upload block of a category.
type DocumentSource struct {
	Category library.Category `json:"category"`
}

func (PaletteSource) sourceType() string  { return "palette" }
func (FieldSource) sourceType() string    { return "field" }
func (DocumentSource) sourceType() string { return "document" }
