package builder

import (
	"fmt"

	"github.com/Kagzat/kagzat-india-sub000/pkg/library"
)

// Kind identifies the variant of a form element.
type Kind string

const (
	KindSection         Kind = "section"
	KindText            Kind = "text"
	KindTextarea        Kind = "textarea"
	KindEmail           Kind = "email"
	KindPhone           Kind = "phone"
	KindDate            Kind = "date"
	KindNumber          Kind = "number"
	KindSelect          Kind = "select"
	KindRadio           Kind = "radio"
	KindCheckbox        Kind = "checkbox"
	KindFile            Kind = "file"
	KindPredefinedField Kind = "predefined-field"
	KindDocumentUpload  Kind = "document-upload"
)

var kinds = map[Kind]struct{}{
	KindSection: {}, KindText: {}, KindTextarea: {}, KindEmail: {}, KindPhone: {},
	KindDate: {}, KindNumber: {}, KindSelect: {}, KindRadio: {}, KindCheckbox: {},
	KindFile: {}, KindPredefinedField: {}, KindDocumentUpload: {},
}

// Valid reports whether k is a known element kind.
func (k Kind) Valid() bool {
	_, ok := kinds[k]
	return ok
}

// IsChoice reports whether the kind carries options.
func (k Kind) IsChoice() bool {
	return k == KindSelect || k == KindRadio || k == KindCheckbox
}

// Element is a single entry on the canvas. Variant-specific attributes are
// left zero for kinds that do not use them.
type Element struct {
	ID          string `json:"id"`
	Kind        Kind   `json:"type"`
	Label       string `json:"label"`
	Required    bool   `json:"required"`
	Placeholder string `json:"placeholder,omitempty"`
	HelpText    string `json:"helpText,omitempty"`

	// Choice kinds.
	Options []string `json:"options,omitempty"`

	// predefined-field.
	FieldName string           `json:"fieldName,omitempty"`
	Category  library.Category `json:"category,omitempty"`
	MinLength int              `json:"minLength,omitempty"`
	MaxLength int              `json:"maxLength,omitempty"`

	// document-upload.
	DocumentTypes []string `json:"documentTypes,omitempty"`
}

// Clone returns a deep copy of the element.
func (e Element) Clone() Element {
	out := e
	if e.Options != nil {
		out.Options = append([]string{}, e.Options...)
	}
	if e.DocumentTypes != nil {
		out.DocumentTypes = append([]string{}, e.DocumentTypes...)
	}
	return out
}

// Document is the form being designed. Element order is the render and
// submit order.
type Document struct {
	Title    string    `json:"title"`
	Elements []Element `json:"elements"`
}

// Clone returns a deep copy of the document.
func (d Document) Clone() Document {
	out := Document{Title: d.Title, Elements: make([]Element, len(d.Elements))}
	for i, el := range d.Elements {
		out.Elements[i] = el.Clone()
	}
	return out
}

// Validate checks the invariants a loaded document must satisfy before an
// editor adopts it: known kinds and unique, non-empty ids.
func (d Document) Validate() error {
	seen := make(map[string]struct{}, len(d.Elements))
	for idx, el := range d.Elements {
		if el.ID == "" {
			return fmt.Errorf("builder: element %d has no id", idx)
		}
		if !el.Kind.Valid() {
			return fmt.Errorf("builder: element %q has unknown type %q", el.ID, el.Kind)
		}
		if _, dup := seen[el.ID]; dup {
			return fmt.Errorf("builder: duplicate element id %q", el.ID)
		}
		seen[el.ID] = struct{}{}
	}
	return nil
}
