package export

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"sort"
	"strconv"

	"github.com/getkin/kin-openapi/openapi3"

	"github.com/Kagzat/kagzat-india-sub000/pkg/builder"
	"github.com/Kagzat/kagzat-india-sub000/pkg/library"
)

// ErrNoOperation is returned when the document has no operation that
// carries a request body, or none with the requested id.
var ErrNoOperation = errors.New("export: no matching operation with a request body")

// ImportOptions select the operation FromOpenAPI reads.
type ImportOptions struct {
	// OperationID picks the operation. Empty takes the first operation with a
	// request body, in path order.
	OperationID string
	// Library resolves category groups and predefined bounds. Defaults to
	// the bundled catalog.
	Library *library.Catalog
}

var requestMediaTypes = []string{"application/json", "application/x-www-form-urlencoded", "multipart/form-data"}

// FromOpenAPI builds a document from the request body of one operation in
// an OpenAPI 3 document (JSON or YAML). Documents written by OpenAPI round
// trip with their ids, kinds and order; sections are not part of a
// submission and do not come back. Other documents get one element per
// property, with the kind inferred from the schema.
func FromOpenAPI(ctx context.Context, data []byte, opts ImportOptions) (builder.Document, error) {
	if opts.Library == nil {
		opts.Library = library.Default()
	}

	loader := openapi3.NewLoader()
	loader.Context = ctx
	spec, err := loader.LoadFromData(data)
	if err != nil {
		return builder.Document{}, fmt.Errorf("export: load openapi: %w", err)
	}
	if err := spec.Validate(ctx, openapi3.DisableExamplesValidation()); err != nil {
		return builder.Document{}, fmt.Errorf("export: invalid openapi document: %w", err)
	}

	op, err := findOperation(spec, opts.OperationID)
	if err != nil {
		return builder.Document{}, err
	}
	body := requestSchema(op)
	if body == nil {
		return builder.Document{}, ErrNoOperation
	}

	var placed []placedElement
	for name, ref := range body.Properties {
		if ref == nil || ref.Value == nil {
			continue
		}
		prop := ref.Value
		category := library.Category(name)
		if prop.Type.Is(openapi3.TypeObject) && opts.Library.HasCategory(category) {
			for field, fref := range prop.Properties {
				if fref == nil || fref.Value == nil {
					continue
				}
				placed = append(placed, predefinedElement(opts.Library, category, field, fref.Value, slices.Contains(prop.Required, field)))
			}
			continue
		}
		placed = append(placed, plainElement(name, prop, slices.Contains(body.Required, name)))
	}

	doc := builder.Document{Elements: orderElements(placed)}
	if spec.Info != nil {
		doc.Title = spec.Info.Title
	}
	if err := doc.Validate(); err != nil {
		return builder.Document{}, fmt.Errorf("export: imported document: %w", err)
	}
	return doc, nil
}

func findOperation(spec *openapi3.T, operationID string) (*openapi3.Operation, error) {
	if spec.Paths == nil {
		return nil, ErrNoOperation
	}
	paths := spec.Paths.Map()
	keys := make([]string, 0, len(paths))
	for p := range paths {
		keys = append(keys, p)
	}
	sort.Strings(keys)

	for _, p := range keys {
		item := paths[p]
		if item == nil {
			continue
		}
		for _, op := range []*openapi3.Operation{item.Post, item.Put, item.Patch, item.Get, item.Delete} {
			if op == nil || op.RequestBody == nil || op.RequestBody.Value == nil {
				continue
			}
			if operationID == "" || op.OperationID == operationID {
				return op, nil
			}
		}
	}
	if operationID != "" {
		return nil, fmt.Errorf("%w: %q", ErrNoOperation, operationID)
	}
	return nil, ErrNoOperation
}

func requestSchema(op *openapi3.Operation) *openapi3.Schema {
	content := op.RequestBody.Value.Content
	for _, mediaType := range requestMediaTypes {
		if mt := content.Get(mediaType); mt != nil && mt.Schema != nil && mt.Schema.Value != nil {
			return mt.Schema.Value
		}
	}
	return nil
}

type placedElement struct {
	el      builder.Element
	name    string
	index   int
	indexed bool
}

func predefinedElement(lib *library.Catalog, category library.Category, field string, s *openapi3.Schema, required bool) placedElement {
	p := placedElement{name: string(category) + "." + field}
	p.el = builder.Element{
		Kind:      builder.KindPredefinedField,
		Label:     labelOr(s.Title, field),
		Required:  required,
		Category:  category,
		FieldName: field,
		MinLength: int(s.MinLength),
	}
	if s.MaxLength != nil {
		p.el.MaxLength = int(*s.MaxLength)
	}
	if def, ok := lib.Field(category, field); ok && s.MaxLength == nil {
		p.el.MinLength, p.el.MaxLength = def.MinLength, def.MaxLength
	}
	p.applyMeta(s, false)
	return p
}

func plainElement(name string, s *openapi3.Schema, required bool) placedElement {
	p := placedElement{name: name}
	p.el = builder.Element{
		ID:       name,
		Kind:     inferKind(s),
		Label:    labelOr(s.Title, name),
		Required: required,
		HelpText: s.Description,
	}
	switch p.el.Kind {
	case builder.KindSelect, builder.KindRadio:
		p.el.Options = enumStrings(s.Enum)
	case builder.KindCheckbox:
		if s.Items != nil && s.Items.Value != nil {
			p.el.Options = enumStrings(s.Items.Value.Enum)
		}
	case builder.KindDocumentUpload:
		p.el.DocumentTypes = stringList(s.Extensions[documentTypesExt])
	}
	p.applyMeta(s, true)
	return p
}

// applyMeta restores the element metadata written by OpenAPI. Kinds from
// the metadata only replace inferred ones when keepKind is true.
func (p *placedElement) applyMeta(s *openapi3.Schema, keepKind bool) {
	raw, ok := s.Extensions[elementExt]
	if !ok {
		return
	}
	var meta elementMeta
	encoded, err := json.Marshal(raw)
	if err != nil || json.Unmarshal(encoded, &meta) != nil {
		return
	}
	if meta.ID != "" {
		p.el.ID = meta.ID
	}
	if keepKind && meta.Kind.Valid() && meta.Kind != builder.KindPredefinedField {
		p.el.Kind = meta.Kind
	}
	if keepKind {
		p.el.Category = meta.Category
		if meta.Kind == builder.KindPredefinedField && meta.Category != "" && meta.FieldName != "" {
			p.el.Kind = builder.KindPredefinedField
			p.el.FieldName = meta.FieldName
			p.el.MinLength = int(s.MinLength)
			if s.MaxLength != nil {
				p.el.MaxLength = int(*s.MaxLength)
			}
		}
	}
	p.el.Placeholder = meta.Placeholder
	p.el.HelpText = meta.HelpText
	p.index, p.indexed = meta.Index, true
}

func inferKind(s *openapi3.Schema) builder.Kind {
	switch {
	case s.Format == "binary":
		if _, ok := s.Extensions[documentTypesExt]; ok {
			return builder.KindDocumentUpload
		}
		return builder.KindFile
	case s.Type.Is(openapi3.TypeArray):
		return builder.KindCheckbox
	case len(s.Enum) > 0:
		return builder.KindSelect
	case s.Type.Is(openapi3.TypeNumber), s.Type.Is(openapi3.TypeInteger):
		return builder.KindNumber
	case s.Format == "email":
		return builder.KindEmail
	case s.Format == "date":
		return builder.KindDate
	default:
		return builder.KindText
	}
}

// orderElements puts elements carrying an export index first, in index
// order, then the rest by property name. Missing ids are filled in.
func orderElements(placed []placedElement) []builder.Element {
	sort.SliceStable(placed, func(i, j int) bool {
		a, b := placed[i], placed[j]
		if a.indexed != b.indexed {
			return a.indexed
		}
		if a.indexed && a.index != b.index {
			return a.index < b.index
		}
		return a.name < b.name
	})

	used := make(map[string]struct{}, len(placed))
	for _, p := range placed {
		if p.el.ID != "" {
			used[p.el.ID] = struct{}{}
		}
	}
	out := make([]builder.Element, 0, len(placed))
	next := 1
	for _, p := range placed {
		for p.el.ID == "" {
			candidate := "el-" + strconv.Itoa(next)
			next++
			if _, taken := used[candidate]; !taken {
				p.el.ID = candidate
				used[candidate] = struct{}{}
			}
		}
		out = append(out, p.el)
	}
	return out
}

func labelOr(title, name string) string {
	if title != "" {
		return title
	}
	return library.Title(name)
}

func enumStrings(values []any) []string {
	if len(values) == 0 {
		return nil
	}
	out := make([]string, 0, len(values))
	for _, v := range values {
		out = append(out, fmt.Sprint(v))
	}
	return out
}

func stringList(raw any) []string {
	switch v := raw.(type) {
	case []string:
		return append([]string(nil), v...)
	case []any:
		out := make([]string, 0, len(v))
		for _, item := range v {
			out = append(out, fmt.Sprint(item))
		}
		return out
	default:
		return nil
	}
}
