// Package export turns a builder document into artefacts other tools can
// consume: the document JSON itself and an OpenAPI description of the
// submission it collects.
package export

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"

	"github.com/getkin/kin-openapi/openapi3"
	"gopkg.in/yaml.v3"

	"github.com/Kagzat/kagzat-india-sub000/pkg/builder"
	"github.com/Kagzat/kagzat-india-sub000/pkg/library"
	"github.com/Kagzat/kagzat-india-sub000/pkg/render"
)

// FormFilename is the suggested name for a downloaded document.
const FormFilename = "form.json"

const (
	defaultPath        = "/submissions"
	defaultVersion     = "1.0.0"
	defaultOperationID = "submitForm"
	documentTypesExt   = "x-document-types"
	elementExt         = "x-kagzat-element"
)

// elementMeta travels with every exported property so FromOpenAPI can
// restore what the schema alone does not carry.
type elementMeta struct {
	ID          string       `json:"id"`
	Kind        builder.Kind `json:"type"`
	Index       int          `json:"index"`
	Placeholder string       `json:"placeholder,omitempty"`
	HelpText    string       `json:"helpText,omitempty"`

	Category  library.Category `json:"category,omitempty"`
	FieldName string           `json:"fieldName,omitempty"`
}

// Options shape the generated OpenAPI document. Zero values use defaults.
type Options struct {
	Title       string
	Version     string
	Path        string
	OperationID string
}

func (o Options) withDefaults(doc builder.Document) Options {
	if o.Title == "" {
		o.Title = doc.Title
	}
	if o.Title == "" {
		o.Title = "Form"
	}
	if o.Version == "" {
		o.Version = defaultVersion
	}
	if o.Path == "" {
		o.Path = defaultPath
	}
	if o.OperationID == "" {
		o.OperationID = defaultOperationID
	}
	return o
}

// JSON returns the indented document, the same shape the builder loads.
func JSON(doc builder.Document) ([]byte, error) {
	out, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("export: encode document: %w", err)
	}
	return out, nil
}

// OpenAPI describes the submission collected by doc as a single POST
// operation. Predefined fields are grouped in one object per category,
// mirroring the entries export; every other non-section element is a
// property named by its id. Forms with uploads use multipart/form-data.
// The result is validated before it is returned.
func OpenAPI(ctx context.Context, doc builder.Document, opts Options) (*openapi3.T, error) {
	opts = opts.withDefaults(doc)

	body, hasFiles := submissionSchema(doc)
	content := openapi3.NewContentWithJSONSchema(body)
	if hasFiles {
		content = openapi3.NewContentWithFormDataSchema(body)
	}

	op := openapi3.NewOperation()
	op.OperationID = opts.OperationID
	op.Summary = "Submit " + opts.Title
	op.RequestBody = &openapi3.RequestBodyRef{
		Value: openapi3.NewRequestBody().WithRequired(true).WithContent(content),
	}
	op.Responses = openapi3.NewResponses(
		openapi3.WithStatus(201, &openapi3.ResponseRef{Value: openapi3.NewResponse().WithDescription("Submission accepted")}),
		openapi3.WithStatus(422, &openapi3.ResponseRef{Value: openapi3.NewResponse().WithDescription("Validation failed")}),
	)

	spec := &openapi3.T{
		OpenAPI: "3.0.3",
		Info:    &openapi3.Info{Title: opts.Title, Version: opts.Version},
		Paths:   openapi3.NewPaths(openapi3.WithPath(opts.Path, &openapi3.PathItem{Post: op})),
	}
	if err := spec.Validate(ctx); err != nil {
		return nil, fmt.Errorf("export: invalid openapi document: %w", err)
	}
	return spec, nil
}

// OpenAPIJSON renders OpenAPI as indented JSON.
func OpenAPIJSON(ctx context.Context, doc builder.Document, opts Options) ([]byte, error) {
	spec, err := OpenAPI(ctx, doc, opts)
	if err != nil {
		return nil, err
	}
	out, err := json.MarshalIndent(spec, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("export: encode openapi: %w", err)
	}
	return out, nil
}

// OpenAPIYAML renders OpenAPI as YAML.
func OpenAPIYAML(ctx context.Context, doc builder.Document, opts Options) ([]byte, error) {
	raw, err := OpenAPIJSON(ctx, doc, opts)
	if err != nil {
		return nil, err
	}
	var tree any
	if err := yaml.Unmarshal(raw, &tree); err != nil {
		return nil, fmt.Errorf("export: convert openapi: %w", err)
	}
	out, err := yaml.Marshal(tree)
	if err != nil {
		return nil, fmt.Errorf("export: encode openapi yaml: %w", err)
	}
	return out, nil
}

func submissionSchema(doc builder.Document) (*openapi3.Schema, bool) {
	root := openapi3.NewObjectSchema()
	groups := map[library.Category]*openapi3.Schema{}
	grouped := map[string]bool{}
	hasFiles := false

	for idx, el := range doc.Elements {
		if el.Kind == builder.KindSection {
			continue
		}
		prop := elementSchema(el)
		prop.Extensions[elementExt] = elementMeta{
			ID:          el.ID,
			Kind:        el.Kind,
			Index:       idx,
			Placeholder: el.Placeholder,
			HelpText:    el.HelpText,
			Category:    el.Category,
			FieldName:   el.FieldName,
		}
		if el.Kind == builder.KindFile || el.Kind == builder.KindDocumentUpload {
			hasFiles = true
		}

		// A field placed twice keeps its first copy in the category group;
		// later copies sit at the root under their element id.
		key := string(el.Category) + "." + el.FieldName
		if el.Kind == builder.KindPredefinedField && el.Category != "" && el.FieldName != "" && !grouped[key] {
			grouped[key] = true
			group, ok := groups[el.Category]
			if !ok {
				group = openapi3.NewObjectSchema()
				group.Title = string(el.Category)
				groups[el.Category] = group
				root.WithProperty(string(el.Category), group)
			}
			group.WithProperty(el.FieldName, prop)
			if el.Required {
				group.Required = append(group.Required, el.FieldName)
			}
			continue
		}

		root.WithProperty(el.ID, prop)
		if el.Required {
			root.Required = append(root.Required, el.ID)
		}
	}

	for category, group := range groups {
		if len(group.Required) > 0 {
			sort.Strings(group.Required)
			root.Required = append(root.Required, string(category))
		}
	}
	sort.Strings(root.Required)
	return root, hasFiles
}

func elementSchema(el builder.Element) *openapi3.Schema {
	var s *openapi3.Schema
	switch el.Kind {
	case builder.KindNumber:
		s = openapi3.NewFloat64Schema()
	case builder.KindEmail:
		s = openapi3.NewStringSchema().WithFormat("email")
	case builder.KindDate:
		s = openapi3.NewStringSchema().WithFormat("date")
	case builder.KindSelect, builder.KindRadio:
		s = enumSchema(el.Options)
	case builder.KindCheckbox:
		s = openapi3.NewArraySchema().WithItems(enumSchema(el.Options))
	case builder.KindFile:
		s = openapi3.NewStringSchema().WithFormat("binary")
	case builder.KindDocumentUpload:
		s = openapi3.NewStringSchema().WithFormat("binary")
	case builder.KindPredefinedField:
		s = openapi3.NewStringSchema().WithMinLength(int64(el.MinLength))
		if el.MaxLength > 0 {
			s = s.WithMaxLength(int64(el.MaxLength))
		}
	default:
		s = openapi3.NewStringSchema()
	}
	s.Title = el.Label
	s.Description = describe(el)
	s.Extensions = map[string]any{}
	if el.Kind == builder.KindDocumentUpload && len(el.DocumentTypes) > 0 {
		s.Extensions[documentTypesExt] = append([]string(nil), el.DocumentTypes...)
	}
	return s
}

func describe(el builder.Element) string {
	desc := el.HelpText
	extra := ""
	switch el.Kind {
	case builder.KindPredefinedField:
		extra = render.CharacterHint(el)
	case builder.KindDocumentUpload:
		extra = render.DocumentDropzoneLabel(el.DocumentTypes)
	}
	switch {
	case desc == "":
		return extra
	case extra == "":
		return desc
	default:
		return desc + " (" + extra + ")"
	}
}

// enumSchema leaves the enum off when there are no options; an empty enum
// does not validate.
func enumSchema(options []string) *openapi3.Schema {
	s := openapi3.NewStringSchema()
	if len(options) == 0 {
		return s
	}
	values := make([]any, len(options))
	for i, v := range options {
		values[i] = v
	}
	return s.WithEnum(values...)
}
