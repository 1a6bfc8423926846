package export

import (
	"context"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/Kagzat/kagzat-india-sub000/pkg/builder"
	"github.com/Kagzat/kagzat-india-sub000/pkg/library"
)

func TestFromOpenAPI_RestoresExportedDocument(t *testing.T) {
	want := sampleDoc()
	want.Elements = want.Elements[1:]
	want.Elements[2].Placeholder = "you@example.com"
	want.Elements = append(want.Elements, builder.Element{
		ID: "el-9", Kind: builder.KindDocumentUpload, Label: "Proof", Category: library.CategoryIdentity,
		DocumentTypes: []string{"aadhaar_card", "pan_card"},
	})

	for _, encode := range []func(context.Context, builder.Document, Options) ([]byte, error){OpenAPIJSON, OpenAPIYAML} {
		raw, err := encode(context.Background(), want, Options{})
		if err != nil {
			t.Fatalf("encode: %v", err)
		}
		got, err := FromOpenAPI(context.Background(), raw, ImportOptions{})
		if err != nil {
			t.Fatalf("FromOpenAPI: %v", err)
		}
		if diff := cmp.Diff(want, got); diff != "" {
			t.Fatalf("round trip mismatch (-want +got):\n%s", diff)
		}
	}
}

func TestFromOpenAPI_RepeatedLibraryField(t *testing.T) {
	want := builder.Document{
		Title: "Joint Applicants",
		Elements: []builder.Element{
			{ID: "el-1", Kind: builder.KindPredefinedField, Label: "Full Name", Required: true, Category: library.CategoryIdentity, FieldName: "full_name", MinLength: 3, MaxLength: 100},
			{ID: "el-2", Kind: builder.KindPredefinedField, Label: "Co-applicant Name", Required: true, Category: library.CategoryIdentity, FieldName: "full_name", MinLength: 3, MaxLength: 100, HelpText: "As on PAN"},
			{ID: "el-3", Kind: builder.KindPredefinedField, Label: "Full Name", Category: library.CategoryIdentity, FieldName: "full_name", MinLength: 3, MaxLength: 100},
		},
	}

	spec, err := OpenAPI(context.Background(), want, Options{})
	if err != nil {
		t.Fatalf("OpenAPI: %v", err)
	}
	body := spec.Paths.Value("/submissions").Post.RequestBody.Value.Content.Get("application/json").Schema.Value
	identity := body.Properties[string(library.CategoryIdentity)].Value
	if diff := cmp.Diff([]string{"full_name"}, identity.Required); diff != "" {
		t.Fatalf("group required mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"Identity", "el-2"}, body.Required); diff != "" {
		t.Fatalf("root required mismatch (-want +got):\n%s", diff)
	}

	raw, err := OpenAPIJSON(context.Background(), want, Options{})
	if err != nil {
		t.Fatalf("OpenAPIJSON: %v", err)
	}
	got, err := FromOpenAPI(context.Background(), raw, ImportOptions{})
	if err != nil {
		t.Fatalf("FromOpenAPI: %v", err)
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("round trip mismatch (-want +got):\n%s", diff)
	}
}

const foreignSpec = `
openapi: 3.0.3
info:
  title: Partner KYC
  version: "2.0"
paths:
  /health:
    get:
      responses:
        "200":
          description: ok
  /kyc:
    post:
      operationId: createKyc
      requestBody:
        content:
          application/json:
            schema:
              type: object
              required: [age, Identity]
              properties:
                age:
                  type: integer
                plan:
                  type: string
                  title: Plan
                  description: Pick one
                  enum: [basic, premium]
                Identity:
                  type: object
                  required: [pan_number]
                  properties:
                    pan_number:
                      type: string
                tags:
                  type: array
                  items:
                    type: string
                    enum: [a, b]
      responses:
        "201":
          description: created
`

func TestFromOpenAPI_InfersKinds(t *testing.T) {
	got, err := FromOpenAPI(context.Background(), []byte(foreignSpec), ImportOptions{OperationID: "createKyc"})
	if err != nil {
		t.Fatalf("FromOpenAPI: %v", err)
	}
	want := builder.Document{
		Title: "Partner KYC",
		Elements: []builder.Element{
			{ID: "el-1", Kind: builder.KindPredefinedField, Label: "Pan Number", Required: true, Category: library.CategoryIdentity, FieldName: "pan_number", MinLength: 10, MaxLength: 10},
			{ID: "age", Kind: builder.KindNumber, Label: "Age", Required: true},
			{ID: "plan", Kind: builder.KindSelect, Label: "Plan", HelpText: "Pick one", Options: []string{"basic", "premium"}},
			{ID: "tags", Kind: builder.KindCheckbox, Label: "Tags", Options: []string{"a", "b"}},
		},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("import mismatch (-want +got):\n%s", diff)
	}
}

func TestFromOpenAPI_Errors(t *testing.T) {
	if _, err := FromOpenAPI(context.Background(), []byte(foreignSpec), ImportOptions{OperationID: "missing"}); !errors.Is(err, ErrNoOperation) {
		t.Fatalf("expected ErrNoOperation, got %v", err)
	}
	if _, err := FromOpenAPI(context.Background(), []byte("not: [openapi"), ImportOptions{}); err == nil {
		t.Fatalf("expected load error")
	}
}
