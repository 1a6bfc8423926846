package builder

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/Kagzat/kagzat-india-sub000/pkg/library"
)

func newTestEditor(t *testing.T, opts ...Option) *Editor {
	t.Helper()
	ed, err := NewEditor(opts...)
	if err != nil {
		t.Fatalf("NewEditor: %v", err)
	}
	return ed
}

func ids(els []Element) []string {
	out := make([]string, len(els))
	for i, el := range els {
		out[i] = el.ID
	}
	return out
}

func TestInsert_PaletteDefaults(t *testing.T) {
	ed := newTestEditor(t)

	el, ok := ed.Insert(PaletteSource{Kind: KindSelect}, End)
	if !ok {
		t.Fatalf("expected insert to succeed")
	}
	want := Element{ID: "el-1", Kind: KindSelect, Label: "Dropdown", Options: []string{"Option 1", "Option 2"}}
	if diff := cmp.Diff(want, el); diff != "" {
		t.Fatalf("element mismatch (-want +got):\n%s", diff)
	}

	text, _ := ed.Insert(PaletteSource{Kind: KindText}, End)
	if text.Options != nil || text.Required || text.Label != "Text Input" {
		t.Fatalf("unexpected text element: %+v", text)
	}
}

func TestInsert_UnknownSourcesAreNoOps(t *testing.T) {
	ed := newTestEditor(t)

	cases := []Source{
		PaletteSource{Kind: "slider"},
		FieldSource{Category: library.CategoryIdentity, FieldName: "shoe_size"},
		FieldSource{Category: "Hobbies", FieldName: "full_name"},
		DocumentSource{Category: "Hobbies"},
		nil,
	}
	for _, src := range cases {
		if _, ok := ed.Insert(src, 0); ok {
			t.Fatalf("expected %#v to be ignored", src)
		}
	}
	if ed.Len() != 0 {
		t.Fatalf("expected empty canvas, got %d elements", ed.Len())
	}
	if ed.CanUndo() {
		t.Fatalf("no-op inserts must not be recorded")
	}
}

func TestInsert_PositionsAndClamping(t *testing.T) {
	ed := newTestEditor(t)

	ed.Insert(PaletteSource{Kind: KindText}, 0)    // el-1
	ed.Insert(PaletteSource{Kind: KindEmail}, 0)   // el-2
	ed.Insert(PaletteSource{Kind: KindPhone}, 1)   // el-3
	ed.Insert(PaletteSource{Kind: KindDate}, 99)   // el-4
	ed.Insert(PaletteSource{Kind: KindNumber}, -5) // el-5

	got := ids(ed.Elements())
	want := []string{"el-5", "el-2", "el-3", "el-1", "el-4"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("order mismatch (-want +got):\n%s", diff)
	}
}

func TestInsert_SkipsCollidingIDs(t *testing.T) {
	doc := Document{Title: "Loaded", Elements: []Element{{ID: "el-1", Kind: KindText, Label: "Text Input"}}}
	ed := newTestEditor(t, WithDocument(doc))

	el, ok := ed.Insert(PaletteSource{Kind: KindEmail}, End)
	if !ok || el.ID != "el-2" {
		t.Fatalf("expected fresh id el-2, got %q (ok=%v)", el.ID, ok)
	}
}

func TestReorder(t *testing.T) {
	ed := newTestEditor(t)
	for _, k := range []Kind{KindText, KindEmail, KindPhone, KindDate} {
		ed.Insert(PaletteSource{Kind: k}, End)
	}
	before := ed.Elements()

	if !ed.Reorder(0, 2) {
		t.Fatalf("expected reorder to change state")
	}
	if diff := cmp.Diff([]string{"el-2", "el-3", "el-1", "el-4"}, ids(ed.Elements())); diff != "" {
		t.Fatalf("order mismatch (-want +got):\n%s", diff)
	}

	// Moving back restores the original list.
	ed.Reorder(2, 0)
	if diff := cmp.Diff(before, ed.Elements()); diff != "" {
		t.Fatalf("reorder inverse mismatch (-want +got):\n%s", diff)
	}

	for _, tc := range [][2]int{{1, 1}, {-1, 0}, {0, 4}, {7, 1}} {
		if ed.Reorder(tc[0], tc[1]) {
			t.Fatalf("expected reorder %v to be a no-op", tc)
		}
	}
	if diff := cmp.Diff(before, ed.Elements()); diff != "" {
		t.Fatalf("no-op reorder changed state (-want +got):\n%s", diff)
	}
}

func TestReorder_IsPermutation(t *testing.T) {
	ed := newTestEditor(t)
	for i := 0; i < 6; i++ {
		ed.Insert(PaletteSource{Kind: KindText}, End)
	}
	for from := 0; from < 6; from++ {
		for to := 0; to < 6; to++ {
			ed.Reorder(from, to)
			seen := map[string]bool{}
			for _, id := range ids(ed.Elements()) {
				seen[id] = true
			}
			if len(seen) != 6 {
				t.Fatalf("reorder(%d,%d) lost elements: %v", from, to, ids(ed.Elements()))
			}
		}
	}
}

func TestSelectAndDelete(t *testing.T) {
	ed := newTestEditor(t)
	a, _ := ed.Insert(PaletteSource{Kind: KindText}, End)
	b, _ := ed.Insert(PaletteSource{Kind: KindEmail}, End)

	ed.Select("missing")
	if _, ok := ed.Selected(); ok {
		t.Fatalf("dangling selection must not resolve")
	}

	ed.Select(a.ID)
	ed.Delete(b.ID)
	if got, ok := ed.Selected(); !ok || got.ID != a.ID {
		t.Fatalf("deleting another element must keep the selection, got %+v", got)
	}

	ed.Delete(a.ID)
	if ed.SelectedID() != "" {
		t.Fatalf("expected selection cleared, got %q", ed.SelectedID())
	}
	if ed.Delete("missing") {
		t.Fatalf("deleting an unknown id must be a no-op")
	}
}

func TestUpdate_TargetsOneElement(t *testing.T) {
	ed := newTestEditor(t)
	ed.Insert(PaletteSource{Kind: KindText}, End)
	ed.Insert(PaletteSource{Kind: KindRadio}, End)
	ed.Insert(PaletteSource{Kind: KindDate}, End)
	before := ed.Elements()

	ok := ed.Update("el-2", Patch{
		Label:    Ptr("Gender"),
		Required: Ptr(true),
		Options:  []string{"Female", "Male", "Other"},
	})
	if !ok {
		t.Fatalf("expected update to change state")
	}

	want := append([]Element(nil), before...)
	want[1].Label = "Gender"
	want[1].Required = true
	want[1].Options = []string{"Female", "Male", "Other"}
	if diff := cmp.Diff(want, ed.Elements()); diff != "" {
		t.Fatalf("update mismatch (-want +got):\n%s", diff)
	}

	if ed.Update("el-2", Patch{Label: Ptr("Gender")}) {
		t.Fatalf("an update without changes must report false")
	}
	if ed.Update("nope", Patch{Label: Ptr("x")}) {
		t.Fatalf("unknown id must be a no-op")
	}
}

func TestPreviewPanels(t *testing.T) {
	ed := newTestEditor(t)
	if diff := cmp.Diff(Panels{Palette: true, Canvas: true, Properties: true}, ed.Panels()); diff != "" {
		t.Fatalf("edit panels mismatch (-want +got):\n%s", diff)
	}
	ed.TogglePreview()
	if !ed.Preview() {
		t.Fatalf("expected preview mode")
	}
	if diff := cmp.Diff(Panels{Canvas: true}, ed.Panels()); diff != "" {
		t.Fatalf("preview panels mismatch (-want +got):\n%s", diff)
	}
}

func TestScenario_LibraryDragAndDelete(t *testing.T) {
	ed := newTestEditor(t)

	field, ok := ed.Insert(FieldSource{Category: library.CategoryIdentity, FieldName: "full_name"}, 0)
	if !ok {
		t.Fatalf("expected full_name insert")
	}
	wantField := Element{
		ID:          "el-1",
		Kind:        KindPredefinedField,
		Label:       "Full Name",
		Placeholder: "Enter full name",
		FieldName:   "full_name",
		Category:    library.CategoryIdentity,
		MinLength:   3,
		MaxLength:   100,
	}
	if diff := cmp.Diff(wantField, field); diff != "" {
		t.Fatalf("field mismatch (-want +got):\n%s", diff)
	}

	doc, ok := ed.Insert(DocumentSource{Category: library.CategoryEducation}, 1)
	if !ok {
		t.Fatalf("expected document insert")
	}
	if doc.Kind != KindDocumentUpload || !doc.Required || doc.Label != "Education Documents" {
		t.Fatalf("unexpected document element: %+v", doc)
	}
	if diff := cmp.Diff(library.Default().DocumentTypes(library.CategoryEducation), doc.DocumentTypes); diff != "" {
		t.Fatalf("document types mismatch (-want +got):\n%s", diff)
	}
	wantHelp := "Accepted: Class 10 Marksheet, Class 12 Marksheet, Degree Certificate, " +
		"Provisional Certificate, Transcript, Migration Certificate"
	if doc.HelpText != wantHelp {
		t.Fatalf("help text = %q, want %q", doc.HelpText, wantHelp)
	}

	ed.Select(field.ID)
	ed.Delete(ed.Elements()[0].ID)

	els := ed.Elements()
	if len(els) != 1 || els[0].Kind != KindDocumentUpload {
		t.Fatalf("expected only the document upload to remain, got %+v", els)
	}
	if ed.SelectedID() != "" {
		t.Fatalf("expected empty selection, got %q", ed.SelectedID())
	}
}

func TestUndoRedo(t *testing.T) {
	ed := newTestEditor(t)
	ed.Insert(PaletteSource{Kind: KindText}, End)
	ed.Insert(PaletteSource{Kind: KindEmail}, End)
	ed.Insert(PaletteSource{Kind: KindPhone}, End)
	start := ed.Elements()

	ed.Reorder(0, 2)
	ed.Update("el-2", Patch{Label: Ptr("Work Email")})
	ed.Delete("el-3")
	end := ed.Elements()

	for i := 0; i < 3; i++ {
		if !ed.Undo() {
			t.Fatalf("undo %d failed", i)
		}
	}
	if diff := cmp.Diff(start, ed.Elements()); diff != "" {
		t.Fatalf("undo mismatch (-want +got):\n%s", diff)
	}

	for i := 0; i < 3; i++ {
		if !ed.Redo() {
			t.Fatalf("redo %d failed", i)
		}
	}
	if diff := cmp.Diff(end, ed.Elements()); diff != "" {
		t.Fatalf("redo mismatch (-want +got):\n%s", diff)
	}
	if ed.Redo() {
		t.Fatalf("redo stack should be empty")
	}

	ed.Undo()
	ed.Insert(PaletteSource{Kind: KindDate}, End)
	if ed.CanRedo() {
		t.Fatalf("a new edit must clear the redo stack")
	}
}

func TestUndo_HistoryLimit(t *testing.T) {
	ed := newTestEditor(t, WithHistory(2))
	for i := 0; i < 4; i++ {
		ed.Insert(PaletteSource{Kind: KindText}, End)
	}
	if !ed.Undo() || !ed.Undo() {
		t.Fatalf("expected two undos")
	}
	if ed.Undo() {
		t.Fatalf("history beyond the limit must be dropped")
	}
	if ed.Len() != 2 {
		t.Fatalf("expected 2 elements, got %d", ed.Len())
	}
}

func TestUndo_InsertClearsSelection(t *testing.T) {
	ed := newTestEditor(t)
	el, _ := ed.Insert(PaletteSource{Kind: KindText}, End)
	ed.Select(el.ID)
	ed.Undo()
	if ed.SelectedID() != "" {
		t.Fatalf("undoing the insert of the selected element must clear the selection")
	}
}

func TestDocumentIsACopy(t *testing.T) {
	ed := newTestEditor(t)
	ed.Insert(PaletteSource{Kind: KindCheckbox}, End)

	doc := ed.Document()
	doc.Elements[0].Options[0] = "mutated"
	doc.Elements[0].Label = "mutated"

	if got := ed.Elements()[0]; got.Label != "Checkboxes" || got.Options[0] != "Option 1" {
		t.Fatalf("editor state leaked through Document(): %+v", got)
	}
}

func TestUUIDGenerator(t *testing.T) {
	ed := newTestEditor(t, WithIDGenerator(UUIDs{}))
	a, _ := ed.Insert(PaletteSource{Kind: KindText}, End)
	b, _ := ed.Insert(PaletteSource{Kind: KindText}, End)
	if len(a.ID) != 36 || a.ID == b.ID {
		t.Fatalf("unexpected uuid ids %q %q", a.ID, b.ID)
	}
}

func TestNewEditor_RejectsInvalidDocument(t *testing.T) {
	doc := Document{Elements: []Element{{ID: "a", Kind: KindText}, {ID: "a", Kind: KindEmail}}}
	if _, err := NewEditor(WithDocument(doc)); err == nil {
		t.Fatalf("expected duplicate id error")
	}
	if _, err := NewEditor(WithHistory(-1)); err == nil {
		t.Fatalf("expected negative history error")
	}
}
