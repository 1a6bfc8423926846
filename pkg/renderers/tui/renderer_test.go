package tui

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/Kagzat/kagzat-india-sub000/pkg/builder"
	"github.com/Kagzat/kagzat-india-sub000/pkg/library"
	"github.com/Kagzat/kagzat-india-sub000/pkg/render"
	"github.com/Kagzat/kagzat-india-sub000/pkg/wizard"
)

type stubDriver struct {
	inputs       []string
	selectIdx    []int
	multiIdx     [][]int
	confirm      []bool
	textAreas    []string
	passwords    []string
	infoMessages []string
	selects      []SelectConfig
	inputCfgs    []InputConfig
	inputPos     int
	selectPos    int
	multiPos     int
	confirmPos   int
	textPos      int
	passPos      int
	err          error
}

func (s *stubDriver) Input(_ context.Context, cfg InputConfig) (string, error) {
	if s.err != nil {
		return "", s.err
	}
	s.inputCfgs = append(s.inputCfgs, cfg)
	if s.inputPos >= len(s.inputs) {
		return "", errors.New("no input scripted")
	}
	val := s.inputs[s.inputPos]
	s.inputPos++
	return val, nil
}

func (s *stubDriver) Password(_ context.Context, _ InputConfig) (string, error) {
	if s.passPos >= len(s.passwords) {
		return "", errors.New("no password scripted")
	}
	val := s.passwords[s.passPos]
	s.passPos++
	return val, nil
}

func (s *stubDriver) Confirm(_ context.Context, _ ConfirmConfig) (bool, error) {
	if s.confirmPos >= len(s.confirm) {
		return false, errors.New("no confirm scripted")
	}
	val := s.confirm[s.confirmPos]
	s.confirmPos++
	return val, nil
}

func (s *stubDriver) Select(_ context.Context, cfg SelectConfig) (int, error) {
	s.selects = append(s.selects, cfg)
	if s.selectPos >= len(s.selectIdx) {
		return -1, errors.New("no select scripted")
	}
	val := s.selectIdx[s.selectPos]
	s.selectPos++
	return val, nil
}

func (s *stubDriver) MultiSelect(_ context.Context, _ SelectConfig) ([]int, error) {
	if s.multiPos >= len(s.multiIdx) {
		return nil, errors.New("no multiselect scripted")
	}
	val := s.multiIdx[s.multiPos]
	s.multiPos++
	return val, nil
}

func (s *stubDriver) TextArea(_ context.Context, _ TextAreaConfig) (string, error) {
	if s.textPos >= len(s.textAreas) {
		return "", errors.New("no textarea scripted")
	}
	val := s.textAreas[s.textPos]
	s.textPos++
	return val, nil
}

func (s *stubDriver) Info(_ context.Context, msg string) error {
	s.infoMessages = append(s.infoMessages, msg)
	return nil
}

func applicationDoc() builder.Document {
	return builder.Document{
		Title: "Applicant Details",
		Elements: []builder.Element{
			{ID: "el-1", Kind: builder.KindSection, Label: "Applicant"},
			{ID: "el-2", Kind: builder.KindPredefinedField, Label: "Full Name", Required: true, Category: library.CategoryIdentity, FieldName: "full_name", MinLength: 3, MaxLength: 100},
			{ID: "el-3", Kind: builder.KindEmail, Label: "Email", Required: true},
			{ID: "el-4", Kind: builder.KindSelect, Label: "Marital Status", Options: []string{"Single", "Married"}},
			{ID: "el-5", Kind: builder.KindCheckbox, Label: "Languages", Options: []string{"Hindi", "English", "Tamil"}},
			{ID: "el-6", Kind: builder.KindNumber, Label: "Age"},
			{ID: "el-7", Kind: builder.KindDocumentUpload, Label: "Identity Documents", Required: true, Category: library.CategoryIdentity, DocumentTypes: []string{"aadhaar_card", "pan_card"}},
			{ID: "el-8", Kind: builder.KindTextarea, Label: "Notes"},
		},
	}
}

func decodeJSON(t *testing.T, raw []byte) map[string]any {
	t.Helper()
	var out map[string]any
	if err := json.Unmarshal(raw, &out); err != nil {
		t.Fatalf("decode output: %v\n%s", err, raw)
	}
	return out
}

func TestRender_FillsDocument(t *testing.T) {
	driver := &stubDriver{
		inputs:    []string{"Al", "Asha Rao", "not-an-email", "asha@example.com", "", "/tmp/aadhaar.pdf"},
		selectIdx: []int{1},
		multiIdx:  [][]int{{0, 1}},
		textAreas: []string{""},
	}
	r, err := New(WithPromptDriver(driver))
	if err != nil {
		t.Fatalf("new renderer: %v", err)
	}

	out, err := r.Render(context.Background(), applicationDoc(), render.RenderOptions{})
	if err != nil {
		t.Fatalf("render: %v", err)
	}

	want := map[string]any{
		"Identity": map[string]any{"full_name": "Asha Rao"},
		"el-3":     "asha@example.com",
		"el-4":     "Married",
		"el-5":     []any{"Hindi", "English"},
		"el-7":     "/tmp/aadhaar.pdf",
	}
	if diff := cmp.Diff(want, decodeJSON(t, out)); diff != "" {
		t.Fatalf("answers mismatch (-want +got):\n%s", diff)
	}

	wantInfo := []string{
		"Applicant Details",
		"== Applicant",
		"! Full Name must be at least 3 characters",
		"! Email must be an email address",
	}
	if diff := cmp.Diff(wantInfo, driver.infoMessages); diff != "" {
		t.Fatalf("info mismatch (-want +got):\n%s", diff)
	}

	if got := driver.selects[0].Options; !cmp.Equal(got, []string{"Single", "Married", "(skip)"}) {
		t.Fatalf("optional select should offer skip, got %v", got)
	}
	if help := driver.inputCfgs[0].Help; !strings.Contains(help, "[Identity]") || !strings.Contains(help, "min 3, max 100 characters") {
		t.Fatalf("predefined help missing badge or hint: %q", help)
	}
	if help := driver.inputCfgs[len(driver.inputCfgs)-1].Help; !strings.Contains(help, "Aadhaar Card") {
		t.Fatalf("upload help missing document types: %q", help)
	}
}

func TestRender_PrefillAndErrors(t *testing.T) {
	driver := &stubDriver{
		inputs:    []string{"Asha Rao", "asha@example.com", "31", "/tmp/a.pdf"},
		selectIdx: []int{2},
		multiIdx:  [][]int{{}},
		textAreas: []string{"line one\nline two"},
	}
	r, _ := New(WithPromptDriver(driver))

	opts := render.RenderOptions{
		Values:     map[string]string{"el-2": "Asha", "el-4": "Married", "el-5": "Tamil, Hindi"},
		Errors:     map[string][]string{"el-3": {"Email is already registered"}},
		FormErrors: []string{"Please fix the errors below"},
	}
	out, err := r.Render(context.Background(), applicationDoc(), opts)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if driver.inputCfgs[0].Default != "Asha" {
		t.Fatalf("expected prefilled default, got %q", driver.inputCfgs[0].Default)
	}
	if driver.selects[0].DefaultIndex != 1 {
		t.Fatalf("expected select default 1, got %d", driver.selects[0].DefaultIndex)
	}
	if !cmp.Equal(driver.infoMessages[1], "! Please fix the errors below") || !cmp.Equal(driver.infoMessages[3], "! Email is already registered") {
		t.Fatalf("unexpected info order %v", driver.infoMessages)
	}

	got := decodeJSON(t, out)
	if _, ok := got["el-4"]; ok {
		t.Fatalf("skipped select should not be recorded")
	}
	if _, ok := got["el-5"]; ok {
		t.Fatalf("empty optional checkbox should not be recorded")
	}
	if got["el-6"] != float64(31) {
		t.Fatalf("expected numeric age, got %#v", got["el-6"])
	}
	if got["el-8"] != "line one\nline two" {
		t.Fatalf("unexpected notes %#v", got["el-8"])
	}
}

func TestRender_RequiredCheckboxReprompts(t *testing.T) {
	driver := &stubDriver{multiIdx: [][]int{{}, {2}}}
	r, _ := New(WithPromptDriver(driver), WithOutputFormat(OutputFormatPrettyText))

	doc := builder.Document{Elements: []builder.Element{
		{ID: "langs", Kind: builder.KindCheckbox, Label: "Languages", Required: true, Options: []string{"Hindi", "English", "Tamil"}},
	}}
	out, err := r.Render(context.Background(), doc, render.RenderOptions{})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if string(out) != "langs=Tamil\n" {
		t.Fatalf("unexpected pretty output %q", out)
	}
	if diff := cmp.Diff([]string{"! Languages is required"}, driver.infoMessages); diff != "" {
		t.Fatalf("info mismatch (-want +got):\n%s", diff)
	}
	if r.ContentType() != "text/plain" {
		t.Fatalf("unexpected content type %q", r.ContentType())
	}
}

func TestRender_FormOutput(t *testing.T) {
	driver := &stubDriver{inputs: []string{"Pune"}}
	r, _ := New(WithPromptDriver(driver), WithOutputFormat(OutputFormatFormURLEncoded))
	doc := builder.Document{Elements: []builder.Element{
		{ID: "el-1", Kind: builder.KindPredefinedField, Category: library.CategoryAddress, FieldName: "city", MinLength: 2, MaxLength: 50},
	}}
	out, err := r.Render(context.Background(), doc, render.RenderOptions{})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if string(out) != "Address.city=Pune" {
		t.Fatalf("unexpected form output %q", out)
	}
}

func TestRender_UnknownFieldUsesElementBounds(t *testing.T) {
	driver := &stubDriver{inputs: []string{"abcdef", "abc"}}
	r, _ := New(WithPromptDriver(driver))
	doc := builder.Document{Elements: []builder.Element{
		{ID: "el-1", Kind: builder.KindPredefinedField, Category: library.CategoryMiscellaneous, FieldName: "custom_code", MinLength: 1, MaxLength: 4},
	}}
	if _, err := r.Render(context.Background(), doc, render.RenderOptions{}); err != nil {
		t.Fatalf("render: %v", err)
	}
	if diff := cmp.Diff([]string{"! Custom Code must be at most 4 characters"}, driver.infoMessages); diff != "" {
		t.Fatalf("info mismatch (-want +got):\n%s", diff)
	}
}

func TestRender_Errors(t *testing.T) {
	if _, err := New(WithOutputFormat("xml")); err == nil {
		t.Fatalf("expected unknown format error")
	}

	r, _ := New(WithPromptDriver(&stubDriver{}))
	doc := builder.Document{Elements: []builder.Element{{ID: "el-1", Kind: builder.KindRadio, Label: "Pick"}}}
	if _, err := r.Render(context.Background(), doc, render.RenderOptions{}); !errors.Is(err, ErrNoOptions) {
		t.Fatalf("expected ErrNoOptions, got %v", err)
	}

	aborting, _ := New(WithPromptDriver(&stubDriver{err: ErrAborted}))
	if _, err := aborting.Render(context.Background(), applicationDoc(), render.RenderOptions{}); !errors.Is(err, ErrAborted) {
		t.Fatalf("expected ErrAborted, got %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := r.Render(ctx, applicationDoc(), render.RenderOptions{}); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context error, got %v", err)
	}
}

func TestRender_SubmitTransformer(t *testing.T) {
	driver := &stubDriver{inputs: []string{"x"}}
	r, _ := New(WithPromptDriver(driver), WithSubmitTransformer(func(values map[string]any) (map[string]any, error) {
		return map[string]any{"data": values}, nil
	}))
	doc := builder.Document{Elements: []builder.Element{{ID: "el-1", Kind: builder.KindText}}}
	out, err := r.Render(context.Background(), doc, render.RenderOptions{})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	want := map[string]any{"data": map[string]any{"el-1": "x"}}
	if diff := cmp.Diff(want, decodeJSON(t, out)); diff != "" {
		t.Fatalf("output mismatch (-want +got):\n%s", diff)
	}
}

func TestState_SetValue(t *testing.T) {
	s := NewState()
	if err := s.SetValue("Identity.full_name", "Asha"); err != nil {
		t.Fatalf("SetValue: %v", err)
	}
	if err := s.SetValue("Identity.full_name.first", "A"); err == nil {
		t.Fatalf("expected error writing below a leaf")
	}
	if v, ok := s.GetValue("Identity.full_name"); !ok || v != "Asha" {
		t.Fatalf("GetValue = %v, %v", v, ok)
	}
	if _, ok := s.GetValue("Identity.pan_number"); ok {
		t.Fatalf("unexpected value")
	}
}

func twoStepMachine() *wizard.Machine {
	return wizard.NewMachine(wizard.Flow{
		ID:    "test",
		Title: "Test Flow",
		Steps: []wizard.Step{
			{Name: "a", Title: "First"},
			{Name: "b", Title: "Second", Sample: map[string]any{"plan": "basic"}},
		},
	})
}

func TestRunWizard(t *testing.T) {
	driver := &stubDriver{selectIdx: []int{0, 1, 0, 0}}
	m := twoStepMachine()
	var seen []int
	hook := func(_ context.Context, m *wizard.Machine) error {
		seen = append(seen, m.Current())
		return nil
	}

	if err := RunWizard(context.Background(), driver, m, WithStepHook(hook)); err != nil {
		t.Fatalf("RunWizard: %v", err)
	}
	if diff := cmp.Diff([]int{1, 2, 1, 2}, seen); diff != "" {
		t.Fatalf("step sequence mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"Finish", "Back", "Quit"}, driver.selects[1].Options); diff != "" {
		t.Fatalf("last step choices mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"Next", "Quit"}, driver.selects[0].Options); diff != "" {
		t.Fatalf("first step choices mismatch (-want +got):\n%s", diff)
	}
	if want := "Test Flow: step 2 of 2 (100%)\nSecond\nplan=basic"; driver.infoMessages[1] != want {
		t.Fatalf("unexpected summary %q", driver.infoMessages[1])
	}
}

func TestRunWizard_Quit(t *testing.T) {
	driver := &stubDriver{selectIdx: []int{1}}
	if err := RunWizard(context.Background(), driver, twoStepMachine()); !errors.Is(err, ErrAborted) {
		t.Fatalf("expected ErrAborted, got %v", err)
	}

	hookErr := errors.New("draft store down")
	failing := WithStepHook(func(context.Context, *wizard.Machine) error { return hookErr })
	if err := RunWizard(context.Background(), &stubDriver{}, twoStepMachine(), failing); !errors.Is(err, hookErr) {
		t.Fatalf("expected hook error, got %v", err)
	}

	if err := RunWizard(context.Background(), nil, twoStepMachine()); err == nil {
		t.Fatalf("expected nil driver error")
	}
}

func TestRunWizard_DefaultFlows(t *testing.T) {
	flow, ok := wizard.Default().Flow("auto-fill")
	if !ok {
		t.Fatalf("auto-fill flow missing")
	}
	m := wizard.NewMachine(flow)
	script := make([]int, 0, m.Total())
	for i := 0; i < m.Total(); i++ {
		script = append(script, 0)
	}
	driver := &stubDriver{selectIdx: script}
	if err := RunWizard(context.Background(), driver, m); err != nil {
		t.Fatalf("RunWizard: %v", err)
	}
	if !m.Done() || len(driver.infoMessages) != m.Total() {
		t.Fatalf("expected to walk all %d steps, saw %d", m.Total(), len(driver.infoMessages))
	}
}
