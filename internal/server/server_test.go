package server

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/go-cmp/cmp"
	"go.uber.org/zap/zaptest"

	"github.com/Kagzat/kagzat-india-sub000/internal/config"
	"github.com/Kagzat/kagzat-india-sub000/internal/storage"
	"github.com/Kagzat/kagzat-india-sub000/pkg/auth"
	"github.com/Kagzat/kagzat-india-sub000/pkg/entries"
	"github.com/Kagzat/kagzat-india-sub000/pkg/wizard"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func testConfig() config.Config {
	cfg := config.Default()
	cfg.Auth.Simulate = true
	cfg.Auth.SimulateLatency = time.Nanosecond
	cfg.Auth.JWTSecret = "test-secret-key"
	cfg.Wizard.DraftDebounce = 10 * time.Millisecond
	return cfg
}

func newTestServer(t *testing.T, cfg config.Config, opts ...Option) *Server {
	t.Helper()
	opts = append([]Option{WithLogger(zaptest.NewLogger(t))}, opts...)
	s, err := New(cfg, opts...)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	t.Cleanup(func() { _ = s.Close(context.Background()) })
	return s
}

type call struct {
	method string
	path   string
	body   any
	token  string
}

func do(t *testing.T, s *Server, c call) *httptest.ResponseRecorder {
	t.Helper()
	var body *bytes.Reader
	switch v := c.body.(type) {
	case nil:
		body = bytes.NewReader(nil)
	case string:
		body = bytes.NewReader([]byte(v))
	default:
		raw, err := json.Marshal(v)
		if err != nil {
			t.Fatalf("encode body: %v", err)
		}
		body = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(c.method, c.path, body)
	if c.body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	return rec
}

func decodeBody[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode %q: %v", rec.Body.String(), err)
	}
	return out
}

func TestHealthAndRequestID(t *testing.T) {
	s := newTestServer(t, testConfig())

	rec := do(t, s, call{method: http.MethodGet, path: "/health"})
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if rec.Header().Get("X-Request-ID") == "" {
		t.Fatalf("expected generated request id")
	}

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set("X-Request-ID", "req-123")
	rec = httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	if got := rec.Header().Get("X-Request-ID"); got != "req-123" {
		t.Fatalf("expected propagated request id, got %q", got)
	}
}

func TestRecovery(t *testing.T) {
	s := newTestServer(t, testConfig())
	s.engine.GET("/boom", func(*gin.Context) { panic("boom") })

	rec := do(t, s, call{method: http.MethodGet, path: "/boom"})
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rec.Code)
	}
	body := decodeBody[map[string]string](t, rec)
	if body["error"] != "Internal server error" || body["request_id"] == "" {
		t.Fatalf("unexpected body %v", body)
	}
}

func TestLibraryEndpoints(t *testing.T) {
	s := newTestServer(t, testConfig())

	rec := do(t, s, call{method: http.MethodGet, path: "/api/library/categories"})
	cats := decodeBody[struct {
		Data []categoryView `json:"data"`
	}](t, rec)
	if len(cats.Data) != 7 || cats.Data[0].Name != "Identity" {
		t.Fatalf("unexpected categories %+v", cats.Data)
	}

	rec = do(t, s, call{method: http.MethodGet, path: "/api/library/categories/Identity/documents"})
	if !strings.Contains(rec.Body.String(), `"label":"Aadhaar Card"`) {
		t.Fatalf("expected formatted document label, got %s", rec.Body.String())
	}

	if rec = do(t, s, call{method: http.MethodGet, path: "/api/library/categories/Hobbies/fields"}); rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}

	rec = do(t, s, call{method: http.MethodPost, path: "/api/library/validate", body: validateFieldRequest{Category: "Identity", Field: "pan_number", Value: "ABCDE"}})
	got := decodeBody[map[string]any](t, rec)
	want := map[string]any{"valid": false, "error": "Pan Number must be at least 10 characters", "bound": "min", "limit": float64(10)}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("validate mismatch (-want +got):\n%s", diff)
	}

	rec = do(t, s, call{method: http.MethodGet, path: "/api/fields?q=pan"})
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), `"name":"pan_number"`) {
		t.Fatalf("expected field search hit, got %d %s", rec.Code, rec.Body.String())
	}
}

func TestRoutesEndpoints(t *testing.T) {
	s := newTestServer(t, testConfig())
	rec := do(t, s, call{method: http.MethodGet, path: "/api/routes/resolve?path=/nowhere"})
	body := decodeBody[map[string]any](t, rec)
	if body["found"] != false || body["route"].(map[string]any)["screen"] != "not-found" {
		t.Fatalf("unexpected resolve body %v", body)
	}
}

func TestBuilderSession(t *testing.T) {
	s := newTestServer(t, testConfig())

	rec := do(t, s, call{method: http.MethodPost, path: "/api/builder/sessions", body: map[string]string{"title": "KYC"}})
	if rec.Code != http.StatusCreated {
		t.Fatalf("create: %d %s", rec.Code, rec.Body.String())
	}
	state := decodeBody[editorState](t, rec)
	if state.Document.Title != "KYC" || !state.Panels.Palette {
		t.Fatalf("unexpected state %+v", state)
	}
	base := "/api/builder/sessions/" + state.ID

	actions := []string{
		`{"type":"insert","source":{"type":"palette","kind":"text"}}`,
		`{"type":"insert","source":{"type":"field","category":"Identity","fieldName":"full_name"},"index":0}`,
		`{"type":"update","id":"el-1","patch":{"label":"Applicant Name"}}`,
		`{"type":"select","id":"el-2"}`,
	}
	for _, a := range actions {
		rec = do(t, s, call{method: http.MethodPost, path: base + "/actions", body: a})
		if rec.Code != http.StatusOK {
			t.Fatalf("dispatch %s: %d %s", a, rec.Code, rec.Body.String())
		}
	}
	result := decodeBody[struct {
		Changed bool        `json:"changed"`
		State   editorState `json:"state"`
	}](t, rec)
	if !result.Changed || result.State.Selected != "el-2" || !result.State.CanUndo {
		t.Fatalf("unexpected dispatch result %+v", result)
	}
	var ids []string
	for _, el := range result.State.Document.Elements {
		ids = append(ids, el.ID)
	}
	if diff := cmp.Diff([]string{"el-2", "el-1"}, ids); diff != "" {
		t.Fatalf("order mismatch (-want +got):\n%s", diff)
	}

	if rec = do(t, s, call{method: http.MethodPost, path: base + "/actions", body: `{"type":"explode"}`}); rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for unknown action, got %d", rec.Code)
	}

	rec = do(t, s, call{method: http.MethodGet, path: base + "/preview"})
	if rec.Code != http.StatusOK || !strings.HasPrefix(rec.Header().Get("Content-Type"), "text/html") {
		t.Fatalf("preview: %d %s", rec.Code, rec.Header().Get("Content-Type"))
	}
	if html := rec.Body.String(); !strings.Contains(html, "kz-canvas") || !strings.Contains(html, "Applicant Name") {
		t.Fatalf("unexpected canvas html:\n%s", html)
	}

	rec = do(t, s, call{method: http.MethodPost, path: base + "/preview?mode=preview", body: previewRequest{
		Values: map[string]string{"el-1": "Asha"},
		Errors: map[string][]string{"Identity.full_name": {"Full Name is too short"}, "captcha": {"Captcha expired"}},
	}})
	if html := rec.Body.String(); !strings.Contains(html, "Full Name is too short") || !strings.Contains(html, "Captcha expired") || !strings.Contains(html, "kz-submit") {
		t.Fatalf("expected mapped errors in preview html:\n%s", html)
	}

	rec = do(t, s, call{method: http.MethodPost, path: base + "/undo"})
	if !decodeBody[map[string]any](t, rec)["changed"].(bool) {
		t.Fatalf("expected undo to change state")
	}
	rec = do(t, s, call{method: http.MethodPost, path: base + "/redo"})
	if !decodeBody[map[string]any](t, rec)["changed"].(bool) {
		t.Fatalf("expected redo to change state")
	}

	rec = do(t, s, call{method: http.MethodGet, path: base + "/export"})
	if cd := rec.Header().Get("Content-Disposition"); cd != `attachment; filename="form.json"` {
		t.Fatalf("unexpected disposition %q", cd)
	}

	rec = do(t, s, call{method: http.MethodGet, path: base + "/openapi"})
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), `"/submissions"`) {
		t.Fatalf("openapi: %d %s", rec.Code, rec.Body.String())
	}
	rec = do(t, s, call{method: http.MethodGet, path: base + "/openapi?format=yaml"})
	if !strings.Contains(rec.Body.String(), "openapi: 3.0.3") {
		t.Fatalf("expected yaml output, got %s", rec.Body.String())
	}

	if rec = do(t, s, call{method: http.MethodPost, path: base + "/save"}); rec.Code != http.StatusOK {
		t.Fatalf("save: %d", rec.Code)
	}
	rec = do(t, s, call{method: http.MethodPost, path: "/api/builder/sessions", body: map[string]string{"from": state.ID}})
	copied := decodeBody[editorState](t, rec)
	if copied.ID == state.ID || len(copied.Document.Elements) != 2 || copied.CanUndo {
		t.Fatalf("unexpected copied session %+v", copied)
	}

	if rec = do(t, s, call{method: http.MethodDelete, path: base}); rec.Code != http.StatusNoContent {
		t.Fatalf("delete: %d", rec.Code)
	}
	if rec = do(t, s, call{method: http.MethodGet, path: base}); rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 after delete, got %d", rec.Code)
	}
	if s.editors.len() != 1 {
		t.Fatalf("expected one live session, got %d", s.editors.len())
	}
}

func TestBuilderSession_InvalidDocument(t *testing.T) {
	s := newTestServer(t, testConfig())
	body := `{"document":{"title":"x","elements":[{"id":"a","type":"text"},{"id":"a","type":"text"}]}}`
	if rec := do(t, s, call{method: http.MethodPost, path: "/api/builder/sessions", body: body}); rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	if rec := do(t, s, call{method: http.MethodPost, path: "/api/builder/sessions", body: map[string]string{"from": "missing"}}); rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}

func TestImportOpenAPI(t *testing.T) {
	s := newTestServer(t, testConfig())
	spec := `{"openapi":"3.0.3","info":{"title":"Partner","version":"1"},"paths":{"/kyc":{"post":{"operationId":"kyc",
"requestBody":{"content":{"application/json":{"schema":{"type":"object","properties":{"email":{"type":"string","format":"email"}}}}}},
"responses":{"201":{"description":"ok"}}}}}}`

	rec := do(t, s, call{method: http.MethodPost, path: "/api/builder/imports/openapi?operation=kyc", body: spec})
	if rec.Code != http.StatusCreated {
		t.Fatalf("import: %d %s", rec.Code, rec.Body.String())
	}
	state := decodeBody[editorState](t, rec)
	if state.Document.Title != "Partner" || len(state.Document.Elements) != 1 || state.Document.Elements[0].Kind != "email" {
		t.Fatalf("unexpected imported document %+v", state.Document)
	}

	if rec = do(t, s, call{method: http.MethodPost, path: "/api/builder/imports/openapi?operation=nope", body: spec}); rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d", rec.Code)
	}
}

func TestEntriesEndpoints(t *testing.T) {
	s := newTestServer(t, testConfig())

	bad := entries.Values{"Identity": {"pan_number": "ABC", "full_name": ""}}
	rec := do(t, s, call{method: http.MethodPost, path: "/api/entries/validate", body: bad})
	got := decodeBody[struct {
		Errors  map[string]string `json:"errors"`
		CanSave bool              `json:"canSave"`
	}](t, rec)
	if got.CanSave || got.Errors["Identity.pan_number"] != "Pan Number must be at least 10 characters" || len(got.Errors) != 1 {
		t.Fatalf("unexpected validation %+v", got)
	}
	if rec = do(t, s, call{method: http.MethodPost, path: "/api/entries/export", body: bad}); rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d", rec.Code)
	}

	good := entries.Values{"Identity": {"pan_number": "ABCDE1234F"}}
	rec = do(t, s, call{method: http.MethodPost, path: "/api/entries/export", body: good})
	if rec.Code != http.StatusOK || !strings.Contains(rec.Header().Get("Content-Disposition"), "form-data.json") {
		t.Fatalf("export: %d %v", rec.Code, rec.Header())
	}
	back, err := entries.Decode(rec.Body.Bytes())
	if err != nil {
		t.Fatalf("decode export: %v", err)
	}
	if diff := cmp.Diff(good, back); diff != "" {
		t.Fatalf("export mismatch (-want +got):\n%s", diff)
	}
}

func TestWizardEndpoints(t *testing.T) {
	store := storage.NewMemoryStore()
	s := newTestServer(t, testConfig(), WithStore(store))

	rec := do(t, s, call{method: http.MethodGet, path: "/api/wizards/flows"})
	if !strings.Contains(rec.Body.String(), `"path":"/auto-fill-demo"`) {
		t.Fatalf("expected flow route path, got %s", rec.Body.String())
	}

	rec = do(t, s, call{method: http.MethodPost, path: "/api/wizards/flows/signup-owner/runs"})
	run := decodeBody[runState](t, rec)
	if rec.Code != http.StatusCreated || run.Current != 1 || run.Flow != "signup-owner" {
		t.Fatalf("unexpected run %d %+v", rec.Code, run)
	}
	base := "/api/wizards/runs/" + run.ID

	type stepResult struct {
		Moved bool     `json:"moved"`
		State runState `json:"state"`
	}
	res := decodeBody[stepResult](t, do(t, s, call{method: http.MethodPost, path: base + "/back"}))
	if res.Moved || res.State.Current != 1 {
		t.Fatalf("back on first step must clamp, got %+v", res)
	}
	for i := 1; i < run.Total; i++ {
		res = decodeBody[stepResult](t, do(t, s, call{method: http.MethodPost, path: base + "/next"}))
	}
	if !res.State.Done || res.State.Current != run.Total {
		t.Fatalf("expected last step, got %+v", res.State)
	}
	res = decodeBody[stepResult](t, do(t, s, call{method: http.MethodPost, path: base + "/next"}))
	if res.Moved {
		t.Fatalf("next on last step must clamp")
	}

	if rec = do(t, s, call{method: http.MethodPost, path: "/api/wizards/flows/nope/runs"}); rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for unknown flow, got %d", rec.Code)
	}
	if rec = do(t, s, call{method: http.MethodGet, path: "/api/wizards/runs/nope"}); rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for unknown run, got %d", rec.Code)
	}

	draftPath := "/api/wizards/flows/signup-owner/draft"
	if rec = do(t, s, call{method: http.MethodGet, path: draftPath}); rec.Code != http.StatusNotFound {
		t.Fatalf("expected no draft yet, got %d", rec.Code)
	}
	do(t, s, call{method: http.MethodPut, path: draftPath, body: map[string]string{"email": "a@"}})
	rec = do(t, s, call{method: http.MethodPut, path: draftPath, body: map[string]string{"email": "a@b.c"}})
	if rec.Code != http.StatusAccepted {
		t.Fatalf("save draft: %d", rec.Code)
	}
	if rec = do(t, s, call{method: http.MethodPut, path: draftPath, body: "not json"}); rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for invalid draft, got %d", rec.Code)
	}

	if err := s.Close(context.Background()); err != nil {
		t.Fatalf("Close: %v", err)
	}
	raw, err := store.Get(context.Background(), wizard.DraftKey("signup-owner"))
	if err != nil {
		t.Fatalf("draft not written: %v", err)
	}
	if string(raw) != `{"email":"a@b.c"}` {
		t.Fatalf("expected last draft only, got %s", raw)
	}
	if rec = do(t, s, call{method: http.MethodGet, path: draftPath}); rec.Body.String() != `{"email":"a@b.c"}` {
		t.Fatalf("unexpected draft body %s", rec.Body.String())
	}
}

func TestAuthEndpoints(t *testing.T) {
	store := storage.NewMemoryStore()
	s := newTestServer(t, testConfig(), WithStore(store))
	creds := credentialsRequest{Email: "asha@example.com", Password: "secret1"}

	rec := do(t, s, call{method: http.MethodPost, path: "/api/auth/signup", body: creds})
	if rec.Code != http.StatusOK {
		t.Fatalf("signup: %d %s", rec.Code, rec.Body.String())
	}
	res := decodeBody[auth.Result](t, rec)
	if !res.Success {
		t.Fatalf("unexpected result %+v", res)
	}
	if stored, err := store.Get(context.Background(), auth.SessionKey); err != nil || !bytes.Equal(stored, res.Data) {
		t.Fatalf("expected session persisted under %s", auth.SessionKey)
	}

	var session struct {
		AccessToken string `json:"access_token"`
	}
	if err := json.Unmarshal(res.Data, &session); err != nil {
		t.Fatalf("decode session: %v", err)
	}
	rec = do(t, s, call{method: http.MethodGet, path: "/api/auth/me", token: session.AccessToken})
	if got := decodeBody[map[string]string](t, rec); got["email"] != "asha@example.com" {
		t.Fatalf("unexpected me %v", got)
	}
	if rec = do(t, s, call{method: http.MethodGet, path: "/api/auth/me"}); rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without token, got %d", rec.Code)
	}

	rec = do(t, s, call{method: http.MethodPost, path: "/api/auth/signin", body: credentialsRequest{Email: creds.Email, Password: "wrong-pass"}})
	if res := decodeBody[auth.Result](t, rec); rec.Code != http.StatusBadRequest || res.Error != "Invalid login credentials" {
		t.Fatalf("unexpected signin failure %d %+v", rec.Code, res)
	}

	rec = do(t, s, call{method: http.MethodPost, path: "/api/auth/oauth", body: oauthRequest{Provider: "google", RedirectTo: "http://localhost/dashboard/user"}})
	if !strings.Contains(rec.Body.String(), "provider=google") {
		t.Fatalf("expected authorize url, got %s", rec.Body.String())
	}

	if rec = do(t, s, call{method: http.MethodGet, path: "/api/auth/session"}); rec.Code != http.StatusOK {
		t.Fatalf("expected stored session, got %d", rec.Code)
	}
	do(t, s, call{method: http.MethodPost, path: "/api/auth/signout"})
	if rec = do(t, s, call{method: http.MethodGet, path: "/api/auth/session"}); rec.Code != http.StatusNotFound {
		t.Fatalf("expected no session after signout, got %d", rec.Code)
	}
}

func TestRequireAuth(t *testing.T) {
	cfg := testConfig()
	cfg.Server.RequireAuth = true
	s := newTestServer(t, cfg)

	if rec := do(t, s, call{method: http.MethodPost, path: "/api/builder/sessions"}); rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
	if rec := do(t, s, call{method: http.MethodGet, path: "/api/fields?q=pan"}); rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 from component guard, got %d", rec.Code)
	}
	if rec := do(t, s, call{method: http.MethodGet, path: "/api/wizards/flows", token: "garbage"}); rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 for bad token, got %d", rec.Code)
	}

	token, _, err := s.verifier.Issue("user-1", "a@b.c", time.Minute)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	if rec := do(t, s, call{method: http.MethodPost, path: "/api/builder/sessions", token: token}); rec.Code != http.StatusCreated {
		t.Fatalf("expected 201 with token, got %d", rec.Code)
	}
	if rec := do(t, s, call{method: http.MethodGet, path: "/api/fields?q=pan", token: token}); rec.Code != http.StatusOK {
		t.Fatalf("expected 200 with token, got %d", rec.Code)
	}
	if rec := do(t, s, call{method: http.MethodGet, path: "/api/routes"}); rec.Code != http.StatusOK {
		t.Fatalf("routes stay public, got %d", rec.Code)
	}
}
