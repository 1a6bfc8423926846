package server

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/Kagzat/kagzat-india-sub000/internal/storage"
	"github.com/Kagzat/kagzat-india-sub000/pkg/builder"
	"github.com/Kagzat/kagzat-india-sub000/pkg/export"
	"github.com/Kagzat/kagzat-india-sub000/pkg/render"
)

const (
	formKeyPrefix  = "kagzat.form."
	maxActionBytes = 1 << 20
	maxImportBytes = 4 << 20
)

func formKey(id string) string { return formKeyPrefix + id }

type editorState struct {
	ID       string           `json:"id"`
	Document builder.Document `json:"document"`
	Selected string           `json:"selected,omitempty"`
	Preview  bool             `json:"preview"`
	Panels   builder.Panels   `json:"panels"`
	CanUndo  bool             `json:"canUndo"`
	CanRedo  bool             `json:"canRedo"`
}

func stateOf(id string, e *builder.Editor) editorState {
	return editorState{
		ID:       id,
		Document: e.Document(),
		Selected: e.SelectedID(),
		Preview:  e.Preview(),
		Panels:   e.Panels(),
		CanUndo:  e.CanUndo(),
		CanRedo:  e.CanRedo(),
	}
}

type createEditorRequest struct {
	Title    string            `json:"title"`
	Document *builder.Document `json:"document"`
	// From loads a form saved by another session.
	From string `json:"from"`
}

func (s *Server) createEditor(c *gin.Context) {
	var req createEditorRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
			abortWithError(c, http.StatusBadRequest, "invalid request body")
			return
		}
	}

	doc := req.Document
	if req.From != "" {
		raw, err := s.store.Get(c.Request.Context(), formKey(req.From))
		if errors.Is(err, storage.ErrNotFound) {
			abortWithError(c, http.StatusNotFound, "saved form not found")
			return
		}
		if err != nil {
			abortWithError(c, http.StatusInternalServerError, err.Error())
			return
		}
		var saved builder.Document
		if err := json.Unmarshal(raw, &saved); err != nil {
			abortWithError(c, http.StatusInternalServerError, "saved form is corrupt")
			return
		}
		doc = &saved
	}
	s.startEditor(c, req.Title, doc)
}

// importOpenAPI opens a session on the form described by the request body
// of an OpenAPI operation. ?operation= picks the operation.
func (s *Server) importOpenAPI(c *gin.Context) {
	raw, err := io.ReadAll(io.LimitReader(c.Request.Body, maxImportBytes))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "invalid request body")
		return
	}
	doc, err := export.FromOpenAPI(c.Request.Context(), raw, export.ImportOptions{
		OperationID: c.Query("operation"),
		Library:     s.library,
	})
	if err != nil {
		s.logger.Debug("openapi import rejected", zap.Error(err))
		abortWithError(c, http.StatusUnprocessableEntity, err.Error())
		return
	}
	s.startEditor(c, "", &doc)
}

func (s *Server) startEditor(c *gin.Context, title string, doc *builder.Document) {
	opts := []builder.Option{builder.WithLibrary(s.library), builder.WithLogger(s.logger)}
	if title != "" {
		opts = append(opts, builder.WithTitle(title))
	}
	if doc != nil {
		opts = append(opts, builder.WithDocument(*doc))
	}

	editor, err := builder.NewEditor(opts...)
	if err != nil {
		abortWithError(c, http.StatusBadRequest, err.Error())
		return
	}
	id := s.editors.add(editor)
	s.logger.Debug("builder session created", zap.String("session", id))
	c.JSON(http.StatusCreated, stateOf(id, editor))
}

// withEditor runs fn under the session lock or answers 404.
func (s *Server) withEditor(c *gin.Context, fn func(id string, e *builder.Editor)) {
	id := c.Param("id")
	if !s.editors.with(id, func(e *builder.Editor) { fn(id, e) }) {
		abortWithError(c, http.StatusNotFound, "builder session not found")
	}
}

func (s *Server) getEditor(c *gin.Context) {
	s.withEditor(c, func(id string, e *builder.Editor) {
		c.JSON(http.StatusOK, stateOf(id, e))
	})
}

func (s *Server) deleteEditor(c *gin.Context) {
	if !s.editors.remove(c.Param("id")) {
		abortWithError(c, http.StatusNotFound, "builder session not found")
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) dispatch(c *gin.Context) {
	raw, err := io.ReadAll(io.LimitReader(c.Request.Body, maxActionBytes))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "read body failed")
		return
	}
	action, err := builder.DecodeAction(raw)
	if err != nil {
		abortWithError(c, http.StatusBadRequest, err.Error())
		return
	}
	s.withEditor(c, func(id string, e *builder.Editor) {
		changed := e.Dispatch(action)
		c.JSON(http.StatusOK, gin.H{"changed": changed, "state": stateOf(id, e)})
	})
}

func (s *Server) undo(c *gin.Context) {
	s.withEditor(c, func(id string, e *builder.Editor) {
		changed := e.Undo()
		c.JSON(http.StatusOK, gin.H{"changed": changed, "state": stateOf(id, e)})
	})
}

func (s *Server) redo(c *gin.Context) {
	s.withEditor(c, func(id string, e *builder.Editor) {
		changed := e.Redo()
		c.JSON(http.StatusOK, gin.H{"changed": changed, "state": stateOf(id, e)})
	})
}

type previewRequest struct {
	Mode   render.Mode         `json:"mode"`
	Values map[string]string   `json:"values"`
	Errors map[string][]string `json:"errors"`
}

// preview renders the session document. GET renders the canvas or preview
// from query parameters; POST additionally carries values and a server
// error payload whose keys MapErrors resolves to elements.
func (s *Server) preview(c *gin.Context) {
	var req previewRequest
	if c.Request.Method == http.MethodPost {
		if err := c.ShouldBindJSON(&req); err != nil {
			abortWithError(c, http.StatusBadRequest, "invalid request body")
			return
		}
	}
	if mode := c.Query("mode"); mode != "" {
		req.Mode = render.Mode(mode)
	}

	renderer, err := s.renderers.Get(c.Query("renderer"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, err.Error())
		return
	}

	var (
		doc      builder.Document
		selected string
		preview  bool
	)
	if !s.editors.with(c.Param("id"), func(e *builder.Editor) {
		doc = e.Document()
		selected = e.SelectedID()
		preview = e.Preview()
	}) {
		abortWithError(c, http.StatusNotFound, "builder session not found")
		return
	}

	opts := render.RenderOptions{
		Mode:         req.Mode,
		Values:       req.Values,
		Selected:     selected,
		ThemeName:    c.Query("theme"),
		ThemeVariant: c.Query("variant"),
	}
	if opts.Mode == "" && preview {
		opts.Mode = render.ModePreview
	}
	if len(req.Errors) > 0 {
		mapped := render.MapErrors(doc, req.Errors)
		opts.Errors = mapped.Fields
		opts.FormErrors = mapped.Form
	}

	out, err := renderer.Render(c.Request.Context(), doc, opts)
	if err != nil {
		s.logger.Error("render failed", zap.String("renderer", renderer.Name()), zap.Error(err))
		abortWithError(c, http.StatusInternalServerError, "render failed")
		return
	}
	c.Data(http.StatusOK, renderer.ContentType(), out)
}

func (s *Server) snapshot(c *gin.Context) (builder.Document, bool) {
	var doc builder.Document
	if !s.editors.with(c.Param("id"), func(e *builder.Editor) { doc = e.Document() }) {
		abortWithError(c, http.StatusNotFound, "builder session not found")
		return builder.Document{}, false
	}
	return doc, true
}

func (s *Server) exportJSON(c *gin.Context) {
	doc, ok := s.snapshot(c)
	if !ok {
		return
	}
	out, err := export.JSON(doc)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, err.Error())
		return
	}
	c.Header("Content-Disposition", `attachment; filename="`+export.FormFilename+`"`)
	c.Data(http.StatusOK, "application/json", out)
}

func (s *Server) exportOpenAPI(c *gin.Context) {
	doc, ok := s.snapshot(c)
	if !ok {
		return
	}
	opts := export.Options{Title: c.Query("title"), Path: c.Query("path")}
	if strings.EqualFold(c.Query("format"), "yaml") {
		out, err := export.OpenAPIYAML(c.Request.Context(), doc, opts)
		if err != nil {
			abortWithError(c, http.StatusUnprocessableEntity, err.Error())
			return
		}
		c.Data(http.StatusOK, "application/yaml", out)
		return
	}
	out, err := export.OpenAPIJSON(c.Request.Context(), doc, opts)
	if err != nil {
		abortWithError(c, http.StatusUnprocessableEntity, err.Error())
		return
	}
	c.Data(http.StatusOK, "application/json", out)
}

func (s *Server) saveForm(c *gin.Context) {
	doc, ok := s.snapshot(c)
	if !ok {
		return
	}
	raw, err := json.Marshal(doc)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, err.Error())
		return
	}
	id := c.Param("id")
	if err := s.store.Set(c.Request.Context(), formKey(id), raw); err != nil {
		abortWithError(c, http.StatusInternalServerError, err.Error())
		return
	}
	c.JSON(http.StatusOK, gin.H{"from": id})
}
