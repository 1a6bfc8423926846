package server

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Kagzat/kagzat-india-sub000/internal/storage"
	"github.com/Kagzat/kagzat-india-sub000/pkg/routes"
	"github.com/Kagzat/kagzat-india-sub000/pkg/wizard"
)

type flowView struct {
	ID    string        `json:"id"`
	Title string        `json:"title"`
	Steps []wizard.Step `json:"steps"`
	Path  string        `json:"path,omitempty"`
}

type runState struct {
	ID       string      `json:"id"`
	Flow     string      `json:"flow"`
	Current  int         `json:"current"`
	Total    int         `json:"total"`
	Step     wizard.Step `json:"step"`
	Done     bool        `json:"done"`
	Progress float64     `json:"progress"`
}

func runStateOf(id string, m *wizard.Machine) runState {
	return runState{
		ID:       id,
		Flow:     m.Flow().ID,
		Current:  m.Current(),
		Total:    m.Total(),
		Step:     m.Step(),
		Done:     m.Done(),
		Progress: m.Progress(),
	}
}

func (s *Server) listFlows(c *gin.Context) {
	var out []flowView
	for _, flow := range s.flows.Flows() {
		view := flowView{ID: flow.ID, Title: flow.Title, Steps: flow.Steps}
		if route, ok := routes.ForFlow(flow.ID); ok {
			view.Path = route.Path
		}
		out = append(out, view)
	}
	c.JSON(http.StatusOK, gin.H{"data": out})
}

func (s *Server) flow(c *gin.Context) (wizard.Flow, bool) {
	flow, ok := s.flows.Flow(c.Param("flow"))
	if !ok {
		abortWithError(c, http.StatusNotFound, "unknown flow")
	}
	return flow, ok
}

func (s *Server) startRun(c *gin.Context) {
	flow, ok := s.flow(c)
	if !ok {
		return
	}
	m := wizard.NewMachine(flow)
	id := s.runs.add(m)
	c.JSON(http.StatusCreated, runStateOf(id, m))
}

func (s *Server) step(c *gin.Context, move func(*wizard.Machine) bool) {
	id := c.Param("run")
	if !s.runs.with(id, func(m *wizard.Machine) {
		moved := true
		if move != nil {
			moved = move(m)
		}
		c.JSON(http.StatusOK, gin.H{"moved": moved, "state": runStateOf(id, m)})
	}) {
		abortWithError(c, http.StatusNotFound, "wizard run not found")
	}
}

func (s *Server) getRun(c *gin.Context)   { s.step(c, nil) }
func (s *Server) nextStep(c *gin.Context) { s.step(c, (*wizard.Machine).Next) }
func (s *Server) backStep(c *gin.Context) { s.step(c, (*wizard.Machine).Back) }

// saveDraft debounces the body into the flow's draft key and answers 202;
// the write lands after the quiet period.
func (s *Server) saveDraft(c *gin.Context) {
	flow, ok := s.flow(c)
	if !ok {
		return
	}
	raw, err := io.ReadAll(io.LimitReader(c.Request.Body, maxActionBytes))
	if err != nil || !json.Valid(raw) {
		abortWithError(c, http.StatusBadRequest, "draft must be JSON")
		return
	}
	w := s.draftWriter(flow.ID)
	if err := w.Save(json.RawMessage(raw)); err != nil {
		abortWithError(c, http.StatusConflict, err.Error())
		return
	}
	c.JSON(http.StatusAccepted, gin.H{"key": w.Key()})
}

func (s *Server) getDraft(c *gin.Context) {
	flow, ok := s.flow(c)
	if !ok {
		return
	}
	raw, err := s.store.Get(c.Request.Context(), wizard.DraftKey(flow.ID))
	if errors.Is(err, storage.ErrNotFound) {
		abortWithError(c, http.StatusNotFound, "no draft")
		return
	}
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, err.Error())
		return
	}
	c.Data(http.StatusOK, "application/json", raw)
}
