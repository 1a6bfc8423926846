package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/Kagzat/kagzat-india-sub000/pkg/entries"
)

func (s *Server) bindValues(c *gin.Context) (entries.Values, bool) {
	var values entries.Values
	if err := c.ShouldBindJSON(&values); err != nil {
		abortWithError(c, http.StatusBadRequest, "invalid request body")
		return nil, false
	}
	if values == nil {
		values = entries.Values{}
	}
	return values, true
}

func (s *Server) validateEntries(c *gin.Context) {
	values, ok := s.bindValues(c)
	if !ok {
		return
	}
	errs := entries.Validate(s.library, values)
	c.JSON(http.StatusOK, gin.H{"errors": errs, "canSave": entries.CanSave(errs)})
}

// exportEntries answers with the form-data.json download, or 422 with the
// validation errors when saving is not allowed.
func (s *Server) exportEntries(c *gin.Context) {
	values, ok := s.bindValues(c)
	if !ok {
		return
	}
	errs := entries.Validate(s.library, values)
	if !entries.CanSave(errs) {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"errors": errs, "canSave": false})
		return
	}
	if err := entries.WriteDownload(c.Writer, values); err != nil {
		s.logger.Error("entries export failed", zap.Error(err))
		abortWithError(c, http.StatusInternalServerError, err.Error())
	}
}
