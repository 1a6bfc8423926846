package server

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Kagzat/kagzat-india-sub000/pkg/library"
)

type categoryView struct {
	Name      library.Category `json:"name"`
	Fields    int              `json:"fields"`
	Documents []string         `json:"documents"`
}

func (s *Server) listCategories(c *gin.Context) {
	var out []categoryView
	for _, category := range s.library.Categories() {
		out = append(out, categoryView{
			Name:      category,
			Fields:    len(s.library.Fields(category)),
			Documents: s.library.DocumentTypes(category),
		})
	}
	c.JSON(http.StatusOK, gin.H{"data": out})
}

func (s *Server) category(c *gin.Context) (library.Category, bool) {
	category := library.Category(c.Param("category"))
	if !s.library.HasCategory(category) {
		abortWithError(c, http.StatusNotFound, "unknown category")
		return "", false
	}
	return category, true
}

func (s *Server) listFields(c *gin.Context) {
	category, ok := s.category(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": s.library.Fields(category)})
}

func (s *Server) listDocuments(c *gin.Context) {
	category, ok := s.category(c)
	if !ok {
		return
	}
	type documentView struct {
		ID    string `json:"id"`
		Label string `json:"label"`
	}
	var out []documentView
	for _, id := range s.library.DocumentTypes(category) {
		out = append(out, documentView{ID: id, Label: library.FormatDocumentType(id)})
	}
	c.JSON(http.StatusOK, gin.H{"data": out})
}

type validateFieldRequest struct {
	Category library.Category `json:"category"`
	Field    string           `json:"field"`
	Value    string           `json:"value"`
}

func (s *Server) validateField(c *gin.Context) {
	var req validateFieldRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "invalid request body")
		return
	}
	if _, ok := s.library.Field(req.Category, req.Field); !ok {
		abortWithError(c, http.StatusNotFound, "unknown field")
		return
	}
	err := s.library.Validate(req.Category, req.Field, req.Value)
	if err == nil {
		c.JSON(http.StatusOK, gin.H{"valid": true})
		return
	}
	var lengthErr *library.LengthError
	if errors.As(err, &lengthErr) {
		c.JSON(http.StatusOK, gin.H{"valid": false, "error": err.Error(), "bound": lengthErr.Bound, "limit": lengthErr.Limit})
		return
	}
	abortWithError(c, http.StatusInternalServerError, err.Error())
}
