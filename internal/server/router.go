package server

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Kagzat/kagzat-india-sub000/components/fieldsearch"
	"github.com/Kagzat/kagzat-india-sub000/pkg/auth"
	"github.com/Kagzat/kagzat-india-sub000/pkg/routes"
)

func (s *Server) routes() *gin.Engine {
	r := gin.New()
	r.Use(RequestID())
	r.Use(Recovery(s.logger))
	r.Use(RequestLogger(s.logger))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":    "ok",
			"timestamp": time.Now().Format(time.RFC3339),
		})
	})

	search := fieldsearch.New(
		fieldsearch.WithLibrary(s.library),
		fieldsearch.WithGuard(s.componentGuard()),
	)
	searchPath := search.MountPath("/")
	r.GET(searchPath, gin.WrapH(search.Handler()))
	r.HEAD(searchPath, gin.WrapH(search.Handler()))

	api := r.Group("/api")
	{
		api.GET("/routes", s.listRoutes)
		api.GET("/routes/resolve", s.resolveRoute)

		api.GET("/library/categories", s.listCategories)
		api.GET("/library/categories/:category/fields", s.listFields)
		api.GET("/library/categories/:category/documents", s.listDocuments)
		api.POST("/library/validate", s.validateField)

		api.POST("/auth/signup", s.signUp)
		api.POST("/auth/signin", s.signIn)
		api.POST("/auth/oauth", s.signInWithOAuth)
		api.POST("/auth/signout", s.signOut)
		api.GET("/auth/session", s.currentSession)
		api.GET("/auth/me", RequireAuth(s.verifier), s.me)
	}

	protected := api.Group("/")
	if s.cfg.Server.RequireAuth {
		protected.Use(RequireAuth(s.verifier))
	}
	{
		protected.POST("/builder/sessions", s.createEditor)
		protected.POST("/builder/imports/openapi", s.importOpenAPI)
		protected.GET("/builder/sessions/:id", s.getEditor)
		protected.DELETE("/builder/sessions/:id", s.deleteEditor)
		protected.POST("/builder/sessions/:id/actions", s.dispatch)
		protected.POST("/builder/sessions/:id/undo", s.undo)
		protected.POST("/builder/sessions/:id/redo", s.redo)
		protected.GET("/builder/sessions/:id/preview", s.preview)
		protected.POST("/builder/sessions/:id/preview", s.preview)
		protected.GET("/builder/sessions/:id/export", s.exportJSON)
		protected.GET("/builder/sessions/:id/openapi", s.exportOpenAPI)
		protected.POST("/builder/sessions/:id/save", s.saveForm)

		protected.POST("/entries/validate", s.validateEntries)
		protected.POST("/entries/export", s.exportEntries)

		protected.GET("/wizards/flows", s.listFlows)
		protected.POST("/wizards/flows/:flow/runs", s.startRun)
		protected.GET("/wizards/flows/:flow/draft", s.getDraft)
		protected.PUT("/wizards/flows/:flow/draft", s.saveDraft)
		protected.GET("/wizards/runs/:run", s.getRun)
		protected.POST("/wizards/runs/:run/next", s.nextStep)
		protected.POST("/wizards/runs/:run/back", s.backStep)
	}
	return r
}

// componentGuard mirrors RequireAuth for the net/http field search
// component.
func (s *Server) componentGuard() fieldsearch.GuardFunc {
	if !s.cfg.Server.RequireAuth {
		return nil
	}
	return func(r *http.Request) error {
		token, ok := auth.BearerToken(r.Header.Get("Authorization"))
		if !ok {
			return fieldsearch.StatusError{Code: http.StatusUnauthorized}
		}
		if _, err := s.verifier.Verify(token); err != nil {
			return fieldsearch.StatusError{Code: http.StatusUnauthorized, Err: err}
		}
		return nil
	}
}

func (s *Server) listRoutes(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"data": routes.Table()})
}

func (s *Server) resolveRoute(c *gin.Context) {
	route, found := routes.Resolve(c.Query("path"))
	c.JSON(http.StatusOK, gin.H{"route": route, "found": found})
}

func abortWithError(c *gin.Context, status int, msg string) {
	c.AbortWithStatusJSON(status, gin.H{"error": msg})
}
