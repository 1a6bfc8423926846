package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Kagzat/kagzat-india-sub000/pkg/auth"
)

type credentialsRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type oauthRequest struct {
	Provider   string `json:"provider"`
	RedirectTo string `json:"redirectTo"`
}

func writeResult(c *gin.Context, res auth.Result) {
	status := http.StatusOK
	if !res.Success {
		status = http.StatusBadRequest
	}
	c.JSON(status, res)
}

func (s *Server) signUp(c *gin.Context) {
	var req credentialsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "invalid request body")
		return
	}
	writeResult(c, s.session.SignUp(c.Request.Context(), req.Email, req.Password))
}

func (s *Server) signIn(c *gin.Context) {
	var req credentialsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "invalid request body")
		return
	}
	writeResult(c, s.session.SignIn(c.Request.Context(), req.Email, req.Password))
}

func (s *Server) signInWithOAuth(c *gin.Context) {
	var req oauthRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "invalid request body")
		return
	}
	writeResult(c, s.session.SignInWithOAuth(c.Request.Context(), req.Provider, req.RedirectTo))
}

func (s *Server) signOut(c *gin.Context) {
	writeResult(c, s.session.SignOut(c.Request.Context()))
}

func (s *Server) currentSession(c *gin.Context) {
	raw, ok, err := s.session.Current(c.Request.Context())
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, err.Error())
		return
	}
	if !ok {
		abortWithError(c, http.StatusNotFound, "no session")
		return
	}
	c.Data(http.StatusOK, "application/json", raw)
}

func (s *Server) me(c *gin.Context) {
	claims, ok := GetClaims(c)
	if !ok {
		abortWithError(c, http.StatusUnauthorized, "no claims")
		return
	}
	c.JSON(http.StatusOK, gin.H{"sub": claims.Subject, "email": claims.Email, "role": claims.Role})
}
