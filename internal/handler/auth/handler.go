// Package auth exposes the two authentication surfaces: the upstream OAuth2
// grant flow whose tokens live in HTTP-only cookies, and the dashboard
// operator login that issues a local session token.
package auth

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/medfront/ehr-admin-api/internal/ehr"
	"github.com/medfront/ehr-admin-api/internal/handler"
	authservice "github.com/medfront/ehr-admin-api/internal/service/auth"
)

type Handler struct {
	auth    *ehr.Authenticator
	session *authservice.Service
	secure  bool
}

func NewHandler(auth *ehr.Authenticator, session *authservice.Service, secureCookies bool) *Handler {
	return &Handler{auth: auth, session: session, secure: secureCookies}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	authGroup := r.Group("/auth")
	{
		authGroup.POST("/ehr", h.EHRGrant)
		authGroup.POST("/login", h.Login)
		authGroup.POST("/logout", h.Logout)
	}
}

type ehrGrantRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Action   string `json:"action" binding:"omitempty,oneof=login refresh"`
}

// EHRGrant performs a password or refresh grant against the upstream OAuth2
// endpoint and stores the resulting token pair in cookies.
func (h *Handler) EHRGrant(c *gin.Context) {
	var req ehrGrantRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return
	}

	var tokens *ehr.Tokens
	var err error
	if req.Action == "refresh" {
		refreshToken, _ := c.Cookie(RefreshCookie)
		tokens, err = h.auth.RefreshGrant(c.Request.Context(), refreshToken)
	} else {
		tokens, err = h.auth.PasswordGrant(c.Request.Context(), req.Username, req.Password)
	}
	if err != nil {
		handler.RespondError(c, "Authentication failed", err)
		return
	}

	SetTokenCookies(c, tokens, h.secure)
	c.JSON(http.StatusOK, gin.H{"success": true, "expiresIn": tokens.ExpiresIn})
}

type loginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// Login authenticates the dashboard operator and returns a session token.
func (h *Handler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return
	}

	token, session, err := h.session.Login(req.Email, req.Password)
	if err != nil {
		handler.RespondError(c, "Invalid credentials", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"token": token, "user": session})
}

func (h *Handler) Logout(c *gin.Context) {
	ClearTokenCookies(c, h.secure)
	c.JSON(http.StatusOK, gin.H{"success": true})
}
