// Package patient handles patient routes. Requests ride on the caller's own
// cookie-held token pair; when the upstream rejects the access token the
// handler refreshes it once and retries before giving up.
package patient

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/medfront/ehr-admin-api/internal/ehr"
	"github.com/medfront/ehr-admin-api/internal/handler"
	authhandler "github.com/medfront/ehr-admin-api/internal/handler/auth"
	"github.com/medfront/ehr-admin-api/internal/model"
	patientservice "github.com/medfront/ehr-admin-api/internal/service/patient"
)

type Handler struct {
	service  *patientservice.Service
	auth     *ehr.Authenticator
	mockMode bool
	secure   bool
}

func NewHandler(service *patientservice.Service, auth *ehr.Authenticator, mockMode, secureCookies bool) *Handler {
	return &Handler{service: service, auth: auth, mockMode: mockMode, secure: secureCookies}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	patients := r.Group("/patients")
	{
		patients.GET("", h.List)
		patients.POST("", h.Create)
		patients.PUT("/:id", h.Update)
	}
}

// withAuthRetry runs fn with the cookie-held access token. On an upstream 401
// it refreshes the token pair once, re-issues the cookies and retries; a
// second failure surfaces as 401 to the caller. In mock mode requests go
// through without a cookie since the mock transport ignores the token.
func (h *Handler) withAuthRetry(c *gin.Context, fn func(token string) error) {
	token, err := c.Cookie(authhandler.AccessCookie)
	if err != nil && !h.mockMode {
		c.JSON(http.StatusUnauthorized, handler.NewErrorResponse("Authentication required"))
		return
	}

	err = fn(token)
	if err == nil {
		return
	}

	var upstreamErr *ehr.UpstreamError
	if !errors.As(err, &upstreamErr) || upstreamErr.Status != http.StatusUnauthorized {
		handler.RespondError(c, "Patient request failed", err)
		return
	}

	refreshToken, cookieErr := c.Cookie(authhandler.RefreshCookie)
	if cookieErr != nil {
		c.JSON(http.StatusUnauthorized, handler.NewErrorResponse("Authentication failed"))
		return
	}
	tokens, refreshErr := h.auth.RefreshGrant(c.Request.Context(), refreshToken)
	if refreshErr != nil {
		c.JSON(http.StatusUnauthorized, handler.NewErrorResponse("Authentication failed"))
		return
	}
	authhandler.SetTokenCookies(c, tokens, h.secure)

	if err := fn(tokens.AccessToken); err != nil {
		handler.RespondError(c, "Patient request failed", err)
	}
}

// List returns patients matching the optional search, or a single patient
// when ?id= is given.
func (h *Handler) List(c *gin.Context) {
	id := c.Query("id")
	name := c.Query("name")

	h.withAuthRetry(c, func(token string) error {
		if id != "" {
			patient, err := h.service.Get(c.Request.Context(), token, id)
			if err != nil {
				return err
			}
			c.JSON(http.StatusOK, patient)
			return nil
		}

		patients, err := h.service.List(c.Request.Context(), token, name)
		if err != nil {
			return err
		}
		c.JSON(http.StatusOK, gin.H{"items": patients, "total": len(patients)})
		return nil
	})
}

func (h *Handler) Create(c *gin.Context) {
	var req model.CreatePatientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return
	}

	h.withAuthRetry(c, func(token string) error {
		patient, err := h.service.Create(c.Request.Context(), token, req)
		if err != nil {
			return err
		}
		c.JSON(http.StatusCreated, patient)
		return nil
	})
}

func (h *Handler) Update(c *gin.Context) {
	id := c.Param("id")

	var req model.UpdatePatientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return
	}

	h.withAuthRetry(c, func(token string) error {
		patient, err := h.service.Update(c.Request.Context(), token, id, req)
		if err != nil {
			return err
		}
		c.JSON(http.StatusOK, patient)
		return nil
	})
}
