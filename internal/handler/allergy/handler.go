// Package allergy handles allergy intolerance routes.
package allergy

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/medfront/ehr-admin-api/internal/handler"
	"github.com/medfront/ehr-admin-api/internal/model"
	allergyservice "github.com/medfront/ehr-admin-api/internal/service/allergy"
)

type Handler struct {
	service *allergyservice.Service
}

func NewHandler(service *allergyservice.Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	allergies := r.Group("/allergies")
	{
		allergies.GET("", h.List)
		allergies.POST("", h.Create)
		allergies.PUT("", h.Update)
	}
}

// List returns allergies for ?patient=, or one record with ?id=.
func (h *Handler) List(c *gin.Context) {
	if id := c.Query("id"); id != "" {
		allergy, err := h.service.Get(c.Request.Context(), id)
		if err != nil {
			handler.RespondError(c, "Failed to fetch allergy", err)
			return
		}
		c.JSON(http.StatusOK, allergy)
		return
	}

	allergies, err := h.service.List(c.Request.Context(), c.Query("patient"))
	if err != nil {
		handler.RespondError(c, "Failed to fetch allergies", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": allergies, "total": len(allergies)})
}

func (h *Handler) Create(c *gin.Context) {
	var req model.CreateAllergyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return
	}

	allergy, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		handler.RespondError(c, "Failed to create allergy", err)
		return
	}
	c.JSON(http.StatusCreated, allergy)
}

func (h *Handler) Update(c *gin.Context) {
	var req model.UpdateAllergyRequest
	if id := c.Query("id"); id != "" {
		req.ID = id
		if err := c.ShouldBindJSON(&req.CreateAllergyRequest); err != nil {
			c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
			return
		}
	} else if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return
	}

	allergy, err := h.service.Update(c.Request.Context(), req)
	if err != nil {
		handler.RespondError(c, "Failed to update allergy", err)
		return
	}
	c.JSON(http.StatusOK, allergy)
}
