// Package vitals handles vital-signs observation routes.
package vitals

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/medfront/ehr-admin-api/internal/handler"
	"github.com/medfront/ehr-admin-api/internal/model"
	vitalservice "github.com/medfront/ehr-admin-api/internal/service/vital"
)

type Handler struct {
	service *vitalservice.Service
}

func NewHandler(service *vitalservice.Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	vitals := r.Group("/vitals")
	{
		vitals.GET("", h.List)
		vitals.POST("", h.Create)
		vitals.PUT("", h.Update)
	}
}

// List returns the vital-signs observations for ?patient=.
func (h *Handler) List(c *gin.Context) {
	patientID := c.Query("patient")
	if patientID == "" {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("patient query parameter is required"))
		return
	}

	vitals, err := h.service.List(c.Request.Context(), patientID)
	if err != nil {
		handler.RespondError(c, "Failed to fetch vitals", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": vitals, "total": len(vitals)})
}

func (h *Handler) Create(c *gin.Context) {
	patientID := c.Query("patient")
	if patientID == "" {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("patient query parameter is required"))
		return
	}

	var req model.CreateVitalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return
	}

	vital, err := h.service.Create(c.Request.Context(), patientID, req)
	if err != nil {
		handler.RespondError(c, "Failed to create vital", err)
		return
	}
	c.JSON(http.StatusCreated, vital)
}

// Update replaces an observation with the raw FHIR resource from the request
// body. The dashboard round-trips the resource it previously fetched.
func (h *Handler) Update(c *gin.Context) {
	id := c.Query("id")
	if id == "" {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("id query parameter is required"))
		return
	}

	body, err := io.ReadAll(c.Request.Body)
	if err != nil || !json.Valid(body) {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("request body must be a FHIR Observation"))
		return
	}

	updated, err := h.service.Update(c.Request.Context(), id, body)
	if err != nil {
		handler.RespondError(c, "Failed to update vital", err)
		return
	}
	if updated == nil {
		c.Status(http.StatusNoContent)
		return
	}
	c.Data(http.StatusOK, "application/json", updated)
}
