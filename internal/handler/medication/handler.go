// Package medication handles medication statement routes.
package medication

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/medfront/ehr-admin-api/internal/handler"
	"github.com/medfront/ehr-admin-api/internal/model"
	medicationservice "github.com/medfront/ehr-admin-api/internal/service/medication"
)

type Handler struct {
	service *medicationservice.Service
}

func NewHandler(service *medicationservice.Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	medications := r.Group("/medications")
	{
		medications.GET("", h.List)
		medications.POST("", h.Create)
		medications.PUT("", h.Update)
	}
}

// List returns medications, optionally filtered by ?patient= and paged with
// ?_count=/?page=. With ?id= it returns the single statement instead.
func (h *Handler) List(c *gin.Context) {
	if id := c.Query("id"); id != "" {
		medication, err := h.service.Get(c.Request.Context(), id)
		if err != nil {
			handler.RespondError(c, "Failed to fetch medication", err)
			return
		}
		c.JSON(http.StatusOK, medication)
		return
	}

	filters := medicationservice.ListFilters{
		PatientID: c.Query("patient"),
	}
	filters.Count, _ = strconv.Atoi(c.Query("_count"))
	filters.Page, _ = strconv.Atoi(c.Query("page"))
	if filters.Count <= 0 {
		filters.Count = 100
	}
	if filters.Page <= 0 {
		filters.Page = 1
	}

	medications, total, err := h.service.List(c.Request.Context(), filters)
	if err != nil {
		handler.RespondError(c, "Failed to fetch medications", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"items": medications,
		"total": total,
		"page":  filters.Page,
		"count": filters.Count,
	})
}

func (h *Handler) Create(c *gin.Context) {
	var req model.CreateMedicationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return
	}

	medication, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		handler.RespondError(c, "Failed to create medication", err)
		return
	}
	c.JSON(http.StatusCreated, medication)
}

// Update replaces a medication statement. The id comes from ?id= or, failing
// that, the request body.
func (h *Handler) Update(c *gin.Context) {
	var req model.UpdateMedicationRequest
	if id := c.Query("id"); id != "" {
		req.ID = id
		if err := c.ShouldBindJSON(&req.CreateMedicationRequest); err != nil {
			c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
			return
		}
	} else if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return
	}

	medication, err := h.service.Update(c.Request.Context(), req)
	if err != nil {
		handler.RespondError(c, "Failed to update medication", err)
		return
	}
	c.JSON(http.StatusOK, medication)
}
