// Package appointment handles the scheduling routes.
package appointment

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/medfront/ehr-admin-api/internal/handler"
	"github.com/medfront/ehr-admin-api/internal/model"
	appointmentservice "github.com/medfront/ehr-admin-api/internal/service/appointment"
)

type Handler struct {
	service *appointmentservice.Service
}

func NewHandler(service *appointmentservice.Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	appointments := r.Group("/appointments")
	{
		appointments.GET("", h.List)
		appointments.GET("/:id", h.Get)
		appointments.POST("", h.Create)
		appointments.PUT("/:id", h.Update)
		// DELETE cancels rather than removes; the schedule keeps its history.
		appointments.DELETE("/:id", h.Cancel)
		appointments.POST("/:id/cancel", h.Cancel)
	}
}

func (h *Handler) List(c *gin.Context) {
	filters := &model.AppointmentFilters{
		PatientID: c.Query("patient"),
		Date:      c.Query("date"),
		Status:    model.AppointmentStatus(c.Query("status")),
	}

	appointments, err := h.service.List(c.Request.Context(), filters)
	if err != nil {
		handler.RespondError(c, "Failed to fetch appointments", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": appointments, "total": len(appointments)})
}

func (h *Handler) Get(c *gin.Context) {
	appointment, err := h.service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		handler.RespondError(c, "Failed to fetch appointment", err)
		return
	}
	c.JSON(http.StatusOK, appointment)
}

func (h *Handler) Create(c *gin.Context) {
	var req model.CreateAppointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return
	}

	appointment, err := h.service.Create(c.Request.Context(), &req)
	if err != nil {
		handler.RespondError(c, "Failed to create appointment", err)
		return
	}
	c.JSON(http.StatusCreated, appointment)
}

func (h *Handler) Update(c *gin.Context) {
	var req model.UpdateAppointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return
	}

	appointment, err := h.service.Update(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		handler.RespondError(c, "Failed to update appointment", err)
		return
	}
	c.JSON(http.StatusOK, appointment)
}

func (h *Handler) Cancel(c *gin.Context) {
	appointment, err := h.service.Cancel(c.Request.Context(), c.Param("id"))
	if err != nil {
		handler.RespondError(c, "Failed to cancel appointment", err)
		return
	}
	c.JSON(http.StatusOK, appointment)
}
