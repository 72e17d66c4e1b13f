// Package dashboard serves the aggregate counters behind the overview cards.
package dashboard

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/medfront/ehr-admin-api/internal/handler"
	authhandler "github.com/medfront/ehr-admin-api/internal/handler/auth"
	appointmentservice "github.com/medfront/ehr-admin-api/internal/service/appointment"
	patientservice "github.com/medfront/ehr-admin-api/internal/service/patient"
)

type Handler struct {
	patients     *patientservice.Service
	appointments *appointmentservice.Service
	mockMode     bool
}

func NewHandler(patients *patientservice.Service, appointments *appointmentservice.Service, mockMode bool) *Handler {
	return &Handler{patients: patients, appointments: appointments, mockMode: mockMode}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	r.GET("/dashboard/stats", h.Stats)
}

// Stats returns the overview counters. The patient total rides on the
// caller's cookie-held token like the rest of the patient surface.
func (h *Handler) Stats(c *gin.Context) {
	token, err := c.Cookie(authhandler.AccessCookie)
	if err != nil && !h.mockMode {
		c.JSON(http.StatusUnauthorized, handler.NewErrorResponse("Authentication required"))
		return
	}

	patientCount, err := h.patients.Count(c.Request.Context(), token)
	if err != nil {
		handler.RespondError(c, "Failed to fetch dashboard stats", err)
		return
	}

	today, scheduled, err := h.appointments.Stats(c.Request.Context())
	if err != nil {
		handler.RespondError(c, "Failed to fetch dashboard stats", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"patients":              patientCount,
		"appointmentsToday":     today,
		"appointmentsScheduled": scheduled,
	})
}
