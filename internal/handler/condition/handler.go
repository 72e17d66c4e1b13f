// Package condition handles condition (diagnosis) routes.
package condition

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/medfront/ehr-admin-api/internal/handler"
	"github.com/medfront/ehr-admin-api/internal/model"
	conditionservice "github.com/medfront/ehr-admin-api/internal/service/condition"
)

type Handler struct {
	service *conditionservice.Service
}

func NewHandler(service *conditionservice.Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	conditions := r.Group("/conditions")
	{
		conditions.GET("", h.List)
		conditions.POST("", h.Create)
		conditions.PUT("", h.Update)
	}
}

// List returns conditions for ?patient=, or one record with ?id=.
func (h *Handler) List(c *gin.Context) {
	if id := c.Query("id"); id != "" {
		condition, err := h.service.Get(c.Request.Context(), id)
		if err != nil {
			handler.RespondError(c, "Failed to fetch condition", err)
			return
		}
		c.JSON(http.StatusOK, condition)
		return
	}

	conditions, err := h.service.List(c.Request.Context(), c.Query("patient"))
	if err != nil {
		handler.RespondError(c, "Failed to fetch conditions", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": conditions, "total": len(conditions)})
}

func (h *Handler) Create(c *gin.Context) {
	var req model.CreateConditionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return
	}

	condition, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		handler.RespondError(c, "Failed to create condition", err)
		return
	}
	c.JSON(http.StatusCreated, condition)
}

func (h *Handler) Update(c *gin.Context) {
	var req model.UpdateConditionRequest
	if id := c.Query("id"); id != "" {
		req.ID = id
		if err := c.ShouldBindJSON(&req.CreateConditionRequest); err != nil {
			c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
			return
		}
	} else if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return
	}

	condition, err := h.service.Update(c.Request.Context(), req)
	if err != nil {
		handler.RespondError(c, "Failed to update condition", err)
		return
	}
	c.JSON(http.StatusOK, condition)
}
