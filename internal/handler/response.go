package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/medfront/ehr-admin-api/internal/ehr"
	apperrors "github.com/medfront/ehr-admin-api/pkg/errors"
)

// ErrorResponse is the uniform failure envelope: a short action-level message
// plus the structured upstream detail when one exists.
type ErrorResponse struct {
	Error   string      `json:"error"`
	Details interface{} `json:"details,omitempty"`
}

func NewErrorResponse(message string) *ErrorResponse {
	return &ErrorResponse{Error: message}
}

// RespondError funnels every failure into the envelope with a best-effort
// status code. Handlers never let errors escape past this boundary.
func RespondError(c *gin.Context, action string, err error) {
	var upstreamErr *ehr.UpstreamError
	if errors.As(err, &upstreamErr) {
		status := upstreamErr.Status
		if status == 0 {
			status = http.StatusInternalServerError
		}
		c.JSON(status, &ErrorResponse{Error: action, Details: upstreamErr.Details()})
		return
	}

	var timeoutErr *ehr.TimeoutError
	if errors.As(err, &timeoutErr) {
		c.JSON(http.StatusGatewayTimeout, &ErrorResponse{Error: action, Details: timeoutErr.Error()})
		return
	}

	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		c.JSON(statusForCode(appErr.Code), &ErrorResponse{Error: action, Details: appErr.Message})
		return
	}

	c.JSON(http.StatusInternalServerError, &ErrorResponse{Error: action, Details: err.Error()})
}

func statusForCode(code apperrors.ErrorCode) int {
	switch code {
	case apperrors.ErrNotFound:
		return http.StatusNotFound
	case apperrors.ErrBadRequest, apperrors.ErrValidation:
		return http.StatusBadRequest
	case apperrors.ErrUnauthorized, apperrors.ErrAuthentication:
		return http.StatusUnauthorized
	case apperrors.ErrForbidden:
		return http.StatusForbidden
	case apperrors.ErrTimeout:
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}
