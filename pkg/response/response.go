package response

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jengzang/rollcall-backend-go/internal/apperrors"
	"github.com/jengzang/rollcall-backend-go/internal/models"
)

// Response represents a standard API response
type Response struct {
	Code     int              `json:"code"`
	Message  string           `json:"message"`
	Data     interface{}      `json:"data,omitempty"`
	Warnings []models.Warning `json:"warnings,omitempty"`
	Kind     string           `json:"kind,omitempty"`
	Subject  string           `json:"subject,omitempty"`
}

// Success sends a successful response
func Success(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, Response{
		Code:    0,
		Message: "success",
		Data:    data,
	})
}

// SuccessWithWarnings sends a successful response carrying data-quality warnings
func SuccessWithWarnings(c *gin.Context, data interface{}, warnings []models.Warning) {
	c.JSON(http.StatusOK, Response{
		Code:     0,
		Message:  "success",
		Data:     data,
		Warnings: warnings,
	})
}

// Error sends an error response
func Error(c *gin.Context, code int, message string) {
	c.JSON(code, Response{
		Code:    code,
		Message: message,
	})
}

// FromError maps a core error to an HTTP status with structured detail
func FromError(c *gin.Context, err error) {
	var appErr *apperrors.Error
	if !errors.As(err, &appErr) {
		Error(c, http.StatusInternalServerError, err.Error())
		return
	}

	status := http.StatusBadRequest
	switch appErr.Kind {
	case apperrors.KindNotFound:
		status = http.StatusNotFound
	case apperrors.KindConflict:
		status = http.StatusConflict
	case apperrors.KindUnavailable:
		status = http.StatusServiceUnavailable
	}
	c.JSON(status, Response{
		Code:    status,
		Message: appErr.Message,
		Kind:    string(appErr.Kind),
		Subject: appErr.Subject,
	})
}

// BadRequest sends a 400 bad request response
func BadRequest(c *gin.Context, message string) {
	Error(c, http.StatusBadRequest, message)
}

// NotFound sends a 404 not found response
func NotFound(c *gin.Context, message string) {
	Error(c, http.StatusNotFound, message)
}

// InternalError sends a 500 internal server error response
func InternalError(c *gin.Context, message string) {
	Error(c, http.StatusInternalServerError, message)
}
