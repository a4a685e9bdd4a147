package httperr

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

type HTTPError struct {
	Message string       `json:"error"`
	Code    string       `json:"code"`
	Details []FieldError `json:"details,omitempty"`
}

func Write(c *gin.Context, status int, code, message string) {
	c.AbortWithStatusJSON(status, HTTPError{
		Message: message,
		Code:    code,
	})
}

func BadRequest(c *gin.Context, code, message string) {
	Write(c, http.StatusBadRequest, code, message)
}

func NotFound(c *gin.Context, code, message string) {
	Write(c, http.StatusNotFound, code, message)
}

func Conflict(c *gin.Context, code, message string) {
	Write(c, http.StatusConflict, code, message)
}

func Internal(c *gin.Context, code, message string) {
	Write(c, http.StatusInternalServerError, code, message)
}

func Unauthorized(c *gin.Context, code, message string) {
	Write(c, http.StatusUnauthorized, code, message)
}

func Forbidden(c *gin.Context, code, message string) {
	Write(c, http.StatusForbidden, code, message)
}

func Validation(c *gin.Context, message string, details []FieldError) {
	c.AbortWithStatusJSON(http.StatusBadRequest, HTTPError{
		Message: message,
		Code:    "validation_error",
		Details: details,
	})
}

// Respond writes err using the status that matches its kind.
// Anything that is not a BusinessError is logged and hidden behind a 500.
func Respond(c *gin.Context, err error) {
	if be, ok := AsBusiness(err); ok {
		message := be.Message
		if message == "" {
			message = be.Code
		}
		switch be.Kind {
		case KindValidation:
			Validation(c, message, be.Details)
		case KindConflict:
			Conflict(c, be.Code, message)
		case KindNotFound:
			NotFound(c, be.Code, message)
		default:
			BadRequest(c, be.Code, message)
		}
		return
	}

	if errors.Is(err, gorm.ErrRecordNotFound) {
		NotFound(c, "not_found", "Recurso no encontrado.")
		return
	}

	log.Error().
		Err(err).
		Str("method", c.Request.Method).
		Str("path", c.FullPath()).
		Msg("unhandled error")
	Internal(c, "internal_error", "Error interno del servidor.")
}
