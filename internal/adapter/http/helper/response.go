package helper

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	. "taskmanager/internal/adapter/http/validation"
	"taskmanager/internal/core/domain"
	"taskmanager/internal/core/model/response"
)

func SendSuccess(c *gin.Context, statusCode int, data any, message ...string) {
	response := response.SuccessResponse{
		Data: data,
	}

	if len(message) > 0 && message[0] != "" {
		response.Message = message[0]
	}

	c.JSON(statusCode, response)
}

func SendError(c *gin.Context, statusCode int, code string, errors []response.ValidationError, details ...any) {
	errorResponse := response.ErrorResponse{
		Error: response.ResponseError{
			Code:   code,
			Errors: errors,
		},
	}

	if len(details) > 0 {
		errorResponse.Error.Details = details[0]
	}

	c.AbortWithStatusJSON(statusCode, errorResponse)
}

func SendValidationError(c *gin.Context, err error) {
	validationErrors := FormatValidationErrors(err)
	SendError(c, http.StatusBadRequest, "VALIDATION_ERROR", validationErrors)
}

func SendInternalError(c *gin.Context, message string, details ...any) {
	errors := []response.ValidationError{
		{
			Field:   "server",
			Message: message,
		},
	}

	SendError(c, http.StatusInternalServerError, "INTERNAL_ERROR", errors, details...)
}

func SendUnauthorizedError(c *gin.Context, message string) {
	errors := []response.ValidationError{
		{
			Field:   "auth",
			Message: message,
		},
	}

	SendError(c, http.StatusUnauthorized, "UNAUTHORIZED", errors)
}

func SendBadRequestError(c *gin.Context, field string, message string) {
	errors := []response.ValidationError{
		{
			Field:   field,
			Message: message,
		},
	}

	SendError(c, http.StatusBadRequest, "BAD_REQUEST", errors)
}

func SendNotFoundError(c *gin.Context, message string) {
	errors := []response.ValidationError{
		{
			Field:   "resource",
			Message: message,
		},
	}

	SendError(c, http.StatusNotFound, "NOT_FOUND", errors)
}

func SendConflictError(c *gin.Context, field string, message string) {
	errors := []response.ValidationError{
		{
			Field:   field,
			Message: message,
		},
	}

	SendError(c, http.StatusConflict, "CONFLICT", errors)
}

func SendTooManyRequestsError(c *gin.Context, limit int, window time.Duration, resetAt time.Time) {
	retryAfter := int(time.Until(resetAt).Seconds())

	if retryAfter < 1 {
		retryAfter = 1
	}

	c.Header("Retry-After", strconv.Itoa(retryAfter))

	errors := []response.ValidationError{
		{
			Field:   "request",
			Message: "Too many requests. Limit: " + strconv.Itoa(limit) + " per " + window.String(),
		},
	}

	SendError(c, http.StatusTooManyRequests, "RATE_LIMITED", errors, gin.H{"retry_after": retryAfter})
}

// SendDomainError writes the envelope matching the kind of err. field names
// the request part the error refers to.
func SendDomainError(c *gin.Context, field string, err error) {
	var domainErr *domain.Error

	message := err.Error()

	if errors.As(err, &domainErr) {
		message = domainErr.Error()
	}

	switch domain.KindOf(err) {
	case domain.ErrInvalidArgument:
		SendBadRequestError(c, field, message)
	case domain.ErrNotFound:
		SendNotFoundError(c, message)
	case domain.ErrConflict:
		SendConflictError(c, field, message)
	case domain.ErrUnauthorized:
		SendUnauthorizedError(c, message)
	default:
		slog.ErrorContext(c.Request.Context(), "request failed", "path", c.FullPath(), "error", err)
		SendInternalError(c, domain.ErrInternal.Error())
	}
}
