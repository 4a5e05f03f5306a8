package handlers

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/vunguyen00/Netflix/pkg/logger"
	"github.com/vunguyen00/Netflix/pkg/response"
	"github.com/vunguyen00/Netflix/pkg/store"
	"github.com/vunguyen00/Netflix/pkg/warranty"
)

// Common error type definitions
var (
	// ErrInvalidParam indicates invalid parameter error
	ErrInvalidParam = errors.New("invalid parameter")

	// ErrServiceUnavailable indicates service unavailable error
	ErrServiceUnavailable = errors.New("service unavailable")

	// ErrForbidden indicates the caller may not touch the resource
	ErrForbidden = errors.New("forbidden")
)

// APIError represents a custom API error structure
type APIError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Err     error  `json:"-"`
}

// Error implements the error interface
func (e *APIError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("API Error (Code: %d, Message: %s): %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("API Error (Code: %d, Message: %s)", e.Code, e.Message)
}

// Unwrap supports error wrapping
func (e *APIError) Unwrap() error {
	return e.Err
}

// NewAPIError creates a new API error
func NewAPIError(code int, message string, err error) *APIError {
	return &APIError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// NewBadRequestError creates a 400 Bad Request error
func NewBadRequestError(message string, err error) *APIError {
	return NewAPIError(http.StatusBadRequest, message, err)
}

// NewNotFoundError creates a 404 Not Found error
func NewNotFoundError(message string, err error) *APIError {
	return NewAPIError(http.StatusNotFound, message, err)
}

// HandleError provides unified error handling
func HandleError(c *gin.Context, err error) {
	if err == nil {
		return
	}

	var apiErr *APIError
	if errors.As(err, &apiErr) {
		if apiErr.Code >= http.StatusInternalServerError {
			response.WriteErrorResponse(c, apiErr.Code, apiErr.Message, apiErr.Err)
			return
		}
		logger.FromContext(c.Request.Context()).Warn("API error occurred",
			zap.Int("code", apiErr.Code),
			zap.String("message", apiErr.Message),
			zap.Error(apiErr.Err))
		response.WriteErrorResponse(c, apiErr.Code, apiErr.Message, nil)
		return
	}

	// Handle domain errors
	switch {
	case errors.Is(err, ErrInvalidParam):
		response.WriteErrorResponse(c, http.StatusBadRequest, "Invalid parameter", nil)
	case errors.Is(err, ErrForbidden):
		response.WriteErrorResponse(c, http.StatusForbidden, "Forbidden", nil)
	case errors.Is(err, store.ErrNotFound):
		response.WriteErrorResponse(c, http.StatusNotFound, "Resource not found", nil)
	case errors.Is(err, store.ErrInsufficientBalance):
		response.WriteErrorResponse(c, http.StatusPaymentRequired, "Insufficient balance", nil)
	case errors.Is(err, store.ErrPoolEmpty):
		response.WriteErrorResponse(c, http.StatusConflict, "No account is available right now", nil)
	case errors.Is(err, store.ErrNotAvailable):
		response.WriteErrorResponse(c, http.StatusConflict, "Account is not available", nil)
	case errors.Is(err, store.ErrDuplicate):
		response.WriteErrorResponse(c, http.StatusConflict, "Account already exists", nil)
	case errors.Is(err, store.ErrConflict):
		response.WriteErrorResponse(c, http.StatusConflict, "Please try again", err)
	case errors.Is(err, warranty.ErrRunInProgress):
		response.WriteErrorResponse(c, http.StatusConflict, "A warranty check for this order is already running", nil)
	case errors.Is(err, warranty.ErrOrderInactive):
		response.WriteErrorResponse(c, http.StatusConflict, "Order is not active", nil)
	case errors.Is(err, ErrServiceUnavailable):
		response.WriteErrorResponse(c, http.StatusServiceUnavailable, "Service unavailable", err)
	default:
		// Unknown error, log details and return generic 500 error
		response.WriteErrorResponse(c, http.StatusInternalServerError, "Internal server error", err)
	}
}
