package server

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	billingdomain "github.com/roombox/roombox/internal/billing/domain"
	guestdomain "github.com/roombox/roombox/internal/guest/domain"
	guestservice "github.com/roombox/roombox/internal/guest/service"
	ledgerdomain "github.com/roombox/roombox/internal/ledger/domain"
)

// apiError is the wire shape for every error response.
type apiError struct {
	Status  int    `json:"-"`
	Code    string `json:"code"`
	Field   string `json:"field,omitempty"`
	Message string `json:"message"`
}

func (e *apiError) Error() string { return e.Code }

var (
	ErrNotFound           = &apiError{Status: http.StatusNotFound, Code: "not_found", Message: "resource not found"}
	ErrServiceUnavailable = &apiError{Status: http.StatusServiceUnavailable, Code: "service_unavailable", Message: "service unavailable"}
	ErrTooManyRequests    = &apiError{Status: http.StatusTooManyRequests, Code: "rate_limited", Message: "too many requests"}
)

func invalidRequestError() *apiError {
	return &apiError{Status: http.StatusBadRequest, Code: "invalid_request", Message: "malformed request body"}
}

func newValidationError(field, code, message string) *apiError {
	return &apiError{Status: http.StatusBadRequest, Code: code, Field: field, Message: message}
}

// AbortWithError renders a domain or API error as a JSON response.
func AbortWithError(c *gin.Context, err error) {
	var apiErr *apiError
	if errors.As(err, &apiErr) {
		c.AbortWithStatusJSON(apiErr.Status, gin.H{"error": apiErr})
		return
	}

	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, guestdomain.ErrGuestNotFound),
		errors.Is(err, guestdomain.ErrPropertyNotFound),
		errors.Is(err, guestdomain.ErrBedNotFound):
		status = http.StatusNotFound
	case errors.Is(err, guestdomain.ErrBedOccupied),
		errors.Is(err, guestdomain.ErrGuestVacated),
		errors.Is(err, guestservice.ErrConcurrentReconcile):
		status = http.StatusConflict
	case errors.Is(err, guestdomain.ErrInvalidName),
		errors.Is(err, guestdomain.ErrInvalidMoveIn),
		errors.Is(err, guestdomain.ErrInvalidAmount),
		errors.Is(err, guestdomain.ErrInvalidExitDate),
		errors.Is(err, billingdomain.ErrInvalidCycleUnit),
		errors.Is(err, billingdomain.ErrInvalidCycleValue),
		errors.Is(err, billingdomain.ErrInvalidAnchorDay),
		errors.Is(err, billingdomain.ErrMissingDueDate),
		errors.Is(err, billingdomain.ErrNegativeRent),
		errors.Is(err, ledgerdomain.ErrInvalidAmount),
		errors.Is(err, ledgerdomain.ErrInvalidGuest):
		status = http.StatusBadRequest
	}

	c.AbortWithStatusJSON(status, gin.H{"error": gin.H{
		"code":    err.Error(),
		"message": err.Error(),
	}})
}
