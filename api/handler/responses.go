package handler

import (
	"errors"
	"net/http"

	"github.com/dujoseaugusto/land-data-scraper/internal/service"
	"github.com/gin-gonic/gin"
)

// ErrorResponse is the body of every non-2xx response
type ErrorResponse struct {
	Error string `json:"error"`
}

// statusFor maps service errors onto HTTP status codes
func statusFor(err error) int {
	switch {
	case errors.Is(err, service.ErrMissingSource),
		errors.Is(err, service.ErrMissingRegion),
		errors.Is(err, service.ErrUnsupportedSource),
		errors.Is(err, service.ErrInvalidContribution):
		return http.StatusBadRequest
	case errors.Is(err, service.ErrPropertyNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

func respondError(c *gin.Context, err error) {
	c.JSON(statusFor(err), ErrorResponse{Error: err.Error()})
}
