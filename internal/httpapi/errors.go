package httpapi

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/goliatone/go-geoform/pkg/mapfield"
	"github.com/goliatone/go-geoform/pkg/render"
	"github.com/goliatone/go-geoform/pkg/territory"
)

// APIError is the JSON body of every error response.
type APIError struct {
	Status  int    `json:"status"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

// StatusError attaches an HTTP status to an error.
type StatusError struct {
	Code int
	Err  error
}

func (e StatusError) Error() string {
	if e.Err == nil {
		return http.StatusText(e.Code)
	}
	return e.Err.Error()
}

func (e StatusError) Unwrap() error { return e.Err }

func (e StatusError) StatusCode() int { return e.Code }

func badRequest(err error) error {
	return StatusError{Code: http.StatusBadRequest, Err: err}
}

// statusFor maps domain errors to HTTP statuses.
func statusFor(err error) int {
	var status StatusError
	switch {
	case errors.As(err, &status) && status.Code > 0:
		return status.Code
	case errors.Is(err, territory.ErrUnknownTrigger),
		errors.Is(err, mapfield.ErrMissingFieldName),
		errors.Is(err, mapfield.ErrInvalidZoom),
		errors.Is(err, render.ErrThemeNotFound),
		errors.Is(err, render.ErrEmptyView):
		return http.StatusBadRequest
	case errors.Is(err, render.ErrRendererNotFound):
		return http.StatusNotAcceptable
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	case errors.Is(err, context.Canceled):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func errorCode(status int) string {
	switch status {
	case http.StatusBadRequest:
		return "bad_request"
	case http.StatusNotAcceptable:
		return "not_acceptable"
	case http.StatusGatewayTimeout:
		return "timeout"
	case http.StatusServiceUnavailable:
		return "unavailable"
	default:
		return "internal_error"
	}
}

// abortWithError records err on the context and writes the JSON error body.
// Internal failures hide their message from the client.
func abortWithError(c *gin.Context, err error) {
	status := statusFor(err)
	_ = c.Error(err)
	message := err.Error()
	if status >= http.StatusInternalServerError {
		message = http.StatusText(status)
	}
	c.AbortWithStatusJSON(status, APIError{
		Status:  status,
		Code:    errorCode(status),
		Message: message,
	})
}
