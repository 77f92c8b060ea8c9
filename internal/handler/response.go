package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/sirupsen/logrus"

	"fleet/internal/domain"
	"fleet/internal/repository"
	"fleet/internal/service"
)

// Envelope is the body of every successful response.
type Envelope struct {
	Success bool   `json:"success"`
	Count   *int   `json:"count,omitempty"`
	Data    any    `json:"data,omitempty"`
	Message string `json:"message,omitempty"`
}

// ErrorResponse is the body of every failed response.
type ErrorResponse struct {
	Success bool                `json:"success"`
	Message string              `json:"message"`
	Errors  []domain.FieldError `json:"errors,omitempty"`
}

// respondJSON sends a single resource.
func respondJSON(c *gin.Context, code int, data any) {
	c.JSON(code, Envelope{Success: true, Data: data})
}

// respondList sends a collection together with its size.
func respondList[T any](c *gin.Context, items []T) {
	if items == nil {
		items = []T{}
	}
	n := len(items)
	c.JSON(http.StatusOK, Envelope{Success: true, Count: &n, Data: items})
}

// respondMessage sends a resource with a human readable message.
func respondMessage(c *gin.Context, code int, message string, data any) {
	c.JSON(code, Envelope{Success: true, Data: data, Message: message})
}

// respondError sends an error response with the appropriate HTTP status code.
func respondError(c *gin.Context, err error) {
	var ve *domain.ValidationError
	if errors.As(err, &ve) {
		c.JSON(http.StatusBadRequest, ErrorResponse{Message: "validation failed", Errors: ve.Fields})
		return
	}

	code := mapErrorToHTTPStatus(err)
	if code == http.StatusInternalServerError {
		_ = c.Error(err)
		logrus.WithError(err).WithFields(logrus.Fields{
			"method": c.Request.Method,
			"path":   c.FullPath(),
		}).Error("request failed")
		c.JSON(code, ErrorResponse{Message: "internal server error"})
		return
	}

	c.JSON(code, ErrorResponse{Message: err.Error()})
}

// respondBadRequest reports a malformed request body or query.
func respondBadRequest(c *gin.Context, err error) {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		fields := make([]domain.FieldError, 0, len(verrs))
		for _, fe := range verrs {
			fields = append(fields, domain.FieldError{Field: fe.Field(), Message: "failed on " + fe.Tag()})
		}
		c.JSON(http.StatusBadRequest, ErrorResponse{Message: "validation failed", Errors: fields})
		return
	}
	c.JSON(http.StatusBadRequest, ErrorResponse{Message: "invalid request: " + err.Error()})
}

// mapErrorToHTTPStatus maps service and repository errors to HTTP status codes.
// Conflicts are reported as 400.
func mapErrorToHTTPStatus(err error) int {
	switch {
	case errors.Is(err, service.ErrNotFound), errors.Is(err, repository.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, service.ErrConflict), errors.Is(err, repository.ErrDuplicate):
		return http.StatusBadRequest
	case errors.Is(err, service.ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, service.ErrForbidden):
		return http.StatusForbidden
	default:
		return http.StatusInternalServerError
	}
}

// Accepted layouts for date query parameters.
var dateLayouts = []string{"2006-01-02", time.RFC3339}

// parseDateRange reads the from and to query parameters. A bare date in
// "to" covers the whole day.
func parseDateRange(c *gin.Context) (repository.DateRange, error) {
	var r repository.DateRange

	from, _, err := parseDate(c.Query("from"))
	if err != nil {
		return r, domain.NewValidationError("from", "must be a date (YYYY-MM-DD) or RFC 3339 timestamp")
	}
	to, dateOnly, err := parseDate(c.Query("to"))
	if err != nil {
		return r, domain.NewValidationError("to", "must be a date (YYYY-MM-DD) or RFC 3339 timestamp")
	}
	if dateOnly {
		to = to.Add(24*time.Hour - time.Nanosecond)
	}
	if !from.IsZero() && !to.IsZero() && to.Before(from) {
		return r, domain.NewValidationError("to", "must not be before from")
	}

	r.From, r.To = from, to
	return r, nil
}

func parseDate(v string) (time.Time, bool, error) {
	if v == "" {
		return time.Time{}, false, nil
	}
	for i, layout := range dateLayouts {
		if t, err := time.Parse(layout, v); err == nil {
			return t.UTC(), i == 0, nil
		}
	}
	return time.Time{}, false, errors.New("invalid date")
}
