package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/thesavant42/schwifty-ng/internal/models"
)

// ErrNotFound matches a 404 reply. The character API answers a name search
// without hits with 404 {"error":"There is nothing here"}.
var ErrNotFound = errors.New("nothing here")

// Error is a typed remote failure
type Error struct {
	Kind    models.ErrorKind
	Status  int    // HTTP status for KindStatus, 0 otherwise
	Message string // server-provided message, if any
	URL     string
	Err     error
}

func (e *Error) Error() string {
	switch e.Kind {
	case models.KindStatus:
		if e.Message != "" {
			return fmt.Sprintf("API error (status %d): %s", e.Status, e.Message)
		}
		return fmt.Sprintf("API error (status %d)", e.Status)
	case models.KindEmpty:
		return "API returned an empty response"
	case models.KindMalformed:
		return fmt.Sprintf("failed to decode response: %v", e.Err)
	case models.KindNetwork:
		return fmt.Sprintf("connection error: %v", e.Err)
	default:
		if e.Err != nil {
			return e.Err.Error()
		}
		return "unknown API error"
	}
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is lets errors.Is(err, ErrNotFound) match 404 replies
func (e *Error) Is(target error) bool {
	return target == ErrNotFound && e.Kind == models.KindStatus && e.Status == http.StatusNotFound
}

// KindOf classifies err. Errors that did not come from this package are KindUnknown.
func KindOf(err error) models.ErrorKind {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr.Kind
	}
	return models.KindUnknown
}

// retryable reports whether a fetch should be attempted again.
// Only connectivity failures and 5xx/429 replies are retried.
func retryable(err error) bool {
	var apiErr *Error
	if !errors.As(err, &apiErr) {
		return false
	}
	switch apiErr.Kind {
	case models.KindNetwork:
		return true
	case models.KindStatus:
		return apiErr.Status >= 500 || apiErr.Status == http.StatusTooManyRequests
	}
	return false
}
