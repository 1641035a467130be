package httpapi

import (
	"errors"
	"net/http"

	mdt "github.com/goliatone/go-mdt/components/mdt"
)

// StatusFor maps controller errors onto HTTP status codes.
func StatusFor(err error) int {
	var (
		validation *mdt.FormValidationError
		dispatch   *mdt.MessageDispatchError
	)
	switch {
	case err == nil:
		return http.StatusOK
	case errors.As(err, &validation):
		return http.StatusUnprocessableEntity
	case errors.As(err, &dispatch):
		return http.StatusBadRequest
	case errors.Is(err, mdt.ErrUnknownPage), errors.Is(err, mdt.ErrUnknownForm):
		return http.StatusNotFound
	case errors.Is(err, mdt.ErrFormNotOpen):
		return http.StatusConflict
	case errors.Is(err, mdt.ErrSubmitNotWired), errors.Is(err, errNotConfigured):
		return http.StatusNotImplemented
	case errors.Is(err, mdt.ErrLoopStopped):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
