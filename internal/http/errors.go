package http

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/fyrsmithlabs/inklude/internal/neopronoun"
	"github.com/fyrsmithlabs/inklude/internal/sanitize"
	"github.com/fyrsmithlabs/inklude/internal/submissions"
)

// httpError maps domain errors to HTTP errors. Validation messages are
// safe to return: they never echo the analysed text.
func httpError(err error) *echo.HTTPError {
	var he *echo.HTTPError
	if errors.As(err, &he) {
		return he
	}

	switch {
	case errors.Is(err, sanitize.ErrTextRequired),
		errors.Is(err, sanitize.ErrTextTooLong),
		errors.Is(err, sanitize.ErrInvalidText),
		errors.Is(err, sanitize.ErrInvalidTone),
		errors.Is(err, sanitize.ErrBatchEmpty),
		errors.Is(err, sanitize.ErrBatchTooLarge),
		errors.Is(err, sanitize.ErrInvalidIdentity),
		errors.Is(err, submissions.ErrInvalidSubmission),
		errors.Is(err, submissions.ErrInvalidID),
		errors.Is(err, neopronoun.ErrInvalidSet):
		return echo.NewHTTPError(http.StatusBadRequest, err.Error()).SetInternal(err)
	case errors.Is(err, submissions.ErrNotFound):
		return echo.NewHTTPError(http.StatusNotFound, err.Error()).SetInternal(err)
	case errors.Is(err, submissions.ErrAlreadyApproved),
		errors.Is(err, neopronoun.ErrLabelConflict):
		return echo.NewHTTPError(http.StatusConflict, err.Error()).SetInternal(err)
	}
	return echo.NewHTTPError(http.StatusInternalServerError, "internal server error").SetInternal(err)
}
