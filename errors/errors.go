package errors

import (
	"errors"
	"net/http"
)

var (
	NotFound            = HttpError{http.StatusNotFound, errors.New("not found")}
	Duplicate           = HttpError{http.StatusConflict, errors.New("duplicate")}
	BadRequest          = HttpError{http.StatusBadRequest, errors.New("bad request")}
	Unauthorized        = HttpError{http.StatusUnauthorized, errors.New("unauthorized")}
	Forbidden           = HttpError{http.StatusForbidden, errors.New("forbidden")}
	ConstraintViolation = HttpError{http.StatusUnprocessableEntity, errors.New("constraint violation")}
	InternalServerError = HttpError{http.StatusInternalServerError, errors.New("internal server error")}

	// SessionExpired is returned when a 401 could not be recovered by refreshing the access token.
	// The session has already been cleared when this error is returned.
	SessionExpired = HttpError{http.StatusUnauthorized, errors.New("session expired")}

	PatientNotFound = HttpError{http.StatusNotFound, errors.New("patient not found")}
)

type HttpError struct {
	Code int
	Err  error
}

func (h HttpError) Unwrap() error {
	return h.Err
}

func (h HttpError) Error() string {
	return h.Err.Error()
}

// FromStatusCode returns the sentinel error matching a backend response status
func FromStatusCode(code int) error {
	switch code {
	case http.StatusBadRequest:
		return BadRequest
	case http.StatusUnauthorized:
		return Unauthorized
	case http.StatusForbidden:
		return Forbidden
	case http.StatusNotFound:
		return NotFound
	case http.StatusConflict:
		return Duplicate
	case http.StatusUnprocessableEntity:
		return ConstraintViolation
	case http.StatusInternalServerError:
		return InternalServerError
	}

	text := http.StatusText(code)
	if text == "" {
		text = "unexpected status code"
	}
	return HttpError{code, errors.New(text)}
}
