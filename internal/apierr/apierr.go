package apierr

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies a failure for callers that need to branch on it without
// string-matching messages. Conflict and DependencyUnavailable exist so the
// services can recognize and absorb them; they are never surfaced over HTTP.
type Kind string

const (
	KindValidation            Kind = "validation_error"
	KindNotFound              Kind = "not_found"
	KindConflict              Kind = "conflict"
	KindDependencyUnavailable Kind = "dependency_unavailable"
	KindDependencyError       Kind = "dependency_error"
	KindPartialFailure        Kind = "partial_failure"
)

type Error struct {
	Status int
	Code   string
	Kind   Kind
	Err    error
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	if e.Code != "" {
		return e.Code
	}
	if e.Status != 0 {
		return fmt.Sprintf("api error (%d)", e.Status)
	}
	return "api error"
}

func (e *Error) Unwrap() error { return e.Err }

func New(status int, code string, kind Kind, err error) *Error {
	return &Error{Status: status, Code: code, Kind: kind, Err: err}
}

func Validation(code string, err error) *Error {
	return New(http.StatusBadRequest, code, KindValidation, err)
}

func NotFound(code string, err error) *Error {
	return New(http.StatusNotFound, code, KindNotFound, err)
}

func Conflict(code string, err error) *Error {
	return New(http.StatusConflict, code, KindConflict, err)
}

func DependencyUnavailable(code string, err error) *Error {
	return New(http.StatusServiceUnavailable, code, KindDependencyUnavailable, err)
}

func DependencyError(code string, err error) *Error {
	return New(http.StatusInternalServerError, code, KindDependencyError, err)
}

func PartialFailure(code string, err error) *Error {
	return New(http.StatusOK, code, KindPartialFailure, err)
}

// KindOf unwraps err looking for an *Error and reports its Kind, or "" when
// the chain carries none.
func KindOf(err error) Kind {
	var ae *Error
	if errors.As(err, &ae) && ae != nil {
		return ae.Kind
	}
	return ""
}

func IsKind(err error, kind Kind) bool {
	return KindOf(err) == kind
}
