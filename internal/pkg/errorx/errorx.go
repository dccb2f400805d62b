package errorx

import (
	"context"
	"errors"
	"net/http"
)

type Kind int

const (
	Service Kind = iota
	Validation
	Authn
	NotExist
	Conflict
	State
	RateLimiting
	Upstream
)

func (k Kind) String() string {
	switch k {
	case Validation:
		return "validation"
	case Authn:
		return "authn"
	case NotExist:
		return "not_exist"
	case Conflict:
		return "conflict"
	case State:
		return "state"
	case RateLimiting:
		return "rate_limiting"
	case Upstream:
		return "upstream"
	}
	return "service"
}

// StatusCode is the HTTP status a kind is rendered with.
func (k Kind) StatusCode() int {
	switch k {
	case Validation:
		return http.StatusBadRequest
	case Authn:
		return http.StatusUnauthorized
	case NotExist:
		return http.StatusNotFound
	case Conflict:
		return http.StatusConflict
	case State, RateLimiting:
		return http.StatusTooManyRequests
	case Upstream:
		return http.StatusServiceUnavailable
	}
	return http.StatusInternalServerError
}

type Error struct {
	Kind    Kind
	Err     error
	Details map[string]any
}

func (e *Error) Error() string {
	if e.Err == nil {
		return e.Kind.String()
	}
	return e.Err.Error()
}

func (e *Error) Unwrap() error {
	return e.Err
}

func Wrap(err error, kind Kind) error {
	if err == nil {
		return nil
	}
	return &Error{Kind: kind, Err: err}
}

func WithDetails(err error, kind Kind, details map[string]any) error {
	if err == nil {
		return nil
	}
	return &Error{Kind: kind, Err: err, Details: details}
}

// KindOf walks the chain for the outermost *Error. Deadline and cancellation
// errors without a kind are reported as Upstream.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return Upstream
	}
	return Service
}

func DetailsOf(err error) map[string]any {
	var e *Error
	if errors.As(err, &e) {
		return e.Details
	}
	return nil
}

func Is(err error, kind Kind) bool {
	return err != nil && KindOf(err) == kind
}
