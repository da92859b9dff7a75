package core

import "errors"

// Kind classifies a domain error for transport mapping. NotFound also covers
// "exists but owned by someone else" so ownership is never leaked.
type Kind string

const (
	KindInvalidInput         Kind = "invalid_input"
	KindNotFound             Kind = "not_found"
	KindConflict             Kind = "conflict"
	KindUnauthorized         Kind = "unauthorized"
	KindInsufficientProgress Kind = "insufficient_progress"
	KindInternal             Kind = "internal"
)

// Error is the structured failure object exposed to callers. Internal detail
// stays in the wrapped error and is logged, never serialized.
type Error struct {
	Kind Kind
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Msg + ": " + e.Err.Error()
	}
	return e.Msg
}

func (e *Error) Unwrap() error { return e.Err }

// Is lets errors.Is match two domain errors by kind, so sentinel-style
// comparisons like errors.Is(err, core.ErrInsufficientProgress) work.
func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) {
		return false
	}
	return e.Kind == t.Kind
}

func Invalid(msg string) *Error      { return &Error{Kind: KindInvalidInput, Msg: msg} }
func NotFound(msg string) *Error     { return &Error{Kind: KindNotFound, Msg: msg} }
func Conflict(msg string) *Error     { return &Error{Kind: KindConflict, Msg: msg} }
func Unauthorized(msg string) *Error { return &Error{Kind: KindUnauthorized, Msg: msg} }

func Internal(msg string, err error) *Error {
	return &Error{Kind: KindInternal, Msg: msg, Err: err}
}

// ErrInsufficientProgress rejects subtracting more progress than a savings
// goal currently holds.
var ErrInsufficientProgress = &Error{
	Kind: KindInsufficientProgress,
	Msg:  "cannot subtract more than current progress",
}

// KindOf extracts the kind from an error chain, defaulting to internal.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}
