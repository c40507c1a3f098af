package apperrors

import "errors"

// Sentinel kinds for business-rule failures. Handlers map these to HTTP
// status codes with errors.Is.
var (
	ErrNotFound   = errors.New("not found")
	ErrConflict   = errors.New("conflict")
	ErrValidation = errors.New("validation failed")
	ErrForbidden  = errors.New("forbidden")
	ErrInternal   = errors.New("internal error")
)

type Error struct {
	Kind   error
	Detail string
}

func (e *Error) Error() string { return e.Detail }

func (e *Error) Unwrap() error { return e.Kind }

func NotFound(detail string) error { return &Error{Kind: ErrNotFound, Detail: detail} }

func Conflict(detail string) error { return &Error{Kind: ErrConflict, Detail: detail} }

func Validation(detail string) error { return &Error{Kind: ErrValidation, Detail: detail} }

func Forbidden(detail string) error { return &Error{Kind: ErrForbidden, Detail: detail} }

func Internal(err error) error { return &Error{Kind: ErrInternal, Detail: err.Error()} }

// Recognized reports whether err is one of the explicit business kinds, as
// opposed to an unexpected store-level failure.
func Recognized(err error) bool {
	return errors.Is(err, ErrNotFound) ||
		errors.Is(err, ErrConflict) ||
		errors.Is(err, ErrValidation) ||
		errors.Is(err, ErrForbidden)
}

// Wrap passes recognized kinds through unchanged and wraps anything else as
// ErrInternal, keeping the original message for diagnostics.
func Wrap(err error) error {
	if err == nil || Recognized(err) {
		return err
	}
	return Internal(err)
}
