package apperror

import "errors"

// Kind describes a stable error category that can be mapped to HTTP status codes.
type Kind string

const (
	KindNotFound         Kind = "not_found"
	KindValidation       Kind = "validation"
	KindInvalidParameter Kind = "invalid_parameter"
	KindConflict         Kind = "conflict"
)

// Error is a typed error with a stable Kind and a human-readable message.
// Msg should be safe to return to clients for all kinds.
// Field carries the offending parameter name for validation errors.
type Error struct {
	Kind  Kind
	Msg   string
	Field string
	Err   error
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	if e.Msg != "" {
		return e.Msg
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return string(e.Kind)
}

func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

func New(kind Kind, msg string, err error) error {
	return &Error{Kind: kind, Msg: msg, Err: err}
}

func NotFound(msg string, err error) error { return New(KindNotFound, msg, err) }
func Conflict(msg string, err error) error { return New(KindConflict, msg, err) }

// Validation marks a missing or malformed request field; field names the parameter.
func Validation(msg, field string) error {
	return &Error{Kind: KindValidation, Msg: msg, Field: field}
}

// InvalidParameter marks a structurally invalid value (zero divisor, negative magnitude).
func InvalidParameter(msg, field string) error {
	return &Error{Kind: KindInvalidParameter, Msg: msg, Field: field}
}

func Is(err error, kind Kind) bool {
	var e *Error
	if !errors.As(err, &e) {
		return false
	}
	return e.Kind == kind
}

// FieldOf returns the parameter name attached to a typed error, if any.
func FieldOf(err error) string {
	var e *Error
	if !errors.As(err, &e) {
		return ""
	}
	return e.Field
}
