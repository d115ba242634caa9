package domain

import "errors"

var (
	ErrNotFound     = errors.New("resource not found")
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")
	ErrValidation   = errors.New("validation failed")
	ErrConflict     = errors.New("resource conflict")
	ErrInternal     = errors.New("internal error")
)

// Error pairs a taxonomy sentinel with the message shown to API clients.
// errors.Is matches both the sentinel and the wrapped cause.
type Error struct {
	Kind error
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Msg + ": " + e.Err.Error()
	}
	return e.Msg
}

func (e *Error) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

func E(kind error, msg string) error { return &Error{Kind: kind, Msg: msg} }

func Wrap(kind error, msg string, err error) error { return &Error{Kind: kind, Msg: msg, Err: err} }

// Message returns the client-facing message carried by err, if any.
func Message(err error) (string, bool) {
	var e *Error
	if errors.As(err, &e) && e.Msg != "" {
		return e.Msg, true
	}
	return "", false
}
