package services

import (
	"errors"
	"fmt"
)

// Error kinds. Handlers map them with errors.Is; anything else is a 500.
var (
	ErrInvalidRequest = errors.New("invalid request")
	ErrNotFound       = errors.New("not found")
)

// Error carries a client-facing message on top of one of the kinds above.
type Error struct {
	kind error
	msg  string
}

func (e *Error) Error() string { return e.msg }
func (e *Error) Unwrap() error { return e.kind }

func InvalidRequest(msg string) error { return &Error{kind: ErrInvalidRequest, msg: msg} }
func NotFound(msg string) error       { return &Error{kind: ErrNotFound, msg: msg} }

func invalidf(format string, args ...any) error {
	return InvalidRequest(fmt.Sprintf(format, args...))
}

func notFoundf(format string, args ...any) error {
	return NotFound(fmt.Sprintf(format, args...))
}
