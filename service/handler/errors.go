package handler

import (
	"errors"
	"fmt"
)

// BadRequestError marks malformed handler input, as opposed to a domain
// collaborator rejecting a well-formed operation. Both end up as FAILED on
// the action record but the classes stay distinguishable in logs.
type BadRequestError struct {
	Message string
}

func (e *BadRequestError) Error() string {
	return e.Message
}

// NewBadRequest creates a BadRequestError with a formatted message.
func NewBadRequest(format string, args ...interface{}) error {
	return &BadRequestError{Message: fmt.Sprintf(format, args...)}
}

// IsBadRequest reports whether err is (or wraps) a BadRequestError.
func IsBadRequest(err error) bool {
	var bad *BadRequestError
	return errors.As(err, &bad)
}

// ErrNotRegistered is returned by the registry when no handler exists for a
// requested action type.
var ErrNotRegistered = errors.New("handler: not registered")
