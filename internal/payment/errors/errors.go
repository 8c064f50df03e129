package errors

import (
	"errors"
)

var (
	ErrPaymentNotFound     = errors.New("payment not found")
	ErrMethodNotFound      = errors.New("payment method not found")
	ErrNoDefaultMethod     = errors.New("no default payment method found")
	ErrForbidden           = errors.New("unauthorized access")
	ErrInvalidPaymentState = errors.New("only completed payments can be refunded")
)

type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string {
	return e.Msg
}

func NewValidationError(msg string) error {
	return &ValidationError{Msg: msg}
}

func IsValidationError(err error) bool {
	var validationError *ValidationError
	ok := errors.As(err, &validationError)
	return ok
}
