package apperr

import "errors"

// ValidationError indicates a request with missing or invalid required fields.
type ValidationError struct {
	msg string
}

// Validation builds a ValidationError with the given message.
func Validation(msg string) error {
	return &ValidationError{msg: msg}
}

func (e *ValidationError) Error() string { return e.msg }

// IsValidation reports whether err is a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// NotFoundError indicates a referenced record does not exist.
type NotFoundError struct {
	msg string
}

// NotFound builds a NotFoundError with the given message.
func NotFound(msg string) error {
	return &NotFoundError{msg: msg}
}

func (e *NotFoundError) Error() string { return e.msg }

// IsNotFound reports whether err is a NotFoundError.
func IsNotFound(err error) bool {
	var nf *NotFoundError
	return errors.As(err, &nf)
}
