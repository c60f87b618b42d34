// Package svcerr holds the error types shared by the console's screen services.
package svcerr

import "errors"

// ServiceError represents a failed service operation
type ServiceError struct {
	Op  string
	Err error
}

func (e *ServiceError) Error() string {
	return e.Op + ": " + e.Err.Error()
}

func (e *ServiceError) Unwrap() error {
	return e.Err
}

// ValidationError represents invalid admin input
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// IsValidation reports whether err carries a ValidationError.
func IsValidation(err error) bool {
	var v *ValidationError
	return errors.As(err, &v)
}

// Wrap returns nil for a nil err, otherwise a ServiceError for op.
func Wrap(op string, err error) error {
	if err == nil {
		return nil
	}
	return &ServiceError{Op: op, Err: err}
}
