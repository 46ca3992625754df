package store

import (
	"errors"
	"fmt"

	"github.com/aws/smithy-go"
)

// ValidationException reports malformed client input: a missing required
// field or an unusable parameter. It carries no partial effect.
type ValidationException struct {
	Message string
}

func (e *ValidationException) Error() string {
	return e.Message
}

func validationErr(format string, args ...any) error {
	return &ValidationException{Message: fmt.Sprintf(format, args...)}
}

// StorageError wraps a failure of the underlying storage engine. It is fatal
// for the operation and never swallowed.
type StorageError struct {
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage: %v", e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}

// classify separates the engine's typed failures (modeled SDK exceptions and
// client input errors) from raw storage faults coming out of a transaction.
func classify(err error) error {
	if err == nil {
		return nil
	}
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		return err
	}
	var vErr *ValidationException
	if errors.As(err, &vErr) {
		return err
	}
	return &StorageError{Err: err}
}

func ptrStr(s string) *string {
	return &s
}
