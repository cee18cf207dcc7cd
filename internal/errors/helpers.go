package errors

import (
	"errors"
)

// As is a wrapper around errors.As for our Error type
func As(err error, target **Error) bool {
	return errors.As(err, target)
}

// Is reports whether err matches target
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// GetCode extracts the error code from an error. Plain errors map to
// CodeInternal; nil maps to CodeOK.
func GetCode(err error) Code {
	if err == nil {
		return CodeOK
	}

	var structured *Error
	if errors.As(err, &structured) {
		return structured.Code
	}

	return CodeInternal
}

// GetMeta extracts metadata from an error, or nil
func GetMeta(err error) map[string]any {
	var structured *Error
	if errors.As(err, &structured) {
		return structured.Meta
	}
	return nil
}

// IsNotFound checks if an error is a not found error
func IsNotFound(err error) bool {
	return GetCode(err) == CodeNotFound
}

// IsInvalidArgument checks if an error is an invalid argument error
func IsInvalidArgument(err error) bool {
	return GetCode(err) == CodeInvalidArgument
}

// IsAlreadyExists checks if an error is an already exists error
func IsAlreadyExists(err error) bool {
	return GetCode(err) == CodeAlreadyExists
}

// IsFailedPrecondition checks if an error is a failed precondition error
func IsFailedPrecondition(err error) bool {
	return GetCode(err) == CodeFailedPrecondition
}

// IsOutOfRange checks if an error is an out of range error
func IsOutOfRange(err error) bool {
	return GetCode(err) == CodeOutOfRange
}

// IsInternal checks if an error is an internal error
func IsInternal(err error) bool {
	return GetCode(err) == CodeInternal
}

// IsUnavailable checks if an error is an unavailable error
func IsUnavailable(err error) bool {
	return GetCode(err) == CodeUnavailable
}

// IsDataLoss checks if an error is a data loss error
func IsDataLoss(err error) bool {
	return GetCode(err) == CodeDataLoss
}

// IsRetryable reports whether the error represents a transient failure.
// The loader uses this to decide between retrying and failing hard.
func IsRetryable(err error) bool {
	return GetCode(err).Retryable()
}
