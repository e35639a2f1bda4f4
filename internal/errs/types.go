package errs

import "errors"

type ErrorMessage struct {
	Message string
	Cause   error
}

func (e *ErrorMessage) Error() string {
	if e.Cause == nil {
		return e.Message
	}
	return e.Message + ": " + e.Cause.Error()
}

func (e *ErrorMessage) Unwrap() error { return e.Cause }

// InvalidPeriodError is returned for a malformed period before any I/O.
type InvalidPeriodError struct {
	ErrorMessage
}

// NetworkError covers transport failures, timeouts and service-side rejections.
type NetworkError struct {
	ErrorMessage
	Status int
}

// UnauthorizedError means the bearer credential is absent or was rejected.
type UnauthorizedError struct {
	ErrorMessage
}

// MalformedError means the response did not have the expected shape.
type MalformedError struct {
	ErrorMessage
}

type ValidationError struct {
	ErrorMessage
}

func NewInvalidPeriodError(message string) *InvalidPeriodError {
	return &InvalidPeriodError{
		ErrorMessage: ErrorMessage{Message: message},
	}
}

func NewNetworkError(message string, cause error) *NetworkError {
	return &NetworkError{
		ErrorMessage: ErrorMessage{Message: message, Cause: cause},
	}
}

func NewStatusError(status int, message string) *NetworkError {
	return &NetworkError{
		ErrorMessage: ErrorMessage{Message: message},
		Status:       status,
	}
}

func NewUnauthorizedError(message string, cause error) *UnauthorizedError {
	return &UnauthorizedError{
		ErrorMessage: ErrorMessage{Message: message, Cause: cause},
	}
}

func NewMalformedError(message string, cause error) *MalformedError {
	return &MalformedError{
		ErrorMessage: ErrorMessage{Message: message, Cause: cause},
	}
}

func NewValidationError(message string) *ValidationError {
	return &ValidationError{
		ErrorMessage: ErrorMessage{Message: message},
	}
}

type Kind string

const (
	KindInvalidPeriod Kind = "invalid_period"
	KindNetwork       Kind = "network"
	KindUnauthorized  Kind = "unauthorized"
	KindMalformed     Kind = "malformed"
	KindValidation    Kind = "validation"
	KindUnknown       Kind = "unknown"
)

// KindOf classifies err, looking through wrapped chains.
func KindOf(err error) Kind {
	if err == nil {
		return ""
	}
	var (
		invalidPeriod *InvalidPeriodError
		network       *NetworkError
		unauthorized  *UnauthorizedError
		malformed     *MalformedError
		validation    *ValidationError
	)
	switch {
	case errors.As(err, &invalidPeriod):
		return KindInvalidPeriod
	case errors.As(err, &unauthorized):
		return KindUnauthorized
	case errors.As(err, &malformed):
		return KindMalformed
	case errors.As(err, &network):
		return KindNetwork
	case errors.As(err, &validation):
		return KindValidation
	default:
		return KindUnknown
	}
}

// Retryable reports whether re-running the same request may succeed.
// Malformed responses count as network-equivalent for the UI.
func Retryable(err error) bool {
	switch KindOf(err) {
	case KindNetwork, KindMalformed, KindUnknown:
		return true
	default:
		return false
	}
}
