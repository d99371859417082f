package apperrors

import "errors"

// Error kinds. Every failure returned by a service wraps exactly one of these.
var (
	ErrValidationFailed  = errors.New("validation failed")
	ErrUnauthorized      = errors.New("unauthorized")
	ErrPermissionDenied  = errors.New("permission denied")
	ErrResourceNotFound  = errors.New("resource not found")
	ErrInvalidTransition = errors.New("invalid status transition")
	ErrInvalidState      = errors.New("invalid state")
	ErrInternal          = errors.New("internal error")
)

// Authentication errors
var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrTokenExpired       = errors.New("token expired")
	ErrTokenInvalid       = errors.New("invalid token")
	ErrTokenRevoked       = errors.New("token revoked")
)

// Codes attached to CustomError for cases the HTTP layer reports differently
// from a plain validation failure.
const (
	CodeUsernameTaken    = "USERNAME_TAKEN"
	CodeDuplicateRequest = "DUPLICATE_REQUEST"
)

// CustomError represents application-specific errors with additional context
type CustomError struct {
	Err     error
	Message string
	Code    string
	Details map[string]interface{}
}

// Error implements error interface
func (e *CustomError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return "unknown error"
}

// Unwrap implements errors.Unwrap interface
func (e *CustomError) Unwrap() error {
	return e.Err
}

// NewCustomError creates a CustomError with underlying error
func NewCustomError(err error, message string) *CustomError {
	return &CustomError{
		Err:     err,
		Message: message,
	}
}

// WithDetails adds context details to the error
func (e *CustomError) WithDetails(details map[string]interface{}) *CustomError {
	e.Details = details
	return e
}

// WithCode adds an error code
func (e *CustomError) WithCode(code string) *CustomError {
	e.Code = code
	return e
}

// NewValidationError creates a validation failure with a message
func NewValidationError(message string) error {
	return NewCustomError(ErrValidationFailed, message)
}

// NewCodedValidationError creates a validation failure carrying a code
func NewCodedValidationError(code, message string) error {
	return NewCustomError(ErrValidationFailed, message).WithCode(code)
}

// NewUnauthorizedError creates an authentication failure with a message
func NewUnauthorizedError(message string) error {
	return NewCustomError(ErrUnauthorized, message)
}

// NewForbiddenError creates a new custom error for permission denied with a message
func NewForbiddenError(message string) error {
	return NewCustomError(ErrPermissionDenied, message)
}

// NewResourceNotFoundError creates a new custom error for resource not found with a message
func NewResourceNotFoundError(message string) error {
	return NewCustomError(ErrResourceNotFound, message)
}

// NewInvalidTransitionError reports a status change the lifecycle does not allow
func NewInvalidTransitionError(message string) error {
	return NewCustomError(ErrInvalidTransition, message)
}

// NewInvalidStateError reports an operation that is not valid in the entity's current state
func NewInvalidStateError(message string) error {
	return NewCustomError(ErrInvalidState, message)
}

// NewInternalError wraps a storage or infrastructure failure. The cause is kept
// in Details for logging and never rendered to clients.
func NewInternalError(message string, cause error) error {
	ce := NewCustomError(ErrInternal, message)
	if cause != nil {
		ce.Details = map[string]interface{}{"cause": cause.Error()}
	}
	return ce
}

// CodeOf returns the Code of the first CustomError in err's chain.
func CodeOf(err error) string {
	var ce *CustomError
	if errors.As(err, &ce) {
		return ce.Code
	}
	return ""
}

// Is returns whether target matches any of the errors in errList
func Is(err, target error, errList ...error) bool {
	if errors.Is(err, target) {
		return true
	}

	for _, e := range errList {
		if errors.Is(err, e) {
			return true
		}
	}

	return false
}
