package apperrors

import "errors"

// Error categories. Every error a service returns either wraps one of these
// or is treated as a server fault.
var (
	ErrValidationFailed   = errors.New("validation failed")
	ErrConflict           = errors.New("conflict")
	ErrResourceNotFound   = errors.New("resource not found")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrPermissionDenied   = errors.New("permission denied")
)

// Token errors
var (
	ErrTokenExpired = errors.New("token expired")
	ErrTokenInvalid = errors.New("invalid token")
	ErrTokenMissing = errors.New("token missing")
)

// Student errors
var (
	ErrAllFieldsRequired   = NewValidationError("All fields are required")
	ErrCredentialsRequired = NewValidationError("Email and password are required")
	ErrInvalidEmail        = NewValidationError("Invalid email format")
	ErrUsernameEmpty       = NewValidationError("Username cannot be empty")
	ErrStudentNotFound     = NewNotFoundError("Student not found")
	ErrUserNotFound        = NewNotFoundError("User not found")
	ErrInvalidStudentID    = NewValidationError("Invalid student ID format")
	ErrStudentExists       = NewConflictError("Email or username already exists")
	ErrUsernameTaken       = NewConflictError("Username already taken")
	ErrEmailTaken          = NewConflictError("Email already taken")
	ErrDataUnchanged       = NewNotFoundError("Data unchanged")
	ErrWrongPassword       = NewAuthError("Invalid credentials")
	ErrWrongOldPassword    = NewAuthError("Invalid old password")
	ErrPasswordTooShort    = NewValidationError("Password must be at least 6 characters long")
	ErrPasswordsMismatch   = NewValidationError("New passwords do not match")
	ErrPasswordNotModified = errors.New("password update modified no document")
)

// Content errors
var (
	ErrSubjectRequired   = NewValidationError("Subject is required")
	ErrInvalidModelTest  = NewValidationError("Invalid model test ID format")
	ErrModelTestNotFound = NewNotFoundError("ModelTest not found")
)

// NewValidationError creates a new custom error for malformed or missing input
func NewValidationError(message string) *CustomError {
	return &CustomError{
		Err:     ErrValidationFailed,
		Message: message,
	}
}

// NewNotFoundError creates a new custom error for resource not found with a message
func NewNotFoundError(message string) *CustomError {
	return &CustomError{
		Err:     ErrResourceNotFound,
		Message: message,
	}
}

// NewConflictError creates a new custom error for conflict situations with a message
func NewConflictError(message string) *CustomError {
	return &CustomError{
		Err:     ErrConflict,
		Message: message,
	}
}

// NewAuthError creates a new custom error for credential mismatches
func NewAuthError(message string) *CustomError {
	return &CustomError{
		Err:     ErrInvalidCredentials,
		Message: message,
	}
}

// NewForbiddenError creates a new custom error for permission denied with a message
func NewForbiddenError(message string) *CustomError {
	return &CustomError{
		Err:     ErrPermissionDenied,
		Message: message,
	}
}

// CustomError represents application-specific errors with additional context
type CustomError struct {
	Err     error
	Message string
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

// WithDetails returns a copy of the error carrying context details, so shared
// sentinel values are never mutated.
func (e *CustomError) WithDetails(details map[string]interface{}) *CustomError {
	clone := *e
	clone.Details = details
	return &clone
}

// UserMessage returns the message of the outermost CustomError in the chain,
// or an empty string when err carries none.
func UserMessage(err error) string {
	var ce *CustomError
	if errors.As(err, &ce) {
		return ce.Error()
	}
	return ""
}
