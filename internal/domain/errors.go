package domain

import "fmt"

// DomainError represents a domain-specific error
type DomainError struct {
	Code    string
	Message string
	Err     error
}

// Error implements the error interface
func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying error
func (e *DomainError) Unwrap() error {
	return e.Err
}

// NewDomainError creates a new DomainError
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
		Err:     nil,
	}
}

// NewDomainErrorWithCause creates a new DomainError with an underlying cause
func NewDomainErrorWithCause(code, message string, err error) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// Common domain error codes
const (
	ErrCodeValidation    = "VALIDATION_ERROR"
	ErrCodeNotFound      = "NOT_FOUND"
	ErrCodeAlreadyExists = "ALREADY_EXISTS"
	ErrCodeInternalError = "INTERNAL_ERROR"
	ErrCodeUnavailable   = "UNAVAILABLE"
)

// Validation errors
var (
	ErrInvalidMessageRole   = NewDomainError(ErrCodeValidation, "invalid message role")
	ErrInvalidPhase         = NewDomainError(ErrCodeValidation, "invalid curriculum phase")
	ErrEmptyMessage         = NewDomainError(ErrCodeValidation, "message cannot be empty")
	ErrMissingRequiredField = NewDomainError(ErrCodeValidation, "missing required field")
)

// Not found errors
var (
	ErrConversationNotFound   = NewDomainError(ErrCodeNotFound, "conversation not found")
	ErrKnowledgeItemNotFound  = NewDomainError(ErrCodeNotFound, "knowledge item not found")
	ErrMaterialNotFound       = NewDomainError(ErrCodeNotFound, "material not found")
	ErrCurriculumWeekNotFound = NewDomainError(ErrCodeNotFound, "curriculum week not found")
)

// Material-specific errors
var (
	ErrMaterialUploadNotFound = NewDomainError(ErrCodeNotFound, "pending material upload not found")
	ErrSHA256Mismatch         = NewDomainError(ErrCodeValidation, "SHA256 hash does not match uploaded file")
)
