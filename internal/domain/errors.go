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
	ErrCodeValidation         = "VALIDATION_ERROR"
	ErrCodeNotFound           = "NOT_FOUND"
	ErrCodeInternalError      = "INTERNAL_ERROR"
	ErrCodeInvalidOperation   = "INVALID_OPERATION"
	ErrCodeDocumentUnreadable = "DOCUMENT_UNREADABLE"
	ErrCodeEmbeddingDown      = "EMBEDDING_UNAVAILABLE"
	ErrCodeStoreDown          = "STORE_UNAVAILABLE"
	ErrCodeExternalService    = "EXTERNAL_SERVICE_ERROR"
)

// Pipeline failure taxonomy. Extraction and embedding failures are
// contained at the smallest possible scope (one document or one chunk);
// store and completion failures propagate to the caller.
var (
	ErrDocumentUnreadable   = NewDomainError(ErrCodeDocumentUnreadable, "source document cannot be parsed")
	ErrEmbeddingUnavailable = NewDomainError(ErrCodeEmbeddingDown, "embedding backend is unavailable or misconfigured")
	ErrStoreUnavailable     = NewDomainError(ErrCodeStoreDown, "vector store cannot be opened")
	ErrExternalService      = NewDomainError(ErrCodeExternalService, "completion API call failed")
)

// Operation errors
var (
	ErrIngestionRunning = NewDomainError(ErrCodeInvalidOperation, "an ingestion run is already in progress")
	ErrNoQuestions      = NewDomainError(ErrCodeNotFound, "no practice questions available")
)
