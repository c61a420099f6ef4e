package resource

import (
	"errors"
	"fmt"
)

// ErrorType represents the category of reconciliation error
type ErrorType string

const (
	// ErrorTypeValidation covers unresolvable image types, unknown VM
	// disks and unresolved cluster names; always raised before any
	// mutating call
	ErrorTypeValidation ErrorType = "validation"
	// ErrorTypeAmbiguity covers duplicate-name situations where acting
	// would risk collateral damage; always raised before any mutating call
	ErrorTypeAmbiguity ErrorType = "ambiguity"
	// ErrorTypeAPI covers failed calls to Prism Central
	ErrorTypeAPI ErrorType = "api"
)

// ReconciliationError represents an error that occurred during reconciliation
type ReconciliationError struct {
	Type    ErrorType `json:"type"`
	Image   string    `json:"image"`
	Message string    `json:"message"`
	Cause   error     `json:"cause,omitempty"`
}

// Error implements the error interface
func (r *ReconciliationError) Error() string {
	return fmt.Sprintf("[%s] image/%s: %s", r.Type, r.Image, r.Message)
}

// Unwrap returns the underlying cause error
func (r *ReconciliationError) Unwrap() error {
	return r.Cause
}

// NewValidationError creates a validation-related error
func NewValidationError(image, message string, cause error) *ReconciliationError {
	return &ReconciliationError{Type: ErrorTypeValidation, Image: image, Message: message, Cause: cause}
}

// NewAmbiguityError creates a duplicate-name error
func NewAmbiguityError(image, message string) *ReconciliationError {
	return &ReconciliationError{Type: ErrorTypeAmbiguity, Image: image, Message: message}
}

// NewAPIError creates a remote-call error
func NewAPIError(image, message string, cause error) *ReconciliationError {
	return &ReconciliationError{Type: ErrorTypeAPI, Image: image, Message: message, Cause: cause}
}

// AsReconciliationError attempts to cast an error to ReconciliationError
func AsReconciliationError(err error) (*ReconciliationError, bool) {
	var recErr *ReconciliationError
	if errors.As(err, &recErr) {
		return recErr, true
	}
	return nil, false
}
