package services

import (
	"errors"
	"fmt"

	"github.com/psf-initiatives/admin-api/repositories"
)

// ErrorType represents the type/category of error
type ErrorType string

const (
	ErrorTypeNotFound     ErrorType = "not_found"
	ErrorTypeValidation   ErrorType = "validation"
	ErrorTypeUnauthorized ErrorType = "unauthorized"
	ErrorTypeForbidden    ErrorType = "forbidden"
	ErrorTypeConflict     ErrorType = "conflict"
	ErrorTypeInternal     ErrorType = "internal"
	ErrorTypeExternal     ErrorType = "external"
)

// DomainError represents a structured error with additional context.
// Message is safe to show to API clients.
type DomainError struct {
	Type    ErrorType
	Message string
	Err     error
	Details map[string]interface{}
}

// Error implements the error interface
func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (%v)", e.Type, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

// Unwrap implements errors.Unwrap
func (e *DomainError) Unwrap() error {
	return e.Err
}

// Is matches another DomainError of the same type and message
func (e *DomainError) Is(target error) bool {
	t, ok := target.(*DomainError)
	if !ok {
		return false
	}
	return e.Type == t.Type && e.Message == t.Message
}

// WithDetail returns a copy of the error carrying an extra detail
func (e *DomainError) WithDetail(key string, value interface{}) *DomainError {
	details := make(map[string]interface{}, len(e.Details)+1)
	for k, v := range e.Details {
		details[k] = v
	}
	details[key] = value
	return &DomainError{Type: e.Type, Message: e.Message, Err: e.Err, Details: details}
}

// Wrap returns a copy of the error that wraps cause
func (e *DomainError) Wrap(cause error) *DomainError {
	return &DomainError{Type: e.Type, Message: e.Message, Err: cause, Details: e.Details}
}

// NewDomainError creates a new domain error
func NewDomainError(errType ErrorType, message string, err error) *DomainError {
	return &DomainError{
		Type:    errType,
		Message: message,
		Err:     err,
		Details: make(map[string]interface{}),
	}
}

var (
	// Not Found Errors
	ErrAdminNotFound        = NewDomainError(ErrorTypeNotFound, "Admin not found", nil)
	ErrDonationNotFound     = NewDomainError(ErrorTypeNotFound, "Donation not found", nil)
	ErrSubscriberNotFound   = NewDomainError(ErrorTypeNotFound, "Subscriber not found", nil)
	ErrSubscriptionNotFound = NewDomainError(ErrorTypeNotFound, "Email not found in our subscription list", nil)
	ErrVolunteerNotFound    = NewDomainError(ErrorTypeNotFound, "Volunteer not found", nil)
	ErrDonorNotFound        = NewDomainError(ErrorTypeNotFound, "Donor not found", nil)
	ErrNewsletterNotFound   = NewDomainError(ErrorTypeNotFound, "Newsletter not found", nil)
	ErrTemplateNotFound     = NewDomainError(ErrorTypeNotFound, "Email template not found", nil)

	// Validation Errors
	ErrInvalidInput        = NewDomainError(ErrorTypeValidation, "Invalid input", nil)
	ErrInvalidRole         = NewDomainError(ErrorTypeValidation, "Invalid role. Must be 'admin' or 'superadmin'", nil)
	ErrInvalidAmount       = NewDomainError(ErrorTypeValidation, "Donation amount must be greater than 0", nil)
	ErrInvalidFileType     = NewDomainError(ErrorTypeValidation, "Invalid file type. Only JPEG, PNG, and PDF files are allowed.", nil)
	ErrFileTooLarge        = NewDomainError(ErrorTypeValidation, "File size exceeds 5MB limit", nil)
	ErrAlreadyUnsubscribed = NewDomainError(ErrorTypeValidation, "Email is already unsubscribed", nil)
	ErrNewsletterSent      = NewDomainError(ErrorTypeValidation, "Newsletter has already been sent", nil)
	ErrNewsletterSending   = NewDomainError(ErrorTypeValidation, "Newsletter is already being sent", nil)
	ErrSelfDeactivation    = NewDomainError(ErrorTypeValidation, "Cannot deactivate your own account", nil)
	ErrSelfDeletion        = NewDomainError(ErrorTypeValidation, "Cannot delete your own account", nil)
	ErrInvalidDonationID   = NewDomainError(ErrorTypeValidation, "Invalid donation ID format", nil)
	ErrInvalidPhone        = NewDomainError(ErrorTypeValidation, "Invalid phone number", nil)
	ErrInvalidStatus       = NewDomainError(ErrorTypeValidation, "Invalid donation status. Must be 'pending', 'completed' or 'failed'", nil)

	// Authentication Errors
	ErrAuthenticationRequired = NewDomainError(ErrorTypeUnauthorized, "Authentication required", nil)
	ErrInvalidCredentials     = NewDomainError(ErrorTypeUnauthorized, "Incorrect email or password", nil)
	ErrCouldNotValidate       = NewDomainError(ErrorTypeUnauthorized, "Could not validate credentials", nil)
	ErrInvalidToken           = NewDomainError(ErrorTypeUnauthorized, "Invalid token", nil)
	ErrTokenRevoked           = NewDomainError(ErrorTypeUnauthorized, "Token has been revoked", nil)
	ErrUserNotFound           = NewDomainError(ErrorTypeUnauthorized, "User not found", nil)
	ErrAccountDeactivated     = NewDomainError(ErrorTypeUnauthorized, "Account has been deactivated", nil)

	// Permission Errors
	ErrSuperadminRequired = NewDomainError(ErrorTypeForbidden, "Superadmin access required", nil)
	ErrAdminRequired      = NewDomainError(ErrorTypeForbidden, "Admin access required", nil)
	ErrSuperadminExists   = NewDomainError(ErrorTypeForbidden, "Superadmin already exists. Use /register endpoint instead.", nil)

	// Conflict Errors
	ErrEmailRegistered   = NewDomainError(ErrorTypeConflict, "Email already registered", nil)
	ErrAlreadySubscribed = NewDomainError(ErrorTypeConflict, "This email is already subscribed", nil)
	ErrTemplateNameTaken = NewDomainError(ErrorTypeConflict, "Template name already exists", nil)

	// Internal Errors
	ErrInternal             = NewDomainError(ErrorTypeInternal, "Internal server error", nil)
	ErrStorageNotConfigured = NewDomainError(ErrorTypeInternal, "Cloudinary configuration is incomplete. Please check your environment variables.", nil)
)

// Error type checking helper functions

// IsNotFoundError checks if an error is a not found error
func IsNotFoundError(err error) bool {
	return GetErrorType(err) == ErrorTypeNotFound
}

// IsValidationError checks if an error is a validation error
func IsValidationError(err error) bool {
	return GetErrorType(err) == ErrorTypeValidation
}

// IsUnauthorizedError checks if an error is an unauthorized error
func IsUnauthorizedError(err error) bool {
	return GetErrorType(err) == ErrorTypeUnauthorized
}

// IsForbiddenError checks if an error is a forbidden error
func IsForbiddenError(err error) bool {
	return GetErrorType(err) == ErrorTypeForbidden
}

// IsConflictError checks if an error is a conflict error
func IsConflictError(err error) bool {
	return GetErrorType(err) == ErrorTypeConflict
}

// IsInternalError checks if an error is an internal error
func IsInternalError(err error) bool {
	return GetErrorType(err) == ErrorTypeInternal
}

// GetErrorType returns the ErrorType of a domain error, or empty string if not a domain error
func GetErrorType(err error) ErrorType {
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr.Type
	}
	return ""
}

// GetErrorDetails returns the details map of a domain error, or nil if not a domain error
func GetErrorDetails(err error) map[string]interface{} {
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr.Details
	}
	return nil
}

// WrapInternal wraps an error as an internal error. The message is shown to clients.
func WrapInternal(message string, err error) error {
	return NewDomainError(ErrorTypeInternal, message, err)
}

// WrapExternal wraps a failure of an outside service
func WrapExternal(message string, err error) error {
	return NewDomainError(ErrorTypeExternal, message, err)
}

// FromRepository translates repository sentinels. Domain errors pass through
// untouched, and anything else becomes an internal error.
func FromRepository(err error, notFound, duplicate *DomainError) error {
	if err == nil {
		return nil
	}
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return err
	}
	if notFound != nil && errors.Is(err, repositories.ErrNotFound) {
		return notFound.Wrap(err)
	}
	if duplicate != nil && errors.Is(err, repositories.ErrDuplicate) {
		return duplicate.Wrap(err)
	}
	return WrapInternal(fmt.Sprintf("Database error: %v", err), err)
}
