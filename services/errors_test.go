package services

import (
	"errors"
	"fmt"
	"testing"

	"github.com/psf-initiatives/admin-api/repositories"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDomainError(t *testing.T) {
	baseErr := errors.New("base error")
	domainErr := NewDomainError(ErrorTypeNotFound, "resource not found", baseErr)

	assert.Equal(t, ErrorTypeNotFound, domainErr.Type)
	assert.Equal(t, "resource not found", domainErr.Message)
	assert.Equal(t, baseErr, domainErr.Err)
	assert.NotNil(t, domainErr.Details)
}

func TestDomainError_Error(t *testing.T) {
	tests := []struct {
		name    string
		err     *DomainError
		wantMsg string
	}{
		{
			name: "error with wrapped error",
			err: &DomainError{
				Type:    ErrorTypeNotFound,
				Message: "Donation not found",
				Err:     errors.New("db error"),
			},
			wantMsg: "not_found: Donation not found (db error)",
		},
		{
			name: "error without wrapped error",
			err: &DomainError{
				Type:    ErrorTypeValidation,
				Message: "Invalid input",
			},
			wantMsg: "validation: Invalid input",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.wantMsg, tt.err.Error())
		})
	}
}

func TestDomainError_Is(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		target error
		want   bool
	}{
		{"same sentinel", ErrDonationNotFound.Wrap(errors.New("no rows")), ErrDonationNotFound, true},
		{"same type different message", ErrDonorNotFound, ErrDonationNotFound, false},
		{"wrapped in fmt", fmt.Errorf("ctx: %w", ErrTokenRevoked), ErrTokenRevoked, true},
		{"not a domain error", ErrInternal, errors.New("regular error"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, errors.Is(tt.err, tt.target))
		})
	}
}

func TestDomainError_WithDetailDoesNotMutateSentinel(t *testing.T) {
	err := ErrInvalidInput.WithDetail("field", "email")

	assert.Equal(t, "email", err.Details["field"])
	assert.NotContains(t, ErrInvalidInput.Details, "field")
}

func TestErrorTypeHelpers(t *testing.T) {
	assert.True(t, IsNotFoundError(fmt.Errorf("wrapped: %w", ErrAdminNotFound)))
	assert.True(t, IsValidationError(ErrSelfDeletion))
	assert.True(t, IsUnauthorizedError(ErrAccountDeactivated))
	assert.True(t, IsForbiddenError(ErrSuperadminExists))
	assert.True(t, IsConflictError(ErrEmailRegistered))
	assert.False(t, IsNotFoundError(errors.New("regular")))
	assert.False(t, IsNotFoundError(nil))
	assert.Equal(t, ErrorType(""), GetErrorType(errors.New("regular")))
	assert.Nil(t, GetErrorDetails(errors.New("regular")))
}

func TestFromRepository(t *testing.T) {
	t.Run("not found", func(t *testing.T) {
		err := FromRepository(fmt.Errorf("get: %w", repositories.ErrNotFound), ErrDonorNotFound, ErrEmailRegistered)
		assert.ErrorIs(t, err, ErrDonorNotFound)
		assert.ErrorIs(t, err, repositories.ErrNotFound)
	})

	t.Run("duplicate", func(t *testing.T) {
		err := FromRepository(fmt.Errorf("create: %w", repositories.ErrDuplicate), ErrDonorNotFound, ErrEmailRegistered)
		assert.ErrorIs(t, err, ErrEmailRegistered)
	})

	t.Run("domain errors pass through", func(t *testing.T) {
		err := FromRepository(ErrNewsletterSent, ErrNewsletterNotFound, nil)
		assert.Equal(t, ErrNewsletterSent, err)
	})

	t.Run("other errors become internal", func(t *testing.T) {
		err := FromRepository(errors.New("connection refused"), ErrDonorNotFound, nil)
		require.Error(t, err)
		assert.Equal(t, ErrorTypeInternal, GetErrorType(err))
		assert.Contains(t, err.Error(), "connection refused")
	})

	t.Run("nil", func(t *testing.T) {
		assert.NoError(t, FromRepository(nil, ErrDonorNotFound, nil))
	})
}
