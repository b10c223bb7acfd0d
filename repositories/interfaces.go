package repositories

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/psf-initiatives/admin-api/models"
)

var (
	// ErrNotFound is returned when a lookup matches no row
	ErrNotFound = errors.New("record not found")

	// ErrDuplicate is returned when an insert or update violates a unique constraint
	ErrDuplicate = errors.New("duplicate record")
)

// TransactionManager manages database transactions
type TransactionManager interface {
	// Begin starts a new transaction
	Begin(ctx context.Context) (Transaction, error)
}

// Transaction represents a database transaction
type Transaction interface {
	// Commit commits the transaction
	Commit() error

	// Rollback rolls back the transaction
	Rollback() error

	// Context returns a context carrying the transaction, so repository
	// calls made with it run inside the transaction
	Context() context.Context
}

// AdminRepository is the credential store
type AdminRepository interface {
	Create(ctx context.Context, admin *models.Admin) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Admin, error)

	// GetByEmail matches the email exactly as stored
	GetByEmail(ctx context.Context, email string) (*models.Admin, error)
	List(ctx context.Context) ([]*models.Admin, error)
	ExistsByRole(ctx context.Context, role models.Role) (bool, error)
	UpdateLastLogin(ctx context.Context, id uuid.UUID) error
	SetActive(ctx context.Context, id uuid.UUID, active bool) error
	Delete(ctx context.Context, id uuid.UUID) error

	// LockBootstrap serializes superadmin bootstrap for the rest of the transaction
	LockBootstrap(ctx context.Context) error
}

// DonationRepository handles donation data operations
type DonationRepository interface {
	Create(ctx context.Context, donation *models.Donation) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Donation, error)

	// List returns donations newest first
	List(ctx context.Context, filter models.DonationFilter) ([]*models.Donation, error)
	Count(ctx context.Context, title string) (int, error)
	ListByEmail(ctx context.Context, email string) ([]*models.Donation, error)
	Update(ctx context.Context, donation *models.Donation) error
	Delete(ctx context.Context, id uuid.UUID) error

	// SumCompleted totals completed donations, optionally for one title
	SumCompleted(ctx context.Context, title string) (float64, error)
	CountByStatus(ctx context.Context, status models.DonationStatus) (int, error)
}

// SubscriberRepository handles mailing list data operations
type SubscriberRepository interface {
	Create(ctx context.Context, subscriber *models.Subscriber) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Subscriber, error)
	GetByEmail(ctx context.Context, email string) (*models.Subscriber, error)
	List(ctx context.Context, activeOnly bool, limit, offset int) ([]*models.Subscriber, error)
	Update(ctx context.Context, subscriber *models.Subscriber) error
	Delete(ctx context.Context, id uuid.UUID) error
	CountAll(ctx context.Context) (int, error)
	CountActive(ctx context.Context) (int, error)

	// ActiveEmails lists the addresses newsletters are delivered to
	ActiveEmails(ctx context.Context) ([]string, error)
}

// VolunteerRepository handles volunteer data operations
type VolunteerRepository interface {
	Create(ctx context.Context, volunteer *models.Volunteer) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Volunteer, error)
	List(ctx context.Context, limit, offset int) ([]*models.Volunteer, error)
	Delete(ctx context.Context, id uuid.UUID) error
	CountAll(ctx context.Context) (int, error)
	CountActive(ctx context.Context) (int, error)
}

// DonorRepository handles donor data operations
type DonorRepository interface {
	Create(ctx context.Context, donor *models.Donor) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Donor, error)
	List(ctx context.Context, limit, offset int) ([]*models.Donor, error)
	Delete(ctx context.Context, id uuid.UUID) error
	CountAll(ctx context.Context) (int, error)
}

// NewsletterRepository handles newsletter data operations
type NewsletterRepository interface {
	Create(ctx context.Context, newsletter *models.Newsletter) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Newsletter, error)
	List(ctx context.Context, limit, offset int) ([]*models.Newsletter, error)
	Update(ctx context.Context, newsletter *models.Newsletter) error
	Delete(ctx context.Context, id uuid.UUID) error
	CountAll(ctx context.Context) (int, error)
	// ClaimForSend moves a draft or scheduled newsletter to sending.
	// It reports false when the row is already sending or sent.
	ClaimForSend(ctx context.Context, id uuid.UUID) (bool, error)
	// ReleaseSend restores the status of a newsletter still marked sending
	ReleaseSend(ctx context.Context, id uuid.UUID, status models.NewsletterStatus) error
}

// EmailTemplateRepository handles email template data operations
type EmailTemplateRepository interface {
	Create(ctx context.Context, template *models.EmailTemplate) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.EmailTemplate, error)
	List(ctx context.Context) ([]*models.EmailTemplate, error)
	Update(ctx context.Context, template *models.EmailTemplate) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// Repositories aggregates all repository interfaces
type Repositories struct {
	Admins         AdminRepository
	Donations      DonationRepository
	Subscribers    SubscriberRepository
	Volunteers     VolunteerRepository
	Donors         DonorRepository
	Newsletters    NewsletterRepository
	EmailTemplates EmailTemplateRepository
}
