package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/psf-initiatives/admin-api/models"
	"github.com/psf-initiatives/admin-api/repositories"
	"github.com/stretchr/testify/mock"
)

// NewRepositories bundles fresh mocks
func NewRepositories() (*repositories.Repositories, *Set) {
	set := &Set{
		Admins:         new(AdminRepository),
		Donations:      new(DonationRepository),
		Subscribers:    new(SubscriberRepository),
		Volunteers:     new(VolunteerRepository),
		Donors:         new(DonorRepository),
		Newsletters:    new(NewsletterRepository),
		EmailTemplates: new(EmailTemplateRepository),
	}
	return &repositories.Repositories{
		Admins:         set.Admins,
		Donations:      set.Donations,
		Subscribers:    set.Subscribers,
		Volunteers:     set.Volunteers,
		Donors:         set.Donors,
		Newsletters:    set.Newsletters,
		EmailTemplates: set.EmailTemplates,
	}, set
}

// Set exposes the concrete mocks behind a Repositories value
type Set struct {
	Admins         *AdminRepository
	Donations      *DonationRepository
	Subscribers    *SubscriberRepository
	Volunteers     *VolunteerRepository
	Donors         *DonorRepository
	Newsletters    *NewsletterRepository
	EmailTemplates *EmailTemplateRepository
}

// AdminRepository is a mock implementation of repositories.AdminRepository
type AdminRepository struct {
	mock.Mock
}

func (m *AdminRepository) Create(ctx context.Context, admin *models.Admin) error {
	return m.Called(ctx, admin).Error(0)
}

func (m *AdminRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Admin, error) {
	args := m.Called(ctx, id)
	if a := args.Get(0); a != nil {
		return a.(*models.Admin), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *AdminRepository) GetByEmail(ctx context.Context, email string) (*models.Admin, error) {
	args := m.Called(ctx, email)
	if a := args.Get(0); a != nil {
		return a.(*models.Admin), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *AdminRepository) List(ctx context.Context) ([]*models.Admin, error) {
	args := m.Called(ctx)
	if a := args.Get(0); a != nil {
		return a.([]*models.Admin), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *AdminRepository) ExistsByRole(ctx context.Context, role models.Role) (bool, error) {
	args := m.Called(ctx, role)
	return args.Bool(0), args.Error(1)
}

func (m *AdminRepository) UpdateLastLogin(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

func (m *AdminRepository) SetActive(ctx context.Context, id uuid.UUID, active bool) error {
	return m.Called(ctx, id, active).Error(0)
}

func (m *AdminRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

func (m *AdminRepository) LockBootstrap(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

// DonationRepository is a mock implementation of repositories.DonationRepository
type DonationRepository struct {
	mock.Mock
}

func (m *DonationRepository) Create(ctx context.Context, d *models.Donation) error {
	return m.Called(ctx, d).Error(0)
}

func (m *DonationRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Donation, error) {
	args := m.Called(ctx, id)
	if d := args.Get(0); d != nil {
		return d.(*models.Donation), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *DonationRepository) List(ctx context.Context, filter models.DonationFilter) ([]*models.Donation, error) {
	args := m.Called(ctx, filter)
	if d := args.Get(0); d != nil {
		return d.([]*models.Donation), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *DonationRepository) Count(ctx context.Context, title string) (int, error) {
	args := m.Called(ctx, title)
	return args.Int(0), args.Error(1)
}

func (m *DonationRepository) ListByEmail(ctx context.Context, email string) ([]*models.Donation, error) {
	args := m.Called(ctx, email)
	if d := args.Get(0); d != nil {
		return d.([]*models.Donation), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *DonationRepository) Update(ctx context.Context, d *models.Donation) error {
	return m.Called(ctx, d).Error(0)
}

func (m *DonationRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

func (m *DonationRepository) SumCompleted(ctx context.Context, title string) (float64, error) {
	args := m.Called(ctx, title)
	return args.Get(0).(float64), args.Error(1)
}

func (m *DonationRepository) CountByStatus(ctx context.Context, status models.DonationStatus) (int, error) {
	args := m.Called(ctx, status)
	return args.Int(0), args.Error(1)
}

// SubscriberRepository is a mock implementation of repositories.SubscriberRepository
type SubscriberRepository struct {
	mock.Mock
}

func (m *SubscriberRepository) Create(ctx context.Context, s *models.Subscriber) error {
	return m.Called(ctx, s).Error(0)
}

func (m *SubscriberRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Subscriber, error) {
	args := m.Called(ctx, id)
	if s := args.Get(0); s != nil {
		return s.(*models.Subscriber), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *SubscriberRepository) GetByEmail(ctx context.Context, email string) (*models.Subscriber, error) {
	args := m.Called(ctx, email)
	if s := args.Get(0); s != nil {
		return s.(*models.Subscriber), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *SubscriberRepository) List(ctx context.Context, activeOnly bool, limit, offset int) ([]*models.Subscriber, error) {
	args := m.Called(ctx, activeOnly, limit, offset)
	if s := args.Get(0); s != nil {
		return s.([]*models.Subscriber), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *SubscriberRepository) Update(ctx context.Context, s *models.Subscriber) error {
	return m.Called(ctx, s).Error(0)
}

func (m *SubscriberRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

func (m *SubscriberRepository) CountAll(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}

func (m *SubscriberRepository) CountActive(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}

func (m *SubscriberRepository) ActiveEmails(ctx context.Context) ([]string, error) {
	args := m.Called(ctx)
	if e := args.Get(0); e != nil {
		return e.([]string), args.Error(1)
	}
	return nil, args.Error(1)
}

// VolunteerRepository is a mock implementation of repositories.VolunteerRepository
type VolunteerRepository struct {
	mock.Mock
}

func (m *VolunteerRepository) Create(ctx context.Context, v *models.Volunteer) error {
	return m.Called(ctx, v).Error(0)
}

func (m *VolunteerRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Volunteer, error) {
	args := m.Called(ctx, id)
	if v := args.Get(0); v != nil {
		return v.(*models.Volunteer), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *VolunteerRepository) List(ctx context.Context, limit, offset int) ([]*models.Volunteer, error) {
	args := m.Called(ctx, limit, offset)
	if v := args.Get(0); v != nil {
		return v.([]*models.Volunteer), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *VolunteerRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

func (m *VolunteerRepository) CountAll(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}

func (m *VolunteerRepository) CountActive(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}

// DonorRepository is a mock implementation of repositories.DonorRepository
type DonorRepository struct {
	mock.Mock
}

func (m *DonorRepository) Create(ctx context.Context, d *models.Donor) error {
	return m.Called(ctx, d).Error(0)
}

func (m *DonorRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Donor, error) {
	args := m.Called(ctx, id)
	if d := args.Get(0); d != nil {
		return d.(*models.Donor), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *DonorRepository) List(ctx context.Context, limit, offset int) ([]*models.Donor, error) {
	args := m.Called(ctx, limit, offset)
	if d := args.Get(0); d != nil {
		return d.([]*models.Donor), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *DonorRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

func (m *DonorRepository) CountAll(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}

// NewsletterRepository is a mock implementation of repositories.NewsletterRepository
type NewsletterRepository struct {
	mock.Mock
}

func (m *NewsletterRepository) Create(ctx context.Context, n *models.Newsletter) error {
	return m.Called(ctx, n).Error(0)
}

func (m *NewsletterRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Newsletter, error) {
	args := m.Called(ctx, id)
	if n := args.Get(0); n != nil {
		return n.(*models.Newsletter), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *NewsletterRepository) List(ctx context.Context, limit, offset int) ([]*models.Newsletter, error) {
	args := m.Called(ctx, limit, offset)
	if n := args.Get(0); n != nil {
		return n.([]*models.Newsletter), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *NewsletterRepository) Update(ctx context.Context, n *models.Newsletter) error {
	return m.Called(ctx, n).Error(0)
}

func (m *NewsletterRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

func (m *NewsletterRepository) CountAll(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}

func (m *NewsletterRepository) ClaimForSend(ctx context.Context, id uuid.UUID) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

func (m *NewsletterRepository) ReleaseSend(ctx context.Context, id uuid.UUID, status models.NewsletterStatus) error {
	return m.Called(ctx, id, status).Error(0)
}

// EmailTemplateRepository is a mock implementation of repositories.EmailTemplateRepository
type EmailTemplateRepository struct {
	mock.Mock
}

func (m *EmailTemplateRepository) Create(ctx context.Context, t *models.EmailTemplate) error {
	return m.Called(ctx, t).Error(0)
}

func (m *EmailTemplateRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.EmailTemplate, error) {
	args := m.Called(ctx, id)
	if t := args.Get(0); t != nil {
		return t.(*models.EmailTemplate), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *EmailTemplateRepository) List(ctx context.Context) ([]*models.EmailTemplate, error) {
	args := m.Called(ctx)
	if t := args.Get(0); t != nil {
		return t.([]*models.EmailTemplate), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *EmailTemplateRepository) Update(ctx context.Context, t *models.EmailTemplate) error {
	return m.Called(ctx, t).Error(0)
}

func (m *EmailTemplateRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}
