// Package volunteers records volunteer sign-ups.
package volunteers

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/psf-initiatives/admin-api/models"
	"github.com/psf-initiatives/admin-api/repositories"
	"github.com/psf-initiatives/admin-api/services"
	"github.com/psf-initiatives/admin-api/utils"
	"go.uber.org/zap"
)

// Service implements volunteer operations
type Service struct {
	volunteers  repositories.VolunteerRepository
	phoneRegion string
	logger      *zap.Logger
}

// NewService creates a new volunteer service
func NewService(volunteers repositories.VolunteerRepository, phoneRegion string, logger *zap.Logger) *Service {
	return &Service{
		volunteers:  volunteers,
		phoneRegion: phoneRegion,
		logger:      logger,
	}
}

// Create records a sign-up. Emails are unique.
func (s *Service) Create(ctx context.Context, fullName, email string, phone *string) (*models.Volunteer, error) {
	normalized, err := normalizePhone(phone, s.phoneRegion)
	if err != nil {
		return nil, err
	}
	v := models.NewVolunteer(fullName, email, normalized)
	if err := s.volunteers.Create(ctx, v); err != nil {
		return nil, services.FromRepository(err, nil, services.ErrEmailRegistered)
	}

	s.logger.Info("volunteer registered", zap.String("volunteer_id", v.ID.String()))
	return v, nil
}

// List returns a page of volunteers, newest first
func (s *Service) List(ctx context.Context, skip, limit int) ([]*models.Volunteer, error) {
	list, err := s.volunteers.List(ctx, limit, skip)
	if err != nil {
		return nil, services.FromRepository(err, nil, nil)
	}
	return list, nil
}

// Get returns one volunteer
func (s *Service) Get(ctx context.Context, id uuid.UUID) (*models.Volunteer, error) {
	v, err := s.volunteers.GetByID(ctx, id)
	if err != nil {
		return nil, services.FromRepository(err, services.ErrVolunteerNotFound, nil)
	}
	return v, nil
}

// Delete removes a volunteer
func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.volunteers.Delete(ctx, id); err != nil {
		return services.FromRepository(err, services.ErrVolunteerNotFound, nil)
	}
	return nil
}

// Stats counts volunteers
func (s *Service) Stats(ctx context.Context) (*models.VolunteerStats, error) {
	total, err := s.volunteers.CountAll(ctx)
	if err != nil {
		return nil, services.FromRepository(err, nil, nil)
	}
	active, err := s.volunteers.CountActive(ctx)
	if err != nil {
		return nil, services.FromRepository(err, nil, nil)
	}
	return &models.VolunteerStats{TotalVolunteers: total, ActiveVolunteers: active}, nil
}

func normalizePhone(phone *string, region string) (*string, error) {
	if phone == nil || strings.TrimSpace(*phone) == "" {
		return nil, nil
	}
	normalized, err := utils.NormalizePhone(*phone, region)
	if err != nil {
		return nil, services.ErrInvalidPhone.Wrap(err)
	}
	return &normalized, nil
}
