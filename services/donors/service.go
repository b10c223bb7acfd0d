// Package donors tracks recurring supporters.
package donors

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

// Service implements donor operations
type Service struct {
	donors      repositories.DonorRepository
	phoneRegion string
	logger      *zap.Logger
}

// NewService creates a new donor service
func NewService(donors repositories.DonorRepository, phoneRegion string, logger *zap.Logger) *Service {
	return &Service{
		donors:      donors,
		phoneRegion: phoneRegion,
		logger:      logger,
	}
}

// Create adds a donor. Emails are unique.
func (s *Service) Create(ctx context.Context, fullName, email string, phone *string) (*models.Donor, error) {
	var normalized *string
	if phone != nil && strings.TrimSpace(*phone) != "" {
		p, err := utils.NormalizePhone(*phone, s.phoneRegion)
		if err != nil {
			return nil, services.ErrInvalidPhone.Wrap(err)
		}
		normalized = &p
	}

	d := models.NewDonor(fullName, email, normalized)
	if err := s.donors.Create(ctx, d); err != nil {
		return nil, services.FromRepository(err, nil, services.ErrEmailRegistered)
	}

	s.logger.Info("donor created", zap.String("donor_id", d.ID.String()))
	return d, nil
}

// List returns a page of donors, newest first
func (s *Service) List(ctx context.Context, skip, limit int) ([]*models.Donor, error) {
	list, err := s.donors.List(ctx, limit, skip)
	if err != nil {
		return nil, services.FromRepository(err, nil, nil)
	}
	return list, nil
}

// Get returns one donor
func (s *Service) Get(ctx context.Context, id uuid.UUID) (*models.Donor, error) {
	d, err := s.donors.GetByID(ctx, id)
	if err != nil {
		return nil, services.FromRepository(err, services.ErrDonorNotFound, nil)
	}
	return d, nil
}

// Delete removes a donor
func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.donors.Delete(ctx, id); err != nil {
		return services.FromRepository(err, services.ErrDonorNotFound, nil)
	}
	return nil
}
