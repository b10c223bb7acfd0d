// Package dashboard aggregates headline figures across the other stores.
package dashboard

import (
	"context"

	"github.com/psf-initiatives/admin-api/models"
	"github.com/psf-initiatives/admin-api/repositories"
	"github.com/psf-initiatives/admin-api/services"
)

// DefaultRecentLimit is the number of recent donations shown by default
const DefaultRecentLimit = 10

// Summary is the full dashboard payload
type Summary struct {
	Stats           *models.DashboardStats `json:"stats"`
	RecentDonations []*models.Donation     `json:"recent_donations"`
}

// Service computes dashboard figures
type Service struct {
	repos *repositories.Repositories
}

// NewService creates a new dashboard service
func NewService(repos *repositories.Repositories) *Service {
	return &Service{repos: repos}
}

// Stats collects the headline counts
func (s *Service) Stats(ctx context.Context) (*models.DashboardStats, error) {
	var (
		stats models.DashboardStats
		err   error
	)
	steps := []func() error{
		func() error { stats.TotalDonations, err = s.repos.Donations.Count(ctx, ""); return err },
		func() error { stats.TotalAmountRaised, err = s.repos.Donations.SumCompleted(ctx, ""); return err },
		func() error {
			stats.PendingDonations, err = s.repos.Donations.CountByStatus(ctx, models.DonationStatusPending)
			return err
		},
		func() error { stats.TotalSubscribers, err = s.repos.Subscribers.CountAll(ctx); return err },
		func() error { stats.ActiveSubscribers, err = s.repos.Subscribers.CountActive(ctx); return err },
		func() error { stats.TotalVolunteers, err = s.repos.Volunteers.CountAll(ctx); return err },
		func() error { stats.TotalDonors, err = s.repos.Donors.CountAll(ctx); return err },
		func() error { stats.TotalNewsletters, err = s.repos.Newsletters.CountAll(ctx); return err },
	}
	for _, step := range steps {
		if err := step(); err != nil {
			return nil, services.FromRepository(err, nil, nil)
		}
	}
	return &stats, nil
}

// RecentDonations returns the latest donations. limit <= 0 selects the default.
func (s *Service) RecentDonations(ctx context.Context, limit int) ([]*models.Donation, error) {
	if limit <= 0 {
		limit = DefaultRecentLimit
	}
	donations, err := s.repos.Donations.List(ctx, models.DonationFilter{Limit: limit})
	if err != nil {
		return nil, services.FromRepository(err, nil, nil)
	}
	return donations, nil
}

// Summary combines Stats and RecentDonations
func (s *Service) Summary(ctx context.Context) (*Summary, error) {
	stats, err := s.Stats(ctx)
	if err != nil {
		return nil, err
	}
	recent, err := s.RecentDonations(ctx, DefaultRecentLimit)
	if err != nil {
		return nil, err
	}
	return &Summary{Stats: stats, RecentDonations: recent}, nil
}
