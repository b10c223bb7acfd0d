package dashboard

import (
	"context"
	"errors"
	"testing"

	"github.com/psf-initiatives/admin-api/models"
	"github.com/psf-initiatives/admin-api/repositories/mocks"
	"github.com/psf-initiatives/admin-api/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func stubCounts(set *mocks.Set) {
	set.Donations.On("Count", mock.Anything, "").Return(8, nil)
	set.Donations.On("SumCompleted", mock.Anything, "").Return(1250.5, nil)
	set.Donations.On("CountByStatus", mock.Anything, models.DonationStatusPending).Return(3, nil)
	set.Subscribers.On("CountAll", mock.Anything).Return(40, nil)
	set.Subscribers.On("CountActive", mock.Anything).Return(35, nil)
	set.Volunteers.On("CountAll", mock.Anything).Return(6, nil)
	set.Donors.On("CountAll", mock.Anything).Return(4, nil)
	set.Newsletters.On("CountAll", mock.Anything).Return(2, nil)
}

func TestService_Stats(t *testing.T) {
	repos, set := mocks.NewRepositories()
	stubCounts(set)

	stats, err := NewService(repos).Stats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, models.DashboardStats{
		TotalDonations:    8,
		TotalAmountRaised: 1250.5,
		PendingDonations:  3,
		TotalSubscribers:  40,
		ActiveSubscribers: 35,
		TotalVolunteers:   6,
		TotalDonors:       4,
		TotalNewsletters:  2,
	}, *stats)
}

func TestService_StatsFailure(t *testing.T) {
	repos, set := mocks.NewRepositories()
	set.Donations.On("Count", mock.Anything, "").Return(0, errors.New("connection reset"))

	_, err := NewService(repos).Stats(context.Background())
	assert.True(t, services.IsInternalError(err))
	set.Subscribers.AssertNotCalled(t, "CountAll", mock.Anything)
}

func TestService_RecentDonations(t *testing.T) {
	repos, set := mocks.NewRepositories()
	set.Donations.On("List", mock.Anything, models.DonationFilter{Limit: DefaultRecentLimit}).
		Return([]*models.Donation{models.NewDonation("t", "n", "e@x.com", "", 1)}, nil)

	recent, err := NewService(repos).RecentDonations(context.Background(), 0)
	require.NoError(t, err)
	assert.Len(t, recent, 1)
}

func TestService_Summary(t *testing.T) {
	repos, set := mocks.NewRepositories()
	stubCounts(set)
	set.Donations.On("List", mock.Anything, models.DonationFilter{Limit: DefaultRecentLimit}).Return([]*models.Donation{}, nil)

	summary, err := NewService(repos).Summary(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 8, summary.Stats.TotalDonations)
	assert.NotNil(t, summary.RecentDonations)
}
