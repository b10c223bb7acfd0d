package volunteers

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/psf-initiatives/admin-api/models"
	"github.com/psf-initiatives/admin-api/repositories"
	"github.com/psf-initiatives/admin-api/repositories/mocks"
	"github.com/psf-initiatives/admin-api/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestService_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("success", func(t *testing.T) {
		repo := new(mocks.VolunteerRepository)
		svc := NewService(repo, "NG", zap.NewNop())
		repo.On("Create", mock.Anything, mock.MatchedBy(func(v *models.Volunteer) bool {
			return v.Phone != nil && *v.Phone == "+2348031234567" && v.IsActive
		})).Return(nil)

		phone := "08031234567"
		v, err := svc.Create(ctx, "Ada", "ada@x.com", &phone)
		require.NoError(t, err)
		assert.Equal(t, "ada@x.com", v.Email)
		repo.AssertExpectations(t)
	})

	t.Run("without phone", func(t *testing.T) {
		repo := new(mocks.VolunteerRepository)
		svc := NewService(repo, "NG", zap.NewNop())
		repo.On("Create", mock.Anything, mock.Anything).Return(nil)

		v, err := svc.Create(ctx, "Ada", "ada@x.com", nil)
		require.NoError(t, err)
		assert.Nil(t, v.Phone)
	})

	t.Run("duplicate email", func(t *testing.T) {
		repo := new(mocks.VolunteerRepository)
		svc := NewService(repo, "NG", zap.NewNop())
		repo.On("Create", mock.Anything, mock.Anything).Return(repositories.ErrDuplicate)

		_, err := svc.Create(ctx, "Ada", "ada@x.com", nil)
		assert.ErrorIs(t, err, services.ErrEmailRegistered)
	})
}

func TestService_ListPassesPaging(t *testing.T) {
	repo := new(mocks.VolunteerRepository)
	svc := NewService(repo, "NG", zap.NewNop())
	repo.On("List", mock.Anything, 25, 50).Return([]*models.Volunteer{}, nil)

	list, err := svc.List(context.Background(), 50, 25)
	require.NoError(t, err)
	assert.Empty(t, list)
	repo.AssertExpectations(t)
}

func TestService_Missing(t *testing.T) {
	ctx := context.Background()
	repo := new(mocks.VolunteerRepository)
	svc := NewService(repo, "NG", zap.NewNop())
	id := uuid.New()
	repo.On("GetByID", mock.Anything, id).Return(nil, repositories.ErrNotFound)
	repo.On("Delete", mock.Anything, id).Return(repositories.ErrNotFound)

	_, err := svc.Get(ctx, id)
	assert.ErrorIs(t, err, services.ErrVolunteerNotFound)
	assert.ErrorIs(t, svc.Delete(ctx, id), services.ErrVolunteerNotFound)
}

func TestService_Stats(t *testing.T) {
	repo := new(mocks.VolunteerRepository)
	svc := NewService(repo, "NG", zap.NewNop())
	repo.On("CountAll", mock.Anything).Return(12, nil)
	repo.On("CountActive", mock.Anything).Return(9, nil)

	stats, err := svc.Stats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 12, stats.TotalVolunteers)
	assert.Equal(t, 9, stats.ActiveVolunteers)
}
