package postgres

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/psf-initiatives/admin-api/models"
	"github.com/psf-initiatives/admin-api/repositories"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func donationRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "title", "donor_name", "donor_email", "donor_phone", "amount",
		"status", "payment_reference", "is_anonymous", "message", "created_at"})
}

func TestDonationRepository_List(t *testing.T) {
	ctx := context.Background()

	t.Run("without title filter", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewDonationRepository(db, zap.NewNop())

		mock.ExpectQuery(regexp.QuoteMeta("FROM donations ORDER BY created_at DESC LIMIT $1 OFFSET $2")).
			WithArgs(100, 0).
			WillReturnRows(donationRows().
				AddRow(uuid.New().String(), "School Fees", "Ada", "ada@x.org", "+2348012345678", 50.0, "pending", nil, false, nil, time.Now()))

		donations, err := repo.List(ctx, models.DonationFilter{Limit: 100})
		require.NoError(t, err)
		require.Len(t, donations, 1)
		assert.Equal(t, models.DonationStatusPending, donations[0].Status)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("with title filter", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewDonationRepository(db, zap.NewNop())

		mock.ExpectQuery(regexp.QuoteMeta("FROM donations WHERE title = $1 ORDER BY created_at DESC LIMIT $2 OFFSET $3")).
			WithArgs("School Fees", 10, 20).
			WillReturnRows(donationRows())

		donations, err := repo.List(ctx, models.DonationFilter{Title: "School Fees", Limit: 10, Offset: 20})
		require.NoError(t, err)
		assert.Empty(t, donations)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestDonationRepository_SumCompleted(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewDonationRepository(db, zap.NewNop())

	mock.ExpectQuery(regexp.QuoteMeta("SELECT COALESCE(SUM(amount), 0) FROM donations WHERE status = $1 AND title = $2")).
		WithArgs("completed", "Clinic").
		WillReturnRows(sqlmock.NewRows([]string{"sum"}).AddRow(250.5))

	total, err := repo.SumCompleted(context.Background(), "Clinic")
	require.NoError(t, err)
	assert.Equal(t, 250.5, total)
}

func TestDonationRepository_Update(t *testing.T) {
	ctx := context.Background()
	d := models.NewDonation("Clinic", "Ada", "ada@x.org", "", 20)

	t.Run("updates row", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewDonationRepository(db, zap.NewNop())

		mock.ExpectExec("UPDATE donations").WillReturnResult(sqlmock.NewResult(0, 1))
		assert.NoError(t, repo.Update(ctx, d))
	})

	t.Run("missing row", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewDonationRepository(db, zap.NewNop())

		mock.ExpectExec("UPDATE donations").WillReturnResult(sqlmock.NewResult(0, 0))
		assert.ErrorIs(t, repo.Update(ctx, d), repositories.ErrNotFound)
	})

	t.Run("driver error is wrapped", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewDonationRepository(db, zap.NewNop())

		mock.ExpectExec("UPDATE donations").WillReturnError(errors.New("connection reset"))
		err := repo.Update(ctx, d)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to update donation")
		assert.NotErrorIs(t, err, repositories.ErrNotFound)
	})
}
