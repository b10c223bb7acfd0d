package postgres

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/psf-initiatives/admin-api/models"
	"github.com/psf-initiatives/admin-api/repositories"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func subscriberRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "email", "full_name", "is_active", "subscribed_at", "unsubscribed_at"})
}

func TestSubscriberRepository_List(t *testing.T) {
	ctx := context.Background()

	t.Run("active only", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewSubscriberRepository(db, zap.NewNop())

		mock.ExpectQuery(regexp.QuoteMeta("FROM subscribers WHERE is_active = TRUE ORDER BY subscribed_at DESC LIMIT $1 OFFSET $2")).
			WithArgs(50, 10).
			WillReturnRows(subscriberRows().
				AddRow(uuid.New().String(), "fan@psf.org", nil, true, time.Now(), nil))

		subs, err := repo.List(ctx, true, 50, 10)
		require.NoError(t, err)
		require.Len(t, subs, 1)
		assert.Equal(t, "fan@psf.org", subs[0].Email)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("everyone", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewSubscriberRepository(db, zap.NewNop())

		mock.ExpectQuery(regexp.QuoteMeta("FROM subscribers ORDER BY subscribed_at DESC LIMIT $1 OFFSET $2")).
			WithArgs(100, 0).
			WillReturnRows(subscriberRows())

		subs, err := repo.List(ctx, false, 100, 0)
		require.NoError(t, err)
		assert.Empty(t, subs)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestSubscriberRepository_Create(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewSubscriberRepository(db, zap.NewNop())

	mock.ExpectExec("INSERT INTO subscribers").
		WillReturnError(&pq.Error{Code: uniqueViolation, Constraint: "subscribers_email_key"})

	err := repo.Create(context.Background(), models.NewSubscriber("fan@psf.org", nil))
	assert.ErrorIs(t, err, repositories.ErrDuplicate)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSubscriberRepository_Delete(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewSubscriberRepository(db, zap.NewNop())
	id := uuid.New()

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM subscribers WHERE id = $1")).
		WithArgs(id).
		WillReturnResult(sqlmock.NewResult(0, 0))

	assert.ErrorIs(t, repo.Delete(context.Background(), id), repositories.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSubscriberRepository_ActiveEmails(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewSubscriberRepository(db, zap.NewNop())

	mock.ExpectQuery(regexp.QuoteMeta("SELECT email FROM subscribers WHERE is_active = TRUE")).
		WillReturnRows(sqlmock.NewRows([]string{"email"}).AddRow("a@psf.org").AddRow("b@psf.org"))

	emails, err := repo.ActiveEmails(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"a@psf.org", "b@psf.org"}, emails)
}
