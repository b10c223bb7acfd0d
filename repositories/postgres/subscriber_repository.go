package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/psf-initiatives/admin-api/models"
	"github.com/psf-initiatives/admin-api/repositories"
	"go.uber.org/zap"
)

const subscriberColumns = `id, email, full_name, is_active, subscribed_at, unsubscribed_at`

// SubscriberRepository implements the repositories.SubscriberRepository interface
type SubscriberRepository struct {
	db     *DB
	logger *zap.Logger
}

// NewSubscriberRepository creates a new subscriber repository
func NewSubscriberRepository(db *DB, logger *zap.Logger) repositories.SubscriberRepository {
	return &SubscriberRepository{
		db:     db,
		logger: logger,
	}
}

// Create creates a new subscriber
func (r *SubscriberRepository) Create(ctx context.Context, s *models.Subscriber) error {
	query := `
		INSERT INTO subscribers (` + subscriberColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	_, err := GetExecutor(ctx, r.db).ExecContext(ctx, query,
		s.ID,
		s.Email,
		s.FullName,
		s.IsActive,
		s.SubscribedAt,
		s.UnsubscribedAt,
	)
	if err != nil {
		return classifyError("create subscriber", err)
	}

	r.logger.Debug("subscriber created", zap.String("id", s.ID.String()))
	return nil
}

// GetByID retrieves a subscriber by ID
func (r *SubscriberRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Subscriber, error) {
	query := `SELECT ` + subscriberColumns + ` FROM subscribers WHERE id = $1`

	s, err := scanSubscriber(GetExecutor(ctx, r.db).QueryRowContext(ctx, query, id))
	if err != nil {
		return nil, classifyError(fmt.Sprintf("get subscriber %s", id), err)
	}
	return s, nil
}

// GetByEmail retrieves a subscriber by email
func (r *SubscriberRepository) GetByEmail(ctx context.Context, email string) (*models.Subscriber, error) {
	query := `SELECT ` + subscriberColumns + ` FROM subscribers WHERE email = $1`

	s, err := scanSubscriber(GetExecutor(ctx, r.db).QueryRowContext(ctx, query, email))
	if err != nil {
		return nil, classifyError("get subscriber by email", err)
	}
	return s, nil
}

// List returns subscribers newest first
func (r *SubscriberRepository) List(ctx context.Context, activeOnly bool, limit, offset int) ([]*models.Subscriber, error) {
	query := `SELECT ` + subscriberColumns + ` FROM subscribers`
	if activeOnly {
		query += ` WHERE is_active = TRUE`
	}
	query += ` ORDER BY subscribed_at DESC LIMIT $1 OFFSET $2`

	rows, err := GetExecutor(ctx, r.db).QueryContext(ctx, query, limit, offset)
	if err != nil {
		return nil, classifyError("list subscribers", err)
	}
	defer rows.Close()

	subscribers := make([]*models.Subscriber, 0)
	for rows.Next() {
		s, err := scanSubscriber(rows)
		if err != nil {
			return nil, classifyError("scan subscriber", err)
		}
		subscribers = append(subscribers, s)
	}
	if err := rows.Err(); err != nil {
		return nil, classifyError("list subscribers", err)
	}
	return subscribers, nil
}

// Update writes every mutable column
func (r *SubscriberRepository) Update(ctx context.Context, s *models.Subscriber) error {
	query := `
		UPDATE subscribers
		SET full_name = $2, is_active = $3, subscribed_at = $4, unsubscribed_at = $5
		WHERE id = $1
	`

	result, err := GetExecutor(ctx, r.db).ExecContext(ctx, query,
		s.ID,
		s.FullName,
		s.IsActive,
		s.SubscribedAt,
		s.UnsubscribedAt,
	)
	if err != nil {
		return classifyError("update subscriber", err)
	}
	return expectAffected(fmt.Sprintf("update subscriber %s", s.ID), result)
}

// Delete deletes a subscriber
func (r *SubscriberRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := GetExecutor(ctx, r.db).ExecContext(ctx, `DELETE FROM subscribers WHERE id = $1`, id)
	if err != nil {
		return classifyError("delete subscriber", err)
	}
	return expectAffected(fmt.Sprintf("delete subscriber %s", id), result)
}

// CountAll counts every subscriber
func (r *SubscriberRepository) CountAll(ctx context.Context) (int, error) {
	return count(ctx, r.db, "count subscribers", `SELECT COUNT(*) FROM subscribers`)
}

// CountActive counts subscribers still receiving mail
func (r *SubscriberRepository) CountActive(ctx context.Context) (int, error) {
	return count(ctx, r.db, "count active subscribers", `SELECT COUNT(*) FROM subscribers WHERE is_active = TRUE`)
}

// ActiveEmails lists the addresses of active subscribers
func (r *SubscriberRepository) ActiveEmails(ctx context.Context) ([]string, error) {
	rows, err := GetExecutor(ctx, r.db).QueryContext(ctx, `SELECT email FROM subscribers WHERE is_active = TRUE ORDER BY email`)
	if err != nil {
		return nil, classifyError("list active subscriber emails", err)
	}
	defer rows.Close()

	emails := make([]string, 0)
	for rows.Next() {
		var email string
		if err := rows.Scan(&email); err != nil {
			return nil, classifyError("scan subscriber email", err)
		}
		emails = append(emails, email)
	}
	if err := rows.Err(); err != nil {
		return nil, classifyError("list active subscriber emails", err)
	}
	return emails, nil
}

func scanSubscriber(row scanner) (*models.Subscriber, error) {
	s := &models.Subscriber{}
	err := row.Scan(
		&s.ID,
		&s.Email,
		&s.FullName,
		&s.IsActive,
		&s.SubscribedAt,
		&s.UnsubscribedAt,
	)
	if err != nil {
		return nil, err
	}
	return s, nil
}
