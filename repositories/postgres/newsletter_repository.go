package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/psf-initiatives/admin-api/models"
	"github.com/psf-initiatives/admin-api/repositories"
	"go.uber.org/zap"
)

const newsletterColumns = `id, subject, content, html_content, status, scheduled_at, sent_at, created_by, created_at`

// NewsletterRepository implements the repositories.NewsletterRepository interface
type NewsletterRepository struct {
	db     *DB
	logger *zap.Logger
}

// NewNewsletterRepository creates a new newsletter repository
func NewNewsletterRepository(db *DB, logger *zap.Logger) repositories.NewsletterRepository {
	return &NewsletterRepository{
		db:     db,
		logger: logger,
	}
}

// Create creates a new newsletter
func (r *NewsletterRepository) Create(ctx context.Context, n *models.Newsletter) error {
	query := `
		INSERT INTO newsletters (` + newsletterColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	_, err := GetExecutor(ctx, r.db).ExecContext(ctx, query,
		n.ID,
		n.Subject,
		n.Content,
		n.HTMLContent,
		n.Status,
		n.ScheduledAt,
		n.SentAt,
		n.CreatedBy,
		n.CreatedAt,
	)
	if err != nil {
		return classifyError("create newsletter", err)
	}

	r.logger.Debug("newsletter created", zap.String("id", n.ID.String()), zap.String("status", string(n.Status)))
	return nil
}

// GetByID retrieves a newsletter by ID
func (r *NewsletterRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Newsletter, error) {
	query := `SELECT ` + newsletterColumns + ` FROM newsletters WHERE id = $1`

	n, err := scanNewsletter(GetExecutor(ctx, r.db).QueryRowContext(ctx, query, id))
	if err != nil {
		return nil, classifyError(fmt.Sprintf("get newsletter %s", id), err)
	}
	return n, nil
}

// List returns newsletters newest first
func (r *NewsletterRepository) List(ctx context.Context, limit, offset int) ([]*models.Newsletter, error) {
	query := `SELECT ` + newsletterColumns + ` FROM newsletters ORDER BY created_at DESC LIMIT $1 OFFSET $2`

	rows, err := GetExecutor(ctx, r.db).QueryContext(ctx, query, limit, offset)
	if err != nil {
		return nil, classifyError("list newsletters", err)
	}
	defer rows.Close()

	newsletters := make([]*models.Newsletter, 0)
	for rows.Next() {
		n, err := scanNewsletter(rows)
		if err != nil {
			return nil, classifyError("scan newsletter", err)
		}
		newsletters = append(newsletters, n)
	}
	if err := rows.Err(); err != nil {
		return nil, classifyError("list newsletters", err)
	}
	return newsletters, nil
}

// Update writes every mutable column
func (r *NewsletterRepository) Update(ctx context.Context, n *models.Newsletter) error {
	query := `
		UPDATE newsletters
		SET subject = $2, content = $3, html_content = $4, status = $5, scheduled_at = $6, sent_at = $7
		WHERE id = $1
	`

	result, err := GetExecutor(ctx, r.db).ExecContext(ctx, query,
		n.ID,
		n.Subject,
		n.Content,
		n.HTMLContent,
		n.Status,
		n.ScheduledAt,
		n.SentAt,
	)
	if err != nil {
		return classifyError("update newsletter", err)
	}
	if err := expectAffected(fmt.Sprintf("update newsletter %s", n.ID), result); err != nil {
		return err
	}

	r.logger.Debug("newsletter updated", zap.String("id", n.ID.String()), zap.String("status", string(n.Status)))
	return nil
}

// Delete deletes a newsletter
func (r *NewsletterRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := GetExecutor(ctx, r.db).ExecContext(ctx, `DELETE FROM newsletters WHERE id = $1`, id)
	if err != nil {
		return classifyError("delete newsletter", err)
	}
	return expectAffected(fmt.Sprintf("delete newsletter %s", id), result)
}

// CountAll counts every newsletter
func (r *NewsletterRepository) CountAll(ctx context.Context) (int, error) {
	return count(ctx, r.db, "count newsletters", `SELECT COUNT(*) FROM newsletters`)
}

// ClaimForSend marks a draft or scheduled newsletter as sending
func (r *NewsletterRepository) ClaimForSend(ctx context.Context, id uuid.UUID) (bool, error) {
	query := `
		UPDATE newsletters SET status = $2
		WHERE id = $1 AND status IN ($3, $4)
	`

	result, err := GetExecutor(ctx, r.db).ExecContext(ctx, query, id,
		models.NewsletterStatusSending,
		models.NewsletterStatusDraft,
		models.NewsletterStatusScheduled,
	)
	if err != nil {
		return false, classifyError(fmt.Sprintf("claim newsletter %s", id), err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return false, classifyError(fmt.Sprintf("claim newsletter %s", id), err)
	}
	return affected == 1, nil
}

// ReleaseSend puts a newsletter held for sending back to status
func (r *NewsletterRepository) ReleaseSend(ctx context.Context, id uuid.UUID, status models.NewsletterStatus) error {
	query := `UPDATE newsletters SET status = $2 WHERE id = $1 AND status = $3`

	_, err := GetExecutor(ctx, r.db).ExecContext(ctx, query, id, status, models.NewsletterStatusSending)
	if err != nil {
		return classifyError(fmt.Sprintf("release newsletter %s", id), err)
	}
	return nil
}

func scanNewsletter(row scanner) (*models.Newsletter, error) {
	n := &models.Newsletter{}
	err := row.Scan(
		&n.ID,
		&n.Subject,
		&n.Content,
		&n.HTMLContent,
		&n.Status,
		&n.ScheduledAt,
		&n.SentAt,
		&n.CreatedBy,
		&n.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return n, nil
}
