package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/psf-initiatives/admin-api/models"
	"github.com/psf-initiatives/admin-api/repositories"
	"go.uber.org/zap"
)

const donationColumns = `id, title, donor_name, donor_email, donor_phone, amount, status,
	payment_reference, is_anonymous, message, created_at`

// DonationRepository implements the repositories.DonationRepository interface
type DonationRepository struct {
	db     *DB
	logger *zap.Logger
}

// NewDonationRepository creates a new donation repository
func NewDonationRepository(db *DB, logger *zap.Logger) repositories.DonationRepository {
	return &DonationRepository{
		db:     db,
		logger: logger,
	}
}

// Create creates a new donation
func (r *DonationRepository) Create(ctx context.Context, d *models.Donation) error {
	query := `
		INSERT INTO donations (` + donationColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`

	_, err := GetExecutor(ctx, r.db).ExecContext(ctx, query,
		d.ID,
		d.Title,
		d.DonorName,
		d.DonorEmail,
		d.DonorPhone,
		d.Amount,
		d.Status,
		d.PaymentReference,
		d.IsAnonymous,
		d.Message,
		d.CreatedAt,
	)
	if err != nil {
		return classifyError("create donation", err)
	}

	r.logger.Debug("donation created", zap.String("id", d.ID.String()), zap.Float64("amount", d.Amount))
	return nil
}

// GetByID retrieves a donation by ID
func (r *DonationRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Donation, error) {
	query := `SELECT ` + donationColumns + ` FROM donations WHERE id = $1`

	d, err := scanDonation(GetExecutor(ctx, r.db).QueryRowContext(ctx, query, id))
	if err != nil {
		return nil, classifyError(fmt.Sprintf("get donation %s", id), err)
	}
	return d, nil
}

// List returns donations newest first, optionally filtered by exact title
func (r *DonationRepository) List(ctx context.Context, filter models.DonationFilter) ([]*models.Donation, error) {
	var (
		where strings.Builder
		args  []interface{}
	)
	if filter.Title != "" {
		args = append(args, filter.Title)
		where.WriteString(" WHERE title = $1")
	}
	args = append(args, filter.Limit, filter.Offset)
	query := fmt.Sprintf(`SELECT %s FROM donations%s ORDER BY created_at DESC LIMIT $%d OFFSET $%d`,
		donationColumns, where.String(), len(args)-1, len(args))

	return r.query(ctx, "list donations", query, args...)
}

// Count counts donations, optionally for one title
func (r *DonationRepository) Count(ctx context.Context, title string) (int, error) {
	if title == "" {
		return count(ctx, r.db, "count donations", `SELECT COUNT(*) FROM donations`)
	}
	return count(ctx, r.db, "count donations", `SELECT COUNT(*) FROM donations WHERE title = $1`, title)
}

// ListByEmail returns a donor's donations newest first
func (r *DonationRepository) ListByEmail(ctx context.Context, email string) ([]*models.Donation, error) {
	query := `SELECT ` + donationColumns + ` FROM donations WHERE donor_email = $1 ORDER BY created_at DESC`
	return r.query(ctx, "list donations by email", query, email)
}

// Update writes every mutable column
func (r *DonationRepository) Update(ctx context.Context, d *models.Donation) error {
	query := `
		UPDATE donations
		SET title = $2, donor_name = $3, donor_email = $4, donor_phone = $5, amount = $6,
			status = $7, payment_reference = $8, is_anonymous = $9, message = $10
		WHERE id = $1
	`

	result, err := GetExecutor(ctx, r.db).ExecContext(ctx, query,
		d.ID,
		d.Title,
		d.DonorName,
		d.DonorEmail,
		d.DonorPhone,
		d.Amount,
		d.Status,
		d.PaymentReference,
		d.IsAnonymous,
		d.Message,
	)
	if err != nil {
		return classifyError("update donation", err)
	}
	if err := expectAffected(fmt.Sprintf("update donation %s", d.ID), result); err != nil {
		return err
	}

	r.logger.Debug("donation updated", zap.String("id", d.ID.String()), zap.String("status", string(d.Status)))
	return nil
}

// Delete deletes a donation
func (r *DonationRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := GetExecutor(ctx, r.db).ExecContext(ctx, `DELETE FROM donations WHERE id = $1`, id)
	if err != nil {
		return classifyError("delete donation", err)
	}
	return expectAffected(fmt.Sprintf("delete donation %s", id), result)
}

// SumCompleted totals completed donations, optionally for one title
func (r *DonationRepository) SumCompleted(ctx context.Context, title string) (float64, error) {
	query := `SELECT COALESCE(SUM(amount), 0) FROM donations WHERE status = $1`
	args := []interface{}{models.DonationStatusCompleted}
	if title != "" {
		query += ` AND title = $2`
		args = append(args, title)
	}

	var total float64
	if err := GetExecutor(ctx, r.db).QueryRowContext(ctx, query, args...).Scan(&total); err != nil {
		return 0, classifyError("sum donations", err)
	}
	return total, nil
}

// CountByStatus counts donations in one status
func (r *DonationRepository) CountByStatus(ctx context.Context, status models.DonationStatus) (int, error) {
	return count(ctx, r.db, "count donations by status", `SELECT COUNT(*) FROM donations WHERE status = $1`, status)
}

func (r *DonationRepository) query(ctx context.Context, op, query string, args ...interface{}) ([]*models.Donation, error) {
	rows, err := GetExecutor(ctx, r.db).QueryContext(ctx, query, args...)
	if err != nil {
		return nil, classifyError(op, err)
	}
	defer rows.Close()

	donations := make([]*models.Donation, 0)
	for rows.Next() {
		d, err := scanDonation(rows)
		if err != nil {
			return nil, classifyError("scan donation", err)
		}
		donations = append(donations, d)
	}
	if err := rows.Err(); err != nil {
		return nil, classifyError(op, err)
	}
	return donations, nil
}

func scanDonation(row scanner) (*models.Donation, error) {
	d := &models.Donation{}
	err := row.Scan(
		&d.ID,
		&d.Title,
		&d.DonorName,
		&d.DonorEmail,
		&d.DonorPhone,
		&d.Amount,
		&d.Status,
		&d.PaymentReference,
		&d.IsAnonymous,
		&d.Message,
		&d.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return d, nil
}
