package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/psf-initiatives/admin-api/models"
	"github.com/psf-initiatives/admin-api/repositories"
	"go.uber.org/zap"
)

const volunteerColumns = `id, full_name, email, phone, is_active, created_at`

// VolunteerRepository implements the repositories.VolunteerRepository interface
type VolunteerRepository struct {
	db     *DB
	logger *zap.Logger
}

// NewVolunteerRepository creates a new volunteer repository
func NewVolunteerRepository(db *DB, logger *zap.Logger) repositories.VolunteerRepository {
	return &VolunteerRepository{
		db:     db,
		logger: logger,
	}
}

// Create creates a new volunteer
func (r *VolunteerRepository) Create(ctx context.Context, v *models.Volunteer) error {
	query := `
		INSERT INTO volunteers (` + volunteerColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	_, err := GetExecutor(ctx, r.db).ExecContext(ctx, query,
		v.ID,
		v.FullName,
		v.Email,
		v.Phone,
		v.IsActive,
		v.CreatedAt,
	)
	if err != nil {
		return classifyError("create volunteer", err)
	}

	r.logger.Debug("volunteer created", zap.String("id", v.ID.String()))
	return nil
}

// GetByID retrieves a volunteer by ID
func (r *VolunteerRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Volunteer, error) {
	query := `SELECT ` + volunteerColumns + ` FROM volunteers WHERE id = $1`

	v, err := scanVolunteer(GetExecutor(ctx, r.db).QueryRowContext(ctx, query, id))
	if err != nil {
		return nil, classifyError(fmt.Sprintf("get volunteer %s", id), err)
	}
	return v, nil
}

// List returns volunteers newest first
func (r *VolunteerRepository) List(ctx context.Context, limit, offset int) ([]*models.Volunteer, error) {
	query := `SELECT ` + volunteerColumns + ` FROM volunteers ORDER BY created_at DESC LIMIT $1 OFFSET $2`

	rows, err := GetExecutor(ctx, r.db).QueryContext(ctx, query, limit, offset)
	if err != nil {
		return nil, classifyError("list volunteers", err)
	}
	defer rows.Close()

	volunteers := make([]*models.Volunteer, 0)
	for rows.Next() {
		v, err := scanVolunteer(rows)
		if err != nil {
			return nil, classifyError("scan volunteer", err)
		}
		volunteers = append(volunteers, v)
	}
	if err := rows.Err(); err != nil {
		return nil, classifyError("list volunteers", err)
	}
	return volunteers, nil
}

// Delete deletes a volunteer
func (r *VolunteerRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := GetExecutor(ctx, r.db).ExecContext(ctx, `DELETE FROM volunteers WHERE id = $1`, id)
	if err != nil {
		return classifyError("delete volunteer", err)
	}
	return expectAffected(fmt.Sprintf("delete volunteer %s", id), result)
}

// CountAll counts every volunteer
func (r *VolunteerRepository) CountAll(ctx context.Context) (int, error) {
	return count(ctx, r.db, "count volunteers", `SELECT COUNT(*) FROM volunteers`)
}

// CountActive counts active volunteers
func (r *VolunteerRepository) CountActive(ctx context.Context) (int, error) {
	return count(ctx, r.db, "count active volunteers", `SELECT COUNT(*) FROM volunteers WHERE is_active = TRUE`)
}

func scanVolunteer(row scanner) (*models.Volunteer, error) {
	v := &models.Volunteer{}
	if err := row.Scan(&v.ID, &v.FullName, &v.Email, &v.Phone, &v.IsActive, &v.CreatedAt); err != nil {
		return nil, err
	}
	return v, nil
}
