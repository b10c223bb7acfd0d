package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/psf-initiatives/admin-api/models"
	"github.com/psf-initiatives/admin-api/repositories"
	"go.uber.org/zap"
)

const donorColumns = `id, full_name, email, phone, is_active, created_at`

// DonorRepository implements the repositories.DonorRepository interface
type DonorRepository struct {
	db     *DB
	logger *zap.Logger
}

// NewDonorRepository creates a new donor repository
func NewDonorRepository(db *DB, logger *zap.Logger) repositories.DonorRepository {
	return &DonorRepository{
		db:     db,
		logger: logger,
	}
}

// Create creates a new donor
func (r *DonorRepository) Create(ctx context.Context, d *models.Donor) error {
	query := `
		INSERT INTO donors (` + donorColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	_, err := GetExecutor(ctx, r.db).ExecContext(ctx, query,
		d.ID,
		d.FullName,
		d.Email,
		d.Phone,
		d.IsActive,
		d.CreatedAt,
	)
	if err != nil {
		return classifyError("create donor", err)
	}

	r.logger.Debug("donor created", zap.String("id", d.ID.String()))
	return nil
}

// GetByID retrieves a donor by ID
func (r *DonorRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Donor, error) {
	query := `SELECT ` + donorColumns + ` FROM donors WHERE id = $1`

	d, err := scanDonor(GetExecutor(ctx, r.db).QueryRowContext(ctx, query, id))
	if err != nil {
		return nil, classifyError(fmt.Sprintf("get donor %s", id), err)
	}
	return d, nil
}

// List returns donors newest first
func (r *DonorRepository) List(ctx context.Context, limit, offset int) ([]*models.Donor, error) {
	query := `SELECT ` + donorColumns + ` FROM donors ORDER BY created_at DESC LIMIT $1 OFFSET $2`

	rows, err := GetExecutor(ctx, r.db).QueryContext(ctx, query, limit, offset)
	if err != nil {
		return nil, classifyError("list donors", err)
	}
	defer rows.Close()

	donors := make([]*models.Donor, 0)
	for rows.Next() {
		d, err := scanDonor(rows)
		if err != nil {
			return nil, classifyError("scan donor", err)
		}
		donors = append(donors, d)
	}
	if err := rows.Err(); err != nil {
		return nil, classifyError("list donors", err)
	}
	return donors, nil
}

// Delete deletes a donor
func (r *DonorRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := GetExecutor(ctx, r.db).ExecContext(ctx, `DELETE FROM donors WHERE id = $1`, id)
	if err != nil {
		return classifyError("delete donor", err)
	}
	return expectAffected(fmt.Sprintf("delete donor %s", id), result)
}

// CountAll counts every donor
func (r *DonorRepository) CountAll(ctx context.Context) (int, error) {
	return count(ctx, r.db, "count donors", `SELECT COUNT(*) FROM donors`)
}

func scanDonor(row scanner) (*models.Donor, error) {
	d := &models.Donor{}
	if err := row.Scan(&d.ID, &d.FullName, &d.Email, &d.Phone, &d.IsActive, &d.CreatedAt); err != nil {
		return nil, err
	}
	return d, nil
}
