package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/psf-initiatives/admin-api/models"
	"github.com/psf-initiatives/admin-api/repositories"
	"go.uber.org/zap"
)

// bootstrapLockKey identifies the advisory lock taken while creating the first superadmin
const bootstrapLockKey int64 = 0x707366_61646d

const adminColumns = `id, email, full_name, hashed_password, role, is_active, created_at, last_login`

// AdminRepository implements the repositories.AdminRepository interface
type AdminRepository struct {
	db     *DB
	logger *zap.Logger
}

// NewAdminRepository creates a new admin repository
func NewAdminRepository(db *DB, logger *zap.Logger) repositories.AdminRepository {
	return &AdminRepository{
		db:     db,
		logger: logger,
	}
}

// Create creates a new admin
func (r *AdminRepository) Create(ctx context.Context, admin *models.Admin) error {
	query := `
		INSERT INTO admins (` + adminColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	executor := GetExecutor(ctx, r.db)
	_, err := executor.ExecContext(ctx, query,
		admin.ID,
		admin.Email,
		admin.FullName,
		admin.PasswordHash,
		admin.Role,
		admin.IsActive,
		admin.CreatedAt,
		admin.LastLogin,
	)
	if err != nil {
		return classifyError("create admin", err)
	}

	r.logger.Debug("admin created", zap.String("id", admin.ID.String()), zap.String("email", admin.Email))
	return nil
}

// GetByID retrieves an admin by ID
func (r *AdminRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Admin, error) {
	query := `SELECT ` + adminColumns + ` FROM admins WHERE id = $1`

	admin, err := scanAdmin(GetExecutor(ctx, r.db).QueryRowContext(ctx, query, id))
	if err != nil {
		return nil, classifyError(fmt.Sprintf("get admin %s", id), err)
	}
	return admin, nil
}

// GetByEmail retrieves an admin by exact email
func (r *AdminRepository) GetByEmail(ctx context.Context, email string) (*models.Admin, error) {
	query := `SELECT ` + adminColumns + ` FROM admins WHERE email = $1`

	admin, err := scanAdmin(GetExecutor(ctx, r.db).QueryRowContext(ctx, query, email))
	if err != nil {
		return nil, classifyError("get admin by email", err)
	}
	return admin, nil
}

// List returns every admin, oldest first
func (r *AdminRepository) List(ctx context.Context) ([]*models.Admin, error) {
	query := `SELECT ` + adminColumns + ` FROM admins ORDER BY created_at ASC`

	rows, err := GetExecutor(ctx, r.db).QueryContext(ctx, query)
	if err != nil {
		return nil, classifyError("list admins", err)
	}
	defer rows.Close()

	admins := make([]*models.Admin, 0)
	for rows.Next() {
		admin, err := scanAdmin(rows)
		if err != nil {
			return nil, classifyError("scan admin", err)
		}
		admins = append(admins, admin)
	}
	if err := rows.Err(); err != nil {
		return nil, classifyError("iterate admins", err)
	}
	return admins, nil
}

// ExistsByRole reports whether any admin holds role
func (r *AdminRepository) ExistsByRole(ctx context.Context, role models.Role) (bool, error) {
	query := `SELECT EXISTS (SELECT 1 FROM admins WHERE role = $1)`

	var exists bool
	if err := GetExecutor(ctx, r.db).QueryRowContext(ctx, query, role).Scan(&exists); err != nil {
		return false, classifyError("check admin role", err)
	}
	return exists, nil
}

// UpdateLastLogin stamps the login time
func (r *AdminRepository) UpdateLastLogin(ctx context.Context, id uuid.UUID) error {
	query := `UPDATE admins SET last_login = NOW() WHERE id = $1`

	result, err := GetExecutor(ctx, r.db).ExecContext(ctx, query, id)
	if err != nil {
		return classifyError("update last login", err)
	}
	return expectAffected(fmt.Sprintf("update last login %s", id), result)
}

// SetActive changes the active flag
func (r *AdminRepository) SetActive(ctx context.Context, id uuid.UUID, active bool) error {
	query := `UPDATE admins SET is_active = $2 WHERE id = $1`

	result, err := GetExecutor(ctx, r.db).ExecContext(ctx, query, id, active)
	if err != nil {
		return classifyError("set admin active", err)
	}
	if err := expectAffected(fmt.Sprintf("set admin active %s", id), result); err != nil {
		return err
	}

	r.logger.Debug("admin status changed", zap.String("id", id.String()), zap.Bool("is_active", active))
	return nil
}

// Delete deletes an admin
func (r *AdminRepository) Delete(ctx context.Context, id uuid.UUID) error {
	query := `DELETE FROM admins WHERE id = $1`

	result, err := GetExecutor(ctx, r.db).ExecContext(ctx, query, id)
	if err != nil {
		return classifyError("delete admin", err)
	}
	if err := expectAffected(fmt.Sprintf("delete admin %s", id), result); err != nil {
		return err
	}

	r.logger.Debug("admin deleted", zap.String("id", id.String()))
	return nil
}

// LockBootstrap takes a transaction-scoped advisory lock.
// Without a transaction in ctx the lock is released immediately.
func (r *AdminRepository) LockBootstrap(ctx context.Context) error {
	if _, err := GetExecutor(ctx, r.db).ExecContext(ctx, `SELECT pg_advisory_xact_lock($1)`, bootstrapLockKey); err != nil {
		return classifyError("lock superadmin bootstrap", err)
	}
	return nil
}

func scanAdmin(row scanner) (*models.Admin, error) {
	admin := &models.Admin{}
	err := row.Scan(
		&admin.ID,
		&admin.Email,
		&admin.FullName,
		&admin.PasswordHash,
		&admin.Role,
		&admin.IsActive,
		&admin.CreatedAt,
		&admin.LastLogin,
	)
	if err != nil {
		return nil, err
	}
	return admin, nil
}
