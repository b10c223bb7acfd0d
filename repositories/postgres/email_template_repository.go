package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/psf-initiatives/admin-api/models"
	"github.com/psf-initiatives/admin-api/repositories"
	"go.uber.org/zap"
)

const emailTemplateColumns = `id, name, subject, html_content, text_content, template_type, is_active, created_at, updated_at`

// EmailTemplateRepository implements the repositories.EmailTemplateRepository interface
type EmailTemplateRepository struct {
	db     *DB
	logger *zap.Logger
}

// NewEmailTemplateRepository creates a new email template repository
func NewEmailTemplateRepository(db *DB, logger *zap.Logger) repositories.EmailTemplateRepository {
	return &EmailTemplateRepository{
		db:     db,
		logger: logger,
	}
}

// Create creates a new email template
func (r *EmailTemplateRepository) Create(ctx context.Context, t *models.EmailTemplate) error {
	query := `
		INSERT INTO email_templates (` + emailTemplateColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	_, err := GetExecutor(ctx, r.db).ExecContext(ctx, query,
		t.ID,
		t.Name,
		t.Subject,
		t.HTMLContent,
		t.TextContent,
		t.TemplateType,
		t.IsActive,
		t.CreatedAt,
		t.UpdatedAt,
	)
	if err != nil {
		return classifyError("create email template", err)
	}

	r.logger.Debug("email template created", zap.String("id", t.ID.String()), zap.String("name", t.Name))
	return nil
}

// GetByID retrieves an email template by ID
func (r *EmailTemplateRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.EmailTemplate, error) {
	query := `SELECT ` + emailTemplateColumns + ` FROM email_templates WHERE id = $1`

	t, err := scanEmailTemplate(GetExecutor(ctx, r.db).QueryRowContext(ctx, query, id))
	if err != nil {
		return nil, classifyError(fmt.Sprintf("get email template %s", id), err)
	}
	return t, nil
}

// List returns every template ordered by name
func (r *EmailTemplateRepository) List(ctx context.Context) ([]*models.EmailTemplate, error) {
	query := `SELECT ` + emailTemplateColumns + ` FROM email_templates ORDER BY name ASC`

	rows, err := GetExecutor(ctx, r.db).QueryContext(ctx, query)
	if err != nil {
		return nil, classifyError("list email templates", err)
	}
	defer rows.Close()

	templates := make([]*models.EmailTemplate, 0)
	for rows.Next() {
		t, err := scanEmailTemplate(rows)
		if err != nil {
			return nil, classifyError("scan email template", err)
		}
		templates = append(templates, t)
	}
	if err := rows.Err(); err != nil {
		return nil, classifyError("list email templates", err)
	}
	return templates, nil
}

// Update writes every mutable column and bumps updated_at
func (r *EmailTemplateRepository) Update(ctx context.Context, t *models.EmailTemplate) error {
	query := `
		UPDATE email_templates
		SET name = $2, subject = $3, html_content = $4, text_content = $5,
			template_type = $6, is_active = $7, updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at
	`

	err := GetExecutor(ctx, r.db).QueryRowContext(ctx, query,
		t.ID,
		t.Name,
		t.Subject,
		t.HTMLContent,
		t.TextContent,
		t.TemplateType,
		t.IsActive,
	).Scan(&t.UpdatedAt)
	if err != nil {
		return classifyError(fmt.Sprintf("update email template %s", t.ID), err)
	}
	return nil
}

// Delete deletes an email template
func (r *EmailTemplateRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := GetExecutor(ctx, r.db).ExecContext(ctx, `DELETE FROM email_templates WHERE id = $1`, id)
	if err != nil {
		return classifyError("delete email template", err)
	}
	return expectAffected(fmt.Sprintf("delete email template %s", id), result)
}

func scanEmailTemplate(row scanner) (*models.EmailTemplate, error) {
	t := &models.EmailTemplate{}
	err := row.Scan(
		&t.ID,
		&t.Name,
		&t.Subject,
		&t.HTMLContent,
		&t.TextContent,
		&t.TemplateType,
		&t.IsActive,
		&t.CreatedAt,
		&t.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return t, nil
}
