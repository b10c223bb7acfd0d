// Package templates manages reusable email templates.
package templates

import (
	"context"

	"github.com/google/uuid"
	"github.com/psf-initiatives/admin-api/models"
	"github.com/psf-initiatives/admin-api/repositories"
	"github.com/psf-initiatives/admin-api/services"
	"go.uber.org/zap"
)

// DefaultType is used when a template is created without a type
const DefaultType = "newsletter"

// CreateInput describes a new template
type CreateInput struct {
	Name         string
	Subject      string
	HTMLContent  string
	TextContent  *string
	TemplateType string
	IsActive     *bool
}

// UpdateInput is a partial update. Nil fields are left unchanged.
type UpdateInput struct {
	Name         *string
	Subject      *string
	HTMLContent  *string
	TextContent  *string
	TemplateType *string
	IsActive     *bool
}

// Service implements email template operations
type Service struct {
	templates repositories.EmailTemplateRepository
	txMgr     repositories.TransactionManager
	logger    *zap.Logger
}

// NewService creates a new template service
func NewService(templates repositories.EmailTemplateRepository, txMgr repositories.TransactionManager, logger *zap.Logger) *Service {
	return &Service{templates: templates, txMgr: txMgr, logger: logger}
}

// Create stores a template. Names are unique.
func (s *Service) Create(ctx context.Context, in CreateInput) (*models.EmailTemplate, error) {
	kind := in.TemplateType
	if kind == "" {
		kind = DefaultType
	}
	t := models.NewEmailTemplate(in.Name, in.Subject, in.HTMLContent, in.TextContent, kind)
	if in.IsActive != nil {
		t.IsActive = *in.IsActive
	}
	if err := s.templates.Create(ctx, t); err != nil {
		return nil, services.FromRepository(err, nil, services.ErrTemplateNameTaken)
	}
	s.logger.Info("email template created", zap.String("template_id", t.ID.String()), zap.String("name", t.Name))
	return t, nil
}

// List returns every template ordered by name
func (s *Service) List(ctx context.Context) ([]*models.EmailTemplate, error) {
	list, err := s.templates.List(ctx)
	if err != nil {
		return nil, services.FromRepository(err, nil, nil)
	}
	return list, nil
}

// Get returns one template
func (s *Service) Get(ctx context.Context, id uuid.UUID) (*models.EmailTemplate, error) {
	t, err := s.templates.GetByID(ctx, id)
	if err != nil {
		return nil, services.FromRepository(err, services.ErrTemplateNotFound, nil)
	}
	return t, nil
}

// Update applies a partial update
func (s *Service) Update(ctx context.Context, id uuid.UUID, in UpdateInput) (*models.EmailTemplate, error) {
	return services.WithTransactionResult(ctx, s.txMgr, func(ctx context.Context, tx repositories.Transaction) (*models.EmailTemplate, error) {
		t, err := s.templates.GetByID(ctx, id)
		if err != nil {
			return nil, services.FromRepository(err, services.ErrTemplateNotFound, nil)
		}
		if in.Name != nil {
			t.Name = *in.Name
		}
		if in.Subject != nil {
			t.Subject = *in.Subject
		}
		if in.HTMLContent != nil {
			t.HTMLContent = *in.HTMLContent
		}
		if in.TextContent != nil {
			t.TextContent = in.TextContent
		}
		if in.TemplateType != nil {
			t.TemplateType = *in.TemplateType
		}
		if in.IsActive != nil {
			t.IsActive = *in.IsActive
		}
		if err := s.templates.Update(ctx, t); err != nil {
			return nil, services.FromRepository(err, services.ErrTemplateNotFound, services.ErrTemplateNameTaken)
		}
		return t, nil
	})
}

// Delete removes a template
func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.templates.Delete(ctx, id); err != nil {
		return services.FromRepository(err, services.ErrTemplateNotFound, nil)
	}
	return nil
}
