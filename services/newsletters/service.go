// Package newsletters composes newsletters and delivers them to subscribers.
package newsletters

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/psf-initiatives/admin-api/models"
	"github.com/psf-initiatives/admin-api/repositories"
	"github.com/psf-initiatives/admin-api/services"
	"go.uber.org/zap"
)

// CreateInput describes a new newsletter
type CreateInput struct {
	Subject     string
	Content     string
	HTMLContent *string
	ScheduledAt *time.Time
}

// UpdateInput is a partial update. Nil fields are left unchanged.
type UpdateInput struct {
	Subject     *string
	Content     *string
	HTMLContent *string
	ScheduledAt *time.Time
}

// SendResult reports a delivery run
type SendResult struct {
	Newsletter *models.Newsletter `json:"newsletter"`
	Recipients int                `json:"recipients"`
	Failed     int                `json:"failed"`
}

// Service implements newsletter operations
type Service struct {
	newsletters repositories.NewsletterRepository
	subscribers repositories.SubscriberRepository
	txMgr       repositories.TransactionManager
	mailer      Mailer
	logger      *zap.Logger
	now         func() time.Time
}

// NewService creates a new newsletter service
func NewService(
	newsletters repositories.NewsletterRepository,
	subscribers repositories.SubscriberRepository,
	txMgr repositories.TransactionManager,
	mailer Mailer,
	logger *zap.Logger,
) *Service {
	return &Service{
		newsletters: newsletters,
		subscribers: subscribers,
		txMgr:       txMgr,
		mailer:      mailer,
		logger:      logger,
		now:         func() time.Time { return time.Now().UTC() },
	}
}

// Create stores a draft, or a scheduled newsletter when a time is given
func (s *Service) Create(ctx context.Context, in CreateInput, createdBy *uuid.UUID) (*models.Newsletter, error) {
	n := models.NewNewsletter(in.Subject, in.Content, in.HTMLContent, in.ScheduledAt, createdBy)
	if err := s.newsletters.Create(ctx, n); err != nil {
		return nil, services.FromRepository(err, nil, nil)
	}
	s.logger.Info("newsletter created",
		zap.String("newsletter_id", n.ID.String()),
		zap.String("status", string(n.Status)),
	)
	return n, nil
}

// List returns a page of newsletters, newest first
func (s *Service) List(ctx context.Context, skip, limit int) ([]*models.Newsletter, error) {
	list, err := s.newsletters.List(ctx, limit, skip)
	if err != nil {
		return nil, services.FromRepository(err, nil, nil)
	}
	return list, nil
}

// Get returns one newsletter
func (s *Service) Get(ctx context.Context, id uuid.UUID) (*models.Newsletter, error) {
	n, err := s.newsletters.GetByID(ctx, id)
	if err != nil {
		return nil, services.FromRepository(err, services.ErrNewsletterNotFound, nil)
	}
	return n, nil
}

// Update edits a newsletter that has not been sent
func (s *Service) Update(ctx context.Context, id uuid.UUID, in UpdateInput) (*models.Newsletter, error) {
	return services.WithTransactionResult(ctx, s.txMgr, func(ctx context.Context, tx repositories.Transaction) (*models.Newsletter, error) {
		n, err := s.newsletters.GetByID(ctx, id)
		if err != nil {
			return nil, services.FromRepository(err, services.ErrNewsletterNotFound, nil)
		}
		if n.IsSent() {
			return nil, services.ErrNewsletterSent
		}
		if n.IsSending() {
			return nil, services.ErrNewsletterSending
		}
		if in.Subject != nil {
			n.Subject = *in.Subject
		}
		if in.Content != nil {
			n.Content = *in.Content
		}
		if in.HTMLContent != nil {
			n.HTMLContent = in.HTMLContent
		}
		if in.ScheduledAt != nil {
			n.Reschedule(in.ScheduledAt)
		}
		if err := s.newsletters.Update(ctx, n); err != nil {
			return nil, services.FromRepository(err, services.ErrNewsletterNotFound, nil)
		}
		return n, nil
	})
}

// Delete removes a newsletter
func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.newsletters.Delete(ctx, id); err != nil {
		return services.FromRepository(err, services.ErrNewsletterNotFound, nil)
	}
	return nil
}

// Send delivers the newsletter to every active subscriber, one message each,
// and marks it sent. Individual delivery failures are counted, not fatal,
// unless every delivery fails. The row is claimed before any mail goes out,
// so a newsletter is delivered at most once.
func (s *Service) Send(ctx context.Context, id uuid.UUID) (*SendResult, error) {
	n, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if n.IsSent() {
		return nil, services.ErrNewsletterSent
	}
	if n.IsSending() {
		return nil, services.ErrNewsletterSending
	}

	claimed, err := s.newsletters.ClaimForSend(ctx, id)
	if err != nil {
		return nil, services.FromRepository(err, services.ErrNewsletterNotFound, nil)
	}
	if !claimed {
		return nil, services.ErrNewsletterSending
	}

	recipients, failed, err := s.deliver(ctx, n)
	if err != nil {
		s.release(ctx, id, n.Status)
		return nil, err
	}

	sent, err := services.WithTransactionResult(ctx, s.txMgr, func(ctx context.Context, tx repositories.Transaction) (*models.Newsletter, error) {
		current, err := s.newsletters.GetByID(ctx, id)
		if err != nil {
			return nil, services.FromRepository(err, services.ErrNewsletterNotFound, nil)
		}
		current.MarkSent(s.now())
		if err := s.newsletters.Update(ctx, current); err != nil {
			return nil, services.FromRepository(err, services.ErrNewsletterNotFound, nil)
		}
		return current, nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("newsletter sent",
		zap.String("newsletter_id", id.String()),
		zap.Int("recipients", recipients-failed),
		zap.Int("failed", failed),
	)
	return &SendResult{Newsletter: sent, Recipients: recipients - failed, Failed: failed}, nil
}

// deliver mails every active subscriber and returns the recipient and failure counts
func (s *Service) deliver(ctx context.Context, n *models.Newsletter) (int, int, error) {
	recipients, err := s.subscribers.ActiveEmails(ctx)
	if err != nil {
		return 0, 0, services.FromRepository(err, nil, nil)
	}

	msg := Message{Subject: n.Subject, Text: n.Content}
	if n.HTMLContent != nil {
		msg.HTML = *n.HTMLContent
	}

	failed := 0
	for _, to := range recipients {
		if ctx.Err() != nil {
			return 0, 0, services.WrapExternal("Newsletter delivery interrupted", ctx.Err())
		}
		msg.To = to
		if err := s.mailer.Send(ctx, msg); err != nil {
			failed++
			s.logger.Warn("newsletter delivery failed",
				zap.String("newsletter_id", n.ID.String()),
				zap.String("to", to),
				zap.Error(err),
			)
		}
	}
	if len(recipients) > 0 && failed == len(recipients) {
		return 0, 0, services.WrapExternal("Failed to send newsletter", nil)
	}
	return len(recipients), failed, nil
}

// release hands a claimed newsletter back after a failed run
func (s *Service) release(ctx context.Context, id uuid.UUID, status models.NewsletterStatus) {
	if err := s.newsletters.ReleaseSend(context.WithoutCancel(ctx), id, status); err != nil {
		s.logger.Error("failed to release newsletter",
			zap.String("newsletter_id", id.String()),
			zap.Error(err),
		)
	}
}
