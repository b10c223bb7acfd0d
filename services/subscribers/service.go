// Package subscribers manages the newsletter mailing list.
package subscribers

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/psf-initiatives/admin-api/models"
	"github.com/psf-initiatives/admin-api/repositories"
	"github.com/psf-initiatives/admin-api/services"
	"go.uber.org/zap"
)

// Outcome reports what Subscribe did
type Outcome int

const (
	Subscribed Outcome = iota
	Resubscribed
)

// UpdateInput is a partial update. Nil fields are left unchanged.
type UpdateInput struct {
	FullName *string
	IsActive *bool
}

// Service implements mailing list operations
type Service struct {
	subscribers repositories.SubscriberRepository
	txMgr       repositories.TransactionManager
	logger      *zap.Logger
	now         func() time.Time
}

// NewService creates a new subscriber service
func NewService(subscribers repositories.SubscriberRepository, txMgr repositories.TransactionManager, logger *zap.Logger) *Service {
	return &Service{
		subscribers: subscribers,
		txMgr:       txMgr,
		logger:      logger,
		now:         func() time.Time { return time.Now().UTC() },
	}
}

// Subscribe adds email to the list, reactivating it when it had unsubscribed
func (s *Service) Subscribe(ctx context.Context, email string, fullName *string) (*models.Subscriber, Outcome, error) {
	var outcome Outcome
	sub, err := services.WithTransactionResult(ctx, s.txMgr, func(ctx context.Context, tx repositories.Transaction) (*models.Subscriber, error) {
		existing, err := s.subscribers.GetByEmail(ctx, email)
		switch {
		case err == nil:
			if existing.IsActive {
				return nil, services.ErrAlreadySubscribed
			}
			existing.Activate(s.now())
			if fullName != nil {
				existing.FullName = fullName
			}
			outcome = Resubscribed
			return existing, s.subscribers.Update(ctx, existing)
		case errors.Is(err, repositories.ErrNotFound):
			sub := models.NewSubscriber(email, fullName)
			outcome = Subscribed
			return sub, s.subscribers.Create(ctx, sub)
		default:
			return nil, err
		}
	})
	if err != nil {
		return nil, outcome, services.FromRepository(err, services.ErrSubscriberNotFound, services.ErrAlreadySubscribed)
	}

	s.logger.Info("subscriber added",
		zap.String("subscriber_id", sub.ID.String()),
		zap.Bool("resubscribed", outcome == Resubscribed),
	)
	return sub, outcome, nil
}

// Unsubscribe stops delivery to email
func (s *Service) Unsubscribe(ctx context.Context, email string) error {
	err := services.WithTransaction(ctx, s.txMgr, func(ctx context.Context, tx repositories.Transaction) error {
		sub, err := s.subscribers.GetByEmail(ctx, email)
		if err != nil {
			return services.FromRepository(err, services.ErrSubscriptionNotFound, nil)
		}
		if !sub.IsActive {
			return services.ErrAlreadyUnsubscribed
		}
		sub.Deactivate(s.now())
		return s.subscribers.Update(ctx, sub)
	})
	return services.FromRepository(err, services.ErrSubscriptionNotFound, nil)
}

// List returns subscribers newest first
func (s *Service) List(ctx context.Context, activeOnly bool, skip, limit int) ([]*models.Subscriber, error) {
	subs, err := s.subscribers.List(ctx, activeOnly, limit, skip)
	if err != nil {
		return nil, services.FromRepository(err, nil, nil)
	}
	return subs, nil
}

// Get returns one subscriber
func (s *Service) Get(ctx context.Context, id uuid.UUID) (*models.Subscriber, error) {
	sub, err := s.subscribers.GetByID(ctx, id)
	if err != nil {
		return nil, services.FromRepository(err, services.ErrSubscriberNotFound, nil)
	}
	return sub, nil
}

// Update changes the name or the active flag. Deactivating stamps
// unsubscribed_at and reactivating clears it.
func (s *Service) Update(ctx context.Context, id uuid.UUID, in UpdateInput) (*models.Subscriber, error) {
	return services.WithTransactionResult(ctx, s.txMgr, func(ctx context.Context, tx repositories.Transaction) (*models.Subscriber, error) {
		sub, err := s.subscribers.GetByID(ctx, id)
		if err != nil {
			return nil, services.FromRepository(err, services.ErrSubscriberNotFound, nil)
		}
		if in.FullName != nil {
			sub.FullName = in.FullName
		}
		if in.IsActive != nil {
			if *in.IsActive {
				sub.IsActive = true
				sub.UnsubscribedAt = nil
			} else {
				sub.Deactivate(s.now())
			}
		}
		if err := s.subscribers.Update(ctx, sub); err != nil {
			return nil, services.FromRepository(err, services.ErrSubscriberNotFound, nil)
		}
		return sub, nil
	})
}

// Delete removes a subscriber
func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.subscribers.Delete(ctx, id); err != nil {
		return services.FromRepository(err, services.ErrSubscriberNotFound, nil)
	}
	return nil
}

// Stats summarizes the list
func (s *Service) Stats(ctx context.Context) (*models.SubscriberStats, error) {
	total, err := s.subscribers.CountAll(ctx)
	if err != nil {
		return nil, services.FromRepository(err, nil, nil)
	}
	active, err := s.subscribers.CountActive(ctx)
	if err != nil {
		return nil, services.FromRepository(err, nil, nil)
	}
	return &models.SubscriberStats{
		TotalSubscribers:    total,
		ActiveSubscribers:   active,
		InactiveSubscribers: total - active,
	}, nil
}
