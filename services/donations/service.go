// Package donations implements the donation ledger and receipt handling.
package donations

import (
	"context"
	"io"
	"strings"

	"github.com/google/uuid"
	"github.com/psf-initiatives/admin-api/models"
	"github.com/psf-initiatives/admin-api/repositories"
	"github.com/psf-initiatives/admin-api/services"
	"github.com/psf-initiatives/admin-api/services/receipts"
	"github.com/psf-initiatives/admin-api/utils"
	"go.uber.org/zap"
)

// Listing bounds
const (
	DefaultLimit = 100
	MaxLimit     = 1000
)

// CreateInput describes a donation submitted from the public site
type CreateInput struct {
	Title       string
	DonorName   string
	DonorEmail  string
	DonorPhone  string
	Amount      float64
	IsAnonymous bool
	Message     *string
}

// UpdateInput is a partial update. Nil fields are left unchanged.
type UpdateInput struct {
	Title            *string
	DonorName        *string
	DonorEmail       *string
	DonorPhone       *string
	Amount           *float64
	IsAnonymous      *bool
	Message          *string
	Status           *string
	PaymentReference *string
}

// ListQuery selects a page of donations
type ListQuery struct {
	Skip  int
	Limit int
	Title string
}

// Page is one page of donations
type Page struct {
	Donations []*models.Donation `json:"donations"`
	Total     int                `json:"total"`
	Page      int                `json:"page"`
	Limit     int                `json:"limit"`
}

// ReceiptUpload is a receipt file attached to a donation
type ReceiptUpload struct {
	DonationID  string
	ContentType string
	Size        int64
	Body        io.Reader
}

// ReceiptResult describes a stored receipt
type ReceiptResult struct {
	Filename   string `json:"filename"`
	ReceiptURL string `json:"receipt_url"`
	DonationID string `json:"donation_id"`
	PublicID   string `json:"cloudinary_public_id"`
}

// Service implements donation operations
type Service struct {
	donations   repositories.DonationRepository
	txMgr       repositories.TransactionManager
	storage     receipts.Storage
	phoneRegion string
	logger      *zap.Logger
}

// NewService creates a new donation service.
// Phone numbers without a country code are read in phoneRegion.
func NewService(
	donations repositories.DonationRepository,
	txMgr repositories.TransactionManager,
	storage receipts.Storage,
	phoneRegion string,
	logger *zap.Logger,
) *Service {
	return &Service{
		donations:   donations,
		txMgr:       txMgr,
		storage:     storage,
		phoneRegion: phoneRegion,
		logger:      logger,
	}
}

// Create records a pending donation
func (s *Service) Create(ctx context.Context, in CreateInput) (*models.Donation, error) {
	if in.Amount <= 0 {
		return nil, services.ErrInvalidAmount
	}
	phone, err := s.normalizePhone(in.DonorPhone)
	if err != nil {
		return nil, err
	}

	donation := models.NewDonation(in.Title, in.DonorName, in.DonorEmail, phone, in.Amount)
	donation.IsAnonymous = in.IsAnonymous
	donation.Message = in.Message

	if err := s.donations.Create(ctx, donation); err != nil {
		return nil, services.FromRepository(err, nil, nil)
	}

	s.logger.Info("donation created",
		zap.String("donation_id", donation.ID.String()),
		zap.String("title", donation.Title),
		zap.Float64("amount", donation.Amount),
	)
	return donation, nil
}

// List returns a page of donations, newest first
func (s *Service) List(ctx context.Context, q ListQuery) (*Page, error) {
	if q.Skip < 0 {
		q.Skip = 0
	}
	if q.Limit <= 0 {
		q.Limit = DefaultLimit
	}
	if q.Limit > MaxLimit {
		q.Limit = MaxLimit
	}

	donations, err := s.donations.List(ctx, models.DonationFilter{Title: q.Title, Offset: q.Skip, Limit: q.Limit})
	if err != nil {
		return nil, services.FromRepository(err, nil, nil)
	}
	total, err := s.donations.Count(ctx, q.Title)
	if err != nil {
		return nil, services.FromRepository(err, nil, nil)
	}

	return &Page{
		Donations: donations,
		Total:     total,
		Page:      q.Skip/q.Limit + 1,
		Limit:     q.Limit,
	}, nil
}

// Get returns one donation
func (s *Service) Get(ctx context.Context, id uuid.UUID) (*models.Donation, error) {
	donation, err := s.donations.GetByID(ctx, id)
	if err != nil {
		return nil, services.FromRepository(err, services.ErrDonationNotFound, nil)
	}
	return donation, nil
}

// ListByEmail returns every donation made by email, newest first
func (s *Service) ListByEmail(ctx context.Context, email string) ([]*models.Donation, error) {
	donations, err := s.donations.ListByEmail(ctx, email)
	if err != nil {
		return nil, services.FromRepository(err, nil, nil)
	}
	return donations, nil
}

// Update applies a partial update
func (s *Service) Update(ctx context.Context, id uuid.UUID, in UpdateInput) (*models.Donation, error) {
	return services.WithTransactionResult(ctx, s.txMgr, func(ctx context.Context, tx repositories.Transaction) (*models.Donation, error) {
		donation, err := s.donations.GetByID(ctx, id)
		if err != nil {
			return nil, services.FromRepository(err, services.ErrDonationNotFound, nil)
		}
		if err := s.apply(donation, in); err != nil {
			return nil, err
		}
		if err := s.donations.Update(ctx, donation); err != nil {
			return nil, services.FromRepository(err, services.ErrDonationNotFound, nil)
		}
		return donation, nil
	})
}

// Delete removes a donation
func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.donations.Delete(ctx, id); err != nil {
		return services.FromRepository(err, services.ErrDonationNotFound, nil)
	}
	s.logger.Info("donation deleted", zap.String("donation_id", id.String()))
	return nil
}

// Verify marks a donation completed
func (s *Service) Verify(ctx context.Context, id uuid.UUID) (*models.Donation, error) {
	return s.setStatus(ctx, id, models.DonationStatusCompleted)
}

// Reject marks a donation failed
func (s *Service) Reject(ctx context.Context, id uuid.UUID) (*models.Donation, error) {
	return s.setStatus(ctx, id, models.DonationStatusFailed)
}

// Stats totals completed donations, optionally for one title.
// The average is taken over every donation with that title.
func (s *Service) Stats(ctx context.Context, title string) (*models.DonationStats, error) {
	total, err := s.donations.SumCompleted(ctx, title)
	if err != nil {
		return nil, services.FromRepository(err, nil, nil)
	}
	count, err := s.donations.Count(ctx, title)
	if err != nil {
		return nil, services.FromRepository(err, nil, nil)
	}

	stats := &models.DonationStats{TotalAmount: total, TotalDonations: count}
	if count > 0 {
		stats.AverageDonation = total / float64(count)
	}
	return stats, nil
}

// UploadReceipt stores a receipt and records its URL as the payment reference.
// The upload itself runs outside any transaction.
func (s *Service) UploadReceipt(ctx context.Context, in ReceiptUpload) (*ReceiptResult, error) {
	if s.storage == nil || !s.storage.Configured() {
		return nil, services.ErrStorageNotConfigured
	}
	resource, ok := receipts.ResourceType(in.ContentType)
	if !ok {
		return nil, services.ErrInvalidFileType
	}
	if in.Size > receipts.MaxSize {
		return nil, services.ErrFileTooLarge
	}
	id, err := uuid.Parse(in.DonationID)
	if err != nil {
		return nil, services.ErrInvalidDonationID
	}
	donation, err := s.donations.GetByID(ctx, id)
	if err != nil {
		return nil, services.FromRepository(err, services.ErrDonationNotFound, nil)
	}

	name := receipts.Name(donation.Title)
	stored, err := s.storage.Upload(ctx, receipts.Object{
		PublicID:     receipts.PublicID(name),
		ResourceType: resource,
		Body:         in.Body,
	})
	if err != nil {
		s.logger.Error("receipt upload failed",
			zap.String("donation_id", id.String()),
			zap.Error(err),
		)
		return nil, services.WrapExternal("Failed to upload file to cloud storage: "+err.Error(), err)
	}

	err = services.WithTransaction(ctx, s.txMgr, func(ctx context.Context, tx repositories.Transaction) error {
		current, err := s.donations.GetByID(ctx, id)
		if err != nil {
			return err
		}
		current.PaymentReference = &stored.URL
		return s.donations.Update(ctx, current)
	})
	if err != nil {
		return nil, services.FromRepository(err, services.ErrDonationNotFound, nil)
	}

	s.logger.Info("receipt attached",
		zap.String("donation_id", id.String()),
		zap.String("public_id", stored.PublicID),
	)
	return &ReceiptResult{
		Filename:   name,
		ReceiptURL: stored.URL,
		DonationID: in.DonationID,
		PublicID:   stored.PublicID,
	}, nil
}

func (s *Service) setStatus(ctx context.Context, id uuid.UUID, status models.DonationStatus) (*models.Donation, error) {
	raw := string(status)
	donation, err := s.Update(ctx, id, UpdateInput{Status: &raw})
	if err != nil {
		return nil, err
	}
	s.logger.Info("donation status changed",
		zap.String("donation_id", id.String()),
		zap.String("status", raw),
	)
	return donation, nil
}

func (s *Service) apply(d *models.Donation, in UpdateInput) error {
	if in.Amount != nil {
		if *in.Amount <= 0 {
			return services.ErrInvalidAmount
		}
		d.Amount = *in.Amount
	}
	if in.Status != nil {
		status := models.DonationStatus(strings.ToLower(*in.Status))
		if !status.Valid() {
			return services.ErrInvalidStatus
		}
		d.Status = status
	}
	if in.DonorPhone != nil {
		phone, err := s.normalizePhone(*in.DonorPhone)
		if err != nil {
			return err
		}
		d.DonorPhone = phone
	}
	if in.Title != nil {
		d.Title = *in.Title
	}
	if in.DonorName != nil {
		d.DonorName = *in.DonorName
	}
	if in.DonorEmail != nil {
		d.DonorEmail = *in.DonorEmail
	}
	if in.IsAnonymous != nil {
		d.IsAnonymous = *in.IsAnonymous
	}
	if in.Message != nil {
		d.Message = in.Message
	}
	if in.PaymentReference != nil {
		d.PaymentReference = in.PaymentReference
	}
	return nil
}

// normalizePhone keeps empty numbers empty and formats the rest as E.164
func (s *Service) normalizePhone(raw string) (string, error) {
	if strings.TrimSpace(raw) == "" {
		return "", nil
	}
	phone, err := utils.NormalizePhone(raw, s.phoneRegion)
	if err != nil {
		return "", services.ErrInvalidPhone.Wrap(err)
	}
	return phone, nil
}
