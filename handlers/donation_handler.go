package handlers

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/psf-initiatives/admin-api/middleware"
	"github.com/psf-initiatives/admin-api/models"
	"github.com/psf-initiatives/admin-api/services"
	"github.com/psf-initiatives/admin-api/services/donations"
	"github.com/psf-initiatives/admin-api/services/receipts"
	"github.com/psf-initiatives/admin-api/utils"
	"go.uber.org/zap"
)

// multipartOverhead allows for form fields and boundaries around the receipt
const multipartOverhead = 1 << 20

// CreateDonationRequest is the body of POST /donations/
type CreateDonationRequest struct {
	Title       string  `json:"title" validate:"required"`
	DonorName   string  `json:"donor_name" validate:"required"`
	DonorEmail  string  `json:"donor_email" validate:"required,email"`
	DonorPhone  string  `json:"donor_phone"`
	Amount      float64 `json:"amount"`
	IsAnonymous bool    `json:"is_anonymous"`
	Message     *string `json:"message,omitempty"`
}

// UpdateDonationRequest is the body of PUT /donations/{id}. Omitted fields are unchanged.
type UpdateDonationRequest struct {
	Title            *string  `json:"title,omitempty"`
	DonorName        *string  `json:"donor_name,omitempty"`
	DonorEmail       *string  `json:"donor_email,omitempty" validate:"omitempty,email"`
	DonorPhone       *string  `json:"donor_phone,omitempty"`
	Amount           *float64 `json:"amount,omitempty"`
	IsAnonymous      *bool    `json:"is_anonymous,omitempty"`
	Message          *string  `json:"message,omitempty"`
	Status           *string  `json:"status,omitempty"`
	PaymentReference *string  `json:"payment_reference,omitempty"`
}

type donationsByEmail struct {
	Donations []*models.Donation `json:"donations"`
	Total     int                `json:"total"`
}

type donationStatus struct {
	DonationID string                `json:"donation_id"`
	Status     models.DonationStatus `json:"status"`
}

// DonationHandler handles donation requests
type DonationHandler struct {
	service *donations.Service
	logger  *zap.Logger
}

// NewDonationHandler creates a new DonationHandler
func NewDonationHandler(service *donations.Service, logger *zap.Logger) *DonationHandler {
	return &DonationHandler{
		service: service,
		logger:  logger,
	}
}

// HandleCreate handles POST /donations/
func (h *DonationHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var req CreateDonationRequest
	if err := decodeJSON(w, r, &req); err != nil {
		HandleServiceError(w, err, h.logger)
		return
	}

	donation, err := h.service.Create(r.Context(), donations.CreateInput{
		Title:       req.Title,
		DonorName:   req.DonorName,
		DonorEmail:  req.DonorEmail,
		DonorPhone:  req.DonorPhone,
		Amount:      req.Amount,
		IsAnonymous: req.IsAnonymous,
		Message:     req.Message,
	})
	if err != nil {
		HandleServiceError(w, err, h.logger)
		return
	}
	_ = utils.WriteCreated(w, "Donation created successfully", donation)
}

// HandleUploadReceipt handles POST /donations/upload-receipt
func (h *DonationHandler) HandleUploadReceipt(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, receipts.MaxSize+multipartOverhead)
	if err := r.ParseMultipartForm(receipts.MaxSize); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			HandleServiceError(w, services.ErrFileTooLarge, h.logger)
			return
		}
		_ = utils.WriteBadRequest(w, "Invalid multipart form", nil)
		return
	}
	defer func() {
		if r.MultipartForm != nil {
			_ = r.MultipartForm.RemoveAll()
		}
	}()

	file, header, err := r.FormFile("receipt")
	if err != nil {
		_ = utils.WriteBadRequest(w, "Receipt file is required", map[string]string{"receipt": "required"})
		return
	}
	defer file.Close()

	result, err := h.service.UploadReceipt(r.Context(), donations.ReceiptUpload{
		DonationID:  r.FormValue("donation_id"),
		ContentType: header.Header.Get("Content-Type"),
		Size:        header.Size,
		Body:        file,
	})
	if err != nil {
		HandleServiceError(w, err, h.logger)
		return
	}
	_ = utils.WriteOK(w, "Receipt uploaded successfully", result)
}

// HandleList handles GET /donations/
func (h *DonationHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	skip, limit := pagination(r)
	page, err := h.service.List(r.Context(), donations.ListQuery{
		Skip:  skip,
		Limit: limit,
		Title: r.URL.Query().Get("title"),
	})
	if err != nil {
		HandleServiceError(w, err, h.logger)
		return
	}
	_ = utils.WriteOK(w, "Donations retrieved successfully", page)
}

// HandleGet handles GET /donations/{id}
func (h *DonationHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "donation")
	if !ok {
		return
	}
	donation, err := h.service.Get(r.Context(), id)
	if err != nil {
		HandleServiceError(w, err, h.logger)
		return
	}
	_ = utils.WriteOK(w, "Donation retrieved successfully", donation)
}

// HandleUpdate handles PUT /donations/{id}
func (h *DonationHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "donation")
	if !ok {
		return
	}
	var req UpdateDonationRequest
	if err := decodeJSON(w, r, &req); err != nil {
		HandleServiceError(w, err, h.logger)
		return
	}

	donation, err := h.service.Update(r.Context(), id, donations.UpdateInput{
		Title:            req.Title,
		DonorName:        req.DonorName,
		DonorEmail:       req.DonorEmail,
		DonorPhone:       req.DonorPhone,
		Amount:           req.Amount,
		IsAnonymous:      req.IsAnonymous,
		Message:          req.Message,
		Status:           req.Status,
		PaymentReference: req.PaymentReference,
	})
	if err != nil {
		HandleServiceError(w, err, h.logger)
		return
	}
	_ = utils.WriteOK(w, "Donation updated successfully", donation)
}

// HandleDelete handles DELETE /donations/{id}
func (h *DonationHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "donation")
	if !ok {
		return
	}
	if err := h.service.Delete(r.Context(), id); err != nil {
		HandleServiceError(w, err, h.logger)
		return
	}
	_ = utils.WriteOK(w, "Donation deleted successfully", nil)
}

// HandleListByEmail handles GET /donations/email/{email}
func (h *DonationHandler) HandleListByEmail(w http.ResponseWriter, r *http.Request) {
	list, err := h.service.ListByEmail(r.Context(), chi.URLParam(r, "email"))
	if err != nil {
		HandleServiceError(w, err, h.logger)
		return
	}
	_ = utils.WriteOK(w, "Donations retrieved successfully", donationsByEmail{Donations: list, Total: len(list)})
}

// HandleStats handles GET /donations/stats/total
func (h *DonationHandler) HandleStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.service.Stats(r.Context(), r.URL.Query().Get("title"))
	if err != nil {
		HandleServiceError(w, err, h.logger)
		return
	}
	_ = utils.WriteOK(w, "Donation statistics retrieved successfully", stats)
}

// HandleVerify handles POST /donations/{id}/verify
func (h *DonationHandler) HandleVerify(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "donation")
	if !ok {
		return
	}
	donation, err := h.service.Verify(r.Context(), id)
	if err != nil {
		HandleServiceError(w, err, h.logger)
		return
	}
	_ = utils.WriteOK(w, "Donation verified successfully", donationStatus{DonationID: donation.ID.String(), Status: donation.Status})
}

// HandleReject handles POST /donations/{id}/reject
func (h *DonationHandler) HandleReject(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "donation")
	if !ok {
		return
	}
	donation, err := h.service.Reject(r.Context(), id)
	if err != nil {
		HandleServiceError(w, err, h.logger)
		return
	}
	_ = utils.WriteOK(w, "Donation rejected", donationStatus{DonationID: donation.ID.String(), Status: donation.Status})
}

// HandleExport handles GET /donations/export
func (h *DonationHandler) HandleExport(w http.ResponseWriter, r *http.Request) {
	title := r.URL.Query().Get("title")
	body, err := h.service.Export(r.Context(), title)
	if err != nil {
		HandleServiceError(w, err, h.logger)
		return
	}

	h.logger.Debug("donations exported",
		zap.String("request_id", middleware.GetRequestIDFromContext(r.Context())),
		zap.Int("bytes", len(body)))

	w.Header().Set("Content-Type", donations.ExportContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, donations.ExportFilename(title)))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(body)
}
