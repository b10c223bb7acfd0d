package handlers

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/psf-initiatives/admin-api/middleware"
	"github.com/psf-initiatives/admin-api/services/newsletters"
	"github.com/psf-initiatives/admin-api/utils"
	"go.uber.org/zap"
)

// CreateNewsletterRequest is the body of POST /newsletters/
type CreateNewsletterRequest struct {
	Subject     string     `json:"subject" validate:"required"`
	Content     string     `json:"content" validate:"required"`
	HTMLContent *string    `json:"html_content,omitempty"`
	ScheduledAt *time.Time `json:"scheduled_at,omitempty"`
}

// UpdateNewsletterRequest is the body of PUT /newsletters/{id}
type UpdateNewsletterRequest struct {
	Subject     *string    `json:"subject,omitempty"`
	Content     *string    `json:"content,omitempty"`
	HTMLContent *string    `json:"html_content,omitempty"`
	ScheduledAt *time.Time `json:"scheduled_at,omitempty"`
}

// NewsletterHandler handles newsletter requests
type NewsletterHandler struct {
	service *newsletters.Service
	logger  *zap.Logger
}

// NewNewsletterHandler creates a new NewsletterHandler
func NewNewsletterHandler(service *newsletters.Service, logger *zap.Logger) *NewsletterHandler {
	return &NewsletterHandler{service: service, logger: logger}
}

// HandleCreate handles POST /newsletters/
func (h *NewsletterHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var req CreateNewsletterRequest
	if err := decodeJSON(w, r, &req); err != nil {
		HandleServiceError(w, err, h.logger)
		return
	}

	var createdBy *uuid.UUID
	if admin := middleware.GetPrincipalFromContext(r.Context()); admin != nil {
		id := admin.ID
		createdBy = &id
	}

	n, err := h.service.Create(r.Context(), newsletters.CreateInput{
		Subject:     req.Subject,
		Content:     req.Content,
		HTMLContent: req.HTMLContent,
		ScheduledAt: req.ScheduledAt,
	}, createdBy)
	if err != nil {
		HandleServiceError(w, err, h.logger)
		return
	}
	_ = utils.WriteCreated(w, "Newsletter created successfully", n)
}

// HandleList handles GET /newsletters/
func (h *NewsletterHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	skip, limit := pagination(r)
	list, err := h.service.List(r.Context(), skip, limit)
	if err != nil {
		HandleServiceError(w, err, h.logger)
		return
	}
	_ = utils.WriteOK(w, "Newsletters retrieved successfully", list)
}

// HandleGet handles GET /newsletters/{id}
func (h *NewsletterHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "newsletter")
	if !ok {
		return
	}
	n, err := h.service.Get(r.Context(), id)
	if err != nil {
		HandleServiceError(w, err, h.logger)
		return
	}
	_ = utils.WriteOK(w, "Newsletter retrieved successfully", n)
}

// HandleUpdate handles PUT /newsletters/{id}
func (h *NewsletterHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "newsletter")
	if !ok {
		return
	}
	var req UpdateNewsletterRequest
	if err := decodeJSON(w, r, &req); err != nil {
		HandleServiceError(w, err, h.logger)
		return
	}

	n, err := h.service.Update(r.Context(), id, newsletters.UpdateInput{
		Subject:     req.Subject,
		Content:     req.Content,
		HTMLContent: req.HTMLContent,
		ScheduledAt: req.ScheduledAt,
	})
	if err != nil {
		HandleServiceError(w, err, h.logger)
		return
	}
	_ = utils.WriteOK(w, "Newsletter updated successfully", n)
}

// HandleDelete handles DELETE /newsletters/{id}
func (h *NewsletterHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "newsletter")
	if !ok {
		return
	}
	if err := h.service.Delete(r.Context(), id); err != nil {
		HandleServiceError(w, err, h.logger)
		return
	}
	_ = utils.WriteOK(w, "Newsletter deleted successfully", nil)
}

// HandleSend handles POST /newsletters/{id}/send
func (h *NewsletterHandler) HandleSend(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "newsletter")
	if !ok {
		return
	}
	result, err := h.service.Send(r.Context(), id)
	if err != nil {
		HandleServiceError(w, err, h.logger)
		return
	}
	_ = utils.WriteOK(w, "Newsletter sent successfully", result)
}
