package handlers

import (
	"net/http"

	"github.com/psf-initiatives/admin-api/services/templates"
	"github.com/psf-initiatives/admin-api/utils"
	"go.uber.org/zap"
)

// CreateTemplateRequest is the body of POST /email-templates/
type CreateTemplateRequest struct {
	Name         string  `json:"name" validate:"required"`
	Subject      string  `json:"subject" validate:"required"`
	HTMLContent  string  `json:"html_content" validate:"required"`
	TextContent  *string `json:"text_content,omitempty"`
	TemplateType string  `json:"template_type,omitempty"`
	IsActive     *bool   `json:"is_active,omitempty"`
}

// UpdateTemplateRequest is the body of PUT /email-templates/{id}
type UpdateTemplateRequest struct {
	Name         *string `json:"name,omitempty" validate:"omitempty,min=1"`
	Subject      *string `json:"subject,omitempty"`
	HTMLContent  *string `json:"html_content,omitempty"`
	TextContent  *string `json:"text_content,omitempty"`
	TemplateType *string `json:"template_type,omitempty"`
	IsActive     *bool   `json:"is_active,omitempty"`
}

// TemplateHandler handles email template requests
type TemplateHandler struct {
	service *templates.Service
	logger  *zap.Logger
}

// NewTemplateHandler creates a new TemplateHandler
func NewTemplateHandler(service *templates.Service, logger *zap.Logger) *TemplateHandler {
	return &TemplateHandler{service: service, logger: logger}
}

// HandleCreate handles POST /email-templates/
func (h *TemplateHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var req CreateTemplateRequest
	if err := decodeJSON(w, r, &req); err != nil {
		HandleServiceError(w, err, h.logger)
		return
	}
	t, err := h.service.Create(r.Context(), templates.CreateInput{
		Name:         req.Name,
		Subject:      req.Subject,
		HTMLContent:  req.HTMLContent,
		TextContent:  req.TextContent,
		TemplateType: req.TemplateType,
		IsActive:     req.IsActive,
	})
	if err != nil {
		HandleServiceError(w, err, h.logger)
		return
	}
	_ = utils.WriteCreated(w, "Email template created successfully", t)
}

// HandleList handles GET /email-templates/
func (h *TemplateHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	list, err := h.service.List(r.Context())
	if err != nil {
		HandleServiceError(w, err, h.logger)
		return
	}
	_ = utils.WriteOK(w, "Email templates retrieved successfully", list)
}

// HandleGet handles GET /email-templates/{id}
func (h *TemplateHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "template")
	if !ok {
		return
	}
	t, err := h.service.Get(r.Context(), id)
	if err != nil {
		HandleServiceError(w, err, h.logger)
		return
	}
	_ = utils.WriteOK(w, "Email template retrieved successfully", t)
}

// HandleUpdate handles PUT /email-templates/{id}
func (h *TemplateHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "template")
	if !ok {
		return
	}
	var req UpdateTemplateRequest
	if err := decodeJSON(w, r, &req); err != nil {
		HandleServiceError(w, err, h.logger)
		return
	}
	t, err := h.service.Update(r.Context(), id, templates.UpdateInput{
		Name:         req.Name,
		Subject:      req.Subject,
		HTMLContent:  req.HTMLContent,
		TextContent:  req.TextContent,
		TemplateType: req.TemplateType,
		IsActive:     req.IsActive,
	})
	if err != nil {
		HandleServiceError(w, err, h.logger)
		return
	}
	_ = utils.WriteOK(w, "Email template updated successfully", t)
}

// HandleDelete handles DELETE /email-templates/{id}
func (h *TemplateHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "template")
	if !ok {
		return
	}
	if err := h.service.Delete(r.Context(), id); err != nil {
		HandleServiceError(w, err, h.logger)
		return
	}
	_ = utils.WriteOK(w, "Email template deleted successfully", nil)
}
