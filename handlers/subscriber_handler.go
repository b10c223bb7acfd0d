package handlers

import (
	"net/http"

	"github.com/psf-initiatives/admin-api/services/subscribers"
	"github.com/psf-initiatives/admin-api/utils"
	"go.uber.org/zap"
)

// SubscribeRequest is the body of POST /subscribers/
type SubscribeRequest struct {
	Email    string  `json:"email" validate:"required,email"`
	FullName *string `json:"full_name,omitempty"`
}

// UnsubscribeRequest is the body of POST /subscribers/unsubscribe
type UnsubscribeRequest struct {
	Email string `json:"email" validate:"required,email"`
}

// UpdateSubscriberRequest is the body of PUT /subscribers/{id}
type UpdateSubscriberRequest struct {
	FullName *string `json:"full_name,omitempty"`
	IsActive *bool   `json:"is_active,omitempty"`
}

// SubscriberHandler handles mailing list requests
type SubscriberHandler struct {
	service *subscribers.Service
	logger  *zap.Logger
}

// NewSubscriberHandler creates a new SubscriberHandler
func NewSubscriberHandler(service *subscribers.Service, logger *zap.Logger) *SubscriberHandler {
	return &SubscriberHandler{
		service: service,
		logger:  logger,
	}
}

// HandleSubscribe handles POST /subscribers/
func (h *SubscriberHandler) HandleSubscribe(w http.ResponseWriter, r *http.Request) {
	var req SubscribeRequest
	if err := decodeJSON(w, r, &req); err != nil {
		HandleServiceError(w, err, h.logger)
		return
	}

	sub, outcome, err := h.service.Subscribe(r.Context(), req.Email, req.FullName)
	if err != nil {
		HandleServiceError(w, err, h.logger)
		return
	}
	if outcome == subscribers.Resubscribed {
		_ = utils.WriteOK(w, "Successfully resubscribed to newsletter", sub)
		return
	}
	_ = utils.WriteCreated(w, "Successfully subscribed to newsletter", sub)
}

// HandleUnsubscribe handles POST /subscribers/unsubscribe
func (h *SubscriberHandler) HandleUnsubscribe(w http.ResponseWriter, r *http.Request) {
	var req UnsubscribeRequest
	if err := decodeJSON(w, r, &req); err != nil {
		HandleServiceError(w, err, h.logger)
		return
	}
	if err := h.service.Unsubscribe(r.Context(), req.Email); err != nil {
		HandleServiceError(w, err, h.logger)
		return
	}
	_ = utils.WriteOK(w, "Successfully unsubscribed from newsletter", nil)
}

// HandleList handles GET /subscribers/. active_only defaults to true.
func (h *SubscriberHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	skip, limit := pagination(r)
	activeOnly := queryBool(r.URL.Query().Get("active_only"), true)

	list, err := h.service.List(r.Context(), activeOnly, skip, limit)
	if err != nil {
		HandleServiceError(w, err, h.logger)
		return
	}
	_ = utils.WriteOK(w, "Subscribers retrieved successfully", list)
}

// HandleGet handles GET /subscribers/{id}
func (h *SubscriberHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "subscriber")
	if !ok {
		return
	}
	sub, err := h.service.Get(r.Context(), id)
	if err != nil {
		HandleServiceError(w, err, h.logger)
		return
	}
	_ = utils.WriteOK(w, "Subscriber retrieved successfully", sub)
}

// HandleUpdate handles PUT /subscribers/{id}
func (h *SubscriberHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "subscriber")
	if !ok {
		return
	}
	var req UpdateSubscriberRequest
	if err := decodeJSON(w, r, &req); err != nil {
		HandleServiceError(w, err, h.logger)
		return
	}

	sub, err := h.service.Update(r.Context(), id, subscribers.UpdateInput{
		FullName: req.FullName,
		IsActive: req.IsActive,
	})
	if err != nil {
		HandleServiceError(w, err, h.logger)
		return
	}
	_ = utils.WriteOK(w, "Subscriber updated successfully", sub)
}

// HandleDelete handles DELETE /subscribers/{id}
func (h *SubscriberHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "subscriber")
	if !ok {
		return
	}
	if err := h.service.Delete(r.Context(), id); err != nil {
		HandleServiceError(w, err, h.logger)
		return
	}
	_ = utils.WriteOK(w, "Subscriber deleted successfully", nil)
}

// HandleStats handles GET /subscribers/stats/summary
func (h *SubscriberHandler) HandleStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.service.Stats(r.Context())
	if err != nil {
		HandleServiceError(w, err, h.logger)
		return
	}
	_ = utils.WriteOK(w, "Subscriber statistics retrieved successfully", stats)
}
