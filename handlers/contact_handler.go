package handlers

import (
	"net/http"

	"github.com/psf-initiatives/admin-api/services/donors"
	"github.com/psf-initiatives/admin-api/services/volunteers"
	"github.com/psf-initiatives/admin-api/utils"
	"go.uber.org/zap"
)

// ContactRequest is the body of POST /volunteers/ and POST /donors/
type ContactRequest struct {
	FullName string  `json:"full_name" validate:"required"`
	Email    string  `json:"email" validate:"required,email"`
	Phone    *string `json:"phone,omitempty"`
}

// VolunteerHandler handles volunteer requests
type VolunteerHandler struct {
	service *volunteers.Service
	logger  *zap.Logger
}

// NewVolunteerHandler creates a new VolunteerHandler
func NewVolunteerHandler(service *volunteers.Service, logger *zap.Logger) *VolunteerHandler {
	return &VolunteerHandler{service: service, logger: logger}
}

// HandleCreate handles POST /volunteers/
func (h *VolunteerHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var req ContactRequest
	if err := decodeJSON(w, r, &req); err != nil {
		HandleServiceError(w, err, h.logger)
		return
	}
	v, err := h.service.Create(r.Context(), req.FullName, req.Email, req.Phone)
	if err != nil {
		HandleServiceError(w, err, h.logger)
		return
	}
	_ = utils.WriteCreated(w, "Volunteer registered successfully", v)
}

// HandleList handles GET /volunteers/
func (h *VolunteerHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	skip, limit := pagination(r)
	list, err := h.service.List(r.Context(), skip, limit)
	if err != nil {
		HandleServiceError(w, err, h.logger)
		return
	}
	_ = utils.WriteOK(w, "Volunteers retrieved successfully", list)
}

// HandleGet handles GET /volunteers/{id}
func (h *VolunteerHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "volunteer")
	if !ok {
		return
	}
	v, err := h.service.Get(r.Context(), id)
	if err != nil {
		HandleServiceError(w, err, h.logger)
		return
	}
	_ = utils.WriteOK(w, "Volunteer retrieved successfully", v)
}

// HandleDelete handles DELETE /volunteers/{id}
func (h *VolunteerHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "volunteer")
	if !ok {
		return
	}
	if err := h.service.Delete(r.Context(), id); err != nil {
		HandleServiceError(w, err, h.logger)
		return
	}
	utils.WriteNoContent(w)
}

// HandleStats handles GET /volunteers/stats/total
func (h *VolunteerHandler) HandleStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.service.Stats(r.Context())
	if err != nil {
		HandleServiceError(w, err, h.logger)
		return
	}
	_ = utils.WriteOK(w, "Volunteer statistics retrieved successfully", stats)
}

// DonorHandler handles donor requests
type DonorHandler struct {
	service *donors.Service
	logger  *zap.Logger
}

// NewDonorHandler creates a new DonorHandler
func NewDonorHandler(service *donors.Service, logger *zap.Logger) *DonorHandler {
	return &DonorHandler{service: service, logger: logger}
}

// HandleCreate handles POST /donors/
func (h *DonorHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var req ContactRequest
	if err := decodeJSON(w, r, &req); err != nil {
		HandleServiceError(w, err, h.logger)
		return
	}
	d, err := h.service.Create(r.Context(), req.FullName, req.Email, req.Phone)
	if err != nil {
		HandleServiceError(w, err, h.logger)
		return
	}
	_ = utils.WriteCreated(w, "Donor created successfully", d)
}

// HandleList handles GET /donors/
func (h *DonorHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	skip, limit := pagination(r)
	list, err := h.service.List(r.Context(), skip, limit)
	if err != nil {
		HandleServiceError(w, err, h.logger)
		return
	}
	_ = utils.WriteOK(w, "Donors retrieved successfully", list)
}

// HandleGet handles GET /donors/{id}
func (h *DonorHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "donor")
	if !ok {
		return
	}
	d, err := h.service.Get(r.Context(), id)
	if err != nil {
		HandleServiceError(w, err, h.logger)
		return
	}
	_ = utils.WriteOK(w, "Donor retrieved successfully", d)
}

// HandleDelete handles DELETE /donors/{id}
func (h *DonorHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "donor")
	if !ok {
		return
	}
	if err := h.service.Delete(r.Context(), id); err != nil {
		HandleServiceError(w, err, h.logger)
		return
	}
	utils.WriteNoContent(w)
}
