package handlers

import (
	"net/http"

	"github.com/psf-initiatives/admin-api/services/dashboard"
	"github.com/psf-initiatives/admin-api/utils"
	"go.uber.org/zap"
)

// DashboardHandler serves the dashboard overview
type DashboardHandler struct {
	service *dashboard.Service
	logger  *zap.Logger
}

// NewDashboardHandler creates a new DashboardHandler
func NewDashboardHandler(service *dashboard.Service, logger *zap.Logger) *DashboardHandler {
	return &DashboardHandler{service: service, logger: logger}
}

// HandleStats handles GET /dashboard/
func (h *DashboardHandler) HandleStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.service.Stats(r.Context())
	if err != nil {
		HandleServiceError(w, err, h.logger)
		return
	}
	_ = utils.WriteOK(w, "Dashboard statistics retrieved successfully", stats)
}

// HandleRecentDonations handles GET /dashboard/recent-donations
func (h *DashboardHandler) HandleRecentDonations(w http.ResponseWriter, r *http.Request) {
	limit := queryInt(r.URL.Query().Get("limit"), dashboard.DefaultRecentLimit)
	if limit > maxLimit {
		limit = maxLimit
	}
	recent, err := h.service.RecentDonations(r.Context(), limit)
	if err != nil {
		HandleServiceError(w, err, h.logger)
		return
	}
	_ = utils.WriteOK(w, "Recent donations retrieved successfully", recent)
}

// HandleSummary handles GET /dashboard/summary
func (h *DashboardHandler) HandleSummary(w http.ResponseWriter, r *http.Request) {
	summary, err := h.service.Summary(r.Context())
	if err != nil {
		HandleServiceError(w, err, h.logger)
		return
	}
	_ = utils.WriteOK(w, "Dashboard summary retrieved successfully", summary)
}
