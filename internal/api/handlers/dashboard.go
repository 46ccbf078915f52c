package handlers

import (
	"errors"
	"net/http"

	"github.com/ndewijer/Investment-Portfolio-Dashboard/internal/api/response"
	"github.com/ndewijer/Investment-Portfolio-Dashboard/internal/apperrors"
	"github.com/ndewijer/Investment-Portfolio-Dashboard/internal/display"
	"github.com/ndewijer/Investment-Portfolio-Dashboard/internal/model"
	"github.com/ndewijer/Investment-Portfolio-Dashboard/internal/service"
)

// DashboardHandler serves the aggregated dashboard views.
type DashboardHandler struct {
	dashboardService *service.DashboardService
}

// NewDashboardHandler creates a new DashboardHandler
func NewDashboardHandler(dashboardService *service.DashboardService) *DashboardHandler {
	return &DashboardHandler{
		dashboardService: dashboardService,
	}
}

// Dashboard returns the full view: summary, both allocations, portfolios,
// positions and the performance history of the first portfolio.
//
// Endpoint: GET /api/dashboard
// Response: 200 OK with service.View
func (h *DashboardHandler) Dashboard(w http.ResponseWriter, _ *http.Request) {
	response.RespondJSON(w, http.StatusOK, h.dashboardService.View())
}

// SummaryDisplay holds the metric card values formatted for EUR display.
type SummaryDisplay struct {
	TotalValue                string `json:"totalValue"`
	TotalInvested             string `json:"totalInvested"`
	TotalProfitLoss           string `json:"totalProfitLoss"`
	TotalProfitLossPercentage string `json:"totalProfitLossPercentage"`
}

// SummaryResponse represents the metric cards of the dashboard.
type SummaryResponse struct {
	model.Summary
	Display  SummaryDisplay `json:"display"`
	Degraded bool           `json:"degraded"`
}

// Summary returns the metric cards.
//
// Endpoint: GET /api/dashboard/summary
// Response: 200 OK with SummaryResponse
func (h *DashboardHandler) Summary(w http.ResponseWriter, _ *http.Request) {
	s := h.dashboardService.Summary()
	response.RespondJSON(w, http.StatusOK, SummaryResponse{
		Summary: s,
		Display: SummaryDisplay{
			TotalValue:                display.EUR(s.TotalValue),
			TotalInvested:             display.EUR(s.TotalInvested),
			TotalProfitLoss:           display.SignedEUR(s.TotalProfitLoss),
			TotalProfitLossPercentage: display.Percent(s.TotalProfitLossPercentage),
		},
		Degraded: h.dashboardService.State().Degraded,
	})
}

// Allocation returns the allocation buckets.
//
// Endpoint: GET /api/dashboard/allocation?groupBy=sector|assetClass&assetClass=
// Response: 200 OK with []model.AllocationBucket
// Error: 400 Bad Request for an unknown grouping or asset class
func (h *DashboardHandler) Allocation(w http.ResponseWriter, r *http.Request) {
	groupBy, err := model.ParseGroupBy(r.URL.Query().Get("groupBy"))
	if err != nil {
		respondServiceError(w, err, "failed to compute allocation")
		return
	}

	buckets, err := h.dashboardService.Allocation(groupBy, r.URL.Query().Get("assetClass"))
	if err != nil {
		respondServiceError(w, err, "failed to compute allocation")
		return
	}

	response.RespondJSON(w, http.StatusOK, buckets)
}

// Refresh reloads the dashboard from the data source. A failing source is
// not an error: the response reports the fallback through degraded. A load
// overtaken by a mutation answers 409 with stale set.
//
// Endpoint: POST /api/dashboard/refresh
// Response: 200 OK with service.LoadResult
// Error: 409 Conflict if the load was discarded as stale
func (h *DashboardHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	result, err := h.dashboardService.Load(r.Context())
	if err != nil {
		if errors.Is(err, apperrors.ErrStaleLoad) {
			response.RespondJSON(w, http.StatusConflict, result)
			return
		}
		respondServiceError(w, err, apperrors.ErrFailedToRefresh.Error())
		return
	}

	response.RespondJSON(w, http.StatusOK, result)
}
