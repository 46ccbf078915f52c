package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/ndewijer/Investment-Portfolio-Dashboard/internal/api/request"
	"github.com/ndewijer/Investment-Portfolio-Dashboard/internal/api/response"
	"github.com/ndewijer/Investment-Portfolio-Dashboard/internal/apperrors"
	"github.com/ndewijer/Investment-Portfolio-Dashboard/internal/model"
	"github.com/ndewijer/Investment-Portfolio-Dashboard/internal/service"
	"github.com/ndewijer/Investment-Portfolio-Dashboard/internal/validation"
)

// PortfolioHandler handles portfolio-related HTTP requests
type PortfolioHandler struct {
	dashboardService *service.DashboardService
}

// NewPortfolioHandler creates a new PortfolioHandler
func NewPortfolioHandler(dashboardService *service.DashboardService) *PortfolioHandler {
	return &PortfolioHandler{
		dashboardService: dashboardService,
	}
}

// Portfolios returns every portfolio with aggregates recomputed from the
// current positions.
//
// Endpoint: GET /api/portfolios
// Response: 200 OK with []model.Portfolio
func (h *PortfolioHandler) Portfolios(w http.ResponseWriter, _ *http.Request) {
	response.RespondJSON(w, http.StatusOK, h.dashboardService.Portfolios())
}

// CreatePortfolio handles POST requests to create an empty portfolio.
//
// Endpoint: POST /api/portfolios
// Request Body: CreatePortfolioRequest (name)
// Response: 201 Created with model.Portfolio
// Error: 400 Bad Request if validation fails or request body is invalid
// Error: 502 Bad Gateway if the data source rejects the write
func (h *PortfolioHandler) CreatePortfolio(w http.ResponseWriter, r *http.Request) {
	req, err := parseJSON[request.CreatePortfolioRequest](r)
	if err != nil {
		response.RespondError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	if err := validation.ValidateCreatePortfolio(req); err != nil {
		respondServiceError(w, err, "failed to create portfolio")
		return
	}

	portfolio, err := h.dashboardService.CreatePortfolio(r.Context(), req.Draft())
	if err != nil {
		respondServiceError(w, err, "failed to create portfolio")
		return
	}

	response.RespondJSON(w, http.StatusCreated, portfolio)
}

// Portfolio returns a single portfolio.
//
// Endpoint: GET /api/portfolios/{uuid}
// Response: 200 OK with model.Portfolio
// Error: 404 Not Found if the portfolio does not exist
func (h *PortfolioHandler) Portfolio(w http.ResponseWriter, r *http.Request) {
	portfolio, err := h.dashboardService.Portfolio(chi.URLParam(r, "uuid"))
	if err != nil {
		respondServiceError(w, err, apperrors.ErrFailedToRetrievePortfolio.Error())
		return
	}

	response.RespondJSON(w, http.StatusOK, portfolio)
}

// PortfolioPositions returns the positions of one portfolio.
//
// Endpoint: GET /api/portfolios/{uuid}/positions
// Response: 200 OK with []model.Position
// Error: 404 Not Found if the portfolio does not exist
func (h *PortfolioHandler) PortfolioPositions(w http.ResponseWriter, r *http.Request) {
	positions, err := h.dashboardService.Positions(chi.URLParam(r, "uuid"))
	if err != nil {
		respondServiceError(w, err, apperrors.ErrFailedToRetrievePositions.Error())
		return
	}

	response.RespondJSON(w, http.StatusOK, positions)
}

// PortfolioPerformance returns the valuation history of one portfolio.
//
// Endpoint: GET /api/portfolios/{uuid}/performance?period=1M|3M|6M|1Y|ALL
// Response: 200 OK with []model.PerformancePoint, oldest first
// Error: 400 Bad Request for an unknown period
// Error: 404 Not Found if the portfolio does not exist
// Error: 502 Bad Gateway if the data source fails
func (h *PortfolioHandler) PortfolioPerformance(w http.ResponseWriter, r *http.Request) {
	period, err := model.ParsePeriod(r.URL.Query().Get("period"))
	if err != nil {
		respondServiceError(w, err, apperrors.ErrFailedToRetrievePerformance.Error())
		return
	}

	points, err := h.dashboardService.Performance(r.Context(), chi.URLParam(r, "uuid"), period)
	if err != nil {
		respondServiceError(w, err, apperrors.ErrFailedToRetrievePerformance.Error())
		return
	}

	response.RespondJSON(w, http.StatusOK, points)
}
