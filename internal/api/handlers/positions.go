package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/ndewijer/Investment-Portfolio-Dashboard/internal/api/middleware"
	"github.com/ndewijer/Investment-Portfolio-Dashboard/internal/api/request"
	"github.com/ndewijer/Investment-Portfolio-Dashboard/internal/api/response"
	"github.com/ndewijer/Investment-Portfolio-Dashboard/internal/apperrors"
	"github.com/ndewijer/Investment-Portfolio-Dashboard/internal/service"
	"github.com/ndewijer/Investment-Portfolio-Dashboard/internal/validation"
)

// PositionHandler handles position-related HTTP requests
type PositionHandler struct {
	dashboardService *service.DashboardService
	confirmTTL       int
}

// NewPositionHandler creates a new PositionHandler. confirm is only read for
// the token lifetime reported to clients.
func NewPositionHandler(dashboardService *service.DashboardService, confirm *service.Confirmer) *PositionHandler {
	return &PositionHandler{
		dashboardService: dashboardService,
		confirmTTL:       int(confirm.TTL().Seconds()),
	}
}

// DeleteConfirmationResponse is returned by the first step of a delete.
type DeleteConfirmationResponse struct {
	Error     string `json:"error"`
	Token     string `json:"token"`
	ExpiresIn int    `json:"expiresIn"`
}

// Positions returns every position, optionally limited to one portfolio.
//
// Endpoint: GET /api/positions?portfolio_id=
// Response: 200 OK with []model.Position
// Error: 404 Not Found if portfolio_id names an unknown portfolio
func (h *PositionHandler) Positions(w http.ResponseWriter, r *http.Request) {
	portfolioID := r.URL.Query().Get("portfolio_id")
	if portfolioID != "" {
		if err := validation.ValidateUUID(portfolioID); err != nil {
			respondServiceError(w, err, apperrors.ErrFailedToRetrievePositions.Error())
			return
		}
	}

	positions, err := h.dashboardService.Positions(portfolioID)
	if err != nil {
		respondServiceError(w, err, apperrors.ErrFailedToRetrievePositions.Error())
		return
	}

	response.RespondJSON(w, http.StatusOK, positions)
}

// CreatePosition handles POST requests to add an asset. An empty
// portfolio_id adds it to the first portfolio.
//
// Endpoint: POST /api/positions
// Request Body: CreatePositionRequest
// Response: 201 Created with model.Position
// Error: 400 Bad Request with per-field details if validation fails
// Error: 404 Not Found if the portfolio does not exist
// Error: 502 Bad Gateway if the data source rejects the write
func (h *PositionHandler) CreatePosition(w http.ResponseWriter, r *http.Request) {
	req, err := parseJSON[request.CreatePositionRequest](r)
	if err != nil {
		response.RespondError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	position, err := h.dashboardService.CreatePosition(r.Context(), req.Draft())
	if err != nil {
		respondServiceError(w, err, "failed to create position")
		return
	}

	response.RespondJSON(w, http.StatusCreated, position)
}

// Position returns a single position.
//
// Endpoint: GET /api/positions/{uuid}
// Response: 200 OK with model.Position
// Error: 404 Not Found if the position does not exist
func (h *PositionHandler) Position(w http.ResponseWriter, r *http.Request) {
	position, err := h.dashboardService.Position(chi.URLParam(r, "uuid"))
	if err != nil {
		respondServiceError(w, err, apperrors.ErrFailedToRetrievePosition.Error())
		return
	}

	response.RespondJSON(w, http.StatusOK, position)
}

// UpdatePosition handles PUT requests to edit quantity, average cost or
// sector. Derived values are recomputed before the response.
//
// Endpoint: PUT /api/positions/{uuid}
// Request Body: UpdatePositionRequest (all fields optional)
// Response: 200 OK with the updated model.Position
// Error: 400 Bad Request if validation fails
// Error: 404 Not Found if the position does not exist
func (h *PositionHandler) UpdatePosition(w http.ResponseWriter, r *http.Request) {
	req, err := parseJSON[request.UpdatePositionRequest](r)
	if err != nil {
		response.RespondError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	if err := validation.ValidateUpdatePosition(req); err != nil {
		respondServiceError(w, err, "failed to update position")
		return
	}

	position, err := h.dashboardService.EditPosition(r.Context(), chi.URLParam(r, "uuid"), req.Edit())
	if err != nil {
		respondServiceError(w, err, "failed to update position")
		return
	}

	response.RespondJSON(w, http.StatusOK, position)
}

// DeletePosition removes a position in two steps. Without a confirmation
// token it answers 409 with a token; repeating the request with that token
// in the X-Confirm-Token header deletes the position.
//
// Endpoint: DELETE /api/positions/{uuid}
// Response: 204 No Content
// Error: 409 Conflict with DeleteConfirmationResponse if no token was sent
// Error: 403 Forbidden if the token is invalid, expired or for another position
// Error: 404 Not Found if the position does not exist
func (h *PositionHandler) DeletePosition(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "uuid")

	token := r.Header.Get(middleware.ConfirmTokenHeader)
	if token == "" {
		issued, err := h.dashboardService.RequestDelete(id)
		if err != nil {
			respondServiceError(w, err, "failed to delete position")
			return
		}
		response.RespondJSON(w, http.StatusConflict, DeleteConfirmationResponse{
			Error:     apperrors.ErrConfirmationRequired.Error(),
			Token:     issued,
			ExpiresIn: h.confirmTTL,
		})
		return
	}

	if err := h.dashboardService.DeletePosition(r.Context(), id, token); err != nil {
		respondServiceError(w, err, "failed to delete position")
		return
	}

	response.RespondJSON(w, http.StatusNoContent, nil)
}
