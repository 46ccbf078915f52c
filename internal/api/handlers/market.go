package handlers

import (
	"net/http"

	"github.com/ndewijer/Investment-Portfolio-Dashboard/internal/api/response"
	"github.com/ndewijer/Investment-Portfolio-Dashboard/internal/apperrors"
	"github.com/ndewijer/Investment-Portfolio-Dashboard/internal/service"
	"github.com/ndewijer/Investment-Portfolio-Dashboard/internal/validation"
)

// MarketHandler serves market data.
type MarketHandler struct {
	marketService *service.MarketService
}

// NewMarketHandler creates a new MarketHandler
func NewMarketHandler(marketService *service.MarketService) *MarketHandler {
	return &MarketHandler{
		marketService: marketService,
	}
}

// Quotes returns the latest quotes of the requested symbols.
//
// Endpoint: GET /api/market/quotes?symbols=AAPL,BTC
// Response: 200 OK with []model.MarketQuote
// Error: 400 Bad Request if symbols is missing or too long
// Error: 502 Bad Gateway if the data source fails
func (h *MarketHandler) Quotes(w http.ResponseWriter, r *http.Request) {
	symbols, err := validation.ParseSymbols(r.URL.Query().Get("symbols"))
	if err != nil {
		respondServiceError(w, err, apperrors.ErrFailedToRetrieveQuotes.Error())
		return
	}

	quotes, err := h.marketService.Quotes(r.Context(), symbols)
	if err != nil {
		respondServiceError(w, err, apperrors.ErrFailedToRetrieveQuotes.Error())
		return
	}

	response.RespondJSON(w, http.StatusOK, quotes)
}
