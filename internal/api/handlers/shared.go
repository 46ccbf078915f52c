// Package handlers implements the HTTP handlers of the dashboard API.
package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/ndewijer/Investment-Portfolio-Dashboard/internal/api/response"
	"github.com/ndewijer/Investment-Portfolio-Dashboard/internal/apperrors"
	"github.com/ndewijer/Investment-Portfolio-Dashboard/internal/validation"
)

// maxBodyBytes caps request bodies; every payload of this API is small.
const maxBodyBytes = 1 << 20

// parseJSON decodes the request body into T.
func parseJSON[T any](r *http.Request) (T, error) {
	var v T
	if r.Body == nil {
		return v, errors.New("request body is empty")
	}
	if err := json.NewDecoder(http.MaxBytesReader(nil, r.Body, maxBodyBytes)).Decode(&v); err != nil {
		return v, fmt.Errorf("failed to decode request body: %w", err)
	}
	return v, nil
}

// respondServiceError maps a service error onto a status code. Errors that
// are not part of the taxonomy answer 500 with fallbackMsg.
func respondServiceError(w http.ResponseWriter, err error, fallbackMsg string) {
	var verr *validation.Error
	switch {
	case errors.As(err, &verr):
		response.RespondError(w, http.StatusBadRequest, apperrors.ErrValidation.Error(), verr.Fields)
	case errors.Is(err, apperrors.ErrValidation),
		errors.Is(err, apperrors.ErrInvalidUUID),
		errors.Is(err, apperrors.ErrUnknownAssetClass),
		errors.Is(err, apperrors.ErrUnknownGroupBy),
		errors.Is(err, apperrors.ErrUnknownPeriod):
		response.RespondError(w, http.StatusBadRequest, err.Error(), nil)
	case errors.Is(err, apperrors.ErrPortfolioNotFound):
		response.RespondError(w, http.StatusNotFound, apperrors.ErrPortfolioNotFound.Error(), nil)
	case errors.Is(err, apperrors.ErrPositionNotFound):
		response.RespondError(w, http.StatusNotFound, apperrors.ErrPositionNotFound.Error(), nil)
	case errors.Is(err, apperrors.ErrConfirmationRequired):
		response.RespondError(w, http.StatusConflict, apperrors.ErrConfirmationRequired.Error(), nil)
	case errors.Is(err, apperrors.ErrInvalidConfirmation):
		response.RespondError(w, http.StatusForbidden, apperrors.ErrInvalidConfirmation.Error(), nil)
	case errors.Is(err, apperrors.ErrDataSource):
		response.RespondError(w, http.StatusBadGateway, fallbackMsg, err.Error())
	default:
		response.RespondError(w, http.StatusInternalServerError, fallbackMsg, err.Error())
	}
}
