// Package middleware provides HTTP middleware for request validation and processing.
package middleware

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/ndewijer/Investment-Portfolio-Dashboard/internal/api/response"
	"github.com/ndewijer/Investment-Portfolio-Dashboard/internal/apperrors"
	"github.com/ndewijer/Investment-Portfolio-Dashboard/internal/validation"
)

// ValidateUUIDMiddleware validates that the uuid URL parameter is present and is a valid UUID.
// Returns 400 Bad Request if the id is missing or invalid.
//
// Example usage in router:
//
//	r.Route("/{uuid}", func(r chi.Router) {
//	    r.Use(middleware.ValidateUUIDMiddleware)
//	    r.Get("/", handler.Position)
//	    r.Put("/", handler.UpdatePosition)
//	})
func ValidateUUIDMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		UUID := chi.URLParam(r, "uuid")

		if UUID == "" {
			response.RespondError(w, http.StatusBadRequest, "valid UUID is required", nil)
			return
		}

		if err := validation.ValidateUUID(UUID); err != nil {
			response.RespondError(w, http.StatusBadRequest, apperrors.ErrInvalidUUID.Error(), err.Error())
			return
		}

		next.ServeHTTP(w, r)
	})
}
