package middleware

import (
	"github.com/go-chi/cors"
)

// ConfirmTokenHeader carries the confirmation token of a two-step delete.
const ConfirmTokenHeader = "X-Confirm-Token"

// NewCORS creates a new CORS middleware with the given allowed origins
func NewCORS(allowedOrigins []string) *cors.Cors {
	return cors.New(cors.Options{
		AllowedOrigins: allowedOrigins,
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{
			"Content-Type",
			"Authorization",
			ConfirmTokenHeader,
		},
		ExposedHeaders:   []string{"Content-Type", ConfirmTokenHeader},
		AllowCredentials: true,
		MaxAge:           300,
	})
}
