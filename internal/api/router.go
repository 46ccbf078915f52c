// Package api wires the HTTP handlers of the dashboard into a chi router.
package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"github.com/ndewijer/Investment-Portfolio-Dashboard/internal/api/handlers"
	custommiddleware "github.com/ndewijer/Investment-Portfolio-Dashboard/internal/api/middleware"
	"github.com/ndewijer/Investment-Portfolio-Dashboard/internal/config"
	"github.com/ndewijer/Investment-Portfolio-Dashboard/internal/metrics"
	"github.com/ndewijer/Investment-Portfolio-Dashboard/internal/service"
)

// Services groups the services the router dispatches to.
type Services struct {
	System    *service.SystemService
	Dashboard *service.DashboardService
	Market    *service.MarketService
	Confirmer *service.Confirmer
}

// NewRouter creates and configures the HTTP router
func NewRouter(svc Services, cfg *config.Config, log zerolog.Logger, m *metrics.Registry) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(custommiddleware.Logger(log, m))
	r.Use(middleware.Recoverer)
	r.Use(middleware.StripSlashes)

	// CORS middleware
	corsMiddleware := custommiddleware.NewCORS(cfg.CORS.AllowedOrigins)
	r.Use(corsMiddleware.Handler)

	r.Method(http.MethodGet, "/metrics", m.Handler())

	// API routes
	r.Route("/api", func(r chi.Router) {

		r.Route("/system", func(r chi.Router) {
			systemHandler := handlers.NewSystemHandler(svc.System)
			r.Get("/health", systemHandler.Health)
			r.Get("/version", systemHandler.Version)
		})

		r.Route("/dashboard", func(r chi.Router) {
			dashboardHandler := handlers.NewDashboardHandler(svc.Dashboard)
			r.Get("/", dashboardHandler.Dashboard)
			r.Get("/summary", dashboardHandler.Summary)
			r.Get("/allocation", dashboardHandler.Allocation)
			r.Post("/refresh", dashboardHandler.Refresh)
		})

		r.Route("/portfolios", func(r chi.Router) {
			portfolioHandler := handlers.NewPortfolioHandler(svc.Dashboard)
			r.Get("/", portfolioHandler.Portfolios)
			r.Post("/", portfolioHandler.CreatePortfolio)

			r.Route("/{uuid}", func(r chi.Router) {
				r.Use(custommiddleware.ValidateUUIDMiddleware)
				r.Get("/", portfolioHandler.Portfolio)
				r.Get("/positions", portfolioHandler.PortfolioPositions)
				r.Get("/performance", portfolioHandler.PortfolioPerformance)
			})
		})

		r.Route("/positions", func(r chi.Router) {
			positionHandler := handlers.NewPositionHandler(svc.Dashboard, svc.Confirmer)
			r.Get("/", positionHandler.Positions)
			r.Post("/", positionHandler.CreatePosition)

			r.Route("/{uuid}", func(r chi.Router) {
				r.Use(custommiddleware.ValidateUUIDMiddleware)
				r.Get("/", positionHandler.Position)
				r.Put("/", positionHandler.UpdatePosition)
				r.Delete("/", positionHandler.DeletePosition)
			})
		})

		r.Route("/market", func(r chi.Router) {
			marketHandler := handlers.NewMarketHandler(svc.Market)
			r.Get("/quotes", marketHandler.Quotes)
		})
	})

	return r
}
