package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/phuslu/log"

	"github.com/ndewijer/Investment-Research-Backend/internal/api/handlers"
	custommiddleware "github.com/ndewijer/Investment-Research-Backend/internal/api/middleware"
	"github.com/ndewijer/Investment-Research-Backend/internal/config"
	"github.com/ndewijer/Investment-Research-Backend/internal/service"
)

// NewRouter creates and configures the HTTP router
func NewRouter(
	systemService *service.SystemService,
	memoService *service.MemoService,
	reviewService *service.ReviewService,
	investmentService *service.InvestmentService,
	priceRefreshService *service.PriceRefreshService,
	analystService *service.AnalystService,
	watchlistService *service.WatchlistService,
	logger *log.Logger,
	cfg *config.Config,
) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(custommiddleware.Logger(logger))
	r.Use(middleware.Recoverer)

	// CORS middleware
	corsMiddleware := custommiddleware.NewCORS(cfg.CORS.AllowedOrigins)
	requireAPIKey := custommiddleware.APIKeyMiddleware(cfg.Auth.InternalAPIKey)
	r.Use(corsMiddleware.Handler)

	// API routes
	r.Route("/api", func(r chi.Router) {
		// System namespace
		r.Route("/system", func(r chi.Router) {
			systemHandler := handlers.NewSystemHandler(systemService)
			r.Get("/health", systemHandler.Health)
			r.Get("/version", systemHandler.Version)
		})

		r.Route("/memo", func(r chi.Router) {
			memoHandler := handlers.NewMemoHandler(memoService, reviewService)
			r.Get("/", memoHandler.ListMemos)
			r.Get("/count", memoHandler.CountMemos)
			r.With(requireAPIKey).Post("/", memoHandler.CreateMemo)

			r.Route("/{uuid}", func(r chi.Router) {
				r.Use(custommiddleware.ValidateUUIDMiddleware)
				r.Get("/", memoHandler.GetMemo)
				r.Post("/approve", memoHandler.ApproveMemo)
				r.Post("/reject", memoHandler.RejectMemo)
			})
		})

		r.Route("/investment", func(r chi.Router) {
			investmentHandler := handlers.NewInvestmentHandler(investmentService, priceRefreshService)
			r.Get("/", investmentHandler.ListInvestments)
			r.Post("/refresh-prices", investmentHandler.RefreshPrices)

			r.Route("/{uuid}", func(r chi.Router) {
				r.Use(custommiddleware.ValidateUUIDMiddleware)
				r.Get("/", investmentHandler.GetInvestment)
				r.Post("/close", investmentHandler.CloseInvestment)
				r.Put("/price", investmentHandler.UpdatePrice)
			})
		})

		r.Route("/analyst", func(r chi.Router) {
			analystHandler := handlers.NewAnalystHandler(analystService)
			r.Get("/leaderboard", analystHandler.Leaderboard)
			r.Get("/{analyst}", analystHandler.AnalystStats)
		})

		r.Route("/watchlist", func(r chi.Router) {
			watchlistHandler := handlers.NewWatchlistHandler(watchlistService)
			r.Get("/", watchlistHandler.GetWatchlist)

			r.Group(func(r chi.Router) {
				r.Use(requireAPIKey)
				r.Put("/tickers", watchlistHandler.SetTickers)
				r.Post("/tickers", watchlistHandler.AddTickers)
				r.Delete("/tickers", watchlistHandler.RemoveTickers)
				r.Post("/scanned", watchlistHandler.MarkScanned)
			})
		})
	})

	return r
}
