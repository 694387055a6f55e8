package app

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/slipbook-erp/slipbook/internal/auth"
	"github.com/slipbook-erp/slipbook/internal/catalog"
	"github.com/slipbook-erp/slipbook/internal/documents"
	"github.com/slipbook-erp/slipbook/internal/shared"
	"github.com/slipbook-erp/slipbook/internal/stock"
	"github.com/slipbook-erp/slipbook/jobs"
)

// RouterParams groups dependencies for building the HTTP router.
type RouterParams struct {
	Logger         *slog.Logger
	Config         *Config
	SessionManager *shared.SessionManager
	CSRFManager    *shared.CSRFManager

	AuthHandler      *auth.Handler
	CatalogHandler   *catalog.Handler
	DocumentsHandler *documents.Handler
	StockHandler     *stock.Handler
	JobHandler       *jobs.Handler
}

// NewRouter constructs the chi.Router with Slipbook defaults.
func NewRouter(params RouterParams) http.Handler {
	r := chi.NewRouter()

	for _, mw := range MiddlewareStack(MiddlewareConfig{
		Logger:         params.Logger,
		Config:         params.Config,
		SessionManager: params.SessionManager,
		CSRFManager:    params.CSRFManager,
	}) {
		r.Use(mw)
	}

	r.Use(chimw.Logger)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	r.Route("/auth", func(r chi.Router) {
		params.AuthHandler.MountRoutes(r)
	})

	r.Group(func(r chi.Router) {
		r.Use(auth.RequireUser)

		params.CatalogHandler.MountRoutes(r)
		params.DocumentsHandler.MountRoutes(r)
		params.StockHandler.MountRoutes(r)

		if params.JobHandler != nil {
			r.Route("/jobs", func(r chi.Router) {
				params.JobHandler.MountRoutes(r)
			})
		}
	})

	return r
}
