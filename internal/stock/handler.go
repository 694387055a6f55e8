package stock

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/slipbook-erp/slipbook/internal/catalog"
	"github.com/slipbook-erp/slipbook/internal/platform/httpx"
)

// Handler exposes production logging, manual stock additions and the
// stock/party reports over HTTP.
type Handler struct {
	logger   *slog.Logger
	service  *Service
	cache    *ReportCache
	validate *validator.Validate
}

// NewHandler constructs Handler. cache may be nil; reports are then always
// computed on demand.
func NewHandler(logger *slog.Logger, service *Service, cache *ReportCache) *Handler {
	return &Handler{
		logger:   logger,
		service:  service,
		cache:    cache,
		validate: validator.New(),
	}
}

// MountRoutes attaches stock routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Route("/production", func(r chi.Router) {
		r.Get("/", h.listProduction)
		r.Post("/", h.recordProduction)
	})
	r.Post("/stock/add", h.addStock)
	r.Route("/reports", func(r chi.Router) {
		r.Get("/stock-check", h.stockCheck)
		r.Get("/party-balances", h.partyBalances)
	})
}

func (h *Handler) recordProduction(w http.ResponseWriter, r *http.Request) {
	var input ProductionInput
	if err := httpx.DecodeJSON(r, &input); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid Payload", err.Error())
		return
	}
	if err := h.validate.Struct(input); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}
	logs, err := h.service.RecordProduction(r.Context(), input)
	if err != nil {
		h.respondError(w, "record production", err)
		return
	}
	httpx.JSON(w, http.StatusCreated, logs)
}

func (h *Handler) listProduction(w http.ResponseWriter, r *http.Request) {
	logs, err := h.service.ListLogs(r.Context(), r.URL.Query().Get("date"))
	if err != nil {
		h.respondError(w, "list production", err)
		return
	}
	httpx.JSON(w, http.StatusOK, logs)
}

type addStockForm struct {
	ItemID   string  `json:"itemId" validate:"required"`
	Quantity float64 `json:"quantity" validate:"required"`
}

func (h *Handler) addStock(w http.ResponseWriter, r *http.Request) {
	var form addStockForm
	if err := httpx.DecodeJSON(r, &form); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid Payload", err.Error())
		return
	}
	if err := h.validate.Struct(form); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}
	if err := h.service.AddStock(r.Context(), form.ItemID, form.Quantity); err != nil {
		h.respondError(w, "add stock", err)
		return
	}
	httpx.NoContent(w)
}

func (h *Handler) stockCheck(w http.ResponseWriter, r *http.Request) {
	date := r.URL.Query().Get("date")
	if date == "" {
		date = time.Now().Format(DateLayout)
	}
	if rows, ok := h.cache.GetStockCheck(r.Context(), date); ok {
		httpx.JSON(w, http.StatusOK, rows)
		return
	}
	rows, err := h.service.StockCheckReport(r.Context(), date)
	if err != nil {
		h.respondError(w, "stock check report", err)
		return
	}
	if err := h.cache.SetStockCheck(r.Context(), date, rows); err != nil && h.logger != nil {
		h.logger.Warn("cache stock check", slog.Any("error", err))
	}
	httpx.JSON(w, http.StatusOK, rows)
}

func (h *Handler) partyBalances(w http.ResponseWriter, r *http.Request) {
	if rows, ok := h.cache.GetPartyBalances(r.Context()); ok {
		httpx.JSON(w, http.StatusOK, rows)
		return
	}
	rows, err := h.service.PartyBalances(r.Context())
	if err != nil {
		h.respondError(w, "party balances report", err)
		return
	}
	if err := h.cache.SetPartyBalances(r.Context(), rows); err != nil && h.logger != nil {
		h.logger.Warn("cache party balances", slog.Any("error", err))
	}
	httpx.JSON(w, http.StatusOK, rows)
}

func (h *Handler) respondError(w http.ResponseWriter, op string, err error) {
	switch {
	case errors.Is(err, ErrNoEntries), errors.Is(err, ErrInvalidDate), errors.Is(err, ErrInvalidQuantity):
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
	case errors.Is(err, catalog.ErrNotFound):
		httpx.Problem(w, http.StatusNotFound, "Not Found", err.Error())
	default:
		if h.logger != nil {
			h.logger.Error(op, slog.Any("error", err))
		}
		httpx.Problem(w, http.StatusInternalServerError, "Internal Error", "")
	}
}
