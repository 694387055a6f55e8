package documents

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/slipbook-erp/slipbook/internal/billing"
	"github.com/slipbook-erp/slipbook/internal/catalog"
	"github.com/slipbook-erp/slipbook/internal/platform/httpx"
)

// ItemLister supplies the item catalog for pricing previews.
type ItemLister interface {
	ListItems(ctx context.Context) ([]catalog.Item, error)
}

// Handler exposes the three document workflows over HTTP.
type Handler struct {
	logger  *slog.Logger
	service *Service
	items   ItemLister
	memo    billing.Memo
}

// NewHandler constructs Handler.
func NewHandler(logger *slog.Logger, service *Service, items ItemLister) *Handler {
	return &Handler{logger: logger, service: service, items: items}
}

// MountRoutes attaches document workflow routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Route("/bills", func(r chi.Router) {
		r.Post("/summary", h.summary)
		h.mountKind(r, KindBill)
	})
	r.Route("/orders", func(r chi.Router) {
		r.Post("/{slipNo}/convert", h.convertOrder)
		h.mountKind(r, KindOrder)
	})
	r.Route("/loading-slips", func(r chi.Router) {
		h.mountKind(r, KindLoadingSlip)
	})
}

func (h *Handler) mountKind(r chi.Router, kind Kind) {
	r.Get("/", h.list(kind))
	r.Post("/", h.save(kind))
	r.Get("/new", h.newForm(kind))
	r.Get("/{slipNo}", h.load(kind))
	r.Delete("/{slipNo}", h.delete(kind))
}

func (h *Handler) list(kind Kind) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		docs, err := h.service.List(r.Context(), kind)
		if err != nil {
			h.respondError(w, "list documents", err)
			return
		}
		httpx.JSON(w, http.StatusOK, docs)
	}
}

func (h *Handler) load(kind Kind) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		doc, err := h.service.Load(r.Context(), kind, chi.URLParam(r, "slipNo"))
		if err != nil {
			h.respondError(w, "load document", err)
			return
		}
		httpx.JSON(w, http.StatusOK, doc)
	}
}

// newForm seeds a fresh form with the workflow's next slip number. The
// billing form additionally accepts from_order / from_slip cross-reference
// parameters and then prefills from the source document instead, keeping
// the source's own slip number.
func (h *Handler) newForm(kind Kind) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if kind == KindBill {
			if ref := r.URL.Query().Get("from_order"); ref != "" {
				h.prefillFrom(w, r, KindOrder, ref)
				return
			}
			if ref := r.URL.Query().Get("from_slip"); ref != "" {
				h.prefillFrom(w, r, KindLoadingSlip, ref)
				return
			}
		}
		next, err := h.service.NextSlipNumber(r.Context(), kind)
		if err != nil {
			h.respondError(w, "next slip number", err)
			return
		}
		httpx.JSON(w, http.StatusOK, NewFormResponse{SlipNo: next})
	}
}

func (h *Handler) prefillFrom(w http.ResponseWriter, r *http.Request, source Kind, slipNo string) {
	doc, err := h.service.Load(r.Context(), source, slipNo)
	if err != nil {
		h.respondError(w, "load source document", err)
		return
	}
	httpx.JSON(w, http.StatusOK, NewFormResponse{
		SlipNo:   doc.Filters.SlipNo,
		Prefill:  &doc,
		FromKind: string(source),
	})
}

func (h *Handler) save(kind Kind) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var form SaveForm
		if err := httpx.DecodeJSON(r, &form); err != nil {
			httpx.Problem(w, http.StatusBadRequest, "Invalid Payload", err.Error())
			return
		}
		result, err := h.service.Save(r.Context(), kind, form.toDocument())
		if err != nil {
			h.respondError(w, "save document", err)
			return
		}
		httpx.JSON(w, http.StatusOK, result)
	}
}

func (h *Handler) delete(kind Kind) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := h.service.Delete(r.Context(), kind, chi.URLParam(r, "slipNo")); err != nil {
			h.respondError(w, "delete document", err)
			return
		}
		httpx.NoContent(w)
	}
}

func (h *Handler) convertOrder(w http.ResponseWriter, r *http.Request) {
	ref, err := h.service.ConvertOrder(r.Context(), chi.URLParam(r, "slipNo"))
	if err != nil {
		h.respondError(w, "convert order", err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]string{
		"fromOrder":   ref,
		"orderStatus": OrderStatusCompleted,
	})
}

// summary prices the posted line items against the current item catalog
// without persisting anything.
func (h *Handler) summary(w http.ResponseWriter, r *http.Request) {
	var form SummaryForm
	if err := httpx.DecodeJSON(r, &form); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid Payload", err.Error())
		return
	}
	items, err := h.items.ListItems(r.Context())
	if err != nil {
		h.respondError(w, "list items", err)
		return
	}
	summary := h.memo.Compute(form.BillingItems, items, form.ManualPrices)
	httpx.JSON(w, http.StatusOK, summary)
}

func (h *Handler) respondError(w http.ResponseWriter, op string, err error) {
	switch {
	case errors.Is(err, ErrNotFound):
		httpx.Problem(w, http.StatusNotFound, "Not Found", err.Error())
	case errors.Is(err, ErrSlipNumberRequired), errors.Is(err, ErrPartyRequired):
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
	default:
		if h.logger != nil {
			h.logger.Error(op, slog.Any("error", err))
		}
		httpx.Problem(w, http.StatusInternalServerError, "Internal Error", "")
	}
}
