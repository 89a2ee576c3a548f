package flight

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/frahmantamala/travel-booking/internal/transport"
	"github.com/go-chi/chi"
	"github.com/shopspring/decimal"
)

type ServiceAPI interface {
	Search(ctx context.Context, companyID int64, c SearchCriteria) ([]View, error)
	ViewFlight(ctx context.Context, companyID int64, id string) (*View, error)
}

type Handler struct {
	*transport.BaseHandler
	Service ServiceAPI
}

func NewHandler(lg *slog.Logger, svc ServiceAPI) *Handler {
	return &Handler{BaseHandler: transport.NewBaseHandler(lg), Service: svc}
}

type SearchResponse struct {
	Flights []View `json:"flights"`
	Total   int    `json:"total"`
}

func (h *Handler) Search(w http.ResponseWriter, r *http.Request) {
	p, ok := h.Principal(w, r)
	if !ok {
		return
	}

	q := r.URL.Query()
	c := SearchCriteria{
		From:           q.Get("from"),
		To:             q.Get("to"),
		Date:           q.Get("date"),
		Class:          q.Get("class"),
		Sort:           q.Get("sort"),
		RefundableOnly: q.Get("refundable") == "true",
	}
	if raw := q.Get("max_price"); raw != "" {
		price, err := decimal.NewFromString(raw)
		if err != nil {
			h.WriteError(w, http.StatusBadRequest, "max_price must be a number")
			return
		}
		c.MaxPrice = &price
	}
	if raw := q.Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			h.WriteError(w, http.StatusBadRequest, "limit must be an integer")
			return
		}
		c.Limit = n
	}

	views, err := h.Service.Search(r.Context(), p.CompanyID, c)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, SearchResponse{Flights: views, Total: len(views)})
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	p, ok := h.Principal(w, r)
	if !ok {
		return
	}
	v, err := h.Service.ViewFlight(r.Context(), p.CompanyID, chi.URLParam(r, "id"))
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, v)
}
