package trip

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/frahmantamala/travel-booking/internal/transport"
	"github.com/go-chi/chi"
)

type ServiceAPI interface {
	Purchase(ctx context.Context, companyID, userID int64, dto PurchaseDTO) (*Trip, error)
	CreateBasket(ctx context.Context, companyID, userID int64, dto BasketDTO) (*Trip, error)
	Approve(ctx context.Context, companyID, approverID int64, id string) (*Trip, error)
	Reject(ctx context.Context, companyID, approverID int64, id string) (*Trip, error)
	Complete(ctx context.Context, companyID int64, id string) (*Trip, error)
	Cancel(ctx context.Context, companyID int64, id string) (*Trip, error)
	GetTrip(ctx context.Context, companyID int64, id string) (*Trip, error)
	ListTrips(ctx context.Context, companyID int64, filter ListFilter) ([]*Trip, error)
	ListPenalties(ctx context.Context, companyID int64) ([]*Penalty, error)
}

type Handler struct {
	*transport.BaseHandler
	Service ServiceAPI
}

func NewHandler(lg *slog.Logger, svc ServiceAPI) *Handler {
	return &Handler{BaseHandler: transport.NewBaseHandler(lg), Service: svc}
}

type ListResponse struct {
	Trips []*Trip `json:"trips"`
	Total int     `json:"total"`
}

type PenaltiesResponse struct {
	Penalties []*Penalty `json:"penalties"`
}

// ParseListFilter reads the trip filter from query parameters. Dates are YYYY-MM-DD and "to" is inclusive.
func ParseListFilter(r *http.Request) (ListFilter, error) {
	q := r.URL.Query()
	f := ListFilter{
		Status: Status(q.Get("status")),
		Type:   Type(q.Get("type")),
		Query:  q.Get("q"),
	}
	if raw := q.Get("employee_id"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return f, err
		}
		f.EmployeeID = &id
	}
	if raw := q.Get("from"); raw != "" {
		t, err := time.Parse("2006-01-02", raw)
		if err != nil {
			return f, err
		}
		f.From = &t
	}
	if raw := q.Get("to"); raw != "" {
		t, err := time.Parse("2006-01-02", raw)
		if err != nil {
			return f, err
		}
		end := t.AddDate(0, 0, 1).Add(-time.Nanosecond)
		f.To = &end
	}
	if raw := q.Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			return f, err
		}
		f.Limit = n
	}
	return f, nil
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	p, ok := h.Principal(w, r)
	if !ok {
		return
	}
	filter, err := ParseListFilter(r)
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid trip filter")
		return
	}
	trips, err := h.Service.ListTrips(r.Context(), p.CompanyID, filter)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, ListResponse{Trips: trips, Total: len(trips)})
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	p, ok := h.Principal(w, r)
	if !ok {
		return
	}
	t, err := h.Service.GetTrip(r.Context(), p.CompanyID, chi.URLParam(r, "id"))
	h.respond(w, http.StatusOK, t, err)
}

func (h *Handler) Purchase(w http.ResponseWriter, r *http.Request) {
	p, ok := h.Principal(w, r)
	if !ok {
		return
	}
	var dto PurchaseDTO
	if !h.DecodeJSON(w, r, &dto) {
		return
	}
	t, err := h.Service.Purchase(r.Context(), p.CompanyID, p.UserID, dto)
	h.respond(w, http.StatusCreated, t, err)
}

func (h *Handler) CreateBasket(w http.ResponseWriter, r *http.Request) {
	p, ok := h.Principal(w, r)
	if !ok {
		return
	}
	var dto BasketDTO
	if !h.DecodeJSON(w, r, &dto) {
		return
	}
	t, err := h.Service.CreateBasket(r.Context(), p.CompanyID, p.UserID, dto)
	h.respond(w, http.StatusCreated, t, err)
}

func (h *Handler) Approve(w http.ResponseWriter, r *http.Request) {
	p, ok := h.Principal(w, r)
	if !ok {
		return
	}
	t, err := h.Service.Approve(r.Context(), p.CompanyID, p.UserID, chi.URLParam(r, "id"))
	h.respond(w, http.StatusOK, t, err)
}

func (h *Handler) Reject(w http.ResponseWriter, r *http.Request) {
	p, ok := h.Principal(w, r)
	if !ok {
		return
	}
	t, err := h.Service.Reject(r.Context(), p.CompanyID, p.UserID, chi.URLParam(r, "id"))
	h.respond(w, http.StatusOK, t, err)
}

func (h *Handler) Complete(w http.ResponseWriter, r *http.Request) {
	p, ok := h.Principal(w, r)
	if !ok {
		return
	}
	t, err := h.Service.Complete(r.Context(), p.CompanyID, chi.URLParam(r, "id"))
	h.respond(w, http.StatusOK, t, err)
}

func (h *Handler) Cancel(w http.ResponseWriter, r *http.Request) {
	p, ok := h.Principal(w, r)
	if !ok {
		return
	}
	t, err := h.Service.Cancel(r.Context(), p.CompanyID, chi.URLParam(r, "id"))
	h.respond(w, http.StatusOK, t, err)
}

func (h *Handler) Penalties(w http.ResponseWriter, r *http.Request) {
	p, ok := h.Principal(w, r)
	if !ok {
		return
	}
	list, err := h.Service.ListPenalties(r.Context(), p.CompanyID)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, PenaltiesResponse{Penalties: list})
}

func (h *Handler) respond(w http.ResponseWriter, status int, t *Trip, err error) {
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, status, t)
}
