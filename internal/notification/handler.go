package notification

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/frahmantamala/travel-booking/internal/transport"
)

type ServiceAPI interface {
	List(ctx context.Context, companyID int64, unreadOnly bool) ([]*Notification, int64, error)
	MarkRead(ctx context.Context, companyID, id int64) error
	MarkAllRead(ctx context.Context, companyID int64) (int64, error)
}

type Handler struct {
	*transport.BaseHandler
	Service ServiceAPI
}

func NewHandler(lg *slog.Logger, svc ServiceAPI) *Handler {
	return &Handler{BaseHandler: transport.NewBaseHandler(lg), Service: svc}
}

type ListResponse struct {
	Notifications []*Notification `json:"notifications"`
	Unread        int64           `json:"unread"`
}

type MarkAllResponse struct {
	Updated int64 `json:"updated"`
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	p, ok := h.Principal(w, r)
	if !ok {
		return
	}
	unreadOnly := r.URL.Query().Get("unread") == "true"
	list, unread, err := h.Service.List(r.Context(), p.CompanyID, unreadOnly)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, ListResponse{Notifications: list, Unread: unread})
}

func (h *Handler) MarkRead(w http.ResponseWriter, r *http.Request) {
	p, ok := h.Principal(w, r)
	if !ok {
		return
	}
	id, ok := h.IDParam(w, r, "id")
	if !ok {
		return
	}
	if err := h.Service.MarkRead(r.Context(), p.CompanyID, id); err != nil {
		h.HandleServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) MarkAllRead(w http.ResponseWriter, r *http.Request) {
	p, ok := h.Principal(w, r)
	if !ok {
		return
	}
	n, err := h.Service.MarkAllRead(r.Context(), p.CompanyID)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, MarkAllResponse{Updated: n})
}
