package assistant

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/frahmantamala/travel-booking/internal/transport"
)

type ServiceAPI interface {
	Ask(ctx context.Context, companyID, userID int64, text string) (*Message, error)
	History(userID int64) []Message
	Clear(userID int64)
}

type Handler struct {
	*transport.BaseHandler
	Service ServiceAPI
}

func NewHandler(lg *slog.Logger, svc ServiceAPI) *Handler {
	return &Handler{BaseHandler: transport.NewBaseHandler(lg), Service: svc}
}

type AskRequest struct {
	Text string `json:"text"`
}

type HistoryResponse struct {
	Messages []Message `json:"messages"`
}

func (h *Handler) Ask(w http.ResponseWriter, r *http.Request) {
	p, ok := h.Principal(w, r)
	if !ok {
		return
	}
	var req AskRequest
	if !h.DecodeJSON(w, r, &req) {
		return
	}
	msg, err := h.Service.Ask(r.Context(), p.CompanyID, p.UserID, req.Text)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusCreated, msg)
}

func (h *Handler) History(w http.ResponseWriter, r *http.Request) {
	p, ok := h.Principal(w, r)
	if !ok {
		return
	}
	h.WriteJSON(w, http.StatusOK, HistoryResponse{Messages: h.Service.History(p.UserID)})
}

func (h *Handler) Clear(w http.ResponseWriter, r *http.Request) {
	p, ok := h.Principal(w, r)
	if !ok {
		return
	}
	h.Service.Clear(p.UserID)
	w.WriteHeader(http.StatusNoContent)
}
