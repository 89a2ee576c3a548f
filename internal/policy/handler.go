package policy

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/frahmantamala/travel-booking/internal/transport"
)

type ServiceAPI interface {
	GetPolicy(ctx context.Context, companyID int64) (*TravelPolicy, error)
	UpdatePolicy(ctx context.Context, companyID int64, dto UpdatePolicyDTO) (*TravelPolicy, error)
	EvaluatePrice(ctx context.Context, companyID int64, dto EvaluateDTO) (*Evaluation, error)
}

type Handler struct {
	*transport.BaseHandler
	Service ServiceAPI
}

func NewHandler(lg *slog.Logger, svc ServiceAPI) *Handler {
	return &Handler{BaseHandler: transport.NewBaseHandler(lg), Service: svc}
}

func (h *Handler) GetPolicy(w http.ResponseWriter, r *http.Request) {
	p, ok := h.Principal(w, r)
	if !ok {
		return
	}
	pol, err := h.Service.GetPolicy(r.Context(), p.CompanyID)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, pol)
}

func (h *Handler) UpdatePolicy(w http.ResponseWriter, r *http.Request) {
	p, ok := h.Principal(w, r)
	if !ok {
		return
	}
	var dto UpdatePolicyDTO
	if !h.DecodeJSON(w, r, &dto) {
		return
	}
	pol, err := h.Service.UpdatePolicy(r.Context(), p.CompanyID, dto)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, pol)
}

func (h *Handler) Evaluate(w http.ResponseWriter, r *http.Request) {
	p, ok := h.Principal(w, r)
	if !ok {
		return
	}
	var dto EvaluateDTO
	if !h.DecodeJSON(w, r, &dto) {
		return
	}
	eval, err := h.Service.EvaluatePrice(r.Context(), p.CompanyID, dto)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, eval)
}
