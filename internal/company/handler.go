package company

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/frahmantamala/travel-booking/internal/transport"
)

type ServiceAPI interface {
	GetCompany(ctx context.Context, id int64) (*Company, error)
	ChangeTariff(ctx context.Context, id int64, dto ChangeTariffDTO) (*Company, error)
	TopUpBalance(ctx context.Context, id int64, dto TopUpDTO) (*Company, error)
	AttachCard(ctx context.Context, id int64, dto AttachCardDTO) (*Company, error)
	DetachCard(ctx context.Context, id int64) (*Company, error)
	UpdatePostpay(ctx context.Context, id int64, dto UpdatePostpayDTO) (*Company, error)
	PaymentMethods(ctx context.Context, id int64) ([]PaymentMethod, error)
	Catalog() []CatalogEntry
}

type Handler struct {
	*transport.BaseHandler
	Service ServiceAPI
}

func NewHandler(lg *slog.Logger, svc ServiceAPI) *Handler {
	return &Handler{BaseHandler: transport.NewBaseHandler(lg), Service: svc}
}

type TariffsResponse struct {
	Tariffs []CatalogEntry `json:"tariffs"`
}

type PaymentMethodsResponse struct {
	Methods []PaymentMethod `json:"methods"`
}

func (h *Handler) GetTariffs(w http.ResponseWriter, r *http.Request) {
	h.WriteJSON(w, http.StatusOK, TariffsResponse{Tariffs: h.Service.Catalog()})
}

func (h *Handler) GetCompany(w http.ResponseWriter, r *http.Request) {
	p, ok := h.Principal(w, r)
	if !ok {
		return
	}
	c, err := h.Service.GetCompany(r.Context(), p.CompanyID)
	h.respond(w, c, err)
}

func (h *Handler) GetPaymentMethods(w http.ResponseWriter, r *http.Request) {
	p, ok := h.Principal(w, r)
	if !ok {
		return
	}
	methods, err := h.Service.PaymentMethods(r.Context(), p.CompanyID)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, PaymentMethodsResponse{Methods: methods})
}

func (h *Handler) ChangeTariff(w http.ResponseWriter, r *http.Request) {
	p, ok := h.Principal(w, r)
	if !ok {
		return
	}
	var dto ChangeTariffDTO
	if !h.DecodeJSON(w, r, &dto) {
		return
	}
	c, err := h.Service.ChangeTariff(r.Context(), p.CompanyID, dto)
	h.respond(w, c, err)
}

func (h *Handler) TopUp(w http.ResponseWriter, r *http.Request) {
	p, ok := h.Principal(w, r)
	if !ok {
		return
	}
	var dto TopUpDTO
	if !h.DecodeJSON(w, r, &dto) {
		return
	}
	c, err := h.Service.TopUpBalance(r.Context(), p.CompanyID, dto)
	h.respond(w, c, err)
}

func (h *Handler) AttachCard(w http.ResponseWriter, r *http.Request) {
	p, ok := h.Principal(w, r)
	if !ok {
		return
	}
	var dto AttachCardDTO
	if !h.DecodeJSON(w, r, &dto) {
		return
	}
	c, err := h.Service.AttachCard(r.Context(), p.CompanyID, dto)
	h.respond(w, c, err)
}

func (h *Handler) DetachCard(w http.ResponseWriter, r *http.Request) {
	p, ok := h.Principal(w, r)
	if !ok {
		return
	}
	c, err := h.Service.DetachCard(r.Context(), p.CompanyID)
	h.respond(w, c, err)
}

func (h *Handler) UpdatePostpay(w http.ResponseWriter, r *http.Request) {
	p, ok := h.Principal(w, r)
	if !ok {
		return
	}
	var dto UpdatePostpayDTO
	if !h.DecodeJSON(w, r, &dto) {
		return
	}
	c, err := h.Service.UpdatePostpay(r.Context(), p.CompanyID, dto)
	h.respond(w, c, err)
}

func (h *Handler) respond(w http.ResponseWriter, c *Company, err error) {
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, c)
}
