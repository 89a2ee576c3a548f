package employee

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/frahmantamala/travel-booking/internal/transport"
)

type ServiceAPI interface {
	CreateEmployee(ctx context.Context, companyID int64, dto CreateEmployeeDTO) (*Employee, error)
	GetEmployee(ctx context.Context, companyID, id int64) (*Employee, error)
	ListEmployees(ctx context.Context, companyID int64, filter ListFilter) ([]*Employee, error)
	DeleteEmployee(ctx context.Context, companyID, id int64) error
	AddDocument(ctx context.Context, companyID, employeeID int64, dto AddDocumentDTO) (*Employee, error)
	RemoveDocument(ctx context.Context, companyID, employeeID, documentID int64) (*Employee, error)
	AddCard(ctx context.Context, companyID, employeeID int64, dto AddCardDTO) (*Employee, error)
	ExpiringDocuments(ctx context.Context, companyID int64, days int) ([]ExpiringDocument, error)
}

type Handler struct {
	*transport.BaseHandler
	Service ServiceAPI
}

func NewHandler(lg *slog.Logger, svc ServiceAPI) *Handler {
	return &Handler{BaseHandler: transport.NewBaseHandler(lg), Service: svc}
}

type ListResponse struct {
	Employees []*Employee `json:"employees"`
	Total     int         `json:"total"`
}

type ExpiringResponse struct {
	Documents []ExpiringDocument `json:"documents"`
	Days      int                `json:"days"`
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	p, ok := h.Principal(w, r)
	if !ok {
		return
	}
	q := r.URL.Query()
	filter := ListFilter{
		Query:      q.Get("q"),
		Department: q.Get("department"),
		Status:     DocumentStatus(q.Get("document_status")),
	}
	list, err := h.Service.ListEmployees(r.Context(), p.CompanyID, filter)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, ListResponse{Employees: list, Total: len(list)})
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	p, ok := h.Principal(w, r)
	if !ok {
		return
	}
	var dto CreateEmployeeDTO
	if !h.DecodeJSON(w, r, &dto) {
		return
	}
	e, err := h.Service.CreateEmployee(r.Context(), p.CompanyID, dto)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusCreated, e)
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	p, ok := h.Principal(w, r)
	if !ok {
		return
	}
	id, ok := h.IDParam(w, r, "id")
	if !ok {
		return
	}
	e, err := h.Service.GetEmployee(r.Context(), p.CompanyID, id)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, e)
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	p, ok := h.Principal(w, r)
	if !ok {
		return
	}
	id, ok := h.IDParam(w, r, "id")
	if !ok {
		return
	}
	if err := h.Service.DeleteEmployee(r.Context(), p.CompanyID, id); err != nil {
		h.HandleServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) AddDocument(w http.ResponseWriter, r *http.Request) {
	p, ok := h.Principal(w, r)
	if !ok {
		return
	}
	id, ok := h.IDParam(w, r, "id")
	if !ok {
		return
	}
	var dto AddDocumentDTO
	if !h.DecodeJSON(w, r, &dto) {
		return
	}
	e, err := h.Service.AddDocument(r.Context(), p.CompanyID, id, dto)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusCreated, e)
}

func (h *Handler) RemoveDocument(w http.ResponseWriter, r *http.Request) {
	p, ok := h.Principal(w, r)
	if !ok {
		return
	}
	id, ok := h.IDParam(w, r, "id")
	if !ok {
		return
	}
	docID, ok := h.IDParam(w, r, "docID")
	if !ok {
		return
	}
	e, err := h.Service.RemoveDocument(r.Context(), p.CompanyID, id, docID)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, e)
}

func (h *Handler) AddCard(w http.ResponseWriter, r *http.Request) {
	p, ok := h.Principal(w, r)
	if !ok {
		return
	}
	id, ok := h.IDParam(w, r, "id")
	if !ok {
		return
	}
	var dto AddCardDTO
	if !h.DecodeJSON(w, r, &dto) {
		return
	}
	e, err := h.Service.AddCard(r.Context(), p.CompanyID, id, dto)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusCreated, e)
}

func (h *Handler) Expiring(w http.ResponseWriter, r *http.Request) {
	p, ok := h.Principal(w, r)
	if !ok {
		return
	}
	days := 0
	if raw := r.URL.Query().Get("days"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 || n > 3650 {
			h.WriteError(w, http.StatusBadRequest, "days must be between 0 and 3650")
			return
		}
		days = n
	}
	docs, err := h.Service.ExpiringDocuments(r.Context(), p.CompanyID, days)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, ExpiringResponse{Documents: docs, Days: days})
}
