package report

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/frahmantamala/travel-booking/internal/transport"
	"github.com/frahmantamala/travel-booking/internal/trip"
)

type ServiceAPI interface {
	Summary(ctx context.Context, companyID int64, p Period) (*Summary, error)
	Dashboard(ctx context.Context, companyID int64) (*Dashboard, error)
	ExportCSV(ctx context.Context, w io.Writer, companyID int64, filter trip.ListFilter) error
	ExportXLSX(ctx context.Context, w io.Writer, companyID int64, filter trip.ListFilter) error
}

type Handler struct {
	*transport.BaseHandler
	Service ServiceAPI
}

func NewHandler(lg *slog.Logger, svc ServiceAPI) *Handler {
	return &Handler{BaseHandler: transport.NewBaseHandler(lg), Service: svc}
}

func (h *Handler) Summary(w http.ResponseWriter, r *http.Request) {
	p, ok := h.Principal(w, r)
	if !ok {
		return
	}
	filter, err := trip.ParseListFilter(r)
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid report period")
		return
	}
	sum, err := h.Service.Summary(r.Context(), p.CompanyID, Period{From: filter.From, To: filter.To})
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, sum)
}

func (h *Handler) Dashboard(w http.ResponseWriter, r *http.Request) {
	p, ok := h.Principal(w, r)
	if !ok {
		return
	}
	d, err := h.Service.Dashboard(r.Context(), p.CompanyID)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, d)
}

type exportFunc func(ctx context.Context, w io.Writer, companyID int64, filter trip.ListFilter) error

func (h *Handler) TripsCSV(w http.ResponseWriter, r *http.Request) {
	h.export(w, r, h.Service.ExportCSV, "text/csv; charset=utf-8", "csv")
}

func (h *Handler) TripsXLSX(w http.ResponseWriter, r *http.Request) {
	h.export(w, r, h.Service.ExportXLSX, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", "xlsx")
}

// export buffers the file so a failure halfway still produces a clean error response.
// An empty selection answers 204.
func (h *Handler) export(w http.ResponseWriter, r *http.Request, run exportFunc, contentType, ext string) {
	p, ok := h.Principal(w, r)
	if !ok {
		return
	}
	filter, err := trip.ParseListFilter(r)
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid trip filter")
		return
	}

	var buf bytes.Buffer
	if err := run(r.Context(), &buf, p.CompanyID, filter); err != nil {
		if errors.Is(err, ErrNothingToExport) {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		h.HandleServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="trips.%s"`, ext))
	w.WriteHeader(http.StatusOK)
	if _, err := buf.WriteTo(w); err != nil {
		h.Logger.Warn("failed to stream export", "error", err)
	}
}
