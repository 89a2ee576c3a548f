package report_test

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"

	"github.com/frahmantamala/travel-booking/internal"
	"github.com/frahmantamala/travel-booking/internal/report"
	"github.com/go-chi/chi"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Report Handler", func() {
	var router http.Handler

	BeforeEach(func() {
		slogger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
		h := report.NewHandler(slogger, newReportService())

		r := chi.NewRouter()
		r.Use(func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
				p := &internal.Principal{UserID: 1, CompanyID: 1, Role: "ADMIN", Permissions: []string{"admin"}}
				next.ServeHTTP(w, req.WithContext(internal.ContextWithUser(req.Context(), p)))
			})
		})
		r.Get("/reports/summary", h.Summary)
		r.Get("/reports/trips.csv", h.TripsCSV)
		r.Get("/reports/trips.xlsx", h.TripsXLSX)
		r.Get("/dashboard", h.Dashboard)
		router = r
	})

	get := func(path string) *httptest.ResponseRecorder {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
		return w
	}

	It("serves a CSV attachment", func() {
		w := get("/reports/trips.csv?status=COMPLETED")
		Expect(w.Code).To(Equal(http.StatusOK))
		Expect(w.Header().Get("Content-Type")).To(HavePrefix("text/csv"))
		Expect(w.Header().Get("Content-Disposition")).To(ContainSubstring("trips.csv"))
		Expect(w.Body.String()).To(HavePrefix("Trip ID,"))
	})

	It("answers 204 when nothing matches", func() {
		w := get("/reports/trips.csv?q=atlantis")
		Expect(w.Code).To(Equal(http.StatusNoContent))
		Expect(w.Body.Len()).To(BeZero())

		Expect(get("/reports/trips.xlsx?type=BASKET&status=COMPLETED").Code).To(Equal(http.StatusNoContent))
	})

	It("serves a spreadsheet", func() {
		w := get("/reports/trips.xlsx")
		Expect(w.Code).To(Equal(http.StatusOK))
		Expect(w.Header().Get("Content-Type")).To(ContainSubstring("spreadsheetml"))
	})

	It("serves the summary for a period", func() {
		w := get("/reports/summary?from=2026-10-01&to=2026-10-31")
		Expect(w.Code).To(Equal(http.StatusOK))
		var sum report.Summary
		Expect(json.NewDecoder(w.Body).Decode(&sum)).To(Succeed())
		Expect(sum.TripCount).To(Equal(4))
	})

	It("rejects malformed dates", func() {
		Expect(get("/reports/summary?from=yesterday").Code).To(Equal(http.StatusBadRequest))
	})

	It("serves the dashboard", func() {
		w := get("/dashboard")
		Expect(w.Code).To(Equal(http.StatusOK))
		var d report.Dashboard
		Expect(json.NewDecoder(w.Body).Decode(&d)).To(Succeed())
		Expect(d.PendingApprovals).To(Equal(1))
	})
})
