package rest_test

import (
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"

	"github.com/frahmantamala/travel-booking/api"
	"github.com/frahmantamala/travel-booking/internal"
	"github.com/frahmantamala/travel-booking/internal/assistant"
	"github.com/frahmantamala/travel-booking/internal/auth"
	"github.com/frahmantamala/travel-booking/internal/company"
	"github.com/frahmantamala/travel-booking/internal/employee"
	"github.com/frahmantamala/travel-booking/internal/flight"
	"github.com/frahmantamala/travel-booking/internal/notification"
	"github.com/frahmantamala/travel-booking/internal/policy"
	"github.com/frahmantamala/travel-booking/internal/report"
	"github.com/frahmantamala/travel-booking/internal/transport/rest"
	"github.com/frahmantamala/travel-booking/internal/trip"
	"github.com/frahmantamala/travel-booking/internal/user"
	"github.com/getkin/kin-openapi/openapi3"
	"github.com/go-chi/chi"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func allHandlers(lg *slog.Logger) rest.Handlers {
	return rest.Handlers{
		Health:       rest.NewHealthHandler(nil, "sqlite"),
		Auth:         auth.NewHandler(lg, nil),
		User:         user.NewHandler(lg, nil),
		Company:      company.NewHandler(lg, nil),
		Policy:       policy.NewHandler(lg, nil),
		Employee:     employee.NewHandler(lg, nil),
		Flight:       flight.NewHandler(lg, nil),
		Trip:         trip.NewHandler(lg, nil),
		Report:       report.NewHandler(lg, nil),
		Assistant:    assistant.NewHandler(lg, nil),
		Notification: notification.NewHandler(lg, nil),
	}
}

var _ = Describe("Router", func() {
	var lg *slog.Logger

	BeforeEach(func() {
		lg = slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
	})

	It("loads a valid OpenAPI document", func() {
		doc, err := api.Load(context.Background())
		Expect(err).NotTo(HaveOccurred())
		Expect(doc.Paths.Len()).To(BeNumerically(">", 30))
	})

	It("documents every mounted route", func() {
		doc, err := api.Load(context.Background())
		Expect(err).NotTo(HaveOccurred())

		r := chi.NewRouter()
		rest.RegisterAllRoutes(r, allHandlers(lg))

		var missing []string
		walk := func(method, route string, _ http.Handler, _ ...func(http.Handler) http.Handler) error {
			path := strings.ReplaceAll(route, "/*/", "/")
			if len(path) > 1 {
				path = strings.TrimSuffix(path, "/")
			}
			item := doc.Paths.Find(path)
			var op *openapi3.Operation
			if item != nil {
				op = item.GetOperation(method)
			}
			if op == nil {
				missing = append(missing, method+" "+path)
			}
			return nil
		}
		Expect(chi.Walk(r, walk)).To(Succeed())
		Expect(missing).To(BeEmpty())
	})

	It("serves the document and guards protected routes", func() {
		cfg := &internal.Config{Server: internal.ServerConfig{AllowedOrigins: "*"}}
		h := rest.NewRouter(cfg, allHandlers(lg), api.Spec, lg)

		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/openapi.yml", nil))
		Expect(rec.Code).To(Equal(http.StatusOK))
		Expect(rec.Body.String()).To(ContainSubstring("openapi: 3.0.3"))

		rec = httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/ping", nil))
		Expect(rec.Code).To(Equal(http.StatusOK))

		rec = httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/trips", nil))
		Expect(rec.Code).To(Equal(http.StatusUnauthorized))
	})
})
