package rest_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"

	"github.com/frahmantamala/travel-booking/internal/transport/rest"
	"github.com/go-chi/chi"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Health", func() {
	serve := func(h *rest.HealthHandler) (*httptest.ResponseRecorder, rest.HealthResponse) {
		r := chi.NewRouter()
		rest.RegisterAllRoutes(r, rest.Handlers{Health: h})
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

		var body rest.HealthResponse
		Expect(json.Unmarshal(rec.Body.Bytes(), &body)).To(Succeed())
		return rec, body
	}

	It("is healthy when every component answers", func() {
		h := rest.NewHealthHandler(nil, "sqlite").
			WithCheck("redis", func(context.Context) error { return nil })

		rec, body := serve(h)
		Expect(rec.Code).To(Equal(http.StatusOK))
		Expect(body.Status).To(Equal(rest.HealthHealthy))
		Expect(body.Components).To(HaveKey("redis"))
	})

	It("reports 503 and the failing component", func() {
		h := rest.NewHealthHandler(nil, "sqlite").
			WithCheck("postgres", func(context.Context) error { return errors.New("connection refused") }).
			WithCheck("redis", func(context.Context) error { return nil })

		rec, body := serve(h)
		Expect(rec.Code).To(Equal(http.StatusServiceUnavailable))
		Expect(body.Status).To(Equal(rest.HealthUnhealthy))
		Expect(body.Components["postgres"].Message).To(Equal("connection refused"))
		Expect(body.Components["redis"].Status).To(Equal(rest.HealthHealthy))
	})
})
