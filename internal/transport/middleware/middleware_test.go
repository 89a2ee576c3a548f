package middleware

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"

	"github.com/frahmantamala/travel-booking/internal"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var okHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
})

var _ = Describe("RequirePermissions", func() {
	It("rejects anonymous requests with 401", func() {
		rec := httptest.NewRecorder()
		RequirePermissions("view_reports")(okHandler).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
		Expect(rec.Code).To(Equal(http.StatusUnauthorized))
	})

	It("rejects callers without the permission with 403", func() {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req = req.WithContext(internal.ContextWithUser(req.Context(), &internal.Principal{UserID: 1, Permissions: []string{"book_trips"}}))
		rec := httptest.NewRecorder()

		RequirePermissions("approve_trips")(okHandler).ServeHTTP(rec, req)

		Expect(rec.Code).To(Equal(http.StatusForbidden))
		var body map[string]map[string]interface{}
		Expect(json.Unmarshal(rec.Body.Bytes(), &body)).To(Succeed())
		Expect(body["error"]["code"]).To(Equal(string(internal.ErrCodeUnauthorizedAccess)))
	})

	It("lets admins through any check", func() {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req = req.WithContext(internal.ContextWithUser(req.Context(), &internal.Principal{UserID: 1, Permissions: []string{"admin"}}))
		rec := httptest.NewRecorder()

		RequirePermissions("approve_trips")(okHandler).ServeHTTP(rec, req)
		Expect(rec.Code).To(Equal(http.StatusOK))
	})
})

var _ = Describe("CORS", func() {
	It("answers preflight for allowed origins", func() {
		req := httptest.NewRequest(http.MethodOptions, "/api/v1/trips", nil)
		req.Header.Set("Origin", "http://localhost:5173")
		req.Header.Set("Access-Control-Request-Method", "POST")
		rec := httptest.NewRecorder()

		CORS("http://localhost:5173")(okHandler).ServeHTTP(rec, req)

		Expect(rec.Code).To(Equal(http.StatusNoContent))
		Expect(rec.Header().Get("Access-Control-Allow-Origin")).To(Equal("http://localhost:5173"))
	})

	It("does not tag unknown origins", func() {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Origin", "http://evil.example")
		rec := httptest.NewRecorder()

		CORS("http://localhost:5173")(okHandler).ServeHTTP(rec, req)

		Expect(rec.Code).To(Equal(http.StatusOK))
		Expect(rec.Header().Get("Access-Control-Allow-Origin")).To(BeEmpty())
	})
})

var _ = Describe("RecoveryMiddleware", func() {
	It("turns panics into a JSON 500", func() {
		lg := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError + 4}))
		panicky := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { panic("kaboom") })
		rec := httptest.NewRecorder()

		RecoveryMiddleware(lg)(panicky).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

		Expect(rec.Code).To(Equal(http.StatusInternalServerError))
		Expect(rec.Header().Get("Content-Type")).To(ContainSubstring("application/json"))
	})
})

var _ = Describe("TraceID", func() {
	It("echoes an incoming trace id", func() {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set(TraceHeader, "abc-123")
		rec := httptest.NewRecorder()

		TraceID(okHandler).ServeHTTP(rec, req)
		Expect(rec.Header().Get(TraceHeader)).To(Equal("abc-123"))
	})

	It("mints one when absent", func() {
		rec := httptest.NewRecorder()
		TraceID(okHandler).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
		Expect(rec.Header().Get(TraceHeader)).To(HaveLen(36))
	})
})

var _ = Describe("sensitive body filtering", func() {
	It("masks passwords and card numbers at any depth", func() {
		out := filterSensitiveBody([]byte(`{"email":"a@b.c","password":"x","card":{"card_number":"4111"}}`))
		Expect(out).To(ContainSubstring(`"email":"a@b.c"`))
		Expect(out).NotTo(ContainSubstring(`"x"`))
		Expect(out).NotTo(ContainSubstring("4111"))
	})
})
