package employee_test

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"time"

	"github.com/frahmantamala/travel-booking/internal"
	"github.com/frahmantamala/travel-booking/internal/employee"
	employeePostgres "github.com/frahmantamala/travel-booking/internal/employee/postgres"
	"github.com/go-chi/chi"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Employee Handler Integration", func() {
	var router http.Handler

	BeforeEach(func() {
		slogger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
		service := employee.NewService(employeePostgres.NewEmployeeRepository(newTestDB()), nil, 60, slogger).
			WithClock(func() time.Time { return time.Date(2026, 10, 18, 0, 0, 0, 0, time.UTC) })
		h := employee.NewHandler(slogger, service)

		r := chi.NewRouter()
		r.Use(func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
				p := &internal.Principal{UserID: 1, CompanyID: 1, Role: "ADMIN", Permissions: []string{"admin"}}
				next.ServeHTTP(w, req.WithContext(internal.ContextWithUser(req.Context(), p)))
			})
		})
		r.Get("/employees", h.List)
		r.Post("/employees", h.Create)
		r.Get("/employees/documents/expiring", h.Expiring)
		r.Get("/employees/{id}", h.Get)
		r.Delete("/employees/{id}", h.Delete)
		r.Post("/employees/{id}/documents", h.AddDocument)
		router = r
	})

	do := func(method, path string, body interface{}) *httptest.ResponseRecorder {
		var buf bytes.Buffer
		if body != nil {
			Expect(json.NewEncoder(&buf).Encode(body)).To(Succeed())
		}
		req := httptest.NewRequest(method, path, &buf)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		return w
	}

	It("creates an employee and reads it back", func() {
		w := do(http.MethodPost, "/employees", employee.CreateEmployeeDTO{Name: "Anna Petrova", Email: "anna@example.com"})
		Expect(w.Code).To(Equal(http.StatusCreated))

		var created employee.Employee
		Expect(json.NewDecoder(w.Body).Decode(&created)).To(Succeed())

		w = do(http.MethodGet, "/employees/"+itoa(created.ID), nil)
		Expect(w.Code).To(Equal(http.StatusOK))

		w = do(http.MethodGet, "/employees", nil)
		var list employee.ListResponse
		Expect(json.NewDecoder(w.Body).Decode(&list)).To(Succeed())
		Expect(list.Total).To(Equal(1))
	})

	It("answers 409 for a duplicate email", func() {
		Expect(do(http.MethodPost, "/employees", employee.CreateEmployeeDTO{Name: "A", Email: "a@example.com"}).Code).To(Equal(http.StatusCreated))
		w := do(http.MethodPost, "/employees", employee.CreateEmployeeDTO{Name: "B", Email: "a@example.com"})
		Expect(w.Code).To(Equal(http.StatusConflict))
		Expect(w.Body.String()).To(ContainSubstring("DUPLICATE_EMPLOYEE"))
	})

	It("answers 400 for unknown fields and bad ids", func() {
		Expect(do(http.MethodPost, "/employees", map[string]string{"nickname": "x"}).Code).To(Equal(http.StatusBadRequest))
		Expect(do(http.MethodGet, "/employees/abc", nil).Code).To(Equal(http.StatusBadRequest))
	})

	It("answers 404 for a missing employee", func() {
		Expect(do(http.MethodDelete, "/employees/42", nil).Code).To(Equal(http.StatusNotFound))
	})

	It("lists expiring documents", func() {
		w := do(http.MethodPost, "/employees", employee.CreateEmployeeDTO{
			Name: "Anna Petrova", Email: "anna@example.com",
			Documents: []employee.AddDocumentDTO{{Type: employee.DocumentPassport, Number: "1", ExpirationDate: "2026-11-01"}},
		})
		Expect(w.Code).To(Equal(http.StatusCreated))

		w = do(http.MethodGet, "/employees/documents/expiring?days=30", nil)
		Expect(w.Code).To(Equal(http.StatusOK))
		var resp employee.ExpiringResponse
		Expect(json.NewDecoder(w.Body).Decode(&resp)).To(Succeed())
		Expect(resp.Documents).To(HaveLen(1))

		Expect(do(http.MethodGet, "/employees/documents/expiring?days=-1", nil).Code).To(Equal(http.StatusBadRequest))
	})
})
