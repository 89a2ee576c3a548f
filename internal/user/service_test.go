package user_test

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"

	"github.com/frahmantamala/travel-booking/internal"
	"github.com/frahmantamala/travel-booking/internal/company"
	companyPostgres "github.com/frahmantamala/travel-booking/internal/company/postgres"
	"github.com/frahmantamala/travel-booking/internal/storage"
	"github.com/frahmantamala/travel-booking/internal/user"
	userPostgres "github.com/frahmantamala/travel-booking/internal/user/postgres"
	"github.com/go-chi/chi"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"golang.org/x/crypto/bcrypt"
)

var _ = Describe("User Service", func() {
	var (
		ctx     context.Context
		service *user.Service
		acme    *company.Company
		admin   *user.User
		slogger *slog.Logger
	)

	BeforeEach(func() {
		var err error
		ctx = context.Background()
		slogger = slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))

		db, err := storage.Open(internal.DatabaseConfig{Driver: "sqlite", Source: ":memory:"}, slogger)
		Expect(err).NotTo(HaveOccurred())
		Expect(storage.AutoMigrate(db)).To(Succeed())

		companies := company.NewService(companyPostgres.NewCompanyRepository(db), slogger)
		acme, err = companies.CreateCompany(ctx, "ACME")
		Expect(err).NotTo(HaveOccurred())

		service = user.NewService(userPostgres.NewUserRepository(db), companies, bcrypt.MinCost, slogger)
		admin, err = service.CreateUser(ctx, acme.ID, user.CreateUserDTO{Name: "Anna", Email: "anna@acme.io", Password: "password1", Role: user.RoleAdmin})
		Expect(err).NotTo(HaveOccurred())
	})

	It("maps roles to permissions", func() {
		Expect(admin.HasPermission(user.PermManageCompany)).To(BeTrue())

		traveler, err := service.CreateUser(ctx, acme.ID, user.CreateUserDTO{Name: "Tom", Email: "Tom@Acme.io", Password: "password1", Role: user.RoleTraveler})
		Expect(err).NotTo(HaveOccurred())
		Expect(traveler.Email).To(Equal("tom@acme.io"))
		Expect(traveler.Permissions).To(ConsistOf(user.PermBookTrips))
		Expect(traveler.HasPermission(user.PermApproveTrips)).To(BeFalse())
		Expect(traveler.PasswordHash).NotTo(Equal("password1"))
	})

	It("rejects unknown roles and taken emails", func() {
		_, err := service.CreateUser(ctx, acme.ID, user.CreateUserDTO{Name: "X", Email: "x@acme.io", Password: "password1", Role: "PILOT"})
		Expect(err).To(MatchError(user.ErrInvalidRole))

		_, err = service.CreateUser(ctx, acme.ID, user.CreateUserDTO{Name: "Dup", Email: "ANNA@acme.io", Password: "password1", Role: user.RoleManager})
		Expect(err).To(MatchError(user.ErrEmailTaken))
	})

	It("returns the profile with the company", func() {
		p, err := service.GetProfile(ctx, admin.ID)
		Expect(err).NotTo(HaveOccurred())
		Expect(p.CompanyName).To(Equal("ACME"))
		Expect(p.Tariff).To(Equal(company.TariffFree))

		_, err = service.GetProfile(ctx, 999)
		Expect(err).To(MatchError(user.ErrUserNotFound))
	})

	It("deactivates colleagues but not the caller", func() {
		m, err := service.CreateUser(ctx, acme.ID, user.CreateUserDTO{Name: "Max", Email: "max@acme.io", Password: "password1", Role: user.RoleManager})
		Expect(err).NotTo(HaveOccurred())

		Expect(service.Deactivate(ctx, acme.ID, admin.ID, m.ID)).To(Succeed())
		Expect(service.Deactivate(ctx, acme.ID, admin.ID, admin.ID)).NotTo(Succeed())
		Expect(service.Deactivate(ctx, acme.ID+1, admin.ID, m.ID)).To(MatchError(user.ErrUserNotFound))

		list, err := service.ListUsers(ctx, acme.ID)
		Expect(err).NotTo(HaveOccurred())
		Expect(list).To(HaveLen(2))
		Expect(list[0].Name).To(Equal("Anna"))
		Expect(list[1].IsActive).To(BeFalse())
	})

	It("serves the current user over HTTP", func() {
		h := user.NewHandler(slogger, service)
		r := chi.NewRouter()
		r.Use(func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
				p := &internal.Principal{UserID: admin.ID, CompanyID: acme.ID, Role: "ADMIN"}
				next.ServeHTTP(w, req.WithContext(internal.ContextWithUser(req.Context(), p)))
			})
		})
		r.Get("/users/me", h.GetCurrentUser)

		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/users/me", nil))
		Expect(rec.Code).To(Equal(http.StatusOK))

		var body map[string]interface{}
		Expect(json.Unmarshal(rec.Body.Bytes(), &body)).To(Succeed())
		Expect(body["company_name"]).To(Equal("ACME"))
		Expect(body["email"]).To(Equal("anna@acme.io"))
		Expect(body).NotTo(HaveKey("PasswordHash"))
	})
})
