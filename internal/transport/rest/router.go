package rest

import (
	"log/slog"
	"net/http"

	"github.com/frahmantamala/travel-booking/internal"
	"github.com/frahmantamala/travel-booking/internal/assistant"
	"github.com/frahmantamala/travel-booking/internal/auth"
	"github.com/frahmantamala/travel-booking/internal/company"
	"github.com/frahmantamala/travel-booking/internal/employee"
	"github.com/frahmantamala/travel-booking/internal/flight"
	"github.com/frahmantamala/travel-booking/internal/notification"
	"github.com/frahmantamala/travel-booking/internal/policy"
	"github.com/frahmantamala/travel-booking/internal/report"
	"github.com/frahmantamala/travel-booking/internal/transport/middleware"
	"github.com/frahmantamala/travel-booking/internal/transport/swagger"
	"github.com/frahmantamala/travel-booking/internal/trip"
	"github.com/frahmantamala/travel-booking/internal/user"
	"github.com/go-chi/chi"
	chiMiddleware "github.com/go-chi/chi/middleware"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

// Handlers groups the HTTP handlers of every module. A nil handler leaves its routes unmounted.
type Handlers struct {
	Health       *HealthHandler
	Auth         *auth.Handler
	User         *user.Handler
	Company      *company.Handler
	Policy       *policy.Handler
	Employee     *employee.Handler
	Flight       *flight.Handler
	Trip         *trip.Handler
	Report       *report.Handler
	Assistant    *assistant.Handler
	Notification *notification.Handler
}

// NewRouter builds the chi router with global middleware and every module mounted under /api/v1.
func NewRouter(cfg *internal.Config, h Handlers, openAPI []byte, logger *slog.Logger) http.Handler {
	router := chi.NewRouter()

	router.Use(middleware.CORS(cfg.Server.AllowedOrigins))
	router.Use(chiMiddleware.RequestID)
	router.Use(middleware.TraceID)
	router.Use(middleware.RecoveryMiddleware(logger))
	router.Use(middleware.LoggingMiddleware(logger))

	if openAPI != nil {
		router.Get("/openapi.yml", func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/yaml")
			_, _ = w.Write(openAPI)
		})
		router.Handle("/swagger/*", swagger.Handler("/openapi.yml"))
	}

	router.Route("/api/v1", func(r chi.Router) {
		RegisterAllRoutes(r, h)
	})

	if cfg.Observability.Tracing.Enabled {
		return otelhttp.NewHandler(router, cfg.Observability.Tracing.ServiceName)
	}
	return router
}

func RegisterAllRoutes(r chi.Router, h Handlers) {
	if h.Health != nil {
		r.Get("/health", h.Health.healthCheckHandler)
		r.Get("/ping", h.Health.pingHandler)
	}
	if h.Company != nil {
		r.Get("/tariffs", h.Company.GetTariffs)
	}
	if h.Auth == nil {
		return
	}

	r.Route("/auth", func(ar chi.Router) {
		ar.Post("/signup", h.Auth.Signup)
		ar.Post("/login", h.Auth.Login)
		ar.Post("/refresh", h.Auth.RefreshToken)
		ar.Post("/logout", h.Auth.Logout)
	})

	requireManageCompany := middleware.RequirePermissions(user.PermManageCompany)
	requireManageEmployees := middleware.RequirePermissions(user.PermManageEmployees)
	requireBookTrips := middleware.RequirePermissions(user.PermBookTrips)
	requireApproveTrips := middleware.RequirePermissions(user.PermApproveTrips)
	requireViewReports := middleware.RequirePermissions(user.PermViewReports)
	requireAdmin := middleware.RequirePermissions(user.PermAdmin)

	r.Group(func(pr chi.Router) {
		pr.Use(h.Auth.AuthMiddleware)
		pr.Use(middleware.UserContext)

		if h.User != nil {
			pr.Get("/users/me", h.User.GetCurrentUser)
			pr.With(requireAdmin).Get("/users", h.User.List)
			pr.With(requireAdmin).Post("/users", h.User.Create)
			pr.With(requireAdmin).Patch("/users/{id}/deactivate", h.User.Deactivate)
		}

		if h.Company != nil {
			pr.Route("/company", func(cr chi.Router) {
				cr.Get("/", h.Company.GetCompany)
				cr.Get("/payment-methods", h.Company.GetPaymentMethods)
				cr.Group(func(mr chi.Router) {
					mr.Use(requireManageCompany)
					mr.Put("/tariff", h.Company.ChangeTariff)
					mr.Post("/balance/top-up", h.Company.TopUp)
					mr.Put("/card", h.Company.AttachCard)
					mr.Delete("/card", h.Company.DetachCard)
					mr.Put("/postpay", h.Company.UpdatePostpay)
				})
			})
		}

		if h.Policy != nil {
			pr.Get("/policy", h.Policy.GetPolicy)
			pr.With(requireManageCompany).Put("/policy", h.Policy.UpdatePolicy)
			pr.Post("/policy/evaluate", h.Policy.Evaluate)
		}

		if h.Employee != nil {
			pr.Route("/employees", func(er chi.Router) {
				er.Get("/", h.Employee.List)
				er.Get("/documents/expiring", h.Employee.Expiring)
				er.Get("/{id}", h.Employee.Get)
				er.Group(func(mr chi.Router) {
					mr.Use(requireManageEmployees)
					mr.Post("/", h.Employee.Create)
					mr.Delete("/{id}", h.Employee.Delete)
					mr.Post("/{id}/documents", h.Employee.AddDocument)
					mr.Delete("/{id}/documents/{docID}", h.Employee.RemoveDocument)
					mr.Post("/{id}/cards", h.Employee.AddCard)
				})
			})
		}

		if h.Flight != nil {
			pr.Get("/flights", h.Flight.Search)
			pr.Get("/flights/{id}", h.Flight.Get)
		}

		if h.Trip != nil {
			pr.Route("/trips", func(tr chi.Router) {
				tr.Get("/", h.Trip.List)
				tr.Get("/penalties", h.Trip.Penalties)
				tr.Get("/{id}", h.Trip.Get)
				tr.With(requireBookTrips).Post("/purchase", h.Trip.Purchase)
				tr.With(requireBookTrips).Post("/basket", h.Trip.CreateBasket)
				tr.With(requireApproveTrips).Patch("/{id}/approve", h.Trip.Approve)
				tr.With(requireApproveTrips).Patch("/{id}/reject", h.Trip.Reject)
				tr.With(requireBookTrips).Patch("/{id}/complete", h.Trip.Complete)
				tr.With(requireBookTrips).Patch("/{id}/cancel", h.Trip.Cancel)
			})
		}

		if h.Report != nil {
			pr.Group(func(rr chi.Router) {
				rr.Use(requireViewReports)
				rr.Get("/dashboard", h.Report.Dashboard)
				rr.Get("/reports/summary", h.Report.Summary)
				rr.Get("/reports/trips.csv", h.Report.TripsCSV)
				rr.Get("/reports/trips.xlsx", h.Report.TripsXLSX)
			})
		}

		if h.Assistant != nil {
			pr.Post("/assistant/messages", h.Assistant.Ask)
			pr.Get("/assistant/messages", h.Assistant.History)
			pr.Delete("/assistant/messages", h.Assistant.Clear)
		}

		if h.Notification != nil {
			pr.Get("/notifications", h.Notification.List)
			pr.Patch("/notifications/read-all", h.Notification.MarkAllRead)
			pr.Patch("/notifications/{id}/read", h.Notification.MarkRead)
		}
	})
}
