package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/frahmantamala/travel-booking/internal"
	"github.com/frahmantamala/travel-booking/internal/assistant"
	"github.com/frahmantamala/travel-booking/internal/auth"
	authPostgres "github.com/frahmantamala/travel-booking/internal/auth/postgres"
	"github.com/frahmantamala/travel-booking/internal/company"
	companyPostgres "github.com/frahmantamala/travel-booking/internal/company/postgres"
	"github.com/frahmantamala/travel-booking/internal/core/events"
	"github.com/frahmantamala/travel-booking/internal/employee"
	employeePostgres "github.com/frahmantamala/travel-booking/internal/employee/postgres"
	"github.com/frahmantamala/travel-booking/internal/flight"
	flightPostgres "github.com/frahmantamala/travel-booking/internal/flight/postgres"
	"github.com/frahmantamala/travel-booking/internal/flight/rediscache"
	"github.com/frahmantamala/travel-booking/internal/notification"
	notificationPostgres "github.com/frahmantamala/travel-booking/internal/notification/postgres"
	"github.com/frahmantamala/travel-booking/internal/policy"
	policyPostgres "github.com/frahmantamala/travel-booking/internal/policy/postgres"
	"github.com/frahmantamala/travel-booking/internal/report"
	reportPostgres "github.com/frahmantamala/travel-booking/internal/report/postgres"
	"github.com/frahmantamala/travel-booking/internal/storage"
	"github.com/frahmantamala/travel-booking/internal/trip"
	tripPostgres "github.com/frahmantamala/travel-booking/internal/trip/postgres"
	"github.com/frahmantamala/travel-booking/internal/user"
	userPostgres "github.com/frahmantamala/travel-booking/internal/user/postgres"
	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Dependencies is everything the server, worker and CLI commands share.
type Dependencies struct {
	Config *internal.Config
	Logger *slog.Logger
	DB     *gorm.DB
	SQLX   *sqlx.DB
	Bus    *events.EventBus
	// nil unless the flight cache is enabled and reachable
	Redis *redis.Client

	Auth          *auth.Service
	Users         *user.Service
	Companies     *company.Service
	Policies      *policy.Service
	Employees     *employee.Service
	Flights       *flight.Service
	Trips         *trip.Service
	Reports       *report.Service
	Assistant     *assistant.Service
	Notifications *notification.Service

	closers []func() error
}

func initializeDependencies(ctx context.Context, cfg *internal.Config, logger *slog.Logger) (*Dependencies, error) {
	db, err := storage.Open(cfg.Database, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}
	// sqlite is the local development store; postgres schemas come from goose migrations
	if cfg.Database.Driver == "sqlite" {
		if err := storage.AutoMigrate(db); err != nil {
			return nil, fmt.Errorf("failed to migrate sqlite schema: %w", err)
		}
	}

	sqlxDB, err := storage.SQLX(db, cfg.Database.Driver)
	if err != nil {
		return nil, fmt.Errorf("failed to wrap database: %w", err)
	}

	deps := &Dependencies{
		Config: cfg,
		Logger: logger,
		DB:     db,
		SQLX:   sqlxDB,
		Bus:    events.NewEventBus(logger),
	}
	deps.closers = append(deps.closers, sqlxDB.Close)

	defaults, err := policy.DefaultsFromConfig(cfg.Booking)
	if err != nil {
		return nil, fmt.Errorf("invalid booking defaults: %w", err)
	}

	var cache flight.Cache
	if cfg.Redis.Enabled {
		client := rediscache.NewClient(cfg.Redis)
		pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
		err := client.Ping(pingCtx).Err()
		cancel()
		if err != nil {
			logger.Warn("redis unavailable, flight cache disabled", "addr", cfg.Redis.Addr, "error", err)
			_ = client.Close()
		} else {
			cache = rediscache.NewFlightCache(client, cfg.Redis.FlightTTL)
			deps.Redis = client
			deps.closers = append(deps.closers, client.Close)
			logger.Info("flight cache enabled", "addr", cfg.Redis.Addr, "ttl", cfg.Redis.FlightTTL)
		}
	}

	deps.Companies = company.NewService(companyPostgres.NewCompanyRepository(db), logger)
	deps.Policies = policy.NewService(policyPostgres.NewPolicyRepository(db), defaults, logger)
	deps.Users = user.NewService(userPostgres.NewUserRepository(db), deps.Companies, cfg.Security.BCryptCost, logger)
	deps.Auth = auth.NewService(authPostgres.NewRepository(db), auth.NewJWTTokenGenerator(cfg.Security), cfg.Security.BCryptCost, logger)
	deps.Employees = employee.NewService(employeePostgres.NewEmployeeRepository(db), deps.Bus, cfg.Booking.ExpiringSoonDays, logger)
	deps.Flights = flight.NewService(flightPostgres.NewFlightRepository(db), cache, deps.Policies, logger)
	deps.Trips = trip.NewService(tripPostgres.NewTripRepository(db), trip.Dependencies{
		Flights:   deps.Flights,
		Employees: deps.Employees,
		Companies: deps.Companies,
		Policies:  deps.Policies,
		Publisher: deps.Bus,
	}, logger)
	deps.Reports = report.NewService(reportPostgres.NewReportRepository(sqlxDB), deps.Trips, deps.Companies, deps.Employees, logger)
	deps.Assistant = assistant.NewService(deps.Flights, cfg.Booking.AssistantHistorySize, logger)
	deps.Notifications = notification.NewService(notificationPostgres.NewNotificationRepository(db), logger)

	notification.NewEventHandler(deps.Notifications, logger).RegisterEventHandlers(deps.Bus)

	return deps, nil
}

// Close waits for in-flight event handlers, then releases connections.
func (d *Dependencies) Close() {
	d.Bus.Wait()
	for i := len(d.closers) - 1; i >= 0; i-- {
		if err := d.closers[i](); err != nil {
			d.Logger.Error("failed to close dependency", "error", err)
		}
	}
}
