package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/frahmantamala/travel-booking/api"
	"github.com/frahmantamala/travel-booking/internal/assistant"
	"github.com/frahmantamala/travel-booking/internal/auth"
	"github.com/frahmantamala/travel-booking/internal/company"
	"github.com/frahmantamala/travel-booking/internal/core/events"
	"github.com/frahmantamala/travel-booking/internal/employee"
	"github.com/frahmantamala/travel-booking/internal/flight"
	"github.com/frahmantamala/travel-booking/internal/notification"
	"github.com/frahmantamala/travel-booking/internal/policy"
	"github.com/frahmantamala/travel-booking/internal/report"
	"github.com/frahmantamala/travel-booking/internal/seed"
	"github.com/frahmantamala/travel-booking/internal/telemetry"
	"github.com/frahmantamala/travel-booking/internal/ticketing"
	"github.com/frahmantamala/travel-booking/internal/transport/rest"
	"github.com/frahmantamala/travel-booking/internal/trip"
	"github.com/frahmantamala/travel-booking/internal/user"
	"github.com/frahmantamala/travel-booking/pkg/logger"
	"github.com/spf13/cobra"
)

var httpServerCmd = &cobra.Command{
	Use:   "server",
	Short: "Start HTTP server",
	Long:  `Start the HTTP server to handle API requests`,
	Run: func(cmd *cobra.Command, args []string) {
		if err := startHTTPServer(); err != nil {
			fmt.Fprintf(os.Stderr, "Server failed: %v\n", err)
			os.Exit(1)
		}
	},
}

func startHTTPServer() error {
	cfg, err := loadConfig(configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	logger.Init(cfg.Observability.Logging.Level, cfg.Observability.Logging.Format)
	lg := logger.LoggerWrapper()

	ctx := context.Background()
	shutdownTracing := telemetry.Setup(ctx, cfg.Observability.Tracing, lg)

	deps, err := initializeDependencies(ctx, cfg, lg)
	if err != nil {
		return err
	}

	if cfg.Database.SeedOnStart {
		if err := runSeed(ctx, deps, false); err != nil {
			lg.Error("seeding on start failed", "error", err)
		}
	}

	// With Kafka enabled purchases leave the process and `worker ticketing` issues the tickets.
	var tickets *ticketing.Service
	var forwarder *events.KafkaForwarder
	if cfg.Kafka.Enabled {
		forwarder = events.NewKafkaForwarder(events.NewKafkaWriter(cfg.Kafka.Brokers, cfg.Kafka.Topic), lg)
		forwarder.Register(deps.Bus)
		lg.Info("forwarding events to kafka", "brokers", cfg.Kafka.Brokers, "topic", cfg.Kafka.Topic)
	} else {
		tickets = ticketing.NewService(ticketing.ConfigFrom(cfg.Booking), deps.Trips, deps.Bus, lg)
		tickets.Register(deps.Bus)
	}

	openAPI := api.Spec
	if _, err := api.Load(ctx); err != nil {
		lg.Warn("openapi document failed validation, not serving it", "error", err)
		openAPI = nil
	}

	health := rest.NewHealthHandler(deps.SQLX, cfg.Database.Driver)
	if deps.Redis != nil {
		health.WithCheck("redis", func(ctx context.Context) error { return deps.Redis.Ping(ctx).Err() })
	}

	handler := rest.NewRouter(cfg, rest.Handlers{
		Health:       health,
		Auth:         auth.NewHandler(lg, deps.Auth),
		User:         user.NewHandler(lg, deps.Users),
		Company:      company.NewHandler(lg, deps.Companies),
		Policy:       policy.NewHandler(lg, deps.Policies),
		Employee:     employee.NewHandler(lg, deps.Employees),
		Flight:       flight.NewHandler(lg, deps.Flights),
		Trip:         trip.NewHandler(lg, deps.Trips),
		Report:       report.NewHandler(lg, deps.Reports),
		Assistant:    assistant.NewHandler(lg, deps.Assistant),
		Notification: notification.NewHandler(lg, deps.Notifications),
	}, openAPI, lg)

	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	server := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: cfg.Server.ReadHeaderTimeout,
		ReadTimeout:       cfg.Server.ReadTimeout,
		WriteTimeout:      cfg.Server.WriteTimeout,
		IdleTimeout:       cfg.Server.IdleTimeout,
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	serverErrChan := make(chan error, 1)
	go func() {
		lg.Info("Starting HTTP server", "address", addr, "driver", cfg.Database.Driver)
		serverErrChan <- server.ListenAndServe()
	}()

	var runErr error
	select {
	case sig := <-sigChan:
		lg.Info("Received signal, shutting down...", "signal", sig)
	case err := <-serverErrChan:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			runErr = fmt.Errorf("server failed to start: %w", err)
		}
	}

	timeout := cfg.Server.ShutdownTimeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		lg.Error("Server shutdown error", "error", err)
	}
	if tickets != nil {
		tickets.Shutdown()
	}
	deps.Close()
	if forwarder != nil {
		if err := forwarder.Close(); err != nil {
			lg.Error("kafka writer close error", "error", err)
		}
	}
	if err := shutdownTracing(shutdownCtx); err != nil {
		lg.Error("tracer shutdown error", "error", err)
	}

	lg.Info("Server stopped")
	return runErr
}

func runSeed(ctx context.Context, deps *Dependencies, clear bool) error {
	fixtures, err := seed.DefaultFixtures()
	if err != nil {
		return err
	}
	seeder := seed.NewSeeder(deps.DB, seed.Services{
		Accounts:  deps.Auth,
		Users:     deps.Users,
		Companies: deps.Companies,
		Employees: deps.Employees,
		Flights:   deps.Flights,
	}, deps.Logger)

	if clear {
		if err := seeder.Clear(ctx); err != nil {
			return err
		}
	}
	return seeder.Run(ctx, fixtures)
}
