package storage

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/frahmantamala/travel-booking/internal"
	companyDatamodel "github.com/frahmantamala/travel-booking/internal/core/datamodel/company"
	employeeDatamodel "github.com/frahmantamala/travel-booking/internal/core/datamodel/employee"
	flightDatamodel "github.com/frahmantamala/travel-booking/internal/core/datamodel/flight"
	notificationDatamodel "github.com/frahmantamala/travel-booking/internal/core/datamodel/notification"
	policyDatamodel "github.com/frahmantamala/travel-booking/internal/core/datamodel/policy"
	tripDatamodel "github.com/frahmantamala/travel-booking/internal/core/datamodel/trip"
	userDatamodel "github.com/frahmantamala/travel-booking/internal/core/datamodel/user"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// Models lists every table owned by the service, in dependency order.
func Models() []interface{} {
	return []interface{}{
		&companyDatamodel.Company{},
		&policyDatamodel.TravelPolicy{},
		&userDatamodel.User{},
		&employeeDatamodel.Employee{},
		&employeeDatamodel.Document{},
		&employeeDatamodel.Card{},
		&flightDatamodel.Flight{},
		&tripDatamodel.Trip{},
		&tripDatamodel.Passenger{},
		&tripDatamodel.Item{},
		&tripDatamodel.Penalty{},
		&notificationDatamodel.Notification{},
	}
}

// Open connects gorm to the configured driver and applies the pool settings.
func Open(cfg internal.DatabaseConfig, logger *slog.Logger) (*gorm.DB, error) {
	gormCfg := &gorm.Config{
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
		NowFunc:        func() time.Time { return time.Now().UTC() },
		TranslateError: true,
	}

	var dialector gorm.Dialector
	switch cfg.Driver {
	case "postgres":
		dialector = postgres.Open(cfg.GetDSN())
	case "sqlite":
		dialector = sqlite.Open(cfg.GetDSN())
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}

	db, err := gorm.Open(dialector, gormCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s database: %w", cfg.Driver, err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get sql.DB: %w", err)
	}

	if cfg.Driver == "sqlite" && isMemoryDSN(cfg.GetDSN()) {
		// every new connection would see its own empty database
		sqlDB.SetMaxOpenConns(1)
	} else {
		if cfg.MaxOpenConns > 0 {
			sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
		}
		if cfg.MaxIdleConns > 0 {
			sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
		}
	}
	if cfg.ConnMaxLifetime > 0 {
		sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	}
	if cfg.ConnMaxIdleTime > 0 {
		sqlDB.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)
	}

	if err := sqlDB.Ping(); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	logger.Info("database connected", "driver", cfg.Driver)
	return db, nil
}

// AutoMigrate creates the schema from the gorm models. Postgres deployments use goose migrations instead.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(Models()...)
}

// SQLX wraps the gorm connection pool for hand-written queries.
func SQLX(db *gorm.DB, driver string) (*sqlx.DB, error) {
	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	return sqlx.NewDb(sqlDB, SQLXDriverName(driver)), nil
}

// SQLXDriverName maps the configured driver to the database/sql driver name sqlx uses for bind vars.
func SQLXDriverName(driver string) string {
	if driver == "sqlite" {
		return "sqlite3"
	}
	return "pgx"
}

func isMemoryDSN(dsn string) bool {
	return dsn == ":memory:" || strings.Contains(dsn, "mode=memory")
}
