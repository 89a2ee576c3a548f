package seed

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/frahmantamala/travel-booking/internal/auth"
	"github.com/frahmantamala/travel-booking/internal/company"
	"github.com/frahmantamala/travel-booking/internal/employee"
	"github.com/frahmantamala/travel-booking/internal/flight"
	"github.com/frahmantamala/travel-booking/internal/storage"
	"github.com/frahmantamala/travel-booking/internal/user"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type Accounts interface {
	Signup(ctx context.Context, dto auth.SignupDTO) (*auth.SignupResult, error)
}

type Users interface {
	CreateUser(ctx context.Context, companyID int64, dto user.CreateUserDTO) (*user.User, error)
}

type Companies interface {
	ChangeTariff(ctx context.Context, id int64, dto company.ChangeTariffDTO) (*company.Company, error)
	TopUpBalance(ctx context.Context, id int64, dto company.TopUpDTO) (*company.Company, error)
}

type Employees interface {
	CreateEmployee(ctx context.Context, companyID int64, dto employee.CreateEmployeeDTO) (*employee.Employee, error)
}

type Flights interface {
	Refresh(ctx context.Context, flights []*flight.Flight) error
}

// Seeder loads fixtures through the domain services so seeded rows obey the same rules as API writes.
type Seeder struct {
	db        *gorm.DB
	accounts  Accounts
	users     Users
	companies Companies
	employees Employees
	flights   Flights
	now       func() time.Time
	logger    *slog.Logger
}

type Services struct {
	Accounts  Accounts
	Users     Users
	Companies Companies
	Employees Employees
	Flights   Flights
}

func NewSeeder(db *gorm.DB, svc Services, logger *slog.Logger) *Seeder {
	return &Seeder{
		db:        db,
		accounts:  svc.Accounts,
		users:     svc.Users,
		companies: svc.Companies,
		employees: svc.Employees,
		flights:   svc.Flights,
		now:       time.Now,
		logger:    logger,
	}
}

func (s *Seeder) WithClock(now func() time.Time) *Seeder {
	s.now = now
	return s
}

// Clear deletes every row of every table, children first.
func (s *Seeder) Clear(ctx context.Context) error {
	models := storage.Models()
	tx := s.db.WithContext(ctx).Session(&gorm.Session{AllowGlobalUpdate: true})
	for i := len(models) - 1; i >= 0; i-- {
		if err := tx.Delete(models[i]).Error; err != nil {
			return fmt.Errorf("clear %T: %w", models[i], err)
		}
	}
	s.logger.Info("existing data cleared", "tables", len(models))
	return nil
}

// Run seeds flights and companies. Companies whose administrator already exists are skipped.
func (s *Seeder) Run(ctx context.Context, f *Fixtures) error {
	flights, err := BuildFlights(f, s.now())
	if err != nil {
		return err
	}
	if err := s.flights.Refresh(ctx, flights); err != nil {
		return fmt.Errorf("seed flights: %w", err)
	}

	for _, c := range f.Companies {
		if err := s.seedCompany(ctx, c); err != nil {
			return fmt.Errorf("seed company %q: %w", c.Name, err)
		}
	}
	return nil
}

func (s *Seeder) seedCompany(ctx context.Context, c Company) error {
	admin, others, err := splitAdmin(c.Users)
	if err != nil {
		return err
	}

	res, err := s.accounts.Signup(ctx, auth.SignupDTO{
		CompanyName: c.Name,
		Name:        admin.Name,
		Email:       admin.Email,
		Password:    admin.Password,
	})
	if errors.Is(err, auth.ErrEmailTaken) {
		s.logger.Info("company already seeded", "company", c.Name, "admin", admin.Email)
		return nil
	}
	if err != nil {
		return err
	}
	companyID := res.User.CompanyID

	if c.Tariff != "" && company.Tariff(c.Tariff) != company.TariffFree {
		if _, err := s.companies.ChangeTariff(ctx, companyID, company.ChangeTariffDTO{Tariff: company.Tariff(c.Tariff)}); err != nil {
			return err
		}
	}
	if c.TopUp != "" {
		amount, err := decimal.NewFromString(c.TopUp)
		if err != nil {
			return fmt.Errorf("top_up: %w", err)
		}
		if _, err := s.companies.TopUpBalance(ctx, companyID, company.TopUpDTO{Amount: amount}); err != nil {
			return err
		}
	}

	for _, u := range others {
		dto := user.CreateUserDTO{Name: u.Name, Email: u.Email, Password: u.Password, Role: user.Role(u.Role)}
		if _, err := s.users.CreateUser(ctx, companyID, dto); err != nil {
			return fmt.Errorf("user %s: %w", u.Email, err)
		}
	}

	today := s.now().UTC().Truncate(24 * time.Hour)
	for _, e := range c.Employees {
		dto := employee.CreateEmployeeDTO{Name: e.Name, Email: e.Email, Role: e.Role, Department: e.Department}
		for _, d := range e.Documents {
			dto.Documents = append(dto.Documents, employee.AddDocumentDTO{
				Type:           employee.DocumentType(d.Type),
				Number:         d.Number,
				ExpirationDate: today.AddDate(0, 0, d.ExpiresInDays).Format("2006-01-02"),
			})
		}
		if _, err := s.employees.CreateEmployee(ctx, companyID, dto); err != nil {
			return fmt.Errorf("employee %s: %w", e.Email, err)
		}
	}

	s.logger.Info("company seeded",
		"company", c.Name,
		"company_id", companyID,
		"users", len(c.Users),
		"employees", len(c.Employees))
	return nil
}

func splitAdmin(users []User) (User, []User, error) {
	for i, u := range users {
		if user.Role(u.Role) == user.RoleAdmin {
			rest := append(append([]User{}, users[:i]...), users[i+1:]...)
			return u, rest, nil
		}
	}
	return User{}, nil, errors.New("fixture company needs an ADMIN user")
}

// BuildFlights expands every route into one flight per day for FlightDays days starting tomorrow.
func BuildFlights(f *Fixtures, now time.Time) ([]*flight.Flight, error) {
	start := now.UTC().Truncate(24*time.Hour).AddDate(0, 0, 1)
	out := make([]*flight.Flight, 0, len(f.Routes)*f.FlightDays)

	for _, r := range f.Routes {
		clock, err := time.Parse("15:04", r.Departs)
		if err != nil {
			return nil, fmt.Errorf("route %s: departs must use HH:MM", r.Number)
		}
		price, err := decimal.NewFromString(r.Price)
		if err != nil {
			return nil, fmt.Errorf("route %s: invalid price: %w", r.Number, err)
		}
		compact := strings.ReplaceAll(r.Number, " ", "")

		for d := 0; d < f.FlightDays; d++ {
			day := start.AddDate(0, 0, d)
			dep := time.Date(day.Year(), day.Month(), day.Day(), clock.Hour(), clock.Minute(), 0, 0, time.UTC)
			out = append(out, &flight.Flight{
				ID:           fmt.Sprintf("%s-%s", compact, dep.Format("20060102")),
				FlightNumber: r.Number,
				Carrier:      r.Carrier,
				From:         r.From,
				To:           r.To,
				FromCity:     f.Airports[r.From],
				ToCity:       f.Airports[r.To],
				DepartureAt:  dep,
				ArrivalAt:    dep.Add(time.Duration(r.Minutes) * time.Minute),
				Class:        r.Class,
				Price:        price,
				Connections:  r.Connections,
				Refundable:   r.Refundable,
				Changeable:   r.Changeable,
			})
		}
	}
	return out, nil
}
