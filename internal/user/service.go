package user

import (
	"context"
	"log/slog"
	"strings"

	"github.com/frahmantamala/travel-booking/internal"
	"github.com/frahmantamala/travel-booking/internal/company"
)

type RepositoryAPI interface {
	Create(ctx context.Context, u *User) error
	GetByID(ctx context.Context, id int64) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	ListByCompany(ctx context.Context, companyID int64) ([]*User, error)
	SetActive(ctx context.Context, companyID, id int64, active bool) error
}

type CompanyLookup interface {
	GetCompany(ctx context.Context, id int64) (*company.Company, error)
}

// Profile is the signed-in user together with their company.
type Profile struct {
	*User
	CompanyName string         `json:"company_name"`
	Tariff      company.Tariff `json:"tariff"`
}

type Service struct {
	repo       RepositoryAPI
	companies  CompanyLookup
	bcryptCost int
	logger     *slog.Logger
}

func NewService(repo RepositoryAPI, companies CompanyLookup, bcryptCost int, logger *slog.Logger) *Service {
	return &Service{repo: repo, companies: companies, bcryptCost: bcryptCost, logger: logger}
}

func (s *Service) GetProfile(ctx context.Context, userID int64) (*Profile, error) {
	u, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		return nil, s.wrap(err, "failed to load user", "user_id", userID)
	}
	c, err := s.companies.GetCompany(ctx, u.CompanyID)
	if err != nil {
		return nil, err
	}
	return &Profile{User: u, CompanyName: c.Name, Tariff: c.Tariff}, nil
}

// CreateUser adds a colleague to the caller's company with the given role.
func (s *Service) CreateUser(ctx context.Context, companyID int64, dto CreateUserDTO) (*User, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	email := NormalizeEmail(dto.Email)
	if _, err := s.repo.GetByEmail(ctx, email); err == nil {
		return nil, ErrEmailTaken
	} else if _, ok := internal.IsAppError(err); !ok {
		return nil, s.wrap(err, "failed to check email", "company_id", companyID)
	}

	hash, err := HashPassword(dto.Password, s.bcryptCost)
	if err != nil {
		return nil, s.wrap(err, "failed to hash password")
	}

	u := &User{
		CompanyID:    companyID,
		Email:        email,
		Name:         strings.TrimSpace(dto.Name),
		PasswordHash: hash,
		Role:         dto.Role,
		IsActive:     true,
	}
	if err := s.repo.Create(ctx, u); err != nil {
		return nil, s.wrap(err, "failed to create user", "company_id", companyID)
	}
	s.logger.Info("user created", "company_id", companyID, "user_id", u.ID, "role", u.Role)
	return u, nil
}

func (s *Service) ListUsers(ctx context.Context, companyID int64) ([]*User, error) {
	users, err := s.repo.ListByCompany(ctx, companyID)
	if err != nil {
		return nil, s.wrap(err, "failed to list users", "company_id", companyID)
	}
	return users, nil
}

// Deactivate blocks sign-in for a user of the company. Admins cannot deactivate themselves.
func (s *Service) Deactivate(ctx context.Context, companyID, callerID, id int64) error {
	if callerID == id {
		return internal.NewForbiddenError("You cannot deactivate your own account", internal.ErrCodeUnauthorizedAccess)
	}
	if err := s.repo.SetActive(ctx, companyID, id, false); err != nil {
		return s.wrap(err, "failed to deactivate user", "company_id", companyID, "user_id", id)
	}
	s.logger.Info("user deactivated", "company_id", companyID, "user_id", id)
	return nil
}

func (s *Service) wrap(err error, msg string, args ...any) error {
	if _, ok := internal.IsAppError(err); ok {
		return err
	}
	s.logger.Error(msg, append(args, "error", err)...)
	return internal.NewInternalError(msg, err)
}
