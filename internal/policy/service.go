package policy

import (
	"context"
	"log/slog"

	"github.com/frahmantamala/travel-booking/internal"
	"github.com/shopspring/decimal"
)

type RepositoryAPI interface {
	// GetByCompanyID returns nil without error when the company has no stored policy.
	GetByCompanyID(ctx context.Context, companyID int64) (*TravelPolicy, error)
	Upsert(ctx context.Context, p *TravelPolicy) error
}

// Defaults is the policy a company gets until it saves its own.
type Defaults struct {
	SoftLimit      decimal.Decimal
	BlockLimit     decimal.Decimal
	WindowFrom     string
	WindowTo       string
	AllowedClasses []string
	MaxConnections int
}

func DefaultsFromConfig(cfg internal.BookingConfig) (Defaults, error) {
	soft, block, err := cfg.DefaultLimits()
	if err != nil {
		return Defaults{}, err
	}
	return Defaults{
		SoftLimit:      soft,
		BlockLimit:     block,
		WindowFrom:     cfg.DefaultWindowFrom,
		WindowTo:       cfg.DefaultWindowTo,
		AllowedClasses: []string{"ECONOMY", "PREMIUM_ECONOMY"},
		MaxConnections: 1,
	}, nil
}

func (d Defaults) For(companyID int64) *TravelPolicy {
	classes := make([]string, len(d.AllowedClasses))
	copy(classes, d.AllowedClasses)
	return &TravelPolicy{
		CompanyID:              companyID,
		SoftLimit:              d.SoftLimit,
		BlockLimit:             d.BlockLimit,
		PreferredDepartureFrom: d.WindowFrom,
		PreferredDepartureTo:   d.WindowTo,
		AllowedClasses:         classes,
		MaxConnections:         d.MaxConnections,
	}
}

type Service struct {
	repo     RepositoryAPI
	defaults Defaults
	logger   *slog.Logger
}

func NewService(repo RepositoryAPI, defaults Defaults, logger *slog.Logger) *Service {
	return &Service{repo: repo, defaults: defaults, logger: logger}
}

func (s *Service) GetPolicy(ctx context.Context, companyID int64) (*TravelPolicy, error) {
	p, err := s.repo.GetByCompanyID(ctx, companyID)
	if err != nil {
		s.logger.Error("failed to load travel policy", "error", err, "company_id", companyID)
		return nil, internal.NewInternalError("failed to load travel policy", err)
	}
	if p == nil {
		return s.defaults.For(companyID), nil
	}
	return p, nil
}

func (s *Service) UpdatePolicy(ctx context.Context, companyID int64, dto UpdatePolicyDTO) (*TravelPolicy, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	p := &TravelPolicy{
		CompanyID:              companyID,
		SoftLimit:              dto.SoftLimit,
		BlockLimit:             dto.BlockLimit,
		PreferredDepartureFrom: dto.PreferredDepartureFrom,
		PreferredDepartureTo:   dto.PreferredDepartureTo,
		AllowedClasses:         dto.AllowedClasses,
		MaxConnections:         dto.MaxConnections,
		RequireApprovalOnWarn:  dto.RequireApprovalOnWarn,
	}
	if p.AllowedClasses == nil {
		p.AllowedClasses = []string{}
	}

	if err := s.repo.Upsert(ctx, p); err != nil {
		s.logger.Error("failed to save travel policy", "error", err, "company_id", companyID)
		return nil, internal.NewInternalError("failed to save travel policy", err)
	}

	s.logger.Info("travel policy updated",
		"company_id", companyID,
		"soft_limit", p.SoftLimit.String(),
		"block_limit", p.BlockLimit.String())
	return p, nil
}

// EvaluatePrice checks an arbitrary offer against the company's policy.
func (s *Service) EvaluatePrice(ctx context.Context, companyID int64, dto EvaluateDTO) (*Evaluation, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}
	p, err := s.GetPolicy(ctx, companyID)
	if err != nil {
		return nil, err
	}
	eval := Evaluate(p, FlightFacts{
		Price:       dto.Price,
		DepartureAt: dto.DepartureAt,
		Class:       dto.Class,
		Connections: dto.Connections,
	})
	return &eval, nil
}
