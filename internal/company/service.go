package company

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/frahmantamala/travel-booking/internal"
	"github.com/frahmantamala/travel-booking/internal/core/common/validation"
	"github.com/shopspring/decimal"
)

// DefaultPostpayLimit is granted the first time a company moves onto a postpay tariff.
var DefaultPostpayLimit = decimal.NewFromInt(500000)

type RepositoryAPI interface {
	Create(ctx context.Context, c *Company) error
	GetByID(ctx context.Context, id int64) (*Company, error)
	Update(ctx context.Context, c *Company) error
	AddBalance(ctx context.Context, id int64, amount decimal.Decimal) error
}

type Service struct {
	repo   RepositoryAPI
	logger *slog.Logger
	now    func() time.Time
}

func NewService(repo RepositoryAPI, logger *slog.Logger) *Service {
	return &Service{repo: repo, logger: logger, now: time.Now}
}

// WithClock overrides the time source.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// CreateCompany registers a company on the free tariff with an empty balance.
func (s *Service) CreateCompany(ctx context.Context, name string) (*Company, error) {
	v := validation.NewValidator()
	v.Field("company_name", name).Required().MaxLength(200)
	if err := v.Validate(); err != nil {
		return nil, err
	}

	c := &Company{
		Name:           strings.TrimSpace(name),
		Balance:        decimal.Zero,
		PostpayLimit:   decimal.Zero,
		PostpayUsed:    decimal.Zero,
		PostpayDueDays: 30,
		Tariff:         TariffFree,
	}
	if err := s.repo.Create(ctx, c); err != nil {
		s.logger.Error("failed to create company", "error", err)
		return nil, internal.NewInternalError("failed to create company", err)
	}

	s.logger.Info("company created", "company_id", c.ID, "name", c.Name)
	return c, nil
}

func (s *Service) GetCompany(ctx context.Context, id int64) (*Company, error) {
	c, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if _, ok := internal.IsAppError(err); ok {
			return nil, err
		}
		s.logger.Error("failed to load company", "error", err, "company_id", id)
		return nil, internal.NewInternalError("failed to load company", err)
	}
	return c, nil
}

func (s *Service) ChangeTariff(ctx context.Context, id int64, dto ChangeTariffDTO) (*Company, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}
	c, err := s.GetCompany(ctx, id)
	if err != nil {
		return nil, err
	}

	if c.Tariff.AllowsPostpay() && !dto.Tariff.AllowsPostpay() && c.PostpayUsed.IsPositive() {
		s.logger.Warn("tariff change blocked by postpay debt",
			"company_id", id,
			"from", c.Tariff,
			"to", dto.Tariff,
			"postpay_used", c.PostpayUsed.String())
		return nil, ErrOutstandingPostpay
	}

	if dto.Tariff.AllowsPostpay() && c.PostpayLimit.IsZero() {
		c.PostpayLimit = DefaultPostpayLimit
	}
	previous := c.Tariff
	c.Tariff = dto.Tariff

	if err := s.repo.Update(ctx, c); err != nil {
		s.logger.Error("failed to change tariff", "error", err, "company_id", id)
		return nil, internal.NewInternalError("failed to change tariff", err)
	}

	s.logger.Info("tariff changed", "company_id", id, "from", previous, "to", c.Tariff)
	return c, nil
}

func (s *Service) TopUpBalance(ctx context.Context, id int64, dto TopUpDTO) (*Company, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}
	if err := s.repo.AddBalance(ctx, id, dto.Amount); err != nil {
		if _, ok := internal.IsAppError(err); ok {
			return nil, err
		}
		s.logger.Error("failed to top up balance", "error", err, "company_id", id)
		return nil, internal.NewInternalError("failed to top up balance", err)
	}
	s.logger.Info("balance topped up", "company_id", id, "amount", dto.Amount.String())
	return s.GetCompany(ctx, id)
}

// AttachCard stores the last four digits of a Luhn-valid card. The full number is never persisted.
func (s *Service) AttachCard(ctx context.Context, id int64, dto AttachCardDTO) (*Company, error) {
	if err := dto.Validate(s.now()); err != nil {
		return nil, err
	}
	c, err := s.GetCompany(ctx, id)
	if err != nil {
		return nil, err
	}

	c.Card = &CorporateCard{
		Last4:  last4(dto.CardNumber),
		Holder: strings.TrimSpace(dto.Holder),
		Expiry: dto.Expiry,
	}
	if err := s.repo.Update(ctx, c); err != nil {
		s.logger.Error("failed to attach card", "error", err, "company_id", id)
		return nil, internal.NewInternalError("failed to attach card", err)
	}

	s.logger.Info("corporate card attached", "company_id", id, "last4", c.Card.Last4)
	return c, nil
}

func (s *Service) DetachCard(ctx context.Context, id int64) (*Company, error) {
	c, err := s.GetCompany(ctx, id)
	if err != nil {
		return nil, err
	}
	c.Card = nil
	if err := s.repo.Update(ctx, c); err != nil {
		s.logger.Error("failed to detach card", "error", err, "company_id", id)
		return nil, internal.NewInternalError("failed to detach card", err)
	}
	s.logger.Info("corporate card detached", "company_id", id)
	return c, nil
}

func (s *Service) UpdatePostpay(ctx context.Context, id int64, dto UpdatePostpayDTO) (*Company, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}
	c, err := s.GetCompany(ctx, id)
	if err != nil {
		return nil, err
	}
	if !c.Tariff.AllowsPostpay() {
		return nil, ErrPostpayNotAvailable
	}
	if dto.Limit.LessThan(c.PostpayUsed) {
		return nil, internal.NewValidationFieldError("limit", "limit cannot be below the outstanding postpay amount", internal.ErrCodeInvalidAmount)
	}

	c.PostpayLimit = dto.Limit
	c.PostpayDueDays = dto.DueDays
	if err := s.repo.Update(ctx, c); err != nil {
		s.logger.Error("failed to update postpay terms", "error", err, "company_id", id)
		return nil, internal.NewInternalError("failed to update postpay terms", err)
	}
	return c, nil
}

func (s *Service) PaymentMethods(ctx context.Context, id int64) ([]PaymentMethod, error) {
	c, err := s.GetCompany(ctx, id)
	if err != nil {
		return nil, err
	}
	return c.PaymentMethods(), nil
}

func (s *Service) CanPay(ctx context.Context, id int64, method PaymentMethod, amount decimal.Decimal) error {
	c, err := s.GetCompany(ctx, id)
	if err != nil {
		return err
	}
	return c.CanPay(method, amount)
}

func (s *Service) Catalog() []CatalogEntry {
	return Catalog()
}
