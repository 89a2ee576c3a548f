package postgres

import (
	"context"
	"errors"

	"github.com/frahmantamala/travel-booking/internal/company"
	companyDatamodel "github.com/frahmantamala/travel-booking/internal/core/datamodel/company"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type CompanyRepository struct {
	db *gorm.DB
}

func NewCompanyRepository(db *gorm.DB) company.RepositoryAPI {
	return &CompanyRepository{db: db}
}

func (r *CompanyRepository) Create(ctx context.Context, c *company.Company) error {
	m := company.ToDataModel(c)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	c.ID = m.ID
	c.CreatedAt = m.CreatedAt
	return nil
}

func (r *CompanyRepository) GetByID(ctx context.Context, id int64) (*company.Company, error) {
	var m companyDatamodel.Company
	if err := r.db.WithContext(ctx).First(&m, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, company.ErrCompanyNotFound
		}
		return nil, err
	}
	return company.FromDataModel(&m), nil
}

// Update writes the settings columns. Balance and postpay usage only move through AddBalance and trip charges.
func (r *CompanyRepository) Update(ctx context.Context, c *company.Company) error {
	m := company.ToDataModel(c)
	res := r.db.WithContext(ctx).Model(&companyDatamodel.Company{}).
		Where("id = ?", c.ID).
		Select("name", "tariff", "postpay_limit", "postpay_due_days", "card_last4", "card_holder", "card_expiry", "updated_at").
		Updates(m)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return company.ErrCompanyNotFound
	}
	return nil
}

func (r *CompanyRepository) AddBalance(ctx context.Context, id int64, amount decimal.Decimal) error {
	res := r.db.WithContext(ctx).Model(&companyDatamodel.Company{}).
		Where("id = ?", id).
		Update("balance", gorm.Expr("balance + ?", amount))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return company.ErrCompanyNotFound
	}
	return nil
}
