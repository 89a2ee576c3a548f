package postgres

import (
	"context"
	"errors"

	"github.com/frahmantamala/travel-booking/internal/auth"
	"github.com/frahmantamala/travel-booking/internal/company"
	companyDatamodel "github.com/frahmantamala/travel-booking/internal/core/datamodel/company"
	userDatamodel "github.com/frahmantamala/travel-booking/internal/core/datamodel/user"
	"github.com/frahmantamala/travel-booking/internal/user"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) auth.AccountRepository {
	return &Repository{db: db}
}

func (r *Repository) CreateAccount(ctx context.Context, companyName string, u *user.User) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		c := &companyDatamodel.Company{
			Name:           companyName,
			Balance:        decimal.Zero,
			PostpayLimit:   decimal.Zero,
			PostpayUsed:    decimal.Zero,
			PostpayDueDays: 30,
			Tariff:         string(company.TariffFree),
		}
		if err := tx.Create(c).Error; err != nil {
			return err
		}

		u.CompanyID = c.ID
		m := user.ToDataModel(u)
		if err := tx.Create(m).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return auth.ErrEmailTaken
			}
			return err
		}
		*u = *user.FromDataModel(m)
		return nil
	})
}

func (r *Repository) GetByEmail(ctx context.Context, email string) (*user.User, error) {
	return r.first(ctx, "email = ?", email)
}

func (r *Repository) GetByID(ctx context.Context, id int64) (*user.User, error) {
	return r.first(ctx, "id = ?", id)
}

func (r *Repository) first(ctx context.Context, query string, arg interface{}) (*user.User, error) {
	var m userDatamodel.User
	if err := r.db.WithContext(ctx).Where(query, arg).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, user.ErrUserNotFound
		}
		return nil, err
	}
	return user.FromDataModel(&m), nil
}
