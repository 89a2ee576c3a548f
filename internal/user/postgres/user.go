package postgres

import (
	"context"
	"errors"

	userDatamodel "github.com/frahmantamala/travel-booking/internal/core/datamodel/user"
	"github.com/frahmantamala/travel-booking/internal/user"
	"gorm.io/gorm"
)

type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) user.RepositoryAPI {
	return &UserRepository{db: db}
}

func (r *UserRepository) Create(ctx context.Context, u *user.User) error {
	m := user.ToDataModel(u)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return user.ErrEmailTaken
		}
		return err
	}
	*u = *user.FromDataModel(m)
	return nil
}

func (r *UserRepository) GetByID(ctx context.Context, id int64) (*user.User, error) {
	return r.first(ctx, "id = ?", id)
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*user.User, error) {
	return r.first(ctx, "email = ?", email)
}

func (r *UserRepository) ListByCompany(ctx context.Context, companyID int64) ([]*user.User, error) {
	var models []userDatamodel.User
	err := r.db.WithContext(ctx).
		Where("company_id = ?", companyID).
		Order("name ASC").
		Find(&models).Error
	if err != nil {
		return nil, err
	}
	out := make([]*user.User, 0, len(models))
	for i := range models {
		out = append(out, user.FromDataModel(&models[i]))
	}
	return out, nil
}

func (r *UserRepository) SetActive(ctx context.Context, companyID, id int64, active bool) error {
	res := r.db.WithContext(ctx).Model(&userDatamodel.User{}).
		Where("company_id = ? AND id = ?", companyID, id).
		Update("is_active", active)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return user.ErrUserNotFound
	}
	return nil
}

func (r *UserRepository) first(ctx context.Context, query string, arg interface{}) (*user.User, error) {
	var m userDatamodel.User
	if err := r.db.WithContext(ctx).Where(query, arg).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, user.ErrUserNotFound
		}
		return nil, err
	}
	return user.FromDataModel(&m), nil
}
