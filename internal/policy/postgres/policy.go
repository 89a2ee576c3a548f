package postgres

import (
	"context"
	"errors"

	policyDatamodel "github.com/frahmantamala/travel-booking/internal/core/datamodel/policy"
	"github.com/frahmantamala/travel-booking/internal/policy"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type PolicyRepository struct {
	db *gorm.DB
}

func NewPolicyRepository(db *gorm.DB) policy.RepositoryAPI {
	return &PolicyRepository{db: db}
}

func (r *PolicyRepository) GetByCompanyID(ctx context.Context, companyID int64) (*policy.TravelPolicy, error) {
	var m policyDatamodel.TravelPolicy
	err := r.db.WithContext(ctx).Where("company_id = ?", companyID).First(&m).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return policy.FromDataModel(&m), nil
}

func (r *PolicyRepository) Upsert(ctx context.Context, p *policy.TravelPolicy) error {
	m := policy.ToDataModel(p)
	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "company_id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"soft_limit", "block_limit", "window_from", "window_to",
			"allowed_classes", "max_connections", "require_approval_on_warn", "updated_at",
		}),
	}).Create(m).Error
	if err != nil {
		return err
	}
	updated := m.UpdatedAt
	p.UpdatedAt = &updated
	return nil
}
