package postgres

import (
	"context"
	"errors"
	"strings"

	"github.com/frahmantamala/travel-booking/internal/company"
	companyDatamodel "github.com/frahmantamala/travel-booking/internal/core/datamodel/company"
	tripDatamodel "github.com/frahmantamala/travel-booking/internal/core/datamodel/trip"
	"github.com/frahmantamala/travel-booking/internal/trip"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type TripRepository struct {
	db *gorm.DB
}

func NewTripRepository(db *gorm.DB) trip.RepositoryAPI {
	return &TripRepository{db: db}
}

func (r *TripRepository) Create(ctx context.Context, t *trip.Trip, penalty *trip.Penalty) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if t.Charged {
			if err := debit(tx, t.CompanyID, t.PaymentMethod, t.Total); err != nil {
				return err
			}
		}

		m := trip.ToDataModel(t)
		if err := tx.Create(m).Error; err != nil {
			return err
		}

		if penalty != nil {
			pm := trip.PenaltyToDataModel(penalty)
			if err := tx.Create(pm).Error; err != nil {
				return err
			}
			penalty.ID = pm.ID
		}

		stored := trip.FromDataModel(m)
		t.Passengers = stored.Passengers
		t.Items = stored.Items
		t.UpdatedAt = m.UpdatedAt
		return nil
	})
}

func (r *TripRepository) GetByID(ctx context.Context, companyID int64, id string) (*trip.Trip, error) {
	var m tripDatamodel.Trip
	err := r.withChildren(r.db.WithContext(ctx)).
		Where("company_id = ? AND id = ?", companyID, id).
		First(&m).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, trip.ErrTripNotFound
		}
		return nil, err
	}
	return trip.FromDataModel(&m), nil
}

func (r *TripRepository) List(ctx context.Context, companyID int64, filter trip.ListFilter) ([]*trip.Trip, error) {
	q := r.withChildren(r.db.WithContext(ctx)).Where("company_id = ?", companyID)

	if filter.Status != "" {
		q = q.Where("status = ?", string(filter.Status))
	}
	if filter.Type != "" {
		q = q.Where("type = ?", string(filter.Type))
	}
	if filter.EmployeeID != nil {
		q = q.Where("employee_id = ?", *filter.EmployeeID)
	}
	if filter.From != nil {
		q = q.Where("created_at >= ?", filter.From.UTC())
	}
	if filter.To != nil {
		q = q.Where("created_at <= ?", filter.To.UTC())
	}
	if filter.Query != "" {
		q = q.Where("LOWER(title) LIKE ?", "%"+strings.ToLower(filter.Query)+"%")
	}
	if filter.Limit > 0 {
		q = q.Limit(filter.Limit)
	}

	var models []tripDatamodel.Trip
	if err := q.Order("created_at DESC").Find(&models).Error; err != nil {
		return nil, err
	}
	out := make([]*trip.Trip, 0, len(models))
	for i := range models {
		out = append(out, trip.FromDataModel(&models[i]))
	}
	return out, nil
}

// Transition is a compare-and-set on status so two concurrent approvals cannot both charge.
func (r *TripRepository) Transition(ctx context.Context, t *trip.Trip, tr trip.Transition) error {
	from := make([]string, 0, len(tr.From))
	for _, s := range tr.From {
		from = append(from, string(s))
	}

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		updates := map[string]interface{}{"status": string(tr.To)}
		if tr.Charge {
			updates["charged"] = true
		}
		if tr.Refund {
			updates["charged"] = false
		}

		q := tx.Model(&tripDatamodel.Trip{}).
			Where("company_id = ? AND id = ? AND status IN ?", t.CompanyID, t.ID, from)
		if tr.Guard {
			q = q.Where("charged = ? AND ticketed = ?", t.Charged, t.Ticketed)
		}
		res := q.Updates(updates)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return trip.ErrInvalidTripStatus
		}

		if tr.Charge {
			return debit(tx, t.CompanyID, t.PaymentMethod, t.Total)
		}
		if tr.Refund {
			return credit(tx, t.CompanyID, t.PaymentMethod, t.Total)
		}
		return nil
	})
}

func (r *TripRepository) SetTicketNumbers(ctx context.Context, tripID string, numbers []string) (*trip.Trip, error) {
	var out *trip.Trip
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var m tripDatamodel.Trip
		if err := r.withChildren(tx).Where("id = ?", tripID).First(&m).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return trip.ErrTripNotFound
			}
			return err
		}
		res := tx.Model(&tripDatamodel.Trip{}).
			Where("id = ? AND status <> ?", tripID, string(trip.StatusCancelled)).
			Update("ticketed", true)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return trip.ErrInvalidTripStatus
		}

		for i := range m.Passengers {
			if i >= len(numbers) {
				break
			}
			number := numbers[i]
			if err := tx.Model(&tripDatamodel.Passenger{}).
				Where("id = ?", m.Passengers[i].ID).
				Update("ticket_number", number).Error; err != nil {
				return err
			}
			m.Passengers[i].TicketNumber = &number
		}

		m.Ticketed = true
		out = trip.FromDataModel(&m)
		return nil
	})
	return out, err
}

func (r *TripRepository) ListPenalties(ctx context.Context, companyID int64) ([]*trip.Penalty, error) {
	var models []tripDatamodel.Penalty
	err := r.db.WithContext(ctx).
		Where("company_id = ?", companyID).
		Order("created_at DESC").
		Find(&models).Error
	if err != nil {
		return nil, err
	}
	out := make([]*trip.Penalty, 0, len(models))
	for i := range models {
		out = append(out, trip.PenaltyFromDataModel(&models[i]))
	}
	return out, nil
}

func (r *TripRepository) withChildren(db *gorm.DB) *gorm.DB {
	return db.
		Preload("Passengers", func(db *gorm.DB) *gorm.DB { return db.Order("id ASC") }).
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("id ASC") })
}

// debit takes amount from the company account with a guarded update, so a concurrent
// purchase can never push the balance below zero or postpay beyond its limit.
func debit(tx *gorm.DB, companyID int64, method company.PaymentMethod, amount decimal.Decimal) error {
	var res *gorm.DB
	switch method {
	case company.PaymentBalance:
		res = tx.Model(&companyDatamodel.Company{}).
			Where("id = ? AND balance >= ?", companyID, amount).
			Update("balance", gorm.Expr("balance - ?", amount))
	case company.PaymentPostpay:
		res = tx.Model(&companyDatamodel.Company{}).
			Where("id = ? AND postpay_used + ? <= postpay_limit", companyID, amount).
			Update("postpay_used", gorm.Expr("postpay_used + ?", amount))
	default:
		return nil
	}
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		if method == company.PaymentBalance {
			return company.ErrInsufficientFunds
		}
		return company.ErrPostpayLimitExceeded
	}
	return nil
}

func credit(tx *gorm.DB, companyID int64, method company.PaymentMethod, amount decimal.Decimal) error {
	var column string
	var expr clause.Expr
	switch method {
	case company.PaymentBalance:
		column, expr = "balance", gorm.Expr("balance + ?", amount)
	case company.PaymentPostpay:
		column, expr = "postpay_used", gorm.Expr("postpay_used - ?", amount)
	default:
		return nil
	}
	res := tx.Model(&companyDatamodel.Company{}).Where("id = ?", companyID).Update(column, expr)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return company.ErrCompanyNotFound
	}
	return nil
}
