package postgres

import (
	"context"
	"errors"
	"strings"
	"time"

	employeeDatamodel "github.com/frahmantamala/travel-booking/internal/core/datamodel/employee"
	"github.com/frahmantamala/travel-booking/internal/employee"
	"gorm.io/gorm"
)

type EmployeeRepository struct {
	db *gorm.DB
}

func NewEmployeeRepository(db *gorm.DB) employee.RepositoryAPI {
	return &EmployeeRepository{db: db}
}

func (r *EmployeeRepository) Create(ctx context.Context, e *employee.Employee) error {
	m := employee.ToDataModel(e)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return employee.ErrDuplicateEmployee
		}
		return err
	}
	created := employee.FromDataModel(m)
	*e = *created
	return nil
}

func (r *EmployeeRepository) GetByID(ctx context.Context, companyID, id int64) (*employee.Employee, error) {
	var m employeeDatamodel.Employee
	err := r.db.WithContext(ctx).
		Preload("Documents", func(db *gorm.DB) *gorm.DB { return db.Order("expiration_date ASC") }).
		Preload("Cards").
		Where("company_id = ? AND id = ?", companyID, id).
		First(&m).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, employee.ErrEmployeeNotFound
		}
		return nil, err
	}
	return employee.FromDataModel(&m), nil
}

func (r *EmployeeRepository) ExistsByEmail(ctx context.Context, companyID int64, email string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&employeeDatamodel.Employee{}).
		Where("company_id = ? AND LOWER(email) = ?", companyID, strings.ToLower(email)).
		Count(&count).Error
	return count > 0, err
}

func (r *EmployeeRepository) List(ctx context.Context, companyID int64, filter employee.ListFilter) ([]*employee.Employee, error) {
	q := r.db.WithContext(ctx).
		Preload("Documents", func(db *gorm.DB) *gorm.DB { return db.Order("expiration_date ASC") }).
		Preload("Cards").
		Where("company_id = ?", companyID)

	if filter.Query != "" {
		like := "%" + strings.ToLower(filter.Query) + "%"
		q = q.Where("LOWER(name) LIKE ? OR LOWER(email) LIKE ? OR LOWER(department) LIKE ?", like, like, like)
	}
	if filter.Department != "" {
		q = q.Where("department = ?", filter.Department)
	}

	var models []employeeDatamodel.Employee
	if err := q.Order("name ASC").Find(&models).Error; err != nil {
		return nil, err
	}

	out := make([]*employee.Employee, 0, len(models))
	for i := range models {
		out = append(out, employee.FromDataModel(&models[i]))
	}
	return out, nil
}

// Delete removes the employee with its documents and cards in one transaction.
func (r *EmployeeRepository) Delete(ctx context.Context, companyID, id int64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Where("company_id = ? AND id = ?", companyID, id).Delete(&employeeDatamodel.Employee{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return employee.ErrEmployeeNotFound
		}
		if err := tx.Where("employee_id = ?", id).Delete(&employeeDatamodel.Document{}).Error; err != nil {
			return err
		}
		return tx.Where("employee_id = ?", id).Delete(&employeeDatamodel.Card{}).Error
	})
}

func (r *EmployeeRepository) AddDocument(ctx context.Context, doc *employee.Document) error {
	m := employee.DocumentToDataModel(doc)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	doc.ID = m.ID
	return nil
}

func (r *EmployeeRepository) RemoveDocument(ctx context.Context, employeeID, documentID int64) error {
	res := r.db.WithContext(ctx).
		Where("employee_id = ? AND id = ?", employeeID, documentID).
		Delete(&employeeDatamodel.Document{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return employee.ErrDocumentNotFound
	}
	return nil
}

func (r *EmployeeRepository) AddCard(ctx context.Context, card *employee.Card) error {
	m := &employeeDatamodel.Card{
		EmployeeID: card.EmployeeID,
		Last4:      card.Last4,
		Holder:     card.Holder,
	}
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	card.ID = m.ID
	return nil
}

// ListDocumentsExpiringBy returns employees that hold at least one document expiring on or before until,
// each preloaded with only those documents.
func (r *EmployeeRepository) ListDocumentsExpiringBy(ctx context.Context, companyID int64, until time.Time) ([]*employee.Employee, error) {
	db := r.db.WithContext(ctx)
	expiring := db.Model(&employeeDatamodel.Document{}).
		Select("employee_id").
		Where("expiration_date <= ?", until)

	var models []employeeDatamodel.Employee
	err := db.
		Preload("Documents", "expiration_date <= ?", until).
		Where("company_id = ? AND id IN (?)", companyID, expiring).
		Order("name ASC").
		Find(&models).Error
	if err != nil {
		return nil, err
	}

	out := make([]*employee.Employee, 0, len(models))
	for i := range models {
		out = append(out, employee.FromDataModel(&models[i]))
	}
	return out, nil
}
