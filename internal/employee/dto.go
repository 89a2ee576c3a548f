package employee

import (
	"strings"
	"time"

	errors "github.com/frahmantamala/travel-booking/internal"
	"github.com/frahmantamala/travel-booking/internal/company"
	"github.com/frahmantamala/travel-booking/internal/core/common/validation"
)

const dateLayout = "2006-01-02"

type CreateEmployeeDTO struct {
	Name       string           `json:"name"`
	Email      string           `json:"email"`
	Role       string           `json:"role"`
	Department string           `json:"department"`
	Documents  []AddDocumentDTO `json:"documents,omitempty"`
}

func (d *CreateEmployeeDTO) Normalize() {
	d.Name = strings.TrimSpace(d.Name)
	d.Email = strings.ToLower(strings.TrimSpace(d.Email))
	d.Role = strings.TrimSpace(d.Role)
	d.Department = strings.TrimSpace(d.Department)
}

func (d CreateEmployeeDTO) Validate() error {
	v := validation.NewValidator()
	v.Field("name", d.Name).Required().MaxLength(200)
	v.Field("email", d.Email).Required().Email().MaxLength(255)
	v.Field("role", d.Role).MaxLength(100)
	v.Field("department", d.Department).MaxLength(100)
	if err := v.Validate(); err != nil {
		return err
	}
	for _, doc := range d.Documents {
		if err := doc.Validate(); err != nil {
			return err
		}
	}
	return nil
}

// AddDocumentDTO carries the expiration date as YYYY-MM-DD.
type AddDocumentDTO struct {
	Type           DocumentType `json:"type"`
	Number         string       `json:"number"`
	ExpirationDate string       `json:"expiration_date"`
}

func (d AddDocumentDTO) Validate() error {
	v := validation.NewValidator()
	v.Field("type", string(d.Type)).Required().OneOf(DocumentTypes()...)
	v.Field("number", d.Number).Required().MaxLength(50)
	v.Field("expiration_date", d.ExpirationDate).Required().Custom(func(interface{}) *errors.AppError {
		if _, err := time.Parse(dateLayout, d.ExpirationDate); err != nil {
			return errors.NewValidationFieldError("expiration_date", "expiration_date must use YYYY-MM-DD", errors.ErrCodeInvalidDate)
		}
		return nil
	})
	if err := v.Validate(); err != nil {
		return err
	}
	return nil
}

func (d AddDocumentDTO) toDocument(employeeID int64) Document {
	exp, _ := time.Parse(dateLayout, d.ExpirationDate)
	return Document{
		EmployeeID:     employeeID,
		Type:           d.Type,
		Number:         strings.TrimSpace(d.Number),
		ExpirationDate: exp,
	}
}

type AddCardDTO struct {
	CardNumber string `json:"card_number"`
	Holder     string `json:"holder"`
}

func (d AddCardDTO) Validate() error {
	v := validation.NewValidator()
	v.Field("holder", d.Holder).Required().MaxLength(100)
	if err := v.Validate(); err != nil {
		return err
	}
	if !company.ValidCardNumber(d.CardNumber) {
		return company.ErrInvalidCard
	}
	return nil
}

type ListFilter struct {
	Query      string         `json:"query"`
	Department string         `json:"department"`
	Status     DocumentStatus `json:"document_status"`
}

type ExpiringDocument struct {
	EmployeeID   int64    `json:"employee_id"`
	EmployeeName string   `json:"employee_name"`
	Email        string   `json:"email"`
	Document     Document `json:"document"`
	DaysLeft     int      `json:"days_left"`
}
