package employee

import (
	"time"

	employeeDatamodel "github.com/frahmantamala/travel-booking/internal/core/datamodel/employee"
)

type DocumentType string

const (
	DocumentPassport              DocumentType = "PASSPORT"
	DocumentInternationalPassport DocumentType = "INTERNATIONAL_PASSPORT"
	DocumentVisa                  DocumentType = "VISA"
	DocumentBirthCertificate      DocumentType = "BIRTH_CERTIFICATE"
)

func DocumentTypes() []string {
	return []string{
		string(DocumentPassport),
		string(DocumentInternationalPassport),
		string(DocumentVisa),
		string(DocumentBirthCertificate),
	}
}

type DocumentStatus string

const (
	StatusValid        DocumentStatus = "VALID"
	StatusExpiringSoon DocumentStatus = "EXPIRING_SOON"
	StatusExpired      DocumentStatus = "EXPIRED"
)

type Document struct {
	ID             int64          `json:"id"`
	EmployeeID     int64          `json:"employee_id"`
	Type           DocumentType   `json:"type"`
	Number         string         `json:"number"`
	ExpirationDate time.Time      `json:"expiration_date"`
	Status         DocumentStatus `json:"status"`
}

type Card struct {
	ID         int64  `json:"id"`
	EmployeeID int64  `json:"employee_id"`
	Last4      string `json:"last4"`
	Holder     string `json:"holder"`
}

type Employee struct {
	ID         int64          `json:"id"`
	CompanyID  int64          `json:"company_id"`
	Name       string         `json:"name"`
	Email      string         `json:"email"`
	Role       string         `json:"role"`
	Department string         `json:"department"`
	Documents  []Document     `json:"documents"`
	Cards      []Card         `json:"cards"`
	Status     DocumentStatus `json:"document_status"`
	CreatedAt  time.Time      `json:"created_at"`
}

// civilDate drops the clock and zone so that a stored date and "today" compare by calendar day.
func civilDate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// StatusOf classifies a document expiring on expiration as seen on the day of now.
// A document expiring today is still usable and counts as expiring soon.
func StatusOf(expiration, now time.Time, windowDays int) DocumentStatus {
	exp := civilDate(expiration)
	today := civilDate(now)
	switch {
	case exp.Before(today):
		return StatusExpired
	case !exp.After(today.AddDate(0, 0, windowDays)):
		return StatusExpiringSoon
	default:
		return StatusValid
	}
}

// AggregateStatus is the worst status across docs; an employee without documents is valid.
func AggregateStatus(docs []Document) DocumentStatus {
	status := StatusValid
	for _, d := range docs {
		switch d.Status {
		case StatusExpired:
			return StatusExpired
		case StatusExpiringSoon:
			status = StatusExpiringSoon
		}
	}
	return status
}

// Refresh recomputes every document status and the employee's aggregate.
func (e *Employee) Refresh(now time.Time, windowDays int) {
	for i := range e.Documents {
		e.Documents[i].Status = StatusOf(e.Documents[i].ExpirationDate, now, windowDays)
	}
	e.Status = AggregateStatus(e.Documents)
}

func ToDataModel(e *Employee) *employeeDatamodel.Employee {
	m := &employeeDatamodel.Employee{
		ID:         e.ID,
		CompanyID:  e.CompanyID,
		Name:       e.Name,
		Email:      e.Email,
		Role:       e.Role,
		Department: e.Department,
		CreatedAt:  e.CreatedAt,
	}
	for _, d := range e.Documents {
		m.Documents = append(m.Documents, *DocumentToDataModel(&d))
	}
	for _, c := range e.Cards {
		m.Cards = append(m.Cards, employeeDatamodel.Card{
			ID:         c.ID,
			EmployeeID: c.EmployeeID,
			Last4:      c.Last4,
			Holder:     c.Holder,
		})
	}
	return m
}

func FromDataModel(m *employeeDatamodel.Employee) *Employee {
	e := &Employee{
		ID:         m.ID,
		CompanyID:  m.CompanyID,
		Name:       m.Name,
		Email:      m.Email,
		Role:       m.Role,
		Department: m.Department,
		Documents:  make([]Document, 0, len(m.Documents)),
		Cards:      make([]Card, 0, len(m.Cards)),
		CreatedAt:  m.CreatedAt,
	}
	for i := range m.Documents {
		e.Documents = append(e.Documents, *DocumentFromDataModel(&m.Documents[i]))
	}
	for _, c := range m.Cards {
		e.Cards = append(e.Cards, Card{ID: c.ID, EmployeeID: c.EmployeeID, Last4: c.Last4, Holder: c.Holder})
	}
	return e
}

func DocumentToDataModel(d *Document) *employeeDatamodel.Document {
	return &employeeDatamodel.Document{
		ID:             d.ID,
		EmployeeID:     d.EmployeeID,
		Type:           string(d.Type),
		Number:         d.Number,
		ExpirationDate: civilDate(d.ExpirationDate),
	}
}

func DocumentFromDataModel(m *employeeDatamodel.Document) *Document {
	return &Document{
		ID:             m.ID,
		EmployeeID:     m.EmployeeID,
		Type:           DocumentType(m.Type),
		Number:         m.Number,
		ExpirationDate: civilDate(m.ExpirationDate),
	}
}
