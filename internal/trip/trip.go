package trip

import (
	"time"

	"github.com/frahmantamala/travel-booking/internal/company"
	tripDatamodel "github.com/frahmantamala/travel-booking/internal/core/datamodel/trip"
	"github.com/frahmantamala/travel-booking/internal/policy"
	"github.com/shopspring/decimal"
)

type Type string

const (
	TypeSingle Type = "SINGLE"
	TypeBasket Type = "BASKET"
)

type Status string

const (
	StatusCompleted     Status = "COMPLETED"
	StatusInProgress    Status = "IN_PROGRESS"
	StatusCancelled     Status = "CANCELLED"
	StatusNeedsApproval Status = "NEEDS_APPROVAL"
)

func Statuses() []string {
	return []string{string(StatusCompleted), string(StatusInProgress), string(StatusCancelled), string(StatusNeedsApproval)}
}

type ItemKind string

const (
	ItemFlight   ItemKind = "FLIGHT"
	ItemHotel    ItemKind = "HOTEL"
	ItemTrain    ItemKind = "TRAIN"
	ItemTransfer ItemKind = "TRANSFER"
)

func ItemKinds() []string {
	return []string{string(ItemFlight), string(ItemHotel), string(ItemTrain), string(ItemTransfer)}
}

type Passenger struct {
	ID           int64  `json:"id"`
	EmployeeID   *int64 `json:"employee_id,omitempty"`
	FullName     string `json:"full_name"`
	Guest        bool   `json:"guest"`
	TicketNumber string `json:"ticket_number,omitempty"`
}

type Item struct {
	ID          int64           `json:"id"`
	Kind        ItemKind        `json:"kind"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	FlightID    *string         `json:"flight_id,omitempty"`
	PolicyLevel policy.Level    `json:"policy_level"`
}

type Trip struct {
	ID            string                `json:"id"`
	CompanyID     int64                 `json:"company_id"`
	Title         string                `json:"title"`
	Total         decimal.Decimal       `json:"total"`
	Type          Type                  `json:"type"`
	Status        Status                `json:"status"`
	EmployeeID    *int64                `json:"employee_id,omitempty"`
	CreatedBy     int64                 `json:"created_by"`
	PaymentMethod company.PaymentMethod `json:"payment_method"`
	FlightID      *string               `json:"flight_id,omitempty"`
	PolicyLevel   policy.Level          `json:"policy_level"`
	Charged       bool                  `json:"charged"`
	Ticketed      bool                  `json:"ticketed"`
	Passengers    []Passenger           `json:"passengers"`
	Items         []Item                `json:"items"`
	CreatedAt     time.Time             `json:"created_at"`
	UpdatedAt     time.Time             `json:"updated_at"`
}

// Penalty records a booking that went through despite a policy warning.
type Penalty struct {
	ID         int64           `json:"id"`
	CompanyID  int64           `json:"company_id"`
	TripID     string          `json:"trip_id"`
	EmployeeID *int64          `json:"employee_id,omitempty"`
	Level      policy.Level    `json:"level"`
	Reason     string          `json:"reason"`
	Excess     decimal.Decimal `json:"excess"`
	CreatedAt  time.Time       `json:"created_at"`
}

// Refundable is money that moved through the company account and can move back.
func (t *Trip) Refundable() bool {
	return t.Charged && (t.PaymentMethod == company.PaymentBalance || t.PaymentMethod == company.PaymentPostpay)
}

func (t *Trip) PassengerNames() []string {
	names := make([]string, 0, len(t.Passengers))
	for _, p := range t.Passengers {
		names = append(names, p.FullName)
	}
	return names
}

func ToDataModel(t *Trip) *tripDatamodel.Trip {
	m := &tripDatamodel.Trip{
		ID:            t.ID,
		CompanyID:     t.CompanyID,
		Title:         t.Title,
		Total:         t.Total,
		Type:          string(t.Type),
		Status:        string(t.Status),
		EmployeeID:    t.EmployeeID,
		CreatedBy:     t.CreatedBy,
		PaymentMethod: string(t.PaymentMethod),
		FlightID:      t.FlightID,
		PolicyLevel:   string(t.PolicyLevel),
		Charged:       t.Charged,
		Ticketed:      t.Ticketed,
		CreatedAt:     t.CreatedAt,
	}
	for _, p := range t.Passengers {
		var ticket *string
		if p.TicketNumber != "" {
			n := p.TicketNumber
			ticket = &n
		}
		m.Passengers = append(m.Passengers, tripDatamodel.Passenger{
			ID:           p.ID,
			TripID:       t.ID,
			EmployeeID:   p.EmployeeID,
			FullName:     p.FullName,
			Guest:        p.Guest,
			TicketNumber: ticket,
		})
	}
	for _, it := range t.Items {
		m.Items = append(m.Items, tripDatamodel.Item{
			ID:          it.ID,
			TripID:      t.ID,
			Kind:        string(it.Kind),
			Description: it.Description,
			Price:       it.Price,
			FlightID:    it.FlightID,
			PolicyLevel: string(it.PolicyLevel),
		})
	}
	return m
}

func FromDataModel(m *tripDatamodel.Trip) *Trip {
	t := &Trip{
		ID:            m.ID,
		CompanyID:     m.CompanyID,
		Title:         m.Title,
		Total:         m.Total,
		Type:          Type(m.Type),
		Status:        Status(m.Status),
		EmployeeID:    m.EmployeeID,
		CreatedBy:     m.CreatedBy,
		PaymentMethod: company.PaymentMethod(m.PaymentMethod),
		FlightID:      m.FlightID,
		PolicyLevel:   policy.Level(m.PolicyLevel),
		Charged:       m.Charged,
		Ticketed:      m.Ticketed,
		Passengers:    make([]Passenger, 0, len(m.Passengers)),
		Items:         make([]Item, 0, len(m.Items)),
		CreatedAt:     m.CreatedAt,
		UpdatedAt:     m.UpdatedAt,
	}
	for _, p := range m.Passengers {
		pass := Passenger{ID: p.ID, EmployeeID: p.EmployeeID, FullName: p.FullName, Guest: p.Guest}
		if p.TicketNumber != nil {
			pass.TicketNumber = *p.TicketNumber
		}
		t.Passengers = append(t.Passengers, pass)
	}
	for _, it := range m.Items {
		t.Items = append(t.Items, Item{
			ID:          it.ID,
			Kind:        ItemKind(it.Kind),
			Description: it.Description,
			Price:       it.Price,
			FlightID:    it.FlightID,
			PolicyLevel: policy.Level(it.PolicyLevel),
		})
	}
	return t
}

func PenaltyToDataModel(p *Penalty) *tripDatamodel.Penalty {
	return &tripDatamodel.Penalty{
		ID:         p.ID,
		CompanyID:  p.CompanyID,
		TripID:     p.TripID,
		EmployeeID: p.EmployeeID,
		Level:      string(p.Level),
		Reason:     p.Reason,
		Excess:     p.Excess,
		CreatedAt:  p.CreatedAt,
	}
}

func PenaltyFromDataModel(m *tripDatamodel.Penalty) *Penalty {
	return &Penalty{
		ID:         m.ID,
		CompanyID:  m.CompanyID,
		TripID:     m.TripID,
		EmployeeID: m.EmployeeID,
		Level:      policy.Level(m.Level),
		Reason:     m.Reason,
		Excess:     m.Excess,
		CreatedAt:  m.CreatedAt,
	}
}
