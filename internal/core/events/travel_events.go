package events

import (
	"time"

	"github.com/google/uuid"
)

const (
	EventTypeTripPurchased     = "trip.purchased"
	EventTypeTripTicketed      = "trip.ticketed"
	EventTypeTripNeedsApproval = "trip.needs_approval"
	EventTypeTripApproved      = "trip.approved"
	EventTypeTripCancelled     = "trip.cancelled"
	EventTypePolicyViolation   = "policy.violation"
	EventTypeEmployeeCreated   = "employee.created"
)

// AllTypes lists every travel event the service emits.
func AllTypes() []string {
	return []string{
		EventTypeTripPurchased,
		EventTypeTripTicketed,
		EventTypeTripNeedsApproval,
		EventTypeTripApproved,
		EventTypeTripCancelled,
		EventTypePolicyViolation,
		EventTypeEmployeeCreated,
	}
}

func newBase(eventType string, companyID int64, data map[string]interface{}) BaseEvent {
	return BaseEvent{
		ID:        uuid.NewString(),
		Type:      eventType,
		Timestamp: time.Now().UTC(),
		CompanyID: companyID,
		Data:      data,
	}
}

type TripPurchasedEvent struct {
	BaseEvent
	TripID     string   `json:"trip_id"`
	Title      string   `json:"title"`
	Total      string   `json:"total"`
	Passengers []string `json:"passengers"`
}

func NewTripPurchasedEvent(companyID int64, tripID, title, total string, passengers []string) *TripPurchasedEvent {
	return &TripPurchasedEvent{
		BaseEvent: newBase(EventTypeTripPurchased, companyID, map[string]interface{}{
			"trip_id":    tripID,
			"title":      title,
			"total":      total,
			"passengers": passengers,
		}),
		TripID:     tripID,
		Title:      title,
		Total:      total,
		Passengers: passengers,
	}
}

type TripTicketedEvent struct {
	BaseEvent
	TripID        string   `json:"trip_id"`
	TicketNumbers []string `json:"ticket_numbers"`
}

func NewTripTicketedEvent(companyID int64, tripID string, tickets []string) *TripTicketedEvent {
	return &TripTicketedEvent{
		BaseEvent: newBase(EventTypeTripTicketed, companyID, map[string]interface{}{
			"trip_id":        tripID,
			"ticket_numbers": tickets,
		}),
		TripID:        tripID,
		TicketNumbers: tickets,
	}
}

type TripStatusEvent struct {
	BaseEvent
	TripID string `json:"trip_id"`
	Title  string `json:"title"`
}

func NewTripNeedsApprovalEvent(companyID int64, tripID, title string) *TripStatusEvent {
	return &TripStatusEvent{
		BaseEvent: newBase(EventTypeTripNeedsApproval, companyID, map[string]interface{}{
			"trip_id": tripID,
			"title":   title,
		}),
		TripID: tripID,
		Title:  title,
	}
}

func NewTripApprovedEvent(companyID int64, tripID, title string) *TripStatusEvent {
	return &TripStatusEvent{
		BaseEvent: newBase(EventTypeTripApproved, companyID, map[string]interface{}{
			"trip_id": tripID,
			"title":   title,
		}),
		TripID: tripID,
		Title:  title,
	}
}

func NewTripCancelledEvent(companyID int64, tripID, title string) *TripStatusEvent {
	return &TripStatusEvent{
		BaseEvent: newBase(EventTypeTripCancelled, companyID, map[string]interface{}{
			"trip_id": tripID,
			"title":   title,
		}),
		TripID: tripID,
		Title:  title,
	}
}

type PolicyViolationEvent struct {
	BaseEvent
	TripID     string   `json:"trip_id"`
	Level      string   `json:"level"`
	Violations []string `json:"violations"`
	Excess     string   `json:"excess"`
}

func NewPolicyViolationEvent(companyID int64, tripID, level string, violations []string, excess string) *PolicyViolationEvent {
	return &PolicyViolationEvent{
		BaseEvent: newBase(EventTypePolicyViolation, companyID, map[string]interface{}{
			"trip_id":    tripID,
			"level":      level,
			"violations": violations,
			"excess":     excess,
		}),
		TripID:     tripID,
		Level:      level,
		Violations: violations,
		Excess:     excess,
	}
}

type EmployeeCreatedEvent struct {
	BaseEvent
	EmployeeID int64  `json:"employee_id"`
	Name       string `json:"name"`
}

func NewEmployeeCreatedEvent(companyID, employeeID int64, name string) *EmployeeCreatedEvent {
	return &EmployeeCreatedEvent{
		BaseEvent: newBase(EventTypeEmployeeCreated, companyID, map[string]interface{}{
			"employee_id": employeeID,
			"name":        name,
		}),
		EmployeeID: employeeID,
		Name:       name,
	}
}

// CompanyOf extracts the owning company from any travel event.
func CompanyOf(event Event) int64 {
	type companyScoped interface{ Company() int64 }
	if cs, ok := event.(companyScoped); ok {
		return cs.Company()
	}
	return 0
}

func (e BaseEvent) Company() int64 {
	return e.CompanyID
}
