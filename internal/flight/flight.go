package flight

import (
	"time"

	flightDatamodel "github.com/frahmantamala/travel-booking/internal/core/datamodel/flight"
	"github.com/frahmantamala/travel-booking/internal/policy"
	"github.com/shopspring/decimal"
)

// Flight is an immutable offer from the seeded catalogue. Times are the departure and
// arrival airports' wall clock, stored as UTC.
type Flight struct {
	ID           string          `json:"id"`
	FlightNumber string          `json:"flight_number"`
	Carrier      string          `json:"carrier"`
	From         string          `json:"from"`
	To           string          `json:"to"`
	FromCity     string          `json:"from_city"`
	ToCity       string          `json:"to_city"`
	DepartureAt  time.Time       `json:"departure_at"`
	ArrivalAt    time.Time       `json:"arrival_at"`
	Class        string          `json:"class"`
	Price        decimal.Decimal `json:"price"`
	Connections  int             `json:"connections"`
	Refundable   bool            `json:"refundable"`
	Changeable   bool            `json:"changeable"`
}

func (f *Flight) Duration() time.Duration {
	return f.ArrivalAt.Sub(f.DepartureAt)
}

func (f *Flight) Facts() policy.FlightFacts {
	return policy.FlightFacts{
		Price:       f.Price,
		DepartureAt: f.DepartureAt,
		Class:       f.Class,
		Connections: f.Connections,
	}
}

// View is a flight badged against a company's travel policy.
type View struct {
	*Flight
	PolicyLevel policy.Level `json:"policy_level"`
	Violations  []string     `json:"violations"`
}

func NewView(f *Flight, p *policy.TravelPolicy) View {
	eval := policy.Evaluate(p, f.Facts())
	return View{Flight: f, PolicyLevel: eval.Level, Violations: eval.Violations}
}

func ToDataModel(f *Flight) *flightDatamodel.Flight {
	return &flightDatamodel.Flight{
		ID:           f.ID,
		FlightNumber: f.FlightNumber,
		Carrier:      f.Carrier,
		FromCode:     f.From,
		ToCode:       f.To,
		FromCity:     f.FromCity,
		ToCity:       f.ToCity,
		DepartureAt:  f.DepartureAt.UTC(),
		ArrivalAt:    f.ArrivalAt.UTC(),
		Class:        f.Class,
		Price:        f.Price,
		Connections:  f.Connections,
		Refundable:   f.Refundable,
		Changeable:   f.Changeable,
	}
}

func FromDataModel(m *flightDatamodel.Flight) *Flight {
	return &Flight{
		ID:           m.ID,
		FlightNumber: m.FlightNumber,
		Carrier:      m.Carrier,
		From:         m.FromCode,
		To:           m.ToCode,
		FromCity:     m.FromCity,
		ToCity:       m.ToCity,
		DepartureAt:  m.DepartureAt.UTC(),
		ArrivalAt:    m.ArrivalAt.UTC(),
		Class:        m.Class,
		Price:        m.Price,
		Connections:  m.Connections,
		Refundable:   m.Refundable,
		Changeable:   m.Changeable,
	}
}
