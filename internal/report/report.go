package report

import (
	"strings"
	"time"

	"github.com/frahmantamala/travel-booking/internal/company"
	"github.com/frahmantamala/travel-booking/internal/trip"
	"github.com/shopspring/decimal"
)

type Period struct {
	From *time.Time
	To   *time.Time
}

type StatusTotal struct {
	Status string          `json:"status" db:"status"`
	Trips  int             `json:"trips" db:"trips"`
	Spend  decimal.Decimal `json:"spend" db:"spend"`
}

type EmployeeSpend struct {
	EmployeeID *int64          `json:"employee_id" db:"employee_id"`
	Name       string          `json:"name" db:"name"`
	Trips      int             `json:"trips" db:"trips"`
	Spend      decimal.Decimal `json:"spend" db:"spend"`
}

type MonthSpend struct {
	Month string          `json:"month"`
	Trips int             `json:"trips"`
	Spend decimal.Decimal `json:"spend"`
}

type PenaltyStats struct {
	Count  int             `json:"count" db:"count"`
	Excess decimal.Decimal `json:"excess" db:"excess"`
}

// SpendRow is one charged trip as seen by the monthly breakdown.
type SpendRow struct {
	CreatedAt time.Time       `db:"created_at"`
	Total     decimal.Decimal `db:"total"`
}

// Summary aggregates spend over a period. Cancelled trips are counted per status but never as spend.
type Summary struct {
	From       *time.Time      `json:"from,omitempty"`
	To         *time.Time      `json:"to,omitempty"`
	TotalSpend decimal.Decimal `json:"total_spend"`
	TripCount  int             `json:"trip_count"`
	ByStatus   []StatusTotal   `json:"by_status"`
	ByEmployee []EmployeeSpend `json:"by_employee"`
	ByMonth    []MonthSpend    `json:"by_month"`
	Penalties  PenaltyStats    `json:"penalties"`
}

type DocumentAlerts struct {
	Expired      int `json:"expired"`
	ExpiringSoon int `json:"expiring_soon"`
	Employees    int `json:"employees"`
}

type Dashboard struct {
	CompanyName      string          `json:"company_name"`
	Tariff           company.Tariff  `json:"tariff"`
	Balance          decimal.Decimal `json:"balance"`
	PostpayLimit     decimal.Decimal `json:"postpay_limit"`
	PostpayAvailable decimal.Decimal `json:"postpay_available"`
	MonthSpend       decimal.Decimal `json:"month_spend"`
	MonthTrips       int             `json:"month_trips"`
	PendingApprovals int             `json:"pending_approvals"`
	Documents        DocumentAlerts  `json:"documents"`
	RecentTrips      []*trip.Trip    `json:"recent_trips"`
}

var exportHeader = []string{
	"Trip ID", "Created", "Title", "Type", "Status", "Passengers", "Payment method", "Policy", "Ticketed", "Total",
}

// cellText keeps free text from being read as a formula by spreadsheet programs.
func cellText(s string) string {
	if s != "" && strings.ContainsRune("=+-@\t\r", rune(s[0])) {
		return "'" + s
	}
	return s
}

func exportRow(t *trip.Trip) []string {
	ticketed := "no"
	if t.Ticketed {
		ticketed = "yes"
	}
	return []string{
		t.ID,
		t.CreatedAt.UTC().Format("2006-01-02 15:04"),
		cellText(t.Title),
		string(t.Type),
		string(t.Status),
		cellText(strings.Join(t.PassengerNames(), "; ")),
		string(t.PaymentMethod),
		string(t.PolicyLevel),
		ticketed,
		t.Total.StringFixed(2),
	}
}
