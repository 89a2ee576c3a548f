package policy

import (
	"fmt"
	"strings"
	"time"

	policyDatamodel "github.com/frahmantamala/travel-booking/internal/core/datamodel/policy"
	"github.com/shopspring/decimal"
)

type Level string

const (
	LevelOK    Level = "OK"
	LevelWarn  Level = "WARN"
	LevelBlock Level = "BLOCK"
)

func (l Level) rank() int {
	switch l {
	case LevelBlock:
		return 2
	case LevelWarn:
		return 1
	default:
		return 0
	}
}

// Worst returns the more severe of two levels.
func Worst(a, b Level) Level {
	if b.rank() > a.rank() {
		return b
	}
	return a
}

type TravelPolicy struct {
	CompanyID              int64           `json:"company_id"`
	SoftLimit              decimal.Decimal `json:"soft_limit"`
	BlockLimit             decimal.Decimal `json:"block_limit"`
	PreferredDepartureFrom string          `json:"preferred_departure_from"`
	PreferredDepartureTo   string          `json:"preferred_departure_to"`
	AllowedClasses         []string        `json:"allowed_classes"`
	MaxConnections         int             `json:"max_connections"`
	RequireApprovalOnWarn  bool            `json:"require_approval_on_warn"`
	UpdatedAt              *time.Time      `json:"updated_at,omitempty"`
}

// FlightFacts is what the policy needs to know about a flight.
type FlightFacts struct {
	Price       decimal.Decimal
	DepartureAt time.Time
	Class       string
	Connections int
}

type Evaluation struct {
	Level      Level    `json:"level"`
	Violations []string `json:"violations"`
}

// ClassifyPrice applies the price thresholds only.
func ClassifyPrice(p *TravelPolicy, price decimal.Decimal) Level {
	if price.GreaterThan(p.BlockLimit) {
		return LevelBlock
	}
	if price.GreaterThanOrEqual(p.SoftLimit) {
		return LevelWarn
	}
	return LevelOK
}

// Classify is the OK/WARN/BLOCK badge for a price departing at departure.
// The departure clock time is read in departure's own location.
func Classify(p *TravelPolicy, price decimal.Decimal, departure time.Time) Level {
	level := ClassifyPrice(p, price)
	if level == LevelOK && !p.InPreferredWindow(departure) {
		return LevelWarn
	}
	return level
}

// Evaluate runs Classify plus the class and connection rules and explains each finding.
func Evaluate(p *TravelPolicy, f FlightFacts) Evaluation {
	eval := Evaluation{Level: ClassifyPrice(p, f.Price), Violations: []string{}}

	switch eval.Level {
	case LevelBlock:
		eval.Violations = append(eval.Violations, fmt.Sprintf("price %s exceeds block limit %s", f.Price.StringFixed(2), p.BlockLimit.StringFixed(2)))
	case LevelWarn:
		eval.Violations = append(eval.Violations, fmt.Sprintf("price %s is at or above soft limit %s", f.Price.StringFixed(2), p.SoftLimit.StringFixed(2)))
	}

	if !p.InPreferredWindow(f.DepartureAt) {
		eval.Level = Worst(eval.Level, LevelWarn)
		eval.Violations = append(eval.Violations, fmt.Sprintf("departure %s is outside %s-%s", f.DepartureAt.Format("15:04"), p.PreferredDepartureFrom, p.PreferredDepartureTo))
	}

	if len(p.AllowedClasses) > 0 && f.Class != "" && !p.allowsClass(f.Class) {
		eval.Level = Worst(eval.Level, LevelWarn)
		eval.Violations = append(eval.Violations, fmt.Sprintf("class %s is not allowed", f.Class))
	}

	if f.Connections > p.MaxConnections {
		eval.Level = Worst(eval.Level, LevelWarn)
		eval.Violations = append(eval.Violations, fmt.Sprintf("%d connections exceed the maximum of %d", f.Connections, p.MaxConnections))
	}

	return eval
}

// InPreferredWindow reports whether t's clock time falls inside the window, bounds included.
// A window whose start is after its end spans midnight.
func (p *TravelPolicy) InPreferredWindow(t time.Time) bool {
	from, errFrom := ParseClock(p.PreferredDepartureFrom)
	to, errTo := ParseClock(p.PreferredDepartureTo)
	if errFrom != nil || errTo != nil {
		return true
	}
	m := t.Hour()*60 + t.Minute()
	if from <= to {
		return m >= from && m <= to
	}
	return m >= from || m <= to
}

func (p *TravelPolicy) allowsClass(class string) bool {
	for _, c := range p.AllowedClasses {
		if strings.EqualFold(c, class) {
			return true
		}
	}
	return false
}

// ParseClock converts "HH:MM" to minutes after midnight.
func ParseClock(s string) (int, error) {
	t, err := time.Parse("15:04", s)
	if err != nil {
		return 0, fmt.Errorf("invalid clock time %q: %w", s, err)
	}
	return t.Hour()*60 + t.Minute(), nil
}

func ToDataModel(p *TravelPolicy) *policyDatamodel.TravelPolicy {
	return &policyDatamodel.TravelPolicy{
		CompanyID:             p.CompanyID,
		SoftLimit:             p.SoftLimit,
		BlockLimit:            p.BlockLimit,
		WindowFrom:            p.PreferredDepartureFrom,
		WindowTo:              p.PreferredDepartureTo,
		AllowedClasses:        strings.Join(p.AllowedClasses, ","),
		MaxConnections:        p.MaxConnections,
		RequireApprovalOnWarn: p.RequireApprovalOnWarn,
	}
}

func FromDataModel(m *policyDatamodel.TravelPolicy) *TravelPolicy {
	classes := []string{}
	for _, c := range strings.Split(m.AllowedClasses, ",") {
		if c = strings.TrimSpace(c); c != "" {
			classes = append(classes, c)
		}
	}
	updated := m.UpdatedAt
	return &TravelPolicy{
		CompanyID:              m.CompanyID,
		SoftLimit:              m.SoftLimit,
		BlockLimit:             m.BlockLimit,
		PreferredDepartureFrom: m.WindowFrom,
		PreferredDepartureTo:   m.WindowTo,
		AllowedClasses:         classes,
		MaxConnections:         m.MaxConnections,
		RequireApprovalOnWarn:  m.RequireApprovalOnWarn,
		UpdatedAt:              &updated,
	}
}
