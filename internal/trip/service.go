package trip

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/frahmantamala/travel-booking/internal"
	"github.com/frahmantamala/travel-booking/internal/company"
	"github.com/frahmantamala/travel-booking/internal/core/events"
	"github.com/frahmantamala/travel-booking/internal/employee"
	"github.com/frahmantamala/travel-booking/internal/flight"
	"github.com/frahmantamala/travel-booking/internal/policy"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const maxCancelAttempts = 3

// Transition moves a trip between statuses and optionally moves its money.
// The repository applies it only when the trip is currently in one of From.
type Transition struct {
	From   []Status
	To     Status
	Charge bool
	Refund bool
	// Guard makes the update match only while the charged and ticketed flags are as read into t.
	Guard bool
}

type RepositoryAPI interface {
	// Create stores the trip and penalty. When t.Charged is set the company account is debited
	// in the same transaction; a debit that does not fit fails with the matching payment error.
	Create(ctx context.Context, t *Trip, penalty *Penalty) error
	GetByID(ctx context.Context, companyID int64, id string) (*Trip, error)
	List(ctx context.Context, companyID int64, filter ListFilter) ([]*Trip, error)
	Transition(ctx context.Context, t *Trip, tr Transition) error
	SetTicketNumbers(ctx context.Context, tripID string, numbers []string) (*Trip, error)
	ListPenalties(ctx context.Context, companyID int64) ([]*Penalty, error)
}

type FlightLookup interface {
	GetFlight(ctx context.Context, id string) (*flight.Flight, error)
}

type EmployeeLookup interface {
	GetEmployee(ctx context.Context, companyID, id int64) (*employee.Employee, error)
}

type CompanyLookup interface {
	GetCompany(ctx context.Context, id int64) (*company.Company, error)
}

type PolicyProvider interface {
	GetPolicy(ctx context.Context, companyID int64) (*policy.TravelPolicy, error)
}

type Publisher interface {
	Publish(ctx context.Context, event events.Event) error
}

type Service struct {
	repo      RepositoryAPI
	flights   FlightLookup
	employees EmployeeLookup
	companies CompanyLookup
	policies  PolicyProvider
	publisher Publisher
	logger    *slog.Logger
	now       func() time.Time
}

type Dependencies struct {
	Flights   FlightLookup
	Employees EmployeeLookup
	Companies CompanyLookup
	Policies  PolicyProvider
	Publisher Publisher
}

func NewService(repo RepositoryAPI, deps Dependencies, logger *slog.Logger) *Service {
	return &Service{
		repo:      repo,
		flights:   deps.Flights,
		employees: deps.Employees,
		companies: deps.Companies,
		policies:  deps.Policies,
		publisher: deps.Publisher,
		logger:    logger,
		now:       time.Now,
	}
}

func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// Purchase books one flight for every passenger and charges the company at once.
func (s *Service) Purchase(ctx context.Context, companyID, userID int64, dto PurchaseDTO) (*Trip, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	f, err := s.flights.GetFlight(ctx, dto.FlightID)
	if err != nil {
		return nil, err
	}
	pol, err := s.policies.GetPolicy(ctx, companyID)
	if err != nil {
		return nil, err
	}
	eval := policy.Evaluate(pol, f.Facts())
	if eval.Level == policy.LevelBlock {
		s.logger.Info("purchase blocked by policy", "company_id", companyID, "flight_id", f.ID, "violations", eval.Violations)
		return nil, ErrPolicyBlocked.WithDetails(eval.Violations)
	}

	passengers, err := s.resolvePassengers(ctx, companyID, dto.Passengers)
	if err != nil {
		return nil, err
	}
	count := decimal.NewFromInt(int64(len(passengers)))
	total := f.Price.Mul(count)

	if err := s.checkPayment(ctx, companyID, dto.PaymentMethod, total); err != nil {
		return nil, err
	}

	flightID := f.ID
	t := &Trip{
		ID:            uuid.NewString(),
		CompanyID:     companyID,
		Title:         fmt.Sprintf("%s → %s, %s", f.FromCity, f.ToCity, f.FlightNumber),
		Total:         total,
		Type:          TypeSingle,
		Status:        StatusCompleted,
		EmployeeID:    firstEmployee(passengers),
		CreatedBy:     userID,
		PaymentMethod: dto.PaymentMethod,
		FlightID:      &flightID,
		PolicyLevel:   eval.Level,
		Charged:       true,
		Passengers:    passengers,
		Items: []Item{{
			Kind:        ItemFlight,
			Description: fmt.Sprintf("%s %s %s-%s", f.Carrier, f.FlightNumber, f.From, f.To),
			Price:       f.Price,
			FlightID:    &flightID,
			PolicyLevel: eval.Level,
		}},
		CreatedAt: s.now().UTC(),
	}

	var penalty *Penalty
	if eval.Level == policy.LevelWarn {
		excess := decimal.Max(f.Price.Sub(pol.SoftLimit), decimal.Zero).Mul(count)
		penalty = s.newPenalty(t, eval, excess)
	}

	if err := s.repo.Create(ctx, t, penalty); err != nil {
		return nil, s.wrap(err, "failed to store purchase", "company_id", companyID, "flight_id", f.ID)
	}

	s.logger.Info("trip purchased",
		"trip_id", t.ID,
		"company_id", companyID,
		"flight_id", f.ID,
		"passengers", len(passengers),
		"total", total.String(),
		"payment_method", dto.PaymentMethod,
		"policy_level", eval.Level)

	s.publish(ctx, events.NewTripPurchasedEvent(companyID, t.ID, t.Title, total.String(), t.PassengerNames()))
	if penalty != nil {
		s.publish(ctx, events.NewPolicyViolationEvent(companyID, t.ID, string(eval.Level), eval.Violations, penalty.Excess.String()))
	}
	return t, nil
}

// CreateBasket books a bundle of services. A warning under an approval-on-warn policy parks the
// basket uncharged in NEEDS_APPROVAL; otherwise it is charged and IN_PROGRESS.
func (s *Service) CreateBasket(ctx context.Context, companyID, userID int64, dto BasketDTO) (*Trip, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}
	pol, err := s.policies.GetPolicy(ctx, companyID)
	if err != nil {
		return nil, err
	}

	var passengers []Passenger
	if dto.EmployeeID != nil {
		passengers, err = s.resolvePassengers(ctx, companyID, []PassengerDTO{{EmployeeID: dto.EmployeeID}})
		if err != nil {
			return nil, err
		}
	}

	items := make([]Item, 0, len(dto.Items))
	level := policy.LevelOK
	violations := []string{}
	excess := decimal.Zero
	total := decimal.Zero
	var firstFlight *string

	for _, in := range dto.Items {
		item := Item{Kind: in.Kind, Description: strings.TrimSpace(in.Description), Price: in.Price}
		if in.Kind == ItemFlight {
			f, err := s.flights.GetFlight(ctx, *in.FlightID)
			if err != nil {
				return nil, err
			}
			id := f.ID
			eval := policy.Evaluate(pol, f.Facts())
			item.FlightID = &id
			item.Price = f.Price
			item.PolicyLevel = eval.Level
			if item.Description == "" {
				item.Description = fmt.Sprintf("%s %s %s-%s", f.Carrier, f.FlightNumber, f.From, f.To)
			}
			violations = append(violations, eval.Violations...)
			if firstFlight == nil {
				firstFlight = &id
			}
		} else {
			item.PolicyLevel = policy.ClassifyPrice(pol, item.Price)
			if item.PolicyLevel != policy.LevelOK {
				violations = append(violations, fmt.Sprintf("%s %s priced %s", strings.ToLower(string(item.Kind)), item.Description, item.Price.StringFixed(2)))
			}
		}
		if item.PolicyLevel == policy.LevelWarn {
			excess = excess.Add(decimal.Max(item.Price.Sub(pol.SoftLimit), decimal.Zero))
		}
		level = policy.Worst(level, item.PolicyLevel)
		total = total.Add(item.Price)
		items = append(items, item)
	}

	if level == policy.LevelBlock {
		s.logger.Info("basket blocked by policy", "company_id", companyID, "violations", violations)
		return nil, ErrPolicyBlocked.WithDetails(violations)
	}

	needsApproval := level == policy.LevelWarn && pol.RequireApprovalOnWarn
	if needsApproval {
		c, err := s.companies.GetCompany(ctx, companyID)
		if err != nil {
			return nil, err
		}
		if !c.Allows(dto.PaymentMethod) {
			return nil, company.ErrPaymentMethodNotAllowed
		}
	} else if err := s.checkPayment(ctx, companyID, dto.PaymentMethod, total); err != nil {
		return nil, err
	}

	t := &Trip{
		ID:            uuid.NewString(),
		CompanyID:     companyID,
		Title:         strings.TrimSpace(dto.Title),
		Total:         total,
		Type:          TypeBasket,
		Status:        StatusInProgress,
		EmployeeID:    dto.EmployeeID,
		CreatedBy:     userID,
		PaymentMethod: dto.PaymentMethod,
		FlightID:      firstFlight,
		PolicyLevel:   level,
		Charged:       true,
		Passengers:    passengers,
		Items:         items,
		CreatedAt:     s.now().UTC(),
	}
	if needsApproval {
		t.Status = StatusNeedsApproval
		t.Charged = false
	}

	var penalty *Penalty
	eval := policy.Evaluation{Level: level, Violations: violations}
	if level == policy.LevelWarn {
		penalty = s.newPenalty(t, eval, excess)
	}

	if err := s.repo.Create(ctx, t, penalty); err != nil {
		return nil, s.wrap(err, "failed to store basket", "company_id", companyID)
	}

	s.logger.Info("basket created",
		"trip_id", t.ID,
		"company_id", companyID,
		"items", len(items),
		"total", total.String(),
		"status", t.Status,
		"policy_level", level)

	if needsApproval {
		s.publish(ctx, events.NewTripNeedsApprovalEvent(companyID, t.ID, t.Title))
	}
	if penalty != nil {
		s.publish(ctx, events.NewPolicyViolationEvent(companyID, t.ID, string(level), violations, penalty.Excess.String()))
	}
	return t, nil
}

// Approve charges a parked basket and starts it.
func (s *Service) Approve(ctx context.Context, companyID, approverID int64, id string) (*Trip, error) {
	t, err := s.GetTrip(ctx, companyID, id)
	if err != nil {
		return nil, err
	}
	if t.Status != StatusNeedsApproval {
		return nil, ErrInvalidTripStatus
	}
	if err := s.checkPayment(ctx, companyID, t.PaymentMethod, t.Total); err != nil {
		return nil, err
	}
	if err := s.transition(ctx, t, Transition{From: []Status{StatusNeedsApproval}, To: StatusInProgress, Charge: true}); err != nil {
		return nil, err
	}
	s.logger.Info("trip approved", "trip_id", id, "company_id", companyID, "approved_by", approverID)
	s.publish(ctx, events.NewTripApprovedEvent(companyID, t.ID, t.Title))
	return t, nil
}

func (s *Service) Reject(ctx context.Context, companyID, approverID int64, id string) (*Trip, error) {
	t, err := s.GetTrip(ctx, companyID, id)
	if err != nil {
		return nil, err
	}
	if err := s.transition(ctx, t, Transition{From: []Status{StatusNeedsApproval}, To: StatusCancelled}); err != nil {
		return nil, err
	}
	s.logger.Info("trip rejected", "trip_id", id, "company_id", companyID, "rejected_by", approverID)
	s.publish(ctx, events.NewTripCancelledEvent(companyID, t.ID, t.Title))
	return t, nil
}

func (s *Service) Complete(ctx context.Context, companyID int64, id string) (*Trip, error) {
	t, err := s.GetTrip(ctx, companyID, id)
	if err != nil {
		return nil, err
	}
	if err := s.transition(ctx, t, Transition{From: []Status{StatusInProgress}, To: StatusCompleted}); err != nil {
		return nil, err
	}
	s.logger.Info("trip completed", "trip_id", id, "company_id", companyID)
	return t, nil
}

// Cancel stops a trip in any live status. Account charges come back when the trip was never
// ticketed or its flight is refundable; corporate card charges are settled with the issuer.
func (s *Service) Cancel(ctx context.Context, companyID int64, id string) (*Trip, error) {
	for attempt := 0; ; attempt++ {
		t, err := s.GetTrip(ctx, companyID, id)
		if err != nil {
			return nil, err
		}
		if t.Status == StatusCancelled {
			return nil, ErrInvalidTripStatus
		}

		tr, err := s.cancelTransition(ctx, t)
		if err != nil {
			return nil, err
		}
		err = s.transition(ctx, t, tr)
		if errors.Is(err, ErrInvalidTripStatus) && tr.Guard && attempt < maxCancelAttempts-1 {
			// charged or ticketed after the read; decide again on the fresh row
			continue
		}
		if err != nil {
			return nil, err
		}

		s.logger.Info("trip cancelled", "trip_id", id, "company_id", companyID, "refunded", tr.Refund, "total", t.Total.String())
		s.publish(ctx, events.NewTripCancelledEvent(companyID, t.ID, t.Title))
		return t, nil
	}
}

func (s *Service) cancelTransition(ctx context.Context, t *Trip) (Transition, error) {
	tr := Transition{
		From:  []Status{StatusCompleted, StatusInProgress, StatusNeedsApproval},
		To:    StatusCancelled,
		Guard: true,
	}
	if !t.Refundable() {
		return tr, nil
	}
	if !t.Ticketed {
		tr.Refund = true
		return tr, nil
	}
	if t.FlightID != nil {
		f, err := s.flights.GetFlight(ctx, *t.FlightID)
		if err != nil {
			return tr, err
		}
		tr.Refund = f.Refundable
	}
	return tr, nil
}

func (s *Service) GetTrip(ctx context.Context, companyID int64, id string) (*Trip, error) {
	t, err := s.repo.GetByID(ctx, companyID, id)
	if err != nil {
		return nil, s.wrap(err, "failed to load trip", "trip_id", id)
	}
	return t, nil
}

func (s *Service) ListTrips(ctx context.Context, companyID int64, filter ListFilter) ([]*Trip, error) {
	if err := filter.Validate(); err != nil {
		return nil, err
	}
	filter.Query = strings.TrimSpace(filter.Query)
	list, err := s.repo.List(ctx, companyID, filter)
	if err != nil {
		return nil, s.wrap(err, "failed to list trips", "company_id", companyID)
	}
	return list, nil
}

func (s *Service) ListPenalties(ctx context.Context, companyID int64) ([]*Penalty, error) {
	list, err := s.repo.ListPenalties(ctx, companyID)
	if err != nil {
		return nil, s.wrap(err, "failed to list penalties", "company_id", companyID)
	}
	return list, nil
}

// SetTicketNumbers assigns numbers to passengers in booking order and marks the trip ticketed.
func (s *Service) SetTicketNumbers(ctx context.Context, tripID string, numbers []string) (*Trip, error) {
	t, err := s.repo.SetTicketNumbers(ctx, tripID, numbers)
	if err != nil {
		return nil, s.wrap(err, "failed to store ticket numbers", "trip_id", tripID)
	}
	s.logger.Info("tickets issued", "trip_id", tripID, "count", len(numbers))
	return t, nil
}

func (s *Service) resolvePassengers(ctx context.Context, companyID int64, in []PassengerDTO) ([]Passenger, error) {
	out := make([]Passenger, 0, len(in))
	for _, p := range in {
		if p.EmployeeID == nil {
			out = append(out, Passenger{FullName: strings.TrimSpace(p.FullName), Guest: true})
			continue
		}
		e, err := s.employees.GetEmployee(ctx, companyID, *p.EmployeeID)
		if err != nil {
			return nil, err
		}
		id := e.ID
		out = append(out, Passenger{EmployeeID: &id, FullName: e.Name})
	}
	return out, nil
}

func (s *Service) checkPayment(ctx context.Context, companyID int64, method company.PaymentMethod, amount decimal.Decimal) error {
	c, err := s.companies.GetCompany(ctx, companyID)
	if err != nil {
		return err
	}
	if err := c.CanPay(method, amount); err != nil {
		s.logger.Info("payment rejected",
			"company_id", companyID,
			"method", method,
			"amount", amount.String(),
			"reason", err.Error())
		return err
	}
	return nil
}

func (s *Service) transition(ctx context.Context, t *Trip, tr Transition) error {
	if err := s.repo.Transition(ctx, t, tr); err != nil {
		return s.wrap(err, "failed to update trip", "trip_id", t.ID, "to", tr.To)
	}
	t.Status = tr.To
	if tr.Charge {
		t.Charged = true
	}
	if tr.Refund {
		t.Charged = false
	}
	return nil
}

func (s *Service) newPenalty(t *Trip, eval policy.Evaluation, excess decimal.Decimal) *Penalty {
	return &Penalty{
		CompanyID:  t.CompanyID,
		TripID:     t.ID,
		EmployeeID: t.EmployeeID,
		Level:      eval.Level,
		Reason:     strings.Join(eval.Violations, "; "),
		Excess:     excess,
		CreatedAt:  t.CreatedAt,
	}
}

func (s *Service) publish(ctx context.Context, e events.Event) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.Publish(ctx, e); err != nil {
		s.logger.Warn("failed to publish event", "event_type", e.EventType(), "error", err)
	}
}

func (s *Service) wrap(err error, msg string, args ...any) error {
	if _, ok := internal.IsAppError(err); ok {
		return err
	}
	s.logger.Error(msg, append([]any{"error", err}, args...)...)
	return internal.NewInternalError(msg, err)
}

func firstEmployee(passengers []Passenger) *int64 {
	for _, p := range passengers {
		if p.EmployeeID != nil {
			id := *p.EmployeeID
			return &id
		}
	}
	return nil
}
