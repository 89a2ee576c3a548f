package flight

import (
	"context"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/frahmantamala/travel-booking/internal"
	"github.com/frahmantamala/travel-booking/internal/policy"
)

type RepositoryAPI interface {
	List(ctx context.Context) ([]*Flight, error)
	GetByID(ctx context.Context, id string) (*Flight, error)
	Upsert(ctx context.Context, flights []*Flight) error
}

// Cache holds the whole catalogue. GetFlights returns nil, nil on a miss.
type Cache interface {
	GetFlights(ctx context.Context) ([]*Flight, error)
	SetFlights(ctx context.Context, flights []*Flight) error
	Invalidate(ctx context.Context) error
}

type PolicyProvider interface {
	GetPolicy(ctx context.Context, companyID int64) (*policy.TravelPolicy, error)
}

type Service struct {
	repo     RepositoryAPI
	cache    Cache
	policies PolicyProvider
	logger   *slog.Logger
}

// NewService wires the catalogue. cache may be nil.
func NewService(repo RepositoryAPI, cache Cache, policies PolicyProvider, logger *slog.Logger) *Service {
	return &Service{repo: repo, cache: cache, policies: policies, logger: logger}
}

// ListFlights reads through the cache. Cache failures are logged and fall back to the database.
func (s *Service) ListFlights(ctx context.Context) ([]*Flight, error) {
	if s.cache != nil {
		cached, err := s.cache.GetFlights(ctx)
		if err != nil {
			s.logger.Warn("flight cache read failed", "error", err)
		} else if cached != nil {
			return cached, nil
		}
	}

	flights, err := s.repo.List(ctx)
	if err != nil {
		s.logger.Error("failed to list flights", "error", err)
		return nil, internal.NewInternalError("failed to list flights", err)
	}

	if s.cache != nil {
		if err := s.cache.SetFlights(ctx, flights); err != nil {
			s.logger.Warn("flight cache write failed", "error", err)
		}
	}
	return flights, nil
}

func (s *Service) GetFlight(ctx context.Context, id string) (*Flight, error) {
	f, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if _, ok := internal.IsAppError(err); ok {
			return nil, err
		}
		s.logger.Error("failed to load flight", "error", err, "flight_id", id)
		return nil, internal.NewInternalError("failed to load flight", err)
	}
	return f, nil
}

// ViewFlight badges a single flight with the company's policy.
func (s *Service) ViewFlight(ctx context.Context, companyID int64, id string) (*View, error) {
	f, err := s.GetFlight(ctx, id)
	if err != nil {
		return nil, err
	}
	p, err := s.policies.GetPolicy(ctx, companyID)
	if err != nil {
		return nil, err
	}
	v := NewView(f, p)
	return &v, nil
}

func (s *Service) Search(ctx context.Context, companyID int64, c SearchCriteria) ([]View, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	flights, err := s.ListFlights(ctx)
	if err != nil {
		return nil, err
	}
	p, err := s.policies.GetPolicy(ctx, companyID)
	if err != nil {
		return nil, err
	}

	var day time.Time
	if c.Date != "" {
		day, _ = time.Parse("2006-01-02", c.Date)
	}

	views := make([]View, 0, len(flights))
	for _, f := range flights {
		if !matchesPlace(c.From, f.From, f.FromCity) || !matchesPlace(c.To, f.To, f.ToCity) {
			continue
		}
		if !day.IsZero() && !sameDay(f.DepartureAt, day) {
			continue
		}
		if c.Class != "" && f.Class != c.Class {
			continue
		}
		if c.MaxPrice != nil && f.Price.GreaterThan(*c.MaxPrice) {
			continue
		}
		if c.RefundableOnly && !f.Refundable {
			continue
		}
		views = append(views, NewView(f, p))
	}

	sortViews(views, c.Sort)
	if c.Limit > 0 && len(views) > c.Limit {
		views = views[:c.Limit]
	}
	return views, nil
}

// Refresh replaces the catalogue rows and drops the cached copy.
func (s *Service) Refresh(ctx context.Context, flights []*Flight) error {
	if err := s.repo.Upsert(ctx, flights); err != nil {
		s.logger.Error("failed to store flights", "error", err, "count", len(flights))
		return internal.NewInternalError("failed to store flights", err)
	}
	if s.cache != nil {
		if err := s.cache.Invalidate(ctx); err != nil {
			s.logger.Warn("flight cache invalidation failed", "error", err)
		}
	}
	s.logger.Info("flight catalogue refreshed", "count", len(flights))
	return nil
}

func matchesPlace(query, code, city string) bool {
	query = strings.TrimSpace(query)
	if query == "" {
		return true
	}
	return strings.EqualFold(query, code) || strings.EqualFold(query, city)
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

func sortViews(views []View, by string) {
	var less func(a, b View) bool
	switch by {
	case SortDeparture:
		less = func(a, b View) bool { return a.DepartureAt.Before(b.DepartureAt) }
	case SortDuration:
		less = func(a, b View) bool { return a.Duration() < b.Duration() }
	default:
		less = func(a, b View) bool { return a.Price.LessThan(b.Price) }
	}
	sort.SliceStable(views, func(i, j int) bool { return less(views[i], views[j]) })
}
