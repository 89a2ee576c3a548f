package assistant

import (
	"context"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/frahmantamala/travel-booking/internal"
	"github.com/frahmantamala/travel-booking/internal/flight"
	"github.com/google/uuid"
)

const (
	RoleUser      = "user"
	RoleAssistant = "assistant"

	maxOffers          = 3
	defaultHistorySize = 50
	maxMessageLength   = 1000
)

type Message struct {
	ID      string        `json:"id"`
	Role    string        `json:"role"`
	Text    string        `json:"text"`
	Intent  *Intent       `json:"intent,omitempty"`
	Flights []flight.View `json:"flights,omitempty"`
	At      time.Time     `json:"at"`
}

type FlightSearcher interface {
	Search(ctx context.Context, companyID int64, c flight.SearchCriteria) ([]flight.View, error)
}

// Service answers travel questions and keeps a bounded conversation per user in memory.
type Service struct {
	flights     FlightSearcher
	historySize int
	logger      *slog.Logger
	now         func() time.Time

	mu      sync.Mutex
	history map[int64][]Message
}

func NewService(flights FlightSearcher, historySize int, logger *slog.Logger) *Service {
	if historySize <= 0 {
		historySize = defaultHistorySize
	}
	return &Service{
		flights:     flights,
		historySize: historySize,
		logger:      logger,
		now:         time.Now,
		history:     make(map[int64][]Message),
	}
}

func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// Ask parses text, builds the reply and records both messages in the user's history.
func (s *Service) Ask(ctx context.Context, companyID, userID int64, text string) (*Message, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, internal.NewValidationFieldError("text", "text is required", internal.ErrCodeValidationFailed)
	}
	if len([]rune(text)) > maxMessageLength {
		return nil, internal.NewValidationFieldError("text", "text is too long", internal.ErrCodeValidationFailed)
	}

	now := s.now()
	intent := Parse(text, now)
	answer := Message{
		ID:     uuid.NewString(),
		Role:   RoleAssistant,
		Text:   Reply(intent),
		Intent: &intent,
		At:     now,
	}

	if intent.Kind == KindFlight && intent.Destination != "" && s.flights != nil {
		offers, exactDay, err := s.cheapest(ctx, companyID, intent)
		if err != nil {
			s.logger.Warn("assistant flight lookup failed", "company_id", companyID, "error", err)
		} else {
			answer.Flights = offers
			answer.Text += "\n" + flightLines(intent, offers, exactDay)
		}
	}

	s.append(userID,
		Message{ID: uuid.NewString(), Role: RoleUser, Text: text, At: now},
		answer)

	s.logger.Info("assistant answered",
		"user_id", userID,
		"kind", intent.Kind,
		"destination", intent.DestinationCode,
		"offers", len(answer.Flights))
	return &answer, nil
}

// cheapest finds up to three flights for the intent's day, falling back to any day when none leaves that day.
func (s *Service) cheapest(ctx context.Context, companyID int64, in Intent) ([]flight.View, bool, error) {
	criteria := flight.SearchCriteria{
		From:  in.Origin,
		To:    in.Destination,
		Date:  in.Date,
		Sort:  flight.SortPrice,
		Limit: maxOffers,
	}
	offers, err := s.flights.Search(ctx, companyID, criteria)
	if err != nil {
		return nil, false, err
	}
	if len(offers) > 0 || in.Date == "" {
		return offers, true, nil
	}

	criteria.Date = ""
	offers, err = s.flights.Search(ctx, companyID, criteria)
	return offers, false, err
}

func (s *Service) append(userID int64, msgs ...Message) {
	s.mu.Lock()
	defer s.mu.Unlock()
	h := append(s.history[userID], msgs...)
	if len(h) > s.historySize {
		h = append([]Message(nil), h[len(h)-s.historySize:]...)
	}
	s.history[userID] = h
}

// History returns a copy of the user's conversation, oldest first.
func (s *Service) History(userID int64) []Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Message, len(s.history[userID]))
	copy(out, s.history[userID])
	return out
}

func (s *Service) Clear(userID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.history, userID)
}
