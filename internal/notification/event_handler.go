package notification

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/frahmantamala/travel-booking/internal/core/events"
)

type Notifier interface {
	Notify(ctx context.Context, n *Notification) error
}

// EventHandler turns travel events into company notifications.
type EventHandler struct {
	notifier Notifier
	logger   *slog.Logger
}

func NewEventHandler(notifier Notifier, logger *slog.Logger) *EventHandler {
	return &EventHandler{notifier: notifier, logger: logger}
}

func (h *EventHandler) RegisterEventHandlers(bus *events.EventBus) {
	types := []string{
		events.EventTypeTripPurchased,
		events.EventTypeTripTicketed,
		events.EventTypeTripNeedsApproval,
		events.EventTypeTripApproved,
		events.EventTypeTripCancelled,
		events.EventTypePolicyViolation,
		events.EventTypeEmployeeCreated,
	}
	for _, t := range types {
		bus.Subscribe(t, h.Handle)
	}
	h.logger.Info("notification event handlers registered", "handlers", types)
}

func (h *EventHandler) Handle(ctx context.Context, event events.Event) error {
	n, err := FromEvent(event)
	if err != nil {
		h.logger.Error("invalid event for notification", "event_type", event.EventType(), "error", err)
		return err
	}
	if err := h.notifier.Notify(ctx, n); err != nil {
		return fmt.Errorf("failed to notify about %s: %w", event.EventType(), err)
	}
	h.logger.Debug("notification created", "event_type", event.EventType(), "company_id", n.CompanyID)
	return nil
}

// FromEvent renders the notification text for a travel event.
func FromEvent(event events.Event) (*Notification, error) {
	n := &Notification{CompanyID: events.CompanyOf(event), Type: event.EventType()}

	switch e := event.(type) {
	case *events.TripPurchasedEvent:
		n.Title = "Ticket purchased"
		n.Message = fmt.Sprintf("%s: %d passenger(s), total %s", e.Title, len(e.Passengers), e.Total)
		n.EntityID = e.TripID
	case *events.TripTicketedEvent:
		n.Title = "Tickets issued"
		n.Message = "Ticket numbers: " + strings.Join(e.TicketNumbers, ", ")
		n.EntityID = e.TripID
	case *events.TripStatusEvent:
		switch event.EventType() {
		case events.EventTypeTripNeedsApproval:
			n.Title = "Trip needs approval"
		case events.EventTypeTripApproved:
			n.Title = "Trip approved"
		default:
			n.Title = "Trip cancelled"
		}
		n.Message = e.Title
		n.EntityID = e.TripID
	case *events.PolicyViolationEvent:
		n.Title = "Travel policy " + strings.ToLower(e.Level)
		n.Message = strings.Join(e.Violations, "; ")
		if e.Excess != "" && e.Excess != "0" {
			n.Message += fmt.Sprintf(" (excess %s)", e.Excess)
		}
		n.EntityID = e.TripID
	case *events.EmployeeCreatedEvent:
		n.Title = "Employee added"
		n.Message = e.Name
		n.EntityID = strconv.FormatInt(e.EmployeeID, 10)
	default:
		return nil, fmt.Errorf("unsupported event %T", event)
	}
	return n, nil
}
