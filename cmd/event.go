package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/frahmantamala/travel-booking/internal/core/events"
	"github.com/frahmantamala/travel-booking/pkg/logger"
	"github.com/spf13/cobra"
)

var eventCmd = &cobra.Command{
	Use:   "event",
	Short: "Event management commands",
	Long:  `Publish travel events by hand to check notifications and Kafka forwarding.`,
}

var publishEventCmd = &cobra.Command{
	Use:   "publish [event-type]",
	Short: "Publish a travel event",
	Long: `Publish one travel event on the bus. Notifications are stored for the company and,
when Kafka is enabled, the event is forwarded to the topic. Types: ` + strings.Join(events.AllTypes(), ", "),
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return publishEvent(args[0])
	},
}

var (
	eventCompanyID int64
	eventTripID    string
	eventTitle     string
	eventDetails   []string
)

func buildEvent(eventType string) (events.Event, error) {
	switch eventType {
	case events.EventTypeTripPurchased:
		return events.NewTripPurchasedEvent(eventCompanyID, eventTripID, eventTitle, "0", eventDetails), nil
	case events.EventTypeTripTicketed:
		return events.NewTripTicketedEvent(eventCompanyID, eventTripID, eventDetails), nil
	case events.EventTypeTripNeedsApproval:
		return events.NewTripNeedsApprovalEvent(eventCompanyID, eventTripID, eventTitle), nil
	case events.EventTypeTripApproved:
		return events.NewTripApprovedEvent(eventCompanyID, eventTripID, eventTitle), nil
	case events.EventTypeTripCancelled:
		return events.NewTripCancelledEvent(eventCompanyID, eventTripID, eventTitle), nil
	case events.EventTypePolicyViolation:
		return events.NewPolicyViolationEvent(eventCompanyID, eventTripID, "WARN", eventDetails, "0"), nil
	case events.EventTypeEmployeeCreated:
		return events.NewEmployeeCreatedEvent(eventCompanyID, 0, eventTitle), nil
	default:
		return nil, fmt.Errorf("unknown event type %q", eventType)
	}
}

func publishEvent(eventType string) error {
	if eventCompanyID <= 0 {
		return fmt.Errorf("--company is required")
	}
	event, err := buildEvent(eventType)
	if err != nil {
		return err
	}

	cfg, err := loadConfig(configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	logger.Init(cfg.Observability.Logging.Level, cfg.Observability.Logging.Format)
	lg := logger.LoggerWrapper()

	ctx := context.Background()
	deps, err := initializeDependencies(ctx, cfg, lg)
	if err != nil {
		return err
	}
	defer deps.Close()

	if cfg.Kafka.Enabled {
		forwarder := events.NewKafkaForwarder(events.NewKafkaWriter(cfg.Kafka.Brokers, cfg.Kafka.Topic), lg)
		forwarder.Register(deps.Bus)
		defer forwarder.Close()
	}

	lg.Info("publishing event", "event_type", eventType, "event_id", event.EventID(), "company_id", eventCompanyID)
	if err := deps.Bus.PublishSync(ctx, event); err != nil {
		return fmt.Errorf("failed to publish event: %w", err)
	}

	lg.Info("event published", "event_id", event.EventID())
	return nil
}

func init() {
	publishEventCmd.Flags().Int64Var(&eventCompanyID, "company", 0, "Company the event belongs to")
	publishEventCmd.Flags().StringVar(&eventTripID, "trip", "", "Trip id")
	publishEventCmd.Flags().StringVar(&eventTitle, "title", "Manual event", "Trip title or employee name")
	publishEventCmd.Flags().StringSliceVar(&eventDetails, "detail", nil, "Passengers, ticket numbers or violations")

	eventCmd.AddCommand(publishEventCmd)

	rootCmd.AddCommand(eventCmd)
}
