package cmd

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/frahmantamala/travel-booking/internal/ticketing"
	"github.com/frahmantamala/travel-booking/pkg/logger"
	"github.com/spf13/cobra"
)

var workerCmd = &cobra.Command{
	Use:   "worker",
	Short: "Start background workers",
	Long:  `Start worker pools that run outside the API process.`,
}

var ticketingWorkerCmd = &cobra.Command{
	Use:   "ticketing",
	Short: "Issue tickets for purchases read from Kafka",
	Long:  `Consume trip.purchased events from the Kafka topic and issue ticket numbers through the ticketing worker pool.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return startTicketingWorker()
	},
}

var (
	maxWorkers   int
	jobQueueSize int
)

func startTicketingWorker() error {
	cfg, err := loadConfig(configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if !cfg.Kafka.Enabled {
		return fmt.Errorf("kafka is disabled; the API server issues tickets in-process")
	}
	logger.Init(cfg.Observability.Logging.Level, cfg.Observability.Logging.Format)
	lg := logger.LoggerWrapper()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	deps, err := initializeDependencies(ctx, cfg, lg)
	if err != nil {
		return err
	}

	tcfg := ticketing.ConfigFrom(cfg.Booking)
	tcfg.Workers = getIntFlag(maxWorkers, tcfg.Workers)
	tcfg.QueueSize = getIntFlag(jobQueueSize, tcfg.QueueSize)

	lg.Info("starting ticketing worker",
		"max_workers", tcfg.Workers,
		"job_queue_size", tcfg.QueueSize,
		"brokers", cfg.Kafka.Brokers,
		"topic", cfg.Kafka.Topic,
		"group_id", cfg.Kafka.GroupID)

	tickets := ticketing.NewService(tcfg, deps.Trips, deps.Bus, lg)
	consumer := ticketing.NewConsumer(ticketing.NewKafkaReader(cfg.Kafka), tickets, lg)

	runErr := consumer.Run(ctx)
	if runErr != nil {
		lg.Error("ticketing consumer stopped with error", "error", runErr)
	}

	tickets.Shutdown()
	if err := consumer.Close(); err != nil {
		lg.Error("kafka reader close error", "error", err)
	}
	deps.Close()
	lg.Info("ticketing worker shutdown complete")

	return runErr
}

func getIntFlag(flagValue, configValue int) int {
	if flagValue > 0 {
		return flagValue
	}
	return configValue
}

func init() {
	ticketingWorkerCmd.Flags().IntVar(&maxWorkers, "max-workers", 0, "Maximum number of workers (overrides config)")
	ticketingWorkerCmd.Flags().IntVar(&jobQueueSize, "job-queue-size", 0, "Job queue buffer size (overrides config)")

	workerCmd.AddCommand(ticketingWorkerCmd)

	rootCmd.AddCommand(workerCmd)
}
