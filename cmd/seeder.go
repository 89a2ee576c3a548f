package cmd

import (
	"context"
	"fmt"

	"github.com/frahmantamala/travel-booking/pkg/logger"
	"github.com/spf13/cobra"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Seed the database with sample data",
	Long:  `Seed demo companies, users, employees with travel documents and two weeks of flights.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(configPath)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		logger.Init(cfg.Observability.Logging.Level, cfg.Observability.Logging.Format)

		ctx := context.Background()
		deps, err := initializeDependencies(ctx, cfg, logger.LoggerWrapper())
		if err != nil {
			return err
		}
		defer deps.Close()

		if err := runSeed(ctx, deps, clearData); err != nil {
			return fmt.Errorf("seed failed: %w", err)
		}
		fmt.Println("Seeding complete. Demo logins use password \"password123\", e.g. admin@northwind.test")
		return nil
	},
}
