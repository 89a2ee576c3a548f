package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/frahmantamala/travel-booking/pkg/logger"
	"github.com/spf13/cobra"
)

var assistantCmd = &cobra.Command{
	Use:   "assistant",
	Short: "Talk to the travel assistant",
}

var assistantCompanyID int64

var askCmd = &cobra.Command{
	Use:     "ask [text]",
	Short:   "Ask one question and print the reply",
	Example: `  travel-booking assistant ask "flight from Moscow to Sochi tomorrow" --company 1`,
	Args:    cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(configPath)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		// keep the terminal for the answer
		logger.Init("error", "text")

		ctx := context.Background()
		deps, err := initializeDependencies(ctx, cfg, logger.LoggerWrapper())
		if err != nil {
			return err
		}
		defer deps.Close()

		reply, err := deps.Assistant.Ask(ctx, assistantCompanyID, 0, strings.Join(args, " "))
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), reply.Text)
		return nil
	},
}

func init() {
	askCmd.Flags().Int64Var(&assistantCompanyID, "company", 0, "Company whose travel policy marks the offers")

	assistantCmd.AddCommand(askCmd)

	rootCmd.AddCommand(assistantCmd)
}
