// fulfill runs one fulfillment pass from the command line. It exists for
// cron jobs and manual operation; the long-running trigger server in
// cmd/fulfilld exposes the same passes over HTTP.
package main

import (
	"context"
	"fmt"
	"os"

	"log/slog"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"

	"github.com/LArkema/dctransistor-project/internal/app"
	"github.com/LArkema/dctransistor-project/internal/config"
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "fulfill",
		Short:         "Run DCTransistor order fulfillment passes",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(
		intakeCmd(),
		pickupCmd(),
		trackCmd(),
		retentionCmd(),
	)
	return root
}

// setup builds the shared service wiring every subcommand needs.
func setup(ctx context.Context) (*app.App, *slog.Logger, error) {
	_ = godotenv.Load()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	cfg, err := config.Load()
	if err != nil {
		return nil, nil, err
	}

	db, err := gorm.Open(mysql.Open(cfg.DBDSN), &gorm.Config{TranslateError: true})
	if err != nil {
		return nil, nil, fmt.Errorf("connect database: %w", err)
	}

	a, err := app.New(ctx, cfg, logger, db)
	if err != nil {
		return nil, nil, err
	}
	return a, logger, nil
}

func intakeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "intake",
		Short: "Poll the inbox for payment notifications and record orders",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, _, err := setup(cmd.Context())
			if err != nil {
				return err
			}
			sum, err := a.Intake.Run(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Printf("messages=%d recorded=%d duplicates=%d skipped=%d failed=%d\n",
				sum.Messages, sum.Recorded, sum.Duplicates, sum.Skipped, sum.Failed)
			return nil
		},
	}
}

func pickupCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "pickup",
		Short: "Schedule a USPS pickup for every order awaiting one",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, _, err := setup(cmd.Context())
			if err != nil {
				return err
			}
			out, err := a.Pickups.Schedule(cmd.Context())
			if err != nil {
				return err
			}
			if len(out.Requested) == 0 {
				fmt.Println("no orders awaiting pickup")
				return nil
			}
			fmt.Printf("confirmed=%t requested=%d updated=%d confirmation=%s\n",
				out.Confirmed(), len(out.Requested), len(out.Updated), out.ConfirmationCode)
			return nil
		},
	}
}

func trackCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "track",
		Short: "Check in-transit orders for delivery",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, _, err := setup(cmd.Context())
			if err != nil {
				return err
			}
			return a.Tracking.Run(cmd.Context())
		},
	}
}

func retentionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "retention",
		Short: "Scrub customer data from delivered orders past retention",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, _, err := setup(cmd.Context())
			if err != nil {
				return err
			}
			return a.Retention.Run(cmd.Context())
		},
	}
}
