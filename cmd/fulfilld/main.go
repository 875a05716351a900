package main

import (
	"context"
	"log"
	"os"

	"log/slog"

	"github.com/joho/godotenv"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"

	"github.com/LArkema/dctransistor-project/internal/app"
	"github.com/LArkema/dctransistor-project/internal/config"
	apphttp "github.com/LArkema/dctransistor-project/internal/http"
	"github.com/LArkema/dctransistor-project/internal/http/handlers"
)

func main() {
	// Load .env file (ignore error if not found - prod uses real env vars)
	_ = godotenv.Load()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	db, err := gorm.Open(mysql.Open(cfg.DBDSN), &gorm.Config{TranslateError: true})
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}

	ctx := context.Background()
	a, err := app.New(ctx, cfg, logger, db)
	if err != nil {
		log.Fatalf("wiring: %v", err)
	}

	triggers := &handlers.TriggerHandler{
		Intake:    a.Intake,
		Pickups:   a.Pickups,
		Tracking:  a.Tracking,
		Retention: a.Retention,
	}

	r := apphttp.NewRouter(logger, triggers)
	logger.Info("trigger server listening", "addr", cfg.HTTPAddr)
	if err := r.Run(cfg.HTTPAddr); err != nil {
		log.Fatalf("server: %v", err)
	}
}
