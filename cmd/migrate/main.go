package main

import (
	"context"
	"flag"
	"log"
	"time"

	"quiz-gate/internal/config"
	"quiz-gate/internal/database"
	"quiz-gate/internal/logger"

	"go.uber.org/zap"
)

func main() {
	down := flag.Int("down", 0, "number of migrations to revert instead of applying pending ones")
	flag.Parse()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	if err := logger.Initialize(cfg.Logger); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	l := logger.Get()
	defer logger.Sync()

	db, err := database.NewSQLXOracleDB(cfg)
	if err != nil {
		l.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	migrator, err := database.NewEmbeddedMigrator(db)
	if err != nil {
		l.Fatal("Failed to load migrations", zap.Error(err))
	}
	defer migrator.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	if *down > 0 {
		reverted, err := migrator.Down(ctx, *down)
		if err != nil {
			l.Fatal("Failed to revert migrations", zap.Int("reverted", reverted), zap.Error(err))
		}
		l.Info("Reverted migrations", zap.Int("count", reverted))
		return
	}

	applied, err := migrator.Up(ctx)
	if err != nil {
		l.Fatal("Failed to run migrations", zap.Int("applied", applied), zap.Error(err))
	}
	version, err := migrator.Version(ctx)
	if err != nil {
		l.Fatal("Failed to read schema version", zap.Error(err))
	}
	l.Info("Migrations complete", zap.Int("applied", applied), zap.Uint("version", version))
}
