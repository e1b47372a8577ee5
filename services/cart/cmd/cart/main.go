package main

import (
	"context"
	"log"
	"log/slog"
	"time"

	"github.com/Skotchmaster/microshop/pkg/db"
	"github.com/Skotchmaster/microshop/pkg/logging"
	"github.com/Skotchmaster/microshop/pkg/mykafka"
	"github.com/Skotchmaster/microshop/pkg/server"
	"github.com/Skotchmaster/microshop/services/cart/app"
	"github.com/Skotchmaster/microshop/services/cart/internal/config"
)

func main() {
	cfg := config.Load()
	logger := logging.New(cfg.LogLevel).With("service", cfg.ServiceName)
	slog.SetDefault(logger)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	gdb, err := db.Open(ctx, cfg.DatabaseURL)
	cancel()
	if err != nil {
		log.Fatalf("db open: %v", err)
	}
	defer func() {
		if err := db.Close(gdb); err != nil {
			logger.Error("db_close_error", "error", err)
		}
	}()

	if err := app.Migrate(gdb); err != nil {
		log.Fatalf("db migrate: %v", err)
	}

	events := mykafka.New(cfg.KafkaBrokers, mykafka.TopicCartEvents)
	defer events.Close()

	e := app.New(cfg, gdb, events, logger)
	if err := server.Run(e, cfg.Addr(), logger); err != nil {
		logger.Error("http_server_error", "error", err)
	}
}
