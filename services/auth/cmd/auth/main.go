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
	"github.com/Skotchmaster/microshop/services/auth/app"
	"github.com/Skotchmaster/microshop/services/auth/internal/config"
)

func main() {
	cfg := config.Load()
	l := logging.New(cfg.LogLevel).With("service", cfg.ServiceName)
	slog.SetDefault(l)

	initCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	gdb, err := db.Open(initCtx, cfg.DatabaseURL)
	cancel()
	if err != nil {
		log.Fatalf("db init error: %v", err)
	}
	defer func() {
		if err := db.Close(gdb); err != nil {
			l.Error("db_close_error", "error", err)
		}
	}()

	if err := app.Migrate(gdb); err != nil {
		log.Fatalf("db migrate error: %v", err)
	}

	events := mykafka.New(cfg.KafkaBrokers, mykafka.TopicUserEvents)
	defer events.Close()

	e := app.New(cfg, gdb, events, l)
	if err := server.Run(e, cfg.Addr(), l); err != nil {
		l.Error("http_server_error", "error", err)
	}
}
