package main

import (
	"log"
	"log/slog"

	"github.com/Skotchmaster/microshop/gateway/internal/config"
	"github.com/Skotchmaster/microshop/gateway/internal/httpserver"
	"github.com/Skotchmaster/microshop/pkg/logging"
	"github.com/Skotchmaster/microshop/pkg/server"
)

func main() {
	cfg := config.Load()
	logger := logging.New(cfg.LogLevel).With("service", cfg.ServiceName)
	slog.SetDefault(logger)

	e := server.NewEcho(logger)
	if err := httpserver.Register(e, &httpserver.Deps{
		AuthURL:    cfg.AuthHTTPURL,
		CatalogURL: cfg.CatalogHTTPURL,
		CartURL:    cfg.CartHTTPURL,
	}); err != nil {
		log.Fatal(err)
	}

	if err := server.Run(e, cfg.Addr(), logger); err != nil {
		logger.Error("http_server_error", "error", err)
	}
}
