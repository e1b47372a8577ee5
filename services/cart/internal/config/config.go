package config

import (
	"log"

	pkgconfig "github.com/Skotchmaster/microshop/pkg/config"
)

func Load() pkgconfig.Config {
	cfg := pkgconfig.Load(".env")
	if cfg.ServiceName == "" {
		cfg.ServiceName = "cart"
	}
	if err := cfg.Require("DATABASE_URL", "AUTH_URL", "CATALOG_URL"); err != nil {
		log.Fatalf("cart config: %v", err)
	}
	return cfg
}
