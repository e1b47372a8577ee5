package config

import (
	"log"

	pkgconfig "github.com/Skotchmaster/microshop/pkg/config"
)

func Load() pkgconfig.Config {
	cfg := pkgconfig.Load(".env")
	if cfg.ServiceName == "" {
		cfg.ServiceName = "gateway"
	}
	if err := cfg.Require("AUTH_URL", "CATALOG_URL", "CART_URL"); err != nil {
		log.Fatalf("gateway config: %v", err)
	}
	return cfg
}
