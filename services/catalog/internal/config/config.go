package config

import (
	"log"

	pkgconfig "github.com/Skotchmaster/microshop/pkg/config"
)

func Load() pkgconfig.Config {
	cfg := pkgconfig.Load(".env")
	if cfg.ServiceName == "" {
		cfg.ServiceName = "catalog"
	}
	if err := cfg.Require("DATABASE_URL", "AUTH_URL"); err != nil {
		log.Fatalf("catalog config: %v", err)
	}
	return cfg
}
