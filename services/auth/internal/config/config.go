package config

import (
	"log"

	pkgconfig "github.com/Skotchmaster/microshop/pkg/config"
)

func Load() pkgconfig.Config {
	cfg := pkgconfig.Load(".env")
	if cfg.ServiceName == "" {
		cfg.ServiceName = "auth"
	}
	if err := cfg.Require("DATABASE_URL", "JWT_SECRET"); err != nil {
		log.Fatalf("auth config: %v", err)
	}
	return cfg
}
