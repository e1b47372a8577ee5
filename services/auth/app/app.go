// Package app assembles the identity service.
package app

import (
	"context"
	"log/slog"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	pkgconfig "github.com/Skotchmaster/microshop/pkg/config"
	"github.com/Skotchmaster/microshop/pkg/mykafka"
	"github.com/Skotchmaster/microshop/pkg/server"
	"github.com/Skotchmaster/microshop/services/auth/internal/httpserver"
	"github.com/Skotchmaster/microshop/services/auth/internal/repo"
	"github.com/Skotchmaster/microshop/services/auth/internal/service"
)

func Migrate(db *gorm.DB) error {
	return repo.Migrate(db)
}

// New wires the identity service on db. events may be nil.
func New(cfg pkgconfig.Config, db *gorm.DB, events mykafka.Publisher, l *slog.Logger) *echo.Echo {
	if events == nil {
		events = mykafka.Nop{}
	}
	e := server.NewEcho(l)

	httpserver.Register(e, &httpserver.Deps{
		AuthHandler: &httpserver.AuthHTTP{
			Svc: &service.AuthService{
				Repo:      &repo.GormRepo{DB: db},
				JWTSecret: cfg.JWTSecret,
				TokenTTL:  cfg.TokenTTL,
				Events:    events,
			},
		},
		Ready: server.DBReady(db),
	})
	return e
}

// Promote grants the administrative flag to username.
func Promote(ctx context.Context, db *gorm.DB, username string) error {
	svc := &service.AuthService{Repo: &repo.GormRepo{DB: db}}
	return svc.Promote(ctx, username)
}
