// Package app assembles the shopping cart service.
package app

import (
	"log/slog"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/Skotchmaster/microshop/pkg/authclient"
	pkgconfig "github.com/Skotchmaster/microshop/pkg/config"
	middleware "github.com/Skotchmaster/microshop/pkg/middleware/auth"
	"github.com/Skotchmaster/microshop/pkg/mykafka"
	"github.com/Skotchmaster/microshop/pkg/server"
	"github.com/Skotchmaster/microshop/services/cart/internal/catalogclient"
	"github.com/Skotchmaster/microshop/services/cart/internal/httpserver"
	"github.com/Skotchmaster/microshop/services/cart/internal/repo"
	"github.com/Skotchmaster/microshop/services/cart/internal/service"
)

func Migrate(db *gorm.DB) error {
	return repo.Migrate(db)
}

// New wires the cart service on db. events may be nil.
func New(cfg pkgconfig.Config, db *gorm.DB, events mykafka.Publisher, l *slog.Logger) *echo.Echo {
	if events == nil {
		events = mykafka.Nop{}
	}
	e := server.NewEcho(l)

	httpserver.Register(e, &httpserver.Deps{
		CartHandler: &httpserver.CartHTTP{
			Svc: &service.CartService{
				Repo:    &repo.GormRepo{DB: db},
				Catalog: catalogclient.NewClient(cfg.CatalogHTTPURL, cfg.UpstreamTimeout),
				Events:  events,
			},
		},
		Auth:  middleware.NewDelegatedAuth(authclient.NewClient(cfg.AuthHTTPURL, cfg.UpstreamTimeout)),
		Ready: server.DBReady(db),
	})
	return e
}
