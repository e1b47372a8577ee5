// Package app assembles the catalog service.
package app

import (
	"log/slog"

	"github.com/elastic/go-elasticsearch/v9"
	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/Skotchmaster/microshop/pkg/authclient"
	pkgconfig "github.com/Skotchmaster/microshop/pkg/config"
	middleware "github.com/Skotchmaster/microshop/pkg/middleware/auth"
	"github.com/Skotchmaster/microshop/pkg/mykafka"
	"github.com/Skotchmaster/microshop/pkg/server"
	"github.com/Skotchmaster/microshop/services/catalog/internal/httpserver"
	"github.com/Skotchmaster/microshop/services/catalog/internal/repo"
	"github.com/Skotchmaster/microshop/services/catalog/internal/search"
	"github.com/Skotchmaster/microshop/services/catalog/internal/service"
)

// Options carries the optional backends. Zero values disable them.
type Options struct {
	Events mykafka.Publisher
	ES     *elasticsearch.Client
}

func Migrate(db *gorm.DB) error {
	return repo.Migrate(db)
}

func New(cfg pkgconfig.Config, db *gorm.DB, opts Options, l *slog.Logger) *echo.Echo {
	svc := &service.CatalogService{
		Repo:   &repo.GormRepo{DB: db},
		Events: opts.Events,
	}
	if svc.Events == nil {
		svc.Events = mykafka.Nop{}
	}
	if opts.ES != nil {
		svc.Search = search.NewESIndex(opts.ES, cfg.ESIndex)
	}

	e := server.NewEcho(l)
	httpserver.Register(e, &httpserver.Deps{
		CatalogHandler: &httpserver.CatalogHTTP{Svc: svc},
		Auth:           middleware.NewDelegatedAuth(authclient.NewClient(cfg.AuthHTTPURL, cfg.UpstreamTimeout)),
		Ready:          server.DBReady(db),
	})
	return e
}
