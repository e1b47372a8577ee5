package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
)

type Deps struct {
	AuthURL    string
	CatalogURL string
	CartURL    string

	// Transport defaults to a pooled http.Transport.
	Transport http.RoundTripper
}

func Register(e *echo.Echo, d *Deps) error {
	rt := d.Transport
	if rt == nil {
		rt = newTransport()
	}

	e.Use(middleware.Secure())

	e.GET("/health/live", func(c echo.Context) error { return c.NoContent(http.StatusOK) })
	e.GET("/health/ready", func(c echo.Context) error { return c.NoContent(http.StatusOK) })

	authProxy, err := newProxy("identity", d.AuthURL, "/api/v1/auth", rt)
	if err != nil {
		return err
	}

	catalogProxy, err := newProxy("catalog", d.CatalogURL, "/api/v1", rt)
	if err != nil {
		return err
	}

	cartProxy, err := newProxy("cart", d.CartURL, "/api/v1", rt)
	if err != nil {
		return err
	}

	e.Any("/api/v1/auth/*", authProxy)

	api := e.Group("/api/v1")
	api.Any("/products", catalogProxy)
	api.Any("/products/*", catalogProxy)
	api.Any("/shopping_carts", cartProxy)
	api.Any("/shopping_carts/*", cartProxy)

	return nil
}
