package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	middleware "github.com/Skotchmaster/microshop/pkg/middleware/auth"
)

type Deps struct {
	CartHandler *CartHTTP
	Auth        *middleware.DelegatedAuth
	Ready       func() error
}

func Register(e *echo.Echo, d *Deps) {
	e.GET("/health/live", func(c echo.Context) error { return c.NoContent(http.StatusOK) })
	e.GET("/health/ready", func(c echo.Context) error {
		if d.Ready != nil {
			if err := d.Ready(); err != nil {
				return echo.NewHTTPError(http.StatusServiceUnavailable, "not ready")
			}
		}
		return c.NoContent(http.StatusOK)
	})

	carts := e.Group("/shopping_carts")
	carts.Use(d.Auth.RequireAuth)

	carts.POST("", d.CartHandler.AddItem)
	carts.GET("", d.CartHandler.GetCart)
	carts.DELETE("", d.CartHandler.ClearCart)
}
