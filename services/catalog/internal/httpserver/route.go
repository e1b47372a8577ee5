package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	middleware "github.com/Skotchmaster/microshop/pkg/middleware/auth"
)

type Deps struct {
	CatalogHandler *CatalogHTTP
	Auth           *middleware.DelegatedAuth
	Ready          func() error
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

	products := e.Group("/products", d.Auth.RequireAuth)
	products.GET("", d.CatalogHandler.GetProducts)
	products.GET("/search", d.CatalogHandler.SearchProducts)
	products.GET("/:id", d.CatalogHandler.GetProduct)
	products.GET("/:id/stocks", d.CatalogHandler.GetStock)

	admin := e.Group("/products", d.Auth.RequireAdmin)
	admin.POST("", d.CatalogHandler.CreateProduct)
	admin.DELETE("/:id", d.CatalogHandler.DeleteProduct)
	admin.POST("/:id/stocks", d.CatalogHandler.SetStock)
}
