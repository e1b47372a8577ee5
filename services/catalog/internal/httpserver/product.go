package httpserver

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/microshop/pkg/logging"
	"github.com/Skotchmaster/microshop/services/catalog/internal/service"
	"github.com/Skotchmaster/microshop/services/catalog/internal/transport"
	"github.com/Skotchmaster/microshop/services/catalog/internal/util"
)

type CatalogHTTP struct {
	Svc *service.CatalogService
}

func (h *CatalogHTTP) CreateProduct(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "create_product")

	var req transport.CreateProductRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("product_create_error", "status", 400, "reason", "invalid body", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	prod, err := h.Svc.CreateProduct(ctx, req)
	if err != nil {
		return httpError(l, "product_create_error", err)
	}

	l.Info("create_product_success", "product_id", prod.ID)
	return c.JSON(http.StatusOK, prod)
}

func (h *CatalogHTTP) GetProducts(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "get_products")

	page := util.ParseIntDefault(c.QueryParam("page"), 1)
	items, err := h.Svc.GetProducts(ctx, page)
	if err != nil {
		return httpError(l, "get_products_error", err)
	}
	return c.JSON(http.StatusOK, items)
}

func (h *CatalogHTTP) SearchProducts(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "search_products")

	page := util.ParseIntDefault(c.QueryParam("page"), 1)
	items, err := h.Svc.SearchProducts(ctx, c.QueryParam("q"), page)
	if err != nil {
		return httpError(l, "search_products_error", err)
	}
	return c.JSON(http.StatusOK, items)
}

func (h *CatalogHTTP) GetProduct(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "get_product")

	id, ok := util.ParseID(c.Param("id"))
	if !ok {
		l.Warn("get_product_error", "status", 400, "reason", "id is not a positive integer")
		return echo.NewHTTPError(http.StatusBadRequest, "id is not a positive integer")
	}

	prod, err := h.Svc.GetProduct(ctx, id)
	if err != nil {
		return httpError(l, "get_product_error", err)
	}
	return c.JSON(http.StatusOK, prod)
}

func (h *CatalogHTTP) DeleteProduct(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "delete_product")

	id, ok := util.ParseID(c.Param("id"))
	if !ok {
		l.Warn("product_delete_error", "status", 400, "reason", "id is not a positive integer")
		return echo.NewHTTPError(http.StatusBadRequest, "id is not a positive integer")
	}

	if err := h.Svc.DeleteProduct(ctx, id); err != nil {
		return httpError(l, "product_delete_error", err)
	}

	l.Info("delete_product_success", "product_id", id)
	return c.NoContent(http.StatusNoContent)
}

func httpError(l *slog.Logger, op string, err error) error {
	var code int
	switch {
	case errors.Is(err, service.ErrValidation):
		code = http.StatusBadRequest
	case errors.Is(err, service.ErrNotFound):
		code = http.StatusNotFound
	default:
		l.Error(op, "status", 500, "error", err)
		return err
	}
	l.Warn(op, "status", code, "reason", service.Message(err))
	return echo.NewHTTPError(code, service.Message(err))
}
