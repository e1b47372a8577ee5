package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/microshop/pkg/logging"
	"github.com/Skotchmaster/microshop/services/catalog/internal/transport"
	"github.com/Skotchmaster/microshop/services/catalog/internal/util"
)

func (h *CatalogHTTP) SetStock(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "set_stock")

	id, ok := util.ParseID(c.Param("id"))
	if !ok {
		l.Warn("set_stock_error", "status", 400, "reason", "id is not a positive integer")
		return echo.NewHTTPError(http.StatusBadRequest, "id is not a positive integer")
	}

	var req transport.SetStockRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("set_stock_error", "status", 400, "reason", "invalid body", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	stock, err := h.Svc.SetStock(ctx, id, req)
	if err != nil {
		return httpError(l, "set_stock_error", err)
	}

	l.Info("set_stock_success", "product_id", id, "price", stock.Price.String(), "quantity", stock.Quantity)
	return c.JSON(http.StatusOK, stock)
}

func (h *CatalogHTTP) GetStock(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "get_stock")

	id, ok := util.ParseID(c.Param("id"))
	if !ok {
		l.Warn("get_stock_error", "status", 404, "reason", "id is not a positive integer")
		return echo.NewHTTPError(http.StatusNotFound, "product or stock does not exist")
	}

	stock, err := h.Svc.GetStock(ctx, id)
	if err != nil {
		return httpError(l, "get_stock_error", err)
	}
	return c.JSON(http.StatusOK, stock)
}
