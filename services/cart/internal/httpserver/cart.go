package httpserver

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/microshop/pkg/logging"
	middleware "github.com/Skotchmaster/microshop/pkg/middleware/auth"
	"github.com/Skotchmaster/microshop/services/cart/internal/service"
	"github.com/Skotchmaster/microshop/services/cart/internal/transport"
)

type CartHTTP struct {
	Svc *service.CartService
}

func username(c echo.Context) (string, error) {
	id, ok := middleware.IdentityFrom(c)
	if !ok || id.Username == "" {
		return "", echo.NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	return id.Username, nil
}

func (h *CartHTTP) AddItem(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "add_item")

	user, err := username(c)
	if err != nil {
		return err
	}

	var req transport.AddItemRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("add_item_error", "status", 400, "reason", "invalid body", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	cart, err := h.Svc.AddItem(ctx, user, c.Request().Header.Get(echo.HeaderAuthorization), req.ProductID, req.Quantity)
	if err != nil {
		return httpError(l, "add_item_error", err)
	}

	l.Info("add_item_success", "product_id", req.ProductID, "quantity", req.Quantity)
	return c.JSON(http.StatusOK, cart)
}

func (h *CartHTTP) GetCart(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "get_cart")

	user, err := username(c)
	if err != nil {
		return err
	}

	cart, err := h.Svc.GetCart(ctx, user)
	if err != nil {
		return httpError(l, "get_cart_error", err)
	}
	return c.JSON(http.StatusOK, cart)
}

func (h *CartHTTP) ClearCart(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "clear_cart")

	user, err := username(c)
	if err != nil {
		return err
	}

	if err := h.Svc.ClearCart(ctx, user); err != nil {
		return httpError(l, "clear_cart_error", err)
	}

	l.Info("clear_cart_success")
	return c.NoContent(http.StatusNoContent)
}

func httpError(l *slog.Logger, op string, err error) error {
	var code int
	switch {
	case errors.Is(err, service.ErrValidation), errors.Is(err, service.ErrBadUpstream):
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
