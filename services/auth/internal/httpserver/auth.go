package httpserver

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/Skotchmaster/microshop/pkg/logging"
	"github.com/Skotchmaster/microshop/services/auth/internal/service"
	"github.com/Skotchmaster/microshop/services/auth/internal/transport"
	"github.com/labstack/echo/v4"
)

type AuthHTTP struct {
	Svc *service.AuthService
}

func (h *AuthHTTP) Register(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth_register")

	var req transport.Credentials
	if err := c.Bind(&req); err != nil {
		l.Warn("register_error", "status", 400, "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	user, err := h.Svc.Register(ctx, req.Username, req.Password)
	if err != nil {
		return httpError(l, "register_error", err)
	}

	l.Info("register_successful", "username", user.Username)
	return c.JSON(http.StatusOK, user)
}

func (h *AuthHTTP) Login(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth_login")

	var req transport.Credentials
	if err := c.Bind(&req); err != nil {
		l.Warn("login_error", "status", 400, "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	token, err := h.Svc.Login(ctx, req.Username, req.Password)
	if err != nil {
		// unknown user and wrong password both answer 400
		if errors.Is(err, service.ErrNotFound) || errors.Is(err, service.ErrUnauthorized) {
			l.Warn("login_error", "status", 400, "reason", service.Message(err))
			return echo.NewHTTPError(http.StatusBadRequest, service.Message(err))
		}
		return httpError(l, "login_error", err)
	}

	l.Info("login_successful", "username", req.Username)
	return c.JSON(http.StatusOK, transport.TokenResponse{AccessToken: token})
}

func (h *AuthHTTP) Validate(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth_validate")

	user, err := h.Svc.Validate(ctx, c.Request().Header.Get(echo.HeaderAuthorization))
	if err != nil {
		return httpError(l, "validate_error", err)
	}
	return c.JSON(http.StatusOK, user)
}

func (h *AuthHTTP) Logout(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth_logout")

	if err := h.Svc.Logout(ctx, c.Request().Header.Get(echo.HeaderAuthorization)); err != nil {
		return httpError(l, "logout_error", err)
	}

	l.Info("logout_successful")
	return c.JSON(http.StatusOK, transport.MessageResponse{Msg: "logged out"})
}

func httpError(l *slog.Logger, op string, err error) error {
	var code int
	switch {
	case errors.Is(err, service.ErrValidation), errors.Is(err, service.ErrConflict):
		code = http.StatusBadRequest
	case errors.Is(err, service.ErrNotFound):
		code = http.StatusNotFound
	case errors.Is(err, service.ErrUnauthorized):
		code = http.StatusUnauthorized
	default:
		return err
	}
	l.Warn(op, "status", code, "reason", service.Message(err))
	return echo.NewHTTPError(code, service.Message(err))
}
