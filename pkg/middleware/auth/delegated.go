package middleware

import (
	"context"
	"errors"
	"net/http"

	"github.com/Skotchmaster/microshop/pkg/authclient"
	"github.com/Skotchmaster/microshop/pkg/logging"
	"github.com/labstack/echo/v4"
)

const (
	IdentityKey = "identity"
	UserIDKey   = "user_id"
	UsernameKey = "username"
	IsAdminKey  = "is_admin"
)

// Validator resolves a raw Authorization header value to an identity.
type Validator interface {
	Validate(ctx context.Context, authorization string) (*authclient.Identity, error)
}

// DelegatedAuth asks the identity service about every request instead of
// checking the token locally.
type DelegatedAuth struct {
	Validator Validator
}

func NewDelegatedAuth(v Validator) *DelegatedAuth {
	return &DelegatedAuth{Validator: v}
}

func (m *DelegatedAuth) RequireAuth(next echo.HandlerFunc) echo.HandlerFunc {
	return m.require(next, false)
}

// RequireAdmin answers 401 for authenticated non-admins as well.
func (m *DelegatedAuth) RequireAdmin(next echo.HandlerFunc) echo.HandlerFunc {
	return m.require(next, true)
}

func (m *DelegatedAuth) require(next echo.HandlerFunc, admin bool) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()
		l := logging.FromContext(ctx).With("middleware", "delegated_auth")

		header := c.Request().Header.Get(echo.HeaderAuthorization)
		if header == "" {
			l.Warn("auth_rejected", "status", http.StatusUnauthorized, "reason", "missing authorization header")
			return echo.NewHTTPError(http.StatusUnauthorized, "Authorization header is missing")
		}

		id, err := m.Validator.Validate(ctx, header)
		if err != nil {
			var ue *authclient.UpstreamError
			if errors.As(err, &ue) {
				l.Warn("auth_rejected", "status", http.StatusUnauthorized, "upstream_status", ue.Status, "reason", ue.Body)
				return echo.NewHTTPError(http.StatusUnauthorized, "Unauthorized: "+ue.Body)
			}
			l.Error("auth_unreachable", "status", http.StatusUnauthorized, "error", err)
			return echo.NewHTTPError(http.StatusUnauthorized, "Unauthorized: identity service unavailable")
		}

		if admin && !id.IsAdmin {
			l.Warn("auth_rejected", "status", http.StatusUnauthorized, "reason", "admin required", "username", id.Username)
			return echo.NewHTTPError(http.StatusUnauthorized, "Admin access required")
		}

		c.Set(IdentityKey, id)
		c.Set(UserIDKey, id.ID)
		c.Set(UsernameKey, id.Username)
		c.Set(IsAdminKey, id.IsAdmin)

		c.SetRequest(c.Request().WithContext(logging.IntoContext(ctx, logging.FromContext(ctx).With("username", id.Username))))
		return next(c)
	}
}

// IdentityFrom returns the identity stored by RequireAuth/RequireAdmin.
func IdentityFrom(c echo.Context) (*authclient.Identity, bool) {
	id, ok := c.Get(IdentityKey).(*authclient.Identity)
	return id, ok && id != nil
}
