package httperr

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/Skotchmaster/microshop/pkg/logging"
	"github.com/labstack/echo/v4"
)

const internalMessage = "internal server error"

// Body is the error envelope every service answers with.
type Body struct {
	Error string `json:"error"`
}

// Handler renders errors as {"error": "..."}. Errors that are not
// *echo.HTTPError become a 500 with a generic message.
func Handler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	code := http.StatusInternalServerError
	msg := internalMessage

	var he *echo.HTTPError
	if errors.As(err, &he) {
		code = he.Code
		msg = message(he)
	} else {
		logging.FromContext(c.Request().Context()).Error("unhandled_error", "error", err)
	}

	if code >= http.StatusInternalServerError && msg == "" {
		msg = internalMessage
	}

	var werr error
	if c.Request().Method == http.MethodHead {
		werr = c.NoContent(code)
	} else {
		werr = c.JSON(code, Body{Error: msg})
	}
	if werr != nil {
		logging.FromContext(c.Request().Context()).Error("write_error_response", "error", werr)
	}
}

func message(he *echo.HTTPError) string {
	switch m := he.Message.(type) {
	case string:
		return m
	case error:
		return m.Error()
	case nil:
		return http.StatusText(he.Code)
	default:
		return fmt.Sprint(m)
	}
}
