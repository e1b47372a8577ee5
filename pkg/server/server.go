package server

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"gorm.io/gorm"

	"github.com/Skotchmaster/microshop/pkg/httperr"
	loggingmw "github.com/Skotchmaster/microshop/pkg/middleware/logging"
)

const shutdownTimeout = 10 * time.Second

// NewEcho returns an echo instance with the middleware chain shared by all
// services. Handler errors render as the JSON error envelope.
func NewEcho(l *slog.Logger) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = httperr.Handler

	e.Server.ReadTimeout = 10 * time.Second
	e.Server.WriteTimeout = 15 * time.Second
	e.Server.ReadHeaderTimeout = 3 * time.Second

	e.Use(middleware.Recover())
	e.Use(middleware.RequestID())
	e.Use(middleware.CORS())
	e.Use(loggingmw.RequestLogger(l))
	return e
}

// DBReady reports whether db answers a ping.
func DBReady(db *gorm.DB) func() error {
	return func() error {
		sqlDB, err := db.DB()
		if err != nil {
			return err
		}
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		return sqlDB.PingContext(ctx)
	}
}

// Run serves e on addr until SIGINT/SIGTERM, then shuts down gracefully.
func Run(e *echo.Echo, addr string, l *slog.Logger) error {
	errCh := make(chan error, 1)
	go func() {
		l.Info("http_server_start", "addr", addr)
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(stop)

	select {
	case err, ok := <-errCh:
		if ok {
			return err
		}
		return nil
	case sig := <-stop:
		l.Info("http_server_stop", "signal", sig.String())
	}

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return e.Shutdown(ctx)
}
