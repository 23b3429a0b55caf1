package server

import (
	"context"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/joseph-ayodele/pdf-extractor/internal/common"
)

// bodyLimit leaves room for several 10MB PDFs in one upload request.
const bodyLimit = "64M"

// Options configure the echo instance built by NewEcho.
type Options struct {
	Development    bool
	RequestTimeout time.Duration
	Logger         *slog.Logger
}

// NewEcho builds an echo instance with the shared middleware stack.
func NewEcho(opts Options) *echo.Echo {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = ErrorHandler(opts.Development, logger)

	e.Use(middleware.RecoverWithConfig(middleware.RecoverConfig{
		StackSize:         4 << 10,
		DisablePrintStack: !opts.Development,
	}))
	e.Use(middleware.RequestIDWithConfig(middleware.RequestIDConfig{
		RequestIDHandler: func(c echo.Context, id string) {
			reqLogger := logger.With("req_id", id)
			ctx := common.WithRequestID(c.Request().Context(), id)
			ctx = common.WithLogger(ctx, reqLogger)
			c.SetRequest(c.Request().WithContext(ctx))
		},
	}))
	e.Use(requestLogger(logger))
	e.Use(middleware.BodyLimit(bodyLimit))
	if opts.RequestTimeout > 0 {
		e.Use(middleware.ContextTimeoutWithConfig(middleware.ContextTimeoutConfig{
			Timeout: opts.RequestTimeout,
			Skipper: func(c echo.Context) bool {
				return strings.HasPrefix(c.Path(), "/api/export")
			},
		}))
	}
	return e
}

// requestLogger routes echo's request log into slog. Polling endpoints are
// only logged when they fail.
func requestLogger(logger *slog.Logger) echo.MiddlewareFunc {
	return middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogStatus:    true,
		LogURI:       true,
		LogMethod:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogError:     true,
		HandleError:  true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			quiet := v.URI == "/api/progress" || v.URI == "/api/notifications" || v.URI == "/health"
			level := slog.LevelInfo
			switch {
			case v.Status >= http.StatusInternalServerError:
				level = slog.LevelError
			case v.Status >= http.StatusBadRequest:
				level = slog.LevelWarn
			case quiet:
				return nil
			}
			attrs := []slog.Attr{
				slog.String("req_id", v.RequestID),
				slog.String("method", v.Method),
				slog.String("uri", v.URI),
				slog.Int("status", v.Status),
				slog.Int64("elapsed_ms", v.Latency.Milliseconds()),
			}
			if v.Error != nil {
				attrs = append(attrs, slog.String("error", v.Error.Error()))
			}
			logger.LogAttrs(context.Background(), level, "http.request", attrs...)
			return nil
		},
	})
}
