// Package server exposes the allocator over HTTP. The core stays free of I/O;
// this surface binds JSON requests, runs one allocation per call, and caches
// responses for identical request bodies.
package server

import (
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	gocache "github.com/patrickmn/go-cache"
	"go.uber.org/zap"

	"github.com/iwvelando/adspend-optimizer/internal/config"
)

// New assembles the echo server with routes and dependencies.
func New(cfg config.ServerConfig, logger *zap.Logger) *echo.Echo {
	if logger == nil {
		logger = zap.NewNop()
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = NewValidator()

	e.Use(middleware.Recover())
	e.Use(middleware.RequestID())
	e.Use(requestLogger(logger))

	ttl := time.Duration(cfg.CacheTTLSeconds) * time.Second
	responseCache := gocache.New(ttl, 2*ttl)

	optimizeHandler := NewOptimizeHandler(logger, responseCache)
	registerRoutes(e, optimizeHandler)

	return e
}

func requestLogger(logger *zap.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)
			logger.Info("http request",
				zap.String("op", "server.requestLogger"),
				zap.String("method", c.Request().Method),
				zap.String("path", c.Request().URL.Path),
				zap.Int("status", c.Response().Status),
				zap.String("requestId", c.Response().Header().Get(echo.HeaderXRequestID)),
				zap.Duration("duration", time.Since(start)),
			)
			return err
		}
	}
}
