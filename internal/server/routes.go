package server

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

func registerRoutes(e *echo.Echo, optimizeHandler *OptimizeHandler) {
	e.GET("/health", health)

	api := e.Group("/api/v1")
	api.POST("/optimize", optimizeHandler.Optimize)
	api.GET("/solvers", optimizeHandler.Solvers)
}

func health(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}
