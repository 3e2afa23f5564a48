package server

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/labstack/echo/v4"
	gocache "github.com/patrickmn/go-cache"
	"go.uber.org/zap"

	"github.com/iwvelando/adspend-optimizer/internal/allocator"
	"github.com/iwvelando/adspend-optimizer/internal/config"
	"github.com/iwvelando/adspend-optimizer/internal/lp"
	"github.com/iwvelando/adspend-optimizer/pkg/validation"
)

// OptimizeHandler serves allocation requests.
type OptimizeHandler struct {
	logger *zap.Logger
	cache  *gocache.Cache
}

// NewOptimizeHandler creates the handler for the optimize endpoints.
func NewOptimizeHandler(logger *zap.Logger, cache *gocache.Cache) *OptimizeHandler {
	return &OptimizeHandler{logger: logger, cache: cache}
}

// OptimizeResponse wraps a result with any advisory warnings about the
// request.
type OptimizeResponse struct {
	Result   *allocator.Result `json:"result"`
	Warnings []string          `json:"warnings,omitempty"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// Optimize runs one allocation. Identical bodies within the cache TTL get the
// cached response; an allocation is deterministic for a fixed request, so only
// the run id would differ.
func (h *OptimizeHandler) Optimize(c echo.Context) error {
	body, err := io.ReadAll(c.Request().Body)
	if err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "failed to read request body"})
	}

	solverOverride := c.QueryParam("solver")
	cacheKey := digest(body, solverOverride)
	if cached, ok := h.cache.Get(cacheKey); ok {
		return c.JSON(http.StatusOK, cached)
	}

	var req config.OptimizerRequest
	if err := json.Unmarshal(body, &req); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid request body: " + err.Error()})
	}
	req.Normalize()
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid request: " + err.Error()})
	}

	result, err := allocator.Optimize(h.logger, req, solverOverride)
	if err != nil {
		var optErr *allocator.OptimizationError
		if errors.As(err, &optErr) {
			return c.JSON(http.StatusUnprocessableEntity, errorResponse{Error: optErr.Error()})
		}
		h.logger.Error("allocation failed",
			zap.String("op", "server.Optimize"),
			zap.Error(err),
		)
		return c.JSON(http.StatusInternalServerError, errorResponse{Error: "internal error"})
	}

	response := OptimizeResponse{
		Result:   result,
		Warnings: validation.ValidateRequest(&req),
	}
	h.cache.Set(cacheKey, response, gocache.DefaultExpiration)
	return c.JSON(http.StatusOK, response)
}

// Solvers lists the compiled-in solver backends in priority order.
func (h *OptimizeHandler) Solvers(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string][]string{"solvers": lp.Backends()})
}

func digest(body []byte, solver string) string {
	sum := sha256.New()
	sum.Write(body)
	sum.Write([]byte{0})
	sum.Write([]byte(solver))
	return hex.EncodeToString(sum.Sum(nil))
}
