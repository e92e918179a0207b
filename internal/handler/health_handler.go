package handler

import (
	"quiz-gate/internal/domain"
	"quiz-gate/internal/dto"
	"quiz-gate/internal/logger"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// HealthHandler reports liveness and cache reachability.
type HealthHandler struct {
	cache domain.Cache
}

func NewHealthHandler(cache domain.Cache) *HealthHandler {
	return &HealthHandler{cache: cache}
}

// Health godoc
// @Summary Health check
// @Tags health
// @Produce json
// @Success 200 {object} dto.HealthResponse
// @Router /health [get]
func (h *HealthHandler) Health(c *fiber.Ctx) error {
	resp := dto.HealthResponse{Status: "ok", Redis: "disabled"}
	if h.cache != nil {
		if err := h.cache.Ping(c.UserContext()); err != nil {
			logger.Get().Warn("Redis ping failed", zap.Error(err))
			resp.Status = "degraded"
			resp.Redis = "unreachable"
		} else {
			resp.Redis = "ok"
		}
	}
	return c.JSON(resp)
}
