package controllers

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// GET /healthz
func (h *Handler) Healthz(c *fiber.Ctx) error {
	driver := h.Health.Driver()
	if err := h.Health.Ping(c.UserContext()); err != nil {
		h.Log.Warn("health check failed", zap.String("driver", driver), zap.Error(err))
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"status": "unavailable", "driver": driver})
	}
	return c.JSON(fiber.Map{"status": "ok", "driver": driver})
}
