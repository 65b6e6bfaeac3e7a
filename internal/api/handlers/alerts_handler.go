package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/refineryiq/server/internal/alerts"
	"github.com/refineryiq/server/internal/metrics"
	"github.com/refineryiq/server/pkg/logger"
)

type AlertsHandler struct {
	manager *alerts.Manager
}

func NewAlertsHandler(manager *alerts.Manager) *AlertsHandler {
	return &AlertsHandler{manager: manager}
}

func (h *AlertsHandler) GetAlerts(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"alerts":         h.manager.List(),
		"unacknowledged": h.manager.UnacknowledgedCount(),
	})
}

func (h *AlertsHandler) GetActive(c *fiber.Ctx) error {
	return c.JSON(h.manager.Active())
}

func (h *AlertsHandler) Acknowledge(c *fiber.Ctx) error {
	alertID := c.Params("id")

	if err := h.manager.Acknowledge(alertID); err != nil {
		if errors.Is(err, alerts.ErrNotFound) {
			metrics.AlertAcknowledgements.WithLabelValues("not_found").Inc()
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "alert not found",
			})
		}
		logger.Error("failed to acknowledge alert", zap.Error(err), zap.String("alert_id", alertID))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "failed to acknowledge alert",
		})
	}

	metrics.AlertAcknowledgements.WithLabelValues("ok").Inc()
	return c.SendStatus(fiber.StatusNoContent)
}
