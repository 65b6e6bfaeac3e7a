package handlers

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/refineryiq/server/internal/insight"
	"github.com/refineryiq/server/pkg/logger"
)

const maxQueryLength = 2000

type InsightHandler struct {
	router *insight.Router
}

func NewInsightHandler(router *insight.Router) *InsightHandler {
	return &InsightHandler{router: router}
}

// HandleQuery never returns a failure for model or configuration problems;
// the router absorbs those into a degraded answer.
func (h *InsightHandler) HandleQuery(c *fiber.Ctx) error {
	var req struct {
		Query string `json:"query"`
	}
	if err := c.BodyParser(&req); err != nil {
		logger.Error("failed to parse insight request", zap.Error(err))
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid request body",
		})
	}
	if req.Query == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "query is required",
		})
	}
	if len(req.Query) > maxQueryLength {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "query exceeds maximum length",
		})
	}

	return c.JSON(h.router.Query(c.Context(), req.Query))
}
