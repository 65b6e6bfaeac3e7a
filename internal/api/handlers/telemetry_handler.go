package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/refineryiq/server/internal/telemetry"
)

// TelemetryHandler serves the read-only telemetry surface: samples,
// aggregates, KPIs, units, recommendations, and predictions.
type TelemetryHandler struct {
	store *telemetry.Store
}

func NewTelemetryHandler(store *telemetry.Store) *TelemetryHandler {
	return &TelemetryHandler{store: store}
}

func (h *TelemetryHandler) GetEnergy(c *fiber.Ctx) error {
	return c.JSON(h.store.Samples())
}

func (h *TelemetryHandler) GetUnitEnergy(c *fiber.Ctx) error {
	unitID := c.Params("unitID")
	if _, ok := h.store.Unit(unitID); !ok {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "unknown unit",
		})
	}
	return c.JSON(h.store.UnitSamples(unitID))
}

func (h *TelemetryHandler) GetDailyTotals(c *fiber.Ctx) error {
	return c.JSON(h.store.DailyTotals())
}

func (h *TelemetryHandler) GetKPIs(c *fiber.Ctx) error {
	type styledKPI struct {
		telemetry.KPI
		Style telemetry.KPIStyle `json:"style"`
	}
	kpis := h.store.KPIs()
	out := make([]styledKPI, 0, len(kpis))
	for _, k := range kpis {
		out = append(out, styledKPI{KPI: k, Style: telemetry.StyleFor(k.Name)})
	}
	return c.JSON(out)
}

func (h *TelemetryHandler) GetKPISummary(c *fiber.Ctx) error {
	return c.JSON(telemetry.Summarize(h.store.Samples()))
}

func (h *TelemetryHandler) GetSEC(c *fiber.Ctx) error {
	samples := h.store.Samples()
	type unitSEC struct {
		UnitID string  `json:"unitId"`
		SEC    float64 `json:"sec"`
	}
	units := h.store.Units()
	out := make([]unitSEC, 0, len(units))
	for _, u := range units {
		out = append(out, unitSEC{UnitID: u.UnitID, SEC: telemetry.UnitSEC(samples, u.UnitID)})
	}
	return c.JSON(out)
}

func (h *TelemetryHandler) GetUnits(c *fiber.Ctx) error {
	return c.JSON(h.store.Units())
}

func (h *TelemetryHandler) GetUnit(c *fiber.Ctx) error {
	unit, ok := h.store.Unit(c.Params("unitID"))
	if !ok {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "unknown unit",
		})
	}
	return c.JSON(fiber.Map{
		"unit":      unit,
		"loadRatio": unit.DisplayLoadRatio(),
	})
}

func (h *TelemetryHandler) GetRecommendations(c *fiber.Ctx) error {
	priority := c.Query("priority")
	recs := h.store.Recommendations()
	if priority == "" {
		return c.JSON(recs)
	}
	filtered := make([]telemetry.Recommendation, 0, len(recs))
	for _, r := range recs {
		if string(r.Priority) == priority {
			filtered = append(filtered, r)
		}
	}
	return c.JSON(filtered)
}

func (h *TelemetryHandler) GetPredictions(c *fiber.Ctx) error {
	return c.JSON(h.store.Predictions())
}
