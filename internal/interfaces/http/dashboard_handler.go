package http

import (
	"github.com/gofiber/fiber/v2"

	appanalytics "github.com/jhoicas/perfumes-admin-api/internal/application/analytics"
)

// DashboardHandler resumen de ventas para el panel.
type DashboardHandler struct {
	uc *appanalytics.DashboardUseCase
}

// NewDashboardHandler construye el handler.
func NewDashboardHandler(uc *appanalytics.DashboardUseCase) *DashboardHandler {
	return &DashboardHandler{uc: uc}
}

// GetSummary godoc
// @Summary      Resumen del dashboard
// @Description  Ventas y margen del día y del mes en curso, top 5 productos del mes y productos con stock bajo.
// @Tags         dashboard
// @Security     Bearer
// @Produce      json
// @Param        date  query  string  false  "Día de referencia YYYY-MM-DD (por defecto hoy)"
// @Success      200   {object}  dto.DashboardSummary
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /dashboard/summary [get]
func (h *DashboardHandler) GetSummary(c *fiber.Ctx) error {
	summary, err := h.uc.GetSummary(c.Context(), c.Query("date"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(summary)
}
