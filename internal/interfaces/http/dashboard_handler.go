package http

import (
	"github.com/gofiber/fiber/v2"
	appanalytics "github.com/jhoicas/stock-engine/internal/application/analytics"
	"github.com/jhoicas/stock-engine/pkg/logger"
)

// DashboardHandler maneja los endpoints del módulo de Dashboard.
type DashboardHandler struct {
	errorWriter
	uc *appanalytics.DashboardUseCase
}

// NewDashboardHandler construye el handler.
func NewDashboardHandler(uc *appanalytics.DashboardUseCase, log *logger.Logger) *DashboardHandler {
	return &DashboardHandler{errorWriter: errorWriter{log: log}, uc: uc}
}

// GetSummary godoc
// @Summary      Resumen de inventario
// @Description  Productos activos, productos bajo el nivel de reorden y documentos pendientes
//
//	por tipo. Una métrica que falla se informa en "unavailable" y el resto se devuelve igual.
//
// @Tags         dashboard
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.DashboardSummaryDTO
// @Failure      500  {object}  dto.ErrorResponse
// @Router       /api/dashboard/summary [get]
func (h *DashboardHandler) GetSummary(c *fiber.Ctx) error {
	summary, err := h.uc.GetSummary(c.Context())
	if err != nil {
		return h.writeError(c, err)
	}
	return c.JSON(summary)
}
