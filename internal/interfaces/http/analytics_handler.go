package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/libreria-api/internal/application/dto"
	"github.com/jhoicas/libreria-api/internal/application/usecase"
)

// AnalyticsHandler maneja los endpoints de ventas por canal.
type AnalyticsHandler struct {
	uc *usecase.AnalyticsUseCase
}

// NewAnalyticsHandler construye el handler.
func NewAnalyticsHandler(uc *usecase.AnalyticsUseCase) *AnalyticsHandler {
	return &AnalyticsHandler{uc: uc}
}

// GetChannels godoc
// @Summary      Ventas por canal (tienda, marketplaces, interno)
// @Description  Agrupa pedidos no cancelados por tipo en el período indicado.
// @Tags         analytics
// @Security     Bearer
// @Produce      json
// @Param        start_date  query  string  false  "Inicio del período (YYYY-MM-DD). Default: primer día del mes."
// @Param        end_date    query  string  false  "Fin del período (YYYY-MM-DD). Default: hoy."
// @Success      200  {object}  dto.ChannelReportDTO
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/analytics/channels [get]
func (h *AnalyticsHandler) GetChannels(c *fiber.Ctx) error {
	report, err := h.uc.GetChannelReport(c.Context(), c.Query("start_date"), c.Query("end_date"))
	if err != nil {
		// Errores de validación de fechas son errores del cliente
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Code: "BAD_REQUEST", Message: err.Error(),
		})
	}

	return c.JSON(report)
}
