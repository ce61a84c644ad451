package http

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Kardex-api/internal/application/alerts"
	"github.com/jhoicas/Kardex-api/internal/application/dto"
)

// AlertsHandler maneja las peticiones HTTP de alertas de stock bajo (protegido).
type AlertsHandler struct {
	aggregator *alerts.Aggregator
}

// NewAlertsHandler construye el handler.
func NewAlertsHandler(aggregator *alerts.Aggregator) *AlertsHandler {
	return &AlertsHandler{aggregator: aggregator}
}

// LowStock godoc
// @Summary      Alertas de stock bajo priorizadas
// @Description  Productos físicos con disponibilidad en o bajo su umbral Y ventas
//
//	en la ventana, ordenados por días hasta quiebre ascendente. El stock
//	bajo umbral sin ventas (inventario muerto) no se alerta.
//
// @Tags         alerts
// @Security     Bearer
// @Produce      json
// @Param        window_days  query  int  false  "Ventana en días"  default(30)
// @Success      200  {object}  dto.LowStockAlertListResponse
// @Failure      401  {object}  dto.ErrorResponse
// @Router       /api/alerts/low-stock [get]
func (h *AlertsHandler) LowStock(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	if companyID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	windowDays := c.QueryInt("window_days", 0)
	out, err := h.aggregator.LowStockAlerts(c.Context(), companyID, windowDays, time.Time{})
	if err != nil {
		return kardexError(c, err)
	}
	return c.JSON(out)
}
