package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/grocery-ims/internal/application/analytics"
)

// AnalyticsHandler maneja las peticiones HTTP de analítica.
type AnalyticsHandler struct {
	uc *analytics.UseCase
}

// NewAnalyticsHandler construye el handler.
func NewAnalyticsHandler(uc *analytics.UseCase) *AnalyticsHandler {
	return &AnalyticsHandler{uc: uc}
}

// Summary godoc
// @Summary      Resumen del mes actual
// @Description  Ingresos y ventas del mes con variación contra el mes anterior.
// @Tags         analytics
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.AnalyticsSummaryDTO
// @Router       /api/analytics/summary [get]
func (h *AnalyticsHandler) Summary(c *fiber.Ctx) error {
	out, err := h.uc.GetSummary(c.UserContext())
	if err != nil {
		return errorJSON(c, err)
	}
	return c.JSON(out)
}

// DailyRevenue godoc
// @Summary      Ingresos por día en un rango de fechas
// @Tags         analytics
// @Security     Bearer
// @Produce      json
// @Param        from  query  string  true  "YYYY-MM-DD"
// @Param        to    query  string  true  "YYYY-MM-DD"
// @Success      200  {array}  dto.DailyRevenueDTO
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/analytics/daily-revenue [get]
func (h *AnalyticsHandler) DailyRevenue(c *fiber.Ctx) error {
	out, err := h.uc.GetDailyRevenue(c.UserContext(), c.Query("from"), c.Query("to"))
	if err != nil {
		return errorJSON(c, err)
	}
	return c.JSON(out)
}

// TopProducts godoc
// @Summary      Productos más vendidos
// @Tags         analytics
// @Security     Bearer
// @Produce      json
// @Param        limit  query  int     false  "Máximo de productos"  default(10)
// @Param        from   query  string  false  "YYYY-MM-DD (default: últimos 30 días)"
// @Param        to     query  string  false  "YYYY-MM-DD"
// @Success      200  {array}  dto.TopProductDTO
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/analytics/top-products [get]
func (h *AnalyticsHandler) TopProducts(c *fiber.Ctx) error {
	limit := c.QueryInt("limit", 0)
	out, err := h.uc.GetTopProducts(c.UserContext(), limit, c.Query("from"), c.Query("to"))
	if err != nil {
		return errorJSON(c, err)
	}
	return c.JSON(out)
}

// SlowMoving godoc
// @Summary      Productos con stock y sin ventas recientes
// @Tags         analytics
// @Security     Bearer
// @Produce      json
// @Param        days  query  int  false  "Ventana en días"  default(30)
// @Success      200  {array}  dto.SlowMovingProductDTO
// @Router       /api/analytics/slow-moving [get]
func (h *AnalyticsHandler) SlowMoving(c *fiber.Ctx) error {
	days := c.QueryInt("days", 0)
	out, err := h.uc.GetSlowMovingProducts(c.UserContext(), days)
	if err != nil {
		return errorJSON(c, err)
	}
	return c.JSON(out)
}
