package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/grocery-ims/internal/application/alerts"
	"github.com/jhoicas/grocery-ims/internal/application/dto"
)

// AlertHandler maneja las peticiones HTTP de alertas.
type AlertHandler struct {
	uc      *alerts.UseCase
	scanner *alerts.Scanner
}

// NewAlertHandler construye el handler.
func NewAlertHandler(uc *alerts.UseCase, scanner *alerts.Scanner) *AlertHandler {
	return &AlertHandler{uc: uc, scanner: scanner}
}

// List godoc
// @Summary      Listar alertas
// @Tags         alerts
// @Security     Bearer
// @Produce      json
// @Param        type         query  string  false  "low_stock | expiring_soon | expired"
// @Param        severity     query  string  false  "warning | critical"
// @Param        is_read      query  bool    false  "Filtrar por leídas"
// @Param        is_resolved  query  bool    false  "Filtrar por resueltas"
// @Success      200  {array}  dto.AlertResponse
// @Router       /api/alerts [get]
func (h *AlertHandler) List(c *fiber.Ctx) error {
	var in dto.ListAlertsRequest
	if err := c.QueryParser(&in); err != nil {
		return badRequest(c, "INVALID_QUERY", "parámetros inválidos")
	}
	items, page, err := h.uc.List(in)
	if err != nil {
		return errorJSON(c, err)
	}
	return c.JSON(fiber.Map{"data": items, "meta": page})
}

// Scan godoc
// @Summary      Escanear inventario y generar alertas
// @Description  Revisa stock bajo y vencimientos. No duplica alertas abiertas.
// @Tags         alerts
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.ScanResponse
// @Router       /api/alerts/scan [post]
func (h *AlertHandler) Scan(c *fiber.Ctx) error {
	generated, err := h.scanner.Scan()
	if err != nil {
		return errorJSON(c, err)
	}
	return c.JSON(dto.ScanResponse{Generated: generated})
}

// UnreadCount godoc
// @Summary      Contador de alertas no leídas
// @Tags         alerts
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  map[string]int
// @Router       /api/alerts/unread-count [get]
func (h *AlertHandler) UnreadCount(c *fiber.Ctx) error {
	count, err := h.uc.UnreadCount()
	if err != nil {
		return errorJSON(c, err)
	}
	return c.JSON(fiber.Map{"unread": count})
}

// MarkRead godoc
// @Summary      Marcar alerta como leída
// @Tags         alerts
// @Security     Bearer
// @Param        id  path  string  true  "ID de la alerta"
// @Success      204
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/alerts/{id}/read [post]
func (h *AlertHandler) MarkRead(c *fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return badRequest(c, "MISSING_ID", "id es requerido")
	}
	if err := h.uc.MarkRead(id); err != nil {
		return errorJSON(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// MarkAllRead godoc
// @Summary      Marcar todas las alertas como leídas
// @Tags         alerts
// @Security     Bearer
// @Success      204
// @Router       /api/alerts/read-all [post]
func (h *AlertHandler) MarkAllRead(c *fiber.Ctx) error {
	if err := h.uc.MarkAllRead(); err != nil {
		return errorJSON(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// Resolve godoc
// @Summary      Resolver alerta
// @Description  Idempotente: resolver dos veces devuelve la misma alerta.
// @Tags         alerts
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la alerta"
// @Success      200  {object}  dto.AlertResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/alerts/{id}/resolve [post]
func (h *AlertHandler) Resolve(c *fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return badRequest(c, "MISSING_ID", "id es requerido")
	}
	out, err := h.uc.Resolve(id, GetUserID(c))
	if err != nil {
		return errorJSON(c, err)
	}
	return c.JSON(out)
}
