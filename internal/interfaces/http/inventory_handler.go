package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/grocery-ims/internal/application/dto"
	"github.com/jhoicas/grocery-ims/internal/application/inventory"
	"github.com/jhoicas/grocery-ims/internal/application/usecase"
)

// InventoryHandler maneja las peticiones HTTP de inventario y lotes.
type InventoryHandler struct {
	uc    *inventory.UseCase
	audit *usecase.AuditUseCase
}

// NewInventoryHandler construye el handler.
func NewInventoryHandler(uc *inventory.UseCase, audit *usecase.AuditUseCase) *InventoryHandler {
	return &InventoryHandler{uc: uc, audit: audit}
}

// Summary godoc
// @Summary      Resumen de inventario por producto
// @Description  Existencias agregadas por producto con lote más próximo a vencer.
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        search     query  string  false  "Búsqueda por nombre o SKU"
// @Param        low_stock  query  bool    false  "Solo productos bajo umbral"
// @Success      200  {array}  dto.InventorySummaryResponse
// @Router       /api/inventory/summary [get]
func (h *InventoryHandler) Summary(c *fiber.Ctx) error {
	var in dto.ListInventoryRequest
	if err := c.QueryParser(&in); err != nil {
		return badRequest(c, "INVALID_QUERY", "parámetros inválidos")
	}
	items, page, err := h.uc.GetSummary(in)
	if err != nil {
		return errorJSON(c, err)
	}
	return c.JSON(fiber.Map{"data": items, "meta": page})
}

// Expiring godoc
// @Summary      Lotes próximos a vencer o vencidos
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        status  query  string  false  "ok | expiring_soon | expired"
// @Success      200  {array}  dto.ExpiringProductResponse
// @Router       /api/inventory/expiring [get]
func (h *InventoryHandler) Expiring(c *fiber.Ctx) error {
	var in dto.ListExpiryRequest
	if err := c.QueryParser(&in); err != nil {
		return badRequest(c, "INVALID_QUERY", "parámetros inválidos")
	}
	items, page, err := h.uc.GetExpiringProducts(in)
	if err != nil {
		return errorJSON(c, err)
	}
	return c.JSON(fiber.Map{"data": items, "meta": page})
}

// AddBatch godoc
// @Summary      Recibir lote de mercancía
// @Tags         inventory
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateBatchRequest  true  "Datos del lote"
// @Success      201   {object}  dto.BatchResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/inventory/batches [post]
func (h *InventoryHandler) AddBatch(c *fiber.Ctx) error {
	var in dto.CreateBatchRequest
	if err := c.BodyParser(&in); err != nil {
		return badRequest(c, "INVALID_BODY", "cuerpo inválido")
	}
	userID := GetUserID(c)
	out, err := h.uc.AddBatch(userID, in)
	if err != nil {
		return errorJSON(c, err)
	}
	h.audit.Record(usecase.RecordInput{
		UserID:    userID,
		Action:    "create",
		TableName: "inventory_batches",
		RecordID:  out.ID,
		NewData:   out,
		IPAddress: c.IP(),
		UserAgent: c.Get("User-Agent"),
	})
	return c.Status(fiber.StatusCreated).JSON(out)
}

// ListBatches godoc
// @Summary      Listar lotes de un producto
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        product_id  query  string  true  "ID del producto"
// @Success      200  {array}  dto.BatchResponse
// @Router       /api/inventory/batches [get]
func (h *InventoryHandler) ListBatches(c *fiber.Ctx) error {
	productID := c.Query("product_id")
	if productID == "" {
		return badRequest(c, "VALIDATION", "product_id es requerido")
	}
	items, err := h.uc.ListBatches(productID)
	if err != nil {
		return errorJSON(c, err)
	}
	return c.JSON(items)
}

// UpdateBatch godoc
// @Summary      Actualizar lote
// @Description  Solo costo, vencimiento y notas. La cantidad la mueven las ventas.
// @Tags         inventory
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID del lote"
// @Param        body  body  dto.UpdateBatchRequest  true  "Datos a actualizar"
// @Success      200   {object}  dto.BatchResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/inventory/batches/{id} [put]
func (h *InventoryHandler) UpdateBatch(c *fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return badRequest(c, "MISSING_ID", "id es requerido")
	}
	var in dto.UpdateBatchRequest
	if err := c.BodyParser(&in); err != nil {
		return badRequest(c, "INVALID_BODY", "cuerpo inválido")
	}
	out, err := h.uc.UpdateBatch(id, in)
	if err != nil {
		return errorJSON(c, err)
	}
	return c.JSON(out)
}

// RemoveBatch godoc
// @Summary      Desactivar lote
// @Tags         inventory
// @Security     Bearer
// @Param        id  path  string  true  "ID del lote"
// @Success      204
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/inventory/batches/{id} [delete]
func (h *InventoryHandler) RemoveBatch(c *fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return badRequest(c, "MISSING_ID", "id es requerido")
	}
	if err := h.uc.RemoveBatch(id); err != nil {
		return errorJSON(c, err)
	}
	h.audit.Record(usecase.RecordInput{
		UserID:    GetUserID(c),
		Action:    "deactivate",
		TableName: "inventory_batches",
		RecordID:  id,
		IPAddress: c.IP(),
		UserAgent: c.Get("User-Agent"),
	})
	return c.SendStatus(fiber.StatusNoContent)
}
