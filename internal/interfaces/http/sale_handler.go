package http

import (
	"context"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/grocery-ims/internal/application/dto"
	"github.com/jhoicas/grocery-ims/internal/application/sales"
	"github.com/jhoicas/grocery-ims/internal/application/usecase"
)

// ReceiptGenerator genera el recibo PDF de una venta.
type ReceiptGenerator interface {
	GenerateReceipt(ctx context.Context, sale *dto.SaleResponse) ([]byte, error)
}

// SaleHandler maneja las peticiones HTTP de ventas.
type SaleHandler struct {
	uc       *sales.UseCase
	receipts ReceiptGenerator
	audit    *usecase.AuditUseCase
}

// NewSaleHandler construye el handler.
func NewSaleHandler(uc *sales.UseCase, receipts ReceiptGenerator, audit *usecase.AuditUseCase) *SaleHandler {
	return &SaleHandler{uc: uc, receipts: receipts, audit: audit}
}

// Create godoc
// @Summary      Registrar venta
// @Description  Descuenta stock por lote en orden FIFO dentro de una transacción.
// @Tags         sales
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateSaleRequest  true  "Líneas de la venta"
// @Success      201   {object}  dto.SaleResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/sales [post]
func (h *SaleHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateSaleRequest
	if err := c.BodyParser(&in); err != nil {
		return badRequest(c, "INVALID_BODY", "cuerpo inválido")
	}
	userID := GetUserID(c)
	out, err := h.uc.CreateSale(c.UserContext(), userID, in)
	if err != nil {
		return errorJSON(c, err)
	}
	h.audit.Record(usecase.RecordInput{
		UserID:    userID,
		Action:    "create",
		TableName: "sales",
		RecordID:  out.ID,
		NewData:   out,
		IPAddress: c.IP(),
		UserAgent: c.Get("User-Agent"),
	})
	return c.Status(fiber.StatusCreated).JSON(out)
}

// GetByID godoc
// @Summary      Obtener venta por ID (incluye líneas)
// @Tags         sales
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la venta"
// @Success      200  {object}  dto.SaleResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/sales/{id} [get]
func (h *SaleHandler) GetByID(c *fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return badRequest(c, "MISSING_ID", "id es requerido")
	}
	out, err := h.uc.GetByID(id)
	if err != nil {
		return errorJSON(c, err)
	}
	return c.JSON(out)
}

// List godoc
// @Summary      Listar ventas
// @Tags         sales
// @Security     Bearer
// @Produce      json
// @Param        search     query  string  false  "Búsqueda por número de venta"
// @Param        status     query  string  false  "completed | voided | refunded"
// @Param        date_from  query  string  false  "YYYY-MM-DD"
// @Param        date_to    query  string  false  "YYYY-MM-DD"
// @Success      200  {array}  dto.SaleResponse
// @Router       /api/sales [get]
func (h *SaleHandler) List(c *fiber.Ctx) error {
	var in dto.ListSalesRequest
	if err := c.QueryParser(&in); err != nil {
		return badRequest(c, "INVALID_QUERY", "parámetros inválidos")
	}
	items, page, err := h.uc.List(in)
	if err != nil {
		return errorJSON(c, err)
	}
	return c.JSON(fiber.Map{"data": items, "meta": page})
}

// Void godoc
// @Summary      Anular venta
// @Tags         sales
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la venta"
// @Success      200  {object}  dto.SaleResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/sales/{id}/void [post]
func (h *SaleHandler) Void(c *fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return badRequest(c, "MISSING_ID", "id es requerido")
	}
	userID := GetUserID(c)
	out, err := h.uc.Void(c.UserContext(), id, userID)
	if err != nil {
		return errorJSON(c, err)
	}
	h.audit.Record(usecase.RecordInput{
		UserID:    userID,
		Action:    "void",
		TableName: "sales",
		RecordID:  id,
		NewData:   out,
		IPAddress: c.IP(),
		UserAgent: c.Get("User-Agent"),
	})
	return c.JSON(out)
}

// Refund godoc
// @Summary      Reembolsar venta
// @Tags         sales
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la venta"
// @Success      200  {object}  dto.SaleResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/sales/{id}/refund [post]
func (h *SaleHandler) Refund(c *fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return badRequest(c, "MISSING_ID", "id es requerido")
	}
	out, err := h.uc.Refund(c.UserContext(), id)
	if err != nil {
		return errorJSON(c, err)
	}
	h.audit.Record(usecase.RecordInput{
		UserID:    GetUserID(c),
		Action:    "refund",
		TableName: "sales",
		RecordID:  id,
		NewData:   out,
		IPAddress: c.IP(),
		UserAgent: c.Get("User-Agent"),
	})
	return c.JSON(out)
}

// Receipt godoc
// @Summary      Descargar recibo de venta en PDF
// @Tags         sales
// @Security     Bearer
// @Produce      application/pdf
// @Param        id  path  string  true  "ID de la venta"
// @Success      200  {file}  binary
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/sales/{id}/receipt [get]
func (h *SaleHandler) Receipt(c *fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return badRequest(c, "MISSING_ID", "id es requerido")
	}
	sale, err := h.uc.GetByID(id)
	if err != nil {
		return errorJSON(c, err)
	}
	pdfBytes, err := h.receipts.GenerateReceipt(c.UserContext(), sale)
	if err != nil {
		return errorJSON(c, err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="recibo-`+sale.SaleNumber+`.pdf"`)
	return c.Send(pdfBytes)
}
