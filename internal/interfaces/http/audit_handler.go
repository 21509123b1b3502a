package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/grocery-ims/internal/application/dto"
	"github.com/jhoicas/grocery-ims/internal/application/usecase"
	"github.com/jhoicas/grocery-ims/internal/domain/repository"
)

// AuditHandler expone la consulta del log de auditoría (solo admin).
type AuditHandler struct {
	uc *usecase.AuditUseCase
}

// NewAuditHandler construye el handler.
func NewAuditHandler(uc *usecase.AuditUseCase) *AuditHandler {
	return &AuditHandler{uc: uc}
}

// List godoc
// @Summary      Consultar log de auditoría
// @Tags         audit
// @Security     Bearer
// @Produce      json
// @Param        table_name  query  string  false  "Filtrar por tabla"
// @Param        user_id     query  string  false  "Filtrar por usuario"
// @Param        limit       query  int     false  "Máximo de registros"  default(50)
// @Param        offset      query  int     false  "Offset"               default(0)
// @Success      200  {array}  dto.AuditLogResponse
// @Router       /api/audit [get]
func (h *AuditHandler) List(c *fiber.Ctx) error {
	filter := repository.AuditFilter{
		TableName: c.Query("table_name"),
		UserID:    c.Query("user_id"),
		Limit:     c.QueryInt("limit", 0),
		Offset:    c.QueryInt("offset", 0),
	}
	items, total, err := h.uc.List(filter)
	if err != nil {
		return errorJSON(c, err)
	}
	out := make([]dto.AuditLogResponse, 0, len(items))
	for _, e := range items {
		out = append(out, dto.AuditLogResponse{
			ID:        e.ID,
			UserID:    e.UserID,
			Action:    e.Action,
			TableName: e.TableName,
			RecordID:  e.RecordID,
			OldData:   e.OldData,
			NewData:   e.NewData,
			IPAddress: e.IPAddress,
			UserAgent: e.UserAgent,
			CreatedAt: e.CreatedAt,
		})
	}
	return c.JSON(fiber.Map{"data": out, "total": total})
}
