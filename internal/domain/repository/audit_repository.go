package repository

import "github.com/jhoicas/grocery-ims/internal/domain/entity"

// AuditFilter filtros para el listado de auditoría.
type AuditFilter struct {
	TableName string
	UserID    string
	Limit     int
	Offset    int
}

// AuditRepository define el puerto de persistencia del log de auditoría.
type AuditRepository interface {
	Create(log *entity.AuditLog) error
	List(filter AuditFilter) ([]*entity.AuditLog, int, error)
}
