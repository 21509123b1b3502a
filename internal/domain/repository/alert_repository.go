package repository

import "github.com/jhoicas/grocery-ims/internal/domain/entity"

// AlertFilter filtros para listados de alertas.
type AlertFilter struct {
	Type       string
	Severity   string
	IsRead     *bool
	IsResolved *bool
	Limit      int
	Offset     int
}

// AlertRepository define el puerto de persistencia para alertas.
type AlertRepository interface {
	Create(alert *entity.Alert) error
	GetByID(id string) (*entity.Alert, error)
	List(filter AlertFilter) ([]*entity.Alert, int, error)
	// HasOpen responde si existe una alerta sin resolver del tipo dado para
	// el producto o lote referido (deduplicación del escaneo).
	HasOpen(alertType, productID, batchID string) (bool, error)
	MarkRead(id string) error
	MarkAllRead() error
	Update(alert *entity.Alert) error
	UnreadCount() (int, error)
	// CountOpenByType cuenta alertas sin resolver de un tipo (para el resumen analítico).
	CountOpenByType(alertType string) (int, error)
}
