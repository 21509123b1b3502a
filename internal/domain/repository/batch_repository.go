package repository

import (
	"github.com/shopspring/decimal"

	"github.com/jhoicas/grocery-ims/internal/domain/entity"
)

// BatchRepository define el puerto de persistencia para lotes de inventario.
//
// GetConsumableForUpdate es el punto crítico de concurrencia: dentro de una
// transacción bloquea las filas de los lotes del producto (SELECT FOR UPDATE,
// orden estable por received_at) para serializar ventas concurrentes sobre el
// mismo producto.
type BatchRepository interface {
	Create(batch *entity.InventoryBatch) error
	GetByID(id string) (*entity.InventoryBatch, error)
	// GetForUpdate bloquea y devuelve un lote por id (SELECT FOR UPDATE);
	// nil si no existe.
	GetForUpdate(id string) (*entity.InventoryBatch, error)
	// ListByProduct devuelve lotes activos del producto, más antiguos primero.
	ListByProduct(productID string) ([]*entity.InventoryBatch, error)
	ListActive() ([]*entity.InventoryBatch, error)
	// GetConsumableForUpdate bloquea y devuelve los lotes consumibles
	// (activos, quantity > 0) del producto, orden FIFO.
	GetConsumableForUpdate(productID string) ([]*entity.InventoryBatch, error)
	// UpdateQuantity fija la cantidad restante del lote.
	UpdateQuantity(batchID string, quantity decimal.Decimal) error
	Update(batch *entity.InventoryBatch) error
	Deactivate(id string) error
	// TotalQuantity suma las cantidades de los lotes activos del producto.
	TotalQuantity(productID string) (decimal.Decimal, error)
}
