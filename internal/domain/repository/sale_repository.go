package repository

import (
	"time"

	"github.com/jhoicas/grocery-ims/internal/domain/entity"
)

// SaleFilter filtros para listados de ventas.
type SaleFilter struct {
	Search   string // sobre sale_number
	Status   string
	DateFrom *time.Time
	DateTo   *time.Time
	Limit    int
	Offset   int
}

// SaleRepository define el puerto de persistencia para ventas y sus líneas.
type SaleRepository interface {
	Create(sale *entity.Sale) error
	CreateItem(item *entity.SaleItem) error
	GetByID(id string) (*entity.Sale, error)
	// List devuelve ventas (sin líneas anidadas) más recientes primero, y el total.
	List(filter SaleFilter) ([]*entity.Sale, int, error)
	// ListItems devuelve las líneas de una venta con datos del producto.
	ListItems(saleID string) ([]*entity.SaleItem, error)
	// UpdateStatus cambia el estado solo si la fila sigue en fromStatus;
	// si otra transacción ya la movió devuelve domain.ErrConflict.
	UpdateStatus(saleID, fromStatus, toStatus string) error
}

// StockMovementRepository registra las extracciones por lote de cada venta.
type StockMovementRepository interface {
	Create(mov *entity.StockMovement) error
	ListBySale(saleID string) ([]*entity.StockMovement, error)
}
