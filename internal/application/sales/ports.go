// Package sales contiene el motor de ventas: creación atómica con descuento
// FIFO de stock, anulación/reembolso y listados.
package sales

import (
	"context"

	"github.com/jhoicas/grocery-ims/internal/domain/repository"
)

// TxRunner ejecuta fn dentro de una transacción de BD con repositorios atados
// a esa tx. Si fn devuelve error se hace Rollback; si no, Commit. Es la
// garantía de atomicidad del motor: o la venta queda completa con el stock
// descontado, o no queda nada.
type TxRunner interface {
	RunSale(ctx context.Context, fn func(
		saleRepo repository.SaleRepository,
		batchRepo repository.BatchRepository,
		movRepo repository.StockMovementRepository,
	) error) error
}
