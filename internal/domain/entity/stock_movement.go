package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// StockMovement registra una extracción de stock sobre un lote concreto,
// producida por una venta. Una venta genera un movimiento por cada lote que
// tocó el plan FIFO, de modo que el descuento es auditable y reversible
// (restock al anular, si está habilitado).
type StockMovement struct {
	ID        string
	SaleID    string
	ProductID string
	BatchID   string
	Quantity  decimal.Decimal // siempre positiva: cantidad extraída del lote
	CreatedAt time.Time
}
