package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// SaleItem representa una línea de venta. Inmutable después de creada.
// BatchID es opcional: se guarda solo cuando el cliente especificó el lote;
// el consumo FIFO real queda registrado en StockMovement.
type SaleItem struct {
	ID         string
	SaleID     string
	ProductID  string
	BatchID    string // vacío = consumo FIFO sin lote explícito
	Quantity   decimal.Decimal
	UnitPrice  decimal.Decimal
	TotalPrice decimal.Decimal // Quantity * UnitPrice
	CreatedAt  time.Time

	ProductName string // join opcional para listados
	ProductSKU  string
	ProductUnit string
}
