package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// InventoryBatch representa un lote de stock recibido: cantidad propia, costo
// propio y fecha de vencimiento opcional.
//
// Invariante: 0 <= Quantity <= InitialQty. Quantity solo la mutan las ventas
// (consumo FIFO). Un lote en cero NO se desactiva: queda como registro
// histórico y simplemente se excluye del consumo.
type InventoryBatch struct {
	ID             string
	ProductID      string
	BatchNumber    string // único, generado (BT-YYYYMMDD-XXXX)
	Quantity       decimal.Decimal
	InitialQty     decimal.Decimal // snapshot inmutable al crear el lote
	CostPrice      decimal.Decimal
	ManufacturedAt *time.Time
	ExpiresAt      *time.Time
	ReceivedAt     time.Time
	ReceivedBy     string
	Notes          string
	IsActive       bool
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// Consumable indica si el lote participa del consumo FIFO.
func (b *InventoryBatch) Consumable() bool {
	return b.IsActive && b.Quantity.GreaterThan(decimal.Zero)
}
