package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados de una venta. Las transiciones son de una sola vía:
// completed → voided | refunded. No hay salida de voided/refunded.
const (
	SaleStatusCompleted = "completed"
	SaleStatusVoided    = "voided"
	SaleStatusRefunded  = "refunded"
)

// Sale representa la cabecera de una venta.
// Invariante: NetAmount = TotalAmount - Discount + Tax, donde TotalAmount es
// la suma de los TotalPrice de sus líneas.
type Sale struct {
	ID          string
	SaleNumber  string // único, generado (SALE-YYYYMMDD-XXXX)
	SoldBy      string
	TotalAmount decimal.Decimal
	Discount    decimal.Decimal
	Tax         decimal.Decimal
	NetAmount   decimal.Decimal
	Status      string
	Notes       string
	SoldAt      time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time

	Items []*SaleItem // líneas anidadas (carga opcional)
}

// CanTransitionTo valida la máquina de estados de la venta.
func (s *Sale) CanTransitionTo(status string) bool {
	if s.Status != SaleStatusCompleted {
		return false
	}
	return status == SaleStatusVoided || status == SaleStatusRefunded
}
