package repository

import (
	"time"

	"github.com/shopspring/decimal"
)

// InventorySummaryRow stock agregado de un producto: total entre lotes
// activos, número de lotes y vencimiento más próximo.
type InventorySummaryRow struct {
	ProductID         string
	SKU               string
	Name              string
	Unit              string
	UnitSize          decimal.Decimal
	SellingPrice      decimal.Decimal
	CostPrice         decimal.Decimal
	LowStockThreshold decimal.Decimal
	CategoryName      string
	TotalQuantity     decimal.Decimal
	BatchCount        int
	EarliestExpiry    *time.Time
	IsLowStock        bool
}

// ExpiringBatchRow lote con vencimiento, para el monitor de caducidad.
// ExpiryStatus y DaysUntilExpiry los calcula el clasificador, no la DB.
type ExpiringBatchRow struct {
	BatchID         string
	BatchNumber     string
	ProductID       string
	ProductName     string
	SKU             string
	Unit            string
	Quantity        decimal.Decimal
	ExpiresAt       time.Time
	DaysUntilExpiry int
	ExpiryStatus    string
}

// InventoryFilter filtros del resumen de inventario.
type InventoryFilter struct {
	Search       string
	LowStockOnly bool
	Limit        int
	Offset       int
}

// InventoryQueryRepository consultas agregadas de inventario (read-only).
type InventoryQueryRepository interface {
	// GetSummary devuelve una fila por producto activo con su stock agregado.
	GetSummary(filter InventoryFilter) ([]InventorySummaryRow, int, error)
	// GetExpiringBatches devuelve lotes activos con fecha de vencimiento,
	// los más próximos a vencer primero. El estado lo deriva el caller.
	GetExpiringBatches(limit, offset int) ([]ExpiringBatchRow, int, error)
	// CountLowStock cuenta productos activos con total <= umbral.
	CountLowStock() (int, error)
}
