package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Unidades de medida aceptadas para productos de abarrotes.
var ValidUnits = map[string]bool{
	"pcs": true, "kg": true, "g": true, "lb": true, "oz": true,
	"L": true, "mL": true, "dozen": true, "box": true, "bag": true,
	"can": true, "bottle": true, "pack": true, "tray": true, "bunch": true,
}

// DefaultLowStockThreshold umbral de stock bajo cuando el producto no define uno.
var DefaultLowStockThreshold = decimal.NewFromInt(10)

// Product representa un producto del catálogo. El stock se maneja por lotes
// (InventoryBatch); aquí solo viven precio, unidad y umbral de stock bajo.
// Nunca se borra físicamente: se desactiva (soft delete) para preservar
// las referencias históricas de ventas y lotes.
type Product struct {
	ID                string
	SKU               string // código único
	Barcode           string
	Name              string
	Description       string
	CategoryID        string
	SupplierID        string
	Unit              string          // pcs, kg, g, lb, oz, L, mL, dozen, box, bag, can, bottle, pack, tray, bunch
	UnitSize          decimal.Decimal // tamaño por unidad (ej: 1.5 para botella de 1.5L)
	CostPrice         decimal.Decimal
	SellingPrice      decimal.Decimal
	LowStockThreshold decimal.Decimal // default 10
	ImageURL          string
	IsActive          bool
	CreatedBy         string
	CreatedAt         time.Time
	UpdatedAt         time.Time
}
