package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateBatchRequest alta de stock: crea un lote nuevo para el producto.
type CreateBatchRequest struct {
	ProductID      string          `json:"product_id"`
	Quantity       decimal.Decimal `json:"quantity"`
	CostPrice      decimal.Decimal `json:"cost_price"`
	ManufacturedAt *time.Time      `json:"manufactured_at,omitempty"`
	ExpiresAt      *time.Time      `json:"expires_at,omitempty"`
	Notes          string          `json:"notes,omitempty"`
}

// UpdateBatchRequest campos editables de un lote. La cantidad no se toca por
// aquí: solo la mutan las ventas.
type UpdateBatchRequest struct {
	CostPrice *decimal.Decimal `json:"cost_price,omitempty"`
	ExpiresAt *time.Time       `json:"expires_at,omitempty"`
	Notes     *string          `json:"notes,omitempty"`
}

// BatchResponse lote en respuestas.
type BatchResponse struct {
	ID          string          `json:"id"`
	ProductID   string          `json:"product_id"`
	BatchNumber string          `json:"batch_number"`
	Quantity    decimal.Decimal `json:"quantity"`
	InitialQty  decimal.Decimal `json:"initial_qty"`
	CostPrice   decimal.Decimal `json:"cost_price"`
	ExpiresAt   *time.Time      `json:"expires_at,omitempty"`
	ReceivedAt  time.Time       `json:"received_at"`
	Notes       string          `json:"notes,omitempty"`
	IsActive    bool            `json:"is_active"`
}

// InventorySummaryResponse fila del resumen de inventario por producto.
type InventorySummaryResponse struct {
	ProductID         string          `json:"product_id"`
	SKU               string          `json:"sku"`
	Name              string          `json:"name"`
	Unit              string          `json:"unit"`
	UnitSize          decimal.Decimal `json:"unit_size"`
	SellingPrice      decimal.Decimal `json:"selling_price"`
	CostPrice         decimal.Decimal `json:"cost_price"`
	LowStockThreshold decimal.Decimal `json:"low_stock_threshold"`
	CategoryName      string          `json:"category_name,omitempty"`
	TotalQuantity     decimal.Decimal `json:"total_quantity"`
	BatchCount        int             `json:"batch_count"`
	EarliestExpiry    *time.Time      `json:"earliest_expiry,omitempty"`
	IsLowStock        bool            `json:"is_low_stock"`
}

// ListInventoryRequest filtros del resumen de inventario.
type ListInventoryRequest struct {
	PageRequest
	Search   string `query:"search"`
	LowStock bool   `query:"low_stock"`
}

// ExpiringProductResponse lote con estado de vencimiento calculado.
type ExpiringProductResponse struct {
	BatchID         string          `json:"batch_id"`
	BatchNumber     string          `json:"batch_number"`
	ProductID       string          `json:"product_id"`
	ProductName     string          `json:"product_name"`
	SKU             string          `json:"sku"`
	Unit            string          `json:"unit"`
	Quantity        decimal.Decimal `json:"quantity"`
	ExpiresAt       time.Time       `json:"expires_at"`
	DaysUntilExpiry int             `json:"days_until_expiry"`
	ExpiryStatus    string          `json:"expiry_status"`
}

// ListExpiryRequest filtros del monitor de caducidad.
type ListExpiryRequest struct {
	PageRequest
	Status string `query:"status"` // ok | expiring_soon | expired
}
