package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateSaleItemRequest línea de una venta. BatchID opcional: si viene, el
// descuento de stock se hace contra ese lote en vez del orden FIFO.
type CreateSaleItemRequest struct {
	ProductID string          `json:"product_id"`
	BatchID   string          `json:"batch_id,omitempty"`
	Quantity  decimal.Decimal `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
}

// CreateSaleRequest petición de creación de venta.
type CreateSaleRequest struct {
	Items    []CreateSaleItemRequest `json:"items"`
	Discount decimal.Decimal         `json:"discount"`
	Tax      decimal.Decimal         `json:"tax"`
	Notes    string                  `json:"notes,omitempty"`
}

// SaleItemResponse línea de venta en respuestas.
type SaleItemResponse struct {
	ID          string          `json:"id"`
	ProductID   string          `json:"product_id"`
	ProductName string          `json:"product_name,omitempty"`
	ProductSKU  string          `json:"product_sku,omitempty"`
	Unit        string          `json:"unit,omitempty"`
	BatchID     string          `json:"batch_id,omitempty"`
	Quantity    decimal.Decimal `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	TotalPrice  decimal.Decimal `json:"total_price"`
}

// SaleResponse venta con líneas anidadas.
type SaleResponse struct {
	ID          string             `json:"id"`
	SaleNumber  string             `json:"sale_number"`
	SoldBy      string             `json:"sold_by,omitempty"`
	TotalAmount decimal.Decimal    `json:"total_amount"`
	Discount    decimal.Decimal    `json:"discount"`
	Tax         decimal.Decimal    `json:"tax"`
	NetAmount   decimal.Decimal    `json:"net_amount"`
	Status      string             `json:"status"`
	Notes       string             `json:"notes,omitempty"`
	SoldAt      time.Time          `json:"sold_at"`
	Items       []SaleItemResponse `json:"items,omitempty"`
}

// ListSalesRequest filtros del listado de ventas.
type ListSalesRequest struct {
	PageRequest
	Search   string `query:"search"`
	Status   string `query:"status"`
	DateFrom string `query:"date_from"` // YYYY-MM-DD
	DateTo   string `query:"date_to"`
}
