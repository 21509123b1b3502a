package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateProductRequest alta de producto en el catálogo.
type CreateProductRequest struct {
	SKU               string           `json:"sku"`
	Barcode           string           `json:"barcode,omitempty"`
	Name              string           `json:"name"`
	Description       string           `json:"description,omitempty"`
	CategoryID        string           `json:"category_id,omitempty"`
	SupplierID        string           `json:"supplier_id,omitempty"`
	Unit              string           `json:"unit"`
	UnitSize          decimal.Decimal  `json:"unit_size"`
	CostPrice         decimal.Decimal  `json:"cost_price"`
	SellingPrice      decimal.Decimal  `json:"selling_price"`
	LowStockThreshold *decimal.Decimal `json:"low_stock_threshold,omitempty"`
	ImageURL          string           `json:"image_url,omitempty"`
}

// UpdateProductRequest campos editables de un producto (punteros = opcionales).
type UpdateProductRequest struct {
	Barcode           *string          `json:"barcode,omitempty"`
	Name              *string          `json:"name,omitempty"`
	Description       *string          `json:"description,omitempty"`
	CategoryID        *string          `json:"category_id,omitempty"`
	SupplierID        *string          `json:"supplier_id,omitempty"`
	Unit              *string          `json:"unit,omitempty"`
	UnitSize          *decimal.Decimal `json:"unit_size,omitempty"`
	CostPrice         *decimal.Decimal `json:"cost_price,omitempty"`
	SellingPrice      *decimal.Decimal `json:"selling_price,omitempty"`
	LowStockThreshold *decimal.Decimal `json:"low_stock_threshold,omitempty"`
	ImageURL          *string          `json:"image_url,omitempty"`
	IsActive          *bool            `json:"is_active,omitempty"`
}

// ProductResponse producto en respuestas.
type ProductResponse struct {
	ID                string          `json:"id"`
	SKU               string          `json:"sku"`
	Barcode           string          `json:"barcode,omitempty"`
	Name              string          `json:"name"`
	Description       string          `json:"description,omitempty"`
	CategoryID        string          `json:"category_id,omitempty"`
	SupplierID        string          `json:"supplier_id,omitempty"`
	Unit              string          `json:"unit"`
	UnitSize          decimal.Decimal `json:"unit_size"`
	CostPrice         decimal.Decimal `json:"cost_price"`
	SellingPrice      decimal.Decimal `json:"selling_price"`
	LowStockThreshold decimal.Decimal `json:"low_stock_threshold"`
	ImageURL          string          `json:"image_url,omitempty"`
	IsActive          bool            `json:"is_active"`
	CreatedAt         time.Time       `json:"created_at"`
	UpdatedAt         time.Time       `json:"updated_at"`
}

// ListProductsRequest filtros del listado de productos.
type ListProductsRequest struct {
	PageRequest
	Search     string `query:"search"`
	CategoryID string `query:"category_id"`
}
