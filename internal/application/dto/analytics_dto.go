package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// AnalyticsSummaryDTO resumen del mes en curso contra el mes anterior.
// Los porcentajes de cambio son 0 cuando el mes anterior no tuvo actividad
// (nunca infinito ni NaN).
type AnalyticsSummaryDTO struct {
	TotalRevenue     decimal.Decimal `json:"total_revenue"`
	TotalSales       int             `json:"total_sales"`
	TotalProducts    int             `json:"total_products"`
	LowStockCount    int             `json:"low_stock_count"`
	ExpiringCount    int             `json:"expiring_count"`
	ExpiredCount     int             `json:"expired_count"`
	RevenueChangePct decimal.Decimal `json:"revenue_change_pct"`
	SalesChangePct   decimal.Decimal `json:"sales_change_pct"`
}

// DailyRevenueDTO punto de la serie diaria (serie dispersa: solo días con ventas).
type DailyRevenueDTO struct {
	SaleDate     string          `json:"sale_date"` // YYYY-MM-DD
	TotalSales   int             `json:"total_sales"`
	TotalRevenue decimal.Decimal `json:"total_revenue"`
	TotalItems   decimal.Decimal `json:"total_items"`
}

// TopProductDTO producto rankeado por cantidad vendida.
type TopProductDTO struct {
	ProductID    string          `json:"product_id"`
	ProductName  string          `json:"product_name"`
	Unit         string          `json:"unit"`
	TotalQty     decimal.Decimal `json:"total_qty"`
	TotalRevenue decimal.Decimal `json:"total_revenue"`
	SaleCount    int             `json:"sale_count"`
}

// SlowMovingProductDTO producto con stock y sin ventas en la ventana.
type SlowMovingProductDTO struct {
	ProductID   string          `json:"product_id"`
	ProductName string          `json:"product_name"`
	Unit        string          `json:"unit"`
	TotalStock  decimal.Decimal `json:"total_stock"`
	LastSold    *time.Time      `json:"last_sold"`
}
