package repository

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// PeriodMetrics ingresos y número de ventas completadas de un período.
type PeriodMetrics struct {
	Revenue    decimal.Decimal
	SalesCount int
}

// DailyRevenueRow fila de la serie diaria de ingresos. Serie dispersa:
// solo aparecen los días con actividad.
type DailyRevenueRow struct {
	SaleDate     time.Time
	TotalSales   int
	TotalRevenue decimal.Decimal
	TotalItems   decimal.Decimal
}

// TopProductRow producto rankeado por cantidad vendida en el período.
// Desempate: revenue descendente, luego nombre ascendente (determinismo).
type TopProductRow struct {
	ProductID    string
	ProductName  string
	Unit         string
	TotalQty     decimal.Decimal
	TotalRevenue decimal.Decimal
	SaleCount    int
}

// SlowMovingRow producto con stock pero sin ventas en la ventana.
type SlowMovingRow struct {
	ProductID   string
	ProductName string
	Unit        string
	TotalStock  decimal.Decimal
	LastSold    *time.Time // nil = nunca vendido
}

// LowStockRow producto cuyo stock total está en o bajo su umbral.
type LowStockRow struct {
	ProductID     string
	Name          string
	SKU           string
	TotalQuantity decimal.Decimal
	Threshold     decimal.Decimal
}

// AnalyticsRepository define las consultas de lectura para reportes.
// Las implementaciones son read-only y solo cuentan ventas con estado completed.
type AnalyticsRepository interface {
	// GetPeriodMetrics devuelve ingresos (suma de net_amount) y número de
	// ventas completadas dentro del rango, inclusive.
	GetPeriodMetrics(ctx context.Context, start, end time.Time) (PeriodMetrics, error)

	// GetDailyRevenue agrupa por día calendario dentro del rango inclusive.
	GetDailyRevenue(ctx context.Context, start, end time.Time) ([]DailyRevenueRow, error)

	// GetTopProducts rankea por cantidad vendida descendente; desempata por
	// ingresos descendente y nombre ascendente.
	GetTopProducts(ctx context.Context, start, end time.Time, limit int) ([]TopProductRow, error)

	// GetSlowMovingProducts devuelve productos activos con stock > 0 y sin
	// ventas completadas en los últimos `days` días, con su última venta.
	GetSlowMovingProducts(ctx context.Context, days int) ([]SlowMovingRow, error)

	// GetLowStockProducts devuelve productos activos con total <= umbral.
	GetLowStockProducts(ctx context.Context) ([]LowStockRow, error)
}
