package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/grocery-ims/internal/domain/repository"
)

var _ repository.AnalyticsRepository = (*AnalyticsRepo)(nil)

// AnalyticsRepo consultas de lectura para reportes. Solo ventas con estado
// completed entran en los agregados.
type AnalyticsRepo struct {
	q Querier
}

// NewAnalyticsRepository construye el adaptador de reportes. Pasar pool o tx (Querier).
func NewAnalyticsRepository(q Querier) *AnalyticsRepo {
	return &AnalyticsRepo{q: q}
}

// GetPeriodMetrics devuelve ingresos (suma de net_amount) y número de ventas
// completadas en el rango, extremos inclusive.
func (r *AnalyticsRepo) GetPeriodMetrics(ctx context.Context, start, end time.Time) (repository.PeriodMetrics, error) {
	query := `
		SELECT COALESCE(SUM(net_amount), 0), COUNT(*)
		FROM sales
		WHERE status = 'completed' AND sold_at >= $1 AND sold_at <= $2`
	var m repository.PeriodMetrics
	err := r.q.QueryRow(ctx, query, start, end).Scan(&m.Revenue, &m.SalesCount)
	if err != nil {
		return repository.PeriodMetrics{}, fmt.Errorf("period metrics: %w", err)
	}
	return m, nil
}

// GetDailyRevenue agrupa por día calendario. Serie dispersa: los días sin
// ventas no producen fila.
func (r *AnalyticsRepo) GetDailyRevenue(ctx context.Context, start, end time.Time) ([]repository.DailyRevenueRow, error) {
	query := `
		SELECT date_trunc('day', s.sold_at) AS sale_date,
			COUNT(*) AS total_sales,
			COALESCE(SUM(s.net_amount), 0) AS total_revenue,
			COALESCE(SUM(it.qty), 0) AS total_items
		FROM sales s
		LEFT JOIN LATERAL (
			SELECT SUM(quantity) AS qty FROM sale_items WHERE sale_id = s.id
		) it ON TRUE
		WHERE s.status = 'completed' AND s.sold_at >= $1 AND s.sold_at <= $2
		GROUP BY 1
		ORDER BY 1 ASC`
	rows, err := r.q.Query(ctx, query, start, end)
	if err != nil {
		return nil, fmt.Errorf("daily revenue: %w", err)
	}
	defer rows.Close()

	var out []repository.DailyRevenueRow
	for rows.Next() {
		var row repository.DailyRevenueRow
		if err := rows.Scan(&row.SaleDate, &row.TotalSales, &row.TotalRevenue, &row.TotalItems); err != nil {
			return nil, fmt.Errorf("scan daily revenue: %w", err)
		}
		out = append(out, row)
	}
	return out, rows.Err()
}

// GetTopProducts rankea por cantidad vendida descendente; desempata por
// ingresos descendente y luego nombre ascendente para que el orden sea
// determinista.
func (r *AnalyticsRepo) GetTopProducts(ctx context.Context, start, end time.Time, limit int) ([]repository.TopProductRow, error) {
	query := `
		SELECT p.id, p.name, p.unit,
			COALESCE(SUM(i.quantity), 0) AS total_qty,
			COALESCE(SUM(i.total_price), 0) AS total_revenue,
			COUNT(DISTINCT s.id) AS sale_count
		FROM sale_items i
		JOIN sales s ON s.id = i.sale_id
		JOIN products p ON p.id = i.product_id
		WHERE s.status = 'completed' AND s.sold_at >= $1 AND s.sold_at <= $2
		GROUP BY p.id, p.name, p.unit
		ORDER BY total_qty DESC, total_revenue DESC, p.name ASC
		LIMIT $3`
	rows, err := r.q.Query(ctx, query, start, end, limit)
	if err != nil {
		return nil, fmt.Errorf("top products: %w", err)
	}
	defer rows.Close()

	var out []repository.TopProductRow
	for rows.Next() {
		var row repository.TopProductRow
		if err := rows.Scan(&row.ProductID, &row.ProductName, &row.Unit,
			&row.TotalQty, &row.TotalRevenue, &row.SaleCount); err != nil {
			return nil, fmt.Errorf("scan top product: %w", err)
		}
		out = append(out, row)
	}
	return out, rows.Err()
}

// GetSlowMovingProducts devuelve productos activos con stock > 0 y sin
// ventas completadas en los últimos `days` días. LastSold NULL significa
// que el producto nunca se vendió.
func (r *AnalyticsRepo) GetSlowMovingProducts(ctx context.Context, days int) ([]repository.SlowMovingRow, error) {
	query := `
		SELECT p.id, p.name, p.unit,
			COALESCE(b.total_stock, 0),
			ls.last_sold
		FROM products p
		JOIN LATERAL (
			SELECT SUM(quantity) AS total_stock
			FROM inventory_batches
			WHERE product_id = p.id AND is_active = TRUE
		) b ON TRUE
		LEFT JOIN LATERAL (
			SELECT MAX(s.sold_at) AS last_sold
			FROM sale_items i
			JOIN sales s ON s.id = i.sale_id
			WHERE i.product_id = p.id AND s.status = 'completed'
		) ls ON TRUE
		WHERE p.is_active = TRUE
		  AND COALESCE(b.total_stock, 0) > 0
		  AND (ls.last_sold IS NULL OR ls.last_sold < now() - make_interval(days => $1))
		ORDER BY ls.last_sold ASC NULLS FIRST, p.name ASC`
	rows, err := r.q.Query(ctx, query, days)
	if err != nil {
		return nil, fmt.Errorf("slow moving products: %w", err)
	}
	defer rows.Close()

	var out []repository.SlowMovingRow
	for rows.Next() {
		var row repository.SlowMovingRow
		if err := rows.Scan(&row.ProductID, &row.ProductName, &row.Unit,
			&row.TotalStock, &row.LastSold); err != nil {
			return nil, fmt.Errorf("scan slow moving product: %w", err)
		}
		out = append(out, row)
	}
	return out, rows.Err()
}

// GetLowStockProducts devuelve productos activos con total <= umbral.
func (r *AnalyticsRepo) GetLowStockProducts(ctx context.Context) ([]repository.LowStockRow, error) {
	query := `
		SELECT p.id, p.name, p.sku,
			COALESCE(b.total_qty, 0), p.low_stock_threshold
		FROM products p
		LEFT JOIN LATERAL (
			SELECT SUM(quantity) AS total_qty
			FROM inventory_batches
			WHERE product_id = p.id AND is_active = TRUE
		) b ON TRUE
		WHERE p.is_active = TRUE
		  AND COALESCE(b.total_qty, 0) <= p.low_stock_threshold
		ORDER BY COALESCE(b.total_qty, 0) ASC, p.name ASC`
	rows, err := r.q.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("low stock products: %w", err)
	}
	defer rows.Close()

	var out []repository.LowStockRow
	for rows.Next() {
		var row repository.LowStockRow
		if err := rows.Scan(&row.ProductID, &row.Name, &row.SKU,
			&row.TotalQuantity, &row.Threshold); err != nil {
			return nil, fmt.Errorf("scan low stock product: %w", err)
		}
		out = append(out, row)
	}
	return out, rows.Err()
}
