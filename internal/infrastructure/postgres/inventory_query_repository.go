package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/grocery-ims/internal/domain/repository"
)

var _ repository.InventoryQueryRepository = (*InventoryQueryRepo)(nil)

// InventoryQueryRepo consultas agregadas de inventario (read-only).
type InventoryQueryRepo struct {
	q Querier
}

// NewInventoryQueryRepository construye el adaptador. Pasar pool o tx (Querier).
func NewInventoryQueryRepository(q Querier) *InventoryQueryRepo {
	return &InventoryQueryRepo{q: q}
}

// GetSummary devuelve una fila por producto activo con su stock agregado
// entre lotes activos, número de lotes y vencimiento más próximo.
func (r *InventoryQueryRepo) GetSummary(filter repository.InventoryFilter) ([]repository.InventorySummaryRow, int, error) {
	ctx := context.Background()

	where := ` WHERE p.is_active = TRUE`
	args := []any{}
	n := 0
	if filter.Search != "" {
		n++
		where += fmt.Sprintf(` AND (p.name ILIKE $%d OR p.sku ILIKE $%d)`, n, n)
		args = append(args, "%"+filter.Search+"%")
	}
	if filter.LowStockOnly {
		where += ` AND COALESCE(b.total_qty, 0) <= p.low_stock_threshold`
	}

	base := `
		FROM products p
		LEFT JOIN categories c ON c.id = p.category_id
		LEFT JOIN LATERAL (
			SELECT SUM(quantity) AS total_qty,
				COUNT(*) AS batch_count,
				MIN(expires_at) AS earliest_expiry
			FROM inventory_batches
			WHERE product_id = p.id AND is_active = TRUE
		) b ON TRUE` + where

	var total int
	if err := r.q.QueryRow(ctx, `SELECT COUNT(*)`+base, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count inventory summary: %w", err)
	}

	query := `
		SELECT p.id, p.sku, p.name, p.unit, p.unit_size, p.selling_price,
			p.cost_price, p.low_stock_threshold, COALESCE(c.name, ''),
			COALESCE(b.total_qty, 0), COALESCE(b.batch_count, 0),
			b.earliest_expiry,
			COALESCE(b.total_qty, 0) <= p.low_stock_threshold AS is_low_stock` +
		base + ` ORDER BY p.name ASC`
	if filter.Limit > 0 {
		query += fmt.Sprintf(` LIMIT $%d OFFSET $%d`, n+1, n+2)
		args = append(args, filter.Limit, filter.Offset)
	}

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("inventory summary: %w", err)
	}
	defer rows.Close()

	var out []repository.InventorySummaryRow
	for rows.Next() {
		var row repository.InventorySummaryRow
		err := rows.Scan(
			&row.ProductID, &row.SKU, &row.Name, &row.Unit, &row.UnitSize,
			&row.SellingPrice, &row.CostPrice, &row.LowStockThreshold,
			&row.CategoryName, &row.TotalQuantity, &row.BatchCount,
			&row.EarliestExpiry, &row.IsLowStock,
		)
		if err != nil {
			return nil, 0, fmt.Errorf("scan inventory summary: %w", err)
		}
		out = append(out, row)
	}
	return out, total, rows.Err()
}

// GetExpiringBatches devuelve lotes activos con fecha de vencimiento, los
// más próximos a vencer primero. La clasificación del estado la hace el
// caller con el reloj de la app, no la DB.
func (r *InventoryQueryRepo) GetExpiringBatches(limit, offset int) ([]repository.ExpiringBatchRow, int, error) {
	ctx := context.Background()

	where := `
		FROM inventory_batches b
		JOIN products p ON p.id = b.product_id
		WHERE b.is_active = TRUE AND b.expires_at IS NOT NULL AND b.quantity > 0`

	var total int
	if err := r.q.QueryRow(ctx, `SELECT COUNT(*)`+where).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count expiring batches: %w", err)
	}

	query := `
		SELECT b.id, b.batch_number, b.product_id, p.name, p.sku, p.unit,
			b.quantity, b.expires_at` + where + `
		ORDER BY b.expires_at ASC, b.id ASC`
	args := []any{}
	if limit > 0 {
		query += ` LIMIT $1 OFFSET $2`
		args = append(args, limit, offset)
	}

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("expiring batches: %w", err)
	}
	defer rows.Close()

	var out []repository.ExpiringBatchRow
	for rows.Next() {
		var row repository.ExpiringBatchRow
		err := rows.Scan(
			&row.BatchID, &row.BatchNumber, &row.ProductID, &row.ProductName,
			&row.SKU, &row.Unit, &row.Quantity, &row.ExpiresAt,
		)
		if err != nil {
			return nil, 0, fmt.Errorf("scan expiring batch: %w", err)
		}
		out = append(out, row)
	}
	return out, total, rows.Err()
}

// CountLowStock cuenta productos activos con total <= umbral.
func (r *InventoryQueryRepo) CountLowStock() (int, error) {
	query := `
		SELECT COUNT(*)
		FROM products p
		LEFT JOIN LATERAL (
			SELECT SUM(quantity) AS total_qty
			FROM inventory_batches
			WHERE product_id = p.id AND is_active = TRUE
		) b ON TRUE
		WHERE p.is_active = TRUE
		  AND COALESCE(b.total_qty, 0) <= p.low_stock_threshold`
	var total int
	if err := r.q.QueryRow(context.Background(), query).Scan(&total); err != nil {
		return 0, fmt.Errorf("count low stock: %w", err)
	}
	return total, nil
}
