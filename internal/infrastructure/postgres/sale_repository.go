package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/grocery-ims/internal/domain"
	"github.com/jhoicas/grocery-ims/internal/domain/entity"
	"github.com/jhoicas/grocery-ims/internal/domain/repository"
)

var _ repository.SaleRepository = (*SaleRepo)(nil)
var _ repository.StockMovementRepository = (*StockMovementRepo)(nil)

// SaleRepo implementación de SaleRepository sobre PostgreSQL (usable con pool o tx).
type SaleRepo struct {
	q Querier
}

// NewSaleRepository construye el adaptador de ventas. Pasar pool o tx (Querier).
func NewSaleRepository(q Querier) *SaleRepo {
	return &SaleRepo{q: q}
}

// Create persiste la cabecera de la venta. Devuelve ErrDuplicate si el
// sale_number colisiona (el caller reintenta con otro sufijo).
func (r *SaleRepo) Create(s *entity.Sale) error {
	query := `
		INSERT INTO sales (id, sale_number, sold_by, total_amount, discount, tax,
			net_amount, status, notes, sold_at, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`
	_, err := r.q.Exec(context.Background(), query,
		s.ID, s.SaleNumber, nullable(s.SoldBy), s.TotalAmount, s.Discount, s.Tax,
		s.NetAmount, s.Status, nullable(s.Notes), s.SoldAt, s.CreatedAt, s.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("create sale: %w", err)
	}
	return nil
}

// CreateItem persiste una línea de venta.
func (r *SaleRepo) CreateItem(item *entity.SaleItem) error {
	query := `
		INSERT INTO sale_items (id, sale_id, product_id, batch_id, quantity,
			unit_price, total_price, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := r.q.Exec(context.Background(), query,
		item.ID, item.SaleID, item.ProductID, nullable(item.BatchID),
		item.Quantity, item.UnitPrice, item.TotalPrice, item.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("create sale item: %w", err)
	}
	return nil
}

// GetByID obtiene la cabecera de una venta. Devuelve nil si no existe.
func (r *SaleRepo) GetByID(id string) (*entity.Sale, error) {
	query := `
		SELECT id, sale_number, sold_by, total_amount, discount, tax,
			net_amount, status, notes, sold_at, created_at, updated_at
		FROM sales WHERE id = $1`
	row := r.q.QueryRow(context.Background(), query, id)
	s, err := scanSale(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get sale: %w", err)
	}
	return s, nil
}

// List devuelve ventas (sin líneas) más recientes primero, y el total.
func (r *SaleRepo) List(filter repository.SaleFilter) ([]*entity.Sale, int, error) {
	ctx := context.Background()

	where := ` WHERE 1=1`
	args := []any{}
	n := 0
	if filter.Search != "" {
		n++
		where += fmt.Sprintf(` AND sale_number ILIKE $%d`, n)
		args = append(args, "%"+filter.Search+"%")
	}
	if filter.Status != "" {
		n++
		where += fmt.Sprintf(` AND status = $%d`, n)
		args = append(args, filter.Status)
	}
	if filter.DateFrom != nil {
		n++
		where += fmt.Sprintf(` AND sold_at >= $%d`, n)
		args = append(args, *filter.DateFrom)
	}
	if filter.DateTo != nil {
		n++
		where += fmt.Sprintf(` AND sold_at <= $%d`, n)
		args = append(args, *filter.DateTo)
	}

	var total int
	if err := r.q.QueryRow(ctx, `SELECT COUNT(*) FROM sales`+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count sales: %w", err)
	}

	query := `
		SELECT id, sale_number, sold_by, total_amount, discount, tax,
			net_amount, status, notes, sold_at, created_at, updated_at
		FROM sales` + where + ` ORDER BY sold_at DESC`
	if filter.Limit > 0 {
		query += fmt.Sprintf(` LIMIT $%d OFFSET $%d`, n+1, n+2)
		args = append(args, filter.Limit, filter.Offset)
	}

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list sales: %w", err)
	}
	defer rows.Close()

	var out []*entity.Sale
	for rows.Next() {
		s, err := scanSale(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan sale: %w", err)
		}
		out = append(out, s)
	}
	return out, total, rows.Err()
}

// ListItems devuelve las líneas de una venta con datos del producto.
func (r *SaleRepo) ListItems(saleID string) ([]*entity.SaleItem, error) {
	query := `
		SELECT i.id, i.sale_id, i.product_id, i.batch_id, i.quantity,
			i.unit_price, i.total_price, i.created_at,
			p.name, p.sku, p.unit
		FROM sale_items i
		JOIN products p ON p.id = i.product_id
		WHERE i.sale_id = $1
		ORDER BY i.created_at ASC, i.id ASC`
	rows, err := r.q.Query(context.Background(), query, saleID)
	if err != nil {
		return nil, fmt.Errorf("list sale items: %w", err)
	}
	defer rows.Close()

	var out []*entity.SaleItem
	for rows.Next() {
		var item entity.SaleItem
		var batchID *string
		err := rows.Scan(
			&item.ID, &item.SaleID, &item.ProductID, &batchID, &item.Quantity,
			&item.UnitPrice, &item.TotalPrice, &item.CreatedAt,
			&item.ProductName, &item.ProductSKU, &item.ProductUnit,
		)
		if err != nil {
			return nil, fmt.Errorf("scan sale item: %w", err)
		}
		item.BatchID = deref(batchID)
		out = append(out, &item)
	}
	return out, rows.Err()
}

// UpdateStatus cambia el estado de la venta de forma condicional: el UPDATE
// solo afecta la fila si sigue en fromStatus. Así dos transiciones terminales
// concurrentes no pueden ganar ambas; la perdedora recibe ErrConflict.
func (r *SaleRepo) UpdateStatus(saleID, fromStatus, toStatus string) error {
	tag, err := r.q.Exec(context.Background(),
		`UPDATE sales SET status = $3, updated_at = now() WHERE id = $1 AND status = $2`,
		saleID, fromStatus, toStatus)
	if err != nil {
		return fmt.Errorf("update sale status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrConflict
	}
	return nil
}

func scanSale(row pgx.Row) (*entity.Sale, error) {
	var s entity.Sale
	var soldBy, notes *string
	err := row.Scan(
		&s.ID, &s.SaleNumber, &soldBy, &s.TotalAmount, &s.Discount, &s.Tax,
		&s.NetAmount, &s.Status, &notes, &s.SoldAt, &s.CreatedAt, &s.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	s.SoldBy = deref(soldBy)
	s.Notes = deref(notes)
	return &s, nil
}

// StockMovementRepo implementación de StockMovementRepository sobre PostgreSQL.
type StockMovementRepo struct {
	q Querier
}

// NewStockMovementRepository construye el adaptador de movimientos. Pasar pool o tx (Querier).
func NewStockMovementRepository(q Querier) *StockMovementRepo {
	return &StockMovementRepo{q: q}
}

// Create persiste un movimiento de stock (una extracción sobre un lote).
func (r *StockMovementRepo) Create(m *entity.StockMovement) error {
	query := `
		INSERT INTO stock_movements (id, sale_id, product_id, batch_id, quantity, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)`
	_, err := r.q.Exec(context.Background(), query,
		m.ID, m.SaleID, m.ProductID, m.BatchID, m.Quantity, m.CreatedAt)
	if err != nil {
		return fmt.Errorf("create stock movement: %w", err)
	}
	return nil
}

// ListBySale devuelve los movimientos de una venta en orden de inserción.
func (r *StockMovementRepo) ListBySale(saleID string) ([]*entity.StockMovement, error) {
	query := `
		SELECT id, sale_id, product_id, batch_id, quantity, created_at
		FROM stock_movements
		WHERE sale_id = $1
		ORDER BY created_at ASC, id ASC`
	rows, err := r.q.Query(context.Background(), query, saleID)
	if err != nil {
		return nil, fmt.Errorf("list stock movements: %w", err)
	}
	defer rows.Close()

	var out []*entity.StockMovement
	for rows.Next() {
		var m entity.StockMovement
		if err := rows.Scan(&m.ID, &m.SaleID, &m.ProductID, &m.BatchID, &m.Quantity, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan stock movement: %w", err)
		}
		out = append(out, &m)
	}
	return out, rows.Err()
}
