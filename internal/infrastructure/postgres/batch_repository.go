package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/grocery-ims/internal/domain"
	"github.com/jhoicas/grocery-ims/internal/domain/entity"
	"github.com/jhoicas/grocery-ims/internal/domain/repository"
)

var _ repository.BatchRepository = (*BatchRepo)(nil)

const batchColumns = `id, product_id, batch_number, quantity, initial_qty, cost_price,
		manufactured_at, expires_at, received_at, received_by, notes, is_active,
		created_at, updated_at`

// BatchRepo implementación de BatchRepository sobre PostgreSQL (usable con pool o tx).
type BatchRepo struct {
	q Querier
}

// NewBatchRepository construye el adaptador de lotes. Pasar pool o tx (Querier).
func NewBatchRepository(q Querier) *BatchRepo {
	return &BatchRepo{q: q}
}

// Create persiste un lote nuevo.
func (r *BatchRepo) Create(b *entity.InventoryBatch) error {
	query := `
		INSERT INTO inventory_batches (` + batchColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`
	_, err := r.q.Exec(context.Background(), query,
		b.ID, b.ProductID, b.BatchNumber, b.Quantity, b.InitialQty, b.CostPrice,
		b.ManufacturedAt, b.ExpiresAt, b.ReceivedAt, nullable(b.ReceivedBy),
		nullable(b.Notes), b.IsActive, b.CreatedAt, b.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("create batch: %w", err)
	}
	return nil
}

// GetByID obtiene un lote por ID. Devuelve nil si no existe.
func (r *BatchRepo) GetByID(id string) (*entity.InventoryBatch, error) {
	query := `SELECT ` + batchColumns + ` FROM inventory_batches WHERE id = $1`
	row := r.q.QueryRow(context.Background(), query, id)
	b, err := scanBatch(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get batch: %w", err)
	}
	return b, nil
}

// GetForUpdate bloquea la fila del lote dentro de la transacción en curso y
// la devuelve. Devuelve nil si el lote no existe.
func (r *BatchRepo) GetForUpdate(id string) (*entity.InventoryBatch, error) {
	query := `SELECT ` + batchColumns + ` FROM inventory_batches WHERE id = $1 FOR UPDATE`
	row := r.q.QueryRow(context.Background(), query, id)
	b, err := scanBatch(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get batch for update: %w", err)
	}
	return b, nil
}

// ListByProduct devuelve los lotes activos del producto, más antiguos primero.
func (r *BatchRepo) ListByProduct(productID string) ([]*entity.InventoryBatch, error) {
	query := `SELECT ` + batchColumns + `
		FROM inventory_batches
		WHERE product_id = $1 AND is_active = TRUE
		ORDER BY received_at ASC, id ASC`
	return r.list(query, productID)
}

// ListActive devuelve todos los lotes activos.
func (r *BatchRepo) ListActive() ([]*entity.InventoryBatch, error) {
	query := `SELECT ` + batchColumns + `
		FROM inventory_batches
		WHERE is_active = TRUE
		ORDER BY received_at ASC, id ASC`
	return r.list(query)
}

// GetConsumableForUpdate bloquea (FOR UPDATE) y devuelve los lotes
// consumibles del producto en orden FIFO. El orden estable por received_at
// hace que ventas concurrentes bloqueen las mismas filas en el mismo orden,
// lo que evita deadlocks entre transacciones del mismo producto.
func (r *BatchRepo) GetConsumableForUpdate(productID string) ([]*entity.InventoryBatch, error) {
	query := `SELECT ` + batchColumns + `
		FROM inventory_batches
		WHERE product_id = $1 AND is_active = TRUE AND quantity > 0
		ORDER BY received_at ASC, id ASC
		FOR UPDATE`
	return r.list(query, productID)
}

func (r *BatchRepo) list(query string, args ...any) ([]*entity.InventoryBatch, error) {
	rows, err := r.q.Query(context.Background(), query, args...)
	if err != nil {
		return nil, fmt.Errorf("list batches: %w", err)
	}
	defer rows.Close()

	var out []*entity.InventoryBatch
	for rows.Next() {
		b, err := scanBatch(rows)
		if err != nil {
			return nil, fmt.Errorf("scan batch: %w", err)
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

// UpdateQuantity fija la cantidad restante del lote.
func (r *BatchRepo) UpdateQuantity(batchID string, quantity decimal.Decimal) error {
	tag, err := r.q.Exec(context.Background(),
		`UPDATE inventory_batches SET quantity = $2, updated_at = now() WHERE id = $1`,
		batchID, quantity)
	if err != nil {
		return fmt.Errorf("update batch quantity: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Update actualiza los campos editables del lote. Quantity e InitialQty no
// se tocan aquí: la cantidad solo la mutan las ventas.
func (r *BatchRepo) Update(b *entity.InventoryBatch) error {
	query := `
		UPDATE inventory_batches SET
			cost_price = $2, manufactured_at = $3, expires_at = $4,
			notes = $5, updated_at = $6
		WHERE id = $1`
	tag, err := r.q.Exec(context.Background(), query,
		b.ID, b.CostPrice, b.ManufacturedAt, b.ExpiresAt, nullable(b.Notes), b.UpdatedAt)
	if err != nil {
		return fmt.Errorf("update batch: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Deactivate marca el lote como inactivo; deja de participar del consumo.
func (r *BatchRepo) Deactivate(id string) error {
	tag, err := r.q.Exec(context.Background(),
		`UPDATE inventory_batches SET is_active = FALSE, updated_at = now() WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("deactivate batch: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// TotalQuantity suma las cantidades de los lotes activos del producto.
func (r *BatchRepo) TotalQuantity(productID string) (decimal.Decimal, error) {
	var total decimal.Decimal
	err := r.q.QueryRow(context.Background(),
		`SELECT COALESCE(SUM(quantity), 0)
		 FROM inventory_batches
		 WHERE product_id = $1 AND is_active = TRUE`, productID).Scan(&total)
	if err != nil {
		return decimal.Zero, fmt.Errorf("total quantity: %w", err)
	}
	return total, nil
}

func scanBatch(row pgx.Row) (*entity.InventoryBatch, error) {
	var b entity.InventoryBatch
	var receivedBy, notes *string
	err := row.Scan(
		&b.ID, &b.ProductID, &b.BatchNumber, &b.Quantity, &b.InitialQty, &b.CostPrice,
		&b.ManufacturedAt, &b.ExpiresAt, &b.ReceivedAt, &receivedBy, &notes,
		&b.IsActive, &b.CreatedAt, &b.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	b.ReceivedBy = deref(receivedBy)
	b.Notes = deref(notes)
	return &b, nil
}
