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

var _ repository.AlertRepository = (*AlertRepo)(nil)

const alertColumns = `id, type, severity, product_id, batch_id, message,
		is_read, is_resolved, resolved_by, resolved_at, created_at`

// AlertRepo implementación de AlertRepository sobre PostgreSQL (usable con pool o tx).
type AlertRepo struct {
	q Querier
}

// NewAlertRepository construye el adaptador de alertas. Pasar pool o tx (Querier).
func NewAlertRepository(q Querier) *AlertRepo {
	return &AlertRepo{q: q}
}

// Create persiste una alerta.
func (r *AlertRepo) Create(a *entity.Alert) error {
	query := `
		INSERT INTO alerts (` + alertColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`
	_, err := r.q.Exec(context.Background(), query,
		a.ID, a.Type, a.Severity, nullable(a.ProductID), nullable(a.BatchID),
		a.Message, a.IsRead, a.IsResolved, nullable(a.ResolvedBy), a.ResolvedAt, a.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("create alert: %w", err)
	}
	return nil
}

// GetByID obtiene una alerta por ID. Devuelve nil si no existe.
func (r *AlertRepo) GetByID(id string) (*entity.Alert, error) {
	query := `SELECT ` + alertColumns + ` FROM alerts WHERE id = $1`
	row := r.q.QueryRow(context.Background(), query, id)
	a, err := scanAlert(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get alert: %w", err)
	}
	return a, nil
}

// List devuelve alertas filtradas, más recientes primero, y el total.
func (r *AlertRepo) List(filter repository.AlertFilter) ([]*entity.Alert, int, error) {
	ctx := context.Background()

	where := ` WHERE 1=1`
	args := []any{}
	n := 0
	if filter.Type != "" {
		n++
		where += fmt.Sprintf(` AND type = $%d`, n)
		args = append(args, filter.Type)
	}
	if filter.Severity != "" {
		n++
		where += fmt.Sprintf(` AND severity = $%d`, n)
		args = append(args, filter.Severity)
	}
	if filter.IsRead != nil {
		n++
		where += fmt.Sprintf(` AND is_read = $%d`, n)
		args = append(args, *filter.IsRead)
	}
	if filter.IsResolved != nil {
		n++
		where += fmt.Sprintf(` AND is_resolved = $%d`, n)
		args = append(args, *filter.IsResolved)
	}

	var total int
	if err := r.q.QueryRow(ctx, `SELECT COUNT(*) FROM alerts`+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count alerts: %w", err)
	}

	query := `SELECT ` + alertColumns + ` FROM alerts` + where + ` ORDER BY created_at DESC`
	if filter.Limit > 0 {
		query += fmt.Sprintf(` LIMIT $%d OFFSET $%d`, n+1, n+2)
		args = append(args, filter.Limit, filter.Offset)
	}

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list alerts: %w", err)
	}
	defer rows.Close()

	var out []*entity.Alert
	for rows.Next() {
		a, err := scanAlert(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan alert: %w", err)
		}
		out = append(out, a)
	}
	return out, total, rows.Err()
}

// HasOpen responde si existe una alerta sin resolver del tipo dado sobre el
// mismo producto/lote. batch_id NULL y "" se tratan igual.
func (r *AlertRepo) HasOpen(alertType, productID, batchID string) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1 FROM alerts
			WHERE type = $1
			  AND COALESCE(product_id, '') = $2
			  AND COALESCE(batch_id, '') = $3
			  AND is_resolved = FALSE
		)`
	var exists bool
	err := r.q.QueryRow(context.Background(), query, alertType, productID, batchID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("has open alert: %w", err)
	}
	return exists, nil
}

// MarkRead marca una alerta como leída.
func (r *AlertRepo) MarkRead(id string) error {
	tag, err := r.q.Exec(context.Background(),
		`UPDATE alerts SET is_read = TRUE WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("mark alert read: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// MarkAllRead marca todas las alertas como leídas.
func (r *AlertRepo) MarkAllRead() error {
	_, err := r.q.Exec(context.Background(),
		`UPDATE alerts SET is_read = TRUE WHERE is_read = FALSE`)
	if err != nil {
		return fmt.Errorf("mark all alerts read: %w", err)
	}
	return nil
}

// Update persiste el estado completo de la alerta (resolución incluida).
func (r *AlertRepo) Update(a *entity.Alert) error {
	query := `
		UPDATE alerts SET
			is_read = $2, is_resolved = $3, resolved_by = $4, resolved_at = $5
		WHERE id = $1`
	tag, err := r.q.Exec(context.Background(), query,
		a.ID, a.IsRead, a.IsResolved, nullable(a.ResolvedBy), a.ResolvedAt)
	if err != nil {
		return fmt.Errorf("update alert: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// UnreadCount cuenta alertas sin leer.
func (r *AlertRepo) UnreadCount() (int, error) {
	var total int
	err := r.q.QueryRow(context.Background(),
		`SELECT COUNT(*) FROM alerts WHERE is_read = FALSE`).Scan(&total)
	if err != nil {
		return 0, fmt.Errorf("unread count: %w", err)
	}
	return total, nil
}

// CountOpenByType cuenta alertas sin resolver de un tipo.
func (r *AlertRepo) CountOpenByType(alertType string) (int, error) {
	var total int
	err := r.q.QueryRow(context.Background(),
		`SELECT COUNT(*) FROM alerts WHERE type = $1 AND is_resolved = FALSE`,
		alertType).Scan(&total)
	if err != nil {
		return 0, fmt.Errorf("count open alerts: %w", err)
	}
	return total, nil
}

func scanAlert(row pgx.Row) (*entity.Alert, error) {
	var a entity.Alert
	var productID, batchID, resolvedBy *string
	err := row.Scan(
		&a.ID, &a.Type, &a.Severity, &productID, &batchID, &a.Message,
		&a.IsRead, &a.IsResolved, &resolvedBy, &a.ResolvedAt, &a.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	a.ProductID = deref(productID)
	a.BatchID = deref(batchID)
	a.ResolvedBy = deref(resolvedBy)
	return &a, nil
}
