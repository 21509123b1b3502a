package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/grocery-ims/internal/domain/entity"
	"github.com/jhoicas/grocery-ims/internal/domain/repository"
)

var _ repository.AuditRepository = (*AuditRepo)(nil)

// AuditRepo implementación de AuditRepository sobre PostgreSQL. Append-only.
type AuditRepo struct {
	q Querier
}

// NewAuditRepository construye el adaptador de auditoría. Pasar pool o tx (Querier).
func NewAuditRepository(q Querier) *AuditRepo {
	return &AuditRepo{q: q}
}

// Create persiste una entrada de auditoría.
func (r *AuditRepo) Create(log *entity.AuditLog) error {
	query := `
		INSERT INTO audit_logs (id, user_id, action, table_name, record_id,
			old_data, new_data, ip_address, user_agent, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	_, err := r.q.Exec(context.Background(), query,
		log.ID, nullable(log.UserID), log.Action, log.TableName, nullable(log.RecordID),
		log.OldData, log.NewData, nullable(log.IPAddress), nullable(log.UserAgent),
		log.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("create audit log: %w", err)
	}
	return nil
}

// List consulta el log con filtros, más recientes primero.
func (r *AuditRepo) List(filter repository.AuditFilter) ([]*entity.AuditLog, int, error) {
	ctx := context.Background()

	where := ` WHERE 1=1`
	args := []any{}
	n := 0
	if filter.TableName != "" {
		n++
		where += fmt.Sprintf(` AND table_name = $%d`, n)
		args = append(args, filter.TableName)
	}
	if filter.UserID != "" {
		n++
		where += fmt.Sprintf(` AND user_id = $%d`, n)
		args = append(args, filter.UserID)
	}

	var total int
	if err := r.q.QueryRow(ctx, `SELECT COUNT(*) FROM audit_logs`+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count audit logs: %w", err)
	}

	query := `
		SELECT id, user_id, action, table_name, record_id, old_data, new_data,
			ip_address, user_agent, created_at
		FROM audit_logs` + where + ` ORDER BY created_at DESC`
	if filter.Limit > 0 {
		query += fmt.Sprintf(` LIMIT $%d OFFSET $%d`, n+1, n+2)
		args = append(args, filter.Limit, filter.Offset)
	}

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list audit logs: %w", err)
	}
	defer rows.Close()

	var out []*entity.AuditLog
	for rows.Next() {
		var l entity.AuditLog
		var userID, recordID, ipAddress, userAgent *string
		err := rows.Scan(
			&l.ID, &userID, &l.Action, &l.TableName, &recordID,
			&l.OldData, &l.NewData, &ipAddress, &userAgent, &l.CreatedAt,
		)
		if err != nil {
			return nil, 0, fmt.Errorf("scan audit log: %w", err)
		}
		l.UserID = deref(userID)
		l.RecordID = deref(recordID)
		l.IPAddress = deref(ipAddress)
		l.UserAgent = deref(userAgent)
		out = append(out, &l)
	}
	return out, total, rows.Err()
}
