package entity

import (
	"encoding/json"
	"time"
)

// AuditLog registra una mutación para trazabilidad. La escritura es
// fire-and-forget: un fallo de auditoría nunca interrumpe la operación.
type AuditLog struct {
	ID        string
	UserID    string
	Action    string // create, update, delete, void, refund, resolve...
	TableName string
	RecordID  string
	OldData   json.RawMessage
	NewData   json.RawMessage
	IPAddress string
	UserAgent string
	CreatedAt time.Time
}
