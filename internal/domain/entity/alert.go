package entity

import "time"

// Tipos de alerta generados por el escaneo de inventario.
const (
	AlertTypeLowStock     = "low_stock"
	AlertTypeExpiringSoon = "expiring_soon"
	AlertTypeExpired      = "expired"
)

// Severidades de alerta.
const (
	SeverityInfo     = "info"
	SeverityWarning  = "warning"
	SeverityCritical = "critical"
)

// SeverityForType devuelve la severidad que corresponde a cada tipo de alerta:
// low_stock y expiring_soon → warning; expired → critical.
func SeverityForType(alertType string) string {
	if alertType == AlertTypeExpired {
		return SeverityCritical
	}
	return SeverityWarning
}

// Alert es una notificación derivada del estado del inventario. Nunca se
// borra: resolverla es un cambio de estado, para continuidad de auditoría.
type Alert struct {
	ID         string
	Type       string
	Severity   string
	ProductID  string
	BatchID    string
	Message    string
	IsRead     bool
	IsResolved bool
	ResolvedBy string
	ResolvedAt *time.Time
	CreatedAt  time.Time
}
