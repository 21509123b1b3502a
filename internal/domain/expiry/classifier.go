// Package expiry clasifica lotes según su fecha de vencimiento.
// Funciones puras: no tocan reloj ni base de datos; el caller pasa `now`.
package expiry

import "time"

// Status de vencimiento de un lote.
const (
	StatusOK           = "ok"
	StatusExpiringSoon = "expiring_soon"
	StatusExpired      = "expired"
)

// WarningDays ventana de aviso: un lote que vence dentro de 7 días
// (inclusive) se marca expiring_soon.
const WarningDays = 7

// DaysUntil devuelve los días calendario hasta el vencimiento, con signo
// (negativo = ya venció). Usa ceil sobre la diferencia, de modo que un lote
// que vence hoy a cualquier hora cuenta como 0 días.
func DaysUntil(expiresAt, now time.Time) int {
	diff := expiresAt.Sub(now)
	days := int(diff / (24 * time.Hour))
	if diff%(24*time.Hour) > 0 {
		days++
	}
	return days
}

// Classify deriva el estado de vencimiento:
//   - sin fecha            → ok
//   - días restantes < 0   → expired
//   - días restantes <= 7  → expiring_soon (0 y 7 incluidos)
//   - si no               → ok
func Classify(expiresAt *time.Time, now time.Time) string {
	if expiresAt == nil {
		return StatusOK
	}
	days := DaysUntil(*expiresAt, now)
	switch {
	case days < 0:
		return StatusExpired
	case days <= WarningDays:
		return StatusExpiringSoon
	default:
		return StatusOK
	}
}
