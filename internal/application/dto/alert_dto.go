package dto

import "time"

// AlertResponse alerta en respuestas.
type AlertResponse struct {
	ID         string     `json:"id"`
	Type       string     `json:"type"`
	Severity   string     `json:"severity"`
	ProductID  string     `json:"product_id,omitempty"`
	BatchID    string     `json:"batch_id,omitempty"`
	Message    string     `json:"message"`
	IsRead     bool       `json:"is_read"`
	IsResolved bool       `json:"is_resolved"`
	ResolvedBy string     `json:"resolved_by,omitempty"`
	ResolvedAt *time.Time `json:"resolved_at,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
}

// ListAlertsRequest filtros del listado de alertas.
type ListAlertsRequest struct {
	PageRequest
	Type       string `query:"type"`
	Severity   string `query:"severity"`
	IsRead     *bool  `query:"is_read"`
	IsResolved *bool  `query:"is_resolved"`
}

// ScanResponse resultado de un escaneo de alertas.
type ScanResponse struct {
	Generated int `json:"generated"`
}
