package entity

import "time"

// Category agrupa productos del catálogo.
type Category struct {
	ID          string
	Name        string
	Description string
	Color       string // hex para la UI
	IsActive    bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
