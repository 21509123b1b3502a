package repository

import "github.com/jhoicas/grocery-ims/internal/domain/entity"

// ProductFilter filtros para listados de productos.
type ProductFilter struct {
	Search     string // nombre o SKU, case-insensitive
	CategoryID string
	OnlyActive bool
	Limit      int
	Offset     int
}

// ProductRepository define el puerto de persistencia para Product (DIP).
type ProductRepository interface {
	Create(product *entity.Product) error
	GetByID(id string) (*entity.Product, error)
	GetBySKU(sku string) (*entity.Product, error)
	Update(product *entity.Product) error
	List(filter ProductFilter) ([]*entity.Product, int, error)
	// Deactivate marca is_active=false (soft delete); nunca borra la fila.
	Deactivate(id string) error
	CountActive() (int, error)
}
