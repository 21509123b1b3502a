package repository

import "github.com/jhoicas/grocery-ims/internal/domain/entity"

// CategoryRepository define el puerto de persistencia para categorías.
type CategoryRepository interface {
	Create(category *entity.Category) error
	GetByID(id string) (*entity.Category, error)
	List(limit, offset int) ([]*entity.Category, int, error)
	Update(category *entity.Category) error
	Deactivate(id string) error
}

// SupplierRepository define el puerto de persistencia para proveedores.
type SupplierRepository interface {
	Create(supplier *entity.Supplier) error
	GetByID(id string) (*entity.Supplier, error)
	List(limit, offset int) ([]*entity.Supplier, int, error)
	Update(supplier *entity.Supplier) error
	Deactivate(id string) error
}
