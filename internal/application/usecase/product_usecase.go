// Package usecase contiene los casos de uso CRUD del catálogo y la
// administración: productos, categorías, proveedores, usuarios y auditoría.
package usecase

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/grocery-ims/internal/application/dto"
	"github.com/jhoicas/grocery-ims/internal/domain"
	"github.com/jhoicas/grocery-ims/internal/domain/entity"
	"github.com/jhoicas/grocery-ims/internal/domain/repository"
)

// ProductUseCase casos de uso CRUD para productos. El stock no se toca aquí:
// se maneja por lotes en el módulo de inventario.
type ProductUseCase struct {
	repo repository.ProductRepository
}

// NewProductUseCase construye el caso de uso.
func NewProductUseCase(repo repository.ProductRepository) *ProductUseCase {
	return &ProductUseCase{repo: repo}
}

// Create crea un producto nuevo. El SKU debe ser único; la unidad debe estar
// en el catálogo de unidades; el umbral de stock bajo por defecto es 10.
func (uc *ProductUseCase) Create(userID string, in dto.CreateProductRequest) (*dto.ProductResponse, error) {
	if in.SKU == "" || in.Name == "" {
		return nil, domain.ErrInvalidInput
	}
	if !entity.ValidUnits[in.Unit] {
		return nil, domain.ErrInvalidInput
	}
	if in.CostPrice.IsNegative() || in.SellingPrice.IsNegative() {
		return nil, domain.ErrInvalidInput
	}

	existing, err := uc.repo.GetBySKU(in.SKU)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.ErrDuplicate
	}

	threshold := entity.DefaultLowStockThreshold
	if in.LowStockThreshold != nil {
		if in.LowStockThreshold.IsNegative() {
			return nil, domain.ErrInvalidInput
		}
		threshold = *in.LowStockThreshold
	}
	unitSize := in.UnitSize
	if unitSize.IsZero() {
		unitSize = decimal.NewFromInt(1)
	}

	now := time.Now()
	product := &entity.Product{
		ID:                uuid.New().String(),
		SKU:               in.SKU,
		Barcode:           in.Barcode,
		Name:              in.Name,
		Description:       in.Description,
		CategoryID:        in.CategoryID,
		SupplierID:        in.SupplierID,
		Unit:              in.Unit,
		UnitSize:          unitSize,
		CostPrice:         in.CostPrice,
		SellingPrice:      in.SellingPrice,
		LowStockThreshold: threshold,
		ImageURL:          in.ImageURL,
		IsActive:          true,
		CreatedBy:         userID,
		CreatedAt:         now,
		UpdatedAt:         now,
	}
	if err := uc.repo.Create(product); err != nil {
		return nil, err
	}
	return toProductResponse(product), nil
}

// GetByID obtiene un producto por ID.
func (uc *ProductUseCase) GetByID(id string) (*dto.ProductResponse, error) {
	product, err := uc.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrNotFound
	}
	return toProductResponse(product), nil
}

// Update actualiza un producto. El SKU no es editable.
func (uc *ProductUseCase) Update(id string, in dto.UpdateProductRequest) (*dto.ProductResponse, error) {
	product, err := uc.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrNotFound
	}

	if in.Name != nil {
		if *in.Name == "" {
			return nil, domain.ErrInvalidInput
		}
		product.Name = *in.Name
	}
	if in.Barcode != nil {
		product.Barcode = *in.Barcode
	}
	if in.Description != nil {
		product.Description = *in.Description
	}
	if in.CategoryID != nil {
		product.CategoryID = *in.CategoryID
	}
	if in.SupplierID != nil {
		product.SupplierID = *in.SupplierID
	}
	if in.Unit != nil {
		if !entity.ValidUnits[*in.Unit] {
			return nil, domain.ErrInvalidInput
		}
		product.Unit = *in.Unit
	}
	if in.UnitSize != nil {
		product.UnitSize = *in.UnitSize
	}
	if in.CostPrice != nil {
		if in.CostPrice.IsNegative() {
			return nil, domain.ErrInvalidInput
		}
		product.CostPrice = *in.CostPrice
	}
	if in.SellingPrice != nil {
		if in.SellingPrice.IsNegative() {
			return nil, domain.ErrInvalidInput
		}
		product.SellingPrice = *in.SellingPrice
	}
	if in.LowStockThreshold != nil {
		if in.LowStockThreshold.IsNegative() {
			return nil, domain.ErrInvalidInput
		}
		product.LowStockThreshold = *in.LowStockThreshold
	}
	if in.ImageURL != nil {
		product.ImageURL = *in.ImageURL
	}
	if in.IsActive != nil {
		product.IsActive = *in.IsActive
	}
	product.UpdatedAt = time.Now()

	if err := uc.repo.Update(product); err != nil {
		return nil, err
	}
	return toProductResponse(product), nil
}

// List lista productos con búsqueda y paginación.
func (uc *ProductUseCase) List(in dto.ListProductsRequest) ([]dto.ProductResponse, dto.PageResponse, error) {
	in.DefaultPage()
	filter := repository.ProductFilter{
		Search:     in.Search,
		CategoryID: in.CategoryID,
		Limit:      in.Limit,
		Offset:     in.Offset(),
	}
	products, total, err := uc.repo.List(filter)
	if err != nil {
		return nil, dto.PageResponse{}, err
	}
	out := make([]dto.ProductResponse, 0, len(products))
	for _, p := range products {
		out = append(out, *toProductResponse(p))
	}
	return out, dto.NewPageResponse(in.Page, in.Limit, total), nil
}

// Delete desactiva el producto (soft delete). Las ventas y lotes históricos
// siguen apuntando a él.
func (uc *ProductUseCase) Delete(id string) error {
	product, err := uc.repo.GetByID(id)
	if err != nil {
		return err
	}
	if product == nil {
		return domain.ErrNotFound
	}
	return uc.repo.Deactivate(id)
}

func toProductResponse(p *entity.Product) *dto.ProductResponse {
	return &dto.ProductResponse{
		ID:                p.ID,
		SKU:               p.SKU,
		Barcode:           p.Barcode,
		Name:              p.Name,
		Description:       p.Description,
		CategoryID:        p.CategoryID,
		SupplierID:        p.SupplierID,
		Unit:              p.Unit,
		UnitSize:          p.UnitSize,
		CostPrice:         p.CostPrice,
		SellingPrice:      p.SellingPrice,
		LowStockThreshold: p.LowStockThreshold,
		ImageURL:          p.ImageURL,
		IsActive:          p.IsActive,
		CreatedAt:         p.CreatedAt,
		UpdatedAt:         p.UpdatedAt,
	}
}
