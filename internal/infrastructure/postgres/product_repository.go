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

var _ repository.ProductRepository = (*ProductRepo)(nil)

const productColumns = `id, sku, barcode, name, description, category_id, supplier_id,
		unit, unit_size, cost_price, selling_price, low_stock_threshold,
		image_url, is_active, created_by, created_at, updated_at`

// ProductRepo implementación de ProductRepository sobre PostgreSQL (usable con pool o tx).
type ProductRepo struct {
	q Querier
}

// NewProductRepository construye el adaptador de persistencia para productos. Pasar pool o tx (Querier).
func NewProductRepository(q Querier) *ProductRepo {
	return &ProductRepo{q: q}
}

// Create persiste un producto nuevo.
func (r *ProductRepo) Create(p *entity.Product) error {
	query := `
		INSERT INTO products (` + productColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)`
	_, err := r.q.Exec(context.Background(), query,
		p.ID, p.SKU, nullable(p.Barcode), p.Name, nullable(p.Description),
		nullable(p.CategoryID), nullable(p.SupplierID), p.Unit, p.UnitSize,
		p.CostPrice, p.SellingPrice, p.LowStockThreshold,
		nullable(p.ImageURL), p.IsActive, nullable(p.CreatedBy), p.CreatedAt, p.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("create product: %w", err)
	}
	return nil
}

// GetByID obtiene un producto por ID. Devuelve nil si no existe.
func (r *ProductRepo) GetByID(id string) (*entity.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE id = $1`
	return r.scanOne(query, id)
}

// GetBySKU obtiene un producto por SKU. Devuelve nil si no existe.
func (r *ProductRepo) GetBySKU(sku string) (*entity.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE sku = $1`
	return r.scanOne(query, sku)
}

func (r *ProductRepo) scanOne(query string, arg any) (*entity.Product, error) {
	row := r.q.QueryRow(context.Background(), query, arg)
	p, err := scanProduct(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get product: %w", err)
	}
	return p, nil
}

// Update actualiza los campos editables del producto.
func (r *ProductRepo) Update(p *entity.Product) error {
	query := `
		UPDATE products SET
			barcode = $2, name = $3, description = $4, category_id = $5,
			supplier_id = $6, unit = $7, unit_size = $8, cost_price = $9,
			selling_price = $10, low_stock_threshold = $11, image_url = $12,
			is_active = $13, updated_at = $14
		WHERE id = $1`
	tag, err := r.q.Exec(context.Background(), query,
		p.ID, nullable(p.Barcode), p.Name, nullable(p.Description),
		nullable(p.CategoryID), nullable(p.SupplierID), p.Unit, p.UnitSize,
		p.CostPrice, p.SellingPrice, p.LowStockThreshold, nullable(p.ImageURL),
		p.IsActive, p.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update product: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// List lista productos con búsqueda sobre nombre/SKU y paginación.
func (r *ProductRepo) List(filter repository.ProductFilter) ([]*entity.Product, int, error) {
	ctx := context.Background()

	where := ` WHERE 1=1`
	args := []any{}
	n := 0
	if filter.OnlyActive {
		where += ` AND is_active = TRUE`
	}
	if filter.Search != "" {
		n++
		where += fmt.Sprintf(` AND (name ILIKE $%d OR sku ILIKE $%d)`, n, n)
		args = append(args, "%"+filter.Search+"%")
	}
	if filter.CategoryID != "" {
		n++
		where += fmt.Sprintf(` AND category_id = $%d`, n)
		args = append(args, filter.CategoryID)
	}

	var total int
	if err := r.q.QueryRow(ctx, `SELECT COUNT(*) FROM products`+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count products: %w", err)
	}

	query := `SELECT ` + productColumns + ` FROM products` + where + ` ORDER BY name ASC`
	if filter.Limit > 0 {
		query += fmt.Sprintf(` LIMIT $%d OFFSET $%d`, n+1, n+2)
		args = append(args, filter.Limit, filter.Offset)
	}

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list products: %w", err)
	}
	defer rows.Close()

	var out []*entity.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan product: %w", err)
		}
		out = append(out, p)
	}
	return out, total, rows.Err()
}

// Deactivate marca el producto como inactivo (soft delete).
func (r *ProductRepo) Deactivate(id string) error {
	tag, err := r.q.Exec(context.Background(),
		`UPDATE products SET is_active = FALSE, updated_at = now() WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("deactivate product: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// CountActive cuenta productos activos.
func (r *ProductRepo) CountActive() (int, error) {
	var total int
	err := r.q.QueryRow(context.Background(),
		`SELECT COUNT(*) FROM products WHERE is_active = TRUE`).Scan(&total)
	if err != nil {
		return 0, fmt.Errorf("count active products: %w", err)
	}
	return total, nil
}

func scanProduct(row pgx.Row) (*entity.Product, error) {
	var p entity.Product
	var barcode, description, categoryID, supplierID, imageURL, createdBy *string
	err := row.Scan(
		&p.ID, &p.SKU, &barcode, &p.Name, &description, &categoryID, &supplierID,
		&p.Unit, &p.UnitSize, &p.CostPrice, &p.SellingPrice, &p.LowStockThreshold,
		&imageURL, &p.IsActive, &createdBy, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	p.Barcode = deref(barcode)
	p.Description = deref(description)
	p.CategoryID = deref(categoryID)
	p.SupplierID = deref(supplierID)
	p.ImageURL = deref(imageURL)
	p.CreatedBy = deref(createdBy)
	return &p, nil
}

// nullable convierte "" a NULL para columnas opcionales.
func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
