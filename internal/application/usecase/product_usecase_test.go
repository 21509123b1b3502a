package usecase_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/grocery-ims/internal/application/dto"
	"github.com/jhoicas/grocery-ims/internal/application/usecase"
	"github.com/jhoicas/grocery-ims/internal/domain"
	"github.com/jhoicas/grocery-ims/internal/domain/entity"
	"github.com/jhoicas/grocery-ims/internal/domain/repository"
)

type fakeProductRepo struct {
	byID        map[string]*entity.Product
	deactivated []string
}

func newFakeProductRepo() *fakeProductRepo {
	return &fakeProductRepo{byID: make(map[string]*entity.Product)}
}

func (r *fakeProductRepo) Create(p *entity.Product) error { r.byID[p.ID] = p; return nil }
func (r *fakeProductRepo) GetByID(id string) (*entity.Product, error) {
	return r.byID[id], nil
}
func (r *fakeProductRepo) GetBySKU(sku string) (*entity.Product, error) {
	for _, p := range r.byID {
		if p.SKU == sku {
			return p, nil
		}
	}
	return nil, nil
}
func (r *fakeProductRepo) Update(p *entity.Product) error { r.byID[p.ID] = p; return nil }
func (r *fakeProductRepo) Deactivate(id string) error {
	r.deactivated = append(r.deactivated, id)
	if p, ok := r.byID[id]; ok {
		p.IsActive = false
	}
	return nil
}
func (r *fakeProductRepo) CountActive() (int, error) { return len(r.byID), nil }
func (r *fakeProductRepo) List(repository.ProductFilter) ([]*entity.Product, int, error) {
	var out []*entity.Product
	for _, p := range r.byID {
		out = append(out, p)
	}
	return out, len(out), nil
}

func validCreate() dto.CreateProductRequest {
	return dto.CreateProductRequest{
		SKU:          "SKU-001",
		Name:         "Arroz 1kg",
		Unit:         "kg",
		CostPrice:    decimal.NewFromInt(2),
		SellingPrice: decimal.NewFromInt(3),
	}
}

func TestProductCreate_UmbralPorDefecto(t *testing.T) {
	uc := usecase.NewProductUseCase(newFakeProductRepo())

	created, err := uc.Create("user-1", validCreate())
	require.NoError(t, err)
	assert.True(t, created.LowStockThreshold.Equal(decimal.NewFromInt(10)))
	assert.True(t, created.IsActive)
	assert.True(t, created.UnitSize.Equal(decimal.NewFromInt(1)), "unit_size default 1")
}

func TestProductCreate_SKUDuplicado(t *testing.T) {
	uc := usecase.NewProductUseCase(newFakeProductRepo())

	_, err := uc.Create("user-1", validCreate())
	require.NoError(t, err)

	_, err = uc.Create("user-1", validCreate())
	assert.ErrorIs(t, err, domain.ErrDuplicate)
}

func TestProductCreate_UnidadInvalida(t *testing.T) {
	uc := usecase.NewProductUseCase(newFakeProductRepo())

	in := validCreate()
	in.Unit = "toneladas"
	_, err := uc.Create("user-1", in)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestProductDelete_EsSoftDelete(t *testing.T) {
	repo := newFakeProductRepo()
	uc := usecase.NewProductUseCase(repo)

	created, err := uc.Create("user-1", validCreate())
	require.NoError(t, err)

	require.NoError(t, uc.Delete(created.ID))
	assert.Contains(t, repo.deactivated, created.ID)
	// La fila sigue existiendo, solo inactiva.
	p, _ := repo.GetByID(created.ID)
	require.NotNil(t, p)
	assert.False(t, p.IsActive)
}

func TestProductUpdate_SKUNoEditableYCampos(t *testing.T) {
	repo := newFakeProductRepo()
	uc := usecase.NewProductUseCase(repo)

	created, err := uc.Create("user-1", validCreate())
	require.NoError(t, err)

	newName := "Arroz premium 1kg"
	newPrice := decimal.NewFromInt(4)
	updated, err := uc.Update(created.ID, dto.UpdateProductRequest{
		Name:         &newName,
		SellingPrice: &newPrice,
	})
	require.NoError(t, err)
	assert.Equal(t, "Arroz premium 1kg", updated.Name)
	assert.True(t, updated.SellingPrice.Equal(newPrice))
	assert.Equal(t, "SKU-001", updated.SKU)
}

func TestProductUpdate_Inexistente(t *testing.T) {
	uc := usecase.NewProductUseCase(newFakeProductRepo())

	name := "x"
	_, err := uc.Update("no-existe", dto.UpdateProductRequest{Name: &name})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
