package inventory

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/grocery-ims/internal/application/dto"
	"github.com/jhoicas/grocery-ims/internal/domain"
	"github.com/jhoicas/grocery-ims/internal/domain/entity"
	"github.com/jhoicas/grocery-ims/internal/domain/expiry"
	"github.com/jhoicas/grocery-ims/internal/domain/repository"
)

// UseCase casos de uso de inventario: resumen agregado, monitor de
// caducidad y altas/bajas de lotes.
type UseCase struct {
	productRepo repository.ProductRepository
	batchRepo   repository.BatchRepository
	queryRepo   repository.InventoryQueryRepository
	now         func() time.Time
}

// NewUseCase construye el caso de uso.
func NewUseCase(
	productRepo repository.ProductRepository,
	batchRepo repository.BatchRepository,
	queryRepo repository.InventoryQueryRepository,
) *UseCase {
	return &UseCase{
		productRepo: productRepo,
		batchRepo:   batchRepo,
		queryRepo:   queryRepo,
		now:         time.Now,
	}
}

// TotalQuantity suma las cantidades de los lotes activos del producto.
func (uc *UseCase) TotalQuantity(productID string) (decimal.Decimal, error) {
	return uc.batchRepo.TotalQuantity(productID)
}

// IsLowStock responde si el total del producto está en o bajo su umbral.
func (uc *UseCase) IsLowStock(productID string) (bool, error) {
	product, err := uc.productRepo.GetByID(productID)
	if err != nil {
		return false, err
	}
	if product == nil {
		return false, domain.ErrNotFound
	}
	total, err := uc.batchRepo.TotalQuantity(productID)
	if err != nil {
		return false, err
	}
	return total.LessThanOrEqual(product.LowStockThreshold), nil
}

// GetSummary devuelve el resumen agregado por producto con paginación.
func (uc *UseCase) GetSummary(in dto.ListInventoryRequest) ([]dto.InventorySummaryResponse, dto.PageResponse, error) {
	in.DefaultPage()
	rows, total, err := uc.queryRepo.GetSummary(repository.InventoryFilter{
		Search:       in.Search,
		LowStockOnly: in.LowStock,
		Limit:        in.Limit,
		Offset:       in.Offset(),
	})
	if err != nil {
		return nil, dto.PageResponse{}, err
	}
	out := make([]dto.InventorySummaryResponse, 0, len(rows))
	for _, r := range rows {
		out = append(out, dto.InventorySummaryResponse{
			ProductID:         r.ProductID,
			SKU:               r.SKU,
			Name:              r.Name,
			Unit:              r.Unit,
			UnitSize:          r.UnitSize,
			SellingPrice:      r.SellingPrice,
			CostPrice:         r.CostPrice,
			LowStockThreshold: r.LowStockThreshold,
			CategoryName:      r.CategoryName,
			TotalQuantity:     r.TotalQuantity,
			BatchCount:        r.BatchCount,
			EarliestExpiry:    r.EarliestExpiry,
			IsLowStock:        r.IsLowStock,
		})
	}
	return out, dto.NewPageResponse(in.Page, in.Limit, total), nil
}

// GetExpiringProducts devuelve lotes con su estado de vencimiento calculado
// por el clasificador, filtrado opcionalmente por estado.
func (uc *UseCase) GetExpiringProducts(in dto.ListExpiryRequest) ([]dto.ExpiringProductResponse, dto.PageResponse, error) {
	in.DefaultPage()
	if in.Status != "" && in.Status != expiry.StatusOK &&
		in.Status != expiry.StatusExpiringSoon && in.Status != expiry.StatusExpired {
		return nil, dto.PageResponse{}, domain.ErrInvalidInput
	}

	// El filtro por estado se aplica en memoria porque el estado lo deriva
	// el clasificador con el reloj actual, no la DB.
	rows, _, err := uc.queryRepo.GetExpiringBatches(0, 0)
	if err != nil {
		return nil, dto.PageResponse{}, err
	}
	now := uc.now()
	var all []dto.ExpiringProductResponse
	for _, r := range rows {
		expires := r.ExpiresAt
		status := expiry.Classify(&expires, now)
		if in.Status != "" && status != in.Status {
			continue
		}
		all = append(all, dto.ExpiringProductResponse{
			BatchID:         r.BatchID,
			BatchNumber:     r.BatchNumber,
			ProductID:       r.ProductID,
			ProductName:     r.ProductName,
			SKU:             r.SKU,
			Unit:            r.Unit,
			Quantity:        r.Quantity,
			ExpiresAt:       r.ExpiresAt,
			DaysUntilExpiry: expiry.DaysUntil(r.ExpiresAt, now),
			ExpiryStatus:    status,
		})
	}

	total := len(all)
	start := in.Offset()
	if start > total {
		start = total
	}
	end := start + in.Limit
	if end > total {
		end = total
	}
	return all[start:end], dto.NewPageResponse(in.Page, in.Limit, total), nil
}

// AddBatch crea un lote nuevo para el producto. InitialQty queda fijado a la
// cantidad recibida y no vuelve a cambiar.
func (uc *UseCase) AddBatch(userID string, in dto.CreateBatchRequest) (*dto.BatchResponse, error) {
	if in.ProductID == "" || !in.Quantity.GreaterThan(decimal.Zero) || in.CostPrice.IsNegative() {
		return nil, domain.ErrInvalidInput
	}
	product, err := uc.productRepo.GetByID(in.ProductID)
	if err != nil {
		return nil, err
	}
	if product == nil || !product.IsActive {
		return nil, domain.ErrNotFound
	}

	now := uc.now()
	batch := &entity.InventoryBatch{
		ID:             uuid.New().String(),
		ProductID:      in.ProductID,
		BatchNumber:    generateBatchNumber(now),
		Quantity:       in.Quantity,
		InitialQty:     in.Quantity,
		CostPrice:      in.CostPrice,
		ManufacturedAt: in.ManufacturedAt,
		ExpiresAt:      in.ExpiresAt,
		ReceivedAt:     now,
		ReceivedBy:     userID,
		Notes:          in.Notes,
		IsActive:       true,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := uc.batchRepo.Create(batch); err != nil {
		return nil, err
	}
	return toBatchResponse(batch), nil
}

// UpdateBatch edita costo, vencimiento o notas. La cantidad no se toca.
func (uc *UseCase) UpdateBatch(id string, in dto.UpdateBatchRequest) (*dto.BatchResponse, error) {
	batch, err := uc.batchRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if batch == nil {
		return nil, domain.ErrNotFound
	}
	if in.CostPrice != nil {
		if in.CostPrice.IsNegative() {
			return nil, domain.ErrInvalidInput
		}
		batch.CostPrice = *in.CostPrice
	}
	if in.ExpiresAt != nil {
		batch.ExpiresAt = in.ExpiresAt
	}
	if in.Notes != nil {
		batch.Notes = *in.Notes
	}
	batch.UpdatedAt = uc.now()
	if err := uc.batchRepo.Update(batch); err != nil {
		return nil, err
	}
	return toBatchResponse(batch), nil
}

// RemoveBatch desactiva el lote (baja manual). El registro queda.
func (uc *UseCase) RemoveBatch(id string) error {
	batch, err := uc.batchRepo.GetByID(id)
	if err != nil {
		return err
	}
	if batch == nil {
		return domain.ErrNotFound
	}
	return uc.batchRepo.Deactivate(id)
}

// ListBatches devuelve los lotes activos de un producto, FIFO.
func (uc *UseCase) ListBatches(productID string) ([]dto.BatchResponse, error) {
	batches, err := uc.batchRepo.ListByProduct(productID)
	if err != nil {
		return nil, err
	}
	out := make([]dto.BatchResponse, 0, len(batches))
	for _, b := range batches {
		out = append(out, *toBatchResponse(b))
	}
	return out, nil
}

// generateBatchNumber genera un número de lote BT-YYYYMMDD-XXXX con sufijo
// aleatorio. La unicidad la garantiza el constraint de la tabla.
func generateBatchNumber(now time.Time) string {
	suffix := strings.ToUpper(uuid.New().String()[:4])
	return fmt.Sprintf("BT-%s-%s", now.Format("20060102"), suffix)
}

func toBatchResponse(b *entity.InventoryBatch) *dto.BatchResponse {
	return &dto.BatchResponse{
		ID:          b.ID,
		ProductID:   b.ProductID,
		BatchNumber: b.BatchNumber,
		Quantity:    b.Quantity,
		InitialQty:  b.InitialQty,
		CostPrice:   b.CostPrice,
		ExpiresAt:   b.ExpiresAt,
		ReceivedAt:  b.ReceivedAt,
		Notes:       b.Notes,
		IsActive:    b.IsActive,
	}
}
