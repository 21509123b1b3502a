package sales

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/grocery-ims/internal/application/dto"
	"github.com/jhoicas/grocery-ims/internal/application/inventory"
	"github.com/jhoicas/grocery-ims/internal/domain"
	"github.com/jhoicas/grocery-ims/internal/domain/entity"
	"github.com/jhoicas/grocery-ims/internal/domain/repository"
)

// saleNumberAttempts reintentos ante colisión del número de venta.
const saleNumberAttempts = 3

// Config opciones del motor de ventas.
type Config struct {
	// RestockOnVoid devuelve el stock consumido al anular o reembolsar.
	// Apagado por defecto: la reversa financiera no implica reversa física.
	RestockOnVoid bool
}

// UseCase motor de ventas. Valida fuera de la transacción (solo lectura) y
// ejecuta cabecera + líneas + descuento de stock dentro de una sola tx con
// las filas de lotes bloqueadas (SELECT FOR UPDATE).
type UseCase struct {
	txRunner    TxRunner
	productRepo repository.ProductRepository
	saleRepo    repository.SaleRepository
	movRepo     repository.StockMovementRepository
	cfg         Config
	now         func() time.Time
}

// NewUseCase construye el motor de ventas.
func NewUseCase(
	txRunner TxRunner,
	productRepo repository.ProductRepository,
	saleRepo repository.SaleRepository,
	movRepo repository.StockMovementRepository,
	cfg Config,
) *UseCase {
	return &UseCase{
		txRunner:    txRunner,
		productRepo: productRepo,
		saleRepo:    saleRepo,
		movRepo:     movRepo,
		cfg:         cfg,
		now:         time.Now,
	}
}

// CreateSale crea la venta: valida las líneas, calcula totales y dentro de
// una transacción bloquea los lotes de cada producto, arma el plan FIFO (o
// el lote explícito si la línea trae batch_id), aplica los decrementos e
// inserta cabecera, líneas y movimientos. Cualquier error revierte todo.
func (uc *UseCase) CreateSale(ctx context.Context, userID string, in dto.CreateSaleRequest) (*dto.SaleResponse, error) {
	if len(in.Items) == 0 {
		return nil, domain.ErrInvalidInput
	}
	if in.Discount.IsNegative() || in.Tax.IsNegative() {
		return nil, domain.ErrInvalidInput
	}
	for _, item := range in.Items {
		if item.ProductID == "" || !item.Quantity.GreaterThan(decimal.Zero) || item.UnitPrice.IsNegative() {
			return nil, domain.ErrInvalidInput
		}
	}

	// Validación de productos fuera de la tx (solo lectura).
	for _, item := range in.Items {
		product, err := uc.productRepo.GetByID(item.ProductID)
		if err != nil {
			return nil, err
		}
		if product == nil || !product.IsActive {
			return nil, domain.ErrNotFound
		}
	}

	// Totales: subtotal = Σ qty*precio; neto = subtotal - descuento + impuesto.
	subtotal := decimal.Zero
	for _, item := range in.Items {
		subtotal = subtotal.Add(item.Quantity.Mul(item.UnitPrice))
	}
	netAmount := subtotal.Sub(in.Discount).Add(in.Tax)

	now := uc.now()
	var sale *entity.Sale

	// Reintento ante colisión de sale_number: el constraint único de la
	// tabla la detecta y se genera un sufijo nuevo.
	var err error
	for attempt := 0; attempt < saleNumberAttempts; attempt++ {
		sale = &entity.Sale{
			ID:          uuid.New().String(),
			SaleNumber:  generateSaleNumber(now),
			SoldBy:      userID,
			TotalAmount: subtotal,
			Discount:    in.Discount,
			Tax:         in.Tax,
			NetAmount:   netAmount,
			Status:      entity.SaleStatusCompleted,
			Notes:       in.Notes,
			SoldAt:      now,
			CreatedAt:   now,
			UpdatedAt:   now,
		}
		err = uc.runSaleTx(ctx, sale, in.Items, now)
		if !errors.Is(err, domain.ErrDuplicate) {
			break
		}
	}
	if err != nil {
		return nil, err
	}

	items, err := uc.saleRepo.ListItems(sale.ID)
	if err != nil {
		return nil, err
	}
	sale.Items = items
	return toSaleResponse(sale), nil
}

// runSaleTx ejecuta la parte transaccional de la venta.
func (uc *UseCase) runSaleTx(ctx context.Context, sale *entity.Sale, items []dto.CreateSaleItemRequest, now time.Time) error {
	return uc.txRunner.RunSale(ctx, func(
		saleRepo repository.SaleRepository,
		batchRepo repository.BatchRepository,
		movRepo repository.StockMovementRepository,
	) error {
		if err := saleRepo.Create(sale); err != nil {
			return err
		}

		for _, item := range items {
			// Bloquea los lotes del producto en orden estable (received_at)
			// para serializar ventas concurrentes sin deadlocks.
			batches, err := batchRepo.GetConsumableForUpdate(item.ProductID)
			if err != nil {
				return err
			}

			var plan []inventory.BatchDraw
			if item.BatchID != "" {
				plan, err = inventory.PlanFromBatch(findBatch(batches, item.BatchID), item.Quantity)
			} else {
				plan, err = inventory.PlanConsumption(item.ProductID, batches, item.Quantity)
			}
			if err != nil {
				return err
			}
			if err := inventory.ApplyConsumption(batchRepo, batches, plan); err != nil {
				return err
			}

			saleItem := &entity.SaleItem{
				ID:         uuid.New().String(),
				SaleID:     sale.ID,
				ProductID:  item.ProductID,
				BatchID:    item.BatchID,
				Quantity:   item.Quantity,
				UnitPrice:  item.UnitPrice,
				TotalPrice: item.Quantity.Mul(item.UnitPrice),
				CreatedAt:  now,
			}
			if err := saleRepo.CreateItem(saleItem); err != nil {
				return err
			}

			// Un movimiento por lote tocado: deja el plan FIFO auditable y
			// habilita el restock al anular.
			for _, draw := range plan {
				mov := &entity.StockMovement{
					ID:        uuid.New().String(),
					SaleID:    sale.ID,
					ProductID: item.ProductID,
					BatchID:   draw.BatchID,
					Quantity:  draw.Quantity,
					CreatedAt: now,
				}
				if err := movRepo.Create(mov); err != nil {
					return err
				}
			}
		}
		return nil
	})
}

func findBatch(batches []*entity.InventoryBatch, batchID string) *entity.InventoryBatch {
	for _, b := range batches {
		if b.ID == batchID {
			return b
		}
	}
	return nil
}

// generateSaleNumber genera SALE-YYYYMMDD-XXXX con sufijo aleatorio.
func generateSaleNumber(now time.Time) string {
	suffix := strings.ToUpper(uuid.New().String()[:4])
	return fmt.Sprintf("SALE-%s-%s", now.Format("20060102"), suffix)
}

func toSaleResponse(s *entity.Sale) *dto.SaleResponse {
	out := &dto.SaleResponse{
		ID:          s.ID,
		SaleNumber:  s.SaleNumber,
		SoldBy:      s.SoldBy,
		TotalAmount: s.TotalAmount,
		Discount:    s.Discount,
		Tax:         s.Tax,
		NetAmount:   s.NetAmount,
		Status:      s.Status,
		Notes:       s.Notes,
		SoldAt:      s.SoldAt,
	}
	for _, item := range s.Items {
		out.Items = append(out.Items, dto.SaleItemResponse{
			ID:          item.ID,
			ProductID:   item.ProductID,
			ProductName: item.ProductName,
			ProductSKU:  item.ProductSKU,
			Unit:        item.ProductUnit,
			BatchID:     item.BatchID,
			Quantity:    item.Quantity,
			UnitPrice:   item.UnitPrice,
			TotalPrice:  item.TotalPrice,
		})
	}
	return out
}
