package sales

import (
	"context"
	"time"

	"github.com/jhoicas/grocery-ims/internal/application/dto"
	"github.com/jhoicas/grocery-ims/internal/domain"
	"github.com/jhoicas/grocery-ims/internal/domain/entity"
	"github.com/jhoicas/grocery-ims/internal/domain/repository"
)

// Void anula una venta completada. El stock consumido NO se devuelve salvo
// que RestockOnVoid esté habilitado (la anulación es financiera, no física).
func (uc *UseCase) Void(ctx context.Context, saleID, userID string) (*dto.SaleResponse, error) {
	return uc.transition(ctx, saleID, entity.SaleStatusVoided)
}

// Refund marca una venta completada como reembolsada. Misma política de
// restock que Void.
func (uc *UseCase) Refund(ctx context.Context, saleID string) (*dto.SaleResponse, error) {
	return uc.transition(ctx, saleID, entity.SaleStatusRefunded)
}

// transition aplica la máquina de estados: completed → voided|refunded,
// sin salida posterior. El cambio de estado y el restock opcional van en la
// misma transacción; el UPDATE condicional por estado previo garantiza que
// de dos transiciones concurrentes solo una gane aunque ambas hayan leído
// la venta todavía como completed.
func (uc *UseCase) transition(ctx context.Context, saleID, status string) (*dto.SaleResponse, error) {
	sale, err := uc.saleRepo.GetByID(saleID)
	if err != nil {
		return nil, err
	}
	if sale == nil {
		return nil, domain.ErrNotFound
	}
	if !sale.CanTransitionTo(status) {
		return nil, domain.ErrConflict
	}

	err = uc.txRunner.RunSale(ctx, func(
		saleRepo repository.SaleRepository,
		batchRepo repository.BatchRepository,
		movRepo repository.StockMovementRepository,
	) error {
		if err := saleRepo.UpdateStatus(saleID, sale.Status, status); err != nil {
			return err
		}
		if !uc.cfg.RestockOnVoid {
			return nil
		}
		return restock(saleID, batchRepo, movRepo)
	})
	if err != nil {
		return nil, err
	}

	sale.Status = status
	sale.Items, err = uc.saleRepo.ListItems(saleID)
	if err != nil {
		return nil, err
	}
	return toSaleResponse(sale), nil
}

// restock devuelve a cada lote lo que la venta le extrajo, sin superar
// initial_qty (el lote pudo haber sido editado entre medio). Lee cada lote
// con bloqueo de fila para que una venta concurrente sobre el mismo lote no
// pise la cantidad restaurada.
func restock(saleID string, batchRepo repository.BatchRepository, movRepo repository.StockMovementRepository) error {
	movs, err := movRepo.ListBySale(saleID)
	if err != nil {
		return err
	}
	for _, mov := range movs {
		batch, err := batchRepo.GetForUpdate(mov.BatchID)
		if err != nil {
			return err
		}
		if batch == nil {
			continue
		}
		restored := batch.Quantity.Add(mov.Quantity)
		if restored.GreaterThan(batch.InitialQty) {
			restored = batch.InitialQty
		}
		if err := batchRepo.UpdateQuantity(batch.ID, restored); err != nil {
			return err
		}
	}
	return nil
}

// GetByID devuelve la venta con sus líneas.
func (uc *UseCase) GetByID(saleID string) (*dto.SaleResponse, error) {
	sale, err := uc.saleRepo.GetByID(saleID)
	if err != nil {
		return nil, err
	}
	if sale == nil {
		return nil, domain.ErrNotFound
	}
	sale.Items, err = uc.saleRepo.ListItems(saleID)
	if err != nil {
		return nil, err
	}
	return toSaleResponse(sale), nil
}

// List devuelve ventas filtradas, más recientes primero.
func (uc *UseCase) List(in dto.ListSalesRequest) ([]dto.SaleResponse, dto.PageResponse, error) {
	in.DefaultPage()
	filter := repository.SaleFilter{
		Search: in.Search,
		Status: in.Status,
		Limit:  in.Limit,
		Offset: in.Offset(),
	}
	if in.DateFrom != "" {
		from, err := time.Parse("2006-01-02", in.DateFrom)
		if err != nil {
			return nil, dto.PageResponse{}, domain.ErrInvalidInput
		}
		filter.DateFrom = &from
	}
	if in.DateTo != "" {
		to, err := time.Parse("2006-01-02", in.DateTo)
		if err != nil {
			return nil, dto.PageResponse{}, domain.ErrInvalidInput
		}
		// Inclusivo hasta el final del día.
		end := to.Add(24*time.Hour - time.Nanosecond)
		filter.DateTo = &end
	}

	sales, total, err := uc.saleRepo.List(filter)
	if err != nil {
		return nil, dto.PageResponse{}, err
	}
	out := make([]dto.SaleResponse, 0, len(sales))
	for _, s := range sales {
		out = append(out, *toSaleResponse(s))
	}
	return out, dto.NewPageResponse(in.Page, in.Limit, total), nil
}
