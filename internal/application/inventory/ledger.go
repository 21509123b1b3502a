// Package inventory contiene el libro de stock: agregación por producto,
// plan de consumo FIFO y los casos de uso de lotes e inventario.
package inventory

import (
	"github.com/shopspring/decimal"

	"github.com/jhoicas/grocery-ims/internal/domain"
	"github.com/jhoicas/grocery-ims/internal/domain/entity"
	"github.com/jhoicas/grocery-ims/internal/domain/repository"
)

// BatchDraw una extracción planificada: cuánto sale de qué lote.
type BatchDraw struct {
	BatchID  string
	Quantity decimal.Decimal
}

// PlanConsumption recorre los lotes consumibles en orden FIFO (el caller los
// pasa ya ordenados por received_at ascendente) y arma el plan de extracción.
// Función pura: no muta los lotes ni toca persistencia.
//
// Los lotes vencidos NO se excluyen: si es lo único que queda, se consumen
// igual, sin marca especial.
//
// Si el total disponible no alcanza devuelve InsufficientStockError sin haber
// planificado nada (todo-o-nada).
func PlanConsumption(productID string, batches []*entity.InventoryBatch, requested decimal.Decimal) ([]BatchDraw, error) {
	if !requested.GreaterThan(decimal.Zero) {
		return nil, domain.ErrInvalidInput
	}

	available := decimal.Zero
	for _, b := range batches {
		if b.Consumable() {
			available = available.Add(b.Quantity)
		}
	}
	if available.LessThan(requested) {
		return nil, &domain.InsufficientStockError{
			ProductID: productID,
			Requested: requested,
			Available: available,
		}
	}

	var plan []BatchDraw
	remaining := requested
	for _, b := range batches {
		if !b.Consumable() {
			continue
		}
		take := decimal.Min(b.Quantity, remaining)
		plan = append(plan, BatchDraw{BatchID: b.ID, Quantity: take})
		remaining = remaining.Sub(take)
		if remaining.IsZero() {
			break
		}
	}
	return plan, nil
}

// PlanFromBatch planifica el consumo contra un lote explícito, sin FIFO.
func PlanFromBatch(batch *entity.InventoryBatch, requested decimal.Decimal) ([]BatchDraw, error) {
	if !requested.GreaterThan(decimal.Zero) {
		return nil, domain.ErrInvalidInput
	}
	if batch == nil || !batch.Consumable() || batch.Quantity.LessThan(requested) {
		available := decimal.Zero
		productID := ""
		if batch != nil {
			productID = batch.ProductID
			if batch.Consumable() {
				available = batch.Quantity
			}
		}
		return nil, &domain.InsufficientStockError{
			ProductID: productID,
			Requested: requested,
			Available: available,
		}
	}
	return []BatchDraw{{BatchID: batch.ID, Quantity: requested}}, nil
}

// ApplyConsumption persiste los decrementos del plan sobre los lotes dados.
// Debe ejecutarse dentro de la transacción que bloqueó las filas.
func ApplyConsumption(repo repository.BatchRepository, batches []*entity.InventoryBatch, plan []BatchDraw) error {
	byID := make(map[string]*entity.InventoryBatch, len(batches))
	for _, b := range batches {
		byID[b.ID] = b
	}
	for _, draw := range plan {
		b, ok := byID[draw.BatchID]
		if !ok {
			return domain.ErrNotFound
		}
		newQty := b.Quantity.Sub(draw.Quantity)
		if newQty.IsNegative() {
			// No debería pasar con las filas bloqueadas; el chequeo evita
			// stock negativo ante cualquier plan inconsistente.
			return &domain.InsufficientStockError{
				ProductID: b.ProductID,
				Requested: draw.Quantity,
				Available: b.Quantity,
			}
		}
		if err := repo.UpdateQuantity(b.ID, newQty); err != nil {
			return err
		}
		b.Quantity = newQty
	}
	return nil
}
