package sales_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/grocery-ims/internal/application/dto"
	"github.com/jhoicas/grocery-ims/internal/application/sales"
	"github.com/jhoicas/grocery-ims/internal/domain"
	"github.com/jhoicas/grocery-ims/internal/domain/entity"
	"github.com/jhoicas/grocery-ims/internal/domain/repository"
)

func dec(n int64) decimal.Decimal { return decimal.NewFromInt(n) }

// ──────────────────────────────────────────────────────────────────────────────
// Almacén en memoria con semántica transaccional: el TxRunner clona el estado,
// ejecuta fn sobre el clon y solo ante éxito lo promueve (commit). Un error
// descarta el clon (rollback), igual que la transacción de la DB real.
// ──────────────────────────────────────────────────────────────────────────────

type memState struct {
	sales       map[string]*entity.Sale
	items       map[string][]*entity.SaleItem
	batches     map[string]*entity.InventoryBatch
	movements   map[string][]*entity.StockMovement
	saleNumbers map[string]bool

	failItemInsert bool // inyección de fallo para el test de atomicidad
}

func newMemState() *memState {
	return &memState{
		sales:       make(map[string]*entity.Sale),
		items:       make(map[string][]*entity.SaleItem),
		batches:     make(map[string]*entity.InventoryBatch),
		movements:   make(map[string][]*entity.StockMovement),
		saleNumbers: make(map[string]bool),
	}
}

func (s *memState) clone() *memState {
	c := newMemState()
	c.failItemInsert = s.failItemInsert
	for id, sale := range s.sales {
		cp := *sale
		c.sales[id] = &cp
	}
	for id, items := range s.items {
		for _, it := range items {
			cp := *it
			c.items[id] = append(c.items[id], &cp)
		}
	}
	for id, b := range s.batches {
		cp := *b
		c.batches[id] = &cp
	}
	for id, movs := range s.movements {
		for _, m := range movs {
			cp := *m
			c.movements[id] = append(c.movements[id], &cp)
		}
	}
	for n := range s.saleNumbers {
		c.saleNumbers[n] = true
	}
	return c
}

type memSaleRepo struct{ s *memState }

func (r *memSaleRepo) Create(sale *entity.Sale) error {
	if r.s.saleNumbers[sale.SaleNumber] {
		return domain.ErrDuplicate
	}
	cp := *sale
	r.s.sales[sale.ID] = &cp
	r.s.saleNumbers[sale.SaleNumber] = true
	return nil
}

func (r *memSaleRepo) CreateItem(item *entity.SaleItem) error {
	if r.s.failItemInsert {
		return errors.New("insert sale item: conexión perdida")
	}
	cp := *item
	r.s.items[item.SaleID] = append(r.s.items[item.SaleID], &cp)
	return nil
}

func (r *memSaleRepo) GetByID(id string) (*entity.Sale, error) {
	sale, ok := r.s.sales[id]
	if !ok {
		return nil, nil
	}
	cp := *sale
	return &cp, nil
}

func (r *memSaleRepo) List(repository.SaleFilter) ([]*entity.Sale, int, error) {
	var out []*entity.Sale
	for _, s := range r.s.sales {
		cp := *s
		out = append(out, &cp)
	}
	return out, len(out), nil
}

func (r *memSaleRepo) ListItems(saleID string) ([]*entity.SaleItem, error) {
	var out []*entity.SaleItem
	for _, it := range r.s.items[saleID] {
		cp := *it
		out = append(out, &cp)
	}
	return out, nil
}

func (r *memSaleRepo) UpdateStatus(saleID, fromStatus, toStatus string) error {
	sale, ok := r.s.sales[saleID]
	if !ok || sale.Status != fromStatus {
		return domain.ErrConflict
	}
	sale.Status = toStatus
	return nil
}

type memBatchRepo struct{ s *memState }

func (r *memBatchRepo) Create(b *entity.InventoryBatch) error {
	cp := *b
	r.s.batches[b.ID] = &cp
	return nil
}

func (r *memBatchRepo) GetByID(id string) (*entity.InventoryBatch, error) {
	b, ok := r.s.batches[id]
	if !ok {
		return nil, nil
	}
	cp := *b
	return &cp, nil
}

func (r *memBatchRepo) GetForUpdate(id string) (*entity.InventoryBatch, error) {
	return r.GetByID(id)
}

func (r *memBatchRepo) ListByProduct(productID string) ([]*entity.InventoryBatch, error) {
	return r.sorted(productID, false), nil
}

func (r *memBatchRepo) ListActive() ([]*entity.InventoryBatch, error) { return nil, nil }

func (r *memBatchRepo) GetConsumableForUpdate(productID string) ([]*entity.InventoryBatch, error) {
	return r.sorted(productID, true), nil
}

// sorted devuelve los lotes del producto en orden FIFO (received_at asc).
func (r *memBatchRepo) sorted(productID string, onlyConsumable bool) []*entity.InventoryBatch {
	var out []*entity.InventoryBatch
	for _, b := range r.s.batches {
		if b.ProductID != productID || !b.IsActive {
			continue
		}
		if onlyConsumable && !b.Consumable() {
			continue
		}
		out = append(out, b)
	}
	for i := 0; i < len(out); i++ {
		for j := i + 1; j < len(out); j++ {
			if out[j].ReceivedAt.Before(out[i].ReceivedAt) {
				out[i], out[j] = out[j], out[i]
			}
		}
	}
	return out
}

func (r *memBatchRepo) UpdateQuantity(batchID string, q decimal.Decimal) error {
	b, ok := r.s.batches[batchID]
	if !ok {
		return domain.ErrNotFound
	}
	b.Quantity = q
	return nil
}

func (r *memBatchRepo) Update(b *entity.InventoryBatch) error {
	cp := *b
	r.s.batches[b.ID] = &cp
	return nil
}

func (r *memBatchRepo) Deactivate(id string) error {
	if b, ok := r.s.batches[id]; ok {
		b.IsActive = false
	}
	return nil
}

func (r *memBatchRepo) TotalQuantity(productID string) (decimal.Decimal, error) {
	total := decimal.Zero
	for _, b := range r.s.batches {
		if b.ProductID == productID && b.IsActive {
			total = total.Add(b.Quantity)
		}
	}
	return total, nil
}

type memMovRepo struct{ s *memState }

func (r *memMovRepo) Create(m *entity.StockMovement) error {
	cp := *m
	r.s.movements[m.SaleID] = append(r.s.movements[m.SaleID], &cp)
	return nil
}

func (r *memMovRepo) ListBySale(saleID string) ([]*entity.StockMovement, error) {
	var out []*entity.StockMovement
	for _, m := range r.s.movements[saleID] {
		cp := *m
		out = append(out, &cp)
	}
	return out, nil
}

type memProductRepo struct{ products map[string]*entity.Product }

func (r *memProductRepo) Create(p *entity.Product) error { r.products[p.ID] = p; return nil }
func (r *memProductRepo) GetByID(id string) (*entity.Product, error) {
	return r.products[id], nil
}
func (r *memProductRepo) GetBySKU(string) (*entity.Product, error) { return nil, nil }
func (r *memProductRepo) Update(*entity.Product) error             { return nil }
func (r *memProductRepo) Deactivate(string) error                  { return nil }
func (r *memProductRepo) CountActive() (int, error)                { return len(r.products), nil }
func (r *memProductRepo) List(repository.ProductFilter) ([]*entity.Product, int, error) {
	return nil, 0, nil
}

// memTxRunner clona el estado y promueve el clon solo si fn no falla.
type memTxRunner struct{ s *memState }

func (t *memTxRunner) RunSale(_ context.Context, fn func(
	saleRepo repository.SaleRepository,
	batchRepo repository.BatchRepository,
	movRepo repository.StockMovementRepository,
) error) error {
	tx := t.s.clone()
	err := fn(&memSaleRepo{s: tx}, &memBatchRepo{s: tx}, &memMovRepo{s: tx})
	if err != nil {
		return err // rollback: se descarta el clon
	}
	*t.s = *tx // commit
	return nil
}

// ──────────────────────────────────────────────────────────────────────────────
// Fixture: producto P (umbral 10) con lote A (qty 3, vence en 2 días) y
// lote B (qty 20, sin vencimiento). Escenario de extremo a extremo.
// ──────────────────────────────────────────────────────────────────────────────

func setupEngine(t *testing.T, cfg sales.Config) (*sales.UseCase, *memState) {
	t.Helper()
	state := newMemState()
	now := time.Now()
	expires := now.AddDate(0, 0, 2)

	state.batches["A"] = &entity.InventoryBatch{
		ID: "A", ProductID: "P", BatchNumber: "BT-A",
		Quantity: dec(3), InitialQty: dec(3),
		ExpiresAt: &expires, ReceivedAt: now.AddDate(0, 0, -10), IsActive: true,
	}
	state.batches["B"] = &entity.InventoryBatch{
		ID: "B", ProductID: "P", BatchNumber: "BT-B",
		Quantity: dec(20), InitialQty: dec(20),
		ReceivedAt: now.AddDate(0, 0, -5), IsActive: true,
	}

	products := &memProductRepo{products: map[string]*entity.Product{
		"P": {ID: "P", SKU: "SKU-P", Name: "Arroz 1kg", Unit: "pcs",
			LowStockThreshold: dec(10), IsActive: true},
	}}

	uc := sales.NewUseCase(
		&memTxRunner{s: state},
		products,
		&memSaleRepo{s: state},
		&memMovRepo{s: state},
		cfg,
	)
	return uc, state
}

func saleReq(quantity, price int64) dto.CreateSaleRequest {
	return dto.CreateSaleRequest{
		Items: []dto.CreateSaleItemRequest{
			{ProductID: "P", Quantity: dec(quantity), UnitPrice: dec(price)},
		},
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// Creación exitosa
// ──────────────────────────────────────────────────────────────────────────────

// Vender 5 unidades agota A (3) y toma 2 de B: A=0, B=18, total 18, ya no es
// stock bajo (18 > 10). El lote A en cero queda como registro, no se borra.
func TestCreateSale_ConsumoFIFOExtremoAExtremo(t *testing.T) {
	uc, state := setupEngine(t, sales.Config{})

	resp, err := uc.CreateSale(context.Background(), "user-1", saleReq(5, 10))
	require.NoError(t, err)

	assert.True(t, state.batches["A"].Quantity.Equal(dec(0)))
	assert.True(t, state.batches["B"].Quantity.Equal(dec(18)))
	assert.True(t, state.batches["A"].IsActive, "un lote en cero no se desactiva")

	assert.Equal(t, entity.SaleStatusCompleted, resp.Status)
	assert.True(t, resp.TotalAmount.Equal(dec(50)))
	assert.True(t, resp.NetAmount.Equal(dec(50)))
	assert.Contains(t, resp.SaleNumber, "SALE-")
	require.Len(t, resp.Items, 1)

	// Dos movimientos: (A,3) y (B,2), en orden FIFO.
	movs := state.movements[resp.ID]
	require.Len(t, movs, 2)
	assert.Equal(t, "A", movs[0].BatchID)
	assert.True(t, movs[0].Quantity.Equal(dec(3)))
	assert.Equal(t, "B", movs[1].BatchID)
	assert.True(t, movs[1].Quantity.Equal(dec(2)))
}

// Invariante de ingresos: net = Σ total_price de las líneas − descuento + impuesto.
func TestCreateSale_InvarianteNetAmount(t *testing.T) {
	uc, state := setupEngine(t, sales.Config{})

	req := dto.CreateSaleRequest{
		Items: []dto.CreateSaleItemRequest{
			{ProductID: "P", Quantity: dec(2), UnitPrice: dec(15)},
			{ProductID: "P", Quantity: dec(3), UnitPrice: dec(10)},
		},
		Discount: dec(5),
		Tax:      dec(7),
	}
	resp, err := uc.CreateSale(context.Background(), "user-1", req)
	require.NoError(t, err)

	// Recalcular subtotal desde las líneas persistidas.
	subtotal := decimal.Zero
	for _, it := range state.items[resp.ID] {
		subtotal = subtotal.Add(it.TotalPrice)
	}
	assert.True(t, subtotal.Equal(dec(60)))
	assert.True(t, resp.NetAmount.Equal(subtotal.Sub(dec(5)).Add(dec(7))))
	assert.True(t, resp.NetAmount.Equal(dec(62)))
}

func TestCreateSale_LoteExplicitoSaltaFIFO(t *testing.T) {
	uc, state := setupEngine(t, sales.Config{})

	req := dto.CreateSaleRequest{
		Items: []dto.CreateSaleItemRequest{
			{ProductID: "P", BatchID: "B", Quantity: dec(4), UnitPrice: dec(10)},
		},
	}
	_, err := uc.CreateSale(context.Background(), "user-1", req)
	require.NoError(t, err)

	// A intacto, B decrementado a pesar de ser el más nuevo.
	assert.True(t, state.batches["A"].Quantity.Equal(dec(3)))
	assert.True(t, state.batches["B"].Quantity.Equal(dec(16)))
}

// ──────────────────────────────────────────────────────────────────────────────
// Fallos y atomicidad
// ──────────────────────────────────────────────────────────────────────────────

// Si el insert de líneas falla después de la cabecera, no queda nada: ni
// venta, ni decremento de lotes, ni movimientos.
func TestCreateSale_RollbackDejaTodoIntacto(t *testing.T) {
	uc, state := setupEngine(t, sales.Config{})
	state.failItemInsert = true

	_, err := uc.CreateSale(context.Background(), "user-1", saleReq(5, 10))
	require.Error(t, err)

	assert.Empty(t, state.sales)
	assert.Empty(t, state.saleNumbers)
	assert.Empty(t, state.movements)
	assert.True(t, state.batches["A"].Quantity.Equal(dec(3)))
	assert.True(t, state.batches["B"].Quantity.Equal(dec(20)))
}

func TestCreateSale_StockInsuficiente(t *testing.T) {
	uc, state := setupEngine(t, sales.Config{})

	_, err := uc.CreateSale(context.Background(), "user-1", saleReq(24, 10))
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)

	var stockErr *domain.InsufficientStockError
	require.ErrorAs(t, err, &stockErr)
	assert.Equal(t, "P", stockErr.ProductID)
	assert.True(t, stockErr.Requested.Equal(dec(24)))
	assert.True(t, stockErr.Available.Equal(dec(23)))

	// Rollback: nada persistido, lotes intactos.
	assert.Empty(t, state.sales)
	assert.True(t, state.batches["A"].Quantity.Equal(dec(3)))
	assert.True(t, state.batches["B"].Quantity.Equal(dec(20)))
}

func TestCreateSale_Validaciones(t *testing.T) {
	uc, _ := setupEngine(t, sales.Config{})
	ctx := context.Background()

	_, err := uc.CreateSale(ctx, "u", dto.CreateSaleRequest{})
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "sin líneas")

	_, err = uc.CreateSale(ctx, "u", dto.CreateSaleRequest{
		Items: []dto.CreateSaleItemRequest{{ProductID: "P", Quantity: dec(0), UnitPrice: dec(10)}},
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "cantidad cero")

	_, err = uc.CreateSale(ctx, "u", dto.CreateSaleRequest{
		Items: []dto.CreateSaleItemRequest{{ProductID: "P", Quantity: dec(1), UnitPrice: dec(-1)}},
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "precio negativo")

	_, err = uc.CreateSale(ctx, "u", dto.CreateSaleRequest{
		Items:    []dto.CreateSaleItemRequest{{ProductID: "P", Quantity: dec(1), UnitPrice: dec(10)}},
		Discount: dec(-1),
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "descuento negativo")

	_, err = uc.CreateSale(ctx, "u", dto.CreateSaleRequest{
		Items: []dto.CreateSaleItemRequest{{ProductID: "X", Quantity: dec(1), UnitPrice: dec(10)}},
	})
	assert.ErrorIs(t, err, domain.ErrNotFound, "producto inexistente")
}

// ──────────────────────────────────────────────────────────────────────────────
// Void / Refund
// ──────────────────────────────────────────────────────────────────────────────

func TestVoid_SinRestockPorDefecto(t *testing.T) {
	uc, state := setupEngine(t, sales.Config{})

	resp, err := uc.CreateSale(context.Background(), "user-1", saleReq(5, 10))
	require.NoError(t, err)

	voided, err := uc.Void(context.Background(), resp.ID, "admin-1")
	require.NoError(t, err)
	assert.Equal(t, entity.SaleStatusVoided, voided.Status)

	// La anulación es financiera: el stock no vuelve.
	assert.True(t, state.batches["A"].Quantity.Equal(dec(0)))
	assert.True(t, state.batches["B"].Quantity.Equal(dec(18)))
}

func TestVoid_ConRestockHabilitado(t *testing.T) {
	uc, state := setupEngine(t, sales.Config{RestockOnVoid: true})

	resp, err := uc.CreateSale(context.Background(), "user-1", saleReq(5, 10))
	require.NoError(t, err)
	require.True(t, state.batches["A"].Quantity.Equal(dec(0)))

	_, err = uc.Void(context.Background(), resp.ID, "admin-1")
	require.NoError(t, err)

	assert.True(t, state.batches["A"].Quantity.Equal(dec(3)))
	assert.True(t, state.batches["B"].Quantity.Equal(dec(20)))
}

// Transiciones de una sola vía: de voided/refunded no se sale.
func TestTransiciones_UnaSolaVia(t *testing.T) {
	uc, _ := setupEngine(t, sales.Config{})
	ctx := context.Background()

	resp, err := uc.CreateSale(ctx, "user-1", saleReq(2, 10))
	require.NoError(t, err)

	_, err = uc.Void(ctx, resp.ID, "admin-1")
	require.NoError(t, err)

	_, err = uc.Void(ctx, resp.ID, "admin-1")
	assert.ErrorIs(t, err, domain.ErrConflict, "segunda anulación")

	_, err = uc.Refund(ctx, resp.ID)
	assert.ErrorIs(t, err, domain.ErrConflict, "reembolso tras anulación")
}

func TestRefund_MarcaReembolsada(t *testing.T) {
	uc, _ := setupEngine(t, sales.Config{})
	ctx := context.Background()

	resp, err := uc.CreateSale(ctx, "user-1", saleReq(2, 10))
	require.NoError(t, err)

	refunded, err := uc.Refund(ctx, resp.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.SaleStatusRefunded, refunded.Status)
}

func TestVoid_VentaInexistente(t *testing.T) {
	uc, _ := setupEngine(t, sales.Config{})
	_, err := uc.Void(context.Background(), "no-such-sale", "admin-1")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

// staleSaleRepo simula una lectura tomada antes de que otra transacción
// confirmara: GetByID siempre reporta la venta como completed aunque el
// almacén ya la tenga en un estado terminal.
type staleSaleRepo struct{ *memSaleRepo }

func (r *staleSaleRepo) GetByID(id string) (*entity.Sale, error) {
	sale, err := r.memSaleRepo.GetByID(id)
	if sale != nil {
		sale.Status = entity.SaleStatusCompleted
	}
	return sale, err
}

// Dos transiciones terminales cuyas lecturas previas vieron la venta como
// completed: solo la primera en confirmar gana. La segunda debe chocar con
// el UPDATE condicional por estado previo, no pisar el estado final.
func TestTransiciones_ConcurrentesSoloUnaGana(t *testing.T) {
	uc, state := setupEngine(t, sales.Config{})
	ctx := context.Background()

	resp, err := uc.CreateSale(ctx, "user-1", saleReq(2, 10))
	require.NoError(t, err)

	stale := sales.NewUseCase(
		&memTxRunner{s: state},
		&memProductRepo{products: map[string]*entity.Product{}},
		&staleSaleRepo{&memSaleRepo{s: state}},
		&memMovRepo{s: state},
		sales.Config{},
	)

	_, err = stale.Refund(ctx, resp.ID)
	require.NoError(t, err)

	_, err = stale.Void(ctx, resp.ID, "admin-1")
	assert.ErrorIs(t, err, domain.ErrConflict, "la transición perdedora no debe aplicarse")
	assert.Equal(t, entity.SaleStatusRefunded, state.sales[resp.ID].Status)
}

// staleBatchRepo responde GetByID con una cantidad desfasada; solo la
// lectura bloqueada (GetForUpdate) ve el valor real del lote.
type staleBatchRepo struct {
	*memBatchRepo
	staleQty decimal.Decimal
}

func (r *staleBatchRepo) GetByID(id string) (*entity.InventoryBatch, error) {
	b, err := r.memBatchRepo.GetByID(id)
	if b != nil {
		b.Quantity = r.staleQty
	}
	return b, err
}

type staleBatchTxRunner struct {
	s        *memState
	staleQty decimal.Decimal
}

func (t *staleBatchTxRunner) RunSale(_ context.Context, fn func(
	saleRepo repository.SaleRepository,
	batchRepo repository.BatchRepository,
	movRepo repository.StockMovementRepository,
) error) error {
	tx := t.s.clone()
	err := fn(&memSaleRepo{s: tx}, &staleBatchRepo{&memBatchRepo{s: tx}, t.staleQty}, &memMovRepo{s: tx})
	if err != nil {
		return err
	}
	*t.s = *tx
	return nil
}

// El restock debe partir de la lectura bloqueada del lote, no de una lectura
// sin bloqueo que puede estar desfasada frente a una venta concurrente.
func TestVoid_RestockLeeElLoteBloqueado(t *testing.T) {
	uc, state := setupEngine(t, sales.Config{RestockOnVoid: true})
	ctx := context.Background()

	resp, err := uc.CreateSale(ctx, "user-1", saleReq(5, 10))
	require.NoError(t, err)
	require.True(t, state.batches["B"].Quantity.Equal(dec(18)))

	voider := sales.NewUseCase(
		&staleBatchTxRunner{s: state, staleQty: dec(5)},
		&memProductRepo{products: map[string]*entity.Product{}},
		&memSaleRepo{s: state},
		&memMovRepo{s: state},
		sales.Config{RestockOnVoid: true},
	)
	_, err = voider.Void(ctx, resp.ID, "admin-1")
	require.NoError(t, err)

	assert.True(t, state.batches["A"].Quantity.Equal(dec(3)))
	assert.True(t, state.batches["B"].Quantity.Equal(dec(20)),
		"B debe restaurarse desde su cantidad real, no la desfasada")
}
