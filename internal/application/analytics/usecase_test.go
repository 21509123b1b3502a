package analytics_test

import (
	"context"
	"errors"
	"sort"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/grocery-ims/internal/application/analytics"
	"github.com/jhoicas/grocery-ims/internal/domain"
	"github.com/jhoicas/grocery-ims/internal/domain/entity"
	"github.com/jhoicas/grocery-ims/internal/domain/repository"
	"github.com/jhoicas/grocery-ims/pkg/logger"
)

func dec(n int64) decimal.Decimal { return decimal.NewFromInt(n) }

type fakeAnalyticsRepo struct {
	current  repository.PeriodMetrics
	previous repository.PeriodMetrics
	daily    []repository.DailyRevenueRow
	top      []repository.TopProductRow
	slow     []repository.SlowMovingRow

	metricsCalls int
	gotLimit     int
	gotDays      int
	gotStart     time.Time
	gotEnd       time.Time
}

func (r *fakeAnalyticsRepo) GetPeriodMetrics(_ context.Context, start, _ time.Time) (repository.PeriodMetrics, error) {
	r.metricsCalls++
	// El rango que arranca el día 1 del mes actual es el período en curso.
	now := time.Now()
	curStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	if start.Equal(curStart) {
		return r.current, nil
	}
	return r.previous, nil
}

func (r *fakeAnalyticsRepo) GetDailyRevenue(_ context.Context, start, end time.Time) ([]repository.DailyRevenueRow, error) {
	r.gotStart, r.gotEnd = start, end
	return r.daily, nil
}

// GetTopProducts replica el contrato de orden del adaptador real: cantidad
// descendente, desempate por ingresos descendentes y luego nombre ascendente.
func (r *fakeAnalyticsRepo) GetTopProducts(_ context.Context, start, end time.Time, limit int) ([]repository.TopProductRow, error) {
	r.gotLimit = limit
	r.gotStart, r.gotEnd = start, end
	out := append([]repository.TopProductRow(nil), r.top...)
	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].TotalQty.Equal(out[j].TotalQty) {
			return out[i].TotalQty.GreaterThan(out[j].TotalQty)
		}
		if !out[i].TotalRevenue.Equal(out[j].TotalRevenue) {
			return out[i].TotalRevenue.GreaterThan(out[j].TotalRevenue)
		}
		return out[i].ProductName < out[j].ProductName
	})
	if limit < len(out) {
		out = out[:limit]
	}
	return out, nil
}

func (r *fakeAnalyticsRepo) GetSlowMovingProducts(_ context.Context, days int) ([]repository.SlowMovingRow, error) {
	r.gotDays = days
	return r.slow, nil
}

func (r *fakeAnalyticsRepo) GetLowStockProducts(context.Context) ([]repository.LowStockRow, error) {
	return nil, nil
}

type fakeProductRepo struct{ active int }

func (r *fakeProductRepo) Create(*entity.Product) error             { return nil }
func (r *fakeProductRepo) GetByID(string) (*entity.Product, error)  { return nil, nil }
func (r *fakeProductRepo) GetBySKU(string) (*entity.Product, error) { return nil, nil }
func (r *fakeProductRepo) Update(*entity.Product) error             { return nil }
func (r *fakeProductRepo) Deactivate(string) error                  { return nil }
func (r *fakeProductRepo) CountActive() (int, error)                { return r.active, nil }
func (r *fakeProductRepo) List(repository.ProductFilter) ([]*entity.Product, int, error) {
	return nil, 0, nil
}

type fakeQueryRepo struct{ lowStock int }

func (r *fakeQueryRepo) GetSummary(repository.InventoryFilter) ([]repository.InventorySummaryRow, int, error) {
	return nil, 0, nil
}
func (r *fakeQueryRepo) GetExpiringBatches(int, int) ([]repository.ExpiringBatchRow, int, error) {
	return nil, 0, nil
}
func (r *fakeQueryRepo) CountLowStock() (int, error) { return r.lowStock, nil }

type fakeAlertRepo struct{ expiring, expired int }

func (r *fakeAlertRepo) Create(*entity.Alert) error            { return nil }
func (r *fakeAlertRepo) GetByID(string) (*entity.Alert, error) { return nil, nil }
func (r *fakeAlertRepo) List(repository.AlertFilter) ([]*entity.Alert, int, error) {
	return nil, 0, nil
}
func (r *fakeAlertRepo) HasOpen(string, string, string) (bool, error) { return false, nil }
func (r *fakeAlertRepo) MarkRead(string) error                        { return nil }
func (r *fakeAlertRepo) MarkAllRead() error                           { return nil }
func (r *fakeAlertRepo) Update(*entity.Alert) error                   { return nil }
func (r *fakeAlertRepo) UnreadCount() (int, error)                    { return 0, nil }
func (r *fakeAlertRepo) CountOpenByType(alertType string) (int, error) {
	if alertType == entity.AlertTypeExpired {
		return r.expired, nil
	}
	return r.expiring, nil
}

type fakeCache struct {
	store   map[string][]byte
	getErr  error
	setErr  error
	setKeys []string
}

func (c *fakeCache) Get(_ context.Context, key string) ([]byte, error) {
	if c.getErr != nil {
		return nil, c.getErr
	}
	return c.store[key], nil
}

func (c *fakeCache) Set(_ context.Context, key string, value []byte, _ time.Duration) error {
	if c.setErr != nil {
		return c.setErr
	}
	if c.store == nil {
		c.store = map[string][]byte{}
	}
	c.store[key] = value
	c.setKeys = append(c.setKeys, key)
	return nil
}

func testLogger() *logger.Logger {
	return logger.New(logger.Config{Env: "production", Level: "error"})
}

func newUseCase(repo *fakeAnalyticsRepo, cache analytics.SummaryCache) *analytics.UseCase {
	return analytics.NewUseCase(
		repo,
		&fakeProductRepo{active: 12},
		&fakeQueryRepo{lowStock: 3},
		&fakeAlertRepo{expiring: 2, expired: 1},
		cache,
		testLogger(),
	)
}

// ──────────────────────────────────────────────────────────────────────────────
// Resumen
// ──────────────────────────────────────────────────────────────────────────────

func TestGetSummary_CambiosPorcentuales(t *testing.T) {
	repo := &fakeAnalyticsRepo{
		current:  repository.PeriodMetrics{Revenue: dec(150), SalesCount: 30},
		previous: repository.PeriodMetrics{Revenue: dec(100), SalesCount: 20},
	}
	uc := newUseCase(repo, nil)

	sum, err := uc.GetSummary(context.Background())
	require.NoError(t, err)

	assert.True(t, sum.TotalRevenue.Equal(dec(150)))
	assert.Equal(t, 30, sum.TotalSales)
	assert.True(t, sum.RevenueChangePct.Equal(dec(50)), "de 100 a 150 = +50%%, fue %s", sum.RevenueChangePct)
	assert.True(t, sum.SalesChangePct.Equal(dec(50)))
	assert.Equal(t, 12, sum.TotalProducts)
	assert.Equal(t, 3, sum.LowStockCount)
	assert.Equal(t, 2, sum.ExpiringCount)
	assert.Equal(t, 1, sum.ExpiredCount)
}

// Sin actividad previa el cambio porcentual es 0, nunca infinito.
func TestGetSummary_MesAnteriorEnCeroDaCero(t *testing.T) {
	repo := &fakeAnalyticsRepo{
		current: repository.PeriodMetrics{Revenue: dec(500), SalesCount: 9},
	}
	uc := newUseCase(repo, nil)

	sum, err := uc.GetSummary(context.Background())
	require.NoError(t, err)
	assert.True(t, sum.RevenueChangePct.IsZero())
	assert.True(t, sum.SalesChangePct.IsZero())
}

func TestGetSummary_SegundaLlamadaUsaCache(t *testing.T) {
	repo := &fakeAnalyticsRepo{
		current: repository.PeriodMetrics{Revenue: dec(75), SalesCount: 5},
	}
	cache := &fakeCache{}
	uc := newUseCase(repo, cache)

	_, err := uc.GetSummary(context.Background())
	require.NoError(t, err)
	require.NotEmpty(t, cache.setKeys)
	callsAfterFirst := repo.metricsCalls

	sum, err := uc.GetSummary(context.Background())
	require.NoError(t, err)
	assert.Equal(t, callsAfterFirst, repo.metricsCalls, "el hit de caché no consulta la DB")
	assert.True(t, sum.TotalRevenue.Equal(dec(75)))
}

// Un caché caído degrada a consulta directa, no a error.
func TestGetSummary_CacheCaidoNoEsFatal(t *testing.T) {
	repo := &fakeAnalyticsRepo{
		current: repository.PeriodMetrics{Revenue: dec(75), SalesCount: 5},
	}
	cache := &fakeCache{getErr: errors.New("redis: connection refused"), setErr: errors.New("redis: connection refused")}
	uc := newUseCase(repo, cache)

	sum, err := uc.GetSummary(context.Background())
	require.NoError(t, err)
	assert.True(t, sum.TotalRevenue.Equal(dec(75)))
}

// ──────────────────────────────────────────────────────────────────────────────
// Serie diaria y rankings
// ──────────────────────────────────────────────────────────────────────────────

func TestGetDailyRevenue_RangoInclusivo(t *testing.T) {
	repo := &fakeAnalyticsRepo{daily: []repository.DailyRevenueRow{
		{SaleDate: time.Date(2026, 8, 10, 0, 0, 0, 0, time.UTC), TotalSales: 2, TotalRevenue: dec(40), TotalItems: dec(6)},
	}}
	uc := newUseCase(repo, nil)

	rows, err := uc.GetDailyRevenue(context.Background(), "2026-08-01", "2026-08-15")
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "2026-08-10", rows[0].SaleDate)

	// El fin de rango cubre el día completo.
	assert.Equal(t, 23, repo.gotEnd.Hour())
	assert.Equal(t, 1, repo.gotStart.Day())
}

func TestGetDailyRevenue_RangoInvalido(t *testing.T) {
	uc := newUseCase(&fakeAnalyticsRepo{}, nil)

	_, err := uc.GetDailyRevenue(context.Background(), "2026-08-15", "2026-08-01")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = uc.GetDailyRevenue(context.Background(), "15/08/2026", "")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestGetTopProducts_DefaultsYLimites(t *testing.T) {
	repo := &fakeAnalyticsRepo{}
	uc := newUseCase(repo, nil)

	_, err := uc.GetTopProducts(context.Background(), 0, "", "")
	require.NoError(t, err)
	assert.Equal(t, 10, repo.gotLimit)

	_, err = uc.GetTopProducts(context.Background(), 5000, "", "")
	require.NoError(t, err)
	assert.Equal(t, 100, repo.gotLimit, "el límite se recorta")
}

func TestGetTopProducts_RangoExplicito(t *testing.T) {
	repo := &fakeAnalyticsRepo{}
	uc := newUseCase(repo, nil)

	_, err := uc.GetTopProducts(context.Background(), 0, "2026-08-01", "2026-08-15")
	require.NoError(t, err)

	// Ambos extremos inclusive: el fin de rango cubre el día completo.
	assert.Equal(t, 1, repo.gotStart.Day())
	assert.Equal(t, 15, repo.gotEnd.Day())
	assert.Equal(t, 23, repo.gotEnd.Hour())

	_, err = uc.GetTopProducts(context.Background(), 0, "2026-08-15", "2026-08-01")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = uc.GetTopProducts(context.Background(), 0, "15/08/2026", "")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

// El ranking rompe empates de cantidad por ingresos descendentes y, a igual
// ingreso, por nombre ascendente.
func TestGetTopProducts_DesempateDeterminista(t *testing.T) {
	repo := &fakeAnalyticsRepo{top: []repository.TopProductRow{
		{ProductID: "p-lenteja", ProductName: "Lentejas 500g", TotalQty: dec(8), TotalRevenue: dec(30), SaleCount: 4},
		{ProductID: "p-azucar", ProductName: "Azúcar 1kg", TotalQty: dec(8), TotalRevenue: dec(50), SaleCount: 3},
		{ProductID: "p-sal", ProductName: "Sal 500g", TotalQty: dec(8), TotalRevenue: dec(50), SaleCount: 5},
		{ProductID: "p-arroz", ProductName: "Arroz 1kg", TotalQty: dec(12), TotalRevenue: dec(20), SaleCount: 6},
	}}
	uc := newUseCase(repo, nil)

	out, err := uc.GetTopProducts(context.Background(), 0, "", "")
	require.NoError(t, err)
	require.Len(t, out, 4)

	// Mayor cantidad primero, sin importar el ingreso.
	assert.Equal(t, "p-arroz", out[0].ProductID)
	// Empate a 8 unidades: gana el mayor ingreso; a igual ingreso, orden
	// alfabético por nombre.
	assert.Equal(t, "p-azucar", out[1].ProductID)
	assert.Equal(t, "p-sal", out[2].ProductID)
	assert.Equal(t, "p-lenteja", out[3].ProductID)
}

func TestGetSlowMovingProducts_VentanaPorDefecto(t *testing.T) {
	never := (*time.Time)(nil)
	repo := &fakeAnalyticsRepo{slow: []repository.SlowMovingRow{
		{ProductID: "P1", ProductName: "Harina", Unit: "kg", TotalStock: dec(50), LastSold: never},
	}}
	uc := newUseCase(repo, nil)

	rows, err := uc.GetSlowMovingProducts(context.Background(), 0)
	require.NoError(t, err)
	assert.Equal(t, 30, repo.gotDays)
	require.Len(t, rows, 1)
	assert.Nil(t, rows[0].LastSold, "nunca vendido se reporta como null")
}
