// Package analytics contiene los casos de uso de reportes: resumen del mes,
// serie diaria de ingresos, ranking de productos y detección de baja rotación.
package analytics

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/grocery-ims/internal/application/dto"
	"github.com/jhoicas/grocery-ims/internal/domain"
	"github.com/jhoicas/grocery-ims/internal/domain/entity"
	"github.com/jhoicas/grocery-ims/internal/domain/repository"
	"github.com/jhoicas/grocery-ims/pkg/logger"
)

const (
	defaultTopLimit   = 10 // productos en el ranking por defecto
	defaultWindowDays = 30 // ventana por defecto para ranking y baja rotación
	summaryCacheKey   = "analytics:summary"
	summaryCacheTTL   = 60 * time.Second
	maxTopLimit       = 100
	maxWindowDays     = 365
)

// SummaryCache cachea el resumen serializado. Get devuelve (nil, nil) ante
// un miss. Los fallos de caché nunca hacen fallar la consulta.
type SummaryCache interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

// UseCase reportes de negocio. Solo cuenta ventas completadas; las anuladas
// y reembolsadas quedan fuera de todos los agregados.
type UseCase struct {
	analyticsRepo repository.AnalyticsRepository
	productRepo   repository.ProductRepository
	queryRepo     repository.InventoryQueryRepository
	alertRepo     repository.AlertRepository
	cache         SummaryCache // opcional
	log           *logger.Logger
	now           func() time.Time
}

func NewUseCase(
	analyticsRepo repository.AnalyticsRepository,
	productRepo repository.ProductRepository,
	queryRepo repository.InventoryQueryRepository,
	alertRepo repository.AlertRepository,
	cache SummaryCache,
	log *logger.Logger,
) *UseCase {
	return &UseCase{
		analyticsRepo: analyticsRepo,
		productRepo:   productRepo,
		queryRepo:     queryRepo,
		alertRepo:     alertRepo,
		cache:         cache,
		log:           log,
		now:           time.Now,
	}
}

// GetSummary construye el resumen del mes en curso contra el mes anterior.
//
// Tres consultas en paralelo:
//  1. métricas del mes en curso
//  2. métricas del mes anterior completo
//  3. contadores de inventario y alertas
//
// El resultado se cachea 60s; un fallo del caché se registra y se sigue.
func (uc *UseCase) GetSummary(ctx context.Context) (*dto.AnalyticsSummaryDTO, error) {
	if uc.cache != nil {
		if raw, err := uc.cache.Get(ctx, summaryCacheKey); err != nil {
			uc.log.Warn().Err(err).Msg("Analytics: caché de resumen no disponible")
		} else if raw != nil {
			var cached dto.AnalyticsSummaryDTO
			if err := json.Unmarshal(raw, &cached); err == nil {
				return &cached, nil
			}
		}
	}

	now := uc.now()

	// Mes en curso: día 1 a las 00:00 hasta ahora.
	curStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	// Mes anterior completo: día 1 hasta el instante previo al mes en curso.
	prevStart := curStart.AddDate(0, -1, 0)
	prevEnd := curStart.Add(-time.Nanosecond)

	type metricsResult struct {
		m   repository.PeriodMetrics
		err error
	}
	type countsResult struct {
		products int
		lowStock int
		expiring int
		expired  int
		err      error
	}

	curCh := make(chan metricsResult, 1)
	prevCh := make(chan metricsResult, 1)
	countsCh := make(chan countsResult, 1)

	go func() {
		m, err := uc.analyticsRepo.GetPeriodMetrics(ctx, curStart, now)
		curCh <- metricsResult{m, err}
	}()
	go func() {
		m, err := uc.analyticsRepo.GetPeriodMetrics(ctx, prevStart, prevEnd)
		prevCh <- metricsResult{m, err}
	}()
	go func() {
		var r countsResult
		r.products, r.err = uc.productRepo.CountActive()
		if r.err == nil {
			r.lowStock, r.err = uc.queryRepo.CountLowStock()
		}
		if r.err == nil {
			r.expiring, r.err = uc.alertRepo.CountOpenByType(entity.AlertTypeExpiringSoon)
		}
		if r.err == nil {
			r.expired, r.err = uc.alertRepo.CountOpenByType(entity.AlertTypeExpired)
		}
		countsCh <- r
	}()

	cur := <-curCh
	prev := <-prevCh
	counts := <-countsCh

	if cur.err != nil {
		return nil, fmt.Errorf("analytics: métricas del mes: %w", cur.err)
	}
	if prev.err != nil {
		return nil, fmt.Errorf("analytics: métricas del mes anterior: %w", prev.err)
	}
	if counts.err != nil {
		return nil, fmt.Errorf("analytics: contadores: %w", counts.err)
	}

	summary := &dto.AnalyticsSummaryDTO{
		TotalRevenue:     cur.m.Revenue.Round(2),
		TotalSales:       cur.m.SalesCount,
		TotalProducts:    counts.products,
		LowStockCount:    counts.lowStock,
		ExpiringCount:    counts.expiring,
		ExpiredCount:     counts.expired,
		RevenueChangePct: pctChange(cur.m.Revenue, prev.m.Revenue),
		SalesChangePct: pctChange(
			decimal.NewFromInt(int64(cur.m.SalesCount)),
			decimal.NewFromInt(int64(prev.m.SalesCount)),
		),
	}

	if uc.cache != nil {
		if raw, err := json.Marshal(summary); err == nil {
			if err := uc.cache.Set(ctx, summaryCacheKey, raw, summaryCacheTTL); err != nil {
				uc.log.Warn().Err(err).Msg("Analytics: no se pudo cachear el resumen")
			}
		}
	}
	return summary, nil
}

// pctChange cambio porcentual de prev a cur, redondeado a 2 decimales.
// Si el período anterior fue cero, devuelve 0 (nunca infinito).
func pctChange(cur, prev decimal.Decimal) decimal.Decimal {
	if prev.IsZero() {
		return decimal.Zero
	}
	hundred := decimal.NewFromInt(100)
	return cur.Sub(prev).Div(prev).Mul(hundred).Round(2)
}

// GetDailyRevenue devuelve la serie diaria de ingresos del rango, ambos
// extremos inclusive. La serie es dispersa: los días sin ventas no aparecen.
func (uc *UseCase) GetDailyRevenue(ctx context.Context, from, to string) ([]dto.DailyRevenueDTO, error) {
	now := uc.now()
	start := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location()).AddDate(0, 0, -defaultWindowDays+1)
	end := now

	if from != "" {
		t, err := time.Parse("2006-01-02", from)
		if err != nil {
			return nil, domain.ErrInvalidInput
		}
		start = t
	}
	if to != "" {
		t, err := time.Parse("2006-01-02", to)
		if err != nil {
			return nil, domain.ErrInvalidInput
		}
		end = t.Add(24*time.Hour - time.Nanosecond)
	}
	if end.Before(start) {
		return nil, domain.ErrInvalidInput
	}

	rows, err := uc.analyticsRepo.GetDailyRevenue(ctx, start, end)
	if err != nil {
		return nil, fmt.Errorf("analytics: serie diaria: %w", err)
	}

	out := make([]dto.DailyRevenueDTO, 0, len(rows))
	for _, r := range rows {
		out = append(out, dto.DailyRevenueDTO{
			SaleDate:     r.SaleDate.Format("2006-01-02"),
			TotalSales:   r.TotalSales,
			TotalRevenue: r.TotalRevenue.Round(2),
			TotalItems:   r.TotalItems,
		})
	}
	return out, nil
}

// GetTopProducts rankea productos por cantidad vendida en el rango [from, to],
// ambos extremos inclusive. Sin rango explícito usa los últimos 30 días.
// Defaults: top 10.
func (uc *UseCase) GetTopProducts(ctx context.Context, limit int, from, to string) ([]dto.TopProductDTO, error) {
	if limit <= 0 {
		limit = defaultTopLimit
	}
	if limit > maxTopLimit {
		limit = maxTopLimit
	}

	now := uc.now()
	start := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location()).AddDate(0, 0, -defaultWindowDays+1)
	end := now

	if from != "" {
		t, err := time.Parse("2006-01-02", from)
		if err != nil {
			return nil, domain.ErrInvalidInput
		}
		start = t
	}
	if to != "" {
		t, err := time.Parse("2006-01-02", to)
		if err != nil {
			return nil, domain.ErrInvalidInput
		}
		end = t.Add(24*time.Hour - time.Nanosecond)
	}
	if end.Before(start) {
		return nil, domain.ErrInvalidInput
	}

	rows, err := uc.analyticsRepo.GetTopProducts(ctx, start, end, limit)
	if err != nil {
		return nil, fmt.Errorf("analytics: top productos: %w", err)
	}

	out := make([]dto.TopProductDTO, 0, len(rows))
	for _, r := range rows {
		out = append(out, dto.TopProductDTO{
			ProductID:    r.ProductID,
			ProductName:  r.ProductName,
			Unit:         r.Unit,
			TotalQty:     r.TotalQty,
			TotalRevenue: r.TotalRevenue.Round(2),
			SaleCount:    r.SaleCount,
		})
	}
	return out, nil
}

// GetSlowMovingProducts devuelve productos activos con stock pero sin ventas
// completadas en los últimos `days` días (default 30), incluyendo los que
// nunca se vendieron.
func (uc *UseCase) GetSlowMovingProducts(ctx context.Context, days int) ([]dto.SlowMovingProductDTO, error) {
	if days <= 0 {
		days = defaultWindowDays
	}
	if days > maxWindowDays {
		days = maxWindowDays
	}

	rows, err := uc.analyticsRepo.GetSlowMovingProducts(ctx, days)
	if err != nil {
		return nil, fmt.Errorf("analytics: baja rotación: %w", err)
	}

	out := make([]dto.SlowMovingProductDTO, 0, len(rows))
	for _, r := range rows {
		out = append(out, dto.SlowMovingProductDTO{
			ProductID:   r.ProductID,
			ProductName: r.ProductName,
			Unit:        r.Unit,
			TotalStock:  r.TotalStock,
			LastSold:    r.LastSold,
		})
	}
	return out, nil
}
