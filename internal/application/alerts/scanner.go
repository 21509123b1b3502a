package alerts

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/grocery-ims/internal/domain/entity"
	"github.com/jhoicas/grocery-ims/internal/domain/expiry"
	"github.com/jhoicas/grocery-ims/internal/domain/repository"
	"github.com/jhoicas/grocery-ims/pkg/logger"
)

// Scanner recorre el inventario y materializa alertas: stock bajo por
// producto, vencimiento próximo y vencido por lote. El escaneo es
// re-ejecutable: HasOpen evita duplicar una alerta abierta del mismo tipo
// sobre el mismo producto/lote.
type Scanner struct {
	productRepo repository.ProductRepository
	batchRepo   repository.BatchRepository
	alertRepo   repository.AlertRepository
	log         *logger.Logger
	now         func() time.Time
}

func NewScanner(
	productRepo repository.ProductRepository,
	batchRepo repository.BatchRepository,
	alertRepo repository.AlertRepository,
	log *logger.Logger,
) *Scanner {
	return &Scanner{
		productRepo: productRepo,
		batchRepo:   batchRepo,
		alertRepo:   alertRepo,
		log:         log,
		now:         time.Now,
	}
}

// Scan ejecuta un escaneo completo y devuelve cuántas alertas se crearon.
// Un error sobre un registro individual se registra y se sigue con el resto;
// solo un fallo de listado aborta el escaneo.
func (s *Scanner) Scan() (int, error) {
	created := 0

	n, err := s.scanLowStock()
	if err != nil {
		return created, err
	}
	created += n

	n, err = s.scanExpiry()
	if err != nil {
		return created, err
	}
	created += n

	s.log.Info().Int("generated", created).Msg("Escaneo de alertas completado")
	return created, nil
}

func (s *Scanner) scanLowStock() (int, error) {
	products, _, err := s.productRepo.List(repository.ProductFilter{OnlyActive: true})
	if err != nil {
		return 0, fmt.Errorf("alerts: listar productos: %w", err)
	}

	created := 0
	for _, p := range products {
		total, err := s.batchRepo.TotalQuantity(p.ID)
		if err != nil {
			s.log.Error().Err(err).Str("product_id", p.ID).Msg("Escaneo: total de stock falló")
			continue
		}
		if total.GreaterThan(p.LowStockThreshold) {
			continue
		}
		msg := fmt.Sprintf("Stock bajo: %s tiene %s %s (umbral %s)",
			p.Name, total.String(), p.Unit, p.LowStockThreshold.String())
		ok, err := s.emit(entity.AlertTypeLowStock, p.ID, "", msg)
		if err != nil {
			s.log.Error().Err(err).Str("product_id", p.ID).Msg("Escaneo: crear alerta de stock bajo falló")
			continue
		}
		if ok {
			created++
		}
	}
	return created, nil
}

func (s *Scanner) scanExpiry() (int, error) {
	batches, err := s.batchRepo.ListActive()
	if err != nil {
		return 0, fmt.Errorf("alerts: listar lotes: %w", err)
	}

	now := s.now()
	created := 0
	for _, b := range batches {
		// Un lote agotado no genera alertas de vencimiento: no hay nada
		// que se pueda vender ni desechar.
		if !b.Quantity.GreaterThan(decimal.Zero) {
			continue
		}

		var alertType, msg string
		switch expiry.Classify(b.ExpiresAt, now) {
		case expiry.StatusExpired:
			alertType = entity.AlertTypeExpired
			msg = fmt.Sprintf("Lote %s vencido el %s (%s unidades restantes)",
				b.BatchNumber, b.ExpiresAt.Format("2006-01-02"), b.Quantity.String())
		case expiry.StatusExpiringSoon:
			days := expiry.DaysUntil(*b.ExpiresAt, now)
			msg = fmt.Sprintf("Lote %s vence en %d días (%s unidades restantes)",
				b.BatchNumber, days, b.Quantity.String())
			alertType = entity.AlertTypeExpiringSoon
		default:
			continue
		}

		ok, err := s.emit(alertType, b.ProductID, b.ID, msg)
		if err != nil {
			s.log.Error().Err(err).Str("batch_id", b.ID).Str("type", alertType).Msg("Escaneo: crear alerta de vencimiento falló")
			continue
		}
		if ok {
			created++
		}
	}
	return created, nil
}

// emit crea la alerta salvo que ya exista una abierta del mismo tipo sobre
// el mismo producto/lote. Devuelve si se creó.
func (s *Scanner) emit(alertType, productID, batchID, message string) (bool, error) {
	exists, err := s.alertRepo.HasOpen(alertType, productID, batchID)
	if err != nil {
		return false, err
	}
	if exists {
		return false, nil
	}

	alert := &entity.Alert{
		ID:        uuid.New().String(),
		Type:      alertType,
		Severity:  entity.SeverityForType(alertType),
		ProductID: productID,
		BatchID:   batchID,
		Message:   message,
		CreatedAt: s.now(),
	}
	if err := s.alertRepo.Create(alert); err != nil {
		return false, err
	}
	return true, nil
}
