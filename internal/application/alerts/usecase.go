package alerts

import (
	"time"

	"github.com/jhoicas/grocery-ims/internal/application/dto"
	"github.com/jhoicas/grocery-ims/internal/domain"
	"github.com/jhoicas/grocery-ims/internal/domain/entity"
	"github.com/jhoicas/grocery-ims/internal/domain/repository"
)

// UseCase gestiona el ciclo de vida de las alertas ya materializadas.
type UseCase struct {
	alertRepo repository.AlertRepository
	now       func() time.Time
}

func NewUseCase(alertRepo repository.AlertRepository) *UseCase {
	return &UseCase{alertRepo: alertRepo, now: time.Now}
}

// List devuelve alertas filtradas, más recientes primero.
func (uc *UseCase) List(in dto.ListAlertsRequest) ([]dto.AlertResponse, dto.PageResponse, error) {
	in.DefaultPage()
	filter := repository.AlertFilter{
		Type:       in.Type,
		Severity:   in.Severity,
		IsRead:     in.IsRead,
		IsResolved: in.IsResolved,
		Limit:      in.Limit,
		Offset:     in.Offset(),
	}
	alerts, total, err := uc.alertRepo.List(filter)
	if err != nil {
		return nil, dto.PageResponse{}, err
	}

	out := make([]dto.AlertResponse, 0, len(alerts))
	for _, a := range alerts {
		out = append(out, toAlertResponse(a))
	}
	return out, dto.NewPageResponse(in.Page, in.Limit, total), nil
}

// MarkRead marca una alerta como leída.
func (uc *UseCase) MarkRead(id string) error {
	alert, err := uc.alertRepo.GetByID(id)
	if err != nil {
		return err
	}
	if alert == nil {
		return domain.ErrNotFound
	}
	return uc.alertRepo.MarkRead(id)
}

// MarkAllRead marca todas las alertas como leídas.
func (uc *UseCase) MarkAllRead() error {
	return uc.alertRepo.MarkAllRead()
}

// UnreadCount cuenta alertas sin leer (badge del panel).
func (uc *UseCase) UnreadCount() (int, error) {
	return uc.alertRepo.UnreadCount()
}

// Resolve marca una alerta como resuelta registrando quién y cuándo. Es
// idempotente: resolver una alerta ya resuelta no cambia nada y no falla.
func (uc *UseCase) Resolve(id, userID string) (*dto.AlertResponse, error) {
	alert, err := uc.alertRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if alert == nil {
		return nil, domain.ErrNotFound
	}
	if alert.IsResolved {
		resp := toAlertResponse(alert)
		return &resp, nil
	}

	now := uc.now()
	alert.IsResolved = true
	alert.IsRead = true
	alert.ResolvedBy = userID
	alert.ResolvedAt = &now
	if err := uc.alertRepo.Update(alert); err != nil {
		return nil, err
	}
	resp := toAlertResponse(alert)
	return &resp, nil
}

func toAlertResponse(a *entity.Alert) dto.AlertResponse {
	return dto.AlertResponse{
		ID:         a.ID,
		Type:       a.Type,
		Severity:   a.Severity,
		ProductID:  a.ProductID,
		BatchID:    a.BatchID,
		Message:    a.Message,
		IsRead:     a.IsRead,
		IsResolved: a.IsResolved,
		ResolvedBy: a.ResolvedBy,
		ResolvedAt: a.ResolvedAt,
		CreatedAt:  a.CreatedAt,
	}
}
