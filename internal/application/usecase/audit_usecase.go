package usecase

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/grocery-ims/internal/domain/entity"
	"github.com/jhoicas/grocery-ims/internal/domain/repository"
	"github.com/jhoicas/grocery-ims/pkg/logger"
)

// AuditUseCase registra y consulta el log de auditoría. Record es
// fire-and-forget: un fallo de auditoría se registra en el log de la app
// pero nunca interrumpe la operación que lo originó.
type AuditUseCase struct {
	repo repository.AuditRepository
	log  *logger.Logger
}

func NewAuditUseCase(repo repository.AuditRepository, log *logger.Logger) *AuditUseCase {
	return &AuditUseCase{repo: repo, log: log}
}

// RecordInput datos de una entrada de auditoría.
type RecordInput struct {
	UserID    string
	Action    string
	TableName string
	RecordID  string
	OldData   any
	NewData   any
	IPAddress string
	UserAgent string
}

// Record persiste la entrada. Nunca devuelve error al caller.
func (uc *AuditUseCase) Record(in RecordInput) {
	entry := &entity.AuditLog{
		ID:        uuid.New().String(),
		UserID:    in.UserID,
		Action:    in.Action,
		TableName: in.TableName,
		RecordID:  in.RecordID,
		IPAddress: in.IPAddress,
		UserAgent: in.UserAgent,
		CreatedAt: time.Now(),
	}
	if in.OldData != nil {
		if raw, err := json.Marshal(in.OldData); err == nil {
			entry.OldData = raw
		}
	}
	if in.NewData != nil {
		if raw, err := json.Marshal(in.NewData); err == nil {
			entry.NewData = raw
		}
	}
	if err := uc.repo.Create(entry); err != nil {
		uc.log.Error().Err(err).
			Str("action", in.Action).
			Str("table", in.TableName).
			Str("record_id", in.RecordID).
			Msg("Auditoría: no se pudo registrar la entrada")
	}
}

// List consulta el log de auditoría.
func (uc *AuditUseCase) List(filter repository.AuditFilter) ([]*entity.AuditLog, int, error) {
	if filter.Limit <= 0 {
		filter.Limit = 50
	}
	if filter.Limit > 200 {
		filter.Limit = 200
	}
	return uc.repo.List(filter)
}
