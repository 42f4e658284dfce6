package implementation

import (
	"context"
	"encoding/json"

	"github.com/Tusharjain-19/split-payment/internal/entity"
	"github.com/Tusharjain-19/split-payment/internal/model"
	"github.com/Tusharjain-19/split-payment/internal/repository/contract"
	"github.com/Tusharjain-19/split-payment/internal/repository/specification"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type auditLogRepositoryImpl struct {
	db *gorm.DB
}

func NewAuditLogRepository(db *gorm.DB) contract.AuditLogRepository {
	return &auditLogRepositoryImpl{db: db}
}

func (r *auditLogRepositoryImpl) Create(ctx context.Context, log *entity.AuditLog) error {
	var metadata datatypes.JSON
	if log.Metadata != nil {
		raw, err := json.Marshal(log.Metadata)
		if err != nil {
			return err
		}
		metadata = datatypes.JSON(raw)
	}

	modelLog := &model.AuditLog{
		Id:          log.Id,
		MasterTxnId: log.MasterTxnId,
		EventType:   log.EventType,
		OldStatus:   string(log.OldStatus),
		NewStatus:   string(log.NewStatus),
		Metadata:    metadata,
	}
	return r.db.WithContext(ctx).Create(modelLog).Error
}

func (r *auditLogRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.AuditLog, error) {
	var modelLogs []*model.AuditLog
	query := r.db.WithContext(ctx)

	for _, spec := range specs {
		query = spec.Apply(query)
	}

	if err := query.Find(&modelLogs).Error; err != nil {
		return nil, err
	}

	var logs []*entity.AuditLog
	for _, ml := range modelLogs {
		var metadata map[string]interface{}
		if len(ml.Metadata) > 0 {
			// Corrupt metadata should not make the audit trail unreadable.
			_ = json.Unmarshal(ml.Metadata, &metadata)
		}
		logs = append(logs, &entity.AuditLog{
			Id:          ml.Id,
			MasterTxnId: ml.MasterTxnId,
			EventType:   ml.EventType,
			OldStatus:   entity.MasterStatus(ml.OldStatus),
			NewStatus:   entity.MasterStatus(ml.NewStatus),
			Metadata:    metadata,
			CreatedAt:   ml.CreatedAt,
		})
	}

	return logs, nil
}
