package implementation

import (
	"context"

	"github.com/Tusharjain-19/split-payment/internal/entity"
	"github.com/Tusharjain-19/split-payment/internal/model"
	"github.com/Tusharjain-19/split-payment/internal/repository/contract"
	"gorm.io/gorm"
)

type emailLogRepositoryImpl struct {
	db *gorm.DB
}

func NewEmailLogRepository(db *gorm.DB) contract.EmailLogRepository {
	return &emailLogRepositoryImpl{db: db}
}

func (r *emailLogRepositoryImpl) Create(ctx context.Context, log *entity.EmailLog) error {
	modelLog := &model.EmailLog{
		Id:          log.Id,
		MasterTxnId: log.MasterTxnId,
		EmailType:   string(log.EmailType),
		Recipient:   log.Recipient,
	}
	return r.db.WithContext(ctx).Create(modelLog).Error
}
