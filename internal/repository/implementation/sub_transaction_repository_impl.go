package implementation

import (
	"context"
	"time"

	"github.com/Tusharjain-19/split-payment/internal/entity"
	"github.com/Tusharjain-19/split-payment/internal/model"
	"github.com/Tusharjain-19/split-payment/internal/repository/contract"
	"github.com/Tusharjain-19/split-payment/internal/repository/specification"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type subTransactionRepositoryImpl struct {
	db *gorm.DB
}

func NewSubTransactionRepository(db *gorm.DB) contract.SubTransactionRepository {
	return &subTransactionRepositoryImpl{db: db}
}

func (r *subTransactionRepositoryImpl) Create(ctx context.Context, sub *entity.SubTransaction) error {
	modelSub := &model.SubTransaction{
		Id:               sub.Id,
		MasterTxnId:      sub.MasterTxnId,
		SourceType:       sub.SourceType,
		Amount:           sub.Amount,
		GatewayOrderId:   sub.GatewayOrderId,
		GatewayPaymentId: sub.GatewayPaymentId,
		Status:           string(sub.Status),
	}
	return r.db.WithContext(ctx).Create(modelSub).Error
}

func (r *subTransactionRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.SubTransaction, error) {
	var modelSub model.SubTransaction
	query := r.db.WithContext(ctx)

	for _, spec := range specs {
		query = spec.Apply(query)
	}

	if err := query.First(&modelSub).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}

	return mapSubToEntity(&modelSub), nil
}

func (r *subTransactionRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.SubTransaction, error) {
	var modelSubs []*model.SubTransaction
	query := r.db.WithContext(ctx)

	for _, spec := range specs {
		query = spec.Apply(query)
	}

	if err := query.Find(&modelSubs).Error; err != nil {
		return nil, err
	}

	var subs []*entity.SubTransaction
	for _, ms := range modelSubs {
		subs = append(subs, mapSubToEntity(ms))
	}

	return subs, nil
}

func (r *subTransactionRepositoryImpl) UpdateStatus(ctx context.Context, id uuid.UUID, status entity.SubStatus, paymentId, refundId string) error {
	updates := map[string]interface{}{
		"status":     string(status),
		"updated_at": time.Now(),
	}
	if paymentId != "" {
		updates["gateway_payment_id"] = paymentId
	}
	if refundId != "" {
		updates["refund_id"] = refundId
	}

	return r.db.WithContext(ctx).Model(&model.SubTransaction{}).
		Where("id = ?", id).
		Updates(updates).Error
}

func (r *subTransactionRepositoryImpl) FailAllInitiated(ctx context.Context, masterTxnId uuid.UUID) (int64, error) {
	res := r.db.WithContext(ctx).Model(&model.SubTransaction{}).
		Where("master_txn_id = ? AND status = ?", masterTxnId, string(entity.SubStatusInitiated)).
		Updates(map[string]interface{}{
			"status":     string(entity.SubStatusFailed),
			"updated_at": time.Now(),
		})
	return res.RowsAffected, res.Error
}

// mapSubToEntity converts model.SubTransaction to entity.SubTransaction
func mapSubToEntity(ms *model.SubTransaction) *entity.SubTransaction {
	return &entity.SubTransaction{
		Id:               ms.Id,
		MasterTxnId:      ms.MasterTxnId,
		SourceType:       ms.SourceType,
		Amount:           ms.Amount,
		GatewayOrderId:   ms.GatewayOrderId,
		GatewayPaymentId: ms.GatewayPaymentId,
		Status:           entity.SubStatus(ms.Status),
		RefundId:         ms.RefundId,
		CreatedAt:        ms.CreatedAt,
		UpdatedAt:        ms.UpdatedAt,
	}
}
