package implementation

import (
	"context"

	"github.com/Tusharjain-19/split-payment/internal/entity"
	"github.com/Tusharjain-19/split-payment/internal/model"
	"github.com/Tusharjain-19/split-payment/internal/repository/contract"
	"github.com/Tusharjain-19/split-payment/internal/repository/specification"
	"gorm.io/gorm"
)

type refundRepositoryImpl struct {
	db *gorm.DB
}

func NewRefundRepository(db *gorm.DB) contract.RefundRepository {
	return &refundRepositoryImpl{db: db}
}

func (r *refundRepositoryImpl) Create(ctx context.Context, refund *entity.Refund) error {
	modelRefund := &model.Refund{
		Id:              refund.Id,
		SubTxnId:        refund.SubTxnId,
		Amount:          refund.Amount,
		GatewayRefundId: refund.GatewayRefundId,
		Status:          string(refund.Status),
		RetryCount:      refund.RetryCount,
	}
	return r.db.WithContext(ctx).Create(modelRefund).Error
}

func (r *refundRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Refund, error) {
	var modelRefunds []*model.Refund
	query := r.db.WithContext(ctx)

	for _, spec := range specs {
		query = spec.Apply(query)
	}

	if err := query.Find(&modelRefunds).Error; err != nil {
		return nil, err
	}

	var refunds []*entity.Refund
	for _, mr := range modelRefunds {
		refunds = append(refunds, &entity.Refund{
			Id:              mr.Id,
			SubTxnId:        mr.SubTxnId,
			Amount:          mr.Amount,
			GatewayRefundId: mr.GatewayRefundId,
			Status:          entity.RefundStatus(mr.Status),
			RetryCount:      mr.RetryCount,
			CreatedAt:       mr.CreatedAt,
		})
	}

	return refunds, nil
}
