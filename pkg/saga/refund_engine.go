package saga

import (
	"context"
	"fmt"
	"math"

	"github.com/Tusharjain-19/split-payment/internal/entity"
	"github.com/Tusharjain-19/split-payment/internal/pkg/apperrors"
	"github.com/Tusharjain-19/split-payment/internal/pkg/logger"
	"github.com/Tusharjain-19/split-payment/internal/repository/specification"
	"github.com/Tusharjain-19/split-payment/internal/repository/unitofwork"
	"github.com/Tusharjain-19/split-payment/pkg/gateway"
	"github.com/google/uuid"
)

// SyntheticRefPredicate reports whether a payment reference is a test marker
// that must never reach the gateway. Injected from config.
type SyntheticRefPredicate func(paymentRef string) bool

// RefundEngine issues the compensating refund for one leg. Refund is
// idempotent per leg: a leg already REFUNDED is skipped without a gateway
// call or a new refund row.
type RefundEngine struct {
	uowFactory  unitofwork.RepositoryFactory
	gateway     gateway.Client
	isSynthetic SyntheticRefPredicate
	minorUnit   int64
	logger      logger.ILogger
}

func NewRefundEngine(
	uowFactory unitofwork.RepositoryFactory,
	gatewayClient gateway.Client,
	isSynthetic SyntheticRefPredicate,
	minorUnit int64,
	logger logger.ILogger,
) *RefundEngine {
	return &RefundEngine{
		uowFactory:  uowFactory,
		gateway:     gatewayClient,
		isSynthetic: isSynthetic,
		minorUnit:   minorUnit,
		logger:      logger,
	}
}

// Refund compensates a single sub-transaction.
//
// On gateway failure the leg keeps its SUCCESS status so a later pass can
// retry, and a FAILED refund row records the attempt. The error is returned
// so the coordinator can log it, but the coordinator never aborts sibling
// refunds because of it.
func (e *RefundEngine) Refund(ctx context.Context, subTxnId uuid.UUID, amount float64) error {
	uow := e.uowFactory.NewUnitOfWork(ctx)

	sub, err := uow.SubTransactionRepository().FindOne(ctx, specification.ByID{ID: subTxnId})
	if err != nil {
		return err
	}
	if sub == nil {
		return apperrors.NewNotFound("sub transaction", subTxnId.String())
	}

	if sub.Status == entity.SubStatusRefunded {
		e.logger.Info("refund-engine", "skip: already refunded", map[string]interface{}{
			"sub_txn_id": subTxnId.String(),
		})
		return nil
	}

	refundRef := fmt.Sprintf("sim_ref_%s", subTxnId.String()[:8])
	if sub.GatewayPaymentId != "" && !e.isSynthetic(sub.GatewayPaymentId) {
		ref, gwErr := e.gateway.Refund(ctx, sub.GatewayPaymentId, toMinorUnit(amount, e.minorUnit), map[string]interface{}{
			"sub_txn_id": subTxnId.String(),
		})
		if gwErr != nil {
			record := &entity.Refund{
				Id:         uuid.New(),
				SubTxnId:   subTxnId,
				Amount:     amount,
				Status:     entity.RefundStatusFailed,
				RetryCount: 1,
			}
			if createErr := uow.RefundRepository().Create(ctx, record); createErr != nil {
				e.logger.Error("refund-engine", "failed to record failed refund attempt", map[string]interface{}{
					"sub_txn_id": subTxnId.String(),
					"error":      createErr.Error(),
				})
			}
			return gwErr
		}
		refundRef = ref
	}

	// Refund row and leg flip commit together; a crash between them would
	// otherwise leave a refunded leg that still looks refundable.
	if err := uow.Begin(ctx); err != nil {
		return err
	}
	defer uow.Rollback()

	record := &entity.Refund{
		Id:              uuid.New(),
		SubTxnId:        subTxnId,
		Amount:          amount,
		GatewayRefundId: refundRef,
		Status:          entity.RefundStatusSuccess,
	}
	if err := uow.RefundRepository().Create(ctx, record); err != nil {
		return err
	}

	if err := uow.SubTransactionRepository().UpdateStatus(ctx, subTxnId, entity.SubStatusRefunded, "", refundRef); err != nil {
		return err
	}

	if err := uow.Commit(); err != nil {
		return err
	}

	e.logger.Info("refund-engine", "refund successful", map[string]interface{}{
		"sub_txn_id":        subTxnId.String(),
		"gateway_refund_id": refundRef,
		"amount":            amount,
	})
	return nil
}

func toMinorUnit(amount float64, multiplier int64) int64 {
	return int64(math.Round(amount * float64(multiplier)))
}
