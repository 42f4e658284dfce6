// Package saga drives a split purchase to exactly one terminal outcome:
// either every leg settles and the master is SUCCESS, or every settled leg
// is refunded and the master is FAILED (EXPIRED when nothing ever settled).
package saga

import (
	"context"

	"github.com/Tusharjain-19/split-payment/internal/entity"
	"github.com/Tusharjain-19/split-payment/internal/pkg/apperrors"
	"github.com/Tusharjain-19/split-payment/internal/pkg/logger"
	"github.com/Tusharjain-19/split-payment/internal/repository/specification"
	"github.com/Tusharjain-19/split-payment/internal/repository/unitofwork"
	"github.com/google/uuid"
)

// Notifier requests user-facing notifications. Implementations must never
// fail back into the saga; delivery problems are theirs to log.
type Notifier interface {
	NotifySuccess(ctx context.Context, master *entity.MasterTransaction)
	NotifyFailure(ctx context.Context, master *entity.MasterTransaction, reason string)
}

// Coordinator is the single convergence point for a split purchase. Every
// trigger (gateway webhook, client failure report, expiry sweep) funnels into
// it, and each entry point holds the per-master lock across the leg update
// and the resolve pass that follows.
type Coordinator struct {
	uowFactory   unitofwork.RepositoryFactory
	stateMachine *StateMachine
	refundEngine *RefundEngine
	notifier     Notifier
	locks        *KeyedMutex
	logger       logger.ILogger
}

func NewCoordinator(
	uowFactory unitofwork.RepositoryFactory,
	stateMachine *StateMachine,
	refundEngine *RefundEngine,
	notifier Notifier,
	locks *KeyedMutex,
	logger logger.ILogger,
) *Coordinator {
	return &Coordinator{
		uowFactory:   uowFactory,
		stateMachine: stateMachine,
		refundEngine: refundEngine,
		notifier:     notifier,
		locks:        locks,
		logger:       logger,
	}
}

// MarkLegSucceeded records a gateway-confirmed settlement for one leg and
// resolves the master. Proof validation happens before this is called.
func (c *Coordinator) MarkLegSucceeded(ctx context.Context, subTxnId uuid.UUID, gatewayPaymentId string) error {
	return c.reportLegOutcome(ctx, subTxnId, entity.SubStatusSuccess, gatewayPaymentId)
}

// MarkLegFailed records a failed or cancelled leg and resolves the master.
func (c *Coordinator) MarkLegFailed(ctx context.Context, subTxnId uuid.UUID) error {
	return c.reportLegOutcome(ctx, subTxnId, entity.SubStatusFailed, "")
}

func (c *Coordinator) reportLegOutcome(ctx context.Context, subTxnId uuid.UUID, status entity.SubStatus, gatewayPaymentId string) error {
	uow := c.uowFactory.NewUnitOfWork(ctx)
	sub, err := uow.SubTransactionRepository().FindOne(ctx, specification.ByID{ID: subTxnId})
	if err != nil {
		return err
	}
	if sub == nil {
		return apperrors.NewNotFound("sub transaction", subTxnId.String())
	}

	unlock, err := c.locks.Lock(ctx, sub.MasterTxnId)
	if err != nil {
		return err
	}
	defer unlock()

	// Re-read under the lock: the first recorded outcome wins. A duplicate
	// delivery or a report racing the sweeper must not overwrite a leg that
	// already settled, failed or was refunded.
	sub, err = uow.SubTransactionRepository().FindOne(ctx, specification.ByID{ID: subTxnId})
	if err != nil {
		return err
	}
	if sub == nil {
		return apperrors.NewNotFound("sub transaction", subTxnId.String())
	}
	if sub.Status == entity.SubStatusInitiated {
		if err := uow.SubTransactionRepository().UpdateStatus(ctx, subTxnId, status, gatewayPaymentId, ""); err != nil {
			return err
		}
	} else if sub.Status != status {
		c.logger.Warn("saga", "ignoring conflicting leg outcome report", map[string]interface{}{
			"sub_txn_id":      subTxnId.String(),
			"recorded_status": string(sub.Status),
			"reported_status": string(status),
		})
	}

	return c.resolve(ctx, sub.MasterTxnId)
}

// Resolve converges one master transaction from whatever state its legs are
// in. Safe to call any number of times, from any trigger, concurrently.
func (c *Coordinator) Resolve(ctx context.Context, masterTxnId uuid.UUID) error {
	unlock, err := c.locks.Lock(ctx, masterTxnId)
	if err != nil {
		return err
	}
	defer unlock()

	return c.resolve(ctx, masterTxnId)
}

// ExpireMaster forces a PENDING master past its deadline to a terminal
// state. A master whose legs never left INITIATED goes straight to EXPIRED;
// anything with settled or failed legs is pushed through the normal
// compensation path and lands on FAILED.
func (c *Coordinator) ExpireMaster(ctx context.Context, masterTxnId uuid.UUID) error {
	unlock, err := c.locks.Lock(ctx, masterTxnId)
	if err != nil {
		return err
	}
	defer unlock()

	uow := c.uowFactory.NewUnitOfWork(ctx)
	master, err := uow.MasterTransactionRepository().FindOne(ctx, specification.ByID{ID: masterTxnId})
	if err != nil {
		return err
	}
	if master == nil || master.Status != entity.MasterStatusPending {
		// Another trigger converged it while we waited on the lock.
		return nil
	}

	subs, err := uow.SubTransactionRepository().FindAll(ctx, specification.ByMasterTxn{MasterTxnID: masterTxnId})
	if err != nil {
		return err
	}

	hasOutcome := false
	for _, sub := range subs {
		if sub.Status == entity.SubStatusSuccess || sub.Status == entity.SubStatusFailed {
			hasOutcome = true
			break
		}
	}

	if _, err := uow.SubTransactionRepository().FailAllInitiated(ctx, masterTxnId); err != nil {
		return err
	}

	if !hasOutcome {
		// Nobody ever touched it: EXPIRED, with nothing to compensate.
		return c.stateMachine.Transition(ctx, masterTxnId, entity.MasterStatusExpired, map[string]interface{}{
			"reason": "TTL exceeded",
		})
	}

	return c.resolve(ctx, masterTxnId)
}

// resolve runs the classification pass. Callers hold the master lock.
func (c *Coordinator) resolve(ctx context.Context, masterTxnId uuid.UUID) error {
	uow := c.uowFactory.NewUnitOfWork(ctx)

	master, err := uow.MasterTransactionRepository().FindOne(ctx, specification.ByID{ID: masterTxnId})
	if err != nil {
		return err
	}
	if master == nil {
		// Nothing to resolve; unknown masters are not an error here.
		return nil
	}

	subs, err := uow.SubTransactionRepository().FindAll(ctx, specification.ByMasterTxn{MasterTxnID: masterTxnId})
	if err != nil {
		return err
	}
	if len(subs) == 0 {
		return nil
	}

	allSuccess := true
	anyFailed := false
	hasRefundableLeg := false
	for _, sub := range subs {
		if sub.Status != entity.SubStatusSuccess {
			allSuccess = false
		}
		if sub.Status == entity.SubStatusFailed {
			anyFailed = true
		}
		if sub.Status == entity.SubStatusSuccess {
			hasRefundableLeg = true
		}
	}

	switch master.Status {
	case entity.MasterStatusSuccess, entity.MasterStatusExpired,
		entity.MasterStatusFailedRefunded, entity.MasterStatusExpiredRefunded:
		// Already terminal; repeated triggers change nothing.
		return nil
	case entity.MasterStatusFailed:
		if !hasRefundableLeg {
			return nil
		}
		// Re-enter compensation to retry outstanding refunds.
	}

	c.logger.Debug("saga", "resolving master", map[string]interface{}{
		"master_txn_id": masterTxnId.String(),
		"leg_statuses":  legStatuses(subs),
	})

	if allSuccess {
		if err := c.stateMachine.Transition(ctx, masterTxnId, entity.MasterStatusSuccess, map[string]interface{}{
			"reason": "all sub-payments completed",
		}); err != nil {
			return err
		}
		c.notifier.NotifySuccess(ctx, master)
		return nil
	}

	if anyFailed {
		return c.compensate(ctx, master, subs)
	}

	// Mix of INITIATED and SUCCESS: still in flight, nothing to do yet.
	return nil
}

// compensate refunds every settled leg and lands the master on FAILED. A
// single failed refund never aborts the loop; the leg stays SUCCESS and the
// next resolve retries it.
func (c *Coordinator) compensate(ctx context.Context, master *entity.MasterTransaction, subs []*entity.SubTransaction) error {
	if err := c.stateMachine.Transition(ctx, master.Id, entity.MasterStatusProcessingRefund, map[string]interface{}{
		"reason": "sub-payment failure detected",
	}); err != nil {
		return err
	}

	var refundedTotal float64
	for _, sub := range subs {
		if sub.Status != entity.SubStatusSuccess {
			continue
		}
		if err := c.refundEngine.Refund(ctx, sub.Id, sub.Amount); err != nil {
			c.logger.Error("saga", "refund failed, continuing with remaining legs", map[string]interface{}{
				"master_txn_id": master.Id.String(),
				"sub_txn_id":    sub.Id.String(),
				"error":         err.Error(),
			})
			continue
		}
		refundedTotal += sub.Amount
	}

	if err := c.stateMachine.Transition(ctx, master.Id, entity.MasterStatusFailed, map[string]interface{}{
		"reason":         "split payment failed",
		"refundedAmount": refundedTotal,
	}); err != nil {
		return err
	}

	// Only the first arrival at FAILED notifies the payer. A refund-retry
	// re-entry (FAILED -> PROCESSING_REFUND -> FAILED) stays silent.
	if master.Status != entity.MasterStatusFailed {
		c.notifier.NotifyFailure(ctx, master, "One or more of your split payments failed. Refunds have been initiated for successful parts.")
	}
	return nil
}

func legStatuses(subs []*entity.SubTransaction) []string {
	statuses := make([]string, 0, len(subs))
	for _, sub := range subs {
		statuses = append(statuses, string(sub.Status))
	}
	return statuses
}
