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

// validTransitions is the full edge table for master transaction statuses.
// Everything not listed is terminal.
var validTransitions = map[entity.MasterStatus][]entity.MasterStatus{
	entity.MasterStatusPending: {
		entity.MasterStatusSuccess,
		entity.MasterStatusProcessingRefund,
		entity.MasterStatusExpired,
		entity.MasterStatusFailed,
	},
	entity.MasterStatusProcessingRefund: {
		entity.MasterStatusFailedRefunded,
		entity.MasterStatusExpiredRefunded,
		entity.MasterStatusFailed,
	},
	// FAILED and EXPIRED may re-enter the refund flow so outstanding
	// compensations can be retried.
	entity.MasterStatusFailed:  {entity.MasterStatusProcessingRefund},
	entity.MasterStatusExpired: {entity.MasterStatusProcessingRefund},

	entity.MasterStatusSuccess:         {},
	entity.MasterStatusFailedRefunded:  {},
	entity.MasterStatusExpiredRefunded: {},
}

// StateMachine owns every write to MasterTransaction.status. Each transition
// is committed together with its audit entry in one database transaction.
type StateMachine struct {
	uowFactory unitofwork.RepositoryFactory
	logger     logger.ILogger
}

func NewStateMachine(uowFactory unitofwork.RepositoryFactory, logger logger.ILogger) *StateMachine {
	return &StateMachine{
		uowFactory: uowFactory,
		logger:     logger,
	}
}

// Transition moves the master to newStatus.
//
// Re-applying the current status is a no-op: zero writes, zero audit rows,
// nil error. Re-entrant triggers rely on this. An edge missing from the
// table is a contract violation and fails with InvalidTransitionError.
func (sm *StateMachine) Transition(ctx context.Context, masterTxnId uuid.UUID, newStatus entity.MasterStatus, metadata map[string]interface{}) error {
	uow := sm.uowFactory.NewUnitOfWork(ctx)
	if err := uow.Begin(ctx); err != nil {
		return err
	}
	defer uow.Rollback()

	master, err := uow.MasterTransactionRepository().FindOne(ctx,
		specification.ByID{ID: masterTxnId},
		specification.LockForUpdate{},
	)
	if err != nil {
		return err
	}
	if master == nil {
		return apperrors.NewNotFound("master transaction", masterTxnId.String())
	}

	oldStatus := master.Status
	if oldStatus == newStatus {
		return nil
	}

	if !edgeAllowed(oldStatus, newStatus) {
		return &apperrors.InvalidTransitionError{
			MasterTxnId: masterTxnId.String(),
			From:        string(oldStatus),
			To:          string(newStatus),
		}
	}

	if err := uow.MasterTransactionRepository().UpdateStatus(ctx, masterTxnId, newStatus); err != nil {
		return err
	}

	auditEntry := &entity.AuditLog{
		Id:          uuid.New(),
		MasterTxnId: masterTxnId,
		EventType:   entity.AuditEventStatusChange,
		OldStatus:   oldStatus,
		NewStatus:   newStatus,
		Metadata:    metadata,
	}
	if err := uow.AuditLogRepository().Create(ctx, auditEntry); err != nil {
		return err
	}

	if err := uow.Commit(); err != nil {
		return err
	}

	sm.logger.Info("state-machine", "status transition", map[string]interface{}{
		"master_txn_id": masterTxnId.String(),
		"old_status":    string(oldStatus),
		"new_status":    string(newStatus),
	})
	return nil
}

func edgeAllowed(from, to entity.MasterStatus) bool {
	for _, allowed := range validTransitions[from] {
		if allowed == to {
			return true
		}
	}
	return false
}
