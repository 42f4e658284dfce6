package worker

import (
	"context"
	"time"

	"github.com/Tusharjain-19/split-payment/internal/entity"
	"github.com/Tusharjain-19/split-payment/internal/pkg/logger"
	"github.com/Tusharjain-19/split-payment/internal/repository/specification"
	"github.com/Tusharjain-19/split-payment/internal/repository/unitofwork"
	"github.com/Tusharjain-19/split-payment/pkg/saga"
)

// ExpiryWorker periodically forces overdue PENDING masters to a terminal
// state. Each master is handled independently so one bad purchase never
// blocks the rest of the sweep.
type ExpiryWorker struct {
	uowFactory  unitofwork.RepositoryFactory
	coordinator *saga.Coordinator
	perMaster   time.Duration
	logger      logger.ILogger
}

func NewExpiryWorker(
	uowFactory unitofwork.RepositoryFactory,
	coordinator *saga.Coordinator,
	perMaster time.Duration,
	logger logger.ILogger,
) *ExpiryWorker {
	return &ExpiryWorker{
		uowFactory:  uowFactory,
		coordinator: coordinator,
		perMaster:   perMaster,
		logger:      logger,
	}
}

// Sweep expires every PENDING master whose deadline has passed. It returns
// the number of masters it attempted; individual failures are logged and
// skipped.
func (w *ExpiryWorker) Sweep(ctx context.Context) (int, error) {
	uow := w.uowFactory.NewUnitOfWork(ctx)
	expired, err := uow.MasterTransactionRepository().FindAll(ctx,
		specification.Filter("status", string(entity.MasterStatusPending)),
		specification.ExpiredBefore{Now: time.Now()},
	)
	if err != nil {
		return 0, err
	}
	if len(expired) == 0 {
		return 0, nil
	}

	w.logger.Info("expiry-worker", "sweeping expired masters", map[string]interface{}{
		"count": len(expired),
	})

	for _, master := range expired {
		masterCtx, cancel := context.WithTimeout(ctx, w.perMaster)
		err := w.coordinator.ExpireMaster(masterCtx, master.Id)
		cancel()
		if err != nil {
			w.logger.Error("expiry-worker", "failed to expire master, will retry next sweep", map[string]interface{}{
				"master_txn_id": master.Id.String(),
				"error":         err.Error(),
			})
		}
	}

	return len(expired), nil
}
