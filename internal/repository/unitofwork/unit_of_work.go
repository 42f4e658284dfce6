package unitofwork

import (
	"context"

	"github.com/Tusharjain-19/split-payment/internal/repository/contract"
)

type UnitOfWork interface {
	Begin(ctx context.Context) error
	Commit() error
	Rollback() error

	MasterTransactionRepository() contract.MasterTransactionRepository
	SubTransactionRepository() contract.SubTransactionRepository
	RefundRepository() contract.RefundRepository
	AuditLogRepository() contract.AuditLogRepository
	EmailLogRepository() contract.EmailLogRepository
}
