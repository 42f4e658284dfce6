package contract

import (
	"context"

	"github.com/Tusharjain-19/split-payment/internal/entity"
	"github.com/Tusharjain-19/split-payment/internal/repository/specification"
)

// AuditLogRepository is append-only.
type AuditLogRepository interface {
	Create(ctx context.Context, log *entity.AuditLog) error
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.AuditLog, error)
}
