package contract

import (
	"context"

	"github.com/Tusharjain-19/split-payment/internal/entity"
	"github.com/Tusharjain-19/split-payment/internal/repository/specification"
)

// RefundRepository is append-only: refund rows are never updated or deleted,
// each attempt gets its own row so retry history survives.
type RefundRepository interface {
	Create(ctx context.Context, refund *entity.Refund) error
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Refund, error)
}
