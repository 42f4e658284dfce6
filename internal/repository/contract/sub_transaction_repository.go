package contract

import (
	"context"

	"github.com/Tusharjain-19/split-payment/internal/entity"
	"github.com/Tusharjain-19/split-payment/internal/repository/specification"
	"github.com/google/uuid"
)

type SubTransactionRepository interface {
	Create(ctx context.Context, sub *entity.SubTransaction) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.SubTransaction, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.SubTransaction, error)
	// UpdateStatus sets the leg status; paymentId and refundId are applied
	// only when non-empty.
	UpdateStatus(ctx context.Context, id uuid.UUID, status entity.SubStatus, paymentId, refundId string) error
	// FailAllInitiated moves every INITIATED leg of the master to FAILED and
	// reports how many rows were touched.
	FailAllInitiated(ctx context.Context, masterTxnId uuid.UUID) (int64, error)
}
