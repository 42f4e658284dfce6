package contract

import (
	"context"

	"github.com/Tusharjain-19/split-payment/internal/entity"
	"github.com/Tusharjain-19/split-payment/internal/repository/specification"
	"github.com/google/uuid"
)

type MasterTransactionRepository interface {
	Create(ctx context.Context, master *entity.MasterTransaction) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.MasterTransaction, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.MasterTransaction, error)
	// FindAllWithLegs preloads the sub-transactions of each master.
	FindAllWithLegs(ctx context.Context, specs ...specification.Specification) ([]*entity.MasterTransaction, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status entity.MasterStatus) error
}
