package contract

import (
	"context"

	"github.com/Tusharjain-19/split-payment/internal/entity"
)

type EmailLogRepository interface {
	Create(ctx context.Context, log *entity.EmailLog) error
}
