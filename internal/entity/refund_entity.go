package entity

import (
	"time"

	"github.com/google/uuid"
)

// RefundStatus is the outcome of one refund attempt.
type RefundStatus string

const (
	RefundStatusSuccess RefundStatus = "SUCCESS"
	RefundStatusFailed  RefundStatus = "FAILED"
)

// Refund is one compensation attempt against a sub-transaction. Rows are
// append-only; a retried refund gets a new row.
type Refund struct {
	Id              uuid.UUID
	SubTxnId        uuid.UUID
	Amount          float64
	GatewayRefundId string
	Status          RefundStatus
	RetryCount      int
	CreatedAt       time.Time
}
