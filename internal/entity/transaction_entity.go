package entity

import (
	"time"

	"github.com/google/uuid"
)

// MasterStatus is the aggregate status of a split purchase. It is only ever
// written through the state machine.
type MasterStatus string

// SubStatus is the status of a single payment leg.
type SubStatus string

const (
	MasterStatusPending          MasterStatus = "PENDING"
	MasterStatusProcessingRefund MasterStatus = "PROCESSING_REFUND"
	MasterStatusSuccess          MasterStatus = "SUCCESS"
	MasterStatusFailed           MasterStatus = "FAILED"
	MasterStatusExpired          MasterStatus = "EXPIRED"
	MasterStatusFailedRefunded   MasterStatus = "FAILED_REFUNDED"
	MasterStatusExpiredRefunded  MasterStatus = "EXPIRED_REFUNDED"

	SubStatusInitiated SubStatus = "INITIATED"
	SubStatusSuccess   SubStatus = "SUCCESS"
	SubStatusFailed    SubStatus = "FAILED"
	SubStatusRefunded  SubStatus = "REFUNDED"
)

// MasterTransaction is the aggregate record for one logical purchase. Legs
// never outlive their master.
type MasterTransaction struct {
	Id          uuid.UUID
	PayerId     string
	PayerEmail  string
	TotalAmount float64
	Status      MasterStatus
	ExpiresAt   time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time

	SubTransactions []*SubTransaction
}

// SubTransaction is one payment-source-specific settlement (a leg) of a
// master transaction.
type SubTransaction struct {
	Id               uuid.UUID
	MasterTxnId      uuid.UUID
	SourceType       string
	Amount           float64
	GatewayOrderId   string
	GatewayPaymentId string
	Status           SubStatus
	RefundId         string
	CreatedAt        time.Time
	UpdatedAt        time.Time
}
