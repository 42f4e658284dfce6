package dto

import "github.com/google/uuid"

// PaymentNotificationMessage is the payload carried on the in-process
// notification topic between the saga and the email consumer.
type PaymentNotificationMessage struct {
	MasterTxnId uuid.UUID `json:"master_txn_id"`
	Email       string    `json:"email"`
	TotalAmount float64   `json:"total_amount"`
	Currency    string    `json:"currency"`
	Reason      string    `json:"reason,omitempty"`
	Type        string    `json:"type"` // "SUCCESS" or "FAILED"
}
