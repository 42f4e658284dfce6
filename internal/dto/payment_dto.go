package dto

import (
	"time"

	"github.com/google/uuid"
)

// --- Requests ---

type SplitSourceRequest struct {
	Type   string  `json:"type" validate:"required,min=2,max=50"`
	Amount float64 `json:"amount" validate:"required,gt=0"`
}

type CreateSplitRequest struct {
	PayerId     string               `json:"payer_id" validate:"required"`
	PayerEmail  string               `json:"payer_email" validate:"required,email"`
	TotalAmount float64              `json:"total_amount" validate:"required,gt=0"`
	Sources     []SplitSourceRequest `json:"sources" validate:"required,min=1,dive"`
}

type VerifyPaymentRequest struct {
	SubTxnId          uuid.UUID `json:"sub_txn_id" validate:"required"`
	RazorpayPaymentId string    `json:"razorpay_payment_id" validate:"required"`
	RazorpayOrderId   string    `json:"razorpay_order_id" validate:"required"`
	RazorpaySignature string    `json:"razorpay_signature" validate:"required"`
}

type PaymentFailureRequest struct {
	SubTxnId uuid.UUID `json:"sub_txn_id" validate:"required"`
}

// --- Responses ---

type SplitOrderResponse struct {
	SubTxnId   uuid.UUID `json:"sub_txn_id"`
	OrderId    string    `json:"order_id"`
	SourceType string    `json:"type"`
	Amount     float64   `json:"amount"`
}

type CreateSplitResponse struct {
	MasterTxnId   uuid.UUID            `json:"master_txn_id"`
	Orders        []SplitOrderResponse `json:"orders"`
	RazorpayKeyId string               `json:"razorpay_key_id"`
}

type SubTransactionResponse struct {
	Id               uuid.UUID `json:"id"`
	SourceType       string    `json:"type"`
	Amount           float64   `json:"amount"`
	Status           string    `json:"status"`
	GatewayOrderId   string    `json:"gateway_order_id,omitempty"`
	GatewayPaymentId string    `json:"gateway_payment_id,omitempty"`
	RefundId         string    `json:"refund_id,omitempty"`
	UpdatedAt        time.Time `json:"updated_at"`
}

type MasterTransactionResponse struct {
	Id          uuid.UUID `json:"id"`
	PayerId     string    `json:"payer_id"`
	PayerEmail  string    `json:"payer_email"`
	TotalAmount float64   `json:"total_amount"`
	Status      string    `json:"status"`
	ExpiresAt   time.Time `json:"expires_at"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type PaymentStatusResponse struct {
	Master          MasterTransactionResponse `json:"master"`
	SubTransactions []SubTransactionResponse  `json:"sub_transactions"`
}

type TransactionHistoryResponse struct {
	Transactions []PaymentStatusResponse `json:"transactions"`
}
