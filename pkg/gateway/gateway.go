// Package gateway defines the payment gateway contract consumed by the saga
// core. The saga only ever sees this interface; the Razorpay implementation
// lives behind it.
package gateway

import "context"

// Client is the surface the payment core needs from an external gateway.
// Every call may fail with an apperrors.GatewayError.
type Client interface {
	// CreateOrder registers a gateway order for one payment leg. Amount is in
	// the currency's minor unit (paise for INR).
	CreateOrder(ctx context.Context, amountMinor int64, currency, receiptId string, notes map[string]interface{}) (orderRef string, err error)

	// Refund reverses a captured payment, fully or partially.
	Refund(ctx context.Context, paymentRef string, amountMinor int64, notes map[string]interface{}) (refundRef string, err error)

	// VerifySignature checks the gateway's HMAC proof that paymentRef settled
	// orderRef.
	VerifySignature(orderRef, paymentRef, signature string) bool
}
