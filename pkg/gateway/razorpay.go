package gateway

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/Tusharjain-19/split-payment/internal/pkg/apperrors"
	razorpay "github.com/razorpay/razorpay-go"
)

type razorpayClient struct {
	client    *razorpay.Client
	keySecret string
}

// NewRazorpayClient builds a gateway client over the Razorpay REST API.
// Timeout bounds every outgoing call so a stalled gateway cannot hang the
// resolver or the sweeper batch.
func NewRazorpayClient(keyId, keySecret string, timeout time.Duration) Client {
	client := razorpay.NewClient(keyId, keySecret)
	client.SetTimeout(int16(timeout.Seconds()))

	return &razorpayClient{
		client:    client,
		keySecret: keySecret,
	}
}

func (c *razorpayClient) CreateOrder(ctx context.Context, amountMinor int64, currency, receiptId string, notes map[string]interface{}) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", &apperrors.GatewayError{Op: "create_order", Err: err}
	}

	data := map[string]interface{}{
		"amount":   amountMinor,
		"currency": currency,
		"receipt":  receiptId,
	}
	if notes != nil {
		data["notes"] = notes
	}

	order, err := c.client.Order.Create(data, nil)
	if err != nil {
		return "", &apperrors.GatewayError{Op: "create_order", Err: err}
	}

	orderRef, ok := order["id"].(string)
	if !ok || orderRef == "" {
		return "", &apperrors.GatewayError{Op: "create_order", Err: fmt.Errorf("gateway response missing order id")}
	}

	return orderRef, nil
}

func (c *razorpayClient) Refund(ctx context.Context, paymentRef string, amountMinor int64, notes map[string]interface{}) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", &apperrors.GatewayError{Op: "refund", Err: err}
	}

	data := map[string]interface{}{}
	if notes != nil {
		data["notes"] = notes
	}

	refund, err := c.client.Payment.Refund(paymentRef, int(amountMinor), data, nil)
	if err != nil {
		return "", &apperrors.GatewayError{Op: "refund", Err: err}
	}

	refundRef, ok := refund["id"].(string)
	if !ok || refundRef == "" {
		return "", &apperrors.GatewayError{Op: "refund", Err: fmt.Errorf("gateway response missing refund id")}
	}

	return refundRef, nil
}

// VerifySignature checks the HMAC-SHA256 proof Razorpay attaches to a
// completed checkout: sign(orderRef + "|" + paymentRef) with the key secret.
func (c *razorpayClient) VerifySignature(orderRef, paymentRef, signature string) bool {
	mac := hmac.New(sha256.New, []byte(c.keySecret))
	mac.Write([]byte(orderRef + "|" + paymentRef))
	expected := hex.EncodeToString(mac.Sum(nil))

	return hmac.Equal([]byte(expected), []byte(signature))
}
