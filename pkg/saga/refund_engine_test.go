package saga

import (
	"context"
	"errors"
	"testing"

	"github.com/Tusharjain-19/split-payment/internal/entity"
	"github.com/Tusharjain-19/split-payment/internal/pkg/apperrors"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRefundSettledLeg(t *testing.T) {
	h := newHarness()
	_, subIds := h.seedMaster(entity.MasterStatusProcessingRefund, entity.SubStatusSuccess)

	err := h.refundEngine.Refund(context.Background(), subIds[0], 100)

	require.NoError(t, err)
	assert.Equal(t, 1, h.gateway.refundCount())

	sub := h.store.Sub(subIds[0])
	assert.Equal(t, entity.SubStatusRefunded, sub.Status)
	assert.Equal(t, "rfnd_pay_real_0", sub.RefundId)

	refunds := h.store.Refunds(subIds[0])
	require.Len(t, refunds, 1)
	assert.Equal(t, entity.RefundStatusSuccess, refunds[0].Status)
	assert.Equal(t, 100.0, refunds[0].Amount)
}

func TestRefundAlreadyRefundedLegIsSkipped(t *testing.T) {
	h := newHarness()
	_, subIds := h.seedMaster(entity.MasterStatusProcessingRefund, entity.SubStatusRefunded)

	err := h.refundEngine.Refund(context.Background(), subIds[0], 100)

	require.NoError(t, err)
	assert.Zero(t, h.gateway.refundCount(), "a refunded leg must never hit the gateway again")
	assert.Empty(t, h.store.Refunds(subIds[0]), "a skipped refund must not add rows")
}

func TestRefundSyntheticPaymentIsSimulated(t *testing.T) {
	h := newHarness()
	_, subIds := h.seedMaster(entity.MasterStatusProcessingRefund, entity.SubStatusSuccess)

	// Overwrite the gateway reference with a synthetic test marker.
	uow := memoryUow(h)
	require.NoError(t, uow.SubTransactionRepository().UpdateStatus(context.Background(), subIds[0], entity.SubStatusSuccess, "pay_test_fake_123", ""))

	err := h.refundEngine.Refund(context.Background(), subIds[0], 100)

	require.NoError(t, err)
	assert.Zero(t, h.gateway.refundCount(), "synthetic references must never reach the gateway")

	sub := h.store.Sub(subIds[0])
	assert.Equal(t, entity.SubStatusRefunded, sub.Status)
	assert.Contains(t, sub.RefundId, "sim_ref_")

	refunds := h.store.Refunds(subIds[0])
	require.Len(t, refunds, 1)
	assert.Equal(t, entity.RefundStatusSuccess, refunds[0].Status)
}

func TestRefundGatewayFailureKeepsLegRetryable(t *testing.T) {
	h := newHarness()
	_, subIds := h.seedMaster(entity.MasterStatusProcessingRefund, entity.SubStatusSuccess)
	h.gateway.refundErr = errors.New("gateway down")

	err := h.refundEngine.Refund(context.Background(), subIds[0], 100)

	require.Error(t, err)
	assert.Equal(t, entity.SubStatusSuccess, h.store.Sub(subIds[0]).Status, "the leg must stay refundable after a gateway failure")

	refunds := h.store.Refunds(subIds[0])
	require.Len(t, refunds, 1)
	assert.Equal(t, entity.RefundStatusFailed, refunds[0].Status)
	assert.Equal(t, 1, refunds[0].RetryCount)

	// A later pass succeeds and appends its own row.
	h.gateway.refundErr = nil
	require.NoError(t, h.refundEngine.Refund(context.Background(), subIds[0], 100))
	assert.Equal(t, entity.SubStatusRefunded, h.store.Sub(subIds[0]).Status)
	assert.Len(t, h.store.Refunds(subIds[0]), 2)
}

func TestRefundUnknownLeg(t *testing.T) {
	h := newHarness()

	err := h.refundEngine.Refund(context.Background(), uuid.New(), 100)

	require.Error(t, err)
	assert.True(t, apperrors.IsNotFound(err))
}
