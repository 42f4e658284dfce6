package saga

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/Tusharjain-19/split-payment/internal/entity"
	"github.com/Tusharjain-19/split-payment/internal/pkg/apperrors"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAllLegsSucceed(t *testing.T) {
	h := newHarness()
	masterId, subIds := h.seedMaster(entity.MasterStatusPending,
		entity.SubStatusInitiated, entity.SubStatusInitiated, entity.SubStatusInitiated)

	for i, subId := range subIds {
		require.NoError(t, h.coordinator.MarkLegSucceeded(context.Background(), subId, "pay_real_"+string(rune('a'+i))))
	}

	assert.Equal(t, entity.MasterStatusSuccess, h.store.Master(masterId).Status)
	assert.Zero(t, h.gateway.refundCount())

	success, failure := h.notifier.counts()
	assert.Equal(t, 1, success, "success must be notified exactly once")
	assert.Zero(t, failure)
}

func TestPartialFailureRefundsSettledLegs(t *testing.T) {
	h := newHarness()
	masterId, subIds := h.seedMaster(entity.MasterStatusPending,
		entity.SubStatusInitiated, entity.SubStatusInitiated, entity.SubStatusInitiated)

	require.NoError(t, h.coordinator.MarkLegSucceeded(context.Background(), subIds[0], "pay_real_a"))
	require.NoError(t, h.coordinator.MarkLegSucceeded(context.Background(), subIds[1], "pay_real_b"))
	require.NoError(t, h.coordinator.MarkLegFailed(context.Background(), subIds[2]))

	assert.Equal(t, entity.MasterStatusFailed, h.store.Master(masterId).Status)
	assert.Equal(t, entity.SubStatusRefunded, h.store.Sub(subIds[0]).Status)
	assert.Equal(t, entity.SubStatusRefunded, h.store.Sub(subIds[1]).Status)
	assert.Equal(t, entity.SubStatusFailed, h.store.Sub(subIds[2]).Status)
	assert.Equal(t, 2, h.gateway.refundCount())

	success, failure := h.notifier.counts()
	assert.Zero(t, success)
	assert.Equal(t, 1, failure)
	assert.Contains(t, h.notifier.lastWhy, "Refunds have been initiated")
}

func TestFailureBeforeAnySettlement(t *testing.T) {
	h := newHarness()
	masterId, subIds := h.seedMaster(entity.MasterStatusPending,
		entity.SubStatusInitiated, entity.SubStatusInitiated)

	require.NoError(t, h.coordinator.MarkLegFailed(context.Background(), subIds[0]))

	// One leg failed, the other is still in flight: the purchase already
	// cannot succeed, so it fails immediately with nothing to refund.
	assert.Equal(t, entity.MasterStatusFailed, h.store.Master(masterId).Status)
	assert.Zero(t, h.gateway.refundCount())

	_, failure := h.notifier.counts()
	assert.Equal(t, 1, failure)
}

func TestExpiryWithoutAnyOutcome(t *testing.T) {
	h := newHarness()
	masterId, subIds := h.seedMaster(entity.MasterStatusPending,
		entity.SubStatusInitiated, entity.SubStatusInitiated)

	require.NoError(t, h.coordinator.ExpireMaster(context.Background(), masterId))

	assert.Equal(t, entity.MasterStatusExpired, h.store.Master(masterId).Status)
	for _, subId := range subIds {
		assert.Equal(t, entity.SubStatusFailed, h.store.Sub(subId).Status)
	}
	assert.Zero(t, h.gateway.refundCount())

	success, failure := h.notifier.counts()
	assert.Zero(t, success)
	assert.Zero(t, failure, "an untouched expiry sends no notification")
}

func TestExpiryWithPartialSettlement(t *testing.T) {
	h := newHarness()
	masterId, subIds := h.seedMaster(entity.MasterStatusPending,
		entity.SubStatusSuccess, entity.SubStatusInitiated)

	require.NoError(t, h.coordinator.ExpireMaster(context.Background(), masterId))

	assert.Equal(t, entity.MasterStatusFailed, h.store.Master(masterId).Status)
	assert.Equal(t, entity.SubStatusRefunded, h.store.Sub(subIds[0]).Status)
	assert.Equal(t, entity.SubStatusFailed, h.store.Sub(subIds[1]).Status)
	assert.Equal(t, 1, h.gateway.refundCount())

	_, failure := h.notifier.counts()
	assert.Equal(t, 1, failure)
}

func TestExpireMasterSkipsNonPending(t *testing.T) {
	h := newHarness()
	masterId, _ := h.seedMaster(entity.MasterStatusSuccess, entity.SubStatusSuccess)

	require.NoError(t, h.coordinator.ExpireMaster(context.Background(), masterId))

	assert.Equal(t, entity.MasterStatusSuccess, h.store.Master(masterId).Status)
	success, failure := h.notifier.counts()
	assert.Zero(t, success)
	assert.Zero(t, failure)
}

func TestResolveIsIdempotentOnTerminalMaster(t *testing.T) {
	h := newHarness()
	masterId, subIds := h.seedMaster(entity.MasterStatusPending,
		entity.SubStatusInitiated, entity.SubStatusInitiated)

	require.NoError(t, h.coordinator.MarkLegSucceeded(context.Background(), subIds[0], "pay_real_a"))
	require.NoError(t, h.coordinator.MarkLegSucceeded(context.Background(), subIds[1], "pay_real_b"))
	require.Equal(t, entity.MasterStatusSuccess, h.store.Master(masterId).Status)

	for i := 0; i < 3; i++ {
		require.NoError(t, h.coordinator.Resolve(context.Background(), masterId))
	}

	success, failure := h.notifier.counts()
	assert.Equal(t, 1, success, "re-resolving a terminal master must not re-notify")
	assert.Zero(t, failure)
	assert.Len(t, h.store.AuditTrail(masterId), 1, "re-resolving must not add audit entries")
}

func TestResolveRetriesOutstandingRefunds(t *testing.T) {
	h := newHarness()
	masterId, subIds := h.seedMaster(entity.MasterStatusPending,
		entity.SubStatusInitiated, entity.SubStatusInitiated)

	require.NoError(t, h.coordinator.MarkLegSucceeded(context.Background(), subIds[0], "pay_real_a"))

	// First compensation pass: the gateway is down, the settled leg stays
	// SUCCESS and the master still lands on FAILED.
	h.gateway.refundErr = errors.New("gateway down")
	require.NoError(t, h.coordinator.MarkLegFailed(context.Background(), subIds[1]))
	require.Equal(t, entity.MasterStatusFailed, h.store.Master(masterId).Status)
	require.Equal(t, entity.SubStatusSuccess, h.store.Sub(subIds[0]).Status)

	_, failuresAfterFirstPass := h.notifier.counts()
	require.Equal(t, 1, failuresAfterFirstPass)

	// A later resolve re-enters compensation and clears the leg.
	h.gateway.refundErr = nil
	require.NoError(t, h.coordinator.Resolve(context.Background(), masterId))

	assert.Equal(t, entity.MasterStatusFailed, h.store.Master(masterId).Status)
	assert.Equal(t, entity.SubStatusRefunded, h.store.Sub(subIds[0]).Status)
	assert.Equal(t, 2, h.gateway.refundCount())

	_, failures := h.notifier.counts()
	assert.Equal(t, 1, failures, "a refund retry must not email the payer a second failure notice")
}

func TestResolveFullyRefundedFailedMasterIsQuiet(t *testing.T) {
	h := newHarness()
	masterId, _ := h.seedMaster(entity.MasterStatusFailed,
		entity.SubStatusRefunded, entity.SubStatusFailed)

	require.NoError(t, h.coordinator.Resolve(context.Background(), masterId))

	assert.Equal(t, entity.MasterStatusFailed, h.store.Master(masterId).Status)
	assert.Zero(t, h.gateway.refundCount())
	_, failure := h.notifier.counts()
	assert.Zero(t, failure, "a settled FAILED master must not re-notify")
}

func TestConcurrentLegReportsNotifyOnce(t *testing.T) {
	h := newHarness()
	masterId, subIds := h.seedMaster(entity.MasterStatusPending,
		entity.SubStatusInitiated, entity.SubStatusInitiated)

	var wg sync.WaitGroup
	for i, subId := range subIds {
		wg.Add(1)
		go func(i int, subId uuid.UUID) {
			defer wg.Done()
			_ = h.coordinator.MarkLegSucceeded(context.Background(), subId, "pay_real_"+string(rune('a'+i)))
		}(i, subId)
	}
	wg.Wait()

	assert.Equal(t, entity.MasterStatusSuccess, h.store.Master(masterId).Status)
	success, failure := h.notifier.counts()
	assert.Equal(t, 1, success, "racing triggers must converge to exactly one notification")
	assert.Zero(t, failure)
}

func TestLateLegReportCannotOverwriteOutcome(t *testing.T) {
	h := newHarness()
	masterId, subIds := h.seedMaster(entity.MasterStatusPending,
		entity.SubStatusInitiated, entity.SubStatusInitiated)

	require.NoError(t, h.coordinator.MarkLegSucceeded(context.Background(), subIds[0], "pay_real_a"))
	require.NoError(t, h.coordinator.MarkLegFailed(context.Background(), subIds[1]))
	require.Equal(t, entity.SubStatusRefunded, h.store.Sub(subIds[0]).Status)

	// A stale duplicate success report for the refunded leg arrives late.
	require.NoError(t, h.coordinator.MarkLegSucceeded(context.Background(), subIds[0], "pay_real_a"))

	assert.Equal(t, entity.SubStatusRefunded, h.store.Sub(subIds[0]).Status, "a settled outcome must not be overwritten")
	assert.Equal(t, entity.MasterStatusFailed, h.store.Master(masterId).Status)
	assert.Equal(t, 1, h.gateway.refundCount(), "no second refund may be issued")
}

func TestDuplicateLegReportIsIdempotent(t *testing.T) {
	h := newHarness()
	masterId, subIds := h.seedMaster(entity.MasterStatusPending,
		entity.SubStatusInitiated, entity.SubStatusInitiated)

	require.NoError(t, h.coordinator.MarkLegSucceeded(context.Background(), subIds[0], "pay_real_a"))
	require.NoError(t, h.coordinator.MarkLegSucceeded(context.Background(), subIds[0], "pay_real_a"))

	assert.Equal(t, entity.SubStatusSuccess, h.store.Sub(subIds[0]).Status)
	assert.Equal(t, entity.MasterStatusPending, h.store.Master(masterId).Status, "one of two legs settled keeps the purchase in flight")
}

func TestMarkLegUnknownSub(t *testing.T) {
	h := newHarness()

	err := h.coordinator.MarkLegSucceeded(context.Background(), uuid.New(), "pay_real_a")

	require.Error(t, err)
	assert.True(t, apperrors.IsNotFound(err))
}

func TestResolveUnknownMasterIsSilent(t *testing.T) {
	h := newHarness()

	assert.NoError(t, h.coordinator.Resolve(context.Background(), uuid.New()))
}
