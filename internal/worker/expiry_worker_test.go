package worker

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/Tusharjain-19/split-payment/internal/entity"
	"github.com/Tusharjain-19/split-payment/internal/repository/memory"
	"github.com/Tusharjain-19/split-payment/pkg/saga"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type nopLogger struct{}

func (nopLogger) Debug(module, message string, details map[string]interface{}) {}
func (nopLogger) Info(module, message string, details map[string]interface{})  {}
func (nopLogger) Warn(module, message string, details map[string]interface{})  {}
func (nopLogger) Error(module, message string, details map[string]interface{}) {}
func (nopLogger) Sync() error                                                  { return nil }

type stubGateway struct {
	mu      sync.Mutex
	refunds int
}

func (g *stubGateway) CreateOrder(ctx context.Context, amountMinor int64, currency, receiptId string, notes map[string]interface{}) (string, error) {
	return "order_stub", nil
}

func (g *stubGateway) Refund(ctx context.Context, paymentRef string, amountMinor int64, notes map[string]interface{}) (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.refunds++
	return "rfnd_stub", nil
}

func (g *stubGateway) VerifySignature(orderRef, paymentRef, signature string) bool { return true }

type stubNotifier struct {
	mu       sync.Mutex
	failures int
}

func (n *stubNotifier) NotifySuccess(ctx context.Context, master *entity.MasterTransaction) {}
func (n *stubNotifier) NotifyFailure(ctx context.Context, master *entity.MasterTransaction, reason string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.failures++
}

func newTestWorker(store *memory.Store) (*ExpiryWorker, *stubGateway, *stubNotifier) {
	factory := memory.NewRepositoryFactory(store)
	log := nopLogger{}
	gw := &stubGateway{}
	notifier := &stubNotifier{}

	stateMachine := saga.NewStateMachine(factory, log)
	refundEngine := saga.NewRefundEngine(factory, gw, func(string) bool { return false }, 100, log)
	coordinator := saga.NewCoordinator(factory, stateMachine, refundEngine, notifier, saga.NewKeyedMutex(), log)

	return NewExpiryWorker(factory, coordinator, 5*time.Second, log), gw, notifier
}

func seedMaster(store *memory.Store, status entity.MasterStatus, expiresAt time.Time, legStatuses ...entity.SubStatus) uuid.UUID {
	masterId := uuid.New()
	master := &entity.MasterTransaction{
		Id:          masterId,
		PayerId:     "payer-1",
		PayerEmail:  "payer@example.com",
		TotalAmount: float64(100 * len(legStatuses)),
		Status:      status,
		ExpiresAt:   expiresAt,
	}

	subs := make([]*entity.SubTransaction, 0, len(legStatuses))
	for _, legStatus := range legStatuses {
		sub := &entity.SubTransaction{
			Id:          uuid.New(),
			MasterTxnId: masterId,
			SourceType:  "upi",
			Amount:      100,
			Status:      legStatus,
		}
		if legStatus == entity.SubStatusSuccess {
			sub.GatewayPaymentId = "pay_real"
		}
		subs = append(subs, sub)
	}

	store.Seed(master, subs...)
	return masterId
}

func TestSweepExpiresOverdueMasters(t *testing.T) {
	store := memory.NewStore()
	worker, gw, notifier := newTestWorker(store)

	past := time.Now().Add(-time.Minute)
	future := time.Now().Add(20 * time.Minute)

	untouched := seedMaster(store, entity.MasterStatusPending, past, entity.SubStatusInitiated, entity.SubStatusInitiated)
	partial := seedMaster(store, entity.MasterStatusPending, past, entity.SubStatusSuccess, entity.SubStatusInitiated)
	fresh := seedMaster(store, entity.MasterStatusPending, future, entity.SubStatusInitiated)
	settled := seedMaster(store, entity.MasterStatusSuccess, past, entity.SubStatusSuccess)

	swept, err := worker.Sweep(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, swept)

	// Never-touched masters expire outright.
	assert.Equal(t, entity.MasterStatusExpired, store.Master(untouched).Status)
	// Partially settled masters fail and refund their settled legs.
	assert.Equal(t, entity.MasterStatusFailed, store.Master(partial).Status)
	assert.Equal(t, 1, gw.refunds)
	assert.Equal(t, 1, notifier.failures)
	// Masters inside their TTL or already terminal are untouched.
	assert.Equal(t, entity.MasterStatusPending, store.Master(fresh).Status)
	assert.Equal(t, entity.MasterStatusSuccess, store.Master(settled).Status)
}

func TestSweepEmptyStore(t *testing.T) {
	store := memory.NewStore()
	worker, _, _ := newTestWorker(store)

	swept, err := worker.Sweep(context.Background())
	require.NoError(t, err)
	assert.Zero(t, swept)
}

func TestSweepIsIdempotent(t *testing.T) {
	store := memory.NewStore()
	worker, _, notifier := newTestWorker(store)

	past := time.Now().Add(-time.Minute)
	masterId := seedMaster(store, entity.MasterStatusPending, past, entity.SubStatusInitiated)

	swept, err := worker.Sweep(context.Background())
	require.NoError(t, err)
	require.Equal(t, 1, swept)
	require.Equal(t, entity.MasterStatusExpired, store.Master(masterId).Status)

	// A second tick finds nothing PENDING and changes nothing.
	swept, err = worker.Sweep(context.Background())
	require.NoError(t, err)
	assert.Zero(t, swept)
	assert.Zero(t, notifier.failures)
}
