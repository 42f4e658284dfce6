package saga

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/Tusharjain-19/split-payment/internal/entity"
	"github.com/Tusharjain-19/split-payment/internal/repository/memory"
	"github.com/Tusharjain-19/split-payment/internal/repository/unitofwork"
	"github.com/google/uuid"
)

type nopLogger struct{}

func (nopLogger) Debug(module, message string, details map[string]interface{}) {}
func (nopLogger) Info(module, message string, details map[string]interface{})  {}
func (nopLogger) Warn(module, message string, details map[string]interface{})  {}
func (nopLogger) Error(module, message string, details map[string]interface{}) {}
func (nopLogger) Sync() error                                                  { return nil }

type fakeGateway struct {
	mu          sync.Mutex
	orderCalls  int
	refundCalls []string
	refundErr   error
}

func (g *fakeGateway) CreateOrder(ctx context.Context, amountMinor int64, currency, receiptId string, notes map[string]interface{}) (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.orderCalls++
	return fmt.Sprintf("order_%d", g.orderCalls), nil
}

func (g *fakeGateway) Refund(ctx context.Context, paymentRef string, amountMinor int64, notes map[string]interface{}) (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.refundCalls = append(g.refundCalls, paymentRef)
	if g.refundErr != nil {
		return "", g.refundErr
	}
	return "rfnd_" + paymentRef, nil
}

func (g *fakeGateway) VerifySignature(orderRef, paymentRef, signature string) bool {
	return true
}

func (g *fakeGateway) refundCount() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.refundCalls)
}

type fakeNotifier struct {
	mu       sync.Mutex
	success  int
	failure  int
	lastWhy  string
	lastMail string
}

func (n *fakeNotifier) NotifySuccess(ctx context.Context, master *entity.MasterTransaction) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.success++
	n.lastMail = master.PayerEmail
}

func (n *fakeNotifier) NotifyFailure(ctx context.Context, master *entity.MasterTransaction, reason string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.failure++
	n.lastWhy = reason
	n.lastMail = master.PayerEmail
}

func (n *fakeNotifier) counts() (success, failure int) {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.success, n.failure
}

// harness wires the saga core against the in-memory store.
type harness struct {
	store        *memory.Store
	gateway      *fakeGateway
	notifier     *fakeNotifier
	stateMachine *StateMachine
	refundEngine *RefundEngine
	coordinator  *Coordinator
}

func newHarness() *harness {
	store := memory.NewStore()
	factory := memory.NewRepositoryFactory(store)
	gw := &fakeGateway{}
	notifier := &fakeNotifier{}
	log := nopLogger{}

	stateMachine := NewStateMachine(factory, log)
	refundEngine := NewRefundEngine(factory, gw, func(ref string) bool {
		return strings.HasPrefix(ref, "pay_test_fake")
	}, 100, log)
	coordinator := NewCoordinator(factory, stateMachine, refundEngine, notifier, NewKeyedMutex(), log)

	return &harness{
		store:        store,
		gateway:      gw,
		notifier:     notifier,
		stateMachine: stateMachine,
		refundEngine: refundEngine,
		coordinator:  coordinator,
	}
}

// seedMaster stores a master with one leg per given status and returns the
// master id plus leg ids in order.
func (h *harness) seedMaster(status entity.MasterStatus, legStatuses ...entity.SubStatus) (uuid.UUID, []uuid.UUID) {
	masterId := uuid.New()
	master := &entity.MasterTransaction{
		Id:          masterId,
		PayerId:     "payer-1",
		PayerEmail:  "payer@example.com",
		TotalAmount: float64(100 * len(legStatuses)),
		Status:      status,
		ExpiresAt:   time.Now().Add(20 * time.Minute),
	}

	subs := make([]*entity.SubTransaction, 0, len(legStatuses))
	subIds := make([]uuid.UUID, 0, len(legStatuses))
	for i, legStatus := range legStatuses {
		subId := uuid.New()
		sub := &entity.SubTransaction{
			Id:             subId,
			MasterTxnId:    masterId,
			SourceType:     fmt.Sprintf("source-%d", i),
			Amount:         100,
			GatewayOrderId: fmt.Sprintf("order_%d", i),
			Status:         legStatus,
		}
		if legStatus == entity.SubStatusSuccess || legStatus == entity.SubStatusRefunded {
			sub.GatewayPaymentId = fmt.Sprintf("pay_real_%d", i)
		}
		subs = append(subs, sub)
		subIds = append(subIds, subId)
	}

	h.store.Seed(master, subs...)
	return masterId, subIds
}

// memoryUow opens a unit of work straight onto the harness store for test
// setup that bypasses the saga.
func memoryUow(h *harness) unitofwork.UnitOfWork {
	return memory.NewRepositoryFactory(h.store).NewUnitOfWork(context.Background())
}
