package service

import (
	"context"
	"math"
	"time"

	"github.com/Tusharjain-19/split-payment/internal/config"
	"github.com/Tusharjain-19/split-payment/internal/dto"
	"github.com/Tusharjain-19/split-payment/internal/entity"
	"github.com/Tusharjain-19/split-payment/internal/pkg/apperrors"
	"github.com/Tusharjain-19/split-payment/internal/pkg/logger"
	"github.com/Tusharjain-19/split-payment/internal/repository/specification"
	"github.com/Tusharjain-19/split-payment/internal/repository/unitofwork"
	"github.com/Tusharjain-19/split-payment/pkg/events"
	"github.com/Tusharjain-19/split-payment/pkg/gateway"
	"github.com/Tusharjain-19/split-payment/pkg/nats"
	"github.com/Tusharjain-19/split-payment/pkg/saga"
	"github.com/google/uuid"
)

type IPaymentService interface {
	CreateSplitPayment(ctx context.Context, req *dto.CreateSplitRequest) (*dto.CreateSplitResponse, error)
	VerifyPayment(ctx context.Context, req *dto.VerifyPaymentRequest) error
	HandlePaymentFailure(ctx context.Context, req *dto.PaymentFailureRequest) error
	GetPaymentStatus(ctx context.Context, masterTxnId uuid.UUID) (*dto.PaymentStatusResponse, error)
	GetTransactionHistory(ctx context.Context) (*dto.TransactionHistoryResponse, error)
}

type paymentService struct {
	uowFactory  unitofwork.RepositoryFactory
	gateway     gateway.Client
	coordinator *saga.Coordinator
	natsPub     *nats.Publisher
	paymentCfg  config.PaymentConfig
	razorpayKey string
	logger      logger.ILogger
}

func NewPaymentService(
	uowFactory unitofwork.RepositoryFactory,
	gatewayClient gateway.Client,
	coordinator *saga.Coordinator,
	natsPub *nats.Publisher,
	paymentCfg config.PaymentConfig,
	razorpayKey string,
	logger logger.ILogger,
) IPaymentService {
	return &paymentService{
		uowFactory:  uowFactory,
		gateway:     gatewayClient,
		coordinator: coordinator,
		natsPub:     natsPub,
		paymentCfg:  paymentCfg,
		razorpayKey: razorpayKey,
		logger:      logger,
	}
}

// CreateSplitPayment opens a new split purchase: one master transaction in
// PENDING plus one INITIATED leg per payment source, each backed by a gateway
// order. Legs and master are committed atomically after every order exists,
// so a gateway failure midway leaves no partial purchase behind.
func (s *paymentService) CreateSplitPayment(ctx context.Context, req *dto.CreateSplitRequest) (*dto.CreateSplitResponse, error) {
	var legSum float64
	for _, src := range req.Sources {
		legSum += src.Amount
	}
	// Tolerance of half a minor unit absorbs float representation noise
	// without letting a real mismatch through.
	if math.Abs(legSum-req.TotalAmount) > 0.5/float64(s.paymentCfg.MinorUnitMultiplier) {
		return nil, apperrors.NewValidation("sum of source amounts (%.2f) does not match total_amount (%.2f)", legSum, req.TotalAmount)
	}

	masterId := uuid.New()
	now := time.Now()

	master := &entity.MasterTransaction{
		Id:          masterId,
		PayerId:     req.PayerId,
		PayerEmail:  req.PayerEmail,
		TotalAmount: req.TotalAmount,
		Status:      entity.MasterStatusPending,
		ExpiresAt:   now.Add(s.paymentCfg.TTL),
	}

	subs := make([]*entity.SubTransaction, 0, len(req.Sources))
	orders := make([]dto.SplitOrderResponse, 0, len(req.Sources))
	for _, src := range req.Sources {
		subId := uuid.New()

		orderCtx, cancel := context.WithTimeout(ctx, s.paymentCfg.GatewayTimeout)
		orderRef, err := s.gateway.CreateOrder(orderCtx, toMinorUnit(src.Amount, s.paymentCfg.MinorUnitMultiplier), s.paymentCfg.Currency, subId.String(), map[string]interface{}{
			"master_txn_id": masterId.String(),
			"source_type":   src.Type,
		})
		cancel()
		if err != nil {
			s.logger.Error("payment-service", "gateway order creation failed, aborting split", map[string]interface{}{
				"master_txn_id": masterId.String(),
				"source_type":   src.Type,
				"error":         err.Error(),
			})
			return nil, err
		}

		subs = append(subs, &entity.SubTransaction{
			Id:             subId,
			MasterTxnId:    masterId,
			SourceType:     src.Type,
			Amount:         src.Amount,
			GatewayOrderId: orderRef,
			Status:         entity.SubStatusInitiated,
		})
		orders = append(orders, dto.SplitOrderResponse{
			SubTxnId:   subId,
			OrderId:    orderRef,
			SourceType: src.Type,
			Amount:     src.Amount,
		})
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}
	defer uow.Rollback()

	if err := uow.MasterTransactionRepository().Create(ctx, master); err != nil {
		return nil, err
	}
	for _, sub := range subs {
		if err := uow.SubTransactionRepository().Create(ctx, sub); err != nil {
			return nil, err
		}
	}
	if err := uow.Commit(); err != nil {
		return nil, err
	}

	s.logger.Info("payment-service", "split payment created", map[string]interface{}{
		"master_txn_id": masterId.String(),
		"total_amount":  req.TotalAmount,
		"legs":          len(subs),
	})

	s.publishEvent(ctx, events.TypeSplitPaymentCreated, map[string]interface{}{
		"master_txn_id": masterId.String(),
		"payer_id":      req.PayerId,
		"total_amount":  req.TotalAmount,
		"legs":          len(subs),
	})

	return &dto.CreateSplitResponse{
		MasterTxnId:   masterId,
		Orders:        orders,
		RazorpayKeyId: s.razorpayKey,
	}, nil
}

// VerifyPayment checks the gateway's settlement proof for one leg and, only
// if it holds, records the leg as SUCCESS and resolves the master. A bad
// signature changes nothing.
func (s *paymentService) VerifyPayment(ctx context.Context, req *dto.VerifyPaymentRequest) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	sub, err := uow.SubTransactionRepository().FindOne(ctx, specification.ByID{ID: req.SubTxnId})
	if err != nil {
		return err
	}
	if sub == nil {
		return apperrors.NewNotFound("sub transaction", req.SubTxnId.String())
	}
	if sub.GatewayOrderId != req.RazorpayOrderId {
		return apperrors.NewValidation("order id does not belong to this sub transaction")
	}

	if !s.gateway.VerifySignature(req.RazorpayOrderId, req.RazorpayPaymentId, req.RazorpaySignature) {
		s.logger.Warn("payment-service", "payment signature verification failed", map[string]interface{}{
			"sub_txn_id": req.SubTxnId.String(),
			"order_id":   req.RazorpayOrderId,
		})
		return apperrors.NewValidation("invalid payment signature")
	}

	return s.coordinator.MarkLegSucceeded(ctx, req.SubTxnId, req.RazorpayPaymentId)
}

// HandlePaymentFailure records a client-reported failure or cancellation for
// one leg and resolves the master.
func (s *paymentService) HandlePaymentFailure(ctx context.Context, req *dto.PaymentFailureRequest) error {
	return s.coordinator.MarkLegFailed(ctx, req.SubTxnId)
}

func (s *paymentService) GetPaymentStatus(ctx context.Context, masterTxnId uuid.UUID) (*dto.PaymentStatusResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	master, err := uow.MasterTransactionRepository().FindOne(ctx, specification.ByID{ID: masterTxnId})
	if err != nil {
		return nil, err
	}
	if master == nil {
		return nil, apperrors.NewNotFound("master transaction", masterTxnId.String())
	}

	subs, err := uow.SubTransactionRepository().FindAll(ctx,
		specification.ByMasterTxn{MasterTxnID: masterTxnId},
		specification.OrderBy{Field: "created_at"},
	)
	if err != nil {
		return nil, err
	}
	master.SubTransactions = subs

	return mapToStatusResponse(master), nil
}

func (s *paymentService) GetTransactionHistory(ctx context.Context) (*dto.TransactionHistoryResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	masters, err := uow.MasterTransactionRepository().FindAllWithLegs(ctx,
		specification.OrderBy{Field: "created_at", Desc: true},
		specification.Pagination{Limit: 10},
	)
	if err != nil {
		return nil, err
	}

	resp := &dto.TransactionHistoryResponse{
		Transactions: make([]dto.PaymentStatusResponse, 0, len(masters)),
	}
	for _, master := range masters {
		resp.Transactions = append(resp.Transactions, *mapToStatusResponse(master))
	}
	return resp, nil
}

// publishEvent pushes an event to NATS for downstream consumers. Failures are
// logged and swallowed; the purchase never depends on the event bus.
func (s *paymentService) publishEvent(ctx context.Context, eventType string, payload map[string]interface{}) {
	if s.natsPub == nil {
		return
	}
	event := events.BaseEvent{
		Type:       eventType,
		Data:       payload,
		OccurredAt: time.Now(),
	}
	if err := s.natsPub.Publish(ctx, event); err != nil {
		s.logger.Warn("payment-service", "failed to publish event", map[string]interface{}{
			"event_type": eventType,
			"error":      err.Error(),
		})
	}
}

func mapToStatusResponse(master *entity.MasterTransaction) *dto.PaymentStatusResponse {
	resp := &dto.PaymentStatusResponse{
		Master: dto.MasterTransactionResponse{
			Id:          master.Id,
			PayerId:     master.PayerId,
			PayerEmail:  master.PayerEmail,
			TotalAmount: master.TotalAmount,
			Status:      string(master.Status),
			ExpiresAt:   master.ExpiresAt,
			CreatedAt:   master.CreatedAt,
			UpdatedAt:   master.UpdatedAt,
		},
		SubTransactions: make([]dto.SubTransactionResponse, 0, len(master.SubTransactions)),
	}
	for _, sub := range master.SubTransactions {
		resp.SubTransactions = append(resp.SubTransactions, dto.SubTransactionResponse{
			Id:               sub.Id,
			SourceType:       sub.SourceType,
			Amount:           sub.Amount,
			Status:           string(sub.Status),
			GatewayOrderId:   sub.GatewayOrderId,
			GatewayPaymentId: sub.GatewayPaymentId,
			RefundId:         sub.RefundId,
			UpdatedAt:        sub.UpdatedAt,
		})
	}
	return resp
}

func toMinorUnit(amount float64, multiplier int64) int64 {
	return int64(math.Round(amount * float64(multiplier)))
}
