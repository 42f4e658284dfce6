package service

import (
	"context"
	"encoding/json"
	"time"

	"github.com/Tusharjain-19/split-payment/internal/dto"
	"github.com/Tusharjain-19/split-payment/internal/entity"
	"github.com/Tusharjain-19/split-payment/internal/pkg/logger"
	"github.com/Tusharjain-19/split-payment/pkg/events"
	"github.com/Tusharjain-19/split-payment/pkg/nats"
	"github.com/Tusharjain-19/split-payment/pkg/saga"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
)

// notifierService hands outcome notifications off to the in-process bus so
// the saga never blocks on SMTP, and mirrors each outcome to NATS for
// downstream systems. It satisfies saga.Notifier: publish errors are logged,
// never returned.
type notifierService struct {
	pubSub    *gochannel.GoChannel
	topicName string
	natsPub   *nats.Publisher
	currency  string
	logger    logger.ILogger
}

func NewNotifierService(
	pubSub *gochannel.GoChannel,
	topicName string,
	natsPub *nats.Publisher,
	currency string,
	logger logger.ILogger,
) saga.Notifier {
	return &notifierService{
		pubSub:    pubSub,
		topicName: topicName,
		natsPub:   natsPub,
		currency:  currency,
		logger:    logger,
	}
}

func (n *notifierService) NotifySuccess(ctx context.Context, master *entity.MasterTransaction) {
	n.publish(dto.PaymentNotificationMessage{
		MasterTxnId: master.Id,
		Email:       master.PayerEmail,
		TotalAmount: master.TotalAmount,
		Currency:    n.currency,
		Type:        string(entity.EmailTypeSuccess),
	})
	n.publishResolved(ctx, master, string(entity.MasterStatusSuccess))
}

func (n *notifierService) NotifyFailure(ctx context.Context, master *entity.MasterTransaction, reason string) {
	n.publish(dto.PaymentNotificationMessage{
		MasterTxnId: master.Id,
		Email:       master.PayerEmail,
		TotalAmount: master.TotalAmount,
		Currency:    n.currency,
		Reason:      reason,
		Type:        string(entity.EmailTypeFailed),
	})
	n.publishResolved(ctx, master, string(entity.MasterStatusFailed))
}

func (n *notifierService) publishResolved(ctx context.Context, master *entity.MasterTransaction, outcome string) {
	if n.natsPub == nil {
		return
	}
	event := events.BaseEvent{
		Type: events.TypeSplitPaymentResolved,
		Data: map[string]interface{}{
			"master_txn_id": master.Id.String(),
			"payer_id":      master.PayerId,
			"total_amount":  master.TotalAmount,
			"outcome":       outcome,
		},
		OccurredAt: time.Now(),
	}
	if err := n.natsPub.Publish(ctx, event); err != nil {
		n.logger.Warn("notifier", "failed to publish resolved event", map[string]interface{}{
			"master_txn_id": master.Id.String(),
			"error":         err.Error(),
		})
	}
}

func (n *notifierService) publish(payload dto.PaymentNotificationMessage) {
	data, err := json.Marshal(payload)
	if err != nil {
		n.logger.Error("notifier", "failed to marshal notification payload", map[string]interface{}{
			"master_txn_id": payload.MasterTxnId.String(),
			"error":         err.Error(),
		})
		return
	}

	msg := message.NewMessage(watermill.NewUUID(), data)
	if err := n.pubSub.Publish(n.topicName, msg); err != nil {
		n.logger.Error("notifier", "failed to publish notification", map[string]interface{}{
			"master_txn_id": payload.MasterTxnId.String(),
			"type":          payload.Type,
			"error":         err.Error(),
		})
	}
}
