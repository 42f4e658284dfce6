package service

import (
	"context"
	"encoding/json"

	"github.com/Tusharjain-19/split-payment/internal/dto"
	"github.com/Tusharjain-19/split-payment/internal/entity"
	"github.com/Tusharjain-19/split-payment/internal/pkg/logger"
	"github.com/Tusharjain-19/split-payment/internal/pkg/mailer"
	"github.com/Tusharjain-19/split-payment/internal/repository/unitofwork"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/google/uuid"
)

type IConsumerService interface {
	Consume(ctx context.Context) error
}

// consumerService drains the notification topic and turns each message into
// an outbound email plus an email_logs row.
type consumerService struct {
	pubSub       *gochannel.GoChannel
	topicName    string
	uowFactory   unitofwork.RepositoryFactory
	emailService mailer.IEmailService
	logger       logger.ILogger
}

func NewConsumerService(
	pubSub *gochannel.GoChannel,
	topicName string,
	uowFactory unitofwork.RepositoryFactory,
	emailService mailer.IEmailService,
	logger logger.ILogger,
) IConsumerService {
	return &consumerService{
		pubSub:       pubSub,
		topicName:    topicName,
		uowFactory:   uowFactory,
		emailService: emailService,
		logger:       logger,
	}
}

func (cs *consumerService) Consume(ctx context.Context) error {
	messages, err := cs.pubSub.Subscribe(ctx, cs.topicName)
	if err != nil {
		return err
	}

	go func() {
		for msg := range messages {
			cs.processMessage(ctx, msg)
		}
	}()

	return nil
}

func (cs *consumerService) processMessage(ctx context.Context, msg *message.Message) {
	var payload dto.PaymentNotificationMessage
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		cs.logger.Error("consumer", "failed to unmarshal notification message", map[string]interface{}{
			"error": err.Error(),
		})
		msg.Ack() // malformed messages are never retriable
		return
	}

	var sendErr error
	var emailType entity.EmailType
	switch payload.Type {
	case string(entity.EmailTypeSuccess):
		emailType = entity.EmailTypeSuccess
		sendErr = cs.emailService.SendPaymentSuccess(payload.Email, payload.MasterTxnId.String(), payload.TotalAmount, payload.Currency)
	case string(entity.EmailTypeFailed):
		emailType = entity.EmailTypeFailed
		sendErr = cs.emailService.SendPaymentFailed(payload.Email, payload.MasterTxnId.String(), payload.TotalAmount, payload.Currency, payload.Reason)
	default:
		cs.logger.Warn("consumer", "unknown notification type", map[string]interface{}{
			"type": payload.Type,
		})
		msg.Ack()
		return
	}

	if sendErr != nil {
		cs.logger.Error("consumer", "failed to send notification email", map[string]interface{}{
			"master_txn_id": payload.MasterTxnId.String(),
			"error":         sendErr.Error(),
		})
		msg.Nack() // SMTP hiccups are retriable
		return
	}

	uow := cs.uowFactory.NewUnitOfWork(ctx)
	emailLog := &entity.EmailLog{
		Id:          uuid.New(),
		MasterTxnId: payload.MasterTxnId,
		EmailType:   emailType,
		Recipient:   payload.Email,
	}
	if err := uow.EmailLogRepository().Create(ctx, emailLog); err != nil {
		// The mail is already out; a missing log row is not worth a resend.
		cs.logger.Error("consumer", "failed to record email log", map[string]interface{}{
			"master_txn_id": payload.MasterTxnId.String(),
			"error":         err.Error(),
		})
	}

	msg.Ack()
}
