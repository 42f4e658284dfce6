package bootstrap

import (
	"log"
	"strings"

	"github.com/Tusharjain-19/split-payment/internal/config"
	"github.com/Tusharjain-19/split-payment/internal/controller"
	"github.com/Tusharjain-19/split-payment/internal/pkg/logger"
	"github.com/Tusharjain-19/split-payment/internal/pkg/mailer"
	"github.com/Tusharjain-19/split-payment/internal/repository/unitofwork"
	"github.com/Tusharjain-19/split-payment/internal/service"
	"github.com/Tusharjain-19/split-payment/internal/worker"
	"github.com/Tusharjain-19/split-payment/pkg/gateway"
	"github.com/Tusharjain-19/split-payment/pkg/saga"

	pktNats "github.com/Tusharjain-19/split-payment/pkg/nats"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"gorm.io/gorm"
)

const notificationTopic = "payment_notifications"

type Container struct {
	// Controllers
	PaymentController controller.IPaymentController

	// Background services (exposed for main.go to run)
	ConsumerService service.IConsumerService
	ExpiryWorker    *worker.ExpiryWorker

	Logger  logger.ILogger
	natsPub *pktNats.Publisher
}

func NewContainer(db *gorm.DB, cfg *config.Config) *Container {
	// 1. Core Facades
	uowFactory := unitofwork.NewRepositoryFactory(db)
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.App.Environment == "production")

	emailService := mailer.NewEmailService(
		cfg.SMTP.Host,
		cfg.SMTP.Port,
		cfg.SMTP.Email,
		cfg.SMTP.Password,
		cfg.SMTP.SenderName,
	)

	// 2. Event Bus
	watermillLogger := watermill.NewStdLogger(false, false)
	pubSub := gochannel.NewGoChannel(
		gochannel.Config{},
		watermillLogger,
	)

	// NATS (best-effort: the saga runs fine without it)
	natsPub, err := pktNats.NewPublisher(cfg.App.NatsURL)
	if err != nil {
		log.Printf("[WARN] Failed to connect to NATS Publisher: %v", err)
	}

	// 3. Gateway
	gatewayClient := gateway.NewRazorpayClient(
		cfg.Razorpay.KeyID,
		cfg.Razorpay.KeySecret,
		cfg.Payment.GatewayTimeout,
	)

	// 4. Saga core
	locks := saga.NewKeyedMutex()
	stateMachine := saga.NewStateMachine(uowFactory, sysLogger)
	refundEngine := saga.NewRefundEngine(
		uowFactory,
		gatewayClient,
		func(paymentRef string) bool {
			return strings.HasPrefix(paymentRef, cfg.Payment.SyntheticPaymentPrefix)
		},
		cfg.Payment.MinorUnitMultiplier,
		sysLogger,
	)
	notifier := service.NewNotifierService(pubSub, notificationTopic, natsPub, cfg.Payment.Currency, sysLogger)
	coordinator := saga.NewCoordinator(uowFactory, stateMachine, refundEngine, notifier, locks, sysLogger)

	// 5. Services
	consumerService := service.NewConsumerService(
		pubSub,
		notificationTopic,
		uowFactory,
		emailService,
		sysLogger,
	)

	paymentService := service.NewPaymentService(
		uowFactory,
		gatewayClient,
		coordinator,
		natsPub,
		cfg.Payment,
		cfg.Razorpay.KeyID,
		sysLogger,
	)

	// 6. Background workers
	sweepLogger := logger.NewIsolatedLogger("logs/expiry.log")
	expiryWorker := worker.NewExpiryWorker(
		uowFactory,
		coordinator,
		cfg.Payment.SweepMasterTimeout,
		sweepLogger,
	)

	// 7. Controllers
	paymentController := controller.NewPaymentController(paymentService)

	return &Container{
		PaymentController: paymentController,
		ConsumerService:   consumerService,
		ExpiryWorker:      expiryWorker,
		Logger:            sysLogger,
		natsPub:           natsPub,
	}
}

// Close releases external connections held by the container.
func (c *Container) Close() {
	if c.natsPub != nil {
		c.natsPub.Close()
	}
	if c.Logger != nil {
		_ = c.Logger.Sync()
	}
}
