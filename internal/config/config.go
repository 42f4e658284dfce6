package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	App      AppConfig
	Database DatabaseConfig
	SMTP     SMTPConfig
	Razorpay RazorpayConfig
	Payment  PaymentConfig
}

type AppConfig struct {
	Port               string
	BaseURL            string
	ClientURL          string
	Environment        string
	LogFilePath        string
	CorsAllowedOrigins string
	NatsURL            string
}

type DatabaseConfig struct {
	Connection string
}

type SMTPConfig struct {
	Host       string
	Port       int
	Email      string
	Password   string
	SenderName string
}

type RazorpayConfig struct {
	KeyID     string
	KeySecret string
}

type PaymentConfig struct {
	// TTL is how long a master transaction may stay PENDING before the
	// sweeper forces it to a terminal state.
	TTL           time.Duration
	SweepInterval time.Duration
	// MinorUnitMultiplier converts amounts to the gateway's smallest
	// currency unit (100 for INR paise).
	MinorUnitMultiplier int64
	Currency            string
	// SyntheticPaymentPrefix marks payment references that never hit the
	// gateway; refunds for them are simulated locally.
	SyntheticPaymentPrefix string
	GatewayTimeout         time.Duration
	// SweepMasterTimeout bounds one master inside a sweep batch. It must
	// leave room for a gateway refund per leg, so it is a multiple of
	// GatewayTimeout rather than a single call budget.
	SweepMasterTimeout time.Duration
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("Note: .env file not found, usage system environment")
	}

	return &Config{
		App: AppConfig{
			Port:               getEnv("APP_PORT", "5000"),
			BaseURL:            getEnv("APP_BASE_URL", "http://localhost:5000"),
			ClientURL:          getEnv("CLIENT_URL", "http://localhost:5176"),
			Environment:        getEnv("GO_ENV", "development"),
			LogFilePath:        getEnv("LOG_FILE_PATH", "logs/app.log"),
			CorsAllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:5176"),
			NatsURL:            getEnv("NATS_URL", "nats://localhost:4222"),
		},
		Database: DatabaseConfig{
			Connection: getEnv("DB_CONNECTION_STRING", ""),
		},
		SMTP: SMTPConfig{
			Host:       getEnv("SMTP_HOST", ""),
			Port:       getEnvAsInt("SMTP_PORT", 587),
			Email:      getEnv("SMTP_EMAIL", ""),
			Password:   getEnv("SMTP_PASSWORD", ""),
			SenderName: getEnv("SMTP_SENDER_NAME", "Split Payment"),
		},
		Razorpay: RazorpayConfig{
			KeyID:     getEnv("RAZORPAY_KEY_ID", ""),
			KeySecret: getEnv("RAZORPAY_KEY_SECRET", ""),
		},
		Payment: PaymentConfig{
			TTL:                    getEnvAsDuration("PAYMENT_TTL", 20*time.Minute),
			SweepInterval:          getEnvAsDuration("EXPIRY_SWEEP_INTERVAL", time.Minute),
			MinorUnitMultiplier:    int64(getEnvAsInt("CURRENCY_MINOR_UNIT", 100)),
			Currency:               getEnv("PAYMENT_CURRENCY", "INR"),
			SyntheticPaymentPrefix: getEnv("SYNTHETIC_PAYMENT_PREFIX", "pay_test_fake"),
			GatewayTimeout:         getEnvAsDuration("GATEWAY_TIMEOUT", 15*time.Second),
			SweepMasterTimeout:     getEnvAsDuration("SWEEP_MASTER_TIMEOUT", 3*time.Minute),
		},
	}
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	strValue := getEnv(key, "")
	if value, err := strconv.Atoi(strValue); err == nil {
		return value
	}
	return fallback
}

func getEnvAsDuration(key string, fallback time.Duration) time.Duration {
	strValue := getEnv(key, "")
	if value, err := time.ParseDuration(strValue); err == nil {
		return value
	}
	return fallback
}
