package model

import (
	"time"

	"github.com/google/uuid"
)

type Refund struct {
	Id              uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	SubTxnId        uuid.UUID `gorm:"type:uuid;not null;index"`
	Amount          float64   `gorm:"type:decimal(12,2);not null"`
	GatewayRefundId string    `gorm:"type:varchar(255)"`
	Status          string    `gorm:"type:varchar(50);not null"` // SUCCESS, FAILED
	RetryCount      int       `gorm:"default:0"`
	CreatedAt       time.Time `gorm:"autoCreateTime"`
}

func (Refund) TableName() string {
	return "refunds"
}
