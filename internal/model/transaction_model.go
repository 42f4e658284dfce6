package model

import (
	"time"

	"github.com/google/uuid"
)

type MasterTransaction struct {
	Id          uuid.UUID `gorm:"type:uuid;primaryKey"`
	PayerId     string    `gorm:"type:varchar(255);not null;index"`
	PayerEmail  string    `gorm:"type:varchar(255);not null"`
	TotalAmount float64   `gorm:"type:decimal(12,2);not null"`
	Status      string    `gorm:"type:varchar(50);not null;default:'PENDING';index"`
	ExpiresAt   time.Time `gorm:"not null;index"`
	CreatedAt   time.Time `gorm:"autoCreateTime"`
	UpdatedAt   time.Time `gorm:"autoUpdateTime"`

	// Relations
	SubTransactions []SubTransaction `gorm:"foreignKey:MasterTxnId"`
}

func (MasterTransaction) TableName() string {
	return "master_transactions"
}

type SubTransaction struct {
	Id               uuid.UUID `gorm:"type:uuid;primaryKey"`
	MasterTxnId      uuid.UUID `gorm:"type:uuid;not null;index"`
	SourceType       string    `gorm:"type:varchar(50);not null"`
	Amount           float64   `gorm:"type:decimal(12,2);not null"`
	GatewayOrderId   string    `gorm:"type:varchar(255)"`
	GatewayPaymentId string    `gorm:"type:varchar(255)"`
	Status           string    `gorm:"type:varchar(50);not null;default:'INITIATED';index"`
	RefundId         string    `gorm:"type:varchar(255)"`
	CreatedAt        time.Time `gorm:"autoCreateTime"`
	UpdatedAt        time.Time `gorm:"autoUpdateTime"`
}

func (SubTransaction) TableName() string {
	return "sub_transactions"
}
