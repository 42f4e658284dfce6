package model

import (
	"time"

	"github.com/google/uuid"
)

type EmailLog struct {
	Id          uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	MasterTxnId uuid.UUID `gorm:"type:uuid;not null;index"`
	EmailType   string    `gorm:"type:varchar(50);not null"`
	Recipient   string    `gorm:"type:varchar(255);not null"`
	CreatedAt   time.Time `gorm:"autoCreateTime"`
}

func (EmailLog) TableName() string {
	return "email_logs"
}
