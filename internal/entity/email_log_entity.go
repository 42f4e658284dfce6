package entity

import (
	"time"

	"github.com/google/uuid"
)

type EmailType string

const (
	EmailTypeSuccess EmailType = "SUCCESS"
	EmailTypeFailed  EmailType = "FAILED"
)

type EmailLog struct {
	Id          uuid.UUID
	MasterTxnId uuid.UUID
	EmailType   EmailType
	Recipient   string
	CreatedAt   time.Time
}
