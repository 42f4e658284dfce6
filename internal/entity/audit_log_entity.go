package entity

import (
	"time"

	"github.com/google/uuid"
)

const AuditEventStatusChange = "STATUS_CHANGE"

// AuditLog records one status change of a master transaction. Entries are
// immutable once written.
type AuditLog struct {
	Id          uuid.UUID
	MasterTxnId uuid.UUID
	EventType   string
	OldStatus   MasterStatus
	NewStatus   MasterStatus
	Metadata    map[string]interface{}
	CreatedAt   time.Time
}
