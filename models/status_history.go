package models

import (
	"time"

	"github.com/google/uuid"
)

// StatusHistory is one entry in the append-only status ledger. OldStatus is
// nil for the entry written when an anonymous record enters the system, and
// ChangedBy is nil when the change was system initiated. Rows are only ever
// inserted, inside the same transaction as the status change they describe.
type StatusHistory struct {
	ID           uuid.UUID     `gorm:"type:uuid;primary_key" json:"id"`
	RecordID     uuid.UUID     `gorm:"type:uuid;index;not null" json:"record_id"`
	OldStatus    *RecordStatus `json:"old_status"`
	NewStatus    RecordStatus  `gorm:"not null" json:"new_status"`
	ChangedBy    *uint         `json:"changed_by"`
	Admin        *User         `gorm:"foreignKey:ChangedBy" json:"-"`
	ChangeReason string        `json:"change_reason"`
	ChangedAt    time.Time     `json:"changed_at"`
}

// AdminName resolves the display name of whoever made the change, falling
// back to "System" for system-initiated entries.
func (h *StatusHistory) AdminName() string {
	if h.Admin != nil && h.Admin.Fullname != "" {
		return h.Admin.Fullname
	}
	return "System"
}

type StatusHistoryResponse struct {
	ID           uuid.UUID     `json:"id"`
	RecordID     uuid.UUID     `json:"record_id"`
	OldStatus    *RecordStatus `json:"old_status"`
	NewStatus    RecordStatus  `json:"new_status"`
	ChangedBy    *uint         `json:"changed_by"`
	AdminName    string        `json:"admin_name"`
	ChangeReason string        `json:"change_reason"`
	ChangedAt    time.Time     `json:"changed_at"`
}

func (h *StatusHistory) Response() StatusHistoryResponse {
	return StatusHistoryResponse{
		ID:           h.ID,
		RecordID:     h.RecordID,
		OldStatus:    h.OldStatus,
		NewStatus:    h.NewStatus,
		ChangedBy:    h.ChangedBy,
		AdminName:    h.AdminName(),
		ChangeReason: h.ChangeReason,
		ChangedAt:    h.ChangedAt,
	}
}

// StatusChangedEvent is emitted after a transition transaction commits and
// consumed by the notification dispatcher. It never crosses a transaction
// boundary in the other direction.
type StatusChangedEvent struct {
	Record    *Record
	OldStatus RecordStatus
	NewStatus RecordStatus
	Reason    string
	ChangedBy uint
}
