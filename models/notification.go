package models

import "github.com/google/uuid"

const (
	NotificationChannelEmail = "email"
	NotificationChannelSMS   = "sms"

	DeliveryPending = "pending"
	DeliverySent    = "sent"
	DeliveryFailed  = "failed"
)

// Notification records one delivery attempt to a record owner. Rows are
// written by the dispatcher before it talks to the gateway, then flipped to
// sent or failed; a failed delivery is logged and never retried into the
// request path.
type Notification struct {
	Model
	RecordID       uuid.UUID `gorm:"type:uuid;index" json:"record_id"`
	UserID         uint      `gorm:"index" json:"user_id"`
	Channel        string    `json:"channel"`
	Message        string    `json:"message"`
	DeliveryStatus string    `gorm:"default:pending" json:"delivery_status"`
	IsRead         bool      `json:"is_read"`
}
