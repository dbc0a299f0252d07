package models

import (
	"time"

	"github.com/google/uuid"
)

const (
	MediaTypeImage = "image"
	MediaTypeVideo = "video"
)

// Media is an attachment on a record, either a validated external URL or a
// file uploaded to S3. A record keeps at most one active attachment; replacing
// it removes the previous row.
type Media struct {
	ID           string    `json:"id"`
	RecordID     uuid.UUID `gorm:"type:uuid;index;not null" json:"record_id"`
	MediaType    string    `json:"media_type"`
	MediaURL     string    `json:"media_url"`
	ThumbnailURL string    `json:"thumbnail_url,omitempty"`
	Filename     string    `json:"file_name,omitempty"`
	FileSize     int64     `json:"file_size,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}
