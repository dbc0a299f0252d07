package models

import (
	"time"

	"github.com/google/uuid"
)

// RecordType classifies a citizen report.
type RecordType string

const (
	RecordTypeRedFlag      RecordType = "red-flag"
	RecordTypeIntervention RecordType = "intervention"
	RecordTypeIncident     RecordType = "incident"
	RecordTypeComplaint    RecordType = "complaint"
	RecordTypeSuggestion   RecordType = "suggestion"
	RecordTypeEmergency    RecordType = "emergency"
)

var recordTypes = []RecordType{
	RecordTypeRedFlag,
	RecordTypeIntervention,
	RecordTypeIncident,
	RecordTypeComplaint,
	RecordTypeSuggestion,
	RecordTypeEmergency,
}

func (t RecordType) Valid() bool {
	for _, known := range recordTypes {
		if t == known {
			return true
		}
	}
	return false
}

// RecordStatus is the lifecycle state of a record. Transitions are strictly
// forward: draft -> under-investigation -> resolved or rejected. Resolved and
// rejected are terminal.
type RecordStatus string

const (
	StatusDraft              RecordStatus = "draft"
	StatusUnderInvestigation RecordStatus = "under-investigation"
	StatusResolved           RecordStatus = "resolved"
	StatusRejected           RecordStatus = "rejected"
)

var statusTransitions = map[RecordStatus][]RecordStatus{
	StatusDraft:              {StatusUnderInvestigation},
	StatusUnderInvestigation: {StatusResolved, StatusRejected},
}

func (s RecordStatus) Valid() bool {
	switch s {
	case StatusDraft, StatusUnderInvestigation, StatusResolved, StatusRejected:
		return true
	}
	return false
}

func (s RecordStatus) Terminal() bool {
	return s == StatusResolved || s == StatusRejected
}

// CanTransitionTo reports whether the state machine permits moving from s to
// next. Terminal states permit nothing.
func (s RecordStatus) CanTransitionTo(next RecordStatus) bool {
	for _, allowed := range statusTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// UrgencyLevel ranks how pressing a record is.
type UrgencyLevel string

const (
	UrgencyLow      UrgencyLevel = "low"
	UrgencyMedium   UrgencyLevel = "medium"
	UrgencyHigh     UrgencyLevel = "high"
	UrgencyCritical UrgencyLevel = "critical"
)

func (u UrgencyLevel) Valid() bool {
	switch u {
	case UrgencyLow, UrgencyMedium, UrgencyHigh, UrgencyCritical:
		return true
	}
	return false
}

// Record is a citizen report moving through the investigation lifecycle.
// UserID is nil for anonymous submissions. VoteCount caches the number of
// vote rows and is only ever written by a transactional recount.
type Record struct {
	ID              uuid.UUID    `gorm:"type:uuid;primary_key" json:"id"`
	Type            RecordType   `gorm:"not null" json:"type"`
	Title           string       `gorm:"not null" json:"title"`
	Description     string       `json:"description"`
	Status          RecordStatus `gorm:"default:draft;index" json:"status"`
	Latitude        *float64     `json:"latitude"`
	Longitude       *float64     `json:"longitude"`
	LocationName    string       `json:"location_name"`
	UrgencyLevel    UrgencyLevel `gorm:"default:medium" json:"urgency_level"`
	VoteCount       int          `gorm:"default:0" json:"vote_count"`
	IsAnonymous     bool         `gorm:"default:false" json:"is_anonymous"`
	ResolutionNotes string       `json:"resolution_notes,omitempty"`
	UserID          *uint        `gorm:"index" json:"user_id"`
	User            *User        `gorm:"foreignKey:UserID" json:"-"`
	AssignedAdminID *uint        `json:"assigned_admin_id"`
	Media           []Media      `gorm:"foreignKey:RecordID" json:"media,omitempty"`
	CreatedAt       time.Time    `json:"created_at"`
	UpdatedAt       time.Time    `json:"updated_at"`
}

// CreatorName resolves the display name for owner-facing projections. Public
// projections never call this; they hardcode "Anonymous".
func (r *Record) CreatorName() string {
	if r.IsAnonymous || r.User == nil {
		return "Anonymous"
	}
	return r.User.Fullname
}

// FirstMediaURLs surfaces the record's single active attachment. The table
// allows a collection but the contract treats the first row as the one that
// matters.
func (r *Record) FirstMediaURLs() (imageURL, videoURL string) {
	for _, m := range r.Media {
		switch m.MediaType {
		case MediaTypeImage:
			if imageURL == "" {
				imageURL = m.MediaURL
			}
		case MediaTypeVideo:
			if videoURL == "" {
				videoURL = m.MediaURL
			}
		}
	}
	return imageURL, videoURL
}

// CreateRecordRequest carries both create paths. Field validation lives in
// the service layer so the surfaced messages stay uniform across them.
type CreateRecordRequest struct {
	Type         string   `json:"type"`
	Title        string   `json:"title"`
	Description  string   `json:"description"`
	Latitude     *float64 `json:"latitude"`
	Longitude    *float64 `json:"longitude"`
	LocationName string   `json:"location_name"`
	UrgencyLevel string   `json:"urgency_level"`
	ImageURL     string   `json:"image_url"`
	VideoURL     string   `json:"video_url"`
}

// UpdateRecordRequest is a partial patch: nil fields are untouched. Setting
// both image_url and video_url to empty strings detaches the current media.
type UpdateRecordRequest struct {
	Type         *string  `json:"type"`
	Title        *string  `json:"title"`
	Description  *string  `json:"description"`
	Latitude     *float64 `json:"latitude"`
	Longitude    *float64 `json:"longitude"`
	LocationName *string  `json:"location_name"`
	UrgencyLevel *string  `json:"urgency_level"`
	ImageURL     *string  `json:"image_url"`
	VideoURL     *string  `json:"video_url"`
}

type TransitionStatusRequest struct {
	Status          string `json:"status" binding:"required"`
	Reason          string `json:"reason"`
	ResolutionNotes string `json:"resolution_notes"`
}

// RecordFilters narrows list queries. UserID is honored only on the admin
// view; the owner view pins it to the caller.
type RecordFilters struct {
	Status  string
	Type    string
	Urgency string
	Search  string
	UserID  *uint
}

// RecordResponse is the full projection served to owners and admins.
type RecordResponse struct {
	ID              uuid.UUID    `json:"id"`
	Type            RecordType   `json:"type"`
	Title           string       `json:"title"`
	Description     string       `json:"description"`
	Status          RecordStatus `json:"status"`
	Latitude        *float64     `json:"latitude"`
	Longitude       *float64     `json:"longitude"`
	LocationName    string       `json:"location_name"`
	UrgencyLevel    UrgencyLevel `json:"urgency_level"`
	VoteCount       int          `json:"vote_count"`
	IsAnonymous     bool         `json:"is_anonymous"`
	ResolutionNotes string       `json:"resolution_notes,omitempty"`
	UserID          *uint        `json:"user_id"`
	CreatorName     string       `json:"creator_name"`
	AssignedAdminID *uint        `json:"assigned_admin_id"`
	ImageURL        string       `json:"image_url,omitempty"`
	VideoURL        string       `json:"video_url,omitempty"`
	Media           []Media      `json:"media"`
	CreatedAt       time.Time    `json:"created_at"`
	UpdatedAt       time.Time    `json:"updated_at"`
}

// PublicRecordResponse is the redacted projection for unauthenticated
// consumers: no owner reference, creator always "Anonymous".
type PublicRecordResponse struct {
	ID           uuid.UUID    `json:"id"`
	Type         RecordType   `json:"type"`
	Title        string       `json:"title"`
	Description  string       `json:"description"`
	Status       RecordStatus `json:"status"`
	Latitude     *float64     `json:"latitude"`
	Longitude    *float64     `json:"longitude"`
	LocationName string       `json:"location_name"`
	UrgencyLevel UrgencyLevel `json:"urgency_level"`
	VoteCount    int          `json:"vote_count"`
	CreatorName  string       `json:"creator_name"`
	ImageURL     string       `json:"image_url,omitempty"`
	VideoURL     string       `json:"video_url,omitempty"`
	CreatedAt    time.Time    `json:"created_at"`
}

func (r *Record) Response() RecordResponse {
	imageURL, videoURL := r.FirstMediaURLs()
	media := r.Media
	if media == nil {
		media = []Media{}
	}
	return RecordResponse{
		ID:              r.ID,
		Type:            r.Type,
		Title:           r.Title,
		Description:     r.Description,
		Status:          r.Status,
		Latitude:        r.Latitude,
		Longitude:       r.Longitude,
		LocationName:    r.LocationName,
		UrgencyLevel:    r.UrgencyLevel,
		VoteCount:       r.VoteCount,
		IsAnonymous:     r.IsAnonymous,
		ResolutionNotes: r.ResolutionNotes,
		UserID:          r.UserID,
		CreatorName:     r.CreatorName(),
		AssignedAdminID: r.AssignedAdminID,
		ImageURL:        imageURL,
		VideoURL:        videoURL,
		Media:           media,
		CreatedAt:       r.CreatedAt,
		UpdatedAt:       r.UpdatedAt,
	}
}

func (r *Record) PublicResponse() PublicRecordResponse {
	imageURL, videoURL := r.FirstMediaURLs()
	return PublicRecordResponse{
		ID:           r.ID,
		Type:         r.Type,
		Title:        r.Title,
		Description:  r.Description,
		Status:       r.Status,
		Latitude:     r.Latitude,
		Longitude:    r.Longitude,
		LocationName: r.LocationName,
		UrgencyLevel: r.UrgencyLevel,
		VoteCount:    r.VoteCount,
		CreatorName:  "Anonymous",
		ImageURL:     imageURL,
		VideoURL:     videoURL,
		CreatedAt:    r.CreatedAt,
	}
}

// AnonymousReportResponse pairs the created record with the tracking token a
// submitter keeps to follow up on it.
type AnonymousReportResponse struct {
	TrackingToken string               `json:"tracking_token"`
	Record        PublicRecordResponse `json:"record"`
}

// RecordStats is the admin dashboard summary.
type RecordStats struct {
	TotalRecords int64            `json:"total_records"`
	StatusCounts map[string]int64 `json:"status_counts"`
	TypeCounts   map[string]int64 `json:"type_counts"`
	TotalVotes   int64            `json:"total_votes"`
	TotalUsers   int64            `json:"total_users"`
}
