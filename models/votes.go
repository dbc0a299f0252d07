package models

import (
	"time"

	"github.com/google/uuid"
)

// VoteType is what a vote expresses about a record.
type VoteType string

const (
	VoteSupport VoteType = "support"
	VoteUrgent  VoteType = "urgent"
)

func (v VoteType) Valid() bool {
	return v == VoteSupport || v == VoteUrgent
}

// Vote is one user's standing vote on one record. The unique index makes the
// at-most-one-vote-per-pair rule a database invariant; casting again updates
// the row in place.
type Vote struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	RecordID  uuid.UUID `gorm:"type:uuid;uniqueIndex:idx_votes_record_user;not null" json:"record_id"`
	UserID    uint      `gorm:"uniqueIndex:idx_votes_record_user;not null" json:"user_id"`
	VoteType  VoteType  `gorm:"default:support" json:"vote_type"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type CastVoteRequest struct {
	VoteType string `json:"vote_type"`
}

type CastVoteResponse struct {
	RecordID  uuid.UUID `json:"record_id"`
	VoteType  VoteType  `json:"vote_type"`
	VoteCount int       `json:"vote_count"`
}
