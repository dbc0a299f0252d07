package models

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestRecordStatusTransitions(t *testing.T) {
	tests := []struct {
		name    string
		from    RecordStatus
		to      RecordStatus
		allowed bool
	}{
		{"draft to under-investigation", StatusDraft, StatusUnderInvestigation, true},
		{"draft to resolved skips investigation", StatusDraft, StatusResolved, false},
		{"draft to rejected skips investigation", StatusDraft, StatusRejected, false},
		{"under-investigation to resolved", StatusUnderInvestigation, StatusResolved, true},
		{"under-investigation to rejected", StatusUnderInvestigation, StatusRejected, true},
		{"under-investigation back to draft", StatusUnderInvestigation, StatusDraft, false},
		{"resolved is terminal", StatusResolved, StatusUnderInvestigation, false},
		{"resolved to rejected", StatusResolved, StatusRejected, false},
		{"rejected is terminal", StatusRejected, StatusUnderInvestigation, false},
		{"rejected to resolved", StatusRejected, StatusResolved, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.allowed, tt.from.CanTransitionTo(tt.to))
		})
	}
}

func TestRecordStatusTerminal(t *testing.T) {
	assert.False(t, StatusDraft.Terminal())
	assert.False(t, StatusUnderInvestigation.Terminal())
	assert.True(t, StatusResolved.Terminal())
	assert.True(t, StatusRejected.Terminal())
}

func TestRecordTypeValid(t *testing.T) {
	for _, valid := range []RecordType{RecordTypeRedFlag, RecordTypeIntervention, RecordTypeIncident, RecordTypeComplaint, RecordTypeSuggestion, RecordTypeEmergency} {
		assert.True(t, valid.Valid(), string(valid))
	}
	assert.False(t, RecordType("").Valid())
	assert.False(t, RecordType("rant").Valid())
}

func TestUrgencyLevelValid(t *testing.T) {
	for _, valid := range []UrgencyLevel{UrgencyLow, UrgencyMedium, UrgencyHigh, UrgencyCritical} {
		assert.True(t, valid.Valid(), string(valid))
	}
	assert.False(t, UrgencyLevel("panic").Valid())
}

func TestPublicResponseRedactsOwnership(t *testing.T) {
	userID := uint(42)
	record := &Record{
		ID:          uuid.New(),
		Type:        RecordTypeRedFlag,
		Title:       "Bribe at checkpoint",
		Status:      StatusUnderInvestigation,
		UserID:      &userID,
		IsAnonymous: false,
		User:        &User{Fullname: "Jane Citizen"},
	}

	public := record.PublicResponse()
	assert.Equal(t, "Anonymous", public.CreatorName)

	// The full projection, by contrast, names the owner.
	full := record.Response()
	assert.Equal(t, "Jane Citizen", full.CreatorName)
	assert.Equal(t, &userID, full.UserID)
}

func TestCreatorNameForAnonymousRecord(t *testing.T) {
	record := &Record{IsAnonymous: true}
	assert.Equal(t, "Anonymous", record.CreatorName())
}

func TestFirstMediaURLs(t *testing.T) {
	record := &Record{
		Media: []Media{
			{MediaType: MediaTypeImage, MediaURL: "https://cdn.example.com/a.jpg"},
			{MediaType: MediaTypeImage, MediaURL: "https://cdn.example.com/b.jpg"},
			{MediaType: MediaTypeVideo, MediaURL: "https://cdn.example.com/c.mp4"},
		},
	}
	imageURL, videoURL := record.FirstMediaURLs()
	assert.Equal(t, "https://cdn.example.com/a.jpg", imageURL)
	assert.Equal(t, "https://cdn.example.com/c.mp4", videoURL)

	empty := &Record{}
	imageURL, videoURL = empty.FirstMediaURLs()
	assert.Empty(t, imageURL)
	assert.Empty(t, videoURL)
}
