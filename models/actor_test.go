package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestActorCapabilities(t *testing.T) {
	ownerID := uint(7)
	otherID := uint(8)
	owned := &Record{UserID: &ownerID}
	anonymous := &Record{IsAnonymous: true}

	t.Run("anonymous actor", func(t *testing.T) {
		actor := AnonymousActor()
		assert.True(t, actor.IsAnonymous())
		assert.False(t, actor.CanCreateRecord())
		assert.False(t, actor.CanVote())
		assert.False(t, actor.CanTransitionStatus())
		assert.False(t, actor.CanModifyRecord(owned))
		assert.False(t, actor.CanViewFullRecord(owned))
	})

	t.Run("owning user", func(t *testing.T) {
		actor := UserActor(ownerID)
		assert.True(t, actor.CanCreateRecord())
		assert.True(t, actor.CanVote())
		assert.True(t, actor.Owns(owned))
		assert.True(t, actor.CanModifyRecord(owned))
		assert.True(t, actor.CanViewFullRecord(owned))
		assert.True(t, actor.CanViewHistory(owned))
		assert.False(t, actor.CanTransitionStatus())
		assert.False(t, actor.CanViewAllRecords())
	})

	t.Run("non-owning user", func(t *testing.T) {
		actor := UserActor(otherID)
		assert.False(t, actor.Owns(owned))
		assert.False(t, actor.CanModifyRecord(owned))
		assert.False(t, actor.CanViewFullRecord(owned))
	})

	t.Run("admin", func(t *testing.T) {
		actor := AdminActor(otherID)
		assert.True(t, actor.IsAdmin())
		assert.True(t, actor.CanTransitionStatus())
		assert.True(t, actor.CanViewAllRecords())
		assert.True(t, actor.CanViewFullRecord(owned))
		assert.True(t, actor.CanViewHistory(owned))
		// Admins do not edit other people's drafts, and they do not vote.
		assert.False(t, actor.CanModifyRecord(owned))
		assert.False(t, actor.CanVote())
	})

	t.Run("nobody owns an anonymous record", func(t *testing.T) {
		assert.False(t, UserActor(ownerID).Owns(anonymous))
		assert.False(t, AdminActor(otherID).CanModifyRecord(anonymous))
	})
}
