package services

import (
	"testing"

	"github.com/google/uuid"
	"github.com/jisetihq/jiseti/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// fakeVoteRepo mimics the upsert-and-recount contract in memory.
type fakeVoteRepo struct {
	knownRecords map[uuid.UUID]bool
	votes        map[uuid.UUID]map[uint]models.VoteType
}

func newFakeVoteRepo(recordIDs ...uuid.UUID) *fakeVoteRepo {
	known := make(map[uuid.UUID]bool)
	for _, id := range recordIDs {
		known[id] = true
	}
	return &fakeVoteRepo{
		knownRecords: known,
		votes:        make(map[uuid.UUID]map[uint]models.VoteType),
	}
}

func (f *fakeVoteRepo) CastVote(recordID uuid.UUID, userID uint, voteType models.VoteType) (*models.Vote, int64, error) {
	if !f.knownRecords[recordID] {
		return nil, 0, gorm.ErrRecordNotFound
	}
	if f.votes[recordID] == nil {
		f.votes[recordID] = make(map[uint]models.VoteType)
	}
	f.votes[recordID][userID] = voteType
	return &models.Vote{RecordID: recordID, UserID: userID, VoteType: voteType}, int64(len(f.votes[recordID])), nil
}

func (f *fakeVoteRepo) RetractVote(recordID uuid.UUID, userID uint) (int64, error) {
	if _, ok := f.votes[recordID][userID]; !ok {
		return 0, gorm.ErrRecordNotFound
	}
	delete(f.votes[recordID], userID)
	return int64(len(f.votes[recordID])), nil
}

func (f *fakeVoteRepo) GetVote(recordID uuid.UUID, userID uint) (*models.Vote, error) {
	voteType, ok := f.votes[recordID][userID]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &models.Vote{RecordID: recordID, UserID: userID, VoteType: voteType}, nil
}

func (f *fakeVoteRepo) CountVotes(recordID uuid.UUID) (int64, error) {
	return int64(len(f.votes[recordID])), nil
}

func TestCastVote(t *testing.T) {
	recordID := uuid.New()

	t.Run("anonymous actors cannot vote", func(t *testing.T) {
		svc := NewVoteService(newFakeVoteRepo(recordID))
		_, err := svc.CastVote(models.AnonymousActor(), recordID, &models.CastVoteRequest{})
		require.NotNil(t, err)
		assert.Equal(t, 401, err.Status)
	})

	t.Run("admins cannot vote", func(t *testing.T) {
		svc := NewVoteService(newFakeVoteRepo(recordID))
		_, err := svc.CastVote(models.AdminActor(1), recordID, &models.CastVoteRequest{})
		require.NotNil(t, err)
		assert.Equal(t, 403, err.Status)
	})

	t.Run("empty vote type defaults to support", func(t *testing.T) {
		svc := NewVoteService(newFakeVoteRepo(recordID))
		resp, err := svc.CastVote(models.UserActor(7), recordID, &models.CastVoteRequest{})
		require.Nil(t, err)
		assert.Equal(t, models.VoteSupport, resp.VoteType)
		assert.Equal(t, 1, resp.VoteCount)
	})

	t.Run("invalid vote type is rejected", func(t *testing.T) {
		svc := NewVoteService(newFakeVoteRepo(recordID))
		_, err := svc.CastVote(models.UserActor(7), recordID, &models.CastVoteRequest{VoteType: "angry"})
		require.NotNil(t, err)
		assert.Equal(t, 400, err.Status)
	})

	t.Run("unknown record is a 404", func(t *testing.T) {
		svc := NewVoteService(newFakeVoteRepo())
		_, err := svc.CastVote(models.UserActor(7), recordID, &models.CastVoteRequest{VoteType: "support"})
		require.NotNil(t, err)
		assert.Equal(t, 404, err.Status)
	})

	t.Run("re-voting updates in place without stacking", func(t *testing.T) {
		repo := newFakeVoteRepo(recordID)
		svc := NewVoteService(repo)

		_, err := svc.CastVote(models.UserActor(7), recordID, &models.CastVoteRequest{VoteType: "support"})
		require.Nil(t, err)
		resp, err := svc.CastVote(models.UserActor(7), recordID, &models.CastVoteRequest{VoteType: "urgent"})
		require.Nil(t, err)

		assert.Equal(t, models.VoteUrgent, resp.VoteType)
		assert.Equal(t, 1, resp.VoteCount)
	})

	t.Run("votes from different users accumulate", func(t *testing.T) {
		svc := NewVoteService(newFakeVoteRepo(recordID))
		_, err := svc.CastVote(models.UserActor(7), recordID, &models.CastVoteRequest{VoteType: "support"})
		require.Nil(t, err)
		resp, err := svc.CastVote(models.UserActor(8), recordID, &models.CastVoteRequest{VoteType: "urgent"})
		require.Nil(t, err)
		assert.Equal(t, 2, resp.VoteCount)
	})
}

func TestRetractVote(t *testing.T) {
	recordID := uuid.New()

	t.Run("admins cannot retract either", func(t *testing.T) {
		svc := NewVoteService(newFakeVoteRepo(recordID))
		_, err := svc.RetractVote(models.AdminActor(1), recordID)
		require.NotNil(t, err)
		assert.Equal(t, 403, err.Status)
	})

	t.Run("retracting without a vote is a 404", func(t *testing.T) {
		svc := NewVoteService(newFakeVoteRepo(recordID))
		_, err := svc.RetractVote(models.UserActor(7), recordID)
		require.NotNil(t, err)
		assert.Equal(t, 404, err.Status)
	})

	t.Run("retract removes the vote and recounts", func(t *testing.T) {
		svc := NewVoteService(newFakeVoteRepo(recordID))
		_, err := svc.CastVote(models.UserActor(7), recordID, &models.CastVoteRequest{VoteType: "support"})
		require.Nil(t, err)

		resp, err := svc.RetractVote(models.UserActor(7), recordID)
		require.Nil(t, err)
		assert.Equal(t, 0, resp.VoteCount)
	})
}
