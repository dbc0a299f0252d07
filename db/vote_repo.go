package db

import (
	"github.com/google/uuid"
	"github.com/jisetihq/jiseti/models"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type VoteRepository interface {
	CastVote(recordID uuid.UUID, userID uint, voteType models.VoteType) (*models.Vote, int64, error)
	RetractVote(recordID uuid.UUID, userID uint) (int64, error)
	GetVote(recordID uuid.UUID, userID uint) (*models.Vote, error)
	CountVotes(recordID uuid.UUID) (int64, error)
}

type voteRepo struct {
	DB *gorm.DB
}

func NewVoteRepo(db *GormDB) VoteRepository {
	return &voteRepo{db.DB}
}

// CastVote records or updates the caller's vote and refreshes the cached
// vote_count from a live count of vote rows, all in one transaction. The
// record row is locked first so concurrent casts serialize and the count
// written last always matches the rows that exist.
func (v *voteRepo) CastVote(recordID uuid.UUID, userID uint, voteType models.VoteType) (*models.Vote, int64, error) {
	tx := v.DB.Begin()
	if tx.Error != nil {
		return nil, 0, errors.Wrap(tx.Error, "failed to begin transaction")
	}

	var record models.Record
	if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).Where("id = ?", recordID).First(&record).Error; err != nil {
		tx.Rollback()
		return nil, 0, err
	}

	var vote models.Vote
	err := tx.Where("record_id = ? AND user_id = ?", recordID, userID).First(&vote).Error
	switch {
	case err == nil:
		if vote.VoteType != voteType {
			if err := tx.Model(&vote).Update("vote_type", voteType).Error; err != nil {
				tx.Rollback()
				log.Printf("error updating vote type: %v", err)
				return nil, 0, errors.Wrap(err, "failed to update vote")
			}
			vote.VoteType = voteType
		}
	case errors.Is(err, gorm.ErrRecordNotFound):
		vote = models.Vote{
			ID:       uuid.New(),
			RecordID: recordID,
			UserID:   userID,
			VoteType: voteType,
		}
		if err := tx.Create(&vote).Error; err != nil {
			tx.Rollback()
			log.Printf("error creating vote: %v", err)
			return nil, 0, errors.Wrap(err, "failed to create vote")
		}
	default:
		tx.Rollback()
		return nil, 0, errors.Wrap(err, "failed to look up vote")
	}

	count, err := refreshVoteCount(tx, recordID)
	if err != nil {
		tx.Rollback()
		return nil, 0, err
	}

	if err := tx.Commit().Error; err != nil {
		return nil, 0, err
	}
	return &vote, count, nil
}

// RetractVote deletes the caller's vote and refreshes the cached count the
// same way CastVote does. Returns gorm.ErrRecordNotFound when there is no
// vote to retract.
func (v *voteRepo) RetractVote(recordID uuid.UUID, userID uint) (int64, error) {
	tx := v.DB.Begin()
	if tx.Error != nil {
		return 0, errors.Wrap(tx.Error, "failed to begin transaction")
	}

	var record models.Record
	if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).Where("id = ?", recordID).First(&record).Error; err != nil {
		tx.Rollback()
		return 0, err
	}

	var vote models.Vote
	if err := tx.Where("record_id = ? AND user_id = ?", recordID, userID).First(&vote).Error; err != nil {
		tx.Rollback()
		return 0, err
	}

	if err := tx.Delete(&vote).Error; err != nil {
		tx.Rollback()
		log.Printf("error deleting vote: %v", err)
		return 0, errors.Wrap(err, "failed to delete vote")
	}

	count, err := refreshVoteCount(tx, recordID)
	if err != nil {
		tx.Rollback()
		return 0, err
	}

	if err := tx.Commit().Error; err != nil {
		return 0, err
	}
	return count, nil
}

// refreshVoteCount recomputes vote_count from the vote rows inside the
// caller's transaction. The cache is never adjusted incrementally.
func refreshVoteCount(tx *gorm.DB, recordID uuid.UUID) (int64, error) {
	var count int64
	if err := tx.Model(&models.Vote{}).Where("record_id = ?", recordID).Count(&count).Error; err != nil {
		log.Printf("error counting votes: %v", err)
		return 0, errors.Wrap(err, "failed to count votes")
	}
	if err := tx.Model(&models.Record{}).Where("id = ?", recordID).Update("vote_count", count).Error; err != nil {
		log.Printf("error updating vote count: %v", err)
		return 0, errors.Wrap(err, "failed to update vote count")
	}
	return count, nil
}

func (v *voteRepo) GetVote(recordID uuid.UUID, userID uint) (*models.Vote, error) {
	var vote models.Vote
	err := v.DB.Where("record_id = ? AND user_id = ?", recordID, userID).First(&vote).Error
	if err != nil {
		return nil, err
	}
	return &vote, nil
}

func (v *voteRepo) CountVotes(recordID uuid.UUID) (int64, error) {
	var count int64
	err := v.DB.Model(&models.Vote{}).Where("record_id = ?", recordID).Count(&count).Error
	return count, err
}
