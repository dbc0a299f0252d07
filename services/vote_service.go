package services

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/jisetihq/jiseti/db"
	apiError "github.com/jisetihq/jiseti/errors"
	"github.com/jisetihq/jiseti/models"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// VoteService handles casting and retracting votes. A user holds at most one
// vote per record; repeating a cast with a different type re-types the
// existing vote instead of stacking a second one.
type VoteService interface {
	CastVote(actor models.Actor, recordID uuid.UUID, req *models.CastVoteRequest) (*models.CastVoteResponse, *apiError.Error)
	RetractVote(actor models.Actor, recordID uuid.UUID) (*models.CastVoteResponse, *apiError.Error)
}

type voteService struct {
	voteRepo db.VoteRepository
}

func NewVoteService(voteRepo db.VoteRepository) VoteService {
	return &voteService{voteRepo: voteRepo}
}

func (s *voteService) CastVote(actor models.Actor, recordID uuid.UUID, req *models.CastVoteRequest) (*models.CastVoteResponse, *apiError.Error) {
	if apiErr := requireVoter(actor); apiErr != nil {
		return nil, apiErr
	}

	voteType := models.VoteSupport
	if req != nil && req.VoteType != "" {
		voteType = models.VoteType(req.VoteType)
		if !voteType.Valid() {
			return nil, apiError.New("vote type must be one of: support, urgent", http.StatusBadRequest)
		}
	}

	vote, count, err := s.voteRepo.CastVote(recordID, actor.ID, voteType)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apiError.New("record not found", http.StatusNotFound)
		}
		log.Printf("error casting vote on record %s: %v", recordID, err)
		return nil, apiError.ErrInternalServerError
	}

	return &models.CastVoteResponse{
		RecordID:  recordID,
		VoteType:  vote.VoteType,
		VoteCount: int(count),
	}, nil
}

// requireVoter distinguishes the two non-voter cases: anonymous callers need
// to authenticate, admins are simply not allowed to vote.
func requireVoter(actor models.Actor) *apiError.Error {
	if actor.IsAnonymous() {
		return apiError.New("authentication required", http.StatusUnauthorized)
	}
	if !actor.CanVote() {
		return apiError.New("only users can vote", http.StatusForbidden)
	}
	return nil
}

func (s *voteService) RetractVote(actor models.Actor, recordID uuid.UUID) (*models.CastVoteResponse, *apiError.Error) {
	if apiErr := requireVoter(actor); apiErr != nil {
		return nil, apiErr
	}

	count, err := s.voteRepo.RetractVote(recordID, actor.ID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apiError.New("no vote to retract on this record", http.StatusNotFound)
		}
		log.Printf("error retracting vote on record %s: %v", recordID, err)
		return nil, apiError.ErrInternalServerError
	}

	return &models.CastVoteResponse{
		RecordID:  recordID,
		VoteCount: int(count),
	}, nil
}
